// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/advisor-match/internal/oracle"
	"github.com/pdiddy/advisor-match/pkg/types"
)

func professor(name string, pubs ...string) types.ProfessorProfile {
	p := types.ProfessorProfile{
		ID:              uuid.New(),
		Name:            name,
		Title:           "Professor",
		Department:      "Computer Science",
		ResearchAreas:   []string{"machine learning"},
		CitationMetrics: &types.CitationMetrics{HIndex: 12},
	}
	for _, title := range pubs {
		p.Publications = append(p.Publications, types.Publication{Title: title, Year: 2025})
	}
	return p
}

func entryJSON(id uuid.UUID, score float64, pubTitles ...string) string {
	titles := make([]string, len(pubTitles))
	for i, t := range pubTitles {
		titles[i] = fmt.Sprintf("%q", t)
	}
	return fmt.Sprintf(`{"professor_id": %q, "match_score": %v,
		"alignment_reasons": ["overlap", "active"],
		"relevant_publication_titles": [%s],
		"shared_keywords": ["ml"],
		"recommendation_text": "Strong fit."}`,
		id, score, strings.Join(titles, ", "))
}

func newTestRanker(backend oracle.Backend) *Ranker {
	return New(nil, backend, 10, zap.NewNop())
}

func TestRankEmptyProfessors(t *testing.T) {
	r := newTestRanker(oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		t.Error("model consulted with no professors")
		return "", nil
	}))
	got := r.Rank(context.Background(), nil, []string{"ai"}, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil list", got)
	}
}

func TestRankSortsDescendingAndResolvesIDs(t *testing.T) {
	profA := professor("Prof A", "Paper One", "Paper Two")
	profB := professor("Prof B", "Paper Three")

	var sawPrompt string
	backend := oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		sawPrompt = prompt
		// Model answers A-then-B, with B the higher score, plus one
		// unknown id and one invented publication title.
		return fmt.Sprintf("Here you go:\n[%s, %s, %s]",
			entryJSON(profA.ID, 80, "Paper Two", "Invented Paper"),
			entryJSON(profB.ID, 95, "Paper Three"),
			entryJSON(uuid.New(), 99),
		), nil
	})
	r := newTestRanker(backend)

	student := &types.StudentProfile{
		Skills:            []string{"go"},
		ExtractedKeywords: []string{"ml", "systems"},
	}
	got := r.Rank(context.Background(),
		[]types.ProfessorProfile{profA, profB}, []string{"ai"}, student)

	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2 (unknown id dropped)", len(got))
	}
	if got[0].Professor.Name != "Prof B" || got[1].Professor.Name != "Prof A" {
		t.Errorf("order = %s, %s; want descending by score",
			got[0].Professor.Name, got[1].Professor.Name)
	}
	if len(got[1].RelevantPublications) != 1 || got[1].RelevantPublications[0].Title != "Paper Two" {
		t.Errorf("relevant publications = %+v, want exact-title matches only",
			got[1].RelevantPublications)
	}
	if !strings.Contains(sawPrompt, profA.ID.String()) {
		t.Error("prompt missing professor id")
	}
	if !strings.Contains(sawPrompt, `"h_index": 12`) {
		t.Error("prompt missing h-index in professor summary")
	}
	if !strings.Contains(sawPrompt, "Student Background:") {
		t.Error("prompt missing student block")
	}
}

func TestRankStableOnTiedScores(t *testing.T) {
	profs := []types.ProfessorProfile{
		professor("First"), professor("Second"), professor("Third"),
	}
	backend := oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		return fmt.Sprintf("[%s, %s, %s]",
			entryJSON(profs[0].ID, 70),
			entryJSON(profs[1].ID, 70),
			entryJSON(profs[2].ID, 70)), nil
	})
	got := newTestRanker(backend).Rank(context.Background(), profs, []string{"ai"}, nil)
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3", len(got))
	}
	for i, name := range []string{"First", "Second", "Third"} {
		if got[i].Professor.Name != name {
			t.Errorf("match %d = %q, want %q (tied scores keep model order)",
				i, got[i].Professor.Name, name)
		}
	}
}

func TestRankCapsEntries(t *testing.T) {
	profs := make([]types.ProfessorProfile, 12)
	var entries []string
	for i := range profs {
		profs[i] = professor(fmt.Sprintf("Prof %02d", i))
		entries = append(entries, entryJSON(profs[i].ID, float64(50+i)))
	}
	backend := oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		return "[" + strings.Join(entries, ", ") + "]", nil
	})
	got := newTestRanker(backend).Rank(context.Background(), profs, []string{"ai"}, nil)
	if len(got) != 10 {
		t.Errorf("got %d matches, want cap of 10", len(got))
	}
}

func TestRankDegradesOnBadAnswers(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		err    error
	}{
		{name: "prose only", answer: "I cannot rank these."},
		{name: "object not array", answer: `{"professor_id": "x"}`},
		{name: "model error", err: fmt.Errorf("deadline exceeded")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := oracle.Func(func(ctx context.Context, prompt string) (string, error) {
				return tc.answer, tc.err
			})
			got := newTestRanker(backend).Rank(context.Background(),
				[]types.ProfessorProfile{professor("Prof A")}, []string{"ai"}, nil)
			if got == nil || len(got) != 0 {
				t.Errorf("got %v, want empty non-nil list", got)
			}
		})
	}
}
