// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match ranks enriched professor profiles against a student's
// interests and backfills citation metrics on the final matches.
package match

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"github.com/pdiddy/advisor-match/internal/gateway"
	"github.com/pdiddy/advisor-match/internal/jsonx"
	"github.com/pdiddy/advisor-match/internal/oracle"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// DefaultMaxMatches caps the ranked output.
const DefaultMaxMatches = 10

// Ranker scores professors against a student with a single model call.
type Ranker struct {
	gw      *gateway.Client
	backend oracle.Backend
	max     int
	log     *zap.Logger
}

// New returns a Ranker. A max of zero or less falls back to
// DefaultMaxMatches.
func New(gw *gateway.Client, backend oracle.Backend, max int, logger *zap.Logger) *Ranker {
	if max <= 0 {
		max = DefaultMaxMatches
	}
	return &Ranker{gw: gw, backend: backend, max: max, log: logger}
}

// rankedEntry is one element of the model's answer array.
type rankedEntry struct {
	ProfessorID               string   `json:"professor_id"`
	MatchScore                float64  `json:"match_score"`
	AlignmentReasons          []string `json:"alignment_reasons"`
	RelevantPublicationTitles []string `json:"relevant_publication_titles"`
	SharedKeywords            []string `json:"shared_keywords"`
	RecommendationText        string   `json:"recommendation_text"`
}

// Rank asks the model to score every professor and returns the matches
// sorted by descending score, capped at max. The sort is stable, so tied
// scores keep the model's relative order. Any ranking failure, from the
// call itself to an unparseable answer, degrades to an empty list rather
// than an error: no matches is a valid outcome, a dead pipeline is not.
func (r *Ranker) Rank(ctx context.Context, professors []types.ProfessorProfile, interests []string, student *types.StudentProfile) []types.MatchResult {
	if len(professors) == 0 {
		return []types.MatchResult{}
	}

	prompt, err := rankingPrompt(professors, interests, student, r.max)
	if err != nil {
		r.log.Warn("match: prompt construction failed", zap.Error(err))
		return []types.MatchResult{}
	}
	answer, err := r.backend.Generate(ctx, prompt)
	if err != nil {
		r.log.Warn("match: model call failed", zap.Error(err))
		return []types.MatchResult{}
	}

	raw, ok := jsonx.FirstArray(answer)
	if !ok {
		r.log.Warn("match: no JSON array in model answer")
		return []types.MatchResult{}
	}
	var entries []rankedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		r.log.Warn("match: unparseable model answer", zap.Error(err))
		return []types.MatchResult{}
	}
	if len(entries) > r.max {
		entries = entries[:r.max]
	}

	byID := make(map[string]*types.ProfessorProfile, len(professors))
	for i := range professors {
		byID[professors[i].ID.String()] = &professors[i]
	}

	matches := make([]types.MatchResult, 0, len(entries))
	for _, entry := range entries {
		prof, ok := byID[entry.ProfessorID]
		if !ok {
			r.log.Warn("match: unknown professor id in model answer",
				zap.String("professor_id", entry.ProfessorID))
			continue
		}
		matches = append(matches, types.MatchResult{
			Professor:            *prof,
			MatchScore:           entry.MatchScore,
			AlignmentReasons:     entry.AlignmentReasons,
			RelevantPublications: relevantPublications(prof.Publications, entry.RelevantPublicationTitles),
			SharedKeywords:       entry.SharedKeywords,
			RecommendationText:   entry.RecommendationText,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	r.log.Info("match: ranked", zap.Int("professors", len(professors)),
		zap.Int("matches", len(matches)))
	return matches
}

// relevantPublications selects the professor's own publications whose
// titles the model named, by exact string match. Titles the model
// invented select nothing.
func relevantPublications(pubs []types.Publication, titles []string) []types.Publication {
	wanted := make(map[string]bool, len(titles))
	for _, t := range titles {
		wanted[t] = true
	}
	var out []types.Publication
	for _, p := range pubs {
		if wanted[p.Title] {
			out = append(out, p)
		}
	}
	return out
}
