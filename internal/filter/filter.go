// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter trims an oversized faculty candidate list down to the
// members most relevant to the student's interests before the expensive
// enrichment stage runs.
package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/advisor-match/internal/jsonx"
	"github.com/pdiddy/advisor-match/internal/oracle"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// DefaultMaxCandidates is the list size above which filtering kicks in.
// At or below it the candidate list passes through untouched.
const DefaultMaxCandidates = 30

// Filter selects relevant candidates with a language-model pass.
type Filter struct {
	backend oracle.Backend
	max     int
	log     *zap.Logger
}

// New returns a Filter. A max of zero or less falls back to
// DefaultMaxCandidates.
func New(backend oracle.Backend, max int, logger *zap.Logger) *Filter {
	if max <= 0 {
		max = DefaultMaxCandidates
	}
	return &Filter{backend: backend, max: max, log: logger}
}

// Relevant returns the candidates worth enriching. Lists of max or fewer
// entries are returned unchanged without consulting the model. Larger
// lists are summarized for the model, which answers with the indices to
// keep; a failed or unparseable answer degrades to the first max entries.
func (f *Filter) Relevant(ctx context.Context, candidates []types.FacultyCandidate, interests []string) []types.FacultyCandidate {
	if len(candidates) <= f.max {
		return candidates
	}

	prompt := filterPrompt(candidates, interests, f.max)
	answer, err := f.backend.Generate(ctx, prompt)
	if err != nil {
		f.log.Warn("filter: model call failed, keeping first candidates",
			zap.Int("kept", f.max), zap.Error(err))
		return candidates[:f.max]
	}

	indices, ok := parseIndices(answer)
	if !ok || len(indices) == 0 {
		f.log.Warn("filter: unparseable model answer, keeping first candidates",
			zap.Int("kept", f.max))
		return candidates[:f.max]
	}

	var kept []types.FacultyCandidate
	seen := make(map[int]bool)
	for _, idx := range indices {
		if idx < 0 || idx >= len(candidates) || seen[idx] {
			continue
		}
		seen[idx] = true
		kept = append(kept, candidates[idx])
		if len(kept) == f.max {
			break
		}
	}
	if len(kept) == 0 {
		return candidates[:f.max]
	}

	f.log.Info("filter: model selected candidates",
		zap.Int("from", len(candidates)), zap.Int("kept", len(kept)))
	return kept
}

// filterPrompt renders the candidate roster and interests into the
// selection prompt.
func filterPrompt(candidates []types.FacultyCandidate, interests []string, max int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A graduate student is looking for research advisors in: %s.\n\n",
		strings.Join(interests, ", "))
	b.WriteString("Below is a numbered faculty roster. Select the members whose title and department suggest relevant research.\n\n")
	for i, c := range candidates {
		title := c.Title
		if title == "" {
			title = "Unknown title"
		}
		dept := c.Department
		if dept == "" {
			dept = "Unknown department"
		}
		fmt.Fprintf(&b, "[%d] %s - %s (%s)\n", i, c.Name, title, dept)
	}
	fmt.Fprintf(&b, "\nRespond with a JSON array of at most %d indices, most relevant first, e.g. [4, 0, 17]. No other text.\n", max)
	return b.String()
}

// parseIndices extracts the index array from a model answer that may wrap
// it in prose or a code fence.
func parseIndices(answer string) ([]int, bool) {
	raw, ok := jsonx.FirstArray(answer)
	if !ok {
		return nil, false
	}
	var indices []int
	if err := json.Unmarshal(raw, &indices); err != nil {
		return nil, false
	}
	return indices, true
}
