// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"sort"
	"strings"
)

// frequencyCap bounds the deterministic fallback's output.
const frequencyCap = 10

// titleStopwords are tokens too generic to name a research area. Tokens
// of three characters or fewer are dropped before this set applies.
var titleStopwords = map[string]bool{
	"with": true, "from": true, "using": true, "based": true,
	"toward": true, "towards": true, "through": true, "between": true,
	"their": true, "these": true, "those": true, "that": true,
	"this": true, "into": true, "over": true, "under": true,
	"when": true, "where": true, "which": true, "while": true,
	"study": true, "analysis": true, "approach": true, "method": true,
	"methods": true, "review": true, "survey": true, "case": true,
	"novel": true, "framework": true, "model": true, "models": true,
	"evaluation": true, "effects": true, "effect": true, "role": true,
}

// frequencyAreas is the deterministic fallback for research-area
// extraction: lowercase the titles, strip punctuation, drop short tokens
// and stopwords, and rank the rest by frequency. Ties break
// alphabetically so the output is stable across runs.
func frequencyAreas(titles []string) []string {
	counts := make(map[string]int)
	for _, title := range titles {
		for _, tok := range strings.Fields(strings.ToLower(title)) {
			tok = strings.TrimFunc(tok, func(r rune) bool {
				return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
			})
			if len(tok) <= 3 || titleStopwords[tok] {
				continue
			}
			counts[tok]++
		}
	}

	tokens := make([]string, 0, len(counts))
	for tok := range counts {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})

	if len(tokens) > frequencyCap {
		tokens = tokens[:frequencyCap]
	}
	return tokens
}
