// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// Backfill fetches real citation metrics for the final matches only,
// bounding the scrape cost to the handful of professors the student will
// actually see. Per match, concurrently: find a Google Scholar URL by
// name and domain if none is known, scrape metrics from it, and fall back
// to the scholarly-graph metrics endpoint when no URL turns up but a
// scholar id is known. Metrics are overwritten only on success. Failures
// are swallowed per match; membership and order never change.
func (r *Ranker) Backfill(ctx context.Context, matches []types.MatchResult, university string) {
	domain := bareDomain(university)

	var g errgroup.Group
	for i := range matches {
		g.Go(func() error {
			r.backfillOne(ctx, &matches[i], domain)
			return nil
		})
	}
	g.Wait()
}

func (r *Ranker) backfillOne(ctx context.Context, m *types.MatchResult, domain string) {
	prof := &m.Professor

	if prof.GoogleScholarURL == "" {
		if url := r.gw.Search().FindGoogleScholarURL(ctx, prof.Name, domain); url != "" {
			prof.GoogleScholarURL = url
		}
	}

	if prof.GoogleScholarURL != "" {
		if metrics, ok := r.gw.Scholar().ScrapeGoogleScholarMetrics(ctx, prof.GoogleScholarURL); ok {
			prof.CitationMetrics = &metrics
			return
		}
	}
	if prof.ScholarID != "" {
		if metrics, ok := r.gw.Scholar().GetCitationMetrics(ctx, prof.ScholarID); ok {
			prof.CitationMetrics = &metrics
		}
	}
	r.log.Debug("match: backfill finished", zap.String("name", prof.Name))
}

// bareDomain strips the scheme, path, and any leading "www." from a
// university URL or hostname.
func bareDomain(university string) string {
	s := strings.TrimPrefix(university, "https://")
	s = strings.TrimPrefix(s, "http://")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, "www.")
}
