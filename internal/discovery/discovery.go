// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discovery resolves a university and a set of research interests
// into a deduplicated list of named faculty candidates.
package discovery

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/advisor-match/internal/gateway"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// maxInterests bounds the web-search fan-out: only the first three
// interests drive discovery.
const maxInterests = 3

// directoryKeywords mark a university URL whose path already points at a
// faculty listing; such URLs are used as-is instead of searched for.
var directoryKeywords = []string{"faculty", "staff", "people", "directory", "team", "professors"}

// Discoverer finds faculty candidates through the web-search and
// directory-scraping tool servers.
type Discoverer struct {
	gw  *gateway.Client
	log *zap.Logger
}

// New returns a Discoverer.
func New(gw *gateway.Client, logger *zap.Logger) *Discoverer {
	return &Discoverer{gw: gw, log: logger}
}

// NormalizeUniversityURL ensures the university identifier carries a
// scheme: bare hostnames like "mit.edu" become "https://mit.edu".
func NormalizeUniversityURL(university string) string {
	if strings.HasPrefix(university, "http://") || strings.HasPrefix(university, "https://") {
		return university
	}
	return "https://" + university
}

// BareDomain returns the university host with any leading "www." stripped,
// so web searches also catch departmental subdomains.
func BareDomain(university string) string {
	parsed, err := url.Parse(NormalizeUniversityURL(university))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

// Discover fans out across the first three interests, collects candidate
// directory URLs for each, scrapes every unique URL concurrently, and
// returns the merged candidate list deduplicated by name. A failed branch
// contributes nothing; it never fails the others.
func (d *Discoverer) Discover(ctx context.Context, university string, interests []string) []types.FacultyCandidate {
	university = NormalizeUniversityURL(university)

	branches := interests
	if len(branches) > maxInterests {
		branches = branches[:maxInterests]
	}

	// Branch results are kept in input order so the later dedup passes are
	// deterministic regardless of completion order.
	urlsByBranch := make([][]string, len(branches))
	var g errgroup.Group
	for i, interest := range branches {
		g.Go(func() error {
			urlsByBranch[i] = d.directoryURLs(ctx, university, interest)
			return nil
		})
	}
	g.Wait()

	// Deduplicate URLs across branches; the first branch to mention a URL
	// keeps it, paired with that branch's interest.
	type searchPair struct {
		url      string
		interest string
	}
	seen := make(map[string]bool)
	var pairs []searchPair
	for i, urls := range urlsByBranch {
		for _, u := range urls {
			if seen[u] {
				continue
			}
			seen[u] = true
			pairs = append(pairs, searchPair{url: u, interest: branches[i]})
		}
	}

	facultyByPair := make([][]types.FacultyCandidate, len(pairs))
	var fg errgroup.Group
	for i, pair := range pairs {
		fg.Go(func() error {
			found := d.gw.University().SearchFaculty(ctx, pair.url, pair.interest)
			d.log.Info("discovery: searched directory",
				zap.String("url", pair.url),
				zap.String("interest", pair.interest),
				zap.Int("found", len(found)))
			facultyByPair[i] = found
			return nil
		})
	}
	fg.Wait()

	var all []types.FacultyCandidate
	for _, found := range facultyByPair {
		all = append(all, found...)
	}

	unique := dedupeByName(all)
	d.log.Info("discovery: complete",
		zap.Int("total", len(all)), zap.Int("unique", len(unique)))
	return unique
}

// directoryURLs returns the candidate directory URLs for one interest.
// A URL whose path already names a directory is used as-is; otherwise a
// web search runs, falling back to the university root when it finds
// nothing.
func (d *Discoverer) directoryURLs(ctx context.Context, university, interest string) []string {
	parsed, err := url.Parse(university)
	if err != nil {
		d.log.Warn("discovery: unparseable university URL",
			zap.String("university", university), zap.Error(err))
		return nil
	}

	path := strings.ToLower(parsed.Path)
	for _, kw := range directoryKeywords {
		if strings.Contains(path, kw) {
			return []string{university}
		}
	}

	domain := strings.TrimPrefix(parsed.Host, "www.")
	query := interest + " faculty directory " + domain

	if urls := d.gw.Search().SearchWeb(ctx, query); len(urls) > 0 {
		return urls
	}
	return []string{university}
}

// dedupeByName keeps the first occurrence of each name. Exact,
// case-sensitive matching: "J. Smith" and "j. smith" are different
// entries, deliberately, because directory casing is meaningful.
// Idempotent: applying it twice yields the same list.
func dedupeByName(candidates []types.FacultyCandidate) []types.FacultyCandidate {
	seen := make(map[string]bool, len(candidates))
	var unique []types.FacultyCandidate
	for _, c := range candidates {
		if c.Name == "" || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		unique = append(unique, c)
	}
	return unique
}
