// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"context"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// Scholar wraps the scholarly-graph tool server.
type Scholar struct {
	c *Client
}

// SearchScholar searches author records by name. The affiliation argument
// is optional; enrichment passes none because directory affiliation strings
// are too sparse to qualify the search.
func (s Scholar) SearchScholar(ctx context.Context, name, affiliation string) []types.ScholarCandidate {
	args := map[string]any{"name": name}
	if affiliation != "" {
		args["affiliation"] = affiliation
	}
	var out []types.ScholarCandidate
	if !s.c.Invoke(ctx, ServiceScholar, "search_scholar", args).Decode(&out) {
		return nil
	}
	return out
}

// GetPublications fetches up to limit publications from the last years
// years for the given author id.
func (s Scholar) GetPublications(ctx context.Context, authorID string, limit, years int) []types.Publication {
	args := map[string]any{"author_id": authorID, "limit": limit, "years": years}
	var out []types.Publication
	if !s.c.Invoke(ctx, ServiceScholar, "get_publications", args).Decode(&out) {
		return nil
	}
	return out
}

// GetCitationMetrics fetches the author's citation snapshot. The second
// return is false when the tool produced nothing usable.
func (s Scholar) GetCitationMetrics(ctx context.Context, authorID string) (types.CitationMetrics, bool) {
	v := s.c.Invoke(ctx, ServiceScholar, "get_citation_metrics", map[string]any{"author_id": authorID})
	obj := v.Object()
	if len(obj) == 0 || errMarker(obj) {
		return types.CitationMetrics{}, false
	}
	var out types.CitationMetrics
	if !v.Decode(&out) {
		return types.CitationMetrics{}, false
	}
	return out, true
}

// ScrapeGoogleScholarMetrics scrapes h-index and citation totals from a
// public scholar profile URL. The second return is false when the scrape
// failed or the tool reported an error marker.
func (s Scholar) ScrapeGoogleScholarMetrics(ctx context.Context, url string) (types.CitationMetrics, bool) {
	v := s.c.Invoke(ctx, ServiceScholar, "scrape_google_scholar_metrics", map[string]any{"url": url})
	obj := v.Object()
	if len(obj) == 0 || errMarker(obj) {
		return types.CitationMetrics{}, false
	}
	var out types.CitationMetrics
	if !v.Decode(&out) {
		return types.CitationMetrics{}, false
	}
	return out, true
}

// University wraps the directory-scraping tool server.
type University struct {
	c *Client
}

// SearchFaculty scrapes a directory URL for faculty working in the given
// research area. Entries without a name are discarded. A non-list result
// (tool servers return an error object on scrape failure) yields nil.
func (u University) SearchFaculty(ctx context.Context, directoryURL, researchArea string) []types.FacultyCandidate {
	args := map[string]any{"university_url": directoryURL, "research_area": researchArea}
	var raw []types.FacultyCandidate
	if !u.c.Invoke(ctx, ServiceUniversity, "search_faculty", args).Decode(&raw) {
		return nil
	}
	out := raw[:0]
	for _, f := range raw {
		if f.Name != "" {
			out = append(out, f)
		}
	}
	return out
}

// GetProfessorPage fetches a professor's own faculty page. The result is a
// loose object (title, department, email, research_areas) whose field types
// vary by page; callers coerce with Str and StrList.
func (u University) GetProfessorPage(ctx context.Context, profileURL string) map[string]any {
	return u.c.Invoke(ctx, ServiceUniversity, "get_professor_page", map[string]any{"professor_url": profileURL}).Object()
}

// Search wraps the web-search tool server.
type Search struct {
	c *Client
}

// SearchWeb runs a web search and returns result URLs.
func (s Search) SearchWeb(ctx context.Context, query string) []string {
	return s.c.Invoke(ctx, ServiceSearch, "search_web", map[string]any{"query": query}).Strings()
}

// FindGoogleScholarURL looks up a public scholar profile URL for the named
// person at the given institutional domain. Returns "" when none is found.
func (s Search) FindGoogleScholarURL(ctx context.Context, name, domain string) string {
	v := s.c.Invoke(ctx, ServiceSearch, "find_google_scholar_url", map[string]any{"name": name, "domain": domain})
	var url string
	if !v.Decode(&url) {
		return ""
	}
	return url
}

// Document wraps the document-parsing tool server.
type Document struct {
	c *Client
}

// ParseCV parses an uploaded CV file into a loose object with education,
// experience, publications, skills, and research_interests entries. Field
// types vary by document; the student stage coerces them.
func (d Document) ParseCV(ctx context.Context, filePath string) map[string]any {
	return d.c.Invoke(ctx, ServiceDocument, "parse_cv", map[string]any{"file_path": filePath}).Object()
}
