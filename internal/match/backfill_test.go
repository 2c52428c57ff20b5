// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/advisor-match/internal/gateway"
	"github.com/pdiddy/advisor-match/pkg/types"
)

func metricsServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Tool      string         `json:"tool"`
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		var body any
		switch req.Tool {
		case "find_google_scholar_url":
			if req.Arguments["name"] == "Prof Found" && req.Arguments["domain"] == "mit.edu" {
				body = "https://scholar.google.com/citations?user=found"
			} else {
				body = ""
			}
		case "scrape_google_scholar_metrics":
			if req.Arguments["url"] == "https://scholar.google.com/citations?user=found" {
				body = map[string]any{"h_index": 30, "i10_index": 45, "total_citations": 5000}
			} else {
				body = map[string]any{"error": "profile unavailable"}
			}
		case "get_citation_metrics":
			body = map[string]any{"h_index": 8, "total_citations": 200}
		default:
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(body)
	}))
}

func TestBackfill(t *testing.T) {
	srv := metricsServer(t)
	defer srv.Close()

	cfg := types.GatewayConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		Services: map[string]string{
			gateway.ServiceScholar: srv.URL,
			gateway.ServiceSearch:  srv.URL,
		},
	}
	r := New(gateway.New(cfg, zap.NewNop()), nil, 10, zap.NewNop())

	found := professor("Prof Found")
	failing := professor("Prof Failing")
	failing.GoogleScholarURL = "https://scholar.google.com/citations?user=broken"
	failing.ScholarID = "s2-id"
	unreachable := professor("Prof Unreachable")

	matches := []types.MatchResult{
		{Professor: found, MatchScore: 90},
		{Professor: failing, MatchScore: 80},
		{Professor: unreachable, MatchScore: 70},
	}
	r.Backfill(context.Background(), matches, "https://www.mit.edu")

	// Membership and order never change.
	for i, name := range []string{"Prof Found", "Prof Failing", "Prof Unreachable"} {
		if matches[i].Professor.Name != name {
			t.Fatalf("match %d = %q, want %q", i, matches[i].Professor.Name, name)
		}
	}

	if url := matches[0].Professor.GoogleScholarURL; url != "https://scholar.google.com/citations?user=found" {
		t.Errorf("discovered URL = %q, want the search result", url)
	}
	if m := matches[0].Professor.CitationMetrics; m == nil || m.HIndex != 30 || m.TotalCitations != 5000 {
		t.Errorf("metrics = %+v, want the scraped values", matches[0].Professor.CitationMetrics)
	}

	// Scrape answered an error marker, so the scholarly-graph fallback by
	// scholar id supplies the metrics instead.
	if m := matches[1].Professor.CitationMetrics; m == nil || m.HIndex != 8 {
		t.Errorf("metrics = %+v, want the scholar-id fallback values", matches[1].Professor.CitationMetrics)
	}

	// No URL found and no scholar id: the placeholder stays.
	if m := matches[2].Professor.CitationMetrics; m == nil || m.HIndex != 12 {
		t.Errorf("metrics = %+v, want the original metrics untouched", matches[2].Professor.CitationMetrics)
	}
}
