// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/advisor-match/internal/gateway"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// toolCall records one tool invocation received by the fake server.
type toolCall struct {
	Tool      string
	Arguments map[string]any
}

// fakeTools runs an httptest server that dispatches /invoke requests by
// tool name and records every call.
type fakeTools struct {
	mu      sync.Mutex
	calls   []toolCall
	handler func(call toolCall) any
	server  *httptest.Server
}

func newFakeTools(handler func(call toolCall) any) *fakeTools {
	f := &fakeTools{handler: handler}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Tool      string         `json:"tool"`
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		call := toolCall{Tool: req.Tool, Arguments: req.Arguments}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.mu.Unlock()
		body := f.handler(call)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
	return f
}

func (f *fakeTools) close() { f.server.Close() }

func (f *fakeTools) callsFor(tool string) []toolCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []toolCall
	for _, c := range f.calls {
		if c.Tool == tool {
			out = append(out, c)
		}
	}
	return out
}

func newTestDiscoverer(baseURL string) *Discoverer {
	cfg := types.GatewayConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		Services: map[string]string{
			gateway.ServiceSearch:     baseURL,
			gateway.ServiceUniversity: baseURL,
		},
	}
	return New(gateway.New(cfg, zap.NewNop()), zap.NewNop())
}

func facultyJSON(names ...string) []map[string]any {
	out := make([]map[string]any, 0, len(names))
	for _, n := range names {
		out = append(out, map[string]any{"name": n, "profile_url": "https://example.edu/" + n})
	}
	return out
}

func TestNormalizeUniversityURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mit.edu", "https://mit.edu"},
		{"https://mit.edu", "https://mit.edu"},
		{"http://cs.mit.edu/faculty", "http://cs.mit.edu/faculty"},
		{"www.stanford.edu", "https://www.stanford.edu"},
	}
	for _, tc := range tests {
		if got := NormalizeUniversityURL(tc.in); got != tc.want {
			t.Errorf("NormalizeUniversityURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBareDomain(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.mit.edu", "mit.edu"},
		{"mit.edu", "mit.edu"},
		{"https://cs.stanford.edu/people", "cs.stanford.edu"},
	}
	for _, tc := range tests {
		if got := BareDomain(tc.in); got != tc.want {
			t.Errorf("BareDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDiscoverDirectoryURLSkipsSearch(t *testing.T) {
	f := newFakeTools(func(call toolCall) any {
		switch call.Tool {
		case "search_faculty":
			return facultyJSON("Ada Lovelace", "Alan Turing")
		default:
			return []string{}
		}
	})
	defer f.close()

	d := newTestDiscoverer(f.server.URL)
	got := d.Discover(context.Background(), "https://cs.mit.edu/faculty", []string{"machine learning"})

	if len(f.callsFor("search_web")) != 0 {
		t.Errorf("search_web called %d times for a directory URL, want 0", len(f.callsFor("search_web")))
	}
	searches := f.callsFor("search_faculty")
	if len(searches) != 1 {
		t.Fatalf("search_faculty called %d times, want 1", len(searches))
	}
	if url := searches[0].Arguments["university_url"]; url != "https://cs.mit.edu/faculty" {
		t.Errorf("searched %v, want the directory URL as-is", url)
	}
	if len(got) != 2 {
		t.Errorf("got %d candidates, want 2", len(got))
	}
}

func TestDiscoverSearchesWebForBareUniversity(t *testing.T) {
	f := newFakeTools(func(call toolCall) any {
		switch call.Tool {
		case "search_web":
			return []string{"https://mit.edu/faculty", "https://csail.mit.edu/people"}
		case "search_faculty":
			if call.Arguments["university_url"] == "https://mit.edu/faculty" {
				return facultyJSON("Ada Lovelace", "Alan Turing")
			}
			return facultyJSON("Alan Turing", "Grace Hopper")
		default:
			return nil
		}
	})
	defer f.close()

	d := newTestDiscoverer(f.server.URL)
	got := d.Discover(context.Background(), "mit.edu", []string{"machine learning"})

	webCalls := f.callsFor("search_web")
	if len(webCalls) != 1 {
		t.Fatalf("search_web called %d times, want 1", len(webCalls))
	}
	if q := webCalls[0].Arguments["query"]; q != "machine learning faculty directory mit.edu" {
		t.Errorf("query = %v, want interest + directory + bare domain", q)
	}
	if len(f.callsFor("search_faculty")) != 2 {
		t.Errorf("search_faculty called %d times, want 2 (one per URL)", len(f.callsFor("search_faculty")))
	}

	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	want := []string{"Ada Lovelace", "Alan Turing", "Grace Hopper"}
	if len(names) != len(want) {
		t.Fatalf("got %d unique candidates %v, want %d", len(names), names, len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("candidate %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestDiscoverFallsBackToUniversityURL(t *testing.T) {
	f := newFakeTools(func(call toolCall) any {
		switch call.Tool {
		case "search_web":
			return []string{}
		case "search_faculty":
			return facultyJSON("Ada Lovelace")
		default:
			return nil
		}
	})
	defer f.close()

	d := newTestDiscoverer(f.server.URL)
	got := d.Discover(context.Background(), "mit.edu", []string{"robotics"})

	searches := f.callsFor("search_faculty")
	if len(searches) != 1 {
		t.Fatalf("search_faculty called %d times, want 1", len(searches))
	}
	if url := searches[0].Arguments["university_url"]; url != "https://mit.edu" {
		t.Errorf("fallback searched %v, want the normalized university URL", url)
	}
	if len(got) != 1 {
		t.Errorf("got %d candidates, want 1", len(got))
	}
}

func TestDiscoverCapsInterestsAtThree(t *testing.T) {
	f := newFakeTools(func(call toolCall) any {
		switch call.Tool {
		case "search_web":
			// Distinct URL per interest so nothing collapses in dedup.
			q, _ := call.Arguments["query"].(string)
			return []string{"https://mit.edu/" + q[:1]}
		case "search_faculty":
			return facultyJSON("Ada Lovelace")
		default:
			return nil
		}
	})
	defer f.close()

	d := newTestDiscoverer(f.server.URL)
	interests := []string{"ai", "biology", "chemistry", "dance"}
	d.Discover(context.Background(), "mit.edu", interests)

	if n := len(f.callsFor("search_web")); n != 3 {
		t.Errorf("search_web called %d times, want 3 (first three interests)", n)
	}
}

func TestDedupeByName(t *testing.T) {
	in := []types.FacultyCandidate{
		{Name: "Ada Lovelace", Title: "Professor"},
		{Name: "ada lovelace"},
		{Name: "Ada Lovelace", Title: "Lecturer"},
		{Name: ""},
		{Name: "Alan Turing"},
	}
	got := dedupeByName(in)
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3 (case-sensitive, first wins, empty dropped)", len(got))
	}
	if got[0].Title != "Professor" {
		t.Errorf("first occurrence should win, got title %q", got[0].Title)
	}
	again := dedupeByName(got)
	if len(again) != len(got) {
		t.Errorf("dedupe not idempotent: %d then %d", len(got), len(again))
	}
}
