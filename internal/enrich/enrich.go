// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich resolves faculty candidates into full professor
// profiles: scholar-record disambiguation, publication fetch, research
// area extraction, and cache writes.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/advisor-match/internal/gateway"
	"github.com/pdiddy/advisor-match/internal/jsonx"
	"github.com/pdiddy/advisor-match/internal/oracle"
	"github.com/pdiddy/advisor-match/internal/store"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// domainStopSet holds host tokens that never identify an institution.
// Everything left after dropping these (and tokens of two characters or
// fewer) becomes an affiliation keyword.
var domainStopSet = map[string]bool{
	"www": true, "ac": true, "za": true, "edu": true, "uk": true,
	"us": true, "com": true, "org": true, "net": true,
	"depts": true, "dept": true,
}

// titleCount is how many publication titles feed research-area
// extraction, and areaCap how many areas a profile may carry.
const (
	titleCount = 15
	areaCap    = 7
)

// Enricher turns FacultyCandidates into cached ProfessorProfiles.
type Enricher struct {
	gw      *gateway.Client
	backend oracle.Backend
	store   *store.Store
	cfg     types.MatchConfig
	log     *zap.Logger
}

// New returns an Enricher.
func New(gw *gateway.Client, backend oracle.Backend, st *store.Store, cfg types.MatchConfig, logger *zap.Logger) *Enricher {
	return &Enricher{gw: gw, backend: backend, store: st, cfg: cfg, log: logger}
}

// EnrichAll enriches every candidate with at most EnrichConcurrency
// in-flight at once. The cap matters for correctness, not speed: the tool
// servers behind the gateway fall over under unbounded fan-out. A
// candidate whose enrichment fails is dropped; its siblings are
// unaffected. Output preserves input order.
func (e *Enricher) EnrichAll(ctx context.Context, candidates []types.FacultyCandidate, university string) []types.ProfessorProfile {
	keywords := DomainKeywords(university)

	results := make([]*types.ProfessorProfile, len(candidates))
	var g errgroup.Group
	g.SetLimit(e.cfg.EnrichConcurrency)
	for i, cand := range candidates {
		g.Go(func() error {
			prof, err := e.enrichOne(ctx, cand, university, keywords)
			if err != nil {
				e.log.Warn("enrich: candidate dropped",
					zap.String("name", cand.Name), zap.Error(err))
				return nil
			}
			results[i] = prof
			return nil
		})
	}
	g.Wait()

	profiles := make([]types.ProfessorProfile, 0, len(candidates))
	for _, p := range results {
		if p != nil {
			profiles = append(profiles, *p)
		}
	}
	e.log.Info("enrich: complete",
		zap.Int("candidates", len(candidates)), zap.Int("enriched", len(profiles)))
	return profiles
}

// DomainKeywords derives affiliation keywords from a university URL or
// hostname: host tokens minus the stop set and anything of two
// characters or fewer, lowercased.
func DomainKeywords(university string) []string {
	domain := BareDomain(university)
	var keywords []string
	for _, part := range strings.Split(strings.ToLower(domain), ".") {
		if len(part) <= 2 || domainStopSet[part] {
			continue
		}
		keywords = append(keywords, part)
	}
	return keywords
}

// BareDomain returns the host of a URL or bare hostname with any leading
// "www." stripped.
func BareDomain(university string) string {
	s := strings.TrimPrefix(university, "https://")
	s = strings.TrimPrefix(s, "http://")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, "www.")
}

func (e *Enricher) enrichOne(ctx context.Context, cand types.FacultyCandidate, university string, keywords []string) (*types.ProfessorProfile, error) {
	cached, err := e.store.GetProfessor(ctx, cand.Name, university)
	if err != nil {
		return nil, fmt.Errorf("cache lookup for %q: %w", cand.Name, err)
	}
	if cached != nil {
		return cached, nil
	}

	// Broad name-only search: affiliation fields on faculty listings are
	// too sparse to qualify the query with.
	scholars := e.gw.Scholar().SearchScholar(ctx, cand.Name, "")
	scholar, matched := disambiguate(scholars, keywords)

	if scholar == nil {
		prof := e.minimalProfile(ctx, cand, university)
		if err := e.store.UpsertProfessor(ctx, prof); err != nil {
			e.log.Warn("enrich: cache write failed",
				zap.String("name", prof.Name), zap.Error(err))
		}
		return prof, nil
	}
	if !matched {
		e.log.Warn("enrich: no affiliation match, using first scholar result",
			zap.String("name", cand.Name),
			zap.String("author_id", scholar.AuthorID))
	}

	var pubs []types.Publication
	if scholar.AuthorID != "" {
		pubs = e.gw.Scholar().GetPublications(ctx, scholar.AuthorID, e.cfg.PublicationLimit, e.cfg.PublicationYears)
	}

	prof := &types.ProfessorProfile{
		ID:            uuid.New(),
		Name:          cand.Name,
		Title:         cand.Title,
		Department:    cand.Department,
		University:    university,
		Email:         cand.Email,
		ScholarID:     scholar.AuthorID,
		ResearchAreas: e.researchAreas(ctx, pubs),
		Publications:  pubs,
		// Real metrics arrive in the post-match pass; zero values mark
		// "not fetched yet" for downstream rendering.
		CitationMetrics: &types.CitationMetrics{},
	}
	if err := e.store.UpsertProfessor(ctx, prof); err != nil {
		e.log.Warn("enrich: cache write failed",
			zap.String("name", prof.Name), zap.Error(err))
	}
	return prof, nil
}

// disambiguate picks the scholar record whose affiliations mention any
// domain keyword, case-insensitively. With no affiliation match it
// returns the first record and matched=false: attaching a probably-right
// scholar beats dropping a professor who certainly exists.
func disambiguate(scholars []types.ScholarCandidate, keywords []string) (match *types.ScholarCandidate, matched bool) {
	if len(scholars) == 0 {
		return nil, false
	}
	for i := range scholars {
		for _, aff := range scholars[i].Affiliations {
			affLower := strings.ToLower(aff)
			for _, kw := range keywords {
				if strings.Contains(affLower, kw) {
					return &scholars[i], true
				}
			}
		}
	}
	return &scholars[0], false
}

// minimalProfile builds a publication-free profile for a candidate with
// no scholar record, best-effort filling gaps from the faculty page.
func (e *Enricher) minimalProfile(ctx context.Context, cand types.FacultyCandidate, university string) *types.ProfessorProfile {
	var page map[string]any
	if cand.ProfileURL != "" {
		page = e.gw.University().GetProfessorPage(ctx, cand.ProfileURL)
	}

	prof := &types.ProfessorProfile{
		ID:         uuid.New(),
		Name:       cand.Name,
		Title:      cand.Title,
		Department: cand.Department,
		University: university,
		Email:      cand.Email,
	}
	if prof.Title == "" {
		prof.Title = gateway.Str(page["title"])
	}
	if prof.Department == "" {
		prof.Department = gateway.Str(page["department"])
	}
	if prof.Email == "" {
		prof.Email = gateway.Str(page["email"])
	}
	prof.ResearchAreas = gateway.StrList(page["research_areas"])
	return prof
}

// researchAreas extracts short topic phrases from publication titles,
// asking the model first and degrading to keyword frequency when the
// model yields nothing.
func (e *Enricher) researchAreas(ctx context.Context, pubs []types.Publication) []string {
	if len(pubs) == 0 {
		return nil
	}
	titles := make([]string, 0, titleCount)
	for _, p := range pubs {
		if p.Title == "" {
			continue
		}
		titles = append(titles, p.Title)
		if len(titles) == titleCount {
			break
		}
	}
	if len(titles) == 0 {
		return nil
	}

	if areas := e.modelAreas(ctx, titles); len(areas) > 0 {
		return areas
	}
	return frequencyAreas(titles)
}

func (e *Enricher) modelAreas(ctx context.Context, titles []string) []string {
	var b strings.Builder
	b.WriteString("From these publication titles, extract 3-7 research areas or topics.\n")
	b.WriteString("Return short, specific phrases (e.g. \"computer vision\", \"reinforcement learning\").\n\nPublications:\n")
	for _, t := range titles {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	b.WriteString("\nReturn ONLY a JSON array of strings. No other text.\n")

	answer, err := e.backend.Generate(ctx, b.String())
	if err != nil {
		e.log.Warn("enrich: research area model call failed", zap.Error(err))
		return nil
	}
	raw, ok := jsonx.FirstArray(answer)
	if !ok {
		return nil
	}
	var areas []string
	if err := json.Unmarshal(raw, &areas); err != nil {
		return nil
	}
	if len(areas) > areaCap {
		areas = areas[:areaCap]
	}
	return areas
}
