// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives a full matching run: document parsing, faculty
// discovery, relevance filtering, enrichment, ranking, and metric
// backfill, with progress persisted at every stage boundary.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/advisor-match/internal/discovery"
	"github.com/pdiddy/advisor-match/internal/enrich"
	"github.com/pdiddy/advisor-match/internal/filter"
	"github.com/pdiddy/advisor-match/internal/match"
	"github.com/pdiddy/advisor-match/internal/store"
	"github.com/pdiddy/advisor-match/internal/student"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// errTruncateAt bounds the failure message persisted with a failed run.
const errTruncateAt = 500

// Stage milestones. A polling caller watches these move.
const (
	stepParsing    = "Parsing uploaded documents"
	stepDirectory  = "Fetching faculty directory"
	stepFiltering  = "Filtering candidates"
	stepPubs       = "Retrieving publication data"
	stepAlignment  = "Analyzing research alignment"
	stepMetrics    = "Fetching citation metrics"
	stepFinalizing = "Finalizing recommendations"
)

// Controller wires the stages together and owns run-state bookkeeping.
type Controller struct {
	discoverer *discovery.Discoverer
	filter     *filter.Filter
	students   *student.Builder
	enricher   *enrich.Enricher
	ranker     *match.Ranker
	store      *store.Store
	log        *zap.Logger

	now func() time.Time
}

// New returns a Controller over fully constructed stages.
func New(d *discovery.Discoverer, f *filter.Filter, sb *student.Builder, e *enrich.Enricher, r *match.Ranker, st *store.Store, logger *zap.Logger) *Controller {
	return &Controller{
		discoverer: d,
		filter:     f,
		students:   sb,
		enricher:   e,
		ranker:     r,
		store:      st,
		log:        logger,
		now:        time.Now,
	}
}

// Run executes the whole pipeline for one session and returns the final
// matches. Stage-internal failures degrade inside their stages; only
// run-state persistence errors abort the run, and those are recorded
// against the session before returning.
func (c *Controller) Run(ctx context.Context, sessionID uuid.UUID, university string, interests []string, filePaths []string) ([]types.MatchResult, error) {
	started := c.now()
	session := sessionID.String()
	log := c.log.With(zap.String("session_id", session))

	if err := c.store.CreateRun(ctx, session); err != nil {
		return nil, err
	}
	matches, err := c.run(ctx, session, university, interests, filePaths, log)
	if err != nil {
		log.Error("pipeline: run failed", zap.Error(err))
		if failErr := c.store.FailRun(ctx, session, truncate(err.Error(), errTruncateAt)); failErr != nil {
			log.Error("pipeline: failure not persisted", zap.Error(failErr))
		}
		return nil, err
	}

	elapsed := c.now().Sub(started).Seconds()
	if err := c.store.CompleteRun(ctx, session, matches, elapsed); err != nil {
		return nil, err
	}
	log.Info("pipeline: complete",
		zap.Int("matches", len(matches)), zap.Float64("elapsed_seconds", elapsed))
	return matches, nil
}

func (c *Controller) run(ctx context.Context, session, university string, interests, filePaths []string, log *zap.Logger) ([]types.MatchResult, error) {
	if err := c.store.UpdateProgress(ctx, session, 5, stepParsing); err != nil {
		return nil, err
	}
	var profile *types.StudentProfile
	if len(filePaths) > 0 {
		id, _ := uuid.Parse(session)
		p := c.students.Build(ctx, id, interests, filePaths)
		profile = &p
	}

	if err := c.store.UpdateProgress(ctx, session, 15, stepDirectory); err != nil {
		return nil, err
	}
	candidates := c.discoverer.Discover(ctx, university, interests)
	log.Info("pipeline: discovery done", zap.Int("candidates", len(candidates)))

	if err := c.store.UpdateProgress(ctx, session, 25, stepFiltering); err != nil {
		return nil, err
	}
	candidates = c.filter.Relevant(ctx, candidates, interests)

	if err := c.store.UpdateProgress(ctx, session, 30, stepPubs); err != nil {
		return nil, err
	}
	professors := c.enricher.EnrichAll(ctx, candidates, discovery.NormalizeUniversityURL(university))
	log.Info("pipeline: enrichment done", zap.Int("professors", len(professors)))

	if err := c.store.UpdateProgress(ctx, session, 70, stepAlignment); err != nil {
		return nil, err
	}
	matches := c.ranker.Rank(ctx, professors, interests, profile)

	if err := c.store.UpdateProgress(ctx, session, 90, stepMetrics); err != nil {
		return nil, err
	}
	c.ranker.Backfill(ctx, matches, university)

	if err := c.store.UpdateProgress(ctx, session, 95, stepFinalizing); err != nil {
		return nil, err
	}
	return matches, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
