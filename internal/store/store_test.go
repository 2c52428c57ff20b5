// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/advisor-match/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.CacheConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProfessor(name string) *types.ProfessorProfile {
	return &types.ProfessorProfile{
		ID:         uuid.New(),
		Name:       name,
		University: "https://mit.edu",
		Title:      "Professor",
		Department: "EECS",
		ScholarID:  "au-" + name,
		ResearchAreas: []string{"machine learning", "robotics"},
		Publications: []types.Publication{
			{Title: "A Paper", Authors: []string{name}, Year: 2023, CitationCount: 12},
		},
		CitationMetrics: &types.CitationMetrics{HIndex: 20, TotalCitations: 1500},
	}
}

func TestProfessorRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := sampleProfessor("Ada Lovelace")
	require.NoError(t, s.UpsertProfessor(ctx, p))

	got, err := s.GetProfessor(ctx, "Ada Lovelace", "https://mit.edu")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "EECS", got.Department)
	assert.Equal(t, []string{"machine learning", "robotics"}, got.ResearchAreas)
	require.Len(t, got.Publications, 1)
	assert.Equal(t, 12, got.Publications[0].CitationCount)
	require.NotNil(t, got.CitationMetrics)
	assert.Equal(t, 20, got.CitationMetrics.HIndex)
}

func TestGetProfessorMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetProfessor(context.Background(), "Nobody", "https://mit.edu")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetProfessorByScholarID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertProfessor(ctx, sampleProfessor("Ada Lovelace")))

	got, err := s.GetProfessorByScholarID(ctx, "au-Ada Lovelace")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada Lovelace", got.Name)
}

func TestUpsertReplacesByNaturalKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := sampleProfessor("Ada Lovelace")
	require.NoError(t, s.UpsertProfessor(ctx, first))

	second := sampleProfessor("Ada Lovelace")
	second.Department = "CSAIL"
	require.NoError(t, s.UpsertProfessor(ctx, second))

	got, err := s.GetProfessor(ctx, "Ada Lovelace", "https://mit.edu")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "CSAIL", got.Department)

	list, err := s.ListProfessors(ctx, "https://mit.edu")
	require.NoError(t, err)
	assert.Len(t, list, 1, "upsert must not create a second row for the same (name, university)")
}

// The TTL boundary is exclusive: a record aged exactly TTL is stale.
func TestTTLBoundary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	require.NoError(t, s.UpsertProfessor(ctx, sampleProfessor("Ada Lovelace")))

	tests := []struct {
		name  string
		age   time.Duration
		fresh bool
	}{
		{"just written", 0, true},
		{"one second before ttl", s.TTL() - time.Second, true},
		{"exactly at ttl", s.TTL(), false},
		{"past ttl", s.TTL() + time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.now = func() time.Time { return base.Add(tt.age) }
			got, err := s.GetProfessor(ctx, "Ada Lovelace", "https://mit.edu")
			require.NoError(t, err)
			if tt.fresh {
				assert.NotNil(t, got)
			} else {
				assert.Nil(t, got, "record at or past TTL must read as absent")
			}
		})
	}
}

func TestPruneProfessors(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	require.NoError(t, s.UpsertProfessor(ctx, sampleProfessor("Old Timer")))

	s.now = func() time.Time { return base.Add(8 * 24 * time.Hour) }
	require.NoError(t, s.UpsertProfessor(ctx, sampleProfessor("Fresh Face")))

	n, err := s.PruneProfessors(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := s.ListProfessors(ctx, "https://mit.edu")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Fresh Face", list[0].Name)
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRun(ctx, "sess-1"))

	run, err := s.GetRun(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, types.RunProcessing, run.Status)
	assert.Equal(t, 0, run.Progress)

	require.NoError(t, s.UpdateProgress(ctx, "sess-1", 25, "Filtering candidates"))
	run, err = s.GetRun(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 25, run.Progress)
	assert.Equal(t, "Filtering candidates", run.Step)

	// Progress never moves backwards.
	require.NoError(t, s.UpdateProgress(ctx, "sess-1", 10, "stale write"))
	run, err = s.GetRun(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 25, run.Progress)

	results := []types.MatchResult{{
		Professor:  *sampleProfessor("Ada Lovelace"),
		MatchScore: 91.5,
	}}
	require.NoError(t, s.CompleteRun(ctx, "sess-1", results, 42.3))
	run, err = s.GetRun(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, types.RunCompleted, run.Status)
	assert.Equal(t, 100, run.Progress)
	assert.Equal(t, 42.3, run.ElapsedSeconds)
	require.Len(t, run.Results, 1)
	assert.Equal(t, 91.5, run.Results[0].MatchScore)
}

func TestFailRunFreezesProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRun(ctx, "sess-2"))
	require.NoError(t, s.UpdateProgress(ctx, "sess-2", 70, "Analyzing research alignment"))
	require.NoError(t, s.FailRun(ctx, "sess-2", "oracle unreachable"))

	run, err := s.GetRun(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, types.RunFailed, run.Status)
	assert.Equal(t, 70, run.Progress)
	assert.Equal(t, "oracle unreachable", run.Error)
}

func TestGetRunMissing(t *testing.T) {
	s := openTestStore(t)

	run, err := s.GetRun(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestCompleteRunNilResults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRun(ctx, "sess-3"))
	require.NoError(t, s.CompleteRun(ctx, "sess-3", nil, 1.0))

	run, err := s.GetRun(ctx, "sess-3")
	require.NoError(t, err)
	assert.Equal(t, types.RunCompleted, run.Status)
	assert.NotNil(t, run.Results)
	assert.Empty(t, run.Results)
}