// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// CreateRun records a new matching run in the processing state. An existing
// row under the same session id is replaced: a run executes at most once
// per invocation, so a replay means the caller started over.
func (s *Store) CreateRun(ctx context.Context, sessionID string) error {
	now := s.now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (session_id, status, progress, step, started_at, updated_at)
		VALUES (?, ?, 0, '', ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			status = excluded.status,
			progress = 0,
			step = '',
			error = NULL,
			results = NULL,
			started_at = excluded.started_at,
			elapsed_seconds = NULL,
			updated_at = excluded.updated_at`,
		sessionID, types.RunProcessing, now, now)
	if err != nil {
		return fmt.Errorf("creating run %s: %w", sessionID, err)
	}
	return nil
}

// UpdateProgress advances the run to a new milestone. Progress only moves
// forward: a write below the stored value is ignored so pollers always
// observe a monotonic sequence.
func (s *Store) UpdateProgress(ctx context.Context, sessionID string, progress int, step string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET progress = ?, step = ?, updated_at = ?
		WHERE session_id = ? AND progress <= ?`,
		progress, step, s.now().UTC().Format(timeLayout), sessionID, progress)
	if err != nil {
		return fmt.Errorf("updating run progress %s: %w", sessionID, err)
	}
	return nil
}

// CompleteRun marks the run completed with its final results attached.
func (s *Store) CompleteRun(ctx context.Context, sessionID string, results []types.MatchResult, elapsed float64) error {
	if results == nil {
		results = []types.MatchResult{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, progress = 100, step = 'Complete',
			results = ?, elapsed_seconds = ?, updated_at = ?
		WHERE session_id = ?`,
		types.RunCompleted, string(data), elapsed,
		s.now().UTC().Format(timeLayout), sessionID)
	if err != nil {
		return fmt.Errorf("completing run %s: %w", sessionID, err)
	}
	return nil
}

// FailRun marks the run failed. Progress stays frozen at its last reported
// value.
func (s *Store) FailRun(ctx context.Context, sessionID, message string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error = ?, updated_at = ?
		WHERE session_id = ?`,
		types.RunFailed, message, s.now().UTC().Format(timeLayout), sessionID)
	if err != nil {
		return fmt.Errorf("failing run %s: %w", sessionID, err)
	}
	return nil
}

// GetRun returns the run state for a session, or nil when none exists.
func (s *Store) GetRun(ctx context.Context, sessionID string) (*types.PipelineRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, status, progress, step, error, results,
			started_at, elapsed_seconds, updated_at
		FROM runs WHERE session_id = ?`, sessionID)

	var (
		run       types.PipelineRun
		errMsg    sql.NullString
		results   sql.NullString
		elapsed   sql.NullFloat64
		startedAt string
		updatedAt string
	)
	err := row.Scan(&run.SessionID, &run.Status, &run.Progress, &run.Step,
		&errMsg, &results, &startedAt, &elapsed, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading run %s: %w", sessionID, err)
	}

	run.Error = errMsg.String
	run.ElapsedSeconds = elapsed.Float64
	if results.Valid && results.String != "" {
		if err := json.Unmarshal([]byte(results.String), &run.Results); err != nil {
			return nil, fmt.Errorf("parsing run results: %w", err)
		}
	}
	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &run, nil
}
