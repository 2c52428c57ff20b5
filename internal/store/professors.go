// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/advisor-match/pkg/types"
)

const professorColumns = `id, name, university, title, department, email,
	scholar_id, google_scholar_url, research_areas, publications,
	citation_metrics, updated_at`

// GetProfessor returns the cached profile for (name, university), or nil
// when no row exists or the row has aged past the TTL.
func (s *Store) GetProfessor(ctx context.Context, name, university string) (*types.ProfessorProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+professorColumns+` FROM professors WHERE name = ? AND university = ?`,
		name, university)
	return s.scanFresh(row)
}

// GetProfessorByScholarID returns the cached profile with the given external
// scholar id, or nil when absent or stale.
func (s *Store) GetProfessorByScholarID(ctx context.Context, scholarID string) (*types.ProfessorProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+professorColumns+` FROM professors WHERE scholar_id = ?`,
		scholarID)
	return s.scanFresh(row)
}

// UpsertProfessor writes the profile under its (name, university) natural
// key, replacing any existing row. Concurrent enrichment branches write
// different keys; a same-key race resolves last-write-wins, which is fine
// because staleness within a single run is immaterial.
func (s *Store) UpsertProfessor(ctx context.Context, p *types.ProfessorProfile) error {
	areas, err := json.Marshal(p.ResearchAreas)
	if err != nil {
		return fmt.Errorf("marshaling research areas: %w", err)
	}
	pubs, err := json.Marshal(p.Publications)
	if err != nil {
		return fmt.Errorf("marshaling publications: %w", err)
	}
	var metrics []byte
	if p.CitationMetrics != nil {
		metrics, err = json.Marshal(p.CitationMetrics)
		if err != nil {
			return fmt.Errorf("marshaling citation metrics: %w", err)
		}
	}

	updated := s.now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO professors (`+professorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, university) DO UPDATE SET
			title = excluded.title,
			department = excluded.department,
			email = excluded.email,
			scholar_id = excluded.scholar_id,
			google_scholar_url = excluded.google_scholar_url,
			research_areas = excluded.research_areas,
			publications = excluded.publications,
			citation_metrics = excluded.citation_metrics,
			updated_at = excluded.updated_at`,
		p.ID.String(), p.Name, p.University, p.Title, p.Department, p.Email,
		p.ScholarID, p.GoogleScholarURL, string(areas), string(pubs),
		nullableString(metrics), updated.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("upserting professor %q: %w", p.Name, err)
	}
	p.LastUpdated = updated
	return nil
}

// ListProfessors returns all fresh cached profiles for a university.
func (s *Store) ListProfessors(ctx context.Context, university string) ([]types.ProfessorProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+professorColumns+` FROM professors WHERE university = ? ORDER BY name`,
		university)
	if err != nil {
		return nil, fmt.Errorf("listing professors: %w", err)
	}
	defer rows.Close()

	var out []types.ProfessorProfile
	for rows.Next() {
		p, err := scanProfessor(rows)
		if err != nil {
			return nil, err
		}
		if s.fresh(p.LastUpdated) {
			out = append(out, *p)
		}
	}
	return out, rows.Err()
}

// PruneProfessors deletes rows that have aged past the TTL and returns the
// number removed.
func (s *Store) PruneProfessors(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.ttl)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM professors WHERE updated_at <= ?`,
		cutoff.Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("pruning professors: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanFresh scans one professor row and applies the TTL gate.
func (s *Store) scanFresh(row scanner) (*types.ProfessorProfile, error) {
	p, err := scanProfessor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !s.fresh(p.LastUpdated) {
		return nil, nil
	}
	return p, nil
}

func scanProfessor(row scanner) (*types.ProfessorProfile, error) {
	var (
		p         types.ProfessorProfile
		id        string
		areas     sql.NullString
		pubs      sql.NullString
		metrics   sql.NullString
		updatedAt string
	)
	err := row.Scan(&id, &p.Name, &p.University, &p.Title, &p.Department,
		&p.Email, &p.ScholarID, &p.GoogleScholarURL, &areas, &pubs,
		&metrics, &updatedAt)
	if err != nil {
		return nil, err
	}

	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing professor id %q: %w", id, err)
	}
	if p.LastUpdated, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at %q: %w", updatedAt, err)
	}
	if areas.Valid && areas.String != "" {
		if err := json.Unmarshal([]byte(areas.String), &p.ResearchAreas); err != nil {
			return nil, fmt.Errorf("parsing research areas: %w", err)
		}
	}
	if pubs.Valid && pubs.String != "" {
		if err := json.Unmarshal([]byte(pubs.String), &p.Publications); err != nil {
			return nil, fmt.Errorf("parsing publications: %w", err)
		}
	}
	if metrics.Valid && metrics.String != "" {
		var cm types.CitationMetrics
		if err := json.Unmarshal([]byte(metrics.String), &cm); err != nil {
			return nil, fmt.Errorf("parsing citation metrics: %w", err)
		}
		p.CitationMetrics = &cm
	}
	return &p, nil
}

// nullableString stores nil bytes as SQL NULL.
func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
