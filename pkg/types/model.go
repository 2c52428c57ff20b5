// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model and configuration structs used
// across pipeline stages.
package types

import (
	"time"

	"github.com/google/uuid"
)

// FacultyCandidate is an unresolved directory entry produced by discovery.
// Candidates are ephemeral: they exist only between discovery and enrichment
// and are never persisted.
type FacultyCandidate struct {
	// Name is the candidate's display name and the dedup key.
	Name string `json:"name" yaml:"name"`

	// Title is the academic title, if the directory listed one.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Department is the department or school, if listed.
	Department string `json:"department,omitempty" yaml:"department,omitempty"`

	// Email is the contact address, if listed.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// ProfileURL links to the candidate's faculty page, if listed.
	ProfileURL string `json:"profile_url,omitempty" yaml:"profile_url,omitempty"`
}

// ScholarCandidate is one author record from a scholarly-graph search.
// Used only for affiliation disambiguation, then discarded.
type ScholarCandidate struct {
	// AuthorID is the external scholarly-graph author identifier.
	AuthorID string `json:"author_id" yaml:"author_id"`

	// Name is the author's display name.
	Name string `json:"name" yaml:"name"`

	// Affiliations lists the institution strings attached to the record.
	Affiliations []string `json:"affiliations" yaml:"affiliations"`
}

// Publication is a single paper attached to a professor profile.
// Immutable once attached.
type Publication struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the authors in publication order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year (0 when unknown).
	Year int `json:"year" yaml:"year"`

	// Venue is the journal or conference, if known.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Abstract is the paper abstract, if available.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// CitationCount is the citation count at fetch time.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// URL links to the paper, if known.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// CitationMetrics is a point-in-time citation snapshot. Always replaceable.
type CitationMetrics struct {
	HIndex         int `json:"h_index" yaml:"h_index"`
	I10Index       int `json:"i10_index" yaml:"i10_index"`
	TotalCitations int `json:"total_citations" yaml:"total_citations"`
}

// ProfessorProfile is an enriched faculty record. (Name, University) is the
// compound natural key under which profiles are cached.
type ProfessorProfile struct {
	// ID is a stable identifier assigned at creation.
	ID uuid.UUID `json:"id" yaml:"id"`

	// Name is the professor's display name.
	Name string `json:"name" yaml:"name"`

	// Title is the academic title, if known.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Department is the department or school, if known.
	Department string `json:"department,omitempty" yaml:"department,omitempty"`

	// University is the university identifier the profile was resolved under.
	University string `json:"university" yaml:"university"`

	// Email is the contact address, if known.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// ScholarID is the external scholarly-graph author id, if matched.
	ScholarID string `json:"scholar_id,omitempty" yaml:"scholar_id,omitempty"`

	// GoogleScholarURL is the public scholar profile URL, if found.
	GoogleScholarURL string `json:"google_scholar_url,omitempty" yaml:"google_scholar_url,omitempty"`

	// ResearchAreas lists derived research topics.
	ResearchAreas []string `json:"research_areas" yaml:"research_areas"`

	// Publications lists the professor's fetched papers.
	Publications []Publication `json:"publications" yaml:"publications"`

	// CitationMetrics holds the latest citation snapshot, if any.
	CitationMetrics *CitationMetrics `json:"citation_metrics,omitempty" yaml:"citation_metrics,omitempty"`

	// LastUpdated is the time the profile was last written. Profiles older
	// than the cache TTL are treated as absent.
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
}

// Education is one education entry parsed from a student document.
type Education struct {
	Institution string `json:"institution" yaml:"institution"`
	Degree      string `json:"degree" yaml:"degree"`
	Field       string `json:"field,omitempty" yaml:"field,omitempty"`
	Year        int    `json:"year,omitempty" yaml:"year,omitempty"`
}

// Experience is one work or research experience entry parsed from a
// student document.
type Experience struct {
	Organization string `json:"organization" yaml:"organization"`
	Role         string `json:"role" yaml:"role"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	StartYear    int    `json:"start_year,omitempty" yaml:"start_year,omitempty"`
	EndYear      int    `json:"end_year,omitempty" yaml:"end_year,omitempty"`
}

// StudentProfile aggregates a student's stated interests with whatever the
// uploaded documents yielded. Built once per matching run, never persisted.
type StudentProfile struct {
	// SessionID ties the profile to the matching run that built it.
	SessionID uuid.UUID `json:"session_id" yaml:"session_id"`

	// StatedInterests are the interests the student entered directly.
	StatedInterests []string `json:"stated_interests" yaml:"stated_interests"`

	Education    []Education   `json:"education" yaml:"education"`
	Experience   []Experience  `json:"experience" yaml:"experience"`
	Publications []Publication `json:"publications" yaml:"publications"`

	// Skills is the deduplicated skill set across all documents.
	Skills []string `json:"skills" yaml:"skills"`

	// ExtractedKeywords merges stated interests with document-extracted
	// interests, deduplicated.
	ExtractedKeywords []string `json:"extracted_keywords" yaml:"extracted_keywords"`
}

// MatchResult pairs a professor with the oracle's alignment assessment.
type MatchResult struct {
	// Professor is the matched profile.
	Professor ProfessorProfile `json:"professor" yaml:"professor"`

	// MatchScore is the oracle's alignment score. Not range-checked.
	MatchScore float64 `json:"match_score" yaml:"match_score"`

	// AlignmentReasons gives 2-3 specific reasons for the match.
	AlignmentReasons []string `json:"alignment_reasons" yaml:"alignment_reasons"`

	// RelevantPublications is the subset of the professor's own publications
	// the oracle flagged as relevant to the student.
	RelevantPublications []Publication `json:"relevant_publications" yaml:"relevant_publications"`

	// SharedKeywords lists topics shared between student and professor.
	SharedKeywords []string `json:"shared_keywords" yaml:"shared_keywords"`

	// RecommendationText is a short free-text recommendation.
	RecommendationText string `json:"recommendation_text" yaml:"recommendation_text"`
}

// RunStatus is the terminal-state machine of a matching run.
type RunStatus string

const (
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// PipelineRun is the observable state of one matching run. Progress is
// monotonically increasing and persisted at every stage boundary so a
// polling caller sees each milestone.
type PipelineRun struct {
	// SessionID identifies the run.
	SessionID string `json:"session_id" yaml:"session_id"`

	// Status is processing, completed, or failed.
	Status RunStatus `json:"status" yaml:"status"`

	// Progress is 0-100.
	Progress int `json:"progress" yaml:"progress"`

	// Step is the current milestone label.
	Step string `json:"step" yaml:"step"`

	// Error holds a truncated failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Results holds the final matches when Status is completed.
	Results []MatchResult `json:"results,omitempty" yaml:"results,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// ElapsedSeconds is the total run duration, set on completion.
	ElapsedSeconds float64 `json:"elapsed_seconds,omitempty" yaml:"elapsed_seconds,omitempty"`

	// UpdatedAt is the time of the last state write.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
