// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package student builds a StudentProfile from stated interests and
// whatever structure the document parser pulls out of uploaded CVs.
package student

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/advisor-match/internal/gateway"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// Builder assembles student profiles through the document tool server.
type Builder struct {
	gw  *gateway.Client
	log *zap.Logger
}

// New returns a Builder.
func New(gw *gateway.Client, logger *zap.Logger) *Builder {
	return &Builder{gw: gw, log: logger}
}

// Build parses every uploaded document concurrently and merges the
// results with the stated interests. A document that fails to parse
// contributes nothing; the profile is still built from the rest. With no
// documents at all, the profile carries only the stated interests.
func (b *Builder) Build(ctx context.Context, sessionID uuid.UUID, interests []string, filePaths []string) types.StudentProfile {
	parsed := make([]map[string]any, len(filePaths))
	var g errgroup.Group
	for i, path := range filePaths {
		g.Go(func() error {
			parsed[i] = b.gw.Document().ParseCV(ctx, path)
			return nil
		})
	}
	g.Wait()

	profile := types.StudentProfile{
		SessionID:       sessionID,
		StatedInterests: interests,
	}
	keywords := append([]string(nil), interests...)
	for i, doc := range parsed {
		if len(doc) == 0 {
			b.log.Warn("student: document yielded nothing", zap.String("file", filePaths[i]))
			continue
		}
		profile.Education = append(profile.Education, educationEntries(doc["education"])...)
		profile.Experience = append(profile.Experience, experienceEntries(doc["experience"])...)
		profile.Publications = append(profile.Publications, publicationEntries(doc["publications"])...)
		profile.Skills = append(profile.Skills, gateway.StrList(doc["skills"])...)
		keywords = append(keywords, gateway.StrList(doc["research_interests"])...)
		keywords = append(keywords, gateway.StrList(doc["keywords"])...)
	}

	profile.Skills = dedupStrings(profile.Skills)
	profile.ExtractedKeywords = dedupStrings(keywords)

	b.log.Info("student: profile built",
		zap.Int("documents", len(filePaths)),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("keywords", len(profile.ExtractedKeywords)))
	return profile
}

// educationEntries coerces a parsed education list. Parsers disagree on
// shape: entries may be objects or plain strings, and strings become
// institution-only entries.
func educationEntries(v any) []types.Education {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []types.Education
	for _, item := range list {
		switch e := item.(type) {
		case string:
			if e != "" {
				out = append(out, types.Education{Institution: e})
			}
		case map[string]any:
			entry := types.Education{
				Institution: gateway.Str(e["institution"]),
				Degree:      gateway.Str(e["degree"]),
				Field:       gateway.Str(e["field"]),
				Year:        gateway.Int(e["year"]),
			}
			if entry.Institution != "" || entry.Degree != "" {
				out = append(out, entry)
			}
		}
	}
	return out
}

// experienceEntries coerces a parsed experience list with the same
// string-or-object leniency as educationEntries.
func experienceEntries(v any) []types.Experience {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []types.Experience
	for _, item := range list {
		switch e := item.(type) {
		case string:
			if e != "" {
				out = append(out, types.Experience{Organization: e})
			}
		case map[string]any:
			entry := types.Experience{
				Organization: gateway.Str(e["organization"]),
				Role:         gateway.Str(e["role"]),
				Description:  gateway.Str(e["description"]),
				StartYear:    gateway.Int(e["start_year"]),
				EndYear:      gateway.Int(e["end_year"]),
			}
			if entry.Organization != "" || entry.Role != "" {
				out = append(out, entry)
			}
		}
	}
	return out
}

func publicationEntries(v any) []types.Publication {
	var out []types.Publication
	for _, e := range gateway.List(v) {
		pub := types.Publication{
			Title:   gateway.Str(e["title"]),
			Authors: gateway.StrList(e["authors"]),
			Year:    gateway.Int(e["year"]),
			Venue:   gateway.Str(e["venue"]),
		}
		if pub.Title != "" {
			out = append(out, pub)
		}
	}
	return out
}

// dedupStrings keeps the first occurrence of each string, dropping
// empties.
func dedupStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
