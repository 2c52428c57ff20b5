// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// Caps keep the prompt compact enough for a single model call even with
// thirty fully enriched professors in it.
const (
	summaryAreas    = 5
	summaryPapers   = 5
	studentKeywords = 10
)

// professorSummary is the per-professor block embedded in the ranking
// prompt. The model echoes ID back in its answer.
type professorSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	Department    string   `json:"department"`
	ResearchAreas []string `json:"research_areas"`
	RecentPapers  []string `json:"recent_papers"`
	HIndex        int      `json:"h_index"`
}

// rankingPrompt renders the interests, the optional student background,
// and a compact summary of every professor into the single ranking
// request.
func rankingPrompt(professors []types.ProfessorProfile, interests []string, student *types.StudentProfile, max int) (string, error) {
	summaries := make([]professorSummary, 0, len(professors))
	for _, p := range professors {
		s := professorSummary{
			ID:            p.ID.String(),
			Name:          p.Name,
			Title:         p.Title,
			Department:    p.Department,
			ResearchAreas: capped(p.ResearchAreas, summaryAreas),
		}
		for _, pub := range p.Publications {
			s.RecentPapers = append(s.RecentPapers, pub.Title)
			if len(s.RecentPapers) == summaryPapers {
				break
			}
		}
		if p.CitationMetrics != nil {
			s.HIndex = p.CitationMetrics.HIndex
		}
		summaries = append(summaries, s)
	}
	summariesJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal professor summaries: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analyze professors and rank by research alignment with student interests.\n\n")
	fmt.Fprintf(&b, "Student Research Interests: %s\n", strings.Join(interests, ", "))
	if student != nil {
		writeStudentBlock(&b, student)
	}
	fmt.Fprintf(&b, "\nProfessors:\n%s\n\n", summariesJSON)
	fmt.Fprintf(&b, "Return JSON array (top %d max) with:\n", max)
	b.WriteString(`- professor_id: string
- match_score: number (0-100)
- alignment_reasons: string[] (2-3 specific reasons why this professor is a good match)
- relevant_publication_titles: string[] (publications the student could cite or build upon)
- shared_keywords: string[] (research topics shared between student interests and professor's work)
- recommendation_text: string (2-3 sentences on why this professor would be valuable)

Return ONLY valid JSON array, no other text.
`)
	return b.String(), nil
}

func writeStudentBlock(b *strings.Builder, student *types.StudentProfile) {
	education, _ := json.Marshal(student.Education)
	b.WriteString("\nStudent Background:\n")
	fmt.Fprintf(b, "- Education: %s\n", education)
	fmt.Fprintf(b, "- Skills: %s\n", strings.Join(student.Skills, ", "))
	fmt.Fprintf(b, "- Publications: %d papers\n", len(student.Publications))
	fmt.Fprintf(b, "- Keywords: %s\n", strings.Join(capped(student.ExtractedKeywords, studentKeywords), ", "))
}

func capped(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}
