// Package jobboard searches external job boards for postings that match a
// recommended civilian role. Each board is a Source; a failing source
// contributes no postings instead of failing the search.
package jobboard

import (
	"context"
	"strings"
	"time"
)

const (
	SourceLinkedIn = "LinkedIn"
	SourceIndeed   = "Indeed"
	SourceUSAJobs  = "USAJobs"

	defaultLocation = "United States"
	unknownLocation = "Remote/Various"
)

// Job is one posting scraped or fetched from a board.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Salary      string    `json:"salary,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PostedDate  time.Time `json:"postedDate"`
	Skills      []string  `json:"skills"`
	Relevance   int       `json:"relevance"`
	// MatchScore is the Match Scorer composite, set only when the search
	// carried a candidate profile.
	MatchScore  *int      `json:"matchScore,omitempty"`
}

// Role is the recommendation a search is built from.
type Role struct {
	Title          string   `json:"title" binding:"required"`
	RequiredSkills []string `json:"requiredSkills"`
	Industries     []string `json:"industries"`
	Keywords       []string `json:"keywords"`
}

type Source interface {
	Name() string
	Search(ctx context.Context, query, location string) ([]Job, error)
}

// Queries derives the search phrases for role: the title, the title with the
// first two keywords, the first three skills and every industry combined with
// the title. Repeated phrases are dropped.
func Queries(role Role) []string {
	title := strings.TrimSpace(role.Title)
	if title == "" {
		return nil
	}

	candidates := []string{title}
	if kw := firstN(role.Keywords, 2); len(kw) > 0 {
		candidates = append(candidates, title+" "+strings.Join(kw, " "))
	}
	for _, skill := range firstN(role.RequiredSkills, 3) {
		candidates = append(candidates, skill+" "+title)
	}
	for _, industry := range role.Industries {
		if industry = strings.TrimSpace(industry); industry != "" {
			candidates = append(candidates, industry+" "+title)
		}
	}

	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, q := range candidates {
		key := strings.ToLower(q)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}

func firstN(values []string, n int) []string {
	out := make([]string, 0, n)
	for _, v := range values {
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == n {
			break
		}
	}
	return out
}

// Dedupe drops postings whose lowercased title and company were already seen.
func Dedupe(jobs []Job) []Job {
	out := make([]Job, 0, len(jobs))
	seen := make(map[string]struct{}, len(jobs))
	for _, j := range jobs {
		key := strings.ToLower(strings.TrimSpace(j.Title)) + "-" + strings.ToLower(strings.TrimSpace(j.Company))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, j)
	}
	return out
}

// Relevance scores a posting against role: +5 when the title contains the
// role title, +2 per keyword and per industry found in the posting text and
// +1 per required skill.
func Relevance(job Job, role Role) int {
	text := strings.ToLower(job.Title + " " + job.Company + " " + job.Description)

	score := 0
	if title := strings.ToLower(strings.TrimSpace(role.Title)); title != "" && strings.Contains(strings.ToLower(job.Title), title) {
		score += 5
	}
	score += 2 * countContained(text, role.Keywords)
	score += 2 * countContained(text, role.Industries)
	score += countContained(text, role.RequiredSkills)
	return score
}

func countContained(text string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if needle = strings.ToLower(strings.TrimSpace(needle)); needle != "" && strings.Contains(text, needle) {
			n++
		}
	}
	return n
}
