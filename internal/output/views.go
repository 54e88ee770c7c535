package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// MatchRow is a match joined with its job for display
type MatchRow struct {
	Rank        int                     `json:"rank"`
	Score       int                     `json:"score"`
	JobID       string                  `json:"job_id"`
	Title       string                  `json:"title"`
	URL         string                  `json:"url,omitempty"`
	Country     string                  `json:"country,omitempty"`
	Budget      string                  `json:"budget"`
	Posted      time.Time               `json:"posted_at"`
	Application radar.ApplicationStatus `json:"application"`
	Reasons     []radar.Reason          `json:"reasons"`
}

// BuildMatchRows joins matches with their jobs and application status.
// Matches whose job is no longer stored keep an empty title.
func BuildMatchRows(matches []radar.Match, jobs map[string]radar.Job, apps radar.Applications) []MatchRow {
	rows := make([]MatchRow, 0, len(matches))
	for i, m := range matches {
		row := MatchRow{
			Rank:        i + 1,
			Score:       m.Score,
			JobID:       m.JobID,
			Budget:      FormatBudget(nil),
			Application: apps.StatusOf(m.JobID),
			Reasons:     m.Reasons,
		}
		if job, ok := jobs[m.JobID]; ok {
			row.Title = job.Title
			row.URL = job.URL
			row.Budget = FormatBudget(job.Budget)
			row.Posted = job.CreatedAt
			if job.Country != nil {
				row.Country = *job.Country
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatBudget renders a budget for display
func FormatBudget(b radar.Budget) string {
	switch v := b.(type) {
	case radar.FixedBudget:
		return fmt.Sprintf("$%.0f fixed", v.Amount)
	case radar.HourlyBudget:
		return fmt.Sprintf("$%.0f-%.0f/hr", v.Min, v.Max)
	default:
		return "-"
	}
}

// TopReasons renders the n highest-scoring reasons, e.g. "trust+13 stack+13"
func TopReasons(reasons []radar.Reason, n int) string {
	sorted := append([]radar.Reason(nil), reasons...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points > sorted[j].Points
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	parts := make([]string, 0, len(sorted))
	for _, r := range sorted {
		parts = append(parts, fmt.Sprintf("%s+%d", r.Key, r.Points))
	}
	return strings.Join(parts, " ")
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	hours := int(time.Since(t).Hours())
	switch {
	case hours < 1:
		return "just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", hours/24)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func deref[T any](p *T, fallback string) string {
	if p == nil {
		return fallback
	}
	return fmt.Sprint(*p)
}
