package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// CSVTo writes matches or jobs as CSV to the given writer
func CSVTo(w io.Writer, data interface{}) error {
	var header []string
	var records [][]string

	switch v := data.(type) {
	case []MatchRow:
		header = []string{"rank", "score", "job_id", "title", "country", "budget", "posted_at", "application", "url", "top_reasons"}
		for _, m := range v {
			records = append(records, []string{
				strconv.Itoa(m.Rank),
				strconv.Itoa(m.Score),
				m.JobID,
				m.Title,
				m.Country,
				m.Budget,
				formatTime(m.Posted),
				string(m.Application),
				m.URL,
				TopReasons(m.Reasons, 3),
			})
		}
	case []radar.Job:
		header = []string{"id", "title", "created_at", "proposals", "verified", "total_spent", "hire_rate", "experience", "country", "budget", "stack", "url"}
		for _, j := range v {
			records = append(records, []string{
				j.ID,
				j.Title,
				formatTime(j.CreatedAt),
				deref(j.Proposals, ""),
				strconv.FormatBool(j.IsPaymentVerified),
				deref(j.TotalSpent, ""),
				deref(j.HireRate, ""),
				deref(j.Experience, ""),
				deref(j.Country, ""),
				FormatBudget(j.Budget),
				strings.Join(j.NormalizedStack, ";"),
				j.URL,
			})
		}
	default:
		return fmt.Errorf("unsupported data type for csv output: %T", data)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
