package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/vijay-prabhu/jobradar/internal/analytics"
	"github.com/vijay-prabhu/jobradar/internal/database"
	"github.com/vijay-prabhu/jobradar/internal/radar"
	"github.com/vijay-prabhu/jobradar/internal/runner"
	"github.com/vijay-prabhu/jobradar/internal/scheduler"
)

// ScoreStyle decorates a rendered score, e.g. with terminal colours
var ScoreStyle = func(score int, text string) string { return text }

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []radar.Job:
		return jobsTable(w, v)
	case *radar.Job:
		return jobDetail(w, v)
	case []radar.Radar:
		return radarsTable(w, v)
	case *radar.Radar:
		return radarDetail(w, v)
	case []MatchRow:
		return matchesTable(w, v)
	case *runner.RunResult:
		return runTable(w, []*runner.RunResult{v})
	case []*runner.RunResult:
		return runTable(w, v)
	case []radar.Application:
		return applicationsTable(w, v)
	case *analytics.Summary:
		return summaryTable(w, v)
	case *database.ImportResult:
		fmt.Fprintf(w, "Imported %d new, updated %d existing jobs\n", v.Inserted, v.Updated)
		return nil
	case []scheduler.Entry:
		return scheduleTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func render(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(lo.ToAnySlice(header)...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func jobsTable(w io.Writer, jobs []radar.Job) error {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs found.")
		return nil
	}

	rows := lo.Map(jobs, func(j radar.Job, _ int) []string {
		verified := ""
		if j.IsPaymentVerified {
			verified = "yes"
		}
		return []string{
			j.ID,
			truncate(j.Title, 40),
			deref(j.Country, "-"),
			FormatBudget(j.Budget),
			deref(j.Proposals, "-"),
			verified,
			formatAge(j.CreatedAt),
		}
	})
	return render(w, []string{"ID", "Title", "Country", "Budget", "Proposals", "Verified", "Posted"}, rows)
}

func jobDetail(w io.Writer, j *radar.Job) error {
	fmt.Fprintf(w, "Title:       %s\n", j.Title)
	fmt.Fprintf(w, "ID:          %s\n", j.ID)
	if j.URL != "" {
		fmt.Fprintf(w, "URL:         %s\n", j.URL)
	}
	fmt.Fprintf(w, "Posted:      %s (%s)\n", j.CreatedAt.Format("Jan 02, 2006 15:04"), formatAge(j.CreatedAt))
	fmt.Fprintf(w, "Budget:      %s\n", FormatBudget(j.Budget))
	fmt.Fprintf(w, "Experience:  %s\n", deref(j.Experience, "-"))
	fmt.Fprintf(w, "Proposals:   %s\n", deref(j.Proposals, "unknown"))
	fmt.Fprintf(w, "Client:      verified=%t spent=%s hire_rate=%s country=%s\n",
		j.IsPaymentVerified, deref(j.TotalSpent, "?"), deref(j.HireRate, "?"), deref(j.Country, "?"))
	if len(j.NormalizedStack) > 0 {
		fmt.Fprintf(w, "Stack:       %s\n", strings.Join(j.NormalizedStack, ", "))
	}
	return nil
}

func radarsTable(w io.Writer, radars []radar.Radar) error {
	if len(radars) == 0 {
		fmt.Fprintln(w, "No radars configured.")
		return nil
	}

	rows := lo.Map(radars, func(r radar.Radar, _ int) []string {
		lastRun := "never"
		if r.LastRunAt != nil {
			lastRun = formatAge(*r.LastRunAt)
		}
		return []string{
			r.ID,
			r.Name,
			string(r.Status),
			scheduleLabel(r.Schedule),
			lastRun,
			strconv.Itoa(r.LastRunCount),
		}
	})
	return render(w, []string{"ID", "Name", "Status", "Schedule", "Last Run", "Matches"}, rows)
}

func radarDetail(w io.Writer, r *radar.Radar) error {
	fmt.Fprintf(w, "Radar:       %s (%s)\n", r.Name, r.ID)
	fmt.Fprintf(w, "Status:      %s\n", r.Status)
	fmt.Fprintf(w, "Schedule:    %s\n", scheduleLabel(r.Schedule))
	if r.Notifications.Enabled {
		fmt.Fprintf(w, "Notify:      score >= %d\n", r.Notifications.MinScore)
	} else {
		fmt.Fprintln(w, "Notify:      off")
	}
	if r.LastRunAt != nil {
		fmt.Fprintf(w, "Last run:    %s, %d matches\n", r.LastRunAt.Format("Jan 02, 2006 15:04"), r.LastRunCount)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Filters:")
	filters := describeFilters(r.Filters)
	if len(filters) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, f := range filters {
		fmt.Fprintf(w, "  %s\n", f)
	}

	fmt.Fprintln(w)
	rows := lo.Map(radar.SignalKeys, func(k radar.SignalKey, _ int) []string {
		return []string{
			string(k),
			strconv.FormatFloat(r.Weights.Get(k), 'g', -1, 64),
			fmt.Sprintf("%.0f%%", r.Weights.Normalized(k)*100),
		}
	})
	return render(w, []string{"Signal", "Weight", "Share"}, rows)
}

func describeFilters(f radar.Filters) []string {
	var out []string
	add := func(format string, args ...interface{}) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	if f.VerifiedOnly {
		add("payment verified only")
	}
	if f.MinSpent != nil {
		add("client spent >= $%.0f", *f.MinSpent)
	}
	if f.MinHireRate != nil {
		add("hire rate >= %.0f%%", *f.MinHireRate)
	}
	if f.MaxProposals != nil {
		add("proposals <= %d", *f.MaxProposals)
	}
	if f.MaxAgeHours != nil {
		add("posted within %.0fh", *f.MaxAgeHours)
	}
	if len(f.ExpertiseLevels) > 0 {
		add("expertise in %v", f.ExpertiseLevels)
	}
	if len(f.CountriesInclude) > 0 {
		add("countries: %s", strings.Join(f.CountriesInclude, ", "))
	}
	if len(f.CountriesExclude) > 0 {
		add("excluding countries: %s", strings.Join(f.CountriesExclude, ", "))
	}
	if len(f.IncludeTags) > 0 {
		add("requires tags: %s", strings.Join(f.IncludeTags, ", "))
	}
	if len(f.ExcludeTags) > 0 {
		add("excluding tags: %s", strings.Join(f.ExcludeTags, ", "))
	}
	if f.MinBudget != nil {
		add("fixed budget >= $%.0f", *f.MinBudget)
	}
	if f.HourlyMin != nil || f.HourlyMax != nil {
		add("hourly range %s-%s", deref(f.HourlyMin, "0"), deref(f.HourlyMax, "any"))
	}
	if f.HideApplied {
		add("hide applied jobs")
	}
	if f.MinScore != nil {
		add("score >= %d", *f.MinScore)
	}
	return out
}

func scheduleLabel(s radar.Schedule) string {
	if spec := s.CronSpec(); spec != "" {
		return fmt.Sprintf("%s (%s)", s.Frequency, spec)
	}
	return string(s.Frequency)
}

func matchesTable(w io.Writer, rows []MatchRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No matches.")
		return nil
	}

	data := lo.Map(rows, func(m MatchRow, _ int) []string {
		app := ""
		if m.Application != radar.AppNone {
			app = string(m.Application)
		}
		return []string{
			strconv.Itoa(m.Rank),
			ScoreStyle(m.Score, strconv.Itoa(m.Score)),
			truncate(m.Title, 40),
			m.Budget,
			formatAge(m.Posted),
			app,
			TopReasons(m.Reasons, 3),
		}
	})
	return render(w, []string{"#", "Score", "Title", "Budget", "Posted", "Applied", "Top Reasons"}, data)
}

func runTable(w io.Writer, results []*runner.RunResult) error {
	rows := lo.Map(results, func(r *runner.RunResult, _ int) []string {
		best := "-"
		if len(r.Matches) > 0 {
			best = ScoreStyle(r.Matches[0].Score, strconv.Itoa(r.Matches[0].Score))
		}
		status := "ok"
		switch {
		case r.Skipped:
			status = "skipped: " + r.SkipReason
		case len(r.Errors) > 0:
			status = "warning: " + strings.Join(r.Errors, "; ")
		case r.Notified:
			status = "notified"
		}
		return []string{r.RadarName, strconv.Itoa(r.JobsConsidered), strconv.Itoa(len(r.Matches)), best, status}
	})
	return render(w, []string{"Radar", "Jobs", "Matches", "Best", "Status"}, rows)
}

func applicationsTable(w io.Writer, apps []radar.Application) error {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No applications tracked.")
		return nil
	}

	rows := lo.Map(apps, func(a radar.Application, _ int) []string {
		return []string{a.JobID, string(a.Status), truncate(a.Note, 40), a.ProposalLink, a.UpdatedAt.Format("Jan 02, 2006")}
	})
	return render(w, []string{"Job", "Status", "Note", "Proposal", "Updated"}, rows)
}

func summaryTable(w io.Writer, s *analytics.Summary) error {
	fmt.Fprintln(w, "Job Market Summary")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total jobs:             %d\n", s.TotalJobs)
	fmt.Fprintf(w, "Posted last 24h:        %d\n", s.PostedLast24h)
	fmt.Fprintf(w, "Payment verified:       %.1f%%\n", s.VerifiedShare)
	if s.AvgHourlyMidpoint != nil {
		fmt.Fprintf(w, "Avg hourly midpoint:    $%.2f\n", *s.AvgHourlyMidpoint)
	}
	if s.MedianFixedBudget != nil {
		fmt.Fprintf(w, "Median fixed budget:    $%.0f\n", *s.MedianFixedBudget)
	}
	fmt.Fprintln(w)

	buckets := lo.Map(analytics.ProposalBuckets, func(b string, _ int) []string {
		return []string{b, strconv.Itoa(s.ProposalBuckets[b])}
	})
	if err := render(w, []string{"Proposals", "Jobs"}, buckets); err != nil {
		return err
	}
	fmt.Fprintln(w)

	countries := lo.Map(s.ByCountry, func(c analytics.CountryStat, _ int) []string {
		return []string{c.Country, strconv.Itoa(c.Count)}
	})
	return render(w, []string{"Country", "Jobs"}, countries)
}

func scheduleTable(w io.Writer, entries []scheduler.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No scheduled radars.")
		return nil
	}

	rows := lo.Map(entries, func(e scheduler.Entry, _ int) []string {
		next := "-"
		if !e.Next.IsZero() {
			next = e.Next.Format("Mon Jan 02 15:04")
		}
		return []string{e.RadarName, e.Spec, next}
	})
	return render(w, []string{"Radar", "Cron", "Next Run"}, rows)
}
