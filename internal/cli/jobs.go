package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobradar/internal/analytics"
	"github.com/vijay-prabhu/jobradar/internal/database"
	"github.com/vijay-prabhu/jobradar/internal/output"
	"github.com/vijay-prabhu/jobradar/internal/runner"
	"github.com/vijay-prabhu/jobradar/internal/search"
	"github.com/vijay-prabhu/jobradar/internal/source"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Import, fetch and browse job postings",
}

var jobsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import jobs from a JSON file ('-' for stdin)",
	Long: `Import job postings from a JSON file. The file holds either an array of
jobs or an object with a "jobs" array, in the same shape the listings API
returns. Existing jobs with the same id are replaced.

Examples:
  jobradar jobs import jobs.json
  curl -s https://example.dev/jobs | jobradar jobs import -`,
	Args: cobra.ExactArgs(1),
	RunE: runJobsImport,
}

var jobsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch new jobs from the listings API",
	Long: `Fetch job postings from the API configured in [source] and store them.

Examples:
  jobradar jobs fetch              # Fetch everything the API returns
  jobradar jobs fetch --since=2d   # Only jobs posted in the last 2 days`,
	RunE: runJobsFetch,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored jobs",
	Long: `List stored jobs, newest first.

The --query flag takes a boolean search over title and stack tags: terms are
ANDed, OR separates alternatives, -term or NOT term excludes, and "quoted
phrases" match as a whole.

Examples:
  jobradar jobs list --since=1d
  jobradar jobs list --query 'react -wordpress'
  jobradar jobs list --query 'go OR rust' --country Germany -o csv`,
	RunE: runJobsList,
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsShow,
}

var jobsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics about stored jobs",
	Long: `Display aggregate statistics about stored jobs.

Examples:
  jobradar jobs stats             # All stored jobs
  jobradar jobs stats --since=7d  # Jobs posted in the last 7 days`,
	RunE: runJobsStats,
}

var (
	fetchSince string

	listQuery   string
	listSince   string
	listCountry string
	listLimit   int

	statsSince string
	statsTop   int
)

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsImportCmd, jobsFetchCmd, jobsListCmd, jobsShowCmd, jobsStatsCmd)

	jobsFetchCmd.Flags().StringVar(&fetchSince, "since", "", "Only fetch jobs posted within this period (e.g., 12h, 2d, 1w)")

	jobsListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Boolean search over title and stack tags")
	jobsListCmd.Flags().StringVar(&listSince, "since", "", "Filter by time (e.g., 12h, 7d, 2w)")
	jobsListCmd.Flags().StringVar(&listCountry, "country", "", "Filter by client country")
	jobsListCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of results (0 for all)")

	jobsStatsCmd.Flags().StringVar(&statsSince, "since", "", "Time period (e.g., 7d, 2w, 1m)")
	jobsStatsCmd.Flags().IntVar(&statsTop, "top", analytics.DefaultTopCountries, "Number of countries to show")
}

func runJobsImport(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read jobs: %w", err)
	}

	jobs, err := source.ParseJobs(data)
	if err != nil {
		return err
	}

	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.UpsertJobs(cmd.Context(), jobs)
	if err != nil {
		return fmt.Errorf("failed to store jobs: %w", err)
	}

	return output.Output(outputFmt, result)
}

func runJobsFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	since, err := sinceFlag(fetchSince)
	if err != nil {
		return err
	}

	terminal := NewTerminal()
	client := source.New(ctx, cfg.Source)
	result, err := runner.New(db, nil).Refresh(ctx, client, since, progressPrinter(terminal))
	terminal.ClearLine()
	if err != nil {
		return err
	}

	return output.Output(outputFmt, result)
}

func runJobsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := database.JobListOptions{}
	if listCountry != "" {
		opts.Country = &listCountry
	}
	if opts.Since, err = sinceFlag(listSince); err != nil {
		return err
	}

	q := search.Parse(listQuery)
	if q.IsEmpty() {
		opts.Limit = listLimit
	}

	jobs, err := db.ListJobs(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs = q.Filter(jobs)
	if listLimit > 0 && len(jobs) > listLimit {
		jobs = jobs[:listLimit]
	}

	return output.Output(outputFmt, jobs)
}

func runJobsShow(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	job, err := db.GetJob(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("job not found: %s", args[0])
	}

	return output.Output(outputFmt, job)
}

func runJobsStats(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := database.JobListOptions{}
	if opts.Since, err = sinceFlag(statsSince); err != nil {
		return err
	}

	jobs, err := db.ListJobs(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}

	summary := analytics.Summarize(jobs, time.Now(), analytics.Options{TopCountries: statsTop})
	return output.Output(outputFmt, summary)
}

// sinceFlag converts a --since value into an absolute time, nil when unset
func sinceFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}
	since := time.Now().Add(-d)
	return &since, nil
}

// parseDuration parses a human-readable duration like "12h", "7d", "2w", "1m"
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}

	unit := s[len(s)-1]
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid duration value")
	}

	switch unit {
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %c (use h, d, w, or m)", unit)
	}
}
