package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobradar/internal/output"
	"github.com/vijay-prabhu/jobradar/internal/radar"
	"github.com/vijay-prabhu/jobradar/internal/runner"
)

var radarRunCmd = &cobra.Command{
	Use:   "run [radar]",
	Short: "Run a radar against the stored jobs",
	Long: `Filter and score the stored jobs with a radar and save its matches,
replacing the previous ones.

Examples:
  jobradar radar run "Go APIs"         # Run one radar
  jobradar radar run --all             # Run every active radar
  jobradar radar run starter --force   # Run even if paused`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRadarRun,
}

var radarMatchesCmd = &cobra.Command{
	Use:   "matches <radar>",
	Short: "Show a radar's saved matches, best first",
	Long: `Show the matches saved by the radar's last run.

Examples:
  jobradar radar matches "Go APIs"
  jobradar radar matches "Go APIs" --min-score 70 --limit 10
  jobradar radar matches "Go APIs" --export matches.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runRadarMatches,
}

var (
	runAll   bool
	runForce bool

	matchesLimit    int
	matchesMinScore int
	matchesExport   string
)

func init() {
	radarCmd.AddCommand(radarRunCmd, radarMatchesCmd)

	radarRunCmd.Flags().BoolVar(&runAll, "all", false, "Run every active radar")
	radarRunCmd.Flags().BoolVar(&runForce, "force", false, "Run paused and disabled radars too")

	radarMatchesCmd.Flags().IntVar(&matchesLimit, "limit", 20, "Maximum number of matches (0 for all)")
	radarMatchesCmd.Flags().IntVar(&matchesMinScore, "min-score", 0, "Only matches scoring at least this")
	radarMatchesCmd.Flags().StringVar(&matchesExport, "export", "", "Write matches to a CSV file instead of printing")
}

func runRadarRun(cmd *cobra.Command, args []string) error {
	if runAll == (len(args) == 1) {
		return fmt.Errorf("pass either a radar or --all")
	}

	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	notifier, closeNotifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeNotifier()

	terminal := NewTerminal()
	opts := runner.RunOptions{Force: runForce, Progress: progressPrinter(terminal)}
	r := runner.New(db, notifier)

	var results []*runner.RunResult
	if runAll {
		results, err = r.RunAll(ctx, opts)
	} else {
		var res *runner.RunResult
		res, err = r.RunRadar(ctx, args[0], opts)
		if res != nil {
			results = append(results, res)
		}
	}
	terminal.ClearLine()
	if err != nil {
		return err
	}

	return output.Output(outputFmt, results)
}

func runRadarMatches(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	r, err := db.GetRadar(ctx, args[0])
	if err != nil {
		return err
	}

	matches, err := db.MatchesFor(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("failed to load matches: %w", err)
	}
	matches = lo.Filter(matches, func(m radar.Match, _ int) bool { return m.Score >= matchesMinScore })
	if matchesLimit > 0 {
		matches = lo.Slice(matches, 0, matchesLimit)
	}

	jobs, err := db.JobsByID(ctx, lo.Map(matches, func(m radar.Match, _ int) string { return m.JobID }))
	if err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}
	apps, err := db.LoadApplications(ctx)
	if err != nil {
		return fmt.Errorf("failed to load applications: %w", err)
	}

	rows := output.BuildMatchRows(matches, jobs, radar.IndexApplications(apps))

	if matchesExport != "" {
		return exportMatches(matchesExport, rows)
	}

	if r.LastRunAt == nil && outputFmt == "table" {
		fmt.Printf("Radar %s has not run yet. Use 'jobradar radar run %q'.\n", r.Name, r.Name)
		return nil
	}
	return output.Output(outputFmt, rows)
}

// exportMatches writes match rows to path as CSV, or JSON for a .json path
func exportMatches(path string, rows []output.MatchRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	format := "csv"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	if err := output.OutputTo(f, format, rows); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Exported %d matches to %s\n", len(rows), path)
	return f.Close()
}
