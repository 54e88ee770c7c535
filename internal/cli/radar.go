package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobradar/internal/output"
	"github.com/vijay-prabhu/jobradar/internal/radar"
)

var radarCmd = &cobra.Command{
	Use:   "radar",
	Short: "Manage and run radars",
	Long: `A radar is a saved job-matching profile: hard filters decide which jobs
qualify, and eight weighted signals (freshness, low_proposals, trust,
hire_rate, budget, expertise, geo, stack) rank the ones that do.

Radars are referenced by ID or by name (case-insensitive).`,
}

var radarCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a radar",
	Long: `Create a radar. Weights default to [scoring.default_weights] in the config.

Examples:
  jobradar radar create "Go APIs" --tags go,postgres --verified-only --max-age-hours 48
  jobradar radar create "Senior React" --expertise expert --hourly-min 50 --weight budget=2,geo=0.5
  jobradar radar create "Daily digest" --schedule daily --hour 8 --notify --notify-min-score 70`,
	Args: cobra.ExactArgs(1),
	RunE: runRadarCreate,
}

var radarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List radars",
	RunE:  runRadarList,
}

var radarShowCmd = &cobra.Command{
	Use:   "show <radar>",
	Short: "Show a radar's filters, schedule and weights",
	Args:  cobra.ExactArgs(1),
	RunE:  runRadarShow,
}

var radarEditCmd = &cobra.Command{
	Use:   "edit <radar>",
	Short: "Change a radar's filters, schedule or weights",
	Long: `Change a radar. Only the flags you pass are updated.

Examples:
  jobradar radar edit "Go APIs" --max-proposals 10
  jobradar radar edit "Go APIs" --clear tags,min-spent
  jobradar radar edit starter --name "Fresh gigs" --schedule hourly`,
	Args: cobra.ExactArgs(1),
	RunE: runRadarEdit,
}

var radarDeleteCmd = &cobra.Command{
	Use:   "delete <radar>",
	Short: "Delete a radar and its saved matches",
	Args:  cobra.ExactArgs(1),
	RunE:  runRadarDelete,
}

var radarPauseCmd = &cobra.Command{
	Use:   "pause <radar>",
	Short: "Pause a radar (skipped by 'run --all' and 'watch')",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRadarStatus(cmd, args[0], radar.StatusPaused)
	},
}

var radarResumeCmd = &cobra.Command{
	Use:   "resume <radar>",
	Short: "Resume a paused or disabled radar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRadarStatus(cmd, args[0], radar.StatusActive)
	},
}

var (
	createOpts radarOptions
	editOpts   radarOptions
	editName   string
)

func init() {
	rootCmd.AddCommand(radarCmd)
	radarCmd.AddCommand(radarCreateCmd, radarListCmd, radarShowCmd, radarEditCmd,
		radarDeleteCmd, radarPauseCmd, radarResumeCmd)

	addRadarFlags(radarCreateCmd, &createOpts)
	addRadarFlags(radarEditCmd, &editOpts)
	radarEditCmd.Flags().StringVar(&editName, "name", "", "Rename the radar")
}

func runRadarCreate(cmd *cobra.Command, args []string) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	r := &radar.Radar{
		Name:     args[0],
		Status:   radar.StatusActive,
		Schedule: radar.Schedule{Frequency: radar.FrequencyManual},
		Weights:  cfg.Scoring.DefaultWeights,
	}
	if cfg.Scoring.DefaultMinScore > 0 {
		minScore := cfg.Scoring.DefaultMinScore
		r.Filters.MinScore = &minScore
	}

	if err := createOpts.apply(cmd, r); err != nil {
		return err
	}

	ctx := cmd.Context()
	if existing, err := db.GetRadar(ctx, r.Name); err == nil {
		return fmt.Errorf("a radar named %q already exists (%s)", existing.Name, existing.ID)
	}

	if err := db.CreateRadar(ctx, r); err != nil {
		return fmt.Errorf("failed to create radar: %w", err)
	}

	return output.Output(outputFmt, r)
}

func runRadarList(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	radars, err := db.LoadRadars(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load radars: %w", err)
	}

	return output.Output(outputFmt, radars)
}

func runRadarShow(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	r, err := db.GetRadar(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return output.Output(outputFmt, r)
}

func runRadarEdit(cmd *cobra.Command, args []string) error {
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

	if cmd.Flags().Changed("name") {
		if editName == "" {
			return fmt.Errorf("--name must not be empty")
		}
		r.Name = editName
	}
	if err := editOpts.apply(cmd, r); err != nil {
		return err
	}

	if err := db.UpdateRadar(ctx, r); err != nil {
		return fmt.Errorf("failed to update radar: %w", err)
	}

	return output.Output(outputFmt, r)
}

func runRadarDelete(cmd *cobra.Command, args []string) error {
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

	if err := db.DeleteRadar(ctx, r.ID); err != nil {
		return fmt.Errorf("failed to delete radar: %w", err)
	}

	fmt.Printf("Deleted radar %s (%s)\n", r.Name, r.ID)
	return nil
}

func setRadarStatus(cmd *cobra.Command, ref string, status radar.Status) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	r, err := db.GetRadar(ctx, ref)
	if err != nil {
		return err
	}

	if r.Status == status {
		fmt.Printf("Radar %s is already %s\n", r.Name, status)
		return nil
	}

	r.Status = status
	if err := db.UpdateRadar(ctx, r); err != nil {
		return fmt.Errorf("failed to update radar: %w", err)
	}

	fmt.Printf("Radar %s is now %s\n", r.Name, status)
	return nil
}
