package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobradar/internal/output"
	"github.com/vijay-prabhu/jobradar/internal/radar"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Track what you did about a job",
}

var appSetCmd = &cobra.Command{
	Use:   "set <job-id> <status>",
	Short: "Set a job's application status",
	Long: `Record the status of your application to a job. Radars with
--hide-applied skip jobs whose status is anything but "none".

Statuses: none, applied, shortlisted, interview, hired, declined

Examples:
  jobradar app set 01J9Z2 applied --link https://example.dev/proposals/42
  jobradar app set 01J9Z2 interview --note "call on Tuesday"
  jobradar app set 01J9Z2 none       # Clear the status`,
	Args: cobra.ExactArgs(2),
	RunE: runAppSet,
}

var appListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked applications, most recently updated first",
	RunE:  runAppList,
}

var (
	appNote   string
	appLink   string
	appStatus string
)

func init() {
	rootCmd.AddCommand(appCmd)
	appCmd.AddCommand(appSetCmd, appListCmd)

	appSetCmd.Flags().StringVar(&appNote, "note", "", "Free-form note")
	appSetCmd.Flags().StringVar(&appLink, "link", "", "Link to the submitted proposal")
	appListCmd.Flags().StringVar(&appStatus, "status", "", "Only applications with this status")
}

func runAppSet(cmd *cobra.Command, args []string) error {
	status, err := radar.ParseApplicationStatus(strings.ToLower(args[1]))
	if err != nil {
		return err
	}

	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	job, err := db.GetJob(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("job not found: %s", args[0])
	}

	// Keep the previous note and link unless new ones are given
	app, err := db.GetApplication(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to load application: %w", err)
	}
	app.Status = status
	if cmd.Flags().Changed("note") {
		app.Note = appNote
	}
	if cmd.Flags().Changed("link") {
		app.ProposalLink = appLink
	}

	if err := db.UpsertApplication(ctx, &app); err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}

	fmt.Printf("%s: %s\n", job.Title, status)
	return nil
}

func runAppList(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	apps, err := db.LoadApplications(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load applications: %w", err)
	}

	if appStatus != "" {
		status, err := radar.ParseApplicationStatus(strings.ToLower(appStatus))
		if err != nil {
			return err
		}
		filtered := apps[:0]
		for _, a := range apps {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		apps = filtered
	}

	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].UpdatedAt.After(apps[j].UpdatedAt)
	})

	return output.Output(outputFmt, apps)
}
