package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobradar/internal/output"
	"github.com/vijay-prabhu/jobradar/internal/runner"
	"github.com/vijay-prabhu/jobradar/internal/scheduler"
	"github.com/vijay-prabhu/jobradar/internal/source"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run radars on their schedules until interrupted",
	Long: `Run every active radar on its schedule (hourly, daily, weekly) and send
notifications for radars that have them enabled.

With [scheduler] fetch_first = true, jobs are fetched from the listings API
before each run. Send SIGHUP to reload radars after editing them.

Examples:
  jobradar watch
  jobradar watch --no-initial-run`,
	PreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel(slog.LevelInfo)
	},
	RunE: runWatch,
}

var watchNoInitialRun bool

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchNoInitialRun, "no-initial-run", false, "Skip running all radars at startup")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	notifier, closeNotifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeNotifier()

	r := runner.New(db, notifier)
	sched := scheduler.New(db, r, cfg.Scheduler.Location())

	refresh := func(ctx context.Context) error {
		_, err := r.Refresh(ctx, source.New(ctx, cfg.Source), nil, nil)
		return err
	}
	if cfg.Scheduler.FetchFirst {
		sched.SetBeforeRun(refresh)
	}

	if cfg.Scheduler.RunOnStart && !watchNoInitialRun {
		if cfg.Scheduler.FetchFirst {
			if err := refresh(ctx); err != nil {
				slog.Warn("initial refresh failed", "err", err)
			}
		}
		results, err := r.RunAll(ctx, runner.RunOptions{})
		if err != nil {
			return err
		}
		if err := output.Output(outputFmt, results); err != nil {
			return err
		}
	}

	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	if err := output.Output(outputFmt, sched.Entries()); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Watching. Press Ctrl+C to stop, send SIGHUP to reload radars.")

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			n, err := sched.Reload(ctx)
			if err != nil {
				slog.Error("reload failed", "err", err)
				continue
			}
			slog.Info("radars reloaded", "scheduled", n)
		}
	}
}
