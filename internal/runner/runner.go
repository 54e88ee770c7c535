// Package runner orchestrates radar runs: load stored jobs, filter and score
// them, persist the matches and notify subscribers.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vijay-prabhu/jobradar/internal/database"
	"github.com/vijay-prabhu/jobradar/internal/notify"
	"github.com/vijay-prabhu/jobradar/internal/radar"
	"github.com/vijay-prabhu/jobradar/internal/source"
)

// Fetcher retrieves fresh job postings
type Fetcher interface {
	Fetch(ctx context.Context, opts source.FetchOptions) ([]radar.Job, error)
}

// Runner runs radars against the stored job set
type Runner struct {
	db       *database.DB
	notifier notify.Notifier
	now      func() time.Time
}

// New creates a Runner. A nil notifier disables notifications.
func New(db *database.DB, n notify.Notifier) *Runner {
	if n == nil {
		n = notify.Nop{}
	}
	return &Runner{
		db:       db,
		notifier: n,
		now:      time.Now,
	}
}

// SetClock overrides the time source used for scoring
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
}

// RunOptions configures a run
type RunOptions struct {
	Force    bool             // Run paused and disabled radars too
	Progress ProgressCallback // Optional progress callback
}

// RunResult contains the results of running one radar
type RunResult struct {
	RadarID        string        `json:"radar_id"`
	RadarName      string        `json:"radar_name"`
	JobsConsidered int           `json:"jobs_considered"`
	Matches        []radar.Match `json:"matches"`
	Skipped        bool          `json:"skipped,omitempty"`
	SkipReason     string        `json:"skip_reason,omitempty"`
	Notified       bool          `json:"notified"`
	Errors         []string      `json:"errors,omitempty"`
}

// RunRadar runs the radar identified by ID or name
func (r *Runner) RunRadar(ctx context.Context, ref string, opts RunOptions) (*RunResult, error) {
	rd, err := r.db.GetRadar(ctx, ref)
	if err != nil {
		return nil, err
	}

	jobs, apps, err := r.loadInputs(ctx, rd.Name, opts.Progress)
	if err != nil {
		return nil, err
	}

	return r.run(ctx, rd, jobs, apps, opts)
}

// RunAll runs every active radar in stored order. With Force set, paused
// and disabled radars run too.
func (r *Runner) RunAll(ctx context.Context, opts RunOptions) ([]*RunResult, error) {
	radars, err := r.db.LoadRadars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load radars: %w", err)
	}

	jobs, apps, err := r.loadInputs(ctx, "", opts.Progress)
	if err != nil {
		return nil, err
	}

	results := make([]*RunResult, 0, len(radars))
	for i := range radars {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := r.run(ctx, &radars[i], jobs, apps, opts)
		if err != nil {
			return results, fmt.Errorf("radar %s: %w", radars[i].Name, err)
		}
		results = append(results, res)
	}

	return results, nil
}

// Refresh fetches postings from the source and stores them
func (r *Runner) Refresh(ctx context.Context, f Fetcher, since *time.Time, progress ProgressCallback) (*database.ImportResult, error) {
	started := time.Now()
	jobs, err := f.Fetch(ctx, source.FetchOptions{
		Since: since,
		Progress: func(page, fetched int) {
			if progress != nil {
				progress(Progress{
					Phase:       PhaseFetching,
					Current:     page,
					Description: fmt.Sprintf("Fetched %d jobs", fetched),
					StartedAt:   started,
				})
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	res, err := r.db.UpsertJobs(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to store jobs: %w", err)
	}

	slog.Info("jobs refreshed", "fetched", len(jobs), "inserted", res.Inserted, "updated", res.Updated)
	return res, nil
}

func (r *Runner) loadInputs(ctx context.Context, name string, progress ProgressCallback) ([]radar.Job, radar.Applications, error) {
	report(progress, Progress{Phase: PhaseLoading, Radar: name, Description: "Loading jobs and applications"})

	jobs, err := r.db.ListJobs(ctx, database.JobListOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load jobs: %w", err)
	}

	apps, err := r.db.LoadApplications(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load applications: %w", err)
	}

	return jobs, radar.IndexApplications(apps), nil
}

func (r *Runner) run(ctx context.Context, rd *radar.Radar, jobs []radar.Job, apps radar.Applications, opts RunOptions) (*RunResult, error) {
	result := &RunResult{
		RadarID:        rd.ID,
		RadarName:      rd.Name,
		JobsConsidered: len(jobs),
	}

	if !rd.IsActive() && !opts.Force {
		result.Skipped = true
		result.SkipReason = fmt.Sprintf("radar is %s", rd.Status)
		slog.Debug("skipping radar", "radar", rd.Name, "status", rd.Status)
		return result, nil
	}

	now := r.now()

	report(opts.Progress, Progress{Phase: PhaseScoring, Radar: rd.Name, Total: len(jobs), Description: "Scoring jobs"})
	result.Matches = radar.Run(jobs, *rd, apps, now)

	report(opts.Progress, Progress{Phase: PhaseSaving, Radar: rd.Name, Current: len(result.Matches), Total: len(result.Matches), Description: "Saving matches"})
	if err := r.db.ReplaceMatches(ctx, rd.ID, result.Matches); err != nil {
		return nil, fmt.Errorf("failed to save matches: %w", err)
	}

	rd.LastRunAt = &now
	rd.LastRunCount = len(result.Matches)
	if err := r.db.RecordRun(ctx, rd.ID, now, rd.LastRunCount); err != nil {
		return nil, fmt.Errorf("failed to update radar: %w", err)
	}

	if rd.Notifications.Enabled {
		report(opts.Progress, Progress{Phase: PhaseNotifying, Radar: rd.Name, Description: "Sending notifications"})
		// Non-fatal: the matches are already saved
		if err := r.notifier.Notify(ctx, *rd, result.Matches); err != nil {
			slog.Warn("notification failed", "radar", rd.Name, "err", err)
			result.Errors = append(result.Errors, err.Error())
		} else {
			_, result.Notified = notify.BuildEvent(*rd, result.Matches)
		}
	}

	slog.Info("radar run complete", "radar", rd.Name, "jobs", len(jobs), "matches", len(result.Matches))
	return result, nil
}

func report(cb ProgressCallback, p Progress) {
	if cb != nil {
		p.StartedAt = time.Now()
		cb(p)
	}
}
