// Package scheduler runs radars on their configured cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vijay-prabhu/jobradar/internal/radar"
	"github.com/vijay-prabhu/jobradar/internal/runner"
)

// RadarStore loads the saved radars
type RadarStore interface {
	LoadRadars(ctx context.Context) ([]radar.Radar, error)
}

// RadarRunner runs a single radar
type RadarRunner interface {
	RunRadar(ctx context.Context, ref string, opts runner.RunOptions) (*runner.RunResult, error)
}

// Entry describes a scheduled radar
type Entry struct {
	RadarID   string    `json:"radar_id"`
	RadarName string    `json:"radar_name"`
	Spec      string    `json:"spec"`
	Next      time.Time `json:"next,omitempty"`
}

type scheduled struct {
	id   cron.EntryID
	name string
	spec string
}

// Scheduler wraps robfig/cron and keeps one entry per scheduled radar.
type Scheduler struct {
	cron   *cron.Cron
	store  RadarStore
	runner RadarRunner

	mu        sync.Mutex
	entries   map[string]scheduled
	beforeRun func(ctx context.Context) error
}

// New creates a Scheduler evaluating cron specs in loc
func New(store RadarStore, r RadarRunner, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.SkipIfStillRunning(logger)),
		),
		store:   store,
		runner:  r,
		entries: make(map[string]scheduled),
	}
}

// SetBeforeRun registers a hook called before every scheduled run, used to
// refresh the job set. A hook error is logged and the run proceeds.
func (s *Scheduler) SetBeforeRun(fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeRun = fn
}

// Reload re-reads the radars and re-registers their entries. Radars that
// are no longer active or scheduled are removed. Returns the number of
// scheduled radars.
func (s *Scheduler) Reload(ctx context.Context) (int, error) {
	radars, err := s.store.LoadRadars(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load radars: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]radar.Radar)
	for _, r := range radars {
		if r.IsActive() && r.Schedule.CronSpec() != "" {
			wanted[r.ID] = r
		}
	}

	for id, e := range s.entries {
		r, ok := wanted[id]
		if ok && r.Schedule.CronSpec() == e.spec {
			continue
		}
		s.cron.Remove(e.id)
		delete(s.entries, id)
		slog.Debug("unscheduled radar", "radar", e.name)
	}

	for id, r := range wanted {
		if _, ok := s.entries[id]; ok {
			continue
		}

		spec := r.Schedule.CronSpec()
		radarID, name := r.ID, r.Name
		entryID, err := s.cron.AddFunc(spec, func() {
			s.runOne(ctx, radarID, name)
		})
		if err != nil {
			return len(s.entries), fmt.Errorf("cron.AddFunc %s: %w", name, err)
		}

		s.entries[id] = scheduled{id: entryID, name: name, spec: spec}
		slog.Info("scheduled radar", "radar", name, "spec", spec)
	}

	return len(s.entries), nil
}

// Start loads the radars and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	n, err := s.Reload(ctx)
	if err != nil {
		return err
	}

	s.cron.Start()
	slog.Info("scheduler started", "radars", n)
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// Entries returns the scheduled radars ordered by name
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for id, e := range s.entries {
		out = append(out, Entry{
			RadarID:   id,
			RadarName: e.name,
			Spec:      e.spec,
			Next:      s.cron.Entry(e.id).Next,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RadarName < out[j].RadarName
	})
	return out
}

func (s *Scheduler) runOne(ctx context.Context, radarID, name string) {
	s.mu.Lock()
	before := s.beforeRun
	s.mu.Unlock()

	if before != nil {
		if err := before(ctx); err != nil {
			slog.Warn("pre-run refresh failed", "radar", name, "err", err)
		}
	}

	res, err := s.runner.RunRadar(ctx, radarID, runner.RunOptions{})
	if err != nil {
		slog.Error("scheduled run failed", "radar", name, "err", err)
		return
	}
	if res.Skipped {
		slog.Info("scheduled run skipped", "radar", name, "reason", res.SkipReason)
		return
	}
	slog.Info("scheduled run complete", "radar", name, "matches", len(res.Matches))
}
