package runner

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/jobradar/internal/database"
	"github.com/vijay-prabhu/jobradar/internal/radar"
	"github.com/vijay-prabhu/jobradar/internal/source"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	calls []string
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, r radar.Radar, matches []radar.Match) error {
	n.calls = append(n.calls, r.ID)
	return n.err
}

type staticFetcher struct {
	jobs []radar.Job
	err  error
}

func (f staticFetcher) Fetch(_ context.Context, opts source.FetchOptions) ([]radar.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	if opts.Progress != nil {
		opts.Progress(1, len(f.jobs))
	}
	return f.jobs, nil
}

func setupRunner(t *testing.T, n *recordingNotifier) (*Runner, *database.DB) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var r *Runner
	if n != nil {
		r = New(db, n)
	} else {
		r = New(db, nil)
	}
	r.SetClock(func() time.Time { return testNow })
	return r, db
}

func intPtr(v int) *int { return &v }

func seedJobs(t *testing.T, db *database.DB) {
	t.Helper()
	jobs := []radar.Job{
		{ID: "fresh", Title: "Fresh verified", CreatedAt: testNow.Add(-2 * time.Hour), IsPaymentVerified: true, Proposals: intPtr(2)},
		{ID: "old", Title: "Old verified", CreatedAt: testNow.Add(-200 * time.Hour), IsPaymentVerified: true, Proposals: intPtr(2)},
		{ID: "unverified", Title: "Unverified", CreatedAt: testNow.Add(-1 * time.Hour), Proposals: intPtr(1)},
		{ID: "applied", Title: "Already applied", CreatedAt: testNow.Add(-3 * time.Hour), IsPaymentVerified: true, Proposals: intPtr(4)},
	}
	_, err := db.UpsertJobs(context.Background(), jobs)
	require.NoError(t, err)
	require.NoError(t, db.UpsertApplication(context.Background(), &radar.Application{JobID: "applied", Status: radar.AppApplied}))
}

func TestRunRadar_SeedRadar(t *testing.T) {
	r, db := setupRunner(t, nil)
	seedJobs(t, db)
	ctx := context.Background()

	var phases []ProgressPhase
	res, err := r.RunRadar(ctx, "starter", RunOptions{
		Progress: func(p Progress) { phases = append(phases, p.Phase) },
	})
	require.NoError(t, err)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, "fresh", res.Matches[0].JobID)
	assert.Equal(t, testNow, res.Matches[0].ComputedAt)
	assert.Equal(t, 4, res.JobsConsidered)
	assert.Equal(t, []ProgressPhase{PhaseLoading, PhaseScoring, PhaseSaving}, phases)

	stored, err := db.MatchesFor(ctx, "starter")
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	rd, err := db.GetRadar(ctx, "starter")
	require.NoError(t, err)
	require.NotNil(t, rd.LastRunAt)
	assert.True(t, rd.LastRunAt.Equal(testNow))
	assert.Equal(t, 1, rd.LastRunCount)
}

func TestRunRadar_NotFound(t *testing.T) {
	r, _ := setupRunner(t, nil)

	_, err := r.RunRadar(context.Background(), "missing", RunOptions{})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRunRadar_PausedSkippedUnlessForced(t *testing.T) {
	r, db := setupRunner(t, nil)
	seedJobs(t, db)
	ctx := context.Background()

	rd, err := db.GetRadar(ctx, "starter")
	require.NoError(t, err)
	rd.Status = radar.StatusPaused
	require.NoError(t, db.UpdateRadar(ctx, rd))

	res, err := r.RunRadar(ctx, "starter", RunOptions{})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "radar is paused", res.SkipReason)

	stored, _ := db.MatchesFor(ctx, "starter")
	assert.Empty(t, stored)

	res, err = r.RunRadar(ctx, "starter", RunOptions{Force: true})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Len(t, res.Matches, 1)
}

func TestRunRadar_Notifications(t *testing.T) {
	n := &recordingNotifier{}
	r, db := setupRunner(t, n)
	seedJobs(t, db)
	ctx := context.Background()

	rd, err := db.GetRadar(ctx, "starter")
	require.NoError(t, err)
	rd.Notifications = radar.Notifications{Enabled: true, MinScore: 0}
	require.NoError(t, db.UpdateRadar(ctx, rd))

	res, err := r.RunRadar(ctx, "starter", RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"starter"}, n.calls)
	assert.True(t, res.Notified)

	// Failures are reported but do not fail the run
	n.err = errors.New("redis down")
	res, err = r.RunRadar(ctx, "starter", RunOptions{})
	require.NoError(t, err)
	assert.False(t, res.Notified)
	assert.Equal(t, []string{"redis down"}, res.Errors)
}

func TestRunRadar_NotificationsDisabled(t *testing.T) {
	n := &recordingNotifier{}
	r, db := setupRunner(t, n)
	seedJobs(t, db)

	_, err := r.RunRadar(context.Background(), "starter", RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, n.calls)
}

func TestRunAll(t *testing.T) {
	r, db := setupRunner(t, nil)
	seedJobs(t, db)
	ctx := context.Background()

	open := &radar.Radar{Name: "Everything", Weights: radar.DefaultWeights()}
	require.NoError(t, db.CreateRadar(ctx, open))
	paused := &radar.Radar{Name: "Paused", Status: radar.StatusPaused, Weights: radar.DefaultWeights()}
	require.NoError(t, db.CreateRadar(ctx, paused))

	results, err := r.RunAll(ctx, RunOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "starter", results[0].RadarID)
	assert.Len(t, results[1].Matches, 4)
	assert.True(t, results[2].Skipped)

	// Best first, stable for ties
	for i := 1; i < len(results[1].Matches); i++ {
		assert.GreaterOrEqual(t, results[1].Matches[i-1].Score, results[1].Matches[i].Score)
	}

	stored, _ := db.LoadMatches(ctx)
	assert.Len(t, stored, 2)
}

func TestRunRadar_Concurrent(t *testing.T) {
	r, db := setupRunner(t, nil)
	seedJobs(t, db)
	ctx := context.Background()

	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		require.NoError(t, db.CreateRadar(ctx, &radar.Radar{ID: id, Name: "radar " + id, Weights: radar.DefaultWeights()}))
	}

	for round := 0; round < 10; round++ {
		require.NoError(t, db.SaveMatches(ctx, map[string][]radar.Match{}))

		var wg sync.WaitGroup
		errs := make([]error, len(ids))
		for i, id := range ids {
			i, id := i, id
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = r.RunRadar(ctx, id, RunOptions{})
			}()
		}
		wg.Wait()
		for _, err := range errs {
			require.NoError(t, err)
		}

		stored, err := db.LoadMatches(ctx)
		require.NoError(t, err)
		for _, id := range ids {
			assert.NotEmpty(t, stored[id], "round %d: matches for radar %s lost", round, id)
		}
	}

	for _, id := range ids {
		rd, err := db.GetRadar(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, rd.LastRunAt, "radar %s", id)
		assert.Equal(t, 4, rd.LastRunCount, "radar %s", id)
	}
}

func TestRefresh(t *testing.T) {
	r, db := setupRunner(t, nil)
	ctx := context.Background()

	f := staticFetcher{jobs: []radar.Job{
		{ID: "a", Title: "A", CreatedAt: testNow},
		{ID: "b", Title: "B", CreatedAt: testNow},
	}}

	var fetched []Progress
	res, err := r.Refresh(ctx, f, nil, func(p Progress) { fetched = append(fetched, p) })
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	require.Len(t, fetched, 1)
	assert.Equal(t, PhaseFetching, fetched[0].Phase)

	n, err := db.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = r.Refresh(ctx, staticFetcher{err: errors.New("boom")}, nil, nil)
	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	p := Progress{Current: 25, Total: 100}
	if got := p.Percentage(); got != 25 {
		t.Errorf("Percentage() = %d, want 25", got)
	}
	if got := (Progress{}).ETA(); got != 0 {
		t.Errorf("ETA() = %v, want 0", got)
	}
}
