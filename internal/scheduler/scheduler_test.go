package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/jobradar/internal/radar"
	"github.com/vijay-prabhu/jobradar/internal/runner"
)

type fakeStore struct {
	radars []radar.Radar
	err    error
}

func (f *fakeStore) LoadRadars(context.Context) ([]radar.Radar, error) {
	return f.radars, f.err
}

type fakeRunner struct {
	ran []string
	err error
}

func (f *fakeRunner) RunRadar(_ context.Context, ref string, _ runner.RunOptions) (*runner.RunResult, error) {
	f.ran = append(f.ran, ref)
	if f.err != nil {
		return nil, f.err
	}
	return &runner.RunResult{RadarID: ref}, nil
}

func hour(h int) *int { return &h }

func testRadars() []radar.Radar {
	return []radar.Radar{
		{ID: "h", Name: "Hourly", Status: radar.StatusActive, Schedule: radar.Schedule{Frequency: radar.FrequencyHourly}},
		{ID: "d", Name: "Daily", Status: radar.StatusActive, Schedule: radar.Schedule{Frequency: radar.FrequencyDaily, Hour: hour(7)}},
		{ID: "m", Name: "Manual", Status: radar.StatusActive, Schedule: radar.Schedule{Frequency: radar.FrequencyManual}},
		{ID: "p", Name: "Paused", Status: radar.StatusPaused, Schedule: radar.Schedule{Frequency: radar.FrequencyWeekly}},
	}
}

func TestReload(t *testing.T) {
	store := &fakeStore{radars: testRadars()}
	s := New(store, &fakeRunner{}, time.UTC)

	n, err := s.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{RadarID: "d", RadarName: "Daily", Spec: "0 7 * * *"}, entries[0])
	assert.Equal(t, "0 * * * *", entries[1].Spec)
}

func TestReload_TracksChanges(t *testing.T) {
	store := &fakeStore{radars: testRadars()}
	s := New(store, &fakeRunner{}, time.UTC)
	ctx := context.Background()

	_, err := s.Reload(ctx)
	require.NoError(t, err)

	// Pause hourly, move daily to 18:00, resume the weekly radar
	store.radars[0].Status = radar.StatusPaused
	store.radars[1].Schedule.Hour = hour(18)
	store.radars[3].Status = radar.StatusActive

	n, err := s.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	specs := map[string]string{}
	for _, e := range s.Entries() {
		specs[e.RadarID] = e.Spec
	}
	assert.Equal(t, map[string]string{"d": "0 18 * * *", "p": "0 9 * * 1"}, specs)
}

func TestReload_StoreError(t *testing.T) {
	s := New(&fakeStore{err: errors.New("db locked")}, &fakeRunner{}, nil)

	_, err := s.Reload(context.Background())
	assert.Error(t, err)
}

func TestRunOne(t *testing.T) {
	r := &fakeRunner{}
	s := New(&fakeStore{}, r, time.UTC)

	var refreshed int
	s.SetBeforeRun(func(context.Context) error {
		refreshed++
		return errors.New("source offline")
	})

	s.runOne(context.Background(), "d", "Daily")

	assert.Equal(t, 1, refreshed)
	assert.Equal(t, []string{"d"}, r.ran, "refresh failure does not block the run")
}

func TestStartStop(t *testing.T) {
	s := New(&fakeStore{radars: testRadars()}, &fakeRunner{}, time.UTC)

	require.NoError(t, s.Start(context.Background()))
	for _, e := range s.Entries() {
		assert.False(t, e.Next.IsZero(), "entry %s should have a next run once started", e.RadarName)
	}
	s.Stop()
}
