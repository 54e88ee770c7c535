package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

type published struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.sent = append(f.sent, published{channel: channel, payload: message.([]byte)})
	cmd.SetVal(1)
	return cmd
}

type failingNotifier struct{ err error }

func (f failingNotifier) Notify(context.Context, radar.Radar, []radar.Match) error { return f.err }

var computedAt = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func testRadar(minScore int) radar.Radar {
	return radar.Radar{
		ID:            "r1",
		Name:          "Go gigs",
		Notifications: radar.Notifications{Enabled: true, MinScore: minScore},
	}
}

func testMatches() []radar.Match {
	return []radar.Match{
		{RadarID: "r1", JobID: "a", Score: 91, ComputedAt: computedAt},
		{RadarID: "r1", JobID: "b", Score: 70, ComputedAt: computedAt},
		{RadarID: "r1", JobID: "c", Score: 40, ComputedAt: computedAt},
	}
}

func TestBuildEvent(t *testing.T) {
	event, ok := BuildEvent(testRadar(70), testMatches())
	require.True(t, ok)

	assert.Equal(t, EventType, event.Type)
	assert.Equal(t, "r1", event.RadarID)
	assert.Equal(t, computedAt, event.ComputedAt)
	assert.Equal(t, []EventMatch{{JobID: "a", Score: 91}, {JobID: "b", Score: 70}}, event.Matches)

	_, ok = BuildEvent(testRadar(95), testMatches())
	assert.False(t, ok)

	_, ok = BuildEvent(testRadar(0), nil)
	assert.False(t, ok)
}

func TestRedisNotify(t *testing.T) {
	pub := &fakePublisher{}
	n := NewRedis(pub, "jobradar")

	require.NoError(t, n.Notify(context.Background(), testRadar(80), testMatches()))
	require.Len(t, pub.sent, 1)
	assert.Equal(t, "jobradar:radar:r1", pub.sent[0].channel)

	var event Event
	require.NoError(t, json.Unmarshal(pub.sent[0].payload, &event))
	assert.Len(t, event.Matches, 1)
	assert.Equal(t, "a", event.Matches[0].JobID)
}

func TestRedisNotify_NothingQualifies(t *testing.T) {
	pub := &fakePublisher{}
	n := NewRedis(pub, "jobradar")

	require.NoError(t, n.Notify(context.Background(), testRadar(99), testMatches()))
	assert.Empty(t, pub.sent)
}

func TestRedisNotify_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	n := NewRedis(pub, "jobradar")

	err := n.Notify(context.Background(), testRadar(0), testMatches())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobradar:radar:r1")
}

func TestLogNotify(t *testing.T) {
	var buf bytes.Buffer
	n := NewLog(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, n.Notify(context.Background(), testRadar(50), testMatches()))
	assert.Contains(t, buf.String(), "radar matches")
	assert.Contains(t, buf.String(), "matches=2")
	assert.Contains(t, buf.String(), "best_job=a")

	buf.Reset()
	require.NoError(t, n.Notify(context.Background(), testRadar(100), testMatches()))
	assert.Empty(t, buf.String())
}

func TestMulti(t *testing.T) {
	pub := &fakePublisher{}
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	m := Multi{failingNotifier{errA}, NewRedis(pub, "x"), failingNotifier{errB}}
	err := m.Notify(context.Background(), testRadar(0), testMatches())

	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Len(t, pub.sent, 1, "later notifiers still run after an error")

	assert.NoError(t, Multi{Nop{}}.Notify(context.Background(), testRadar(0), testMatches()))
}

func TestChannel(t *testing.T) {
	if got := Channel("jr", "abc"); got != "jr:radar:abc" {
		t.Errorf("Channel() = %q, want %q", got, "jr:radar:abc")
	}
}
