// Package notify delivers radar run results to subscribers.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// EventType is the type field of every published event
const EventType = "EVENT_RADAR_MATCHES"

// Notifier delivers the matches of one radar run
type Notifier interface {
	Notify(ctx context.Context, r radar.Radar, matches []radar.Match) error
}

// EventMatch is a match as it appears in an event
type EventMatch struct {
	JobID string `json:"jobId"`
	Score int    `json:"score"`
}

// Event is the payload sent for a run with qualifying matches
type Event struct {
	Type       string       `json:"type"`
	RadarID    string       `json:"radarId"`
	RadarName  string       `json:"radarName"`
	ComputedAt time.Time    `json:"computedAt"`
	Matches    []EventMatch `json:"matches"`
}

// BuildEvent returns the event for a run, keeping matches that reach the
// radar's notification threshold. ok is false when nothing qualifies.
func BuildEvent(r radar.Radar, matches []radar.Match) (event Event, ok bool) {
	qualifying := lo.FilterMap(matches, func(m radar.Match, _ int) (EventMatch, bool) {
		return EventMatch{JobID: m.JobID, Score: m.Score}, m.Score >= r.Notifications.MinScore
	})
	if len(qualifying) == 0 {
		return Event{}, false
	}

	return Event{
		Type:       EventType,
		RadarID:    r.ID,
		RadarName:  r.Name,
		ComputedAt: matches[0].ComputedAt,
		Matches:    qualifying,
	}, true
}

// Multi fans out to several notifiers, collecting every error
type Multi []Notifier

// Notify calls each notifier in order
func (m Multi) Notify(ctx context.Context, r radar.Radar, matches []radar.Match) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, r, matches); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards notifications
type Nop struct{}

// Notify does nothing
func (Nop) Notify(context.Context, radar.Radar, []radar.Match) error { return nil }
