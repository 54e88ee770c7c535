package notify

import (
	"context"
	"log/slog"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// Log writes one line per qualifying run
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log notifier. A nil logger uses slog.Default().
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Notify logs the run's qualifying matches
func (n *Log) Notify(ctx context.Context, r radar.Radar, matches []radar.Match) error {
	event, ok := BuildEvent(r, matches)
	if !ok {
		return nil
	}

	n.logger.InfoContext(ctx, "radar matches",
		"radar", r.Name,
		"matches", len(event.Matches),
		"best_score", event.Matches[0].Score,
		"best_job", event.Matches[0].JobID,
	)
	return nil
}
