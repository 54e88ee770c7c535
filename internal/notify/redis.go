package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// Publisher is the subset of *redis.Client used to publish events
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Redis publishes events on a per-radar pub/sub channel
type Redis struct {
	pub    Publisher
	prefix string
}

// NewRedis creates a Redis notifier publishing under prefix
func NewRedis(pub Publisher, prefix string) *Redis {
	return &Redis{pub: pub, prefix: prefix}
}

// Dial creates and verifies a Redis client connection.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// Channel returns the channel name for a radar
func Channel(prefix, radarID string) string {
	return prefix + ":radar:" + radarID
}

// Notify publishes the run's qualifying matches. Nothing is published when
// no match reaches the radar's threshold.
func (n *Redis) Notify(ctx context.Context, r radar.Radar, matches []radar.Match) error {
	event, ok := BuildEvent(r, matches)
	if !ok {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	channel := Channel(n.prefix, r.ID)
	receivers, err := n.pub.Publish(ctx, channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish %s failed: %w", channel, err)
	}

	slog.Debug("published radar matches", "channel", channel, "matches", len(event.Matches), "receivers", receivers)
	return nil
}
