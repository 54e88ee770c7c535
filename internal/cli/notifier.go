package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/vijay-prabhu/jobradar/internal/config"
	"github.com/vijay-prabhu/jobradar/internal/notify"
)

// buildNotifier assembles the notifiers enabled in cfg. The returned func
// releases any connections and is safe to call when nothing was opened.
func buildNotifier(ctx context.Context, cfg *config.Config) (notify.Notifier, func(), error) {
	var multi notify.Multi
	closeFn := func() {}

	if cfg.Notify.Log {
		// Match lines are info level, below the CLI default
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		multi = append(multi, notify.NewLog(logger))
	}

	if cfg.Notify.RedisURL != "" {
		rdb, err := notify.Dial(ctx, cfg.Notify.RedisURL)
		if err != nil {
			return nil, closeFn, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closeFn = func() { rdb.Close() }
		multi = append(multi, notify.NewRedis(rdb, cfg.Notify.ChannelPrefix))
	}

	if len(multi) == 0 {
		return notify.Nop{}, closeFn, nil
	}
	return multi, closeFn, nil
}
