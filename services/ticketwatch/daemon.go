package ticketwatch

import (
	"context"
	"log/slog"
	"time"
)

// Watch runs CheckTickets with the default request every `interval` until
// ctx is cancelled. When `immediately` is set the first check happens
// right away instead of after one interval.
func (s Service) Watch(ctx context.Context, interval time.Duration, immediately bool) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	check := func() {
		trips := s.CheckTickets(ctx, Request{NoCache: true})
		slog.DebugContext(ctx, "scheduled ticket check finished", "trips", len(trips))
	}

	if immediately {
		check()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
