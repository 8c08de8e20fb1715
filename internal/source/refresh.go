package source

import (
	"context"
	"log/slog"
	"time"

	"dailyoperacional/internal/dataset"
)

type refresher interface {
	Name() string
	TTL() time.Duration
	Refresh(ctx context.Context) error
}

type cachedRefresher[T any] struct{ c *Cached[T] }

func (r cachedRefresher[T]) Name() string       { return r.c.Name() }
func (r cachedRefresher[T]) TTL() time.Duration { return r.c.TTL() }
func (r cachedRefresher[T]) Refresh(ctx context.Context) error {
	_, _, err := r.c.Refresh(ctx)
	return err
}

// StartRefreshWorker launches one goroutine per source that loads it once at
// startup and then once per TTL, so user requests find a warm cache. The
// goroutines stop when ctx is done.
func (s *Store) StartRefreshWorker(ctx context.Context, logger *slog.Logger) {
	for _, r := range []refresher{cachedRefresher[[]dataset.Reference]{s.references}, cachedRefresher[[]dataset.Event]{s.events}} {
		go s.warm(ctx, r, logger)
	}
}

func (s *Store) warm(ctx context.Context, r refresher, logger *slog.Logger) {
	s.refreshOnce(ctx, r, logger)

	period := r.TTL()
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshOnce(ctx, r, logger)
		}
	}
}

func (s *Store) refreshOnce(ctx context.Context, r refresher, logger *slog.Logger) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := r.Refresh(ctx); err != nil {
		logger.Warn("source refresh failed", "source", r.Name(), "error", err)
		return
	}
	logger.Debug("source refreshed", "source", r.Name())
}
