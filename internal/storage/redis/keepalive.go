package redis

import (
	"context"
	"time"

	"github.com/sandevgo/briefbot/pkg/log"
)

// keepAlive calls refresh every interval until the returned stop is called.
// refresh reports false once the lock is no longer ours; refreshing then ends.
// stop waits for an in-flight refresh to return.
func keepAlive(ctx context.Context, interval time.Duration, refresh func(context.Context) (bool, error)) (stop func()) {
	if interval <= 0 {
		interval = time.Second
	}
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	logger := log.FromCtx(ctx)

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			rctx, rcancel := context.WithTimeout(ctx, interval)
			held, err := refresh(rctx)
			rcancel()
			switch {
			case ctx.Err() != nil:
				return
			case err != nil:
				logger.Warn().Err(err).Msg("failed to extend session lock")
			case !held:
				logger.Error().Msg("session lock lost while the turn was running")
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
