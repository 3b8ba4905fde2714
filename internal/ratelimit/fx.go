package ratelimit

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Angelito-Alit/comments-api/internal/clock"
	"github.com/Angelito-Alit/comments-api/internal/config"
)

// Set bundles the per-route-group limiters built from configuration.
type Set struct {
	Read  *Limiter
	Write *Limiter
}

// NewSet builds the route limiters. Policies were validated at config load.
func NewSet(cfg config.Config, clk clock.Clock) (*Set, error) {
	read := Policy{MaxRequests: cfg.ReadPolicy.MaxRequests, Window: cfg.ReadPolicy.Window}
	write := Policy{MaxRequests: cfg.WritePolicy.MaxRequests, Window: cfg.WritePolicy.Window}
	if err := read.Validate(); err != nil {
		return nil, err
	}
	if err := write.Validate(); err != nil {
		return nil, err
	}
	return &Set{
		Read:  NewLimiter(read, clk),
		Write: NewLimiter(write, clk),
	}, nil
}

// Sweep evicts idle clients from every limiter in the set.
func (s *Set) Sweep() int {
	return s.Read.Sweep() + s.Write.Sweep()
}

func (s *Set) sweepLoop(ctx context.Context, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := s.Sweep(); evicted > 0 {
				log.Debug("evicted idle rate-limit clients", zap.Int("evicted", evicted))
			}
		}
	}
}

func registerSweeper(lc fx.Lifecycle, set *Set, cfg config.Config, log *zap.Logger) {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go set.sweepLoop(ctx, interval, log.Named("ratelimit"))
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

var Module = fx.Module("ratelimit",
	fx.Provide(NewSet),
	fx.Invoke(registerSweeper),
)
