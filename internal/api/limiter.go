package api

import (
	"context"

	"salas/internal/config"

	"golang.org/x/time/rate"
)

// throttle paces outbound calls. A nil throttle never blocks.
type throttle struct {
	lim *rate.Limiter
}

func newThrottle(cfg config.APIRateLimitConfig) *throttle {
	if cfg.RPS <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &throttle{lim: rate.NewLimiter(rate.Limit(cfg.RPS), burst)}
}

// wait blocks until the next call may be sent or ctx is done.
func (t *throttle) wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.lim.Wait(ctx)
}
