package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between requests to a single provider
// family.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer allowing one request per interval, with the
// first request passing immediately. A non-positive interval disables
// pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next request may be sent or the context is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Allow reports whether a request may be sent right now without blocking,
// consuming the slot if so.
func (p *Pacer) Allow() bool {
	return p.limiter.Allow()
}
