package web_fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate spaces successive calls at least interval apart. One Gate is shared by
// every turn of a process so the spacing also holds across turns.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate returns a gate with burst 1, so the first Wait passes immediately.
// A non-positive interval disables waiting.
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		return &Gate{}
	}
	return &Gate{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call may start or ctx is done
func (g *Gate) Wait(ctx context.Context) error {
	if g == nil || g.limiter == nil {
		return ctx.Err()
	}
	return g.limiter.Wait(ctx)
}
