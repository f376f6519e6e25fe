package ratelimiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taskflow/eventcore/internal/statestore"
)

// Limiter enforces a per-scope request budget using the state store's
// counter primitive (IncrementCounter), backstopped by one in-process token
// bucket per scope: requests the local bucket rejects never reach the
// store, and every request it allows still increments the store counter.
type Limiter struct {
	store  statestore.Store
	limit  int64
	window time.Duration

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// New creates a Limiter allowing up to limit requests per window, per scope.
func New(store statestore.Store, limit int64, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		local:  make(map[string]*rate.Limiter),
	}
}

// Allow increments scope's counter for the current window and reports
// whether the request is within budget. A state-store error fails open
// (allows the request) rather than rejecting real traffic on a dependency
// blip.
func (l *Limiter) Allow(ctx context.Context, scope string) (bool, error) {
	if !l.localLimiterFor(scope).Allow() {
		return false, nil
	}

	count, err := l.store.IncrementCounter(ctx, statestore.RateLimitKey(scope), l.window)
	if err != nil {
		return true, fmt.Errorf("rate limit counter: %w", err)
	}
	return count <= l.limit, nil
}

func (l *Limiter) localLimiterFor(scope string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	rl, ok := l.local[scope]
	if !ok {
		perSecond := rate.Limit(float64(l.limit) / l.window.Seconds())
		rl = rate.NewLimiter(perSecond, int(l.limit))
		l.local[scope] = rl
	}
	return rl
}
