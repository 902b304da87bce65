package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// ExceededMessage is surfaced verbatim to callers when a limit is hit.
const ExceededMessage = "Rate limit exceeded"

const anonymousKey = "anonymous"

// Store counts requests in fixed windows. Incr returns the running count for
// the key's current window, starting the window on the first hit.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter enforces a per-agent request allowance for one skill category.
type Limiter struct {
	store  Store
	scope  string
	max    int64
	window time.Duration
}

// New builds a limiter. max <= 0 disables limiting entirely.
func New(store Store, scope string, max int64, window time.Duration) *Limiter {
	return &Limiter{store: store, scope: scope, max: max, window: window}
}

// Check reports whether the agent has exceeded its allowance in the current
// window. Callers pass the returned message through to users unchanged. An
// empty agentID shares the anonymous bucket.
func (l *Limiter) Check(ctx context.Context, agentID string) (bool, string, error) {
	if l == nil || l.max <= 0 {
		return false, "", nil
	}

	if agentID == "" {
		agentID = anonymousKey
	}

	key := fmt.Sprintf("intentkit:ratelimit:%s:%s", l.scope, agentID)
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return false, "", fmt.Errorf("rate limit check: %w", err)
	}

	if count > l.max {
		return true, ExceededMessage, nil
	}

	return false, "", nil
}
