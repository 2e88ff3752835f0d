package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// TokenLimiter enforces a token-per-minute budget for AI generation calls.
// Tokens refill continuously at maxPerMinute/60 per second up to a burst of
// one full minute's budget.
type TokenLimiter struct {
	limiter      *rate.Limiter
	maxPerMinute int
}

// NewTokenLimiter creates a TokenLimiter with the given per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		limiter:      rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60.0), maxPerMinute),
		maxPerMinute: maxPerMinute,
	}
}

// Wait blocks until n tokens are available or the context is canceled.
// Requests larger than the full budget are rejected outright, they could
// never be satisfied.
func (t *TokenLimiter) Wait(ctx context.Context, n int) error {
	if n > t.maxPerMinute {
		return fmt.Errorf("requested %d tokens exceeds per-minute budget of %d", n, t.maxPerMinute)
	}
	return t.limiter.WaitN(ctx, n)
}

// GetRemaining reports the tokens currently available.
func (t *TokenLimiter) GetRemaining() int {
	return int(t.limiter.Tokens())
}
