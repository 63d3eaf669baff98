package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter limits token consumption to a maximum per minute window.
// It is safe for concurrent use.
type TokenLimiter struct {
	mu          sync.Mutex
	maxTokens   int
	usedTokens  int
	windowStart time.Time
}

// NewTokenLimiter creates a TokenLimiter allowing maxPerMinute tokens per minute.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxTokens:   maxPerMinute,
		windowStart: time.Now(),
	}
}

// Wait blocks until the given number of tokens can be consumed or the
// context is done. Requests larger than the window capacity are allowed
// through once on a fresh window rather than blocking forever.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		l.mu.Lock()
		l.rotateWindow()

		if l.usedTokens+tokens <= l.maxTokens || l.usedTokens == 0 {
			l.usedTokens += tokens
			l.mu.Unlock()
			return nil
		}

		waitFor := time.Until(l.windowStart.Add(time.Minute))
		l.mu.Unlock()

		if waitFor < 0 {
			waitFor = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitFor):
		}
	}
}

// GetRemaining returns the number of tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rotateWindow()
	remaining := l.maxTokens - l.usedTokens
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (l *TokenLimiter) rotateWindow() {
	if time.Since(l.windowStart) >= time.Minute {
		l.windowStart = time.Now()
		l.usedTokens = 0
	}
}
