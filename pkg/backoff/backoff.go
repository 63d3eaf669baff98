package backoff

import (
	"context"
	"time"
)

// Policy describes an exponential backoff schedule.
type Policy struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// Default is a conservative schedule for reconnects and HTTP retries.
var Default = Policy{
	Initial:    1 * time.Second,
	Max:        30 * time.Second,
	Multiplier: 2,
}

// Delay returns the wait duration for a zero-based attempt number.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	d := float64(p.Initial)
	for i := 0; i < attempt; i++ {
		d *= p.Multiplier
		if time.Duration(d) >= p.Max {
			return p.Max
		}
	}

	if time.Duration(d) > p.Max {
		return p.Max
	}
	return time.Duration(d)
}

// Sleep waits for the attempt's delay or until the context is done.
func (p Policy) Sleep(ctx context.Context, attempt int) error {
	timer := time.NewTimer(p.Delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
