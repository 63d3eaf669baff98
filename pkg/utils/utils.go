package utils

import (
	"context"
	"log"
	"runtime/debug"

	"golang-token-sentry/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers panics so a misbehaving
// handler cannot take down the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still alive. Loop bodies
// call it between iterations to honor shutdown.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Warn("Context cancelled, stopping work")
		return false
	default:
		return true
	}
}
