package adapter

import (
	"context"

	"golang-token-sentry/internal/sentry/dto"
)

// Sink accepts normalized candidates for evaluation. Offer blocks until
// the event is queued or the enqueue timeout elapses; false means the
// event was dropped.
type Sink interface {
	Offer(ctx context.Context, event dto.CandidateEvent) bool
}

// SourceAdapter is one token discovery source feeding the pipeline. Run
// blocks until the context is cancelled.
type SourceAdapter interface {
	Kind() string
	Run(ctx context.Context)
}
