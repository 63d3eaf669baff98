package adjuster

import (
	"context"
	"fmt"
	"time"

	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/observability"
	"golang-token-sentry/pkg/logger"
)

// ScoreAdjuster contributes a bounded delta to a candidate's base score.
// Implementations must honor the context deadline.
type ScoreAdjuster interface {
	Name() string
	Evaluate(ctx context.Context, input dto.AdjusterInput) (dto.Adjustment, error)
}

// Apply runs every adjuster against the input and sums their deltas. A
// misbehaving adjuster contributes zero: errors, timeouts and panics are
// counted and logged, never propagated into the decision.
func Apply(ctx context.Context, log *logger.Logger, adjusters []ScoreAdjuster, input dto.AdjusterInput, timeout time.Duration) (float64, []string) {
	var total float64
	var reasons []string

	for _, adj := range adjusters {
		adjustment, err := runOne(ctx, adj, input, timeout)
		if err != nil {
			observability.AdjusterFailures.WithLabelValues(adj.Name()).Inc()
			log.WarnContext(ctx, "Score adjuster failed",
				logger.StringField("adjuster", adj.Name()),
				logger.StringField("address", input.Candidate.Address),
				logger.ErrorField(err),
			)
			continue
		}

		total += adjustment.Delta
		reasons = append(reasons, adjustment.Reasons...)
	}

	return total, reasons
}

func runOne(ctx context.Context, adj ScoreAdjuster, input dto.AdjusterInput, timeout time.Duration) (adjustment dto.Adjustment, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("adjuster panicked: %v", r)
		}
	}()

	return adj.Evaluate(ctx, input)
}
