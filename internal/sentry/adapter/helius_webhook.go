package adapter

import (
	"context"
	"errors"

	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/normalizer"
	"golang-token-sentry/internal/sentry/observability"
	"golang-token-sentry/pkg/logger"
)

// HeliusWebhook turns enhanced-transaction deliveries into graduation
// candidates and feeds the insider registry. It is passive: the HTTP layer
// calls Enqueue, there is no Run loop.
type HeliusWebhook struct {
	log      *logger.Logger
	sink     Sink
	registry *InsiderRegistry
}

// NewHeliusWebhook creates a new HeliusWebhook.
func NewHeliusWebhook(log *logger.Logger, sink Sink, registry *InsiderRegistry) *HeliusWebhook {
	return &HeliusWebhook{log: log, sink: sink, registry: registry}
}

// Kind reports the source label used on metrics and candidates.
func (h *HeliusWebhook) Kind() string {
	return string(dto.SourceHeliusWebhook)
}

// Enqueue normalizes one webhook delivery and offers every graduation
// candidate to the pipeline. It returns how many candidates the intake
// accepted. Transactions that are not graduations are routine traffic and
// are skipped silently.
func (h *HeliusWebhook) Enqueue(ctx context.Context, txs []dto.HeliusTransaction) int {
	accepted := 0

	for _, tx := range txs {
		h.registry.Observe(tx)

		ev, err := normalizer.FromHeliusTransaction(tx)
		switch {
		case err == nil:
			observability.EventsIngested.WithLabelValues(h.Kind()).Inc()
			if h.sink.Offer(ctx, ev) {
				accepted++
			}
		case errors.Is(err, normalizer.ErrNotGraduation), errors.Is(err, normalizer.ErrNoTokenTransfer):
		default:
			observability.EventsMalformed.WithLabelValues(h.Kind()).Inc()
			h.log.DebugContext(ctx, "dropping malformed webhook transaction",
				logger.StringField("signature", tx.Signature),
				logger.ErrorField(err))
		}
	}

	return accepted
}
