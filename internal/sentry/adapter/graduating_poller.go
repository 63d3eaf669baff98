package adapter

import (
	"context"
	"errors"
	"time"

	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/normalizer"
	"golang-token-sentry/internal/sentry/observability"
	"golang-token-sentry/internal/sentry/repository"
	"golang-token-sentry/pkg/backoff"
	"golang-token-sentry/pkg/logger"
)

// Bonding curve progress band worth watching. Below it the token is too
// far from graduating, above it the graduation usually already happened.
const (
	graduatingMinProgress = 85.0
	graduatingMaxProgress = 95.0
)

// GraduatingPoller watches pump.fun coins approaching graduation and
// offers the ones inside the progress band to the pipeline.
type GraduatingPoller struct {
	cfg     *config.Config
	log     *logger.Logger
	pumpFun repository.PumpFunRepository
	sink    Sink
}

// NewGraduatingPoller creates a new GraduatingPoller.
func NewGraduatingPoller(cfg *config.Config, log *logger.Logger, pumpFun repository.PumpFunRepository, sink Sink) *GraduatingPoller {
	return &GraduatingPoller{cfg: cfg, log: log, pumpFun: pumpFun, sink: sink}
}

// Kind implements SourceAdapter.
func (p *GraduatingPoller) Kind() string {
	return string(dto.SourcePumpFunGraduating)
}

// Run implements SourceAdapter.
func (p *GraduatingPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PumpFun.GraduatingPollInterval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *GraduatingPoller) poll(ctx context.Context) {
	coins, err := p.pumpFun.GetGraduatingCoins(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrRateLimited) {
			p.log.WarnContext(ctx, "graduating poll rate limited, skipping cycle")
			backoff.Default.Sleep(ctx, 1)
			return
		}
		p.log.WarnContext(ctx, "graduating poll failed", logger.ErrorField(err))
		return
	}

	for _, coin := range coins {
		if coin.BondingCurveProgress < graduatingMinProgress || coin.BondingCurveProgress > graduatingMaxProgress {
			continue
		}

		ev, err := normalizer.FromGraduatingCoin(coin)
		if err != nil {
			observability.EventsMalformed.WithLabelValues(p.Kind()).Inc()
			continue
		}

		observability.EventsIngested.WithLabelValues(p.Kind()).Inc()
		p.sink.Offer(ctx, ev)
	}
}
