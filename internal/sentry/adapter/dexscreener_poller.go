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

// DexScreenerPoller periodically pulls the latest token profiles and
// offers the solana ones to the pipeline.
type DexScreenerPoller struct {
	cfg        *config.Config
	log        *logger.Logger
	marketData repository.MarketDataRepository
	sink       Sink
}

// NewDexScreenerPoller creates a new DexScreenerPoller.
func NewDexScreenerPoller(cfg *config.Config, log *logger.Logger, marketData repository.MarketDataRepository, sink Sink) *DexScreenerPoller {
	return &DexScreenerPoller{cfg: cfg, log: log, marketData: marketData, sink: sink}
}

// Kind implements SourceAdapter.
func (p *DexScreenerPoller) Kind() string {
	return string(dto.SourceDexScreener)
}

// Run implements SourceAdapter.
func (p *DexScreenerPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.DexScreener.ProfilePollInterval)
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

func (p *DexScreenerPoller) poll(ctx context.Context) {
	profiles, err := p.marketData.GetLatestProfiles(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrRateLimited) {
			p.log.WarnContext(ctx, "profile poll rate limited, skipping cycle")
			backoff.Default.Sleep(ctx, 1)
			return
		}
		p.log.WarnContext(ctx, "profile poll failed", logger.ErrorField(err))
		return
	}

	for _, profile := range profiles {
		ev, err := normalizer.FromTokenProfile(profile)
		if err != nil {
			if errors.Is(err, normalizer.ErrWrongChain) {
				continue
			}
			observability.EventsMalformed.WithLabelValues(p.Kind()).Inc()
			continue
		}

		observability.EventsIngested.WithLabelValues(p.Kind()).Inc()
		p.sink.Offer(ctx, ev)
	}
}
