package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang-token-sentry/internal/entity"
	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/observability"
	"golang-token-sentry/internal/sentry/repository"
	"golang-token-sentry/pkg/logger"
	"golang-token-sentry/pkg/telegram"
)

// milestoneLevels are the price multiples that trigger a milestone post,
// ascending. Crossing the first one assigns the WIN outcome.
var milestoneLevels = []float64{2, 3, 5, 10, 20, 30, 40, 50, 100, 200, 300, 400, 500, 1000}

// TrackerService follows every published signal until it resolves.
type TrackerService interface {
	// Track starts following a freshly published signal.
	Track(signal *entity.Signal, metrics dto.TokenMetrics)
	// Restore rebuilds the snapshot map from open signals, called once on
	// startup.
	Restore(ctx context.Context) error
	// Sweep runs one tracking cycle over all live snapshots.
	Sweep(ctx context.Context)
}

type trackerService struct {
	cfg         *config.Config
	log         *logger.Logger
	marketData  repository.MarketDataRepository
	signalRepo  repository.SignalRepository
	alertCache  repository.AlertCacheRepository
	telegramBot telegram.Notifier

	mu      sync.Mutex
	tracked map[string]*dto.TrackedSnapshot
}

// NewTrackerService creates a new TrackerService.
func NewTrackerService(
	cfg *config.Config,
	log *logger.Logger,
	marketData repository.MarketDataRepository,
	signalRepo repository.SignalRepository,
	alertCache repository.AlertCacheRepository,
	telegramBot telegram.Notifier,
) TrackerService {
	return &trackerService{
		cfg:         cfg,
		log:         log,
		marketData:  marketData,
		signalRepo:  signalRepo,
		alertCache:  alertCache,
		telegramBot: telegramBot,
		tracked:     make(map[string]*dto.TrackedSnapshot),
	}
}

func (t *trackerService) Track(signal *entity.Signal, metrics dto.TokenMetrics) {
	snapshot := &dto.TrackedSnapshot{
		Address:             signal.Address,
		Symbol:              signal.Symbol,
		TelegramMessageID:   signal.TelegramMessageID,
		PublishedAt:         signal.PublishedAt,
		InitialPriceUSD:     metrics.PriceUSD,
		InitialLiquidityUSD: metrics.LiquidityUSD,
		InitialVolume24hUSD: metrics.Volume24hUSD,
		LastPriceUSD:        metrics.PriceUSD,
		MaxMilestone:        signal.MaxMilestone,
		PeakGainPct:         signal.PeakGainPct,
		AlertsSent:          make(map[dto.AlertKind]bool),
	}

	t.mu.Lock()
	t.tracked[signal.Address] = snapshot
	observability.TrackedSignals.Set(float64(len(t.tracked)))
	t.mu.Unlock()

	t.log.Info("tracking signal",
		logger.StringField("address", signal.Address),
		logger.StringField("symbol", signal.Symbol))
}

func (t *trackerService) Restore(ctx context.Context) error {
	signals, err := t.signalRepo.FindOpen(ctx, time.Now().Add(-t.cfg.Tracker.Window))
	if err != nil {
		return fmt.Errorf("load open signals: %w", err)
	}

	t.mu.Lock()
	for _, signal := range signals {
		t.tracked[signal.Address] = &dto.TrackedSnapshot{
			Address:             signal.Address,
			Symbol:              signal.Symbol,
			TelegramMessageID:   signal.TelegramMessageID,
			PublishedAt:         signal.PublishedAt,
			InitialPriceUSD:     signal.PriceUSD,
			InitialLiquidityUSD: signal.LiquidityUSD,
			InitialVolume24hUSD: signal.Volume24hUSD,
			LastPriceUSD:        signal.PriceUSD,
			MaxMilestone:        signal.MaxMilestone,
			PeakGainPct:         signal.PeakGainPct,
			AlertsSent:          make(map[dto.AlertKind]bool),
		}
	}
	observability.TrackedSignals.Set(float64(len(t.tracked)))
	t.mu.Unlock()

	t.log.Info("restored open signals", logger.IntField("count", len(signals)))
	return nil
}

// Sweep visits every live snapshot once. A failure on one address never
// blocks the others.
func (t *trackerService) Sweep(ctx context.Context) {
	start := time.Now()
	defer func() {
		observability.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	t.mu.Lock()
	snapshots := make([]*dto.TrackedSnapshot, 0, len(t.tracked))
	for _, snapshot := range t.tracked {
		snapshots = append(snapshots, snapshot)
	}
	t.mu.Unlock()

	for _, snapshot := range snapshots {
		if ctx.Err() != nil {
			return
		}
		t.check(ctx, snapshot)
	}
}

func (t *trackerService) check(ctx context.Context, snapshot *dto.TrackedSnapshot) {
	if time.Since(snapshot.PublishedAt) >= t.cfg.Tracker.Window {
		t.settleExpiry(ctx, snapshot)
		return
	}

	pair, err := t.marketData.GetTokenPair(ctx, snapshot.Address)
	if err != nil {
		t.log.DebugContext(ctx, "sweep fetch failed, skipping address",
			logger.StringField("address", snapshot.Address),
			logger.ErrorField(err))
		return
	}
	metrics := pair.Metrics
	snapshot.LastPriceUSD = metrics.PriceUSD

	priceChange := pctChange(metrics.PriceUSD, snapshot.InitialPriceUSD)
	volumeChange := pctChange(metrics.Volume24hUSD, snapshot.InitialVolume24hUSD)
	liquidityChange := pctChange(metrics.LiquidityUSD, snapshot.InitialLiquidityUSD)

	if priceChange > snapshot.PeakGainPct {
		snapshot.PeakGainPct = priceChange
		if err := t.signalRepo.RaisePeakGain(ctx, snapshot.Address, priceChange); err != nil {
			t.log.WarnContext(ctx, "failed to persist peak gain",
				logger.StringField("address", snapshot.Address),
				logger.ErrorField(err))
		}
	}

	t.fireAlerts(ctx, snapshot, metrics, priceChange, volumeChange, liquidityChange)
	t.raiseMilestones(ctx, snapshot, metrics, priceChange)
}

// settleExpiry closes a signal whose window elapsed without a WIN. The
// freshest known price decides between LOSS and EXPIRED.
func (t *trackerService) settleExpiry(ctx context.Context, snapshot *dto.TrackedSnapshot) {
	finalGain := pctChange(snapshot.LastPriceUSD, snapshot.InitialPriceUSD)

	outcome := entity.SignalOutcomeExpired
	reason := fmt.Sprintf("window elapsed at %+.1f%%", finalGain)
	if finalGain < 0 {
		outcome = entity.SignalOutcomeLoss
	}

	t.close(ctx, snapshot, outcome, snapshot.LastPriceUSD, finalGain, reason)
}

func (t *trackerService) fireAlerts(ctx context.Context, snapshot *dto.TrackedSnapshot, metrics dto.TokenMetrics, priceChange, volumeChange, liquidityChange float64) {
	checks := []struct {
		kind      dto.AlertKind
		triggered bool
	}{
		{dto.AlertRugWarning, liquidityChange <= -60 && volumeChange <= -50 && priceChange <= -30},
		{dto.AlertLiquidityDrop, liquidityChange <= -60},
		{dto.AlertVolumeDrop, volumeChange <= -50},
		{dto.AlertPriceDrop, priceChange <= -50},
		{dto.AlertPriceSpike, priceChange >= 100},
		{dto.AlertVolumeSpike, volumeChange >= 200},
	}

	for _, check := range checks {
		if !check.triggered || snapshot.AlertsSent[check.kind] {
			continue
		}

		marked, err := t.alertCache.TryMark(ctx, snapshot.Address, string(check.kind), t.cfg.Tracker.Window)
		if err != nil {
			t.log.WarnContext(ctx, "alert marker unavailable, deferring alert",
				logger.StringField("address", snapshot.Address),
				logger.StringField("kind", string(check.kind)),
				logger.ErrorField(err))
			continue
		}
		if !marked {
			// Sent before this process started.
			snapshot.AlertsSent[check.kind] = true
			continue
		}

		alert := dto.LifecycleAlert{
			Kind:               check.kind,
			Address:            snapshot.Address,
			Symbol:             snapshot.Symbol,
			PriceUSD:           metrics.PriceUSD,
			PriceChangePct:     priceChange,
			VolumeChangePct:    volumeChange,
			LiquidityChangePct: liquidityChange,
		}
		if err := t.send(telegram.FormatLifecycleAlertMessage(alert), snapshot.TelegramMessageID); err != nil {
			t.log.ErrorContext(ctx, "failed to post lifecycle alert",
				logger.StringField("address", snapshot.Address),
				logger.StringField("kind", string(check.kind)),
				logger.ErrorField(err))
		}

		snapshot.AlertsSent[check.kind] = true
		observability.AlertsFired.WithLabelValues(string(check.kind)).Inc()
		t.log.InfoContext(ctx, "lifecycle alert fired",
			logger.StringField("address", snapshot.Address),
			logger.StringField("kind", string(check.kind)),
			logger.Float64Field("price_change_pct", priceChange))
	}
}

// raiseMilestones posts every newly exceeded level and assigns the WIN
// outcome when the first level is crossed. A restored signal that already
// crossed it but is still open closes on its next sweep.
func (t *trackerService) raiseMilestones(ctx context.Context, snapshot *dto.TrackedSnapshot, metrics dto.TokenMetrics, priceChange float64) {
	if snapshot.InitialPriceUSD <= 0 {
		return
	}
	multiple := metrics.PriceUSD / snapshot.InitialPriceUSD

	won := snapshot.MaxMilestone >= milestoneLevels[0]
	for _, level := range milestoneLevels {
		if level <= snapshot.MaxMilestone || multiple < level {
			continue
		}

		if err := t.send(telegram.FormatMilestoneMessage(snapshot.Symbol, level, metrics.PriceUSD, priceChange), snapshot.TelegramMessageID); err != nil {
			t.log.ErrorContext(ctx, "failed to post milestone",
				logger.StringField("address", snapshot.Address),
				logger.Float64Field("level", level),
				logger.ErrorField(err))
		}
		observability.MilestonesPosted.Inc()

		snapshot.MaxMilestone = level
		if err := t.signalRepo.RaiseMilestone(ctx, snapshot.Address, level); err != nil {
			t.log.WarnContext(ctx, "failed to persist milestone",
				logger.StringField("address", snapshot.Address),
				logger.ErrorField(err))
		}
		won = true
	}

	if won {
		reason := fmt.Sprintf("hit %gx", snapshot.MaxMilestone)
		t.close(ctx, snapshot, entity.SignalOutcomeWin, metrics.PriceUSD, priceChange, reason)
	}
}

// close writes the terminal outcome, posts the verdict and stops tracking
// the address. A failed write keeps the snapshot so the next sweep
// retries.
func (t *trackerService) close(ctx context.Context, snapshot *dto.TrackedSnapshot, outcome entity.SignalOutcome, finalPrice, finalGain float64, reason string) {
	closed, err := t.signalRepo.CloseOutcome(ctx, snapshot.Address, outcome, finalPrice, finalGain, snapshot.PeakGainPct, reason)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to close signal",
			logger.StringField("address", snapshot.Address),
			logger.StringField("outcome", string(outcome)),
			logger.ErrorField(err))
		return
	}

	if closed {
		observability.Outcomes.WithLabelValues(string(outcome)).Inc()
		if err := t.send(telegram.FormatOutcomeMessage(outcome, snapshot.Symbol, finalGain, snapshot.PeakGainPct, reason), snapshot.TelegramMessageID); err != nil {
			t.log.ErrorContext(ctx, "failed to post outcome",
				logger.StringField("address", snapshot.Address),
				logger.ErrorField(err))
		}
		t.log.InfoContext(ctx, "signal closed",
			logger.StringField("address", snapshot.Address),
			logger.StringField("outcome", string(outcome)),
			logger.Float64Field("final_gain_pct", finalGain))
	}

	t.mu.Lock()
	delete(t.tracked, snapshot.Address)
	observability.TrackedSignals.Set(float64(len(t.tracked)))
	t.mu.Unlock()
}

func (t *trackerService) send(text string, replyTo int) error {
	if replyTo > 0 {
		_, err := t.telegramBot.SendReply(text, replyTo)
		return err
	}
	_, err := t.telegramBot.SendMessage(text)
	return err
}

func pctChange(current, initial float64) float64 {
	if initial <= 0 {
		return 0
	}
	return (current - initial) / initial * 100
}
