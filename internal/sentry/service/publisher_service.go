package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"gorm.io/datatypes"

	"golang-token-sentry/internal/entity"
	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/observability"
	"golang-token-sentry/internal/sentry/repository"
	"golang-token-sentry/pkg/common"
	"golang-token-sentry/pkg/logger"
	"golang-token-sentry/pkg/telegram"
)

// ErrHourlyCapReached is returned when the trailing-hour publish window
// is already full. The candidate stays decided, just unpublished.
var ErrHourlyCapReached = errors.New("hourly publish cap reached")

// PublisherService posts accepted signals to the channel under the
// configured rate limits.
type PublisherService interface {
	Publish(ctx context.Context, candidate dto.CandidateEvent, metrics dto.TokenMetrics, conviction dto.ConvictionResult) (*entity.Signal, error)
}

type publisherService struct {
	cfg         *config.Config
	log         *logger.Logger
	mu          sync.Mutex
	cooldown    *rate.Limiter
	rateWindow  repository.RateWindowRepository
	signalRepo  repository.SignalRepository
	telegramBot telegram.Notifier
}

// NewPublisherService creates a new PublisherService.
func NewPublisherService(
	cfg *config.Config,
	log *logger.Logger,
	rateWindow repository.RateWindowRepository,
	signalRepo repository.SignalRepository,
	telegramBot telegram.Notifier,
) PublisherService {
	return &publisherService{
		cfg:         cfg,
		log:         log,
		cooldown:    rate.NewLimiter(rate.Every(cfg.Publisher.Cooldown), 1),
		rateWindow:  rateWindow,
		signalRepo:  signalRepo,
		telegramBot: telegramBot,
	}
}

// Publish sends the signal message and records the signal row together
// with the asset flip to PUBLISHED. Concurrent publishes are serialized:
// the hourly window decides first, then the cooldown suspends until the
// next slot.
func (p *publisherService) Publish(ctx context.Context, candidate dto.CandidateEvent, metrics dto.TokenMetrics, conviction dto.ConvictionResult) (*entity.Signal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	allowed, err := p.rateWindow.Allow(ctx, common.RedisKeyPublishWindow, p.cfg.Publisher.HourlyCap, time.Hour)
	if err != nil {
		return nil, fmt.Errorf("publish window: %w", err)
	}
	if !allowed {
		observability.HourlyCapHits.Inc()
		return nil, ErrHourlyCapReached
	}

	if err := p.cooldown.Wait(ctx); err != nil {
		return nil, err
	}

	messageID, err := p.telegramBot.SendMessage(telegram.FormatSignalMessage(candidate, metrics, conviction))
	if err != nil {
		return nil, fmt.Errorf("send signal message: %w", err)
	}

	reasons, err := json.Marshal(conviction.Reasons)
	if err != nil {
		return nil, fmt.Errorf("marshal reasons: %w", err)
	}

	signal := &entity.Signal{
		Address:           candidate.Address,
		Symbol:            candidate.Symbol,
		Name:              candidate.Name,
		Source:            string(candidate.Source),
		Score:             conviction.Score,
		Reasons:           datatypes.JSON(reasons),
		PriceUSD:          metrics.PriceUSD,
		LiquidityUSD:      metrics.LiquidityUSD,
		Volume24hUSD:      metrics.Volume24hUSD,
		TelegramMessageID: messageID,
		PublishedAt:       time.Now(),
	}

	if err := p.signalRepo.CreatePublished(ctx, signal); err != nil {
		return nil, fmt.Errorf("persist published signal: %w", err)
	}

	observability.SignalsPublished.Inc()
	p.log.InfoContext(ctx, "signal published",
		logger.StringField("address", candidate.Address),
		logger.StringField("symbol", candidate.Symbol),
		logger.Float64Field("score", conviction.Score),
		logger.IntField("telegram_message_id", messageID))

	return signal, nil
}
