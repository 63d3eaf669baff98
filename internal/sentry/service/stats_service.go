package service

import (
	"context"
	"time"

	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/repository"
	"golang-token-sentry/pkg/logger"
	"golang-token-sentry/pkg/telegram"
)

// StatsService reports how published signals performed.
type StatsService interface {
	// PostDailyStats sends the last 24h summary to the channel.
	PostDailyStats(ctx context.Context)
	GetStats(ctx context.Context, since time.Time) (*dto.OutcomeStats, error)
}

type statsService struct {
	cfg         *config.Config
	log         *logger.Logger
	signalRepo  repository.SignalRepository
	telegramBot telegram.Notifier
}

// NewStatsService creates a new StatsService.
func NewStatsService(cfg *config.Config, log *logger.Logger, signalRepo repository.SignalRepository, telegramBot telegram.Notifier) StatsService {
	return &statsService{
		cfg:         cfg,
		log:         log,
		signalRepo:  signalRepo,
		telegramBot: telegramBot,
	}
}

func (s *statsService) PostDailyStats(ctx context.Context) {
	since := time.Now().Add(-24 * time.Hour)

	stats, err := s.signalRepo.GetOutcomeStats(ctx, since)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load outcome stats", logger.ErrorField(err))
		return
	}

	if _, err := s.telegramBot.SendMessage(telegram.FormatDailyStatsMessage(since, *stats)); err != nil {
		s.log.ErrorContext(ctx, "failed to post daily stats", logger.ErrorField(err))
		return
	}

	s.log.InfoContext(ctx, "daily stats posted",
		logger.IntField("published", int(stats.Published)),
		logger.Float64Field("win_rate", stats.WinRate))
}

func (s *statsService) GetStats(ctx context.Context, since time.Time) (*dto.OutcomeStats, error) {
	return s.signalRepo.GetOutcomeStats(ctx, since)
}
