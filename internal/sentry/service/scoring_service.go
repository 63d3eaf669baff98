package service

import (
	"context"
	"fmt"
	"time"

	"golang-token-sentry/internal/sentry/adjuster"
	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/pkg/logger"
)

// ScoringService turns a candidate and its market snapshot into a
// conviction score.
type ScoringService interface {
	Score(ctx context.Context, candidate dto.CandidateEvent, metrics dto.TokenMetrics) dto.ConvictionResult
}

type scoringService struct {
	cfg       *config.Config
	log       *logger.Logger
	adjusters []adjuster.ScoreAdjuster
}

// NewScoringService creates a new ScoringService with the given adjuster
// chain. Adjusters run after base scoring and may fail without affecting
// the decision.
func NewScoringService(cfg *config.Config, log *logger.Logger, adjusters []adjuster.ScoreAdjuster) ScoringService {
	return &scoringService{
		cfg:       cfg,
		log:       log,
		adjusters: adjusters,
	}
}

// Score applies the safety gate, the weighted base factors and the
// adjuster chain. The result is always inside [0, 100].
func (s *scoringService) Score(ctx context.Context, candidate dto.CandidateEvent, metrics dto.TokenMetrics) dto.ConvictionResult {
	if reason, ok := s.safetyGate(metrics); !ok {
		return dto.ConvictionResult{GatePassed: false, Reasons: []string{reason}}
	}

	base, reasons := s.baseScore(metrics)

	input := dto.AdjusterInput{
		Candidate: candidate,
		Metrics:   metrics,
		BaseScore: base,
	}
	delta, adjusterReasons := adjuster.Apply(ctx, s.log, s.adjusters, input, s.cfg.Scoring.AdjusterTimeout)
	reasons = append(reasons, adjusterReasons...)

	total := base + delta
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return dto.ConvictionResult{
		Score:      total,
		GatePassed: true,
		Reasons:    reasons,
	}
}

// safetyGate short-circuits candidates that no score should rescue.
func (s *scoringService) safetyGate(metrics dto.TokenMetrics) (string, bool) {
	floor := s.cfg.Scoring.LiquidityFloorUSD
	if metrics.LiquidityUSD < floor {
		return fmt.Sprintf("liquidity $%.0f below the $%.0f floor", metrics.LiquidityUSD, floor), false
	}

	if !metrics.HasTwitter && !metrics.HasTelegram && !metrics.HasWebsite {
		return "no social or website link", false
	}

	if metrics.PairCreatedAt.IsZero() {
		return "pair age unknown", false
	}
	age := time.Since(metrics.PairCreatedAt)
	if age < s.cfg.Scoring.MinTokenAge {
		return fmt.Sprintf("pair too young (%s)", age.Round(time.Minute)), false
	}
	if age > s.cfg.Scoring.MaxTokenAge {
		return fmt.Sprintf("pair too old (%s)", age.Round(time.Minute)), false
	}

	return "", true
}

func (s *scoringService) baseScore(metrics dto.TokenMetrics) (float64, []string) {
	var score float64
	var reasons []string

	add := func(points float64, reason string) {
		score += points
		reasons = append(reasons, fmt.Sprintf("%s (+%.0f)", reason, points))
	}

	if metrics.HasTwitter {
		add(10, "twitter present")
	}
	if metrics.HasTelegram {
		add(10, "telegram present")
	}
	if metrics.HasWebsite {
		add(5, "website present")
	}

	liquidityRatio := metrics.LiquidityUSD / s.cfg.Scoring.LiquidityFloorUSD
	switch {
	case liquidityRatio >= 5:
		add(25, fmt.Sprintf("liquidity %.1fx the floor", liquidityRatio))
	case liquidityRatio >= 3:
		add(20, fmt.Sprintf("liquidity %.1fx the floor", liquidityRatio))
	case liquidityRatio >= 1.5:
		add(15, fmt.Sprintf("liquidity %.1fx the floor", liquidityRatio))
	case liquidityRatio >= 1:
		add(10, fmt.Sprintf("liquidity %.1fx the floor", liquidityRatio))
	}

	if metrics.LiquidityUSD > 0 {
		volumeRatio := metrics.Volume24hUSD / metrics.LiquidityUSD
		switch {
		case volumeRatio >= 5:
			add(25, fmt.Sprintf("24h volume %.1fx liquidity", volumeRatio))
		case volumeRatio >= 3:
			add(20, fmt.Sprintf("24h volume %.1fx liquidity", volumeRatio))
		case volumeRatio >= 1.5:
			add(15, fmt.Sprintf("24h volume %.1fx liquidity", volumeRatio))
		case volumeRatio >= 0.5:
			add(10, fmt.Sprintf("24h volume %.1fx liquidity", volumeRatio))
		}
	}

	momentum := metrics.PriceChange24hPct
	switch {
	case momentum >= 100:
		add(15, fmt.Sprintf("up %.0f%% in 24h", momentum))
	case momentum >= 50:
		add(12, fmt.Sprintf("up %.0f%% in 24h", momentum))
	case momentum >= 20:
		add(8, fmt.Sprintf("up %.0f%% in 24h", momentum))
	case momentum > 0:
		add(5, fmt.Sprintf("up %.0f%% in 24h", momentum))
	}

	totalTxns := metrics.Buys24h + metrics.Sells24h
	buyRatio := float64(metrics.Buys24h)
	if metrics.Sells24h > 0 {
		buyRatio = float64(metrics.Buys24h) / float64(metrics.Sells24h)
	}
	switch {
	case buyRatio >= 2 && totalTxns > 100:
		add(10, fmt.Sprintf("%.1f:1 buy pressure over %d txns", buyRatio, totalTxns))
	case buyRatio >= 1.5 && totalTxns > 50:
		add(7, fmt.Sprintf("%.1f:1 buy pressure over %d txns", buyRatio, totalTxns))
	case totalTxns > 100:
		add(5, fmt.Sprintf("active trading, %d txns in 24h", totalTxns))
	}

	return score, reasons
}
