package adjuster

import (
	"context"
	"fmt"
	"time"

	"golang-token-sentry/internal/sentry/dto"
)

// OutcomeStatsProvider exposes the historical hit rate of the bot's own
// published signals.
type OutcomeStatsProvider interface {
	GetOutcomeStats(ctx context.Context, since time.Time) (*dto.OutcomeStats, error)
}

// HistoryAdjuster nudges the score by how well past signals performed.
// With a 50% win rate it contributes nothing; better or worse track
// records move the score up to +-10.
type HistoryAdjuster struct {
	stats      OutcomeStatsProvider
	minSamples int
}

// NewHistoryAdjuster creates a HistoryAdjuster requiring minSamples
// decided outcomes before it weighs in.
func NewHistoryAdjuster(stats OutcomeStatsProvider, minSamples int) *HistoryAdjuster {
	if minSamples <= 0 {
		minSamples = 10
	}
	return &HistoryAdjuster{stats: stats, minSamples: minSamples}
}

// Name implements ScoreAdjuster.
func (a *HistoryAdjuster) Name() string {
	return "history"
}

// Evaluate implements ScoreAdjuster.
func (a *HistoryAdjuster) Evaluate(ctx context.Context, _ dto.AdjusterInput) (dto.Adjustment, error) {
	stats, err := a.stats.GetOutcomeStats(ctx, time.Unix(0, 0))
	if err != nil {
		return dto.Adjustment{}, err
	}

	decided := stats.Wins + stats.Losses
	if decided < int64(a.minSamples) {
		return dto.Adjustment{}, nil
	}

	delta := (stats.WinRate - 0.5) * 20

	return dto.Adjustment{
		Delta: delta,
		Reasons: []string{fmt.Sprintf("track record: %.0f%% win rate over %d closed calls (%+.1f)",
			stats.WinRate*100, decided, delta)},
	}, nil
}
