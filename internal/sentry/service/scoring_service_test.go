package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-token-sentry/internal/sentry/adjuster"
	"golang-token-sentry/internal/sentry/dto"
)

type staticAdjuster struct {
	name  string
	delta float64
}

func (a staticAdjuster) Name() string { return a.name }

func (a staticAdjuster) Evaluate(ctx context.Context, input dto.AdjusterInput) (dto.Adjustment, error) {
	return dto.Adjustment{Delta: a.delta, Reasons: []string{a.name}}, nil
}

func TestScore_StrongCandidate(t *testing.T) {
	svc := NewScoringService(testConfig(), testLogger(t), nil)

	result := svc.Score(context.Background(), testCandidate(mintA), strongMetrics())

	require.True(t, result.GatePassed)
	assert.InDelta(t, 90.0, result.Score, 0.001)
	assert.Len(t, result.Reasons, 7)
}

func TestScore_WeakCandidatePassesGateWithLowScore(t *testing.T) {
	svc := NewScoringService(testConfig(), testLogger(t), nil)

	result := svc.Score(context.Background(), testCandidate(mintA), weakMetrics())

	require.True(t, result.GatePassed)
	assert.InDelta(t, 20.0, result.Score, 0.001)
}

func TestScore_SafetyGate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(m *dto.TokenMetrics)
		wantReason string
	}{
		{
			name:       "liquidity below floor",
			mutate:     func(m *dto.TokenMetrics) { m.LiquidityUSD = 9000 },
			wantReason: "below the",
		},
		{
			name: "no socials at all",
			mutate: func(m *dto.TokenMetrics) {
				m.HasTwitter = false
				m.HasTelegram = false
				m.HasWebsite = false
			},
			wantReason: "no social or website link",
		},
		{
			name:       "pair age unknown",
			mutate:     func(m *dto.TokenMetrics) { m.PairCreatedAt = time.Time{} },
			wantReason: "pair age unknown",
		},
		{
			name:       "pair too young",
			mutate:     func(m *dto.TokenMetrics) { m.PairCreatedAt = time.Now().Add(-2 * time.Minute) },
			wantReason: "too young",
		},
		{
			name:       "pair too old",
			mutate:     func(m *dto.TokenMetrics) { m.PairCreatedAt = time.Now().Add(-30 * time.Hour) },
			wantReason: "too old",
		},
	}

	svc := NewScoringService(testConfig(), testLogger(t), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := strongMetrics()
			tt.mutate(&metrics)

			result := svc.Score(context.Background(), testCandidate(mintA), metrics)

			assert.False(t, result.GatePassed)
			assert.Zero(t, result.Score)
			require.Len(t, result.Reasons, 1)
			assert.Contains(t, result.Reasons[0], tt.wantReason)
		})
	}
}

func TestScore_ClampsToUpperBound(t *testing.T) {
	adjusters := []adjuster.ScoreAdjuster{staticAdjuster{name: "boost", delta: 50}}
	svc := NewScoringService(testConfig(), testLogger(t), adjusters)

	result := svc.Score(context.Background(), testCandidate(mintA), strongMetrics())

	require.True(t, result.GatePassed)
	assert.Equal(t, 100.0, result.Score)
	assert.Contains(t, result.Reasons, "boost")
}

func TestScore_ClampsToLowerBound(t *testing.T) {
	adjusters := []adjuster.ScoreAdjuster{staticAdjuster{name: "crater", delta: -200}}
	svc := NewScoringService(testConfig(), testLogger(t), adjusters)

	result := svc.Score(context.Background(), testCandidate(mintA), strongMetrics())

	require.True(t, result.GatePassed)
	assert.Equal(t, 0.0, result.Score)
}

func TestScore_AdjusterDeltasStack(t *testing.T) {
	adjusters := []adjuster.ScoreAdjuster{
		staticAdjuster{name: "narrative", delta: 8},
		staticAdjuster{name: "risk", delta: -15},
	}
	svc := NewScoringService(testConfig(), testLogger(t), adjusters)

	result := svc.Score(context.Background(), testCandidate(mintA), strongMetrics())

	require.True(t, result.GatePassed)
	assert.InDelta(t, 83.0, result.Score, 0.001)
}

func TestScore_ReasonsCarryPointBreakdown(t *testing.T) {
	svc := NewScoringService(testConfig(), testLogger(t), nil)

	result := svc.Score(context.Background(), testCandidate(mintA), strongMetrics())

	joined := strings.Join(result.Reasons, "\n")
	assert.Contains(t, joined, "twitter present (+10)")
	assert.Contains(t, joined, "liquidity 5.0x the floor (+25)")
	assert.Contains(t, joined, "buy pressure over 150 txns (+10)")
}
