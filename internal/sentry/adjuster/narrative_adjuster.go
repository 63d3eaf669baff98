package adjuster

import (
	"context"
	"fmt"

	"golang-token-sentry/internal/sentry/dto"
)

const narrativeBoostCap = 8.0

// HeatSource reports how hot the narrative matching a token currently is.
type HeatSource interface {
	Heat(symbol, name string) (float64, string)
}

// NarrativeAdjuster boosts tokens that ride a narrative currently loud in
// crypto media. It only ever adds, capped at +8.
type NarrativeAdjuster struct {
	heat HeatSource
}

// NewNarrativeAdjuster creates a NarrativeAdjuster.
func NewNarrativeAdjuster(heat HeatSource) *NarrativeAdjuster {
	return &NarrativeAdjuster{heat: heat}
}

// Name implements ScoreAdjuster.
func (a *NarrativeAdjuster) Name() string {
	return "narrative"
}

// Evaluate implements ScoreAdjuster.
func (a *NarrativeAdjuster) Evaluate(_ context.Context, input dto.AdjusterInput) (dto.Adjustment, error) {
	heat, narrative := a.heat.Heat(input.Candidate.Symbol, input.Candidate.Name)
	if heat <= 0 {
		return dto.Adjustment{}, nil
	}

	delta := heat
	if delta > narrativeBoostCap {
		delta = narrativeBoostCap
	}

	return dto.Adjustment{
		Delta:   delta,
		Reasons: []string{fmt.Sprintf("rides the %q narrative (+%.1f)", narrative, delta)},
	}, nil
}
