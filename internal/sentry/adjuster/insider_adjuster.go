package adjuster

import (
	"context"
	"fmt"

	"golang-token-sentry/internal/sentry/dto"
)

// BuyRegistry reports which tracked wallets recently bought a mint.
type BuyRegistry interface {
	RecentBuys(mint string) []string
}

// InsiderAdjuster boosts tokens that tracked smart-money wallets are
// already buying. Confluence of two or more wallets is the strong signal.
type InsiderAdjuster struct {
	registry BuyRegistry
}

// NewInsiderAdjuster creates an InsiderAdjuster.
func NewInsiderAdjuster(registry BuyRegistry) *InsiderAdjuster {
	return &InsiderAdjuster{registry: registry}
}

// Name implements ScoreAdjuster.
func (a *InsiderAdjuster) Name() string {
	return "insider"
}

// Evaluate implements ScoreAdjuster.
func (a *InsiderAdjuster) Evaluate(_ context.Context, input dto.AdjusterInput) (dto.Adjustment, error) {
	wallets := a.registry.RecentBuys(input.Candidate.Address)

	switch {
	case len(wallets) >= 2:
		return dto.Adjustment{
			Delta:   15,
			Reasons: []string{fmt.Sprintf("%d tracked wallets bought recently", len(wallets))},
		}, nil
	case len(wallets) == 1:
		return dto.Adjustment{
			Delta:   8,
			Reasons: []string{"a tracked wallet bought recently"},
		}, nil
	default:
		return dto.Adjustment{}, nil
	}
}
