package adjuster

import (
	"context"
	"fmt"

	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/repository"
)

// ContractRiskAdjuster penalizes tokens whose contract scan flags danger
// and gives a small bonus to clean ones. Range [-15, +5].
type ContractRiskAdjuster struct {
	risks repository.ContractRiskRepository
}

// NewContractRiskAdjuster creates a ContractRiskAdjuster.
func NewContractRiskAdjuster(risks repository.ContractRiskRepository) *ContractRiskAdjuster {
	return &ContractRiskAdjuster{risks: risks}
}

// Name implements ScoreAdjuster.
func (a *ContractRiskAdjuster) Name() string {
	return "contract_risk"
}

// Evaluate implements ScoreAdjuster.
func (a *ContractRiskAdjuster) Evaluate(ctx context.Context, input dto.AdjusterInput) (dto.Adjustment, error) {
	report, err := a.risks.GetRiskReport(ctx, input.Candidate.Address)
	if err != nil {
		return dto.Adjustment{}, err
	}

	var delta float64
	var label string
	switch {
	case report.Score >= 80:
		delta, label = -15, "critical"
	case report.Score >= 60:
		delta, label = -10, "high"
	case report.Score >= 40:
		delta, label = -5, "elevated"
	case report.Score <= 10:
		delta, label = 5, "clean"
	default:
		return dto.Adjustment{}, nil
	}

	reason := fmt.Sprintf("contract scan %s (risk score %d)", label, report.Score)
	if len(report.Risks) > 0 && delta < 0 {
		reason = fmt.Sprintf("%s: %s", reason, report.Risks[0].Name)
	}

	return dto.Adjustment{Delta: delta, Reasons: []string{reason}}, nil
}
