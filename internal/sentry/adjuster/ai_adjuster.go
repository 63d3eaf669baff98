package adjuster

import (
	"context"
	"fmt"

	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/repository"
)

const aiAdjustmentBound = 10.0

// AIAdjuster asks a language model to second-guess the rule based score.
// Its verdict is clamped so a runaway model cannot dominate the decision.
type AIAdjuster struct {
	reviews repository.AIReviewRepository
}

// NewAIAdjuster creates an AIAdjuster.
func NewAIAdjuster(reviews repository.AIReviewRepository) *AIAdjuster {
	return &AIAdjuster{reviews: reviews}
}

// Name implements ScoreAdjuster.
func (a *AIAdjuster) Name() string {
	return "ai_review"
}

// Evaluate implements ScoreAdjuster.
func (a *AIAdjuster) Evaluate(ctx context.Context, input dto.AdjusterInput) (dto.Adjustment, error) {
	review, err := a.reviews.ReviewCandidate(ctx, input)
	if err != nil {
		return dto.Adjustment{}, err
	}

	delta := review.ConfidenceAdjustment
	if delta > aiAdjustmentBound {
		delta = aiAdjustmentBound
	}
	if delta < -aiAdjustmentBound {
		delta = -aiAdjustmentBound
	}

	adjustment := dto.Adjustment{Delta: delta}
	if review.Reasoning != "" {
		adjustment.Reasons = []string{fmt.Sprintf("AI review (%s risk): %s", review.RiskLevel, review.Reasoning)}
	}

	return adjustment, nil
}
