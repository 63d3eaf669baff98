package repository

import (
	"fmt"
	"time"

	"golang-token-sentry/internal/sentry/dto"
)

// BuildCandidateReviewPrompt renders the prompt asking the model to
// sanity check a candidate before publication.
func BuildCandidateReviewPrompt(input dto.AdjusterInput) string {
	age := "unknown"
	if !input.Metrics.PairCreatedAt.IsZero() {
		age = time.Since(input.Metrics.PairCreatedAt).Round(time.Minute).String()
	}

	promptTemplate := `You are a cautious analyst reviewing newly launched Solana meme tokens before a signal bot publishes them. You only see on-chain market data, never the chart.

Candidate:
- Symbol: %s
- Name: %s
- Discovered via: %s
- Pair age: %s
- Price: $%.10f
- Liquidity: $%.2f
- 24h volume: $%.2f
- 24h price change: %.2f%%
- 24h transactions: %d buys / %d sells
- Socials: twitter=%t telegram=%t website=%t
- Preliminary conviction score: %.0f/100

Look for red flags the score may have missed (wash-trade shaped volume, liquidity too thin for the hype, dead socials) and for strength it may have underrated.

Reply with JSON only, no prose:

{
  "confidence_adjustment": {number between -10.0 and 10.0},
  "risk_level": "low | medium | high",
  "reasoning": "{one short sentence}"
}`

	return fmt.Sprintf(promptTemplate,
		input.Candidate.Symbol,
		input.Candidate.Name,
		input.Candidate.Source,
		age,
		input.Metrics.PriceUSD,
		input.Metrics.LiquidityUSD,
		input.Metrics.Volume24hUSD,
		input.Metrics.PriceChange24hPct,
		input.Metrics.Buys24h,
		input.Metrics.Sells24h,
		input.Metrics.HasTwitter,
		input.Metrics.HasTelegram,
		input.Metrics.HasWebsite,
		input.BaseScore,
	)
}
