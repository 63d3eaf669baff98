package dto

import "time"

// SignalResponse is the read API representation of a published signal.
type SignalResponse struct {
	Address      string     `json:"address"`
	Symbol       string     `json:"symbol"`
	Name         string     `json:"name"`
	Score        float64    `json:"score"`
	Reasons      []string   `json:"reasons"`
	PriceUSD     float64    `json:"price_usd"`
	LiquidityUSD float64    `json:"liquidity_usd"`
	Volume24hUSD float64    `json:"volume_24h_usd"`
	MaxMilestone float64    `json:"max_milestone"`
	PeakGainPct  float64    `json:"peak_gain_pct"`
	Outcome      string     `json:"outcome,omitempty"`
	FinalGainPct *float64   `json:"final_gain_pct,omitempty"`
	PublishedAt  time.Time  `json:"published_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}

// OutcomeStats aggregates closed signal results over a period.
type OutcomeStats struct {
	Published   int64   `json:"published"`
	Open        int64   `json:"open"`
	Wins        int64   `json:"wins"`
	Losses      int64   `json:"losses"`
	Expired     int64   `json:"expired"`
	WinRate     float64 `json:"win_rate"`
	AvgPeakGain float64 `json:"avg_peak_gain_pct"`
	BestGainPct float64 `json:"best_gain_pct"`
}

// StatsResponse is the read API stats payload.
type StatsResponse struct {
	Since time.Time    `json:"since"`
	Stats OutcomeStats `json:"stats"`
}
