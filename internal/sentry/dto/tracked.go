package dto

import "time"

// TrackedSnapshot is the in-memory lifecycle state of one published
// signal between sweeps. LastPriceUSD is the freshest observed price and
// is what a window expiry settles against. AlertsSent only grows.
type TrackedSnapshot struct {
	Address             string             `json:"address"`
	Symbol              string             `json:"symbol"`
	TelegramMessageID   int                `json:"telegram_message_id"`
	PublishedAt         time.Time          `json:"published_at"`
	InitialPriceUSD     float64            `json:"initial_price_usd"`
	InitialLiquidityUSD float64            `json:"initial_liquidity_usd"`
	InitialVolume24hUSD float64            `json:"initial_volume_24h_usd"`
	LastPriceUSD        float64            `json:"last_price_usd"`
	MaxMilestone        float64            `json:"max_milestone"`
	PeakGainPct         float64            `json:"peak_gain_pct"`
	AlertsSent          map[AlertKind]bool `json:"alerts_sent"`
}
