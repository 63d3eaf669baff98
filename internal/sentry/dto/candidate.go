package dto

import "time"

// SourceKind identifies which ingestion adapter produced a candidate.
type SourceKind string

const (
	SourcePumpFunStream     SourceKind = "pumpfun_stream"
	SourceDexScreener       SourceKind = "dexscreener_profile"
	SourcePumpFunGraduating SourceKind = "pumpfun_graduating"
	SourceHeliusWebhook     SourceKind = "helius_webhook"
)

// TokenMetrics is the market snapshot used for scoring and lifecycle
// tracking. A nil metrics pointer on a candidate means the adapter could
// not observe the market yet and enrichment has to fetch it.
type TokenMetrics struct {
	PriceUSD          float64   `json:"price_usd"`
	LiquidityUSD      float64   `json:"liquidity_usd"`
	Volume24hUSD      float64   `json:"volume_24h_usd"`
	PriceChange24hPct float64   `json:"price_change_24h_pct"`
	Buys24h           int       `json:"buys_24h"`
	Sells24h          int       `json:"sells_24h"`
	HasTwitter        bool      `json:"has_twitter"`
	HasTelegram       bool      `json:"has_telegram"`
	HasWebsite        bool      `json:"has_website"`
	PairCreatedAt     time.Time `json:"pair_created_at"`
}

// CandidateEvent is one normalized token sighting flowing through the
// intake channel.
type CandidateEvent struct {
	Address    string        `json:"address"`
	Symbol     string        `json:"symbol"`
	Name       string        `json:"name"`
	Source     SourceKind    `json:"source"`
	ObservedAt time.Time     `json:"observed_at"`
	Metrics    *TokenMetrics `json:"metrics,omitempty"`
}
