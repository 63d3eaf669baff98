package dto

// AlertKind identifies a lifecycle alert condition.
type AlertKind string

const (
	AlertVolumeDrop    AlertKind = "VOLUME_DROP"
	AlertLiquidityDrop AlertKind = "LIQUIDITY_DROP"
	AlertPriceDrop     AlertKind = "PRICE_DROP"
	AlertPriceSpike    AlertKind = "PRICE_SPIKE"
	AlertVolumeSpike   AlertKind = "VOLUME_SPIKE"
	AlertRugWarning    AlertKind = "RUG_WARNING"
)

// LifecycleAlert is a fired alert with the deltas that triggered it,
// all expressed as percent change since publication.
type LifecycleAlert struct {
	Kind               AlertKind `json:"kind"`
	Address            string    `json:"address"`
	Symbol             string    `json:"symbol"`
	PriceUSD           float64   `json:"price_usd"`
	PriceChangePct     float64   `json:"price_change_pct"`
	VolumeChangePct    float64   `json:"volume_change_pct"`
	LiquidityChangePct float64   `json:"liquidity_change_pct"`
}
