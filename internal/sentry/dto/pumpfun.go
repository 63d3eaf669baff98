package dto

// NewTokenMessage is a token creation event from the pump.fun websocket
// stream.
type NewTokenMessage struct {
	Signature    string  `json:"signature"`
	Mint         string  `json:"mint"`
	TxType       string  `json:"txType"`
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	URI          string  `json:"uri"`
	Pool         string  `json:"pool"`
	MarketCapSol float64 `json:"marketCapSol"`
	SolAmount    float64 `json:"solAmount"`
	InitialBuy   float64 `json:"initialBuy"`
}

// GraduatingCoin is a bonding curve token approaching graduation,
// as listed by the pump.fun advanced API.
type GraduatingCoin struct {
	Mint                 string  `json:"coinMint"`
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	MarketCap            float64 `json:"marketCap"`
	BondingCurveProgress float64 `json:"bondingCurveProgress"`
	NumHolders           int     `json:"numHolders"`
}
