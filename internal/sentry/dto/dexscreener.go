package dto

// TokenProfile is one entry from the DexScreener latest token profiles
// endpoint.
type TokenProfile struct {
	URL          string        `json:"url"`
	ChainID      string        `json:"chainId"`
	TokenAddress string        `json:"tokenAddress"`
	Icon         string        `json:"icon"`
	Description  string        `json:"description"`
	Links        []ProfileLink `json:"links"`
}

// ProfileLink is a social or website link attached to a token profile.
type ProfileLink struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// PairsResponse is the DexScreener response for a token pair lookup.
type PairsResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

// Pair is one trading pair as reported by DexScreener. PriceUSD arrives
// as a string and pairCreatedAt as epoch milliseconds.
type Pair struct {
	ChainID       string          `json:"chainId"`
	DexID         string          `json:"dexId"`
	PairAddress   string          `json:"pairAddress"`
	BaseToken     PairToken       `json:"baseToken"`
	QuoteToken    PairToken       `json:"quoteToken"`
	PriceUSD      string          `json:"priceUsd"`
	Txns          PairTxns        `json:"txns"`
	Volume        PairVolume      `json:"volume"`
	PriceChange   PairPriceChange `json:"priceChange"`
	Liquidity     PairLiquidity   `json:"liquidity"`
	FDV           float64         `json:"fdv"`
	PairCreatedAt int64           `json:"pairCreatedAt"`
	Info          *PairInfo       `json:"info"`
}

// PairToken identifies one side of a pair.
type PairToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// PairTxns holds transaction counts per window.
type PairTxns struct {
	H24 TxnCounts `json:"h24"`
	H6  TxnCounts `json:"h6"`
	H1  TxnCounts `json:"h1"`
}

// TxnCounts splits transactions into buys and sells.
type TxnCounts struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// PairVolume holds traded volume in USD per window.
type PairVolume struct {
	H24 float64 `json:"h24"`
	H6  float64 `json:"h6"`
	H1  float64 `json:"h1"`
}

// PairPriceChange holds percentage price change per window.
type PairPriceChange struct {
	H24 float64 `json:"h24"`
	H6  float64 `json:"h6"`
	H1  float64 `json:"h1"`
}

// PairLiquidity holds pooled liquidity figures.
type PairLiquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// PairInfo carries the optional social metadata block of a pair.
type PairInfo struct {
	Websites []PairWebsite `json:"websites"`
	Socials  []PairSocial  `json:"socials"`
}

// PairWebsite is a project website link.
type PairWebsite struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// PairSocial is a project social link.
type PairSocial struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// TokenPair is the normalized view of the most liquid pair for a token.
type TokenPair struct {
	Symbol  string       `json:"symbol"`
	Name    string       `json:"name"`
	Metrics TokenMetrics `json:"metrics"`
}
