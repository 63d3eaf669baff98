package entity

import (
	"time"

	"gorm.io/datatypes"
)

// SignalOutcome is the terminal verdict of a published signal. It is
// written exactly once; a signal with a NULL outcome is still open.
type SignalOutcome string

const (
	SignalOutcomeWin     SignalOutcome = "WIN"
	SignalOutcomeLoss    SignalOutcome = "LOSS"
	SignalOutcomeExpired SignalOutcome = "EXPIRED"
)

// Signal is a published token call together with the market snapshot it
// was issued on and the lifecycle results accumulated afterwards.
type Signal struct {
	ID                int64          `json:"id"`
	Address           string         `json:"address" gorm:"uniqueIndex"`
	Symbol            string         `json:"symbol"`
	Name              string         `json:"name"`
	Source            string         `json:"source"`
	Score             float64        `json:"score"`
	Reasons           datatypes.JSON `json:"reasons" gorm:"type:jsonb"`
	PriceUSD          float64        `json:"price_usd"`
	LiquidityUSD      float64        `json:"liquidity_usd"`
	Volume24hUSD      float64        `json:"volume_24h_usd"`
	TelegramMessageID int            `json:"telegram_message_id"`
	MaxMilestone      float64        `json:"max_milestone"`
	PeakGainPct       float64        `json:"peak_gain_pct"`
	Outcome           *SignalOutcome `json:"outcome"`
	OutcomeReason     string         `json:"outcome_reason"`
	FinalPriceUSD     *float64       `json:"final_price_usd"`
	FinalGainPct      *float64       `json:"final_gain_pct"`
	ClosedAt          *time.Time     `json:"closed_at"`
	PublishedAt       time.Time      `json:"published_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (Signal) TableName() string {
	return "signals"
}
