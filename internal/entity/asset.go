package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AssetStatus is the decision state of a discovered token.
type AssetStatus string

const (
	AssetStatusEvaluating AssetStatus = "EVALUATING"
	AssetStatusRejected   AssetStatus = "REJECTED"
	AssetStatusPublished  AssetStatus = "PUBLISHED"
)

// Asset is a token address the pipeline has seen. The unique address
// column is what makes admission atomic across workers.
type Asset struct {
	ID          int64          `json:"id"`
	Address     string         `json:"address" gorm:"uniqueIndex"`
	Symbol      string         `json:"symbol"`
	Name        string         `json:"name"`
	Source      string         `json:"source"`
	Status      AssetStatus    `json:"status"`
	Score       float64        `json:"score"`
	Reasons     datatypes.JSON `json:"reasons" gorm:"type:jsonb"`
	FirstSeenAt time.Time      `json:"first_seen_at"`
	DecidedAt   *time.Time     `json:"decided_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Asset) TableName() string {
	return "assets"
}
