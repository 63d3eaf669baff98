package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"golang-token-sentry/internal/entity"
	"golang-token-sentry/internal/sentry/dto"
)

// AdmissionResult classifies what the admission gate found for an address.
type AdmissionResult string

const (
	AdmissionAdmitted       AdmissionResult = "ADMITTED"
	AdmissionAlreadyDecided AdmissionResult = "ALREADY_DECIDED"
	AdmissionInFlight       AdmissionResult = "IN_FLIGHT"
)

// AssetRepository persists discovered assets and arbitrates which worker
// owns the evaluation of an address.
type AssetRepository interface {
	// Admit claims an address for evaluation. Exactly one concurrent
	// caller per address gets AdmissionAdmitted; everyone else learns
	// whether the address is still being evaluated or already decided.
	Admit(ctx context.Context, candidate dto.CandidateEvent) (AdmissionResult, error)
	// Release gives an address back after a transient failure so a later
	// sighting can claim it again. Only EVALUATING rows are released.
	Release(ctx context.Context, address string) error
	FinishDecision(ctx context.Context, address string, status entity.AssetStatus, score float64, reasons []string) error
	GetByAddress(ctx context.Context, address string) (*entity.Asset, error)
}

type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new gorm backed AssetRepository.
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Admit(ctx context.Context, candidate dto.CandidateEvent) (AdmissionResult, error) {
	asset := &entity.Asset{
		Address:     candidate.Address,
		Symbol:      candidate.Symbol,
		Name:        candidate.Name,
		Source:      string(candidate.Source),
		Status:      entity.AssetStatusEvaluating,
		FirstSeenAt: candidate.ObservedAt,
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoNothing: true,
	}).Create(asset)
	if tx.Error != nil {
		return "", tx.Error
	}
	if tx.RowsAffected == 1 {
		return AdmissionAdmitted, nil
	}

	existing, err := r.GetByAddress(ctx, candidate.Address)
	if err != nil {
		return "", err
	}
	if existing == nil {
		// The conflicting row was released before we could read it. The
		// address will be claimed by whoever sees it next.
		return AdmissionInFlight, nil
	}
	if existing.Status == entity.AssetStatusEvaluating {
		return AdmissionInFlight, nil
	}
	return AdmissionAlreadyDecided, nil
}

func (r *assetRepository) Release(ctx context.Context, address string) error {
	return r.db.WithContext(ctx).
		Where("address = ? AND status = ?", address, entity.AssetStatusEvaluating).
		Delete(&entity.Asset{}).Error
}

func (r *assetRepository) FinishDecision(ctx context.Context, address string, status entity.AssetStatus, score float64, reasons []string) error {
	reasonsJSON, err := json.Marshal(reasons)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&entity.Asset{}).
		Where("address = ?", address).
		Updates(map[string]interface{}{
			"status":     status,
			"score":      score,
			"reasons":    datatypes.JSON(reasonsJSON),
			"decided_at": time.Now(),
		}).Error
}

func (r *assetRepository) GetByAddress(ctx context.Context, address string) (*entity.Asset, error) {
	var asset entity.Asset
	err := r.db.WithContext(ctx).Where("address = ?", address).First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}
