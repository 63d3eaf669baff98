package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"golang-token-sentry/internal/entity"
	"golang-token-sentry/internal/sentry/dto"
)

// SignalRepository persists published signals and their lifecycle results.
type SignalRepository interface {
	// CreatePublished stores the signal and flips its asset to PUBLISHED
	// in one transaction, so a signal row exists exactly when the asset
	// is marked published.
	CreatePublished(ctx context.Context, signal *entity.Signal) error
	FindOpen(ctx context.Context, publishedAfter time.Time) ([]entity.Signal, error)
	FindRecent(ctx context.Context, limit int) ([]entity.Signal, error)
	GetByAddress(ctx context.Context, address string) (*entity.Signal, error)
	// RaiseMilestone persists a new milestone level. Lower or equal levels
	// are ignored so the stored value never decreases.
	RaiseMilestone(ctx context.Context, address string, milestone float64) error
	RaisePeakGain(ctx context.Context, address string, peakGainPct float64) error
	// CloseOutcome writes the terminal outcome once. It reports false when
	// the signal was already closed.
	CloseOutcome(ctx context.Context, address string, outcome entity.SignalOutcome, finalPriceUSD, finalGainPct, peakGainPct float64, reason string) (bool, error)
	GetOutcomeStats(ctx context.Context, since time.Time) (*dto.OutcomeStats, error)
}

type signalRepository struct {
	db *gorm.DB
}

// NewSignalRepository creates a new gorm backed SignalRepository.
func NewSignalRepository(db *gorm.DB) SignalRepository {
	return &signalRepository{db: db}
}

func (r *signalRepository) CreatePublished(ctx context.Context, signal *entity.Signal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(signal).Error; err != nil {
			return err
		}

		res := tx.Model(&entity.Asset{}).
			Where("address = ?", signal.Address).
			Updates(map[string]interface{}{
				"status":     entity.AssetStatusPublished,
				"score":      signal.Score,
				"reasons":    signal.Reasons,
				"decided_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("asset %s missing while publishing signal", signal.Address)
		}
		return nil
	})
}

func (r *signalRepository) FindOpen(ctx context.Context, publishedAfter time.Time) ([]entity.Signal, error) {
	var signals []entity.Signal
	err := r.db.WithContext(ctx).
		Where("outcome IS NULL AND published_at >= ?", publishedAfter).
		Order("published_at ASC").
		Find(&signals).Error
	return signals, err
}

func (r *signalRepository) FindRecent(ctx context.Context, limit int) ([]entity.Signal, error) {
	var signals []entity.Signal
	err := r.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(limit).
		Find(&signals).Error
	return signals, err
}

func (r *signalRepository) GetByAddress(ctx context.Context, address string) (*entity.Signal, error) {
	var signal entity.Signal
	err := r.db.WithContext(ctx).Where("address = ?", address).First(&signal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &signal, nil
}

func (r *signalRepository) RaiseMilestone(ctx context.Context, address string, milestone float64) error {
	return r.db.WithContext(ctx).Model(&entity.Signal{}).
		Where("address = ? AND max_milestone < ?", address, milestone).
		Update("max_milestone", milestone).Error
}

func (r *signalRepository) RaisePeakGain(ctx context.Context, address string, peakGainPct float64) error {
	return r.db.WithContext(ctx).Model(&entity.Signal{}).
		Where("address = ? AND peak_gain_pct < ?", address, peakGainPct).
		Update("peak_gain_pct", peakGainPct).Error
}

func (r *signalRepository) CloseOutcome(ctx context.Context, address string, outcome entity.SignalOutcome, finalPriceUSD, finalGainPct, peakGainPct float64, reason string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Signal{}).
		Where("address = ? AND outcome IS NULL", address).
		Updates(map[string]interface{}{
			"outcome":         outcome,
			"outcome_reason":  reason,
			"final_price_usd": finalPriceUSD,
			"final_gain_pct":  finalGainPct,
			"peak_gain_pct":   gorm.Expr("GREATEST(peak_gain_pct, ?)", peakGainPct),
			"closed_at":       time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *signalRepository) GetOutcomeStats(ctx context.Context, since time.Time) (*dto.OutcomeStats, error) {
	var row struct {
		Published   int64
		Open        int64
		Wins        int64
		Losses      int64
		Expired     int64
		AvgPeakGain float64
		BestGainPct float64
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS published,
			COUNT(*) FILTER (WHERE outcome IS NULL) AS open,
			COUNT(*) FILTER (WHERE outcome = 'WIN') AS wins,
			COUNT(*) FILTER (WHERE outcome = 'LOSS') AS losses,
			COUNT(*) FILTER (WHERE outcome = 'EXPIRED') AS expired,
			COALESCE(AVG(peak_gain_pct), 0) AS avg_peak_gain,
			COALESCE(MAX(peak_gain_pct), 0) AS best_gain_pct
		FROM signals
		WHERE published_at >= ?`, since).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &dto.OutcomeStats{
		Published:   row.Published,
		Open:        row.Open,
		Wins:        row.Wins,
		Losses:      row.Losses,
		Expired:     row.Expired,
		AvgPeakGain: row.AvgPeakGain,
		BestGainPct: row.BestGainPct,
	}
	if decided := row.Wins + row.Losses; decided > 0 {
		stats.WinRate = float64(row.Wins) / float64(decided)
	}
	return stats, nil
}
