package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/pkg/logger"
)

// PumpFunRepository reads the pump.fun advanced API.
type PumpFunRepository interface {
	GetGraduatingCoins(ctx context.Context) ([]dto.GraduatingCoin, error)
}

type pumpFunRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewPumpFunRepository creates a PumpFunRepository backed by HTTP.
func NewPumpFunRepository(cfg *config.Config, log *logger.Logger) PumpFunRepository {
	return &pumpFunRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (r *pumpFunRepository) GetGraduatingCoins(ctx context.Context) ([]dto.GraduatingCoin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.PumpFun.GraduatingURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected graduating list status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var coins []dto.GraduatingCoin
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fmt.Errorf("decode graduating coins: %w", err)
	}

	return coins, nil
}
