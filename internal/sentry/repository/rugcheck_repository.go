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

// ContractRiskRepository fetches on-chain safety reports for a token.
type ContractRiskRepository interface {
	GetRiskReport(ctx context.Context, address string) (*dto.ContractRiskReport, error)
}

type rugCheckRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewRugCheckRepository creates a ContractRiskRepository backed by the
// RugCheck public API.
func NewRugCheckRepository(cfg *config.Config, log *logger.Logger) ContractRiskRepository {
	timeout := cfg.RugCheck.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &rugCheckRepository{
		cfg:        cfg,
		log:        log,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (r *rugCheckRepository) GetRiskReport(ctx context.Context, address string) (*dto.ContractRiskReport, error) {
	url := fmt.Sprintf("%s/v1/tokens/%s/report/summary", r.cfg.RugCheck.BaseURL, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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
		return nil, fmt.Errorf("unexpected risk report status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var report dto.ContractRiskReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("decode risk report: %w", err)
	}

	r.log.DebugContext(ctx, "Fetched contract risk report",
		logger.StringField("address", address),
		logger.IntField("risk_score", report.Score),
	)

	return &report, nil
}
