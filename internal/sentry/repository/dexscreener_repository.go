package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/normalizer"
	"golang-token-sentry/internal/sentry/observability"
	"golang-token-sentry/pkg/backoff"
	"golang-token-sentry/pkg/logger"
)

var (
	// ErrRateLimited means the market data API returned 429. Callers skip
	// the current cycle instead of retrying into the limit.
	ErrRateLimited = errors.New("market data rate limited")
	// ErrNoPairs means the token has no tradable solana pair yet.
	ErrNoPairs = errors.New("no tradable pairs found")
)

// MarketDataRepository reads token market snapshots and discovery feeds
// from DexScreener.
type MarketDataRepository interface {
	GetTokenPair(ctx context.Context, address string) (*dto.TokenPair, error)
	GetLatestProfiles(ctx context.Context) ([]dto.TokenProfile, error)
}

type dexScreenerRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	breaker        *gobreaker.CircuitBreaker
	pairCache      *cache.Cache
	retry          backoff.Policy
}

// NewDexScreenerRepository creates a MarketDataRepository backed by the
// DexScreener public API. Responses for pair lookups are cached briefly
// because the tracker asks for the same addresses every sweep.
func NewDexScreenerRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	maxPerMinute := cfg.DexScreener.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 300
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)

	timeout := cfg.DexScreener.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "dexscreener",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Market data circuit state changed",
				logger.StringField("breaker", name),
				logger.StringField("from", from.String()),
				logger.StringField("to", to.String()),
			)
		},
	})

	return &dexScreenerRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     &http.Client{Timeout: timeout},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		breaker:        breaker,
		pairCache:      cache.New(30*time.Second, time.Minute),
		retry:          backoff.Default,
	}
}

func (r *dexScreenerRepository) GetTokenPair(ctx context.Context, address string) (*dto.TokenPair, error) {
	if cached, found := r.pairCache.Get(address); found {
		pair := cached.(dto.TokenPair)
		return &pair, nil
	}

	url := fmt.Sprintf("%s/latest/dex/tokens/%s", r.cfg.DexScreener.BaseURL, address)
	body, err := r.getWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp dto.PairsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode pairs response: %w", err)
	}

	best, ok := normalizer.BestPair(resp.Pairs)
	if !ok {
		return nil, ErrNoPairs
	}

	metrics, err := normalizer.MetricsFromPair(best)
	if err != nil {
		return nil, err
	}

	pair := dto.TokenPair{
		Symbol:  best.BaseToken.Symbol,
		Name:    best.BaseToken.Name,
		Metrics: metrics,
	}
	r.pairCache.Set(address, pair, cache.DefaultExpiration)

	return &pair, nil
}

func (r *dexScreenerRepository) GetLatestProfiles(ctx context.Context) ([]dto.TokenProfile, error) {
	url := fmt.Sprintf("%s/token-profiles/latest/v1", r.cfg.DexScreener.BaseURL)
	body, err := r.getWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}

	var profiles []dto.TokenProfile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, fmt.Errorf("decode token profiles: %w", err)
	}

	return profiles, nil
}

// getWithRetry retries server side failures with backoff. Rate limits are
// returned immediately so the caller backs off for a whole cycle rather
// than hammering the API.
func (r *dexScreenerRepository) getWithRetry(ctx context.Context, url string) ([]byte, error) {
	maxAttempts := r.cfg.DexScreener.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 3
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := r.retry.Sleep(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		body, err := r.get(ctx, url)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, ErrRateLimited) {
			observability.MarketDataErrors.WithLabelValues("rate_limited").Inc()
			return nil, err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			observability.MarketDataErrors.WithLabelValues("breaker_open").Inc()
			return nil, err
		}

		observability.MarketDataErrors.WithLabelValues("transient").Inc()
		r.log.WarnContext(ctx, "Market data request failed",
			logger.StringField("url", url),
			logger.IntField("attempt", attempt+1),
			logger.ErrorField(err),
		)
		lastErr = err
	}

	return nil, lastErr
}

func (r *dexScreenerRepository) get(ctx context.Context, url string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
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

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, ErrRateLimited
		case resp.StatusCode >= http.StatusInternalServerError:
			return nil, fmt.Errorf("market data server error: status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("unexpected market data status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
