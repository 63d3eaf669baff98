package config

import (
	"time"

	"golang-token-sentry/pkg/config"
)

// Pipeline holds intake and decision worker configuration.
type Pipeline struct {
	IntakeBufferSize int           `mapstructure:"intake_buffer_size"`
	EnqueueTimeout   time.Duration `mapstructure:"enqueue_timeout"`
	Consumers        int           `mapstructure:"consumers"`
	DecisionTimeout  time.Duration `mapstructure:"decision_timeout"`
}

// Scoring holds conviction scoring configuration.
type Scoring struct {
	Threshold         float64       `mapstructure:"threshold"`
	LiquidityFloorUSD float64       `mapstructure:"liquidity_floor_usd"`
	MinTokenAge       time.Duration `mapstructure:"min_token_age"`
	MaxTokenAge       time.Duration `mapstructure:"max_token_age"`
	AdjusterTimeout   time.Duration `mapstructure:"adjuster_timeout"`
	MinHistorySamples int           `mapstructure:"min_history_samples"`
}

// Publisher holds publish rate limiting configuration.
type Publisher struct {
	Cooldown  time.Duration `mapstructure:"cooldown"`
	HourlyCap int           `mapstructure:"hourly_cap"`
}

// Tracker holds lifecycle tracking configuration.
type Tracker struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	Window        time.Duration `mapstructure:"window"`
}

// PumpFun holds pump.fun stream and API configuration.
type PumpFun struct {
	StreamURL              string        `mapstructure:"stream_url"`
	GraduatingURL          string        `mapstructure:"graduating_url"`
	GraduatingPollInterval time.Duration `mapstructure:"graduating_poll_interval"`
}

// DexScreener holds the market data API configuration.
type DexScreener struct {
	BaseURL             string        `mapstructure:"base_url"`
	ProfilePollInterval time.Duration `mapstructure:"profile_poll_interval"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRetries          int           `mapstructure:"max_retries"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// RugCheck holds the contract risk API configuration.
type RugCheck struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Helius holds webhook ingestion configuration.
type Helius struct {
	AuthHeader   string        `mapstructure:"auth_header"`
	SmartWallets []string      `mapstructure:"smart_wallets"`
	InsiderTTL   time.Duration `mapstructure:"insider_ttl"`
}

// Narrative holds RSS narrative tracking configuration.
type Narrative struct {
	Feeds           []string      `mapstructure:"feeds"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	MaxArticles     int           `mapstructure:"max_articles"`
}

// Stats holds reporting configuration.
type Stats struct {
	DailyCron string `mapstructure:"daily_cron"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Config holds the full configuration for the signal service.
type Config struct {
	App         config.App      `mapstructure:"app"`
	Logger      config.Logger   `mapstructure:"logger"`
	Database    config.Database `mapstructure:"database"`
	Redis       config.Redis    `mapstructure:"redis"`
	API         config.API      `mapstructure:"api"`
	Telegram    config.Telegram `mapstructure:"telegram"`
	Gemini      Gemini          `mapstructure:"gemini"`
	AI          AI              `mapstructure:"ai"`
	Pipeline    Pipeline        `mapstructure:"pipeline"`
	Scoring     Scoring         `mapstructure:"scoring"`
	Publisher   Publisher       `mapstructure:"publisher"`
	Tracker     Tracker         `mapstructure:"tracker"`
	PumpFun     PumpFun         `mapstructure:"pumpfun"`
	DexScreener DexScreener     `mapstructure:"dexscreener"`
	RugCheck    RugCheck        `mapstructure:"rugcheck"`
	Helius      Helius          `mapstructure:"helius"`
	Narrative   Narrative       `mapstructure:"narrative"`
	Stats       Stats           `mapstructure:"stats"`
}

// Load loads the signal service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
