package adapter

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/normalizer"
	"golang-token-sentry/pkg/logger"
)

const defaultInsiderTTL = time.Hour

// InsiderRegistry remembers which watched smart-money wallets bought which
// mint recently. Entries age out after the configured TTL.
type InsiderRegistry struct {
	log     *logger.Logger
	buys    *cache.Cache
	watched map[string]struct{}
}

// NewInsiderRegistry creates an InsiderRegistry watching the configured
// wallet list.
func NewInsiderRegistry(cfg *config.Config, log *logger.Logger) *InsiderRegistry {
	watched := make(map[string]struct{}, len(cfg.Helius.SmartWallets))
	for _, wallet := range cfg.Helius.SmartWallets {
		wallet = strings.TrimSpace(wallet)
		if wallet != "" {
			watched[wallet] = struct{}{}
		}
	}

	ttl := cfg.Helius.InsiderTTL
	if ttl <= 0 {
		ttl = defaultInsiderTTL
	}

	return &InsiderRegistry{
		log:     log,
		buys:    cache.New(ttl, 2*ttl),
		watched: watched,
	}
}

// Observe records the buy inside tx if the buyer is a watched wallet.
func (r *InsiderRegistry) Observe(tx dto.HeliusTransaction) {
	mint, buyer, err := normalizer.ExtractTokenBuy(tx)
	if err != nil {
		return
	}
	if _, ok := r.watched[buyer]; !ok {
		return
	}

	// Base58 addresses never contain a colon.
	r.buys.Set(mint+":"+buyer, time.Now(), cache.DefaultExpiration)
	r.log.Debug("tracked wallet bought",
		logger.StringField("mint", mint),
		logger.StringField("wallet", buyer))
}

// RecentBuys implements adjuster.BuyRegistry. It lists the watched wallets
// that bought the mint within the TTL window.
func (r *InsiderRegistry) RecentBuys(mint string) []string {
	prefix := mint + ":"
	var wallets []string
	for key := range r.buys.Items() {
		if strings.HasPrefix(key, prefix) {
			wallets = append(wallets, strings.TrimPrefix(key, prefix))
		}
	}
	return wallets
}
