package normalizer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang-token-sentry/internal/sentry/dto"
)

// ErrInvalidAddress is returned when a payload does not carry a usable
// base58 mint address.
var ErrInvalidAddress = errors.New("invalid token address")

// ErrWrongChain is returned for payloads that belong to another chain.
var ErrWrongChain = errors.New("not a solana token")

// ErrNoTokenTransfer is returned when a transaction moves no trackable token.
var ErrNoTokenTransfer = errors.New("no token transfer in transaction")

// ErrNotGraduation is returned for transactions that do not look like a
// pump.fun graduation. Callers skip these silently.
var ErrNotGraduation = errors.New("not a graduation transaction")

const (
	wrappedSolMint = "So11111111111111111111111111111111111111112"

	pumpFunProgram = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	raydiumProgram = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"

	// graduationTransferFloor marks the token amount above which a swap
	// is treated as graduation liquidity moving.
	graduationTransferFloor = 1_000_000
)

var base58Pattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// CanonicalAddress trims and validates a raw mint address. Addresses are
// case sensitive, so no folding is applied beyond whitespace trimming.
func CanonicalAddress(raw string) (string, error) {
	addr := strings.TrimSpace(raw)
	if !base58Pattern.MatchString(addr) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	return addr, nil
}

// FromNewToken converts a pump.fun creation event into a candidate.
func FromNewToken(msg dto.NewTokenMessage) (dto.CandidateEvent, error) {
	addr, err := CanonicalAddress(msg.Mint)
	if err != nil {
		return dto.CandidateEvent{}, err
	}

	return dto.CandidateEvent{
		Address:    addr,
		Symbol:     cleanSymbol(msg.Symbol),
		Name:       strings.TrimSpace(msg.Name),
		Source:     dto.SourcePumpFunStream,
		ObservedAt: time.Now(),
	}, nil
}

// FromTokenProfile converts a DexScreener token profile into a candidate.
// Profiles from other chains are rejected.
func FromTokenProfile(profile dto.TokenProfile) (dto.CandidateEvent, error) {
	if !strings.EqualFold(profile.ChainID, "solana") {
		return dto.CandidateEvent{}, fmt.Errorf("%w: %s", ErrWrongChain, profile.ChainID)
	}

	addr, err := CanonicalAddress(profile.TokenAddress)
	if err != nil {
		return dto.CandidateEvent{}, err
	}

	return dto.CandidateEvent{
		Address:    addr,
		Source:     dto.SourceDexScreener,
		ObservedAt: time.Now(),
	}, nil
}

// FromGraduatingCoin converts a pump.fun graduating list entry into a
// candidate.
func FromGraduatingCoin(coin dto.GraduatingCoin) (dto.CandidateEvent, error) {
	addr, err := CanonicalAddress(coin.Mint)
	if err != nil {
		return dto.CandidateEvent{}, err
	}

	return dto.CandidateEvent{
		Address:    addr,
		Symbol:     cleanSymbol(coin.Ticker),
		Name:       strings.TrimSpace(coin.Name),
		Source:     dto.SourcePumpFunGraduating,
		ObservedAt: time.Now(),
	}, nil
}

// FromHeliusTransaction applies the graduation heuristic to an enhanced
// transaction: a SWAP touching the pump.fun program that either touches
// Raydium or moves more than a million tokens in one transfer. The mint is
// the first non wrapped-SOL token transferred.
func FromHeliusTransaction(tx dto.HeliusTransaction) (dto.CandidateEvent, error) {
	if !touchesProgram(tx, pumpFunProgram) {
		return dto.CandidateEvent{}, ErrNotGraduation
	}

	mint := firstTokenMint(tx)
	if mint == "" {
		return dto.CandidateEvent{}, ErrNoTokenTransfer
	}

	if tx.Type != "SWAP" {
		return dto.CandidateEvent{}, ErrNotGraduation
	}
	if !touchesProgram(tx, raydiumProgram) && !movesGraduationLiquidity(tx) {
		return dto.CandidateEvent{}, ErrNotGraduation
	}

	addr, err := CanonicalAddress(mint)
	if err != nil {
		return dto.CandidateEvent{}, err
	}

	return dto.CandidateEvent{
		Address:    addr,
		Source:     dto.SourceHeliusWebhook,
		ObservedAt: time.Now(),
	}, nil
}

func touchesProgram(tx dto.HeliusTransaction, program string) bool {
	for _, account := range tx.AccountData {
		if account.Account == program {
			return true
		}
	}
	for _, instruction := range tx.Instructions {
		if instruction.ProgramID == program {
			return true
		}
	}
	return false
}

func firstTokenMint(tx dto.HeliusTransaction) string {
	for _, transfer := range tx.TokenTransfers {
		if transfer.Mint != "" && transfer.Mint != wrappedSolMint {
			return transfer.Mint
		}
	}
	return ""
}

func movesGraduationLiquidity(tx dto.HeliusTransaction) bool {
	for _, transfer := range tx.TokenTransfers {
		if transfer.TokenAmount > graduationTransferFloor {
			return true
		}
	}
	return false
}

// ExtractTokenBuy pulls the bought mint and the receiving wallet out of a
// Helius swap transaction. Wrapped SOL legs are skipped so the token side
// of the swap is what gets reported.
func ExtractTokenBuy(tx dto.HeliusTransaction) (mint, buyer string, err error) {
	for _, transfer := range tx.TokenTransfers {
		if transfer.Mint == wrappedSolMint || transfer.ToUserAccount == "" {
			continue
		}
		addr, addrErr := CanonicalAddress(transfer.Mint)
		if addrErr != nil {
			continue
		}
		return addr, transfer.ToUserAccount, nil
	}
	return "", "", ErrNoTokenTransfer
}

// MetricsFromPair maps a DexScreener pair onto the internal metrics
// snapshot. PriceUSD arrives as a string and pairCreatedAt as epoch
// milliseconds.
func MetricsFromPair(pair dto.Pair) (dto.TokenMetrics, error) {
	price, err := strconv.ParseFloat(pair.PriceUSD, 64)
	if err != nil {
		return dto.TokenMetrics{}, fmt.Errorf("unparseable priceUsd %q: %w", pair.PriceUSD, err)
	}

	metrics := dto.TokenMetrics{
		PriceUSD:          price,
		LiquidityUSD:      pair.Liquidity.USD,
		Volume24hUSD:      pair.Volume.H24,
		PriceChange24hPct: pair.PriceChange.H24,
		Buys24h:           pair.Txns.H24.Buys,
		Sells24h:          pair.Txns.H24.Sells,
	}

	if pair.PairCreatedAt > 0 {
		metrics.PairCreatedAt = time.UnixMilli(pair.PairCreatedAt)
	}

	if pair.Info != nil {
		metrics.HasWebsite = len(pair.Info.Websites) > 0
		for _, social := range pair.Info.Socials {
			switch strings.ToLower(social.Type) {
			case "twitter":
				metrics.HasTwitter = true
			case "telegram":
				metrics.HasTelegram = true
			}
		}
	}

	return metrics, nil
}

// BestPair picks the most liquid solana pair for a token, which is the
// pair scoring and tracking read from.
func BestPair(pairs []dto.Pair) (dto.Pair, bool) {
	var best dto.Pair
	found := false

	for _, pair := range pairs {
		if !strings.EqualFold(pair.ChainID, "solana") {
			continue
		}
		if !found || pair.Liquidity.USD > best.Liquidity.USD {
			best = pair
			found = true
		}
	}

	return best, found
}

func cleanSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
