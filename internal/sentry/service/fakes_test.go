package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"golang-token-sentry/internal/entity"
	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/repository"
	"golang-token-sentry/pkg/logger"
)

const (
	mintA = "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R"
	mintB = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	mintC = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	return log
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Pipeline.IntakeBufferSize = 8
	cfg.Pipeline.EnqueueTimeout = 50 * time.Millisecond
	cfg.Pipeline.DecisionTimeout = 5 * time.Second
	cfg.Scoring.Threshold = 60
	cfg.Scoring.LiquidityFloorUSD = 12000
	cfg.Scoring.MinTokenAge = 10 * time.Minute
	cfg.Scoring.MaxTokenAge = 12 * time.Hour
	cfg.Scoring.AdjusterTimeout = time.Second
	cfg.Publisher.HourlyCap = 5
	cfg.Tracker.Window = 48 * time.Hour
	cfg.Tracker.SweepInterval = time.Minute
	return cfg
}

func testCandidate(address string) dto.CandidateEvent {
	return dto.CandidateEvent{
		Address:    address,
		Symbol:     "PEPE",
		Name:       "Pepe Classic",
		Source:     dto.SourcePumpFunStream,
		ObservedAt: time.Now(),
	}
}

// strongMetrics scores 90 against testConfig: 25 for socials, 25 for
// liquidity at 5x the floor, 15 for volume at 1.5x liquidity, 15 for
// +120% momentum and 10 for 2.9:1 buy pressure over 150 txns.
func strongMetrics() dto.TokenMetrics {
	return dto.TokenMetrics{
		PriceUSD:          0.00004521,
		LiquidityUSD:      60000,
		Volume24hUSD:      90000,
		PriceChange24hPct: 120,
		Buys24h:           112,
		Sells24h:          38,
		HasTwitter:        true,
		HasTelegram:       true,
		HasWebsite:        true,
		PairCreatedAt:     time.Now().Add(-2 * time.Hour),
	}
}

func makeConviction(score float64, reasons ...string) dto.ConvictionResult {
	return dto.ConvictionResult{Score: score, GatePassed: true, Reasons: reasons}
}

// weakMetrics passes the safety gate but only scores 20.
func weakMetrics() dto.TokenMetrics {
	return dto.TokenMetrics{
		PriceUSD:          0.000011,
		LiquidityUSD:      13000,
		Volume24hUSD:      5000,
		PriceChange24hPct: -5,
		Buys24h:           10,
		Sells24h:          20,
		HasTelegram:       true,
		PairCreatedAt:     time.Now().Add(-time.Hour),
	}
}

type sentMessage struct {
	text    string
	replyTo int
}

type fakeNotifier struct {
	mu   sync.Mutex
	fail error
	next int
	sent []sentMessage
}

func (f *fakeNotifier) SendMessage(text string) (int, error) {
	return f.record(text, 0)
}

func (f *fakeNotifier) SendReply(text string, replyToMessageID int) (int, error) {
	return f.record(text, replyToMessageID)
}

func (f *fakeNotifier) record(text string, replyTo int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return 0, f.fail
	}
	f.next++
	f.sent = append(f.sent, sentMessage{text: text, replyTo: replyTo})
	return f.next, nil
}

func (f *fakeNotifier) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeNotifier) countContaining(substr string) int {
	n := 0
	for _, m := range f.messages() {
		if strings.Contains(m.text, substr) {
			n++
		}
	}
	return n
}

// fakeAssetRepo mirrors the conditional-insert admission contract: the
// first caller per address inserts EVALUATING, everyone after that learns
// the current state.
type fakeAssetRepo struct {
	mu        sync.Mutex
	admitErr  error
	finishErr error
	assets    map[string]*entity.Asset
	finishes  int
	releases  int
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]*entity.Asset)}
}

func (f *fakeAssetRepo) Admit(ctx context.Context, candidate dto.CandidateEvent) (repository.AdmissionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.admitErr != nil {
		return "", f.admitErr
	}
	if existing, ok := f.assets[candidate.Address]; ok {
		if existing.Status == entity.AssetStatusEvaluating {
			return repository.AdmissionInFlight, nil
		}
		return repository.AdmissionAlreadyDecided, nil
	}
	f.assets[candidate.Address] = &entity.Asset{
		Address:     candidate.Address,
		Symbol:      candidate.Symbol,
		Name:        candidate.Name,
		Source:      string(candidate.Source),
		Status:      entity.AssetStatusEvaluating,
		FirstSeenAt: time.Now(),
	}
	return repository.AdmissionAdmitted, nil
}

func (f *fakeAssetRepo) Release(ctx context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if asset, ok := f.assets[address]; ok && asset.Status == entity.AssetStatusEvaluating {
		delete(f.assets, address)
		f.releases++
	}
	return nil
}

func (f *fakeAssetRepo) FinishDecision(ctx context.Context, address string, status entity.AssetStatus, score float64, reasons []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finishErr != nil {
		return f.finishErr
	}
	asset, ok := f.assets[address]
	if !ok {
		return nil
	}
	raw, err := json.Marshal(reasons)
	if err != nil {
		return err
	}
	asset.Status = status
	asset.Score = score
	asset.Reasons = raw
	now := time.Now()
	asset.DecidedAt = &now
	f.finishes++
	return nil
}

func (f *fakeAssetRepo) GetByAddress(ctx context.Context, address string) (*entity.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset, ok := f.assets[address]
	if !ok {
		return nil, nil
	}
	cp := *asset
	return &cp, nil
}

func (f *fakeAssetRepo) get(address string) *entity.Asset {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assets[address]
}

func (f *fakeAssetRepo) markPublished(address string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if asset, ok := f.assets[address]; ok {
		asset.Status = entity.AssetStatusPublished
	}
}

type fakeMarketData struct {
	mu    sync.Mutex
	err   error
	calls int
	pairs map[string]*dto.TokenPair
}

func newFakeMarketData() *fakeMarketData {
	return &fakeMarketData{pairs: make(map[string]*dto.TokenPair)}
}

func (f *fakeMarketData) GetTokenPair(ctx context.Context, address string) (*dto.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	pair, ok := f.pairs[address]
	if !ok {
		return nil, repository.ErrNoPairs
	}
	cp := *pair
	return &cp, nil
}

func (f *fakeMarketData) GetLatestProfiles(ctx context.Context) ([]dto.TokenProfile, error) {
	return nil, nil
}

func (f *fakeMarketData) setPair(address string, metrics dto.TokenMetrics) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairs[address] = &dto.TokenPair{Symbol: "PEPE", Name: "Pepe Classic", Metrics: metrics}
}

func (f *fakeMarketData) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeMarketData) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeSignalRepo keeps signal rows in memory. CloseOutcome is write-once
// and RaiseMilestone never lowers the stored level, matching the SQL
// guards of the real repository. When assets is set, CreatePublished
// flips the asset row to PUBLISHED the way the real transaction does.
type fakeSignalRepo struct {
	mu         sync.Mutex
	createErr  error
	closeErr   error
	open       []entity.Signal
	signals    map[string]*entity.Signal
	assets     *fakeAssetRepo
	closeCalls int
	peakCalls  int
}

func newFakeSignalRepo() *fakeSignalRepo {
	return &fakeSignalRepo{signals: make(map[string]*entity.Signal)}
}

func (f *fakeSignalRepo) CreatePublished(ctx context.Context, signal *entity.Signal) error {
	f.mu.Lock()
	if f.createErr != nil {
		f.mu.Unlock()
		return f.createErr
	}
	cp := *signal
	f.signals[signal.Address] = &cp
	f.mu.Unlock()

	if f.assets != nil {
		f.assets.markPublished(signal.Address)
	}
	return nil
}

func (f *fakeSignalRepo) FindOpen(ctx context.Context, publishedAfter time.Time) ([]entity.Signal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open, nil
}

func (f *fakeSignalRepo) FindRecent(ctx context.Context, limit int) ([]entity.Signal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Signal, 0, len(f.signals))
	for _, signal := range f.signals {
		out = append(out, *signal)
	}
	return out, nil
}

func (f *fakeSignalRepo) GetByAddress(ctx context.Context, address string) (*entity.Signal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	signal, ok := f.signals[address]
	if !ok {
		return nil, nil
	}
	cp := *signal
	return &cp, nil
}

func (f *fakeSignalRepo) RaiseMilestone(ctx context.Context, address string, milestone float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if signal, ok := f.signals[address]; ok && milestone > signal.MaxMilestone {
		signal.MaxMilestone = milestone
	}
	return nil
}

func (f *fakeSignalRepo) RaisePeakGain(ctx context.Context, address string, peakGainPct float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.peakCalls++
	if signal, ok := f.signals[address]; ok && peakGainPct > signal.PeakGainPct {
		signal.PeakGainPct = peakGainPct
	}
	return nil
}

func (f *fakeSignalRepo) CloseOutcome(ctx context.Context, address string, outcome entity.SignalOutcome, finalPriceUSD, finalGainPct, peakGainPct float64, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	if f.closeErr != nil {
		return false, f.closeErr
	}
	signal, ok := f.signals[address]
	if !ok || signal.Outcome != nil {
		return false, nil
	}
	now := time.Now()
	signal.Outcome = &outcome
	signal.OutcomeReason = reason
	signal.FinalPriceUSD = &finalPriceUSD
	signal.FinalGainPct = &finalGainPct
	signal.PeakGainPct = peakGainPct
	signal.ClosedAt = &now
	return true, nil
}

func (f *fakeSignalRepo) GetOutcomeStats(ctx context.Context, since time.Time) (*dto.OutcomeStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &dto.OutcomeStats{}
	for _, signal := range f.signals {
		stats.Published++
		if signal.Outcome == nil {
			stats.Open++
		}
	}
	return stats, nil
}

func (f *fakeSignalRepo) get(address string) *entity.Signal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signals[address]
}

func (f *fakeSignalRepo) put(signal entity.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals[signal.Address] = &signal
}

// fakeRateWindow admits the first limit calls and refuses the rest, a
// degenerate sliding window that never slides.
type fakeRateWindow struct {
	mu   sync.Mutex
	err  error
	used int
}

func (f *fakeRateWindow) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.used >= limit {
		return false, nil
	}
	f.used++
	return true, nil
}

type fakeAlertCache struct {
	mu     sync.Mutex
	err    error
	tries  int
	marked map[string]bool
}

func newFakeAlertCache() *fakeAlertCache {
	return &fakeAlertCache{marked: make(map[string]bool)}
}

func (f *fakeAlertCache) TryMark(ctx context.Context, address, kind string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tries++
	if f.err != nil {
		return false, f.err
	}
	key := address + ":" + kind
	if f.marked[key] {
		return false, nil
	}
	f.marked[key] = true
	return true, nil
}

func (f *fakeAlertCache) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeAlertCache) premark(address, kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked[address+":"+kind] = true
}

type fakeTracker struct {
	mu      sync.Mutex
	tracked []*entity.Signal
}

func (f *fakeTracker) Track(signal *entity.Signal, metrics dto.TokenMetrics) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracked = append(f.tracked, signal)
}

func (f *fakeTracker) Restore(ctx context.Context) error { return nil }

func (f *fakeTracker) Sweep(ctx context.Context) {}

func (f *fakeTracker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tracked)
}
