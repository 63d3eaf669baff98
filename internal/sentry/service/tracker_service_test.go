package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-token-sentry/internal/entity"
	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/repository"
)

func newTrackerFixture(t *testing.T, cfg *config.Config) (*trackerService, *fakeMarketData, *fakeSignalRepo, *fakeAlertCache, *fakeNotifier) {
	t.Helper()
	market := newFakeMarketData()
	signals := newFakeSignalRepo()
	alerts := newFakeAlertCache()
	notifier := &fakeNotifier{}
	svc := NewTrackerService(cfg, testLogger(t), market, signals, alerts, notifier)
	return svc.(*trackerService), market, signals, alerts, notifier
}

func baselineMetrics() dto.TokenMetrics {
	return dto.TokenMetrics{PriceUSD: 1.0, LiquidityUSD: 50000, Volume24hUSD: 100000}
}

func movedMetrics(price, liquidity, volume float64) dto.TokenMetrics {
	return dto.TokenMetrics{PriceUSD: price, LiquidityUSD: liquidity, Volume24hUSD: volume}
}

// trackSignal registers a published signal with the tracker and seeds the
// matching row in the fake repo.
func trackSignal(tr *trackerService, signals *fakeSignalRepo, address string, publishedAt time.Time, initial dto.TokenMetrics) *entity.Signal {
	signal := &entity.Signal{
		Address:           address,
		Symbol:            "PEPE",
		Name:              "Pepe Classic",
		Score:             90,
		PriceUSD:          initial.PriceUSD,
		LiquidityUSD:      initial.LiquidityUSD,
		Volume24hUSD:      initial.Volume24hUSD,
		TelegramMessageID: 42,
		PublishedAt:       publishedAt,
	}
	signals.put(*signal)
	tr.Track(signal, initial)
	return signal
}

func TestSweep_RugCollapseFiresEachAlertOnce(t *testing.T) {
	tr, market, signals, _, notifier := newTrackerFixture(t, testConfig())
	trackSignal(tr, signals, mintA, time.Now(), baselineMetrics())

	// Liquidity -65%, volume -55%, price -35%: the compound rug warning
	// plus the two individual drops, but not the -50% price drop.
	market.setPair(mintA, movedMetrics(0.65, 17500, 45000))

	ctx := context.Background()
	tr.Sweep(ctx)
	tr.Sweep(ctx)
	tr.Sweep(ctx)

	assert.Equal(t, 1, notifier.countContaining("RUG WARNING"))
	assert.Equal(t, 1, notifier.countContaining("LIQUIDITY_DROP"))
	assert.Equal(t, 1, notifier.countContaining("VOLUME_DROP"))
	assert.Equal(t, 0, notifier.countContaining("PRICE_DROP"))

	messages := notifier.messages()
	require.Len(t, messages, 3)
	for _, m := range messages {
		assert.Equal(t, 42, m.replyTo)
	}

	// No terminal outcome: the signal keeps being swept.
	assert.Nil(t, signals.get(mintA).Outcome)
	assert.Equal(t, 3, market.callCount())
}

func TestSweep_AlertMarkedByAnotherInstanceIsNotReposted(t *testing.T) {
	tr, market, signals, alerts, notifier := newTrackerFixture(t, testConfig())
	trackSignal(tr, signals, mintA, time.Now(), baselineMetrics())
	market.setPair(mintA, movedMetrics(0.65, 17500, 45000))

	alerts.premark(mintA, string(dto.AlertLiquidityDrop))

	tr.Sweep(context.Background())

	assert.Equal(t, 0, notifier.countContaining("LIQUIDITY_DROP"))
	assert.Equal(t, 1, notifier.countContaining("RUG WARNING"))
	assert.Equal(t, 1, notifier.countContaining("VOLUME_DROP"))
}

func TestSweep_MarkerErrorDefersAlertToNextSweep(t *testing.T) {
	tr, market, signals, alerts, notifier := newTrackerFixture(t, testConfig())
	trackSignal(tr, signals, mintA, time.Now(), baselineMetrics())
	market.setPair(mintA, movedMetrics(0.65, 17500, 45000))

	alerts.setErr(errors.New("redis down"))
	tr.Sweep(context.Background())
	assert.Empty(t, notifier.messages())

	alerts.setErr(nil)
	tr.Sweep(context.Background())
	assert.Len(t, notifier.messages(), 3)
}

func TestSweep_MilestoneRunClosesWin(t *testing.T) {
	tr, market, signals, _, notifier := newTrackerFixture(t, testConfig())
	trackSignal(tr, signals, mintA, time.Now(), baselineMetrics())

	// 6.2x in one sweep crosses the 2x, 3x and 5x levels together.
	market.setPair(mintA, movedMetrics(6.2, 80000, 150000))

	tr.Sweep(context.Background())

	assert.Equal(t, 1, notifier.countContaining("hit 2x"))
	assert.Equal(t, 1, notifier.countContaining("hit 3x"))
	assert.Equal(t, 1, notifier.countContaining("PRICE_SPIKE"))
	assert.Equal(t, 1, notifier.countContaining("WIN | $PEPE"))

	stored := signals.get(mintA)
	require.NotNil(t, stored.Outcome)
	assert.Equal(t, entity.SignalOutcomeWin, *stored.Outcome)
	assert.Equal(t, 5.0, stored.MaxMilestone)
	require.NotNil(t, stored.FinalGainPct)
	assert.InDelta(t, 520.0, *stored.FinalGainPct, 0.001)
	assert.InDelta(t, 520.0, stored.PeakGainPct, 0.001)

	// Terminal signals leave the snapshot map, so the next sweep does not
	// fetch market data again.
	fetched := market.callCount()
	tr.Sweep(context.Background())
	assert.Equal(t, fetched, market.callCount())
}

func TestSweep_PeakGainOnlyRises(t *testing.T) {
	tr, market, signals, _, _ := newTrackerFixture(t, testConfig())
	trackSignal(tr, signals, mintA, time.Now(), baselineMetrics())

	market.setPair(mintA, movedMetrics(1.8, 50000, 100000))
	tr.Sweep(context.Background())
	assert.Equal(t, 1, signals.peakCalls)
	assert.InDelta(t, 80.0, signals.get(mintA).PeakGainPct, 0.001)

	market.setPair(mintA, movedMetrics(1.3, 50000, 100000))
	tr.Sweep(context.Background())
	assert.Equal(t, 1, signals.peakCalls)
	assert.InDelta(t, 80.0, signals.get(mintA).PeakGainPct, 0.001)
}

func TestSweep_WindowExpirySettlesLossFromLastPrice(t *testing.T) {
	cfg := testConfig()
	cfg.Tracker.Window = 500 * time.Millisecond

	tr, market, signals, _, notifier := newTrackerFixture(t, cfg)
	trackSignal(tr, signals, mintA, time.Now(), baselineMetrics())
	market.setPair(mintA, movedMetrics(0.7, 50000, 100000))

	// Inside the window: the sweep records the freshest price.
	tr.Sweep(context.Background())
	assert.Empty(t, notifier.messages())

	time.Sleep(600 * time.Millisecond)
	tr.Sweep(context.Background())

	stored := signals.get(mintA)
	require.NotNil(t, stored.Outcome)
	assert.Equal(t, entity.SignalOutcomeLoss, *stored.Outcome)
	require.NotNil(t, stored.FinalGainPct)
	assert.InDelta(t, -30.0, *stored.FinalGainPct, 0.001)
	require.NotNil(t, stored.FinalPriceUSD)
	assert.InDelta(t, 0.7, *stored.FinalPriceUSD, 0.001)
	assert.Equal(t, 1, notifier.countContaining("LOSS | $PEPE"))

	// Settling never needs another market fetch.
	assert.Equal(t, 1, market.callCount())
}

func TestSweep_WindowExpiryWithoutLossSettlesExpired(t *testing.T) {
	tr, market, signals, _, notifier := newTrackerFixture(t, testConfig())
	published := time.Now().Add(-49 * time.Hour)
	trackSignal(tr, signals, mintA, published, baselineMetrics())

	tr.Sweep(context.Background())

	stored := signals.get(mintA)
	require.NotNil(t, stored.Outcome)
	assert.Equal(t, entity.SignalOutcomeExpired, *stored.Outcome)
	assert.Equal(t, 1, notifier.countContaining("EXPIRED | $PEPE"))
	assert.Zero(t, market.callCount())
}

func TestSweep_FetchFailureKeepsSnapshotAlive(t *testing.T) {
	tr, market, signals, _, notifier := newTrackerFixture(t, testConfig())
	trackSignal(tr, signals, mintA, time.Now(), baselineMetrics())

	market.setErr(repository.ErrRateLimited)
	tr.Sweep(context.Background())
	tr.Sweep(context.Background())

	assert.Empty(t, notifier.messages())
	assert.Zero(t, signals.closeCalls)

	market.setErr(nil)
	market.setPair(mintA, movedMetrics(2.5, 50000, 100000))
	tr.Sweep(context.Background())

	stored := signals.get(mintA)
	require.NotNil(t, stored.Outcome)
	assert.Equal(t, entity.SignalOutcomeWin, *stored.Outcome)
}

func TestRestore_RebuildsSnapshotsAndHonorsStoredMilestone(t *testing.T) {
	tr, market, signals, _, notifier := newTrackerFixture(t, testConfig())

	// Row A already posted its 2x before the restart; row B is fresh.
	rowA := entity.Signal{
		Address:           mintA,
		Symbol:            "PEPE",
		PriceUSD:          1.0,
		LiquidityUSD:      50000,
		Volume24hUSD:      100000,
		TelegramMessageID: 42,
		MaxMilestone:      2,
		PeakGainPct:       150,
		PublishedAt:       time.Now().Add(-time.Hour),
	}
	rowB := entity.Signal{
		Address:           mintB,
		Symbol:            "WAG",
		PriceUSD:          1.0,
		LiquidityUSD:      30000,
		Volume24hUSD:      40000,
		TelegramMessageID: 43,
		PublishedAt:       time.Now().Add(-time.Hour),
	}
	signals.put(rowA)
	signals.put(rowB)
	signals.open = []entity.Signal{rowA, rowB}

	require.NoError(t, tr.Restore(context.Background()))

	market.setPair(mintA, movedMetrics(2.1, 50000, 100000))
	market.setPair(mintB, movedMetrics(2.5, 30000, 40000))
	tr.Sweep(context.Background())

	// A crossed 2x before the crash, so no repeated milestone post, just
	// the overdue WIN. B runs the normal path.
	assert.Equal(t, 1, notifier.countContaining("hit 2x* 🏆"))
	assert.Equal(t, 2, notifier.countContaining("WIN | $"))

	storedA := signals.get(mintA)
	require.NotNil(t, storedA.Outcome)
	assert.Equal(t, entity.SignalOutcomeWin, *storedA.Outcome)
	assert.Equal(t, 2.0, storedA.MaxMilestone)

	storedB := signals.get(mintB)
	require.NotNil(t, storedB.Outcome)
	assert.Equal(t, 2.0, storedB.MaxMilestone)

	// A's restored peak of 150% already exceeds the +110% sweep, so only
	// B persists a new peak.
	assert.Equal(t, 1, signals.peakCalls)
	assert.Empty(t, tr.tracked)
}

func TestSweep_AlreadyClosedRowIsDroppedQuietly(t *testing.T) {
	tr, market, signals, _, notifier := newTrackerFixture(t, testConfig())

	won := entity.SignalOutcomeWin
	row := entity.Signal{
		Address:           mintA,
		Symbol:            "PEPE",
		PriceUSD:          1.0,
		TelegramMessageID: 42,
		MaxMilestone:      2,
		Outcome:           &won,
		PublishedAt:       time.Now().Add(-time.Hour),
	}
	signals.put(row)
	signals.open = []entity.Signal{row}

	require.NoError(t, tr.Restore(context.Background()))
	market.setPair(mintA, movedMetrics(2.5, 50000, 100000))
	tr.Sweep(context.Background())

	// CloseOutcome is write-once, so no second verdict is posted.
	assert.Equal(t, 0, notifier.countContaining("WIN | $"))
	assert.Equal(t, 1, signals.closeCalls)
	assert.Empty(t, tr.tracked)
}
