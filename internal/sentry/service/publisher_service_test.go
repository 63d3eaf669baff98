package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPublisherFixture(t *testing.T, hourlyCap int, cooldown time.Duration) (PublisherService, *fakeRateWindow, *fakeSignalRepo, *fakeNotifier) {
	t.Helper()
	cfg := testConfig()
	cfg.Publisher.HourlyCap = hourlyCap
	cfg.Publisher.Cooldown = cooldown

	window := &fakeRateWindow{}
	signals := newFakeSignalRepo()
	notifier := &fakeNotifier{}
	svc := NewPublisherService(cfg, testLogger(t), window, signals, notifier)
	return svc, window, signals, notifier
}

func TestPublish_SendsAndPersists(t *testing.T) {
	svc, _, signals, notifier := newPublisherFixture(t, 5, 0)
	metrics := strongMetrics()
	conviction := makeConviction(87.5, "liquidity 5.0x the floor (+25)")

	signal, err := svc.Publish(context.Background(), testCandidate(mintA), metrics, conviction)

	require.NoError(t, err)
	require.NotNil(t, signal)
	assert.Equal(t, mintA, signal.Address)
	assert.Equal(t, 87.5, signal.Score)
	assert.Equal(t, 1, signal.TelegramMessageID)
	assert.Equal(t, metrics.PriceUSD, signal.PriceUSD)
	assert.False(t, signal.PublishedAt.IsZero())

	stored := signals.get(mintA)
	require.NotNil(t, stored)
	assert.JSONEq(t, `["liquidity 5.0x the floor (+25)"]`, string(stored.Reasons))

	messages := notifier.messages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].text, "PEPE")
}

func TestPublish_HourlyCapRefusesOverflow(t *testing.T) {
	svc, _, _, notifier := newPublisherFixture(t, 2, 0)

	published := 0
	capped := 0
	for i := 0; i < 5; i++ {
		address := fmt.Sprintf("%s%d", mintA[:len(mintA)-1], i)
		_, err := svc.Publish(context.Background(), testCandidate(address), strongMetrics(), makeConviction(90))
		switch {
		case err == nil:
			published++
		case errors.Is(err, ErrHourlyCapReached):
			capped++
		default:
			t.Fatalf("unexpected publish error: %v", err)
		}
	}

	assert.Equal(t, 2, published)
	assert.Equal(t, 3, capped)
	assert.Len(t, notifier.messages(), 2)
}

func TestPublish_TelegramFailureSkipsPersist(t *testing.T) {
	svc, _, signals, notifier := newPublisherFixture(t, 5, 0)
	notifier.fail = errors.New("telegram unreachable")

	signal, err := svc.Publish(context.Background(), testCandidate(mintA), strongMetrics(), makeConviction(90))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send signal message")
	assert.Nil(t, signal)
	assert.Nil(t, signals.get(mintA))
}

func TestPublish_WindowErrorPropagates(t *testing.T) {
	svc, window, _, notifier := newPublisherFixture(t, 5, 0)
	window.err = errors.New("redis down")

	_, err := svc.Publish(context.Background(), testCandidate(mintA), strongMetrics(), makeConviction(90))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish window")
	assert.Empty(t, notifier.messages())
}

func TestPublish_PersistFailureReturnsError(t *testing.T) {
	svc, _, signals, _ := newPublisherFixture(t, 5, 0)
	signals.createErr = errors.New("database unavailable")

	_, err := svc.Publish(context.Background(), testCandidate(mintA), strongMetrics(), makeConviction(90))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist published signal")
}

func TestPublish_CooldownSpacesConsecutiveSends(t *testing.T) {
	svc, _, _, _ := newPublisherFixture(t, 10, 60*time.Millisecond)

	start := time.Now()
	_, err := svc.Publish(context.Background(), testCandidate(mintA), strongMetrics(), makeConviction(90))
	require.NoError(t, err)
	_, err = svc.Publish(context.Background(), testCandidate(mintB), strongMetrics(), makeConviction(90))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
