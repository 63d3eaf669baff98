package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Delay(t *testing.T) {
	p := Policy{Initial: 1 * time.Second, Max: 10 * time.Second, Multiplier: 2}

	assert.Equal(t, 1*time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
	assert.Equal(t, 8*time.Second, p.Delay(3))
	assert.Equal(t, 10*time.Second, p.Delay(4))
	assert.Equal(t, 10*time.Second, p.Delay(20))
}

func TestPolicy_Delay_NegativeAttempt(t *testing.T) {
	p := Policy{Initial: 1 * time.Second, Max: 10 * time.Second, Multiplier: 2}

	assert.Equal(t, 1*time.Second, p.Delay(-3))
}

func TestPolicy_Sleep_ContextCancelled(t *testing.T) {
	p := Policy{Initial: 10 * time.Second, Max: 30 * time.Second, Multiplier: 2}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Sleep(ctx, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolicy_Sleep_CompletesForShortDelay(t *testing.T) {
	p := Policy{Initial: 1 * time.Millisecond, Max: 5 * time.Millisecond, Multiplier: 2}

	err := p.Sleep(context.Background(), 0)
	require.NoError(t, err)
}
