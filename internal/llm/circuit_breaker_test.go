package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerPassesThrough(t *testing.T) {
	cb := NewCircuitBreaker("test")

	got, err := cb.Execute(context.Background(), func() (string, error) {
		return "fine", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fine", got)
	assert.Equal(t, "closed", cb.State())
}

func TestCircuitBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreakerWithConfig("test", CircuitBreakerConfig{
		MaxFailures:          3,
		Timeout:              time.Minute,
		HalfOpenMaxSuccesses: 1,
	})

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		_, err := cb.Execute(context.Background(), func() (string, error) {
			return "", boom
		})
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", cb.State())

	_, err := cb.Execute(context.Background(), func() (string, error) {
		t.Fatal("must not be called while open")
		return "", nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerRecoversAfterTimeout(t *testing.T) {
	cb := NewCircuitBreakerWithConfig("test", CircuitBreakerConfig{
		MaxFailures:          1,
		Timeout:              20 * time.Millisecond,
		HalfOpenMaxSuccesses: 1,
	})

	_, _ = cb.Execute(context.Background(), func() (string, error) {
		return "", errors.New("boom")
	})
	require.Equal(t, "open", cb.State())

	time.Sleep(40 * time.Millisecond)

	got, err := cb.Execute(context.Background(), func() (string, error) {
		return "back", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "back", got)
	assert.Equal(t, "closed", cb.State())
}

func TestCircuitBreakerHonorsCancelledContext(t *testing.T) {
	cb := NewCircuitBreaker("test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cb.Execute(ctx, func() (string, error) {
		return "ignored", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
