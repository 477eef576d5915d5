package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail(context.Context) (string, error) { return "", errBoom }
func succeed(context.Context) (string, error) { return "ok", nil }

func newTestBreaker(threshold int, cooldown time.Duration) (*CircuitBreaker, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("test", threshold, cooldown)
	cb.now = func() time.Time { return now }
	return cb, &now
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb, _ := newTestBreaker(3, time.Minute)

	for range 3 {
		_, err := Call(context.Background(), cb, fail)
		require.ErrorIs(t, err, errBoom)
	}
	assert.Equal(t, CircuitOpen, cb.State())

	_, err := Call(context.Background(), cb, succeed)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb, _ := newTestBreaker(2, time.Minute)

	_, _ = Call(context.Background(), cb, fail)
	_, err := Call(context.Background(), cb, succeed)
	require.NoError(t, err)
	_, _ = Call(context.Background(), cb, fail)

	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	cb, now := newTestBreaker(1, time.Minute)

	_, _ = Call(context.Background(), cb, fail)
	assert.Equal(t, CircuitOpen, cb.State())

	*now = now.Add(time.Minute)
	assert.Equal(t, CircuitHalfOpen, cb.State())

	got, err := Call(context.Background(), cb, succeed)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, now := newTestBreaker(2, time.Minute)

	_, _ = Call(context.Background(), cb, fail)
	_, _ = Call(context.Background(), cb, fail)
	*now = now.Add(2 * time.Minute)

	_, err := Call(context.Background(), cb, fail)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, CircuitOpen, cb.State())

	_, err = Call(context.Background(), cb, succeed)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker("x", 0, 0)
	assert.Equal(t, 5, cb.threshold)
	assert.Equal(t, 30*time.Second, cb.cooldown)
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb := NewCircuitBreaker("x", 1000, time.Minute)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = Call(context.Background(), cb, fail)
			} else {
				_, _ = Call(context.Background(), cb, succeed)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", CircuitClosed.String())
	assert.Equal(t, "open", CircuitOpen.String())
	assert.Equal(t, "half-open", CircuitHalfOpen.String())
	assert.Equal(t, "unknown", CircuitState(9).String())
}
