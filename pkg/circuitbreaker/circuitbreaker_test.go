package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errGateway = errors.New("gateway 503")
	errDecline = errors.New("card declined")
)

func newTestBreaker(onChange func(string, State, State)) *CircuitBreaker {
	return NewCircuitBreaker("payment-gateway", Config{
		Threshold: 3,
		Window:    time.Minute,
		Cooldown:  50 * time.Millisecond,
		IsFailure: func(err error) bool {
			return err != nil && !errors.Is(err, errDecline)
		},
		OnStateChange: onChange,
	})
}

func returning(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Do(ctx, returning(errGateway)), errGateway)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Do(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断时不应调用下游")
}

func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(nil)
	ctx := context.Background()

	_ = cb.Do(ctx, returning(errGateway))
	_ = cb.Do(ctx, returning(errGateway))
	require.NoError(t, cb.Do(ctx, returning(nil)))
	_ = cb.Do(ctx, returning(errGateway))

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Stats().ConsecutiveFailures)
}

func TestCircuitBreaker_BusinessRejectionDoesNotTrip(t *testing.T) {
	cb := newTestBreaker(nil)

	for i := 0; i < 10; i++ {
		assert.ErrorIs(t, cb.Do(context.Background(), returning(errDecline)), errDecline)
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Stats().Successes)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	var mu sync.Mutex
	var transitions []string
	cb := newTestBreaker(func(_ string, from, to State) {
		mu.Lock()
		defer mu.Unlock()
		transitions = append(transitions, from.String()+"->"+to.String())
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = cb.Do(ctx, returning(errGateway))
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Do(ctx, returning(nil)))
	assert.Equal(t, StateClosed, cb.State())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker(nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = cb.Do(ctx, returning(errGateway))
	}
	time.Sleep(60 * time.Millisecond)

	_ = cb.Do(ctx, returning(errGateway))
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_CancelledContext(t *testing.T) {
	cb := newTestBreaker(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cb.Do(ctx, func(context.Context) error {
		t.Fatal("ctx已取消时不应调用")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(0), cb.Stats().Requests)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "HALF_OPEN", StateHalfOpen.String())
	assert.Equal(t, "UNKNOWN", State(9).String())
}
