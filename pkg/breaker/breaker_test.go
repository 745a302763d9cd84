package breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/pkg/breaker"
)

func TestCircuitBreaker_Call(t *testing.T) {
	ok := func() error { return nil }
	fail := func() error { return errors.New("broker down") }

	cb := breaker.New(10, 50*time.Millisecond, 0.5, 3)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(ok))
	}

	// push failure share over the percentile: breaker opens
	for i := 0; i < 5; i++ {
		require.Error(t, cb.Call(fail))
	}
	require.ErrorIs(t, cb.Call(ok), breaker.ErrOpen)

	// after the timeout the breaker half-opens and recovers on successes
	time.Sleep(60 * time.Millisecond)
	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(ok))
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	fail := func() error { return errors.New("broker down") }

	cb := breaker.New(4, 20*time.Millisecond, 0.5, 2)
	for i := 0; i < 4; i++ {
		_ = cb.Call(fail)
	}
	require.ErrorIs(t, cb.Call(fail), breaker.ErrOpen)

	time.Sleep(30 * time.Millisecond)

	// half-open probe fails: back to open without waiting for the buffer
	require.Error(t, cb.Call(fail))
	require.ErrorIs(t, cb.Call(fail), breaker.ErrOpen)
}
