package breaker

import (
	"errors"
	"sync"
	"time"
)

type state uint8

const (
	closed state = iota + 1
	open
	halfOpen
)

var ErrOpen = errors.New("circuit breaker is open")

type CircuitBreaker interface {
	Call(fn func() error) error
	Reset()
}

// New builds a breaker that opens once the failure share over the last
// recordLength calls reaches percentile, and closes again after
// recoveryRequests consecutive successes in half-open state.
func New(recordLength int, timeout time.Duration, percentile float64, recoveryRequests int) CircuitBreaker {
	return &circuitBreaker{
		state:            closed,
		recordLength:     recordLength,
		timeout:          timeout,
		percentile:       percentile,
		buffer:           make([]bool, recordLength),
		recoveryRequests: recoveryRequests,
	}
}

type circuitBreaker struct {
	mu    sync.Mutex
	state state

	recordLength int
	timeout      time.Duration
	percentile   float64

	lastAttemptedAt  time.Time
	buffer           []bool
	pos              int
	recoveryRequests int
	successCount     int
}

func (cb *circuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == open {
		if time.Since(cb.lastAttemptedAt) <= cb.timeout {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.state = halfOpen
		cb.successCount = 0
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.buffer[cb.pos] = err != nil
	cb.pos = (cb.pos + 1) % cb.recordLength

	if cb.state == halfOpen {
		if err != nil {
			cb.successCount = 0
			cb.state = open
			cb.lastAttemptedAt = time.Now()
		} else {
			cb.successCount++
			if cb.successCount > cb.recoveryRequests {
				cb.Reset()
			}
		}
		return err
	}

	fails := 0
	for _, failed := range cb.buffer {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(cb.recordLength) >= cb.percentile {
		cb.state = open
		cb.successCount = 0
		cb.lastAttemptedAt = time.Now()
	}

	return err
}

func (cb *circuitBreaker) Reset() {
	for i := range cb.buffer {
		cb.buffer[i] = false
	}
	cb.successCount = 0
	cb.pos = 0
	cb.state = closed
}
