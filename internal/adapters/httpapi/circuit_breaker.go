package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// CircuitClosed allows all requests
	CircuitClosed CircuitState = iota
	// CircuitOpen blocks all requests
	CircuitOpen
	// CircuitHalfOpen lets one request through to probe the service
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// ErrCircuitOpen is returned while a service is considered down
var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitBreaker stops calling a service after maxFailures consecutive failed
// calls until timeout has passed.
type CircuitBreaker struct {
	maxFailures     int
	timeout         time.Duration
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time
	mu              sync.RWMutex
	clock           shared.Clock
}

// NewCircuitBreaker creates a closed breaker. If clock is nil, uses RealClock.
func NewCircuitBreaker(maxFailures int, timeout time.Duration, clock shared.Clock) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		timeout:     timeout,
		state:       CircuitClosed,
		clock:       clock,
	}
}

// Call runs fn unless the circuit is open. Errors for which countable returns
// false do not trip the breaker.
func (cb *CircuitBreaker) Call(fn func() error, countable func(error) bool) error {
	cb.mu.Lock()
	if cb.state == CircuitOpen {
		if cb.clock.Now().Sub(cb.lastFailureTime) < cb.timeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = CircuitHalfOpen
	}
	cb.mu.Unlock()

	// fn runs without the lock so retries and sleeps do not block other callers
	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil && (countable == nil || countable(err)) {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return err
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailureTime = cb.clock.Now()

	if cb.state == CircuitHalfOpen || cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.failureCount = 0
	cb.state = CircuitClosed
}

// State returns the current circuit state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// FailureCount returns the current consecutive failure count
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failureCount
}

// Reset closes the circuit
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = CircuitClosed
	cb.failureCount = 0
}
