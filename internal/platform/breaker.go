package platform

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when remote reads fail fast after repeated failures.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the current state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed indicates calls pass through normally.
	CircuitClosed CircuitState = iota
	// CircuitOpen indicates calls are rejected without being attempted.
	CircuitOpen
	// CircuitHalfOpen indicates a single trial call is allowed through.
	CircuitHalfOpen
)

// String returns the string representation of the circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// circuitBreaker stops issuing remote commands to a host that keeps failing,
// so a dead connection surfaces as an immediate error instead of a timeout
// per metric.
type circuitBreaker struct {
	threshold int
	timeout   time.Duration
	now       func() time.Time

	mu          sync.Mutex
	state       CircuitState
	failures    int
	lastFailure time.Time
	trialActive bool
}

func newCircuitBreaker(threshold int, timeout time.Duration) *circuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &circuitBreaker{
		threshold: threshold,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Execute runs fn unless the circuit is open.
func (cb *circuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	cb.record(err)
	return err
}

// State returns the current state of the circuit breaker.
func (cb *circuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailure) >= cb.timeout {
		return CircuitHalfOpen
	}
	return cb.state
}

func (cb *circuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailure) < cb.timeout {
			return false
		}
		cb.state = CircuitHalfOpen
		cb.trialActive = true
		return true
	default:
		if cb.trialActive {
			return false
		}
		cb.trialActive = true
		return true
	}
}

func (cb *circuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.trialActive = false
	if err == nil {
		cb.state = CircuitClosed
		cb.failures = 0
		return
	}

	cb.failures++
	cb.lastFailure = cb.now()
	if cb.state == CircuitHalfOpen || cb.failures >= cb.threshold {
		cb.state = CircuitOpen
	}
}
