package platform

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCircuitBreaker_Transitions(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	cb := newCircuitBreaker(2, 10*time.Second)
	cb.now = clock.now

	errBoom := errors.New("boom")
	fail := func() error { return errBoom }
	ok := func() error { return nil }

	if err := cb.Execute(fail); !errors.Is(err, errBoom) {
		t.Fatalf("Execute() error = %v, want boom", err)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("State() after 1 failure = %v, want closed", cb.State())
	}

	_ = cb.Execute(fail)
	if cb.State() != CircuitOpen {
		t.Fatalf("State() after threshold = %v, want open", cb.State())
	}

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Errorf("Execute() while open = %v, called %v, want ErrCircuitOpen without call", err, called)
	}

	clock.advance(10 * time.Second)
	if cb.State() != CircuitHalfOpen {
		t.Errorf("State() after timeout = %v, want half-open", cb.State())
	}

	// A failed trial reopens the circuit immediately.
	_ = cb.Execute(fail)
	if cb.State() != CircuitOpen {
		t.Errorf("State() after failed trial = %v, want open", cb.State())
	}

	clock.advance(10 * time.Second)
	if err := cb.Execute(ok); err != nil {
		t.Fatalf("Execute() trial error = %v", err)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("State() after successful trial = %v, want closed", cb.State())
	}
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := newCircuitBreaker(0, 0)
	if cb.threshold != 3 || cb.timeout != 30*time.Second {
		t.Errorf("defaults = %d, %v, want 3, 30s", cb.threshold, cb.timeout)
	}
}

func TestCircuitState_String(t *testing.T) {
	tests := map[CircuitState]string{
		CircuitClosed:    "closed",
		CircuitOpen:      "open",
		CircuitHalfOpen:  "half-open",
		CircuitState(42): "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("CircuitState(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
