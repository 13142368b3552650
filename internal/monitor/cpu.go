package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-systemkit/internal/platform"
)

// DefaultWarmup is how long the first sample waits for the tick counters to
// advance before computing a delta.
const DefaultWarmup = time.Second

// TickSource provides cumulative CPU tick counters.
// platform.CPUProvider satisfies this interface.
type TickSource interface {
	Ticks() (platform.TickSnapshot, error)
}

// CPUUsage is the share of elapsed ticks spent in each CPU state, in percent.
// The four values sum to 100 within floating point error, or are all zero
// when no ticks elapsed between the two snapshots.
type CPUUsage struct {
	System float64
	User   float64
	Idle   float64
	Nice   float64
}

// Busy returns the non-idle share.
func (u CPUUsage) Busy() float64 {
	return u.System + u.User + u.Nice
}

// SamplerState is the lifecycle state of a CPUSampler.
type SamplerState int32

const (
	// StateUninitialized means no baseline snapshot has been retained yet.
	StateUninitialized SamplerState = iota
	// StateWarming means the first sample is waiting for counters to advance.
	StateWarming
	// StateReady means a baseline exists and samples return immediately.
	StateReady
)

// String returns the string representation of the sampler state.
func (s SamplerState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateWarming:
		return "warming"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// CPUSampler computes CPU usage from the difference between two tick snapshots.
// It retains the most recent successful snapshot as the baseline for the
// next call. A CPUSampler is safe for concurrent use; samples are serialized
// and a caller waiting for its turn still honors its context.
type CPUSampler struct {
	src    TickSource
	warmup time.Duration
	sleep  func(context.Context, time.Duration) error

	state atomic.Int32

	// sem holds one token while a sample is in progress.
	sem chan struct{}

	mu   sync.Mutex // guards prev; never held across a Ticks call
	prev platform.TickSnapshot
}

// CPUSamplerOption configures a CPUSampler.
type CPUSamplerOption func(*CPUSampler)

// WithWarmup sets the first-call wait. Non-positive values keep the default.
func WithWarmup(d time.Duration) CPUSamplerOption {
	return func(s *CPUSampler) {
		if d > 0 {
			s.warmup = d
		}
	}
}

// WithPrevious seeds the baseline snapshot so the first sample does not block.
func WithPrevious(prev platform.TickSnapshot) CPUSamplerOption {
	return func(s *CPUSampler) {
		s.prev = prev
		s.state.Store(int32(StateReady))
	}
}

// WithSleep replaces the warm-up wait.
func WithSleep(sleep func(context.Context, time.Duration) error) CPUSamplerOption {
	return func(s *CPUSampler) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// NewCPUSampler creates a sampler reading ticks from src.
func NewCPUSampler(src TickSource, opts ...CPUSamplerOption) *CPUSampler {
	s := &CPUSampler{
		src:    src,
		warmup: DefaultWarmup,
		sleep:  sleepContext,
		sem:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state without waiting for an
// in-progress warm-up.
func (s *CPUSampler) State() SamplerState {
	return SamplerState(s.state.Load())
}

// Previous returns the retained baseline snapshot.
func (s *CPUSampler) Previous() (platform.TickSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prev, s.State() == StateReady
}

func (s *CPUSampler) setPrevious(snap platform.TickSnapshot) {
	s.mu.Lock()
	s.prev = snap
	s.mu.Unlock()
}

// Sample returns CPU usage since the previous call.
// The first call on a new sampler blocks for the warm-up interval.
func (s *CPUSampler) Sample() (CPUUsage, error) {
	return s.SampleContext(context.Background())
}

// SampleContext is Sample with a cancellable warm-up.
// A failed read returns a ComponentError and leaves the baseline unchanged.
// If another sample is still in progress, for example one stuck in a hung
// host read, SampleContext waits for it only until ctx is done.
func (s *CPUSampler) SampleContext(ctx context.Context) (CPUUsage, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return CPUUsage{}, ctx.Err()
	}
	defer func() { <-s.sem }()

	if s.State() != StateReady {
		first, err := s.src.Ticks()
		if err != nil {
			return CPUUsage{}, NewComponentError(ErrorSourceCPU, err)
		}
		s.state.Store(int32(StateWarming))
		s.setPrevious(first)
		err = s.sleep(ctx, s.warmup)
		s.state.Store(int32(StateReady))
		if err != nil {
			return CPUUsage{}, err
		}
	}

	curr, err := s.src.Ticks()
	if err != nil {
		return CPUUsage{}, NewComponentError(ErrorSourceCPU, err)
	}

	prev, _ := s.Previous()
	s.setPrevious(curr)
	return ComputeUsage(prev, curr), nil
}

// ComputeUsage returns the percentage of elapsed ticks per state between two
// snapshots. A counter that went backwards contributes zero.
func ComputeUsage(prev, curr platform.TickSnapshot) CPUUsage {
	system := tickDelta(prev.System, curr.System)
	user := tickDelta(prev.User, curr.User)
	idle := tickDelta(prev.Idle, curr.Idle)
	nice := tickDelta(prev.Nice, curr.Nice)

	total := system + user + idle + nice
	if total == 0 {
		return CPUUsage{}
	}
	return CPUUsage{
		System: system / total * 100,
		User:   user / total * 100,
		Idle:   idle / total * 100,
		Nice:   nice / total * 100,
	}
}

func tickDelta(prev, curr uint64) float64 {
	if curr < prev {
		return 0
	}
	return float64(curr - prev)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
