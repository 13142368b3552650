package monitor

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/opd-ai/go-systemkit/internal/platform"
)

// tickSeq returns a fixed sequence of snapshots, repeating the last one.
type tickSeq struct {
	mu    sync.Mutex
	snaps []platform.TickSnapshot
	errs  []error
	calls int
}

func (s *tickSeq) Ticks() (platform.TickSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return platform.TickSnapshot{}, s.errs[i]
	}
	if i >= len(s.snaps) {
		i = len(s.snaps) - 1
	}
	return s.snaps[i], nil
}

// stuckTicks blocks every Ticks call until release is closed.
type stuckTicks struct {
	release chan struct{}
}

func (s *stuckTicks) Ticks() (platform.TickSnapshot, error) {
	<-s.release
	return platform.TickSnapshot{User: 1, Idle: 1}, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func sumUsage(u CPUUsage) float64 {
	return u.System + u.User + u.Idle + u.Nice
}

func TestComputeUsage(t *testing.T) {
	tests := []struct {
		name string
		prev platform.TickSnapshot
		curr platform.TickSnapshot
		want CPUUsage
	}{
		{
			name: "even split",
			prev: platform.TickSnapshot{User: 100, System: 100, Idle: 100, Nice: 100},
			curr: platform.TickSnapshot{User: 125, System: 125, Idle: 125, Nice: 125},
			want: CPUUsage{System: 25, User: 25, Idle: 25, Nice: 25},
		},
		{
			name: "mostly idle",
			prev: platform.TickSnapshot{},
			curr: platform.TickSnapshot{User: 10, System: 10, Idle: 80},
			want: CPUUsage{System: 10, User: 10, Idle: 80},
		},
		{
			name: "no elapsed ticks",
			prev: platform.TickSnapshot{User: 5, System: 5, Idle: 5, Nice: 5},
			curr: platform.TickSnapshot{User: 5, System: 5, Idle: 5, Nice: 5},
			want: CPUUsage{},
		},
		{
			name: "counter went backwards",
			prev: platform.TickSnapshot{User: 500, System: 10, Idle: 10},
			curr: platform.TickSnapshot{User: 100, System: 20, Idle: 20},
			want: CPUUsage{System: 50, Idle: 50},
		},
		{
			name: "all counters went backwards",
			prev: platform.TickSnapshot{User: 50, System: 50, Idle: 50, Nice: 50},
			curr: platform.TickSnapshot{},
			want: CPUUsage{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeUsage(tt.prev, tt.curr)
			if got != tt.want {
				t.Errorf("ComputeUsage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeUsage_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	ticks := gen.UInt64Range(0, 1<<40)
	snapshot := gopter.CombineGens(ticks, ticks, ticks, ticks).Map(func(v []interface{}) platform.TickSnapshot {
		return platform.TickSnapshot{
			User:   v[0].(uint64),
			System: v[1].(uint64),
			Idle:   v[2].(uint64),
			Nice:   v[3].(uint64),
		}
	})

	properties.Property("usage sums to 100 or is all zero", prop.ForAll(
		func(prev, curr platform.TickSnapshot) bool {
			u := ComputeUsage(prev, curr)
			if u == (CPUUsage{}) {
				return true
			}
			return math.Abs(sumUsage(u)-100) < 1e-6
		},
		snapshot, snapshot,
	))

	properties.Property("every share is within 0..100", prop.ForAll(
		func(prev, curr platform.TickSnapshot) bool {
			u := ComputeUsage(prev, curr)
			for _, v := range []float64{u.System, u.User, u.Idle, u.Nice} {
				if math.IsNaN(v) || v < 0 || v > 100+1e-9 {
					return false
				}
			}
			return true
		},
		snapshot, snapshot,
	))

	properties.Property("equal snapshots give zero usage", prop.ForAll(
		func(s platform.TickSnapshot) bool {
			return ComputeUsage(s, s) == CPUUsage{}
		},
		snapshot,
	))

	properties.TestingRun(t)
}

func TestCPUUsage_Busy(t *testing.T) {
	u := CPUUsage{System: 10, User: 20, Idle: 65, Nice: 5}
	if got := u.Busy(); got != 35 {
		t.Errorf("Busy() = %v, want 35", got)
	}
}

func TestCPUSampler_FirstSampleBlocks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping warm-up timing test in short mode")
	}
	src := &tickSeq{snaps: []platform.TickSnapshot{
		{User: 10, System: 10, Idle: 80},
		{User: 20, System: 20, Idle: 160},
	}}
	s := NewCPUSampler(src)

	start := time.Now()
	u, err := s.Sample()
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if elapsed < 900*time.Millisecond {
		t.Errorf("first Sample() took %v, want about %v", elapsed, DefaultWarmup)
	}
	if math.Abs(sumUsage(u)-100) > 1e-6 {
		t.Errorf("Sample() sum = %v, want 100", sumUsage(u))
	}
	if s.State() != StateReady {
		t.Errorf("State() = %v, want %v", s.State(), StateReady)
	}

	start = time.Now()
	if _, err := s.Sample(); err != nil {
		t.Fatalf("second Sample() error = %v", err)
	}
	if d := time.Since(start); d > 100*time.Millisecond {
		t.Errorf("second Sample() took %v, want immediate", d)
	}
}

func TestCPUSampler_Sequence(t *testing.T) {
	src := &tickSeq{snaps: []platform.TickSnapshot{
		{User: 0, System: 0, Idle: 0},
		{User: 50, System: 0, Idle: 50},
		{User: 50, System: 100, Idle: 50},
	}}
	var slept time.Duration
	s := NewCPUSampler(src, WithWarmup(250*time.Millisecond), WithSleep(func(_ context.Context, d time.Duration) error {
		slept = d
		return nil
	}))

	if s.State() != StateUninitialized {
		t.Fatalf("initial State() = %v, want %v", s.State(), StateUninitialized)
	}

	u, err := s.Sample()
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if slept != 250*time.Millisecond {
		t.Errorf("warm-up = %v, want 250ms", slept)
	}
	if u != (CPUUsage{User: 50, Idle: 50}) {
		t.Errorf("first Sample() = %+v", u)
	}

	slept = 0
	u, err = s.Sample()
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if slept != 0 {
		t.Errorf("ready sampler slept %v", slept)
	}
	if u != (CPUUsage{System: 100}) {
		t.Errorf("second Sample() = %+v, want all system", u)
	}

	u, err = s.Sample()
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if u != (CPUUsage{}) {
		t.Errorf("Sample() with no elapsed ticks = %+v, want zeros", u)
	}
}

func TestCPUSampler_WithPrevious(t *testing.T) {
	src := &tickSeq{snaps: []platform.TickSnapshot{{User: 30, Idle: 70}}}
	s := NewCPUSampler(src, WithPrevious(platform.TickSnapshot{}), WithSleep(func(context.Context, time.Duration) error {
		t.Error("sampler with a baseline slept")
		return nil
	}))

	u, err := s.Sample()
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if u != (CPUUsage{User: 30, Idle: 70}) {
		t.Errorf("Sample() = %+v", u)
	}
	prev, ok := s.Previous()
	if !ok || prev != (platform.TickSnapshot{User: 30, Idle: 70}) {
		t.Errorf("Previous() = %+v, %v", prev, ok)
	}
}

func TestCPUSampler_ErrorKeepsBaseline(t *testing.T) {
	boom := errors.New("host_statistics failed")
	src := &tickSeq{
		snaps: []platform.TickSnapshot{
			{User: 10, Idle: 10},
			{User: 10, Idle: 10},
			{User: 20, Idle: 20},
		},
		errs: []error{nil, boom},
	}
	s := NewCPUSampler(src, WithPrevious(platform.TickSnapshot{User: 10, Idle: 10}), WithSleep(noSleep))

	// first call fails on the read
	src.calls = 1
	_, err := s.Sample()
	if !errors.Is(err, boom) {
		t.Fatalf("Sample() error = %v, want %v", err, boom)
	}
	if !errors.Is(err, ErrReadFailure) || !IsComponentError(err, ErrorSourceCPU) {
		t.Errorf("Sample() error = %v, want cpu ComponentError", err)
	}
	prev, _ := s.Previous()
	if prev != (platform.TickSnapshot{User: 10, Idle: 10}) {
		t.Errorf("baseline changed after failed read: %+v", prev)
	}

	u, err := s.Sample()
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if u != (CPUUsage{User: 50, Idle: 50}) {
		t.Errorf("Sample() after failure = %+v", u)
	}
}

func TestCPUSampler_FirstReadFails(t *testing.T) {
	boom := errors.New("no counters")
	src := &tickSeq{snaps: []platform.TickSnapshot{{}}, errs: []error{boom}}
	s := NewCPUSampler(src, WithSleep(noSleep))

	if _, err := s.Sample(); !errors.Is(err, boom) {
		t.Fatalf("Sample() error = %v, want %v", err, boom)
	}
	if s.State() != StateUninitialized {
		t.Errorf("State() = %v, want %v", s.State(), StateUninitialized)
	}
}

func TestCPUSampler_CancelledWarmup(t *testing.T) {
	src := &tickSeq{snaps: []platform.TickSnapshot{{User: 1, Idle: 1}, {User: 2, Idle: 2}}}
	s := NewCPUSampler(src, WithWarmup(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SampleContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("SampleContext() error = %v, want context.Canceled", err)
	}
	prev, ok := s.Previous()
	if !ok || prev != (platform.TickSnapshot{User: 1, Idle: 1}) {
		t.Errorf("Previous() = %+v, %v, want retained first snapshot", prev, ok)
	}
}

func TestCPUSampler_HungReadHonorsContext(t *testing.T) {
	src := &stuckTicks{release: make(chan struct{})}
	defer close(src.release)
	s := NewCPUSampler(src, WithPrevious(platform.TickSnapshot{}), WithSleep(noSleep))

	if _, err := readWithTimeout(context.Background(), 50*time.Millisecond, s.SampleContext); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("readWithTimeout() error = %v, want %v", err, context.DeadlineExceeded)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := s.SampleContext(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("SampleContext() error = %v, want %v", err, context.DeadlineExceeded)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SampleContext() still blocked after its deadline")
	}

	if _, ok := s.Previous(); !ok {
		t.Error("Previous() ok = false, want true")
	}
}

func TestSamplerStateString(t *testing.T) {
	tests := []struct {
		state SamplerState
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateWarming, "warming"},
		{StateReady, "ready"},
		{SamplerState(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("SamplerState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
