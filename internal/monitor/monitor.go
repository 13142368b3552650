package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-systemkit/internal/logging"
	"github.com/opd-ai/go-systemkit/internal/platform"
)

// DefaultReadTimeout bounds a single host read during an update.
const DefaultReadTimeout = 2 * time.Second

// SystemMonitor keeps the latest dynamic host metrics. Update reads every
// metric once; Start runs updates periodically in a background goroutine.
type SystemMonitor struct {
	platform    platform.Platform
	interval    time.Duration
	readTimeout time.Duration
	logger      logging.Logger
	onUpdate    func(SystemData)
	now         func() time.Time

	cpu    *CPUSampler
	memory *MemorySampler

	data     systemData
	updateMu sync.Mutex
	logical  int

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
}

// Option configures a SystemMonitor.
type Option func(*SystemMonitor)

// WithLogger sets the logger for background update failures.
func WithLogger(l logging.Logger) Option {
	return func(sm *SystemMonitor) {
		if l != nil {
			sm.logger = l
		}
	}
}

// WithReadTimeout bounds each host read. Non-positive values keep the default.
func WithReadTimeout(d time.Duration) Option {
	return func(sm *SystemMonitor) {
		if d > 0 {
			sm.readTimeout = d
		}
	}
}

// WithCPUSampler replaces the CPU sampler built from the platform.
func WithCPUSampler(s *CPUSampler) Option {
	return func(sm *SystemMonitor) {
		if s != nil {
			sm.cpu = s
		}
	}
}

// WithOnUpdate registers fn to receive the snapshot after every update.
func WithOnUpdate(fn func(SystemData)) Option {
	return func(sm *SystemMonitor) {
		sm.onUpdate = fn
	}
}

// NewSystemMonitor creates a SystemMonitor over an initialized platform.
func NewSystemMonitor(p platform.Platform, interval time.Duration, opts ...Option) *SystemMonitor {
	sm := &SystemMonitor{
		platform:    p,
		interval:    interval,
		readTimeout: DefaultReadTimeout,
		logger:      logging.Nop(),
		now:         time.Now,
		memory:      NewMemorySampler(p.Memory()),
	}
	for _, opt := range opts {
		opt(sm)
	}
	if sm.cpu == nil {
		sm.cpu = NewCPUSampler(p.CPU())
	}
	return sm
}

// CPUSampler returns the sampler used for CPU usage.
func (sm *SystemMonitor) CPUSampler() *CPUSampler {
	return sm.cpu
}

// Start begins the monitoring loop in a background goroutine.
// It returns an error if the monitor is already running. A failed initial
// update is logged and does not prevent the loop from starting.
func (sm *SystemMonitor) Start(ctx context.Context) error {
	sm.mu.Lock()
	if sm.running {
		sm.mu.Unlock()
		return fmt.Errorf("monitor already running")
	}
	if sm.interval <= 0 {
		sm.mu.Unlock()
		return fmt.Errorf("invalid monitor interval %v", sm.interval)
	}
	sm.running = true
	sm.ctx, sm.cancel = context.WithCancel(ctx)
	sm.mu.Unlock()

	if err := sm.UpdateContext(sm.ctx); err != nil {
		sm.logger.Warn("initial update incomplete", "error", err)
	}

	sm.wg.Add(1)
	go sm.monitorLoop()

	return nil
}

// Stop halts the monitoring loop and waits for it to complete.
func (sm *SystemMonitor) Stop() {
	sm.mu.Lock()
	if !sm.running {
		sm.mu.Unlock()
		return
	}
	cancel := sm.cancel
	sm.mu.Unlock()

	cancel()
	sm.wg.Wait()

	sm.mu.Lock()
	sm.running = false
	sm.mu.Unlock()
}

// monitorLoop runs the periodic update cycle.
func (sm *SystemMonitor) monitorLoop() {
	defer sm.wg.Done()

	ticker := time.NewTicker(sm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := sm.UpdateContext(sm.ctx); err != nil {
				sm.logger.Debug("update incomplete", "error", err)
			}
		case <-sm.ctx.Done():
			return
		}
	}
}

// Update performs a single update of all dynamic metrics.
func (sm *SystemMonitor) Update() error {
	return sm.UpdateContext(context.Background())
}

// UpdateContext reads every metric concurrently, each bounded by the read
// timeout. Metrics that fail keep their previous value; the failures are
// returned as an *UpdateError and recorded in the snapshot.
func (sm *SystemMonitor) UpdateContext(ctx context.Context) error {
	sm.updateMu.Lock()
	defer sm.updateMu.Unlock()

	var (
		mu   sync.Mutex
		next = sm.data.get()
		errs []*ComponentError
	)
	set := func(fn func(*SystemData)) {
		mu.Lock()
		defer mu.Unlock()
		fn(&next)
	}
	fail := func(source ErrorSource, err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, asComponentError(source, err))
	}

	cpuTimeout := sm.readTimeout
	if sm.cpu.State() != StateReady {
		cpuTimeout += sm.cpu.warmup
	}

	var g errgroup.Group
	g.Go(func() error {
		usage, err := readWithTimeout(ctx, cpuTimeout, sm.cpu.SampleContext)
		if err != nil {
			fail(ErrorSourceCPU, err)
			return nil
		}
		set(func(d *SystemData) { d.CPU = usage })
		return nil
	})
	g.Go(func() error {
		mem, err := readWithTimeout(ctx, sm.readTimeout, func(context.Context) (MemoryBytes, error) {
			return sm.memory.Bytes()
		})
		if err != nil {
			fail(ErrorSourceMemory, err)
			return nil
		}
		set(func(d *SystemData) { d.Memory = mem })
		return nil
	})
	g.Go(func() error {
		load, err := readWithTimeout(ctx, sm.readTimeout, func(context.Context) (platform.LoadAverage, error) {
			return sm.platform.CPU().LoadAverage()
		})
		if err != nil {
			fail(ErrorSourceLoad, err)
			return nil
		}
		set(func(d *SystemData) { d.Load = load })
		return nil
	})
	g.Go(func() error {
		mf, err := readWithTimeout(ctx, sm.readTimeout, sm.machFactor)
		if err != nil {
			fail(ErrorSourceMachFactor, err)
			return nil
		}
		set(func(d *SystemData) { d.MachFactor = mf })
		return nil
	})
	g.Go(func() error {
		tasks, err := readWithTimeout(ctx, sm.readTimeout, func(context.Context) (platform.TaskCounts, error) {
			return sm.platform.System().TaskCounts()
		})
		if err != nil {
			fail(ErrorSourceTasks, err)
			return nil
		}
		set(func(d *SystemData) { d.Tasks = tasks })
		return nil
	})
	g.Go(func() error {
		uptime, err := readWithTimeout(ctx, sm.readTimeout, func(context.Context) (time.Duration, error) {
			return sm.platform.System().Uptime()
		})
		if err != nil {
			fail(ErrorSourceUptime, err)
			return nil
		}
		set(func(d *SystemData) { d.Uptime = uptime })
		return nil
	})
	g.Go(func() error {
		level, err := readWithTimeout(ctx, sm.readTimeout, func(context.Context) (int, error) {
			return sm.platform.System().ThermalLevel()
		})
		if err != nil {
			fail(ErrorSourceThermal, err)
			return nil
		}
		set(func(d *SystemData) { d.ThermalLevel = level })
		return nil
	})
	_ = g.Wait()

	next.UpdatedAt = sm.now()
	next.Err = nil
	if len(errs) > 0 {
		next.Err = &UpdateError{Errors: errs}
	}
	sm.data.update(func(d *SystemData) { *d = next })

	if sm.onUpdate != nil {
		sm.onUpdate(next)
	}
	if next.Err != nil {
		return next.Err
	}
	return nil
}

// machFactor combines the logical core count, read once, with the current
// number of runnable entities.
func (sm *SystemMonitor) machFactor(context.Context) (int, error) {
	sm.mu.RLock()
	logical := sm.logical
	sm.mu.RUnlock()

	if logical == 0 {
		cores, err := sm.platform.CPU().Cores()
		if err != nil {
			return 0, err
		}
		logical = cores.Logical
		sm.mu.Lock()
		sm.logical = logical
		sm.mu.Unlock()
	}

	running, err := sm.platform.CPU().Running()
	if err != nil {
		return 0, err
	}
	return MachFactor(logical, running), nil
}

// Data returns a snapshot of the current system data.
func (sm *SystemMonitor) Data() SystemData {
	return sm.data.get()
}

// IsRunning returns whether the monitor is currently running.
func (sm *SystemMonitor) IsRunning() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.running
}

// readWithTimeout runs read in its own goroutine and abandons it when the
// timeout or ctx expires. An abandoned read finishes in the background and
// its result is discarded.
func readWithTimeout[T any](ctx context.Context, timeout time.Duration, read func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := read(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("read abandoned after %v: %w", timeout, ctx.Err())
	}
}

// ReadWithTimeout is readWithTimeout for callers outside the package.
func ReadWithTimeout[T any](ctx context.Context, timeout time.Duration, read func() (T, error)) (T, error) {
	return readWithTimeout(ctx, timeout, func(context.Context) (T, error) { return read() })
}

func asComponentError(source ErrorSource, err error) *ComponentError {
	var ce *ComponentError
	if errors.As(err, &ce) && ce.Source == source {
		return ce
	}
	return NewComponentError(source, err)
}
