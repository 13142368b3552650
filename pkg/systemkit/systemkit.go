package systemkit

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/opd-ai/go-systemkit/internal/config"
	"github.com/opd-ai/go-systemkit/internal/logging"
	"github.com/opd-ai/go-systemkit/internal/metrics"
	"github.com/opd-ai/go-systemkit/internal/monitor"
	"github.com/opd-ai/go-systemkit/internal/platform"
	"github.com/opd-ai/go-systemkit/internal/report"
)

type (
	// Platform is a host information provider.
	Platform = platform.Platform
	// RemoteConfig configures the SSH provider.
	RemoteConfig = platform.RemoteConfig
	// ProcessRecord is a snapshot of one process.
	ProcessRecord = platform.ProcessRecord
	// ProcessState is the scheduler state of a process.
	ProcessState = platform.ProcessState

	// CPUUsage is the share of CPU time per state, in percent.
	CPUUsage = monitor.CPUUsage
	// MemoryUsage is page occupancy in a chosen unit.
	MemoryUsage = monitor.MemoryUsage
	// Unit is a binary magnitude for byte counts.
	Unit = monitor.Unit
	// TemperatureUnit selects a temperature scale.
	TemperatureUnit = monitor.TemperatureUnit
	// Battery is an open/close handle to one battery.
	Battery = monitor.Battery
	// SystemData is the latest snapshot of the background monitor.
	SystemData = monitor.SystemData
	// ComponentError is a failed host read tagged with its source.
	ComponentError = monitor.ComponentError

	// Report is a one-shot snapshot of every metric.
	Report = report.Report
	// Config is a loaded configuration file.
	Config = config.Config
	// Logger receives structured log messages.
	Logger = logging.Logger
)

const (
	Byte     = monitor.Byte
	Kilobyte = monitor.Kilobyte
	Megabyte = monitor.Megabyte
	Gigabyte = monitor.Gigabyte

	Celsius    = monitor.Celsius
	Fahrenheit = monitor.Fahrenheit
	Kelvin     = monitor.Kelvin
)

var (
	ErrNotFound       = monitor.ErrNotFound
	ErrAlreadyOpen    = monitor.ErrAlreadyOpen
	ErrNotOpen        = monitor.ErrNotOpen
	ErrReadFailure    = monitor.ErrReadFailure
	ErrInvalidReading = monitor.ErrInvalidReading
	ErrUnsupported    = platform.ErrUnsupported
)

// System is an initialized host telemetry source.
type System struct {
	platform  platform.Platform
	monitor   *monitor.SystemMonitor
	memory    *monitor.MemorySampler
	collector *metrics.Collector
	opts      Options
	logger    logging.Logger
	owned     bool

	startTime   time.Time
	updateCount atomic.Uint64
	lastError   atomic.Value // stores errorBox

	errorHandler ErrorHandler
	eventHandler EventHandler

	mu     sync.RWMutex
	closed bool
}

type errorBox struct{ err error }

// New creates the platform named by opts.Provider and initializes it.
// A nil opts uses DefaultOptions. Close releases the platform.
func New(ctx context.Context, opts *Options) (*System, error) {
	if opts == nil {
		d := DefaultOptions()
		opts = &d
	}
	p, err := platform.NewPlatformByName(platform.Options{
		Provider: opts.Provider,
		ProcRoot: opts.ProcRoot,
		SysRoot:  opts.SysRoot,
		Remote:   opts.Remote,
	})
	if err != nil {
		return nil, fmt.Errorf("platform: %w", err)
	}
	if err := p.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initializing %s platform: %w", p.Name(), err)
	}
	s := NewWithPlatform(p, opts)
	s.owned = true
	return s, nil
}

// NewFromConfig creates a System from a configuration file, picking the
// format from the extension.
func NewFromConfig(ctx context.Context, path string, logger Logger) (*System, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	opts := OptionsFromConfig(cfg)
	opts.Logger = logger
	return New(ctx, &opts)
}

// NewWithPlatform wraps an already initialized platform. Close does not
// close p.
func NewWithPlatform(p Platform, opts *Options) *System {
	if opts == nil {
		d := DefaultOptions()
		opts = &d
	}
	o := opts.withDefaults()

	s := &System{
		platform:  p,
		memory:    monitor.NewMemorySampler(p.Memory()),
		collector: metrics.NewCollector(),
		opts:      o,
		logger:    o.Logger,
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	s.monitor = monitor.NewSystemMonitor(p, o.Interval,
		monitor.WithLogger(s.logger),
		monitor.WithReadTimeout(o.ReadTimeout),
		monitor.WithCPUSampler(monitor.NewCPUSampler(p.CPU(), monitor.WithWarmup(o.Warmup))),
		monitor.WithOnUpdate(s.handleUpdate),
	)
	return s
}

// Platform returns the underlying provider.
func (s *System) Platform() Platform {
	return s.platform
}

// CPUUsage returns CPU usage since the previous call, or since the previous
// monitor update. The first call waits for the warm-up.
func (s *System) CPUUsage(ctx context.Context) (CPUUsage, error) {
	return s.monitor.CPUSampler().SampleContext(ctx)
}

// Memory returns the current page occupancy in unit.
func (s *System) Memory(unit Unit) (MemoryUsage, error) {
	return s.memory.Usage(unit)
}

// PhysicalMemory returns the installed memory in unit.
func (s *System) PhysicalMemory(unit Unit) (float64, error) {
	return s.memory.PhysicalSize(unit)
}

// Uptime returns the time since boot.
func (s *System) Uptime() (time.Duration, error) {
	return s.platform.System().Uptime()
}

// MachFactor returns the number of idle logical CPUs.
func (s *System) MachFactor() (int, error) {
	cores, err := s.platform.CPU().Cores()
	if err != nil {
		return 0, monitor.NewComponentError(monitor.ErrorSourceMachFactor, err)
	}
	running, err := s.platform.CPU().Running()
	if err != nil {
		return 0, monitor.NewComponentError(monitor.ErrorSourceMachFactor, err)
	}
	return monitor.MachFactor(cores.Logical, running), nil
}

// Processes lists every live process in pid order.
func (s *System) Processes(ctx context.Context) ([]ProcessRecord, error) {
	return monitor.ListProcesses(ctx, s.platform.Process())
}

// Battery returns a closed handle to the named battery; empty name selects
// the platform default. Open it before reading and Close it afterwards.
func (s *System) Battery(name string) *Battery {
	return monitor.NewBattery(s.platform.Power(), name, monitor.WithBatteryLogger(s.logger))
}

// WithBattery opens the named battery, calls fn and closes it again.
func (s *System) WithBattery(name string, fn func(*Battery) error) error {
	return monitor.WithBattery(s.platform.Power(), name, fn, monitor.WithBatteryLogger(s.logger))
}

// Report collects every metric. The CPU baseline is shared with CPUUsage
// and the background monitor.
func (s *System) Report(ctx context.Context, processes bool) (*Report, error) {
	r, err := report.Collect(ctx, report.Sources{
		Platform: s.platform,
		Monitor:  s.monitor,
		Logger:   s.logger,
	}, report.Options{
		ReadTimeout:     s.opts.ReadTimeout,
		MemoryUnit:      s.opts.MemoryUnit,
		BatteryName:     s.opts.BatteryName,
		NoBattery:       s.opts.NoBattery,
		TemperatureUnit: s.opts.TemperatureUnit,
		Processes:       processes,
	})
	if err != nil {
		return nil, err
	}
	s.collector.Update(r)
	return r, nil
}

// Render writes r in the text report layout.
func (s *System) Render(w io.Writer, r *Report, color bool) error {
	return report.Render(w, r, report.Style{Color: color})
}

// Collector exposes the most recent Report as Prometheus metrics.
func (s *System) Collector() prometheus.Collector {
	return s.collector
}

// WriteTextfile writes the metrics of the most recent Report to path in the
// node-exporter textfile format.
func (s *System) WriteTextfile(path string) error {
	return metrics.WriteTextfile(path, s.collector)
}

// Start begins updating the monitor snapshot every Options.Interval.
func (s *System) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("system closed")
	}
	s.mu.Unlock()

	if err := s.monitor.Start(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.startTime = time.Now()
	s.mu.Unlock()
	s.emitEvent(EventStarted, "monitor started")
	return nil
}

// Stop halts the background monitor. Safe to call multiple times.
func (s *System) Stop() {
	if !s.monitor.IsRunning() {
		return
	}
	s.monitor.Stop()
	s.emitEvent(EventStopped, "monitor stopped")
}

// IsRunning returns true while the background monitor is active.
func (s *System) IsRunning() bool {
	return s.monitor.IsRunning()
}

// Update refreshes the monitor snapshot once.
func (s *System) Update(ctx context.Context) error {
	return s.monitor.UpdateContext(ctx)
}

// Data returns the latest monitor snapshot.
func (s *System) Data() SystemData {
	return s.monitor.Data()
}

// Status returns the state of the background monitor.
func (s *System) Status() Status {
	s.mu.RLock()
	start := s.startTime
	s.mu.RUnlock()
	return Status{
		Running:     s.monitor.IsRunning(),
		StartTime:   start,
		UpdateCount: s.updateCount.Load(),
		LastError:   s.getError(),
		Platform:    s.platform.Name(),
	}
}

// Health grades each metric source by the latest monitor snapshot.
func (s *System) Health() HealthCheck {
	now := time.Now()
	hc := healthOf(s.monitor.Data(), now)
	s.mu.RLock()
	if s.monitor.IsRunning() && !s.startTime.IsZero() {
		hc.Uptime = now.Sub(s.startTime)
	}
	s.mu.RUnlock()
	return hc
}

// SetErrorHandler registers a callback for failed monitor updates.
func (s *System) SetErrorHandler(handler ErrorHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (s *System) SetEventHandler(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventHandler = handler
}

// Close stops the monitor and, for systems created by New, closes the
// platform.
func (s *System) Close() error {
	s.Stop()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	if s.owned {
		return s.platform.Close()
	}
	return nil
}

func (s *System) handleUpdate(d monitor.SystemData) {
	s.updateCount.Add(1)
	if d.Err == nil {
		s.emitEvent(EventUpdated, "update complete")
		return
	}
	s.lastError.Store(errorBox{d.Err})
	s.notifyError(d.Err)
	s.emitEvent(EventError, d.Err.Error())
}

func (s *System) getError() error {
	if b, ok := s.lastError.Load().(errorBox); ok {
		return b.err
	}
	return nil
}

func (s *System) notifyError(err error) {
	s.mu.RLock()
	handler := s.errorHandler
	s.mu.RUnlock()
	if handler == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in error handler", "panic", r)
			}
		}()
		handler(err)
	}()
}

func (s *System) emitEvent(eventType EventType, message string) {
	s.mu.RLock()
	handler := s.eventHandler
	s.mu.RUnlock()
	if handler == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in event handler", "panic", r)
			}
		}()
		handler(Event{Type: eventType, Timestamp: time.Now(), Message: message})
	}()
}
