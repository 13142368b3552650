// Package report collects a one-shot host telemetry report and renders it
// as text. Every metric carries its own error so a failed read shows up as
// "n/a" without hiding the rest of the report.
package report

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-systemkit/internal/logging"
	"github.com/opd-ai/go-systemkit/internal/monitor"
	"github.com/opd-ai/go-systemkit/internal/platform"
)

// Value is a metric reading together with the error that prevented it.
type Value[T any] struct {
	V   T
	Err error
}

// OK reports whether the reading succeeded.
func (v Value[T]) OK() bool {
	return v.Err == nil
}

func valueOf[T any](v T, err error) Value[T] {
	return Value[T]{V: v, Err: err}
}

// Report is one collected snapshot of the host.
type Report struct {
	Platform string

	Model      Value[string]
	Cores      Value[platform.CoreCounts]
	Physical   Value[uint64]
	PowerLimit Value[platform.PowerLimit]
	Uname      Value[platform.Uname]

	CPU          Value[monitor.CPUUsage]
	Memory       Value[monitor.MemoryBytes]
	Load         Value[platform.LoadAverage]
	MachFactor   Value[int]
	Tasks        Value[platform.TaskCounts]
	Uptime       Value[time.Duration]
	ThermalLevel Value[int]

	// Battery is nil when the battery could not be opened or was skipped.
	Battery *Battery

	// Processes is nil unless Options.Processes was set.
	Processes *Value[[]platform.ProcessRecord]

	MemoryUnit      monitor.Unit
	TemperatureUnit monitor.TemperatureUnit
	CollectedAt     time.Time
}

// Battery holds the readings of one opened battery.
type Battery struct {
	Name string

	ACPowered Value[bool]
	Charged   Value[bool]
	Charging  Value[bool]

	Charge Value[int]
	Health Value[int]

	CurrentCapacity Value[int]
	MaxCapacity     Value[int]
	DesignCapacity  Value[int]

	CycleCount       Value[int]
	DesignCycleCount Value[int]

	// Temperature is in Report.TemperatureUnit.
	Temperature        Value[float64]
	TemperatureCelsius Value[float64]
	TimeRemaining      Value[int]
}

// Sources are the inputs of a report. Monitor must be built over Platform;
// passing the same Monitor to successive Collect calls keeps its CPU
// baseline so only the first report waits for the warm-up.
type Sources struct {
	Platform platform.Platform
	Monitor  *monitor.SystemMonitor
	Logger   logging.Logger
}

// Options controls what Collect reads.
type Options struct {
	// ReadTimeout bounds each static read. Zero means monitor.DefaultReadTimeout.
	ReadTimeout time.Duration

	// MemoryUnit is used for the physical memory size. Zero means Gigabyte.
	MemoryUnit monitor.Unit

	// BatteryName selects the battery; empty means the platform default.
	BatteryName string
	// NoBattery skips the battery section.
	NoBattery bool
	// TemperatureUnit is the scale for the battery temperature.
	TemperatureUnit monitor.TemperatureUnit

	// Processes adds the process table.
	Processes bool
}

// Collect reads every metric concurrently. Individual failures are recorded
// on the affected values; Collect itself only fails when ctx is done.
func Collect(ctx context.Context, src Sources, opts Options) (*Report, error) {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = monitor.DefaultReadTimeout
	}
	if opts.MemoryUnit == 0 {
		opts.MemoryUnit = monitor.Gigabyte
	}
	logger := src.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	p := src.Platform
	r := &Report{
		Platform:        p.Name(),
		MemoryUnit:      opts.MemoryUnit,
		TemperatureUnit: opts.TemperatureUnit,
	}
	var mu sync.Mutex
	set := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}

	timeout := opts.ReadTimeout
	var g errgroup.Group
	g.Go(func() error {
		v, err := monitor.ReadWithTimeout(ctx, timeout, p.System().Model)
		set(func() { r.Model = valueOf(v, err) })
		return nil
	})
	g.Go(func() error {
		v, err := monitor.ReadWithTimeout(ctx, timeout, p.CPU().Cores)
		set(func() { r.Cores = valueOf(v, err) })
		return nil
	})
	g.Go(func() error {
		v, err := monitor.ReadWithTimeout(ctx, timeout, p.Memory().PhysicalMemory)
		set(func() { r.Physical = valueOf(v, err) })
		return nil
	})
	g.Go(func() error {
		v, err := monitor.ReadWithTimeout(ctx, timeout, p.System().PowerLimit)
		set(func() { r.PowerLimit = valueOf(v, err) })
		return nil
	})
	g.Go(func() error {
		v, err := monitor.ReadWithTimeout(ctx, timeout, p.System().Uname)
		set(func() { r.Uname = valueOf(v, err) })
		return nil
	})
	g.Go(func() error {
		if err := src.Monitor.UpdateContext(ctx); err != nil {
			logUpdateError(logger, err)
		}
		d := src.Monitor.Data()
		set(func() {
			r.CPU = valueOf(d.CPU, d.ErrorFor(monitor.ErrorSourceCPU))
			r.Memory = valueOf(d.Memory, d.ErrorFor(monitor.ErrorSourceMemory))
			r.Load = valueOf(d.Load, d.ErrorFor(monitor.ErrorSourceLoad))
			r.MachFactor = valueOf(d.MachFactor, d.ErrorFor(monitor.ErrorSourceMachFactor))
			r.Tasks = valueOf(d.Tasks, d.ErrorFor(monitor.ErrorSourceTasks))
			r.Uptime = valueOf(d.Uptime, d.ErrorFor(monitor.ErrorSourceUptime))
			r.ThermalLevel = valueOf(d.ThermalLevel, d.ErrorFor(monitor.ErrorSourceThermal))
		})
		return nil
	})
	if !opts.NoBattery {
		g.Go(func() error {
			b := collectBattery(ctx, p.Power(), opts, logger)
			set(func() { r.Battery = b })
			return nil
		})
	}
	if opts.Processes {
		g.Go(func() error {
			procs, err := monitor.ListProcesses(ctx, p.Process())
			set(func() { r.Processes = &Value[[]platform.ProcessRecord]{V: procs, Err: err} })
			return nil
		})
	}
	_ = g.Wait()

	r.CollectedAt = time.Now()
	if err := ctx.Err(); err != nil {
		return r, err
	}
	return r, nil
}

// logUpdateError logs each failed source of a monitor update on its own
// line. The report already shows those values as "n/a".
func logUpdateError(logger logging.Logger, err error) {
	ue := monitor.AsUpdateError(err)
	if ue == nil {
		logger.Debug("dynamic metrics incomplete", "error", err)
		return
	}
	for _, ce := range ue.Errors {
		if errors.Is(ce, platform.ErrUnsupported) {
			logger.Debug("metric unsupported", "source", string(ce.Source))
			continue
		}
		logger.Debug("metric unavailable", "source", string(ce.Source), "error", ce.Err)
	}
}

// collectBattery opens the battery, reads every property and closes it.
// It returns nil when the battery cannot be opened.
func collectBattery(ctx context.Context, src platform.PowerSource, opts Options, logger logging.Logger) *Battery {
	read := func() (*Battery, error) {
		var out *Battery
		err := monitor.WithBattery(src, opts.BatteryName, func(b *monitor.Battery) error {
			out = readBattery(b, opts.TemperatureUnit)
			return nil
		}, monitor.WithBatteryLogger(logger))
		return out, err
	}

	b, err := monitor.ReadWithTimeout(ctx, opts.ReadTimeout, read)
	switch {
	case err == nil:
	case errors.Is(err, monitor.ErrNotFound):
		logger.Debug("no battery", "error", err)
	default:
		logger.Warn("battery unavailable", "error", err)
	}
	return b
}

func readBattery(b *monitor.Battery, unit monitor.TemperatureUnit) *Battery {
	out := &Battery{Name: b.Name()}
	out.ACPowered = valueOf(b.IsACPowered())
	out.Charged = valueOf(b.IsCharged())
	out.Charging = valueOf(b.IsCharging())
	out.Charge = valueOf(b.Charge())
	out.Health = valueOf(b.Health())
	out.CurrentCapacity = valueOf(b.CurrentCapacity())
	out.MaxCapacity = valueOf(b.MaxCapacity())
	out.DesignCapacity = valueOf(b.DesignCapacity())
	out.CycleCount = valueOf(b.CycleCount())
	out.DesignCycleCount = valueOf(b.DesignCycleCount())
	out.Temperature = valueOf(b.Temperature(unit))
	out.TemperatureCelsius = valueOf(b.Temperature(monitor.Celsius))
	out.TimeRemaining = valueOf(b.TimeRemaining())
	return out
}
