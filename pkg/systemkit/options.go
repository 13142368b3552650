package systemkit

import (
	"time"

	"github.com/opd-ai/go-systemkit/internal/config"
	"github.com/opd-ai/go-systemkit/internal/monitor"
	"github.com/opd-ai/go-systemkit/internal/platform"
)

// Provider names for Options.Provider.
const (
	ProviderAuto     = platform.ProviderAuto
	ProviderLinux    = platform.ProviderLinux
	ProviderPortable = platform.ProviderPortable
	ProviderRemote   = platform.ProviderRemote
)

// Options configures a System.
type Options struct {
	// Provider selects the platform implementation. Empty means ProviderAuto.
	// Ignored by NewWithPlatform.
	Provider string

	// ProcRoot and SysRoot relocate procfs and sysfs for the linux provider.
	ProcRoot string
	SysRoot  string

	// Remote configures ProviderRemote.
	Remote RemoteConfig

	// Interval is the period of the background monitor started by Start.
	// Zero means config.DefaultInterval (2 seconds).
	Interval time.Duration

	// ReadTimeout bounds every single host read. Zero means 2 seconds.
	ReadTimeout time.Duration

	// Warmup is how long the first CPU sample waits. Zero means 1 second.
	Warmup time.Duration

	// MemoryUnit is used for physical memory in reports. Zero means Gigabyte.
	MemoryUnit Unit

	// BatteryName selects the battery for reports. Empty means the default one.
	BatteryName string

	// NoBattery leaves the battery out of reports.
	NoBattery bool

	// TemperatureUnit is the battery temperature scale for reports.
	TemperatureUnit TemperatureUnit

	// Logger receives debug and failure messages. If nil, nothing is logged.
	Logger Logger
}

// DefaultOptions returns Options with the package defaults filled in.
func DefaultOptions() Options {
	return Options{
		Provider:    ProviderAuto,
		Interval:    config.DefaultInterval,
		ReadTimeout: monitor.DefaultReadTimeout,
		Warmup:      monitor.DefaultWarmup,
		MemoryUnit:  Gigabyte,
	}
}

// OptionsFromConfig converts a loaded configuration. Invalid unit names
// fall back to the defaults; run Config.Validate first to reject them.
func OptionsFromConfig(cfg *Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	popts := cfg.PlatformOptions()
	opts.Provider = popts.Provider
	opts.ProcRoot = popts.ProcRoot
	opts.SysRoot = popts.SysRoot
	opts.Remote = popts.Remote
	opts.Interval = cfg.Interval
	opts.ReadTimeout = cfg.ReadTimeout
	opts.Warmup = cfg.Warmup
	if unit, err := monitor.ParseUnit(cfg.MemoryUnit); err == nil {
		opts.MemoryUnit = unit
	}
	opts.BatteryName = cfg.Battery.Name
	opts.NoBattery = cfg.Battery.Disabled
	if unit, err := monitor.ParseTemperatureUnit(cfg.Battery.TemperatureUnit); err == nil {
		opts.TemperatureUnit = unit
	}
	return opts
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Interval <= 0 {
		o.Interval = d.Interval
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = d.ReadTimeout
	}
	if o.Warmup <= 0 {
		o.Warmup = d.Warmup
	}
	if o.MemoryUnit == 0 {
		o.MemoryUnit = d.MemoryUnit
	}
	return o
}
