package config

import (
	"time"

	"github.com/opd-ai/go-systemkit/internal/platform"
)

// Default values for configuration options.
const (
	// DefaultInterval is the default watch-mode refresh period.
	DefaultInterval = 2 * time.Second
	// DefaultReadTimeout is the default bound on a single host read.
	DefaultReadTimeout = 2 * time.Second
	// DefaultWarmup is the default first-sample CPU wait.
	DefaultWarmup = time.Second
	// DefaultMemoryUnit is the default unit for the memory section.
	DefaultMemoryUnit = "GB"
	// DefaultTemperatureUnit is the default battery temperature scale.
	DefaultTemperatureUnit = "C"
	// DefaultSSHPort is the default port for the remote provider.
	DefaultSSHPort = 22
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Provider:    platform.ProviderAuto,
		Interval:    DefaultInterval,
		ReadTimeout: DefaultReadTimeout,
		Warmup:      DefaultWarmup,
		MemoryUnit:  DefaultMemoryUnit,
		Battery: BatteryConfig{
			TemperatureUnit: DefaultTemperatureUnit,
		},
		Remote: RemoteConfig{
			Port: DefaultSSHPort,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}
