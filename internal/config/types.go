// Package config loads go-systemkit settings from YAML or Lua files.
//
// The format is chosen by file extension: .yaml and .yml are decoded with
// gopkg.in/yaml.v3, .lua files are executed in a sandboxed Lua runtime that
// fills the global systemkit table. String values may reference environment
// variables as $VAR, ${VAR} or ${VAR:-default}.
package config

import (
	"time"

	"github.com/opd-ai/go-systemkit/internal/platform"
)

// Config holds all settings for a systemkit session.
type Config struct {
	// Provider selects the host information backend: auto, linux, portable or remote.
	Provider string `yaml:"provider"`

	// Interval is the refresh period in watch mode.
	Interval time.Duration `yaml:"interval"`

	// ReadTimeout bounds each individual host read.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// Warmup is how long the first CPU sample waits.
	Warmup time.Duration `yaml:"warmup"`

	// MemoryUnit is the unit for the memory section: B, KB, MB or GB.
	MemoryUnit string `yaml:"memory_unit"`

	// ProcRoot and SysRoot relocate procfs and sysfs for the linux provider.
	ProcRoot string `yaml:"proc_root"`
	SysRoot  string `yaml:"sys_root"`

	Battery BatteryConfig `yaml:"battery"`
	Remote  RemoteConfig  `yaml:"remote"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// BatteryConfig selects the battery reported on.
type BatteryConfig struct {
	// Name is the registry name. Empty selects the platform default.
	Name string `yaml:"name"`
	// Disabled skips the battery section entirely.
	Disabled bool `yaml:"disabled"`
	// TemperatureUnit is C, F or K.
	TemperatureUnit string `yaml:"temperature_unit"`
}

// RemoteConfig holds SSH settings for the remote provider.
type RemoteConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`

	// Exactly one of KeyFile, Password and Agent selects the auth method.
	// With none set the SSH agent is used.
	KeyFile    string `yaml:"key_file"`
	Passphrase string `yaml:"passphrase"`
	Password   string `yaml:"password"`
	Agent      bool   `yaml:"agent"`

	KnownHosts       string        `yaml:"known_hosts"`
	CommandTimeout   time.Duration `yaml:"command_timeout"`
	FailureThreshold int           `yaml:"failure_threshold"`
	ResetTimeout     time.Duration `yaml:"reset_timeout"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus output.
type MetricsConfig struct {
	// Textfile is a node-exporter textfile collector path written after
	// every report. Empty disables it.
	Textfile string `yaml:"textfile"`
}

// AuthMethod returns the platform auth method selected by the remote settings.
func (r RemoteConfig) AuthMethod() platform.AuthMethod {
	switch {
	case r.KeyFile != "":
		return platform.KeyAuth{PrivateKeyPath: r.KeyFile, Passphrase: r.Passphrase}
	case r.Password != "":
		return platform.PasswordAuth{Password: r.Password}
	default:
		return platform.AgentAuth{}
	}
}

// PlatformOptions converts the provider settings for platform.NewPlatformByName.
func (c *Config) PlatformOptions() platform.Options {
	return platform.Options{
		Provider: c.Provider,
		ProcRoot: c.ProcRoot,
		SysRoot:  c.SysRoot,
		Remote: platform.RemoteConfig{
			Host:             c.Remote.Host,
			Port:             c.Remote.Port,
			User:             c.Remote.User,
			AuthMethod:       c.Remote.AuthMethod(),
			KnownHostsPath:   c.Remote.KnownHosts,
			CommandTimeout:   c.Remote.CommandTimeout,
			FailureThreshold: c.Remote.FailureThreshold,
			ResetTimeout:     c.Remote.ResetTimeout,
		},
	}
}
