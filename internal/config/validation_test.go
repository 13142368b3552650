package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	vr := cfg.Validate()
	if !vr.IsValid() {
		t.Errorf("defaults invalid: %v", vr.Error())
	}
	if len(vr.Warnings) != 0 {
		t.Errorf("defaults warnings = %v", vr.Warnings)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
		warning   bool
	}{
		{"unknown provider", func(c *Config) { c.Provider = "bsd" }, "provider", false},
		{"negative interval", func(c *Config) { c.Interval = -time.Second }, "interval", false},
		{"zero read timeout", func(c *Config) { c.ReadTimeout = 0 }, "read_timeout", false},
		{"negative warmup", func(c *Config) { c.Warmup = -1 }, "warmup", false},
		{"memory unit", func(c *Config) { c.MemoryUnit = "PB" }, "memory_unit", false},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format", false},
		{"remote user", func(c *Config) {
			c.Provider = "remote"
			c.Remote.Host = "h"
		}, "remote.user", false},
		{"remote port", func(c *Config) {
			c.Provider = "remote"
			c.Remote.Host, c.Remote.User, c.Remote.Port = "h", "u", 70000
		}, "remote.port", false},
		{"remote auth conflict", func(c *Config) {
			c.Provider = "remote"
			c.Remote.Host, c.Remote.User = "h", "u"
			c.Remote.Password, c.Remote.Agent = "p", true
		}, "remote", false},
		{"remote threshold", func(c *Config) {
			c.Provider = "remote"
			c.Remote.Host, c.Remote.User, c.Remote.FailureThreshold = "h", "u", -1
		}, "remote.failure_threshold", false},
		{"disabled battery name", func(c *Config) {
			c.Battery.Disabled = true
			c.Battery.Name = "BAT0"
		}, "battery.name", true},
		{"unused remote host", func(c *Config) { c.Remote.Host = "h" }, "remote.host", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			vr := cfg.Validate()

			list := vr.Errors
			if tt.warning {
				list = vr.Warnings
				if !vr.IsValid() {
					t.Errorf("unexpected errors: %v", vr.Error())
				}
			}
			found := false
			for _, e := range list {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = errors %v warnings %v, want entry for %q", vr.Errors, vr.Warnings, tt.wantField)
			}
		})
	}
}

func TestValidationResult_Error(t *testing.T) {
	vr := &ValidationResult{}
	if vr.Error() != nil {
		t.Errorf("Error() = %v, want nil", vr.Error())
	}
	vr.AddError("interval", "must be positive")
	vr.AddError("provider", "unknown")
	err := vr.Error()
	if err == nil || !strings.Contains(err.Error(), "interval: must be positive; provider: unknown") {
		t.Errorf("Error() = %v", err)
	}
}

func TestValidate_RemoteValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "remote"
	cfg.Remote.Host = "server"
	cfg.Remote.User = "admin"
	cfg.Remote.KeyFile = "/home/admin/.ssh/id_rsa"

	if vr := cfg.Validate(); !vr.IsValid() {
		t.Errorf("Validate() = %v", vr.Error())
	}
}
