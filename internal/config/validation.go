package config

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-systemkit/internal/logging"
	"github.com/opd-ai/go-systemkit/internal/monitor"
	"github.com/opd-ai/go-systemkit/internal/platform"
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Validate checks every setting and returns all problems found.
func (c *Config) Validate() *ValidationResult {
	vr := &ValidationResult{}

	switch c.Provider {
	case "", platform.ProviderAuto, platform.ProviderLinux, platform.ProviderPortable:
	case platform.ProviderRemote:
		c.validateRemote(vr)
	default:
		vr.AddError("provider", fmt.Sprintf("unknown provider %q", c.Provider))
	}

	if c.Interval <= 0 {
		vr.AddError("interval", fmt.Sprintf("must be positive, got %v", c.Interval))
	}
	if c.ReadTimeout <= 0 {
		vr.AddError("read_timeout", fmt.Sprintf("must be positive, got %v", c.ReadTimeout))
	}
	if c.Warmup < 0 {
		vr.AddError("warmup", fmt.Sprintf("must not be negative, got %v", c.Warmup))
	}
	if _, err := monitor.ParseUnit(c.MemoryUnit); err != nil {
		vr.AddError("memory_unit", err.Error())
	}
	if _, err := monitor.ParseTemperatureUnit(c.Battery.TemperatureUnit); err != nil {
		vr.AddError("battery.temperature_unit", err.Error())
	}
	if c.Battery.Disabled && c.Battery.Name != "" {
		vr.AddWarning("battery.name", "ignored while the battery section is disabled")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		vr.AddError("log.level", err.Error())
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		vr.AddError("log.format", err.Error())
	}
	if c.Provider != platform.ProviderRemote && c.Remote.Host != "" {
		vr.AddWarning("remote.host", "ignored unless provider is remote")
	}

	return vr
}

func (c *Config) validateRemote(vr *ValidationResult) {
	r := c.Remote
	if r.Host == "" {
		vr.AddError("remote.host", "required for the remote provider")
	}
	if r.User == "" {
		vr.AddError("remote.user", "required for the remote provider")
	}
	if r.Port < 0 || r.Port > 65535 {
		vr.AddError("remote.port", fmt.Sprintf("out of range: %d", r.Port))
	}
	methods := 0
	for _, set := range []bool{r.KeyFile != "", r.Password != "", r.Agent} {
		if set {
			methods++
		}
	}
	if methods > 1 {
		vr.AddError("remote", "key_file, password and agent are mutually exclusive")
	}
	if r.CommandTimeout < 0 || r.ResetTimeout < 0 {
		vr.AddError("remote", "timeouts must not be negative")
	}
	if r.FailureThreshold < 0 {
		vr.AddError("remote.failure_threshold", "must not be negative")
	}
}
