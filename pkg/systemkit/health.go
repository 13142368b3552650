package systemkit

import (
	"errors"
	"fmt"
	"time"

	"github.com/opd-ai/go-systemkit/internal/monitor"
	"github.com/opd-ai/go-systemkit/internal/platform"
)

// HealthStatus represents the health state of a metric source.
type HealthStatus string

const (
	// HealthOK indicates the source is read normally.
	HealthOK HealthStatus = "ok"
	// HealthDegraded indicates some sources are failing.
	HealthDegraded HealthStatus = "degraded"
	// HealthUnhealthy indicates no data is available.
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck contains the health of a System and of each metric source.
type HealthCheck struct {
	Status    HealthStatus
	Timestamp time.Time

	// Uptime is the time since Start (zero if not running).
	Uptime time.Duration

	// Components is keyed by metric source ("cpu", "memory", ...).
	Components map[string]ComponentHealth

	Message string
}

// ComponentHealth represents the health of one metric source.
type ComponentHealth struct {
	Status      HealthStatus
	Message     string
	LastUpdated time.Time
}

// IsHealthy returns true if the overall status is HealthOK.
func (h HealthCheck) IsHealthy() bool {
	return h.Status == HealthOK
}

// IsDegraded returns true if the overall status is HealthDegraded.
func (h HealthCheck) IsDegraded() bool {
	return h.Status == HealthDegraded
}

// IsUnhealthy returns true if the overall status is HealthUnhealthy.
func (h HealthCheck) IsUnhealthy() bool {
	return h.Status == HealthUnhealthy
}

var monitoredSources = []monitor.ErrorSource{
	monitor.ErrorSourceCPU,
	monitor.ErrorSourceMemory,
	monitor.ErrorSourceLoad,
	monitor.ErrorSourceMachFactor,
	monitor.ErrorSourceTasks,
	monitor.ErrorSourceUptime,
	monitor.ErrorSourceThermal,
}

// healthOf grades the last monitor snapshot. A source the platform does not
// support is reported as OK.
func healthOf(data monitor.SystemData, now time.Time) HealthCheck {
	hc := HealthCheck{
		Timestamp:  now,
		Components: make(map[string]ComponentHealth, len(monitoredSources)),
	}
	if data.UpdatedAt.IsZero() {
		hc.Status = HealthUnhealthy
		hc.Message = "no update has completed"
		return hc
	}

	failed := 0
	for _, src := range monitoredSources {
		err := data.ErrorFor(src)
		switch {
		case err == nil:
			hc.Components[string(src)] = ComponentHealth{Status: HealthOK, Message: "ok", LastUpdated: data.UpdatedAt}
		case errors.Is(err, platform.ErrUnsupported):
			hc.Components[string(src)] = ComponentHealth{Status: HealthOK, Message: "unsupported", LastUpdated: data.UpdatedAt}
		default:
			failed++
			hc.Components[string(src)] = ComponentHealth{Status: HealthDegraded, Message: err.Error()}
		}
	}

	switch {
	case failed == 0:
		hc.Status = HealthOK
		hc.Message = "all sources healthy"
	case failed == len(monitoredSources):
		hc.Status = HealthUnhealthy
		hc.Message = "every source failed"
	default:
		hc.Status = HealthDegraded
		hc.Message = fmt.Sprintf("%d of %d sources failing", failed, len(monitoredSources))
	}
	return hc
}
