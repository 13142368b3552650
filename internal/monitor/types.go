// Package monitor turns raw host counters into telemetry: CPU usage from
// tick deltas, memory occupancy in chosen units, battery charge and health
// through an open/close handle, and a periodic SystemMonitor that keeps the
// latest readings of all of them.
package monitor

import (
	"sync"
	"time"

	"github.com/opd-ai/go-systemkit/internal/platform"
)

// SystemData is a snapshot of the dynamic host metrics.
// A metric whose source failed in the last update keeps its previous value
// and is listed in Err.
type SystemData struct {
	// CPU is the usage since the previous update.
	CPU CPUUsage
	// Memory is the page occupancy in bytes.
	Memory MemoryBytes
	// Load is the 1, 5 and 15 minute load average.
	Load platform.LoadAverage
	// MachFactor is the number of idle logical CPUs.
	MachFactor int
	// Tasks holds the process and thread totals.
	Tasks platform.TaskCounts
	// Uptime is the time since boot.
	Uptime time.Duration
	// ThermalLevel is the CPU thermal pressure level, 0 when unthrottled.
	ThermalLevel int
	// UpdatedAt is when the last update finished.
	UpdatedAt time.Time
	// Err holds the failures of the last update, or nil.
	Err *UpdateError
}

// Failed reports whether source failed in the last update.
func (d SystemData) Failed(source ErrorSource) bool {
	return d.Err != nil && d.Err.HasSource(source)
}

// ErrorFor returns the first error from source in the last update, or nil.
func (d SystemData) ErrorFor(source ErrorSource) error {
	if d.Err == nil {
		return nil
	}
	if errs := d.Err.BySource(source); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// systemData guards a SystemData shared between the update loop and readers.
type systemData struct {
	mu   sync.RWMutex
	data SystemData
}

func (s *systemData) get() SystemData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *systemData) update(fn func(*SystemData)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}
