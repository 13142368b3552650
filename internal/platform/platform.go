//go:generate mockgen -source=platform.go -destination=mocks/mock_platform.go -package=mocks

package platform

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a named OS resource (a battery, a process)
// does not exist on this host.
var ErrNotFound = errors.New("resource not found")

// ErrUnsupported is returned by provider methods the platform cannot answer.
var ErrUnsupported = errors.New("not supported on this platform")

// Platform defines the interface for OS-specific host information.
// Each supported operating system implements this interface to provide
// unified access to raw host counters.
type Platform interface {
	// Name returns the platform identifier (e.g., "linux", "portable", "remote-linux").
	Name() string

	// Initialize prepares the platform for data collection.
	// Returns an error if the platform cannot be initialized.
	Initialize(ctx context.Context) error

	// Close releases any platform-specific resources.
	Close() error

	// CPU returns the CPU counters provider for this platform.
	CPU() CPUProvider

	// Memory returns the virtual memory provider for this platform.
	Memory() MemoryProvider

	// System returns the kernel and scheduler information provider.
	System() SystemProvider

	// Process returns the per-process information provider.
	Process() ProcessProvider

	// Power returns the battery registry for this platform.
	// Returns nil if the platform has no power sources to look up.
	Power() PowerSource
}

// CPUProvider defines the interface for raw CPU counters.
type CPUProvider interface {
	// Cores returns the physical and logical core counts.
	Cores() (CoreCounts, error)

	// Ticks returns the aggregate cumulative tick counters since boot.
	Ticks() (TickSnapshot, error)

	// LoadAverage returns the 1, 5 and 15 minute load averages.
	LoadAverage() (LoadAverage, error)

	// Running returns the number of currently runnable scheduling entities.
	Running() (int, error)
}

// MemoryProvider defines the interface for virtual memory counters.
type MemoryProvider interface {
	// PageSize returns the VM page size in bytes.
	PageSize() uint64

	// VMStatistics returns the current page counts.
	VMStatistics() (VMStatistics, error)

	// PhysicalMemory returns the installed physical memory in bytes.
	PhysicalMemory() (uint64, error)
}

// SystemProvider defines the interface for kernel and scheduler information.
type SystemProvider interface {
	// Uname returns the kernel identification strings.
	Uname() (Uname, error)

	// Model returns the hardware model name.
	Model() (string, error)

	// Uptime returns the time elapsed since boot.
	Uptime() (time.Duration, error)

	// TaskCounts returns the number of processes and threads.
	TaskCounts() (TaskCounts, error)

	// ThermalLevel returns the current CPU thermal pressure level, 0 when unthrottled.
	ThermalLevel() (int, error)

	// PowerLimit returns the CPU power management limits.
	PowerLimit() (PowerLimit, error)
}

// ProcessProvider defines the interface for per-process information.
type ProcessProvider interface {
	// Pids returns the identifiers of all live processes.
	Pids() ([]int, error)

	// Info returns a snapshot of the process with the given pid.
	// Returns an error wrapping ErrNotFound if the process does not exist.
	Info(pid int) (ProcessRecord, error)
}

// PowerSource is a registry of named power supply resources.
type PowerSource interface {
	// DefaultName returns the name of the platform's primary battery.
	DefaultName() string

	// Lookup finds a power supply by name.
	// Returns an error wrapping ErrNotFound if no such resource exists.
	Lookup(name string) (PowerEntry, error)
}

// PowerEntry is an acquired reference to a power supply.
// Reads after Release are undefined.
type PowerEntry interface {
	// Int returns an integer property.
	Int(key PowerKey) (int64, error)

	// Bool returns a boolean property.
	Bool(key PowerKey) (bool, error)

	// Release drops the reference to the resource.
	Release() error
}

// PowerKey names a scalar battery property.
type PowerKey string

// Battery property keys. Capacities are in mAh, temperature in hundredths
// of a degree Celsius and time remaining in minutes.
const (
	KeyExternalConnected PowerKey = "ExternalConnected"
	KeyIsCharging        PowerKey = "IsCharging"
	KeyFullyCharged      PowerKey = "FullyCharged"
	KeyCurrentCapacity   PowerKey = "CurrentCapacity"
	KeyMaxCapacity       PowerKey = "MaxCapacity"
	KeyDesignCapacity    PowerKey = "DesignCapacity"
	KeyCycleCount        PowerKey = "CycleCount"
	KeyDesignCycleCount  PowerKey = "DesignCycleCount9C"
	KeyTemperature       PowerKey = "Temperature"
	KeyTimeRemaining     PowerKey = "TimeRemaining"
)

// CoreCounts contains the number of CPU cores.
type CoreCounts struct {
	Physical int
	Logical  int
}

// TickSnapshot holds cumulative scheduler ticks per CPU state.
// Counters only increase until the host reboots.
type TickSnapshot struct {
	User   uint64
	System uint64
	Idle   uint64
	Nice   uint64
}

// LoadAverage holds the 1, 5 and 15 minute load averages.
type LoadAverage struct {
	One     float64
	Five    float64
	Fifteen float64
}

// VMStatistics holds virtual memory page counts.
type VMStatistics struct {
	Free       uint64
	Active     uint64
	Inactive   uint64
	Wired      uint64
	Compressed uint64
}

// Uname contains kernel identification strings.
type Uname struct {
	Sysname  string
	Nodename string
	Release  string
	Version  string
	Machine  string
}

// TaskCounts contains process and thread totals.
type TaskCounts struct {
	Processes int
	Threads   int
}

// PowerLimit describes CPU power management limits. Percentages are 0-100.
type PowerLimit struct {
	SpeedLimit     int
	CPUsAvailable  int
	SchedulerLimit int
}

// ProcessRecord is a read-only snapshot of a process.
type ProcessRecord struct {
	PID     int
	PPID    int
	PGID    int
	UID     int
	Command string
	Arch    string
	State   ProcessState
}

// ProcessState is the scheduler run state of a process.
type ProcessState int

const (
	ProcessUnknown ProcessState = iota
	ProcessIdle
	ProcessRunning
	ProcessSleeping
	ProcessStopped
	ProcessZombie
)

// String returns the string representation of a ProcessState.
func (s ProcessState) String() string {
	switch s {
	case ProcessIdle:
		return "idle"
	case ProcessRunning:
		return "running"
	case ProcessSleeping:
		return "sleeping"
	case ProcessStopped:
		return "stopped"
	case ProcessZombie:
		return "zombie"
	default:
		return "unknown"
	}
}
