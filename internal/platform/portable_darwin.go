//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// darwinToolTimeout bounds each helper command.
const darwinToolTimeout = 5 * time.Second

// darwinCommandLen is the size of p_comm in struct extern_proc.
const darwinCommandLen = 17

func hostExtras() portableExtras {
	return portableExtras{
		vmStatistics: darwinVMStatistics,
		model:        darwinModel,
		thermalLevel: darwinThermalLevel,
		powerLimit:   darwinPowerLimit,
		power:        &darwinPowerSource{},
		commandLen:   darwinCommandLen,
	}
}

// runTool runs a system utility with a timeout and returns its stdout.
func runTool(name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), darwinToolTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if ctx.Err() != nil {
		return "", fmt.Errorf("%s timed out after %v", name, darwinToolTimeout)
	}
	if err != nil {
		return "", fmt.Errorf("running %s: %w", name, err)
	}
	return string(out), nil
}

func darwinVMStatistics() (VMStatistics, uint64, error) {
	out, err := runTool("vm_stat")
	if err != nil {
		return VMStatistics{}, 0, err
	}
	return parseVMStatOutput(out)
}

func darwinModel() (string, error) {
	model, err := unix.Sysctl("hw.model")
	if err != nil {
		return "", fmt.Errorf("sysctl hw.model: %w", err)
	}
	return model, nil
}

// darwinThermalLevel reads the XCPM thermal level. Machines without XCPM
// (Apple silicon) do not expose the key and report 0.
func darwinThermalLevel() (int, error) {
	level, err := unix.SysctlUint32("machdep.xcpm.cpu_thermal_level")
	if err != nil {
		return 0, nil
	}
	return int(level), nil
}

func darwinPowerLimit(logical int) (PowerLimit, error) {
	out, err := runTool("pmset", "-g", "therm")
	if err != nil {
		return PowerLimit{}, err
	}
	return parsePmsetTherm(out, logical), nil
}

// darwinPowerSource looks up batteries in the I/O Kit registry.
type darwinPowerSource struct{}

func (s *darwinPowerSource) DefaultName() string {
	return "AppleSmartBattery"
}

func (s *darwinPowerSource) Lookup(name string) (PowerEntry, error) {
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return nil, fmt.Errorf("power supply %q: %w", name, ErrNotFound)
	}
	out, err := runTool("ioreg", "-rn", name)
	if err != nil {
		return nil, err
	}
	entry := parseIORegBattery(out)
	if entry == nil {
		return nil, fmt.Errorf("power supply %q: %w", name, ErrNotFound)
	}
	return entry, nil
}
