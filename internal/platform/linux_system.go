package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// linuxSystemProvider implements SystemProvider from procfs, sysfs and uname(2).
type linuxSystemProvider struct {
	procRoot string
	sysRoot  string
	cpu      *linuxCPUProvider
	uname    func() (Uname, error)
}

func newLinuxSystemProvider(procRoot, sysRoot string, cpu *linuxCPUProvider) *linuxSystemProvider {
	return &linuxSystemProvider{
		procRoot: procRoot,
		sysRoot:  sysRoot,
		cpu:      cpu,
		uname:    unameSyscall,
	}
}

func (s *linuxSystemProvider) Uname() (Uname, error) {
	return s.uname()
}

// Model returns the DMI product name, or the device tree model on boards
// without DMI.
func (s *linuxSystemProvider) Model() (string, error) {
	candidates := []string{
		filepath.Join(s.sysRoot, "devices", "virtual", "dmi", "id", "product_name"),
		filepath.Join(s.sysRoot, "firmware", "devicetree", "base", "model"),
	}
	for _, path := range candidates {
		if model, ok := readStringFile(path); ok && model != "" {
			return strings.TrimRight(model, "\x00"), nil
		}
	}
	return "", fmt.Errorf("hardware model: %w", ErrUnsupported)
}

func (s *linuxSystemProvider) Uptime() (time.Duration, error) {
	path := filepath.Join(s.procRoot, "uptime")
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return parseUptime(string(data))
}

// TaskCounts counts process directories in procfs and takes the thread
// total from the scheduling entity field of /proc/loadavg.
func (s *linuxSystemProvider) TaskCounts() (TaskCounts, error) {
	pids, err := listPIDs(s.procRoot)
	if err != nil {
		return TaskCounts{}, err
	}
	info, err := s.cpu.readLoadAvg()
	if err != nil {
		return TaskCounts{}, err
	}
	return TaskCounts{Processes: len(pids), Threads: info.threads}, nil
}

// ThermalLevel returns the highest throttling state of the processor
// cooling devices. Hosts without processor cooling devices report 0.
func (s *linuxSystemProvider) ThermalLevel() (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.sysRoot, "class", "thermal", "cooling_device*"))
	if err != nil {
		return 0, fmt.Errorf("listing cooling devices: %w", err)
	}

	level := 0
	for _, dir := range matches {
		kind, ok := readStringFile(filepath.Join(dir, "type"))
		if !ok || !isProcessorCooling(kind) {
			continue
		}
		state, ok := readInt64File(filepath.Join(dir, "cur_state"))
		if ok && int(state) > level {
			level = int(state)
		}
	}
	return level, nil
}

func isProcessorCooling(kind string) bool {
	return kind == "Processor" || strings.HasPrefix(kind, "intel_powerclamp") || strings.HasPrefix(kind, "cpufreq")
}

// PowerLimit derives the CPU speed limit from cpufreq, the available CPUs
// from the online mask and the scheduler limit from the cgroup v2 CPU quota.
func (s *linuxSystemProvider) PowerLimit() (PowerLimit, error) {
	cpuDir := filepath.Join(s.sysRoot, "devices", "system", "cpu")

	online, ok := readStringFile(filepath.Join(cpuDir, "online"))
	if !ok {
		return PowerLimit{}, fmt.Errorf("reading %s: %w", filepath.Join(cpuDir, "online"), ErrUnsupported)
	}
	cpus, err := parseCPUList(online)
	if err != nil {
		return PowerLimit{}, err
	}

	limit := PowerLimit{SpeedLimit: 100, CPUsAvailable: cpus, SchedulerLimit: 100}

	freqDirs, _ := filepath.Glob(filepath.Join(cpuDir, "cpu[0-9]*", "cpufreq"))
	for _, dir := range freqDirs {
		maxFreq, ok1 := readUint64File(filepath.Join(dir, "cpuinfo_max_freq"))
		capFreq, ok2 := readUint64File(filepath.Join(dir, "scaling_max_freq"))
		if !ok1 || !ok2 || maxFreq == 0 {
			continue
		}
		if pct := int(capFreq * 100 / maxFreq); pct < limit.SpeedLimit {
			limit.SpeedLimit = pct
		}
	}

	if quota, ok := readStringFile(filepath.Join(s.sysRoot, "fs", "cgroup", "cpu.max")); ok {
		limit.SchedulerLimit = parseCgroupCPUMax(quota, cpus)
	}
	return limit, nil
}

// parseCPUList counts the CPUs in a kernel cpu list such as "0-3,6,8-9".
func parseCPUList(list string) (int, error) {
	count := 0
	for _, part := range strings.Split(strings.TrimSpace(list), ",") {
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(lo)
		if err != nil {
			return 0, fmt.Errorf("parsing cpu list %q: %w", list, err)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(hi); err != nil {
				return 0, fmt.Errorf("parsing cpu list %q: %w", list, err)
			}
		}
		if last < first {
			return 0, fmt.Errorf("parsing cpu list %q: descending range", list)
		}
		count += last - first + 1
	}
	return count, nil
}

// parseCgroupCPUMax converts a cgroup v2 cpu.max line ("quota period" or
// "max period") to the share of the online CPUs the group may use.
func parseCgroupCPUMax(line string, cpus int) int {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] == "max" || cpus <= 0 {
		return 100
	}
	quota, err1 := strconv.ParseFloat(fields[0], 64)
	period, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil || period <= 0 {
		return 100
	}
	pct := int(quota / period / float64(cpus) * 100)
	if pct > 100 {
		return 100
	}
	return pct
}
