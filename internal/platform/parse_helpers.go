package platform

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// cpuTimes stores raw CPU time values from the aggregate /proc/stat line.
type cpuTimes struct {
	user    uint64
	nice    uint64
	system  uint64
	idle    uint64
	iowait  uint64
	irq     uint64
	softirq uint64
	steal   uint64
}

// snapshot folds the Linux CPU states into the four scheduler buckets.
// Interrupt and steal time count as system time, I/O wait counts as idle.
func (c cpuTimes) snapshot() TickSnapshot {
	return TickSnapshot{
		User:   c.user,
		System: c.system + c.irq + c.softirq + c.steal,
		Idle:   c.idle + c.iowait,
		Nice:   c.nice,
	}
}

// parseProcStat finds the aggregate "cpu" line of /proc/stat and returns its ticks.
// This function is used by both local and remote Linux providers.
func parseProcStat(output string) (TickSnapshot, error) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != "cpu" {
			continue
		}
		t, err := parseCPULine(fields[1:])
		if err != nil {
			return TickSnapshot{}, fmt.Errorf("parsing cpu line: %w", err)
		}
		return t.snapshot(), nil
	}
	return TickSnapshot{}, fmt.Errorf("no aggregate cpu line in /proc/stat")
}

// parseCPULine parses the numeric fields of a /proc/stat cpu line.
func parseCPULine(fields []string) (cpuTimes, error) {
	if len(fields) < 4 {
		return cpuTimes{}, fmt.Errorf("insufficient fields: got %d, need at least 4", len(fields))
	}

	var values [8]uint64
	for i := 0; i < len(values) && i < len(fields); i++ {
		v, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return cpuTimes{}, fmt.Errorf("parsing field %d: %w", i, err)
		}
		values[i] = v
	}

	return cpuTimes{
		user:    values[0],
		nice:    values[1],
		system:  values[2],
		idle:    values[3],
		iowait:  values[4],
		irq:     values[5],
		softirq: values[6],
		steal:   values[7],
	}, nil
}

// parseCPUInfoCores counts logical processors and distinct (physical id, core id)
// pairs in /proc/cpuinfo. Hosts that omit topology fields report one physical
// core per logical processor.
func parseCPUInfoCores(output string) (CoreCounts, error) {
	var counts CoreCounts
	cores := make(map[string]struct{})
	physID, coreID := "", ""

	flush := func() {
		if coreID != "" {
			cores[physID+"/"+coreID] = struct{}{}
		}
		physID, coreID = "", ""
	}

	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			if strings.TrimSpace(line) == "" {
				flush()
			}
			continue
		}
		switch strings.TrimSpace(key) {
		case "processor":
			counts.Logical++
		case "physical id":
			physID = strings.TrimSpace(value)
		case "core id":
			coreID = strings.TrimSpace(value)
		}
	}
	flush()

	if counts.Logical == 0 {
		return CoreCounts{}, fmt.Errorf("no processor entries in /proc/cpuinfo")
	}
	counts.Physical = len(cores)
	if counts.Physical == 0 {
		counts.Physical = counts.Logical
	}
	return counts, nil
}

// parseVMStat reads page counters from /proc/vmstat.
// Wired pages are those the kernel cannot reclaim or swap; compressed pages
// are the zsmalloc pool backing zram/zswap.
func parseVMStat(output string) (VMStatistics, error) {
	values := make(map[string]uint64)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		values[fields[0]] = v
	}

	free, ok := values["nr_free_pages"]
	if !ok {
		return VMStatistics{}, fmt.Errorf("nr_free_pages missing from /proc/vmstat")
	}

	return VMStatistics{
		Free:       free,
		Active:     values["nr_active_anon"] + values["nr_active_file"],
		Inactive:   values["nr_inactive_anon"] + values["nr_inactive_file"],
		Wired:      values["nr_unevictable"] + values["nr_slab_unreclaimable"] + values["nr_page_table_pages"],
		Compressed: values["nr_zspages"],
	}, nil
}

// parseMemTotal returns MemTotal from /proc/meminfo in bytes.
func parseMemTotal(output string) (uint64, error) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "MemTotal:" {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing MemTotal: %w", err)
		}
		if kb > ^uint64(0)/1024 {
			return 0, fmt.Errorf("MemTotal overflows: %d kB", kb)
		}
		return kb * 1024, nil
	}
	return 0, fmt.Errorf("MemTotal missing from /proc/meminfo")
}

// loadAvgInfo holds every field of /proc/loadavg.
type loadAvgInfo struct {
	load    LoadAverage
	running int
	threads int
}

// parseLoadAvg parses /proc/loadavg, e.g. "0.52 0.58 0.59 2/1234 5678".
func parseLoadAvg(output string) (loadAvgInfo, error) {
	fields := strings.Fields(output)
	if len(fields) < 4 {
		return loadAvgInfo{}, fmt.Errorf("unexpected /proc/loadavg format: %q", output)
	}

	var info loadAvgInfo
	var err error
	if info.load.One, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return loadAvgInfo{}, fmt.Errorf("parsing 1min load: %w", err)
	}
	if info.load.Five, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return loadAvgInfo{}, fmt.Errorf("parsing 5min load: %w", err)
	}
	if info.load.Fifteen, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return loadAvgInfo{}, fmt.Errorf("parsing 15min load: %w", err)
	}

	running, total, ok := strings.Cut(fields[3], "/")
	if !ok {
		return loadAvgInfo{}, fmt.Errorf("unexpected scheduling entity field: %q", fields[3])
	}
	if info.running, err = strconv.Atoi(running); err != nil {
		return loadAvgInfo{}, fmt.Errorf("parsing running count: %w", err)
	}
	if info.threads, err = strconv.Atoi(total); err != nil {
		return loadAvgInfo{}, fmt.Errorf("parsing thread count: %w", err)
	}
	return info, nil
}

// parseUptime parses the first field of /proc/uptime.
func parseUptime(output string) (time.Duration, error) {
	fields := strings.Fields(output)
	if len(fields) < 1 {
		return 0, fmt.Errorf("empty /proc/uptime")
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parsing uptime: %w", err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Field indexes in /proc/[pid]/stat after the command name.
const (
	statFieldState      = 0
	statFieldPPID       = 1
	statFieldPGRP       = 2
	statFieldNumThreads = 17
)

// pidStat holds the fields of /proc/[pid]/stat this package uses.
type pidStat struct {
	pid        int
	comm       []byte
	state      ProcessState
	ppid       int
	pgrp       int
	numThreads int
}

// parsePIDStat parses /proc/[pid]/stat. The command name is enclosed in
// parentheses and may itself contain spaces or parentheses.
func parsePIDStat(data []byte) (pidStat, error) {
	open := strings.IndexByte(string(data), '(')
	closing := strings.LastIndexByte(string(data), ')')
	if open < 0 || closing < open {
		return pidStat{}, fmt.Errorf("malformed stat line")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data[:open])))
	if err != nil {
		return pidStat{}, fmt.Errorf("parsing pid: %w", err)
	}

	fields := strings.Fields(string(data[closing+1:]))
	if len(fields) <= statFieldNumThreads {
		return pidStat{}, fmt.Errorf("insufficient stat fields: got %d", len(fields))
	}

	st := pidStat{
		pid:   pid,
		comm:  data[open+1 : closing],
		state: parseProcessState(fields[statFieldState]),
	}
	if st.ppid, err = strconv.Atoi(fields[statFieldPPID]); err != nil {
		return pidStat{}, fmt.Errorf("parsing ppid: %w", err)
	}
	if st.pgrp, err = strconv.Atoi(fields[statFieldPGRP]); err != nil {
		return pidStat{}, fmt.Errorf("parsing pgrp: %w", err)
	}
	if st.numThreads, err = strconv.Atoi(fields[statFieldNumThreads]); err != nil {
		return pidStat{}, fmt.Errorf("parsing num_threads: %w", err)
	}
	return st, nil
}

// parseProcessState maps a Linux state letter to a ProcessState.
func parseProcessState(s string) ProcessState {
	if s == "" {
		return ProcessUnknown
	}
	switch s[0] {
	case 'R':
		return ProcessRunning
	case 'S', 'D':
		return ProcessSleeping
	case 'I':
		return ProcessIdle
	case 'T', 't':
		return ProcessStopped
	case 'Z', 'X':
		return ProcessZombie
	default:
		return ProcessUnknown
	}
}

// parseStatusUID returns the real uid from /proc/[pid]/status.
func parseStatusUID(output string) (int, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "Uid:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		return strconv.Atoi(fields[1])
	}
	return 0, fmt.Errorf("Uid line missing from status")
}

// parseKeyValueLines parses "key = value" or "key: value" lines into a map.
// Surrounding quotes are stripped from keys and values.
func parseKeyValueLines(output, sep string) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, sep)
		if !ok {
			continue
		}
		key = strings.Trim(strings.TrimLeft(strings.TrimSpace(key), "| "), `"`)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return values
}

// parseVMStatOutput parses the darwin vm_stat command, e.g.
//
//	Mach Virtual Memory Statistics: (page size of 16384 bytes)
//	Pages free:                               12345.
//	Pages occupied by compressor:              6789.
func parseVMStatOutput(output string) (VMStatistics, uint64, error) {
	var pageSize uint64
	if _, rest, ok := strings.Cut(output, "page size of "); ok {
		if n, _, ok := strings.Cut(rest, " "); ok {
			pageSize, _ = strconv.ParseUint(n, 10, 64)
		}
	}

	values := parseKeyValueLines(output, ":")
	page := func(key string) uint64 {
		return parseUint64(strings.TrimSuffix(values[key], "."))
	}

	if _, ok := values["Pages free"]; !ok {
		return VMStatistics{}, 0, fmt.Errorf("unexpected vm_stat output")
	}
	return VMStatistics{
		Free:       page("Pages free"),
		Active:     page("Pages active"),
		Inactive:   page("Pages inactive"),
		Wired:      page("Pages wired down"),
		Compressed: page("Pages occupied by compressor"),
	}, pageSize, nil
}

// parsePmsetTherm parses "pmset -g therm" CPU power status lines such as
// "CPU_Speed_Limit = 100". A host that has not recorded a limit prints none
// of these keys and is reported as unthrottled.
func parsePmsetTherm(output string, logical int) PowerLimit {
	values := parseKeyValueLines(output, "=")
	limit := PowerLimit{SpeedLimit: 100, CPUsAvailable: logical, SchedulerLimit: 100}
	if v, err := strconv.Atoi(values["CPU_Speed_Limit"]); err == nil {
		limit.SpeedLimit = v
	}
	if v, err := strconv.Atoi(values["CPU_Available_CPUs"]); err == nil {
		limit.CPUsAvailable = v
	}
	if v, err := strconv.Atoi(values["CPU_Scheduler_Limit"]); err == nil {
		limit.SchedulerLimit = v
	}
	return limit
}
