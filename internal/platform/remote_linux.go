package platform

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// remoteCPUProvider implements CPUProvider for remote Linux hosts.
type remoteCPUProvider struct {
	runner commandRunner
}

func (c *remoteCPUProvider) Cores() (CoreCounts, error) {
	out, err := c.runner.runCommand("cat /proc/cpuinfo")
	if err != nil {
		return CoreCounts{}, fmt.Errorf("reading /proc/cpuinfo: %w", err)
	}
	return parseCPUInfoCores(out)
}

func (c *remoteCPUProvider) Ticks() (TickSnapshot, error) {
	out, err := c.runner.runCommand("head -n 1 /proc/stat")
	if err != nil {
		return TickSnapshot{}, fmt.Errorf("reading /proc/stat: %w", err)
	}
	return parseProcStat(out)
}

func (c *remoteCPUProvider) LoadAverage() (LoadAverage, error) {
	info, err := c.readLoadAvg()
	if err != nil {
		return LoadAverage{}, err
	}
	return info.load, nil
}

func (c *remoteCPUProvider) Running() (int, error) {
	info, err := c.readLoadAvg()
	if err != nil {
		return 0, err
	}
	return info.running, nil
}

func (c *remoteCPUProvider) readLoadAvg() (loadAvgInfo, error) {
	out, err := c.runner.runCommand("cat /proc/loadavg")
	if err != nil {
		return loadAvgInfo{}, fmt.Errorf("reading /proc/loadavg: %w", err)
	}
	return parseLoadAvg(out)
}

// remoteMemoryProvider implements MemoryProvider for remote Linux hosts.
type remoteMemoryProvider struct {
	runner   commandRunner
	pageSize uint64
}

func (m *remoteMemoryProvider) PageSize() uint64 {
	return m.pageSize
}

func (m *remoteMemoryProvider) VMStatistics() (VMStatistics, error) {
	out, err := m.runner.runCommand("cat /proc/vmstat")
	if err != nil {
		return VMStatistics{}, fmt.Errorf("reading /proc/vmstat: %w", err)
	}
	return parseVMStat(out)
}

func (m *remoteMemoryProvider) PhysicalMemory() (uint64, error) {
	out, err := m.runner.runCommand("grep MemTotal /proc/meminfo")
	if err != nil {
		return 0, fmt.Errorf("reading /proc/meminfo: %w", err)
	}
	return parseMemTotal(out)
}

// remoteUnameCommand prints one uname field per line; -v output contains spaces.
const remoteUnameCommand = `for f in s n r v m; do uname -$f; done`

// remoteCoolingCommand prints "type cur_state" for every cooling device.
const remoteCoolingCommand = `for d in /sys/class/thermal/cooling_device*; do [ -r "$d/cur_state" ] && echo "$(cat "$d/type") $(cat "$d/cur_state")"; done; true`

// remoteSystemProvider implements SystemProvider for remote Linux hosts.
type remoteSystemProvider struct {
	runner commandRunner
}

func (s *remoteSystemProvider) Uname() (Uname, error) {
	out, err := s.runner.runCommand(remoteUnameCommand)
	if err != nil {
		return Uname{}, fmt.Errorf("running uname: %w", err)
	}
	return parseUnameLines(out)
}

// parseUnameLines parses the five lines printed by remoteUnameCommand.
func parseUnameLines(out string) (Uname, error) {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		return Uname{}, fmt.Errorf("unexpected uname output: %d lines", len(lines))
	}
	return Uname{
		Sysname:  strings.TrimSpace(lines[0]),
		Nodename: strings.TrimSpace(lines[1]),
		Release:  strings.TrimSpace(lines[2]),
		Version:  strings.TrimSpace(lines[3]),
		Machine:  strings.TrimSpace(lines[4]),
	}, nil
}

func (s *remoteSystemProvider) Model() (string, error) {
	out, err := s.runner.runCommand("cat /sys/devices/virtual/dmi/id/product_name 2>/dev/null || cat /sys/firmware/devicetree/base/model")
	if err != nil {
		return "", fmt.Errorf("reading hardware model: %w", err)
	}
	return strings.TrimSpace(strings.TrimRight(out, "\x00\n")), nil
}

func (s *remoteSystemProvider) Uptime() (time.Duration, error) {
	out, err := s.runner.runCommand("cat /proc/uptime")
	if err != nil {
		return 0, fmt.Errorf("reading /proc/uptime: %w", err)
	}
	return parseUptime(out)
}

func (s *remoteSystemProvider) TaskCounts() (TaskCounts, error) {
	out, err := s.runner.runCommand("cat /proc/loadavg; ls -1 /proc | grep -c '^[0-9][0-9]*$'")
	if err != nil {
		return TaskCounts{}, fmt.Errorf("counting tasks: %w", err)
	}
	loadLine, countLine, ok := strings.Cut(strings.TrimSpace(out), "\n")
	if !ok {
		return TaskCounts{}, fmt.Errorf("unexpected task count output: %q", out)
	}
	info, err := parseLoadAvg(loadLine)
	if err != nil {
		return TaskCounts{}, err
	}
	procs, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil {
		return TaskCounts{}, fmt.Errorf("parsing process count: %w", err)
	}
	return TaskCounts{Processes: procs, Threads: info.threads}, nil
}

func (s *remoteSystemProvider) ThermalLevel() (int, error) {
	out, err := s.runner.runCommand(remoteCoolingCommand)
	if err != nil {
		return 0, fmt.Errorf("reading cooling devices: %w", err)
	}
	return parseCoolingStates(out), nil
}

// parseCoolingStates returns the highest cur_state among processor cooling
// devices in "type state" lines.
func parseCoolingStates(out string) int {
	level := 0
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		kind := strings.Join(fields[:len(fields)-1], " ")
		if !isProcessorCooling(kind) {
			continue
		}
		if state, err := strconv.Atoi(fields[len(fields)-1]); err == nil && state > level {
			level = state
		}
	}
	return level
}

func (s *remoteSystemProvider) PowerLimit() (PowerLimit, error) {
	return PowerLimit{}, fmt.Errorf("remote power limit: %w", ErrUnsupported)
}

// remoteProcessProvider implements ProcessProvider for remote Linux hosts.
type remoteProcessProvider struct {
	runner commandRunner
}

func (p *remoteProcessProvider) Pids() ([]int, error) {
	out, err := p.runner.runCommand("ls -1 /proc")
	if err != nil {
		return nil, fmt.Errorf("listing /proc: %w", err)
	}
	var pids []int
	for _, name := range strings.Fields(out) {
		if pid, err := strconv.Atoi(name); err == nil && pid > 0 {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

func (p *remoteProcessProvider) Info(pid int) (ProcessRecord, error) {
	if pid <= 0 {
		return ProcessRecord{}, fmt.Errorf("process %d: %w", pid, ErrNotFound)
	}
	out, err := p.runner.runCommand(fmt.Sprintf("cat /proc/%d/stat && grep '^Uid:' /proc/%d/status", pid, pid))
	if err != nil {
		return ProcessRecord{}, fmt.Errorf("reading process %d: %w", pid, err)
	}

	statLine, uidLine, _ := strings.Cut(out, "\n")
	st, err := parsePIDStat([]byte(statLine))
	if err != nil {
		return ProcessRecord{}, fmt.Errorf("parsing stat for process %d: %w", pid, err)
	}

	rec := ProcessRecord{
		PID:     st.pid,
		PPID:    st.ppid,
		PGID:    st.pgrp,
		UID:     -1,
		Command: DecodeCommand(st.comm, MaxCommandLen),
		Arch:    "unknown",
		State:   st.state,
	}
	if uid, err := parseStatusUID(uidLine); err == nil {
		rec.UID = uid
	}
	return rec, nil
}
