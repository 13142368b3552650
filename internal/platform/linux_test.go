package platform

import (
	"context"
	"debug/elf"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// newFixturePlatform initialises a linux platform over temporary procfs and
// sysfs trees.
func newFixturePlatform(t *testing.T) (Platform, string, string) {
	t.Helper()
	root := t.TempDir()
	procRoot := filepath.Join(root, "proc")
	sysRoot := filepath.Join(root, "sys")

	writeFile(t, filepath.Join(procRoot, "stat"), "cpu  100 10 50 500 20 5 3 2 0 0\ncpu0 100 10 50 500 20 5 3 2 0 0\n")
	writeFile(t, filepath.Join(procRoot, "cpuinfo"), "processor\t: 0\nphysical id\t: 0\ncore id\t\t: 0\n\nprocessor\t: 1\nphysical id\t: 0\ncore id\t\t: 0\n")
	writeFile(t, filepath.Join(procRoot, "loadavg"), "1.50 1.25 1.00 2/345 6789\n")
	writeFile(t, filepath.Join(procRoot, "vmstat"), "nr_free_pages 1000\nnr_active_anon 10\nnr_active_file 20\n")
	writeFile(t, filepath.Join(procRoot, "meminfo"), "MemTotal:        8000000 kB\n")
	writeFile(t, filepath.Join(procRoot, "uptime"), "3600.00 7000.00\n")

	p := NewLinuxPlatformWithRoots(procRoot, sysRoot)
	if err := p.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return p, procRoot, sysRoot
}

func TestLinuxPlatform_Initialize(t *testing.T) {
	p := NewLinuxPlatform()
	if p.Name() != "linux" {
		t.Errorf("Name() = %q, want linux", p.Name())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Initialize(ctx); err == nil {
		t.Error("Initialize() with cancelled context expected error")
	}
	if p.CPU() != nil {
		t.Error("CPU() should be nil before a successful Initialize")
	}
}

func TestLinuxCPUProvider(t *testing.T) {
	p, _, _ := newFixturePlatform(t)
	cpu := p.CPU()

	ticks, err := cpu.Ticks()
	if err != nil {
		t.Fatalf("Ticks() error = %v", err)
	}
	if want := (TickSnapshot{User: 100, System: 60, Idle: 520, Nice: 10}); ticks != want {
		t.Errorf("Ticks() = %+v, want %+v", ticks, want)
	}

	cores, err := cpu.Cores()
	if err != nil {
		t.Fatalf("Cores() error = %v", err)
	}
	if want := (CoreCounts{Physical: 1, Logical: 2}); cores != want {
		t.Errorf("Cores() = %+v, want %+v", cores, want)
	}

	load, err := cpu.LoadAverage()
	if err != nil {
		t.Fatalf("LoadAverage() error = %v", err)
	}
	if load.One != 1.5 || load.Five != 1.25 || load.Fifteen != 1.0 {
		t.Errorf("LoadAverage() = %+v", load)
	}

	running, err := cpu.Running()
	if err != nil || running != 2 {
		t.Errorf("Running() = %d, %v, want 2, nil", running, err)
	}
}

func TestLinuxCPUProvider_MissingFile(t *testing.T) {
	c := newLinuxCPUProvider(t.TempDir())
	if _, err := c.Ticks(); err == nil {
		t.Error("Ticks() with missing /proc/stat expected error")
	}
}

func TestLinuxMemoryProvider(t *testing.T) {
	p, _, _ := newFixturePlatform(t)
	mem := p.Memory()

	if mem.PageSize() == 0 {
		t.Error("PageSize() = 0")
	}

	vm, err := mem.VMStatistics()
	if err != nil {
		t.Fatalf("VMStatistics() error = %v", err)
	}
	if vm.Free != 1000 || vm.Active != 30 {
		t.Errorf("VMStatistics() = %+v, want Free=1000 Active=30", vm)
	}

	total, err := mem.PhysicalMemory()
	if err != nil {
		t.Fatalf("PhysicalMemory() error = %v", err)
	}
	if total != 8000000*1024 {
		t.Errorf("PhysicalMemory() = %d, want %d", total, 8000000*1024)
	}
}

func TestLinuxSystemProvider(t *testing.T) {
	p, procRoot, sysRoot := newFixturePlatform(t)
	sys := p.System()

	writeFile(t, filepath.Join(procRoot, "1", "stat"), "1 (init) S 0 1 1 0 -1 0 0 0 0 0 0 0 0 0 20 0 1 0 1 0 0\n")
	writeFile(t, filepath.Join(procRoot, "42", "stat"), "42 (bash) S 1 42 42 0 -1 0 0 0 0 0 0 0 0 0 20 0 1 0 1 0 0\n")
	writeFile(t, filepath.Join(procRoot, "self", "stat"), "")

	counts, err := sys.TaskCounts()
	if err != nil {
		t.Fatalf("TaskCounts() error = %v", err)
	}
	if want := (TaskCounts{Processes: 2, Threads: 345}); counts != want {
		t.Errorf("TaskCounts() = %+v, want %+v", counts, want)
	}

	uptime, err := sys.Uptime()
	if err != nil || uptime != time.Hour {
		t.Errorf("Uptime() = %v, %v, want 1h, nil", uptime, err)
	}

	if _, err := sys.Model(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Model() without DMI error = %v, want ErrUnsupported", err)
	}
	writeFile(t, filepath.Join(sysRoot, "firmware", "devicetree", "base", "model"), "Raspberry Pi 4 Model B Rev 1.4\x00")
	if model, err := sys.Model(); err != nil || model != "Raspberry Pi 4 Model B Rev 1.4" {
		t.Errorf("Model() = %q, %v", model, err)
	}
	writeFile(t, filepath.Join(sysRoot, "devices", "virtual", "dmi", "id", "product_name"), "ThinkPad X1 Carbon\n")
	if model, err := sys.Model(); err != nil || model != "ThinkPad X1 Carbon" {
		t.Errorf("Model() = %q, %v, want DMI product name", model, err)
	}
}

func TestLinuxSystemProvider_ThermalLevel(t *testing.T) {
	p, _, sysRoot := newFixturePlatform(t)
	sys := p.System()

	level, err := sys.ThermalLevel()
	if err != nil || level != 0 {
		t.Errorf("ThermalLevel() without devices = %d, %v, want 0, nil", level, err)
	}

	thermal := filepath.Join(sysRoot, "class", "thermal")
	writeFile(t, filepath.Join(thermal, "cooling_device0", "type"), "Processor\n")
	writeFile(t, filepath.Join(thermal, "cooling_device0", "cur_state"), "2\n")
	writeFile(t, filepath.Join(thermal, "cooling_device1", "type"), "intel_powerclamp\n")
	writeFile(t, filepath.Join(thermal, "cooling_device1", "cur_state"), "5\n")
	writeFile(t, filepath.Join(thermal, "cooling_device2", "type"), "Fan\n")
	writeFile(t, filepath.Join(thermal, "cooling_device2", "cur_state"), "9\n")

	level, err = sys.ThermalLevel()
	if err != nil || level != 5 {
		t.Errorf("ThermalLevel() = %d, %v, want 5, nil", level, err)
	}
}

func TestLinuxSystemProvider_PowerLimit(t *testing.T) {
	p, _, sysRoot := newFixturePlatform(t)
	sys := p.System()

	if _, err := sys.PowerLimit(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("PowerLimit() without cpu online mask error = %v, want ErrUnsupported", err)
	}

	cpuDir := filepath.Join(sysRoot, "devices", "system", "cpu")
	writeFile(t, filepath.Join(cpuDir, "online"), "0-3\n")
	writeFile(t, filepath.Join(cpuDir, "cpu0", "cpufreq", "cpuinfo_max_freq"), "4000000\n")
	writeFile(t, filepath.Join(cpuDir, "cpu0", "cpufreq", "scaling_max_freq"), "3000000\n")
	writeFile(t, filepath.Join(cpuDir, "cpu1", "cpufreq", "cpuinfo_max_freq"), "4000000\n")
	writeFile(t, filepath.Join(cpuDir, "cpu1", "cpufreq", "scaling_max_freq"), "4000000\n")
	writeFile(t, filepath.Join(sysRoot, "fs", "cgroup", "cpu.max"), "200000 100000\n")

	limit, err := sys.PowerLimit()
	if err != nil {
		t.Fatalf("PowerLimit() error = %v", err)
	}
	if want := (PowerLimit{SpeedLimit: 75, CPUsAvailable: 4, SchedulerLimit: 50}); limit != want {
		t.Errorf("PowerLimit() = %+v, want %+v", limit, want)
	}
}

func TestParseCPUList(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 1, false},
		{"0-3", 4, false},
		{"0-3,6,8-9", 7, false},
		{"0-3\n", 4, false},
		{"3-1", 0, true},
		{"a-b", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCPUList(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseCPUList(%q) = %d, %v, want %d, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestParseCgroupCPUMax(t *testing.T) {
	tests := []struct {
		line string
		cpus int
		want int
	}{
		{"max 100000", 4, 100},
		{"50000 100000", 1, 50},
		{"800000 100000", 4, 100},
		{"100000 100000", 4, 25},
		{"garbage", 4, 100},
		{"100 0", 4, 100},
	}
	for _, tt := range tests {
		if got := parseCgroupCPUMax(tt.line, tt.cpus); got != tt.want {
			t.Errorf("parseCgroupCPUMax(%q, %d) = %d, want %d", tt.line, tt.cpus, got, tt.want)
		}
	}
}

func TestLinuxProcessProvider(t *testing.T) {
	p, procRoot, _ := newFixturePlatform(t)
	proc := p.Process()

	dir := filepath.Join(procRoot, "1234")
	writeFile(t, filepath.Join(dir, "stat"), "1234 (a very long process name) R 1 1200 1200 0 -1 0 0 0 0 0 0 0 0 0 20 0 3 0 1 0 0\n")
	writeFile(t, filepath.Join(dir, "status"), "Name:\ta very long\nUid:\t501\t501\t501\t501\n")
	writeFile(t, filepath.Join(procRoot, "99", "stat"), "99 (kthreadd) S 0 0 0 0 -1 0 0 0 0 0 0 0 0 0 20 0 1 0 1 0 0\n")

	pids, err := proc.Pids()
	if err != nil {
		t.Fatalf("Pids() error = %v", err)
	}
	if len(pids) != 2 || pids[0] != 99 || pids[1] != 1234 {
		t.Errorf("Pids() = %v, want [99 1234]", pids)
	}

	rec, err := proc.Info(1234)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	want := ProcessRecord{
		PID:     1234,
		PPID:    1,
		PGID:    1200,
		UID:     501,
		Command: "a very long pro",
		Arch:    "unknown",
		State:   ProcessRunning,
	}
	if rec != want {
		t.Errorf("Info() = %+v, want %+v", rec, want)
	}

	rec, err = proc.Info(99)
	if err != nil {
		t.Fatalf("Info(99) error = %v", err)
	}
	if rec.UID != -1 {
		t.Errorf("Info(99).UID = %d, want -1 without status", rec.UID)
	}

	if _, err := proc.Info(4242); !errors.Is(err, ErrNotFound) {
		t.Errorf("Info() of missing pid error = %v, want ErrNotFound", err)
	}
}

func TestElfArch(t *testing.T) {
	tests := []struct {
		class   elf.Class
		machine elf.Machine
		want    string
	}{
		{elf.ELFCLASS64, elf.EM_X86_64, "x86_64"},
		{elf.ELFCLASS32, elf.EM_X86_64, "x32"},
		{elf.ELFCLASS32, elf.EM_386, "i386"},
		{elf.ELFCLASS64, elf.EM_AARCH64, "arm64"},
		{elf.ELFCLASS32, elf.EM_ARM, "arm"},
		{elf.ELFCLASS64, elf.EM_RISCV, "riscv64"},
		{elf.ELFCLASS64, elf.EM_PPC64, "ppc64"},
	}
	for _, tt := range tests {
		if got := elfArch(tt.class, tt.machine); got != tt.want {
			t.Errorf("elfArch(%v, %v) = %q, want %q", tt.class, tt.machine, got, tt.want)
		}
	}
}
