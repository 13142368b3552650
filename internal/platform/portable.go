package platform

import (
	"context"
	"debug/macho"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// ticksPerSecond converts gopsutil's CPU seconds back to scheduler ticks.
const ticksPerSecond = 100

// portableExtras supplies the readings gopsutil does not cover.
// Nil functions mean the reading is unsupported on this OS.
type portableExtras struct {
	vmStatistics func() (VMStatistics, uint64, error)
	model        func() (string, error)
	thermalLevel func() (int, error)
	powerLimit   func(logical int) (PowerLimit, error)
	power        PowerSource
	commandLen   int
}

// portablePlatform implements Platform on top of gopsutil. It is the
// default on darwin and the BSDs and may be selected on Linux.
type portablePlatform struct {
	mu      sync.RWMutex
	extras  portableExtras
	cpu     *portableCPUProvider
	memory  *portableMemoryProvider
	system  *portableSystemProvider
	process *portableProcessProvider
}

// NewPortablePlatform creates a gopsutil-backed platform for the current OS.
func NewPortablePlatform() Platform {
	return &portablePlatform{extras: hostExtras()}
}

func (p *portablePlatform) Name() string {
	return "portable"
}

func (p *portablePlatform) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.cpu = &portableCPUProvider{ctx: ctx}
	p.memory = &portableMemoryProvider{ctx: ctx, pageSize: pageSize(), extras: p.extras}
	p.system = &portableSystemProvider{ctx: ctx, cpu: p.cpu, extras: p.extras}
	p.process = &portableProcessProvider{ctx: ctx, commandLen: p.extras.commandLen}
	if p.process.commandLen == 0 {
		p.process.commandLen = MaxCommandLen
	}
	return nil
}

func (p *portablePlatform) Close() error {
	return nil
}

func (p *portablePlatform) CPU() CPUProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cpu
}

func (p *portablePlatform) Memory() MemoryProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.memory
}

func (p *portablePlatform) System() SystemProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.system
}

func (p *portablePlatform) Process() ProcessProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.process
}

func (p *portablePlatform) Power() PowerSource {
	return p.extras.power
}

// portableCPUProvider implements CPUProvider with gopsutil's cpu and load packages.
type portableCPUProvider struct {
	ctx context.Context
}

func (c *portableCPUProvider) Cores() (CoreCounts, error) {
	physical, err := cpu.CountsWithContext(c.ctx, false)
	if err != nil {
		return CoreCounts{}, fmt.Errorf("counting physical cores: %w", err)
	}
	logical, err := cpu.CountsWithContext(c.ctx, true)
	if err != nil {
		return CoreCounts{}, fmt.Errorf("counting logical cores: %w", err)
	}
	return CoreCounts{Physical: physical, Logical: logical}, nil
}

func (c *portableCPUProvider) Ticks() (TickSnapshot, error) {
	times, err := cpu.TimesWithContext(c.ctx, false)
	if err != nil {
		return TickSnapshot{}, fmt.Errorf("reading cpu times: %w", err)
	}
	if len(times) == 0 {
		return TickSnapshot{}, fmt.Errorf("reading cpu times: no aggregate entry")
	}
	return timesToTicks(times[0]), nil
}

// timesToTicks folds gopsutil CPU seconds into the four scheduler buckets.
func timesToTicks(t cpu.TimesStat) TickSnapshot {
	ticks := func(secs float64) uint64 {
		if secs <= 0 {
			return 0
		}
		return uint64(math.Round(secs * ticksPerSecond))
	}
	return TickSnapshot{
		User:   ticks(t.User),
		System: ticks(t.System + t.Irq + t.Softirq + t.Steal),
		Idle:   ticks(t.Idle + t.Iowait),
		Nice:   ticks(t.Nice),
	}
}

func (c *portableCPUProvider) LoadAverage() (LoadAverage, error) {
	avg, err := load.AvgWithContext(c.ctx)
	if err != nil {
		return LoadAverage{}, fmt.Errorf("reading load average: %w", err)
	}
	return LoadAverage{One: avg.Load1, Five: avg.Load5, Fifteen: avg.Load15}, nil
}

func (c *portableCPUProvider) Running() (int, error) {
	misc, err := load.MiscWithContext(c.ctx)
	if err != nil {
		return 0, fmt.Errorf("reading scheduler counters: %w", err)
	}
	return misc.ProcsRunning, nil
}

// portableMemoryProvider implements MemoryProvider with gopsutil's mem package.
type portableMemoryProvider struct {
	ctx      context.Context
	pageSize uint64
	extras   portableExtras
}

func (m *portableMemoryProvider) PageSize() uint64 {
	return m.pageSize
}

func (m *portableMemoryProvider) VMStatistics() (VMStatistics, error) {
	if m.extras.vmStatistics != nil {
		stats, size, err := m.extras.vmStatistics()
		if err == nil && size != 0 && size != m.pageSize {
			return scalePages(stats, size, m.pageSize), nil
		}
		return stats, err
	}

	vm, err := mem.VirtualMemoryWithContext(m.ctx)
	if err != nil {
		return VMStatistics{}, fmt.Errorf("reading virtual memory: %w", err)
	}
	if m.pageSize == 0 {
		return VMStatistics{}, fmt.Errorf("page size unknown")
	}
	return VMStatistics{
		Free:     vm.Free / m.pageSize,
		Active:   vm.Active / m.pageSize,
		Inactive: vm.Inactive / m.pageSize,
		Wired:    vm.Wired / m.pageSize,
	}, nil
}

// scalePages re-expresses page counts measured in one page size in another.
func scalePages(s VMStatistics, from, to uint64) VMStatistics {
	scale := func(n uint64) uint64 { return n * from / to }
	return VMStatistics{
		Free:       scale(s.Free),
		Active:     scale(s.Active),
		Inactive:   scale(s.Inactive),
		Wired:      scale(s.Wired),
		Compressed: scale(s.Compressed),
	}
}

func (m *portableMemoryProvider) PhysicalMemory() (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(m.ctx)
	if err != nil {
		return 0, fmt.Errorf("reading virtual memory: %w", err)
	}
	return vm.Total, nil
}

// portableSystemProvider implements SystemProvider with gopsutil's host and
// process packages.
type portableSystemProvider struct {
	ctx    context.Context
	cpu    *portableCPUProvider
	extras portableExtras
}

func (s *portableSystemProvider) Uname() (Uname, error) {
	return unameSyscall()
}

func (s *portableSystemProvider) Model() (string, error) {
	if s.extras.model == nil {
		return "", fmt.Errorf("hardware model: %w", ErrUnsupported)
	}
	return s.extras.model()
}

func (s *portableSystemProvider) Uptime() (time.Duration, error) {
	secs, err := host.UptimeWithContext(s.ctx)
	if err != nil {
		return 0, fmt.Errorf("reading uptime: %w", err)
	}
	return time.Duration(secs) * time.Second, nil
}

// TaskCounts counts live processes and sums their threads. Processes that
// exit while being counted are skipped.
func (s *portableSystemProvider) TaskCounts() (TaskCounts, error) {
	procs, err := process.ProcessesWithContext(s.ctx)
	if err != nil {
		return TaskCounts{}, fmt.Errorf("listing processes: %w", err)
	}

	counts := TaskCounts{Processes: len(procs)}
	for _, p := range procs {
		n, err := p.NumThreadsWithContext(s.ctx)
		if err != nil {
			continue
		}
		counts.Threads += int(n)
	}
	return counts, nil
}

func (s *portableSystemProvider) ThermalLevel() (int, error) {
	if s.extras.thermalLevel == nil {
		return 0, fmt.Errorf("thermal level: %w", ErrUnsupported)
	}
	return s.extras.thermalLevel()
}

func (s *portableSystemProvider) PowerLimit() (PowerLimit, error) {
	if s.extras.powerLimit == nil {
		return PowerLimit{}, fmt.Errorf("power limit: %w", ErrUnsupported)
	}
	cores, err := s.cpu.Cores()
	if err != nil {
		return PowerLimit{}, err
	}
	return s.extras.powerLimit(cores.Logical)
}

// portableProcessProvider implements ProcessProvider with gopsutil's process package.
type portableProcessProvider struct {
	ctx        context.Context
	commandLen int
}

func (p *portableProcessProvider) Pids() ([]int, error) {
	pids, err := process.PidsWithContext(p.ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pids: %w", err)
	}
	result := make([]int, len(pids))
	for i, pid := range pids {
		result[i] = int(pid)
	}
	return result, nil
}

func (p *portableProcessProvider) Info(pid int) (ProcessRecord, error) {
	if pid <= 0 || pid > math.MaxInt32 {
		return ProcessRecord{}, fmt.Errorf("process %d: %w", pid, ErrNotFound)
	}
	proc, err := process.NewProcessWithContext(p.ctx, int32(pid))
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return ProcessRecord{}, fmt.Errorf("process %d: %w", pid, ErrNotFound)
		}
		return ProcessRecord{}, fmt.Errorf("opening process %d: %w", pid, err)
	}

	rec := ProcessRecord{PID: pid, UID: -1, Arch: "unknown"}

	ppid, err := proc.PpidWithContext(p.ctx)
	if err != nil {
		return ProcessRecord{}, fmt.Errorf("reading ppid of process %d: %w", pid, err)
	}
	rec.PPID = int(ppid)

	if name, err := proc.NameWithContext(p.ctx); err == nil {
		rec.Command = DecodeCommand([]byte(name), p.commandLen)
	}
	if uids, err := proc.UidsWithContext(p.ctx); err == nil && len(uids) > 0 {
		rec.UID = int(uids[0])
	}
	if status, err := proc.StatusWithContext(p.ctx); err == nil && len(status) > 0 {
		rec.State = gopsutilState(status[0])
	}
	if pgid, err := processGroup(pid); err == nil {
		rec.PGID = pgid
	}
	if exe, err := proc.ExeWithContext(p.ctx); err == nil {
		rec.Arch = imageArch(exe)
	}
	return rec, nil
}

// gopsutilState maps gopsutil's status strings to a ProcessState.
func gopsutilState(s string) ProcessState {
	switch s {
	case process.Running:
		return ProcessRunning
	case process.Sleep, process.Wait, process.Lock:
		return ProcessSleeping
	case process.Idle:
		return ProcessIdle
	case process.Stop:
		return ProcessStopped
	case process.Zombie:
		return ProcessZombie
	default:
		return ProcessUnknown
	}
}

// imageArch returns the architecture of an ELF or Mach-O executable.
func imageArch(path string) string {
	if arch := executableArch(path); arch != "unknown" {
		return arch
	}
	f, err := macho.Open(path)
	if err != nil {
		return "unknown"
	}
	defer f.Close()
	switch f.Cpu {
	case macho.CpuAmd64:
		return "x86_64"
	case macho.Cpu386:
		return "i386"
	case macho.CpuArm64:
		return "arm64"
	case macho.CpuArm:
		return "arm"
	default:
		return "unknown"
	}
}
