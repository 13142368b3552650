package platform

import (
	"context"
	"sync"
)

// linuxPlatform implements Platform for Linux systems by reading procfs and sysfs.
// The roots are configurable so a containerised agent can read a host's
// /proc mounted elsewhere, and so tests can point at fixture trees.
type linuxPlatform struct {
	mu       sync.RWMutex
	procRoot string
	sysRoot  string
	cpu      CPUProvider
	memory   MemoryProvider
	system   SystemProvider
	process  ProcessProvider
	power    PowerSource
}

// NewLinuxPlatform creates a new Linux platform reading /proc and /sys.
func NewLinuxPlatform() Platform {
	return NewLinuxPlatformWithRoots("/proc", "/sys")
}

// NewLinuxPlatformWithRoots creates a Linux platform reading procfs and sysfs
// from the given directories.
func NewLinuxPlatformWithRoots(procRoot, sysRoot string) Platform {
	if procRoot == "" {
		procRoot = "/proc"
	}
	if sysRoot == "" {
		sysRoot = "/sys"
	}
	return &linuxPlatform{procRoot: procRoot, sysRoot: sysRoot}
}

func (p *linuxPlatform) Name() string {
	return "linux"
}

func (p *linuxPlatform) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cpu := newLinuxCPUProvider(p.procRoot)
	p.cpu = cpu
	p.memory = newLinuxMemoryProvider(p.procRoot)
	p.system = newLinuxSystemProvider(p.procRoot, p.sysRoot, cpu)
	p.process = newLinuxProcessProvider(p.procRoot)
	p.power = newLinuxPowerSource(p.sysRoot)

	return nil
}

func (p *linuxPlatform) Close() error {
	return nil
}

func (p *linuxPlatform) CPU() CPUProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cpu
}

func (p *linuxPlatform) Memory() MemoryProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.memory
}

func (p *linuxPlatform) System() SystemProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.system
}

func (p *linuxPlatform) Process() ProcessProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.process
}

func (p *linuxPlatform) Power() PowerSource {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.power
}
