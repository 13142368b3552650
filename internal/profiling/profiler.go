// Package profiling writes pprof CPU and heap profiles of a systemkit run.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// Config names the profile outputs. An empty path disables that profile.
type Config struct {
	CPUProfilePath string
	MemProfilePath string
}

// Enabled reports whether any profile is requested.
func (c Config) Enabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != ""
}

// Profiler records a CPU profile between Start and Stop and writes a heap
// profile at Stop.
type Profiler struct {
	cfg Config

	mu      sync.Mutex
	cpuFile *os.File
	running bool
}

// New creates a Profiler; nothing is recorded until Start.
func New(cfg Config) *Profiler {
	return &Profiler{cfg: cfg}
}

// Start begins CPU profiling when a CPU profile path is set.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("profiler already running")
	}
	if p.cfg.CPUProfilePath != "" {
		f, err := os.Create(p.cfg.CPUProfilePath)
		if err != nil {
			return fmt.Errorf("creating CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("starting CPU profile: %w", err)
		}
		p.cpuFile = f
	}
	p.running = true
	return nil
}

// Stop ends CPU profiling and writes the heap profile. Both outputs are
// attempted even if one fails.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return errors.New("profiler not running")
	}
	p.running = false

	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing CPU profile: %w", err))
		}
		p.cpuFile = nil
	}
	if p.cfg.MemProfilePath != "" {
		if err := WriteHeapProfile(p.cfg.MemProfilePath); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsRunning reports whether Start has been called without Stop.
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// WriteHeapProfile runs a GC and writes the heap profile to path.
func WriteHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating heap profile: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("writing heap profile: %w", err)
	}
	return nil
}
