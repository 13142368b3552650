// Package platform provides the host information boundary for go-systemkit.
//
// The platform package defines interfaces and types for reading raw host
// counters: CPU core counts and cumulative ticks, virtual memory page counts,
// load averages, process and thread totals, kernel identification, per-process
// records and battery registries. It deliberately computes nothing from two
// readings; delta logic lives with the samplers in internal/monitor.
//
// # Architecture
//
// The package uses a provider pattern where each platform implements the
// Platform interface and provides concrete implementations of the provider
// interfaces (CPUProvider, MemoryProvider, SystemProvider, ProcessProvider
// and PowerSource). Three implementations exist:
//
//   - linux: reads procfs and sysfs directly; roots are configurable
//   - portable: gopsutil, plus vm_stat, sysctl, pmset and ioreg on darwin
//   - remote: reads a Linux host's procfs over SSH with per-command timeouts
//
// # Usage
//
//	p, err := platform.NewPlatform()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	if err := p.Initialize(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	ticks, _ := p.CPU().Ticks()
//	vm, _ := p.Memory().VMStatistics()
//	fmt.Println(ticks.User, vm.Free)
//
// # Errors
//
// Every read returns either a value or an error. Absent named resources wrap
// ErrNotFound; readings the platform cannot provide wrap ErrUnsupported.
//
// # Thread Safety
//
// All Platform and Provider implementations are safe for concurrent use from
// multiple goroutines unless otherwise documented.
package platform
