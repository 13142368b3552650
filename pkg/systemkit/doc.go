// Package systemkit is the public API of go-systemkit, a host telemetry
// library. A System reads CPU usage, memory occupancy, battery state, kernel
// information and the process list through one of the platform providers.
//
// # Basic Usage
//
//	sys, err := systemkit.New(ctx, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sys.Close()
//
//	usage, err := sys.CPUUsage(ctx) // first call waits about a second
//	mem, err := sys.Memory(systemkit.Gigabyte)
//
// # Batteries
//
// A battery is a handle that must be opened before it is read and closed
// afterwards. [System.WithBattery] does both:
//
//	err := sys.WithBattery("", func(b *systemkit.Battery) error {
//		charge, err := b.Charge()
//		...
//	})
//
// Hosts without a battery return an error matching [ErrNotFound].
//
// # Reports and Monitoring
//
// [System.Report] collects every metric at once, with per-read timeouts, and
// [System.Render] prints it. [System.Start] keeps the readings current in the
// background; use [System.Data] for the latest snapshot and [System.Health]
// to see which sources are failing.
//
// All methods are safe for concurrent use.
package systemkit
