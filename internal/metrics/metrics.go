// Package metrics exposes the latest report as Prometheus metrics and
// writes them in the node-exporter textfile format.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/opd-ai/go-systemkit/internal/report"
)

const namespace = "systemkit"

func desc(name, help string, labels ...string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
}

var (
	infoDesc          = desc("info", "Host identification, always 1.", "platform", "sysname", "release", "machine", "model")
	cpuUsageDesc      = desc("cpu_usage_percent", "Share of CPU ticks per mode since the previous report.", "mode")
	cpuCoresDesc      = desc("cpu_cores", "Number of CPU cores.", "kind")
	loadDesc          = desc("load_average", "System load average.", "period")
	machFactorDesc    = desc("mach_factor", "Logical CPUs not occupied by runnable tasks.")
	thermalDesc       = desc("thermal_level", "CPU thermal pressure level, 0 when unthrottled.")
	powerLimitDesc    = desc("cpu_power_limit", "CPU power management limits.", "limit")
	memoryDesc        = desc("memory_bytes", "Memory by page state.", "state")
	physicalDesc      = desc("memory_physical_bytes", "Installed physical memory.")
	tasksDesc         = desc("tasks", "Number of processes and threads.", "kind")
	uptimeDesc        = desc("uptime_seconds", "Time since boot.")
	collectedDesc     = desc("last_report_timestamp_seconds", "Unix time the report was collected.")
	batteryChargeDesc = desc("battery_charge_percent", "Battery charge relative to full charge capacity.", "battery")
	batteryHealthDesc = desc("battery_health_percent", "Battery charge relative to design capacity.", "battery")
	batteryCapDesc    = desc("battery_capacity_mah", "Battery capacity.", "battery", "kind")
	batteryCyclesDesc = desc("battery_cycle_count", "Battery charge cycles.", "battery", "kind")
	batteryTempDesc   = desc("battery_temperature_celsius", "Battery temperature.", "battery")
	batteryACDesc     = desc("battery_ac_powered", "1 when external power is connected.", "battery")
	batteryChgDesc    = desc("battery_charging", "1 when the battery is charging.", "battery")
	batteryTimeDesc   = desc("battery_time_remaining_minutes", "Minutes to empty or to full. Absent while unknown.", "battery")
)

// Collector is a prometheus.Collector over the most recent report.
// Metrics whose read failed are omitted from the scrape.
type Collector struct {
	mu     sync.RWMutex
	report *report.Report

	reports    prometheus.Counter
	readErrors *prometheus.CounterVec
}

// NewCollector creates an empty Collector. It emits only its counters until
// the first Update.
func NewCollector() *Collector {
	return &Collector{
		reports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Number of reports collected.",
		}),
		readErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "Number of failed metric reads.",
		}, []string{"metric"}),
	}
}

// Update replaces the exported report and counts its failed reads.
func (c *Collector) Update(r *report.Report) {
	c.mu.Lock()
	c.report = r
	c.mu.Unlock()

	c.reports.Inc()
	for metric, err := range failures(r) {
		if err != nil {
			c.readErrors.WithLabelValues(metric).Inc()
		}
	}
}

func failures(r *report.Report) map[string]error {
	return map[string]error{
		"model":       r.Model.Err,
		"cores":       r.Cores.Err,
		"physical":    r.Physical.Err,
		"power_limit": r.PowerLimit.Err,
		"uname":       r.Uname.Err,
		"cpu":         r.CPU.Err,
		"memory":      r.Memory.Err,
		"load":        r.Load.Err,
		"mach_factor": r.MachFactor.Err,
		"tasks":       r.Tasks.Err,
		"uptime":      r.Uptime.Err,
		"thermal":     r.ThermalLevel.Err,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		infoDesc, cpuUsageDesc, cpuCoresDesc, loadDesc, machFactorDesc,
		thermalDesc, powerLimitDesc, memoryDesc, physicalDesc, tasksDesc,
		uptimeDesc, collectedDesc, batteryChargeDesc, batteryHealthDesc,
		batteryCapDesc, batteryCyclesDesc, batteryTempDesc, batteryACDesc,
		batteryChgDesc, batteryTimeDesc,
	} {
		ch <- d
	}
	c.reports.Describe(ch)
	c.readErrors.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.reports.Collect(ch)
	c.readErrors.Collect(ch)

	c.mu.RLock()
	r := c.report
	c.mu.RUnlock()
	if r == nil {
		return
	}

	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}

	if r.Uname.OK() {
		model := ""
		if r.Model.OK() {
			model = r.Model.V
		}
		u := r.Uname.V
		gauge(infoDesc, 1, r.Platform, u.Sysname, u.Release, u.Machine, model)
	}
	if v := r.CPU; v.OK() {
		gauge(cpuUsageDesc, v.V.System, "system")
		gauge(cpuUsageDesc, v.V.User, "user")
		gauge(cpuUsageDesc, v.V.Idle, "idle")
		gauge(cpuUsageDesc, v.V.Nice, "nice")
	}
	if v := r.Cores; v.OK() {
		gauge(cpuCoresDesc, float64(v.V.Physical), "physical")
		gauge(cpuCoresDesc, float64(v.V.Logical), "logical")
	}
	if v := r.Load; v.OK() {
		gauge(loadDesc, v.V.One, "1m")
		gauge(loadDesc, v.V.Five, "5m")
		gauge(loadDesc, v.V.Fifteen, "15m")
	}
	if v := r.MachFactor; v.OK() {
		gauge(machFactorDesc, float64(v.V))
	}
	if v := r.ThermalLevel; v.OK() {
		gauge(thermalDesc, float64(v.V))
	}
	if v := r.PowerLimit; v.OK() {
		gauge(powerLimitDesc, float64(v.V.SpeedLimit), "speed_percent")
		gauge(powerLimitDesc, float64(v.V.CPUsAvailable), "cpus_available")
		gauge(powerLimitDesc, float64(v.V.SchedulerLimit), "scheduler_percent")
	}
	if v := r.Memory; v.OK() {
		gauge(memoryDesc, float64(v.V.Free), "free")
		gauge(memoryDesc, float64(v.V.Active), "active")
		gauge(memoryDesc, float64(v.V.Inactive), "inactive")
		gauge(memoryDesc, float64(v.V.Wired), "wired")
		gauge(memoryDesc, float64(v.V.Compressed), "compressed")
	}
	if v := r.Physical; v.OK() {
		gauge(physicalDesc, float64(v.V))
	}
	if v := r.Tasks; v.OK() {
		gauge(tasksDesc, float64(v.V.Processes), "processes")
		gauge(tasksDesc, float64(v.V.Threads), "threads")
	}
	if v := r.Uptime; v.OK() {
		gauge(uptimeDesc, v.V.Seconds())
	}
	if !r.CollectedAt.IsZero() {
		gauge(collectedDesc, float64(r.CollectedAt.UnixNano())/1e9)
	}

	if b := r.Battery; b != nil {
		collectBattery(b, gauge)
	}
}

func collectBattery(b *report.Battery, gauge func(*prometheus.Desc, float64, ...string)) {
	name := b.Name
	if b.Charge.OK() {
		gauge(batteryChargeDesc, float64(b.Charge.V), name)
	}
	if b.Health.OK() {
		gauge(batteryHealthDesc, float64(b.Health.V), name)
	}
	if b.CurrentCapacity.OK() {
		gauge(batteryCapDesc, float64(b.CurrentCapacity.V), name, "current")
	}
	if b.MaxCapacity.OK() {
		gauge(batteryCapDesc, float64(b.MaxCapacity.V), name, "max")
	}
	if b.DesignCapacity.OK() {
		gauge(batteryCapDesc, float64(b.DesignCapacity.V), name, "design")
	}
	if b.CycleCount.OK() {
		gauge(batteryCyclesDesc, float64(b.CycleCount.V), name, "current")
	}
	if b.DesignCycleCount.OK() {
		gauge(batteryCyclesDesc, float64(b.DesignCycleCount.V), name, "design")
	}
	if b.TemperatureCelsius.OK() {
		gauge(batteryTempDesc, b.TemperatureCelsius.V, name)
	}
	if b.ACPowered.OK() {
		gauge(batteryACDesc, boolValue(b.ACPowered.V), name)
	}
	if b.Charging.OK() {
		gauge(batteryChgDesc, boolValue(b.Charging.V), name)
	}
	if b.TimeRemaining.OK() && b.TimeRemaining.V >= 0 {
		gauge(batteryTimeDesc, float64(b.TimeRemaining.V), name)
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// WriteTextfile writes the collector's metrics to path in the text
// exposition format. The file is replaced atomically.
func WriteTextfile(path string, c *Collector) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, reg)
}
