package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/opd-ai/go-systemkit/internal/monitor"
	"github.com/opd-ai/go-systemkit/internal/platform"
)

// NotAvailable is printed in place of a metric whose read failed.
const NotAvailable = "n/a"

// Style controls text decoration of the rendered report.
type Style struct {
	// Color enables styled section headings.
	Color bool
}

var headingStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("12"))

func (s Style) heading(text string) string {
	if !s.Color {
		return text
	}
	return headingStyle.Render(text)
}

// Render writes r as a human-readable report.
func Render(w io.Writer, r *Report, style Style) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	first := true
	section := func(title string) {
		if !first {
			fmt.Fprintln(tw)
		}
		first = false
		fmt.Fprintln(tw, style.heading(title))
	}

	section("Hardware")
	row(tw, "Model", fmtValue(r.Model, func(s string) string { return s }))
	row(tw, "Physical cores", fmtValue(r.Cores, func(c platform.CoreCounts) string { return strconv.Itoa(c.Physical) }))
	row(tw, "Logical cores", fmtValue(r.Cores, func(c platform.CoreCounts) string { return strconv.Itoa(c.Logical) }))
	row(tw, "Physical memory", fmtValue(r.Physical, func(b uint64) string {
		return fmt.Sprintf("%.2f%s", monitor.Convert(b, r.MemoryUnit), r.MemoryUnit)
	}))

	section("CPU")
	row(tw, "System", fmtValue(r.CPU, func(u monitor.CPUUsage) string { return percent(u.System) }))
	row(tw, "User", fmtValue(r.CPU, func(u monitor.CPUUsage) string { return percent(u.User) }))
	row(tw, "Idle", fmtValue(r.CPU, func(u monitor.CPUUsage) string { return percent(u.Idle) }))
	row(tw, "Nice", fmtValue(r.CPU, func(u monitor.CPUUsage) string { return percent(u.Nice) }))
	row(tw, "Load average", fmtValue(r.Load, func(l platform.LoadAverage) string {
		return fmt.Sprintf("%.2f %.2f %.2f", l.One, l.Five, l.Fifteen)
	}))
	row(tw, "Mach factor", fmtValue(r.MachFactor, strconv.Itoa))
	row(tw, "Thermal level", fmtValue(r.ThermalLevel, strconv.Itoa))
	row(tw, "Power limit", fmtValue(r.PowerLimit, func(l platform.PowerLimit) string {
		return fmt.Sprintf("speed %d%%, %d CPUs, scheduler %d%%", l.SpeedLimit, l.CPUsAvailable, l.SchedulerLimit)
	}))

	section("Memory")
	mem := func(pick func(monitor.MemoryBytes) uint64) string {
		return fmtValue(r.Memory, func(m monitor.MemoryBytes) string { return monitor.FormatMemory(pick(m)) })
	}
	row(tw, "Free", mem(func(m monitor.MemoryBytes) uint64 { return m.Free }))
	row(tw, "Wired", mem(func(m monitor.MemoryBytes) uint64 { return m.Wired }))
	row(tw, "Active", mem(func(m monitor.MemoryBytes) uint64 { return m.Active }))
	row(tw, "Inactive", mem(func(m monitor.MemoryBytes) uint64 { return m.Inactive }))
	row(tw, "Compressed", mem(func(m monitor.MemoryBytes) uint64 { return m.Compressed }))

	section("System")
	uname := func(pick func(platform.Uname) string) string {
		return fmtValue(r.Uname, pick)
	}
	row(tw, "Sysname", uname(func(u platform.Uname) string { return u.Sysname }))
	row(tw, "Nodename", uname(func(u platform.Uname) string { return u.Nodename }))
	row(tw, "Release", uname(func(u platform.Uname) string { return u.Release }))
	row(tw, "Version", uname(func(u platform.Uname) string { return u.Version }))
	row(tw, "Machine", uname(func(u platform.Uname) string { return u.Machine }))
	row(tw, "Uptime", fmtValue(r.Uptime, monitor.FormatUptime))
	row(tw, "Processes", fmtValue(r.Tasks, func(t platform.TaskCounts) string { return strconv.Itoa(t.Processes) }))
	row(tw, "Threads", fmtValue(r.Tasks, func(t platform.TaskCounts) string { return strconv.Itoa(t.Threads) }))

	if b := r.Battery; b != nil {
		section("Battery " + b.Name)
		row(tw, "AC powered", fmtValue(b.ACPowered, yesNo))
		row(tw, "Charged", fmtValue(b.Charged, yesNo))
		row(tw, "Charging", fmtValue(b.Charging, yesNo))
		row(tw, "Charge", fmtValue(b.Charge, func(v int) string { return strconv.Itoa(v) + "%" }))
		row(tw, "Health", fmtValue(b.Health, func(v int) string { return strconv.Itoa(v) + "%" }))
		row(tw, "Current capacity", fmtValue(b.CurrentCapacity, mAh))
		row(tw, "Max capacity", fmtValue(b.MaxCapacity, mAh))
		row(tw, "Design capacity", fmtValue(b.DesignCapacity, mAh))
		row(tw, "Cycle count", fmtValue(b.CycleCount, strconv.Itoa))
		row(tw, "Design cycle count", fmtValue(b.DesignCycleCount, strconv.Itoa))
		row(tw, "Temperature", fmtValue(b.Temperature, func(v float64) string {
			return fmt.Sprintf("%.2f °%s", v, r.TemperatureUnit)
		}))
		row(tw, "Time remaining", fmtValue(b.TimeRemaining, monitor.FormatTimeRemaining))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if r.Processes != nil {
		return renderProcesses(w, *r.Processes, style)
	}
	return nil
}

func renderProcesses(w io.Writer, procs Value[[]platform.ProcessRecord], style Style) error {
	fmt.Fprintf(w, "\n%s\n", style.heading("Processes"))
	if !procs.OK() && len(procs.V) == 0 {
		_, err := fmt.Fprintf(w, "  %s\n", NotAvailable)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  PID\tPPID\tPGID\tUID\tSTATE\tARCH\tCOMMAND")
	for _, p := range procs.V {
		fmt.Fprintf(tw, "  %d\t%d\t%d\t%d\t%s\t%s\t%s\n", p.PID, p.PPID, p.PGID, p.UID, p.State, p.Arch, p.Command)
	}
	return tw.Flush()
}

func row(tw *tabwriter.Writer, label, value string) {
	fmt.Fprintf(tw, "  %s:\t%s\n", label, value)
}

func fmtValue[T any](v Value[T], format func(T) string) string {
	if !v.OK() {
		return NotAvailable
	}
	return format(v.V)
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func mAh(v int) string {
	return strconv.Itoa(v) + " mAh"
}
