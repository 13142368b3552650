package monitor

import (
	"fmt"
	"time"
)

// MachFactor returns the number of logical CPUs not occupied by runnable
// scheduling entities. It is never negative.
func MachFactor(logical, running int) int {
	if free := logical - running; free > 0 {
		return free
	}
	return 0
}

// FormatUptime formats a duration as "{days}d {hours}h {mins}m {secs}s".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	days := secs / 86400
	secs %= 86400
	hours := secs / 3600
	secs %= 3600
	mins := secs / 60
	secs %= 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, mins, secs)
}
