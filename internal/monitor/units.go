package monitor

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// Unit is a binary magnitude for byte counts.
type Unit uint64

const (
	Byte     Unit = 1
	Kilobyte Unit = 1 << 10
	Megabyte Unit = 1 << 20
	Gigabyte Unit = 1 << 30
)

// String returns the display suffix of the unit.
func (u Unit) String() string {
	switch u {
	case Byte:
		return "B"
	case Kilobyte:
		return "KB"
	case Megabyte:
		return "MB"
	case Gigabyte:
		return "GB"
	default:
		return fmt.Sprintf("Unit(%d)", uint64(u))
	}
}

// ParseUnit parses "B", "KB", "MB" or "GB", case-insensitively.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "B", "BYTE", "BYTES":
		return Byte, nil
	case "KB", "K":
		return Kilobyte, nil
	case "MB", "M":
		return Megabyte, nil
	case "GB", "G":
		return Gigabyte, nil
	default:
		return 0, fmt.Errorf("unknown memory unit %q", s)
	}
}

// Convert expresses a byte count in the given unit. A zero unit is treated as Byte.
func Convert(bytes uint64, unit Unit) float64 {
	if unit == 0 {
		unit = Byte
	}
	return float64(bytes) / float64(unit)
}

// PagesToBytes multiplies a page count by the page size, saturating at the
// largest uint64 instead of wrapping.
func PagesToBytes(pages, pageSize uint64) uint64 {
	hi, lo := bits.Mul64(pages, pageSize)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// FormatMemory auto-scales a byte count for display: whole megabytes below
// one gigabyte, gigabytes with two decimals otherwise.
func FormatMemory(bytes uint64) string {
	if bytes < uint64(Gigabyte) {
		return fmt.Sprintf("%dMB", bytes/uint64(Megabyte))
	}
	return fmt.Sprintf("%.2fGB", Convert(bytes, Gigabyte))
}
