package platform

import (
	"fmt"
	"strconv"
)

// ioregUnknownTime is the TimeRemaining value the battery firmware reports
// while it has no estimate.
const ioregUnknownTime = 65535

// ioregRawKeys name the mAh properties that take precedence when present.
// Current firmware reports CurrentCapacity and MaxCapacity as percentages.
var ioregRawKeys = map[PowerKey]string{
	KeyCurrentCapacity: "AppleRawCurrentCapacity",
	KeyMaxCapacity:     "AppleRawMaxCapacity",
}

// ioregPowerEntry serves battery properties from a snapshot of the I/O Kit
// registry entry taken when the entry was looked up.
type ioregPowerEntry struct {
	props map[string]string
}

// parseIORegBattery parses "ioreg -rn AppleSmartBattery" output.
// Returns nil if the output holds no registry entry.
func parseIORegBattery(output string) *ioregPowerEntry {
	props := parseKeyValueLines(output, "=")
	if len(props) == 0 {
		return nil
	}
	return &ioregPowerEntry{props: props}
}

func (e *ioregPowerEntry) Int(key PowerKey) (int64, error) {
	name := string(key)
	if rawKey, ok := ioregRawKeys[key]; ok {
		if _, present := e.props[rawKey]; present {
			name = rawKey
		}
	}
	raw, ok := e.props[name]
	if !ok {
		return 0, fmt.Errorf("battery property %s: %w", key, ErrUnsupported)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("battery property %s: %w", key, err)
	}
	if key == KeyTimeRemaining && v == ioregUnknownTime {
		return TimeRemainingUnknown, nil
	}
	return v, nil
}

func (e *ioregPowerEntry) Bool(key PowerKey) (bool, error) {
	raw, ok := e.props[string(key)]
	if !ok {
		return false, fmt.Errorf("battery property %s: %w", key, ErrUnsupported)
	}
	switch raw {
	case "Yes":
		return true, nil
	case "No":
		return false, nil
	default:
		return false, fmt.Errorf("battery property %s: not a boolean: %q", key, raw)
	}
}

func (e *ioregPowerEntry) Release() error {
	e.props = nil
	return nil
}
