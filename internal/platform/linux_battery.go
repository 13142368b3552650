package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TimeRemainingUnknown is reported for KeyTimeRemaining while the estimate
// is still being calculated.
const TimeRemainingUnknown int64 = -1

// linuxPowerSource implements PowerSource over /sys/class/power_supply.
type linuxPowerSource struct {
	powerSupplyPath string
}

func newLinuxPowerSource(sysRoot string) *linuxPowerSource {
	return &linuxPowerSource{
		powerSupplyPath: filepath.Join(sysRoot, "class", "power_supply"),
	}
}

// DefaultName returns the first battery in the registry, or "BAT0".
func (s *linuxPowerSource) DefaultName() string {
	batteries := s.findSupplies("Battery")
	if len(batteries) == 0 {
		return "BAT0"
	}
	return batteries[0]
}

func (s *linuxPowerSource) Lookup(name string) (PowerEntry, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("power supply %q: %w", name, ErrNotFound)
	}

	dir := filepath.Join(s.powerSupplyPath, name)
	kind, ok := readStringFile(filepath.Join(dir, "type"))
	if !ok || kind != "Battery" {
		return nil, fmt.Errorf("power supply %q: %w", name, ErrNotFound)
	}
	return &linuxPowerEntry{source: s, dir: dir}, nil
}

// findSupplies returns the names of power supplies of the given type, sorted.
func (s *linuxPowerSource) findSupplies(kind string) []string {
	entries, err := os.ReadDir(s.powerSupplyPath)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		t, ok := readStringFile(filepath.Join(s.powerSupplyPath, entry.Name(), "type"))
		if ok && t == kind {
			names = append(names, entry.Name())
		}
	}
	return names
}

// linuxPowerEntry reads battery properties from one power_supply directory.
// sysfs reports charge in µAh, energy in µWh, voltage in µV and temperature
// in tenths of a degree Celsius.
type linuxPowerEntry struct {
	source *linuxPowerSource
	dir    string
}

func (e *linuxPowerEntry) Int(key PowerKey) (int64, error) {
	switch key {
	case KeyCurrentCapacity:
		return e.capacity("charge_now", "energy_now")
	case KeyMaxCapacity:
		return e.capacity("charge_full", "energy_full")
	case KeyDesignCapacity:
		return e.capacity("charge_full_design", "energy_full_design")
	case KeyCycleCount:
		return e.readInt("cycle_count")
	case KeyTemperature:
		tenths, err := e.readInt("temp")
		if err != nil {
			return 0, err
		}
		return tenths * 10, nil
	case KeyTimeRemaining:
		return e.timeRemaining(), nil
	default:
		return 0, fmt.Errorf("battery property %s: %w", key, ErrUnsupported)
	}
}

func (e *linuxPowerEntry) Bool(key PowerKey) (bool, error) {
	switch key {
	case KeyExternalConnected:
		return e.externalConnected()
	case KeyIsCharging:
		status, err := e.status()
		return status == "Charging", err
	case KeyFullyCharged:
		status, err := e.status()
		return status == "Full", err
	default:
		return false, fmt.Errorf("battery property %s: %w", key, ErrUnsupported)
	}
}

func (e *linuxPowerEntry) Release() error {
	return nil
}

func (e *linuxPowerEntry) readInt(name string) (int64, error) {
	path := filepath.Join(e.dir, name)
	v, ok := readInt64File(path)
	if !ok {
		return 0, fmt.Errorf("reading %s: %w", path, ErrUnsupported)
	}
	return v, nil
}

func (e *linuxPowerEntry) status() (string, error) {
	path := filepath.Join(e.dir, "status")
	status, ok := readStringFile(path)
	if !ok {
		return "", fmt.Errorf("reading %s: %w", path, ErrUnsupported)
	}
	return status, nil
}

// capacity returns a capacity in mAh from the charge file, or converts the
// energy file using the design minimum voltage.
func (e *linuxPowerEntry) capacity(chargeFile, energyFile string) (int64, error) {
	if charge, ok := readInt64File(filepath.Join(e.dir, chargeFile)); ok {
		return charge / 1000, nil
	}

	energy, ok := readInt64File(filepath.Join(e.dir, energyFile))
	if !ok {
		return 0, fmt.Errorf("battery %s: %w", chargeFile, ErrUnsupported)
	}
	voltage, ok := readInt64File(filepath.Join(e.dir, "voltage_min_design"))
	if !ok || voltage <= 0 {
		return 0, fmt.Errorf("battery voltage_min_design: %w", ErrUnsupported)
	}
	return energy * 1000 / voltage, nil
}

// timeRemaining returns minutes to empty while discharging or to full while
// charging, or TimeRemainingUnknown when the rate is not known.
func (e *linuxPowerEntry) timeRemaining() int64 {
	status, _ := readStringFile(filepath.Join(e.dir, "status"))
	if status == "Charging" {
		if secs, ok := readInt64File(filepath.Join(e.dir, "time_to_full_now")); ok && secs >= 0 {
			return secs / 60
		}
	} else if secs, ok := readInt64File(filepath.Join(e.dir, "time_to_empty_now")); ok && secs >= 0 {
		return secs / 60
	}

	now, ok1 := readInt64File(filepath.Join(e.dir, "energy_now"))
	full, ok2 := readInt64File(filepath.Join(e.dir, "energy_full"))
	power, ok3 := readInt64File(filepath.Join(e.dir, "power_now"))
	if !ok1 || !ok2 || !ok3 || power <= 0 {
		return TimeRemainingUnknown
	}
	if status == "Charging" {
		if full < now {
			return 0
		}
		return (full - now) * 60 / power
	}
	return now * 60 / power
}

// externalConnected reports whether any mains supply is online. Hosts that
// expose no mains supply are judged from the battery status.
func (e *linuxPowerEntry) externalConnected() (bool, error) {
	mains := e.source.findSupplies("Mains")
	for _, name := range mains {
		if online, ok := readInt64File(filepath.Join(e.source.powerSupplyPath, name, "online")); ok && online == 1 {
			return true, nil
		}
	}
	if len(mains) > 0 {
		return false, nil
	}

	status, err := e.status()
	if err != nil {
		return false, err
	}
	return status != "Discharging", nil
}
