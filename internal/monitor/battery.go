package monitor

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/opd-ai/go-systemkit/internal/logging"
	"github.com/opd-ai/go-systemkit/internal/platform"
)

// TimeRemainingUnknown is returned by Battery.TimeRemaining while the
// estimate is still being calculated.
const TimeRemainingUnknown = int(platform.TimeRemainingUnknown)

// TemperatureUnit selects the scale for Battery.Temperature.
type TemperatureUnit int

const (
	Celsius TemperatureUnit = iota
	Fahrenheit
	Kelvin
)

// String returns the unit symbol.
func (u TemperatureUnit) String() string {
	switch u {
	case Celsius:
		return "C"
	case Fahrenheit:
		return "F"
	case Kelvin:
		return "K"
	default:
		return "?"
	}
}

// ParseTemperatureUnit parses "C", "F" or "K", case-insensitively.
func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "CELSIUS":
		return Celsius, nil
	case "F", "FAHRENHEIT":
		return Fahrenheit, nil
	case "K", "KELVIN":
		return Kelvin, nil
	default:
		return Celsius, fmt.Errorf("unknown temperature unit %q", s)
	}
}

// CelsiusTo converts a Celsius temperature to the given unit.
func CelsiusTo(unit TemperatureUnit, c float64) float64 {
	switch unit {
	case Fahrenheit:
		return c*1.8 + 32
	case Kelvin:
		return c + 273.15
	default:
		return c
	}
}

// Battery is a handle to a named battery in a platform power registry.
// It starts closed; reads are valid only between Open and Close, and return
// ErrNotOpen otherwise. A closed Battery may be opened again.
type Battery struct {
	src    platform.PowerSource
	name   string
	logger logging.Logger

	mu    sync.Mutex
	entry platform.PowerEntry
}

// BatteryOption configures a Battery.
type BatteryOption func(*Battery)

// WithBatteryLogger sets the logger used to report failed releases.
func WithBatteryLogger(l logging.Logger) BatteryOption {
	return func(b *Battery) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBattery creates a closed handle for the battery called name in src.
// An empty name selects the registry's default battery. A nil src behaves
// as a registry with no batteries.
func NewBattery(src platform.PowerSource, name string, opts ...BatteryOption) *Battery {
	if name == "" && src != nil {
		name = src.DefaultName()
	}
	b := &Battery{src: src, name: name, logger: logging.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the registry name of the battery.
func (b *Battery) Name() string {
	return b.name
}

// Open acquires the battery. It returns an error wrapping ErrNotFound if the
// host has no such battery, and ErrAlreadyOpen if the handle is open.
func (b *Battery) Open() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.entry != nil {
		return fmt.Errorf("battery %q: %w", b.name, ErrAlreadyOpen)
	}
	if b.src == nil {
		return fmt.Errorf("battery %q: no power registry: %w", b.name, ErrNotFound)
	}

	entry, err := b.src.Lookup(b.name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("opening battery %q: %w", b.name, err)
		}
		return NewComponentError(ErrorSourceBattery, err)
	}
	b.entry = entry
	return nil
}

// Close releases the battery. The handle is closed afterwards even if the
// release fails. Closing a closed handle is a no-op.
func (b *Battery) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.entry == nil {
		return nil
	}
	err := b.entry.Release()
	b.entry = nil
	if err != nil {
		b.logger.Warn("battery release failed", "battery", b.name, "error", err)
		return fmt.Errorf("releasing battery %q: %w", b.name, err)
	}
	return nil
}

// IsOpen reports whether the handle is open.
func (b *Battery) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entry != nil
}

func (b *Battery) readInt(key platform.PowerKey) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.entry == nil {
		return 0, fmt.Errorf("reading %s: %w", key, ErrNotOpen)
	}
	v, err := b.entry.Int(key)
	if err != nil {
		return 0, NewComponentError(ErrorSourceBattery, err)
	}
	return v, nil
}

func (b *Battery) readBool(key platform.PowerKey) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.entry == nil {
		return false, fmt.Errorf("reading %s: %w", key, ErrNotOpen)
	}
	v, err := b.entry.Bool(key)
	if err != nil {
		return false, NewComponentError(ErrorSourceBattery, err)
	}
	return v, nil
}

// IsACPowered reports whether external power is connected.
func (b *Battery) IsACPowered() (bool, error) {
	return b.readBool(platform.KeyExternalConnected)
}

// IsCharging reports whether the battery is charging.
func (b *Battery) IsCharging() (bool, error) {
	return b.readBool(platform.KeyIsCharging)
}

// IsCharged reports whether the battery is fully charged.
func (b *Battery) IsCharged() (bool, error) {
	return b.readBool(platform.KeyFullyCharged)
}

// CurrentCapacity returns the remaining charge in mAh.
func (b *Battery) CurrentCapacity() (int, error) {
	v, err := b.readInt(platform.KeyCurrentCapacity)
	return int(v), err
}

// MaxCapacity returns the full charge capacity in mAh.
func (b *Battery) MaxCapacity() (int, error) {
	v, err := b.readInt(platform.KeyMaxCapacity)
	return int(v), err
}

// DesignCapacity returns the as-new capacity in mAh.
func (b *Battery) DesignCapacity() (int, error) {
	v, err := b.readInt(platform.KeyDesignCapacity)
	return int(v), err
}

// CycleCount returns the number of charge cycles.
func (b *Battery) CycleCount() (int, error) {
	v, err := b.readInt(platform.KeyCycleCount)
	return int(v), err
}

// DesignCycleCount returns the rated number of charge cycles.
func (b *Battery) DesignCycleCount() (int, error) {
	v, err := b.readInt(platform.KeyDesignCycleCount)
	return int(v), err
}

// Temperature returns the battery temperature. The registry reports
// hundredths of a degree Celsius.
func (b *Battery) Temperature(unit TemperatureUnit) (float64, error) {
	raw, err := b.readInt(platform.KeyTemperature)
	if err != nil {
		return 0, err
	}
	return CelsiusTo(unit, float64(raw)/100), nil
}

// TimeRemaining returns the minutes until empty, or until full while
// charging. It returns TimeRemainingUnknown while no estimate exists.
func (b *Battery) TimeRemaining() (int, error) {
	v, err := b.readInt(platform.KeyTimeRemaining)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return TimeRemainingUnknown, nil
	}
	return int(v), nil
}

// TimeRemainingFormatted returns the time remaining as "H:MM", or
// "Calculating" while no estimate exists.
func (b *Battery) TimeRemainingFormatted() (string, error) {
	m, err := b.TimeRemaining()
	if err != nil {
		return "", err
	}
	return FormatTimeRemaining(m), nil
}

// FormatTimeRemaining formats minutes as "H:MM".
func FormatTimeRemaining(minutes int) string {
	if minutes < 0 {
		return "Calculating"
	}
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// Charge returns the charge level: current capacity over max capacity,
// rounded down.
func (b *Battery) Charge() (int, error) {
	cur, err := b.CurrentCapacity()
	if err != nil {
		return 0, err
	}
	full, err := b.MaxCapacity()
	if err != nil {
		return 0, err
	}
	return ChargePercent(cur, full)
}

// Health returns the wear level: current capacity over design capacity,
// rounded up.
func (b *Battery) Health() (int, error) {
	cur, err := b.CurrentCapacity()
	if err != nil {
		return 0, err
	}
	design, err := b.DesignCapacity()
	if err != nil {
		return 0, err
	}
	return HealthPercent(cur, design)
}

// ChargePercent returns floor(current / full * 100).
func ChargePercent(current, full int) (int, error) {
	if full <= 0 || current < 0 {
		return 0, fmt.Errorf("charge %d/%d mAh: %w", current, full, ErrInvalidReading)
	}
	return current * 100 / full, nil
}

// HealthPercent returns ceil(current / design * 100).
func HealthPercent(current, design int) (int, error) {
	if design <= 0 || current < 0 {
		return 0, fmt.Errorf("health %d/%d mAh: %w", current, design, ErrInvalidReading)
	}
	return (current*100 + design - 1) / design, nil
}

// WithBattery opens the named battery, calls fn and closes the battery on
// every path. Errors from fn and from Close are both returned.
func WithBattery(src platform.PowerSource, name string, fn func(*Battery) error, opts ...BatteryOption) (err error) {
	b := NewBattery(src, name, opts...)
	if err := b.Open(); err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(b)
}
