package monitor

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/opd-ai/go-systemkit/internal/platform"
	"github.com/opd-ai/go-systemkit/internal/platform/mocks"
)

// fakeEntry is a PowerEntry backed by maps.
type fakeEntry struct {
	ints     map[platform.PowerKey]int64
	bools    map[platform.PowerKey]bool
	released int
	relErr   error
}

func (e *fakeEntry) Int(key platform.PowerKey) (int64, error) {
	v, ok := e.ints[key]
	if !ok {
		return 0, fmt.Errorf("%s: %w", key, platform.ErrUnsupported)
	}
	return v, nil
}

func (e *fakeEntry) Bool(key platform.PowerKey) (bool, error) {
	v, ok := e.bools[key]
	if !ok {
		return false, fmt.Errorf("%s: %w", key, platform.ErrUnsupported)
	}
	return v, nil
}

func (e *fakeEntry) Release() error {
	e.released++
	return e.relErr
}

func newFakeEntry() *fakeEntry {
	return &fakeEntry{
		ints: map[platform.PowerKey]int64{
			platform.KeyCurrentCapacity:  2222,
			platform.KeyMaxCapacity:      2500,
			platform.KeyDesignCapacity:   3000,
			platform.KeyCycleCount:       312,
			platform.KeyDesignCycleCount: 1000,
			platform.KeyTemperature:      3650,
			platform.KeyTimeRemaining:    125,
		},
		bools: map[platform.PowerKey]bool{
			platform.KeyExternalConnected: true,
			platform.KeyIsCharging:        true,
			platform.KeyFullyCharged:      false,
		},
	}
}

// fakeRegistry holds named entries.
type fakeRegistry struct {
	entries map[string]*fakeEntry
	err     error
}

func (r *fakeRegistry) DefaultName() string { return "InternalBattery-0" }

func (r *fakeRegistry) Lookup(name string) (platform.PowerEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("power supply %q: %w", name, platform.ErrNotFound)
	}
	return e, nil
}

func openBattery(t *testing.T, entry *fakeEntry) *Battery {
	t.Helper()
	b := NewBattery(&fakeRegistry{entries: map[string]*fakeEntry{"InternalBattery-0": entry}}, "")
	if err := b.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBattery_Readings(t *testing.T) {
	b := openBattery(t, newFakeEntry())

	if b.Name() != "InternalBattery-0" {
		t.Errorf("Name() = %q, want default battery", b.Name())
	}

	charge, err := b.Charge()
	if err != nil || charge != 88 {
		t.Errorf("Charge() = %d, %v, want 88", charge, err)
	}
	health, err := b.Health()
	if err != nil || health != 75 {
		t.Errorf("Health() = %d, %v, want 75", health, err)
	}

	intReads := []struct {
		name string
		read func() (int, error)
		want int
	}{
		{"CurrentCapacity", b.CurrentCapacity, 2222},
		{"MaxCapacity", b.MaxCapacity, 2500},
		{"DesignCapacity", b.DesignCapacity, 3000},
		{"CycleCount", b.CycleCount, 312},
		{"DesignCycleCount", b.DesignCycleCount, 1000},
		{"TimeRemaining", b.TimeRemaining, 125},
	}
	for _, r := range intReads {
		got, err := r.read()
		if err != nil || got != r.want {
			t.Errorf("%s() = %d, %v, want %d", r.name, got, err, r.want)
		}
	}

	boolReads := []struct {
		name string
		read func() (bool, error)
		want bool
	}{
		{"IsACPowered", b.IsACPowered, true},
		{"IsCharging", b.IsCharging, true},
		{"IsCharged", b.IsCharged, false},
	}
	for _, r := range boolReads {
		got, err := r.read()
		if err != nil || got != r.want {
			t.Errorf("%s() = %v, %v, want %v", r.name, got, err, r.want)
		}
	}

	formatted, err := b.TimeRemainingFormatted()
	if err != nil || formatted != "2:05" {
		t.Errorf("TimeRemainingFormatted() = %q, %v, want 2:05", formatted, err)
	}
}

func TestBattery_Temperature(t *testing.T) {
	b := openBattery(t, newFakeEntry())

	tests := []struct {
		unit TemperatureUnit
		want float64
	}{
		{Celsius, 36.5},
		{Fahrenheit, 97.7},
		{Kelvin, 309.65},
	}
	for _, tt := range tests {
		got, err := b.Temperature(tt.unit)
		if err != nil {
			t.Fatalf("Temperature(%v) error = %v", tt.unit, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Temperature(%v) = %v, want %v", tt.unit, got, tt.want)
		}
	}
}

func TestBattery_TimeRemainingUnknown(t *testing.T) {
	entry := newFakeEntry()
	entry.ints[platform.KeyTimeRemaining] = -1
	b := openBattery(t, entry)

	m, err := b.TimeRemaining()
	if err != nil || m != TimeRemainingUnknown {
		t.Errorf("TimeRemaining() = %d, %v, want unknown", m, err)
	}
	s, _ := b.TimeRemainingFormatted()
	if s != "Calculating" {
		t.Errorf("TimeRemainingFormatted() = %q, want Calculating", s)
	}
}

func TestBattery_Lifecycle(t *testing.T) {
	entry := newFakeEntry()
	b := NewBattery(&fakeRegistry{entries: map[string]*fakeEntry{"InternalBattery-0": entry}}, "InternalBattery-0")

	if b.IsOpen() {
		t.Fatal("new handle is open")
	}
	if _, err := b.Charge(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Charge() before Open error = %v, want ErrNotOpen", err)
	}
	if _, err := b.IsACPowered(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("IsACPowered() before Open error = %v, want ErrNotOpen", err)
	}

	if err := b.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := b.Open(); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("second Open() error = %v, want ErrAlreadyOpen", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if entry.released != 1 {
		t.Errorf("released %d times, want 1", entry.released)
	}
	if _, err := b.Health(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Health() after Close error = %v, want ErrNotOpen", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close() on closed handle error = %v", err)
	}

	if err := b.Open(); err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	_ = b.Close()
}

func TestBattery_CloseReleaseFails(t *testing.T) {
	entry := newFakeEntry()
	entry.relErr = errors.New("IOObjectRelease failed")
	b := openBattery(t, entry)

	err := b.Close()
	if !errors.Is(err, entry.relErr) {
		t.Errorf("Close() error = %v, want %v", err, entry.relErr)
	}
	if b.IsOpen() {
		t.Error("handle still open after failed release")
	}
}

func TestBattery_OpenNotFound(t *testing.T) {
	tests := []struct {
		name string
		src  platform.PowerSource
	}{
		{"unknown name", &fakeRegistry{}},
		{"no registry", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBattery(tt.src, "BAT9")
			if err := b.Open(); !errors.Is(err, ErrNotFound) {
				t.Errorf("Open() error = %v, want ErrNotFound", err)
			}
			if b.IsOpen() {
				t.Error("handle open after failed Open")
			}
		})
	}
}

func TestBattery_OpenLookupFails(t *testing.T) {
	boom := errors.New("registry unavailable")
	b := NewBattery(&fakeRegistry{err: boom}, "BAT0")

	err := b.Open()
	if !errors.Is(err, boom) || !IsComponentError(err, ErrorSourceBattery) {
		t.Errorf("Open() error = %v, want battery ComponentError", err)
	}
}

func TestBattery_ReadFailure(t *testing.T) {
	entry := newFakeEntry()
	delete(entry.ints, platform.KeyDesignCapacity)
	b := openBattery(t, entry)

	_, err := b.Health()
	if !errors.Is(err, ErrReadFailure) || !errors.Is(err, platform.ErrUnsupported) {
		t.Errorf("Health() error = %v, want read failure", err)
	}
}

func TestBattery_ZeroCapacity(t *testing.T) {
	entry := newFakeEntry()
	entry.ints[platform.KeyMaxCapacity] = 0
	b := openBattery(t, entry)

	if _, err := b.Charge(); !errors.Is(err, ErrInvalidReading) {
		t.Errorf("Charge() error = %v, want ErrInvalidReading", err)
	}
}

func TestBattery_WithMocks(t *testing.T) {
	ctrl := gomock.NewController(t)
	entry := mocks.NewMockPowerEntry(ctrl)
	src := mocks.NewMockPowerSource(ctrl)

	gomock.InOrder(
		src.EXPECT().Lookup("BAT0").Return(entry, nil),
		entry.EXPECT().Int(platform.KeyCurrentCapacity).Return(int64(4400), nil),
		entry.EXPECT().Int(platform.KeyMaxCapacity).Return(int64(5000), nil),
		entry.EXPECT().Release().Return(nil),
	)

	var charge int
	err := WithBattery(src, "BAT0", func(b *Battery) error {
		var err error
		charge, err = b.Charge()
		return err
	})
	if err != nil {
		t.Fatalf("WithBattery() error = %v", err)
	}
	if charge != 88 {
		t.Errorf("Charge() = %d, want 88", charge)
	}
}

func TestWithBattery_ClosesOnError(t *testing.T) {
	entry := newFakeEntry()
	src := &fakeRegistry{entries: map[string]*fakeEntry{"BAT0": entry}}
	boom := errors.New("render failed")

	err := WithBattery(src, "BAT0", func(*Battery) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("WithBattery() error = %v, want %v", err, boom)
	}
	if entry.released != 1 {
		t.Errorf("released %d times, want 1", entry.released)
	}

	if err := WithBattery(src, "BAT1", func(*Battery) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("WithBattery(missing) error = %v, want ErrNotFound", err)
	}
}

func TestChargeHealthPercent(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(int, int) (int, error)
		cur     int
		den     int
		want    int
		wantErr bool
	}{
		{"charge floors", ChargePercent, 2222, 2500, 88, false},
		{"charge full", ChargePercent, 2500, 2500, 100, false},
		{"charge zero max", ChargePercent, 10, 0, 0, true},
		{"health ceils", HealthPercent, 2222, 3000, 75, false},
		{"health exact", HealthPercent, 1500, 3000, 50, false},
		{"health zero design", HealthPercent, 10, 0, 0, true},
		{"health negative current", HealthPercent, -1, 3000, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.cur, tt.den)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseTemperatureUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    TemperatureUnit
		wantErr bool
	}{
		{"c", Celsius, false},
		{"F", Fahrenheit, false},
		{"kelvin", Kelvin, false},
		{"R", Celsius, true},
	}
	for _, tt := range tests {
		got, err := ParseTemperatureUnit(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTemperatureUnit(%q) = %v, %v", tt.in, got, err)
		}
	}
	if Kelvin.String() != "K" {
		t.Errorf("Kelvin.String() = %q, want K", Kelvin.String())
	}
}
