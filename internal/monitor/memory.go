package monitor

import (
	"fmt"

	"github.com/opd-ai/go-systemkit/internal/platform"
)

// MemorySource provides virtual memory page counters.
// platform.MemoryProvider satisfies this interface.
type MemorySource interface {
	PageSize() uint64
	VMStatistics() (platform.VMStatistics, error)
	PhysicalMemory() (uint64, error)
}

// MemoryBytes is a VM statistics snapshot converted to bytes.
type MemoryBytes struct {
	Free       uint64
	Active     uint64
	Inactive   uint64
	Wired      uint64
	Compressed uint64
}

// In expresses every field in the given unit.
func (b MemoryBytes) In(unit Unit) MemoryUsage {
	return MemoryUsage{
		Unit:       unit,
		Free:       Convert(b.Free, unit),
		Active:     Convert(b.Active, unit),
		Inactive:   Convert(b.Inactive, unit),
		Wired:      Convert(b.Wired, unit),
		Compressed: Convert(b.Compressed, unit),
	}
}

// MemoryUsage holds memory occupancy in Unit.
type MemoryUsage struct {
	Unit       Unit
	Free       float64
	Active     float64
	Inactive   float64
	Wired      float64
	Compressed float64
}

// MemorySampler converts page counts to memory sizes. It keeps no state
// between calls.
type MemorySampler struct {
	src MemorySource
}

// NewMemorySampler creates a sampler reading from src.
func NewMemorySampler(src MemorySource) *MemorySampler {
	return &MemorySampler{src: src}
}

// Bytes reads the current page counts and multiplies them by the page size.
func (m *MemorySampler) Bytes() (MemoryBytes, error) {
	pageSize := m.src.PageSize()
	if pageSize == 0 {
		return MemoryBytes{}, NewComponentError(ErrorSourceMemory, fmt.Errorf("page size 0: %w", ErrInvalidReading))
	}

	vm, err := m.src.VMStatistics()
	if err != nil {
		return MemoryBytes{}, NewComponentError(ErrorSourceMemory, err)
	}

	return MemoryBytes{
		Free:       PagesToBytes(vm.Free, pageSize),
		Active:     PagesToBytes(vm.Active, pageSize),
		Inactive:   PagesToBytes(vm.Inactive, pageSize),
		Wired:      PagesToBytes(vm.Wired, pageSize),
		Compressed: PagesToBytes(vm.Compressed, pageSize),
	}, nil
}

// Usage returns memory occupancy in the requested unit.
func (m *MemorySampler) Usage(unit Unit) (MemoryUsage, error) {
	b, err := m.Bytes()
	if err != nil {
		return MemoryUsage{}, err
	}
	return b.In(unit), nil
}

// PhysicalSize returns installed memory in the requested unit.
func (m *MemorySampler) PhysicalSize(unit Unit) (float64, error) {
	total, err := m.src.PhysicalMemory()
	if err != nil {
		return 0, NewComponentError(ErrorSourceMemory, err)
	}
	return Convert(total, unit), nil
}
