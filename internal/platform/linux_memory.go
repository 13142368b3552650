package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// linuxMemoryProvider implements MemoryProvider by reading /proc/vmstat and /proc/meminfo.
type linuxMemoryProvider struct {
	procVMStatPath  string
	procMemInfoPath string
	pageSize        uint64
}

func newLinuxMemoryProvider(procRoot string) *linuxMemoryProvider {
	return &linuxMemoryProvider{
		procVMStatPath:  filepath.Join(procRoot, "vmstat"),
		procMemInfoPath: filepath.Join(procRoot, "meminfo"),
		pageSize:        pageSize(),
	}
}

func (m *linuxMemoryProvider) PageSize() uint64 {
	return m.pageSize
}

func (m *linuxMemoryProvider) VMStatistics() (VMStatistics, error) {
	data, err := os.ReadFile(m.procVMStatPath)
	if err != nil {
		return VMStatistics{}, fmt.Errorf("reading %s: %w", m.procVMStatPath, err)
	}
	return parseVMStat(string(data))
}

func (m *linuxMemoryProvider) PhysicalMemory() (uint64, error) {
	data, err := os.ReadFile(m.procMemInfoPath)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", m.procMemInfoPath, err)
	}
	return parseMemTotal(string(data))
}
