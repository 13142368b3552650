package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// linuxCPUProvider implements CPUProvider by reading /proc/stat, /proc/cpuinfo
// and /proc/loadavg.
type linuxCPUProvider struct {
	procStatPath    string
	procInfoPath    string
	procLoadavgPath string
}

func newLinuxCPUProvider(procRoot string) *linuxCPUProvider {
	return &linuxCPUProvider{
		procStatPath:    filepath.Join(procRoot, "stat"),
		procInfoPath:    filepath.Join(procRoot, "cpuinfo"),
		procLoadavgPath: filepath.Join(procRoot, "loadavg"),
	}
}

func (c *linuxCPUProvider) Cores() (CoreCounts, error) {
	data, err := os.ReadFile(c.procInfoPath)
	if err != nil {
		return CoreCounts{}, fmt.Errorf("reading %s: %w", c.procInfoPath, err)
	}
	return parseCPUInfoCores(string(data))
}

func (c *linuxCPUProvider) Ticks() (TickSnapshot, error) {
	data, err := os.ReadFile(c.procStatPath)
	if err != nil {
		return TickSnapshot{}, fmt.Errorf("reading %s: %w", c.procStatPath, err)
	}
	return parseProcStat(string(data))
}

func (c *linuxCPUProvider) LoadAverage() (LoadAverage, error) {
	info, err := c.readLoadAvg()
	if err != nil {
		return LoadAverage{}, err
	}
	return info.load, nil
}

func (c *linuxCPUProvider) Running() (int, error) {
	info, err := c.readLoadAvg()
	if err != nil {
		return 0, err
	}
	return info.running, nil
}

// readLoadAvg reads and parses /proc/loadavg.
func (c *linuxCPUProvider) readLoadAvg() (loadAvgInfo, error) {
	data, err := os.ReadFile(c.procLoadavgPath)
	if err != nil {
		return loadAvgInfo{}, fmt.Errorf("reading %s: %w", c.procLoadavgPath, err)
	}
	return parseLoadAvg(string(data))
}
