package platform

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// mockRunner serves canned command output in place of an SSH session.
type mockRunner struct {
	mu       sync.Mutex
	results  map[string]string
	errors   map[string]error
	commands []string
}

func newMockRunner() *mockRunner {
	return &mockRunner{
		results: make(map[string]string),
		errors:  make(map[string]error),
	}
}

func (m *mockRunner) setCommandResult(cmd, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[cmd] = result
}

func (m *mockRunner) setCommandError(cmd string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[cmd] = err
}

func (m *mockRunner) runCommand(cmd string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, cmd)
	if err, ok := m.errors[cmd]; ok {
		return "", err
	}
	if result, ok := m.results[cmd]; ok {
		return result, nil
	}
	return "", fmt.Errorf("command not mocked: %s", cmd)
}

func newMockRemote(t *testing.T) (*sshPlatform, *mockRunner) {
	t.Helper()
	p, err := newSSHPlatform(RemoteConfig{Host: "db1.example.net", User: "monitor", AuthMethod: AgentAuth{}})
	if err != nil {
		t.Fatalf("newSSHPlatform() error = %v", err)
	}
	runner := newMockRunner()
	p.initProviders(runner, 4096)
	return p, runner
}

func TestNewSSHPlatform_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config RemoteConfig
	}{
		{"missing host", RemoteConfig{User: "u", AuthMethod: AgentAuth{}}},
		{"missing user", RemoteConfig{Host: "h", AuthMethod: AgentAuth{}}},
		{"missing auth", RemoteConfig{Host: "h", User: "u"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newSSHPlatform(tt.config); err == nil {
				t.Error("newSSHPlatform() expected error")
			}
		})
	}

	p, err := newSSHPlatform(RemoteConfig{Host: "h", User: "u", AuthMethod: PasswordAuth{Password: "x"}})
	if err != nil {
		t.Fatalf("newSSHPlatform() error = %v", err)
	}
	if p.config.Port != 22 || p.cmdTimeout != 5*time.Second {
		t.Errorf("defaults = port %d timeout %v, want 22, 5s", p.config.Port, p.cmdTimeout)
	}
	if p.Name() != "remote-linux" {
		t.Errorf("Name() = %q, want remote-linux", p.Name())
	}
	if p.Power() != nil {
		t.Error("Power() should be nil for remote hosts")
	}
}

func TestRemoteCPUProvider(t *testing.T) {
	p, runner := newMockRemote(t)
	runner.setCommandResult("head -n 1 /proc/stat", "cpu  10 1 5 50 2 0 0 0 0 0\n")
	runner.setCommandResult("cat /proc/cpuinfo", "processor\t: 0\n\nprocessor\t: 1\n")
	runner.setCommandResult("cat /proc/loadavg", "0.10 0.20 0.30 1/99 1000\n")

	ticks, err := p.CPU().Ticks()
	if err != nil {
		t.Fatalf("Ticks() error = %v", err)
	}
	if want := (TickSnapshot{User: 10, System: 5, Idle: 52, Nice: 1}); ticks != want {
		t.Errorf("Ticks() = %+v, want %+v", ticks, want)
	}

	cores, err := p.CPU().Cores()
	if err != nil || cores.Logical != 2 {
		t.Errorf("Cores() = %+v, %v, want 2 logical", cores, err)
	}

	running, err := p.CPU().Running()
	if err != nil || running != 1 {
		t.Errorf("Running() = %d, %v, want 1", running, err)
	}
}

func TestRemoteMemoryProvider(t *testing.T) {
	p, runner := newMockRemote(t)
	runner.setCommandResult("cat /proc/vmstat", "nr_free_pages 77\n")
	runner.setCommandResult("grep MemTotal /proc/meminfo", "MemTotal: 1024 kB\n")

	if p.Memory().PageSize() != 4096 {
		t.Errorf("PageSize() = %d, want 4096", p.Memory().PageSize())
	}
	vm, err := p.Memory().VMStatistics()
	if err != nil || vm.Free != 77 {
		t.Errorf("VMStatistics() = %+v, %v, want Free=77", vm, err)
	}
	total, err := p.Memory().PhysicalMemory()
	if err != nil || total != 1024*1024 {
		t.Errorf("PhysicalMemory() = %d, %v, want %d", total, err, 1024*1024)
	}
}

func TestRemoteSystemProvider(t *testing.T) {
	p, runner := newMockRemote(t)
	runner.setCommandResult(remoteUnameCommand, "Linux\ndb1\n6.1.0-18-amd64\n#1 SMP PREEMPT_DYNAMIC Debian 6.1.76-1 (2024-02-01)\nx86_64\n")
	runner.setCommandResult("cat /proc/loadavg; ls -1 /proc | grep -c '^[0-9][0-9]*$'", "0.10 0.20 0.30 1/99 1000\n42\n")
	runner.setCommandResult(remoteCoolingCommand, "Processor 1\nPch Thermal 4\nintel_powerclamp 3\n")

	u, err := p.System().Uname()
	if err != nil {
		t.Fatalf("Uname() error = %v", err)
	}
	if u.Sysname != "Linux" || u.Nodename != "db1" || u.Machine != "x86_64" {
		t.Errorf("Uname() = %+v", u)
	}
	if !strings.HasPrefix(u.Version, "#1 SMP") {
		t.Errorf("Uname().Version = %q", u.Version)
	}

	counts, err := p.System().TaskCounts()
	if err != nil {
		t.Fatalf("TaskCounts() error = %v", err)
	}
	if want := (TaskCounts{Processes: 42, Threads: 99}); counts != want {
		t.Errorf("TaskCounts() = %+v, want %+v", counts, want)
	}

	level, err := p.System().ThermalLevel()
	if err != nil || level != 3 {
		t.Errorf("ThermalLevel() = %d, %v, want 3", level, err)
	}

	if _, err := p.System().PowerLimit(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("PowerLimit() error = %v, want ErrUnsupported", err)
	}
}

func TestRemoteProcessProvider(t *testing.T) {
	p, runner := newMockRemote(t)
	runner.setCommandResult("ls -1 /proc", "1\n42\nacpi\nself\ncpuinfo\n")
	runner.setCommandResult("cat /proc/42/stat && grep '^Uid:' /proc/42/status",
		"42 (postgres) S 1 42 42 0 -1 0 0 0 0 0 0 0 0 0 20 0 9 0 1 0 0\nUid:\t999\t999\t999\t999\n")
	runner.setCommandError("cat /proc/7/stat && grep '^Uid:' /proc/7/status",
		fmt.Errorf("cat: /proc/7/stat: No such file or directory: %w", ErrNotFound))

	pids, err := p.Process().Pids()
	if err != nil || len(pids) != 2 {
		t.Errorf("Pids() = %v, %v, want [1 42]", pids, err)
	}

	rec, err := p.Process().Info(42)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	want := ProcessRecord{PID: 42, PPID: 1, PGID: 42, UID: 999, Command: "postgres", Arch: "unknown", State: ProcessSleeping}
	if rec != want {
		t.Errorf("Info() = %+v, want %+v", rec, want)
	}

	if _, err := p.Process().Info(7); !errors.Is(err, ErrNotFound) {
		t.Errorf("Info() of missing process error = %v, want ErrNotFound", err)
	}
	if _, err := p.Process().Info(0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Info(0) error = %v, want ErrNotFound", err)
	}
}

func TestRemoteCommandError(t *testing.T) {
	err := remoteCommandError(errors.New("exit 1"), "cat: /proc/9/stat: No such file or directory\n")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("remoteCommandError() = %v, want ErrNotFound", err)
	}
	err = remoteCommandError(errors.New("exit 1"), "permission denied")
	if errors.Is(err, ErrNotFound) {
		t.Errorf("remoteCommandError() = %v, should not be ErrNotFound", err)
	}
}

func TestSSHPlatform_ExecuteWithoutClient(t *testing.T) {
	p, err := newSSHPlatform(RemoteConfig{Host: "h", User: "u", AuthMethod: AgentAuth{}})
	if err != nil {
		t.Fatalf("newSSHPlatform() error = %v", err)
	}
	if _, err := p.runCommand("true"); err == nil {
		t.Error("runCommand() without a connection expected error")
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseUnameLines_Invalid(t *testing.T) {
	if _, err := parseUnameLines("Linux\nhost\n"); err == nil {
		t.Error("parseUnameLines() with 2 lines expected error")
	}
}
