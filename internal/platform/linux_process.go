package platform

import (
	"debug/elf"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// linuxProcessProvider implements ProcessProvider by reading /proc/[pid].
type linuxProcessProvider struct {
	procRoot string
}

func newLinuxProcessProvider(procRoot string) *linuxProcessProvider {
	return &linuxProcessProvider{procRoot: procRoot}
}

func (p *linuxProcessProvider) Pids() ([]int, error) {
	return listPIDs(p.procRoot)
}

func (p *linuxProcessProvider) Info(pid int) (ProcessRecord, error) {
	dir := filepath.Join(p.procRoot, strconv.Itoa(pid))

	data, err := os.ReadFile(filepath.Join(dir, "stat"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ProcessRecord{}, fmt.Errorf("process %d: %w", pid, ErrNotFound)
		}
		return ProcessRecord{}, fmt.Errorf("reading stat for process %d: %w", pid, err)
	}
	st, err := parsePIDStat(data)
	if err != nil {
		return ProcessRecord{}, fmt.Errorf("parsing stat for process %d: %w", pid, err)
	}

	rec := ProcessRecord{
		PID:     st.pid,
		PPID:    st.ppid,
		PGID:    st.pgrp,
		UID:     -1,
		Command: DecodeCommand(st.comm, MaxCommandLen),
		Arch:    executableArch(filepath.Join(dir, "exe")),
		State:   st.state,
	}

	if status, err := os.ReadFile(filepath.Join(dir, "status")); err == nil {
		if uid, err := parseStatusUID(string(status)); err == nil {
			rec.UID = uid
		}
	}
	return rec, nil
}

// listPIDs returns the numeric directory names under procRoot in ascending order.
func listPIDs(procRoot string) ([]int, error) {
	entries, err := os.ReadDir(procRoot)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", procRoot, err)
	}

	var pids []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids, nil
}

// executableArch reads the ELF header of a process image and returns its
// architecture tag. Kernel threads and images we may not read are "unknown".
func executableArch(path string) string {
	f, err := elf.Open(path)
	if err != nil {
		return "unknown"
	}
	defer f.Close()
	return elfArch(f.Class, f.Machine)
}

// elfArch maps an ELF class and machine to the tag uname(1) would print.
func elfArch(class elf.Class, machine elf.Machine) string {
	switch machine {
	case elf.EM_X86_64:
		if class == elf.ELFCLASS32 {
			return "x32"
		}
		return "x86_64"
	case elf.EM_386:
		return "i386"
	case elf.EM_AARCH64:
		return "arm64"
	case elf.EM_ARM:
		return "arm"
	case elf.EM_RISCV:
		if class == elf.ELFCLASS32 {
			return "riscv32"
		}
		return "riscv64"
	default:
		return strings.ToLower(strings.TrimPrefix(machine.String(), "EM_"))
	}
}
