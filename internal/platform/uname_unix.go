//go:build linux || darwin || freebsd || netbsd || openbsd

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// unameSyscall returns the kernel identification of the local host.
func unameSyscall() (Uname, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return Uname{}, fmt.Errorf("uname: %w", err)
	}
	return Uname{
		Sysname:  unix.ByteSliceToString(u.Sysname[:]),
		Nodename: unix.ByteSliceToString(u.Nodename[:]),
		Release:  unix.ByteSliceToString(u.Release[:]),
		Version:  unix.ByteSliceToString(u.Version[:]),
		Machine:  unix.ByteSliceToString(u.Machine[:]),
	}, nil
}

// processGroup returns the process group id of pid.
func processGroup(pid int) (int, error) {
	return unix.Getpgid(pid)
}

// pageSize returns the VM page size of the local host.
func pageSize() uint64 {
	return uint64(unix.Getpagesize())
}
