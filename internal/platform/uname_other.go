//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package platform

import "os"

func unameSyscall() (Uname, error) {
	return Uname{}, ErrUnsupported
}

func processGroup(pid int) (int, error) {
	return 0, ErrUnsupported
}

func pageSize() uint64 {
	return uint64(os.Getpagesize())
}
