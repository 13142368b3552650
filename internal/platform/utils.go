package platform

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxCommandLen is the size of the kernel's command name buffer,
// including the terminating NUL.
const MaxCommandLen = 16

// parseUint64 parses a string to uint64, returning 0 on error.
// This utility is used by the local, portable and remote providers.
func parseUint64(s string) uint64 {
	v, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	return v
}

// readUint64File reads a uint64 value from a file.
// Returns the value and true if successful, 0 and false otherwise.
func readUint64File(path string) (uint64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	value, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

// readInt64File reads an int64 value from a file.
// Returns the value and true if successful, 0 and false otherwise.
func readInt64File(path string) (int64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	value, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

// readStringFile reads a string value from a file.
// Returns the trimmed string and true if successful, empty string and false otherwise.
func readStringFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return strings.TrimSpace(string(data)), true
}

// DecodeCommand converts a fixed-size command name buffer to a string.
// At most limit-1 bytes are considered, leaving room for the terminator the
// kernel reserves. Decoding stops at the first NUL byte or at the first byte
// that does not start a valid UTF-8 sequence.
func DecodeCommand(buf []byte, limit int) string {
	if limit > 0 && len(buf) > limit-1 {
		buf = buf[:limit-1]
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}

	end := 0
	for end < len(buf) {
		r, size := utf8.DecodeRune(buf[end:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		end += size
	}
	return string(buf[:end])
}
