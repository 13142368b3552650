package monitor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opd-ai/go-systemkit/internal/platform"
)

var (
	// ErrNotFound is returned when a named OS resource such as a battery
	// does not exist on this host. It is the same value as platform.ErrNotFound.
	ErrNotFound = platform.ErrNotFound

	// ErrAlreadyOpen is returned by Open on a handle that is already open.
	ErrAlreadyOpen = errors.New("handle already open")

	// ErrNotOpen is returned by reads on a handle that is not open.
	ErrNotOpen = errors.New("handle not open")

	// ErrReadFailure matches every ComponentError: the host query itself failed.
	ErrReadFailure = errors.New("host read failed")

	// ErrInvalidReading is returned when a host query succeeds but yields a
	// value that cannot be used, such as a zero capacity denominator.
	ErrInvalidReading = errors.New("invalid reading")
)

// ErrorSource identifies which component produced an error.
type ErrorSource string

const (
	ErrorSourceCPU        ErrorSource = "cpu"
	ErrorSourceMemory     ErrorSource = "memory"
	ErrorSourceLoad       ErrorSource = "load"
	ErrorSourceMachFactor ErrorSource = "machfactor"
	ErrorSourceUptime     ErrorSource = "uptime"
	ErrorSourceTasks      ErrorSource = "tasks"
	ErrorSourceThermal    ErrorSource = "thermal"
	ErrorSourceSystem     ErrorSource = "system"
	ErrorSourceProcess    ErrorSource = "process"
	ErrorSourceBattery    ErrorSource = "battery"
)

// ComponentError wraps a failed host read with its source.
// It preserves the original error for inspection via errors.Is/errors.As
// and additionally matches ErrReadFailure.
type ComponentError struct {
	Source ErrorSource
	Err    error
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *ComponentError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrReadFailure.
func (e *ComponentError) Is(target error) bool {
	return target == ErrReadFailure
}

// NewComponentError creates a new ComponentError.
func NewComponentError(source ErrorSource, err error) *ComponentError {
	return &ComponentError{
		Source: source,
		Err:    err,
	}
}

// UpdateError aggregates multiple component errors from a single Update() call.
// It preserves all individual errors, allowing callers to inspect each one.
type UpdateError struct {
	Errors []*ComponentError
}

// Error implements the error interface.
func (e *UpdateError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("update error: %v", e.Errors[0])
	}
	msgs := make([]string, len(e.Errors))
	for i, ce := range e.Errors {
		msgs[i] = ce.Error()
	}
	return fmt.Sprintf("update errors (%d): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the underlying errors slice for multi-error support.
// This enables errors.Is to check against any wrapped error.
func (e *UpdateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ce := range e.Errors {
		errs[i] = ce
	}
	return errs
}

// HasSource returns true if any error originated from the given source.
func (e *UpdateError) HasSource(source ErrorSource) bool {
	for _, ce := range e.Errors {
		if ce.Source == source {
			return true
		}
	}
	return false
}

// BySource returns all errors from the specified source.
func (e *UpdateError) BySource(source ErrorSource) []*ComponentError {
	var result []*ComponentError
	for _, ce := range e.Errors {
		if ce.Source == source {
			result = append(result, ce)
		}
	}
	return result
}

// AsUpdateError attempts to extract an UpdateError from an error.
// Returns nil if the error is not an UpdateError.
func AsUpdateError(err error) *UpdateError {
	var ue *UpdateError
	if errors.As(err, &ue) {
		return ue
	}
	return nil
}

// IsComponentError returns true if any error in err's tree is a
// ComponentError with the given source. Every branch of a multi-error such
// as UpdateError is searched.
func IsComponentError(err error, source ErrorSource) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *ComponentError:
		return e.Source == source || IsComponentError(e.Err, source)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if IsComponentError(inner, source) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return IsComponentError(e.Unwrap(), source)
	}
	return false
}
