// Package logging provides the Logger interface used across go-systemkit and
// its zerolog and slog backends. Library packages accept a Logger and
// default to Nop; the CLI builds a zerolog logger from its flags.
package logging
