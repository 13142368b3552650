package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is a structured logger taking a message and alternating
// key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel parses "debug", "info", "warn" or "error".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Format selects the zerolog output encoding.
type Format string

const (
	// FormatAuto uses FormatConsole on terminals and FormatJSON otherwise.
	FormatAuto    Format = "auto"
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// ParseFormat parses "auto", "console" or "json".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatConsole, FormatJSON:
		return f, nil
	default:
		return FormatAuto, fmt.Errorf("unknown log format %q", s)
	}
}

// ZerologAdapter implements Logger on top of a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// New creates a zerolog-backed Logger writing to w with a timestamp and the
// given component name.
func New(w io.Writer, level Level, format Format, component string) *ZerologAdapter {
	if w == nil {
		w = os.Stderr
	}
	if format == FormatAuto || format == "" {
		format = FormatJSON
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = FormatConsole
		}
	}
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(w).Level(level.zerolog()).With().Timestamp()
	if component != "" {
		ctx = ctx.Str("component", component)
	}
	return &ZerologAdapter{logger: ctx.Logger()}
}

// Debug logs a debug-level message with optional key-value pairs.
func (z *ZerologAdapter) Debug(msg string, args ...any) {
	z.log(z.logger.Debug(), msg, args)
}

// Info logs an info-level message with optional key-value pairs.
func (z *ZerologAdapter) Info(msg string, args ...any) {
	z.log(z.logger.Info(), msg, args)
}

// Warn logs a warning-level message with optional key-value pairs.
func (z *ZerologAdapter) Warn(msg string, args ...any) {
	z.log(z.logger.Warn(), msg, args)
}

// Error logs an error-level message with optional key-value pairs.
func (z *ZerologAdapter) Error(msg string, args ...any) {
	z.log(z.logger.Error(), msg, args)
}

func (z *ZerologAdapter) log(e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	if len(args)%2 == 1 {
		args = append(args, "!MISSING")
	}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		switch v := args[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

// SlogAdapter wraps a *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a Logger adapter from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// NewSlogText returns a slog text logger writing to w at level.
func NewSlogText(w io.Writer, level Level) *SlogAdapter {
	if w == nil {
		w = os.Stderr
	}
	return &SlogAdapter{logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.slog()}))}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// Nop returns a Logger that discards all log messages.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
