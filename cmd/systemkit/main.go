// Package main provides the systemkit command: a one-shot or periodically
// refreshed report of CPU, memory, kernel and battery readings.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/opd-ai/go-systemkit/internal/config"
	"github.com/opd-ai/go-systemkit/internal/logging"
	"github.com/opd-ai/go-systemkit/internal/monitor"
	"github.com/opd-ai/go-systemkit/internal/platform"
	"github.com/opd-ai/go-systemkit/internal/profiling"
	"github.com/opd-ai/go-systemkit/pkg/systemkit"
)

// Version is the current version of systemkit.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitConfig   = 4
	exitCanceled = 130
)

// configDebounce coalesces bursts of writes to the watched config file.
const configDebounce = 500 * time.Millisecond

type flags struct {
	config     string
	provider   string
	battery    string
	noBattery  bool
	tempUnit   string
	watch      time.Duration
	textfile   string
	color      bool
	logLevel   string
	logFormat  string
	processes  bool
	version    bool
	help       bool
	cpuProfile string
	memProfile string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func newFlagSet(f *flags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("systemkit", pflag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "path to a YAML or Lua configuration file")
	fs.StringVar(&f.provider, "provider", "", "host provider: auto, linux, portable or remote")
	fs.StringVar(&f.battery, "battery", "", "battery to report on (default: the platform's primary battery)")
	fs.BoolVar(&f.noBattery, "no-battery", false, "leave out the battery section")
	fs.StringVar(&f.tempUnit, "temp-unit", "", "battery temperature unit: C, F or K")
	fs.DurationVarP(&f.watch, "watch", "w", 0, "re-render the report at this interval until interrupted")
	fs.StringVar(&f.textfile, "textfile", "", "also write Prometheus metrics to this file")
	fs.BoolVar(&f.color, "color", false, "style section headings")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: auto, console or json")
	fs.BoolVar(&f.processes, "processes", false, "append the process table")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")
	fs.StringVar(&f.cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
	fs.StringVar(&f.memProfile, "memprofile", "", "write a heap profile to this file on exit")
	return fs
}

func run(args []string, stdout, stderr io.Writer) int {
	var f flags
	fs := newFlagSet(&f)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, fs)
			return exitOK
		}
		fmt.Fprintf(stderr, "systemkit: %v\n", err)
		return exitUsage
	}
	if f.help {
		printHelp(stderr, fs)
		return exitOK
	}
	if f.version {
		fmt.Fprintf(stdout, "systemkit version %s\n", Version)
		return exitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "systemkit: unexpected argument %q\n", fs.Arg(0))
		return exitUsage
	}
	if err := checkFlags(fs, &f); err != nil {
		fmt.Fprintf(stderr, "systemkit: %v\n", err)
		return exitUsage
	}

	cfg, path, err := config.LoadOrDefault(f.config)
	if err != nil {
		fmt.Fprintf(stderr, "systemkit: %v\n", err)
		return exitConfig
	}
	if err := applyFlags(fs, &f, cfg); err != nil {
		fmt.Fprintf(stderr, "systemkit: %v\n", err)
		return exitConfig
	}

	logger, err := newLogger(stderr, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "systemkit: %v\n", err)
		return exitConfig
	}
	if path != "" {
		logger.Debug("configuration loaded", "path", path)
	}

	prof := profiling.New(profiling.Config{CPUProfilePath: f.cpuProfile, MemProfilePath: f.memProfile})
	if err := prof.Start(); err != nil {
		fmt.Fprintf(stderr, "systemkit: %v\n", err)
		return exitFailure
	}
	defer func() {
		if err := prof.Stop(); err != nil {
			logger.Warn("profiling incomplete", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		flags:  &f,
		fs:     fs,
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
	if f.watch > 0 {
		return a.watch(ctx, cfg, path)
	}
	return a.once(ctx, cfg)
}

// checkFlags rejects malformed flag values before any configuration is read.
func checkFlags(fs *pflag.FlagSet, f *flags) error {
	if fs.Changed("provider") {
		switch f.provider {
		case platform.ProviderAuto, platform.ProviderLinux, platform.ProviderPortable, platform.ProviderRemote:
		default:
			return fmt.Errorf("invalid --provider %q", f.provider)
		}
	}
	if fs.Changed("temp-unit") {
		if _, err := monitor.ParseTemperatureUnit(f.tempUnit); err != nil {
			return fmt.Errorf("invalid --temp-unit: %w", err)
		}
	}
	if fs.Changed("log-level") {
		if _, err := logging.ParseLevel(f.logLevel); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	if fs.Changed("log-format") {
		if _, err := logging.ParseFormat(f.logFormat); err != nil {
			return fmt.Errorf("invalid --log-format: %w", err)
		}
	}
	if fs.Changed("watch") && f.watch <= 0 {
		return fmt.Errorf("invalid --watch %v: must be positive", f.watch)
	}
	return nil
}

// applyFlags overrides cfg with the flags given on the command line and
// validates the result.
func applyFlags(fs *pflag.FlagSet, f *flags, cfg *config.Config) error {
	if fs.Changed("provider") {
		cfg.Provider = f.provider
	}
	if fs.Changed("battery") {
		cfg.Battery.Name = f.battery
	}
	if fs.Changed("no-battery") {
		cfg.Battery.Disabled = f.noBattery
	}
	if fs.Changed("temp-unit") {
		cfg.Battery.TemperatureUnit = f.tempUnit
	}
	if fs.Changed("watch") {
		cfg.Interval = f.watch
	}
	if fs.Changed("textfile") {
		cfg.Metrics.Textfile = f.textfile
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	return cfg.Validate().Error()
}

func newLogger(w io.Writer, cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(w, level, format, "systemkit"), nil
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, `systemkit prints a report of CPU, memory, kernel and battery readings.

The first report samples CPU ticks twice, one second apart. The battery
section is left out on hosts without a battery.

Configuration is read from --config, then $%s, then
systemkit/config.{yaml,yml,lua} in the user config directory. Flags
override the file.

Usage:
  systemkit [flags]

Flags:
%s`, config.EnvConfigPath, fs.FlagUsages())
}

type app struct {
	flags  *flags
	fs     *pflag.FlagSet
	stdout io.Writer
	stderr io.Writer
	logger logging.Logger
}

func (a *app) newSystem(ctx context.Context, cfg *config.Config) (*systemkit.System, error) {
	opts := systemkit.OptionsFromConfig(cfg)
	opts.Logger = a.logger
	return systemkit.New(ctx, &opts)
}

// once prints a single report.
func (a *app) once(ctx context.Context, cfg *config.Config) int {
	sys, err := a.newSystem(ctx, cfg)
	if err != nil {
		fmt.Fprintf(a.stderr, "systemkit: %v\n", err)
		return exitFailure
	}
	defer sys.Close()

	return a.report(ctx, sys, cfg, true)
}

// report collects, renders and exports one report.
func (a *app) report(ctx context.Context, sys *systemkit.System, cfg *config.Config, first bool) int {
	var spin Spinner
	if first && isTerminal(a.stderr) {
		spin = newSpinner(a.stderr)
		spin.UpdateSuffix(" sampling CPU")
		spin.Start()
	}
	r, err := sys.Report(ctx, a.flags.processes)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitCanceled
		}
		fmt.Fprintf(a.stderr, "systemkit: %v\n", err)
		return exitFailure
	}

	if err := sys.Render(a.stdout, r, a.flags.color); err != nil {
		fmt.Fprintf(a.stderr, "systemkit: writing report: %v\n", err)
		return exitFailure
	}
	if cfg.Metrics.Textfile != "" {
		if err := sys.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			fmt.Fprintf(a.stderr, "systemkit: %v\n", err)
			return exitFailure
		}
	}
	return exitOK
}

// watch re-renders the report every cfg.Interval until ctx is done. The
// System is rebuilt when the configuration file changes.
func (a *app) watch(ctx context.Context, cfg *config.Config, path string) int {
	sys, err := a.newSystem(ctx, cfg)
	if err != nil {
		fmt.Fprintf(a.stderr, "systemkit: %v\n", err)
		return exitFailure
	}
	defer func() { sys.Close() }()

	reloads := make(chan *config.Config, 1)
	if path != "" {
		w, err := config.NewWatcher(path, configDebounce, func(c *config.Config) {
			select {
			case reloads <- c:
			default:
			}
		}, func(err error) {
			a.logger.Warn("configuration reload failed", "path", path, "error", err)
		})
		if err != nil {
			a.logger.Warn("not watching configuration", "path", path, "error", err)
		} else {
			w.Start()
			defer w.Stop()
		}
	}

	clearScreen := isTerminal(a.stdout)
	first := true
	for {
		if clearScreen {
			fmt.Fprint(a.stdout, "\033[H\033[2J")
		}
		if code := a.report(ctx, sys, cfg, first); code != exitOK {
			if code == exitCanceled {
				return exitOK
			}
			return code
		}
		first = false

		timer := time.NewTimer(cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return exitOK
		case next := <-reloads:
			timer.Stop()
			if err := applyFlags(a.fs, a.flags, next); err != nil {
				a.logger.Warn("reloaded configuration rejected", "error", err)
				continue
			}
			replacement, err := a.newSystem(ctx, next)
			if err != nil {
				a.logger.Warn("reloaded configuration not applied", "error", err)
				continue
			}
			sys.Close()
			sys, cfg, first = replacement, next, true
			a.logger.Info("configuration reloaded", "path", path)
		case <-timer.C:
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
