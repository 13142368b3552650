package config

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// LuaConfigParser parses Lua configuration files. The script runs with CPU
// and memory limits and is expected to fill the global systemkit table:
//
//	systemkit = {
//	    provider = "linux",
//	    interval = 5,
//	    battery = { name = "BAT0", temperature_unit = "F" },
//	}
//
// Durations are given in seconds.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaConfigParser creates a new LuaConfigParser with a fresh Lua runtime.
func NewLuaConfigParser() *LuaConfigParser {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser whose print output
// goes to stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) *LuaConfigParser {
	if stdout == nil {
		stdout = os.Stdout
	}
	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
	}
}

// Parse executes a Lua configuration and extracts the systemkit table.
// Settings the script does not assign keep their defaults.
func (p *LuaConfigParser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.runtime.GlobalEnv().Set(rt.StringValue("systemkit"), rt.TableValue(rt.NewTable()))

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    10_000_000,
			Memory: 50 * 1024 * 1024,
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	if _, err := rt.Call1(p.runtime.MainThread(), rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}

	return p.extractConfig()
}

func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	val := p.runtime.GlobalEnv().Get(rt.StringValue("systemkit"))
	if val == rt.NilValue {
		return &cfg, nil
	}
	table, ok := val.TryTable()
	if !ok {
		return nil, fmt.Errorf("systemkit is not a table")
	}

	setString(table, "provider", &cfg.Provider)
	setDuration(table, "interval", &cfg.Interval)
	setDuration(table, "read_timeout", &cfg.ReadTimeout)
	setDuration(table, "warmup", &cfg.Warmup)
	setString(table, "memory_unit", &cfg.MemoryUnit)
	setString(table, "proc_root", &cfg.ProcRoot)
	setString(table, "sys_root", &cfg.SysRoot)

	if t := getTable(table, "battery"); t != nil {
		setString(t, "name", &cfg.Battery.Name)
		setBool(t, "disabled", &cfg.Battery.Disabled)
		setString(t, "temperature_unit", &cfg.Battery.TemperatureUnit)
	}
	if t := getTable(table, "remote"); t != nil {
		setString(t, "host", &cfg.Remote.Host)
		setInt(t, "port", &cfg.Remote.Port)
		setString(t, "user", &cfg.Remote.User)
		setString(t, "key_file", &cfg.Remote.KeyFile)
		setString(t, "passphrase", &cfg.Remote.Passphrase)
		setString(t, "password", &cfg.Remote.Password)
		setBool(t, "agent", &cfg.Remote.Agent)
		setString(t, "known_hosts", &cfg.Remote.KnownHosts)
		setDuration(t, "command_timeout", &cfg.Remote.CommandTimeout)
		setInt(t, "failure_threshold", &cfg.Remote.FailureThreshold)
		setDuration(t, "reset_timeout", &cfg.Remote.ResetTimeout)
	}
	if t := getTable(table, "log"); t != nil {
		setString(t, "level", &cfg.Log.Level)
		setString(t, "format", &cfg.Log.Format)
	}
	if t := getTable(table, "metrics"); t != nil {
		setString(t, "textfile", &cfg.Metrics.Textfile)
	}

	return &cfg, nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

func getTable(table *rt.Table, key string) *rt.Table {
	if t, ok := table.Get(rt.StringValue(key)).TryTable(); ok {
		return t
	}
	return nil
}

func setString(table *rt.Table, key string, dst *string) {
	if s, ok := table.Get(rt.StringValue(key)).TryString(); ok {
		*dst = s
	}
}

func setBool(table *rt.Table, key string, dst *bool) {
	val := table.Get(rt.StringValue(key))
	if b, ok := val.TryBool(); ok {
		*dst = b
		return
	}
	if s, ok := val.TryString(); ok {
		*dst = parseBool(s)
	}
}

func setInt(table *rt.Table, key string, dst *int) {
	val := table.Get(rt.StringValue(key))
	if n, ok := val.TryInt(); ok {
		*dst = int(n)
		return
	}
	if f, ok := val.TryFloat(); ok {
		*dst = int(f)
	}
}

// setDuration reads a number of seconds, or a Go duration string.
func setDuration(table *rt.Table, key string, dst *time.Duration) {
	val := table.Get(rt.StringValue(key))
	if n, ok := val.TryInt(); ok {
		*dst = time.Duration(n) * time.Second
		return
	}
	if f, ok := val.TryFloat(); ok {
		*dst = time.Duration(f * float64(time.Second))
		return
	}
	if s, ok := val.TryString(); ok {
		if d, err := time.ParseDuration(s); err == nil {
			*dst = d
		}
	}
}

func parseBool(s string) bool {
	switch s {
	case "yes", "true", "1", "on":
		return true
	default:
		return false
	}
}
