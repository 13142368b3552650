package config

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLuaConfigParserParse(t *testing.T) {
	p := NewLuaConfigParser()
	defer p.Close()

	content := `
systemkit = {
    provider = "remote",
    interval = 5,
    read_timeout = 0.5,
    warmup = "250ms",
    memory_unit = "MB",
    battery = {
        name = "BAT0",
        disabled = "yes",
        temperature_unit = "K",
    },
    remote = {
        host = "nas.local",
        port = 2222,
        user = "ops",
        agent = true,
        command_timeout = 3,
        failure_threshold = 5,
    },
    log = { level = "warn", format = "console" },
    metrics = { textfile = "/tmp/systemkit.prom" },
}
`
	cfg, err := p.Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Provider != "remote" {
		t.Errorf("Provider = %q, want remote", cfg.Provider)
	}
	if cfg.Interval != 5*time.Second {
		t.Errorf("Interval = %v, want 5s", cfg.Interval)
	}
	if cfg.ReadTimeout != 500*time.Millisecond {
		t.Errorf("ReadTimeout = %v, want 500ms", cfg.ReadTimeout)
	}
	if cfg.Warmup != 250*time.Millisecond {
		t.Errorf("Warmup = %v, want 250ms", cfg.Warmup)
	}
	if cfg.MemoryUnit != "MB" {
		t.Errorf("MemoryUnit = %q", cfg.MemoryUnit)
	}
	if !cfg.Battery.Disabled || cfg.Battery.Name != "BAT0" || cfg.Battery.TemperatureUnit != "K" {
		t.Errorf("Battery = %+v", cfg.Battery)
	}
	if cfg.Remote.Host != "nas.local" || cfg.Remote.Port != 2222 || !cfg.Remote.Agent {
		t.Errorf("Remote = %+v", cfg.Remote)
	}
	if cfg.Remote.CommandTimeout != 3*time.Second || cfg.Remote.FailureThreshold != 5 {
		t.Errorf("Remote timeouts = %v, %d", cfg.Remote.CommandTimeout, cfg.Remote.FailureThreshold)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "console" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Metrics.Textfile != "/tmp/systemkit.prom" {
		t.Errorf("Metrics.Textfile = %q", cfg.Metrics.Textfile)
	}
}

func TestLuaConfigParserFieldAssignment(t *testing.T) {
	p := NewLuaConfigParser()
	defer p.Close()

	cfg, err := p.Parse([]byte(`
local minutes = 2
systemkit.interval = minutes * 60
systemkit.battery = { temperature_unit = "F" }
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Interval != 2*time.Minute {
		t.Errorf("Interval = %v, want 2m", cfg.Interval)
	}
	if cfg.Battery.TemperatureUnit != "F" {
		t.Errorf("TemperatureUnit = %q, want F", cfg.Battery.TemperatureUnit)
	}
	if cfg.MemoryUnit != DefaultMemoryUnit {
		t.Errorf("MemoryUnit = %q, want default", cfg.MemoryUnit)
	}
}

func TestLuaConfigParserReuse(t *testing.T) {
	p := NewLuaConfigParser()
	defer p.Close()

	if _, err := p.Parse([]byte(`systemkit.provider = "linux"`)); err != nil {
		t.Fatalf("first Parse failed: %v", err)
	}
	cfg, err := p.Parse([]byte(`systemkit.interval = 1`))
	if err != nil {
		t.Fatalf("second Parse failed: %v", err)
	}
	if cfg.Provider != "auto" {
		t.Errorf("Provider = %q, want settings from the previous parse cleared", cfg.Provider)
	}
}

func TestLuaConfigParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", `systemkit = {`, "compile"},
		{"runtime", `error("nope")`, "execute"},
		{"not a table", `systemkit = 42`, "not a table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewLuaConfigParser()
			defer p.Close()

			_, err := p.Parse([]byte(tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLuaConfigParserOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewLuaConfigParserWithOutput(&buf)
	defer p.Close()

	if _, err := p.Parse([]byte(`print("loading")`)); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !strings.Contains(buf.String(), "loading") {
		t.Errorf("print output = %q", buf.String())
	}
}

func TestLuaConfigParserCloseTwice(t *testing.T) {
	p := NewLuaConfigParser()
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
