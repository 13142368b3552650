package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "systemkit.yaml")
	if err := os.WriteFile(path, []byte("interval: 1s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 4)
	errs := make(chan error, 4)
	w, err := NewWatcher(path, 20*time.Millisecond,
		func(c *Config) { reloaded <- c },
		func(err error) { errs <- err })
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(path, []byte("interval: 7s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Interval != 7*time.Second {
			t.Errorf("reloaded Interval = %v, want 7s", cfg.Interval)
		}
	case err := <-errs:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherReportsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "systemkit.yaml")
	if err := os.WriteFile(path, []byte("interval: 1s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 4)
	errs := make(chan error, 4)
	w, err := NewWatcher(path, 20*time.Millisecond,
		func(c *Config) { reloaded <- c },
		func(err error) { errs <- err })
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(path, []byte("provider: windows\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-errs:
	case cfg := <-reloaded:
		t.Fatalf("invalid config delivered: %+v", cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "systemkit.yaml")
	if err := os.WriteFile(path, []byte("interval: 1s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, 10*time.Millisecond, func(c *Config) { reloaded <- c }, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("unexpected reload: %+v", cfg)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	w, err := NewWatcher(path, 0, nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if w.debounce != DefaultWatchDebounce {
		t.Errorf("debounce = %v, want default", w.debounce)
	}
	w.Stop()
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "absent", "c.yaml"), 0, nil, nil); err == nil {
		t.Error("NewWatcher() on a missing directory succeeded")
	}
}
