package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no config
// path is given.
const EnvConfigPath = "SYSTEMKIT_CONFIG"

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatLua  Format = "lua"
)

// FormatForPath picks the format from the file extension. Files without a
// recognised extension are treated as YAML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		return FormatLua
	default:
		return FormatYAML
	}
}

// Load reads, parses, expands and validates the configuration file at path.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(content, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromFS is Load for an fs.FS.
func LoadFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}
	return Parse(content, FormatForPath(path))
}

// LoadReader parses configuration of the given format from r.
func LoadReader(r io.Reader, format Format) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(content, format)
}

// Parse decodes content, expands environment references and validates the
// result. Settings absent from content keep their defaults.
func Parse(content []byte, format Format) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch format {
	case FormatYAML:
		cfg, err = parseYAML(content)
	case FormatLua:
		p := NewLuaConfigParser()
		defer p.Close()
		cfg, err = p.Parse(content)
	default:
		return nil, fmt.Errorf("unknown format: %s (expected 'yaml' or 'lua')", format)
	}
	if err != nil {
		return nil, err
	}

	ExpandEnvConfig(cfg)
	if err := cfg.Validate().Error(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseYAML(content []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}
	return &cfg, nil
}

// ResolvePath returns the config file to load: flagPath if set, then
// $SYSTEMKIT_CONFIG, then the first existing systemkit/config.{yaml,yml,lua}
// under the user config directory. It returns "" when none applies.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.lua"} {
		p := filepath.Join(dir, "systemkit", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadOrDefault loads the file named by ResolvePath, or returns the defaults
// when there is none.
func LoadOrDefault(flagPath string) (*Config, string, error) {
	path := ResolvePath(flagPath)
	if path == "" {
		cfg := DefaultConfig()
		return &cfg, "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}
