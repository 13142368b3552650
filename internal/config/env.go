package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches environment variable references in configuration values.
// Supports formats:
//   - ${VAR_NAME} - standard shell-like format
//   - ${VAR_NAME:-default} - with default value if unset or empty
//   - $VAR_NAME - simple format (word characters only)
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in a string.
// Unknown or unset variables without defaults are replaced with empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") && strings.HasSuffix(match, "}") {
			inner := match[2 : len(match)-1]

			if idx := strings.Index(inner, ":-"); idx >= 0 {
				if val := os.Getenv(inner[:idx]); val != "" {
					return val
				}
				return inner[idx+2:]
			}
			return os.Getenv(inner)
		}
		return os.Getenv(match[1:])
	})
}

// ExpandEnvConfig expands environment variables in every string setting.
func ExpandEnvConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	for _, s := range []*string{
		&cfg.Provider,
		&cfg.MemoryUnit,
		&cfg.ProcRoot,
		&cfg.SysRoot,
		&cfg.Battery.Name,
		&cfg.Battery.TemperatureUnit,
		&cfg.Remote.Host,
		&cfg.Remote.User,
		&cfg.Remote.KeyFile,
		&cfg.Remote.Passphrase,
		&cfg.Remote.Password,
		&cfg.Remote.KnownHosts,
		&cfg.Log.Level,
		&cfg.Log.Format,
		&cfg.Metrics.Textfile,
	} {
		*s = ExpandEnv(*s)
	}
}
