package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read into configuration.
// A double underscore separates nested keys: WILDSTAT_DATABASE__PATH.
const EnvPrefix = "WILDSTAT_"

// loggerKey is used to store the logger in context.
type loggerKey struct{}

var (
	configFileUsed string
	currentConfig  *Config
)

// flagKeys maps flag names to configuration keys. Flags missing here are
// command options and never reach configuration.
var flagKeys = map[string]string{
	"db-type":   "database.type",
	"database":  "database.path",
	"seeds-dir": "seeds_dir",
	"output":    "output",
	"verbose":   "verbose",
	"env":       "environment",
	"addr":      "server.addr",
	"watch":     "server.watch",
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// findConfigFile finds the config file to use.
// Priority: explicit path > wildstat.yaml > wildstat.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"wildstat.yaml", "wildstat.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig forgets the loaded configuration. Used for testing.
func ResetConfig() {
	configFileUsed = ""
	currentConfig = nil
}

// Load reads configuration from cfgFile (or wildstat.yaml in the working
// directory), the environment and the explicitly set flags in fs.
func Load(cfgFile string, fs *pflag.FlagSet) (*Config, error) {
	base := koanf.New(".")

	// 1. Defaults
	if err := base.Load(confmap.Provider(map[string]any{
		"database.type":              DefaultDatabaseType,
		"database.path":              DefaultDatabasePath,
		"seeds_dir":                  DefaultSeedsDir,
		"output":                     DefaultOutput,
		"verbose":                    false,
		"environment":                DefaultEnv,
		"server.addr":                DefaultAddr,
		"server.watch":               false,
		"server.read_header_timeout": DefaultReadHeaderTimeout.String(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := base.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables
	fromEnv := koanf.New(".")
	if err := fromEnv.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Explicitly set flags
	fromFlags := koanf.New(".")
	if fs != nil {
		if err := fromFlags.Load(posflag.ProviderWithFlag(fs, ".", base, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// The selected environment block sits between the file and the
	// environment variables.
	envName := base.String("environment")
	for _, layer := range []*koanf.Koanf{fromEnv, fromFlags} {
		if layer.Exists("environment") {
			envName = layer.String("environment")
		}
	}
	if envName != "" {
		if block := base.Cut("environments." + envName); len(block.Keys()) > 0 {
			if err := base.Merge(block); err != nil {
				return nil, fmt.Errorf("apply environment %s: %w", envName, err)
			}
		}
	}
	if err := base.Merge(fromEnv); err != nil {
		return nil, fmt.Errorf("failed to merge env vars: %w", err)
	}
	if err := base.Merge(fromFlags); err != nil {
		return nil, fmt.Errorf("failed to merge flags: %w", err)
	}

	var cfg Config
	if err := base.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Environment = envName

	// Relative paths written in the config file are relative to that file.
	if configFileUsed != "" {
		dir := filepath.Dir(configFileUsed)
		if !fromEnv.Exists("seeds_dir") && !fromFlags.Exists("seeds_dir") {
			cfg.SeedsDir = resolvePathRelativeTo(cfg.SeedsDir, dir)
		}
		if !fromEnv.Exists("database.path") && !fromFlags.Exists("database.path") && cfg.IsFileDatabase() {
			cfg.Database.Path = resolvePathRelativeTo(cfg.Database.Path, dir)
		}
	}

	expandDatabaseEnvVars(&cfg.Database)

	currentConfig = &cfg
	return &cfg, nil
}

// resolvePathRelativeTo joins path to baseDir unless it is empty or absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}

func expandDatabaseEnvVars(d *DatabaseConfig) {
	d.Path = expandEnvVars(d.Path)
	d.Host = expandEnvVars(d.Host)
	d.Database = expandEnvVars(d.Database)
	d.Username = expandEnvVars(d.Username)
	d.Password = expandEnvVars(d.Password)
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the configuration from the last Load.
func GetCurrentConfig() *Config {
	return currentConfig
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}
