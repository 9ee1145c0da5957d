package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nathanmandell99/todo-cli/internal/appdir"
)

// EnvConfigFile names an explicit project config file, replacing the
// todo.toml/.todo.toml lookup.
const EnvConfigFile = "TODO_CONFIG"

// Load loads configuration relative to the current working directory.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return LoadFrom(wd, fs, args)
}

// LoadFrom loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. Project config file in workDir (or TODO_CONFIG)
// 4. .env in workDir
// 5. Environment variables
// 6. CLI flags, parsed from args with fs
func LoadFrom(workDir string, fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{WorkDir: workDir}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if path := appdir.FirstExisting(appdir.UserConfigPaths()); path != "" {
		if err := loadConfigFile(cfg, path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	env, err := newEnvLookup(appdir.EnvPath(workDir))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", appdir.EnvFile, err)
	}

	// 3. Project config file (overrides user config)
	projectFile := appdir.FirstExisting(appdir.ProjectConfigPaths(workDir))
	if explicit, _, ok := env.lookup(EnvConfigFile); ok && strings.TrimSpace(explicit) != "" {
		projectFile = resolvePath(workDir, explicit)
		if _, err := os.Stat(projectFile); err != nil {
			return nil, fmt.Errorf("loading config file from %s: %w", EnvConfigFile, err)
		}
	}
	if projectFile != "" {
		if err := loadConfigFile(cfg, projectFile, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
	}

	// 4 and 5. Override from .env and the environment
	loadFromEnv(cfg, env)

	// 6. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile decodes a TOML file over cfg and records which keys it set.
func loadConfigFile(cfg *Config, path string, source Source) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	for _, key := range Keys() {
		if md.IsDefined(key) {
			cfg.Sources[key] = source
		}
	}
	for _, key := range md.Undecoded() {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// Finalize normalizes values, validates them, and resolves paths against
// WorkDir. It is safe to call again after more flags have been parsed.
func (c *Config) Finalize() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	if err := c.Validate(); err != nil {
		return err
	}

	c.File = resolvePath(c.WorkDir, c.File)
	if c.SchemaFile != "" {
		c.SchemaFile = resolvePath(c.WorkDir, c.SchemaFile)
	}
	return nil
}
