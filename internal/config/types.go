package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathanmandell99/todo-cli/internal/appdir"
	"github.com/nathanmandell99/todo-cli/internal/todo"
)

// Source represents where a configuration value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceUserFile Source = "user file"
	SourceProjFile Source = "project file"
	SourceDotenv   Source = "dotenv"
	SourceEnv      Source = "environment"
	SourceFlag     Source = "flag"
)

// Default values.
const (
	DefaultFile      = appdir.DefaultStoreFile
	DefaultFormat    = string(todo.FormatHeader)
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config keys, shared by TOML files, env vars (TODO_ + upper-case key) and
// source tracking.
const (
	KeyFile          = "file"
	KeyCreate        = "create"
	KeyStrict        = "strict"
	KeyFormat        = "format"
	KeySchemaFile    = "schema_file"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyLogTimestamps = "log_timestamps"
	KeyLogCaller     = "log_caller"
)

// Keys returns every config key in display order.
func Keys() []string {
	return []string{
		KeyFile,
		KeyCreate,
		KeyStrict,
		KeyFormat,
		KeySchemaFile,
		KeyLogLevel,
		KeyLogFormat,
		KeyLogTimestamps,
		KeyLogCaller,
	}
}

// Config holds the full configuration for todo.
type Config struct {
	// Store
	File       string `toml:"file"`
	Create     bool   `toml:"create"`
	Strict     bool   `toml:"strict"`
	Format     string `toml:"format"`
	SchemaFile string `toml:"schema_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// WorkDir is the directory relative paths resolve against (computed).
	WorkDir string `toml:"-"`

	// Files lists the config files that were read, in order.
	Files []string `toml:"-"`

	// Warnings collects non-fatal problems such as unknown TOML keys.
	Warnings []string `toml:"-"`

	// Sources maps each key to where its value came from.
	Sources map[string]Source `toml:"-"`
}

// StoreFormat returns the parsed store format.
func (c *Config) StoreFormat() todo.Format {
	format, err := todo.ParseFormat(c.Format)
	if err != nil {
		return todo.FormatHeader
	}
	return format
}

// Value returns the display form of a key's value.
func (c *Config) Value(key string) string {
	switch key {
	case KeyFile:
		return c.File
	case KeyCreate:
		return fmt.Sprint(c.Create)
	case KeyStrict:
		return fmt.Sprint(c.Strict)
	case KeyFormat:
		return c.Format
	case KeySchemaFile:
		return c.SchemaFile
	case KeyLogLevel:
		return c.LogLevel
	case KeyLogFormat:
		return c.LogFormat
	case KeyLogTimestamps:
		return fmt.Sprint(c.LogTimestamps)
	case KeyLogCaller:
		return fmt.Sprint(c.LogCaller)
	default:
		return ""
	}
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	var problems []string
	if _, err := todo.ParseFormat(c.Format); err != nil {
		problems = append(problems, err.Error())
	}
	if !oneOf(c.LogLevel, "debug", "info", "warn", "warning", "error", "fatal") {
		problems = append(problems, fmt.Sprintf("invalid log level %q, must be one of: debug, info, warn, error, fatal", c.LogLevel))
	}
	if !oneOf(c.LogFormat, "text", "json", "logfmt") {
		problems = append(problems, fmt.Sprintf("invalid log format %q, must be one of: text, json, logfmt", c.LogFormat))
	}
	if strings.TrimSpace(c.File) == "" {
		problems = append(problems, "store file path is empty")
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.File = DefaultFile
	cfg.Create = false
	cfg.Strict = false
	cfg.Format = DefaultFormat
	cfg.SchemaFile = ""
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false

	cfg.Sources = make(map[string]Source, len(Keys()))
	for _, key := range Keys() {
		cfg.Sources[key] = SourceDefault
	}
}
