package config

import (
	"flag"
)

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"file":           KeyFile,
	"create":         KeyCreate,
	"strict":         KeyStrict,
	"format":         KeyFormat,
	"schema":         KeySchemaFile,
	"log-level":      KeyLogLevel,
	"log-format":     KeyLogFormat,
	"log-timestamps": KeyLogTimestamps,
	"log-caller":     KeyLogCaller,
}

// BindFlags defines the store and logging flags on fs, bound to cfg with the
// current values as defaults. Subcommands call it on their own flag sets so
// the flags also work after the command name.
func BindFlags(cfg *Config, fs *flag.FlagSet) {
	fs.StringVar(&cfg.File, "file", cfg.File, "Path to the task store")
	fs.BoolVar(&cfg.Create, "create", cfg.Create, "Create the store if it is missing (init: succeed if it exists)")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Exit non-zero when toggle finds no task")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Header style for new stores (header|max)")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "JSON Schema file used by check")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in logs")
}

// TrackFlags records SourceFlag for every flag explicitly set on fs.
func TrackFlags(cfg *Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			cfg.Sources[key] = SourceFlag
		}
	})
}

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}
	BindFlags(cfg, fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	TrackFlags(cfg, fs)
	return nil
}
