package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nathanmandell99/todo-cli/internal/utils"
)

// envLookup resolves variables from the process environment first and the
// .env file second. Empty process values count as unset.
type envLookup struct {
	dotenv map[string]string
}

func newEnvLookup(path string) (*envLookup, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &envLookup{}, nil
		}
		return nil, err
	}
	return &envLookup{dotenv: values}, nil
}

func (e *envLookup) lookup(name string) (string, Source, bool) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v, SourceEnv, true
	}
	if v, ok := e.dotenv[name]; ok {
		return v, SourceDotenv, true
	}
	return "", "", false
}

// EnvName returns the environment variable for a config key.
func EnvName(key string) string {
	return "TODO_" + strings.ToUpper(key)
}

// loadFromEnv overrides config from TODO_* variables. Empty values are ignored.
func loadFromEnv(cfg *Config, env *envLookup) {
	setString := func(key string, dst *string) {
		if v, source, ok := env.lookup(EnvName(key)); ok && v != "" {
			*dst = v
			cfg.Sources[key] = source
		}
	}
	setBool := func(key string, dst *bool) {
		if v, source, ok := env.lookup(EnvName(key)); ok && v != "" {
			*dst = utils.BoolFromString(v)
			cfg.Sources[key] = source
		}
	}

	setString(KeyFile, &cfg.File)
	setBool(KeyCreate, &cfg.Create)
	setBool(KeyStrict, &cfg.Strict)
	setString(KeyFormat, &cfg.Format)
	setString(KeySchemaFile, &cfg.SchemaFile)

	// Logging configuration
	setString(KeyLogLevel, &cfg.LogLevel)
	setString(KeyLogFormat, &cfg.LogFormat)
	setBool(KeyLogTimestamps, &cfg.LogTimestamps)
	setBool(KeyLogCaller, &cfg.LogCaller)
}
