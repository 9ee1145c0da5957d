// Package appdir provides names and lookup paths for todo's config files.
package appdir

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// Name is the application name used in OS config directories.
	Name = "todo"

	// Dir is the per-user state directory under the home directory.
	Dir = ".todo"

	// DefaultStoreFile is the store used when no path is configured.
	DefaultStoreFile = "tasks.csv"

	// DefaultConfigFile is the config file name.
	DefaultConfigFile = "todo.toml"

	// HiddenConfigFile is the dotfile alternative for project config.
	HiddenConfigFile = ".todo.toml"

	// EnvFile is the dotenv file read from the working directory.
	EnvFile = ".env"
)

// UserConfigPaths returns candidate user-level config files in lookup order:
// ~/.todo/todo.toml, then the OS config directory.
func UserConfigPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, Dir, DefaultConfigFile))
	}
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		paths = append(paths, filepath.Join(cfgDir, Name, DefaultConfigFile))
	}
	return paths
}

// ProjectConfigPaths returns candidate project config files in workDir.
func ProjectConfigPaths(workDir string) []string {
	return []string{
		filepath.Join(workDir, DefaultConfigFile),
		filepath.Join(workDir, HiddenConfigFile),
	}
}

// EnvPath returns the dotenv file path in workDir.
func EnvPath(workDir string) string {
	return filepath.Join(workDir, EnvFile)
}

// FirstExisting returns the first path that exists as a regular file.
func FirstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// osUserConfigDir returns the OS-specific user config directory, or "".
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}
