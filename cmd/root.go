// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nathanmandell99/todo-cli/internal/config"
	"github.com/nathanmandell99/todo-cli/internal/logging"
	"github.com/nathanmandell99/todo-cli/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams. Tests swap them to capture output.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := newLogger(cfg)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, stdout)
		return nil
	}
	subcommand := remainingArgs[0]
	remainingArgs = remainingArgs[1:]

	// Execute the subcommand
	switch subcommand {
	case "add":
		return addCommand(cfg, remainingArgs)
	case "list", "ls":
		return listCommand(cfg, remainingArgs)
	case "toggle", "done":
		return toggleCommand(cfg, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "check":
		return checkCommand(cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		logger.Warn("unknown command", "command", subcommand)
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", subcommand)
		printUsage(fs, stdout)
		return nil
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	return logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
}

// parseCommand parses a subcommand's flags. The global store and logging
// flags are accepted after the command name too. A single trailing
// positional argument is taken as the store path when takesFile is set.
// define may add command specific flags.
func parseCommand(name string, cfg *config.Config, args []string, takesFile bool, define func(*flag.FlagSet)) ([]string, *log.Logger, error) {
	fs := flag.NewFlagSet("todo "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	config.BindFlags(cfg, fs)
	if define != nil {
		define(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	config.TrackFlags(cfg, fs)

	remaining := fs.Args()
	if takesFile {
		if len(remaining) > 1 {
			return nil, nil, fmt.Errorf("unexpected arguments: %v", remaining[1:])
		}
		if len(remaining) == 1 {
			cfg.File = remaining[0]
			cfg.Sources[config.KeyFile] = config.SourceFlag
			remaining = nil
		}
	}
	if err := cfg.Finalize(); err != nil {
		return nil, nil, err
	}
	return remaining, newLogger(cfg), nil
}

// loadStore loads the configured store, initializing it first when create
// is enabled.
func loadStore(cfg *config.Config, logger *log.Logger) (*todo.File, error) {
	file, err := todo.LoadOrCreate(cfg.File, cfg.Create, cfg.StoreFormat())
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return nil, fmt.Errorf("%w (run \"todo init\" or pass -create)", err)
		}
		return nil, err
	}
	logger.Debug("loaded store", "path", cfg.File, "format", file.Format, "tasks", len(file.Tasks))
	return file, nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "todo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - a to-do list kept in a CSV file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] <command> [command options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>   Add a task (todo add -- \"-5 degrees\" for text starting with -)")
	fmt.Fprintln(w, "  list, ls [file]     List incomplete and complete tasks")
	fmt.Fprintln(w, "  toggle, done <id>   Flip a task between incomplete and complete")
	fmt.Fprintln(w, "  init [file]         Create an empty task store")
	fmt.Fprintln(w, "  check [file]        Validate a task store")
	fmt.Fprintln(w, "  tui [file]          Browse and edit tasks in a terminal UI")
	fmt.Fprintln(w, "  config              Show the effective configuration")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options (also accepted after the command name):")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Init Options:")
	fmt.Fprintln(w, "  -force")
	fmt.Fprintln(w, "        Succeed when the store already exists (same as -create)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example todo.toml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration is read from ~/.todo/todo.toml, then todo.toml or .todo.toml in")
	fmt.Fprintln(w, "the working directory, then .env and TODO_* environment variables.")
}
