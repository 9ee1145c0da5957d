package cmd

import (
	"flag"
	"fmt"

	"github.com/nathanmandell99/todo-cli/internal/config"
)

// configCommand prints the effective configuration with the source of each
// value, or an example config file.
func configCommand(cfg *config.Config, args []string) error {
	var example bool
	if _, _, err := parseCommand("config", cfg, args, false, func(fs *flag.FlagSet) {
		fs.BoolVar(&example, "example", false, "Print an example todo.toml")
	}); err != nil {
		return err
	}

	if example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	for _, key := range config.Keys() {
		value := cfg.Value(key)
		if value == "" {
			value = "(unset)"
		}
		fmt.Fprintf(stdout, "%-15s %-40s %s\n", key, value, cfg.Sources[key])
	}
	if len(cfg.Files) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Config files:")
		for _, f := range cfg.Files {
			fmt.Fprintf(stdout, "  %s\n", f)
		}
	}
	return nil
}
