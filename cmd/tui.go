package cmd

import (
	"context"
	"errors"

	"github.com/nathanmandell99/todo-cli/internal/config"
	"github.com/nathanmandell99/todo-cli/internal/ui"
)

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	_, logger, err := parseCommand("tui", cfg, args, true, nil)
	if err != nil {
		return err
	}

	logger.Debug("starting tui", "path", cfg.File)
	if err := ui.RunTUI(ctx, cfg, cfg.File); err != nil {
		if errors.Is(err, ui.ErrNotTTY) {
			return errors.New("tui requires a terminal; use \"todo list\" instead")
		}
		return err
	}
	return nil
}
