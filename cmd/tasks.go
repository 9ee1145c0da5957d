package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nathanmandell99/todo-cli/internal/config"
	"github.com/nathanmandell99/todo-cli/internal/todo"
)

// separator divides incomplete from complete tasks in list output.
const separator = "----------"

// addCommand adds a task built from the remaining arguments.
func addCommand(cfg *config.Config, args []string) error {
	remaining, logger, err := parseCommand("add", cfg, args, false, nil)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w (put -- before a description that starts with \"-\")", err)
	}

	description := strings.TrimSpace(strings.Join(remaining, " "))
	if description == "" {
		return errors.New("add: description is empty")
	}

	file, err := loadStore(cfg, logger)
	if err != nil {
		return err
	}
	task, err := file.AppendTask(cfg.File, description)
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}
	logger.Debug("added task", "id", task.ID, "path", cfg.File)

	fmt.Fprintf(stdout, "Added task %d: %s\n", task.ID, task.Description)
	return nil
}

// listCommand prints incomplete tasks, a separator, then complete tasks.
func listCommand(cfg *config.Config, args []string) error {
	_, logger, err := parseCommand("list", cfg, args, true, nil)
	if err != nil {
		return err
	}

	file, err := loadStore(cfg, logger)
	if err != nil {
		return err
	}
	incomplete, complete := file.Partition()
	printPartitions(stdout, incomplete, complete)
	return nil
}

// toggleCommand flips the completion state of one task. A missing id is a
// warning unless strict mode is on.
func toggleCommand(cfg *config.Config, args []string) error {
	remaining, logger, err := parseCommand("toggle", cfg, args, false, nil)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return errors.New("toggle: missing task id")
	}
	if len(remaining) > 2 {
		return fmt.Errorf("unexpected arguments: %v", remaining[2:])
	}
	id, err := parseID(remaining[0])
	if err != nil {
		return err
	}
	if len(remaining) == 2 {
		cfg.File = remaining[1]
		cfg.Sources[config.KeyFile] = config.SourceFlag
		if err := cfg.Finalize(); err != nil {
			return err
		}
	}

	file, err := loadStore(cfg, logger)
	if err != nil {
		return err
	}
	if err := file.Toggle(id); err != nil {
		if !errors.Is(err, todo.ErrTaskNotFound) {
			return err
		}
		fmt.Fprintf(stdout, "Task %d not found\n", id)
		if cfg.Strict {
			return err
		}
		logger.Warn("toggle skipped", "id", id, "path", cfg.File)
		return nil
	}
	if err := file.Save(cfg.File); err != nil {
		return fmt.Errorf("saving store: %w", err)
	}

	task := file.GetTask(id)
	state := "incomplete"
	if task.Completed {
		state = "complete"
	}
	logger.Debug("toggled task", "id", id, "completed", task.Completed)
	fmt.Fprintf(stdout, "Task %d marked %s: %s\n", task.ID, state, task.Description)
	return nil
}

// initCommand creates an empty store.
func initCommand(cfg *config.Config, args []string) error {
	var force bool
	_, logger, err := parseCommand("init", cfg, args, true, func(fs *flag.FlagSet) {
		fs.BoolVar(&force, "force", false, "Succeed when the store already exists")
	})
	if err != nil {
		return err
	}

	allowExisting := force || cfg.Create
	err = todo.CreateIfAbsent(cfg.File, cfg.StoreFormat(), allowExisting)
	if err != nil {
		if errors.Is(err, todo.ErrAlreadyExists) {
			return fmt.Errorf("%w (pass -create or -force to keep it)", err)
		}
		return err
	}
	logger.Debug("initialized store", "path", cfg.File, "format", cfg.StoreFormat())
	fmt.Fprintf(stdout, "Task store ready at %s\n", cfg.File)
	return nil
}

// checkCommand loads a store and validates it against the schema.
func checkCommand(cfg *config.Config, args []string) error {
	_, logger, err := parseCommand("check", cfg, args, true, nil)
	if err != nil {
		return err
	}

	file, err := todo.Load(cfg.File)
	if err != nil {
		fmt.Fprintf(stdout, "%s: invalid\n  %v\n", cfg.File, err)
		return fmt.Errorf("checking store: %w", err)
	}
	result := file.Check(todo.CheckOptions{SchemaPath: cfg.SchemaFile})
	logger.Debug("checked store", "path", cfg.File, "schema", result.SchemaSource, "valid", result.Valid)

	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "warning: %s\n", w)
	}
	if !result.Valid {
		fmt.Fprintf(stdout, "%s: invalid\n", cfg.File)
		for _, e := range result.Errors {
			fmt.Fprintf(stdout, "  %v\n", e)
		}
		return fmt.Errorf("checking store: %d error(s)", len(result.Errors))
	}
	fmt.Fprintf(stdout, "%s: ok (%d tasks, schema: %s)\n", cfg.File, len(file.Tasks), result.SchemaSource)
	return nil
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func printPartitions(w io.Writer, incomplete, complete []todo.Task) {
	fmt.Fprintln(w, "Incomplete:")
	printTaskList(w, incomplete)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "Complete:")
	printTaskList(w, complete)
}

func printTaskList(w io.Writer, tasks []todo.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, t := range tasks {
		printTask(w, t)
	}
}

func printTask(w io.Writer, t todo.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "  [%s] %d  %s\n", mark, t.ID, t.Description)
}
