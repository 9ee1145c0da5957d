package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathanmandell99/todo-cli/internal/config"
	"github.com/nathanmandell99/todo-cli/internal/todo"
)

// setup isolates config lookups and moves into an empty working directory.
func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	t.Setenv(config.EnvConfigFile, "")
	for _, key := range config.Keys() {
		t.Setenv(config.EnvName(key), "")
	}
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(oldWd); err != nil {
			t.Fatal(err)
		}
	})
	return dir
}

// run invokes the CLI and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	defer func() {
		stdout, stderr = oldOut, oldErr
	}()
	err := Run(context.Background(), args)
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("todo %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// splitList returns the incomplete and complete halves of list output.
func splitList(t *testing.T, out string) (string, string) {
	t.Helper()
	incomplete, complete, ok := strings.Cut(out, separator)
	if !ok {
		t.Fatalf("list output has no separator:\n%s", out)
	}
	return incomplete, complete
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, "Usage:"},
		{"help command", []string{"help"}, "Usage:"},
		{"-h flag", []string{"-h"}, "Usage:"},
		{"--help flag", []string{"--help"}, "Usage:"},
		{"unknown command", []string{"frobnicate"}, "Usage:"},
		{"version command", []string{"version"}, "todo version dev"},
		{"-v flag", []string{"-v"}, "todo version dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output does not contain %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestLifecycle(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "tasks.csv")

	mustRun(t, "init", "tasks.csv")
	if got := readFile(t, path); got != "id,description,completed\n" {
		t.Fatalf("init wrote %q", got)
	}

	incomplete, complete := splitList(t, mustRun(t, "list"))
	if !strings.Contains(incomplete, "(none)") || !strings.Contains(complete, "(none)") {
		t.Errorf("empty store should list no tasks:\n%s%s", incomplete, complete)
	}

	out := mustRun(t, "add", "Buy", "milk")
	if !strings.Contains(out, "Added task 1: Buy milk") {
		t.Errorf("add output: %q", out)
	}

	incomplete, complete = splitList(t, mustRun(t, "list"))
	if !strings.Contains(incomplete, "[ ] 1  Buy milk") {
		t.Errorf("task 1 should be incomplete:\n%s", incomplete)
	}
	if strings.Contains(complete, "Buy milk") {
		t.Errorf("task 1 should not be complete:\n%s", complete)
	}

	out = mustRun(t, "toggle", "1")
	if !strings.Contains(out, "Task 1 marked complete") {
		t.Errorf("toggle output: %q", out)
	}

	incomplete, complete = splitList(t, mustRun(t, "ls"))
	if strings.Contains(incomplete, "Buy milk") {
		t.Errorf("task 1 should not be incomplete:\n%s", incomplete)
	}
	if !strings.Contains(complete, "[x] 1  Buy milk") {
		t.Errorf("task 1 should be complete:\n%s", complete)
	}

	if got := readFile(t, path); got != "id,description,completed\n1,Buy milk,true\n" {
		t.Errorf("store content: %q", got)
	}

	mustRun(t, "done", "1")
	file, err := todo.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if file.GetTask(1).Completed {
		t.Error("done should toggle task 1 back to incomplete")
	}
}

func TestListOrdersByID(t *testing.T) {
	dir := setup(t)
	content := "id,description,completed\n5,e,false\n2,b,true\n3,c,false\n1,a,true\n"
	if err := os.WriteFile(filepath.Join(dir, "tasks.csv"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	incomplete, complete := splitList(t, mustRun(t, "list"))
	if strings.Index(incomplete, "3  c") > strings.Index(incomplete, "5  e") {
		t.Errorf("incomplete tasks out of order:\n%s", incomplete)
	}
	if strings.Index(complete, "1  a") > strings.Index(complete, "2  b") {
		t.Errorf("complete tasks out of order:\n%s", complete)
	}
}

func TestAddAssignsNextID(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "tasks.csv")
	if err := os.WriteFile(path, []byte("id,description,completed\n4,old,true\n2,older,false"), 0644); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "add", "Write report, then send")
	if !strings.Contains(out, "Added task 5") {
		t.Errorf("add output: %q", out)
	}
	want := "id,description,completed\n4,old,true\n2,older,false\n5,\"Write report, then send\",false\n"
	if got := readFile(t, path); got != want {
		t.Errorf("store content:\ngot  %q\nwant %q", got, want)
	}
}

func TestAddMaxFormat(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "tasks.csv")

	mustRun(t, "-format", "max", "init")
	mustRun(t, "add", "first")
	mustRun(t, "add", "second")

	want := "MAX,2\nid,description,completed\n1,first,false\n2,second,false\n"
	if got := readFile(t, path); got != want {
		t.Errorf("store content:\ngot  %q\nwant %q", got, want)
	}
}

func TestAddEmptyDescription(t *testing.T) {
	setup(t)
	mustRun(t, "init")
	if _, err := run(t, "add", "  "); err == nil {
		t.Error("expected error for empty description")
	}
}

func TestToggleNotFound(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "tasks.csv")
	content := "id,description,completed\n1,Buy milk,false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "toggle", "7")
	if err != nil {
		t.Fatalf("missing id should not fail, got %v", err)
	}
	if !strings.Contains(out, "Task 7 not found") {
		t.Errorf("toggle output: %q", out)
	}
	if got := readFile(t, path); got != content {
		t.Errorf("store changed: %q", got)
	}

	t.Run("strict flag", func(t *testing.T) {
		_, err := run(t, "toggle", "-strict", "7")
		if !errors.Is(err, todo.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("strict env", func(t *testing.T) {
		t.Setenv("TODO_STRICT", "true")
		_, err := run(t, "toggle", "7")
		if !errors.Is(err, todo.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	if got := readFile(t, path); got != content {
		t.Errorf("store changed: %q", got)
	}
}

func TestToggleArguments(t *testing.T) {
	dir := setup(t)
	mustRun(t, "init")
	mustRun(t, "add", "x")

	tests := []struct {
		name string
		args []string
	}{
		{"missing id", []string{"toggle"}},
		{"non-numeric id", []string{"toggle", "one"}},
		{"negative id", []string{"toggle", "-1"}},
		{"extra args", []string{"toggle", "1", "a.csv", "b.csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}

	other := filepath.Join(dir, "other.csv")
	mustRun(t, "init", other)
	mustRun(t, "-file", other, "add", "y")
	mustRun(t, "toggle", "1", "other.csv")
	file, err := todo.Load(other)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !file.GetTask(1).Completed {
		t.Error("toggle with a file argument should update that store")
	}
}

func TestMalformedLine(t *testing.T) {
	dir := setup(t)
	content := "id,description,completed\n1,ok,false\n2,broken\n"
	if err := os.WriteFile(filepath.Join(dir, "tasks.csv"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	for _, args := range [][]string{{"list"}, {"add", "more"}, {"toggle", "1"}} {
		_, err := run(t, args...)
		var fe *todo.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("%v: expected FormatError, got %v", args, err)
		}
		if fe.Line != 3 {
			t.Errorf("%v: line: got %d, want 3", args, fe.Line)
		}
	}
	if got := readFile(t, filepath.Join(dir, "tasks.csv")); got != content {
		t.Errorf("store changed: %q", got)
	}
}

func TestInitExisting(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "tasks.csv")
	mustRun(t, "init")
	mustRun(t, "add", "keep me")
	before := readFile(t, path)

	_, err := run(t, "init")
	if !errors.Is(err, todo.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	mustRun(t, "init", "-create")
	mustRun(t, "-create", "init")
	mustRun(t, "init", "-force")

	if got := readFile(t, path); got != before {
		t.Errorf("init must not truncate an existing store: %q", got)
	}
}

func TestMissingStore(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "lists", "tasks.csv")

	_, err := run(t, "list", path)
	if !errors.Is(err, todo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	var se *todo.StorageError
	if !errors.As(err, &se) {
		t.Errorf("expected StorageError, got %T", err)
	}

	mustRun(t, "-create", "-file", path, "add", "auto")
	file, err := todo.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(file.Tasks) != 1 || file.Tasks[0].Description != "auto" {
		t.Errorf("tasks: %+v", file.Tasks)
	}
}

func TestStorePathFromConfig(t *testing.T) {
	dir := setup(t)
	if err := os.WriteFile(filepath.Join(dir, "todo.toml"), []byte("file = \"work.csv\"\ncreate = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mustRun(t, "add", "from config")
	if _, err := os.Stat(filepath.Join(dir, "work.csv")); err != nil {
		t.Errorf("config file path not used: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TODO_FILE=env.csv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	mustRun(t, "add", "from dotenv")
	if _, err := os.Stat(filepath.Join(dir, "env.csv")); err != nil {
		t.Errorf(".env path not used: %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "tasks.csv")

	mustRun(t, "init")
	mustRun(t, "add", "fine")
	out := mustRun(t, "check")
	if !strings.Contains(out, "ok (1 tasks, schema: builtin)") {
		t.Errorf("check output: %q", out)
	}

	if err := os.WriteFile(path, []byte("MAX,9\nid,description,completed\n1,,false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "check")
	if err == nil {
		t.Fatal("expected error for empty description")
	}
	if !strings.Contains(out, "invalid") || !strings.Contains(out, "warning:") {
		t.Errorf("check output: %q", out)
	}

	if err := os.WriteFile(path, []byte("id,description,completed\n1,x,maybe\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "check", path); err == nil {
		t.Error("expected error for undecodable store")
	}
}

func TestConfigCommand(t *testing.T) {
	dir := setup(t)

	out := mustRun(t, "-file", "mine.csv", "config")
	if !strings.Contains(out, filepath.Join(dir, "mine.csv")) {
		t.Errorf("config output missing file:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case config.KeyFile:
			if fields[len(fields)-1] != string(config.SourceFlag) {
				t.Errorf("file source: %q", line)
			}
		case config.KeyStrict:
			if fields[len(fields)-1] != string(config.SourceDefault) {
				t.Errorf("strict source: %q", line)
			}
		}
	}

	out = mustRun(t, "config", "-example")
	if !strings.Contains(out, `format = "header"`) {
		t.Errorf("example config:\n%s", out)
	}
}

func TestInvalidGlobalFlag(t *testing.T) {
	setup(t)
	if _, err := run(t, "-format", "yaml", "list"); err == nil {
		t.Error("expected error for invalid format")
	}
	if _, err := run(t, "-nope"); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestAddDashDescription(t *testing.T) {
	dir := setup(t)
	mustRun(t, "init")

	_, err := run(t, "add", "-5 degrees outside")
	if err == nil || !strings.Contains(err.Error(), "put -- before") {
		t.Errorf("expected a hint about --, got %v", err)
	}

	out := mustRun(t, "add", "--", "-5 degrees outside")
	if !strings.Contains(out, "Added task 1: -5 degrees outside") {
		t.Errorf("add output: %q", out)
	}
	file, err := todo.Load(filepath.Join(dir, "tasks.csv"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(file.Tasks) != 1 || file.Tasks[0].Description != "-5 degrees outside" {
		t.Errorf("tasks: %+v", file.Tasks)
	}
}
