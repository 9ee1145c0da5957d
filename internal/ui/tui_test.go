package ui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathanmandell99/todo-cli/internal/todo"
)

func writeStore(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write store: %v", err)
	}
	return path
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *tuiModel, msgs ...tea.Msg) {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		if next != m {
			t.Fatalf("Update returned a different model")
		}
	}
}

func newLoadedModel(t *testing.T, content string) (*tuiModel, string) {
	t.Helper()
	path := writeStore(t, content)
	m := newTUIModel(path)
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init should schedule a refresh tick")
	}
	if m.loadErr != nil {
		t.Fatalf("load: %v", m.loadErr)
	}
	return m, path
}

func TestModelLayout(t *testing.T) {
	m, _ := newLoadedModel(t, "id,description,completed\n3,Call mom,true\n1,Buy milk,false\n2,Walk dog,false\n")

	if len(m.rows) != 3 || m.incomplete != 2 {
		t.Fatalf("rows: got %d rows with %d incomplete", len(m.rows), m.incomplete)
	}
	wantOrder := []uint64{1, 2, 3}
	for i, id := range wantOrder {
		if m.rows[i].ID != id {
			t.Errorf("row %d: got id %d, want %d", i, m.rows[i].ID, id)
		}
	}

	view := m.View()
	for _, want := range []string{"Incomplete (2)", "Complete (1)", "Buy milk", "[x] 3  Call mom"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q:\n%s", want, view)
		}
	}
	if strings.Index(view, "Walk dog") > strings.Index(view, "Call mom") {
		t.Error("incomplete tasks should render before complete tasks")
	}
}

func TestModelNavigation(t *testing.T) {
	m, _ := newLoadedModel(t, "id,description,completed\n1,a,false\n2,b,false\n")

	press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor should stay at top, got %d", m.cursor)
	}
	press(t, m, keyRunes("j"), keyRunes("j"), keyRunes("j"))
	if m.cursor != 1 {
		t.Errorf("cursor should stop at last row, got %d", m.cursor)
	}
	press(t, m, keyRunes("k"))
	if m.cursor != 0 {
		t.Errorf("cursor after k: got %d", m.cursor)
	}
}

func TestModelToggleSaves(t *testing.T) {
	m, path := newLoadedModel(t, "id,description,completed\n1,Buy milk,false\n2,Walk dog,false\n")

	press(t, m, keyRunes("j"), tea.KeyMsg{Type: tea.KeyEnter})

	got, err := todo.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.GetTask(2).Completed {
		t.Error("task 2 should be completed on disk")
	}
	if got.GetTask(1).Completed {
		t.Error("task 1 should be untouched")
	}
	if m.rows[m.cursor].ID != 2 {
		t.Errorf("cursor should follow the toggled task, on %d", m.rows[m.cursor].ID)
	}
	if !strings.Contains(m.status, "completed task 2") {
		t.Errorf("status: got %q", m.status)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	got, _ = todo.Load(path)
	if got.GetTask(2).Completed {
		t.Error("second toggle should reopen task 2")
	}
}

func TestModelAddTask(t *testing.T) {
	m, path := newLoadedModel(t, "id,description,completed\n1,Buy milk,false\n")

	press(t, m, keyRunes("a"))
	if !m.adding {
		t.Fatal("a should enter add mode")
	}
	// q is text while adding, not quit.
	press(t, m,
		keyRunes("Fix"),
		tea.KeyMsg{Type: tea.KeySpace},
		keyRunes("sinkq"),
		tea.KeyMsg{Type: tea.KeyBackspace},
	)
	if !strings.Contains(m.View(), "New task: Fix sink_") {
		t.Errorf("input not rendered:\n%s", m.View())
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.adding {
		t.Error("enter should leave add mode")
	}
	got, err := todo.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	task := got.GetTask(2)
	if task == nil || task.Description != "Fix sink" || task.Completed {
		t.Errorf("added task: got %+v", task)
	}
}

func TestModelAddEmptyAndCancel(t *testing.T) {
	m, path := newLoadedModel(t, "id,description,completed\n")
	before, _ := os.ReadFile(path)

	press(t, m, keyRunes("a"), tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.adding || m.status != "description is empty" {
		t.Errorf("empty add: adding=%v status=%q", m.adding, m.status)
	}
	press(t, m, keyRunes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.adding {
		t.Error("esc should cancel add mode")
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Errorf("store changed: %q -> %q", before, after)
	}
}

func TestModelLoadError(t *testing.T) {
	m, _ := newLoadedModel(t, "id,description,completed\n1,a,false\n")
	m.todoPath = filepath.Join(t.TempDir(), "missing.csv")

	press(t, m, keyRunes("r"))
	if !errors.Is(m.loadErr, todo.ErrNotFound) {
		t.Errorf("loadErr: got %v", m.loadErr)
	}
	if !strings.Contains(m.View(), "Error loading task store") {
		t.Errorf("view should show the error:\n%s", m.View())
	}
	// Toggling with nothing loaded is a no-op.
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestModelHelpAndQuit(t *testing.T) {
	m, _ := newLoadedModel(t, "id,description,completed\n")

	press(t, m, keyRunes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help screen not shown")
	}

	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestIsTTY(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("a buffer is not a TTY")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("a regular file is not a TTY")
	}
}

func TestModelSaveErrorKeepsRunning(t *testing.T) {
	m, path := newLoadedModel(t, "id,description,completed\n1,Buy milk,false\n")
	if err := os.RemoveAll(filepath.Dir(path)); err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next != m || cmd != nil {
		t.Error("a failed save should be reported, not end the program")
	}
	if !strings.Contains(m.status, "save") {
		t.Errorf("status should report the save failure, got %q", m.status)
	}
	if !errors.Is(m.loadErr, todo.ErrNotFound) {
		t.Errorf("store should be reloaded after a failed save, loadErr = %v", m.loadErr)
	}
}
