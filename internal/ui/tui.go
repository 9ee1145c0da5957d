// Package ui provides the interactive terminal view of a task store.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathanmandell99/todo-cli/internal/config"
	"github.com/nathanmandell99/todo-cli/internal/todo"
)

// ErrNotTTY is returned when the TUI is started without a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// RunTUI starts the TUI on the store at todoPath.
func RunTUI(ctx context.Context, cfg *config.Config, todoPath string) error {
	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}
	if cfg.Create {
		if err := todo.CreateIfAbsent(todoPath, cfg.StoreFormat(), true); err != nil {
			return err
		}
	}

	model := newTUIModel(todoPath)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	todoPath     string
	file         *todo.File
	rows         []todo.Task
	incomplete   int
	cursor       int
	loadErr      error
	status       string
	adding       bool
	input        []rune
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(todoPath string) *tuiModel {
	return &tuiModel{
		todoPath:     todoPath,
		tickInterval: 2 * time.Second,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case " ", "space", "enter", "x":
			m.toggleSelected()
		case "a":
			m.adding = true
			m.input = m.input[:0]
			m.status = ""
		case "r", "f5":
			m.refresh()
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	case tickMsg:
		// Pick up edits made by other processes unless the user is typing.
		if !m.adding {
			m.refresh()
		}
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.adding = false
		m.input = m.input[:0]
	case tea.KeyEnter:
		m.addTask(string(m.input))
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m *tuiModel) addTask(description string) {
	description = strings.TrimSpace(description)
	if description == "" {
		m.status = "description is empty"
		return
	}
	if m.file == nil {
		m.status = "store is not loaded"
		return
	}
	task, err := m.file.AppendTask(m.todoPath, description)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.adding = false
	m.input = m.input[:0]
	m.status = fmt.Sprintf("added task %d", task.ID)
	m.rebuild(task.ID)
}

func (m *tuiModel) toggleSelected() {
	if m.file == nil || len(m.rows) == 0 {
		return
	}
	id := m.rows[m.cursor].ID
	if err := m.file.Toggle(id); err != nil {
		m.status = err.Error()
		return
	}
	if err := m.file.Save(m.todoPath); err != nil {
		m.status = err.Error()
		m.refresh()
		return
	}
	if t := m.file.GetTask(id); t != nil && t.Completed {
		m.status = fmt.Sprintf("completed task %d", id)
	} else {
		m.status = fmt.Sprintf("reopened task %d", id)
	}
	m.rebuild(id)
}

func (m *tuiModel) refresh() {
	selected := uint64(0)
	if m.cursor < len(m.rows) {
		selected = m.rows[m.cursor].ID
	}
	file, err := todo.Load(m.todoPath)
	if err != nil {
		m.loadErr = err
		m.file = nil
		m.rows = nil
		m.cursor = 0
		return
	}
	m.loadErr = nil
	m.file = file
	m.rebuild(selected)
}

// rebuild lays out rows as incomplete tasks followed by complete ones and
// keeps the cursor on the task with id keep when it is still present.
func (m *tuiModel) rebuild(keep uint64) {
	incomplete, complete := m.file.Partition()
	m.incomplete = len(incomplete)
	m.rows = append(incomplete, complete...)
	m.cursor = 0
	for i, task := range m.rows {
		if task.ID == keep {
			m.cursor = i
			break
		}
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.todoPath)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading task store:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b)
		return b.String()
	}
	if m.file == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b)
		return b.String()
	}

	writeSection(&b, "Incomplete", m.rows[:m.incomplete], 0, m.cursor)
	writeSection(&b, "Complete", m.rows[m.incomplete:], m.incomplete, m.cursor)

	if m.adding {
		b.WriteString("New task: " + string(m.input) + "_\n\n")
	}
	if m.status != "" {
		b.WriteString(m.status + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeTitle(b *strings.Builder, todoPath string) {
	b.WriteString(titleStyle.Render("todo") + "  " + footerStyle.Render(todoPath) + "\n\n")
}

func writeSection(b *strings.Builder, title string, tasks []todo.Task, offset, cursor int) {
	b.WriteString(sectionStyle.Render(fmt.Sprintf("%s (%d)", title, len(tasks))) + "\n\n")
	if len(tasks) == 0 {
		b.WriteString("  none\n\n")
		return
	}
	for i, task := range tasks {
		b.WriteString(formatRow(task, offset+i == cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func formatRow(t todo.Task, selected bool) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %d  %s", mark, t.ID, t.Description)
	switch {
	case selected:
		return cursorStyle.Render("> " + line)
	case t.Completed:
		return "  " + completeStyle.Render(line)
	default:
		return "  " + line
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up/k, down/j   Move selection\n")
	b.WriteString("  space, enter   Toggle selected task\n")
	b.WriteString("  a              Add a task (enter saves, esc cancels)\n")
	b.WriteString("  r, F5          Reload from disk\n")
	b.WriteString("  h, ?           Toggle this help screen\n")
	b.WriteString("  q, ctrl+c      Quit\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render("Press h for help | a to add | space to toggle | q to quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
