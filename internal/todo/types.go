// Package todo parses, updates, and writes CSV task stores.
package todo

import (
	"fmt"
	"sort"
	"strings"
)

// Format selects the header layout of a store file.
type Format string

const (
	// FormatHeader is a single "id,description,completed" header line.
	FormatHeader Format = "header"
	// FormatMax prefixes the header with a "MAX,<n>" next-id hint line.
	FormatMax Format = "max"
)

// ParseFormat normalizes a format name. Empty input selects FormatHeader.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "header":
		return FormatHeader, nil
	case "max":
		return FormatMax, nil
	default:
		return "", fmt.Errorf("invalid store format %q, must be one of: header, max", s)
	}
}

// Task is a single entry in the store.
type Task struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// File is the in-memory form of a store.
type File struct {
	Format Format
	Tasks  []Task

	// maxHint is the value of the MAX line as last read or written.
	maxHint uint64
	hasMax  bool
}

// NextID returns max(ids)+1, or 1 when tasks is empty.
func NextID(tasks []Task) uint64 {
	var highest uint64
	for _, t := range tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

// NextID returns the id the next added task will receive.
func (f *File) NextID() uint64 {
	return NextID(f.Tasks)
}

// MaxHint returns the MAX value seen on disk and whether the file carried one.
// The hint is informational; ids are always assigned from NextID.
func (f *File) MaxHint() (uint64, bool) {
	return f.maxHint, f.hasMax
}

// Add creates an incomplete task with the next id and appends it.
func (f *File) Add(description string) Task {
	task := Task{
		ID:          f.NextID(),
		Description: normalizeDescription(description),
	}
	f.Tasks = append(f.Tasks, task)
	return task
}

// GetTask returns a task by ID, or nil if not found.
func (f *File) GetTask(id uint64) *Task {
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			return &f.Tasks[i]
		}
	}
	return nil
}

// Toggle flips the completion flag of the task with the given id.
func (f *File) Toggle(id uint64) error {
	task := f.GetTask(id)
	if task == nil {
		return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	task.Completed = !task.Completed
	return nil
}

// Partition splits tasks by completion. Both slices are sorted by ascending id.
func (f *File) Partition() (incomplete, complete []Task) {
	incomplete = make([]Task, 0, len(f.Tasks))
	complete = make([]Task, 0, len(f.Tasks))
	for _, t := range f.Tasks {
		if t.Completed {
			complete = append(complete, t)
		} else {
			incomplete = append(incomplete, t)
		}
	}
	sortByID(incomplete)
	sortByID(complete)
	return incomplete, complete
}

// normalizeDescription folds CRLF line breaks to LF. A CSV reader returns
// LF for a quoted CRLF, so anything else would not survive a reload.
func normalizeDescription(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func sortByID(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})
}
