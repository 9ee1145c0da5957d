package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that no store exists at the requested path.
	ErrNotFound = errors.New("task store not found")
	// ErrAlreadyExists reports that init found an existing store.
	ErrAlreadyExists = errors.New("task store already exists")
	// ErrTaskNotFound reports that no task has the requested id.
	ErrTaskNotFound = errors.New("task not found")
)

// StorageError wraps a failure to read, create, or write the backing file.
type StorageError struct {
	Op   string // load, create, append, save
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// FormatError reports a record that does not decode into a Task.
type FormatError struct {
	Path  string
	Line  int    // 1-based line in the file, 0 if unknown
	Field string // id, description, completed, header; empty for whole-record problems
	Err   error
}

func (e *FormatError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field %s: %s", loc, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s", loc, e.Err)
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error {
	return e.Err
}

func storageErr(op, path string, err error) error {
	return &StorageError{Op: op, Path: path, Err: err}
}
