package todo

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const filePerm = 0644

// Load reads and parses the store at path.
func Load(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storageErr("load", path, ErrNotFound)
		}
		return nil, storageErr("load", path, err)
	}
	defer file.Close()

	return decode(path, bufio.NewReader(file))
}

// LoadOrCreate loads the store at path. When create is true a missing store
// is initialized with the given format first.
func LoadOrCreate(path string, create bool, format Format) (*File, error) {
	if create {
		if err := CreateIfAbsent(path, format, true); err != nil {
			return nil, err
		}
	}
	return Load(path)
}

// CreateIfAbsent writes an empty store at path. If something already exists
// there it returns nil when allowExisting is set and ErrAlreadyExists
// otherwise.
func CreateIfAbsent(path string, format Format, allowExisting bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return storageErr("create", path, fmt.Errorf("create parent dir: %w", err))
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			if allowExisting {
				return nil
			}
			return storageErr("create", path, ErrAlreadyExists)
		}
		return storageErr("create", path, err)
	}

	empty := &File{Format: format, Tasks: []Task{}}
	var buf bytes.Buffer
	if err := encode(&buf, empty); err != nil {
		file.Close()
		os.Remove(path)
		return storageErr("create", path, fmt.Errorf("encode header: %w", err))
	}
	if _, err := file.Write(buf.Bytes()); err != nil {
		file.Close()
		os.Remove(path)
		return storageErr("create", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return storageErr("create", path, err)
	}
	return nil
}

// Append adds one record to the end of the store at path without rewriting
// the rest of the file. It does not touch a MAX line; use Save for stores in
// FormatMax.
func Append(path string, task Task) error {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storageErr("append", path, ErrNotFound)
		}
		return storageErr("append", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return storageErr("append", path, err)
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	switch {
	case info.Size() == 0:
		if err := cw.Write(Header); err != nil {
			return storageErr("append", path, err)
		}
	default:
		last := make([]byte, 1)
		if _, err := file.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
			return storageErr("append", path, err)
		}
		if last[0] != '\n' {
			buf.WriteByte('\n')
		}
	}
	if err := cw.Write(encodeRecord(task)); err != nil {
		return storageErr("append", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return storageErr("append", path, err)
	}

	if _, err := file.Write(buf.Bytes()); err != nil {
		return storageErr("append", path, err)
	}
	return nil
}

// AppendTask assigns the next id to a new task, adds it to f, and persists it
// to path: a single appended record for FormatHeader stores, a full rewrite
// for FormatMax stores so the MAX line stays in step.
func (f *File) AppendTask(path, description string) (Task, error) {
	task := f.Add(description)
	var err error
	if f.Format == FormatMax {
		err = f.Save(path)
	} else {
		err = Append(path, task)
	}
	if err != nil {
		f.Tasks = f.Tasks[:len(f.Tasks)-1]
		return Task{}, err
	}
	return task, nil
}

// Save writes the full store to path, replacing prior contents atomically.
func (f *File) Save(path string) error {
	if f.Format == "" {
		f.Format = FormatHeader
	}
	for i := range f.Tasks {
		f.Tasks[i].Description = normalizeDescription(f.Tasks[i].Description)
	}

	var buf bytes.Buffer
	if err := encode(&buf, f); err != nil {
		return storageErr("save", path, fmt.Errorf("encode tasks: %w", err))
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return storageErr("save", path, err)
	}

	f.hasMax = f.Format == FormatMax
	f.maxHint = 0
	if f.hasMax {
		f.maxHint = f.NextID() - 1
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place. The existing file mode is kept.
func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(filePerm)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
