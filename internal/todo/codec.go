package todo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	fieldID          = "id"
	fieldDescription = "description"
	fieldCompleted   = "completed"

	maxTag = "MAX"
	bom    = "\ufeff"
)

// Header is the column header every store carries.
var Header = []string{fieldID, fieldDescription, fieldCompleted}

// decode reads a store. path is only used for error messages.
func decode(path string, r io.Reader) (*File, error) {
	cr := csv.NewReader(r)
	// Field counts are checked per record so the error can name the line.
	cr.FieldsPerRecord = -1

	f := &File{Format: FormatHeader, Tasks: []Task{}}
	seen := make(map[uint64]int)
	first := true
	sawHeader := false

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &FormatError{Path: path, Line: pe.Line, Err: pe.Err}
			}
			return nil, storageErr("load", path, err)
		}
		line, _ := cr.FieldPos(0)

		if first {
			first = false
			rec[0] = strings.TrimPrefix(rec[0], bom)
			if strings.EqualFold(strings.TrimSpace(rec[0]), maxTag) {
				hint, err := decodeMax(rec)
				if err != nil {
					return nil, &FormatError{Path: path, Line: line, Field: maxTag, Err: err}
				}
				f.Format = FormatMax
				f.maxHint = hint
				f.hasMax = true
				continue
			}
		}

		if !sawHeader {
			if !isHeader(rec) {
				return nil, &FormatError{
					Path:  path,
					Line:  line,
					Field: "header",
					Err:   fmt.Errorf("expected %q, got %q", strings.Join(Header, ","), strings.Join(rec, ",")),
				}
			}
			sawHeader = true
			continue
		}

		task, err := decodeRecord(rec)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Path = path
				fe.Line = line
			}
			return nil, err
		}
		if prev, dup := seen[task.ID]; dup {
			return nil, &FormatError{
				Path:  path,
				Line:  line,
				Field: fieldID,
				Err:   fmt.Errorf("duplicate id %d (first seen on line %d)", task.ID, prev),
			}
		}
		seen[task.ID] = line
		f.Tasks = append(f.Tasks, task)
	}

	if f.hasMax && !sawHeader {
		return nil, &FormatError{Path: path, Field: "header", Err: errors.New("missing header after MAX line")}
	}
	return f, nil
}

func decodeMax(rec []string) (uint64, error) {
	if len(rec) != 2 {
		return 0, fmt.Errorf("expected 2 fields, got %d", len(rec))
	}
	hint, err := strconv.ParseUint(strings.TrimSpace(rec[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", rec[1])
	}
	return hint, nil
}

func isHeader(rec []string) bool {
	if len(rec) != len(Header) {
		return false
	}
	for i, name := range Header {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), name) {
			return false
		}
	}
	return true
}

// decodeRecord converts one CSV record into a Task. Path and line are left
// for the caller to fill in on the returned FormatError.
func decodeRecord(rec []string) (Task, error) {
	if len(rec) != len(Header) {
		return Task{}, &FormatError{Err: fmt.Errorf("expected %d fields, got %d", len(Header), len(rec))}
	}

	raw := strings.TrimSpace(rec[0])
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return Task{}, &FormatError{Field: fieldID, Err: fmt.Errorf("invalid id %q", rec[0])}
	}
	if id == 0 {
		return Task{}, &FormatError{Field: fieldID, Err: errors.New("id must be at least 1")}
	}

	var completed bool
	switch strings.TrimSpace(rec[2]) {
	case "true":
		completed = true
	case "false":
		completed = false
	default:
		return Task{}, &FormatError{Field: fieldCompleted, Err: fmt.Errorf("invalid value %q, must be true or false", rec[2])}
	}

	return Task{ID: id, Description: rec[1], Completed: completed}, nil
}

func encodeRecord(task Task) []string {
	return []string{
		strconv.FormatUint(task.ID, 10),
		task.Description,
		strconv.FormatBool(task.Completed),
	}
}

// encode writes the whole store: optional MAX line, header, then tasks in
// slice order.
func encode(w io.Writer, f *File) error {
	cw := csv.NewWriter(w)
	if f.Format == FormatMax {
		if err := cw.Write([]string{maxTag, strconv.FormatUint(f.NextID()-1, 10)}); err != nil {
			return err
		}
	}
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, task := range f.Tasks {
		if err := cw.Write(encodeRecord(task)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
