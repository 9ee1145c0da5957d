package todo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nathanmandell99/todo-cli/internal/utils"
)

const builtinSchemaURL = "https://todo-cli.local/tasks.schema.json"

// BuiltinSchema is the JSON Schema the decoded store is checked against when
// no schema file is configured.
const BuiltinSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "todo task store",
  "type": "object",
  "required": ["format", "tasks"],
  "additionalProperties": false,
  "properties": {
    "format": { "enum": ["header", "max"] },
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "description", "completed"],
        "additionalProperties": false,
        "properties": {
          "id": { "type": "integer", "minimum": 1 },
          "description": { "type": "string", "minLength": 1 },
          "completed": { "type": "boolean" }
        }
      }
    }
  }
}
`

// ValidationError represents a check failure with context.
type ValidationError struct {
	Path string // dotted path into the decoded store, e.g. tasks[2].description
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CheckOptions controls Check.
type CheckOptions struct {
	// SchemaPath is a JSON Schema file to use instead of BuiltinSchema.
	SchemaPath string
}

// CheckResult contains check results.
type CheckResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	// SchemaSource is "builtin" or the resolved schema file path.
	SchemaSource string
}

// document is the JSON view of a store that schemas validate.
type document struct {
	Format Format `json:"format"`
	Tasks  []Task `json:"tasks"`
}

// Check validates the decoded store against a JSON Schema and reports
// consistency warnings.
func (f *File) Check(opts CheckOptions) *CheckResult {
	result := &CheckResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schema, source, warn := compileSchema(opts.SchemaPath)
	if warn != "" {
		result.Warnings = append(result.Warnings, warn)
	}
	result.SchemaSource = source
	if schema == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("no usable schema")})
		return result
	}

	tasks := f.Tasks
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(document{Format: f.Format, Tasks: tasks})
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("marshal store: %w", err)})
		return result
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("unmarshal store: %w", err)})
		return result
	}

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	f.checkConsistency(result)
	return result
}

// checkConsistency adds warnings that the schema cannot express.
func (f *File) checkConsistency(result *CheckResult) {
	highest := f.NextID() - 1
	if hint, ok := f.MaxHint(); ok && hint != highest {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("MAX line says %d but the highest id is %d; it will be rewritten on the next save", hint, highest))
	}
	for i := 1; i < len(f.Tasks); i++ {
		if f.Tasks[i].ID < f.Tasks[i-1].ID {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("task %d is stored after task %d; records are not in id order", f.Tasks[i].ID, f.Tasks[i-1].ID))
			break
		}
	}
}

// compileSchema returns the schema to validate with, where it came from, and
// a warning when a configured schema file could not be used.
func compileSchema(schemaPath string) (*jsonschema.Schema, string, string) {
	var warn string
	if schemaPath != "" {
		absPath, err := filepath.Abs(schemaPath)
		if err != nil {
			warn = fmt.Sprintf("invalid schema path: %v, using builtin schema", err)
		} else if _, err := os.Stat(absPath); err != nil {
			warn = fmt.Sprintf("schema file not usable: %v, using builtin schema", err)
		} else {
			compiler := jsonschema.NewCompiler()
			compiler.AssertFormat = true
			schema, err := compiler.Compile(absPath)
			if err == nil {
				return schema, absPath, ""
			}
			warn = fmt.Sprintf("invalid schema file: %v, using builtin schema", err)
		}
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(builtinSchemaURL, strings.NewReader(BuiltinSchema)); err != nil {
		return nil, "builtin", warn
	}
	schema, err := compiler.Compile(builtinSchemaURL)
	if err != nil {
		return nil, "builtin", warn
	}
	return schema, "builtin", warn
}

func appendSchemaErrors(result *CheckResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *CheckResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
