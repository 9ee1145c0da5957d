package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by .env, TODO_* environment variables, or CLI flags

# Task store (relative to the working directory, supports ~ and $VAR)
file = "tasks.csv"

# Create the store on add/list/toggle when it is missing,
# and let init succeed when the store already exists
create = false

# Exit non-zero when toggle is given an id that does not exist
strict = false

# Header style for new stores: "header" or "max" (adds a MAX,<n> line)
format = "header"

# JSON Schema used by "todo check" (builtin schema when empty)
# schema_file = "tasks.schema.json"

# Logging (written to stderr)
log_level = "warn"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
