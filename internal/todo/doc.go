// Package todo parses, updates, and writes task stores.
//
// A store is a CSV file with one task per line:
//
//	id,description,completed
//	1,Buy milk,false
//	2,"Write report, then send",true
//
// Descriptions follow encoding/csv quoting, so commas, quotes and line
// breaks survive a round trip. The completed column holds the literal
// tokens true and false.
//
// # Header styles
//
// Two header styles are read:
//
//   - header: the single id,description,completed line (the default).
//   - max: a MAX,<n> line before the header, where n is the highest id
//     assigned. It is rewritten from the tasks on every save and is never
//     used to hand out ids; NextID always scans.
//
// Save keeps the style a store was loaded with.
//
// # Writes
//
// Save replaces the file through a temp file and rename. Append adds one
// record to the end of the file and is what AppendTask uses for header
// style stores. Neither takes a lock.
package todo
