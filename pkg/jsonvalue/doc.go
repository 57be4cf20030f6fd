// Package jsonvalue provides an immutable, order-preserving JSON value model.
//
// # Overview
//
// A [Value] is a tagged union over the six JSON kinds:
//
//	Null | Bool | Number | String | Object | Array
//
// Objects keep their members in document order, so a document parsed and
// re-serialized keeps its key order and produces minimal text diffs between
// edits. Numbers remember the literal they were parsed from and are written
// back verbatim unless the value is replaced.
//
// # Parsing
//
// [Parse] validates and decodes text with [github.com/tidwall/gjson], which
// iterates object members in source order:
//
//	v, err := jsonvalue.Parse(`{"app": "J-RAY", "modules": ["auth", "db"]}`)
//	if err != nil {
//	    // errors.Is(err, errors.ErrCodeInvalidJSON)
//	}
//
// Duplicate keys resolve to the last value, kept at the position of the
// first occurrence.
//
// # Updating
//
// Values are never mutated in place. [Value.SetPath] returns a new value
// that shares every subtree off the updated path with the original:
//
//	next, err := v.SetPath([]string{"modules", "1"}, jsonvalue.String("cache"))
//
// # Formatting
//
// [Value.Format] produces the canonical source text: two-space indentation,
// insertion key order and no trailing whitespace. [Format] reformats raw
// text in one step.
package jsonvalue
