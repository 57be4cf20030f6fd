// Package edit applies a single node-level edit to JSON source text.
//
// An edit names a node by its [nodeid] path and carries the raw text the
// user typed. The raw text is coerced to the kind of the value it replaces,
// so editing a number keeps it a number and editing a boolean keeps it a
// boolean:
//
//	edit.Apply(`{"n": 5}`, "root.n", "12")        // {"n": 12}
//	edit.Apply(`{"b": true}`, "root.b", "FALSE")  // {"b": false}
//	edit.Apply(`{"n": 5}`, "root.n", "abc")       // TYPE_COERCION
//
// The result is re-serialized with two-space indentation and the original
// key order. An edit that would not change the value returns the source
// text unchanged.
package edit

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/jsonvalue"
	"github.com/matzehuels/jray/pkg/nodeid"
)

// NullLiteral is the raw input that turns any scalar into null.
const NullLiteral = "null"

// Result describes a successful [ApplyResult].
type Result struct {
	Text    string          // New source text
	Changed bool            // False when the edit was a no-op
	Prior   jsonvalue.Value // Value that was replaced
	Value   jsonvalue.Value // Value written
}

// Apply returns source with the value at path replaced by raw, coerced to
// the replaced value's kind.
//
// Errors:
//   - INVALID_JSON when source does not parse
//   - PATH_NOT_FOUND when path does not resolve to an existing value
//   - TYPE_COERCION when raw cannot become the replaced kind
func Apply(source, path, raw string) (string, error) {
	r, err := ApplyResult(source, path, raw)
	if err != nil {
		return source, err
	}
	return r.Text, nil
}

// ApplyResult is [Apply] with details about what changed.
func ApplyResult(source, path, raw string) (Result, error) {
	doc, err := jsonvalue.Parse(source)
	if err != nil {
		return Result{}, err
	}

	segs := nodeid.Parse(path)
	if len(segs) == 0 {
		return Result{}, errors.New(errors.ErrCodePathNotFound, "cannot edit the document root")
	}
	prior, ok := doc.Lookup(segs)
	if !ok {
		return Result{}, errors.New(errors.ErrCodePathNotFound, "%s does not exist", path)
	}

	next, err := Coerce(prior, raw)
	if err != nil {
		return Result{}, err
	}
	if next.Equal(prior) {
		return Result{Text: source, Prior: prior, Value: prior}, nil
	}

	updated, err := doc.SetPath(segs, next)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodePathNotFound, err, "set %s", path)
	}
	return Result{
		Text:    updated.Format(),
		Changed: true,
		Prior:   prior,
		Value:   next,
	}, nil
}

// Coerce converts raw into a value of the same kind as prior.
//
//   - Number: raw must parse as a finite number
//   - Bool: true iff raw equals "true" ignoring case
//   - any scalar: the literal "null" becomes null
//   - otherwise raw is stored as a string
//
// Objects and arrays are not scalar-editable and are rejected.
func Coerce(prior jsonvalue.Value, raw string) (jsonvalue.Value, error) {
	switch prior.Kind() {
	case jsonvalue.KindObject, jsonvalue.KindArray:
		return jsonvalue.Value{}, errors.New(errors.ErrCodeTypeCoercion, "cannot replace %s with a scalar", prior.Kind())
	case jsonvalue.KindNumber:
		f, err := parseNumber(raw)
		if err != nil {
			return jsonvalue.Value{}, err
		}
		return jsonvalue.Number(f), nil
	case jsonvalue.KindBool:
		return jsonvalue.Bool(strings.ToLower(raw) == "true"), nil
	}
	if raw == NullLiteral {
		return jsonvalue.Null(), nil
	}
	return jsonvalue.String(raw), nil
}

func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New(errors.ErrCodeTypeCoercion, "empty input is not a number")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New(errors.ErrCodeTypeCoercion, "%q is not a number", raw)
	}
	return f, nil
}
