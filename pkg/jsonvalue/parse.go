package jsonvalue

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/jray/pkg/errors"
)

// Parse decodes text into a Value.
// Returns an INVALID_JSON error when text is not a single valid JSON document.
func Parse(text string) (Value, error) {
	trimmed := strings.TrimSpace(text)
	if !gjson.Valid(trimmed) {
		return Value{}, syntaxError(trimmed)
	}
	return fromResult(gjson.Parse(trimmed)), nil
}

// MustParse is like Parse but panics on invalid input.
// It is intended for tests and package-level fixtures.
func MustParse(text string) Value {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// Valid reports whether text is a single valid JSON document.
func Valid(text string) bool {
	return gjson.Valid(strings.TrimSpace(text))
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Value{kind: KindNumber, num: r.Num, lit: r.Raw}
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var elems []Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, fromResult(v))
				return true
			})
			return Value{kind: KindArray, elems: elems}
		}
		var members []Member
		r.ForEach(func(k, v gjson.Result) bool {
			members = append(members, Member{Key: k.Str, Value: fromResult(v)})
			return true
		})
		return Object(members...)
	}
	return Null()
}

// syntaxError builds the INVALID_JSON error. gjson only reports validity,
// so the decoder from encoding/json is used to locate the problem.
func syntaxError(text string) error {
	if text == "" {
		return errors.New(errors.ErrCodeInvalidJSON, "source is empty")
	}
	var discard any
	err := json.Unmarshal([]byte(text), &discard)
	if se, ok := err.(*json.SyntaxError); ok {
		return errors.Wrap(errors.ErrCodeInvalidJSON, se, "invalid JSON at offset %d", se.Offset)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidJSON, err, "invalid JSON")
	}
	return errors.New(errors.ErrCodeInvalidJSON, "invalid JSON")
}
