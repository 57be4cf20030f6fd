package jsonvalue

import (
	"strconv"
	"strings"
)

// Kind identifies which variant of the union a [Value] holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "boolean",
	KindNumber: "number",
	KindString: "string",
	KindObject: "object",
	KindArray:  "array",
}

// String returns the JavaScript-style type name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsScalar reports whether the kind is one of Null, Bool, Number or String.
func (k Kind) IsScalar() bool { return k != KindObject && k != KindArray }

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	num     float64
	lit     string // number literal as written in the source, empty when constructed
	str     string
	members []Member
	elems   []Value
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Object returns a JSON object with members in the given order.
// A later member with a duplicate key replaces the earlier one in place.
func Object(members ...Member) Value {
	out := make([]Member, 0, len(members))
	index := make(map[string]int, len(members))
	for _, m := range members {
		if i, ok := index[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		index[m.Key] = len(out)
		out = append(out, m)
	}
	return Value{kind: KindObject, members: out}
}

// Array returns a JSON array.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, elems: append([]Value(nil), elems...)}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; false for other kinds.
func (v Value) Bool() bool { return v.b }

// Float returns the numeric payload; 0 for other kinds.
func (v Value) Float() float64 { return v.num }

// Str returns the string payload; empty for other kinds.
func (v Value) Str() string { return v.str }

// Len returns the number of members or elements; 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.members)
	case KindArray:
		return len(v.elems)
	}
	return 0
}

// Members returns a copy of the object's members in order.
func (v Value) Members() []Member {
	return append([]Member(nil), v.members...)
}

// Elems returns a copy of the array's elements in order.
func (v Value) Elems() []Value {
	return append([]Value(nil), v.elems...)
}

// Get returns the member stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// At returns the i-th array element.
func (v Value) At(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return Value{}, false
	}
	return v.elems[i], true
}

// Child resolves a single path segment: a member key for objects, a decimal
// index for arrays. Scalars have no children.
func (v Value) Child(seg string) (Value, bool) {
	switch v.kind {
	case KindObject:
		return v.Get(seg)
	case KindArray:
		i, ok := parseIndex(seg)
		if !ok {
			return Value{}, false
		}
		return v.At(i)
	}
	return Value{}, false
}

// Display returns the text a diagram shows for a scalar, matching how
// JavaScript stringifies the value: null, true, 12, 1.5e-7, or the raw
// string. Containers return an empty string.
func (v Value) Display() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.num)
	case KindString:
		return v.str
	}
	return ""
}

// Equal reports whether v and o hold the same JSON value. Numbers compare
// by value, so 5 and 5.0 are equal. Object comparison is order-sensitive.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindObject:
		if len(v.members) != len(o.members) {
			return false
		}
		for i := range v.members {
			if v.members[i].Key != o.members[i].Key || !v.members[i].Value.Equal(o.members[i].Value) {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// parseIndex accepts plain non-negative decimal indices only ("0", "12"),
// rejecting signs, spaces and leading zeros.
func parseIndex(seg string) (int, bool) {
	if seg == "" || (len(seg) > 1 && seg[0] == '0') {
		return 0, false
	}
	for _, c := range seg {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return i, true
}

// formatNumber renders f the way JavaScript's Number#toString does:
// fixed notation for magnitudes in [1e-6, 1e21), exponent notation with
// an unpadded exponent otherwise.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
