package jsonvalue

import (
	"testing"

	"github.com/matzehuels/jray/pkg/errors"
)

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    Kind
		display string
	}{
		{"null", "null", KindNull, "null"},
		{"true", "true", KindBool, "true"},
		{"false", " false ", KindBool, "false"},
		{"integer", "12", KindNumber, "12"},
		{"float", "1.50", KindNumber, "1.5"},
		{"exponent", "1e2", KindNumber, "100"},
		{"tiny", "0.00000015", KindNumber, "1.5e-7"},
		{"below micro", "0.0000005", KindNumber, "5e-7"},
		{"micro", "0.000001", KindNumber, "0.000001"},
		{"huge", "1e21", KindNumber, "1e+21"},
		{"negative zero", "-0", KindNumber, "0"},
		{"string", `"hello"`, KindString, "hello"},
		{"escaped string", `"a\nb"`, KindString, "a\nb"},
		{"object", `{"a":1}`, KindObject, ""},
		{"array", `[1,2]`, KindArray, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.kind)
			}
			if got := v.Display(); got != tt.display {
				t.Errorf("Display() = %q, want %q", got, tt.display)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "{", `{"a":}`, "[1,]", "nul", `{"a":1} {"b":2}`} {
		_, err := Parse(input)
		if err == nil {
			t.Errorf("Parse(%q) = nil error, want INVALID_JSON", input)
			continue
		}
		if !errors.Is(err, errors.ErrCodeInvalidJSON) {
			t.Errorf("Parse(%q) code = %v, want %v", input, errors.GetCode(err), errors.ErrCodeInvalidJSON)
		}
	}
}

func TestParsePreservesKeyOrder(t *testing.T) {
	v := MustParse(`{"zeta": 1, "alpha": 2, "mid": {"y": true, "x": false}}`)

	var keys []string
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	want := []string{"zeta", "alpha", "mid"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	mid, _ := v.Get("mid")
	if got := mid.Members()[0].Key; got != "y" {
		t.Errorf("nested first key = %q, want %q", got, "y")
	}
}

func TestParseDuplicateKeys(t *testing.T) {
	v := MustParse(`{"a": 1, "b": 2, "a": 3}`)
	if v.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", v.Len())
	}
	first := v.Members()[0]
	if first.Key != "a" || first.Value.Float() != 3 {
		t.Errorf("first member = %s:%v, want a:3", first.Key, first.Value.Float())
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"5", "5.0", true},
		{"5", "6", false},
		{`"5"`, "5", false},
		{"null", "null", true},
		{`{"a":[1,{"b":null}]}`, `{"a":[1,{"b":null}]}`, true},
		{`{"a":1,"b":2}`, `{"b":2,"a":1}`, false},
		{"[1,2]", "[1,2,3]", false},
	}
	for _, tt := range tests {
		if got := MustParse(tt.a).Equal(MustParse(tt.b)); got != tt.want {
			t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestChild(t *testing.T) {
	v := MustParse(`{"list": ["a", "b"], "0": "zero"}`)

	if c, ok := v.Child("0"); !ok || c.Str() != "zero" {
		t.Errorf(`Child("0") on object = %v, %v`, c.Str(), ok)
	}

	list, _ := v.Get("list")
	if c, ok := list.Child("1"); !ok || c.Str() != "b" {
		t.Errorf(`Child("1") on array = %v, %v`, c.Str(), ok)
	}
	for _, seg := range []string{"2", "-1", "01", "+1", "x", ""} {
		if _, ok := list.Child(seg); ok {
			t.Errorf("Child(%q) on array resolved, want miss", seg)
		}
	}
	if _, ok := String("s").Child("0"); ok {
		t.Error("Child on scalar resolved, want miss")
	}
}

func TestKindString(t *testing.T) {
	if KindBool.String() != "boolean" || KindArray.String() != "array" {
		t.Errorf("unexpected kind names: %s %s", KindBool, KindArray)
	}
	if !KindNull.IsScalar() || KindObject.IsScalar() {
		t.Error("IsScalar mismatch")
	}
}
