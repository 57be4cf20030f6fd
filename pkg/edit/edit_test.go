package edit

import (
	"strings"
	"testing"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/jsonvalue"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		source string
		path   string
		raw    string
		want   string
	}{
		{"NumberStaysNumber", `{"n": 5}`, "root.n", "12", "{\n  \"n\": 12\n}"},
		{"NumberTrimmed", `{"n": 5}`, "root.n", " 2.5 ", "{\n  \"n\": 2.5\n}"},
		{"NumberExponent", `{"n": 5}`, "root.n", "1e3", "{\n  \"n\": 1000\n}"},
		{"BoolUpperFalse", `{"b": true}`, "root.b", "FALSE", "{\n  \"b\": false\n}"},
		{"BoolGarbage", `{"b": true}`, "root.b", "banana", "{\n  \"b\": false\n}"},
		{"BoolTrueAnyCase", `{"b": false}`, "root.b", "TrUe", "{\n  \"b\": true\n}"},
		{"BoolNullLiteral", `{"b": true}`, "root.b", "null", "{\n  \"b\": false\n}"},
		{"StringStaysString", `{"s": "a"}`, "root.s", "12", "{\n  \"s\": \"12\"\n}"},
		{"StringToNull", `{"s": "a"}`, "root.s", "null", "{\n  \"s\": null\n}"},
		{"NullCaseSensitive", `{"s": "a"}`, "root.s", "NULL", "{\n  \"s\": \"NULL\"\n}"},
		{"NullToString", `{"s": null}`, "root.s", "hello", "{\n  \"s\": \"hello\"\n}"},
		{"ArrayElement", `{"m": ["a", "b"]}`, "root.m.1", "z", "{\n  \"m\": [\n    \"a\",\n    \"z\"\n  ]\n}"},
		{"BracketPath", `{"m": [1, 2]}`, "root.m[0]", "7", "{\n  \"m\": [\n    7,\n    2\n  ]\n}"},
		{"EscapedKey", `{"a.b": "x"}`, `root.a\.b`, "y", "{\n  \"a.b\": \"y\"\n}"},
		{"WithoutRootPrefix", `{"n": 5}`, "n", "6", "{\n  \"n\": 6\n}"},
		{
			"KeepsOrderAndLiterals",
			`{"z": 1.50, "a": {"x": 1}, "m": 1e2}`,
			"root.a.x", "2",
			"{\n  \"z\": 1.50,\n  \"a\": {\n    \"x\": 2\n  },\n  \"m\": 1e2\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.source, tt.path, tt.raw)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() =\n%s\nwant\n%s", got, tt.want)
			}
			for _, line := range strings.Split(got, "\n") {
				if strings.TrimRight(line, " ") != line {
					t.Errorf("trailing whitespace in %q", line)
				}
			}
		})
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		path   string
		raw    string
		code   errors.Code
	}{
		{"InvalidJSON", `{"n": `, "root.n", "1", errors.ErrCodeInvalidJSON},
		{"NotANumber", `{"n": 5}`, "root.n", "abc", errors.ErrCodeTypeCoercion},
		{"EmptyNumber", `{"n": 5}`, "root.n", "  ", errors.ErrCodeTypeCoercion},
		{"NaN", `{"n": 5}`, "root.n", "NaN", errors.ErrCodeTypeCoercion},
		{"Inf", `{"n": 5}`, "root.n", "Infinity", errors.ErrCodeTypeCoercion},
		{"NullOnNumber", `{"n": 5}`, "root.n", "null", errors.ErrCodeTypeCoercion},
		{"Container", `{"o": {"a": 1}}`, "root.o", "x", errors.ErrCodeTypeCoercion},
		{"MissingIntermediate", `{"a": {}}`, "root.x.y", "1", errors.ErrCodePathNotFound},
		{"ScalarIntermediate", `{"a": 1}`, "root.a.b", "1", errors.ErrCodePathNotFound},
		{"MissingLeaf", `{"a": {}}`, "root.a.b", "1", errors.ErrCodePathNotFound},
		{"IndexOutOfRange", `{"a": [1]}`, "root.a.3", "1", errors.ErrCodePathNotFound},
		{"Root", `{"a": 1}`, "root", "1", errors.ErrCodePathNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.source, tt.path, tt.raw)
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if got != tt.source {
				t.Errorf("source changed on error: %q", got)
			}
		})
	}
}

func TestApplyNoop(t *testing.T) {
	source := `{"n": 5.0, "b": false, "s": "x"}`
	for _, tc := range []struct{ path, raw string }{
		{"root.n", "5"},
		{"root.b", "no"},
		{"root.s", "x"},
	} {
		r, err := ApplyResult(source, tc.path, tc.raw)
		if err != nil {
			t.Fatalf("ApplyResult(%s): %v", tc.path, err)
		}
		if r.Changed || r.Text != source {
			t.Errorf("edit %s=%q should be a no-op, got %q", tc.path, tc.raw, r.Text)
		}
	}
}

func TestApplyResultReportsValues(t *testing.T) {
	r, err := ApplyResult(`{"n": 5}`, "root.n", "6")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Changed || r.Prior.Float() != 5 || r.Value.Float() != 6 {
		t.Errorf("result = %+v", r)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		prior jsonvalue.Value
		raw   string
		kind  jsonvalue.Kind
		disp  string
	}{
		{jsonvalue.Number(1), "-3", jsonvalue.KindNumber, "-3"},
		{jsonvalue.Bool(false), "true", jsonvalue.KindBool, "true"},
		{jsonvalue.String("s"), "null", jsonvalue.KindNull, "null"},
		{jsonvalue.Null(), "false", jsonvalue.KindString, "false"},
	}
	for _, tt := range tests {
		got, err := Coerce(tt.prior, tt.raw)
		if err != nil {
			t.Errorf("Coerce(%v, %q): %v", tt.prior.Kind(), tt.raw, err)
			continue
		}
		if got.Kind() != tt.kind || got.Display() != tt.disp {
			t.Errorf("Coerce(%v, %q) = %v %q, want %v %q", tt.prior.Kind(), tt.raw, got.Kind(), got.Display(), tt.kind, tt.disp)
		}
	}
}
