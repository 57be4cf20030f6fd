package jsonvalue

import (
	"bytes"
	"encoding/json"
)

// Indent is the indentation unit of canonical source text.
const Indent = "  "

// Marshal returns the compact encoding of v.
func (v Value) Marshal() []byte {
	var buf bytes.Buffer
	v.appendTo(&buf)
	return buf.Bytes()
}

// Format returns the canonical source text of v: two-space indentation,
// insertion key order, no trailing newline.
func (v Value) Format() string {
	var out bytes.Buffer
	if err := json.Indent(&out, v.Marshal(), "", Indent); err != nil {
		// Marshal only produces valid JSON.
		panic(err)
	}
	return out.String()
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.Marshal(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Format reformats JSON source text into its canonical form.
func Format(text string) (string, error) {
	v, err := Parse(text)
	if err != nil {
		return "", err
	}
	return v.Format(), nil
}

func (v Value) appendTo(buf *bytes.Buffer) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if v.lit != "" {
			buf.WriteString(v.lit)
		} else {
			buf.WriteString(formatNumber(v.num))
		}
	case KindString:
		appendString(buf, v.str)
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendString(buf, m.Key)
			buf.WriteByte(':')
			m.Value.appendTo(buf)
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			e.appendTo(buf)
		}
		buf.WriteByte(']')
	}
}

// appendString writes s as a JSON string literal without HTML escaping,
// which keeps <, > and & readable in the source text.
func appendString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
}
