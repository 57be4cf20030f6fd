// Package nodeid derives deterministic identifiers for the values of a JSON
// document.
//
// An ID joins the keys and array indices leading from the document root,
// starting with the [Root] sentinel:
//
//	root                  the document itself
//	root.modules          member "modules" of the root object
//	root.modules.0.name   member "name" of the first element of "modules"
//
// Keys that contain the separator, a bracket or a backslash are escaped
// with a backslash, so two distinct paths inside one document never share
// an ID. [Parse] is the lossless inverse of [Identify]; it also accepts the
// bracketed index form (root.modules[0].name).
package nodeid

import (
	"strconv"
	"strings"
)

// Root is the ID of the document root.
const Root = "root"

// Separator joins path segments.
const Separator = "."

// Segment is a single step from a container to one of its children.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns the segment addressing object member name.
func Key(name string) Segment { return Segment{key: name} }

// Index returns the segment addressing array element i.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether s addresses an array element.
func (s Segment) IsIndex() bool { return s.isIndex }

// String returns the unescaped segment text: the key, or the decimal index.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Identify returns the ID of the child reached from parent through seg.
// An empty parent denotes "no parent" and yields [Root] regardless of seg.
func Identify(parent string, seg Segment) string {
	if parent == "" {
		return Root
	}
	return parent + Separator + escape(seg.String())
}

// Parse splits id into its unescaped segments, dropping the leading root
// sentinel. Both root.a.0.b and root.a[0].b yield [a 0 b]. Empty keys are
// kept as empty segments. An empty id yields nil.
func Parse(id string) []string {
	if id == "" {
		return nil
	}

	var (
		segs      []string
		cur       strings.Builder
		open      = true
		inBracket bool
	)
	flush := func() {
		segs = append(segs, cur.String())
		cur.Reset()
	}

	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c == '\\' && i+1 < len(id):
			i++
			cur.WriteByte(id[i])
			open = true
		case c == '.' && !inBracket:
			if open {
				flush()
			}
			open = true
		case c == '[' && !inBracket:
			if open && cur.Len() > 0 {
				flush()
			}
			cur.Reset()
			inBracket = true
		case c == ']' && inBracket:
			flush()
			inBracket = false
			open = false
		default:
			cur.WriteByte(c)
			open = true
		}
	}
	if open || inBracket {
		flush()
	}

	if len(segs) > 0 && segs[0] == Root {
		segs = segs[1:]
	}
	return segs
}

// Join builds the canonical ID for the given unescaped segments.
func Join(segs []string) string {
	id := Root
	for _, s := range segs {
		id = Identify(id, Key(s))
	}
	return id
}

// Parent returns the canonical ID of id's parent, or "" for the root.
func Parent(id string) string {
	segs := Parse(id)
	if len(segs) == 0 {
		return ""
	}
	return Join(segs[:len(segs)-1])
}

// Label returns the last unescaped segment of id, or [Root] for the root.
func Label(id string) string {
	segs := Parse(id)
	if len(segs) == 0 {
		return Root
	}
	return segs[len(segs)-1]
}

var escaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`, `[`, `\[`, `]`, `\]`)

func escape(s string) string {
	if !strings.ContainsAny(s, `\.[]`) {
		return s
	}
	return escaper.Replace(s)
}
