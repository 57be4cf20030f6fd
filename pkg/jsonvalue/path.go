package jsonvalue

import "github.com/matzehuels/jray/pkg/errors"

// Lookup walks segs from v and returns the value found at the end.
// An empty path resolves to v itself.
func (v Value) Lookup(segs []string) (Value, bool) {
	cur := v
	for _, seg := range segs {
		next, ok := cur.Child(seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// With returns a copy of v whose child at seg is replaced by child.
// The child must already exist; With never inserts members or elements.
func (v Value) With(seg string, child Value) (Value, bool) {
	switch v.kind {
	case KindObject:
		for i, m := range v.members {
			if m.Key == seg {
				out := v
				out.members = append([]Member(nil), v.members...)
				out.members[i].Value = child
				return out, true
			}
		}
	case KindArray:
		i, ok := parseIndex(seg)
		if !ok || i >= len(v.elems) {
			return Value{}, false
		}
		out := v
		out.elems = append([]Value(nil), v.elems...)
		out.elems[i] = child
		return out, true
	}
	return Value{}, false
}

// SetPath returns a copy of v with the value at segs replaced by nv.
// Only the containers along the path are copied. Returns a PATH_NOT_FOUND
// error if any segment does not resolve; an empty path replaces the root.
func (v Value) SetPath(segs []string, nv Value) (Value, error) {
	if len(segs) == 0 {
		return nv, nil
	}
	child, ok := v.Child(segs[0])
	if !ok {
		return Value{}, errors.New(errors.ErrCodePathNotFound, "segment %q not found", segs[0])
	}
	updated, err := child.SetPath(segs[1:], nv)
	if err != nil {
		return Value{}, err
	}
	out, _ := v.With(segs[0], updated)
	return out, nil
}
