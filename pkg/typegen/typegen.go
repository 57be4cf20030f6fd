// Package typegen derives TypeScript declarations from a JSON document.
//
// A root object becomes interface RootObject. A root array becomes
// interface RootItem, shaped after its first element, plus
// "type Root = RootItem[]". Nested objects, and arrays whose first element
// is an object, get their own interface named after the member key in
// PascalCase. The first interface generated under a name wins; later
// shapes with the same name reuse it.
//
//	src, err := typegen.GenerateText(`{"user": {"id": 1}}`)
//	// export interface RootObject {
//	//   user: User;
//	// }
//	//
//	// export interface User {
//	//   id: number;
//	// }
package typegen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/matzehuels/jray/pkg/jsonvalue"
)

const (
	RootObject = "RootObject"
	RootItem   = "RootItem"
	RootAlias  = "Root"
)

// GenerateText parses text and generates declarations for it.
// Returns INVALID_JSON when text does not parse.
func GenerateText(text string) (string, error) {
	v, err := jsonvalue.Parse(text)
	if err != nil {
		return "", err
	}
	return Generate(v), nil
}

// Generate returns TypeScript declarations describing v, root first,
// separated by blank lines and ending in a newline.
func Generate(v jsonvalue.Value) string {
	g := &generator{seen: make(map[string]bool)}

	switch v.Kind() {
	case jsonvalue.KindObject:
		g.iface(RootObject, v)
	case jsonvalue.KindArray:
		first, ok := v.At(0)
		switch {
		case !ok:
			g.iface(RootItem, jsonvalue.Object())
			g.alias(RootItem + "[]")
		case first.Kind() == jsonvalue.KindObject:
			g.iface(RootItem, first)
			g.alias(RootItem + "[]")
		default:
			g.alias(g.arrayType(RootItem, v))
		}
	default:
		g.alias(g.typeOf(RootAlias, v))
	}
	return strings.Join(g.decls, "\n")
}

type generator struct {
	seen  map[string]bool
	decls []string
}

// iface declares interface name for object v, unless one already exists.
// The slot is reserved before members are walked so that an interface is
// emitted ahead of the interfaces it references.
func (g *generator) iface(name string, v jsonvalue.Value) string {
	if g.seen[name] {
		return name
	}
	g.seen[name] = true
	slot := len(g.decls)
	g.decls = append(g.decls, "")

	var b strings.Builder
	b.WriteString("export interface " + name + " {\n")
	for _, m := range v.Members() {
		b.WriteString("  " + propertyName(m.Key) + ": " + g.typeOf(m.Key, m.Value) + ";\n")
	}
	b.WriteString("}\n")
	g.decls[slot] = b.String()
	return name
}

func (g *generator) alias(typ string) {
	g.decls = append(g.decls, "export type "+RootAlias+" = "+typ+";\n")
}

func (g *generator) typeOf(key string, v jsonvalue.Value) string {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return "any | null"
	case jsonvalue.KindObject:
		return g.iface(TypeName(key), v)
	case jsonvalue.KindArray:
		return g.arrayType(key, v)
	}
	return scalarType(v.Kind())
}

func (g *generator) arrayType(key string, v jsonvalue.Value) string {
	first, ok := v.At(0)
	if !ok {
		return "any[]"
	}
	switch first.Kind() {
	case jsonvalue.KindNull:
		return "any[]"
	case jsonvalue.KindObject:
		return g.iface(TypeName(key), first) + "[]"
	case jsonvalue.KindArray:
		return g.arrayType(key, first) + "[]"
	}
	return scalarType(first.Kind()) + "[]"
}

func scalarType(k jsonvalue.Kind) string {
	switch k {
	case jsonvalue.KindBool:
		return "boolean"
	case jsonvalue.KindNumber:
		return "number"
	case jsonvalue.KindString:
		return "string"
	}
	return "any"
}

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// TypeName converts a member key to an interface name: "user_profile" and
// "user-profile" both become "UserProfile". Keys that do not start with a
// letter get a "T" prefix.
func TypeName(key string) string {
	name := strcase.ToCamel(key)
	name = strings.Map(func(r rune) rune {
		if r == '_' || r == '$' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return r
		}
		return -1
	}, name)
	if name == "" || !identRe.MatchString(name) || name[0] == '_' || name[0] == '$' {
		return "T" + name
	}
	return name
}

// propertyName quotes keys that are not valid identifiers.
func propertyName(key string) string {
	if identRe.MatchString(key) {
		return key
	}
	return strconv.Quote(key)
}
