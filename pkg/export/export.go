package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/graph"
)

// Format names an export output.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatDOT, FormatSVG, FormatPNG, FormatJSON}

// ParseFormat returns the format named s (case-insensitive).
// Returns INVALID_FORMAT for unknown names.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q (want dot, svg, png or json)", s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Options configures DOT generation.
type Options struct {
	// Detailed adds the display value under each label.
	// When false, only the label is shown.
	Detailed bool
}

// ToDOT converts the visible part of s to Graphviz DOT.
func ToDOT(s graph.Snapshot, opts Options) string {
	dir := s.Direction
	if !dir.Valid() {
		dir = graph.DefaultDirection
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#64748b\"];\n")
	buf.WriteString("  ranksep=0.7;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	visible := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.Hidden {
			continue
		}
		visible[n.ID] = true
		fmt.Fprintf(&buf, "  %s [%s];\n", dotID(n.ID), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		if e.Hidden || !visible[e.Source] || !visible[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", dotID(e.Source), dotID(e.Target))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// DOT strings only know \" and \\ as escapes; everything else is taken
// verbatim. In labels \n is a centred line break.
var (
	dotIDEscaper    = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	dotLabelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
)

func dotID(id string) string { return `"` + dotIDEscaper.Replace(id) + `"` }

func dotLabel(s string) string { return `"` + dotLabelEscaper.Replace(s) + `"` }

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed || n.Value == "" {
		return n.Label
	}
	return n.Label + "\n" + n.Value
}

func fmtAttrs(n graph.Node, detailed bool) []string {
	attrs := []string{"label=" + dotLabel(fmtLabel(n, detailed))}
	switch n.Kind {
	case graph.KindObject:
		attrs = append(attrs, "fillcolor=\"#e0f2fe\"")
	case graph.KindArray:
		attrs = append(attrs, "fillcolor=\"#ede9fe\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, whose width and
// height are in points, with one sized in user units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// Write exports s in format f to w.
func Write(ctx context.Context, s graph.Snapshot, f Format, opts Options, w io.Writer) error {
	if f == FormatJSON {
		return graph.WriteSnapshot(s, w)
	}

	dot := ToDOT(s, opts)
	var (
		out []byte
		err error
	)
	switch f {
	case FormatDOT:
		out = []byte(dot)
	case FormatSVG:
		out, err = RenderSVG(ctx, dot)
	case FormatPNG:
		out, err = RenderPNG(ctx, dot)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q", f)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
