package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/export"
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/session"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formats   string
		output    string
		direction string
		collapse  []string
		detailed  bool
	)

	cmd := &cobra.Command{
		Use:   "export [file.json|-]",
		Short: "Render the diagram of a JSON document",
		Long: `Render the diagram of a JSON document as DOT, SVG, PNG or JSON.

Subtrees named with --collapse are hidden from the output, the same way
collapsing a node hides them on screen. Several formats can be written at
once; -o then names the output without extension.`,
		Example: `  jray export config.json -f svg,png
  jray export config.json -f svg --collapse root.dependencies -d TB`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := parseFormats(formats)
			if err != nil {
				return err
			}
			text, err := readSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			snap, err := c.exportSnapshot(cmd.Context(), text, direction, collapse)
			if err != nil {
				return err
			}
			return c.runExport(cmd, args[0], snap, fs, output, export.Options{Detailed: detailed})
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "svg", "output formats, comma separated: dot, svg, png, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>, stdout for - with one format)")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "flow direction: LR, TB (default from config)")
	cmd.Flags().StringSliceVar(&collapse, "collapse", nil, "node IDs whose subtrees are hidden")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show values under labels")
	return cmd
}

// exportSnapshot builds the diagram through a session so that collapsing
// follows the same rules as the interactive surfaces.
func (c *CLI) exportSnapshot(ctx context.Context, text, direction string, collapse []string) (graph.Snapshot, error) {
	dir := c.Config.FlowDirection()
	if direction != "" {
		d, err := graph.ParseDirection(direction)
		if err != nil {
			return graph.Snapshot{}, err
		}
		dir = d
	}

	sess := session.New(session.WithLogger(c.Logger), session.WithDirection(dir))
	if err := sess.SetText(ctx, text); err != nil && !errors.Is(err, errors.ErrCodeOracleFailure) {
		return graph.Snapshot{}, err
	}
	for _, id := range collapse {
		if _, err := sess.Toggle(ctx, id); err != nil {
			return graph.Snapshot{}, fmt.Errorf("collapse %s: %w", id, err)
		}
	}
	return sess.Snapshot().Snapshot, nil
}

func (c *CLI) runExport(cmd *cobra.Command, input string, snap graph.Snapshot, formats []export.Format, output string, opts export.Options) error {
	ctx := cmd.Context()
	out := newPrinter(cmd.ErrOrStderr())
	toStdout := len(formats) == 1 && (output == stdio || (output == "" && input == stdio))

	for _, f := range formats {
		var buf bytes.Buffer
		spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %s...", f))
		spin.Start()
		err := export.Write(ctx, snap, f, opts, &buf)
		spin.Stop()
		if err != nil {
			out.fail("Export to %s failed", f)
			return err
		}

		if toStdout {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		path := exportPath(input, output, f, len(formats) > 1)
		if err := writeOutput(path, cmd.OutOrStdout(), buf.Bytes()); err != nil {
			return err
		}
		out.success("Exported %s", strings.ToUpper(string(f)))
		out.file(path)
	}
	return nil
}

// exportPath names the file for format f. With several formats output is a
// base name and each format adds its extension.
func exportPath(input, output string, f export.Format, multi bool) string {
	switch {
	case output == "":
		return derivedPath(input, f.Ext())
	case multi:
		return strings.TrimSuffix(output, filepath.Ext(output)) + f.Ext()
	}
	return output
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) ([]export.Format, error) {
	if strings.TrimSpace(s) == "" {
		return []export.Format{export.FormatSVG}, nil
	}
	var out []export.Format
	seen := make(map[export.Format]bool)
	for _, part := range strings.Split(s, ",") {
		f, err := export.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}
