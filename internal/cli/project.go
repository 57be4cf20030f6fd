package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/projection"
	"github.com/matzehuels/jray/pkg/visibility"
)

// projectCommand creates the project command, which prints the bare node
// and edge list of a document.
func (c *CLI) projectCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "project [file.json|-]",
		Short: "Project a JSON document into nodes and edges",
		Long: `Project a JSON document into nodes and edges.

Every value becomes one node identified by its path from the root
("root.config.retries"), and every non-root value gets one edge from its
parent. Positions are left at zero; use 'layout' to compute them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			nodes, edges, err := projection.ProjectText(text)
			if err != nil {
				return err
			}
			snap := graph.Snapshot{Nodes: nodes, Edges: edges, Direction: c.Config.FlowDirection()}
			return c.emitSnapshot(snap, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		direction string
		previous  string
		flags     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [file.json|-]",
		Short: "Compute node positions for a JSON document",
		Long: `Compute node positions for a JSON document.

The output is a snapshot (nodes, edges, direction) in JSON. Pass an earlier
snapshot with --previous to keep the positions and collapsed subtrees of
nodes that still exist; only new nodes are placed by the layout engine.

Layouts are cached according to the [cache] section of the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], cmd, layoutRun{
				output:    output,
				direction: direction,
				previous:  previous,
				flags:     flags,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, stdout for -)")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "flow direction: LR, TB (default from config)")
	cmd.Flags().StringVar(&previous, "previous", "", "earlier layout to continue from")
	flags.register(cmd)
	return cmd
}

type layoutRun struct {
	output    string
	direction string
	previous  string
	flags     layoutFlags
}

func (c *CLI) runLayout(ctx context.Context, input string, cmd *cobra.Command, run layoutRun) error {
	text, err := readSource(input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	nodes, edges, err := projection.ProjectText(text)
	if err != nil {
		return err
	}

	dir := c.Config.FlowDirection()
	if run.direction != "" {
		if dir, err = graph.ParseDirection(run.direction); err != nil {
			return err
		}
	}

	var (
		prevPos  map[string]graph.Position
		preserve bool
	)
	if run.previous != "" {
		prev, err := graph.ReadSnapshotFile(run.previous)
		if err != nil {
			return fmt.Errorf("load previous layout %s: %w", run.previous, err)
		}
		nodes, edges = visibility.Carry(prev.Nodes, nodes, edges)
		prevPos = graph.Positions(prev.Nodes)
		// A direction change invalidates every position.
		preserve = prev.Direction == dir
	}

	manager, closeCache, err := c.newLayoutManager(ctx, run.flags)
	if err != nil {
		return err
	}
	defer closeCache()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Laying out %d nodes...", len(nodes)))
	spin.Start()

	res, err := manager.Apply(ctx, nodes, edges, prevPos, dir, preserve)
	spin.Stop()
	if err != nil && !errors.Is(err, errors.ErrCodeOracleFailure) {
		return fmt.Errorf("compute layout: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("layout computed", "nodes", len(res.Nodes), "reused", res.Reused, "direction", dir)

	output := run.output
	if output == "" && input != stdio {
		output = derivedPath(input, ".layout.json")
	}
	snap := graph.Snapshot{Nodes: res.Nodes, Edges: edges, Direction: dir}
	if err := c.emitSnapshot(snap, output, cmd.OutOrStdout()); err != nil {
		return err
	}
	if output == "" || output == stdio {
		return nil
	}

	out := newPrinter(cmd.ErrOrStderr())
	out.success("Layout complete")
	out.file(output)
	notes := []string{string(dir), fmt.Sprintf("%d reused", res.Reused)}
	if len(res.Fallbacks) > 0 {
		notes = append(notes, StyleWarning.Render(fmt.Sprintf("%d fallback", len(res.Fallbacks))))
	}
	out.stats(len(res.Nodes), len(edges), notes...)
	out.nextStep("Render", "jray export "+input+" -f svg")
	return nil
}

// emitSnapshot writes snap as JSON to path, or to w for stdout.
func (c *CLI) emitSnapshot(snap graph.Snapshot, path string, w io.Writer) error {
	if path != "" && path != stdio {
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
		return graph.WriteSnapshotFile(snap, path)
	}
	var buf bytes.Buffer
	if err := graph.WriteSnapshot(snap, &buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
