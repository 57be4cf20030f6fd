package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jray/pkg/edit"
	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/jsonvalue"
)

// editCommand creates the edit command, the file-level counterpart of
// editing a node in the diagram.
func (c *CLI) editCommand() *cobra.Command {
	var (
		path    string
		value   string
		output  string
		inPlace bool
	)

	cmd := &cobra.Command{
		Use:   "edit [file.json|-] --path <node-id> --value <raw>",
		Short: "Write a value into a JSON document at a node path",
		Long: `Write a value into a JSON document at a node path.

The raw value is coerced to the type of the value it replaces: numbers must
parse as numbers, booleans become true only for "true" (any case), and
"null" writes null. Objects and arrays cannot be replaced. The document is
re-serialized with two-space indentation and its original key order.`,
		Example: `  jray edit config.json --path root.server.port --value 9090 -w
  jray edit config.json --path 'root.users[0].active' --value false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.ErrOrStderr())
			if inPlace && args[0] == stdio {
				return errors.New(errors.ErrCodeInvalidInput, "--write needs a file, not stdin")
			}
			text, err := readSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := errors.ValidateNodeID(path); err != nil {
				return err
			}

			res, err := edit.ApplyResult(text, path, value)
			if err != nil {
				return err
			}
			c.Logger.Debug("edit", "path", path, "prior", res.Prior.Display(), "value", res.Value.Display(), "changed", res.Changed)

			dest := output
			if inPlace {
				dest = args[0]
			}
			if !res.Changed && inPlace {
				out.info("%s already holds %s", path, res.Value.Display())
				return nil
			}
			data := res.Text
			if res.Changed {
				data += "\n"
			}
			if err := writeOutput(dest, cmd.OutOrStdout(), []byte(data)); err != nil {
				return err
			}
			if dest != "" && dest != stdio {
				out.success("Set %s to %s", StyleHighlight.Render(path), StyleValue.Render(res.Value.Display()))
				out.file(dest)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "node ID of the value to replace (e.g. root.config.retries)")
	cmd.Flags().StringVar(&value, "value", "", "raw replacement value")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "rewrite the input file")
	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("value")
	cmd.MarkFlagsMutuallyExclusive("output", "write")
	return cmd
}

// formatCommand creates the format command.
func (c *CLI) formatCommand() *cobra.Command {
	var (
		output  string
		inPlace bool
		check   bool
	)

	cmd := &cobra.Command{
		Use:   "format [file.json|-]",
		Short: "Prettify a JSON document",
		Long: `Prettify a JSON document with two-space indentation, keeping key order
and number spelling.

With --check nothing is written; the command fails when the document is
not already formatted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.ErrOrStderr())
			text, err := readSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			formatted, err := jsonvalue.Format(text)
			if err != nil {
				return err
			}
			formatted += "\n"

			switch {
			case check:
				if formatted != text {
					return fmt.Errorf("%s is not formatted", args[0])
				}
				out.success("%s is formatted", args[0])
				return nil
			case inPlace:
				if args[0] == stdio {
					return errors.New(errors.ErrCodeInvalidInput, "--write needs a file, not stdin")
				}
				if formatted == text {
					return nil
				}
				info, err := os.Stat(args[0])
				if err != nil {
					return err
				}
				if err := os.WriteFile(args[0], []byte(formatted), info.Mode().Perm()); err != nil {
					return fmt.Errorf("write %s: %w", args[0], err)
				}
				out.success("Formatted %s", args[0])
				return nil
			}
			return writeOutput(output, cmd.OutOrStdout(), []byte(formatted))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "rewrite the input file")
	cmd.Flags().BoolVar(&check, "check", false, "only report whether the file is formatted")
	cmd.MarkFlagsMutuallyExclusive("output", "write", "check")
	return cmd
}
