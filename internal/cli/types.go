package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jray/pkg/typegen"
)

// typesCommand creates the types command.
func (c *CLI) typesCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "types [file.json|-]",
		Short: "Generate TypeScript declarations for a JSON document",
		Long: `Generate TypeScript declarations for a JSON document.

A root object becomes "interface RootObject"; a root array becomes
"interface RootItem" plus "type Root = RootItem[]". Nested objects get
interfaces named after their key.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			decls, err := typegen.GenerateText(text)
			if err != nil {
				return err
			}
			if err := writeOutput(output, cmd.OutOrStdout(), []byte(decls)); err != nil {
				return err
			}
			if output != "" && output != stdio {
				out := newPrinter(cmd.ErrOrStderr())
				out.success("Types written")
				out.file(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
