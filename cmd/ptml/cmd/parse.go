package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ptml-lang/ptml/internal/ast"
	"github.com/ptml-lang/ptml/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Dump the parsed tree of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		src, name, err := readTemplate(args[0])
		if err != nil {
			return err
		}

		nodes, err := parser.Parse(src, name, parser.WithGuard(s.policy))
		if err != nil {
			s.report(src, name, err)
			return errReported
		}
		return ast.Fprint(cmd.OutOrStdout(), nodes)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
