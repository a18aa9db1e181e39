package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ptml-lang/ptml/internal/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Dump the token stream of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, name, err := readTemplate(args[0])
		if err != nil {
			return err
		}

		l := lexer.New(src)
		l.SetFilename(name)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, tok := range l.Tokenize() {
			fmt.Fprintf(w, "%s\t%s\t%q\n", tok.Span, tok.Type, tok.Literal)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
