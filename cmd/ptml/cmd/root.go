package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ptml-lang/ptml/internal/config"
	"github.com/ptml-lang/ptml/internal/diag"
	"github.com/ptml-lang/ptml/internal/guard"
	"github.com/ptml-lang/ptml/internal/parser"
)

var (
	cfgFile     string
	guardPolicy string
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "ptml",
	Short: "PTML template compiler front end",
	Long: `ptml tokenizes and parses PTML templates: markup with interpolated
host-language expressions and @-directives for control flow.

Commands:
  check    - parse templates and report the first error per file
  tokens   - dump the token stream of a template
  parse    - dump the parsed tree of a template`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errReported signals a failure whose diagnostic is already on screen.
var errReported = errors.New("")

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ptml.toml)")
	rootCmd.PersistentFlags().StringVar(&guardPolicy, "guard-policy", "", "YAML policy file for the host-statement guard")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
}

// settings is everything the subcommands need after flag and config
// resolution. Flags win over the config file.
type settings struct {
	policy    *guard.Policy
	formatter *diag.Formatter
}

func loadSettings() (*settings, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	policyPath := cfg.GuardPolicy
	if guardPolicy != "" {
		policyPath = guardPolicy
	}
	policy := guard.Default()
	if policyPath != "" {
		policy, err = guard.Load(policyPath)
		if err != nil {
			return nil, err
		}
	}

	var opts []diag.FormatterOption
	if noColor || !cfg.Color {
		opts = append(opts, diag.WithNoColor())
	}

	return &settings{
		policy:    policy,
		formatter: diag.NewFormatter(opts...),
	}, nil
}

// readTemplate reads a template file, or stdin when path is "-".
func readTemplate(path string) (src, name string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", err
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), path, nil
}

// report renders a parse failure through the diagnostic formatter.
func (s *settings) report(src, name string, err error) {
	s.formatter.AddSource(name, src)
	if pe, ok := err.(*parser.ParseError); ok {
		s.formatter.Format(pe.ToDiagnostic())
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
}
