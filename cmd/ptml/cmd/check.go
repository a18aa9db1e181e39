package cmd

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ptml-lang/ptml/internal/parser"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Parse templates and report the first error per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		type result struct {
			src  string
			name string
			err  error
		}

		// Files parse independently; each worker gets its own lexer and
		// parser instance.
		results := make([]result, len(args))
		sem := make(chan struct{}, runtime.GOMAXPROCS(0))
		var wg sync.WaitGroup
		for i, path := range args {
			wg.Add(1)
			go func(i int, path string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				src, name, err := readTemplate(path)
				if err != nil {
					results[i] = result{name: path, err: err}
					return
				}
				_, err = parser.Parse(src, name, parser.WithGuard(s.policy))
				results[i] = result{src: src, name: name, err: err}
			}(i, path)
		}
		wg.Wait()

		failed := 0
		for _, r := range results {
			if r.err == nil {
				continue
			}
			failed++
			s.report(r.src, r.name, r.err)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) ok\n", len(args))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
