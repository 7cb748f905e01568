package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/1homsi/unusedjs/internal/analysis"
	"github.com/1homsi/unusedjs/internal/config"
)

// newExplainCommand builds the `explain <file>` diagnostic subcommand from
// §10.1: purely informational, never consulted by the reachability
// computation itself.
func newExplainCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <file>",
		Short: "Explain why a file is (or isn't) reachable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(*f, args[0])
		},
	}
	return cmd
}

func runExplain(f flags, target string) error {
	cwd := f.cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			exitCode = 1
			return err
		}
		cwd = wd
	}

	file, err := config.Load(f.configPath, cwd)
	if err != nil {
		exitCode = 1
		return err
	}

	opts := mergeConfig(f, file, cwd)
	opts.WithEdges = true

	if len(opts.Entry) == 0 {
		exitCode = 1
		return fmt.Errorf("--entry is required (or set \"entry\" in %s)", config.DefaultFileName)
	}

	result, err := analysis.Run(context.Background(), opts)
	if err != nil {
		exitCode = 1
		return err
	}

	abs := target
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cwd, target)
	}

	if !result.Collector.ProjectSet[abs] {
		fmt.Printf("%s does not match any project glob — it is not a candidate for \"unused\"\n", target)
		return nil
	}

	if result.Engine.Reachable[abs] {
		fmt.Printf("%s is reachable\n", target)
		for _, edge := range result.Engine.Edges {
			if edge.To == abs {
				fmt.Printf("  reached from %s\n", result.Collector.Rel(edge.From))
			}
		}
		return nil
	}

	fmt.Printf("%s is unused: no entry reaches it\n", target)
	return nil
}
