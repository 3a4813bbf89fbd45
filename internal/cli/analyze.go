package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchortile/pkg/coverage"
	pkgio "github.com/matzehuels/anchortile/pkg/io"
	"github.com/matzehuels/anchortile/pkg/pipeline"
)

func (c *CLI) analyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <document>",
		Short: "Recompute coverage for the anchors in an output document",
		Long: `Read an output document written by 'anchortile tile', rebuild the
coverage grid for its anchors and print how many 1m² cells each overlap
count covers.`,
		Example: `  anchortile analyze config_20240501_120000.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, loaded, err := c.runAnalyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess("Analyzed %d anchors", len(loaded.Anchors))
			printKeyValue("Region", fmt.Sprintf("%gm x %gm", loaded.Config.Length, loaded.Config.Width))
			printKeyValue("Radius", fmt.Sprintf("%gm", loaded.Config.Radius))
			printNewline()
			printCoverageTable(hist)
			return nil
		},
	}
}

func (c *CLI) runAnalyze(ctx context.Context, path string) (*coverage.Histogram, *pkgio.Loaded, error) {
	loaded, err := pkgio.ImportDocument(path)
	if err != nil {
		return nil, nil, err
	}
	runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
	_, hist, err := runner.Analyze(ctx, loaded.Anchors, loaded.Config.Region(), loaded.Config.Radius)
	if err != nil {
		return nil, nil, err
	}
	return hist, loaded, nil
}
