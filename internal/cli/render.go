package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/anchortile/pkg/io"
	"github.com/matzehuels/anchortile/pkg/pipeline"
	"github.com/matzehuels/anchortile/pkg/render"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	formats string
	outDir  string
	noCache bool
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{formats: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Redraw the figure for an output document",
		Long: `Read an output document written by 'anchortile tile' and draw its
anchors, coverage circles and overlap heatmap again, for example in another
format.`,
		Example: `  anchortile render config_20240501_120000.json --format svg,pdf`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := c.runRender(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			printSuccess("Rendered %d files", len(files))
			for _, f := range files {
				printFile(f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "plot formats: png, svg, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "output directory (default: the document's directory)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) ([]string, error) {
	formats, err := render.ParseFormats(opts.formats)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		formats = []string{pipeline.DefaultFormat}
	}
	loaded, err := pkgio.ImportDocument(path)
	if err != nil {
		return nil, err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	region := loaded.Config.Region()
	grid, _, err := runner.Analyze(ctx, loaded.Anchors, region, loaded.Config.Radius)
	if err != nil {
		return nil, err
	}
	artifacts, err := runner.Render(ctx, render.Scene{
		Region:  region,
		Radius:  loaded.Config.Radius,
		Anchors: loaded.Anchors,
		Grid:    grid,
	}, formats)
	if err != nil {
		return nil, err
	}

	outDir := opts.outDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := pkgio.RunPaths(outDir, time.Now())
	files := make([]string, 0, len(formats))
	for _, f := range formats {
		p := paths.Plot(f)
		if err := os.WriteFile(p, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write plot: %w", err)
		}
		files = append(files, p)
	}
	return files, nil
}
