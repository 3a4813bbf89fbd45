package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchortile/pkg/config"
	"github.com/matzehuels/anchortile/pkg/errors"
	pkgio "github.com/matzehuels/anchortile/pkg/io"
	"github.com/matzehuels/anchortile/pkg/pipeline"
	"github.com/matzehuels/anchortile/pkg/render"
	"github.com/matzehuels/anchortile/pkg/store"
)

// defaultTemplate is looked up next to the input when --template is unset.
const defaultTemplate = "config.json"

// tileOpts holds the flags of the tile command.
type tileOpts struct {
	seed     uint64
	formats  string
	noCache  bool
	refresh  bool
	outDir   string
	template string

	mongoURI        string
	mongoDatabase   string
	mongoCollection string
}

// tileOutput lists the files a tile run wrote.
type tileOutput struct {
	Paths    pkgio.Paths
	Plots    []string
	Result   *pipeline.Result
	Document map[string]any
}

func (c *CLI) tileCommand() *cobra.Command {
	opts := tileOpts{formats: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "tile <config>",
		Short: "Place anchors for a configuration",
		Long: `Place anchors over the region described by a configuration file
(JSON, YAML or TOML), analyze the resulting coverage and write three files
sharing a timestamp:

  plot_<stamp>.<format>  the figure (one per --format)
  config_<stamp>.json    the template merged with anchors and run metadata
  config_<stamp>.log     the placement log and coverage summary`,
		Example: `  anchortile tile site.yaml
  anchortile tile site.json --seed 42 --format png,svg
  anchortile tile site.toml --out-dir runs/ --template device.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.runTile(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			printTileSummary(out)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (default: config seed, else random)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "plot formats: png, svg, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and recompute")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "output directory (default: the config's directory)")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "JSON template to merge anchors into (default: config.json beside the input)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "also store the output document in MongoDB")
	cmd.Flags().StringVar(&opts.mongoDatabase, "mongo-db", store.DefaultDatabase, "MongoDB database")
	cmd.Flags().StringVar(&opts.mongoCollection, "mongo-collection", store.DefaultCollection, "MongoDB collection")

	return cmd
}

func (c *CLI) runTile(ctx context.Context, path string, opts tileOpts) (*tileOutput, error) {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	formats, err := render.ParseFormats(opts.formats)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		formats = []string{pipeline.DefaultFormat}
	}
	tmpl, err := loadTemplate(path, opts.template)
	if err != nil {
		return nil, err
	}

	outDir := opts.outDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	files, err := store.NewFileStore(outDir)
	if err != nil {
		return nil, err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Placing anchors...")
	spinner.Start()
	result, err := runner.Execute(ctx, pipeline.Options{
		Config:  cfg,
		Seed:    opts.seed,
		Formats: formats,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if err != nil {
		spinner.StopWithError(placementFailure(err))
		return nil, err
	}
	spinner.Stop()

	prog := newProgress(logger)
	paths := pkgio.RunPaths(outDir, time.Now())
	out := &tileOutput{Paths: paths, Result: result}
	for _, f := range formats {
		p := paths.Plot(f)
		if err := os.WriteFile(p, result.Artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write plot: %w", err)
		}
		out.Plots = append(out.Plots, p)
	}
	if err := pkgio.ExportLog(paths.Log, result.Placement.Log, result.Histogram); err != nil {
		return nil, err
	}

	out.Document = pkgio.NewDocument(tmpl, cfg, result.Placement.Anchors, result.Coverage, pkgio.RunInfo{
		PlotFile: filepath.Base(out.Plots[0]),
		LogFile:  filepath.Base(paths.Log),
		RunID:    result.RunID,
		Seed:     result.Seed,
	})
	name := filepath.Base(paths.Document)
	if err := files.Save(ctx, name, out.Document); err != nil {
		return nil, err
	}
	if opts.mongoURI != "" {
		if err := saveMongo(ctx, opts, name, out.Document); err != nil {
			return nil, err
		}
		logger.Info("stored document", "collection", opts.mongoCollection, "name", name)
	}
	prog.done(fmt.Sprintf("Wrote %d files", len(out.Plots)+2))

	return out, nil
}

// loadTemplate resolves the template for a run of configPath. An explicit
// path must exist. The default config.json is optional and is ignored when it
// is the input itself.
func loadTemplate(configPath, explicit string) (map[string]any, error) {
	if explicit != "" {
		return pkgio.ImportTemplate(explicit, false)
	}
	def := filepath.Join(filepath.Dir(configPath), defaultTemplate)
	if samePath(def, configPath) {
		return map[string]any{}, nil
	}
	return pkgio.ImportTemplate(def, true)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func saveMongo(ctx context.Context, opts tileOpts, name string, doc map[string]any) error {
	ms, err := store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDatabase, opts.mongoCollection)
	if err != nil {
		return err
	}
	defer ms.Close(ctx)
	return ms.Save(ctx, name, doc)
}

// placementFailure names why a run stopped. Configuration and region errors
// are shown with their message, anything else as a generic failure.
func placementFailure(err error) string {
	if errors.IsFatal(err) {
		return "Invalid configuration: " + errors.UserMessage(err)
	}
	return "Placement failed"
}

// formatLoopCounts renders per-pass anchor counts as "1: 6 · 2: 2 · ...".
func formatLoopCounts(counts map[int]int) string {
	loops := make([]int, 0, len(counts))
	for loop := range counts {
		loops = append(loops, loop)
	}
	sort.Ints(loops)
	parts := make([]string, len(loops))
	for i, loop := range loops {
		parts[i] = fmt.Sprintf("%d: %d", loop, counts[loop])
	}
	return strings.Join(parts, " · ")
}

// countShortfalls counts candidates whose random retries all failed.
func countShortfalls(messages []string) int {
	n := 0
	for _, m := range messages {
		if strings.HasPrefix(m, "Failed to find valid random position") {
			n++
		}
	}
	return n
}

func printTileSummary(out *tileOutput) {
	res := out.Result
	printSuccess("Placed anchors")
	printRunStats(res.Stats.Anchors, res.Stats.GridPoints, res.CacheInfo.PlaceHit)
	printKeyValue("Seed", fmt.Sprintf("%d", res.Seed))
	printKeyValue("Run", res.RunID)
	printKeyValue("Per pass", formatLoopCounts(res.Placement.CountByLoop()))
	if n := countShortfalls(res.Placement.Log); n > 0 {
		printWarning("%d conflicting grid points found no free position", n)
	}
	printNewline()
	printCoverageTable(res.Histogram)
	printNewline()
	for _, p := range out.Plots {
		printFile(p)
	}
	printFile(out.Paths.Document)
	printFile(out.Paths.Log)
	printNewline()
	printNextStep("Re-analyze later", "anchortile analyze "+out.Paths.Document)
}
