package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchortile/internal/api"
	"github.com/matzehuels/anchortile/pkg/cache"
	"github.com/matzehuels/anchortile/pkg/pipeline"
)

// apiKeyPrefix separates API cache entries from CLI entries in a shared
// backend.
const apiKeyPrefix = "api:"

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	redisURL string
	noCache  bool
	maxCells int
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080", maxCells: api.DefaultMaxCells}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve tiling runs over HTTP.

  POST /v1/tile      place, analyze and render a configuration
  POST /v1/coverage  analyze coverage for a set of anchors
  GET  /healthz      liveness check
  GET  /version      build information

Placements and plots are cached in Redis when --redis-url is set, otherwise
in the local cache directory.`,
		Example: `  anchortile serve --addr :9000 --redis-url redis://localhost:6379/0`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "Redis URL for the shared cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.maxCells, "max-cells", opts.maxCells, "largest region per request, in 1m² cells")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	cc, err := serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), apiKeyPrefix), logger)
	defer runner.Close()

	return api.NewServer(runner, logger, api.WithMaxCells(opts.maxCells)).ListenAndServe(ctx, opts.addr)
}

func serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.redisURL != "" && !opts.noCache {
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return newCache(opts.noCache)
}
