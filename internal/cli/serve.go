package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetgrid/internal/server"
	"github.com/matzehuels/sheetgrid/pkg/cache"
	"github.com/matzehuels/sheetgrid/pkg/pipeline"
)

// defaultAddr is the listen address when neither flag nor config sets one.
const defaultAddr = ":8080"

// serveParams holds the serve command's flags.
type serveParams struct {
	addr    string
	redis   string
	root    string
	noCache bool
}

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var p serveParams

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout and render over HTTP",
		Long: `Serve layout and render over HTTP.

Routes:
  POST /layout           compute a layout
  POST /render/{format}  render text, svg, or json
  GET  /healthz          liveness probe

With --redis the server caches in Redis so that several instances share
results; otherwise it uses the local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fl := cmd.Flags()
			if !fl.Changed("addr") && c.Config.Serve.Addr != "" {
				p.addr = c.Config.Serve.Addr
			}
			if !fl.Changed("redis") {
				p.redis = c.Config.Serve.Redis
			}
			return c.runServe(cmd.Context(), p)
		},
	}

	cmd.Flags().StringVar(&p.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&p.redis, "redis", "", "Redis URL for a shared cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&p.root, "root", "", "directory for requests that name a table by path")
	cmd.Flags().BoolVar(&p.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, p serveParams) error {
	runner, err := c.newServeRunner(ctx, p)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var opts []server.Option
	if p.root != "" {
		opts = append(opts, server.WithRoot(p.root))
	}
	srv := server.New(runner, c.Logger, opts...)
	return srv.ListenAndServe(ctx, p.addr)
}

// newServeRunner picks the server cache: Redis when a URL is given,
// otherwise the local file cache. Keys are scoped so that a Redis shared
// with other tools stays apart.
func (c *CLI) newServeRunner(ctx context.Context, p serveParams) (*pipeline.Runner, error) {
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "serve:")
	if p.redis != "" && !p.noCache {
		rc, err := cache.NewRedisCache(ctx, p.redis)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis cache", "url", p.redis)
		return pipeline.NewRunner(rc, keyer, c.Logger), nil
	}
	fc, err := newCache(p.noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(fc, keyer, c.Logger), nil
}
