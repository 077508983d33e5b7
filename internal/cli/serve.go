package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mnrl/internal/server"
	"github.com/matzehuels/mnrl/pkg/cache"
	"github.com/matzehuels/mnrl/pkg/observability"
)

// serveCommand creates the serve command for the HTTP validation service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP validation service",
		Long: `Run the HTTP validation service.

Endpoints:
  POST /v1/validate   validate a document and return a summary
  POST /v1/normalize  return the canonical form of a document
  POST /v1/render     return a node-link diagram (?format=dot|svg|png)
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics

The service uses the cache configured in the [cache] section; point it at
Redis to share results between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Serve.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache, noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache, noMetrics bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prefix := "serve:"
	if ns := c.Config.Cache.Namespace; ns != "" {
		prefix = ns + ":" + prefix
	}
	runner.Keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix)

	cfg := server.Config{
		Addr:         addr,
		MaxBodyBytes: c.Config.Serve.MaxBodyBytes,
		ReadTimeout:  c.Config.Serve.ReadTimeout,
		WriteTimeout: c.Config.Serve.WriteTimeout,
	}
	if !noMetrics {
		m := observability.NewMetrics()
		observability.Register(m)
		defer observability.Reset()
		cfg.Metrics = m.Handler()
	}

	c.Logger.Info("starting validation service",
		"addr", addr,
		"cache", c.Config.Cache.Backend,
		"metrics", !noMetrics)
	return server.New(runner, c.Logger, cfg).Run(ctx)
}
