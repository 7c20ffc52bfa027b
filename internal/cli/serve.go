package cli

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/podlens/internal/server"
	"github.com/matzehuels/podlens/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen  string
		timeout time.Duration
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve pod lookups, repository lookups and README parsing over HTTP.
Prometheus metrics are exposed at /metrics.`,
		Example: `  podlens serve
  podlens serve --listen 127.0.0.1:9000
  PODLENS_CACHE_BACKEND=redis PODLENS_REDIS_ADDR=localhost:6379 podlens serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks := observability.NewPrometheusHooks(reg)
			observability.SetParseHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			ctx := cmd.Context()
			svc, cleanup, err := c.newService(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			srv, err := server.New(svc, c.Logger, server.Config{
				Addr:           cfg.Server.Listen,
				RequestTimeout: timeout,
				Gatherer:       reg,
			})
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (overrides server.listen)")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the HTTP response cache")

	return cmd
}
