package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/threadmap/internal/server"
	"github.com/matzehuels/threadmap/pkg/config"
	"github.com/matzehuels/threadmap/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout HTTP API",
		Long: `Serve the layout HTTP API.

Clients post whole graph snapshots to /v1/layout, /v1/probe, /v1/inspect and
/v1/render. Prometheus metrics are exposed at /metrics. The server shuts down
gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), metrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config, else "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics at /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, metrics bool) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := []server.Option{server.WithParams(c.Config.Layout)}
	if metrics {
		opts = append(opts, server.WithMetrics(c.metricsHandler()))
	}

	printInfo("Serving on %s", c.Config.Server.Addr)
	return server.New(runner, c.Config.Server, c.Logger, opts...).ListenAndServe(ctx)
}

// metricsHandler registers the threadmap collectors plus the Go runtime and
// process collectors, and installs them as the observability hooks.
func (c *CLI) metricsHandler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewPrometheus(reg)
	observability.SetPipelineHooks(prom)
	observability.SetCacheHooks(prom)
	observability.SetHTTPHooks(prom)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
