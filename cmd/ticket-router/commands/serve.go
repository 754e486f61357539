// ABOUTME: Serve command runs the HTTP dispatch API
// ABOUTME: Exposes dispatch, routes, health and Prometheus metrics; optionally publishes to NATS
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/harper/ticket-router/internal/channel"
	"github.com/harper/ticket-router/internal/httpapi"
	"github.com/harper/ticket-router/internal/metrics"
	"github.com/harper/ticket-router/internal/pipeline"
	"github.com/harper/ticket-router/internal/responder"
)

var (
	serveAddr   string
	serveRoutes string
	serveNATS   string
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP dispatch API",
		Long: `Run an HTTP server that routes tickets.

Endpoints:
  POST /v1/dispatch   {"text": "..."} routes one ticket
  GET  /v1/routes     the active route table
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics

With --nats (or ROUTER_NATS_URL) tickets are published as JSON on
<prefix>.<route> subjects instead of being answered in-process.`,
		Args: cobra.NoArgs,
		RunE: runServe,
		Example: `  # Serve on the default address (:8080)
  ticket-router serve

  # Publish routed tickets to NATS
  ticket-router serve --nats nats://localhost:4222`,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default ROUTER_HTTP_ADDR or :8080)")
	cmd.Flags().StringVar(&serveRoutes, "routes", "", "Route table YAML file")
	cmd.Flags().StringVar(&serveNATS, "nats", "", "NATS server URL (default ROUTER_NATS_URL)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(serveRoutes, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = env.Config.HTTPAddr
	}
	natsURL := serveNATS
	if natsURL == "" {
		natsURL = env.Config.NATSURL
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := env.PipelineOptions(m, responder.NewWriterSink(cmd.OutOrStdout()))
	if natsURL != "" {
		nc, err := channel.Connect(natsURL)
		if err != nil {
			return err
		}
		defer nc.Close()
		opts.Publisher = nc
		env.Logger.Info("publishing routed tickets to NATS", "url", natsURL, "prefix", env.Config.NATSPrefix)
	}

	p, err := pipeline.Build(env.Table, env.Classifier(), opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := httpapi.NewServer(p.Dispatcher, env.Table, reg, env.Logger)
	if err := server.Run(ctx, addr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
