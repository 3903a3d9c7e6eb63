package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/assistant"
	"github.com/hrygo/mailmind/plugin/ai/metrics"
	"github.com/hrygo/mailmind/server"
)

func serveCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("mode", "dev", `Mode of server, can be "prod" or "dev"`)
	flags.String("addr", "", "Address of server")
	flags.Int("port", 8081, "Port of server")
	flags.Float64("rate-limit", 10, "Task requests per second per client")
	flags.Int("rate-burst", 20, "Task request burst per client")
	for _, name := range []string{"mode", "addr", "port", "rate-limit", "rate-burst"} {
		_ = c.v.BindPFlag(name, flags.Lookup(name))
	}
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	p, err := c.profile()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsService, err := metrics.NewService(metrics.Config{Registerer: reg})
	if err != nil {
		return errors.Wrap(err, "failed to create metrics service")
	}
	defer metricsService.Close()

	stack, err := assistant.NewStack(ctx, ai.NewConfigFromProfile(p), metricsService)
	if err != nil {
		return err
	}
	logAvailability(stack)

	return server.NewServer(p, stack, metricsService, reg).Start(ctx)
}
