package cli

import (
	"context"
	"log/slog"
	"time"

	"shadow/internal/core/ports"
	"shadow/internal/shared/observability"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the "watch" subcommand.
func NewWatchCmd(global *globalOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the dependency graph current as files change",
		Long: "Watch builds the dependency graph and rebuilds it after source files change. With a " +
			"metrics address it also serves /metrics and /health until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, global, func(ctx context.Context, rt *runtime) error {
				addr := rt.cfg.Observability.MetricsAddr
				if cmd.Flags().Changed("metrics-addr") {
					addr = metricsAddr
				}
				if addr != "" {
					server := observability.NewServer(addr, rt.app.Health)
					if err := server.Start(ctx); err != nil {
						return err
					}
					slog.Info("observability server listening", "addr", server.Addr())
					defer func() {
						stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
						defer cancel()
						if err := server.Stop(stopCtx); err != nil {
							slog.Warn("failed to stop observability server", "error", err)
						}
					}()
				}

				return rt.app.Watch(ctx, func(result ports.ScanResult, changed []string) {
					slog.Debug("rebuild triggered", "count", len(changed))
					if err := rt.printer.Scan(result); err != nil {
						slog.Warn("failed to print rebuild summary", "error", err)
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address, overrides observability.metrics_addr")
	return cmd
}
