package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpgo/financial-freedom/internal/metrics"
	"github.com/rpgo/financial-freedom/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the projection API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.settings.Server.Addr = addr
			}
			metrics.InitRegistry()
			srv := server.New(a.settings, a.log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.log.Info("Shutting down projection API")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
