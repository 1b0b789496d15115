package cmd

import (
	"context"
	"os/signal"
	"syscall"

	srv "github.com/mohammad-safakhou/grocer/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCMD(opts *rootOptions) *cobra.Command {
	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			a.printDisabled(cmd.ErrOrStderr())

			addr := a.cfg.Server.Address
			if cmd.Flags().Changed("addr") {
				addr = serveAddr
			}
			s := srv.New(a.assistant, a.store, a.metrics, a.logger)
			errCh := make(chan error, 1)
			go func() { errCh <- s.Start(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				a.logger.Info("shutting down", zap.Duration("timeout", a.cfg.Server.ShutdownTimeout))
				return s.Shutdown(context.Background(), a.cfg.Server.ShutdownTimeout)
			}
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", ":10001", "listen address")
	return serve
}
