package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/wallet-resources/internal/adapters/httpapi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pollers and serve markets, quotes and accounts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = app.config.Serve.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, app, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: serve.addr)")

	return cmd
}

func runServer(ctx context.Context, app *app, addr string) error {
	if err := app.service.Start(ctx); err != nil {
		return fmt.Errorf("start pollers: %w", err)
	}
	defer app.service.Stop()

	server := httpapi.New(addr, app.service, app.logger.Named("http"))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.ListenAndServe)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if app.redis != nil {
		g.Go(func() error {
			for key := range app.redis.Updates(ctx) {
				app.logger.Debug("account cache updated", zap.String("key", key))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	app.logger.Info("server stopped")
	return nil
}
