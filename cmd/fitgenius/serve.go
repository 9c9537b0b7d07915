package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/metalagman/fitgenius/internal/api"
	"github.com/metalagman/fitgenius/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve flows over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cfg
			if addr != "" {
				c.Server.Addr = addr
			}
			return serve(cmd.Context(), c)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.addr)")
	return cmd
}

func serve(ctx context.Context, c config.Config) error {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(c),
		fx.Provide(
			provideRuntime,
			provideAPI,
			provideHTTPServer,
		),
		fx.Invoke(func(*http.Server) {}),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, fx.DefaultTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case sig := <-app.Done():
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	stopCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer stop()
	return app.Stop(stopCtx)
}

func provideRuntime(lc fx.Lifecycle, c config.Config) (*runtime, error) {
	rt, err := newRuntime(context.Background(), c)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return rt.Close()
		},
	})
	return rt, nil
}

func provideAPI(rt *runtime) (*api.Server, error) {
	return api.NewServer(rt.catalog, rt.history())
}

func provideHTTPServer(lc fx.Lifecycle, c config.Config, s *api.Server) *http.Server {
	srv := &http.Server{
		Addr:              c.Server.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			log.Info().Str("addr", ln.Addr().String()).Msg("http api listening")
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("http server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return srv
}
