package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/simulate"
	transport "github.com/xiaot623/gogo/panel/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine control API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			e := transport.NewEngineServer(a.svc, a.bus)
			return runServers(ctx, serverSpec{name: "engine", port: opts.cfg.HTTPPort, e: e})
		},
	}
}

func newBackendCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backend",
		Short: "Serve the demo backend over the simulated participants",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sim, err := simulate.New(ctx, domain.DefaultCatalog, "", opts.cfg.SimDelay)
			if err != nil {
				return err
			}

			e := transport.NewBackendServer(sim)
			return runServers(ctx, serverSpec{name: "backend", port: opts.cfg.BackendPort, e: e})
		},
	}
}

type serverSpec struct {
	name string
	port int
	e    *echo.Echo
}

// runServers starts every server and shuts them all down when ctx ends or
// one of them fails.
func runServers(ctx context.Context, servers ...serverSpec) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range servers {
		g.Go(func() error {
			addr := fmt.Sprintf(":%d", s.port)
			log.Info().Str("server", s.name).Str("addr", addr).Msg("server started")
			if err := s.e.Start(addr); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("%s server: %w", s.name, err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := s.e.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Str("server", s.name).Msg("forced shutdown")
			}
			log.Info().Str("server", s.name).Msg("server stopped")
			return nil
		})
	}

	return g.Wait()
}
