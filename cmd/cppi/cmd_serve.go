package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/cppi/internal/metrics"
	"github.com/aristath/cppi/internal/modules/cppi"
	"github.com/aristath/cppi/internal/modules/performance"
	"github.com/aristath/cppi/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator over HTTP",
		Long: `Start the HTTP API. POST /api/cppi/simulate runs the strategy over posted
return series using the configured parameters as defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Port
			}
			return a.serve(cmd.Context(), port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (default $CPPI_PORT)")
	return cmd
}

func (a *app) serve(ctx context.Context, port int) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()
	srv := server.New(server.Config{
		Log:       a.log,
		Port:      port,
		DevMode:   a.cfg.DevMode,
		Service:   cppi.NewService(performance.NewAnalyzer(), a.log).WithObserver(reg),
		Defaults:  a.cfg.Strategy,
		Metrics:   reg,
		RateLimit: a.cfg.RateLimit,
		RateBurst: a.cfg.RateBurst,

		MaxPathCount: a.cfg.MaxPathCount,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	a.log.Info().Msg("Server stopped")
	return nil
}
