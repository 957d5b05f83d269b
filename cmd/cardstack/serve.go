package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cardstack/internal/config"
	"cardstack/internal/deck"
	"cardstack/internal/server"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr, staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deck API and the web frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, opts, func(cfg *config.Config) {
				if addr != "" {
					cfg.HTTP.Addr = addr
				}
				if cmd.Flags().Changed("static") {
					cfg.Static.Dir = staticDir
				}
			})
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(ctx, a)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&staticDir, "static", "", "Directory with built frontend (overrides config)")

	return cmd
}

func serve(ctx context.Context, a *app) error {
	logger := a.logger
	logger.Info("cardstack starting", zap.String("version", Version))

	sweeper := deck.NewSweeper(a.deck, a.cfg.Deck.SweepInterval, logger.Named("sweeper"))
	sweeper.Start(ctx)
	defer sweeper.Stop()

	srv := server.New(a.deck, logger.Named("http"), server.Options{
		StaticDir:      a.cfg.Static.Dir,
		Mode:           a.cfg.HTTP.Mode,
		RatePerMinute:  a.cfg.RateLimit.PerMinute,
		AllowedOrigins: a.cfg.CORS.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", zap.Error(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}
