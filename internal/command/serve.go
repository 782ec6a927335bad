package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/accountd/internal/config"
	"github.com/msomdec/accountd/internal/handler"
	"github.com/msomdec/accountd/internal/metrics"
	"github.com/msomdec/accountd/internal/service"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 5 * time.Second

// ServeCommand runs the HTTP API until SIGINT or SIGTERM.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "migrate the store and serve the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log, c.App.ErrWriter)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", cfg.HTTP.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.HTTP.Addr, err)
			}
			return serve(ctx, cfg, ln)
		},
	}
}

// serve runs the server on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		ln.Close()
		return err
	}
	defer store.Close()

	svc, err := newServices(store, cfg.Auth)
	if err != nil {
		ln.Close()
		return err
	}

	limiter := service.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Burst)
	defer limiter.Close()

	srv := &http.Server{
		Handler: handler.New(handler.Deps{
			Auth:     svc.auth,
			Users:    svc.users,
			Activity: svc.activity,
			Limiter:  limiter,
			Metrics:  metrics.NewRegistry(),
		}),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
