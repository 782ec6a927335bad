package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/msomdec/accountd/internal/auth"
	"github.com/msomdec/accountd/internal/config"
	"github.com/msomdec/accountd/internal/domain"
	"github.com/msomdec/accountd/internal/repository/postgres"
	"github.com/msomdec/accountd/internal/repository/sqlite"
	"github.com/msomdec/accountd/internal/service"
	"github.com/urfave/cli/v2"
)

// loadConfig resolves the configuration for c, applying only the global
// flags the user actually set.
func loadConfig(c *cli.Context) (*config.Config, error) {
	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	return config.Load(c.String("config"), overrides)
}

// newLogger builds the process logger from the log section.
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}

// openStore opens and migrates the configured storage backend.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (domain.Store, error) {
	var (
		store domain.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err = sqlite.New(cfg.Path)
	case config.DriverPostgres:
		store, err = postgres.New(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate %s store: %w", cfg.Driver, err)
	}
	slog.Info("database migrations applied", "driver", cfg.Driver)
	return store, nil
}

// services is the service layer built over one store.
type services struct {
	auth     *service.AuthService
	users    *service.UserService
	activity *service.ActivityService
}

func newServices(store domain.Store, cfg config.AuthConfig) (*services, error) {
	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens, err := auth.NewTokenIssuer([]byte(cfg.TokenSecret), cfg.TokenLifetime, auth.WithIssuer(cfg.TokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	return &services{
		auth:     service.NewAuthService(store.Users(), store.Logs(), hasher, tokens),
		users:    service.NewUserService(store.Users(), store.Logs(), hasher),
		activity: service.NewActivityService(store.Logs()),
	}, nil
}
