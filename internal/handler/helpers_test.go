package handler_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/accountd/internal/auth"
	"github.com/msomdec/accountd/internal/handler"
	"github.com/msomdec/accountd/internal/metrics"
	"github.com/msomdec/accountd/internal/repository/sqlite"
	"github.com/msomdec/accountd/internal/service"
)

const testTokenSecret = "test-secret-for-handler-tests-0123456789"

func newTestDeps(t *testing.T) handler.Deps {
	t.Helper()
	return newTestDepsWithLimit(t, 1000, 1000)
}

func newTestDepsWithLimit(t *testing.T, perSecond float64, burst int) handler.Deps {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Use cost 4 for fast tests.
	hasher := auth.NewHasher(4)
	tokens, err := auth.NewTokenIssuer([]byte(testTokenSecret), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	limiter := service.NewRateLimiter(perSecond, burst)
	t.Cleanup(limiter.Close)

	return handler.Deps{
		Auth:     service.NewAuthService(db.Users(), db.Logs(), hasher, tokens),
		Users:    service.NewUserService(db.Users(), db.Logs(), hasher),
		Activity: service.NewActivityService(db.Logs()),
		Limiter:  limiter,
		Metrics:  metrics.NewRegistry(),
	}
}

// loginToken registers username and returns a bearer token for it.
func loginToken(t *testing.T, deps handler.Deps, username, password string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := deps.Auth.Register(ctx, username, password); err != nil {
		t.Fatalf("Register: %v", err)
	}
	result, err := deps.Auth.Login(ctx, username, password)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return result.Token
}
