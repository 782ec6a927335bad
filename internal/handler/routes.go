package handler

import (
	"net/http"

	"github.com/msomdec/accountd/internal/metrics"
	"github.com/msomdec/accountd/internal/service"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Activity *service.ActivityService
	Limiter  *service.RateLimiter
	Metrics  *metrics.Registry
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, deps Deps) {
	authHandler := NewAuthHandler(deps.Auth, deps.Metrics)
	userHandler := NewUserHandler(deps.Users)
	activityHandler := NewActivityHandler(deps.Activity)

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimit(deps.Limiter, deps.Metrics, h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(deps.Auth, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /metrics", deps.Metrics.Handler())

	mux.Handle("POST /api/users/register", limited(authHandler.HandleRegister))
	mux.Handle("POST /api/users/login", limited(authHandler.HandleLogin))

	mux.Handle("GET /api/me", protected(authHandler.HandleMe))
	mux.Handle("GET /api/users", protected(userHandler.HandleList))
	mux.Handle("GET /api/users/{id}", protected(userHandler.HandleGet))
	mux.Handle("PUT /api/users/{id}", protected(userHandler.HandleUpdate))
	mux.Handle("DELETE /api/users/{id}", protected(userHandler.HandleDelete))
	mux.Handle("GET /api/logs", protected(activityHandler.HandleRecent))
}

// New returns the complete HTTP handler: routes plus request logging.
func New(deps Deps) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, deps)
	return LogRequests(deps.Metrics, mux)
}
