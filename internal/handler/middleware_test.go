package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msomdec/accountd/internal/handler"
)

func TestRequireAuth_ValidToken(t *testing.T) {
	deps := newTestDeps(t)
	token := loginToken(t, deps, "alice", "secret1")

	var gotUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := handler.IdentityFromContext(r.Context())
		if ok {
			gotUser = identity.Username
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.RequireAuth(deps.Auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser != "alice" {
		t.Fatalf("expected user 'alice', got %q", gotUser)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	deps := newTestDeps(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("inner handler should not be called")
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.RequireAuth(deps.Auth, inner).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if w.Header().Get("WWW-Authenticate") == "" {
				t.Fatal("expected WWW-Authenticate header on 401")
			}
		})
	}
}

func TestRateLimit_Returns429(t *testing.T) {
	deps := newTestDepsWithLimit(t, 0, 2)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := handler.RateLimit(deps.Limiter, deps.Metrics, inner)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("expected first two requests allowed, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", codes[2])
	}

	// A different client is unaffected.
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected other client to be allowed, got %d", w.Code)
	}
}

func TestLogRequests_SetsRequestID(t *testing.T) {
	deps := newTestDeps(t)

	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handler.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	w := httptest.NewRecorder()
	handler.LogRequests(deps.Metrics, inner).ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", w.Code)
	}
	header := w.Header().Get(handler.RequestIDHeader)
	if header == "" || len(header) != 26 {
		t.Fatalf("expected a 26-char ULID request id, got %q", header)
	}
	if seen != header {
		t.Fatalf("context request id %q does not match header %q", seen, header)
	}
}

func TestLogRequests_Unwrap(t *testing.T) {
	deps := newTestDeps(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			t.Errorf("Flush: %v", err)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.LogRequests(deps.Metrics, inner).ServeHTTP(httptest.NewRecorder(), req)
}
