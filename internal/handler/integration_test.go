package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/msomdec/accountd/internal/handler"
)

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *apiClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			c.t.Fatalf("%s %s: decode body %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func newTestServer(t *testing.T) *apiClient {
	t.Helper()
	srv := httptest.NewServer(handler.New(newTestDeps(t)))
	t.Cleanup(srv.Close)
	return &apiClient{t: t, base: srv.URL}
}

func creds(username, password string) map[string]string {
	return map[string]string{"username": username, "password": password}
}

func TestIntegration_RegisterLoginListDelete(t *testing.T) {
	c := newTestServer(t)

	// 1. Register.
	code, body := c.do(http.MethodPost, "/api/users/register", creds("alice", "secret1"))
	if code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%v)", code, body)
	}
	user := body["data"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("register: expected username alice, got %v", user["username"])
	}
	if _, ok := user["password"]; ok {
		t.Fatal("register: response must not include a password field")
	}
	aliceID := int64(user["id"].(float64))

	// 2. Duplicate register conflicts.
	code, _ = c.do(http.MethodPost, "/api/users/register", creds("alice", "secret1"))
	if code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", code)
	}

	// 3. Wrong password and unknown user fail distinctly.
	code, body = c.do(http.MethodPost, "/api/users/login", creds("alice", "wrong-pass"))
	if code != http.StatusUnauthorized || body["error"] != "password does not match" {
		t.Fatalf("wrong password: got %d %v", code, body)
	}
	code, body = c.do(http.MethodPost, "/api/users/login", creds("nobody", "secret1"))
	if code != http.StatusUnauthorized || body["error"] != "username not registered" {
		t.Fatalf("unknown user: got %d %v", code, body)
	}

	// 4. Protected routes reject anonymous callers.
	code, _ = c.do(http.MethodGet, "/api/users", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: expected 401, got %d", code)
	}

	// 5. Login.
	code, body = c.do(http.MethodPost, "/api/users/login", creds("alice", "secret1"))
	if code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%v)", code, body)
	}
	data := body["data"].(map[string]any)
	if data["tokenType"] != "Bearer" {
		t.Fatalf("login: expected tokenType Bearer, got %v", data["tokenType"])
	}
	if data["expiresAt"] == nil {
		t.Fatal("login: expected expiresAt to be set")
	}
	c.token = data["token"].(string)

	// 6. Me.
	code, body = c.do(http.MethodGet, "/api/me", nil)
	if code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", code)
	}
	if me := body["data"].(map[string]any); me["username"] != "alice" {
		t.Fatalf("me: expected alice, got %v", me["username"])
	}

	// 7. List includes the signed user.
	code, body = c.do(http.MethodGet, "/api/users", nil)
	if code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", code)
	}
	signed := body["signedUser"].(map[string]any)
	if signed["username"] != "alice" {
		t.Fatalf("list: expected signedUser alice, got %v", signed)
	}
	if users := body["data"].([]any); len(users) != 1 {
		t.Fatalf("list: expected 1 user, got %d", len(users))
	}

	// 8. Get by id, and a missing id.
	code, _ = c.do(http.MethodGet, fmt.Sprintf("/api/users/%d", aliceID), nil)
	if code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", code)
	}
	code, _ = c.do(http.MethodGet, "/api/users/9999", nil)
	if code != http.StatusNotFound {
		t.Fatalf("get missing: expected 404, got %d", code)
	}
	code, _ = c.do(http.MethodGet, "/api/users/abc", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("get bad id: expected 400, got %d", code)
	}

	// 9. Activity log records the flow, newest first.
	code, body = c.do(http.MethodGet, "/api/logs?limit=2", nil)
	if code != http.StatusOK {
		t.Fatalf("logs: expected 200, got %d", code)
	}
	entries := body["data"].([]any)
	if len(entries) != 2 {
		t.Fatalf("logs: expected 2 entries, got %d", len(entries))
	}
	first := entries[0].(map[string]any)["message"].(string)
	if !strings.Contains(first, "alice") {
		t.Fatalf("logs: expected newest entry to mention alice, got %q", first)
	}

	// 10. Delete self.
	code, body = c.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", aliceID), nil)
	if code != http.StatusOK || body["message"] == nil {
		t.Fatalf("delete: got %d %v", code, body)
	}
	code, _ = c.do(http.MethodGet, fmt.Sprintf("/api/users/%d", aliceID), nil)
	if code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", code)
	}
}

func TestIntegration_UpdateIsSelfOnly(t *testing.T) {
	c := newTestServer(t)

	_, body := c.do(http.MethodPost, "/api/users/register", creds("alice", "secret1"))
	aliceID := int64(body["data"].(map[string]any)["id"].(float64))
	_, body = c.do(http.MethodPost, "/api/users/register", creds("bob", "secret2"))
	bobID := int64(body["data"].(map[string]any)["id"].(float64))

	_, body = c.do(http.MethodPost, "/api/users/login", creds("alice", "secret1"))
	c.token = body["data"].(map[string]any)["token"].(string)

	code, _ := c.do(http.MethodPut, fmt.Sprintf("/api/users/%d", bobID), creds("bobby", "secret3"))
	if code != http.StatusForbidden {
		t.Fatalf("update other: expected 403, got %d", code)
	}
	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", bobID), nil)
	if code != http.StatusForbidden {
		t.Fatalf("delete other: expected 403, got %d", code)
	}

	code, _ = c.do(http.MethodPut, fmt.Sprintf("/api/users/%d", aliceID), creds("bob", "secret3"))
	if code != http.StatusConflict {
		t.Fatalf("update to taken name: expected 409, got %d", code)
	}
	code, _ = c.do(http.MethodPut, fmt.Sprintf("/api/users/%d", aliceID), creds("alice", "1"))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("update with short password: expected 422, got %d", code)
	}

	code, body = c.do(http.MethodPut, fmt.Sprintf("/api/users/%d", aliceID), creds("alicia", "secret3"))
	if code != http.StatusOK {
		t.Fatalf("update self: expected 200, got %d (%v)", code, body)
	}
	if body["data"].(map[string]any)["username"] != "alicia" {
		t.Fatalf("update self: expected username alicia, got %v", body["data"])
	}

	c.token = ""
	code, _ = c.do(http.MethodPost, "/api/users/login", creds("alicia", "secret3"))
	if code != http.StatusOK {
		t.Fatalf("login after update: expected 200, got %d", code)
	}
}

func TestIntegration_BadBodies(t *testing.T) {
	c := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPost, c.base+"/api/users/register", strings.NewReader("{not json"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed body: expected 400, got %d", resp.StatusCode)
	}

	code, _ := c.do(http.MethodPost, "/api/users/register", creds("a", "secret1"))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("short username: expected 422, got %d", code)
	}

	code, _ = c.do(http.MethodPost, "/api/users/register", map[string]string{"username": "alice", "password": "secret1", "role": "admin"})
	if code != http.StatusBadRequest {
		t.Fatalf("unknown field: expected 400, got %d", code)
	}
}

func TestIntegration_LoginRateLimited(t *testing.T) {
	srv := httptest.NewServer(handler.New(newTestDepsWithLimit(t, 0, 2)))
	t.Cleanup(srv.Close)
	c := &apiClient{t: t, base: srv.URL}

	var codes []int
	for range 3 {
		code, _ := c.do(http.MethodPost, "/api/users/login", creds("ghost", "secret1"))
		codes = append(codes, code)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third login attempt to be rate limited, got %v", codes)
	}
}
