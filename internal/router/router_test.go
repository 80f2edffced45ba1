// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the routing configuration and middleware
// chains: the health endpoint, authentication gating on the admin API,
// and CSRF enforcement on state-changing requests.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menupress/internal/handlers"
	"menupress/internal/middleware"
	"menupress/internal/session"
)

// testRouter builds the router with empty handler groups. Only routes
// that are short-circuited by middleware (or need no dependencies) are
// exercised here; full handler behavior is covered in the handlers
// package.
func testRouter(t *testing.T) http.Handler {
	t.Helper()
	limiter := middleware.NewRateLimiter(100, time.Minute)
	t.Cleanup(limiter.Stop)

	sessions := session.NewStore(nil, false)
	auth := handlers.NewAuthHandler(nil, sessions)
	admin := handlers.NewAdminHandler(handlers.AdminDeps{})
	public := handlers.NewPublicHandler(nil, nil, nil, nil, nil)

	return New(sessions, limiter, auth, admin, public)
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestAdminAPIRequiresAuth(t *testing.T) {
	r := testRouter(t)

	for _, target := range []string{
		"/api/admin/restaurants",
		"/api/admin/subscription",
		"/api/admin/themes/presets",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: got %d, want 401", target, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: API route must answer JSON, got %q", target, ct)
		}
	}
}

func TestLoginRequiresCSRFToken(t *testing.T) {
	r := testRouter(t)

	// A POST with no CSRF cookie/header pair is rejected before the
	// handler runs.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403", w.Code)
	}
}

func TestSecurityHeadersOnPublicRoutes(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q, want nosniff", got)
	}
}
