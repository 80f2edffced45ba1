package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"menupress/internal/session"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

// withSession injects session data the way LoadSession would.
func withSession(r *http.Request, data *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), SessionKey, data))
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/restaurants", nil)

	RequireAuth(okHandler()).ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("expected login redirect, got %q", loc)
	}
}

func TestRequireAuthReturnsJSON401ForAPI(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/admin/restaurants", nil)

	RequireAuth(okHandler()).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON response, got %q", ct)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	w := httptest.NewRecorder()
	r := withSession(httptest.NewRequest(http.MethodGet, "/admin/restaurants", nil),
		&session.Data{UserID: uuid.New(), TwoFADone: true})

	RequireAuth(okHandler()).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRequire2FARedirectsIncomplete(t *testing.T) {
	w := httptest.NewRecorder()
	r := withSession(httptest.NewRequest(http.MethodGet, "/admin/restaurants", nil),
		&session.Data{UserID: uuid.New(), TwoFADone: false})

	Require2FA(okHandler()).ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/2fa/setup" {
		t.Errorf("expected 2fa setup redirect, got %q", loc)
	}
}

func TestRequireAdminForbidsOwners(t *testing.T) {
	w := httptest.NewRecorder()
	r := withSession(httptest.NewRequest(http.MethodGet, "/admin/users", nil),
		&session.Data{UserID: uuid.New(), Role: "owner", TwoFADone: true})

	RequireAdmin(okHandler()).ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestCSRFSetsCookieAndValidates(t *testing.T) {
	handler := CSRF(okHandler())

	// GET issues the token cookie.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	cookies := w.Result().Cookies()
	var token string
	for _, c := range cookies {
		if c.Name == CSRFCookieName {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatal("expected csrf cookie on GET")
	}

	// POST without the header is rejected.
	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/admin/restaurants", nil)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without token, got %d", w.Code)
	}

	// POST with the matching header passes.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/admin/restaurants", nil)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	r.Header.Set(CSRFHeaderName, token)
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", w.Code)
	}
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	// A different client is unaffected.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("expected other client to pass, got %d", w.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "127.0.0.1:9999"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := clientIP(r); got != "203.0.113.7" {
		t.Errorf("expected first forwarded ip, got %q", got)
	}
}

func TestRecovererCatchesPanic(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler bug")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestLoggerPreservesStatus(t *testing.T) {
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status passthrough, got %d", w.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecureHeaders(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); !strings.EqualFold(got, "SAMEORIGIN") {
		t.Errorf("expected SAMEORIGIN, got %q", got)
	}
}
