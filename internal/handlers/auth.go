// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	"github.com/skip2/go-qrcode"

	"menupress/internal/middleware"
	"menupress/internal/session"
	"menupress/internal/store"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "MenuPress"

// AuthHandler serves login, logout, and two-factor endpoints.
type AuthHandler struct {
	users    *store.UserStore
	sessions *session.Store
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *store.UserStore, sessions *session.Store) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// Login authenticates email and password and opens a session. The session
// starts with TwoFADone false; the 2FA endpoints complete it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	// Same response for unknown email and wrong password.
	if user == nil || !h.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	data := &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   false,
	}
	if _, err := h.sessions.Create(r.Context(), w, data); err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"two_fa_enabled": user.TOTPEnabled,
		"display_name":   user.DisplayName,
		"role":           user.Role,
	})
}

// Logout destroys the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// TwoFASetup generates a TOTP secret for the logged-in user and returns
// the otpauth URL as a base64 QR code PNG. Re-running setup before the
// first verification replaces the pending secret.
func (h *AuthHandler) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "user lookup failed")
		return
	}
	if user.TOTPEnabled {
		writeError(w, http.StatusConflict, "two-factor already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "two-factor setup failed")
		return
	}

	if err := h.users.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("totp secret save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "two-factor setup failed")
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("totp qr encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "two-factor setup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret": key.Secret(),
		"qr_png": base64.StdEncoding.EncodeToString(png),
	})
}

// TwoFAVerify checks a TOTP code against the user's secret. The first
// successful verification enables 2FA permanently; every success marks
// the session's TwoFADone flag.
func (h *AuthHandler) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "user lookup failed")
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusBadRequest, "two-factor setup not started")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if !user.TOTPEnabled {
		if err := h.users.EnableTOTP(sess.UserID); err != nil {
			slog.Error("totp enable failed", "error", err)
			writeError(w, http.StatusInternalServerError, "two-factor verify failed")
			return
		}
	}

	sess.TwoFADone = true
	if err := h.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "two-factor verify failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// Me returns the logged-in user's session identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      sess.UserID,
		"email":        sess.Email,
		"display_name": sess.DisplayName,
		"role":         sess.Role,
		"two_fa_done":  sess.TwoFADone,
	})
}
