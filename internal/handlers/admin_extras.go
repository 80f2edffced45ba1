// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// admin_extras.go covers the batched dish options/modifiers save, theme
// management (presets, saved user themes, activation), and the short
// link share flow with its QR code.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"menupress/internal/broadcast"
	"menupress/internal/middleware"
	"menupress/internal/models"
	"menupress/internal/shortlink"
)

// SaveDishExtras replaces a dish's options and modifiers in one write,
// then swaps the live snapshot. Unlike the tree edits the database
// commit comes first: the dialog saves a whole set at once.
func (h *AdminHandler) SaveDishExtras(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	dishID, ok := uuidParam(w, r, "dishID")
	if !ok {
		return
	}

	var req struct {
		Options   []models.DishOption   `json:"options"`
		Modifiers []models.DishModifier `json:"modifiers"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	for _, o := range req.Options {
		if msg := validateDish(o.Name, o.Price); msg != "" {
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
	}
	for _, m := range req.Modifiers {
		if msg := validateDish(m.Name, m.Price); msg != "" {
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
	}

	if err := h.options.ReplaceFor(dishID, req.Options, req.Modifiers); err != nil {
		slog.Error("replace dish extras failed", "dish_id", dishID, "error", err)
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}

	st.ReplaceDishExtras(dishID, req.Options, req.Modifiers)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// --- Themes ---

// ListThemePresets returns the built-in themes.
func (h *AdminHandler) ListThemePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.ThemePresets)
}

// ListUserThemes returns the session user's saved themes, newest first.
func (h *AdminHandler) ListUserThemes(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	items, err := h.userThemes.ListByUser(sess.UserID)
	if err != nil {
		slog.Error("list user themes failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list themes failed")
		return
	}
	if items == nil {
		items = []models.UserTheme{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateUserTheme saves a custom theme for reuse.
func (h *AdminHandler) CreateUserTheme(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Name  string       `json:"name"`
		Theme models.Theme `json:"theme"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateThemeName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	theme, err := h.userThemes.Create(sess.UserID, req.Name, req.Theme)
	if err != nil {
		slog.Error("create user theme failed", "error", err)
		writeError(w, http.StatusInternalServerError, "save theme failed")
		return
	}
	writeJSON(w, http.StatusCreated, theme)
}

// ownedUserTheme loads a saved theme and checks the session user owns it.
func (h *AdminHandler) ownedUserTheme(w http.ResponseWriter, r *http.Request) (*models.UserTheme, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	themeID, ok := uuidParam(w, r, "themeID")
	if !ok {
		return nil, false
	}
	theme, err := h.userThemes.FindByID(themeID)
	if err != nil {
		slog.Error("user theme lookup failed", "theme_id", themeID, "error", err)
		writeError(w, http.StatusInternalServerError, "theme lookup failed")
		return nil, false
	}
	if theme == nil {
		writeError(w, http.StatusNotFound, "theme not found")
		return nil, false
	}
	if theme.UserID != sess.UserID {
		writeError(w, http.StatusForbidden, "not your theme")
		return nil, false
	}
	return theme, true
}

// UpdateUserTheme overwrites a saved theme. Restaurants that activated
// it keep their copy; activation snapshots the payload.
func (h *AdminHandler) UpdateUserTheme(w http.ResponseWriter, r *http.Request) {
	theme, ok := h.ownedUserTheme(w, r)
	if !ok {
		return
	}

	var req struct {
		Name  string       `json:"name"`
		Theme models.Theme `json:"theme"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateThemeName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.userThemes.Update(theme.ID, req.Name, req.Theme); err != nil {
		slog.Error("update user theme failed", "theme_id", theme.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "save theme failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteUserTheme removes a saved theme.
func (h *AdminHandler) DeleteUserTheme(w http.ResponseWriter, r *http.Request) {
	theme, ok := h.ownedUserTheme(w, r)
	if !ok {
		return
	}
	if err := h.userThemes.Delete(theme.ID); err != nil {
		slog.Error("delete user theme failed", "theme_id", theme.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "delete theme failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ActivateTheme sets a restaurant's active theme from a preset name, a
// saved user theme, or an inline payload — exactly one source must be
// given. The previous active theme is overwritten.
func (h *AdminHandler) ActivateTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	restaurant, ok := h.ownedRestaurant(w, r, id)
	if !ok {
		return
	}

	var req struct {
		Preset  string        `json:"preset"`
		ThemeID *string       `json:"theme_id"`
		Theme   *models.Theme `json:"theme"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var theme *models.Theme
	switch {
	case req.Preset != "":
		theme = models.PresetByName(req.Preset)
		if theme == nil {
			writeError(w, http.StatusNotFound, "unknown preset")
			return
		}
	case req.ThemeID != nil:
		saved, ok := h.ownedUserThemeByID(w, r, *req.ThemeID)
		if !ok {
			return
		}
		theme = &saved.Theme
	case req.Theme != nil:
		theme = req.Theme
	default:
		writeError(w, http.StatusBadRequest, "preset, theme_id, or theme is required")
		return
	}

	if err := h.restaurants.SetTheme(id, *theme); err != nil {
		slog.Error("set theme failed", "restaurant_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "activate theme failed")
		return
	}

	// The live snapshot holds the old theme; reload on next access.
	h.manager.Invalidate(id)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintRestaurantUpdated)
	writeJSON(w, http.StatusOK, theme)
}

// ownedUserThemeByID is the body-parameter variant of ownedUserTheme.
func (h *AdminHandler) ownedUserThemeByID(w http.ResponseWriter, r *http.Request, raw string) (*models.UserTheme, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	themeID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid theme_id")
		return nil, false
	}
	theme, err := h.userThemes.FindByID(themeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "theme lookup failed")
		return nil, false
	}
	if theme == nil {
		writeError(w, http.StatusNotFound, "theme not found")
		return nil, false
	}
	if theme.UserID != sess.UserID {
		writeError(w, http.StatusForbidden, "not your theme")
		return nil, false
	}
	return theme, true
}

// --- Short link sharing ---

// EnsureShortLink creates and verifies the restaurant's short link,
// returning the shareable URL. An already-verified link is returned
// without another verification round.
func (h *AdminHandler) EnsureShortLink(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if _, ok := h.ownedRestaurant(w, r, id); !ok {
		return
	}

	link, err := h.resolver.Ensure(r.Context(), id)
	if err != nil {
		slog.Error("short link ensure failed", "restaurant_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "The link could not be verified. Try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url":     shortlink.URL(h.baseURL, link),
		"hash":    link.RestaurantHash,
		"menu_id": link.MenuID,
	})
}

// ShortLinkQR serves the short link URL as a QR code PNG. The link must
// already exist; size is clamped to a sane range.
func (h *AdminHandler) ShortLinkQR(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if _, ok := h.ownedRestaurant(w, r, id); !ok {
		return
	}

	link, err := h.links.FindActiveByRestaurant(id)
	if err != nil {
		slog.Error("short link lookup failed", "restaurant_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "link lookup failed")
		return
	}
	if link == nil {
		writeError(w, http.StatusNotFound, "no short link yet")
		return
	}

	size := 512
	if raw := r.URL.Query().Get("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 128 && n <= 2048 {
			size = n
		}
	}

	png, err := qrcode.Encode(shortlink.URL(h.baseURL, link), qrcode.Medium, size)
	if err != nil {
		slog.Error("qr encode failed", "restaurant_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "qr generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(png)
}

// DeactivateShortLink turns the restaurant's short link off. The hash
// and menu id are deterministic, so re-enabling later lands on the same
// URL.
func (h *AdminHandler) DeactivateShortLink(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if _, ok := h.ownedRestaurant(w, r, id); !ok {
		return
	}

	if err := h.links.Deactivate(id); err != nil {
		slog.Error("short link deactivate failed", "restaurant_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "deactivate failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
