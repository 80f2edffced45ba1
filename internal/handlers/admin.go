// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// admin.go covers the restaurant-level admin API: listing, creation,
// settings updates, publishing, and deletion. Menu tree editing lives in
// admin_menu.go; themes, options, and sharing in admin_extras.go.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"menupress/internal/broadcast"
	"menupress/internal/cache"
	"menupress/internal/menustate"
	"menupress/internal/middleware"
	"menupress/internal/models"
	"menupress/internal/shortlink"
	"menupress/internal/slug"
	"menupress/internal/store"
	menusync "menupress/internal/sync"
)

// AdminHandler serves the authenticated JSON API under /api/admin.
type AdminHandler struct {
	restaurants   *store.RestaurantStore
	subscriptions *store.SubscriptionStore
	userThemes    *store.UserThemeStore
	links         *store.LinkStore
	options       *store.OptionStore
	syncLog       *store.SyncLogStore

	manager     *menustate.Manager
	emitter     *menusync.Emitter
	menuCache   *cache.MenuCache
	pageCache   *cache.PageCache
	broadcaster *broadcast.Broadcaster
	resolver    *shortlink.Resolver

	// baseURL is the public origin used when rendering share URLs.
	baseURL string
}

// AdminDeps bundles the wiring for NewAdminHandler.
type AdminDeps struct {
	Restaurants   *store.RestaurantStore
	Subscriptions *store.SubscriptionStore
	UserThemes    *store.UserThemeStore
	Links         *store.LinkStore
	Options       *store.OptionStore
	SyncLog       *store.SyncLogStore
	Manager       *menustate.Manager
	Emitter       *menusync.Emitter
	MenuCache     *cache.MenuCache
	PageCache     *cache.PageCache
	Broadcaster   *broadcast.Broadcaster
	Resolver      *shortlink.Resolver
	BaseURL       string
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(deps AdminDeps) *AdminHandler {
	return &AdminHandler{
		restaurants:   deps.Restaurants,
		subscriptions: deps.Subscriptions,
		userThemes:    deps.UserThemes,
		links:         deps.Links,
		options:       deps.Options,
		syncLog:       deps.SyncLog,
		manager:       deps.Manager,
		emitter:       deps.Emitter,
		menuCache:     deps.MenuCache,
		pageCache:     deps.PageCache,
		broadcaster:   deps.Broadcaster,
		resolver:      deps.Resolver,
		baseURL:       deps.BaseURL,
	}
}

// uuidParam parses a UUID path parameter; false means a 400 was written.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// ownedRestaurant loads a restaurant and checks the session user owns it
// (admins bypass the ownership check). False means a response was written.
func (h *AdminHandler) ownedRestaurant(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*models.Restaurant, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	restaurant, err := h.restaurants.FindByID(id)
	if err != nil {
		slog.Error("restaurant lookup failed", "restaurant_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "restaurant lookup failed")
		return nil, false
	}
	if restaurant == nil {
		writeError(w, http.StatusNotFound, "restaurant not found")
		return nil, false
	}
	if restaurant.OwnerID != sess.UserID && sess.Role != string(models.RoleAdmin) {
		writeError(w, http.StatusForbidden, "not your restaurant")
		return nil, false
	}
	return restaurant, true
}

// invalidateMenu drops both cache tiers for a restaurant and broadcasts
// the hint so other instances do the same.
func (h *AdminHandler) invalidateMenu(ctx context.Context, restaurant *models.Restaurant, hint broadcast.HintType) {
	h.menuCache.Invalidate(ctx, restaurant.ID)
	h.pageCache.Invalidate(ctx, restaurant.Slug)
	h.broadcaster.Publish(ctx, hint, restaurant.ID)
}

// ListRestaurants returns the session user's restaurants.
func (h *AdminHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	items, err := h.restaurants.ListByOwner(sess.UserID)
	if err != nil {
		slog.Error("list restaurants failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list restaurants failed")
		return
	}
	if items == nil {
		items = []models.Restaurant{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateRestaurant creates an unpublished restaurant. The slug is derived
// from the name when absent and suffixed until unique.
func (h *AdminHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Name        string  `json:"name"`
		Slug        string  `json:"slug"`
		Description *string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateRestaurant(req.Name, req.Slug); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	base := req.Slug
	if base == "" {
		base = req.Name
	}
	unique, err := slug.Unique(base, h.restaurants.SlugExists)
	if err != nil {
		slog.Error("slug generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "create restaurant failed")
		return
	}

	restaurant, err := h.restaurants.Create(&models.Restaurant{
		OwnerID:     sess.UserID,
		Name:        req.Name,
		Slug:        unique,
		Description: req.Description,
	})
	if err != nil {
		slog.Error("create restaurant failed", "error", err)
		writeError(w, http.StatusInternalServerError, "create restaurant failed")
		return
	}
	writeJSON(w, http.StatusCreated, restaurant)
}

// GetRestaurant returns a single restaurant row.
func (h *AdminHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	restaurant, ok := h.ownedRestaurant(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

// UpdateRestaurant merges a partial settings update through the live
// editing state, so optimistic edits and settings changes share one
// snapshot. Publish changes must go through SetPublished instead.
func (h *AdminHandler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	restaurant, ok := h.ownedRestaurant(w, r, id)
	if !ok {
		return
	}

	var patch models.RestaurantPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	// Publishing is subscription-gated and has its own endpoint.
	patch.Published = nil

	if patch.Name != nil {
		if msg := validateRestaurant(*patch.Name, ""); msg != "" {
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
	}
	if patch.Slug != nil {
		*patch.Slug = slug.Generate(*patch.Slug)
		if *patch.Slug != restaurant.Slug {
			exists, err := h.restaurants.SlugExists(*patch.Slug)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "update restaurant failed")
				return
			}
			if exists {
				writeError(w, http.StatusConflict, "Slug is already taken.")
				return
			}
		}
	}
	if patch.GridColumns != nil {
		if msg := validateGridColumns(*patch.GridColumns); msg != "" {
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
	}

	st, err := h.manager.Get(r.Context(), id)
	if err != nil || st == nil {
		slog.Error("menu state load failed", "restaurant_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "update restaurant failed")
		return
	}
	st.UpdateRestaurant(patch, nil)

	// The old slug's page is stale either way; the new one has no entry yet.
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintRestaurantUpdated)
	writeJSON(w, http.StatusOK, st.Tree().Restaurant)
}

// SetPublished flips the publish flag. Publishing requires an active
// subscription; unpublishing is always allowed.
func (h *AdminHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	restaurant, ok := h.ownedRestaurant(w, r, id)
	if !ok {
		return
	}

	var req struct {
		Published bool `json:"published"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Published {
		active, err := h.subscriptions.HasActive(restaurant.OwnerID)
		if err != nil {
			slog.Error("subscription check failed", "error", err)
			writeError(w, http.StatusInternalServerError, "publish failed")
			return
		}
		if !active {
			writeError(w, http.StatusPaymentRequired, "An active subscription is required to publish.")
			return
		}
	}

	if err := h.restaurants.SetPublished(id, req.Published); err != nil {
		slog.Error("set published failed", "restaurant_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "publish failed")
		return
	}

	// The live snapshot holds the old flag; drop it so the next access reloads.
	h.manager.Invalidate(id)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintPublishChanged)
	writeJSON(w, http.StatusOK, map[string]bool{"published": req.Published})
}

// DeleteRestaurant removes a restaurant; the menu tree and short link
// cascade in the database.
func (h *AdminHandler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	restaurant, ok := h.ownedRestaurant(w, r, id)
	if !ok {
		return
	}

	if err := h.restaurants.Delete(id); err != nil {
		slog.Error("delete restaurant failed", "restaurant_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "delete restaurant failed")
		return
	}

	h.manager.Invalidate(id)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintRestaurantUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetSubscription reports the session user's subscription state.
func (h *AdminHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	sub, err := h.subscriptions.FindByUser(sess.UserID)
	if err != nil {
		slog.Error("subscription lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "subscription lookup failed")
		return
	}
	active := sub != nil && sub.IsActive()
	writeJSON(w, http.StatusOK, map[string]any{
		"subscription": sub,
		"active":       active,
	})
}

// RecentSyncLog returns the latest persistence log entries. Admin only.
func (h *AdminHandler) RecentSyncLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.syncLog.RecentEntries(100)
	if err != nil {
		slog.Error("sync log read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "sync log read failed")
		return
	}
	if entries == nil {
		entries = []store.SyncLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
