// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// public.go serves the themed menu pages, the short-link redirect, and
// the public JSON menu endpoint. Page reads go cache-first; only fully
// rendered published pages are cached.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"menupress/internal/cache"
	"menupress/internal/render"
	"menupress/internal/store"
)

// PublicHandler serves the unauthenticated surface.
type PublicHandler struct {
	restaurants *store.RestaurantStore
	links       *store.LinkStore
	menuCache   *cache.MenuCache
	pageCache   *cache.PageCache
	renderer    *render.Renderer
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(restaurants *store.RestaurantStore, links *store.LinkStore, menuCache *cache.MenuCache, pageCache *cache.PageCache, renderer *render.Renderer) *PublicHandler {
	return &PublicHandler{
		restaurants: restaurants,
		links:       links,
		menuCache:   menuCache,
		pageCache:   pageCache,
		renderer:    renderer,
	}
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// MenuPage serves GET /{slug}: the themed public menu. Unknown slugs and
// unpublished restaurants get distinct pages so a shared URL never
// claims a menu does not exist while its owner is still editing.
func (h *PublicHandler) MenuPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if html, ok := h.pageCache.Get(r.Context(), slug); ok {
		writeHTML(w, http.StatusOK, html)
		return
	}

	restaurant, err := h.restaurants.FindBySlug(slug)
	if err != nil {
		slog.Error("public menu lookup failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if restaurant == nil {
		writeHTML(w, http.StatusNotFound, h.renderer.NotFoundPage())
		return
	}
	if !restaurant.IsPublished() {
		writeHTML(w, http.StatusOK, h.renderer.UnpublishedPage(restaurant.Name))
		return
	}

	menu, err := h.menuCache.Get(r.Context(), restaurant.ID)
	if err != nil || menu == nil {
		slog.Error("public menu load failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := h.renderer.MenuPage(menu)
	if err != nil {
		slog.Error("public menu render failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.pageCache.Set(r.Context(), slug, html)
	writeHTML(w, http.StatusOK, html)
}

// ShortLink serves GET /m/{hash}/{menuID}: resolves an active short link
// and redirects to the canonical slug page, so the rendered page is
// cached under one key regardless of how it was reached.
func (h *PublicHandler) ShortLink(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	menuID := chi.URLParam(r, "menuID")

	link, err := h.links.FindByHash(hash, menuID)
	if err != nil {
		slog.Error("short link resolve failed", "hash", hash, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if link == nil {
		writeHTML(w, http.StatusNotFound, h.renderer.NotFoundPage())
		return
	}

	restaurant, err := h.restaurants.FindByID(link.RestaurantID)
	if err != nil || restaurant == nil {
		writeHTML(w, http.StatusNotFound, h.renderer.NotFoundPage())
		return
	}

	http.Redirect(w, r, "/"+restaurant.Slug, http.StatusFound)
}

// MenuJSON serves GET /api/menu/{slug}: the published menu snapshot as
// JSON, for embedding and the editor's live preview.
func (h *PublicHandler) MenuJSON(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	restaurant, err := h.restaurants.FindBySlug(slug)
	if err != nil {
		slog.Error("menu json lookup failed", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "menu lookup failed")
		return
	}
	if restaurant == nil {
		writeError(w, http.StatusNotFound, "menu not found")
		return
	}
	if !restaurant.IsPublished() {
		writeError(w, http.StatusForbidden, "menu not published")
		return
	}

	menu, err := h.menuCache.Get(r.Context(), restaurant.ID)
	if err != nil || menu == nil {
		slog.Error("menu json load failed", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "menu load failed")
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
