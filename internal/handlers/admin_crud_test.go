// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"menupress/internal/models"
)

func TestCreateRestaurantGeneratesSlug(t *testing.T) {
	env := newTestEnv(t)
	owner := testOwner(t, env, uniqueEmail("crud"))
	sess := ownerSession(owner)

	// Leftovers from an interrupted run would shift the suffix counter.
	env.DB.Exec("DELETE FROM restaurants WHERE slug LIKE 'chez-gusteaus%'")

	restaurant := createTestRestaurant(t, env, sess, "Chez Gusteau's!")
	if restaurant.Slug != "chez-gusteaus" {
		t.Errorf("slug: got %q, want %q", restaurant.Slug, "chez-gusteaus")
	}
	if restaurant.Published {
		t.Error("new restaurants must start unpublished")
	}
	if restaurant.Theme.Name != "classic" {
		t.Errorf("default theme: got %q", restaurant.Theme.Name)
	}

	// A second restaurant with the same name gets a suffixed slug.
	second := createTestRestaurant(t, env, sess, "Chez Gusteau's!")
	if second.Slug != "chez-gusteaus-2" {
		t.Errorf("second slug: got %q, want %q", second.Slug, "chez-gusteaus-2")
	}
}

func TestCreateRestaurantRejectsEmptyName(t *testing.T) {
	env := newTestEnv(t)
	owner := testOwner(t, env, uniqueEmail("crud"))

	rec := httptest.NewRecorder()
	env.Admin.CreateRestaurant(rec, jsonRequest(http.MethodPost, "/api/admin/restaurants",
		map[string]string{"name": "   "}, ownerSession(owner)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("got %d, want 422", rec.Code)
	}
}

func TestGetRestaurantEnforcesOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := testOwner(t, env, uniqueEmail("crud"))
	other := testOwner(t, env, uniqueEmail("crud-other"))
	restaurant := createTestRestaurant(t, env, ownerSession(owner), "Ownership Test")

	rec := httptest.NewRecorder()
	env.Admin.GetRestaurant(rec, jsonRequest(http.MethodGet, "/", nil,
		ownerSession(other), "id", restaurant.ID.String()))
	if rec.Code != http.StatusForbidden {
		t.Errorf("other owner: got %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Admin.GetRestaurant(rec, jsonRequest(http.MethodGet, "/", nil,
		ownerSession(owner), "id", restaurant.ID.String()))
	if rec.Code != http.StatusOK {
		t.Errorf("owner: got %d, want 200", rec.Code)
	}
}

func TestPublishRequiresActiveSubscription(t *testing.T) {
	env := newTestEnv(t)
	owner := testOwner(t, env, uniqueEmail("publish"))
	sess := ownerSession(owner)
	restaurant := createTestRestaurant(t, env, sess, "Publish Gate")

	rec := httptest.NewRecorder()
	env.Admin.SetPublished(rec, jsonRequest(http.MethodPost, "/publish",
		map[string]bool{"published": true}, sess, "id", restaurant.ID.String()))
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("without subscription: got %d, want 402", rec.Code)
	}

	giveSubscription(t, env, owner.ID)

	rec = httptest.NewRecorder()
	env.Admin.SetPublished(rec, jsonRequest(http.MethodPost, "/publish",
		map[string]bool{"published": true}, sess, "id", restaurant.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("with subscription: got %d (%s)", rec.Code, rec.Body.String())
	}

	stored, err := env.Restaurants.FindByID(restaurant.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload restaurant: %v", err)
	}
	if !stored.Published {
		t.Error("publish flag not persisted")
	}

	// Unpublishing never needs a subscription.
	rec = httptest.NewRecorder()
	env.Admin.SetPublished(rec, jsonRequest(http.MethodPost, "/publish",
		map[string]bool{"published": false}, sess, "id", restaurant.ID.String()))
	if rec.Code != http.StatusOK {
		t.Errorf("unpublish: got %d", rec.Code)
	}
}

func TestMenuEditingThroughHandlers(t *testing.T) {
	env := newTestEnv(t)
	owner := testOwner(t, env, uniqueEmail("menu"))
	sess := ownerSession(owner)
	restaurant := createTestRestaurant(t, env, sess, "Menu Edit Flow")
	rid := restaurant.ID.String()

	// Add a category.
	rec := httptest.NewRecorder()
	env.Admin.AddCategory(rec, jsonRequest(http.MethodPost, "/categories",
		map[string]string{"name": "Drinks"}, sess, "id", rid))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add category: got %d (%s)", rec.Code, rec.Body.String())
	}
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	decodeBody(t, rec, &created)

	// Add a subcategory under it.
	rec = httptest.NewRecorder()
	env.Admin.AddSubcategory(rec, jsonRequest(http.MethodPost, "/subcategories",
		map[string]string{"name": "Hot Drinks"}, sess, "id", rid, "categoryID", created.ID.String()))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add subcategory: got %d (%s)", rec.Code, rec.Body.String())
	}
	var sub struct {
		ID uuid.UUID `json:"id"`
	}
	decodeBody(t, rec, &sub)

	// Add a dish; the price should be normalized in the tree.
	rec = httptest.NewRecorder()
	env.Admin.AddDish(rec, jsonRequest(http.MethodPost, "/dishes",
		map[string]any{"name": "Espresso", "price": "3.5"}, sess,
		"id", rid, "subcategoryID", sub.ID.String()))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add dish: got %d (%s)", rec.Code, rec.Body.String())
	}

	// The optimistic tree reflects everything immediately.
	rec = httptest.NewRecorder()
	env.Admin.GetMenu(rec, jsonRequest(http.MethodGet, "/menu", nil, sess, "id", rid))
	if rec.Code != http.StatusOK {
		t.Fatalf("get menu: got %d", rec.Code)
	}
	var menu models.FullMenu
	decodeBody(t, rec, &menu)
	if len(menu.Categories) != 1 || menu.Categories[0].Name != "Drinks" {
		t.Fatalf("unexpected categories: %+v", menu.Categories)
	}
	subs := menu.Categories[0].Subcategories
	if len(subs) != 1 || len(subs[0].Dishes) != 1 {
		t.Fatalf("unexpected tree shape: %+v", subs)
	}
	if subs[0].Dishes[0].Price != "3.50" {
		t.Errorf("price: got %q, want %q", subs[0].Dishes[0].Price, "3.50")
	}
}

func TestAddDishRejectsUnknownAllergen(t *testing.T) {
	env := newTestEnv(t)
	owner := testOwner(t, env, uniqueEmail("allergen"))
	sess := ownerSession(owner)
	restaurant := createTestRestaurant(t, env, sess, "Allergen Check")

	rec := httptest.NewRecorder()
	env.Admin.AddDish(rec, jsonRequest(http.MethodPost, "/dishes",
		map[string]any{"name": "Mystery Stew", "price": "9.99", "allergens": []string{"kryptonite"}},
		sess, "id", restaurant.ID.String(), "subcategoryID", uuid.NewString()))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("got %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "kryptonite") {
		t.Errorf("error should name the allergen: %s", rec.Body.String())
	}
}

func TestActivateThemePreset(t *testing.T) {
	env := newTestEnv(t)
	owner := testOwner(t, env, uniqueEmail("theme"))
	sess := ownerSession(owner)
	restaurant := createTestRestaurant(t, env, sess, "Theme Swap")

	rec := httptest.NewRecorder()
	env.Admin.ActivateTheme(rec, jsonRequest(http.MethodPost, "/theme",
		map[string]string{"preset": "midnight"}, sess, "id", restaurant.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("activate preset: got %d (%s)", rec.Code, rec.Body.String())
	}

	stored, _ := env.Restaurants.FindByID(restaurant.ID)
	if stored.Theme.Name != "midnight" {
		t.Errorf("stored theme: got %q, want %q", stored.Theme.Name, "midnight")
	}

	rec = httptest.NewRecorder()
	env.Admin.ActivateTheme(rec, jsonRequest(http.MethodPost, "/theme",
		map[string]string{"preset": "no-such-preset"}, sess, "id", restaurant.ID.String()))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown preset: got %d, want 404", rec.Code)
	}
}

func TestUserThemeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner := testOwner(t, env, uniqueEmail("usertheme"))
	sess := ownerSession(owner)

	theme := models.DefaultTheme()
	theme.Radius = "1rem"

	rec := httptest.NewRecorder()
	env.Admin.CreateUserTheme(rec, jsonRequest(http.MethodPost, "/themes",
		map[string]any{"name": "My Rounded", "theme": theme}, sess))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create theme: got %d (%s)", rec.Code, rec.Body.String())
	}
	var saved models.UserTheme
	decodeBody(t, rec, &saved)

	rec = httptest.NewRecorder()
	env.Admin.ListUserThemes(rec, jsonRequest(http.MethodGet, "/themes", nil, sess))
	var list []models.UserTheme
	decodeBody(t, rec, &list)
	if len(list) != 1 || list[0].Name != "My Rounded" {
		t.Fatalf("unexpected list: %+v", list)
	}

	rec = httptest.NewRecorder()
	env.Admin.DeleteUserTheme(rec, jsonRequest(http.MethodDelete, "/themes", nil,
		sess, "themeID", saved.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete theme: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Admin.ListUserThemes(rec, jsonRequest(http.MethodGet, "/themes", nil, sess))
	list = nil
	decodeBody(t, rec, &list)
	if len(list) != 0 {
		t.Errorf("theme not deleted: %+v", list)
	}
}

func TestShortLinkEnsureAndQR(t *testing.T) {
	env := newTestEnv(t)
	owner := testOwner(t, env, uniqueEmail("link"))
	sess := ownerSession(owner)
	restaurant := createTestRestaurant(t, env, sess, "Linked Bistro")

	rec := httptest.NewRecorder()
	env.Admin.EnsureShortLink(rec, jsonRequest(http.MethodPost, "/link", nil,
		sess, "id", restaurant.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("ensure link: got %d (%s)", rec.Code, rec.Body.String())
	}
	var link struct {
		URL    string `json:"url"`
		Hash   string `json:"hash"`
		MenuID string `json:"menu_id"`
	}
	decodeBody(t, rec, &link)
	if !strings.HasPrefix(link.URL, "http://test.local/m/") {
		t.Errorf("unexpected url: %q", link.URL)
	}
	if len(link.Hash) != 10 || len(link.MenuID) != 5 {
		t.Errorf("unexpected identifiers: hash=%q menu_id=%q", link.Hash, link.MenuID)
	}

	rec = httptest.NewRecorder()
	env.Admin.ShortLinkQR(rec, jsonRequest(http.MethodGet, "/link/qr", nil,
		sess, "id", restaurant.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("qr: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("qr content-type: got %q", ct)
	}

	rec = httptest.NewRecorder()
	env.Admin.DeactivateShortLink(rec, jsonRequest(http.MethodDelete, "/link", nil,
		sess, "id", restaurant.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate: got %d", rec.Code)
	}
}
