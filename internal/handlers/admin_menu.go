// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// admin_menu.go covers menu tree editing. Every mutation goes through
// the restaurant's live editing state: the change is visible in the
// response immediately while the database write settles in the
// background with its operation-specific recovery.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"menupress/internal/broadcast"
	"menupress/internal/menustate"
	"menupress/internal/models"
)

// liveStore loads the editing state for an owned restaurant. False means
// a response was written.
func (h *AdminHandler) liveStore(w http.ResponseWriter, r *http.Request) (*menustate.Store, *models.Restaurant, bool) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return nil, nil, false
	}
	restaurant, ok := h.ownedRestaurant(w, r, id)
	if !ok {
		return nil, nil, false
	}
	st, err := h.manager.Get(r.Context(), id)
	if err != nil || st == nil {
		slog.Error("menu state load failed", "restaurant_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "menu load failed")
		return nil, nil, false
	}
	return st, restaurant, true
}

// GetMenu returns the restaurant's full menu tree from the live state.
func (h *AdminHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	st, _, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.Tree())
}

// --- Categories ---

// AddCategory appends a category. The returned id is the optimistic
// client id; the settled row may carry a different one.
func (h *AdminHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateSectionName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	id := st.AddCategory(req.Name, nil)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
}

// RenameCategory renames a category.
func (h *AdminHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	categoryID, ok := uuidParam(w, r, "categoryID")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateSectionName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	st.RenameCategory(categoryID, req.Name, nil)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

// DeleteCategory removes a category and everything under it.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	categoryID, ok := uuidParam(w, r, "categoryID")
	if !ok {
		return
	}

	st.DeleteCategory(categoryID, nil)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ReorderCategories rewrites the top-level category order.
func (h *AdminHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	var req struct {
		OrderedIDs []uuid.UUID `json:"ordered_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := st.ReorderCategories(req.OrderedIDs, nil); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

// --- Subcategories ---

// AddSubcategory appends a subcategory to a category.
func (h *AdminHandler) AddSubcategory(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	categoryID, ok := uuidParam(w, r, "categoryID")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateSectionName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	id := st.AddSubcategory(categoryID, req.Name, nil)
	if id == uuid.Nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
}

// RenameSubcategory renames a subcategory.
func (h *AdminHandler) RenameSubcategory(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	subID, ok := uuidParam(w, r, "subcategoryID")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateSectionName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	st.RenameSubcategory(subID, req.Name, nil)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

// DeleteSubcategory removes a subcategory and its dishes.
func (h *AdminHandler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	subID, ok := uuidParam(w, r, "subcategoryID")
	if !ok {
		return
	}

	st.DeleteSubcategory(subID, nil)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ReorderSubcategories rewrites a category's subcategory order.
func (h *AdminHandler) ReorderSubcategories(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	categoryID, ok := uuidParam(w, r, "categoryID")
	if !ok {
		return
	}
	var req struct {
		OrderedIDs []uuid.UUID `json:"ordered_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := st.ReorderSubcategories(categoryID, req.OrderedIDs, nil); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

// --- Dishes ---

// AddDish appends a dish to a subcategory. The draft may carry a
// client-generated id, which survives into the stored row.
func (h *AdminHandler) AddDish(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	subID, ok := uuidParam(w, r, "subcategoryID")
	if !ok {
		return
	}
	var draft models.Dish
	if !decodeJSON(w, r, &draft) {
		return
	}
	if msg := validateDish(draft.Name, draft.Price); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if msg := validateAllergens(draft.Allergens); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	id := st.AddDish(subID, draft, nil)
	if id == uuid.Nil {
		writeError(w, http.StatusNotFound, "subcategory not found")
		return
	}
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
}

// UpdateDish merges a partial dish update.
func (h *AdminHandler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	dishID, ok := uuidParam(w, r, "dishID")
	if !ok {
		return
	}
	var patch models.DishPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.Name != nil {
		if msg := validateDish(*patch.Name, ""); msg != "" {
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
	}

	st.UpdateDish(dishID, patch, nil)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteDish removes a dish.
func (h *AdminHandler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	dishID, ok := uuidParam(w, r, "dishID")
	if !ok {
		return
	}

	st.DeleteDish(dishID, nil)
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ReorderDishes rewrites a subcategory's dish order.
func (h *AdminHandler) ReorderDishes(w http.ResponseWriter, r *http.Request) {
	st, restaurant, ok := h.liveStore(w, r)
	if !ok {
		return
	}
	subID, ok := uuidParam(w, r, "subcategoryID")
	if !ok {
		return
	}
	var req struct {
		OrderedIDs []uuid.UUID `json:"ordered_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := st.ReorderDishes(subID, req.OrderedIDs, nil); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.invalidateMenu(r.Context(), restaurant, broadcast.HintMenuUpdated)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}
