// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package menustate holds the in-memory working copy of a restaurant's
// menu that the editor mutates optimistically. Edits apply to the
// snapshot immediately and persist in the background; the database is
// authoritative and wins on any refetch.
package menustate

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// CategoryNode is a category plus the ordered ids of its subcategories.
type CategoryNode struct {
	models.Category
	SubcategoryIDs []uuid.UUID
}

// SubcategoryNode is a subcategory plus the ordered ids of its dishes.
type SubcategoryNode struct {
	models.Subcategory
	DishIDs []uuid.UUID
}

// DishNode is a dish plus its options and modifiers.
type DishNode struct {
	models.Dish
	Options   []models.DishOption
	Modifiers []models.DishModifier
}

// Snapshot is the flat arena form of a full menu. Nodes live in maps
// keyed by id; ordering lives in the parent's child-id slice. Mutating
// one node never copies the rest of the tree.
type Snapshot struct {
	Restaurant    models.Restaurant
	CategoryIDs   []uuid.UUID
	Categories    map[uuid.UUID]*CategoryNode
	Subcategories map[uuid.UUID]*SubcategoryNode
	Dishes        map[uuid.UUID]*DishNode
	FetchedAt     time.Time
}

// FromFullMenu flattens a nested menu payload into arena form.
func FromFullMenu(menu *models.FullMenu) *Snapshot {
	snap := &Snapshot{
		Restaurant:    menu.Restaurant,
		Categories:    make(map[uuid.UUID]*CategoryNode),
		Subcategories: make(map[uuid.UUID]*SubcategoryNode),
		Dishes:        make(map[uuid.UUID]*DishNode),
		FetchedAt:     time.Now(),
	}
	for _, cat := range menu.Categories {
		node := &CategoryNode{Category: cat.Category}
		for _, sub := range cat.Subcategories {
			subNode := &SubcategoryNode{Subcategory: sub.Subcategory}
			for _, dish := range sub.Dishes {
				snap.Dishes[dish.ID] = &DishNode{
					Dish:      dish.Dish,
					Options:   dish.Options,
					Modifiers: dish.Modifiers,
				}
				subNode.DishIDs = append(subNode.DishIDs, dish.ID)
			}
			snap.Subcategories[sub.ID] = subNode
			node.SubcategoryIDs = append(node.SubcategoryIDs, sub.ID)
		}
		snap.Categories[cat.ID] = node
		snap.CategoryIDs = append(snap.CategoryIDs, cat.ID)
	}
	return snap
}

// Tree re-nests the arena into the serializable full-menu form.
func (s *Snapshot) Tree() *models.FullMenu {
	menu := &models.FullMenu{Restaurant: s.Restaurant}
	for _, catID := range s.CategoryIDs {
		cat := s.Categories[catID]
		catTree := models.CategoryTree{Category: cat.Category}
		for _, subID := range cat.SubcategoryIDs {
			sub := s.Subcategories[subID]
			subTree := models.SubcategoryTree{Subcategory: sub.Subcategory}
			for _, dishID := range sub.DishIDs {
				dish := s.Dishes[dishID]
				subTree.Dishes = append(subTree.Dishes, models.DishTree{
					Dish:      dish.Dish,
					Options:   dish.Options,
					Modifiers: dish.Modifiers,
				})
			}
			catTree.Subcategories = append(catTree.Subcategories, subTree)
		}
		menu.Categories = append(menu.Categories, catTree)
	}
	return menu
}

// subcategoryOf returns the subcategory node holding the given dish.
func (s *Snapshot) subcategoryOf(dishID uuid.UUID) *SubcategoryNode {
	dish, ok := s.Dishes[dishID]
	if !ok {
		return nil
	}
	return s.Subcategories[dish.SubcategoryID]
}

// categoryOf returns the category node holding the given subcategory.
func (s *Snapshot) categoryOf(subcategoryID uuid.UUID) *CategoryNode {
	sub, ok := s.Subcategories[subcategoryID]
	if !ok {
		return nil
	}
	return s.Categories[sub.CategoryID]
}

// removeID deletes the first occurrence of id from ids, preserving order.
func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// replaceID swaps old for new in place, keeping the position.
func replaceID(ids []uuid.UUID, old, new uuid.UUID) {
	for i, v := range ids {
		if v == old {
			ids[i] = new
			return
		}
	}
}

// renumberDishes rewrites order_index of a subcategory's dishes to match
// slice position, keeping sibling indexes contiguous from zero.
func (s *Snapshot) renumberDishes(sub *SubcategoryNode) {
	for i, id := range sub.DishIDs {
		if d, ok := s.Dishes[id]; ok {
			d.OrderIndex = i
		}
	}
}

// renumberSubcategories does the same for a category's subcategories.
func (s *Snapshot) renumberSubcategories(cat *CategoryNode) {
	for i, id := range cat.SubcategoryIDs {
		if sc, ok := s.Subcategories[id]; ok {
			sc.OrderIndex = i
		}
	}
}

// renumberCategories does the same for the restaurant's categories.
func (s *Snapshot) renumberCategories() {
	for i, id := range s.CategoryIDs {
		if c, ok := s.Categories[id]; ok {
			c.OrderIndex = i
		}
	}
}

// validateOrdering checks that orderedIDs is a permutation of current.
func validateOrdering(current, orderedIDs []uuid.UUID) error {
	if len(current) != len(orderedIDs) {
		return fmt.Errorf("reorder: got %d ids, have %d", len(orderedIDs), len(current))
	}
	seen := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		seen[id] = true
	}
	for _, id := range orderedIDs {
		if !seen[id] {
			return fmt.Errorf("reorder: unknown id %s", id)
		}
		delete(seen, id)
	}
	return nil
}
