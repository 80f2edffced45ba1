// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// menu.go assembles the authoritative nested menu snapshot and provides
// the batched order-index rewrite shared by categories, subcategories,
// and dishes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"menupress/internal/models"
)

// MenuStore provides whole-menu reads and bulk ordering writes that span
// the per-table stores.
type MenuStore struct {
	db            *sql.DB
	restaurants   *RestaurantStore
	categories    *CategoryStore
	subcategories *SubcategoryStore
	dishes        *DishStore
	options       *OptionStore
}

// NewMenuStore returns a new MenuStore.
func NewMenuStore(db *sql.DB) *MenuStore {
	return &MenuStore{
		db:            db,
		restaurants:   NewRestaurantStore(db),
		categories:    NewCategoryStore(db),
		subcategories: NewSubcategoryStore(db),
		dishes:        NewDishStore(db),
		options:       NewOptionStore(db),
	}
}

// FullMenu returns the complete nested snapshot for a restaurant:
// restaurant → categories → subcategories → dishes (+options/modifiers),
// everything in display order. Returns nil if the restaurant is unknown.
//
// One query per level keyed by the restaurant's id set, assembled in
// memory — the Go equivalent of the get_restaurant_full_menu RPC.
func (s *MenuStore) FullMenu(ctx context.Context, restaurantID uuid.UUID) (*models.FullMenu, error) {
	restaurant, err := s.restaurants.FindByID(restaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, nil
	}

	categories, err := s.categories.ListByRestaurant(restaurantID)
	if err != nil {
		return nil, err
	}

	menu := &models.FullMenu{Restaurant: *restaurant}
	for _, cat := range categories {
		node := models.CategoryTree{Category: cat}

		subcategories, err := s.subcategories.ListByCategory(cat.ID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subcategories {
			subNode := models.SubcategoryTree{Subcategory: sub}

			dishes, err := s.dishes.ListBySubcategory(sub.ID)
			if err != nil {
				return nil, err
			}
			for _, dish := range dishes {
				dishNode := models.DishTree{Dish: dish}
				if dish.HasOptions {
					if dishNode.Options, err = s.options.ListOptions(dish.ID); err != nil {
						return nil, err
					}
				}
				if dishNode.Modifiers, err = s.options.ListModifiers(dish.ID); err != nil {
					return nil, err
				}
				subNode.Dishes = append(subNode.Dishes, dishNode)
			}
			node.Subcategories = append(node.Subcategories, subNode)
		}
		menu.Categories = append(menu.Categories, node)
	}

	return menu, nil
}

// OrderUpdate assigns a new order_index to a row.
type OrderUpdate struct {
	ID         uuid.UUID `json:"id"`
	OrderIndex int       `json:"order_index"`
}

// orderTables whitelists the tables the batch reorder may touch.
var orderTables = map[string]bool{
	"categories":    true,
	"subcategories": true,
	"dishes":        true,
}

// batchAttempts caps the bounded retry of the order-index rewrite.
const batchAttempts = 5

// BatchUpdateOrderIndexes rewrites order_index for every listed row of
// the given table in one transaction — the Go equivalent of the
// batch_update_order_indexes_optimized RPC. The write is idempotent, so
// transient failures are retried with capped exponential backoff.
func (s *MenuStore) BatchUpdateOrderIndexes(ctx context.Context, table string, updates []OrderUpdate) error {
	if !orderTables[table] {
		return fmt.Errorf("batch reorder: table %q not allowed", table)
	}
	if len(updates) == 0 {
		return nil
	}

	backoff := retry.WithMaxRetries(batchAttempts-1, retry.NewExponential(100*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.applyOrderUpdates(ctx, table, updates); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// applyOrderUpdates performs one transactional rewrite attempt.
func (s *MenuStore) applyOrderUpdates(ctx context.Context, table string, updates []OrderUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Table name is whitelisted above; only values are parameterized.
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`UPDATE %s SET order_index = $1, updated_at = $2 WHERE id = $3`, table))
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.OrderIndex, now, u.ID); err != nil {
			return fmt.Errorf("reorder %s %s: %w", table, u.ID, err)
		}
	}

	return tx.Commit()
}
