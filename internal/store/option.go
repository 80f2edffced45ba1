// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// option.go covers dish options (mutually exclusive choices, e.g. size)
// and dish modifiers (additive add-ons). Both tables have the same shape;
// the batched ReplaceFor write backs the editor's "save all" flow.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// OptionStore manages dish options and modifiers.
type OptionStore struct {
	db *sql.DB
}

// NewOptionStore returns a new OptionStore.
func NewOptionStore(db *sql.DB) *OptionStore {
	return &OptionStore{db: db}
}

// ListOptions returns a dish's options in display order.
func (s *OptionStore) ListOptions(dishID uuid.UUID) ([]models.DishOption, error) {
	rows, err := s.db.Query(`
		SELECT id, dish_id, name, price, order_index, created_at
		FROM dish_options
		WHERE dish_id = $1
		ORDER BY order_index, created_at
	`, dishID)
	if err != nil {
		return nil, fmt.Errorf("list dish options: %w", err)
	}
	defer rows.Close()

	var items []models.DishOption
	for rows.Next() {
		var o models.DishOption
		if err := rows.Scan(&o.ID, &o.DishID, &o.Name, &o.Price, &o.OrderIndex, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dish option: %w", err)
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

// ListModifiers returns a dish's modifiers in display order.
func (s *OptionStore) ListModifiers(dishID uuid.UUID) ([]models.DishModifier, error) {
	rows, err := s.db.Query(`
		SELECT id, dish_id, name, price, order_index, created_at
		FROM dish_modifiers
		WHERE dish_id = $1
		ORDER BY order_index, created_at
	`, dishID)
	if err != nil {
		return nil, fmt.Errorf("list dish modifiers: %w", err)
	}
	defer rows.Close()

	var items []models.DishModifier
	for rows.Next() {
		var m models.DishModifier
		if err := rows.Scan(&m.ID, &m.DishID, &m.Name, &m.Price, &m.OrderIndex, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dish modifier: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// ReplaceFor atomically replaces a dish's options and modifiers with the
// given sets, rewriting order_index to match slice position and setting
// the dish's has_options flag. This is the commit step of the editor's
// batched option/modifier dialog.
func (s *OptionStore) ReplaceFor(dishID uuid.UUID, options []models.DishOption, modifiers []models.DishModifier) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM dish_options WHERE dish_id = $1`, dishID); err != nil {
		return fmt.Errorf("clear dish options: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM dish_modifiers WHERE dish_id = $1`, dishID); err != nil {
		return fmt.Errorf("clear dish modifiers: %w", err)
	}

	for i, o := range options {
		_, err := tx.Exec(`
			INSERT INTO dish_options (dish_id, name, price, order_index)
			VALUES ($1, $2, $3, $4)
		`, dishID, o.Name, models.NormalizePrice(o.Price), i)
		if err != nil {
			return fmt.Errorf("insert dish option: %w", err)
		}
	}
	for i, m := range modifiers {
		_, err := tx.Exec(`
			INSERT INTO dish_modifiers (dish_id, name, price, order_index)
			VALUES ($1, $2, $3, $4)
		`, dishID, m.Name, models.NormalizePrice(m.Price), i)
		if err != nil {
			return fmt.Errorf("insert dish modifier: %w", err)
		}
	}

	if _, err := tx.Exec(`
		UPDATE dishes SET has_options = $1, updated_at = NOW() WHERE id = $2
	`, len(options) > 0, dishID); err != nil {
		return fmt.Errorf("update has_options: %w", err)
	}

	return tx.Commit()
}
