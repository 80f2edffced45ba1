// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// CategoryStore manages menu categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, restaurant_id, name, order_index, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.OrderIndex, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByRestaurant returns all categories of a restaurant in display order.
func (s *CategoryStore) ListByRestaurant(restaurantID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+`
		FROM categories
		WHERE restaurant_id = $1
		ORDER BY order_index, created_at
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (id, restaurant_id, name, order_index)
		VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4)
		RETURNING `+categoryColumns,
		orGenerated(c.ID), c.RestaurantID, c.Name, c.OrderIndex,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Rename updates a category's name.
func (s *CategoryStore) Rename(id uuid.UUID, name string) error {
	result, err := s.db.Exec(`
		UPDATE categories SET name = $1, updated_at = NOW() WHERE id = $2
	`, name, id)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}

// Delete removes a category by ID. Subcategories and dishes cascade.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// NextOrderIndex returns the order_index for a category appended at the
// end of the restaurant's list.
func (s *CategoryStore) NextOrderIndex(restaurantID uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(order_index) FROM categories WHERE restaurant_id = $1
	`, restaurantID).Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// orGenerated passes a caller-chosen UUID through, or asks Postgres to
// generate one when the zero UUID is given. Lets the optimistic layer
// keep its client-side identifier as the row's real identity.
func orGenerated(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
