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

// SubcategoryStore manages subcategories in the database.
type SubcategoryStore struct {
	db *sql.DB
}

// NewSubcategoryStore returns a new SubcategoryStore.
func NewSubcategoryStore(db *sql.DB) *SubcategoryStore {
	return &SubcategoryStore{db: db}
}

const subcategoryColumns = `id, category_id, name, order_index, created_at, updated_at`

// scanSubcategory scans a row into a Subcategory struct.
func scanSubcategory(scanner interface{ Scan(...any) error }) (*models.Subcategory, error) {
	var sc models.Subcategory
	err := scanner.Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.OrderIndex, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// ListByCategory returns all subcategories of a category in display order.
func (s *SubcategoryStore) ListByCategory(categoryID uuid.UUID) ([]models.Subcategory, error) {
	rows, err := s.db.Query(`
		SELECT `+subcategoryColumns+`
		FROM subcategories
		WHERE category_id = $1
		ORDER BY order_index, created_at
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var items []models.Subcategory
	for rows.Next() {
		sc, err := scanSubcategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, *sc)
	}
	return items, rows.Err()
}

// FindByID retrieves a subcategory by ID. Returns nil if not found.
func (s *SubcategoryStore) FindByID(id uuid.UUID) (*models.Subcategory, error) {
	row := s.db.QueryRow(`SELECT `+subcategoryColumns+` FROM subcategories WHERE id = $1`, id)
	sc, err := scanSubcategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by id: %w", err)
	}
	return sc, nil
}

// Create inserts a new subcategory and returns it.
func (s *SubcategoryStore) Create(sc *models.Subcategory) (*models.Subcategory, error) {
	row := s.db.QueryRow(`
		INSERT INTO subcategories (id, category_id, name, order_index)
		VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4)
		RETURNING `+subcategoryColumns,
		orGenerated(sc.ID), sc.CategoryID, sc.Name, sc.OrderIndex,
	)
	result, err := scanSubcategory(row)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return result, nil
}

// Rename updates a subcategory's name.
func (s *SubcategoryStore) Rename(id uuid.UUID, name string) error {
	result, err := s.db.Exec(`
		UPDATE subcategories SET name = $1, updated_at = NOW() WHERE id = $2
	`, name, id)
	if err != nil {
		return fmt.Errorf("rename subcategory: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("subcategory not found")
	}
	return nil
}

// Delete removes a subcategory by ID. Dishes cascade.
func (s *SubcategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return nil
}

// NextOrderIndex returns the order_index for a subcategory appended at
// the end of its category's list.
func (s *SubcategoryStore) NextOrderIndex(categoryID uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(order_index) FROM subcategories WHERE category_id = $1
	`, categoryID).Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}
