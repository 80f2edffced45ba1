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

// DishStore manages dishes in the database.
type DishStore struct {
	db *sql.DB
}

// NewDishStore returns a new DishStore.
func NewDishStore(db *sql.DB) *DishStore {
	return &DishStore{db: db}
}

const dishColumns = `id, subcategory_id, name, description, price, image_url,
	is_new, is_special, is_popular, is_chef_choice,
	vegetarian, vegan, spicy, allergens, calories, order_index, has_options,
	created_at, updated_at`

// scanDish scans a row into a Dish struct.
func scanDish(scanner interface{ Scan(...any) error }) (*models.Dish, error) {
	var d models.Dish
	err := scanner.Scan(
		&d.ID, &d.SubcategoryID, &d.Name, &d.Description, &d.Price, &d.ImageURL,
		&d.IsNew, &d.IsSpecial, &d.IsPopular, &d.IsChefChoice,
		&d.Vegetarian, &d.Vegan, &d.Spicy, &d.Allergens, &d.Calories, &d.OrderIndex, &d.HasOptions,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListBySubcategory returns all dishes of a subcategory in display order.
func (s *DishStore) ListBySubcategory(subcategoryID uuid.UUID) ([]models.Dish, error) {
	rows, err := s.db.Query(`
		SELECT `+dishColumns+`
		FROM dishes
		WHERE subcategory_id = $1
		ORDER BY order_index, created_at
	`, subcategoryID)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	var items []models.Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

// FindByID retrieves a dish by ID. Returns nil if not found.
func (s *DishStore) FindByID(id uuid.UUID) (*models.Dish, error) {
	row := s.db.QueryRow(`SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id)
	d, err := scanDish(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find dish by id: %w", err)
	}
	return d, nil
}

// Create inserts a new dish and returns it. The price is normalized
// before hitting the database.
func (s *DishStore) Create(d *models.Dish) (*models.Dish, error) {
	d.Price = models.NormalizePrice(d.Price)
	d.Allergens = models.FilterAllergens(d.Allergens)

	row := s.db.QueryRow(`
		INSERT INTO dishes (id, subcategory_id, name, description, price, image_url,
			is_new, is_special, is_popular, is_chef_choice,
			vegetarian, vegan, spicy, allergens, calories, order_index, has_options)
		VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+dishColumns,
		orGenerated(d.ID), d.SubcategoryID, d.Name, d.Description, d.Price, d.ImageURL,
		d.IsNew, d.IsSpecial, d.IsPopular, d.IsChefChoice,
		d.Vegetarian, d.Vegan, d.Spicy, d.Allergens, d.Calories, d.OrderIndex, d.HasOptions,
	)
	result, err := scanDish(row)
	if err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}
	return result, nil
}

// Update persists a full dish row (used after an in-memory patch merge).
func (s *DishStore) Update(d *models.Dish) error {
	d.Price = models.NormalizePrice(d.Price)
	d.Allergens = models.FilterAllergens(d.Allergens)

	_, err := s.db.Exec(`
		UPDATE dishes SET
			name = $1, description = $2, price = $3, image_url = $4,
			is_new = $5, is_special = $6, is_popular = $7, is_chef_choice = $8,
			vegetarian = $9, vegan = $10, spicy = $11, allergens = $12,
			calories = $13, has_options = $14, updated_at = NOW()
		WHERE id = $15
	`, d.Name, d.Description, d.Price, d.ImageURL,
		d.IsNew, d.IsSpecial, d.IsPopular, d.IsChefChoice,
		d.Vegetarian, d.Vegan, d.Spicy, d.Allergens,
		d.Calories, d.HasOptions, d.ID)
	if err != nil {
		return fmt.Errorf("update dish: %w", err)
	}
	return nil
}

// Delete removes a dish by ID. Options and modifiers cascade.
func (s *DishStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	return nil
}

// NextOrderIndex returns the order_index for a dish appended at the end
// of its subcategory's list.
func (s *DishStore) NextOrderIndex(subcategoryID uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(order_index) FROM dishes WHERE subcategory_id = $1
	`, subcategoryID).Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}
