// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all MenuPress
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// RestaurantStore handles all restaurant-related database operations.
type RestaurantStore struct {
	db *sql.DB
}

// NewRestaurantStore creates a new RestaurantStore with the given database connection.
func NewRestaurantStore(db *sql.DB) *RestaurantStore {
	return &RestaurantStore{db: db}
}

const restaurantColumns = `id, owner_id, name, slug, description, published, theme,
	show_prices, show_images, show_allergen_filter,
	grid_columns, density, font_size, badge_colors, created_at, updated_at`

// scanRestaurant scans a restaurant row from the result set.
func scanRestaurant(scanner interface{ Scan(...any) error }) (*models.Restaurant, error) {
	var r models.Restaurant
	err := scanner.Scan(
		&r.ID, &r.OwnerID, &r.Name, &r.Slug, &r.Description, &r.Published, &r.Theme,
		&r.ShowPrices, &r.ShowImages, &r.ShowAllergenFilter,
		&r.GridColumns, &r.Density, &r.FontSize, &r.BadgeColors, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListByOwner returns all restaurants owned by the given user.
func (s *RestaurantStore) ListByOwner(ownerID uuid.UUID) ([]models.Restaurant, error) {
	rows, err := s.db.Query(`
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list restaurants by owner: %w", err)
	}
	defer rows.Close()

	var items []models.Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// FindByID retrieves a restaurant by its UUID. Returns nil if not found.
func (s *RestaurantStore) FindByID(id uuid.UUID) (*models.Restaurant, error) {
	row := s.db.QueryRow(`SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id)
	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find restaurant by id: %w", err)
	}
	return r, nil
}

// FindBySlug retrieves a restaurant by its public slug regardless of
// published state. Public handlers must check Published themselves so
// they can render a distinct "unpublished" page.
func (s *RestaurantStore) FindBySlug(slug string) (*models.Restaurant, error) {
	row := s.db.QueryRow(`SELECT `+restaurantColumns+` FROM restaurants WHERE slug = $1`, slug)
	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find restaurant by slug: %w", err)
	}
	return r, nil
}

// Create inserts a new restaurant and returns it with the generated ID.
// The default theme is applied when none is set.
func (s *RestaurantStore) Create(r *models.Restaurant) (*models.Restaurant, error) {
	if r.Theme.Name == "" {
		r.Theme = models.DefaultTheme()
	}
	if r.GridColumns == 0 {
		r.GridColumns = 2
	}
	if r.Density == "" {
		r.Density = "comfortable"
	}
	if r.FontSize == "" {
		r.FontSize = "md"
	}

	row := s.db.QueryRow(`
		INSERT INTO restaurants (owner_id, name, slug, description, published, theme,
			show_prices, show_images, show_allergen_filter,
			grid_columns, density, font_size, badge_colors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+restaurantColumns,
		r.OwnerID, r.Name, r.Slug, r.Description, r.Published, r.Theme,
		r.ShowPrices, r.ShowImages, r.ShowAllergenFilter,
		r.GridColumns, r.Density, r.FontSize, r.BadgeColors,
	)
	result, err := scanRestaurant(row)
	if err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return result, nil
}

// Update persists a full restaurant row (used after an in-memory patch).
func (s *RestaurantStore) Update(r *models.Restaurant) error {
	_, err := s.db.Exec(`
		UPDATE restaurants SET
			name = $1, slug = $2, description = $3, published = $4, theme = $5,
			show_prices = $6, show_images = $7, show_allergen_filter = $8,
			grid_columns = $9, density = $10, font_size = $11, badge_colors = $12,
			updated_at = NOW()
		WHERE id = $13
	`, r.Name, r.Slug, r.Description, r.Published, r.Theme,
		r.ShowPrices, r.ShowImages, r.ShowAllergenFilter,
		r.GridColumns, r.Density, r.FontSize, r.BadgeColors, r.ID)
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	return nil
}

// SetPublished flips the publish flag.
func (s *RestaurantStore) SetPublished(id uuid.UUID, published bool) error {
	result, err := s.db.Exec(`
		UPDATE restaurants SET published = $1, updated_at = NOW() WHERE id = $2
	`, published, id)
	if err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("restaurant not found")
	}
	return nil
}

// SetTheme stores the active theme on the restaurant row. Because the
// theme lives inline, this is what "activating" a theme means — the
// previous active theme is overwritten in the same statement.
func (s *RestaurantStore) SetTheme(id uuid.UUID, theme models.Theme) error {
	result, err := s.db.Exec(`
		UPDATE restaurants SET theme = $1, updated_at = NOW() WHERE id = $2
	`, theme, id)
	if err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("restaurant not found")
	}
	return nil
}

// Delete removes a restaurant by ID. Categories, subcategories, dishes,
// and the menu link cascade.
func (s *RestaurantStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	return nil
}

// SlugExists reports whether a slug is already taken.
func (s *RestaurantStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM restaurants WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}
