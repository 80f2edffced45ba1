// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// link.go persists the short menu links that back the public /m/ URLs.
// A restaurant has at most one active link; creation is an idempotent
// upsert so that repeated share attempts converge on the same URL.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// LinkStore manages short menu links.
type LinkStore struct {
	db *sql.DB
}

// NewLinkStore returns a new LinkStore.
func NewLinkStore(db *sql.DB) *LinkStore {
	return &LinkStore{db: db}
}

const linkColumns = `id, restaurant_id, restaurant_hash, menu_id, active, created_at`

// scanLink scans a row into a MenuLink struct.
func scanLink(scanner interface{ Scan(...any) error }) (*models.MenuLink, error) {
	var l models.MenuLink
	err := scanner.Scan(&l.ID, &l.RestaurantID, &l.RestaurantHash, &l.MenuID, &l.Active, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Upsert inserts the link for a restaurant, or returns the existing one
// unchanged when a row for the restaurant is already present. The hash
// and menu id are deterministic, so conflicting values never occur.
func (s *LinkStore) Upsert(restaurantID uuid.UUID, restaurantHash, menuID string) (*models.MenuLink, error) {
	row := s.db.QueryRow(`
		INSERT INTO menu_links (restaurant_id, restaurant_hash, menu_id, active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (restaurant_id) DO UPDATE SET active = TRUE
		RETURNING `+linkColumns,
		restaurantID, restaurantHash, menuID)
	l, err := scanLink(row)
	if err != nil {
		return nil, fmt.Errorf("upsert menu link: %w", err)
	}
	return l, nil
}

// FindActiveByRestaurant returns the restaurant's active link, or nil
// when none has been created yet.
func (s *LinkStore) FindActiveByRestaurant(restaurantID uuid.UUID) (*models.MenuLink, error) {
	row := s.db.QueryRow(`
		SELECT `+linkColumns+` FROM menu_links
		WHERE restaurant_id = $1 AND active = TRUE
	`, restaurantID)
	l, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find menu link: %w", err)
	}
	return l, nil
}

// FindByHash resolves a public short URL's hash/menu-id pair to its
// link row. Returns nil if no active link matches — the public handler
// renders its not-found page in that case.
func (s *LinkStore) FindByHash(restaurantHash, menuID string) (*models.MenuLink, error) {
	row := s.db.QueryRow(`
		SELECT `+linkColumns+` FROM menu_links
		WHERE restaurant_hash = $1 AND menu_id = $2 AND active = TRUE
	`, restaurantHash, menuID)
	l, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve menu link: %w", err)
	}
	return l, nil
}

// Deactivate turns a restaurant's link off without deleting the row, so
// the same URL can be re-enabled later.
func (s *LinkStore) Deactivate(restaurantID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE menu_links SET active = FALSE WHERE restaurant_id = $1
	`, restaurantID)
	if err != nil {
		return fmt.Errorf("deactivate menu link: %w", err)
	}
	return nil
}
