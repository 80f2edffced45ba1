// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Restaurant is the root of a menu tree. Each restaurant is owned by
// exactly one user account and is reachable publicly through its slug
// (and, once generated, its short link).
type Restaurant struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Published   bool      `json:"published"`

	// Active theme, stored inline on the restaurant row. Exactly one
	// theme is active at a time — swapping themes overwrites this value.
	Theme Theme `json:"theme"`

	// Public page display toggles.
	ShowPrices         bool `json:"show_prices"`
	ShowImages         bool `json:"show_images"`
	ShowAllergenFilter bool `json:"show_allergen_filter"`

	// Layout preferences for the public page.
	GridColumns int    `json:"grid_columns"`
	Density     string `json:"density"`   // "compact", "comfortable", "spacious"
	FontSize    string `json:"font_size"` // "sm", "md", "lg"

	BadgeColors BadgeColors `json:"badge_colors"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPublished returns true if the restaurant's menu is publicly visible.
func (r *Restaurant) IsPublished() bool {
	return r.Published
}

// BadgeColors maps badge names (new, special, popular, chef) to CSS colors.
type BadgeColors map[string]string

// Value serializes badge colors to JSONB for storage.
func (b BadgeColors) Value() (driver.Value, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b)
}

// Scan deserializes badge colors from a JSONB column.
func (b *BadgeColors) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*b = BadgeColors{}
		return nil
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("badge colors: unsupported scan type %T", src)
	}
}

// RestaurantPatch carries a partial update to a restaurant row. Nil
// fields are left untouched.
type RestaurantPatch struct {
	Name               *string      `json:"name,omitempty"`
	Slug               *string      `json:"slug,omitempty"`
	Description        *string      `json:"description,omitempty"`
	Published          *bool        `json:"published,omitempty"`
	Theme              *Theme       `json:"theme,omitempty"`
	ShowPrices         *bool        `json:"show_prices,omitempty"`
	ShowImages         *bool        `json:"show_images,omitempty"`
	ShowAllergenFilter *bool        `json:"show_allergen_filter,omitempty"`
	GridColumns        *int         `json:"grid_columns,omitempty"`
	Density            *string      `json:"density,omitempty"`
	FontSize           *string      `json:"font_size,omitempty"`
	BadgeColors        *BadgeColors `json:"badge_colors,omitempty"`
}

// Apply merges the patch into the restaurant in place.
func (p *RestaurantPatch) Apply(r *Restaurant) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Slug != nil {
		r.Slug = *p.Slug
	}
	if p.Description != nil {
		r.Description = p.Description
	}
	if p.Published != nil {
		r.Published = *p.Published
	}
	if p.Theme != nil {
		r.Theme = *p.Theme
	}
	if p.ShowPrices != nil {
		r.ShowPrices = *p.ShowPrices
	}
	if p.ShowImages != nil {
		r.ShowImages = *p.ShowImages
	}
	if p.ShowAllergenFilter != nil {
		r.ShowAllergenFilter = *p.ShowAllergenFilter
	}
	if p.GridColumns != nil {
		r.GridColumns = *p.GridColumns
	}
	if p.Density != nil {
		r.Density = *p.Density
	}
	if p.FontSize != nil {
		r.FontSize = *p.FontSize
	}
	if p.BadgeColors != nil {
		r.BadgeColors = *p.BadgeColors
	}
}
