// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category is a top-level menu section (e.g. "Drinks"). Sibling
// categories are displayed in order_index order; after any reorder the
// stored indexes match array position.
type Category struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Name         string    `json:"name"`
	OrderIndex   int       `json:"order_index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Subcategory groups dishes within a category (e.g. "Hot Drinks").
// Same ordering contract as Category, scoped to the parent category.
type Subcategory struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Dish is a single menu item. Price is stored as a decimal string
// normalized to exactly two fractional digits on every write.
type Dish struct {
	ID            uuid.UUID `json:"id"`
	SubcategoryID uuid.UUID `json:"subcategory_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Price         string    `json:"price"`
	ImageURL      *string   `json:"image_url,omitempty"`

	// Badge flags shown on the public card.
	IsNew        bool `json:"is_new"`
	IsSpecial    bool `json:"is_special"`
	IsPopular    bool `json:"is_popular"`
	IsChefChoice bool `json:"is_chef_choice"`

	// Dietary flags.
	Vegetarian bool `json:"vegetarian"`
	Vegan      bool `json:"vegan"`
	Spicy      bool `json:"spicy"`

	Allergens  StringList `json:"allergens"`
	Calories   *int       `json:"calories,omitempty"`
	OrderIndex int        `json:"order_index"`
	HasOptions bool       `json:"has_options"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DishOption is a mutually exclusive selection on a dish (e.g. size).
type DishOption struct {
	ID         uuid.UUID `json:"id"`
	DishID     uuid.UUID `json:"dish_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// DishModifier is an additive add-on on a dish (e.g. extra cheese).
type DishModifier struct {
	ID         uuid.UUID `json:"id"`
	DishID     uuid.UUID `json:"dish_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// DishPatch carries a partial update to a dish. Nil fields are untouched.
type DishPatch struct {
	Name         *string     `json:"name,omitempty"`
	Description  *string     `json:"description,omitempty"`
	Price        *string     `json:"price,omitempty"`
	ImageURL     *string     `json:"image_url,omitempty"`
	IsNew        *bool       `json:"is_new,omitempty"`
	IsSpecial    *bool       `json:"is_special,omitempty"`
	IsPopular    *bool       `json:"is_popular,omitempty"`
	IsChefChoice *bool       `json:"is_chef_choice,omitempty"`
	Vegetarian   *bool       `json:"vegetarian,omitempty"`
	Vegan        *bool       `json:"vegan,omitempty"`
	Spicy        *bool       `json:"spicy,omitempty"`
	Allergens    *StringList `json:"allergens,omitempty"`
	Calories     *int        `json:"calories,omitempty"`
	HasOptions   *bool       `json:"has_options,omitempty"`
}

// Apply merges the patch into the dish in place. Prices are normalized
// and allergens filtered to the known vocabulary — malformed input is
// corrected, not rejected.
func (p *DishPatch) Apply(d *Dish) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = p.Description
	}
	if p.Price != nil {
		d.Price = NormalizePrice(*p.Price)
	}
	if p.ImageURL != nil {
		d.ImageURL = p.ImageURL
	}
	if p.IsNew != nil {
		d.IsNew = *p.IsNew
	}
	if p.IsSpecial != nil {
		d.IsSpecial = *p.IsSpecial
	}
	if p.IsPopular != nil {
		d.IsPopular = *p.IsPopular
	}
	if p.IsChefChoice != nil {
		d.IsChefChoice = *p.IsChefChoice
	}
	if p.Vegetarian != nil {
		d.Vegetarian = *p.Vegetarian
	}
	if p.Vegan != nil {
		d.Vegan = *p.Vegan
	}
	if p.Spicy != nil {
		d.Spicy = *p.Spicy
	}
	if p.Allergens != nil {
		d.Allergens = FilterAllergens(*p.Allergens)
	}
	if p.Calories != nil {
		cal := *p.Calories
		if cal < 0 {
			cal = 0
		}
		d.Calories = &cal
	}
	if p.HasOptions != nil {
		d.HasOptions = *p.HasOptions
	}
}

// StringList is a JSONB-backed string slice column.
type StringList []string

// Value serializes the list to JSONB.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan deserializes the list from a JSONB column.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("string list: unsupported scan type %T", src)
	}
}

// AllergenVocabulary is the fixed set of allergens a dish may declare,
// following the EU-14 list.
var AllergenVocabulary = []string{
	"gluten", "crustaceans", "eggs", "fish", "peanuts", "soy", "milk",
	"nuts", "celery", "mustard", "sesame", "sulphites", "lupin", "molluscs",
}

// FilterAllergens drops entries outside the vocabulary and duplicates,
// preserving input order.
func FilterAllergens(in []string) StringList {
	known := make(map[string]bool, len(AllergenVocabulary))
	for _, a := range AllergenVocabulary {
		known[a] = true
	}
	var out StringList
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		if known[a] && !seen[a] {
			out = append(out, a)
			seen[a] = true
		}
	}
	return out
}

// FullMenu is the nested authoritative snapshot of a restaurant's menu,
// the shape returned by the full-menu query.
type FullMenu struct {
	Restaurant Restaurant     `json:"restaurant"`
	Categories []CategoryTree `json:"categories"`
}

// CategoryTree is a category with its nested subcategories.
type CategoryTree struct {
	Category
	Subcategories []SubcategoryTree `json:"subcategories"`
}

// SubcategoryTree is a subcategory with its nested dishes.
type SubcategoryTree struct {
	Subcategory
	Dishes []DishTree `json:"dishes"`
}

// DishTree is a dish with its options and modifiers.
type DishTree struct {
	Dish
	Options   []DishOption   `json:"options"`
	Modifiers []DishModifier `json:"modifiers"`
}
