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

// ThemeMode selects the light or dark rendition of a palette.
type ThemeMode string

const (
	ThemeModeLight ThemeMode = "light"
	ThemeModeDark  ThemeMode = "dark"
)

// Theme is the visual configuration of a public menu page: a named HSL
// palette, a heading/body font pair, light/dark mode, and corner radius.
// The active theme is stored inline on the restaurant row; either a
// preset or a user-saved custom theme.
type Theme struct {
	Name        string            `json:"name"`
	Mode        ThemeMode         `json:"mode"`
	Colors      map[string]string `json:"colors"` // name → "H S% L%" triple
	FontHeading string            `json:"font_heading"`
	FontBody    string            `json:"font_body"`
	Radius      string            `json:"radius"` // CSS length, e.g. "0.5rem"
}

// Value serializes the theme to JSONB for the restaurant row.
func (t Theme) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan deserializes the theme from a JSONB column.
func (t *Theme) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = DefaultTheme()
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("theme: unsupported scan type %T", src)
	}
}

// UserTheme is a custom theme saved by a user for reuse across their
// restaurants.
type UserTheme struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Theme     Theme     `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// palette is a shorthand constructor for preset color maps.
func palette(bg, fg, primary, card, muted, accent string) map[string]string {
	return map[string]string{
		"background": bg,
		"foreground": fg,
		"primary":    primary,
		"card":       card,
		"muted":      muted,
		"accent":     accent,
	}
}

// ThemePresets are the built-in themes offered by the editor. Names are
// stable identifiers — saved restaurants reference the full payload, so
// tweaking a preset never mutates existing menus.
var ThemePresets = []Theme{
	{Name: "classic", Mode: ThemeModeLight, Colors: palette("0 0% 100%", "222 47% 11%", "222 47% 11%", "210 40% 98%", "215 16% 47%", "210 40% 96%"), FontHeading: "Playfair Display", FontBody: "Inter", Radius: "0.5rem"},
	{Name: "bistro", Mode: ThemeModeLight, Colors: palette("36 45% 96%", "24 30% 16%", "24 70% 40%", "36 45% 99%", "24 15% 45%", "36 60% 90%"), FontHeading: "Cormorant Garamond", FontBody: "Lato", Radius: "0.25rem"},
	{Name: "trattoria", Mode: ThemeModeLight, Colors: palette("48 40% 97%", "20 30% 18%", "4 70% 42%", "48 40% 100%", "20 12% 48%", "90 30% 88%"), FontHeading: "Lora", FontBody: "Source Sans 3", Radius: "0.375rem"},
	{Name: "brasserie", Mode: ThemeModeDark, Colors: palette("220 25% 10%", "45 50% 92%", "45 80% 55%", "220 25% 14%", "220 10% 60%", "220 25% 20%"), FontHeading: "Cinzel", FontBody: "Raleway", Radius: "0.125rem"},
	{Name: "izakaya", Mode: ThemeModeDark, Colors: palette("0 0% 8%", "0 0% 95%", "350 80% 55%", "0 0% 12%", "0 0% 60%", "0 0% 18%"), FontHeading: "Noto Serif JP", FontBody: "Noto Sans JP", Radius: "0rem"},
	{Name: "cantina", Mode: ThemeModeLight, Colors: palette("45 80% 95%", "15 50% 20%", "15 85% 50%", "45 80% 99%", "15 25% 45%", "160 50% 85%"), FontHeading: "Bebas Neue", FontBody: "Nunito", Radius: "0.75rem"},
	{Name: "taverna", Mode: ThemeModeLight, Colors: palette("200 50% 97%", "210 50% 15%", "200 85% 40%", "200 50% 100%", "210 15% 50%", "200 60% 90%"), FontHeading: "Marcellus", FontBody: "Open Sans", Radius: "0.5rem"},
	{Name: "diner", Mode: ThemeModeLight, Colors: palette("0 0% 98%", "0 0% 10%", "350 85% 45%", "0 0% 100%", "0 0% 45%", "190 90% 90%"), FontHeading: "Oswald", FontBody: "Roboto", Radius: "1rem"},
	{Name: "steakhouse", Mode: ThemeModeDark, Colors: palette("20 20% 8%", "30 30% 92%", "20 70% 45%", "20 20% 12%", "20 10% 55%", "20 20% 18%"), FontHeading: "EB Garamond", FontBody: "Merriweather Sans", Radius: "0.25rem"},
	{Name: "seafood", Mode: ThemeModeLight, Colors: palette("195 60% 97%", "200 60% 14%", "190 90% 35%", "195 60% 100%", "200 18% 48%", "170 55% 88%"), FontHeading: "Josefin Sans", FontBody: "Karla", Radius: "0.5rem"},
	{Name: "vegan-garden", Mode: ThemeModeLight, Colors: palette("100 40% 97%", "120 35% 14%", "130 55% 35%", "100 40% 100%", "120 12% 45%", "80 50% 88%"), FontHeading: "Quicksand", FontBody: "Mulish", Radius: "1rem"},
	{Name: "patisserie", Mode: ThemeModeLight, Colors: palette("330 50% 98%", "330 30% 20%", "330 70% 60%", "330 50% 100%", "330 12% 50%", "45 70% 92%"), FontHeading: "Parisienne", FontBody: "Poppins", Radius: "1rem"},
	{Name: "coffeehouse", Mode: ThemeModeLight, Colors: palette("30 30% 95%", "25 40% 15%", "25 55% 35%", "30 30% 98%", "25 15% 45%", "30 40% 88%"), FontHeading: "Libre Baskerville", FontBody: "Work Sans", Radius: "0.375rem"},
	{Name: "midnight", Mode: ThemeModeDark, Colors: palette("240 30% 7%", "240 20% 94%", "260 80% 65%", "240 30% 11%", "240 10% 60%", "240 30% 16%"), FontHeading: "Space Grotesk", FontBody: "Inter", Radius: "0.5rem"},
	{Name: "noir", Mode: ThemeModeDark, Colors: palette("0 0% 5%", "0 0% 96%", "45 90% 55%", "0 0% 9%", "0 0% 55%", "0 0% 14%"), FontHeading: "Italiana", FontBody: "Montserrat", Radius: "0rem"},
	{Name: "street-food", Mode: ThemeModeLight, Colors: palette("50 100% 96%", "0 0% 12%", "25 95% 53%", "50 100% 100%", "0 0% 40%", "340 80% 88%"), FontHeading: "Anton", FontBody: "Rubik", Radius: "0.75rem"},
	{Name: "sushi-bar", Mode: ThemeModeLight, Colors: palette("0 0% 99%", "0 0% 10%", "155 40% 30%", "0 0% 100%", "0 0% 50%", "350 60% 92%"), FontHeading: "Zen Antique", FontBody: "Noto Sans", Radius: "0.125rem"},
	{Name: "alpine", Mode: ThemeModeLight, Colors: palette("210 25% 97%", "215 30% 16%", "215 55% 35%", "210 25% 100%", "215 12% 50%", "150 30% 88%"), FontHeading: "Fraunces", FontBody: "Figtree", Radius: "0.5rem"},
	{Name: "bodega", Mode: ThemeModeDark, Colors: palette("345 30% 9%", "30 40% 93%", "345 65% 50%", "345 30% 13%", "345 10% 58%", "345 30% 19%"), FontHeading: "Cardo", FontBody: "Jost", Radius: "0.375rem"},
	{Name: "minimal", Mode: ThemeModeLight, Colors: palette("0 0% 100%", "0 0% 7%", "0 0% 7%", "0 0% 98%", "0 0% 45%", "0 0% 94%"), FontHeading: "Inter", FontBody: "Inter", Radius: "0.25rem"},
}

// PresetByName returns the preset with the given name, or nil.
func PresetByName(name string) *Theme {
	for i := range ThemePresets {
		if ThemePresets[i].Name == name {
			return &ThemePresets[i]
		}
	}
	return nil
}

// DefaultTheme is the theme assigned to new restaurants.
func DefaultTheme() Theme {
	return ThemePresets[0]
}
