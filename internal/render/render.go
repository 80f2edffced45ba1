// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render produces the public themed menu pages. The page is a
// single built-in html/template; the restaurant's theme becomes CSS
// custom properties, so every restaurant shares one template and
// differs only in the injected variables.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"menupress/internal/models"
)

// Renderer renders the public menu, not-found, and unpublished pages.
type Renderer struct {
	menu        *template.Template
	notFound    *template.Template
	unpublished *template.Template
}

// New compiles the built-in templates.
func New() *Renderer {
	return &Renderer{
		menu:        template.Must(template.New("menu").Parse(menuTemplate)),
		notFound:    template.Must(template.New("notfound").Parse(notFoundTemplate)),
		unpublished: template.Must(template.New("unpublished").Parse(unpublishedTemplate)),
	}
}

// dishView is a dish prepared for the template: display price computed,
// badges and dietary markers flattened.
type dishView struct {
	Name        string
	Description string
	Price       string
	ImageURL    string
	Badges      []badgeView
	Dietary     []string
	Allergens   []string
	Calories    *int
	Options     []models.DishOption
	Modifiers   []models.DishModifier
}

type badgeView struct {
	Label string
	Color string
}

type subcategoryView struct {
	Name   string
	Dishes []dishView
}

type categoryView struct {
	Name          string
	Subcategories []subcategoryView
}

// pageView is everything the menu template sees.
type pageView struct {
	Name               string
	Description        string
	Mode               models.ThemeMode
	CSSVars            template.CSS
	FontHeading        string
	FontBody           string
	ShowPrices         bool
	ShowImages         bool
	ShowAllergenFilter bool
	GridColumns        int
	Density            string
	FontSize           string
	Allergens          []string
	Categories         []categoryView
}

// MenuPage renders the full public menu page for a restaurant.
func (r *Renderer) MenuPage(menu *models.FullMenu) ([]byte, error) {
	view := buildPageView(menu)
	var buf bytes.Buffer
	if err := r.menu.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render menu page: %w", err)
	}
	return buf.Bytes(), nil
}

// NotFoundPage renders the page served when a slug or short link does
// not resolve.
func (r *Renderer) NotFoundPage() []byte {
	var buf bytes.Buffer
	r.notFound.Execute(&buf, nil)
	return buf.Bytes()
}

// UnpublishedPage renders the page served when the restaurant exists
// but its menu is not public. Distinct from not-found on purpose: the
// owner following their own link should see why it is empty.
func (r *Renderer) UnpublishedPage(name string) []byte {
	var buf bytes.Buffer
	r.unpublished.Execute(&buf, struct{ Name string }{Name: name})
	return buf.Bytes()
}

func buildPageView(menu *models.FullMenu) pageView {
	restaurant := menu.Restaurant
	view := pageView{
		Name:               restaurant.Name,
		Mode:               restaurant.Theme.Mode,
		CSSVars:            cssVars(restaurant.Theme),
		FontHeading:        restaurant.Theme.FontHeading,
		FontBody:           restaurant.Theme.FontBody,
		ShowPrices:         restaurant.ShowPrices,
		ShowImages:         restaurant.ShowImages,
		ShowAllergenFilter: restaurant.ShowAllergenFilter,
		GridColumns:        restaurant.GridColumns,
		Density:            restaurant.Density,
		FontSize:           restaurant.FontSize,
	}
	if restaurant.Description != nil {
		view.Description = *restaurant.Description
	}
	if view.GridColumns < 1 {
		view.GridColumns = 1
	}

	allergens := make(map[string]bool)
	for _, cat := range menu.Categories {
		catView := categoryView{Name: cat.Name}
		for _, sub := range cat.Subcategories {
			subView := subcategoryView{Name: sub.Name}
			for _, dish := range sub.Dishes {
				subView.Dishes = append(subView.Dishes, buildDishView(&restaurant, dish))
				for _, a := range dish.Allergens {
					allergens[a] = true
				}
			}
			catView.Subcategories = append(catView.Subcategories, subView)
		}
		view.Categories = append(view.Categories, catView)
	}

	for a := range allergens {
		view.Allergens = append(view.Allergens, a)
	}
	sort.Strings(view.Allergens)
	return view
}

func buildDishView(restaurant *models.Restaurant, dish models.DishTree) dishView {
	dv := dishView{
		Name:      dish.Name,
		Price:     models.DisplayPrice(&dish.Dish, dish.Options, dish.Modifiers),
		Allergens: dish.Allergens,
		Calories:  dish.Calories,
		Options:   dish.Options,
		Modifiers: dish.Modifiers,
	}
	if dish.Description != nil {
		dv.Description = *dish.Description
	}
	if dish.ImageURL != nil {
		dv.ImageURL = *dish.ImageURL
	}

	badges := []struct {
		on    bool
		key   string
		label string
	}{
		{dish.IsNew, "new", "New"},
		{dish.IsSpecial, "special", "Special"},
		{dish.IsPopular, "popular", "Popular"},
		{dish.IsChefChoice, "chef", "Chef's Choice"},
	}
	for _, b := range badges {
		if b.on {
			dv.Badges = append(dv.Badges, badgeView{Label: b.label, Color: badgeColor(restaurant.BadgeColors, b.key)})
		}
	}

	if dish.Vegan {
		dv.Dietary = append(dv.Dietary, "Vegan")
	} else if dish.Vegetarian {
		dv.Dietary = append(dv.Dietary, "Vegetarian")
	}
	if dish.Spicy {
		dv.Dietary = append(dv.Dietary, "Spicy")
	}
	return dv
}

// defaultBadgeColors back the badges when the owner has not customized them.
var defaultBadgeColors = map[string]string{
	"new":     "#16a34a",
	"special": "#dc2626",
	"popular": "#ea580c",
	"chef":    "#7c3aed",
}

func badgeColor(custom models.BadgeColors, key string) string {
	if c, ok := custom[key]; ok && c != "" {
		return c
	}
	return defaultBadgeColors[key]
}

// cssVars flattens the theme into CSS custom properties. Palette values
// are HSL triples ("H S% L%"); pages use them as hsl(var(--color-x)).
func cssVars(theme models.Theme) template.CSS {
	var b strings.Builder
	keys := make([]string, 0, len(theme.Colors))
	for k := range theme.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "--color-%s: %s; ", cssSafe(k), cssSafe(theme.Colors[k]))
	}
	fmt.Fprintf(&b, "--radius: %s;", cssSafe(theme.Radius))
	return template.CSS(b.String())
}

// cssSafe strips characters that could break out of a declaration.
// Theme values come from presets or owner input; either way they end up
// inside a style attribute.
func cssSafe(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\'', '\\':
			return -1
		}
		return r
	}, v)
}
