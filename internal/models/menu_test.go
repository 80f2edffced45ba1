package models

import (
	"testing"
	"time"
)

// timeAgo returns a pointer to now shifted by the given number of days.
func timeAgo(days int) *time.Time {
	t := time.Now().AddDate(0, 0, days)
	return &t
}

func TestFilterAllergens(t *testing.T) {
	got := FilterAllergens([]string{"milk", "plutonium", "gluten", "milk", "MILK"})
	want := []string{"milk", "gluten"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDishPatchApply(t *testing.T) {
	desc := "Old description"
	dish := Dish{
		Name:        "Espresso",
		Description: &desc,
		Price:       "3.00",
		Vegan:       true,
	}

	price := "4.5"
	calories := -10
	allergens := StringList{"milk", "asbestos"}
	spicy := true
	patch := DishPatch{
		Price:     &price,
		Calories:  &calories,
		Allergens: &allergens,
		Spicy:     &spicy,
	}
	patch.Apply(&dish)

	if dish.Price != "4.50" {
		t.Errorf("price not normalized: %q", dish.Price)
	}
	if dish.Calories == nil || *dish.Calories != 0 {
		t.Errorf("negative calories not clamped: %v", dish.Calories)
	}
	if len(dish.Allergens) != 1 || dish.Allergens[0] != "milk" {
		t.Errorf("allergens not filtered: %v", dish.Allergens)
	}
	if !dish.Spicy {
		t.Error("spicy flag not applied")
	}

	// Untouched fields survive.
	if dish.Name != "Espresso" || !dish.Vegan || dish.Description == nil {
		t.Error("nil patch fields must leave the dish alone")
	}
}

func TestRestaurantPatchApply(t *testing.T) {
	r := Restaurant{Name: "Old Name", Slug: "old-slug", GridColumns: 2, Published: false}

	name := "New Name"
	published := true
	cols := 3
	patch := RestaurantPatch{Name: &name, Published: &published, GridColumns: &cols}
	patch.Apply(&r)

	if r.Name != "New Name" || !r.Published || r.GridColumns != 3 {
		t.Errorf("patch not applied: %+v", r)
	}
	if r.Slug != "old-slug" {
		t.Errorf("untouched field changed: %q", r.Slug)
	}
}

func TestThemePresets(t *testing.T) {
	if len(ThemePresets) < 15 {
		t.Fatalf("expected a rich preset catalog, got %d", len(ThemePresets))
	}

	seen := make(map[string]bool)
	for _, p := range ThemePresets {
		if p.Name == "" {
			t.Error("preset without a name")
		}
		if seen[p.Name] {
			t.Errorf("duplicate preset name %q", p.Name)
		}
		seen[p.Name] = true
		if p.Mode != ThemeModeLight && p.Mode != ThemeModeDark {
			t.Errorf("preset %q has invalid mode %q", p.Name, p.Mode)
		}
		for _, key := range []string{"background", "foreground", "primary", "card", "muted", "accent"} {
			if p.Colors[key] == "" {
				t.Errorf("preset %q missing color %q", p.Name, key)
			}
		}
		if p.FontHeading == "" || p.FontBody == "" || p.Radius == "" {
			t.Errorf("preset %q incomplete", p.Name)
		}
	}

	if PresetByName("midnight") == nil {
		t.Error("expected midnight preset")
	}
	if PresetByName("does-not-exist") != nil {
		t.Error("unknown preset should be nil")
	}
	if DefaultTheme().Name != "classic" {
		t.Errorf("unexpected default theme %q", DefaultTheme().Name)
	}
}

func TestSubscriptionIsActive(t *testing.T) {
	past := timeAgo(-1)
	future := timeAgo(1)

	cases := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"active no period end", Subscription{Status: SubscriptionActive}, true},
		{"trialing", Subscription{Status: SubscriptionTrialing, CurrentPeriodEnd: future}, true},
		{"active expired period", Subscription{Status: SubscriptionActive, CurrentPeriodEnd: past}, false},
		{"past due", Subscription{Status: SubscriptionPastDue}, false},
		{"canceled", Subscription{Status: SubscriptionCanceled}, false},
	}
	for _, c := range cases {
		if got := c.sub.IsActive(); got != c.want {
			t.Errorf("%s: IsActive() = %v, want %v", c.name, got, c.want)
		}
	}
}
