package handlers

import (
	"strings"
	"testing"
)

func TestValidateRestaurant(t *testing.T) {
	if msg := validateRestaurant("Good Name", "good-name"); msg != "" {
		t.Errorf("valid input rejected: %q", msg)
	}
	if msg := validateRestaurant("", ""); msg == "" {
		t.Error("empty name accepted")
	}
	if msg := validateRestaurant("   ", ""); msg == "" {
		t.Error("whitespace name accepted")
	}
	if msg := validateRestaurant(strings.Repeat("x", 201), ""); msg == "" {
		t.Error("overlong name accepted")
	}
	if msg := validateRestaurant("ok", strings.Repeat("s", 201)); msg == "" {
		t.Error("overlong slug accepted")
	}
}

func TestValidateDish(t *testing.T) {
	if msg := validateDish("Espresso", "3.50"); msg != "" {
		t.Errorf("valid dish rejected: %q", msg)
	}
	if msg := validateDish("", "3.50"); msg == "" {
		t.Error("empty dish name accepted")
	}
	// Malformed prices pass validation; they are normalized, not rejected.
	if msg := validateDish("Espresso", "not-a-price"); msg != "" {
		t.Errorf("malformed price should be accepted for normalization: %q", msg)
	}
	if msg := validateDish("Espresso", strings.Repeat("9", 21)); msg == "" {
		t.Error("overlong price accepted")
	}
}

func TestValidateAllergens(t *testing.T) {
	if msg := validateAllergens([]string{"gluten", "milk"}); msg != "" {
		t.Errorf("known allergens rejected: %q", msg)
	}
	msg := validateAllergens([]string{"gluten", "unobtainium"})
	if msg == "" {
		t.Fatal("unknown allergen accepted")
	}
	if !strings.Contains(msg, "unobtainium") {
		t.Errorf("error should name the offender: %q", msg)
	}
}

func TestValidateGridColumns(t *testing.T) {
	for _, cols := range []int{1, 2, 3, 4} {
		if msg := validateGridColumns(cols); msg != "" {
			t.Errorf("columns %d rejected: %q", cols, msg)
		}
	}
	for _, cols := range []int{0, -1, 5, 100} {
		if msg := validateGridColumns(cols); msg == "" {
			t.Errorf("columns %d accepted", cols)
		}
	}
}

func TestValidateThemeName(t *testing.T) {
	if msg := validateThemeName("Warm Autumn"); msg != "" {
		t.Errorf("valid theme name rejected: %q", msg)
	}
	if msg := validateThemeName(""); msg == "" {
		t.Error("empty theme name accepted")
	}
	if msg := validateThemeName(strings.Repeat("t", 101)); msg == "" {
		t.Error("overlong theme name accepted")
	}
}
