package handlers

import (
	"strings"
	"unicode/utf8"

	"menupress/internal/models"
)

// Validation limits for restaurant and menu fields.
const (
	maxNameLen        = 200
	maxSlugLen        = 200
	maxDescriptionLen = 2_000
	maxPriceLen       = 20
	maxThemeNameLen   = 100
	minGridColumns    = 1
	maxGridColumns    = 4
)

// validateRestaurant checks restaurant inputs and returns the first error found.
func validateRestaurant(name, slug string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Restaurant name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Restaurant name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 200 characters)."
	}
	return ""
}

// validateSectionName checks a category or subcategory name.
func validateSectionName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}

// validateDish checks dish inputs. Prices are normalized, not rejected,
// so only the length is bounded here.
func validateDish(name, price string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Dish name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Dish name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(price) > maxPriceLen {
		return "Price is too long (max 20 characters)."
	}
	return ""
}

// validateAllergens checks that every entry is in the known vocabulary.
func validateAllergens(in []string) string {
	known := make(map[string]bool, len(models.AllergenVocabulary))
	for _, a := range models.AllergenVocabulary {
		known[a] = true
	}
	for _, a := range in {
		if !known[a] {
			return "Unknown allergen: " + a + "."
		}
	}
	return ""
}

// validateGridColumns bounds the public layout column count.
func validateGridColumns(cols int) string {
	if cols < minGridColumns || cols > maxGridColumns {
		return "Grid columns must be between 1 and 4."
	}
	return ""
}

// validateThemeName checks a saved theme's name.
func validateThemeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Theme name is required."
	}
	if utf8.RuneCountInString(name) > maxThemeNameLen {
		return "Theme name is too long (max 100 characters)."
	}
	return ""
}
