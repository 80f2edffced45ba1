// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// price.go holds the price normalization and display rules. Prices are
// decimal strings end to end — no float math on the write path.
package models

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// nonPriceChars matches everything except digits and dots.
var nonPriceChars = regexp.MustCompile(`[^0-9.]`)

// NormalizePrice coerces arbitrary input into a canonical two-decimal
// price string. Non-numeric characters are stripped, excess fractional
// digits truncated (not rounded), missing ones zero-padded. Garbage
// input normalizes to "0.00" rather than failing.
//
//	"12"     → "12.00"
//	"12.5"   → "12.50"
//	"12.345" → "12.34"
//	"$1,299" → "1299.00"
func NormalizePrice(raw string) string {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")

	intPart := cleaned
	frac := ""
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		intPart = cleaned[:i]
		// A second dot is noise; everything after it is dropped.
		frac = cleaned[i+1:]
		if j := strings.IndexByte(frac, '.'); j >= 0 {
			frac = frac[:j]
		}
	}

	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	return intPart + "." + frac
}

// PriceValue parses a normalized price string into a float for sorting
// and comparisons. Display code only — never used for storage.
func PriceValue(price string) float64 {
	v, _ := strconv.ParseFloat(NormalizePrice(price), 64)
	return v
}

// formatMinimal renders a price with the fewest decimals needed:
// "8.00" → "$8", "12.50" → "$12.50". Only a whole ".00" is dropped;
// nonzero cents always keep both digits.
func formatMinimal(price string) string {
	p := NormalizePrice(price)
	p = strings.TrimSuffix(p, ".00")
	return "$" + p
}

// DisplayPrice builds the price line shown on a public dish card. With
// options, the unique option prices are listed ascending; otherwise the
// dish's own price is shown. Modifiers append an add-ons marker.
//
//	options [8.00, 12.00, 12.00, 16.00] → "$8 / $12 / $16"
func DisplayPrice(dish *Dish, options []DishOption, modifiers []DishModifier) string {
	var out string
	if len(options) > 0 {
		seen := make(map[string]bool, len(options))
		var prices []string
		for _, o := range options {
			p := NormalizePrice(o.Price)
			if !seen[p] {
				prices = append(prices, p)
				seen[p] = true
			}
		}
		sort.Slice(prices, func(i, j int) bool {
			return PriceValue(prices[i]) < PriceValue(prices[j])
		})
		parts := make([]string, len(prices))
		for i, p := range prices {
			parts[i] = formatMinimal(p)
		}
		out = strings.Join(parts, " / ")
	} else {
		out = formatMinimal(dish.Price)
	}

	if len(modifiers) > 0 {
		out += " + Add-ons"
	}
	return out
}
