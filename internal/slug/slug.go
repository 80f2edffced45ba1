// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// maxUniqueAttempts bounds the numeric suffix search.
const maxUniqueAttempts = 100

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Unique returns base, or base with the lowest numeric suffix ("-2",
// "-3", ...) that taken reports as free. base is slugified first; an
// empty result falls back to "menu".
func Unique(base string, taken func(string) (bool, error)) (string, error) {
	candidate := Generate(base)
	if candidate == "" {
		candidate = "menu"
	}

	exists, err := taken(candidate)
	if err != nil {
		return "", err
	}
	if !exists {
		return candidate, nil
	}

	for i := 2; i <= maxUniqueAttempts; i++ {
		suffixed := fmt.Sprintf("%s-%d", candidate, i)
		exists, err := taken(suffixed)
		if err != nil {
			return "", err
		}
		if !exists {
			return suffixed, nil
		}
	}
	return "", fmt.Errorf("no free slug for %q", candidate)
}
