// Package slug derives URL-safe, collision-free project identifiers from
// display names.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Fallback is the base slug used when a name has no ASCII letters or digits.
const Fallback = "project"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Checker reports whether a slug is held by any project other than excludeID.
// An excludeID of 0 excludes nothing.
type Checker interface {
	SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error)
}

// Normalize lower-cases and trims name, collapses every run of characters
// outside [a-z0-9] into a single hyphen and strips leading/trailing hyphens.
//
//	Normalize("My Cool Project!!") // "my-cool-project"
//	Normalize("  Go -- Tools  ")    // "go-tools"
//	Normalize("!!!")                // ""
func Normalize(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Base is Normalize with the empty result replaced by Fallback.
func Base(name string) string {
	if s := Normalize(name); s != "" {
		return s
	}
	return Fallback
}

// EnsureUnique returns base if it is free, otherwise the first of base-1,
// base-2, ... that no other project holds.
func EnsureUnique(ctx context.Context, c Checker, base string, excludeID int64) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		taken, err := c.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

// Assign derives the unique slug for name.
func Assign(ctx context.Context, c Checker, name string, excludeID int64) (string, error) {
	return EnsureUnique(ctx, c, Base(name), excludeID)
}
