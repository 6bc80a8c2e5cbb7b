// Package genre provides genre name normalization and slugging.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// canonical maps verbose upstream genre names to the short form we display.
// IGDB in particular ships names like "Role-playing (RPG)".
var canonical = map[string]string{
	"role-playing (rpg)":           "RPG",
	"turn-based strategy (tbs)":    "Turn-Based Strategy",
	"real time strategy (rts)":     "Real-Time Strategy",
	"hack and slash/beat 'em up":   "Hack and Slash",
	"card & board game":            "Card & Board",
	"quiz/trivia":                  "Quiz",
	"moba":                         "MOBA",
}

// Canonical returns the preferred display form of a genre name.
// Unknown names are returned trimmed but otherwise unchanged.
func Canonical(name string) string {
	name = strings.TrimSpace(name)
	if short, ok := canonical[strings.ToLower(name)]; ok {
		return short
	}
	return name
}

// Normalize canonicalizes a genre list, dropping empties and duplicates
// while preserving order.
func Normalize(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = Canonical(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Slugify converts a genre name to a URL-safe slug.
// "Real-Time Strategy" -> "real-time-strategy".
// "Hack and Slash" -> "hack-and-slash".
func Slugify(s string) string {
	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	// Remove non-ASCII characters.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	// Lowercase.
	s = strings.ToLower(s)

	// Replace non-alphanumeric with hyphens.
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	// Collapse multiple hyphens.
	s = multipleHyphens.ReplaceAllString(s, "-")

	// Trim leading/trailing hyphens.
	s = strings.Trim(s, "-")

	return s
}
