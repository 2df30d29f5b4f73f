package domain

import "strings"

// IconKey is a lowercase catalog key: a base name optionally followed by a
// theme suffix ("javascript-dark").
type IconKey string

// Base returns the portion of the key before the first "-".
func (k IconKey) Base() string {
	return BaseName(string(k))
}

// String implements fmt.Stringer.
func (k IconKey) String() string {
	return string(k)
}

// BaseName strips everything from the first "-" onward.
func BaseName(key string) string {
	if i := strings.IndexByte(key, '-'); i >= 0 {
		return key[:i]
	}
	return key
}

// Theme selects the light or dark variant of a themed icon.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	// DefaultTheme applies when the request does not name a theme.
	DefaultTheme = ThemeDark
)

// Themes lists the accepted theme literals.
var Themes = []Theme{ThemeLight, ThemeDark}

// OrDefault returns the theme, or DefaultTheme when it is empty.
func (t Theme) OrDefault() Theme {
	if t == "" {
		return DefaultTheme
	}
	return t
}

// Suffix returns the catalog key suffix for the theme, e.g. "-dark".
func (t Theme) Suffix() string {
	return "-" + string(t.OrDefault())
}

// IsThemedKey reports whether a catalog key carries a theme suffix.
func IsThemedKey(key string) bool {
	return strings.Contains(key, ThemeLight.Suffix()) || strings.Contains(key, ThemeDark.Suffix())
}

// CatalogProvider exposes the precomputed icon catalog. Keys returns the
// catalog keys in their stable catalog order.
type CatalogProvider interface {
	Keys() []string
	Lookup(key string) (string, bool)
}
