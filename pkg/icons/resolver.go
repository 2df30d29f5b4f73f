// Package icons resolves user-supplied icon tokens to catalog keys.
//
// A Resolver is derived once from the catalog at startup: it records the
// de-duplicated base names in catalog order and the set of base names that
// only exist as light/dark variants. Resolution then maps every token through
// the base-name set or the alias table and appends the theme suffix where the
// icon is themed. Tokens that resolve to nothing are dropped silently; an empty
// result is reported by the caller, not here.
package icons

import (
	"strings"

	"github.com/polisai/skillicons/pkg/domain"
)

// AllToken requests every known base name.
const AllToken = "all"

// Resolver is immutable after NewResolver and safe for concurrent use.
type Resolver struct {
	catalog   domain.CatalogProvider
	aliases   AliasTable
	baseNames []string
	known     map[string]struct{}
	themed    map[string]struct{}
}

// NewResolver derives base names and the themed set from the catalog. A nil
// alias table means DefaultAliases.
func NewResolver(catalog domain.CatalogProvider, aliases AliasTable) *Resolver {
	if aliases == nil {
		aliases = DefaultAliases
	}

	r := &Resolver{
		catalog: catalog,
		aliases: aliases,
		known:   make(map[string]struct{}),
		themed:  make(map[string]struct{}),
	}

	for _, key := range catalog.Keys() {
		base := domain.BaseName(key)
		if _, seen := r.known[base]; !seen {
			r.known[base] = struct{}{}
			r.baseNames = append(r.baseNames, base)
		}
		if domain.IsThemedKey(key) {
			r.themed[base] = struct{}{}
		}
	}

	return r
}

// BaseNames returns every base name in first-seen catalog order.
func (r *Resolver) BaseNames() []string {
	out := make([]string, len(r.baseNames))
	copy(out, r.baseNames)
	return out
}

// IsBaseName reports whether name is a known base name.
func (r *Resolver) IsBaseName(name string) bool {
	_, ok := r.known[name]
	return ok
}

// IsThemed reports whether base has light/dark variants.
func (r *Resolver) IsThemed(base string) bool {
	_, ok := r.themed[base]
	return ok
}

// Aliases returns the alias table in use.
func (r *Resolver) Aliases() AliasTable {
	return r.aliases
}

// Expand turns the raw icons parameter into tokens. The literal AllToken
// expands to every base name.
func (r *Resolver) Expand(param string) []string {
	if param == AllToken {
		return r.BaseNames()
	}
	return strings.Split(param, ",")
}

// Resolve maps tokens to catalog keys, preserving order and duplicates.
// An empty theme means domain.DefaultTheme. Every returned key exists in the
// catalog: tokens that are unknown, or whose alias target or theme variant is
// missing from the catalog, are dropped.
func (r *Resolver) Resolve(tokens []string, theme domain.Theme) []domain.IconKey {
	theme = theme.OrDefault()

	out := make([]domain.IconKey, 0, len(tokens))
	for _, token := range tokens {
		key, ok := r.resolveOne(token, theme)
		if !ok {
			continue
		}
		out = append(out, key)
	}
	return out
}

// resolveOne is where every emitted key is checked against the catalog; a
// candidate without a catalog entry, such as a themed base lacking the
// requested variant, is dropped.
func (r *Resolver) resolveOne(token string, theme domain.Theme) (domain.IconKey, bool) {
	var candidate string
	switch {
	case r.IsBaseName(token):
		candidate = token
	default:
		base, ok := r.aliases.Lookup(token)
		if !ok {
			return "", false
		}
		candidate = base
	}

	key := candidate
	if r.IsThemed(candidate) {
		key = candidate + theme.Suffix()
	}

	if _, ok := r.catalog.Lookup(key); !ok {
		return "", false
	}
	return domain.IconKey(key), true
}
