package icons

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/polisai/skillicons/pkg/catalog"
	"github.com/polisai/skillicons/pkg/domain"
)

func testCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	keys := []string{
		"aws-dark",
		"docker",
		"golang",
		"javascript-dark",
		"javascript-light",
		"python",
		"react-dark",
		"react-light",
		"typescript-dark",
		"typescript-light",
		"vuejs-dark",
		"vuejs-light",
	}
	entries := make([]catalog.Entry, len(keys))
	for i, k := range keys {
		entries[i] = catalog.Entry{Key: k, Markup: "<g id=\"" + k + "\"/>"}
	}
	c, err := catalog.New(entries)
	require.NoError(t, err)
	return c
}

func TestNewResolver_DerivesBaseNamesAndThemedSet(t *testing.T) {
	r := NewResolver(testCatalog(t), nil)

	assert.Equal(t,
		[]string{"aws", "docker", "golang", "javascript", "python", "react", "typescript", "vuejs"},
		r.BaseNames())

	for _, base := range []string{"aws", "javascript", "react", "typescript", "vuejs"} {
		assert.True(t, r.IsThemed(base), base)
	}
	for _, base := range []string{"docker", "golang", "python"} {
		assert.False(t, r.IsThemed(base), base)
	}
	assert.Equal(t, "javascript", r.Aliases()["js"])
}

func TestResolve(t *testing.T) {
	r := NewResolver(testCatalog(t), nil)

	tests := []struct {
		name   string
		tokens []string
		theme  domain.Theme
		want   []domain.IconKey
	}{
		{
			name:   "aliases with default theme",
			tokens: []string{"js", "ts", "unknown", "vue"},
			want:   []domain.IconKey{"javascript-dark", "typescript-dark", "vuejs-dark"},
		},
		{
			name:   "order and duplicates preserved",
			tokens: []string{"js", "js", "foo", "ts"},
			theme:  domain.ThemeLight,
			want:   []domain.IconKey{"javascript-light", "javascript-light", "typescript-light"},
		},
		{
			name:   "unthemed base names stay bare",
			tokens: []string{"docker", "python", "react"},
			theme:  domain.ThemeLight,
			want:   []domain.IconKey{"docker", "python", "react-light"},
		},
		{
			name:   "alias to unthemed base",
			tokens: []string{"go", "py"},
			theme:  domain.ThemeDark,
			want:   []domain.IconKey{"golang", "python"},
		},
		{
			name:   "alias target missing from catalog is dropped",
			tokens: []string{"k8s", "docker"},
			want:   []domain.IconKey{"docker"},
		},
		{
			name:   "missing theme variant is dropped",
			tokens: []string{"aws", "amazonwebservices"},
			theme:  domain.ThemeLight,
			want:   []domain.IconKey{},
		},
		{
			name:   "themed keys are not tokens",
			tokens: []string{"javascript-dark", "", "JS"},
			want:   []domain.IconKey{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.tokens, tt.theme))
		})
	}
}

func TestExpand(t *testing.T) {
	r := NewResolver(testCatalog(t), nil)

	assert.Equal(t, r.BaseNames(), r.Expand("all"))
	assert.Equal(t, []string{"js", "ts"}, r.Expand("js,ts"))
	assert.Equal(t, []string{"js", "", "ts"}, r.Expand("js,,ts"))
	assert.Equal(t, []string{"ALL"}, r.Expand("ALL"))
}

func TestResolve_CustomAliasTable(t *testing.T) {
	r := NewResolver(testCatalog(t), AliasTable{"whale": "docker"})

	assert.Equal(t, []domain.IconKey{"docker"}, r.Resolve([]string{"whale", "js"}, ""))
}

func drawTheme(t *rapid.T) domain.Theme {
	return rapid.SampledFrom([]domain.Theme{"", domain.ThemeLight, domain.ThemeDark}).Draw(t, "theme")
}

func TestResolve_BaseNameProperty(t *testing.T) {
	r := NewResolver(testCatalog(t), nil)

	rapid.Check(t, func(t *rapid.T) {
		base := rapid.SampledFrom(r.BaseNames()).Draw(t, "base")
		theme := drawTheme(t)

		got := r.Resolve([]string{base}, theme)

		want := domain.IconKey(base)
		if r.IsThemed(base) {
			want = domain.IconKey(base + theme.Suffix())
		}
		if len(got) == 0 {
			// Only a themed base lacking the requested variant may vanish.
			// Emitting base+suffix here would name a key the catalog does
			// not hold, so the catalog-membership rule wins over a plain
			// base+suffix mapping.
			if !r.IsThemed(base) {
				t.Fatalf("base %q did not resolve", base)
			}
			return
		}
		if len(got) != 1 || got[0] != want {
			t.Fatalf("Resolve(%q, %q) = %v, want [%s]", base, theme, got, want)
		}
	})
}

func TestResolve_AliasProperty(t *testing.T) {
	r := NewResolver(testCatalog(t), nil)

	var aliasTokens []string
	for token := range DefaultAliases {
		if !r.IsBaseName(token) {
			aliasTokens = append(aliasTokens, token)
		}
	}
	slices.Sort(aliasTokens)

	rapid.Check(t, func(t *rapid.T) {
		token := rapid.SampledFrom(aliasTokens).Draw(t, "alias")
		theme := drawTheme(t)

		got := r.Resolve([]string{token}, theme)
		want := r.Resolve([]string{DefaultAliases[token]}, theme)
		assert.Equal(t, want, got)
	})
}

func TestResolve_UnknownTokenProperty(t *testing.T) {
	r := NewResolver(testCatalog(t), nil)

	rapid.Check(t, func(t *rapid.T) {
		token := rapid.String().Draw(t, "token")
		if r.IsBaseName(token) {
			t.Skip("known base name")
		}
		if _, ok := DefaultAliases[token]; ok {
			t.Skip("alias")
		}
		if got := r.Resolve([]string{token}, drawTheme(t)); len(got) != 0 {
			t.Fatalf("Resolve(%q) = %v, want empty", token, got)
		}
	})
}

func TestResolve_OutputExistsInCatalogProperty(t *testing.T) {
	c := testCatalog(t)
	r := NewResolver(c, nil)

	var vocabulary []string
	vocabulary = append(vocabulary, r.BaseNames()...)
	for token := range DefaultAliases {
		vocabulary = append(vocabulary, token)
	}
	slices.Sort(vocabulary)
	vocabulary = append(vocabulary, "nope", "", "javascript-dark")

	rapid.Check(t, func(t *rapid.T) {
		tokens := rapid.SliceOf(rapid.SampledFrom(vocabulary)).Draw(t, "tokens")
		got := r.Resolve(tokens, drawTheme(t))

		if len(got) > len(tokens) {
			t.Fatalf("resolved %d keys from %d tokens", len(got), len(tokens))
		}
		for _, key := range got {
			if _, ok := c.Lookup(string(key)); !ok {
				t.Fatalf("resolved key %q is not in the catalog", key)
			}
		}
	})
}
