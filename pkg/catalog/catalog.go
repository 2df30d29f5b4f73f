// Package catalog holds the icon catalog: an immutable, ordered mapping from
// lowercase icon key to raw SVG markup.
//
// The catalog is produced offline by Build and Write from a directory of SVG
// files and loaded once at server start with Load. Key order is significant
// because it drives the order of the "all" request and of /api/icons, so the
// JSON file is decoded as a token stream instead of into a Go map.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/polisai/skillicons/pkg/domain"
)

// FileName is the name of the catalog file written by the build step.
const FileName = "icons.json"

// Entry is one icon in the catalog.
type Entry struct {
	Key    string
	Markup string
}

// Catalog implements domain.CatalogProvider. It is read-only after New and
// safe for concurrent use.
type Catalog struct {
	keys   []string
	markup map[string]string
}

var _ domain.CatalogProvider = (*Catalog)(nil)

// New builds a catalog from entries in the given order. Keys are lowercased;
// empty or duplicate keys are rejected.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		keys:   make([]string, 0, len(entries)),
		markup: make(map[string]string, len(entries)),
	}
	for i, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Key))
		if key == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty key", domain.ErrCatalogInvalid, i)
		}
		if _, dup := c.markup[key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", domain.ErrCatalogInvalid, key)
		}
		c.keys = append(c.keys, key)
		c.markup[key] = e.Markup
	}
	return c, nil
}

// Keys returns the catalog keys in catalog order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Lookup returns the markup stored under key.
func (c *Catalog) Lookup(key string) (string, bool) {
	m, ok := c.markup[key]
	return m, ok
}

// Len returns the number of icons in the catalog.
func (c *Catalog) Len() int {
	return len(c.keys)
}

// Entries returns the catalog contents in order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, Entry{Key: k, Markup: c.markup[k]})
	}
	return out
}

// MarshalJSON encodes the catalog as a JSON object whose members keep catalog order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, k, c.markup[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key, value string) error {
	kb, err := marshalString(key)
	if err != nil {
		return err
	}
	vb, err := marshalString(value)
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}

// marshalString encodes s without HTML escaping so markup stays readable.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode reads a catalog JSON object from data, preserving member order.
func Decode(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogInvalid, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", domain.ErrCatalogInvalid)
	}

	var entries []Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogInvalid, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", domain.ErrCatalogInvalid, tok)
		}

		var markup string
		if err := dec.Decode(&markup); err != nil {
			return nil, fmt.Errorf("%w: value for %q: %v", domain.ErrCatalogInvalid, key, err)
		}
		entries = append(entries, Entry{Key: key, Markup: markup})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogInvalid, err)
	}

	return New(entries)
}
