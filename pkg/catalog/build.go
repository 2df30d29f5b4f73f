package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/polisai/skillicons/pkg/domain"
)

// SourceExt is the extension of icon source files.
const SourceExt = ".svg"

// Load reads a catalog file produced by Write.
func Load(fs afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Build reads one SVG file per icon from srcDir. The key of each icon is its
// file name without extension, lowercased. Entries follow file-name order.
// Read failures and key collisions are collected and returned together.
func Build(fs afero.Fs, srcDir string) (*Catalog, error) {
	ok, err := afero.DirExists(fs, srcDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", srcDir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrIconSourceNotFound, srcDir)
	}

	infos, err := afero.ReadDir(fs, srcDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", srcDir, err)
	}

	var (
		result  *multierror.Error
		entries []Entry
		seen    = make(map[string]string)
	)
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, SourceExt) {
			continue
		}

		key := strings.ToLower(strings.TrimSuffix(name, ext))
		if prev, dup := seen[key]; dup {
			result = multierror.Append(result,
				fmt.Errorf("%s and %s both map to icon key %q", prev, name, key))
			continue
		}
		seen[key] = name

		data, err := afero.ReadFile(fs, filepath.Join(srcDir, name))
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("error reading %s: %w", name, err))
			continue
		}
		entries = append(entries, Entry{Key: key, Markup: string(data)})
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return New(entries)
}

// Write stores the catalog as FileName inside outDir, creating the directory
// if needed, and returns the path written.
func Write(fs afero.Fs, outDir string, c *Catalog) (string, error) {
	if err := fs.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	raw, err := c.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return "", fmt.Errorf("failed to format catalog: %w", err)
	}
	out.WriteByte('\n')

	path := filepath.Join(outDir, FileName)
	if err := afero.WriteFile(fs, path, out.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Rebuild runs Build followed by Write.
func Rebuild(fs afero.Fs, srcDir, outDir string) (*Catalog, string, error) {
	c, err := Build(fs, srcDir)
	if err != nil {
		return nil, "", err
	}
	path, err := Write(fs, outDir, c)
	if err != nil {
		return nil, "", err
	}
	return c, path, nil
}
