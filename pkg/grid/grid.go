// Package grid lays resolved icons out on a fixed-size grid and renders the
// composite SVG document.
//
// Every source icon is drawn on a 300x300 cell whose visible artwork occupies
// the leading 256x256 square; the trailing 44 units are spacing. The canvas
// therefore spans cols*300-44 by rows*300-44 units and is scaled so that one
// 256-unit icon renders at 48 pixels.
package grid

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/polisai/skillicons/pkg/domain"
)

const (
	CellSize    = 300
	CellMargin  = 44
	ContentSize = CellSize - CellMargin
	IconSize    = 48

	// Scale converts viewBox units to display pixels.
	Scale = float64(IconSize) / float64(ContentSize)
)

// Lookup resolves a catalog key to its SVG fragment.
type Lookup interface {
	Lookup(key string) (string, bool)
}

// Layout holds the dimensions of a grid of n icons.
type Layout struct {
	Count         int
	PerLine       int
	Columns       int
	Rows          int
	ViewBoxWidth  int
	ViewBoxHeight int
	Width         float64
	Height        float64
}

// ComputeLayout returns the grid dimensions for n icons with perLine columns.
// Both arguments must be positive.
func ComputeLayout(n, perLine int) Layout {
	cols := min(perLine, n)
	rows := (n + perLine - 1) / perLine
	vbw := cols*CellSize - CellMargin
	vbh := rows*CellSize - CellMargin

	return Layout{
		Count:         n,
		PerLine:       perLine,
		Columns:       cols,
		Rows:          rows,
		ViewBoxWidth:  vbw,
		ViewBoxHeight: vbh,
		Width:         float64(vbw) * Scale,
		Height:        float64(vbh) * Scale,
	}
}

// CellOrigin returns the translation of the i-th icon (0-indexed).
func CellOrigin(i, perLine int) (x, y int) {
	return (i % perLine) * CellSize, (i / perLine) * CellSize
}

// Cell is one positioned icon.
type Cell struct {
	Key    domain.IconKey
	X, Y   int
	Markup string
}

// Document is a composed grid ready to be serialized.
type Document struct {
	Layout
	Cells []Cell
}

// Compose positions keys on a grid of perLine columns, in input order.
// An empty key sequence, a non-positive perLine or a key unknown to lookup is
// a caller bug and reported as domain.ErrContractViolation.
func Compose(keys []domain.IconKey, perLine int, lookup Lookup) (*Document, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: compose called with no icons", domain.ErrContractViolation)
	}
	if perLine < 1 {
		return nil, fmt.Errorf("%w: perLine must be positive, got %d", domain.ErrContractViolation, perLine)
	}

	doc := &Document{
		Layout: ComputeLayout(len(keys), perLine),
		Cells:  make([]Cell, len(keys)),
	}
	for i, key := range keys {
		markup, ok := lookup.Lookup(string(key))
		if !ok {
			return nil, fmt.Errorf("%w: icon %q missing from catalog", domain.ErrContractViolation, key)
		}
		x, y := CellOrigin(i, perLine)
		doc.Cells[i] = Cell{Key: key, X: x, Y: y, Markup: markup}
	}
	return doc, nil
}

// WriteTo writes the SVG document. The output depends only on the document
// contents.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg width="%s" height="%s" viewBox="0 0 %d %d" fill="none" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" version="1.1">`,
		formatFloat(d.Width), formatFloat(d.Height), d.ViewBoxWidth, d.ViewBoxHeight)
	buf.WriteByte('\n')
	for _, c := range d.Cells {
		fmt.Fprintf(&buf, "  <g transform=\"translate(%d, %d)\">\n", c.X, c.Y)
		buf.WriteString(c.Markup)
		buf.WriteString("\n  </g>\n")
	}
	buf.WriteString("</svg>\n")

	return buf.WriteTo(w)
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
