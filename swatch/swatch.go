// Package swatch renders generated color values into a preview grid so a
// configuration can be judged visually before it is used on a stylesheet.
package swatch

import (
	"bytes"
	"fmt"

	"cssroll/expand"
)

type Options struct {
	Columns  int // cells per row
	CellSize int // cell side in pixels
	Count    int // total cells
}

func (o Options) validate() error {
	if o.Columns < 1 {
		return fmt.Errorf("columns must be at least 1, got %d", o.Columns)
	}
	if o.CellSize < 8 {
		return fmt.Errorf("cell size must be at least 8, got %d", o.CellSize)
	}
	if o.Count < 1 {
		return fmt.Errorf("cell count must be at least 1, got %d", o.Count)
	}
	return nil
}

// Build draws one SVG grid cell per generator call, left to right, top to
// bottom. The generator is expected to produce CSS color values.
func Build(gen expand.ValueGenerator, opts Options) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, fmt.Errorf("value generator must be set")
	}

	rows := (opts.Count + opts.Columns - 1) / opts.Columns
	width := opts.Columns * opts.CellSize
	height := rows * opts.CellSize

	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)

	for i := 0; i < opts.Count; i++ {
		value, err := gen()
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i+1, err)
		}
		x := (i % opts.Columns) * opts.CellSize
		y := (i / opts.Columns) * opts.CellSize
		fmt.Fprintf(buf, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
			x, y, opts.CellSize, opts.CellSize, value)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
