// Package status draws the active layer and the committed matrix on a
// small monochrome display.
package status

import (
	"fmt"
	"image/color"

	"github.com/sago35/tinyboard"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Displayer is a buffered display such as *ssd1306.Device.
type Displayer interface {
	drivers.Displayer
	ClearBuffer()
}

var white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

const (
	headerHeight = 16
	baseline     = 10
)

// Screen renders keyboard state onto a Displayer.
type Screen struct {
	d          Displayer
	rows, cols int
	names      []string

	cell   int16
	ox, oy int16
}

// New returns a screen for a rows x cols matrix. names label the layers;
// layers without a name are shown as "L<n>".
func New(d Displayer, rows, cols int, names ...string) *Screen {
	rows, cols = max(rows, 1), max(cols, 1)
	w, h := d.Size()
	cell := (w - 1) / int16(cols)
	if ch := (h - headerHeight - 1) / int16(rows); ch < cell {
		cell = ch
	}
	if cell < 2 {
		cell = 2
	}
	return &Screen{
		d:     d,
		rows:  rows,
		cols:  cols,
		names: names,
		cell:  cell,
		ox:    (w - cell*int16(cols)) / 2,
		oy:    headerHeight,
	}
}

func (s *Screen) label(layer int) string {
	if layer >= 0 && layer < len(s.names) && s.names[layer] != "" {
		return s.names[layer]
	}
	return fmt.Sprintf("L%d", layer)
}

// Cell returns the top-left corner and size of the cell for (row, col).
func (s *Screen) Cell(row, col int) (x, y, size int16) {
	return s.ox + int16(col)*s.cell, s.oy + int16(row)*s.cell, s.cell
}

// Render draws the layer label and one cell per key, filled when pressed,
// and flushes the display.
func (s *Screen) Render(layer int, matrix []tinyboard.Row) error {
	s.d.ClearBuffer()
	tinyfont.WriteLine(s.d, &proggy.TinySZ8pt7b, 0, baseline, s.label(layer), white)

	for r := 0; r < s.rows; r++ {
		var row tinyboard.Row
		if r < len(matrix) {
			row = matrix[r]
		}
		for c := 0; c < s.cols; c++ {
			x, y, size := s.Cell(r, c)
			var err error
			if row&(1<<c) != 0 {
				err = tinydraw.FilledRectangle(s.d, x, y, size-1, size-1, white)
			} else {
				err = tinydraw.Rectangle(s.d, x, y, size-1, size-1, white)
			}
			if err != nil {
				return err
			}
		}
	}
	return s.d.Display()
}

// Blank clears the display.
func (s *Screen) Blank() error {
	s.d.ClearBuffer()
	return s.d.Display()
}
