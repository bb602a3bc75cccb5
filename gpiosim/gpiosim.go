// Package gpiosim is an in-memory GPIO for running the matrix scanner
// without hardware.
//
// Switches connect a row pin to a column pin. A column configured as an
// input reads the level of any output pin it is connected to through a
// closed switch when that level differs from its pull, otherwise it reads
// its pull level.
package gpiosim

import (
	"github.com/sago35/tinyboard"
)

type pinState struct {
	dir   tinyboard.Direction
	level bool
}

type wire struct {
	a, b tinyboard.Pin
}

// GPIO is a simulated pin bank. The zero value is not usable, use New.
type GPIO struct {
	pins     map[tinyboard.Pin]*pinState
	switches map[wire]bool

	// AfterWrite, if set, is called after every Write.
	AfterWrite func(pin tinyboard.Pin, high bool)

	writes, reads int
}

func New() *GPIO {
	return &GPIO{
		pins:     map[tinyboard.Pin]*pinState{},
		switches: map[wire]bool{},
	}
}

func (g *GPIO) pin(p tinyboard.Pin) *pinState {
	s, ok := g.pins[p]
	if !ok {
		s = &pinState{}
		g.pins[p] = s
	}
	return s
}

func (g *GPIO) SetDirection(p tinyboard.Pin, dir tinyboard.Direction) {
	g.pin(p).dir = dir
}

func (g *GPIO) Write(p tinyboard.Pin, high bool) {
	g.pin(p).level = high
	g.writes++
	if g.AfterWrite != nil {
		g.AfterWrite(p, high)
	}
}

func (g *GPIO) Read(p tinyboard.Pin) bool {
	g.reads++
	s := g.pin(p)
	if s.dir == tinyboard.Output {
		return s.level
	}
	pull := s.dir == tinyboard.InputPullup
	for w, closed := range g.switches {
		if !closed {
			continue
		}
		other := w.a
		if other == p {
			other = w.b
		} else if w.b != p {
			continue
		}
		if o := g.pin(other); o.dir == tinyboard.Output && o.level != pull {
			return o.level
		}
	}
	return pull
}

// Close closes the switch between row and col.
func (g *GPIO) Close(row, col tinyboard.Pin) {
	g.switches[wire{row, col}] = true
}

// Open opens the switch between row and col.
func (g *GPIO) Open(row, col tinyboard.Pin) {
	delete(g.switches, wire{row, col})
}

// Set closes or opens the switch between row and col.
func (g *GPIO) Set(row, col tinyboard.Pin, closed bool) {
	if closed {
		g.Close(row, col)
	} else {
		g.Open(row, col)
	}
}

// Release opens every switch.
func (g *GPIO) Release() {
	clear(g.switches)
}

// Direction returns the direction last set on p.
func (g *GPIO) Direction(p tinyboard.Pin) tinyboard.Direction {
	return g.pin(p).dir
}

// Level returns the level last written to p.
func (g *GPIO) Level(p tinyboard.Pin) bool {
	return g.pin(p).level
}

// Driven counts the pins among pins configured as outputs and driven to
// level.
func (g *GPIO) Driven(pins []tinyboard.Pin, level bool) int {
	n := 0
	for _, p := range pins {
		if s := g.pin(p); s.dir == tinyboard.Output && s.level == level {
			n++
		}
	}
	return n
}

// Writes and Reads return the number of calls so far.
func (g *GPIO) Writes() int { return g.writes }
func (g *GPIO) Reads() int  { return g.reads }

// Matrix wraps a GPIO with a pin assignment so switches can be addressed
// by logical position.
type Matrix struct {
	*GPIO
	Pins tinyboard.PinAssignment
}

func NewMatrix(pins tinyboard.PinAssignment) *Matrix {
	return &Matrix{GPIO: New(), Pins: pins}
}

// Press closes the switch at (row, col).
func (m *Matrix) Press(row, col int) {
	m.Close(m.Pins.Rows[row], m.Pins.Cols[col])
}

// Lift opens the switch at (row, col).
func (m *Matrix) Lift(row, col int) {
	m.Open(m.Pins.Rows[row], m.Pins.Cols[col])
}

// SetRow closes the switches of row whose bits are set in bits and opens
// the others.
func (m *Matrix) SetRow(row int, bits tinyboard.Row) {
	for c := range m.Pins.Cols {
		m.Set(m.Pins.Rows[row], m.Pins.Cols[c], bits&(1<<c) != 0)
	}
}

// ActiveRows counts the rows currently driven to the active level.
func (m *Matrix) ActiveRows() int {
	return m.Driven(m.Pins.Rows, m.Pins.ActiveHigh)
}
