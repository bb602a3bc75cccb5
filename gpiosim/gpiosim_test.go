package gpiosim

import (
	"testing"

	"github.com/sago35/tinyboard"
	"github.com/stretchr/testify/assert"
)

func TestGPIO_PullLevels(t *testing.T) {
	g := New()
	g.SetDirection(1, tinyboard.InputPullup)
	g.SetDirection(2, tinyboard.InputPulldown)
	g.SetDirection(3, tinyboard.Input)

	assert.True(t, g.Read(1))
	assert.False(t, g.Read(2))
	assert.False(t, g.Read(3))
}

func TestGPIO_SwitchPullsColumn(t *testing.T) {
	g := New()
	g.SetDirection(0, tinyboard.Output)
	g.Write(0, true)
	g.SetDirection(5, tinyboard.InputPullup)

	g.Close(0, 5)
	assert.True(t, g.Read(5), "row at the pull level does not change the column")

	g.Write(0, false)
	assert.False(t, g.Read(5))

	g.Open(0, 5)
	assert.True(t, g.Read(5))
}

func TestGPIO_InputRowDoesNotDrive(t *testing.T) {
	g := New()
	g.SetDirection(0, tinyboard.Input)
	g.SetDirection(5, tinyboard.InputPullup)
	g.Close(0, 5)
	assert.True(t, g.Read(5))
}

func TestGPIO_Counters(t *testing.T) {
	g := New()
	var hooked []tinyboard.Pin
	g.AfterWrite = func(p tinyboard.Pin, _ bool) { hooked = append(hooked, p) }

	g.SetDirection(0, tinyboard.Output)
	g.Write(0, true)
	g.Write(0, false)
	g.Read(0)

	assert.Equal(t, 2, g.Writes())
	assert.Equal(t, 1, g.Reads())
	assert.Equal(t, []tinyboard.Pin{0, 0}, hooked)
	assert.False(t, g.Level(0))
	assert.Equal(t, tinyboard.Output, g.Direction(0))
}

func TestMatrix(t *testing.T) {
	pins := tinyboard.PinAssignment{
		Rows: []tinyboard.Pin{0, 1},
		Cols: []tinyboard.Pin{2, 3, 4},
	}
	m := NewMatrix(pins)
	for _, p := range pins.Rows {
		m.SetDirection(p, tinyboard.Output)
		m.Write(p, true)
	}
	for _, p := range pins.Cols {
		m.SetDirection(p, tinyboard.InputPullup)
	}

	m.SetRow(1, 0b101)
	assert.Zero(t, m.ActiveRows())

	m.Write(1, false)
	assert.Equal(t, 1, m.ActiveRows())
	assert.False(t, m.Read(2))
	assert.True(t, m.Read(3))
	assert.False(t, m.Read(4))

	m.Lift(1, 0)
	assert.True(t, m.Read(2))

	m.Press(1, 1)
	assert.False(t, m.Read(3))

	m.Release()
	assert.True(t, m.Read(4))
}
