package tinyboard_test

import (
	"testing"

	"github.com/sago35/tinyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPin_Address(t *testing.T) {
	// PF4 on an ATmega32U4: port F is the sixth port
	p := tinyboard.Pin(5*8 + 4)
	assert.Equal(t, uint8(5), p.Port())
	assert.Equal(t, uint8(4), p.Bit())
	assert.Equal(t, "PF4", p.String())
	assert.Equal(t, "NoPin", tinyboard.NoPin.String())
}

func TestPinAssignment_Validate(t *testing.T) {
	many := make([]tinyboard.Pin, tinyboard.MaxCols+1)
	for i := range many {
		many[i] = tinyboard.Pin(i + 1)
	}

	tests := []struct {
		name    string
		pins    tinyboard.PinAssignment
		wantErr bool
	}{
		{"valid", tinyboard.PinAssignment{Rows: []tinyboard.Pin{0, 1}, Cols: []tinyboard.Pin{2, 3}}, false},
		{"no rows", tinyboard.PinAssignment{Cols: []tinyboard.Pin{2}}, true},
		{"no cols", tinyboard.PinAssignment{Rows: []tinyboard.Pin{0}}, true},
		{"too many cols", tinyboard.PinAssignment{Rows: []tinyboard.Pin{0}, Cols: many}, true},
		{"unassigned", tinyboard.PinAssignment{Rows: []tinyboard.Pin{tinyboard.NoPin}, Cols: []tinyboard.Pin{2}}, true},
		{"row twice", tinyboard.PinAssignment{Rows: []tinyboard.Pin{0, 0}, Cols: []tinyboard.Pin{2}}, true},
		{"row and col share", tinyboard.PinAssignment{Rows: []tinyboard.Pin{0, 1}, Cols: []tinyboard.Pin{2, 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pins.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, tinyboard.ErrPinAssignment)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
