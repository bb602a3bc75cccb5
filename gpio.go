package tinyboard

import (
	"errors"
	"fmt"
)

// Pin is a physical pin address. The value uses the port*8+bit layout of
// TinyGo's AVR targets, so Port and Bit recover the register address, and
// on other targets it is simply the GPIO number.
type Pin uint8

// NoPin marks an unassigned pin.
const NoPin Pin = 0xff

func (p Pin) Port() uint8 { return uint8(p) / 8 }
func (p Pin) Bit() uint8  { return uint8(p) % 8 }

func (p Pin) String() string {
	if p == NoPin {
		return "NoPin"
	}
	return fmt.Sprintf("P%c%d", 'A'+rune(p.Port()), p.Bit())
}

type Direction uint8

const (
	Input Direction = iota
	InputPullup
	InputPulldown
	Output
)

// GPIO is the pin capability the scanner drives. MachineGPIO implements it
// on TinyGo targets and gpiosim implements it for tests.
type GPIO interface {
	SetDirection(pin Pin, dir Direction)
	Write(pin Pin, high bool)
	Read(pin Pin) bool
}

// MaxCols is the widest row a Row bitmask can hold.
const MaxCols = 32

var ErrPinAssignment = errors.New("invalid pin assignment")

// PinAssignment maps logical rows and columns to physical pins.
//
// With ActiveHigh unset (the usual wiring) rows idle high and are pulled low
// to select them, and columns use pull-ups so a closed switch reads low.
// With ActiveHigh set everything is inverted and columns use pull-downs.
type PinAssignment struct {
	Rows       []Pin
	Cols       []Pin
	ActiveHigh bool
}

// Validate checks the mapping is total and injective.
func (a PinAssignment) Validate() error {
	if len(a.Rows) == 0 {
		return fmt.Errorf("%w: no rows", ErrPinAssignment)
	}
	if len(a.Cols) == 0 {
		return fmt.Errorf("%w: no cols", ErrPinAssignment)
	}
	if len(a.Cols) > MaxCols {
		return fmt.Errorf("%w: %d cols exceeds %d", ErrPinAssignment, len(a.Cols), MaxCols)
	}

	seen := map[Pin]string{}
	check := func(kind string, pins []Pin) error {
		for i, p := range pins {
			name := fmt.Sprintf("%s %d", kind, i)
			if p == NoPin {
				return fmt.Errorf("%w: %s is unassigned", ErrPinAssignment, name)
			}
			if other, ok := seen[p]; ok {
				return fmt.Errorf("%w: %s and %s share pin %s", ErrPinAssignment, other, name, p)
			}
			seen[p] = name
		}
		return nil
	}
	if err := check("row", a.Rows); err != nil {
		return err
	}
	return check("col", a.Cols)
}

func (a PinAssignment) activeLevel() bool { return a.ActiveHigh }
func (a PinAssignment) idleLevel() bool   { return !a.ActiveHigh }

func (a PinAssignment) colDirection() Direction {
	if a.ActiveHigh {
		return InputPulldown
	}
	return InputPullup
}
