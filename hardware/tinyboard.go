//go:build tinygo && rp2040

package hardware

import (
	"machine"

	"github.com/sago35/tinyboard"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
)

var Device = &device{}

type device struct {
	display *ssd1306.Device
	Pins    tinyboard.PinAssignment
}

// Init sets up the OLED and the 4x12 matrix wiring. The matrix pins are
// configured by the scanner itself.
func (z *device) Init() error {
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 2_800_000,
		SDA:       machine.GPIO0,
		SCL:       machine.GPIO1,
	}); err != nil {
		return err
	}

	d := ssd1306.NewI2C(i2c)
	d.Configure(ssd1306.Config{
		Address: 0x3C,
		Width:   128,
		Height:  64,
	})
	d.SetRotation(drivers.Rotation180)
	d.ClearDisplay()
	z.display = &d

	z.Pins = tinyboard.PinAssignment{
		Rows: []tinyboard.Pin{
			tinyboard.Pin(machine.GPIO26),
			tinyboard.Pin(machine.GPIO27),
			tinyboard.Pin(machine.GPIO28),
			tinyboard.Pin(machine.GPIO29),
		},
		Cols: []tinyboard.Pin{
			tinyboard.Pin(machine.GPIO2),
			tinyboard.Pin(machine.GPIO3),
			tinyboard.Pin(machine.GPIO4),
			tinyboard.Pin(machine.GPIO5),
			tinyboard.Pin(machine.GPIO6),
			tinyboard.Pin(machine.GPIO7),
			tinyboard.Pin(machine.GPIO8),
			tinyboard.Pin(machine.GPIO9),
			tinyboard.Pin(machine.GPIO10),
			tinyboard.Pin(machine.GPIO11),
			tinyboard.Pin(machine.GPIO12),
			tinyboard.Pin(machine.GPIO13),
		},
	}
	return z.Pins.Validate()
}

func (z *device) GPIO() tinyboard.GPIO {
	return tinyboard.MachineGPIO{}
}

func (z *device) Display() *ssd1306.Device {
	return z.display
}
