//go:build tinygo && rp2040

package tinyboard

import (
	"machine"
	"runtime/interrupt"
	"time"

	"tinygo.org/x/drivers/delay"
)

// MachineGPIO drives pins through TinyGo's machine package.
type MachineGPIO struct{}

func (MachineGPIO) SetDirection(pin Pin, dir Direction) {
	mode := machine.PinInput
	switch dir {
	case InputPullup:
		mode = machine.PinInputPullup
	case InputPulldown:
		mode = machine.PinInputPulldown
	case Output:
		mode = machine.PinOutput
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: mode})
}

func (MachineGPIO) Write(pin Pin, high bool) {
	machine.Pin(pin).Set(high)
}

func (MachineGPIO) Read(pin Pin) bool {
	return machine.Pin(pin).Get()
}

// BusyWait spins for d without yielding to the scheduler.
func BusyWait(d time.Duration) {
	delay.Sleep(d)
}

// InterruptLocker is a sync.Locker that disables interrupts while held.
// It must not be nested.
type InterruptLocker struct {
	state interrupt.State
}

func (l *InterruptLocker) Lock() {
	l.state = interrupt.Disable()
}

func (l *InterruptLocker) Unlock() {
	interrupt.Restore(l.state)
}
