package tinyboard_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sago35/tinyboard"
	"github.com/sago35/tinyboard/gpiosim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeyboard(t *testing.T, opts ...tinyboard.Option) (*tinyboard.Keyboard, *gpiosim.Matrix) {
	t.Helper()
	pins := testPins(2, 3)
	sim := gpiosim.NewMatrix(pins)
	s, err := tinyboard.NewScanner(sim, tinyboard.Config{
		Pins:     pins,
		Debounce: 1,
		Delay:    func(time.Duration) {},
	})
	require.NoError(t, err)
	s.Init()

	kbd, err := tinyboard.NewKeyboard(s, tinyboard.NewResolver(threeLayers(t)), opts...)
	require.NoError(t, err)
	require.Equal(t, tinyboard.ScanCommitted, kbd.Task())
	return kbd, sim
}

func TestKeyboard_MomentaryLayer(t *testing.T) {
	var events []tinyboard.Event
	kbd, sim := newTestKeyboard(t, tinyboard.WithHandler(func(ev tinyboard.Event) {
		events = append(events, ev)
	}))
	assert.Empty(t, kbd.JustPressed())

	sim.Press(0, 2) // FN0
	kbd.Task()
	require.Len(t, kbd.JustPressed(), 1)
	assert.Equal(t, tinyboard.Event{Row: 0, Col: 2, Code: tinyboard.Fn(0), Layer: 0, Pressed: true}, kbd.JustPressed()[0])
	assert.Equal(t, tinyboard.NoneToPress, kbd.KeyState(0, 2))
	assert.Equal(t, 1, kbd.Resolver().ActiveLayer())

	sim.Press(0, 1)
	kbd.Task()
	require.Len(t, kbd.JustPressed(), 1)
	assert.Equal(t, tinyboard.Key1, kbd.JustPressed()[0].Code)
	assert.Equal(t, 1, kbd.JustPressed()[0].Layer)
	require.Len(t, kbd.Pressed(), 1)
	assert.Equal(t, tinyboard.Fn(0), kbd.Pressed()[0].Code)
	assert.Equal(t, tinyboard.Press, kbd.KeyState(0, 2))

	sim.Lift(0, 2)
	kbd.Task()
	require.Len(t, kbd.JustReleased(), 1)
	assert.Equal(t, tinyboard.Fn(0), kbd.JustReleased()[0].Code)
	assert.Equal(t, 0, kbd.Resolver().ActiveLayer())

	// released with the code it was pressed with
	sim.Lift(0, 1)
	kbd.Task()
	require.Len(t, kbd.JustReleased(), 1)
	assert.Equal(t, tinyboard.Event{Row: 0, Col: 1, Code: tinyboard.Key1, Layer: 1, Pressed: false}, kbd.JustReleased()[0])
	assert.Equal(t, tinyboard.PressToRelease, kbd.KeyState(0, 1))

	kbd.Task()
	assert.Equal(t, tinyboard.None, kbd.KeyState(0, 1))
	assert.Empty(t, kbd.JustReleased())

	codes := make([]tinyboard.Keycode, len(events))
	for i, ev := range events {
		codes[i] = ev.Code
	}
	assert.Equal(t, []tinyboard.Keycode{tinyboard.Fn(0), tinyboard.Key1, tinyboard.Fn(0), tinyboard.Key1}, codes)
}

func TestKeyboard_OverlappingLayers(t *testing.T) {
	kbd, sim := newTestKeyboard(t)
	r := kbd.Resolver()

	sim.Press(1, 2) // FN1 -> layer 2
	kbd.Task()
	assert.Equal(t, 2, r.ActiveLayer())

	sim.Press(0, 2) // FN0 on layer 2 -> layer 1 on top
	kbd.Task()
	assert.Equal(t, 1, r.ActiveLayer())

	sim.Lift(1, 2)
	kbd.Task()
	assert.Equal(t, 1, r.ActiveLayer())

	sim.Lift(0, 2)
	kbd.Task()
	assert.Equal(t, 0, r.ActiveLayer())
}

func TestKeyboard_SamePassEdges(t *testing.T) {
	kbd, sim := newTestKeyboard(t)

	sim.Press(0, 0)
	sim.Press(1, 1)
	kbd.Task()
	require.Len(t, kbd.JustPressed(), 2)
	assert.Equal(t, tinyboard.KeyEsc, kbd.JustPressed()[0].Code)
	assert.Equal(t, tinyboard.KeyA, kbd.JustPressed()[1].Code)
	assert.Equal(t, []tinyboard.Row{0b001, 0b010}, kbd.Matrix())

	sim.Release()
	sim.Press(0, 1)
	kbd.Task()
	assert.Len(t, kbd.JustReleased(), 2)
	require.Len(t, kbd.JustPressed(), 1)
	assert.Equal(t, tinyboard.KeyQ, kbd.JustPressed()[0].Code)
}

func TestKeyboard_LogsLayerChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	kbd, sim := newTestKeyboard(t, tinyboard.WithLogger(logger))

	sim.Press(0, 2)
	kbd.Task()
	assert.True(t, strings.Contains(buf.String(), "msg=layer from=0 to=1"), buf.String())
}

func TestKeyboard_KeyStateOutOfRange(t *testing.T) {
	kbd, _ := newTestKeyboard(t)
	assert.Equal(t, tinyboard.None, kbd.KeyState(-1, 0))
	assert.Equal(t, tinyboard.None, kbd.KeyState(0, 3))
}

func TestNewKeyboard_DimensionMismatch(t *testing.T) {
	pins := testPins(4, 12)
	s, err := tinyboard.NewScanner(gpiosim.NewMatrix(pins), tinyboard.Config{Pins: pins})
	require.NoError(t, err)

	_, err = tinyboard.NewKeyboard(s, tinyboard.NewResolver(threeLayers(t)))
	require.ErrorIs(t, err, tinyboard.ErrDimension)
}
