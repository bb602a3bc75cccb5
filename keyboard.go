package tinyboard

import (
	"context"
	"errors"
	"log/slog"
)

// State is the per-key state as seen by the last Task.
type State uint8

const (
	None State = iota
	NoneToPress
	Press
	PressToRelease
)

func (s State) String() string {
	switch s {
	case None:
		return "none"
	case NoneToPress:
		return "none-to-press"
	case Press:
		return "press"
	case PressToRelease:
		return "press-to-release"
	}
	return "unknown"
}

// Event is a key transition or a held key.
type Event struct {
	Row, Col int
	Code     Keycode
	Layer    int
	Pressed  bool
}

// Keyboard runs the scan loop: it scans the matrix, finds the keys that
// changed since the previous commit and resolves them through the keymap.
type Keyboard struct {
	scanner  *Scanner
	resolver *Resolver
	logger   *slog.Logger
	handler  func(Event)

	prev    []Row
	cur     []Row
	state   []State
	pressed []Event // code and layer each held key was pressed with

	justPressed  []Event
	justReleased []Event
	held         []Event
}

type Option func(*Keyboard)

func WithLogger(l *slog.Logger) Option {
	return func(k *Keyboard) { k.logger = l }
}

// WithHandler calls h for every press and release, in scan order.
func WithHandler(h func(Event)) Option {
	return func(k *Keyboard) { k.handler = h }
}

func NewKeyboard(scanner *Scanner, resolver *Resolver, opts ...Option) (*Keyboard, error) {
	if err := resolver.Keymap().Fits(scanner.Rows(), scanner.Cols()); err != nil {
		return nil, err
	}
	n := scanner.Rows() * scanner.Cols()
	k := &Keyboard{
		scanner:  scanner,
		resolver: resolver,
		prev:     make([]Row, scanner.Rows()),
		cur:      make([]Row, scanner.Rows()),
		state:    make([]State, n),
		pressed:  make([]Event, n),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

func (k *Keyboard) Scanner() *Scanner   { return k.scanner }
func (k *Keyboard) Resolver() *Resolver { return k.resolver }

// Task runs one scan pass and processes the keys that changed.
func (k *Keyboard) Task() ScanStatus {
	k.justPressed = k.justPressed[:0]
	k.justReleased = k.justReleased[:0]
	k.held = k.held[:0]

	status := k.scanner.Scan()
	k.cur = k.scanner.Snapshot(k.cur)

	cols := k.scanner.Cols()
	for r, row := range k.cur {
		changed := row ^ k.prev[r]
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			bit := Row(1) << c
			current := row&bit != 0

			switch {
			case changed&bit != 0 && current:
				k.state[idx] = NoneToPress
				k.press(r, c)
			case changed&bit != 0:
				k.state[idx] = PressToRelease
				k.release(r, c)
			case current:
				k.state[idx] = Press
				k.held = append(k.held, k.pressed[idx])
			default:
				k.state[idx] = None
			}
		}
	}
	k.prev, k.cur = k.cur, k.prev
	return status
}

func (k *Keyboard) press(r, c int) {
	layer := k.resolver.ActiveLayer()
	code, err := k.resolver.Lookup(layer, r, c)
	if err != nil {
		k.warn("lookup", err, r, c)
		code = KeyNo
	}
	if i := code.FnIndex(); i >= 0 {
		if err := k.resolver.OnActionPress(i); err != nil {
			k.warn("action press", err, r, c)
		}
		k.layerChanged(layer)
	}

	ev := Event{Row: r, Col: c, Code: code, Layer: layer, Pressed: true}
	k.pressed[r*k.scanner.Cols()+c] = ev
	k.justPressed = append(k.justPressed, ev)
	if k.handler != nil {
		k.handler(ev)
	}
}

func (k *Keyboard) release(r, c int) {
	ev := k.pressed[r*k.scanner.Cols()+c]
	ev.Row, ev.Col, ev.Pressed = r, c, false
	if i := ev.Code.FnIndex(); i >= 0 {
		layer := k.resolver.ActiveLayer()
		if err := k.resolver.OnActionRelease(i); err != nil && !errors.Is(err, ErrActionNotActive) {
			k.warn("action release", err, r, c)
		}
		k.layerChanged(layer)
	}

	k.justReleased = append(k.justReleased, ev)
	if k.handler != nil {
		k.handler(ev)
	}
}

func (k *Keyboard) layerChanged(from int) {
	to := k.resolver.ActiveLayer()
	if to == from || k.logger == nil {
		return
	}
	k.logger.LogAttrs(context.Background(), slog.LevelDebug, "layer",
		slog.Int("from", from), slog.Int("to", to))
}

func (k *Keyboard) warn(msg string, err error, r, c int) {
	if k.logger == nil {
		return
	}
	k.logger.LogAttrs(context.Background(), slog.LevelWarn, msg,
		slog.Int("row", r), slog.Int("col", c), slog.String("err", err.Error()))
}

// JustPressed returns the keys pressed by the last Task. The slice is
// reused by the next Task.
func (k *Keyboard) JustPressed() []Event { return k.justPressed }

// JustReleased returns the keys released by the last Task.
func (k *Keyboard) JustReleased() []Event { return k.justReleased }

// Pressed returns the keys held through the last Task, not counting the
// ones in JustPressed.
func (k *Keyboard) Pressed() []Event { return k.held }

// KeyState returns the state of (row, col) after the last Task.
func (k *Keyboard) KeyState(row, col int) State {
	cols := k.scanner.Cols()
	if row < 0 || row >= k.scanner.Rows() || col < 0 || col >= cols {
		return None
	}
	return k.state[row*cols+col]
}

// Matrix returns the committed rows seen by the last Task.
func (k *Keyboard) Matrix() []Row { return k.prev }
