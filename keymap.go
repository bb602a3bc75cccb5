package tinyboard

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange      = errors.New("out of range")
	ErrKeymap          = errors.New("invalid keymap")
	ErrDimension       = errors.New("dimension mismatch")
	ErrUnknownAction   = errors.New("unknown action")
	ErrActionNotActive = errors.New("action not active")
)

// Layer is one full keymap grid, indexed [row][col].
type Layer [][]Keycode

type ActionKind uint8

const (
	ActionNone ActionKind = iota
	// ActionLayerMomentary activates Layer while the key is held.
	ActionLayerMomentary
)

// Action is an entry of the action table referenced by Fn keycodes.
type Action struct {
	Kind  ActionKind
	Layer int
}

func LayerMomentary(layer int) Action {
	return Action{Kind: ActionLayerMomentary, Layer: layer}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionNone:
		return "none"
	case ActionLayerMomentary:
		return fmt.Sprintf("momentary(%d)", a.Layer)
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(a.Kind))
}

// Keymap is an immutable set of layers and the action table their Fn keys
// refer to.
type Keymap struct {
	layers     []Layer
	actions    []Action
	rows, cols int
}

// NewKeymap validates the tables and returns a keymap. The slices are
// copied, later changes to the arguments do not affect the keymap.
func NewKeymap(layers []Layer, actions []Action) (*Keymap, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrKeymap)
	}
	rows := len(layers[0])
	if rows == 0 {
		return nil, fmt.Errorf("%w: layer 0 has no rows", ErrKeymap)
	}
	cols := len(layers[0][0])
	if cols == 0 || cols > MaxCols {
		return nil, fmt.Errorf("%w: layer 0 has %d cols", ErrKeymap, cols)
	}

	for i, a := range actions {
		switch a.Kind {
		case ActionNone:
		case ActionLayerMomentary:
			if a.Layer < 0 || a.Layer >= len(layers) {
				return nil, fmt.Errorf("%w: action %d targets layer %d of %d", ErrKeymap, i, a.Layer, len(layers))
			}
		default:
			return nil, fmt.Errorf("%w: action %d has kind %d", ErrKeymap, i, a.Kind)
		}
	}

	k := &Keymap{
		layers:  make([]Layer, len(layers)),
		actions: append([]Action(nil), actions...),
		rows:    rows,
		cols:    cols,
	}
	for l, layer := range layers {
		if len(layer) != rows {
			return nil, fmt.Errorf("%w: layer %d has %d rows, want %d", ErrDimension, l, len(layer), rows)
		}
		k.layers[l] = make(Layer, rows)
		for r, row := range layer {
			if len(row) != cols {
				return nil, fmt.Errorf("%w: layer %d row %d has %d cols, want %d", ErrDimension, l, r, len(row), cols)
			}
			for c, code := range row {
				if i := code.FnIndex(); i >= len(actions) {
					return nil, fmt.Errorf("%w: layer %d (%d,%d) refers to %s", ErrUnknownAction, l, r, c, code)
				}
			}
			k.layers[l][r] = append([]Keycode(nil), row...)
		}
	}
	return k, nil
}

func (k *Keymap) Layers() int { return len(k.layers) }
func (k *Keymap) Rows() int   { return k.rows }
func (k *Keymap) Cols() int   { return k.cols }

// Lookup returns the keycode at (layer, row, col).
func (k *Keymap) Lookup(layer, row, col int) (Keycode, error) {
	if layer < 0 || layer >= len(k.layers) {
		return KeyNo, fmt.Errorf("layer %d of %d: %w", layer, len(k.layers), ErrOutOfRange)
	}
	if row < 0 || row >= k.rows {
		return KeyNo, fmt.Errorf("row %d of %d: %w", row, k.rows, ErrOutOfRange)
	}
	if col < 0 || col >= k.cols {
		return KeyNo, fmt.Errorf("col %d of %d: %w", col, k.cols, ErrOutOfRange)
	}
	return k.layers[layer][row][col], nil
}

// Action returns action i of the action table.
func (k *Keymap) Action(i int) (Action, error) {
	if i < 0 || i >= len(k.actions) {
		return Action{}, fmt.Errorf("action %d of %d: %w", i, len(k.actions), ErrUnknownAction)
	}
	return k.actions[i], nil
}

// Fits reports an error unless the keymap matches a rows x cols matrix.
func (k *Keymap) Fits(rows, cols int) error {
	if k.rows != rows || k.cols != cols {
		return fmt.Errorf("%w: keymap is %dx%d, matrix is %dx%d", ErrDimension, k.rows, k.cols, rows, cols)
	}
	return nil
}
