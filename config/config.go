// Package config reads declarative keymap files.
//
// A keymap file describes the matrix size, the scanner timing, the layers
// as rows of key names and the action table the FN keys refer to:
//
//	[matrix]
//	rows = 2
//	cols = 3
//	debounce = 5
//	settle = "100us"
//
//	[[layer]]
//	name = "base"
//	keys = [
//	  "ESC  Q  FN0",
//	  "TAB  A  ENTER",
//	]
//
//	[[action]]
//	type = "momentary"
//	layer = 1
//
// YAML files use the same structure with "layers" and "actions" lists.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sago35/tinyboard"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

var ErrFormat = errors.New("unknown keymap file format")

// File is a decoded keymap file.
type File struct {
	Matrix  Matrix      `toml:"matrix" yaml:"matrix"`
	Layers  []LayerDef  `toml:"layer" yaml:"layers"`
	Actions []ActionDef `toml:"action" yaml:"actions"`
}

type Matrix struct {
	Rows     int `toml:"rows" yaml:"rows"`
	Cols     int `toml:"cols" yaml:"cols"`
	Debounce int `toml:"debounce" yaml:"debounce"`

	// Settle and DebounceDelay are Go duration strings, e.g. "100us".
	Settle        string `toml:"settle" yaml:"settle"`
	DebounceDelay string `toml:"debounce_delay" yaml:"debounce_delay"`

	ActiveHigh bool `toml:"active_high" yaml:"active_high"`
}

type LayerDef struct {
	Name string   `toml:"name" yaml:"name"`
	Keys []string `toml:"keys" yaml:"keys"`
}

type ActionDef struct {
	Type  string `toml:"type" yaml:"type"`
	Layer int    `toml:"layer" yaml:"layer"`
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrFormat, path)
}

// Load reads and validates the keymap file at path.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes and validates a keymap file.
func Parse(data []byte, format Format) (*File, error) {
	f := &File{}
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), f); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrFormat, format)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the file builds a keymap of the declared size.
func (f *File) Validate() error {
	if f.Matrix.Rows <= 0 || f.Matrix.Cols <= 0 {
		return fmt.Errorf("matrix: invalid size %dx%d", f.Matrix.Rows, f.Matrix.Cols)
	}
	if f.Matrix.Debounce < 0 || f.Matrix.Debounce > 255 {
		return fmt.Errorf("matrix: debounce %d out of range", f.Matrix.Debounce)
	}
	if _, err := parseDuration(f.Matrix.Settle); err != nil {
		return fmt.Errorf("matrix: settle: %w", err)
	}
	if _, err := parseDuration(f.Matrix.DebounceDelay); err != nil {
		return fmt.Errorf("matrix: debounce_delay: %w", err)
	}
	km, err := f.Keymap()
	if err != nil {
		return err
	}
	return km.Fits(f.Matrix.Rows, f.Matrix.Cols)
}

// Keymap builds the keymap described by the file.
func (f *File) Keymap() (*tinyboard.Keymap, error) {
	layers := make([]tinyboard.Layer, len(f.Layers))
	for i, l := range f.Layers {
		layer, err := parseLayer(l.Keys)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, l.Name, err)
		}
		layers[i] = layer
	}

	actions := make([]tinyboard.Action, len(f.Actions))
	for i, a := range f.Actions {
		switch strings.ToLower(a.Type) {
		case "momentary", "layer_momentary":
			actions[i] = tinyboard.LayerMomentary(a.Layer)
		case "", "none":
			actions[i] = tinyboard.Action{}
		default:
			return nil, fmt.Errorf("action %d: unknown type %q", i, a.Type)
		}
	}
	return tinyboard.NewKeymap(layers, actions)
}

// LayerNames returns the layer names in order.
func (f *File) LayerNames() []string {
	names := make([]string, len(f.Layers))
	for i, l := range f.Layers {
		names[i] = l.Name
	}
	return names
}

// ScannerConfig returns the scanner settings of the file for the given
// pins. The pin count must match the declared matrix.
func (f *File) ScannerConfig(rows, cols []tinyboard.Pin) (tinyboard.Config, error) {
	if len(rows) != f.Matrix.Rows || len(cols) != f.Matrix.Cols {
		return tinyboard.Config{}, fmt.Errorf("%w: pins are %dx%d, keymap is %dx%d",
			tinyboard.ErrDimension, len(rows), len(cols), f.Matrix.Rows, f.Matrix.Cols)
	}
	settle, err := parseDuration(f.Matrix.Settle)
	if err != nil {
		return tinyboard.Config{}, err
	}
	delay, err := parseDuration(f.Matrix.DebounceDelay)
	if err != nil {
		return tinyboard.Config{}, err
	}
	return tinyboard.Config{
		Pins: tinyboard.PinAssignment{
			Rows:       rows,
			Cols:       cols,
			ActiveHigh: f.Matrix.ActiveHigh,
		},
		Debounce:      uint8(f.Matrix.Debounce),
		SettleDelay:   settle,
		DebounceDelay: delay,
	}, nil
}

func parseLayer(rows []string) (tinyboard.Layer, error) {
	layer := make(tinyboard.Layer, len(rows))
	for r, line := range rows {
		names := strings.Fields(strings.ReplaceAll(line, ",", " "))
		layer[r] = make([]tinyboard.Keycode, len(names))
		for c, name := range names {
			k, err := tinyboard.ParseKeycode(name)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			layer[r][c] = k
		}
	}
	return layer, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
