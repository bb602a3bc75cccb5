//go:build tinygo && rp2040

package main

import (
	_ "embed"
	"log"
	"log/slog"
	"os"
	"slices"

	"github.com/sago35/tinyboard"
	"github.com/sago35/tinyboard/config"
	"github.com/sago35/tinyboard/hardware"
	"github.com/sago35/tinyboard/status"
)

//go:embed keymap.toml
var keymapTOML []byte

const _debug = false

func main() {
	level := slog.LevelInfo
	if _debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := hardware.Device.Init(); err != nil {
		log.Fatal(err)
	}

	file, err := config.Parse(keymapTOML, config.FormatTOML)
	if err != nil {
		log.Fatal(err)
	}
	km, err := file.Keymap()
	if err != nil {
		log.Fatal(err)
	}

	pins := hardware.Device.Pins
	cfg, err := file.ScannerConfig(pins.Rows, pins.Cols)
	if err != nil {
		log.Fatal(err)
	}
	cfg.Delay = tinyboard.BusyWait
	cfg.Locker = &tinyboard.InterruptLocker{}
	cfg.Logger = logger

	scanner, err := tinyboard.NewScanner(hardware.Device.GPIO(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	resolver := tinyboard.NewResolver(km).WithLocker(&tinyboard.InterruptLocker{})

	kbd, err := tinyboard.NewKeyboard(scanner, resolver,
		tinyboard.WithLogger(logger),
		tinyboard.WithHandler(func(ev tinyboard.Event) {
			logger.Info("key",
				slog.Int("row", ev.Row),
				slog.Int("col", ev.Col),
				slog.String("code", ev.Code.String()),
				slog.Int("layer", ev.Layer),
				slog.Bool("pressed", ev.Pressed))
		}))
	if err != nil {
		log.Fatal(err)
	}

	screen := status.New(hardware.Device.Display(), km.Rows(), km.Cols(), file.LayerNames()...)

	scanner.Init()
	var shown []tinyboard.Row
	shownLayer := -1
	for {
		kbd.Task()

		layer := resolver.ActiveLayer()
		if layer == shownLayer && slices.Equal(shown, kbd.Matrix()) {
			continue
		}
		if err := screen.Render(layer, kbd.Matrix()); err != nil {
			logger.Warn("display", slog.String("err", err.Error()))
		}
		shown = append(shown[:0], kbd.Matrix()...)
		shownLayer = layer
	}
}
