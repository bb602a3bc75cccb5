package tinyboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Row is one row of the matrix, bit n set meaning column n is pressed.
type Row uint32

const (
	DefaultDebounce      = 5
	DefaultSettleDelay   = 100 * time.Microsecond
	DefaultDebounceDelay = 1 * time.Millisecond
)

// Config describes a matrix scanner. Zero values pick the defaults above.
type Config struct {
	Pins PinAssignment

	// Debounce is the number of consecutive unchanged passes required
	// before the sampled matrix is committed.
	Debounce uint8

	// SettleDelay is waited after selecting a row and before sampling it.
	// It must exceed the RC settling time of the row and column lines.
	SettleDelay time.Duration

	// DebounceDelay is waited at the end of a pass while debounce is
	// still pending.
	DebounceDelay time.Duration

	// Delay busy-waits for the given duration. Defaults to time.Sleep.
	Delay func(time.Duration)

	// Locker guards the commit. On targets with interrupts it must keep
	// readers out for the whole copy.
	Locker sync.Locker

	Logger *slog.Logger
}

type ScanStatus uint8

const (
	// ScanNotReady means Init has not been called; nothing was sampled.
	ScanNotReady ScanStatus = iota
	// ScanIdle means the committed matrix matches the samples.
	ScanIdle
	// ScanDebouncing means a change is waiting to settle.
	ScanDebouncing
	// ScanCommitted means this pass committed a new matrix.
	ScanCommitted
)

func (s ScanStatus) String() string {
	switch s {
	case ScanNotReady:
		return "not-ready"
	case ScanIdle:
		return "idle"
	case ScanDebouncing:
		return "debouncing"
	case ScanCommitted:
		return "committed"
	}
	return fmt.Sprintf("ScanStatus(%d)", uint8(s))
}

// Scanner samples a row/column switch matrix through a GPIO and keeps a
// debounced copy of it.
//
// All rows share one debounce countdown: a change on any row restarts the
// wait for the whole matrix, and the whole matrix is committed at once, so
// readers never see some rows old and some rows new.
type Scanner struct {
	gpio GPIO
	cfg  Config

	matrix     []Row
	debouncing []Row
	countdown  uint8

	ready bool
}

// NewScanner validates cfg and returns a scanner. Init must be called
// before the first Scan.
func NewScanner(gpio GPIO, cfg Config) (*Scanner, error) {
	if gpio == nil {
		return nil, fmt.Errorf("%w: nil gpio", ErrPinAssignment)
	}
	if err := cfg.Pins.Validate(); err != nil {
		return nil, err
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = DefaultDebounceDelay
	}
	if cfg.Delay == nil {
		cfg.Delay = time.Sleep
	}
	if cfg.Locker == nil {
		cfg.Locker = noLock{}
	}

	return &Scanner{
		gpio:       gpio,
		cfg:        cfg,
		matrix:     make([]Row, len(cfg.Pins.Rows)),
		debouncing: make([]Row, len(cfg.Pins.Rows)),
	}, nil
}

func (s *Scanner) Rows() int { return len(s.matrix) }
func (s *Scanner) Cols() int { return len(s.cfg.Pins.Cols) }

// Init configures the pins and clears the matrix.
func (s *Scanner) Init() {
	pins := s.cfg.Pins
	for _, p := range pins.Rows {
		s.gpio.SetDirection(p, Output)
		s.gpio.Write(p, pins.idleLevel())
	}
	for _, p := range pins.Cols {
		s.gpio.SetDirection(p, pins.colDirection())
	}

	s.cfg.Locker.Lock()
	for i := range s.matrix {
		s.matrix[i] = 0
		s.debouncing[i] = 0
	}
	s.cfg.Locker.Unlock()
	s.countdown = s.cfg.Debounce
	s.ready = true
}

// Scan performs one pass over every row.
func (s *Scanner) Scan() ScanStatus {
	if !s.ready {
		return ScanNotReady
	}

	for i := range s.debouncing {
		s.selectRow(i)
		s.cfg.Delay(s.cfg.SettleDelay)
		cols := s.readCols()
		s.unselectRow(i)

		if s.debouncing[i] != cols {
			s.debouncing[i] = cols
			if s.countdown > 0 {
				s.debug("bounce", slog.Int("row", i), slog.Int("countdown", int(s.countdown)))
			}
			s.countdown = s.cfg.Debounce
		}
	}

	if s.countdown == 0 {
		return ScanIdle
	}

	s.countdown--
	if s.countdown > 0 {
		s.cfg.Delay(s.cfg.DebounceDelay)
		return ScanDebouncing
	}

	s.cfg.Locker.Lock()
	copy(s.matrix, s.debouncing)
	s.cfg.Locker.Unlock()
	s.debug("commit", slog.Any("matrix", s.matrix))
	return ScanCommitted
}

// Row returns the committed state of row i, or 0 if i is out of range.
func (s *Scanner) Row(i int) Row {
	if i < 0 || i >= len(s.matrix) {
		return 0
	}
	return s.matrix[i]
}

// Snapshot copies the committed matrix into dst, growing it if needed.
func (s *Scanner) Snapshot(dst []Row) []Row {
	if cap(dst) < len(s.matrix) {
		dst = make([]Row, len(s.matrix))
	}
	dst = dst[:len(s.matrix)]
	s.cfg.Locker.Lock()
	copy(dst, s.matrix)
	s.cfg.Locker.Unlock()
	return dst
}

func (s *Scanner) selectRow(i int) {
	s.gpio.Write(s.cfg.Pins.Rows[i], s.cfg.Pins.activeLevel())
}

func (s *Scanner) unselectRow(i int) {
	s.gpio.Write(s.cfg.Pins.Rows[i], s.cfg.Pins.idleLevel())
}

func (s *Scanner) readCols() Row {
	var r Row
	active := s.cfg.Pins.activeLevel()
	for c, p := range s.cfg.Pins.Cols {
		if s.gpio.Read(p) == active {
			r |= 1 << c
		}
	}
	return r
}

func (s *Scanner) debug(msg string, attrs ...slog.Attr) {
	if s.cfg.Logger == nil {
		return
	}
	s.cfg.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}
