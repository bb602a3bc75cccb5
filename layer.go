package tinyboard

import (
	"fmt"
	"sync"
)

type stackEntry struct {
	action int
	layer  int
}

// LayerStack tracks held momentary layers, most recent on top. Layer 0 is
// the implicit floor and is never stored.
type LayerStack struct {
	// Locker guards push and pop. Nil means no locking.
	Locker sync.Locker

	entries []stackEntry
}

func (s *LayerStack) lock() func() {
	if s.Locker == nil {
		return func() {}
	}
	s.Locker.Lock()
	return s.Locker.Unlock
}

// Active returns the layer on top of the stack, or 0 when it is empty.
func (s *LayerStack) Active() int {
	defer s.lock()()
	if len(s.entries) == 0 {
		return 0
	}
	return s.entries[len(s.entries)-1].layer
}

func (s *LayerStack) Len() int {
	defer s.lock()()
	return len(s.entries)
}

// Push activates layer on behalf of action.
func (s *LayerStack) Push(action, layer int) {
	defer s.lock()()
	s.entries = append(s.entries, stackEntry{action: action, layer: layer})
}

// Pop removes the most recent entry pushed by action, wherever it sits in
// the stack. It reports false, leaving the stack untouched, if action has
// nothing on the stack.
func (s *LayerStack) Pop(action int) bool {
	defer s.lock()()
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].action == action {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Layers returns the active layers from bottom to top.
func (s *LayerStack) Layers() []int {
	defer s.lock()()
	layers := make([]int, len(s.entries))
	for i, e := range s.entries {
		layers[i] = e.layer
	}
	return layers
}

// Resolver resolves matrix positions against a keymap and the layers held
// at the moment.
type Resolver struct {
	keymap *Keymap
	stack  LayerStack
}

func NewResolver(keymap *Keymap) *Resolver {
	return &Resolver{keymap: keymap}
}

// WithLocker guards the layer stack with l.
func (r *Resolver) WithLocker(l sync.Locker) *Resolver {
	r.stack.Locker = l
	return r
}

func (r *Resolver) Keymap() *Keymap { return r.keymap }

func (r *Resolver) Lookup(layer, row, col int) (Keycode, error) {
	return r.keymap.Lookup(layer, row, col)
}

// ActiveLayer returns the highest priority held layer, 0 if none.
func (r *Resolver) ActiveLayer() int {
	return r.stack.Active()
}

// ActiveLayers returns the held layers from bottom to top.
func (r *Resolver) ActiveLayers() []int {
	return r.stack.Layers()
}

// Resolve looks up (row, col) on the active layer.
func (r *Resolver) Resolve(row, col int) (Keycode, error) {
	return r.keymap.Lookup(r.ActiveLayer(), row, col)
}

// OnActionPress runs the press half of action i.
func (r *Resolver) OnActionPress(i int) error {
	a, err := r.keymap.Action(i)
	if err != nil {
		return err
	}
	if a.Kind == ActionLayerMomentary {
		r.stack.Push(i, a.Layer)
	}
	return nil
}

// OnActionRelease runs the release half of action i. Releasing an action
// that is not held leaves the stack as it is and returns
// ErrActionNotActive.
func (r *Resolver) OnActionRelease(i int) error {
	a, err := r.keymap.Action(i)
	if err != nil {
		return err
	}
	if a.Kind != ActionLayerMomentary {
		return nil
	}
	if !r.stack.Pop(i) {
		return fmt.Errorf("release of action %d: %w", i, ErrActionNotActive)
	}
	return nil
}
