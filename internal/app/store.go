package app

import (
	"errors"
	"fmt"
	"sync"

	"plan-sketcher/internal/shape"
)

var (
	// ErrIndexOutOfRange is returned when a store index does not name a shape.
	ErrIndexOutOfRange = errors.New("shape index out of range")

	// ErrNilShape is returned when a patch would put a nil shape in the store.
	ErrNilShape = errors.New("nil shape")
)

// ShapeStore is the ordered collection of committed shapes. Order is paint
// order: later shapes are drawn on top and win hit tests.
//
// Only fully formed shapes enter the store. All writes go through Append,
// Replace, Clear and Patch, and each notifies the change listeners after the
// lock is released.
type ShapeStore struct {
	mu        sync.RWMutex
	shapes    []shape.Shape
	epoch     uint64
	listeners []func()
}

// NewShapeStore creates an empty store.
func NewShapeStore() *ShapeStore {
	return &ShapeStore{}
}

// OnChange registers a listener called after every mutation.
func (s *ShapeStore) OnChange(listener func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
}

func (s *ShapeStore) notify() {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, l := range listeners {
		l()
	}
}

// Len returns the number of shapes.
func (s *ShapeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shapes)
}

// At returns the shape at index.
func (s *ShapeStore) At(index int) (shape.Shape, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.shapes) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.shapes))
	}
	return s.shapes[index], nil
}

// Shapes returns a snapshot of the store contents.
func (s *ShapeStore) Shapes() []shape.Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]shape.Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

// Epoch increases whenever the whole sequence is replaced or cleared.
// Indexes taken under one epoch are not meaningful under another.
func (s *ShapeStore) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Append adds a shape on top of the others. Nil shapes are ignored.
func (s *ShapeStore) Append(sh shape.Shape) {
	if sh == nil {
		return
	}
	s.mu.Lock()
	s.shapes = append(s.shapes, sh)
	s.mu.Unlock()
	s.notify()
}

// Replace swaps in a new sequence. Nil entries are dropped.
func (s *ShapeStore) Replace(shapes []shape.Shape) {
	next := make([]shape.Shape, 0, len(shapes))
	for _, sh := range shapes {
		if sh != nil {
			next = append(next, sh)
		}
	}

	s.mu.Lock()
	s.shapes = next
	s.epoch++
	s.mu.Unlock()
	s.notify()
}

// Clear removes every shape.
func (s *ShapeStore) Clear() {
	s.Replace(nil)
}

// Patch replaces the shape at index with fn applied to it and returns the new
// shape. The store is unchanged if the index is invalid or fn returns nil.
func (s *ShapeStore) Patch(index int, fn func(shape.Shape) shape.Shape) (shape.Shape, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.shapes) {
		n := len(s.shapes)
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, n)
	}
	next := fn(s.shapes[index])
	if next == nil {
		s.mu.Unlock()
		return nil, ErrNilShape
	}
	s.shapes[index] = next
	s.mu.Unlock()

	s.notify()
	return next, nil
}
