// Package app provides the editor session state, the shape store, and events.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"plan-sketcher/internal/drawing"
	"plan-sketcher/internal/shape"
)

// DefaultDrawingName is used when a drawing is saved without a name.
const DefaultDrawingName = "Plan 1"

// State holds one editor session: the committed shapes, the annotation flag
// and the drawing metadata. It is created once per session and shared by the
// interaction core, the canvas and the toolbar.
type State struct {
	mu sync.RWMutex

	// Drawing
	Store    *ShapeStore
	Name     string
	FilePath string
	Modified bool

	// Display
	annotations bool

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventShapesChanged EventType = iota
	EventDraftChanged
	EventToolChanged
	EventAnnotationsChanged
	EventModified
	EventDrawingLoaded
	EventDrawingSaved
	EventSaveFailed
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new session state with an empty store.
func NewState() *State {
	s := &State{
		Store:     NewShapeStore(),
		Name:      DefaultDrawingName,
		listeners: make(map[EventType][]EventListener),
	}
	s.Store.OnChange(func() {
		s.SetModified(true)
		s.Emit(EventShapesChanged, nil)
	})
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the drawing as modified and emits an event on change.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	changed := s.Modified != modified
	s.Modified = modified
	s.mu.Unlock()
	if changed {
		s.Emit(EventModified, modified)
	}
}

// IsModified reports whether the drawing changed since it was last loaded
// or saved.
func (s *State) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Modified
}

// AnnotationsVisible reports whether shape labels are drawn.
func (s *State) AnnotationsVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.annotations
}

// SetAnnotationsVisible toggles shape labels. It has no effect on geometry.
func (s *State) SetAnnotationsVisible(visible bool) {
	s.mu.Lock()
	changed := s.annotations != visible
	s.annotations = visible
	s.mu.Unlock()
	if changed {
		s.Emit(EventAnnotationsChanged, visible)
	}
}

// DrawingName returns the name used when saving.
func (s *State) DrawingName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Name == "" {
		return DefaultDrawingName
	}
	return s.Name
}

// SetDrawingName sets the name used when saving.
func (s *State) SetDrawingName(name string) {
	s.mu.Lock()
	s.Name = name
	s.mu.Unlock()
}

// Path returns the local file the drawing was last loaded from or saved to.
func (s *State) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.FilePath
}

// Snapshot returns the current drawing as an unsaved record.
func (s *State) Snapshot() drawing.Drawing {
	return drawing.Drawing{
		Name:   s.DrawingName(),
		Shapes: shape.List(s.Store.Shapes()),
	}
}

// LoadDrawing replaces the store contents with a saved drawing.
func (s *State) LoadDrawing(d drawing.Drawing) {
	s.mu.Lock()
	if d.Name != "" {
		s.Name = d.Name
	}
	s.mu.Unlock()

	s.Store.Replace(d.Shapes)
	s.SetModified(false)
	s.Emit(EventDrawingLoaded, d)
}

// LoadFile loads a drawing from a local JSON file.
func (s *State) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var d drawing.Drawing
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	s.mu.Lock()
	s.FilePath = path
	s.mu.Unlock()

	s.LoadDrawing(d)
	return nil
}

// SaveFile writes the drawing to a local JSON file.
func (s *State) SaveFile(path string) error {
	d := s.Snapshot()
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	s.mu.Lock()
	s.FilePath = path
	s.mu.Unlock()

	s.SetModified(false)
	s.Emit(EventDrawingSaved, path)
	return nil
}
