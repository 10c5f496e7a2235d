package interaction

import (
	"fmt"
	"sync"

	"plan-sketcher/internal/app"
	"plan-sketcher/internal/shape"
	"plan-sketcher/pkg/geometry"
)

// Mode is the gesture the core is in the middle of.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDraggingNewShape
	ModeDraftingPolygon
	ModeDraggingExistingShape
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDraggingNewShape:
		return "dragging new shape"
	case ModeDraftingPolygon:
		return "drafting polygon"
	case ModeDraggingExistingShape:
		return "dragging shape"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

type dragSession struct {
	index int
	last  geometry.Point2D
	epoch uint64
}

// Core is the pointer-event state machine of one editor session. Committed
// shapes live in the session's ShapeStore; the core owns only the transient
// gesture state.
//
// Pointer events are expected from a single goroutine. The transient state
// is guarded so a renderer on another goroutine may read the draft. No lock
// is held while the store or the event listeners run.
type Core struct {
	state *app.State

	mu       sync.Mutex
	tool     Tool
	anchor   *geometry.Point2D
	drafting bool
	draft    []geometry.Point2D
	drag     *dragSession
}

// NewCore creates an idle core over state with the select tool active.
func NewCore(state *app.State) *Core {
	return &Core{state: state, tool: ToolSelect}
}

// State returns the session state the core mutates.
func (c *Core) State() *app.State {
	return c.state
}

// ActiveTool returns the current tool.
func (c *Core) ActiveTool() Tool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tool
}

// Mode reports the current gesture.
func (c *Core) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.drag != nil:
		return ModeDraggingExistingShape
	case c.drafting:
		return ModeDraftingPolygon
	case c.anchor != nil:
		return ModeDraggingNewShape
	}
	return ModeIdle
}

// Draft returns a copy of the polygon points clicked so far, or nil when no
// polygon is being drafted.
func (c *Core) Draft() []geometry.Point2D {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.drafting {
		return nil
	}
	out := make([]geometry.Point2D, len(c.draft))
	copy(out, c.draft)
	return out
}

// Anchor returns the start point of a drag-to-create gesture.
func (c *Core) Anchor() (geometry.Point2D, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.anchor == nil {
		return geometry.Point2D{}, false
	}
	return *c.anchor, true
}

// PointerDown starts a gesture for the active tool.
func (c *Core) PointerDown(x, y float64) {
	p := geometry.NewPoint2D(x, y)

	c.mu.Lock()
	tool := c.tool
	switch {
	case tool == ToolPolygon:
		if !c.drafting {
			c.drafting = true
			c.draft = []geometry.Point2D{p}
		} else {
			c.draft = append(c.draft, p)
		}
		c.mu.Unlock()
		c.state.Emit(app.EventDraftChanged, nil)
		return

	case tool.creates():
		c.anchor = &p
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Select tool: grab the topmost shape under the pointer, if any.
	epoch := c.state.Store.Epoch()
	idx := shape.HitTest(c.state.Store.Shapes(), x, y)
	if idx < 0 {
		return
	}
	c.mu.Lock()
	c.drag = &dragSession{index: idx, last: p, epoch: epoch}
	c.mu.Unlock()
}

// PointerMove moves the dragged shape by the distance the pointer travelled
// since the previous event. It does nothing when no shape is being dragged.
func (c *Core) PointerMove(x, y float64) {
	c.mu.Lock()
	if c.drag == nil {
		c.mu.Unlock()
		return
	}
	session := *c.drag
	c.mu.Unlock()

	if c.state.Store.Epoch() != session.epoch {
		c.endDrag()
		return
	}

	dx := x - session.last.X
	dy := y - session.last.Y
	_, err := c.state.Store.Patch(session.index, func(s shape.Shape) shape.Shape {
		return s.Translate(dx, dy)
	})
	if err != nil {
		c.endDrag()
		return
	}

	c.mu.Lock()
	if c.drag != nil {
		c.drag.last = geometry.NewPoint2D(x, y)
	}
	c.mu.Unlock()
}

func (c *Core) endDrag() {
	c.mu.Lock()
	c.drag = nil
	c.mu.Unlock()
}

// PointerUp finishes the current gesture. A drag is released in place; a
// drag-to-create commits the new shape. Without a gesture it does nothing.
func (c *Core) PointerUp(x, y float64) {
	c.mu.Lock()
	if c.drag != nil {
		c.drag = nil
		c.mu.Unlock()
		return
	}
	if c.anchor == nil || !c.tool.creates() {
		c.mu.Unlock()
		return
	}
	anchor := *c.anchor
	c.anchor = nil
	tool := c.tool
	c.mu.Unlock()

	release := geometry.NewPoint2D(x, y)
	var s shape.Shape
	switch tool {
	case ToolRectangle:
		s = shape.NewRectangle(anchor, release)
	case ToolCircle:
		s = shape.NewCircle(anchor, release)
	case ToolLine:
		s = shape.NewLine(anchor, release)
	}
	c.state.Store.Append(s)
}

// DoubleClick commits the polygon draft when it has more than two points.
// A shorter draft is left open.
func (c *Core) DoubleClick() {
	c.mu.Lock()
	if !c.drafting || len(c.draft) <= 2 {
		c.mu.Unlock()
		return
	}
	poly := shape.NewPolygon(c.draft)
	c.drafting = false
	c.draft = nil
	c.mu.Unlock()

	c.state.Store.Append(poly)
	c.state.Emit(app.EventDraftChanged, nil)
}

// SetActiveTool switches tools. Changing to a different tool discards any
// unfinished gesture, including a polygon draft.
func (c *Core) SetActiveTool(t Tool) {
	c.mu.Lock()
	if c.tool == t {
		c.mu.Unlock()
		return
	}
	c.tool = t
	hadDraft := c.resetLocked()
	c.mu.Unlock()

	if hadDraft {
		c.state.Emit(app.EventDraftChanged, nil)
	}
	c.state.Emit(app.EventToolChanged, t)
}

// resetLocked drops all transient state and reports whether a draft was
// discarded. c.mu must be held.
func (c *Core) resetLocked() bool {
	hadDraft := c.drafting
	c.anchor = nil
	c.drafting = false
	c.draft = nil
	c.drag = nil
	return hadDraft
}

// SetAnnotationsVisible toggles shape labels.
func (c *Core) SetAnnotationsVisible(visible bool) {
	c.state.SetAnnotationsVisible(visible)
}

// ClearAll empties the store if confirmed is true and reports whether it
// did. Any unfinished gesture is discarded with it.
func (c *Core) ClearAll(confirmed bool) bool {
	if !confirmed {
		return false
	}
	c.mu.Lock()
	hadDraft := c.resetLocked()
	c.mu.Unlock()

	c.state.Store.Clear()
	if hadDraft {
		c.state.Emit(app.EventDraftChanged, nil)
	}
	return true
}

// Shapes returns a snapshot of the committed shapes.
func (c *Core) Shapes() []shape.Shape {
	return c.state.Store.Shapes()
}

// ReplaceShapes swaps in a whole shape list, as when a drawing is loaded.
// A drag in progress ends on its next move.
func (c *Core) ReplaceShapes(shapes []shape.Shape) {
	c.state.Store.Replace(shapes)
}
