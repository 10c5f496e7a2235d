package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plan-sketcher/internal/app"
	"plan-sketcher/internal/shape"
	"plan-sketcher/pkg/geometry"
)

func newTestCore() *Core {
	return NewCore(app.NewState())
}

func TestNewCoreIsIdle(t *testing.T) {
	c := newTestCore()
	assert.Equal(t, ToolSelect, c.ActiveTool())
	assert.Equal(t, ModeIdle, c.Mode())
	assert.Nil(t, c.Draft())
	assert.Empty(t, c.Shapes())
}

func TestCreateRectangle(t *testing.T) {
	c := newTestCore()
	c.SetActiveTool(ToolRectangle)

	c.PointerDown(10, 10)
	assert.Equal(t, ModeDraggingNewShape, c.Mode())
	anchor, ok := c.Anchor()
	require.True(t, ok)
	assert.Equal(t, geometry.NewPoint2D(10, 10), anchor)

	c.PointerUp(60, 40)
	assert.Equal(t, ModeIdle, c.Mode())
	assert.Equal(t, []shape.Shape{shape.Rectangle{X: 10, Y: 10, Width: 50, Height: 30}}, c.Shapes())

	_, ok = c.Anchor()
	assert.False(t, ok)
}

func TestCreateShapesPerTool(t *testing.T) {
	tests := []struct {
		tool Tool
		want shape.Shape
	}{
		{ToolRectangle, shape.Rectangle{X: 50, Y: 50, Width: -20, Height: -10}},
		{ToolCircle, shape.Circle{X: 50, Y: 50, Radius: 22.360679774997898}},
		{ToolLine, shape.Line{X1: 50, Y1: 50, X2: 30, Y2: 40}},
	}
	for _, tt := range tests {
		t.Run(tt.tool.String(), func(t *testing.T) {
			c := newTestCore()
			c.SetActiveTool(tt.tool)
			c.PointerDown(50, 50)
			c.PointerUp(30, 40)
			require.Len(t, c.Shapes(), 1)
			assert.Equal(t, tt.want, c.Shapes()[0])
		})
	}
}

func TestPointerUpWithoutGestureIsNoop(t *testing.T) {
	c := newTestCore()
	c.PointerUp(10, 10)

	c.SetActiveTool(ToolLine)
	c.PointerUp(10, 10)
	assert.Empty(t, c.Shapes())

	// A duplicate release after a commit adds nothing.
	c.PointerDown(0, 0)
	c.PointerUp(10, 10)
	c.PointerUp(10, 10)
	assert.Len(t, c.Shapes(), 1)
}

func TestDragCommit(t *testing.T) {
	c := newTestCore()
	c.ReplaceShapes([]shape.Shape{shape.Rectangle{X: 0, Y: 0, Width: 100, Height: 100}})

	c.PointerDown(20, 20)
	assert.Equal(t, ModeDraggingExistingShape, c.Mode())
	c.PointerMove(30, 35)
	c.PointerUp(30, 35)

	assert.Equal(t, ModeIdle, c.Mode())
	assert.Equal(t, shape.Rectangle{X: 10, Y: 15, Width: 100, Height: 100}, c.Shapes()[0])
}

func TestDragAccumulatesMoves(t *testing.T) {
	c := newTestCore()
	c.ReplaceShapes([]shape.Shape{
		shape.Polygon{Points: []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}},
	})

	c.PointerDown(5, 5)
	c.PointerMove(6, 5)
	c.PointerMove(8, 9)
	c.PointerUp(8, 9)

	want := shape.Polygon{Points: []geometry.Point2D{{X: 3, Y: 4}, {X: 13, Y: 4}, {X: 13, Y: 14}, {X: 3, Y: 14}}}
	assert.Equal(t, want, c.Shapes()[0])
}

func TestDragPicksTopmost(t *testing.T) {
	c := newTestCore()
	c.ReplaceShapes([]shape.Shape{
		shape.Rectangle{X: 0, Y: 0, Width: 50, Height: 50},
		shape.Circle{X: 25, Y: 25, Radius: 10},
	})

	c.PointerDown(25, 25)
	c.PointerMove(35, 25)
	c.PointerUp(35, 25)

	shapes := c.Shapes()
	assert.Equal(t, shape.Rectangle{X: 0, Y: 0, Width: 50, Height: 50}, shapes[0])
	assert.Equal(t, shape.Circle{X: 35, Y: 25, Radius: 10}, shapes[1])
}

func TestSelectMissIsIdle(t *testing.T) {
	c := newTestCore()
	c.ReplaceShapes([]shape.Shape{shape.Rectangle{X: 0, Y: 0, Width: 10, Height: 10}})

	c.PointerDown(100, 100)
	assert.Equal(t, ModeIdle, c.Mode())
	c.PointerMove(120, 120)
	c.PointerUp(120, 120)
	assert.Equal(t, shape.Rectangle{X: 0, Y: 0, Width: 10, Height: 10}, c.Shapes()[0])
}

func TestDragEndsWhenStoreReplaced(t *testing.T) {
	c := newTestCore()
	c.ReplaceShapes([]shape.Shape{shape.Rectangle{X: 0, Y: 0, Width: 10, Height: 10}})

	c.PointerDown(5, 5)
	require.Equal(t, ModeDraggingExistingShape, c.Mode())

	c.ReplaceShapes([]shape.Shape{shape.Circle{X: 5, Y: 5, Radius: 3}})
	c.PointerMove(15, 15)

	assert.Equal(t, ModeIdle, c.Mode())
	assert.Equal(t, shape.Circle{X: 5, Y: 5, Radius: 3}, c.Shapes()[0])
}

func TestPolygonDraftLifecycle(t *testing.T) {
	c := newTestCore()
	c.SetActiveTool(ToolPolygon)

	c.PointerDown(0, 0)
	c.PointerDown(10, 0)
	assert.Equal(t, ModeDraftingPolygon, c.Mode())

	// Two points are not enough; the draft stays open.
	c.DoubleClick()
	assert.Empty(t, c.Shapes())
	assert.Len(t, c.Draft(), 2)

	c.PointerDown(10, 10)
	c.PointerUp(10, 10)
	assert.Empty(t, c.Shapes())

	c.DoubleClick()
	require.Len(t, c.Shapes(), 1)
	assert.Equal(t,
		shape.Polygon{Points: []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}},
		c.Shapes()[0])
	assert.Nil(t, c.Draft())
	assert.Equal(t, ModeIdle, c.Mode())

	// Double-click with no draft does nothing.
	c.DoubleClick()
	assert.Len(t, c.Shapes(), 1)
}

func TestDraftIsCopied(t *testing.T) {
	c := newTestCore()
	c.SetActiveTool(ToolPolygon)
	c.PointerDown(1, 1)

	d := c.Draft()
	d[0] = geometry.NewPoint2D(99, 99)
	assert.Equal(t, geometry.NewPoint2D(1, 1), c.Draft()[0])
}

func TestToolSwitchDiscardsDraft(t *testing.T) {
	c := newTestCore()
	var draftEvents, toolEvents int
	c.State().On(app.EventDraftChanged, func(interface{}) { draftEvents++ })
	c.State().On(app.EventToolChanged, func(interface{}) { toolEvents++ })

	c.SetActiveTool(ToolPolygon)
	c.PointerDown(0, 0)
	c.PointerDown(10, 0)
	c.PointerDown(10, 10)

	// Same tool keeps the draft.
	c.SetActiveTool(ToolPolygon)
	assert.Len(t, c.Draft(), 3)

	c.SetActiveTool(ToolLine)
	assert.Nil(t, c.Draft())
	assert.Equal(t, ModeIdle, c.Mode())

	c.SetActiveTool(ToolPolygon)
	c.DoubleClick()
	assert.Empty(t, c.Shapes())

	assert.Equal(t, 3, toolEvents)
	assert.Equal(t, 4, draftEvents)
}

func TestClearAll(t *testing.T) {
	c := newTestCore()
	c.ReplaceShapes([]shape.Shape{shape.Circle{X: 1, Y: 1, Radius: 1}})

	assert.False(t, c.ClearAll(false))
	assert.Len(t, c.Shapes(), 1)

	c.SetActiveTool(ToolPolygon)
	c.PointerDown(3, 3)
	assert.True(t, c.ClearAll(true))
	assert.Empty(t, c.Shapes())
	assert.Nil(t, c.Draft())
}

func TestSetAnnotationsVisible(t *testing.T) {
	c := newTestCore()
	c.ReplaceShapes([]shape.Shape{shape.Circle{X: 1, Y: 1, Radius: 1}})
	before := c.Shapes()

	c.SetAnnotationsVisible(true)
	assert.True(t, c.State().AnnotationsVisible())
	assert.Equal(t, before, c.Shapes())

	c.SetAnnotationsVisible(false)
	assert.False(t, c.State().AnnotationsVisible())
}

func TestShapesChangedEvents(t *testing.T) {
	c := newTestCore()
	var changes int
	c.State().On(app.EventShapesChanged, func(interface{}) { changes++ })

	c.SetActiveTool(ToolLine)
	c.PointerDown(0, 0)
	c.PointerUp(5, 5)

	c.SetActiveTool(ToolSelect)
	c.PointerDown(2, 2)
	c.PointerMove(3, 3)
	c.PointerMove(4, 4)
	c.PointerUp(4, 4)

	assert.Equal(t, 3, changes)
	assert.True(t, c.State().IsModified())
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}

	got, err := ParseTool("Move")
	require.NoError(t, err)
	assert.Equal(t, ToolSelect, got)

	_, err = ParseTool("eraser")
	assert.ErrorIs(t, err, ErrUnknownTool)
}
