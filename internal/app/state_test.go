package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plan-sketcher/internal/drawing"
	"plan-sketcher/internal/shape"
	"plan-sketcher/pkg/geometry"
)

func TestShapeStoreAppendAndSnapshot(t *testing.T) {
	s := NewShapeStore()
	calls := 0
	s.OnChange(func() { calls++ })

	s.Append(shape.Circle{X: 1, Y: 2, Radius: 3})
	s.Append(nil)
	s.Append(shape.Line{X2: 4})
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, calls)

	snap := s.Shapes()
	snap[0] = shape.Rectangle{}
	got, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, shape.Circle{X: 1, Y: 2, Radius: 3}, got)

	_, err = s.At(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestShapeStoreReplaceBumpsEpoch(t *testing.T) {
	s := NewShapeStore()
	e0 := s.Epoch()

	s.Append(shape.Circle{Radius: 1})
	assert.Equal(t, e0, s.Epoch())

	s.Replace([]shape.Shape{shape.Line{}, nil, shape.Circle{}})
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, e0+1, s.Epoch())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, e0+2, s.Epoch())
}

func TestShapeStorePatch(t *testing.T) {
	s := NewShapeStore()
	s.Append(shape.Rectangle{X: 1, Y: 1, Width: 2, Height: 2})

	next, err := s.Patch(0, func(sh shape.Shape) shape.Shape { return sh.Translate(3, 4) })
	require.NoError(t, err)
	assert.Equal(t, shape.Rectangle{X: 4, Y: 5, Width: 2, Height: 2}, next)
	got, _ := s.At(0)
	assert.Equal(t, next, got)

	_, err = s.Patch(1, func(sh shape.Shape) shape.Shape { return sh })
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = s.Patch(-1, func(sh shape.Shape) shape.Shape { return sh })
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = s.Patch(0, func(shape.Shape) shape.Shape { return nil })
	assert.ErrorIs(t, err, ErrNilShape)
	got, _ = s.At(0)
	assert.Equal(t, next, got)
}

func TestStateEvents(t *testing.T) {
	st := NewState()
	var shapesChanged, modified, annotations int
	st.On(EventShapesChanged, func(interface{}) { shapesChanged++ })
	st.On(EventModified, func(interface{}) { modified++ })
	st.On(EventAnnotationsChanged, func(interface{}) { annotations++ })

	st.Store.Append(shape.Circle{Radius: 1})
	st.Store.Append(shape.Circle{Radius: 2})
	assert.Equal(t, 2, shapesChanged)
	assert.Equal(t, 1, modified)

	st.SetAnnotationsVisible(true)
	st.SetAnnotationsVisible(true)
	assert.Equal(t, 1, annotations)
	assert.True(t, st.AnnotationsVisible())
}

func TestStateDrawingName(t *testing.T) {
	st := NewState()
	assert.Equal(t, DefaultDrawingName, st.DrawingName())
	st.SetDrawingName("")
	assert.Equal(t, DefaultDrawingName, st.DrawingName())
	st.SetDrawingName("Kitchen")
	assert.Equal(t, "Kitchen", st.Snapshot().Name)
}

func TestStateFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")

	st := NewState()
	st.SetDrawingName("Garage")
	st.Store.Append(shape.Rectangle{X: 0, Y: 0, Width: 10, Height: -5})
	st.Store.Append(shape.Polygon{Points: []geometry.Point2D{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 3}}})

	var saved string
	st.On(EventDrawingSaved, func(data interface{}) { saved = data.(string) })
	require.NoError(t, st.SaveFile(path))
	assert.Equal(t, path, saved)
	assert.False(t, st.IsModified())

	loaded := NewState()
	var got drawing.Drawing
	loaded.On(EventDrawingLoaded, func(data interface{}) { got = data.(drawing.Drawing) })
	require.NoError(t, loaded.LoadFile(path))

	assert.Equal(t, "Garage", loaded.DrawingName())
	assert.Equal(t, st.Store.Shapes(), loaded.Store.Shapes())
	assert.Equal(t, "Garage", got.Name)
	assert.False(t, loaded.IsModified())
	assert.Equal(t, path, loaded.FilePath)

	assert.Error(t, loaded.LoadFile(filepath.Join(t.TempDir(), "missing.json")))
}
