package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentroid(t *testing.T) {
	c := Centroid([]Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	assert.InDelta(t, 5.0, c.X, 1e-12)
	assert.InDelta(t, 5.0, c.Y, 1e-12)

	assert.Equal(t, Point2D{}, Centroid(nil))
}

func TestRectNormalize(t *testing.T) {
	r := NewRect(100, 50, -100, -50).Normalize()
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 100, Height: 50}, r)
}

func TestBoundingBox(t *testing.T) {
	bb := BoundingBox([]Point2D{{X: 3, Y: 9}, {X: -1, Y: 2}, {X: 7, Y: 4}})
	assert.Equal(t, Rect{X: -1, Y: 2, Width: 8, Height: 7}, bb)
}

func TestDistanceToLine(t *testing.T) {
	d, ok := DistanceToLine(NewPoint2D(50, 3), NewPoint2D(0, 0), NewPoint2D(100, 0))
	assert.True(t, ok)
	assert.InDelta(t, 3.0, d, 1e-12)

	_, ok = DistanceToLine(NewPoint2D(1, 1), NewPoint2D(2, 2), NewPoint2D(2, 2))
	assert.False(t, ok)
}

func TestPointInPolygonTriangle(t *testing.T) {
	tri := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	assert.True(t, PointInPolygon(NewPoint2D(2, 2), tri))
	assert.False(t, PointInPolygon(NewPoint2D(8, 8), tri))
	assert.False(t, PointInPolygon(NewPoint2D(2, 2), tri[:2]))
}
