// Package shape defines the drawable primitives of a sketch and the
// hit-testing and translation rules for each kind.
package shape

import (
	"errors"
	"fmt"
	"math"

	"plan-sketcher/pkg/geometry"
)

// LineTolerance is the maximum distance, in pixels, at which a point is
// considered to be on a line.
const LineTolerance = 5.0

// ErrUnknownKind is returned when a shape kind tag is not recognised.
var ErrUnknownKind = errors.New("unknown shape kind")

// Kind identifies a shape variant. The string value is the wire tag.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindLine      Kind = "line"
	KindPolygon   Kind = "polygon"
)

// ParseKind converts a wire tag into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindRectangle, KindCircle, KindLine, KindPolygon:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Shape is one committed primitive. The set of implementations is closed:
// Rectangle, Circle, Line and Polygon.
type Shape interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Contains reports whether the point (x, y) hits the shape.
	Contains(x, y float64) bool

	// Translate returns a copy of the shape moved by (dx, dy).
	Translate(dx, dy float64) Shape

	// Accept dispatches to the visitor method for the concrete kind.
	Accept(v Visitor)

	sealed()
}

// Visitor handles each shape kind. Per-kind logic outside this package is
// written as a Visitor so a new kind cannot be added without every consumer
// handling it.
type Visitor interface {
	VisitRectangle(r Rectangle)
	VisitCircle(c Circle)
	VisitLine(l Line)
	VisitPolygon(p Polygon)
}

// Rectangle is anchored at the corner where the drag started. Width and
// Height are signed.
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (Rectangle) Kind() Kind { return KindRectangle }

func (r Rectangle) Contains(x, y float64) bool {
	return geometry.NewRect(r.X, r.Y, r.Width, r.Height).Contains(geometry.NewPoint2D(x, y))
}

func (r Rectangle) Translate(dx, dy float64) Shape {
	r.X += dx
	r.Y += dy
	return r
}

func (r Rectangle) Accept(v Visitor) { v.VisitRectangle(r) }

func (Rectangle) sealed() {}

// Circle is centred at (X, Y).
type Circle struct {
	X      float64
	Y      float64
	Radius float64
}

func (Circle) Kind() Kind { return KindCircle }

// Contains compares squared distances so the boundary is exact.
func (c Circle) Contains(x, y float64) bool {
	dx := x - c.X
	dy := y - c.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

func (c Circle) Translate(dx, dy float64) Shape {
	c.X += dx
	c.Y += dy
	return c
}

func (c Circle) Accept(v Visitor) { v.VisitCircle(c) }

func (Circle) sealed() {}

// Line runs from (X1, Y1) to (X2, Y2).
type Line struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

func (Line) Kind() Kind { return KindLine }

// Contains measures the distance to the infinite line through both
// endpoints. A zero-length line never contains a point.
func (l Line) Contains(x, y float64) bool {
	d, ok := geometry.DistanceToLine(
		geometry.NewPoint2D(x, y),
		geometry.NewPoint2D(l.X1, l.Y1),
		geometry.NewPoint2D(l.X2, l.Y2),
	)
	return ok && d <= LineTolerance
}

func (l Line) Translate(dx, dy float64) Shape {
	l.X1 += dx
	l.Y1 += dy
	l.X2 += dx
	l.Y2 += dy
	return l
}

// Length returns the distance between the endpoints.
func (l Line) Length() float64 {
	return math.Hypot(l.X2-l.X1, l.Y2-l.Y1)
}

func (l Line) Accept(v Visitor) { v.VisitLine(l) }

func (Line) sealed() {}

// Polygon is closed implicitly from the last point back to the first.
type Polygon struct {
	Points []geometry.Point2D
}

func (Polygon) Kind() Kind { return KindPolygon }

func (p Polygon) Contains(x, y float64) bool {
	return geometry.PointInPolygon(geometry.NewPoint2D(x, y), p.Points)
}

// Translate never aliases the receiver's point slice.
func (p Polygon) Translate(dx, dy float64) Shape {
	pts := make([]geometry.Point2D, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = pt.Offset(dx, dy)
	}
	return Polygon{Points: pts}
}

// Centroid returns the arithmetic mean of the vertices.
func (p Polygon) Centroid() geometry.Point2D {
	return geometry.Centroid(p.Points)
}

func (p Polygon) Accept(v Visitor) { v.VisitPolygon(p) }

func (Polygon) sealed() {}

// NewRectangle builds the rectangle spanned by a drag from anchor to release.
func NewRectangle(anchor, release geometry.Point2D) Rectangle {
	return Rectangle{
		X:      anchor.X,
		Y:      anchor.Y,
		Width:  release.X - anchor.X,
		Height: release.Y - anchor.Y,
	}
}

// NewCircle builds the circle centred on anchor passing through release.
func NewCircle(anchor, release geometry.Point2D) Circle {
	return Circle{X: anchor.X, Y: anchor.Y, Radius: anchor.Distance(release)}
}

// NewLine builds the segment from anchor to release.
func NewLine(anchor, release geometry.Point2D) Line {
	return Line{X1: anchor.X, Y1: anchor.Y, X2: release.X, Y2: release.Y}
}

// NewPolygon copies points into a new polygon.
func NewPolygon(points []geometry.Point2D) Polygon {
	pts := make([]geometry.Point2D, len(points))
	copy(pts, points)
	return Polygon{Points: pts}
}

// HitTest returns the index of the topmost shape containing (x, y), searching
// from the end of the slice. It returns -1 if nothing is hit.
func HitTest(shapes []Shape, x, y float64) int {
	for i := len(shapes) - 1; i >= 0; i-- {
		if shapes[i].Contains(x, y) {
			return i
		}
	}
	return -1
}
