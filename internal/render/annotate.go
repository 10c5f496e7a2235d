package render

import (
	"fmt"
	"strconv"

	"plan-sketcher/internal/shape"
	"plan-sketcher/pkg/geometry"
)

// Label is the annotation text for one shape and the baseline point it is
// drawn at.
type Label struct {
	Text string
	At   geometry.Point2D
}

// labelOffset is the gap between a shape's reference point and its label.
const labelOffset = 5

// Annotate computes the label for s.
func Annotate(s shape.Shape) Label {
	var a annotator
	s.Accept(&a)
	return a.label
}

type annotator struct {
	label Label
}

func (a *annotator) VisitRectangle(r shape.Rectangle) {
	a.label = Label{
		Text: fmt.Sprintf("Rectangle (%s, %s)", num(r.X), num(r.Y)),
		At:   geometry.NewPoint2D(r.X+labelOffset, r.Y-labelOffset),
	}
}

func (a *annotator) VisitCircle(c shape.Circle) {
	a.label = Label{
		Text: fmt.Sprintf("Circle (%s, %s)", num(c.X), num(c.Y)),
		At:   geometry.NewPoint2D(c.X+c.Radius+labelOffset, c.Y),
	}
}

func (a *annotator) VisitLine(l shape.Line) {
	a.label = Label{
		Text: fmt.Sprintf("Line (%s, %s) → (%s, %s)", num(l.X1), num(l.Y1), num(l.X2), num(l.Y2)),
		At:   geometry.NewPoint2D(l.X1+labelOffset, l.Y1-labelOffset),
	}
}

func (a *annotator) VisitPolygon(p shape.Polygon) {
	a.label = Label{
		Text: fmt.Sprintf("Polygon (%d pts)", len(p.Points)),
		At:   p.Centroid(),
	}
}

// num prints v in the shortest form that round-trips.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
