package shape

import (
	"encoding/json"
	"fmt"

	"plan-sketcher/pkg/geometry"
)

// Wire forms. Every field of a kind is always written.

type rectangleWire struct {
	Type   Kind    `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type circleWire struct {
	Type   Kind    `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type lineWire struct {
	Type Kind    `json:"type"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

type polygonWire struct {
	Type   Kind               `json:"type"`
	Points []geometry.Point2D `json:"points"`
}

type encoder struct {
	out any
}

func (e *encoder) VisitRectangle(r Rectangle) {
	e.out = rectangleWire{Type: KindRectangle, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (e *encoder) VisitCircle(c Circle) {
	e.out = circleWire{Type: KindCircle, X: c.X, Y: c.Y, Radius: c.Radius}
}

func (e *encoder) VisitLine(l Line) {
	e.out = lineWire{Type: KindLine, X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2}
}

func (e *encoder) VisitPolygon(p Polygon) {
	pts := p.Points
	if pts == nil {
		pts = []geometry.Point2D{}
	}
	e.out = polygonWire{Type: KindPolygon, Points: pts}
}

func toWire(s Shape) any {
	var e encoder
	s.Accept(&e)
	return e.out
}

func (r Rectangle) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(r)) }
func (c Circle) MarshalJSON() ([]byte, error)    { return json.Marshal(toWire(c)) }
func (l Line) MarshalJSON() ([]byte, error)      { return json.Marshal(toWire(l)) }
func (p Polygon) MarshalJSON() ([]byte, error)   { return json.Marshal(toWire(p)) }

// Unmarshal decodes one tagged shape object.
func Unmarshal(data []byte) (Shape, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}
	kind, err := ParseKind(head.Type)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindRectangle:
		var w rectangleWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode rectangle: %w", err)
		}
		return Rectangle{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}, nil
	case KindCircle:
		var w circleWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode circle: %w", err)
		}
		return Circle{X: w.X, Y: w.Y, Radius: w.Radius}, nil
	case KindLine:
		var w lineWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode line: %w", err)
		}
		return Line{X1: w.X1, Y1: w.Y1, X2: w.X2, Y2: w.Y2}, nil
	case KindPolygon:
		var w polygonWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode polygon: %w", err)
		}
		return NewPolygon(w.Points), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, head.Type)
}

// List is an ordered shape sequence with a JSON array encoding.
type List []Shape

// MarshalJSON writes an empty array rather than null for an empty list.
func (l List) MarshalJSON() ([]byte, error) {
	items := make([]any, len(l))
	for i, s := range l {
		items[i] = toWire(s)
	}
	return json.Marshal(items)
}

// UnmarshalJSON decodes each element by its type tag.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode shapes: %w", err)
	}
	out := make(List, 0, len(raw))
	for i, r := range raw {
		s, err := Unmarshal(r)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		out = append(out, s)
	}
	*l = out
	return nil
}
