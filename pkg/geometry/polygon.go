package geometry

import "math"

// RayCastEpsilon is added to the edge denominator in PointInPolygon so that
// horizontal edges never divide by zero.
const RayCastEpsilon = 0.0001

// PointInPolygon tests if a point is inside a polygon using ray casting
// (even-odd rule). The polygon is closed implicitly from the last vertex back
// to the first.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pj-pi
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y+RayCastEpsilon)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through a and b. ok is false when a and b coincide, since no line is
// defined.
func DistanceToLine(p, a, b Point2D) (dist float64, ok bool) {
	length := math.Hypot(b.X-a.X, b.Y-a.Y)
	if length == 0 {
		return 0, false
	}
	num := math.Abs((b.Y-a.Y)*p.X - (b.X-a.X)*p.Y + b.X*a.Y - b.Y*a.X)
	return num / length, true
}
