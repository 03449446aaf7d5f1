// Package shape provides immutable 2D cross-section profiles and the
// composable transform functions that vary them along a loft.
package shape

import (
	gomath "math"

	"github.com/loamstudio/turtlemesh/pkg/math"
)

// Shape is an ordered sequence of 2D points with an open/closed flag.
// Shapes are immutable by convention: every transform returns a new value.
type Shape struct {
	Points []math.Vec2
	Closed bool
}

// Circle returns a counterclockwise circle of the given radius.
func Circle(radius float64, segments int) Shape {
	if segments < 3 {
		segments = 3
	}
	pts := make([]math.Vec2, segments)
	for i := 0; i < segments; i++ {
		a := 2 * gomath.Pi * float64(i) / float64(segments)
		pts[i] = math.Vec2{X: radius * gomath.Cos(a), Y: radius * gomath.Sin(a)}
	}
	return Shape{Points: pts, Closed: true}
}

// Square returns a counterclockwise axis-aligned square centered at the origin.
func Square(side float64) Shape {
	return Rect(side, side)
}

// Rect returns a counterclockwise axis-aligned rectangle centered at the origin.
func Rect(w, h float64) Shape {
	return Shape{
		Points: []math.Vec2{
			{X: -w / 2, Y: -h / 2},
			{X: w / 2, Y: -h / 2},
			{X: w / 2, Y: h / 2},
			{X: -w / 2, Y: h / 2},
		},
		Closed: true,
	}
}

// Polygon returns a closed shape from the given points, in the given order.
func Polygon(points ...math.Vec2) Shape {
	pts := make([]math.Vec2, len(points))
	copy(pts, points)
	return Shape{Points: pts, Closed: true}
}

// Star returns a counterclockwise star with the given outer and inner radii.
func Star(outer, inner float64, points int) Shape {
	if points < 3 {
		points = 3
	}
	pts := make([]math.Vec2, 2*points)
	for i := 0; i < 2*points; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := gomath.Pi * float64(i) / float64(points)
		pts[i] = math.Vec2{X: r * gomath.Cos(a), Y: r * gomath.Sin(a)}
	}
	return Shape{Points: pts, Closed: true}
}

// clonePoints copies the point slice so transforms never alias their input.
func (s Shape) clonePoints() []math.Vec2 {
	pts := make([]math.Vec2, len(s.Points))
	copy(pts, s.Points)
	return pts
}

// Scale returns the shape scaled uniformly about the origin.
func (s Shape) Scale(f float64) Shape {
	pts := make([]math.Vec2, len(s.Points))
	for i, p := range s.Points {
		pts[i] = p.Scale(f)
	}
	return Shape{Points: pts, Closed: s.Closed}
}

// ScaleXY returns the shape scaled about the origin, per axis.
func (s Shape) ScaleXY(fx, fy float64) Shape {
	pts := make([]math.Vec2, len(s.Points))
	for i, p := range s.Points {
		pts[i] = math.Vec2{X: p.X * fx, Y: p.Y * fy}
	}
	return Shape{Points: pts, Closed: s.Closed}
}

// Rotate returns the shape rotated counterclockwise by deg degrees about
// the origin.
func (s Shape) Rotate(deg float64) Shape {
	rad := math.Radians(deg)
	pts := make([]math.Vec2, len(s.Points))
	for i, p := range s.Points {
		pts[i] = p.Rotate(rad)
	}
	return Shape{Points: pts, Closed: s.Closed}
}

// Translate returns the shape offset by (dx, dy).
func (s Shape) Translate(dx, dy float64) Shape {
	pts := make([]math.Vec2, len(s.Points))
	for i, p := range s.Points {
		pts[i] = math.Vec2{X: p.X + dx, Y: p.Y + dy}
	}
	return Shape{Points: pts, Closed: s.Closed}
}

// Reverse returns the shape with its point order reversed, flipping winding.
func (s Shape) Reverse() Shape {
	pts := make([]math.Vec2, len(s.Points))
	for i, p := range s.Points {
		pts[len(pts)-1-i] = p
	}
	return Shape{Points: pts, Closed: s.Closed}
}

// Perimeter returns the total edge length, including the closing edge for
// closed shapes.
func (s Shape) Perimeter() float64 {
	if len(s.Points) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(s.Points); i++ {
		sum += s.Points[i].Distance(s.Points[i-1])
	}
	if s.Closed {
		sum += s.Points[0].Distance(s.Points[len(s.Points)-1])
	}
	return sum
}

// Area returns the signed area by the shoelace formula. Positive means
// counterclockwise winding. Open shapes are treated as if closed.
func (s Shape) Area() float64 {
	if len(s.Points) < 3 {
		return 0
	}
	var sum float64
	for i, p := range s.Points {
		q := s.Points[(i+1)%len(s.Points)]
		sum += p.Cross(q)
	}
	return sum / 2
}

// EffectiveRadius returns the largest distance from the origin to any point.
// The sweep engine shortens segments at corners by this much.
func (s Shape) EffectiveRadius() float64 {
	var max float64
	for _, p := range s.Points {
		if l := p.Length(); l > max {
			max = l
		}
	}
	return max
}

// Resample returns the shape redistributed to n points spaced uniformly by
// arc length. Closed shapes resample around the loop; open shapes keep both
// endpoints.
func (s Shape) Resample(n int) Shape {
	if n < 2 || len(s.Points) < 2 {
		return Shape{Points: s.clonePoints(), Closed: s.Closed}
	}

	// Cumulative edge lengths, with the wrap edge for closed shapes
	edges := len(s.Points) - 1
	if s.Closed {
		edges = len(s.Points)
	}
	cum := make([]float64, edges+1)
	for i := 0; i < edges; i++ {
		a := s.Points[i]
		b := s.Points[(i+1)%len(s.Points)]
		cum[i+1] = cum[i] + a.Distance(b)
	}
	total := cum[edges]
	if total == 0 {
		return Shape{Points: s.clonePoints(), Closed: s.Closed}
	}

	pts := make([]math.Vec2, n)
	seg := 0
	for i := 0; i < n; i++ {
		var d float64
		if s.Closed {
			d = total * float64(i) / float64(n)
		} else {
			d = total * float64(i) / float64(n-1)
		}
		for seg < edges-1 && cum[seg+1] < d {
			seg++
		}
		a := s.Points[seg]
		b := s.Points[(seg+1)%len(s.Points)]
		span := cum[seg+1] - cum[seg]
		var f float64
		if span > 0 {
			f = (d - cum[seg]) / span
		}
		pts[i] = math.LerpVec2(a, b, f)
	}
	return Shape{Points: pts, Closed: s.Closed}
}

// Morph returns the blend of two shapes at t in [0,1]: t=0 yields a, t=1
// yields b. Shapes with differing point counts are first resampled to the
// larger count.
func Morph(a, b Shape, t float64) Shape {
	if len(a.Points) != len(b.Points) {
		n := len(a.Points)
		if len(b.Points) > n {
			n = len(b.Points)
		}
		a = a.Resample(n)
		b = b.Resample(n)
	}
	pts := make([]math.Vec2, len(a.Points))
	for i := range pts {
		pts[i] = math.LerpVec2(a.Points[i], b.Points[i], t)
	}
	return Shape{Points: pts, Closed: a.Closed}
}

// Validate reports whether the shape can form a sweep ring.
func (s Shape) Validate() error {
	if len(s.Points) < 3 {
		return &InvalidShapeError{Points: len(s.Points), Reason: "a ring needs at least 3 points"}
	}
	return nil
}
