package sweep

import (
	"github.com/loamstudio/turtlemesh/pkg/math"
	"github.com/loamstudio/turtlemesh/pkg/shape"
	"github.com/loamstudio/turtlemesh/pkg/turtle"
)

// ring is one cross-section of a sweep: the profile points placed in the
// plane perpendicular to the path at one station, plus the loft progress
// the profile was evaluated at.
type ring struct {
	points []math.Vec3
	t      float64
}

// placeRing maps 2D profile points into world space at the given pose.
// The profile's X axis maps to the pose's right vector and Y to its up
// vector, so a counter-clockwise profile reads counter-clockwise when
// viewed looking along the heading.
func placeRing(pts []math.Vec2, pose turtle.Pose) ring {
	right := pose.Right()
	out := make([]math.Vec3, len(pts))
	for i := 0; i < len(pts); i++ {
		out[i] = pose.Position.
			Add(right.Scale(pts[i].X)).
			Add(pose.Up.Scale(pts[i].Y))
	}
	return ring{points: out}
}

// ringPoints evaluates the profile for one station, applying the winding
// flip decided at stamp time so every ring keeps the same orientation.
func ringPoints(fn shape.Fn, t float64, flip bool) []math.Vec2 {
	s := fn.At(t)
	if !flip {
		return s.Points
	}
	return s.Reverse().Points
}

func centroid(pts []math.Vec3) math.Vec3 {
	var c math.Vec3
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}
