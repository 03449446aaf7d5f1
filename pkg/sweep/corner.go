package sweep

import (
	gomath "math"

	"github.com/loamstudio/turtlemesh/pkg/math"
	"github.com/loamstudio/turtlemesh/pkg/turtle"
)

// fillers builds the intermediate rings bridging a corner, from the ring
// ending the incoming segment to the ring starting the outgoing one. Flat
// joints bridge directly with no filler.
func (r *Recorder) fillers(c *corner, trim float64, end ring) ([]ring, error) {
	switch c.mode {
	case turtle.JointRound:
		return r.roundFillers(c, trim, end), nil
	case turtle.JointTapered:
		return r.taperedFiller(c, end.t)
	default:
		return nil, nil
	}
}

// roundFillers sweeps the incoming end ring around the corner pivot in
// equal angular steps. The pivot sits on the turn bisector at the point
// where rotating the end ring by the full turn angle lands it exactly on
// the outgoing start ring, so the arc meets both segments flush.
func (r *Recorder) roundFillers(c *corner, trim float64, end ring) []ring {
	hIn, hOut := c.in.Heading, c.out.Heading
	axis := hIn.Cross(hOut).Normalize()
	pivot := c.in.Position.Add(hOut.Sub(hIn).Scale(trim / (1 - gomath.Cos(c.angle))))
	full := math.QuatFromAxisAngle(axis, c.angle)

	out := make([]ring, 0, c.steps)
	for k := 1; k <= c.steps; k++ {
		q := math.QuatIdentity().Slerp(full, float64(k)/float64(c.steps+1))
		rg := ring{points: make([]math.Vec3, len(end.points)), t: end.t}
		for j := 0; j < len(end.points); j++ {
			rg.points[j] = pivot.Add(q.Rotate(end.points[j].Sub(pivot)))
		}
		out = append(out, rg)
	}
	return out
}

// taperedFiller places a single miter ring at the junction, oriented along
// the turn bisector and stretched across the turn plane so its silhouette
// matches both segment walls. For a square profile and a right-angle turn
// this is the exact miter.
func (r *Recorder) taperedFiller(c *corner, t float64) ([]ring, error) {
	pts, err := r.profileAt(t)
	if err != nil {
		return nil, err
	}
	hIn, hOut := c.in.Heading, c.out.Heading
	axis := hIn.Cross(hOut).Normalize()
	half := math.QuatFromAxisAngle(axis, c.angle/2)
	pose := turtle.Pose{
		Position: c.in.Position,
		Heading:  half.Rotate(hIn),
		Up:       half.Rotate(c.in.Up),
	}

	rg := placeRing(pts, pose)
	rg.t = t
	stretch := 1/gomath.Cos(c.angle/2) - 1
	mv := hOut.Sub(hIn).Normalize()
	for j := 0; j < len(rg.points); j++ {
		d := rg.points[j].Sub(pose.Position)
		rg.points[j] = rg.points[j].Add(mv.Scale(d.Dot(mv) * stretch))
	}
	return []ring{rg}, nil
}
