// Package sweep turns recorded turtle motion into triangle meshes. A
// Recorder observes a scope between a stamp and a finalize: forward
// movements become extrusion segments, rotation groups become corners
// joined flat, round, or tapered, and the collected rings are stitched
// into a mesh with optional end caps.
package sweep

import (
	"fmt"
	gomath "math"

	"github.com/loamstudio/turtlemesh/pkg/math"
	"github.com/loamstudio/turtlemesh/pkg/mesh"
	"github.com/loamstudio/turtlemesh/pkg/shape"
	"github.com/loamstudio/turtlemesh/pkg/turtle"
)

// DefaultLoftSteps is the ring count used when a loft is requested without
// an explicit step count.
const DefaultLoftSteps = 16

const (
	lengthEps = 1e-9
	angleEps  = 1e-9
)

type recorderState int

const (
	stateStamped recorderState = iota
	stateRecording
	stateFinalized
)

// segment is one forward movement. Its start pose carries the heading and
// up for the whole stretch; rotations only happen at corners.
type segment struct {
	start  turtle.Pose
	length float64
}

// corner sits between segment at and segment at+1, or between the last
// segment and the first for the wrap corner of a closed sweep. in is the
// pose arriving at the junction, out the pose leaving it.
type corner struct {
	at    int
	in    turtle.Pose
	out   turtle.Pose
	angle float64
	mode  turtle.JointMode
	steps int
}

// Recorder captures turtle movement between a stamp and a finalize and
// turns it into a swept mesh. While it is attached the scope rejects
// lateral movement and anchor jumps, so the recorded path is a pure
// forward/turn chain.
type Recorder struct {
	sc        *turtle.Scope
	fn        shape.Fn
	loftSteps int  // 0 means extrude: rings at segment boundaries only
	flip      bool // profile was clockwise; reverse every evaluation

	state   recorderState
	segs    []segment
	corners []corner

	pending     bool        // rotations seen since the last forward
	pendingFrom turtle.Pose // pose before the first rotation of the group

	points  int
	static  []math.Vec2
	radius0 float64
}

// Begin stamps the profile at the scope's current pose and starts
// recording. The profile must be closed with at least three points, and a
// varying profile must keep its point count across the loft range.
func Begin(sc *turtle.Scope, fn shape.Fn) (*Recorder, error) {
	return begin(sc, fn, 0)
}

// BeginLoft is Begin with uniform progress stations added between segment
// boundaries, the way Loft places them. steps below 2 selects
// DefaultLoftSteps.
func BeginLoft(sc *turtle.Scope, fn shape.Fn, steps int) (*Recorder, error) {
	return begin(sc, fn, clampSteps(steps))
}

func begin(sc *turtle.Scope, fn shape.Fn, loftSteps int) (*Recorder, error) {
	s0 := fn.At(0)
	if err := s0.Validate(); err != nil {
		return nil, err
	}
	if !s0.Closed {
		return nil, &shape.InvalidShapeError{Points: len(s0.Points), Reason: "open profile cannot form a sweep ring"}
	}
	if err := fn.CheckContract(); err != nil {
		return nil, err
	}

	r := &Recorder{
		sc:        sc,
		fn:        fn,
		loftSteps: loftSteps,
		flip:      s0.Area() < 0,
		state:     stateStamped,
		points:    len(s0.Points),
		radius0:   s0.EffectiveRadius(),
	}
	r.static = ringPoints(fn, 0, r.flip)
	if err := sc.AttachObserver(r); err != nil {
		return nil, err
	}
	sc.EmitStamp(placeRing(r.static, sc.Pose()).points, true)
	return r, nil
}

// Moved implements turtle.MoveObserver. Each forward movement extends the
// recording by one segment; the rotation group before it, if any, commits
// as a corner. A movement that would leave a segment without positive
// effective length is rejected before it applies.
func (r *Recorder) Moved(from, to turtle.Pose) error {
	d := to.Position.Sub(from.Position).Dot(from.Heading)
	if d <= lengthEps {
		return &DegenerateSegmentError{Segment: len(r.segs), Effective: d}
	}

	var c *corner
	if r.state == stateRecording && r.pending {
		c = r.makeCorner(r.pendingFrom, from)
	}
	if c != nil && r.loftSteps == 0 {
		// Static profile: fail fast at the offending movement. Varying
		// profiles are checked at finalize when progress is known.
		tr := r.radius0 * gomath.Tan(c.angle/2)
		prev := r.segs[len(r.segs)-1]
		prevStart := 0.0
		if n := len(r.corners); n > 0 && r.corners[n-1].at == len(r.segs)-2 {
			prevStart = r.radius0 * gomath.Tan(r.corners[n-1].angle/2)
		}
		if eff := prev.length - prevStart - tr; eff <= lengthEps {
			return &DegenerateSegmentError{Segment: len(r.segs) - 1, Effective: eff}
		}
		if eff := d - tr; eff <= lengthEps {
			return &DegenerateSegmentError{Segment: len(r.segs), Effective: eff}
		}
	}

	r.state = stateRecording
	if c != nil {
		r.corners = append(r.corners, *c)
	}
	r.pending = false
	r.segs = append(r.segs, segment{start: from, length: d})
	return nil
}

// Turned implements turtle.MoveObserver. Rotations before the first
// forward re-aim the first ring; later ones accumulate until the next
// forward commits them as a single corner.
func (r *Recorder) Turned(from, to turtle.Pose) error {
	if r.state == stateStamped {
		return nil
	}
	if !r.pending {
		r.pending = true
		r.pendingFrom = from
	}
	return nil
}

// makeCorner builds the corner between the current last segment and the
// one about to start. A rotation group with no net heading change is not
// a corner; the segments share a junction ring instead.
func (r *Recorder) makeCorner(before, after turtle.Pose) *corner {
	angle := gomath.Acos(clampUnit(before.Heading.Dot(after.Heading)))
	if angle <= angleEps {
		return nil
	}
	return &corner{
		at:    len(r.segs) - 1,
		in:    before,
		out:   after,
		angle: angle,
		mode:  r.sc.JointMode(),
		steps: r.sc.Resolution().JointSteps,
	}
}

// wrapCorner joins the last segment back to the first for a closed sweep.
// Trailing rotations after the last forward are ignored; the corner angle
// comes from the two segment headings alone.
func (r *Recorder) wrapCorner() *corner {
	last := r.segs[len(r.segs)-1]
	end := last.start
	end.Position = end.Position.Add(end.Heading.Scale(last.length))
	first := r.segs[0].start
	angle := gomath.Acos(clampUnit(end.Heading.Dot(first.Heading)))
	if angle <= angleEps {
		return nil
	}
	return &corner{
		at:    len(r.segs) - 1,
		in:    end,
		out:   turtle.Pose{Position: end.Position, Heading: first.Heading, Up: first.Up},
		angle: angle,
		mode:  r.sc.JointMode(),
		steps: r.sc.Resolution().JointSteps,
	}
}

// Cancel abandons the recording without producing a mesh. The stamp mark
// emitted by Begin stays in the sink.
func (r *Recorder) Cancel() {
	if r.state == stateFinalized {
		return
	}
	r.sc.DetachObserver(r)
	r.state = stateFinalized
}

// Finalize stops recording, assembles the swept mesh, emits it to the
// scope's sink, and returns it. With closed set the last segment joins
// back to the first through a wrap corner and no caps are generated;
// otherwise both ends are capped. The mesh is validated before it is
// emitted: Closed is set only when a closed sweep passes, and Warning
// carries the validation summary when it does not.
func (r *Recorder) Finalize(closed bool) (*mesh.Mesh, error) {
	if r.state == stateFinalized {
		return nil, fmt.Errorf("sweep already finalized")
	}
	r.sc.DetachObserver(r)
	wasRecording := r.state == stateRecording
	r.state = stateFinalized
	if !wasRecording {
		return nil, &DegenerateSegmentError{Segment: 0, Effective: 0}
	}

	if closed {
		if c := r.wrapCorner(); c != nil {
			r.corners = append(r.corners, *c)
		}
	}
	rings, err := r.plan(closed)
	if err != nil {
		return nil, err
	}
	if closed && len(rings) < 2 {
		return nil, fmt.Errorf("closed sweep needs at least two rings")
	}

	out := assemble(rings, closed)
	report := mesh.Validate(out)
	if !report.OK() {
		out.Warning = report.Summary()
	} else if closed {
		out.Closed = true
	}
	r.sc.EmitMesh(out)
	return out, nil
}

func (r *Recorder) radiusAt(t float64) float64 {
	if r.loftSteps == 0 {
		return r.radius0
	}
	return r.fn.At(t).EffectiveRadius()
}

// profileAt evaluates the 2D profile for one station, enforcing the
// constant point count a mesh lattice needs.
func (r *Recorder) profileAt(t float64) ([]math.Vec2, error) {
	if r.loftSteps == 0 {
		return r.static, nil
	}
	pts := ringPoints(r.fn, t, r.flip)
	if len(pts) != r.points {
		return nil, &shape.FnContractError{WantPoints: r.points, GotPoints: len(pts), At: t}
	}
	return pts, nil
}

func clampSteps(steps int) int {
	if steps < 2 {
		return DefaultLoftSteps
	}
	return steps
}

func clampUnit(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}
