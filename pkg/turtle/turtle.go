// Package turtle implements the navigational state of the geometry kernel:
// a pose (position, heading, up) plus drawing settings, owned by lexically
// nested scopes. Scopes replace the usual global turtle with structural
// nesting: each scope exclusively owns its state, children inherit by deep
// copy, and exiting a scope discards its state without touching the parent.
package turtle

import (
	"github.com/loamstudio/turtlemesh/pkg/math"
)

// Pose is a position with an orientation frame. Heading and Up are unit
// length and perpendicular within a small tolerance.
type Pose struct {
	Position math.Vec3
	Heading  math.Vec3
	Up       math.Vec3
}

// DefaultPose returns the origin pose: +X heading, +Z up.
func DefaultPose() Pose {
	return Pose{
		Heading: math.Vec3{X: 1},
		Up:      math.Vec3{Z: 1},
	}
}

// Right returns the pose's right axis, heading cross up.
func (p Pose) Right() math.Vec3 {
	return p.Heading.Cross(p.Up)
}

// normalized renormalizes the frame after rotations so float drift never
// accumulates into the orthogonality invariant.
func (p Pose) normalized() Pose {
	p.Heading = p.Heading.Normalize()
	p.Up = orthonormalUp(p.Up, p.Heading, p.Up)
	return p
}

// orthonormalUp projects ref onto the plane perpendicular to heading and
// normalizes. When ref is parallel to heading the projection degenerates
// and fallback is returned unchanged.
func orthonormalUp(ref, heading, fallback math.Vec3) math.Vec3 {
	v := ref.ProjectOnPlane(heading)
	if v.Length() < 1e-9 {
		return fallback
	}
	return v.Normalize()
}

// PenMode controls whether movement draws line segments.
type PenMode int

const (
	PenUp PenMode = iota
	PenDown
)

func (m PenMode) String() string {
	if m == PenDown {
		return "down"
	}
	return "up"
}

// JointMode selects the corner filler strategy for sweeps.
type JointMode int

const (
	// JointFlat bevels the corner with no intermediate ring.
	JointFlat JointMode = iota
	// JointRound fills the corner with a smooth fillet of intermediate rings.
	JointRound
	// JointTapered places a single scaled ring on the corner bisector.
	JointTapered
)

func (m JointMode) String() string {
	switch m {
	case JointRound:
		return "round"
	case JointTapered:
		return "tapered"
	default:
		return "flat"
	}
}

// ParseJointMode converts a joint mode name to its value.
func ParseJointMode(s string) (JointMode, bool) {
	switch s {
	case "flat", "":
		return JointFlat, true
	case "round":
		return JointRound, true
	case "tapered":
		return JointTapered, true
	}
	return JointFlat, false
}

// Resolution holds the tessellation settings carried by a scope.
type Resolution struct {
	// CircleSegments is the default point count for circles.
	CircleSegments int
	// JointSteps is the intermediate ring count for round joints.
	JointSteps int
}

// DefaultResolution returns the standard tessellation settings.
func DefaultResolution() Resolution {
	return Resolution{CircleSegments: 24, JointSteps: 8}
}

// Color is an RGBA color with components in [0,1].
type Color struct {
	R, G, B, A float64
}

// White is the default drawing color.
var White = Color{R: 1, G: 1, B: 1, A: 1}
