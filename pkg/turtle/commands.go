package turtle

import (
	"github.com/loamstudio/turtlemesh/pkg/math"
)

// Axis names a lateral movement direction relative to the pose frame.
type Axis int

const (
	AxisUp Axis = iota
	AxisDown
	AxisLeft
	AxisRight
)

func (a Axis) String() string {
	switch a {
	case AxisUp:
		return "up"
	case AxisDown:
		return "down"
	case AxisLeft:
		return "left"
	default:
		return "right"
	}
}

// ParseAxis converts an axis name to its value.
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "up", "u":
		return AxisUp, true
	case "down", "d":
		return AxisDown, true
	case "left", "lt":
		return AxisLeft, true
	case "right", "rt":
		return AxisRight, true
	}
	return AxisUp, false
}

// Forward moves along the heading by dist, drawing a line if the pen is
// down. Negative dist moves backward.
func (s *Scope) Forward(dist float64) error {
	if err := s.usable("forward"); err != nil {
		return err
	}
	from := s.pose
	to := from
	to.Position = from.Position.Add(from.Heading.Scale(dist))

	if s.observer != nil {
		if err := s.observer.Moved(from, to); err != nil {
			return err
		}
	}
	s.pose = to
	if s.pen == PenDown {
		s.emitLine(from.Position, to.Position)
	}
	s.capture(Command{Kind: CmdForward, Value: dist})
	return nil
}

// Lateral slides the pose sideways along a frame axis without changing
// orientation. It fails while a sweep recording is active: a sideways
// offset with an unchanged heading would break ring ordering.
func (s *Scope) Lateral(axis Axis, dist float64) error {
	if err := s.usable("lateral"); err != nil {
		return err
	}
	if s.observer != nil {
		return &ScopeMisuseError{Op: "lateral", Reason: "lateral movement during an active sweep recording"}
	}

	var dir math.Vec3
	switch axis {
	case AxisUp:
		dir = s.pose.Up
	case AxisDown:
		dir = s.pose.Up.Neg()
	case AxisLeft:
		dir = s.pose.Right().Neg()
	case AxisRight:
		dir = s.pose.Right()
	}

	from := s.pose.Position
	s.pose.Position = from.Add(dir.Scale(dist))
	if s.pen == PenDown {
		s.emitLine(from, s.pose.Position)
	}
	s.capture(Command{Kind: CmdLateral, Value: dist, Axis: axis})
	return nil
}

// TurnHorizontal yaws by deg degrees; positive turns left. Under
// preserve-up the rotation axis is the captured reference up rather than
// the live up, and up is re-orthogonalized toward the reference.
func (s *Scope) TurnHorizontal(deg float64) error {
	if err := s.usable("turn_horizontal"); err != nil {
		return err
	}
	from := s.pose
	to := from
	rad := math.Radians(deg)

	if s.preserveUp {
		to.Heading = from.Heading.RotateAround(s.referenceUp, rad)
		to.Up = orthonormalUp(s.referenceUp, to.Heading, from.Up)
	} else {
		to.Heading = from.Heading.RotateAround(from.Up, rad)
	}
	to = to.normalized()
	return s.applyTurn(from, to, CmdTurnHorizontal, deg)
}

// TurnVertical pitches by deg degrees; positive pitches up. Under
// preserve-up, up is re-orthogonalized toward the captured reference after
// the pitch, so yaw/pitch sequences cannot accumulate roll.
func (s *Scope) TurnVertical(deg float64) error {
	if err := s.usable("turn_vertical"); err != nil {
		return err
	}
	from := s.pose
	to := from
	rad := math.Radians(deg)
	right := from.Right().Normalize()

	to.Heading = from.Heading.RotateAround(right, rad)
	if s.preserveUp {
		to.Up = orthonormalUp(s.referenceUp, to.Heading, from.Up)
	} else {
		to.Up = from.Up.RotateAround(right, rad)
	}
	to = to.normalized()
	return s.applyTurn(from, to, CmdTurnVertical, deg)
}

// Roll rotates up around the heading by deg degrees; positive rolls
// clockwise looking along the heading. Roll is the only deliberate source
// of roll under preserve-up, and the next pitch or yaw cancels it there.
func (s *Scope) Roll(deg float64) error {
	if err := s.usable("roll"); err != nil {
		return err
	}
	from := s.pose
	to := from
	to.Up = from.Up.RotateAround(from.Heading.Normalize(), math.Radians(deg))
	to = to.normalized()
	return s.applyTurn(from, to, CmdRoll, deg)
}

// applyTurn runs the observer hook, commits the pose, and captures the
// command for any active path recording.
func (s *Scope) applyTurn(from, to Pose, kind CommandKind, deg float64) error {
	if s.observer != nil {
		if err := s.observer.Turned(from, to); err != nil {
			return err
		}
	}
	s.pose = to
	s.capture(Command{Kind: kind, Value: deg})
	return nil
}
