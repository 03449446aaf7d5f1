package turtle

import (
	"github.com/loamstudio/turtlemesh/pkg/math"
)

// ScopeOptions controls how a new scope derives its state.
type ScopeOptions struct {
	// Reset starts from the default state (origin, +X heading, +Z up,
	// default settings) instead of inheriting from the parent.
	Reset bool
	// Pose overrides the starting pose on top of the inherited or reset
	// base. The frame is re-orthonormalized.
	Pose *Pose
	// PreserveUp enables roll-drift protection, capturing the scope's up
	// at entry as the reference.
	PreserveUp bool
}

// Scope owns one turtle state. A scope is created by New or Enter, drives
// the turtle through its command methods, and is discarded by Exit. Scopes
// nest strictly: while a child is open the parent rejects all operations,
// and exits must match enters innermost-first.
type Scope struct {
	pose Pose

	pen      PenMode
	penSize  float64
	res      Resolution
	joint    JointMode
	color    Color
	material string
	anchors  map[string]Pose

	preserveUp  bool
	referenceUp math.Vec3

	sink   Sink
	parent *Scope
	child  *Scope
	exited bool

	observer MoveObserver
	pathRec  *Recording
}

// MoveObserver receives movement events while attached to a scope. The
// sweep engine implements this to collect rings; an error return aborts
// the movement before it applies.
type MoveObserver interface {
	// Moved reports straight travel between two poses with equal headings.
	Moved(from, to Pose) error
	// Turned reports an in-place orientation change.
	Turned(from, to Pose) error
}

// New creates a root scope writing to sink. A nil sink discards all drawn
// output. Options apply as for Enter, except that Reset is implied.
func New(sink Sink, opts ScopeOptions) *Scope {
	s := &Scope{
		pose:    DefaultPose(),
		pen:     PenUp,
		penSize: 1,
		res:     DefaultResolution(),
		joint:   JointFlat,
		color:   White,
		anchors: make(map[string]Pose),
		sink:    sink,
	}
	s.applyOptions(opts)
	return s
}

// Enter opens a child scope. By default the child deep-copies every field
// of this scope's state; Reset starts fresh instead. While the child is
// open this scope rejects all operations until Exit.
func (s *Scope) Enter(opts ScopeOptions) (*Scope, error) {
	if err := s.usable("enter"); err != nil {
		return nil, err
	}

	var child *Scope
	if opts.Reset {
		child = New(s.sink, ScopeOptions{})
	} else {
		child = &Scope{
			pose:        s.pose,
			pen:         s.pen,
			penSize:     s.penSize,
			res:         s.res,
			joint:       s.joint,
			color:       s.color,
			material:    s.material,
			anchors:     make(map[string]Pose, len(s.anchors)),
			preserveUp:  s.preserveUp,
			referenceUp: s.referenceUp,
			sink:        s.sink,
		}
		for name, pose := range s.anchors {
			child.anchors[name] = pose
		}
	}
	child.applyOptions(opts)
	child.parent = s
	s.child = child
	return child, nil
}

// applyOptions layers the pose override and preserve-up capture on top of
// the already-built base state.
func (s *Scope) applyOptions(opts ScopeOptions) {
	if opts.Pose != nil {
		p := *opts.Pose
		p.Heading = p.Heading.Normalize()
		if p.Heading.Length() == 0 {
			p.Heading = math.Vec3{X: 1}
		}
		p.Up = orthonormalUp(p.Up, p.Heading, math.Vec3{Z: 1})
		s.pose = p
	}
	if opts.PreserveUp {
		s.preserveUp = true
		s.referenceUp = s.pose.Up
	}
}

// Exit discards this scope's state and reactivates the parent. The scene
// accumulator keeps everything already emitted; nothing else escapes.
func (s *Scope) Exit() error {
	if s.exited {
		return &ScopeMisuseError{Op: "exit", Reason: "scope already exited"}
	}
	if s.child != nil {
		return &ScopeMisuseError{Op: "exit", Reason: "child scope still open"}
	}
	s.exited = true
	s.observer = nil
	s.pathRec = nil
	if s.parent != nil {
		s.parent.child = nil
		s.parent = nil
	}
	return nil
}

// Do runs fn in a child scope and exits it afterwards, error or not.
func (s *Scope) Do(opts ScopeOptions, fn func(*Scope) error) error {
	child, err := s.Enter(opts)
	if err != nil {
		return err
	}
	if err := fn(child); err != nil {
		child.Exit()
		return err
	}
	return child.Exit()
}

// usable rejects operations on exited scopes and on scopes with an open
// child, which enforces the strict LIFO nesting.
func (s *Scope) usable(op string) error {
	if s.exited {
		return &ScopeMisuseError{Op: op, Reason: "scope already exited"}
	}
	if s.child != nil {
		return &ScopeMisuseError{Op: op, Reason: "child scope still open"}
	}
	return nil
}

// Pose returns a copy of the current pose.
func (s *Scope) Pose() Pose {
	return s.pose
}

// Pen returns the current pen mode.
func (s *Scope) Pen() PenMode { return s.pen }

// PenSize returns the current pen width.
func (s *Scope) PenSize() float64 { return s.penSize }

// JointMode returns the active corner filler strategy.
func (s *Scope) JointMode() JointMode { return s.joint }

// Resolution returns the active tessellation settings.
func (s *Scope) Resolution() Resolution { return s.res }

// Color returns the current drawing color.
func (s *Scope) Color() Color { return s.color }

// Material returns the current material name.
func (s *Scope) Material() string { return s.material }

// PreserveUp reports whether roll-drift protection is active.
func (s *Scope) PreserveUp() bool { return s.preserveUp }

// PenDown starts drawing line segments on movement.
func (s *Scope) PenDown() error {
	if err := s.usable("pen"); err != nil {
		return err
	}
	s.pen = PenDown
	return nil
}

// PenUp stops drawing line segments.
func (s *Scope) PenUp() error {
	if err := s.usable("pen"); err != nil {
		return err
	}
	s.pen = PenUp
	return nil
}

// SetPenSize sets the pen width for subsequent lines.
func (s *Scope) SetPenSize(w float64) error {
	if err := s.usable("pen_size"); err != nil {
		return err
	}
	s.penSize = w
	return nil
}

// SetColor sets the drawing color.
func (s *Scope) SetColor(c Color) error {
	if err := s.usable("color"); err != nil {
		return err
	}
	s.color = c
	return nil
}

// SetMaterial sets the material name attached to emitted records.
func (s *Scope) SetMaterial(m string) error {
	if err := s.usable("material"); err != nil {
		return err
	}
	s.material = m
	return nil
}

// SetJointMode sets the corner filler strategy for subsequent corners.
func (s *Scope) SetJointMode(m JointMode) error {
	if err := s.usable("joint_mode"); err != nil {
		return err
	}
	s.joint = m
	return nil
}

// SetResolution sets the tessellation settings.
func (s *Scope) SetResolution(r Resolution) error {
	if err := s.usable("resolution"); err != nil {
		return err
	}
	if r.CircleSegments < 3 {
		r.CircleSegments = 3
	}
	if r.JointSteps < 1 {
		r.JointSteps = 1
	}
	s.res = r
	return nil
}

// SetPreserveUp toggles roll-drift protection. Enabling captures the
// current up as the reference.
func (s *Scope) SetPreserveUp(on bool) error {
	if err := s.usable("preserve_up"); err != nil {
		return err
	}
	s.preserveUp = on
	if on {
		s.referenceUp = s.pose.Up
	}
	return nil
}

// AttachObserver hooks a movement observer onto this scope. Only one can
// be active; a second attach is a scope misuse.
func (s *Scope) AttachObserver(o MoveObserver) error {
	if err := s.usable("attach"); err != nil {
		return err
	}
	if s.observer != nil {
		return &ScopeMisuseError{Op: "attach", Reason: "a sweep recording is already active on this scope"}
	}
	s.observer = o
	return nil
}

// DetachObserver removes the observer if it is the attached one.
func (s *Scope) DetachObserver(o MoveObserver) {
	if s.observer == o {
		s.observer = nil
	}
}
