package turtle

// CommandKind discriminates recorded turtle commands.
type CommandKind int

const (
	CmdForward CommandKind = iota
	CmdTurnHorizontal
	CmdTurnVertical
	CmdRoll
	CmdLateral
)

func (k CommandKind) String() string {
	switch k {
	case CmdForward:
		return "forward"
	case CmdTurnHorizontal:
		return "turn_horizontal"
	case CmdTurnVertical:
		return "turn_vertical"
	case CmdRoll:
		return "roll"
	default:
		return "lateral"
	}
}

// Command is one recorded movement or rotation. Value is a distance for
// movements and degrees for rotations.
type Command struct {
	Kind  CommandKind
	Value float64
	Axis  Axis
}

// Path is an ordered sequence of recorded commands. It is pure data: it
// holds no reference to any turtle, and replay always starts from the
// replaying scope's current pose. Builder methods append copies, so path
// values can be shared and extended safely.
type Path struct {
	Commands []Command
}

// NewPath returns an empty path.
func NewPath() Path {
	return Path{}
}

func (p Path) push(c Command) Path {
	cmds := make([]Command, len(p.Commands), len(p.Commands)+1)
	copy(cmds, p.Commands)
	return Path{Commands: append(cmds, c)}
}

// Forward appends a forward movement of dist.
func (p Path) Forward(dist float64) Path {
	return p.push(Command{Kind: CmdForward, Value: dist})
}

// TurnHorizontal appends a yaw of deg degrees.
func (p Path) TurnHorizontal(deg float64) Path {
	return p.push(Command{Kind: CmdTurnHorizontal, Value: deg})
}

// TurnVertical appends a pitch of deg degrees.
func (p Path) TurnVertical(deg float64) Path {
	return p.push(Command{Kind: CmdTurnVertical, Value: deg})
}

// Roll appends a roll of deg degrees.
func (p Path) Roll(deg float64) Path {
	return p.push(Command{Kind: CmdRoll, Value: deg})
}

// Lateral appends a sideways slide along a frame axis.
func (p Path) Lateral(axis Axis, dist float64) Path {
	return p.push(Command{Kind: CmdLateral, Value: dist, Axis: axis})
}

// Append returns this path followed by other.
func (p Path) Append(other Path) Path {
	cmds := make([]Command, 0, len(p.Commands)+len(other.Commands))
	cmds = append(cmds, p.Commands...)
	cmds = append(cmds, other.Commands...)
	return Path{Commands: cmds}
}

// Times returns the whole sequence repeated n times.
func (p Path) Times(n int) Path {
	if n <= 0 {
		return Path{}
	}
	cmds := make([]Command, 0, n*len(p.Commands))
	for i := 0; i < n; i++ {
		cmds = append(cmds, p.Commands...)
	}
	return Path{Commands: cmds}
}

// Len returns the number of commands.
func (p Path) Len() int {
	return len(p.Commands)
}

// Length returns the total travel distance: forward and lateral movement
// accumulate, rotations contribute zero.
func (p Path) Length() float64 {
	var sum float64
	for _, c := range p.Commands {
		switch c.Kind {
		case CmdForward, CmdLateral:
			if c.Value < 0 {
				sum -= c.Value
			} else {
				sum += c.Value
			}
		}
	}
	return sum
}

// Recording captures commands as they execute on a scope.
type Recording struct {
	sc      *Scope
	cmds    []Command
	stopped bool
}

// Record starts capturing this scope's commands into a new recording.
func (s *Scope) Record() (*Recording, error) {
	if err := s.usable("record"); err != nil {
		return nil, err
	}
	if s.pathRec != nil {
		return nil, &ScopeMisuseError{Op: "record", Reason: "a path recording is already active"}
	}
	r := &Recording{sc: s}
	s.pathRec = r
	return r, nil
}

// Stop ends the recording and returns the captured path.
func (r *Recording) Stop() Path {
	if !r.stopped {
		r.stopped = true
		if r.sc != nil && r.sc.pathRec == r {
			r.sc.pathRec = nil
		}
	}
	cmds := make([]Command, len(r.cmds))
	copy(cmds, r.cmds)
	return Path{Commands: cmds}
}

// capture appends a successfully executed command to the active recording.
func (s *Scope) capture(c Command) {
	if s.pathRec != nil {
		s.pathRec.cmds = append(s.pathRec.cmds, c)
	}
}

// Replay re-issues every command in the path through the normal mutators,
// starting from this scope's current pose. The first failing command stops
// the replay and returns its error.
func (s *Scope) Replay(p Path) error {
	for _, c := range p.Commands {
		var err error
		switch c.Kind {
		case CmdForward:
			err = s.Forward(c.Value)
		case CmdTurnHorizontal:
			err = s.TurnHorizontal(c.Value)
		case CmdTurnVertical:
			err = s.TurnVertical(c.Value)
		case CmdRoll:
			err = s.Roll(c.Value)
		case CmdLateral:
			err = s.Lateral(c.Axis, c.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
