package turtle

import "fmt"

// MarkAnchor snapshots the current pose under a name. Anchors are part of
// the scope's state: children inherit copies, and a child's new anchors
// vanish with it.
func (s *Scope) MarkAnchor(name string) error {
	if err := s.usable("mark_anchor"); err != nil {
		return err
	}
	s.anchors[name] = s.pose
	return nil
}

// GoAnchor teleports to a previously marked pose. It is a jump, not
// travel: no line is drawn even with the pen down, and no sweep ring is
// produced, so it fails while a sweep recording is active.
func (s *Scope) GoAnchor(name string) error {
	if err := s.usable("go_anchor"); err != nil {
		return err
	}
	if s.observer != nil {
		return &ScopeMisuseError{Op: "go_anchor", Reason: "anchor jump during an active sweep recording"}
	}
	pose, ok := s.anchors[name]
	if !ok {
		return fmt.Errorf("unknown anchor %q", name)
	}
	s.pose = pose
	return nil
}

// Anchor returns the pose marked under name.
func (s *Scope) Anchor(name string) (Pose, bool) {
	p, ok := s.anchors[name]
	return p, ok
}
