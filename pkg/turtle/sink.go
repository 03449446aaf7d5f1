package turtle

import (
	"github.com/loamstudio/turtlemesh/pkg/math"
	"github.com/loamstudio/turtlemesh/pkg/mesh"
)

// Style is the drawing state captured with each emitted record.
type Style struct {
	Color    Color
	Material string
	PenSize  float64
}

// LineSegment is one pen stroke between two positions.
type LineSegment struct {
	From, To math.Vec3
	Style    Style
}

// StampMark is a profile outline placed at a pose.
type StampMark struct {
	Points []math.Vec3
	Closed bool
	Style  Style
}

// Sink is the scene accumulator boundary: an append-only, order-preserving
// consumer of everything the kernel draws. The kernel never reads it back.
type Sink interface {
	Line(seg LineSegment)
	Stamp(mark StampMark)
	Mesh(m *mesh.Mesh, style Style)
}

// style snapshots the scope's current drawing state.
func (s *Scope) style() Style {
	return Style{Color: s.color, Material: s.material, PenSize: s.penSize}
}

// EmitStamp appends a stamp outline to the sink using the current style.
func (s *Scope) EmitStamp(points []math.Vec3, closed bool) {
	if s.sink == nil {
		return
	}
	s.sink.Stamp(StampMark{Points: points, Closed: closed, Style: s.style()})
}

// EmitMesh appends a finished mesh to the sink using the current style.
func (s *Scope) EmitMesh(m *mesh.Mesh) {
	if s.sink == nil {
		return
	}
	s.sink.Mesh(m, s.style())
}

func (s *Scope) emitLine(from, to math.Vec3) {
	if s.sink == nil {
		return
	}
	s.sink.Line(LineSegment{From: from, To: to, Style: s.style()})
}
