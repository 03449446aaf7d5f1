// Package scene accumulates geometry emitted by turtle scopes.
package scene

import (
	"sync"

	"go.uber.org/zap"

	"github.com/loamstudio/turtlemesh/internal/logger"
	"github.com/loamstudio/turtlemesh/pkg/mesh"
	"github.com/loamstudio/turtlemesh/pkg/turtle"
)

// Kind identifies what an accumulated item holds.
type Kind int

const (
	KindLine Kind = iota
	KindStamp
	KindMesh
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindStamp:
		return "stamp"
	case KindMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Item is one emitted record in draw order. Exactly one of Line, Stamp,
// or Mesh is populated, selected by Kind. Style is filled for all kinds.
type Item struct {
	Seq   int
	Kind  Kind
	Line  turtle.LineSegment
	Stamp turtle.StampMark
	Mesh  *mesh.Mesh
	Style turtle.Style
}

// Accumulator collects emitted geometry in order. It implements
// turtle.Sink and is safe for concurrent use.
type Accumulator struct {
	mu    sync.Mutex
	items []Item
	seq   int
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Line records a pen stroke.
func (a *Accumulator) Line(seg turtle.LineSegment) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.items = append(a.items, Item{Seq: a.seq, Kind: KindLine, Line: seg, Style: seg.Style})
	a.seq++

	logger.Debug("scene line",
		zap.Int("seq", a.seq-1),
		zap.Float64("length", seg.From.Distance(seg.To)))
}

// Stamp records a profile outline.
func (a *Accumulator) Stamp(mark turtle.StampMark) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.items = append(a.items, Item{Seq: a.seq, Kind: KindStamp, Stamp: mark, Style: mark.Style})
	a.seq++

	logger.Debug("scene stamp",
		zap.Int("seq", a.seq-1),
		zap.Int("points", len(mark.Points)),
		zap.Bool("closed", mark.Closed))
}

// Mesh records a finished mesh.
func (a *Accumulator) Mesh(m *mesh.Mesh, style turtle.Style) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.items = append(a.items, Item{Seq: a.seq, Kind: KindMesh, Mesh: m, Style: style})
	a.seq++

	logger.Debug("scene mesh",
		zap.Int("seq", a.seq-1),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("faces", len(m.Faces)),
		zap.Bool("closed", m.Closed))
}

// Len returns the number of accumulated items.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// Items returns a copy of the accumulated items in emit order.
func (a *Accumulator) Items() []Item {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Item, len(a.items))
	copy(out, a.items)
	return out
}

// Meshes returns the accumulated meshes in emit order.
func (a *Accumulator) Meshes() []*mesh.Mesh {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []*mesh.Mesh
	for _, it := range a.items {
		if it.Kind == KindMesh {
			out = append(out, it.Mesh)
		}
	}
	return out
}

// Drain returns all accumulated items and clears the accumulator.
// Sequence numbering restarts from zero.
func (a *Accumulator) Drain() []Item {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.items
	a.items = nil
	a.seq = 0
	return out
}
