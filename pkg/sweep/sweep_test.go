package sweep

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/loamstudio/turtlemesh/pkg/math"
	"github.com/loamstudio/turtlemesh/pkg/mesh"
	"github.com/loamstudio/turtlemesh/pkg/shape"
	"github.com/loamstudio/turtlemesh/pkg/turtle"
)

type recordSink struct {
	lines  []turtle.LineSegment
	stamps []turtle.StampMark
	meshes []*mesh.Mesh
}

func (s *recordSink) Line(seg turtle.LineSegment) { s.lines = append(s.lines, seg) }

func (s *recordSink) Stamp(m turtle.StampMark) { s.stamps = append(s.stamps, m) }

func (s *recordSink) Mesh(m *mesh.Mesh, st turtle.Style) { s.meshes = append(s.meshes, m) }

func newScope() (*turtle.Scope, *recordSink) {
	sink := &recordSink{}
	return turtle.New(sink, turtle.ScopeOptions{}), sink
}

func near(a, b, eps float64) bool { return gomath.Abs(a-b) <= eps }

func nearVec(a, b math.Vec3, eps float64) bool { return a.Distance(b) <= eps }

func TestExtrudeStraightCylinder(t *testing.T) {
	sc, sink := newScope()
	prof := shape.Circle(5, 24)
	m, err := Extrude(sc, prof, turtle.Path{}.Forward(20))
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}

	if got, want := len(m.Vertices), 2*24+2; got != want {
		t.Errorf("len(Vertices) = %d, want %d", got, want)
	}
	if got, want := len(m.Faces), 2*24+2*24; got != want {
		t.Errorf("len(Faces) = %d, want %d", got, want)
	}
	if report := mesh.Validate(m); !report.OK() {
		t.Errorf("Validate() not OK: %s", report.Summary())
	}
	if m.Closed {
		t.Error("open extrusion should not set Closed")
	}

	want := prof.Area() * 20
	if got := m.Volume(); !near(got, want, 1e-9*want) {
		t.Errorf("Volume() = %v, want %v", got, want)
	}

	if len(sink.stamps) != 1 {
		t.Errorf("stamps emitted = %d, want 1", len(sink.stamps))
	}
	if len(sink.meshes) != 1 {
		t.Errorf("meshes emitted = %d, want 1", len(sink.meshes))
	}
}

func TestExtrudeClosedSquareLoop(t *testing.T) {
	sc, _ := newScope()
	prof := shape.Circle(5, 24)
	path := turtle.Path{}.Forward(20).TurnHorizontal(90).Times(4)
	m, err := ExtrudeClosed(sc, prof, path)
	if err != nil {
		t.Fatalf("ExtrudeClosed() error = %v", err)
	}

	// Four segments and four corners, flat joints: eight rings, no caps.
	if got, want := len(m.Vertices), 8*24; got != want {
		t.Errorf("len(Vertices) = %d, want %d", got, want)
	}
	if got, want := len(m.Faces), 8*2*24; got != want {
		t.Errorf("len(Faces) = %d, want %d", got, want)
	}
	if report := mesh.Validate(m); !report.OK() {
		t.Fatalf("Validate() not OK: %s", report.Summary())
	}
	if !m.Closed {
		t.Error("closed loop should set Closed")
	}

	// Straight runs cover 4 x 10 units of tube; the corner bridges add
	// less than the remaining 4 x 10.
	a := prof.Area()
	vol := m.Volume()
	if vol <= 40*a || vol >= 80*a {
		t.Errorf("Volume() = %v, want within (%v, %v)", vol, 40*a, 80*a)
	}
}

func TestExtrudeCollinearForwardsShareRing(t *testing.T) {
	sc, _ := newScope()
	prof := shape.Circle(5, 24)
	m, err := Extrude(sc, prof, turtle.Path{}.Forward(10).Forward(10))
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}
	if got, want := len(m.Vertices), 3*24+2; got != want {
		t.Errorf("len(Vertices) = %d, want %d", got, want)
	}
	want := prof.Area() * 20
	if got := m.Volume(); !near(got, want, 1e-9*want) {
		t.Errorf("Volume() = %v, want %v", got, want)
	}
	if report := mesh.Validate(m); !report.OK() {
		t.Errorf("Validate() not OK: %s", report.Summary())
	}
}

func TestExtrudeTrailingRotationIgnored(t *testing.T) {
	sc, _ := newScope()
	prof := shape.Circle(5, 24)
	m, err := Extrude(sc, prof, turtle.Path{}.Forward(10).TurnHorizontal(45))
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}
	if got, want := len(m.Vertices), 2*24+2; got != want {
		t.Errorf("len(Vertices) = %d, want %d", got, want)
	}

	// The mesh stops at the last forward; the scope still turned.
	h := sc.Pose().Heading
	if !nearVec(h, math.Vec3{X: gomath.Cos(gomath.Pi / 4), Y: gomath.Sin(gomath.Pi / 4)}, 1e-9) {
		t.Errorf("heading after trailing turn = %v", h)
	}
}

func TestDegenerateSegment(t *testing.T) {
	sc, _ := newScope()
	path := turtle.Path{}.Forward(20).TurnHorizontal(90).Forward(4)
	_, err := Extrude(sc, shape.Circle(5, 24), path)
	var de *DegenerateSegmentError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want DegenerateSegmentError", err)
	}
	if de.Segment != 1 {
		t.Errorf("Segment = %d, want 1", de.Segment)
	}
	if de.Effective >= 0 {
		t.Errorf("Effective = %v, want negative", de.Effective)
	}

	// The offending forward is vetoed before it moves the turtle.
	if got := sc.Pose().Position; !nearVec(got, math.Vec3{X: 20}, 1e-9) {
		t.Errorf("position after rejected forward = %v, want {20 0 0}", got)
	}
}

func TestZeroLengthForwardRejected(t *testing.T) {
	sc, _ := newScope()
	_, err := Extrude(sc, shape.Circle(5, 24), turtle.Path{}.Forward(0))
	var de *DegenerateSegmentError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want DegenerateSegmentError", err)
	}
	if de.Segment != 0 {
		t.Errorf("Segment = %d, want 0", de.Segment)
	}
}

func TestOpenProfileRejected(t *testing.T) {
	sc, _ := newScope()
	open := shape.Shape{Points: []math.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}}
	_, err := Extrude(sc, open, turtle.Path{}.Forward(10))
	var ise *shape.InvalidShapeError
	if !errors.As(err, &ise) {
		t.Fatalf("error = %v, want InvalidShapeError", err)
	}

	thin := shape.Shape{Points: []math.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}, Closed: true}
	if _, err := Extrude(sc, thin, turtle.Path{}.Forward(10)); !errors.As(err, &ise) {
		t.Fatalf("error = %v, want InvalidShapeError", err)
	}
}

func TestBeginCancel(t *testing.T) {
	sc, sink := newScope()
	rec, err := Begin(sc, shape.Static(shape.Circle(5, 12)))
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if len(sink.stamps) != 1 {
		t.Fatalf("stamps after Begin = %d, want 1", len(sink.stamps))
	}
	rec.Cancel()

	// The scope is free for another recording once canceled.
	rec2, err := Begin(sc, shape.Static(shape.Circle(5, 12)))
	if err != nil {
		t.Fatalf("Begin() after Cancel error = %v", err)
	}
	rec2.Cancel()

	if len(sink.meshes) != 0 {
		t.Errorf("meshes after cancels = %d, want 0", len(sink.meshes))
	}
}

func TestSecondBeginWhileActive(t *testing.T) {
	sc, _ := newScope()
	rec, err := Begin(sc, shape.Static(shape.Circle(5, 12)))
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer rec.Cancel()

	_, err = Extrude(sc, shape.Circle(5, 12), turtle.Path{}.Forward(10))
	var sme *turtle.ScopeMisuseError
	if !errors.As(err, &sme) {
		t.Fatalf("nested sweep error = %v, want ScopeMisuseError", err)
	}
}

func TestLateralDuringSweepRejected(t *testing.T) {
	sc, _ := newScope()
	rec, err := Begin(sc, shape.Static(shape.Circle(5, 12)))
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer rec.Cancel()

	var sme *turtle.ScopeMisuseError
	if err := sc.Lateral(turtle.AxisUp, 5); !errors.As(err, &sme) {
		t.Fatalf("Lateral() error = %v, want ScopeMisuseError", err)
	}
}

func TestFinalizeWithoutTravel(t *testing.T) {
	sc, _ := newScope()
	rec, err := Begin(sc, shape.Static(shape.Circle(5, 12)))
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	var de *DegenerateSegmentError
	if _, err := rec.Finalize(false); !errors.As(err, &de) {
		t.Fatalf("Finalize() error = %v, want DegenerateSegmentError", err)
	}
}

func TestFinalizeTwice(t *testing.T) {
	sc, _ := newScope()
	rec, err := Begin(sc, shape.Static(shape.Circle(5, 12)))
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := sc.Forward(10); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if _, err := rec.Finalize(false); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if _, err := rec.Finalize(false); err == nil {
		t.Fatal("second Finalize() should fail")
	}
}

func TestIncrementalMatchesOneShot(t *testing.T) {
	prof := shape.Circle(5, 16)

	sc1, _ := newScope()
	rec, err := Begin(sc1, shape.Static(prof))
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := sc1.Forward(15); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if err := sc1.TurnHorizontal(90); err != nil {
		t.Fatalf("TurnHorizontal() error = %v", err)
	}
	if err := sc1.Forward(15); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	m1, err := rec.Finalize(false)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	sc2, _ := newScope()
	m2, err := Extrude(sc2, prof, turtle.Path{}.Forward(15).TurnHorizontal(90).Forward(15))
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}

	if diff := cmp.Diff(m1.Vertices, m2.Vertices); diff != "" {
		t.Errorf("vertices mismatch (-incremental +oneshot):\n%s", diff)
	}
	if diff := cmp.Diff(m1.Faces, m2.Faces); diff != "" {
		t.Errorf("faces mismatch (-incremental +oneshot):\n%s", diff)
	}
}
