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

func TestLoftTaperedToZero(t *testing.T) {
	sc, sink := newScope()
	fn := shape.Tapered(shape.Static(shape.Circle(20, 24)), 0)
	m, err := Loft(sc, fn, turtle.Path{}.Forward(30), 16)
	if err != nil {
		t.Fatalf("Loft() error = %v", err)
	}

	// 16 rings plus two cap centroids.
	if got, want := len(m.Vertices), 16*24+2; got != want {
		t.Fatalf("len(Vertices) = %d, want %d", got, want)
	}

	// The last ring collapses to the tip.
	tip := math.Vec3{X: 30}
	for i := 15 * 24; i < 16*24; i++ {
		if !nearVec(m.Vertices[i], tip, 1e-6) {
			t.Fatalf("Vertices[%d] = %v, want near %v", i, m.Vertices[i], tip)
		}
	}

	// Stations are uniform, so ring 5 sits at x=10 with radius 20*(2/3).
	wantR := 20 * (1 - 5.0/15.0)
	for i := 5 * 24; i < 6*24; i++ {
		v := m.Vertices[i]
		if !near(v.X, 10, 1e-9) {
			t.Fatalf("ring 5 vertex x = %v, want 10", v.X)
		}
		r := gomath.Sqrt(v.Y*v.Y + v.Z*v.Z)
		if !near(r, wantR, 1e-9) {
			t.Fatalf("ring 5 radius = %v, want %v", r, wantR)
		}
	}

	if m.Closed {
		t.Error("tapered tip mesh should stay open")
	}
	if m.Warning == "" {
		t.Error("degenerate tip should carry a validation warning")
	}

	// The stamp and the first ring are the same cross-section, not two.
	if len(sink.stamps) != 1 {
		t.Fatalf("stamps = %d, want 1", len(sink.stamps))
	}
	if diff := cmp.Diff(sink.stamps[0].Points, m.Vertices[:24]); diff != "" {
		t.Errorf("stamp and first ring differ:\n%s", diff)
	}
}

func TestLoftMatchesExtrudeAtTwoSteps(t *testing.T) {
	prof := shape.Circle(5, 12)

	sc1, _ := newScope()
	m1, err := Extrude(sc1, prof, turtle.Path{}.Forward(20))
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}

	sc2, _ := newScope()
	m2, err := Loft(sc2, shape.Static(prof), turtle.Path{}.Forward(20), 2)
	if err != nil {
		t.Fatalf("Loft() error = %v", err)
	}

	if diff := cmp.Diff(m1.Vertices, m2.Vertices); diff != "" {
		t.Errorf("vertices mismatch (-extrude +loft):\n%s", diff)
	}
	if diff := cmp.Diff(m1.Faces, m2.Faces); diff != "" {
		t.Errorf("faces mismatch (-extrude +loft):\n%s", diff)
	}
}

func TestLoftStationsLandOnSegmentBoundaries(t *testing.T) {
	sc, _ := newScope()
	fn := shape.Static(shape.Circle(5, 12))
	m, err := Loft(sc, fn, turtle.Path{}.Forward(10).Forward(20), 4)
	if err != nil {
		t.Fatalf("Loft() error = %v", err)
	}

	// The station at x=10 coincides with the segment boundary; no ring is
	// doubled there.
	if got, want := len(m.Vertices), 4*12+2; got != want {
		t.Fatalf("len(Vertices) = %d, want %d", got, want)
	}
	for i, wantX := range []float64{0, 10, 20, 30} {
		if got := m.Vertices[i*12].X; !near(got, wantX, 1e-9) {
			t.Errorf("ring %d at x = %v, want %v", i, got, wantX)
		}
	}
	if report := mesh.Validate(m); !report.OK() {
		t.Errorf("Validate() not OK: %s", report.Summary())
	}
}

func TestLoftDefaultSteps(t *testing.T) {
	sc, _ := newScope()
	fn := shape.Static(shape.Circle(5, 12))
	m, err := Loft(sc, fn, turtle.Path{}.Forward(30), 0)
	if err != nil {
		t.Fatalf("Loft() error = %v", err)
	}
	if got, want := len(m.Vertices), DefaultLoftSteps*12+2; got != want {
		t.Errorf("len(Vertices) = %d, want %d", got, want)
	}
}

func TestLoftPointCountDrift(t *testing.T) {
	sc, _ := newScope()
	fn := shape.Static(shape.Circle(5, 12)).Wrap(func(s shape.Shape, tt float64) shape.Shape {
		if tt > 0.4 && tt < 0.6 {
			return s.Resample(7)
		}
		return s
	})
	_, err := Loft(sc, fn, turtle.Path{}.Forward(30), 16)
	var ce *shape.FnContractError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want FnContractError", err)
	}
	if ce.WantPoints != 12 || ce.GotPoints != 7 {
		t.Errorf("contract error = %+v, want 12 and 7", ce)
	}
}

func TestLoftTwistedStaysManifold(t *testing.T) {
	sc, _ := newScope()
	fn := shape.Twisted(shape.Static(shape.Rect(10, 10)), 90)
	m, err := Loft(sc, fn, turtle.Path{}.Forward(40), 24)
	if err != nil {
		t.Fatalf("Loft() error = %v", err)
	}
	if report := mesh.Validate(m); !report.OK() {
		t.Errorf("Validate() not OK: %s", report.Summary())
	}
	if got, want := len(m.Vertices), 24*4+2; got != want {
		t.Errorf("len(Vertices) = %d, want %d", got, want)
	}

	// Quarter twist: the last ring's first corner moved from (-5,-5) in
	// profile space to (5,-5).
	last := m.Vertices[23*4]
	if !near(last.X, 40, 1e-9) {
		t.Errorf("last ring x = %v, want 40", last.X)
	}
	first := m.Vertices[0]
	if nearVec(math.Vec3{Y: first.Y, Z: first.Z}, math.Vec3{Y: last.Y, Z: last.Z}, 1e-6) {
		t.Error("twist left the profile unrotated")
	}
}

func TestLoftClosedStraightPath(t *testing.T) {
	// An extrusion loop with a single straight segment cannot close: only
	// one distinct ring exists.
	sc, _ := newScope()
	if _, err := ExtrudeClosed(sc, shape.Circle(5, 12), turtle.Path{}.Forward(20)); err == nil {
		t.Fatal("single-ring closed sweep should fail")
	}

	// A loft has interior stations, so the loop closes topologically even
	// though the path never returns; position closure is the caller's
	// business.
	sc2, _ := newScope()
	m, err := LoftClosed(sc2, shape.Static(shape.Circle(5, 12)), turtle.Path{}.Forward(20), 16)
	if err != nil {
		t.Fatalf("LoftClosed() error = %v", err)
	}
	if got, want := len(m.Vertices), 15*12; got != want {
		t.Errorf("len(Vertices) = %d, want %d", got, want)
	}
	if !m.Closed {
		t.Errorf("mesh not marked closed: %s", m.Warning)
	}
}
