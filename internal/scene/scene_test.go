package scene

import (
	gomath "math"
	"os"
	"testing"

	"github.com/loamstudio/turtlemesh/internal/logger"
	"github.com/loamstudio/turtlemesh/pkg/math"
	"github.com/loamstudio/turtlemesh/pkg/mesh"
	"github.com/loamstudio/turtlemesh/pkg/turtle"
)

func TestMain(m *testing.M) {
	logger.Init("error", "")
	os.Exit(m.Run())
}

func nearVec(a, b math.Vec3, eps float64) bool {
	return gomath.Abs(a.X-b.X) <= eps && gomath.Abs(a.Y-b.Y) <= eps && gomath.Abs(a.Z-b.Z) <= eps
}

func testMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []math.Vec3{{}, {X: 1}, {Y: 1}},
		Faces:    []mesh.Tri{{0, 1, 2}},
	}
}

func TestAccumulatorOrder(t *testing.T) {
	acc := NewAccumulator()

	acc.Line(turtle.LineSegment{From: math.Vec3{}, To: math.Vec3{X: 10}})
	acc.Stamp(turtle.StampMark{Points: []math.Vec3{{}, {X: 1}, {Y: 1}}, Closed: true})
	acc.Mesh(testMesh(), turtle.Style{PenSize: 2})

	if acc.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", acc.Len())
	}

	items := acc.Items()
	wantKinds := []Kind{KindLine, KindStamp, KindMesh}
	for i, it := range items {
		if it.Seq != i {
			t.Errorf("items[%d].Seq = %d, want %d", i, it.Seq, i)
		}
		if it.Kind != wantKinds[i] {
			t.Errorf("items[%d].Kind = %v, want %v", i, it.Kind, wantKinds[i])
		}
	}

	if items[2].Style.PenSize != 2 {
		t.Errorf("mesh item pen size = %v, want 2", items[2].Style.PenSize)
	}
	if items[2].Mesh == nil || len(items[2].Mesh.Faces) != 1 {
		t.Error("mesh item does not carry the emitted mesh")
	}
}

func TestAccumulatorDrain(t *testing.T) {
	acc := NewAccumulator()

	acc.Line(turtle.LineSegment{To: math.Vec3{X: 1}})
	acc.Line(turtle.LineSegment{To: math.Vec3{X: 2}})

	items := acc.Drain()
	if len(items) != 2 {
		t.Fatalf("Drain() returned %d items, want 2", len(items))
	}
	if acc.Len() != 0 {
		t.Errorf("Len() after drain = %d, want 0", acc.Len())
	}

	// Sequence numbering restarts after a drain.
	acc.Stamp(turtle.StampMark{Closed: true})
	items = acc.Items()
	if len(items) != 1 || items[0].Seq != 0 {
		t.Errorf("first item after drain has Seq %d, want 0", items[0].Seq)
	}
}

func TestAccumulatorMeshes(t *testing.T) {
	acc := NewAccumulator()

	first := testMesh()
	second := testMesh()
	second.Closed = true

	acc.Mesh(first, turtle.Style{})
	acc.Line(turtle.LineSegment{To: math.Vec3{X: 1}})
	acc.Mesh(second, turtle.Style{})

	meshes := acc.Meshes()
	if len(meshes) != 2 {
		t.Fatalf("Meshes() returned %d, want 2", len(meshes))
	}
	if meshes[0] != first || meshes[1] != second {
		t.Error("Meshes() did not preserve emit order")
	}
}

func TestScopeDrawsIntoAccumulator(t *testing.T) {
	acc := NewAccumulator()
	sc := turtle.New(acc, turtle.ScopeOptions{})

	if err := sc.PenDown(); err != nil {
		t.Fatalf("PenDown: %v", err)
	}
	if err := sc.Forward(10); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if err := sc.TurnHorizontal(90); err != nil {
		t.Fatalf("TurnHorizontal: %v", err)
	}
	if err := sc.Forward(5); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	items := acc.Items()
	if len(items) != 2 {
		t.Fatalf("accumulated %d items, want 2 lines", len(items))
	}
	for i, it := range items {
		if it.Kind != KindLine {
			t.Fatalf("items[%d].Kind = %v, want line", i, it.Kind)
		}
	}

	if !nearVec(items[0].Line.From, math.Vec3{}, 1e-9) || !nearVec(items[0].Line.To, math.Vec3{X: 10}, 1e-9) {
		t.Errorf("first line = %v -> %v, want origin -> (10,0,0)", items[0].Line.From, items[0].Line.To)
	}
	if !nearVec(items[1].Line.To, math.Vec3{X: 10, Y: 5}, 1e-9) {
		t.Errorf("second line ends at %v, want (10,5,0)", items[1].Line.To)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindLine, "line"},
		{KindStamp, "stamp"},
		{KindMesh, "mesh"},
		{Kind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
