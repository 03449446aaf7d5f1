package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/loamstudio/turtlemesh/pkg/math"
	"github.com/loamstudio/turtlemesh/pkg/mesh"
)

func TestCodecRoundTrip(t *testing.T) {
	want := &mesh.Mesh{
		Vertices: []math.Vec3{
			{X: 1.5, Y: -2.25, Z: 3},
			{X: 0.001, Y: 1e6, Z: -7},
			{},
		},
		Faces:   []mesh.Tri{{0, 1, 2}, {2, 1, 0}},
		Closed:  true,
		Warning: "2 non-manifold edges",
	}

	data, err := EncodeMesh(want)
	if err != nil {
		t.Fatalf("EncodeMesh: %v", err)
	}

	got, err := DecodeMesh(data)
	if err != nil {
		t.Fatalf("DecodeMesh: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCodecEmptyMesh(t *testing.T) {
	data, err := EncodeMesh(&mesh.Mesh{})
	if err != nil {
		t.Fatalf("EncodeMesh: %v", err)
	}

	got, err := DecodeMesh(data)
	if err != nil {
		t.Fatalf("DecodeMesh: %v", err)
	}
	if len(got.Vertices) != 0 || len(got.Faces) != 0 {
		t.Errorf("decoded empty mesh has %d verts %d faces", len(got.Vertices), len(got.Faces))
	}
}

func TestDecodeBadMagic(t *testing.T) {
	data, err := EncodeMesh(&mesh.Mesh{Vertices: []math.Vec3{{X: 1}}})
	if err != nil {
		t.Fatalf("EncodeMesh: %v", err)
	}

	data[0] = 'X'
	if _, err := DecodeMesh(data); err == nil {
		t.Error("DecodeMesh accepted corrupted magic")
	}
}

func TestDecodeTruncated(t *testing.T) {
	data, err := EncodeMesh(tetrahedron())
	if err != nil {
		t.Fatalf("EncodeMesh: %v", err)
	}

	if _, err := DecodeMesh(data[:len(data)-5]); err == nil {
		t.Error("DecodeMesh accepted truncated blob")
	}
	if _, err := DecodeMesh(data[:10]); err == nil {
		t.Error("DecodeMesh accepted blob shorter than header")
	}
}
