// Package mesh defines the triangle mesh produced by the sweep and loft
// engines, along with validation and measurement helpers.
package mesh

import (
	"github.com/loamstudio/turtlemesh/pkg/math"
)

// Tri is a triangle face as three indices into the vertex slice.
type Tri [3]int

// Mesh is an indexed triangle mesh.
type Mesh struct {
	// Vertices holds the vertex positions.
	Vertices []math.Vec3
	// Faces holds the triangles, wound counterclockwise seen from outside.
	Faces []Tri
	// Closed reports that the mesh was built as a closed loop and passed
	// manifold validation. Capped open sweeps are watertight but not Closed.
	Closed bool
	// Warning carries a non-fatal validation note, empty when clean.
	Warning string
}

// Clone returns a deep copy sharing no storage with the original.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices: make([]math.Vec3, len(m.Vertices)),
		Faces:    make([]Tri, len(m.Faces)),
		Closed:   m.Closed,
		Warning:  m.Warning,
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Faces, m.Faces)
	return c
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max math.Vec3
}

// BoundingBox returns the axis-aligned bounds of all vertices.
func (m *Mesh) BoundingBox() Bounds {
	b := Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
	for _, v := range m.Vertices {
		if v.X < b.Min.X {
			b.Min.X = v.X
		}
		if v.Y < b.Min.Y {
			b.Min.Y = v.Y
		}
		if v.Z < b.Min.Z {
			b.Min.Z = v.Z
		}
		if v.X > b.Max.X {
			b.Max.X = v.X
		}
		if v.Y > b.Max.Y {
			b.Max.Y = v.Y
		}
		if v.Z > b.Max.Z {
			b.Max.Z = v.Z
		}
	}
	return b
}

// Center returns the center of the bounding box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the bounding box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Volume returns the signed enclosed volume by the divergence theorem.
// Positive for a watertight mesh with outward winding; meaningless for
// meshes with boundary.
func (m *Mesh) Volume() float64 {
	var sum float64
	for _, f := range m.Faces {
		a := m.Vertices[f[0]]
		b := m.Vertices[f[1]]
		c := m.Vertices[f[2]]
		sum += a.Dot(b.Cross(c))
	}
	return sum / 6
}

// SurfaceArea returns the total area of all faces.
func (m *Mesh) SurfaceArea() float64 {
	var sum float64
	for _, f := range m.Faces {
		a := m.Vertices[f[0]]
		b := m.Vertices[f[1]]
		c := m.Vertices[f[2]]
		sum += b.Sub(a).Cross(c.Sub(a)).Length() / 2
	}
	return sum
}
