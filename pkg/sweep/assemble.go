package sweep

import (
	"github.com/loamstudio/turtlemesh/pkg/math"
	"github.com/loamstudio/turtlemesh/pkg/mesh"
)

// assemble stitches the ordered rings into a triangle mesh. Consecutive
// rings are bridged by a quad band split into two triangles; a closed
// sweep adds a wrap band from the last ring back to the first, an open one
// gets a centroid fan cap on each end. Ring points run counter-clockwise
// seen against the travel direction, which makes every face wind outward.
func assemble(rings []ring, closed bool) *mesh.Mesh {
	n := len(rings[0].points)
	out := &mesh.Mesh{
		Vertices: make([]math.Vec3, 0, len(rings)*n+2),
		Faces:    make([]mesh.Tri, 0, 2*n*len(rings)),
	}
	for i := range rings {
		out.Vertices = append(out.Vertices, rings[i].points...)
	}

	bands := len(rings) - 1
	if closed {
		bands = len(rings)
	}
	for b := 0; b < bands; b++ {
		a := b * n
		c := ((b + 1) % len(rings)) * n
		for j := 0; j < n; j++ {
			jn := (j + 1) % n
			out.Faces = append(out.Faces,
				mesh.Tri{a + j, c + j, c + jn},
				mesh.Tri{a + j, c + jn, a + jn},
			)
		}
	}

	if !closed {
		start := 0
		end := (len(rings) - 1) * n
		ci := len(out.Vertices)
		out.Vertices = append(out.Vertices,
			centroid(rings[0].points),
			centroid(rings[len(rings)-1].points))
		for j := 0; j < n; j++ {
			jn := (j + 1) % n
			out.Faces = append(out.Faces,
				mesh.Tri{ci, start + j, start + jn},
				mesh.Tri{ci + 1, end + jn, end + j},
			)
		}
	}
	return out
}
