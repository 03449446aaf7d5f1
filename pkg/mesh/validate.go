package mesh

import "fmt"

// zeroAreaEps is the face area below which a triangle counts as degenerate.
const zeroAreaEps = 1e-9

// Report summarizes manifold validation of a mesh.
type Report struct {
	// VertexCount and FaceCount echo the mesh size.
	VertexCount int
	FaceCount   int
	// BoundaryEdges counts edges bordering exactly one face.
	BoundaryEdges int
	// NonManifoldEdges counts edges bordering three or more faces.
	NonManifoldEdges int
	// MisorientedEdges counts shared edges traversed twice in the same
	// direction, meaning the two faces disagree on winding.
	MisorientedEdges int
	// DegenerateFaces counts faces with repeated indices or near-zero area.
	DegenerateFaces int
	// DuplicateFaces counts faces sharing all three vertices with an
	// earlier face.
	DuplicateFaces int
	// OutOfRangeFaces counts faces referencing missing vertices.
	OutOfRangeFaces int
	// Connected reports whether all faces form one edge-connected surface.
	Connected bool
}

// OK reports whether the mesh is a single connected oriented 2-manifold
// without boundary. Capped open sweeps and closed loops both satisfy this;
// a deliberately unclosed surface does not.
func (r Report) OK() bool {
	return r.FaceCount > 0 &&
		r.BoundaryEdges == 0 &&
		r.NonManifoldEdges == 0 &&
		r.MisorientedEdges == 0 &&
		r.DegenerateFaces == 0 &&
		r.DuplicateFaces == 0 &&
		r.OutOfRangeFaces == 0 &&
		r.Connected
}

// Summary returns a one-line description of the report.
func (r Report) Summary() string {
	if r.OK() {
		return fmt.Sprintf("manifold: %d vertices, %d faces", r.VertexCount, r.FaceCount)
	}
	return fmt.Sprintf("not manifold: %d boundary, %d non-manifold, %d misoriented edges, %d degenerate, %d duplicate faces",
		r.BoundaryEdges, r.NonManifoldEdges, r.MisorientedEdges, r.DegenerateFaces, r.DuplicateFaces)
}

type edgeKey struct {
	a, b int
}

type edgeInfo struct {
	count   int
	forward int
	faces   []int
}

// Validate checks edge-manifold structure, winding consistency, and face
// quality. It never modifies the mesh.
func Validate(m *Mesh) Report {
	r := Report{
		VertexCount: len(m.Vertices),
		FaceCount:   len(m.Faces),
	}

	edges := make(map[edgeKey]*edgeInfo)
	seen := make(map[Tri]bool)
	var included []int

	for fi, f := range m.Faces {
		out := false
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				out = true
			}
		}
		if out {
			r.OutOfRangeFaces++
			continue
		}

		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			r.DegenerateFaces++
			continue
		}
		a := m.Vertices[f[0]]
		b := m.Vertices[f[1]]
		c := m.Vertices[f[2]]
		if b.Sub(a).Cross(c.Sub(a)).Length()/2 < zeroAreaEps {
			r.DegenerateFaces++
			continue
		}

		key := canonicalTri(f)
		if seen[key] {
			r.DuplicateFaces++
			continue
		}
		seen[key] = true
		included = append(included, fi)

		for i := 0; i < 3; i++ {
			va, vb := f[i], f[(i+1)%3]
			k := edgeKey{va, vb}
			fwd := 1
			if va > vb {
				k = edgeKey{vb, va}
				fwd = 0
			}
			info := edges[k]
			if info == nil {
				info = &edgeInfo{}
				edges[k] = info
			}
			info.count++
			info.forward += fwd
			info.faces = append(info.faces, fi)
		}
	}

	for _, info := range edges {
		switch {
		case info.count == 1:
			r.BoundaryEdges++
		case info.count > 2:
			r.NonManifoldEdges++
		case info.forward != 1:
			// Two faces, but the edge runs the same way in both
			r.MisorientedEdges++
		}
	}

	r.Connected = connected(included, edges)
	return r
}

// canonicalTri returns the face with its smallest index first, preserving
// cyclic order so that winding still distinguishes front from back.
func canonicalTri(f Tri) Tri {
	lo := 0
	if f[1] < f[lo] {
		lo = 1
	}
	if f[2] < f[lo] {
		lo = 2
	}
	return Tri{f[lo], f[(lo+1)%3], f[(lo+2)%3]}
}

// connected walks face adjacency over shared edges.
func connected(included []int, edges map[edgeKey]*edgeInfo) bool {
	if len(included) == 0 {
		return false
	}
	if len(included) == 1 {
		return true
	}
	adj := make(map[int][]int)
	for _, info := range edges {
		for i := 0; i < len(info.faces); i++ {
			for j := i + 1; j < len(info.faces); j++ {
				adj[info.faces[i]] = append(adj[info.faces[i]], info.faces[j])
				adj[info.faces[j]] = append(adj[info.faces[j]], info.faces[i])
			}
		}
	}

	visited := make(map[int]bool, len(included))
	queue := []int{included[0]}
	visited[included[0]] = true
	count := 1
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for _, n := range adj[f] {
			if !visited[n] {
				visited[n] = true
				count++
				queue = append(queue, n)
			}
		}
	}
	return count == len(included)
}
