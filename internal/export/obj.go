package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/loamstudio/turtlemesh/pkg/mesh"
)

// WriteOBJ writes a mesh as Wavefront OBJ. Face indices are 1-based
// per the format.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# turtlemesh: %d vertices, %d faces\n", len(m.Vertices), len(m.Faces))
	if m.Warning != "" {
		fmt.Fprintf(bw, "# warning: %s\n", m.Warning)
	}

	for _, v := range m.Vertices {
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z); err != nil {
			return fmt.Errorf("writing vertex: %w", err)
		}
	}

	for _, f := range m.Faces {
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1); err != nil {
			return fmt.Errorf("writing face: %w", err)
		}
	}

	return bw.Flush()
}
