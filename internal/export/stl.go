package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/loamstudio/turtlemesh/pkg/mesh"
)

const stlHeaderSize = 80

// stlTri is one binary STL facet record: normal, three vertices, and
// the attribute byte count. encoding/binary packs it to exactly 50
// bytes.
type stlTri struct {
	N    [3]float32
	V    [3][3]float32
	Attr uint16
}

// WriteSTL writes a mesh as binary STL.
func WriteSTL(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	var header [stlHeaderSize]byte
	copy(header[:], "turtlemesh binary STL")
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Faces))); err != nil {
		return fmt.Errorf("writing facet count: %w", err)
	}

	for i, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]

		n := b.Sub(a).Cross(c.Sub(a)).Normalize()

		t := stlTri{
			N: [3]float32{float32(n.X), float32(n.Y), float32(n.Z)},
			V: [3][3]float32{
				{float32(a.X), float32(a.Y), float32(a.Z)},
				{float32(b.X), float32(b.Y), float32(b.Z)},
				{float32(c.X), float32(c.Y), float32(c.Z)},
			},
		}
		if err := binary.Write(bw, binary.LittleEndian, t); err != nil {
			return fmt.Errorf("writing facet %d: %w", i, err)
		}
	}

	return bw.Flush()
}
