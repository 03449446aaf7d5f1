package registry

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/loamstudio/turtlemesh/pkg/math"
	"github.com/loamstudio/turtlemesh/pkg/mesh"
)

const meshMagic = "TMSH"

const codecVersion = 1

// blobHeader is the fixed-size prefix of an encoded mesh blob. All
// multi-byte fields are little-endian.
type blobHeader struct {
	Magic       [4]byte
	Version     uint32
	Flags       uint32
	VertexCount uint32
	FaceCount   uint32
	WarningLen  uint32
}

const flagClosed = 1 << 0

// EncodeMesh serializes a mesh into the registry blob format: a fixed
// header, the warning text, then vertices as float64 triples and faces
// as int32 triples.
func EncodeMesh(m *mesh.Mesh) ([]byte, error) {
	h := blobHeader{
		Version:     codecVersion,
		VertexCount: uint32(len(m.Vertices)),
		FaceCount:   uint32(len(m.Faces)),
		WarningLen:  uint32(len(m.Warning)),
	}
	copy(h.Magic[:], meshMagic)
	if m.Closed {
		h.Flags |= flagClosed
	}

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	buf.WriteString(m.Warning)

	if err := binary.Write(buf, binary.LittleEndian, m.Vertices); err != nil {
		return nil, fmt.Errorf("writing vertices: %w", err)
	}

	faces := make([][3]int32, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = [3]int32{int32(f[0]), int32(f[1]), int32(f[2])}
	}
	if err := binary.Write(buf, binary.LittleEndian, faces); err != nil {
		return nil, fmt.Errorf("writing faces: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeMesh deserializes a registry blob back into a mesh.
func DecodeMesh(data []byte) (*mesh.Mesh, error) {
	r := bytes.NewReader(data)

	var h blobHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if string(h.Magic[:]) != meshMagic {
		return nil, fmt.Errorf("invalid mesh blob magic")
	}
	if h.Version != codecVersion {
		return nil, fmt.Errorf("unsupported mesh blob version: %d", h.Version)
	}

	// 24 bytes per vertex, 12 per face.
	expected := int(h.WarningLen) + int(h.VertexCount)*24 + int(h.FaceCount)*12
	if r.Len() != expected {
		return nil, fmt.Errorf("mesh blob truncated: %d bytes after header, want %d", r.Len(), expected)
	}

	warning := make([]byte, h.WarningLen)
	if _, err := r.Read(warning); err != nil && h.WarningLen > 0 {
		return nil, fmt.Errorf("reading warning: %w", err)
	}

	m := &mesh.Mesh{
		Vertices: make([]math.Vec3, h.VertexCount),
		Faces:    make([]mesh.Tri, h.FaceCount),
		Closed:   h.Flags&flagClosed != 0,
		Warning:  string(warning),
	}

	if err := binary.Read(r, binary.LittleEndian, m.Vertices); err != nil {
		return nil, fmt.Errorf("reading vertices: %w", err)
	}

	faces := make([][3]int32, h.FaceCount)
	if err := binary.Read(r, binary.LittleEndian, faces); err != nil {
		return nil, fmt.Errorf("reading faces: %w", err)
	}
	for i, f := range faces {
		m.Faces[i] = mesh.Tri{int(f[0]), int(f[1]), int(f[2])}
	}

	return m, nil
}
