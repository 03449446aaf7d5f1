// Package export writes meshes to interchange file formats.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/loamstudio/turtlemesh/pkg/mesh"
)

// Format is a supported mesh file format.
type Format string

const (
	FormatSTL Format = "stl"
	FormatOBJ Format = "obj"
)

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "stl":
		return FormatSTL, nil
	case "obj":
		return FormatOBJ, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: stl, obj)", s)
	}
}

// FormatForPath resolves the format from a file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", fmt.Errorf("no file extension on %q", path)
	}
	return ParseFormat(ext)
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Write writes a mesh to w in the given format.
func Write(w io.Writer, f Format, m *mesh.Mesh) error {
	switch f {
	case FormatSTL:
		return WriteSTL(w, m)
	case FormatOBJ:
		return WriteOBJ(w, m)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// WriteFile writes a mesh to path in the given format, creating parent
// directories as needed.
func WriteFile(path string, f Format, m *mesh.Mesh) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := Write(file, f, m); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", f, err)
	}

	return file.Close()
}
