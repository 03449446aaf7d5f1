// meshtool is a CLI utility for inspecting the turtlemesh registry.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/loamstudio/turtlemesh/internal/config"
	"github.com/loamstudio/turtlemesh/internal/export"
	"github.com/loamstudio/turtlemesh/internal/registry"
	"github.com/loamstudio/turtlemesh/pkg/mesh"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "list", "ls":
		cmdList(args)
	case "info":
		cmdInfo(args)
	case "validate":
		cmdValidate(args)
	case "export", "x":
		cmdExport(args)
	case "delete", "rm":
		cmdDelete(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - turtlemesh registry utility

Usage:
  meshtool <command> [options]

Commands:
  list [-l]                      List registered meshes
  info <name>                    Show mesh measures and metadata
  validate <name>                Re-run mesh validation
  export <name> <out.(stl|obj)>  Export a mesh to a file
  delete <name>                  Remove a mesh from the registry

All commands accept -registry <path> to override the configured database.

Examples:
  meshtool list -l
  meshtool info ring
  meshtool export ring ./ring.stl
  meshtool delete ring`)
}

func registryFlag(fs *flag.FlagSet) *string {
	return fs.String("registry", "", "Path to the mesh registry database")
}

func openRegistry(path string) *registry.Registry {
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			fatal(err)
		}
		path = cfg.Registry.Path
	}
	reg, err := registry.Open(path)
	if err != nil {
		fatal(err)
	}
	return reg
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	regPath := registryFlag(fs)
	long := fs.Bool("l", false, "Show counts and update times")
	fs.Parse(args)

	reg := openRegistry(*regPath)
	defer reg.Close()

	records, err := reg.List()
	if err != nil {
		fatal(err)
	}
	if len(records) == 0 {
		fmt.Println("(registry is empty)")
		return
	}

	for _, rec := range records {
		if *long {
			fmt.Printf("%-24s %8d verts %8d faces  %-6s  %s\n",
				rec.Name, rec.VertexCount, rec.FaceCount,
				closedLabel(rec.Closed), rec.UpdatedAt.Local().Format("2006-01-02 15:04"))
		} else {
			fmt.Println(rec.Name)
		}
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	regPath := registryFlag(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool info <name>")
		os.Exit(1)
	}
	name := fs.Arg(0)

	reg := openRegistry(*regPath)
	defer reg.Close()

	rec, err := reg.Info(name)
	if err != nil {
		fatal(err)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "Mesh not found: %s\n", name)
		os.Exit(1)
	}
	m, err := reg.Get(name)
	if err != nil {
		fatal(err)
	}

	bounds := m.BoundingBox()
	size := bounds.Size()

	fmt.Printf("Name:     %s\n", rec.Name)
	fmt.Printf("Vertices: %d\n", rec.VertexCount)
	fmt.Printf("Faces:    %d\n", rec.FaceCount)
	fmt.Printf("Closed:   %s\n", closedLabel(rec.Closed))
	fmt.Printf("Bounds:   (%.3f, %.3f, %.3f) .. (%.3f, %.3f, %.3f)\n",
		bounds.Min.X, bounds.Min.Y, bounds.Min.Z,
		bounds.Max.X, bounds.Max.Y, bounds.Max.Z)
	fmt.Printf("Size:     %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Printf("Area:     %.3f\n", m.SurfaceArea())
	if rec.Closed {
		fmt.Printf("Volume:   %.3f\n", m.Volume())
	}
	fmt.Printf("Created:  %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated:  %s\n", rec.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	if rec.Warning != "" {
		fmt.Printf("Warning:  %s\n", rec.Warning)
	}
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	regPath := registryFlag(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool validate <name>")
		os.Exit(1)
	}
	name := fs.Arg(0)

	reg := openRegistry(*regPath)
	defer reg.Close()

	m, err := reg.Get(name)
	if err != nil {
		fatal(err)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "Mesh not found: %s\n", name)
		os.Exit(1)
	}

	report := mesh.Validate(m)
	if !report.OK() {
		fmt.Printf("%s: %s\n", name, report.Summary())
		os.Exit(1)
	}
	fmt.Printf("%s: OK (%d vertices, %d faces, %s)\n",
		name, len(m.Vertices), len(m.Faces), closedLabel(m.Closed))
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	regPath := registryFlag(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool export <name> <out.(stl|obj)>")
		os.Exit(1)
	}
	name, outPath := fs.Arg(0), fs.Arg(1)

	format, err := export.FormatForPath(outPath)
	if err != nil {
		fatal(err)
	}

	reg := openRegistry(*regPath)
	defer reg.Close()

	m, err := reg.Get(name)
	if err != nil {
		fatal(err)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "Mesh not found: %s\n", name)
		os.Exit(1)
	}

	if err := export.WriteFile(outPath, format, m); err != nil {
		fatal(err)
	}
	fmt.Printf("Exported %s (%d vertices, %d faces) to %s\n",
		name, len(m.Vertices), len(m.Faces), outPath)
}

func cmdDelete(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	regPath := registryFlag(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool delete <name>")
		os.Exit(1)
	}
	name := fs.Arg(0)

	reg := openRegistry(*regPath)
	defer reg.Close()

	ok, err := reg.Delete(name)
	if err != nil {
		fatal(err)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "Mesh not found: %s\n", name)
		os.Exit(1)
	}
	fmt.Printf("Deleted %s\n", name)
}

func closedLabel(closed bool) string {
	if closed {
		return "closed"
	}
	return "open"
}
