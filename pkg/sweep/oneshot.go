package sweep

import (
	"github.com/loamstudio/turtlemesh/pkg/mesh"
	"github.com/loamstudio/turtlemesh/pkg/shape"
	"github.com/loamstudio/turtlemesh/pkg/turtle"
)

// Extrude sweeps a constant profile along the path from the scope's
// current pose and caps both ends. The scope is left wherever the path
// ends.
func Extrude(sc *turtle.Scope, s shape.Shape, p turtle.Path) (*mesh.Mesh, error) {
	return run(sc, shape.Static(s), p, 0, false)
}

// ExtrudeClosed sweeps a constant profile along the path and joins the
// last segment back to the first, producing a loop solid with no caps.
// Bringing the path back to its starting pose is the caller's business;
// the topology closes either way.
func ExtrudeClosed(sc *turtle.Scope, s shape.Shape, p turtle.Path) (*mesh.Mesh, error) {
	return run(sc, shape.Static(s), p, 0, true)
}

// Loft sweeps a varying profile along the path, evaluating it at uniform
// progress stations so a straight path yields exactly steps rings. steps
// below 2 selects DefaultLoftSteps.
func Loft(sc *turtle.Scope, fn shape.Fn, p turtle.Path, steps int) (*mesh.Mesh, error) {
	return run(sc, fn, p, clampSteps(steps), false)
}

// LoftClosed is Loft with the ends joined and no caps.
func LoftClosed(sc *turtle.Scope, fn shape.Fn, p turtle.Path, steps int) (*mesh.Mesh, error) {
	return run(sc, fn, p, clampSteps(steps), true)
}

func run(sc *turtle.Scope, fn shape.Fn, p turtle.Path, steps int, closed bool) (*mesh.Mesh, error) {
	rec, err := begin(sc, fn, steps)
	if err != nil {
		return nil, err
	}
	if err := sc.Replay(p); err != nil {
		rec.Cancel()
		return nil, err
	}
	return rec.Finalize(closed)
}
