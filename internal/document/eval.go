package document

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/loamstudio/turtlemesh/internal/logger"
	"github.com/loamstudio/turtlemesh/pkg/math"
	"github.com/loamstudio/turtlemesh/pkg/mesh"
	"github.com/loamstudio/turtlemesh/pkg/shape"
	"github.com/loamstudio/turtlemesh/pkg/sweep"
	"github.com/loamstudio/turtlemesh/pkg/turtle"
)

// Options are the evaluator defaults, normally taken from configuration.
// Document settings override them; zero values select kernel defaults.
type Options struct {
	Resolution turtle.Resolution
	JointMode  turtle.JointMode
	LoftSteps  int
	PenSize    float64
	PreserveUp bool
}

// NamedMesh is one sweep result in document order. Name is empty for
// anonymous results.
type NamedMesh struct {
	Name string
	Mesh *mesh.Mesh
}

// Result collects what an evaluation produced beyond the sink contents.
type Result struct {
	Meshes []NamedMesh
}

type evaluator struct {
	doc       *Document
	loftSteps int
	result    *Result
}

// Evaluate runs the document's operations against a fresh root scope
// writing to sink. The context is checked between operations.
func Evaluate(ctx context.Context, doc *Document, sink turtle.Sink, opts Options) (*Result, error) {
	eff, err := effectiveOptions(opts, doc.Settings)
	if err != nil {
		return nil, err
	}

	sc := turtle.New(sink, turtle.ScopeOptions{PreserveUp: eff.PreserveUp})
	if err := sc.SetResolution(eff.Resolution); err != nil {
		return nil, err
	}
	if err := sc.SetJointMode(eff.JointMode); err != nil {
		return nil, err
	}
	if err := sc.SetPenSize(eff.PenSize); err != nil {
		return nil, err
	}

	ev := &evaluator{doc: doc, loftSteps: eff.LoftSteps, result: &Result{}}
	if err := ev.run(ctx, sc, doc.Ops); err != nil {
		return nil, err
	}

	logger.Debug("document evaluated",
		zap.String("name", doc.Name),
		zap.Int("ops", len(doc.Ops)),
		zap.Int("meshes", len(ev.result.Meshes)))

	return ev.result, nil
}

// effectiveOptions fills kernel defaults into zero option fields, then
// layers the document settings on top.
func effectiveOptions(opts Options, s Settings) (Options, error) {
	def := turtle.DefaultResolution()
	if opts.Resolution.CircleSegments == 0 {
		opts.Resolution.CircleSegments = def.CircleSegments
	}
	if opts.Resolution.JointSteps == 0 {
		opts.Resolution.JointSteps = def.JointSteps
	}
	if opts.LoftSteps == 0 {
		opts.LoftSteps = sweep.DefaultLoftSteps
	}
	if opts.PenSize == 0 {
		opts.PenSize = 1
	}

	if s.CircleSegments != 0 {
		opts.Resolution.CircleSegments = s.CircleSegments
	}
	if s.JointSteps != 0 {
		opts.Resolution.JointSteps = s.JointSteps
	}
	if s.JointMode != "" {
		m, ok := turtle.ParseJointMode(s.JointMode)
		if !ok {
			return opts, fmt.Errorf("unknown joint mode %q", s.JointMode)
		}
		opts.JointMode = m
	}
	if s.LoftSteps != 0 {
		opts.LoftSteps = s.LoftSteps
	}
	if s.PenSize != 0 {
		opts.PenSize = s.PenSize
	}
	if s.PreserveUp {
		opts.PreserveUp = true
	}

	return opts, nil
}

func (ev *evaluator) run(ctx context.Context, sc *turtle.Scope, ops []Op) error {
	for i := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		op := &ops[i]
		if err := ev.apply(ctx, sc, op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i+1, opLabel(op), err)
		}
	}
	return nil
}

func (ev *evaluator) apply(ctx context.Context, sc *turtle.Scope, op *Op) error {
	switch {
	case op.Forward != nil:
		return sc.Forward(*op.Forward)
	case op.TurnH != nil:
		return sc.TurnHorizontal(*op.TurnH)
	case op.TurnV != nil:
		return sc.TurnVertical(*op.TurnV)
	case op.Roll != nil:
		return sc.Roll(*op.Roll)
	case op.Lateral != nil:
		axis, ok := turtle.ParseAxis(op.Lateral.Axis)
		if !ok {
			return fmt.Errorf("unknown axis %q", op.Lateral.Axis)
		}
		return sc.Lateral(axis, op.Lateral.Dist)

	case op.Pen != "":
		switch op.Pen {
		case "down":
			return sc.PenDown()
		case "up":
			return sc.PenUp()
		default:
			return fmt.Errorf("pen must be up or down, got %q", op.Pen)
		}
	case op.PenSize != nil:
		return sc.SetPenSize(*op.PenSize)
	case op.Color != "":
		c, err := parseColor(op.Color)
		if err != nil {
			return err
		}
		return sc.SetColor(c)
	case op.Material != "":
		return sc.SetMaterial(op.Material)
	case op.Joint != "":
		m, ok := turtle.ParseJointMode(op.Joint)
		if !ok {
			return fmt.Errorf("unknown joint mode %q", op.Joint)
		}
		return sc.SetJointMode(m)
	case op.PreserveUp != nil:
		return sc.SetPreserveUp(*op.PreserveUp)

	case op.Anchor != "":
		return sc.MarkAnchor(op.Anchor)
	case op.Goto != "":
		return sc.GoAnchor(op.Goto)

	case op.Stamp != "":
		return ev.stamp(sc, op.Stamp)
	case op.Scope != nil:
		return sc.Do(turtle.ScopeOptions{
			Reset:      op.Scope.Reset,
			PreserveUp: op.Scope.PreserveUp,
		}, func(child *turtle.Scope) error {
			return ev.run(ctx, child, op.Scope.Ops)
		})
	case op.Repeat != nil:
		for i := 0; i < op.Repeat.Times; i++ {
			if err := ev.run(ctx, sc, op.Repeat.Ops); err != nil {
				return err
			}
		}
		return nil

	case op.Extrude != nil:
		return ev.sweep(sc, op.Extrude, false, true)
	case op.ExtrudeClosed != nil:
		return ev.sweep(sc, op.ExtrudeClosed, true, true)
	case op.Loft != nil:
		return ev.sweep(sc, op.Loft, false, false)
	case op.LoftClosed != nil:
		return ev.sweep(sc, op.LoftClosed, true, false)
	}

	return fmt.Errorf("empty operation")
}

// stamp places the named profile at the current pose and emits its
// outline.
func (ev *evaluator) stamp(sc *turtle.Scope, name string) error {
	s, err := ev.buildShape(name, sc)
	if err != nil {
		return err
	}

	pose := sc.Pose()
	right := pose.Right()
	pts := make([]math.Vec3, len(s.Points))
	for i, p := range s.Points {
		pts[i] = pose.Position.Add(right.Scale(p.X)).Add(pose.Up.Scale(p.Y))
	}
	sc.EmitStamp(pts, s.Closed)
	return nil
}

func (ev *evaluator) sweep(sc *turtle.Scope, op *SweepOp, closed, extrude bool) error {
	base, err := ev.buildShape(op.Shape, sc)
	if err != nil {
		return err
	}
	p, err := buildPath(op.Path)
	if err != nil {
		return err
	}

	var m *mesh.Mesh
	if extrude {
		if closed {
			m, err = sweep.ExtrudeClosed(sc, base, p)
		} else {
			m, err = sweep.Extrude(sc, base, p)
		}
	} else {
		fn := shape.Static(base)
		if op.MorphTo != "" {
			target, terr := ev.buildShape(op.MorphTo, sc)
			if terr != nil {
				return terr
			}
			fn = shape.Morphed(base, target)
		}
		if op.TaperTo != nil {
			fn = shape.Tapered(fn, *op.TaperTo)
		}
		if op.Twist != 0 {
			fn = shape.Twisted(fn, op.Twist)
		}
		steps := op.Steps
		if steps == 0 {
			steps = ev.loftSteps
		}
		if closed {
			m, err = sweep.LoftClosed(sc, fn, p, steps)
		} else {
			m, err = sweep.Loft(sc, fn, p, steps)
		}
	}
	if err != nil {
		return err
	}

	ev.result.Meshes = append(ev.result.Meshes, NamedMesh{Name: op.Name, Mesh: m})

	logger.Debug("sweep finished",
		zap.String("name", op.Name),
		zap.String("shape", op.Shape),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("faces", len(m.Faces)),
		zap.Bool("closed", m.Closed))

	return nil
}

// buildShape realizes a named shape definition. Circle segment counts
// default to the scope's resolution.
func (ev *evaluator) buildShape(name string, sc *turtle.Scope) (shape.Shape, error) {
	def, ok := ev.doc.Shapes[name]
	if !ok {
		return shape.Shape{}, fmt.Errorf("unknown shape %q", name)
	}

	var s shape.Shape
	switch {
	case def.Circle != nil:
		segs := def.Circle.Segments
		if segs == 0 {
			segs = sc.Resolution().CircleSegments
		}
		s = shape.Circle(def.Circle.Radius, segs)
	case def.Rect != nil:
		s = shape.Rect(def.Rect.Width, def.Rect.Height)
	case def.Polygon != nil:
		pts := make([]math.Vec2, len(def.Polygon.Points))
		for i, p := range def.Polygon.Points {
			pts[i] = math.Vec2{X: p.X, Y: p.Y}
		}
		s = shape.Polygon(pts...)
	case def.Star != nil:
		s = shape.Star(def.Star.Outer, def.Star.Inner, def.Star.Points)
	default:
		return shape.Shape{}, fmt.Errorf("shape %q defines no geometry", name)
	}

	if def.Scale != 0 && def.Scale != 1 {
		s = s.Scale(def.Scale)
	}
	if def.Rotate != 0 {
		s = s.Rotate(def.Rotate)
	}
	return s, nil
}

// buildPath converts document path ops into a replayable turtle path.
func buildPath(ops []PathOp) (turtle.Path, error) {
	p := turtle.NewPath()
	for i := range ops {
		op := &ops[i]
		switch {
		case op.Forward != nil:
			p = p.Forward(*op.Forward)
		case op.TurnH != nil:
			p = p.TurnHorizontal(*op.TurnH)
		case op.TurnV != nil:
			p = p.TurnVertical(*op.TurnV)
		case op.Roll != nil:
			p = p.Roll(*op.Roll)
		case op.Lateral != nil:
			axis, ok := turtle.ParseAxis(op.Lateral.Axis)
			if !ok {
				return p, fmt.Errorf("path op %d: unknown axis %q", i+1, op.Lateral.Axis)
			}
			p = p.Lateral(axis, op.Lateral.Dist)
		case op.Repeat != nil:
			sub, err := buildPath(op.Repeat.Ops)
			if err != nil {
				return p, err
			}
			p = p.Append(sub.Times(op.Repeat.Times))
		default:
			return p, fmt.Errorf("path op %d: empty command", i+1)
		}
	}
	return p, nil
}

// opLabel names the operation for error messages.
func opLabel(op *Op) string {
	if set := op.setFields(); len(set) > 0 {
		return set[0]
	}
	return "empty"
}

// parseColor reads #rrggbb or #rrggbbaa hex colors.
func parseColor(s string) (turtle.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return turtle.Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return turtle.Color{}, fmt.Errorf("color %q: %w", s, err)
	}

	c := turtle.Color{A: 1}
	if len(hex) == 8 {
		c.A = float64(v&0xff) / 255
		v >>= 8
	}
	c.B = float64(v&0xff) / 255
	c.G = float64(v>>8&0xff) / 255
	c.R = float64(v>>16&0xff) / 255
	return c, nil
}
