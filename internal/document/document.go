// Package document defines the YAML scene document format and its
// evaluator. A document names cross-section shapes, sets scope defaults,
// and lists the turtle and sweep operations that produce geometry.
package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the document format version this package reads.
const CurrentVersion = 1

// Document is a parsed scene document.
type Document struct {
	Version  int                 `yaml:"version"`
	Name     string              `yaml:"name,omitempty"`
	Settings Settings            `yaml:"settings,omitempty"`
	Shapes   map[string]ShapeDef `yaml:"shapes,omitempty"`
	Ops      []Op                `yaml:"ops"`
}

// Settings override scope defaults for the whole document. Zero values
// mean "not set" and fall back to the evaluator options.
type Settings struct {
	CircleSegments int     `yaml:"circle_segments,omitempty"`
	JointSteps     int     `yaml:"joint_steps,omitempty"`
	JointMode      string  `yaml:"joint_mode,omitempty"`
	LoftSteps      int     `yaml:"loft_steps,omitempty"`
	PenSize        float64 `yaml:"pen_size,omitempty"`
	PreserveUp     bool    `yaml:"preserve_up,omitempty"`
}

// ShapeDef declares a named cross-section. Exactly one of the geometry
// fields must be set; scale and rotate apply afterwards.
type ShapeDef struct {
	Circle  *CircleDef  `yaml:"circle,omitempty"`
	Rect    *RectDef    `yaml:"rect,omitempty"`
	Polygon *PolygonDef `yaml:"polygon,omitempty"`
	Star    *StarDef    `yaml:"star,omitempty"`

	Scale  float64 `yaml:"scale,omitempty"`
	Rotate float64 `yaml:"rotate,omitempty"`
}

// CircleDef is a circle profile. Segments of 0 uses the scope's circle
// segment setting.
type CircleDef struct {
	Radius   float64 `yaml:"radius"`
	Segments int     `yaml:"segments,omitempty"`
}

// RectDef is an axis-aligned rectangle profile centered at the origin.
type RectDef struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PolygonDef is an explicit closed point list.
type PolygonDef struct {
	Points []PointDef `yaml:"points"`
}

// PointDef is one 2D profile point.
type PointDef struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// StarDef is a star profile with alternating outer and inner radii.
type StarDef struct {
	Outer  float64 `yaml:"outer"`
	Inner  float64 `yaml:"inner"`
	Points int     `yaml:"points"`
}

// Op is one document operation. Exactly one field must be set.
type Op struct {
	Forward *float64   `yaml:"forward,omitempty"`
	TurnH   *float64   `yaml:"turn_h,omitempty"`
	TurnV   *float64   `yaml:"turn_v,omitempty"`
	Roll    *float64   `yaml:"roll,omitempty"`
	Lateral *LateralOp `yaml:"lateral,omitempty"`

	Pen        string   `yaml:"pen,omitempty"`
	PenSize    *float64 `yaml:"pen_size,omitempty"`
	Color      string   `yaml:"color,omitempty"`
	Material   string   `yaml:"material,omitempty"`
	Joint      string   `yaml:"joint,omitempty"`
	PreserveUp *bool    `yaml:"preserve_up,omitempty"`

	Anchor string `yaml:"anchor,omitempty"`
	Goto   string `yaml:"goto,omitempty"`

	Stamp  string    `yaml:"stamp,omitempty"`
	Scope  *ScopeOp  `yaml:"scope,omitempty"`
	Repeat *RepeatOp `yaml:"repeat,omitempty"`

	Extrude       *SweepOp `yaml:"extrude,omitempty"`
	ExtrudeClosed *SweepOp `yaml:"extrude_closed,omitempty"`
	Loft          *SweepOp `yaml:"loft,omitempty"`
	LoftClosed    *SweepOp `yaml:"loft_closed,omitempty"`
}

// LateralOp slides sideways along a frame axis.
type LateralOp struct {
	Axis string  `yaml:"axis"`
	Dist float64 `yaml:"dist"`
}

// ScopeOp runs nested operations in a child scope.
type ScopeOp struct {
	Reset      bool `yaml:"reset,omitempty"`
	PreserveUp bool `yaml:"preserve_up,omitempty"`
	Ops        []Op `yaml:"ops"`
}

// RepeatOp runs nested operations a fixed number of times.
type RepeatOp struct {
	Times int  `yaml:"times"`
	Ops   []Op `yaml:"ops"`
}

// SweepOp drives one sweep or loft. Shape names a document shape; the
// path is replayed from the scope's current pose. For lofts, morph_to,
// taper_to, and twist compose in that order; extrudes reject all three.
type SweepOp struct {
	Shape   string   `yaml:"shape"`
	Name    string   `yaml:"name,omitempty"`
	Steps   int      `yaml:"steps,omitempty"`
	TaperTo *float64 `yaml:"taper_to,omitempty"`
	Twist   float64  `yaml:"twist,omitempty"`
	MorphTo string   `yaml:"morph_to,omitempty"`
	Path    []PathOp `yaml:"path"`
}

// PathOp is one movement command inside a sweep path. Exactly one field
// must be set.
type PathOp struct {
	Forward *float64      `yaml:"forward,omitempty"`
	TurnH   *float64      `yaml:"turn_h,omitempty"`
	TurnV   *float64      `yaml:"turn_v,omitempty"`
	Roll    *float64      `yaml:"roll,omitempty"`
	Lateral *LateralOp    `yaml:"lateral,omitempty"`
	Repeat  *PathRepeatOp `yaml:"repeat,omitempty"`
}

// PathRepeatOp repeats a sub-path a fixed number of times.
type PathRepeatOp struct {
	Times int      `yaml:"times"`
	Ops   []PathOp `yaml:"ops"`
}

// Parse reads a document from YAML and validates its structure.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	if doc.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported document version %d (current is %d)", doc.Version, CurrentVersion)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return Parse(data)
}

func (d *Document) validate() error {
	for name, def := range d.Shapes {
		if err := def.validate(); err != nil {
			return fmt.Errorf("shape %q: %w", name, err)
		}
	}
	return validateOps(d, d.Ops)
}

func (s *ShapeDef) validate() error {
	n := 0
	if s.Circle != nil {
		n++
	}
	if s.Rect != nil {
		n++
	}
	if s.Polygon != nil {
		n++
	}
	if s.Star != nil {
		n++
	}
	if n != 1 {
		return fmt.Errorf("want exactly one of circle, rect, polygon, star; got %d", n)
	}
	return nil
}

func validateOps(d *Document, ops []Op) error {
	for i := range ops {
		op := &ops[i]
		set := op.setFields()
		if len(set) != 1 {
			return fmt.Errorf("op %d: want exactly one operation, got %v", i+1, set)
		}

		switch {
		case op.Scope != nil:
			if err := validateOps(d, op.Scope.Ops); err != nil {
				return fmt.Errorf("op %d (scope): %w", i+1, err)
			}
		case op.Repeat != nil:
			if op.Repeat.Times < 1 {
				return fmt.Errorf("op %d (repeat): times must be at least 1", i+1)
			}
			if err := validateOps(d, op.Repeat.Ops); err != nil {
				return fmt.Errorf("op %d (repeat): %w", i+1, err)
			}
		case op.Stamp != "":
			if _, ok := d.Shapes[op.Stamp]; !ok {
				return fmt.Errorf("op %d (stamp): unknown shape %q", i+1, op.Stamp)
			}
		case op.Extrude != nil:
			if err := validateSweep(d, op.Extrude, true); err != nil {
				return fmt.Errorf("op %d (extrude): %w", i+1, err)
			}
		case op.ExtrudeClosed != nil:
			if err := validateSweep(d, op.ExtrudeClosed, true); err != nil {
				return fmt.Errorf("op %d (extrude_closed): %w", i+1, err)
			}
		case op.Loft != nil:
			if err := validateSweep(d, op.Loft, false); err != nil {
				return fmt.Errorf("op %d (loft): %w", i+1, err)
			}
		case op.LoftClosed != nil:
			if err := validateSweep(d, op.LoftClosed, false); err != nil {
				return fmt.Errorf("op %d (loft_closed): %w", i+1, err)
			}
		}
	}
	return nil
}

func validateSweep(d *Document, sw *SweepOp, extrude bool) error {
	if sw.Shape == "" {
		return fmt.Errorf("missing shape")
	}
	if _, ok := d.Shapes[sw.Shape]; !ok {
		return fmt.Errorf("unknown shape %q", sw.Shape)
	}
	if sw.MorphTo != "" {
		if _, ok := d.Shapes[sw.MorphTo]; !ok {
			return fmt.Errorf("unknown morph target %q", sw.MorphTo)
		}
	}
	if extrude && (sw.TaperTo != nil || sw.Twist != 0 || sw.MorphTo != "" || sw.Steps != 0) {
		return fmt.Errorf("extrude keeps a constant profile; use loft for taper_to, twist, morph_to, or steps")
	}
	if len(sw.Path) == 0 {
		return fmt.Errorf("empty path")
	}
	return validatePathOps(sw.Path)
}

func validatePathOps(ops []PathOp) error {
	for i := range ops {
		op := &ops[i]
		n := 0
		if op.Forward != nil {
			n++
		}
		if op.TurnH != nil {
			n++
		}
		if op.TurnV != nil {
			n++
		}
		if op.Roll != nil {
			n++
		}
		if op.Lateral != nil {
			n++
		}
		if op.Repeat != nil {
			n++
		}
		if n != 1 {
			return fmt.Errorf("path op %d: want exactly one command, got %d", i+1, n)
		}
		if op.Repeat != nil {
			if op.Repeat.Times < 1 {
				return fmt.Errorf("path op %d (repeat): times must be at least 1", i+1)
			}
			if err := validatePathOps(op.Repeat.Ops); err != nil {
				return fmt.Errorf("path op %d (repeat): %w", i+1, err)
			}
		}
	}
	return nil
}

// setFields lists the operation fields present on this op.
func (o *Op) setFields() []string {
	var set []string
	if o.Forward != nil {
		set = append(set, "forward")
	}
	if o.TurnH != nil {
		set = append(set, "turn_h")
	}
	if o.TurnV != nil {
		set = append(set, "turn_v")
	}
	if o.Roll != nil {
		set = append(set, "roll")
	}
	if o.Lateral != nil {
		set = append(set, "lateral")
	}
	if o.Pen != "" {
		set = append(set, "pen")
	}
	if o.PenSize != nil {
		set = append(set, "pen_size")
	}
	if o.Color != "" {
		set = append(set, "color")
	}
	if o.Material != "" {
		set = append(set, "material")
	}
	if o.Joint != "" {
		set = append(set, "joint")
	}
	if o.PreserveUp != nil {
		set = append(set, "preserve_up")
	}
	if o.Anchor != "" {
		set = append(set, "anchor")
	}
	if o.Goto != "" {
		set = append(set, "goto")
	}
	if o.Stamp != "" {
		set = append(set, "stamp")
	}
	if o.Scope != nil {
		set = append(set, "scope")
	}
	if o.Repeat != nil {
		set = append(set, "repeat")
	}
	if o.Extrude != nil {
		set = append(set, "extrude")
	}
	if o.ExtrudeClosed != nil {
		set = append(set, "extrude_closed")
	}
	if o.Loft != nil {
		set = append(set, "loft")
	}
	if o.LoftClosed != nil {
		set = append(set, "loft_closed")
	}
	return set
}
