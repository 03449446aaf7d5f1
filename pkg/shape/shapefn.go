package shape

// Transform varies a shape by loft progress t in [0,1]. Implementations
// must return a shape with the same point count as the input; the sweep
// and loft engines check this at t=0 and t=1 before generating rings.
type Transform func(s Shape, t float64) Shape

// Fn is a composable shape function: either a static leaf shape or a
// transform wrapped around an inner Fn. Evaluation is innermost-first, so
// the outermost wrap transforms the inner result. Point-count metadata
// travels with the value.
type Fn struct {
	leaf  Shape
	inner *Fn
	tf    Transform

	points int
}

// Static returns a shape function that yields the same shape at every t.
func Static(s Shape) Fn {
	return Fn{leaf: s, points: len(s.Points)}
}

// Wrap returns a new shape function applying tf to this one's output.
func (f Fn) Wrap(tf Transform) Fn {
	inner := f
	return Fn{inner: &inner, tf: tf, points: f.points}
}

// At evaluates the shape function at progress t.
func (f Fn) At(t float64) Shape {
	if f.inner == nil {
		return f.leaf
	}
	return f.tf(f.inner.At(t), t)
}

// Points returns the declared point count.
func (f Fn) Points() int {
	return f.points
}

// CheckContract samples t=0 and t=1 and reports a point-count mismatch.
// Engines call this before committing to multi-ring generation.
func (f Fn) CheckContract() error {
	n0 := len(f.At(0).Points)
	n1 := len(f.At(1).Points)
	if n0 != n1 {
		return &FnContractError{WantPoints: n0, GotPoints: n1, At: 1}
	}
	return nil
}
