package shape

import "fmt"

// InvalidShapeError reports a profile unusable as a sweep ring.
type InvalidShapeError struct {
	Points int
	Reason string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("invalid shape (%d points): %s", e.Points, e.Reason)
}

// FnContractError reports a shape function whose point count drifts across
// evaluations. Transforms must preserve the point count of their input.
type FnContractError struct {
	WantPoints int
	GotPoints  int
	At         float64
}

func (e *FnContractError) Error() string {
	return fmt.Sprintf("shape function point count drifts: %d at t=0, %d at t=%g",
		e.WantPoints, e.GotPoints, e.At)
}
