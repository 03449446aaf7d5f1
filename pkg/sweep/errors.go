package sweep

import "fmt"

// DegenerateSegmentError reports a forward movement whose effective length,
// after corner shortening on either end, is not positive. The segment index
// counts forward movements since the stamp.
type DegenerateSegmentError struct {
	Segment   int
	Effective float64
}

func (e *DegenerateSegmentError) Error() string {
	return fmt.Sprintf("sweep segment %d has effective length %.6g after corner shortening; must be positive",
		e.Segment, e.Effective)
}
