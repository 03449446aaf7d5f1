package sweep

import (
	gomath "math"
)

// plan converts the recorded segments and corners into the ordered ring
// list the assembler stitches. Corner trims shorten both segments meeting
// at a junction by the profile radius scaled for the turn angle, so the
// side walls of adjacent segments cannot overlap in any joint mode.
func (r *Recorder) plan(closed bool) ([]ring, error) {
	m := len(r.segs)
	cornerAt := make([]*corner, m)
	for i := range r.corners {
		c := &r.corners[i]
		cornerAt[c.at] = c
	}

	totalRaw := 0.0
	for i := 0; i < m; i++ {
		totalRaw += r.segs[i].length
	}

	// Trim radii are sampled at the corner's raw-length progress; the ring
	// t values below use the trimmed distances.
	trim := make([]float64, m)
	rawCum := 0.0
	for i := 0; i < m; i++ {
		rawCum += r.segs[i].length
		if c := cornerAt[i]; c != nil {
			trim[i] = r.radiusAt(rawCum/totalRaw) * gomath.Tan(c.angle/2)
		}
	}

	trimStart := make([]float64, m)
	for i := 0; i < m; i++ {
		if i+1 < m {
			trimStart[i+1] = trim[i]
		} else if closed {
			trimStart[0] = trim[i]
		}
	}

	eff := make([]float64, m)
	total := 0.0
	for i := 0; i < m; i++ {
		eff[i] = r.segs[i].length - trimStart[i] - trim[i]
		if eff[i] <= lengthEps {
			return nil, &DegenerateSegmentError{Segment: i, Effective: eff[i]}
		}
		total += eff[i]
	}

	// Loft stations are uniform over the trimmed path length. Segment
	// boundaries always carry a ring; stations landing on one are dropped.
	var interior []float64
	for k := 1; k < r.loftSteps-1; k++ {
		interior = append(interior, total*float64(k)/float64(r.loftSteps-1))
	}
	snap := 1e-9 * gomath.Max(total, 1)

	var rings []ring
	emit := func(seg *segment, off, dist float64) error {
		t := dist / total
		pts, err := r.profileAt(t)
		if err != nil {
			return err
		}
		pose := seg.start
		pose.Position = pose.Position.Add(pose.Heading.Scale(off))
		rg := placeRing(pts, pose)
		rg.t = t
		rings = append(rings, rg)
		return nil
	}

	cum := 0.0
	for i := 0; i < m; i++ {
		seg := &r.segs[i]
		// A junction without a corner carries one shared ring, emitted as
		// the previous segment's end.
		if i == 0 || cornerAt[i-1] != nil {
			if err := emit(seg, trimStart[i], cum); err != nil {
				return nil, err
			}
		}
		for _, d := range interior {
			if d <= cum+snap || d >= cum+eff[i]-snap {
				continue
			}
			if err := emit(seg, trimStart[i]+d-cum, d); err != nil {
				return nil, err
			}
		}
		cum += eff[i]
		last := i == m-1
		if !(last && closed && cornerAt[i] == nil) {
			if err := emit(seg, trimStart[i]+eff[i], cum); err != nil {
				return nil, err
			}
		}
		if c := cornerAt[i]; c != nil {
			fill, err := r.fillers(c, trim[i], rings[len(rings)-1])
			if err != nil {
				return nil, err
			}
			rings = append(rings, fill...)
		}
	}
	return rings, nil
}
