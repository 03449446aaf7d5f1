package shape

import (
	gomath "math"

	"github.com/loamstudio/turtlemesh/pkg/math"
)

// Built-in shape function constructors. Each is an ordinary Transform wrap
// obeying the same point-count contract as user-supplied transforms; the
// sweep and loft engines treat them no differently.

// Tapered scales the cross-section linearly from full size at t=0 to
// endScale at t=1. endScale of 0 tapers to a point.
func Tapered(base Fn, endScale float64) Fn {
	return base.Wrap(func(s Shape, t float64) Shape {
		return s.Scale(1 + t*(endScale-1))
	})
}

// Twisted rotates the cross-section progressively, reaching totalDeg
// degrees at t=1.
func Twisted(base Fn, totalDeg float64) Fn {
	return base.Wrap(func(s Shape, t float64) Shape {
		return s.Rotate(totalDeg * t)
	})
}

// Fluted carves a sinusoidal radial modulation into the cross-section:
// flutes wave periods around the profile, each displacing points radially
// by up to depth.
func Fluted(base Fn, flutes int, depth float64) Fn {
	return base.Wrap(func(s Shape, t float64) Shape {
		pts := make([]math.Vec2, len(s.Points))
		for i, p := range s.Points {
			r := p.Length()
			if r == 0 {
				pts[i] = p
				continue
			}
			a := gomath.Atan2(p.Y, p.X)
			off := depth * gomath.Cos(float64(flutes)*a)
			pts[i] = p.Scale((r + off) / r)
		}
		return Shape{Points: pts, Closed: s.Closed}
	})
}

// Rugged jitters each point radially by up to amplitude, deterministically
// from the seed, the point index, and the progress value. Successive rings
// jitter independently, giving the surface a rough texture.
func Rugged(base Fn, amplitude float64, seed uint64) Fn {
	return base.Wrap(func(s Shape, t float64) Shape {
		tq := uint64(t*4096 + 0.5)
		pts := make([]math.Vec2, len(s.Points))
		for i, p := range s.Points {
			r := p.Length()
			if r == 0 {
				pts[i] = p
				continue
			}
			off := amplitude * noise(seed, uint64(i), tq)
			pts[i] = p.Scale((r + off) / r)
		}
		return Shape{Points: pts, Closed: s.Closed}
	})
}

// Displaced slides the cross-section off axis, reaching (byX, byY) in
// profile coordinates at t=1.
func Displaced(base Fn, byX, byY float64) Fn {
	return base.Wrap(func(s Shape, t float64) Shape {
		return s.Translate(byX*t, byY*t)
	})
}

// Morphed blends between two shapes over the loft: from at t=0, to at t=1.
// Both are resampled to a common point count up front.
func Morphed(from, to Shape) Fn {
	n := len(from.Points)
	if len(to.Points) > n {
		n = len(to.Points)
	}
	if len(from.Points) != len(to.Points) {
		from = from.Resample(n)
		to = to.Resample(n)
	}
	end := to
	return Static(from).Wrap(func(s Shape, t float64) Shape {
		return Morph(s, end, t)
	})
}

// noise hashes to a deterministic value in [-1, 1).
func noise(seed, i, tq uint64) float64 {
	x := seed ^ i*0x9e3779b97f4a7c15 ^ tq*0xbf58476d1ce4e5b9
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return float64(x>>11)/float64(1<<52) - 1
}
