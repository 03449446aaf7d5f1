package shape

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/loamstudio/turtlemesh/pkg/math"
)

func TestStaticFn(t *testing.T) {
	c := Circle(5, 12)
	fn := Static(c)
	if fn.Points() != 12 {
		t.Errorf("Points() = %d, want 12", fn.Points())
	}
	diff(t, c.Points, fn.At(0).Points)
	diff(t, c.Points, fn.At(1).Points)
}

func TestWrapInnermostFirst(t *testing.T) {
	// Fluting adds depth to the radius, tapering then scales the fluted
	// result. If the order were reversed the peak radius would differ.
	base := Circle(10, 64)
	fn := Tapered(Fluted(Static(base), 6, 2), 0.5)

	peak := fn.At(1).EffectiveRadius()
	want := (10.0 + 2.0) * 0.5
	if gomath.Abs(peak-want) > 1e-9 {
		t.Errorf("peak radius at t=1 = %v, want %v", peak, want)
	}
}

func TestTapered(t *testing.T) {
	fn := Tapered(Static(Circle(20, 16)), 0)
	if got := fn.At(0).EffectiveRadius(); gomath.Abs(got-20) > 1e-12 {
		t.Errorf("radius at t=0 = %v, want 20", got)
	}
	if got := fn.At(1).EffectiveRadius(); got > 1e-12 {
		t.Errorf("radius at t=1 = %v, want 0", got)
	}
	if got := fn.At(0.5).EffectiveRadius(); gomath.Abs(got-10) > 1e-12 {
		t.Errorf("radius at t=0.5 = %v, want 10", got)
	}
}

func TestTwisted(t *testing.T) {
	sq := Square(2)
	fn := Twisted(Static(sq), 90)
	diff(t, sq.Points, fn.At(0).Points, cmpopts.EquateApprox(0, 1e-12))
	diff(t, sq.Rotate(45).Points, fn.At(0.5).Points, cmpopts.EquateApprox(0, 1e-12))
	diff(t, sq.Rotate(90).Points, fn.At(1).Points, cmpopts.EquateApprox(0, 1e-12))
}

func TestDisplaced(t *testing.T) {
	fn := Displaced(Static(Circle(1, 8)), 4, -2)
	got := fn.At(0.5).Points[0]
	want := Circle(1, 8).Points[0].Add(math.Vec2{X: 2, Y: -1})
	if got.Distance(want) > 1e-12 {
		t.Errorf("displaced point = %v, want %v", got, want)
	}
}

func TestRuggedDeterministic(t *testing.T) {
	base := Static(Circle(5, 16))
	a := Rugged(base, 0.5, 42).At(0.25)
	b := Rugged(base, 0.5, 42).At(0.25)
	diff(t, a.Points, b.Points)

	// Amplitude bounds the radial displacement
	for i, p := range a.Points {
		r := p.Length()
		if r < 4.5-1e-9 || r > 5.5+1e-9 {
			t.Errorf("point %d radius %v outside [4.5, 5.5]", i, r)
		}
	}

	c := Rugged(base, 0.5, 43).At(0.25)
	same := true
	for i := range a.Points {
		if a.Points[i] != c.Points[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical jitter")
	}
}

func TestMorphedFn(t *testing.T) {
	from := Circle(5, 12)
	to := Square(4)
	fn := Morphed(from, to)
	if fn.Points() != 12 {
		t.Errorf("Points() = %d, want 12", fn.Points())
	}
	if got := len(fn.At(0).Points); got != 12 {
		t.Errorf("points at t=0 = %d, want 12", got)
	}
	if got := len(fn.At(1).Points); got != 12 {
		t.Errorf("points at t=1 = %d, want 12", got)
	}
	// t=1 lands on the resampled square
	wantEnd := to.Resample(12)
	diff(t, wantEnd.Points, fn.At(1).Points, cmpopts.EquateApprox(0, 1e-9))
}

func TestCheckContract(t *testing.T) {
	good := Tapered(Static(Circle(5, 8)), 0.5)
	if err := good.CheckContract(); err != nil {
		t.Errorf("CheckContract() = %v, want nil", err)
	}

	bad := Static(Circle(5, 8)).Wrap(func(s Shape, t float64) Shape {
		if t > 0.5 {
			return s.Resample(5)
		}
		return s
	})
	err := bad.CheckContract()
	if err == nil {
		t.Fatal("CheckContract() should fail for point-dropping transform")
	}
	var ce *FnContractError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want *FnContractError", err)
	}
	if ce.WantPoints != 8 || ce.GotPoints != 5 {
		t.Errorf("contract error = %+v, want 8 and 5", ce)
	}
}
