package geom

import (
	"math"
	"math/rand"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalized_ZeroVector(t *testing.T) {
	v, ok := (Vec3{}).Normalized()
	if ok {
		t.Fatalf("expected zero vector to fail normalization")
	}
	if v != (Vec3{}) {
		t.Fatalf("expected zero result, got %#v", v)
	}
}

func TestClampLen(t *testing.T) {
	v := Vec3{X: 3, Y: 4}
	c := v.ClampLen(2.5)
	if !almostEqual(c.Len(), 2.5) {
		t.Fatalf("expected length 2.5, got %f", c.Len())
	}
	if dir, _ := c.Normalized(); !almostEqual(dir.X, 0.6) || !almostEqual(dir.Y, 0.8) {
		t.Fatalf("expected direction preserved, got %#v", dir)
	}
	short := Vec3{X: 1}
	if short.ClampLen(5) != short {
		t.Fatalf("expected vector below limit to pass through")
	}
}

func TestLerp_Clamps(t *testing.T) {
	a := Vec3{X: 1}
	b := Vec3{X: 3}
	if got := Lerp(a, b, -1); got != a {
		t.Fatalf("expected clamp to a, got %#v", got)
	}
	if got := Lerp(a, b, 2); got != b {
		t.Fatalf("expected clamp to b, got %#v", got)
	}
	mid := Lerp(a, b, 0.5)
	if !almostEqual(mid.X, 2) {
		t.Fatalf("expected midpoint 2, got %f", mid.X)
	}
}

func TestRotateToward_CapsAngle(t *testing.T) {
	from := Vec3{X: 1}
	to := Vec3{Y: 1}
	got := RotateToward(from, to, math.Pi/4)
	angle := math.Acos(from.Dot(got))
	if !almostEqual(angle, math.Pi/4) {
		t.Fatalf("expected rotation capped at pi/4, got %f", angle)
	}
	if !almostEqual(got.Len(), 1) {
		t.Fatalf("expected unit result, got length %f", got.Len())
	}
}

func TestRotateToward_ReachesTarget(t *testing.T) {
	from := Vec3{X: 1}
	to := Vec3{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}
	got := RotateToward(from, to, math.Pi)
	if !almostEqual(got.Dot(to), 1) {
		t.Fatalf("expected target reached, got %#v", got)
	}
}

func TestRotateToward_Antiparallel(t *testing.T) {
	from := Vec3{X: 1}
	to := Vec3{X: -1}
	got := RotateToward(from, to, math.Pi/2)
	if !almostEqual(got.Len(), 1) {
		t.Fatalf("expected unit result, got length %f", got.Len())
	}
	if almostEqual(got.Dot(from), 1) {
		t.Fatalf("expected rotation away from start")
	}
}

func TestRotateToward_DegenerateInput(t *testing.T) {
	to := Vec3{Z: 1}
	if got := RotateToward(Vec3{}, to, 1); got != to {
		t.Fatalf("expected fallback to target, got %#v", got)
	}
	from := Vec3{Z: 1}
	if got := RotateToward(from, Vec3{}, 1); got != from {
		t.Fatalf("expected degenerate target to keep heading, got %#v", got)
	}
}

func TestBasis_Orthonormal(t *testing.T) {
	for _, fwd := range []Vec3{{Z: 1}, {X: 1}, {Y: 1}, {X: 0.577, Y: 0.577, Z: 0.577}} {
		f, _ := fwd.Normalized()
		right, up := Basis(f)
		if !almostEqual(right.Len(), 1) || !almostEqual(up.Len(), 1) {
			t.Fatalf("expected unit basis for %#v", fwd)
		}
		if math.Abs(right.Dot(f)) > 1e-9 || math.Abs(up.Dot(f)) > 1e-9 || math.Abs(right.Dot(up)) > 1e-9 {
			t.Fatalf("expected orthogonal basis for %#v", fwd)
		}
	}
}

func TestLocalToWorld_ForwardOffset(t *testing.T) {
	origin := Vec3{X: 10}
	got := LocalToWorld(origin, Vec3{Z: 1}, Vec3{Z: 5})
	want := Vec3{X: 10, Z: 5}
	if got.Sub(want).Len() > 1e-9 {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestRandUnit_IsUnit(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		v := RandUnit(r)
		if !almostEqual(v.Len(), 1) {
			t.Fatalf("expected unit vector, got length %f", v.Len())
		}
	}
}
