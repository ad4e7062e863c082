package math

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}

	z := x.Cross(y)
	if !almostEqual(z.X, 0) || !almostEqual(z.Y, 0) || !almostEqual(z.Z, 1) {
		t.Errorf("x cross y = %v, expected (0,0,1)", z)
	}

	// Anti-commutative
	nz := y.Cross(x)
	if !almostEqual(nz.Z, -1) {
		t.Errorf("y cross x = %v, expected (0,0,-1)", nz)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	if !almostEqual(n.Length(), 1) {
		t.Errorf("normalized length = %v, expected 1", n.Length())
	}
	if !almostEqual(n.X, 0.6) || !almostEqual(n.Z, 0.8) {
		t.Errorf("normalized = %v, expected (0.6,0,0.8)", n)
	}

	zero := Vec3{}.Normalize()
	if zero.X != 0 || zero.Y != 0 || zero.Z != 0 {
		t.Errorf("zero vector normalized to %v", zero)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 4, -6}

	mid := a.Lerp(b, 0.5)
	if !almostEqual(mid.X, 1) || !almostEqual(mid.Y, 2) || !almostEqual(mid.Z, -3) {
		t.Errorf("lerp 0.5 = %v, expected (1,2,-3)", mid)
	}

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("lerp 0 = %v, expected %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("lerp 1 = %v, expected %v", got, b)
	}
}

func TestVec3AddSubScaleDot(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("add = %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("sub = %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("scale = %v", got)
	}
	if got := a.Dot(b); !almostEqual(got, 32) {
		t.Errorf("dot = %v, expected 32", got)
	}
}
