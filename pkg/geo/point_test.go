package geo

import (
	"math"
	"testing"
)

func TestPointOps(t *testing.T) {
	a := Pt(3, 4)
	b := Pt(1, 2)

	if got := a.Add(b); got != Pt(4, 6) {
		t.Errorf("Add = %v, want (4,6)", got)
	}
	if got := a.Sub(b); got != Pt(2, 2) {
		t.Errorf("Sub = %v, want (2,2)", got)
	}
	if got := a.Mul(2); got != Pt(6, 8) {
		t.Errorf("Mul = %v, want (6,8)", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := a.Dot(b); got != 11 {
		t.Errorf("Dot = %v, want 11", got)
	}
	if got := a.Cross(b); got != 2 {
		t.Errorf("Cross = %v, want 2", got)
	}
}

func TestPointPerp(t *testing.T) {
	// In screen coordinates (Y down) the perpendicular of "right" is "down".
	if got := Pt(1, 0).Perp(); got != Pt(0, 1) {
		t.Errorf("Perp = %v, want (0,1)", got)
	}
	if got := Pt(0, 1).Perp(); got != Pt(-1, 0) {
		t.Errorf("Perp = %v, want (-1,0)", got)
	}
}

func TestPointNormalize(t *testing.T) {
	n := Pt(10, 0).Normalize()
	if n != Pt(1, 0) {
		t.Errorf("Normalize = %v, want (1,0)", n)
	}
	if got := Pt(0, 0).Normalize(); !got.IsZero() {
		t.Errorf("Normalize zero = %v, want zero", got)
	}
	diag := Pt(5, 5).Normalize()
	if math.Abs(diag.Length()-1) > 1e-9 {
		t.Errorf("Normalize length = %v, want 1", diag.Length())
	}
}

func TestPointAngle(t *testing.T) {
	if got := Pt(1, 0).Angle(); got != 0 {
		t.Errorf("Angle right = %v, want 0", got)
	}
	if got := Pt(0, 1).Angle(); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("Angle down = %v, want pi/2", got)
	}
}
