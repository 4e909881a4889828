package geo

import (
	"math"
	"testing"
)

func TestRectCenter(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want Point
	}{
		{name: "Origin", rect: RectAt(0, 0, 40, 20), want: Pt(20, 10)},
		{name: "Offset", rect: RectAt(100, 0, 40, 20), want: Pt(120, 10)},
		{name: "Negative", rect: RectAt(-10, -10, 20, 20), want: Pt(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Center(); got != tt.want {
				t.Errorf("Center() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectEmpty(t *testing.T) {
	if !RectAt(0, 0, 0, 20).Empty() {
		t.Error("zero width should be empty")
	}
	if !RectAt(0, 0, 20, 0).Empty() {
		t.Error("zero height should be empty")
	}
	if RectAt(0, 0, 1, 1).Empty() {
		t.Error("1x1 should not be empty")
	}
}

func TestClipRay(t *testing.T) {
	tests := []struct {
		name   string
		rect   Rect
		target Point
		want   Point
		wantOK bool
	}{
		{
			// The horizontal two-node arrangement every diagram starts from.
			name:   "RightToNeighbor",
			rect:   RectAt(0, 0, 40, 20),
			target: Pt(120, 10),
			want:   Pt(40, 10),
			wantOK: true,
		},
		{
			name:   "LeftToNeighbor",
			rect:   RectAt(100, 0, 40, 20),
			target: Pt(20, 10),
			want:   Pt(100, 10),
			wantOK: true,
		},
		{
			name:   "StraightDown",
			rect:   RectAt(0, 0, 40, 20),
			target: Pt(20, 200),
			want:   Pt(20, 20),
			wantOK: true,
		},
		{
			name:   "Diagonal",
			rect:   RectAt(0, 0, 20, 20),
			target: Pt(100, 100),
			want:   Pt(20, 20),
			wantOK: true,
		},
		{
			name:   "TargetInside",
			rect:   RectAt(0, 0, 40, 20),
			target: Pt(30, 15),
			wantOK: false,
		},
		{
			name:   "TargetAtCenter",
			rect:   RectAt(0, 0, 40, 20),
			target: Pt(20, 10),
			wantOK: false,
		},
		{
			name:   "EmptyRect",
			rect:   RectAt(0, 0, 0, 0),
			target: Pt(100, 100),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rect.ClipRay(tt.target)
			if ok != tt.wantOK {
				t.Fatalf("ClipRay ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("ClipRay = %v, want %v", got, tt.want)
			}
			if !tt.rect.OnBoundary(got) {
				t.Errorf("ClipRay result %v not on boundary of %v", got, tt.rect)
			}
		})
	}
}

func TestClipRayAlwaysOnBoundary(t *testing.T) {
	rect := RectAt(10, 10, 60, 30)
	targets := []Point{
		Pt(200, 25), Pt(-100, 25), Pt(40, 300), Pt(40, -300),
		Pt(150, 150), Pt(-80, -40), Pt(71, 25), Pt(40, 41),
	}

	for _, target := range targets {
		got, ok := rect.ClipRay(target)
		if !ok {
			t.Fatalf("ClipRay(%v) failed", target)
		}
		if !rect.OnBoundary(got) {
			t.Errorf("ClipRay(%v) = %v, not on boundary", target, got)
		}
		if rect.Center().Distance(got) > rect.Center().Distance(target)+boundaryEps {
			t.Errorf("ClipRay(%v) = %v lies beyond the target", target, got)
		}
	}
}
