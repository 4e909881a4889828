package layout

import (
	"testing"

	"github.com/edgeloom/edgeloom/pkg/geo"
)

func TestMeasure(t *testing.T) {
	handles := map[string]Handle{
		"laid-out": HandleFunc(func() (geo.Rect, bool) { return geo.RectAt(0, 0, 40, 20), true }),
		"not-yet":  HandleFunc(func() (geo.Rect, bool) { return geo.Rect{}, false }),
		"empty":    HandleFunc(func() (geo.Rect, bool) { return geo.RectAt(5, 5, 0, 0), true }),
		"nil":      nil,
	}

	rects := Measure(handles)
	if len(rects) != 1 {
		t.Fatalf("Measure kept %d rects, want 1", len(rects))
	}
	r, ok := rects["laid-out"]
	if !ok {
		t.Fatal("laid-out node missing from measurement")
	}
	if r != geo.RectAt(0, 0, 40, 20) {
		t.Errorf("rect = %v, want (0,0,40,20)", r)
	}
}

func TestMeasureEmpty(t *testing.T) {
	if got := Measure(nil); len(got) != 0 {
		t.Errorf("Measure(nil) = %v, want empty", got)
	}
	if got := Measure(map[string]Handle{}); len(got) != 0 {
		t.Errorf("Measure(empty) = %v, want empty", got)
	}
}
