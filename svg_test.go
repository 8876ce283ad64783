package svg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func pathPoints(p *Path) [][2]float32 {
	out := make([][2]float32, p.NumPoints())
	for i := range out {
		x, y := p.Pt(i)
		out[i] = [2]float32{x, y}
	}
	return out
}

func TestPathClone(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<path d="M0 0 C10 0 10 10 0 10 Z"/>
	</svg>`)
	var orig *Path
	for s := range img.Shapes() {
		for p := range s.Paths() {
			orig = p
		}
	}

	clone := orig.Clone()
	if diff := cmp.Diff(pathPoints(orig), pathPoints(clone)); diff != "" {
		t.Errorf("clone points mismatch (-orig +clone):\n%s", diff)
	}
	if clone.Closed() != orig.Closed() || clone.Bounds() != orig.Bounds() {
		t.Error("clone lost closed flag or bounds")
	}

	// Deep copy: mutating the clone must not touch the original.
	before := pathPoints(orig)
	clone.pts[0] += 100
	if diff := cmp.Diff(before, pathPoints(orig)); diff != "" {
		t.Errorf("mutating clone changed original (-before +after):\n%s", diff)
	}
}

func TestImageBounds(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<rect x="10" y="10" width="10" height="10"/>
		<rect x="50" y="60" width="20" height="20"/>
	</svg>`)
	b, ok := img.Bounds()
	if !ok {
		t.Fatal("Bounds() reported no shapes")
	}
	want := Rect{MinX: 10, MinY: 10, MaxX: 70, MaxY: 80}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("Bounds() mismatch (-want +got):\n%s", diff)
	}

	empty := parseDoc(t, `<svg width="10" height="10"></svg>`)
	if _, ok := empty.Bounds(); ok {
		t.Error("empty image reported bounds")
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}
	b := Rect{MinX: 3, MinY: -2, MaxX: 10, MaxY: 4}
	got := a.union(b)
	want := Rect{MinX: 0, MinY: -2, MaxX: 10, MaxY: 5}
	if got != want {
		t.Errorf("union = %+v, want %+v", got, want)
	}
}

func TestShapeVisibleFlag(t *testing.T) {
	img := parseDoc(t, `<svg width="10" height="10">
		<rect width="5" height="5" opacity="0"/>
	</svg>`)
	for s := range img.Shapes() {
		if s.Visible() {
			t.Error("zero-opacity shape reported visible")
		}
	}
}
