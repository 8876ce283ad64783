package svg

import (
	"testing"

	"github.com/chewxy/math32"
)

func singlePath(t *testing.T, d string) *Path {
	t.Helper()
	img := parseDoc(t, `<svg width="100" height="100"><path d="`+d+`"/></svg>`)
	if img.NumShapes() != 1 {
		t.Fatalf("NumShapes() = %d, want 1", img.NumShapes())
	}
	var p *Path
	for s := range img.Shapes() {
		for q := range s.Paths() {
			p = q
		}
	}
	if p == nil {
		t.Fatal("no path parsed")
	}
	return p
}

func TestPathDataSegmentCounts(t *testing.T) {
	tests := []struct {
		name     string
		d        string
		segments int
		closed   bool
	}{
		{"lines", "M0 0 L10 0 L10 10", 2, false},
		{"closed adds segment", "M0 0 L10 0 L10 10 Z", 3, true},
		{"cubic", "M0 0 C1 1 2 1 3 0", 1, false},
		{"quadratic elevated", "M0 0 Q5 10 10 0", 1, false},
		{"horizontal vertical", "M0 0 H10 V10", 2, false},
		{"implicit lineto", "M0 0 10 0 10 10", 2, false},
		{"relative", "m5 5 l10 0 l0 10", 2, false},
		{"smooth cubic", "M0 0 C1 1 2 1 3 0 S5 -1 6 0", 2, false},
		{"smooth quad", "M0 0 Q5 10 10 0 T20 0", 2, false},
		{"arc quarter", "M0 0 A10 10 0 0 1 10 10", 1, false},
		{"arc half", "M0 0 A5 5 0 0 1 10 0", 2, false},
		{"arc full fallback line", "M0 0 A0 0 0 0 1 10 10", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := singlePath(t, tt.d)
			if p.NumSegments() != tt.segments {
				t.Errorf("NumSegments() = %d, want %d", p.NumSegments(), tt.segments)
			}
			if p.Closed() != tt.closed {
				t.Errorf("Closed() = %v, want %v", p.Closed(), tt.closed)
			}
		})
	}
}

func TestPathDataArcEndpoint(t *testing.T) {
	p := singlePath(t, "M0 0 A10 10 0 0 1 10 10")
	x, y := p.Pt(p.NumPoints() - 1)
	if math32.Abs(x-10) > 1e-2 || math32.Abs(y-10) > 1e-2 {
		t.Errorf("arc endpoint = (%v, %v), want (10, 10)", x, y)
	}
}

func TestPathDataMalformedNumberTruncates(t *testing.T) {
	// The command list is processed up to the malformed argument.
	p := singlePath(t, "M0 0 L10 0 Lfoo bar")
	if p.NumSegments() != 1 {
		t.Errorf("NumSegments() = %d, want 1", p.NumSegments())
	}
}

func TestPathDataUnknownCommandSkipped(t *testing.T) {
	p := singlePath(t, "M0 0 L10 0 X99 L10 10")
	if p.NumSegments() < 1 {
		t.Errorf("NumSegments() = %d, want at least 1", p.NumSegments())
	}
}

func TestPathDataMultipleSubpaths(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<path d="M0 0 L10 0 L10 10 Z M20 20 L30 20"/>
	</svg>`)
	s := firstShape(t, img)
	if s.NumPaths() != 2 {
		t.Fatalf("NumPaths() = %d, want 2", s.NumPaths())
	}
	var paths []*Path
	for p := range s.Paths() {
		paths = append(paths, p)
	}
	if !paths[0].Closed() {
		t.Error("first subpath should be closed")
	}
	if paths[1].Closed() {
		t.Error("second subpath should be open")
	}
}

func TestPathDataScientificNotation(t *testing.T) {
	p := singlePath(t, "M0 0 L1e1 0")
	x, y := p.Pt(p.NumPoints() - 1)
	if x != 10 || y != 0 {
		t.Errorf("endpoint = (%v, %v), want (10, 0)", x, y)
	}
}

func TestPathDataCompactNumbers(t *testing.T) {
	// SVG allows ".5.5" as two numbers and "1-2" as 1, -2.
	p := singlePath(t, "M.5.5L1-2")
	if p.NumSegments() != 1 {
		t.Fatalf("NumSegments() = %d, want 1", p.NumSegments())
	}
	x0, y0 := p.Pt(0)
	if x0 != 0.5 || y0 != 0.5 {
		t.Errorf("start = (%v, %v), want (0.5, 0.5)", x0, y0)
	}
	x1, y1 := p.Pt(p.NumPoints() - 1)
	if x1 != 1 || y1 != -2 {
		t.Errorf("end = (%v, %v), want (1, -2)", x1, y1)
	}
}
