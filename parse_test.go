package svg

import (
	"errors"
	"strings"
	"testing"

	"github.com/chewxy/math32"
)

func parseDoc(t *testing.T, body string) *Image {
	t.Helper()
	img, err := Parse([]byte(body), "px", 96)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return img
}

func firstShape(t *testing.T, img *Image) *Shape {
	t.Helper()
	for s := range img.Shapes() {
		return s
	}
	t.Fatal("image has no shapes")
	return nil
}

func rectNear(a, b Rect, tol float32) bool {
	return math32.Abs(a.MinX-b.MinX) < tol && math32.Abs(a.MinY-b.MinY) < tol &&
		math32.Abs(a.MaxX-b.MaxX) < tol && math32.Abs(a.MaxY-b.MaxY) < tol
}

func TestParseBasicPath(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<path d="M0 0 L10 0 L10 10 L0 10 Z"/>
	</svg>`)

	if img.Width() != 100 || img.Height() != 100 {
		t.Errorf("size = %vx%v, want 100x100", img.Width(), img.Height())
	}
	if img.NumShapes() != 1 {
		t.Fatalf("NumShapes() = %d, want 1", img.NumShapes())
	}

	s := firstShape(t, img)
	if s.NumPaths() != 1 {
		t.Fatalf("NumPaths() = %d, want 1", s.NumPaths())
	}
	var p *Path
	for q := range s.Paths() {
		p = q
	}
	if !p.Closed() {
		t.Error("path should be closed")
	}
	// moveTo plus four line segments stored as cubics.
	if p.NumPoints() != 13 {
		t.Errorf("NumPoints() = %d, want 13", p.NumPoints())
	}
	if p.NumSegments() != 4 {
		t.Errorf("NumSegments() = %d, want 4", p.NumSegments())
	}
	want := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	if !rectNear(p.Bounds(), want, 1e-5) {
		t.Errorf("Bounds() = %+v, want %+v", p.Bounds(), want)
	}
	if !s.Visible() {
		t.Error("shape should be visible")
	}
	if s.Fill().Type() != PaintColor || s.Fill().Color() != rgb(0, 0, 0) {
		t.Errorf("default fill = %v %#08x, want opaque black", s.Fill().Type(), s.Fill().Color())
	}
	if s.Stroke().Type() != PaintNone {
		t.Errorf("default stroke = %v, want PaintNone", s.Stroke().Type())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"not xml", "hello world"},
		{"no svg element", "<html><body/></html>"},
		{"truncated before svg", "<sv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Parse([]byte(tt.in), "px", 96)
			if img != nil {
				t.Error("Parse() returned non-nil image for bad input")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("Parse() error = %v, want ErrParse", err)
			}
		})
	}
}

func TestParseEmptySVG(t *testing.T) {
	img := parseDoc(t, `<svg width="10" height="10"></svg>`)
	if img.NumShapes() != 0 {
		t.Errorf("NumShapes() = %d, want 0", img.NumShapes())
	}
}

func TestPathPtPanics(t *testing.T) {
	img := parseDoc(t, `<svg width="10" height="10"><path d="M0 0 L5 5"/></svg>`)
	s := firstShape(t, img)
	var p *Path
	for q := range s.Paths() {
		p = q
	}
	defer func() {
		if recover() == nil {
			t.Error("Pt() out of range did not panic")
		}
	}()
	p.Pt(p.NumPoints())
}

func TestParseShapeElements(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		closed bool
		bounds Rect
	}{
		{
			"rect", `<rect x="10" y="20" width="30" height="40"/>`,
			true, Rect{MinX: 10, MinY: 20, MaxX: 40, MaxY: 60},
		},
		{
			"circle", `<circle cx="50" cy="50" r="10"/>`,
			true, Rect{MinX: 40, MinY: 40, MaxX: 60, MaxY: 60},
		},
		{
			"ellipse", `<ellipse cx="50" cy="50" rx="20" ry="10"/>`,
			true, Rect{MinX: 30, MinY: 40, MaxX: 70, MaxY: 60},
		},
		{
			"line", `<line x1="0" y1="0" x2="10" y2="10" stroke="black"/>`,
			false, Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		},
		{
			"polygon", `<polygon points="0,0 10,0 10,10"/>`,
			true, Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		},
		{
			"polyline", `<polyline points="0,0 10,0 10,10" stroke="black"/>`,
			false, Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := parseDoc(t, `<svg width="100" height="100">`+tt.body+`</svg>`)
			if img.NumShapes() != 1 {
				t.Fatalf("NumShapes() = %d, want 1", img.NumShapes())
			}
			s := firstShape(t, img)
			var p *Path
			for q := range s.Paths() {
				p = q
				break
			}
			if p.Closed() != tt.closed {
				t.Errorf("Closed() = %v, want %v", p.Closed(), tt.closed)
			}
			if !rectNear(s.Bounds(), tt.bounds, 1e-3) {
				t.Errorf("Bounds() = %+v, want %+v", s.Bounds(), tt.bounds)
			}
		})
	}
}

func TestParseZeroSizeShapesDropped(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero width rect", `<rect x="0" y="0" width="0" height="10"/>`},
		{"zero radius circle", `<circle cx="5" cy="5" r="0"/>`},
		{"single point polyline", `<polyline points="5,5"/>`},
		{"zero length line", `<line x1="5" y1="5" x2="5" y2="5"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := parseDoc(t, `<svg width="100" height="100">`+tt.body+`</svg>`)
			if img.NumShapes() != 0 {
				t.Errorf("NumShapes() = %d, want 0", img.NumShapes())
			}
		})
	}
}

func TestParseOpacityMultiplies(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<g opacity="0.5">
			<rect width="10" height="10" opacity="0.5"/>
		</g>
	</svg>`)
	s := firstShape(t, img)
	if math32.Abs(s.Opacity()-0.25) > 1e-5 {
		t.Errorf("Opacity() = %v, want 0.25", s.Opacity())
	}
}

func TestParseTransformBaked(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<g transform="translate(5, 5)">
			<rect width="10" height="10" transform="scale(2)"/>
		</g>
	</svg>`)
	s := firstShape(t, img)
	want := Rect{MinX: 5, MinY: 5, MaxX: 25, MaxY: 25}
	if !rectNear(s.Bounds(), want, 1e-3) {
		t.Errorf("Bounds() = %+v, want %+v", s.Bounds(), want)
	}
}

func TestParseStyleAttribute(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<rect width="10" height="10" style="fill: #ff0000; stroke-width: 3"/>
	</svg>`)
	s := firstShape(t, img)
	if s.Fill().Color() != rgb(255, 0, 0) {
		t.Errorf("fill = %#08x, want red", s.Fill().Color())
	}
	if s.StrokeWidth() != 3 {
		t.Errorf("StrokeWidth() = %v, want 3", s.StrokeWidth())
	}
}

func TestParseDashArray(t *testing.T) {
	tests := []struct {
		name   string
		attr   string
		want   []float32
		offset float32
	}{
		{"pair", `stroke-dasharray="5,3"`, []float32{5, 3}, 0},
		{"spaces", `stroke-dasharray="5 3 1"`, []float32{5, 3, 1}, 0},
		{"negative folded", `stroke-dasharray="-5,3"`, []float32{5, 3}, 0},
		{"none", `stroke-dasharray="none"`, nil, 0},
		{"offset", `stroke-dasharray="4" stroke-dashoffset="2"`, []float32{4}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := parseDoc(t, `<svg width="100" height="100">
				<line x1="0" y1="0" x2="50" y2="0" stroke="black" `+tt.attr+`/>
			</svg>`)
			s := firstShape(t, img)
			got := s.StrokeDashArray()
			if len(got) != len(tt.want) {
				t.Fatalf("dash array = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("dash[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if s.StrokeDashOffset() != tt.offset {
				t.Errorf("StrokeDashOffset() = %v, want %v", s.StrokeDashOffset(), tt.offset)
			}
		})
	}
}

func TestParseDisplayNone(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<rect width="10" height="10" display="none"/>
		<rect width="10" height="10" visibility="hidden"/>
	</svg>`)
	for s := range img.Shapes() {
		if s.Visible() {
			t.Error("hidden shape reported visible")
		}
	}
}

func TestParseUse(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<defs>
			<rect id="box" width="10" height="10"/>
		</defs>
		<use href="#box" x="20" y="30"/>
	</svg>`)
	if img.NumShapes() != 1 {
		t.Fatalf("NumShapes() = %d, want 1", img.NumShapes())
	}
	s := firstShape(t, img)
	want := Rect{MinX: 20, MinY: 30, MaxX: 30, MaxY: 40}
	if !rectNear(s.Bounds(), want, 1e-3) {
		t.Errorf("Bounds() = %+v, want %+v", s.Bounds(), want)
	}
}

func TestParseUseCycle(t *testing.T) {
	// Self-referencing use must terminate.
	img := parseDoc(t, `<svg width="100" height="100">
		<g id="a"><use href="#a"/></g>
	</svg>`)
	_ = img
}

func TestParseViewBoxScaling(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100" viewBox="0 0 50 50">
		<rect width="50" height="50"/>
	</svg>`)
	if img.Width() != 100 {
		t.Errorf("Width() = %v, want 100", img.Width())
	}
	s := firstShape(t, img)
	want := Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	if !rectNear(s.Bounds(), want, 1e-3) {
		t.Errorf("Bounds() = %+v, want %+v", s.Bounds(), want)
	}
}

func TestParsePaintOrder(t *testing.T) {
	img := parseDoc(t, `<svg width="10" height="10">
		<rect width="5" height="5" paint-order="stroke"/>
	</svg>`)
	s := firstShape(t, img)
	got := s.PaintOrder()
	want := [3]PaintLayer{LayerStroke, LayerFill, LayerMarkers}
	if got != want {
		t.Errorf("PaintOrder() = %v, want %v", got, want)
	}
}

func TestParseCurrentColor(t *testing.T) {
	img := parseDoc(t, `<svg width="10" height="10">
		<g color="#00ff00">
			<rect width="5" height="5" fill="currentColor"/>
		</g>
	</svg>`)
	s := firstShape(t, img)
	if s.Fill().Color() != rgb(0, 255, 0) {
		t.Errorf("currentColor fill = %#08x, want green", s.Fill().Color())
	}
}

func TestParseNonUTF8Charset(t *testing.T) {
	// 0xE9 is "é" in ISO-8859-1 and invalid as a standalone UTF-8 byte.
	doc := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?>`+
		`<svg width="10" height="10"><title>caf`), 0xE9)
	doc = append(doc, []byte(`</title><rect width="5" height="5"/></svg>`)...)

	img, err := Parse(doc, "px", 96)
	if err != nil {
		t.Fatalf("Parse() error on ISO-8859-1 input: %v", err)
	}
	if img.NumShapes() != 1 {
		t.Errorf("NumShapes() = %d, want 1", img.NumShapes())
	}
}

func TestParseDoesNotMutateInput(t *testing.T) {
	doc := []byte(`<svg width="10" height="10"><rect width="5" height="5"/></svg>`)
	orig := strings.Clone(string(doc))
	if _, err := Parse(doc, "px", 96); err != nil {
		t.Fatal(err)
	}
	if string(doc) != orig {
		t.Error("Parse mutated its input slice")
	}
}
