package svg

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestGradientResolution(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<defs>
			<linearGradient id="g">
				<stop offset="0%" stop-color="#ff0000"/>
				<stop offset="100%" stop-color="#0000ff"/>
			</linearGradient>
		</defs>
		<rect width="100" height="100" fill="url(#g)"/>
	</svg>`)
	s := firstShape(t, img)
	if s.Fill().Type() != PaintLinearGradient {
		t.Fatalf("fill type = %v, want PaintLinearGradient", s.Fill().Type())
	}
	g := s.Fill().Gradient()
	if g.NumStops() != 2 {
		t.Fatalf("NumStops() = %d, want 2", g.NumStops())
	}
	if g.Stop(0).Offset != 0 || g.Stop(1).Offset != 1 {
		t.Errorf("stop offsets = %v, %v, want 0, 1", g.Stop(0).Offset, g.Stop(1).Offset)
	}
	if g.Stop(0).Color != rgb(255, 0, 0) {
		t.Errorf("stop 0 color = %#08x, want red", g.Stop(0).Color)
	}

	// Default geometry runs left to right across the shape: the
	// gradient parameter at the left edge is 0, at the right edge 1.
	inv := g.Transform()
	_, t0 := inv.TransformPoint(0, 50)
	_, t1 := inv.TransformPoint(100, 50)
	if math32.Abs(t0-0) > 1e-3 || math32.Abs(t1-1) > 1e-3 {
		t.Errorf("gradient parameter at edges = %v, %v, want 0, 1", t0, t1)
	}
}

func TestGradientForwardReference(t *testing.T) {
	// The shape appears before the gradient definition.
	img := parseDoc(t, `<svg width="100" height="100">
		<rect width="100" height="100" fill="url(#late)"/>
		<defs>
			<linearGradient id="late">
				<stop offset="0" stop-color="#ffffff"/>
				<stop offset="1" stop-color="#000000"/>
			</linearGradient>
		</defs>
	</svg>`)
	s := firstShape(t, img)
	if s.Fill().Type() != PaintLinearGradient {
		t.Errorf("fill type = %v, want PaintLinearGradient", s.Fill().Type())
	}
}

func TestGradientStopNormalization(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<defs>
			<linearGradient id="g">
				<stop offset="0.8" stop-color="#ff0000"/>
				<stop offset="0.2" stop-color="#00ff00"/>
				<stop offset="0.5" stop-color="#0000ff"/>
				<stop offset="-1" stop-color="#ffffff"/>
				<stop offset="2" stop-color="#000000"/>
			</linearGradient>
		</defs>
		<rect width="100" height="100" fill="url(#g)"/>
	</svg>`)
	g := firstShape(t, img).Fill().Gradient()
	last := float32(-1)
	for stop := range g.Stops() {
		if stop.Offset < last {
			t.Errorf("stops not monotonic: %v after %v", stop.Offset, last)
		}
		if stop.Offset < 0 || stop.Offset > 1 {
			t.Errorf("stop offset %v outside [0,1]", stop.Offset)
		}
		last = stop.Offset
	}
}

func TestGradientStopOpacity(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<defs>
			<linearGradient id="g">
				<stop offset="0" stop-color="#ff0000" stop-opacity="0.5"/>
				<stop offset="1" stop-color="#0000ff"/>
			</linearGradient>
		</defs>
		<rect width="100" height="100" fill="url(#g)"/>
	</svg>`)
	g := firstShape(t, img).Fill().Gradient()
	a := g.Stop(0).Color >> 24
	if a < 126 || a > 128 {
		t.Errorf("stop alpha = %d, want about 127", a)
	}
	if g.Stop(1).Color>>24 != 255 {
		t.Errorf("stop 1 alpha = %d, want 255", g.Stop(1).Color>>24)
	}
}

func TestGradientHrefInheritance(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<defs>
			<linearGradient id="base">
				<stop offset="0" stop-color="#ff0000"/>
				<stop offset="1" stop-color="#0000ff"/>
			</linearGradient>
			<linearGradient id="derived" href="#base" x1="0" y1="0" x2="0" y2="1"/>
		</defs>
		<rect width="100" height="100" fill="url(#derived)"/>
	</svg>`)
	s := firstShape(t, img)
	if s.Fill().Type() != PaintLinearGradient {
		t.Fatalf("fill type = %v, want PaintLinearGradient", s.Fill().Type())
	}
	g := s.Fill().Gradient()
	if g.NumStops() != 2 {
		t.Errorf("inherited NumStops() = %d, want 2", g.NumStops())
	}
}

func TestGradientHrefCycle(t *testing.T) {
	// Mutually referencing gradients with no stops fall back to the
	// solid paint.
	img := parseDoc(t, `<svg width="100" height="100">
		<defs>
			<linearGradient id="a" href="#b"/>
			<linearGradient id="b" href="#a"/>
		</defs>
		<rect width="100" height="100" fill="url(#a) #00ff00"/>
	</svg>`)
	s := firstShape(t, img)
	if s.Fill().Type() != PaintColor {
		t.Errorf("fill type = %v, want PaintColor fallback", s.Fill().Type())
	}
}

func TestGradientUnresolvedReference(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<rect width="100" height="100" fill="url(#missing) #00ff00"/>
	</svg>`)
	s := firstShape(t, img)
	if s.Fill().Type() != PaintColor {
		t.Fatalf("fill type = %v, want PaintColor fallback", s.Fill().Type())
	}
	if s.Fill().Color() != rgb(0, 255, 0) {
		t.Errorf("fallback color = %#08x, want green", s.Fill().Color())
	}
}

func TestRadialGradientFocalPoint(t *testing.T) {
	img := parseDoc(t, `<svg width="100" height="100">
		<defs>
			<radialGradient id="g" cx="50" cy="50" r="50" fx="25" fy="50" gradientUnits="userSpaceOnUse">
				<stop offset="0" stop-color="#ffffff"/>
				<stop offset="1" stop-color="#000000"/>
			</radialGradient>
		</defs>
		<rect width="100" height="100" fill="url(#g)"/>
	</svg>`)
	s := firstShape(t, img)
	if s.Fill().Type() != PaintRadialGradient {
		t.Fatalf("fill type = %v, want PaintRadialGradient", s.Fill().Type())
	}
	fx, fy := s.Fill().Gradient().FocalPoint()
	// fx=25 is half a radius left of center in a circle of radius 50.
	if math32.Abs(fx+0.5) > 1e-3 || math32.Abs(fy) > 1e-3 {
		t.Errorf("FocalPoint() = (%v, %v), want (-0.5, 0)", fx, fy)
	}
}
