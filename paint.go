package svg

import "iter"

// PaintType identifies the kind of paint attached to a shape's fill or
// stroke.
type PaintType uint8

const (
	// PaintUndefined means the attribute was not specified.
	PaintUndefined PaintType = iota
	// PaintNone disables painting for the attribute.
	PaintNone
	// PaintColor is a solid RGBA color.
	PaintColor
	// PaintLinearGradient is a resolved linear gradient.
	PaintLinearGradient
	// PaintRadialGradient is a resolved radial gradient.
	PaintRadialGradient
)

// Paint is a tagged variant describing how a shape region is painted.
// The zero value is PaintUndefined.
type Paint struct {
	typ      PaintType
	color    uint32
	gradient *Gradient
}

// Type returns the paint kind.
func (p Paint) Type() PaintType { return p.typ }

// Color returns the packed RGBA color (R in the low byte, then G, B, A).
// It is meaningful only when Type is PaintColor.
func (p Paint) Color() uint32 { return p.color }

// Gradient returns the resolved gradient, or nil when Type is not a
// gradient type.
func (p Paint) Gradient() *Gradient { return p.gradient }

// SpreadMethod defines how gradients extend beyond their defined [0,1]
// offset range.
type SpreadMethod uint8

const (
	// SpreadPad extends edge colors beyond bounds (default behavior).
	SpreadPad SpreadMethod = iota
	// SpreadReflect mirrors the gradient pattern.
	SpreadReflect
	// SpreadRepeat repeats the gradient pattern.
	SpreadRepeat
)

// GradientStop represents a color at a specific position in a gradient.
type GradientStop struct {
	Color  uint32  // Packed RGBA, R in the low byte.
	Offset float32 // Position in gradient, 0.0 to 1.0.
}

// Gradient is a resolved gradient definition. Its transform maps user
// space to gradient space; stops are sorted by non-decreasing offset.
type Gradient struct {
	xform  Matrix // Inverse of the gradient-to-user-space transform.
	spread SpreadMethod
	fx, fy float32 // Focal point in gradient space (radial only).
	stops  []GradientStop
}

// Spread returns the gradient's spread method.
func (g *Gradient) Spread() SpreadMethod { return g.spread }

// FocalPoint returns the focal point in gradient space.
// It is meaningful only for radial gradients.
func (g *Gradient) FocalPoint() (fx, fy float32) { return g.fx, g.fy }

// NumStops returns the number of color stops.
func (g *Gradient) NumStops() int { return len(g.stops) }

// Stop returns the i-th color stop.
func (g *Gradient) Stop(i int) GradientStop { return g.stops[i] }

// Stops returns an iterator over the color stops in ascending offset
// order.
func (g *Gradient) Stops() iter.Seq[GradientStop] {
	return func(yield func(GradientStop) bool) {
		for _, s := range g.stops {
			if !yield(s) {
				return
			}
		}
	}
}

// Transform returns the matrix mapping user space to gradient space.
func (g *Gradient) Transform() Matrix { return g.xform }

// FillRule selects the polygon interior test.
type FillRule uint8

const (
	// FillRuleNonZero fills where the signed crossing count is nonzero.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd fills where the crossing count is odd.
	FillRuleEvenOdd
)

// LineCap is the shape of stroked line endpoints.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin is the shape of stroked line joins.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// PaintLayer names one slot of a shape's paint order.
type PaintLayer uint8

const (
	LayerFill PaintLayer = iota
	LayerStroke
	LayerMarkers
)

// paintOrder packs three 2-bit layer slots, first slot in the low bits.
// The default 0b100100 is fill, stroke, markers.
const defaultPaintOrder uint8 = uint8(LayerFill) | uint8(LayerStroke)<<2 | uint8(LayerMarkers)<<4

func packPaintOrder(layers [3]PaintLayer) uint8 {
	return uint8(layers[0]) | uint8(layers[1])<<2 | uint8(layers[2])<<4
}

func unpackPaintOrder(packed uint8) [3]PaintLayer {
	return [3]PaintLayer{
		PaintLayer(packed & 0x3),
		PaintLayer(packed >> 2 & 0x3),
		PaintLayer(packed >> 4 & 0x3),
	}
}

// Packed RGBA helpers. The component order is R in the low byte, then G,
// B and A in the high byte.

func rgb(r, g, b uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | 0xff000000
}

func rgba(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// applyOpacity scales the alpha channel of a packed color.
func applyOpacity(c uint32, opacity float32) uint32 {
	a := uint32(float32(c>>24&0xff)*clampf(opacity, 0, 1)) & 0xff
	return c&0x00ffffff | a<<24
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
