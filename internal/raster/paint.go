package raster

import "github.com/chewxy/math32"

// PaintType identifies how a CachedPaint produces colors.
type PaintType uint8

const (
	PaintSolid PaintType = iota
	PaintLinear
	PaintRadial
)

// SpreadMethod describes how gradient offsets outside [0,1] are folded
// back into range.
type SpreadMethod uint8

const (
	SpreadPad SpreadMethod = iota
	SpreadReflect
	SpreadRepeat
)

// Stop is one gradient ramp entry. Color is packed RGBA with red in
// the low byte; Offset is in [0,1].
type Stop struct {
	Color  uint32
	Offset float32
}

// CachedPaint is a paint prepared for scanline filling. Gradients are
// baked into a 256-entry color ramp; xform maps device coordinates to
// gradient space as the row-major affine [a b c; d e f].
type CachedPaint struct {
	typ    PaintType
	spread SpreadMethod
	xform  [6]float32
	fx, fy float32
	colors [256]uint32
}

func applyOpacity(c uint32, opacity float32) uint32 {
	if opacity > 1 {
		opacity = 1
	} else if opacity < 0 {
		opacity = 0
	}
	a := uint32(float32(c>>24&0xff) * opacity)
	return c&0x00ffffff | a<<24
}

func lerpRGBA(c0, c1 uint32, u float32) uint32 {
	iu := uint32(u * 256)
	if iu > 255 {
		iu = 255
	}
	r := (c0&0xff)*(256-iu) + (c1&0xff)*iu
	g := (c0>>8&0xff)*(256-iu) + (c1>>8&0xff)*iu
	b := (c0>>16&0xff)*(256-iu) + (c1>>16&0xff)*iu
	a := (c0>>24&0xff)*(256-iu) + (c1>>24&0xff)*iu
	return r>>8 | g>>8<<8 | b>>8<<16 | a>>8<<24
}

// NewSolidPaint prepares a single-color paint with opacity folded in.
func NewSolidPaint(color uint32, opacity float32) *CachedPaint {
	p := &CachedPaint{typ: PaintSolid}
	p.colors[0] = applyOpacity(color, opacity)
	return p
}

// NewGradientPaint bakes gradient stops into a color ramp. xform is
// the device-to-gradient transform, fx/fy the focal point for radial
// gradients in gradient space.
func NewGradientPaint(typ PaintType, stops []Stop, spread SpreadMethod, xform [6]float32, fx, fy, opacity float32) *CachedPaint {
	p := &CachedPaint{typ: typ, spread: spread, xform: xform, fx: fx, fy: fy}
	if len(stops) == 0 {
		return nil
	}
	if len(stops) == 1 {
		c := applyOpacity(stops[0].Color, opacity)
		for i := range p.colors {
			p.colors[i] = c
		}
		return p
	}

	ca := applyOpacity(stops[0].Color, opacity)
	ua := clamp01(stops[0].Offset)
	ub := clamp01(stops[len(stops)-1].Offset)
	if ub < ua {
		ub = ua
	}
	ia := int(ua * 255)
	ib := int(ub * 255)
	for i := 0; i < ia; i++ {
		p.colors[i] = ca
	}
	for s := 0; s < len(stops)-1; s++ {
		ca = applyOpacity(stops[s].Color, opacity)
		cb := applyOpacity(stops[s+1].Color, opacity)
		ua = clamp01(stops[s].Offset)
		ub = clamp01(stops[s+1].Offset)
		ia = int(ua * 255)
		ib = int(ub * 255)
		if ib-ia <= 0 {
			continue
		}
		du := 1 / float32(ib-ia)
		u := float32(0)
		for i := ia; i <= ib && i < 256; i++ {
			p.colors[i] = lerpRGBA(ca, cb, u)
			u += du
		}
	}
	cb := applyOpacity(stops[len(stops)-1].Color, opacity)
	for i := ib; i < 256; i++ {
		p.colors[i] = cb
	}
	return p
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// fold maps a gradient parameter through the spread method into [0,1).
func (p *CachedPaint) fold(t float32) float32 {
	switch p.spread {
	case SpreadRepeat:
		t = t - math32.Floor(t)
	case SpreadReflect:
		t = math32.Abs(t)
		f := math32.Mod(t, 2)
		if f > 1 {
			f = 2 - f
		}
		t = f
	default:
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	return t
}

func (p *CachedPaint) rampColor(t float32) uint32 {
	i := int(p.fold(t) * 255)
	if i < 0 {
		i = 0
	} else if i > 255 {
		i = 255
	}
	return p.colors[i]
}

// blendScanline composites one coverage row into the bitmap using
// premultiplied alpha, so overlapping draws accumulate correctly
// before Unpremultiply.
func (r *Rasterizer) blendScanline(y, xmin, xmax int, paint *CachedPaint) {
	cover := r.scanline[xmin : xmax+1]
	dst := r.bitmap[y*r.stride+xmin*4 : y*r.stride+(xmax+1)*4]

	switch paint.typ {
	case PaintSolid:
		c := paint.colors[0]
		cr := c & 0xff
		cg := c >> 8 & 0xff
		cb := c >> 16 & 0xff
		ca := c >> 24 & 0xff
		for i, cov := range cover {
			if cov == 0 {
				continue
			}
			blendPixel(dst[i*4:i*4+4], cr, cg, cb, ca, uint32(cov))
		}
	case PaintLinear:
		t := paint.xform
		fy := float32(y) + 0.5
		for i, cov := range cover {
			if cov == 0 {
				continue
			}
			fx := float32(xmin+i) + 0.5
			gy := fx*t[3] + fy*t[4] + t[5]
			c := paint.rampColor(gy)
			blendPixel(dst[i*4:i*4+4], c&0xff, c>>8&0xff, c>>16&0xff, c>>24&0xff, uint32(cov))
		}
	case PaintRadial:
		t := paint.xform
		fy := float32(y) + 0.5
		for i, cov := range cover {
			if cov == 0 {
				continue
			}
			fx := float32(xmin+i) + 0.5
			gx := fx*t[0] + fy*t[1] + t[2]
			gy := fx*t[3] + fy*t[4] + t[5]
			c := paint.rampColor(radialParam(gx, gy, paint.fx, paint.fy))
			blendPixel(dst[i*4:i*4+4], c&0xff, c>>8&0xff, c>>16&0xff, c>>24&0xff, uint32(cov))
		}
	}
}

// radialParam evaluates the focal-point gradient parameter for a point
// in gradient space, where the gradient circle is the unit circle.
func radialParam(x, y, fx, fy float32) float32 {
	if fx == 0 && fy == 0 {
		return math32.Sqrt(x*x + y*y)
	}
	dx := x - fx
	dy := y - fy
	d2 := dx*dx + dy*dy
	if d2 == 0 {
		return 0
	}
	fd := fx*dx + fy*dy
	f2 := fx*fx + fy*fy
	disc := fd*fd + d2*(1-f2)
	if disc < 0 {
		return 1
	}
	s := (-fd + math32.Sqrt(disc)) / d2
	if s <= 0 {
		return 1
	}
	return 1 / s
}

// blendPixel does a premultiplied source-over of one color with the
// given coverage onto a premultiplied destination pixel. Coverage is
// 0..255, with 255 meaning all sub-scanlines covered.
func blendPixel(px []byte, cr, cg, cb, ca, cov uint32) {
	a := div255(cov * ca)
	ia := 255 - a
	px[0] = uint8(div255(cr*a) + div255(ia*uint32(px[0])))
	px[1] = uint8(div255(cg*a) + div255(ia*uint32(px[1])))
	px[2] = uint8(div255(cb*a) + div255(ia*uint32(px[2])))
	px[3] = uint8(a + div255(ia*uint32(px[3])))
}

func div255(v uint32) uint32 {
	return (v + 1 + (v >> 8)) >> 8
}
