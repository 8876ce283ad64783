package svg

import (
	"fmt"
	"image"

	"github.com/gogpu/svg/internal/raster"
)

// Rasterizer renders parsed images into RGBA pixel buffers. It holds
// reusable scratch memory, so reusing one instance across frames avoids
// allocation. A Rasterizer is not safe for concurrent use; parsed
// Images are read-only and may be shared across rasterizers.
type Rasterizer struct {
	ras *raster.Rasterizer
}

// NewRasterizer creates a rasterizer with empty scratch buffers.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{ras: raster.New()}
}

// Rasterize renders img into dst, a non-premultiplied RGBA buffer of
// the given dimensions with R in the byte at each pixel's lowest
// offset. The image is translated by tx, ty pixels and scaled
// uniformly by scale. The buffer is cleared to transparent first.
//
// Rasterize validates its arguments before touching dst and returns
// ErrInvalidArgument without writing anything if they are unusable.
func (r *Rasterizer) Rasterize(img *Image, tx, ty, scale float32, dst []byte, width, height, stride int) error {
	switch {
	case img == nil:
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	case !(scale > 0):
		return fmt.Errorf("%w: scale %v", ErrInvalidArgument, scale)
	case width <= 0 || height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidArgument, width, height)
	case stride < width*4:
		return fmt.Errorf("%w: stride %d for width %d", ErrInvalidArgument, stride, width)
	case len(dst) < height*stride:
		return fmt.Errorf("%w: buffer %d bytes, need %d", ErrInvalidArgument, len(dst), height*stride)
	}

	r.ras.SetOutput(dst, width, height, stride)
	r.ras.Clear()

	for _, shape := range img.shapes {
		if !shape.Visible() {
			continue
		}
		if r.rejectBounds(shape, tx, ty, scale, width, height) {
			continue
		}
		for _, layer := range shape.PaintOrder() {
			switch layer {
			case LayerFill:
				r.drawFill(shape, tx, ty, scale)
			case LayerStroke:
				r.drawStroke(shape, tx, ty, scale)
			case LayerMarkers:
				// Markers are not rendered.
			}
		}
	}

	r.ras.Unpremultiply()
	return nil
}

// rejectBounds reports whether the shape cannot touch the output,
// with a margin for stroke overhang.
func (r *Rasterizer) rejectBounds(shape *Shape, tx, ty, scale float32, width, height int) bool {
	margin := float32(1)
	if shape.stroke.typ != PaintNone && shape.stroke.typ != PaintUndefined {
		// Miters can poke out up to miterLimit times the half width.
		m := shape.strokeWidth * scale * 0.5
		if shape.strokeLineJoin == LineJoinMiter {
			m *= shape.miterLimit
		}
		margin += m
	}
	b := shape.bounds
	return b.MinX*scale+tx-margin > float32(width) ||
		b.MaxX*scale+tx+margin < 0 ||
		b.MinY*scale+ty-margin > float32(height) ||
		b.MaxY*scale+ty+margin < 0
}

func (r *Rasterizer) drawFill(shape *Shape, tx, ty, scale float32) {
	if shape.fill.typ == PaintNone || shape.fill.typ == PaintUndefined {
		return
	}
	paint := r.cachePaint(shape.fill, shape.opacity, tx, ty, scale)
	if paint == nil {
		return
	}
	for _, p := range shape.paths {
		r.ras.FillPath(p.pts, tx, ty, scale)
	}
	rule := raster.FillNonZero
	if shape.fillRule == FillRuleEvenOdd {
		rule = raster.FillEvenOdd
	}
	r.ras.Draw(paint, rule)
}

func (r *Rasterizer) drawStroke(shape *Shape, tx, ty, scale float32) {
	if shape.stroke.typ == PaintNone || shape.stroke.typ == PaintUndefined {
		return
	}
	lineWidth := shape.strokeWidth * scale
	if lineWidth < 0.01 {
		return
	}
	paint := r.cachePaint(shape.stroke, shape.opacity, tx, ty, scale)
	if paint == nil {
		return
	}
	style := raster.StrokeStyle{
		LineWidth:  lineWidth,
		MiterLimit: shape.miterLimit,
		Join:       raster.LineJoin(shape.strokeLineJoin),
		Cap:        raster.LineCap(shape.strokeLineCap),
		DashOffset: shape.strokeDashOffset,
	}
	if shape.strokeDashCount > 0 {
		style.DashArray = shape.strokeDashArray[:shape.strokeDashCount]
	}
	for _, p := range shape.paths {
		r.ras.StrokePath(p.pts, p.closed, tx, ty, scale, style)
	}
	// Stroke outlines self-intersect at joins; even-odd would punch
	// holes there.
	r.ras.Draw(paint, raster.FillNonZero)
}

// cachePaint converts a resolved paint into the raster form, folding
// shape opacity into the colors and composing the device-to-gradient
// transform.
func (r *Rasterizer) cachePaint(p Paint, opacity, tx, ty, scale float32) *raster.CachedPaint {
	switch p.typ {
	case PaintColor:
		return raster.NewSolidPaint(p.color, opacity)
	case PaintLinearGradient, PaintRadialGradient:
		g := p.gradient
		if g == nil || len(g.stops) == 0 {
			return nil
		}
		typ := raster.PaintLinear
		if p.typ == PaintRadialGradient {
			typ = raster.PaintRadial
		}
		stops := make([]raster.Stop, len(g.stops))
		for i, s := range g.stops {
			stops[i] = raster.Stop{Color: s.Color, Offset: s.Offset}
		}
		deviceToUser := Scale(1/scale, 1/scale).Multiply(Translate(-tx, -ty))
		m := g.xform.Multiply(deviceToUser)
		xform := [6]float32{m.A, m.B, m.C, m.D, m.E, m.F}
		return raster.NewGradientPaint(typ, stops, raster.SpreadMethod(g.spread), xform, g.fx, g.fy, opacity)
	}
	return nil
}

// RasterizeToImage renders img at the given offset and scale into a
// freshly allocated image.RGBA of the given size.
func (r *Rasterizer) RasterizeToImage(img *Image, tx, ty, scale float32, width, height int) (*image.RGBA, error) {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := r.Rasterize(img, tx, ty, scale, out.Pix, width, height, out.Stride); err != nil {
		return nil, err
	}
	return out, nil
}
