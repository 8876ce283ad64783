package svg

import "iter"

// Rect is an axis-aligned bounding box in user-space units.
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float32 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the box.
func (r Rect) Height() float32 { return r.MaxY - r.MinY }

func (r Rect) union(o Rect) Rect {
	if o.MinX < r.MinX {
		r.MinX = o.MinX
	}
	if o.MinY < r.MinY {
		r.MinY = o.MinY
	}
	if o.MaxX > r.MaxX {
		r.MaxX = o.MaxX
	}
	if o.MaxY > r.MaxY {
		r.MaxY = o.MaxY
	}
	return r
}

// Image is the root result of parsing an SVG document. It is immutable
// after the parse completes and safe for concurrent reads. Shapes are
// kept in document order.
type Image struct {
	width  float32
	height float32
	shapes []*Shape
}

// Width returns the image width in resolved units.
func (img *Image) Width() float32 { return img.width }

// Height returns the image height in resolved units.
func (img *Image) Height() float32 { return img.height }

// NumShapes returns the number of shapes in the image.
func (img *Image) NumShapes() int { return len(img.shapes) }

// Shapes returns an iterator over the shapes in document order.
// The iterator is restartable: each call walks the sequence from the
// start.
func (img *Image) Shapes() iter.Seq[*Shape] {
	return func(yield func(*Shape) bool) {
		for _, s := range img.shapes {
			if !yield(s) {
				return
			}
		}
	}
}

// Bounds returns the union of all shape bounds. The second return value
// reports whether the image contains any shapes.
func (img *Image) Bounds() (Rect, bool) {
	if len(img.shapes) == 0 {
		return Rect{}, false
	}
	b := img.shapes[0].bounds
	for _, s := range img.shapes[1:] {
		b = b.union(s.bounds)
	}
	return b, true
}

// Shape flags, packed. Bit 0 is visibility.
const shapeFlagVisible uint8 = 1 << 0

// Shape is one visual element of the document: resolved style plus an
// ordered sequence of cubic Bezier paths in user space.
type Shape struct {
	id               string
	fill             Paint
	stroke           Paint
	opacity          float32
	strokeWidth      float32
	strokeDashOffset float32
	strokeDashArray  [maxDashes]float32
	strokeDashCount  int
	strokeLineJoin   LineJoin
	strokeLineCap    LineCap
	miterLimit       float32
	fillRule         FillRule
	paintOrder       uint8 // three packed 2-bit layer slots
	flags            uint8
	bounds           Rect
	localBounds      Rect // pre-transform bounds, used for objectBoundingBox gradients
	fillGradientID   string
	strokeGradientID string
	xform            Matrix // transform active at shape creation, already baked into path points
	paths            []*Path
}

// maxDashes is the maximum number of entries in a stroke dash array.
const maxDashes = 8

// ID returns the element id, which may be empty.
func (s *Shape) ID() string { return s.id }

// Fill returns the fill paint.
func (s *Shape) Fill() Paint { return s.fill }

// Stroke returns the stroke paint.
func (s *Shape) Stroke() Paint { return s.stroke }

// Opacity returns the shape opacity in [0,1].
func (s *Shape) Opacity() float32 { return s.opacity }

// StrokeWidth returns the stroke width in user units.
func (s *Shape) StrokeWidth() float32 { return s.strokeWidth }

// StrokeDashOffset returns the offset into the dash pattern.
func (s *Shape) StrokeDashOffset() float32 { return s.strokeDashOffset }

// StrokeDashArray returns a copy of the dash pattern. An empty slice
// means a solid stroke.
func (s *Shape) StrokeDashArray() []float32 {
	out := make([]float32, s.strokeDashCount)
	copy(out, s.strokeDashArray[:s.strokeDashCount])
	return out
}

// StrokeLineJoin returns the join style for stroked corners.
func (s *Shape) StrokeLineJoin() LineJoin { return s.strokeLineJoin }

// StrokeLineCap returns the cap style for stroked endpoints.
func (s *Shape) StrokeLineCap() LineCap { return s.strokeLineCap }

// MiterLimit returns the limit at which miter joins fall back to bevels.
func (s *Shape) MiterLimit() float32 { return s.miterLimit }

// FillRule returns the polygon interior rule for fills.
func (s *Shape) FillRule() FillRule { return s.fillRule }

// PaintOrder returns the fill/stroke/markers layer sequencing.
func (s *Shape) PaintOrder() [3]PaintLayer { return unpackPaintOrder(s.paintOrder) }

// Visible reports whether the shape should be drawn. Invisible shapes
// are retained in the image with bounds computed, so bounds queries stay
// well-defined; consumers skip them via this flag.
func (s *Shape) Visible() bool { return s.flags&shapeFlagVisible != 0 }

// Bounds returns the union of the shape's path bounds.
func (s *Shape) Bounds() Rect { return s.bounds }

// FillGradientID returns the referenced fill gradient id, if any.
func (s *Shape) FillGradientID() string { return s.fillGradientID }

// StrokeGradientID returns the referenced stroke gradient id, if any.
func (s *Shape) StrokeGradientID() string { return s.strokeGradientID }

// Transform returns the transform that was active when the shape was
// created. Path points already have it baked in.
func (s *Shape) Transform() Matrix { return s.xform }

// NumPaths returns the number of paths in the shape.
func (s *Shape) NumPaths() int { return len(s.paths) }

// Paths returns an iterator over the shape's paths in document order.
func (s *Shape) Paths() iter.Seq[*Path] {
	return func(yield func(*Path) bool) {
		for _, p := range s.paths {
			if !yield(p) {
				return
			}
		}
	}
}

// Path is a polyline of cubic Bezier segments stored as a flat
// coordinate sequence [x0,y0, c1x,c1y, c2x,c2y, x1,y1, ...]. A valid
// cubic chain has 3k+1 points, but degenerate single-point paths can
// occur and are tolerated.
type Path struct {
	pts         []float32
	closed      bool
	bounds      Rect
	localBounds Rect
}

// NumPoints returns the number of control and anchor points.
func (p *Path) NumPoints() int { return len(p.pts) / 2 }

// NumSegments returns the number of cubic segments.
func (p *Path) NumSegments() int {
	n := p.NumPoints()
	if n < 4 {
		return 0
	}
	return (n - 1) / 3
}

// Pt returns the i-th point. It panics if i is outside
// [0, NumPoints()): out-of-range access is a programming error and
// fails loudly rather than clamping.
func (p *Path) Pt(i int) (x, y float32) {
	return p.pts[i*2], p.pts[i*2+1]
}

// Closed reports whether the subpath was closed with a Z command.
func (p *Path) Closed() bool { return p.closed }

// Bounds returns the box over the stored control and anchor points.
// This is an approximation, not a tight Bezier bound.
func (p *Path) Bounds() Rect { return p.bounds }

// Clone returns an independent deep copy of the path.
func (p *Path) Clone() *Path {
	pts := make([]float32, len(p.pts))
	copy(pts, p.pts)
	return &Path{pts: pts, closed: p.closed, bounds: p.bounds, localBounds: p.localBounds}
}
