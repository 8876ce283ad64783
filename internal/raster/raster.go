// Package raster implements scanline rasterization of cubic Bezier
// outlines with sub-scanline anti-aliasing. It operates in device
// space; callers flatten shape geometry into it per shape and then draw
// with a cached paint.
package raster

import (
	"sort"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/fixed"
)

// FillRule selects the polygon interior test.
type FillRule uint8

const (
	FillNonZero FillRule = iota
	FillEvenOdd
)

const (
	// subsamples is the number of sub-scanlines accumulated per output
	// row. With maxWeight = 255/subsamples a fully covered pixel
	// reaches exactly 255.
	subsamples = 5
	maxWeight  = 255 / subsamples

	// tessTol is the flattening tolerance in device pixels; distTol
	// collapses coincident points.
	tessTol = 0.25
	distTol = 0.01

	// maxFlattenDepth bounds recursive cubic subdivision.
	maxFlattenDepth = 10
)

// fixShift converts between device x coordinates and the fixed-point
// representation used for coverage accumulation.
const (
	fixShift = 12 // fixed.Int52_12 fraction bits
	fixOne   = fixed.Int52_12(1 << fixShift)
	fixMask  = fixOne - 1
)

type edge struct {
	x0, y0 float32
	x1, y1 float32
	dir    int8
}

type activeEdge struct {
	x    fixed.Int52_12
	dx   fixed.Int52_12
	ey   float32
	dir  int8
	next int // index into active pool, -1 terminated
}

// point flags used by the stroker.
const (
	ptCorner uint8 = 1 << iota
	ptBevel
	ptLeft
)

type point struct {
	x, y     float32
	dx, dy   float32 // direction to the next point
	len      float32
	dmx, dmy float32 // miter extrusion
	flags    uint8
}

// Rasterizer holds reusable scratch buffers for scanline filling. It
// is not safe for concurrent use; use one instance per goroutine or
// serialize calls externally.
type Rasterizer struct {
	points   []point
	points2  []point
	edges    []edge
	active   []activeEdge
	scanline []uint8

	bitmap []byte
	width  int
	height int
	stride int
}

// New creates an empty rasterizer. Scratch buffers grow on demand and
// are retained across calls.
func New() *Rasterizer {
	return &Rasterizer{}
}

// SetOutput points the rasterizer at a destination RGBA buffer.
func (r *Rasterizer) SetOutput(dst []byte, width, height, stride int) {
	r.bitmap = dst
	r.width = width
	r.height = height
	r.stride = stride
	if cap(r.scanline) < width {
		r.scanline = make([]uint8, width)
	}
	r.scanline = r.scanline[:width]
}

// Clear fills the destination with fully transparent pixels.
func (r *Rasterizer) Clear() {
	for y := 0; y < r.height; y++ {
		row := r.bitmap[y*r.stride : y*r.stride+r.width*4]
		for i := range row {
			row[i] = 0
		}
	}
}

func (r *Rasterizer) addEdge(x0, y0, x1, y1 float32) {
	// Skip horizontal edges.
	if y0 == y1 {
		return
	}
	e := edge{dir: 1}
	if y0 < y1 {
		e.x0, e.y0 = x0, y0
		e.x1, e.y1 = x1, y1
	} else {
		e.dir = -1
		e.x0, e.y0 = x1, y1
		e.x1, e.y1 = x0, y0
	}
	r.edges = append(r.edges, e)
}

func (r *Rasterizer) addPoint(x, y float32, flags uint8) {
	if n := len(r.points); n > 0 {
		p := &r.points[n-1]
		if math32.Abs(p.x-x) < distTol && math32.Abs(p.y-y) < distTol {
			p.flags |= flags
			return
		}
	}
	r.points = append(r.points, point{x: x, y: y, flags: flags})
}

// flattenCubic adaptively subdivides one cubic segment into line
// points, stopping when the control points are within tolerance of the
// chord.
func (r *Rasterizer) flattenCubic(x1, y1, x2, y2, x3, y3, x4, y4 float32, level int, flags uint8) {
	if level > maxFlattenDepth {
		return
	}

	dx := x4 - x1
	dy := y4 - y1
	d2 := math32.Abs((x2-x1)*dy - (y2-y1)*dx)
	d3 := math32.Abs((x3-x1)*dy - (y3-y1)*dx)

	if (d2+d3)*(d2+d3) < tessTol*(dx*dx+dy*dy) {
		r.addPoint(x4, y4, flags)
		return
	}

	x12 := (x1 + x2) * 0.5
	y12 := (y1 + y2) * 0.5
	x23 := (x2 + x3) * 0.5
	y23 := (y2 + y3) * 0.5
	x34 := (x3 + x4) * 0.5
	y34 := (y3 + y4) * 0.5
	x123 := (x12 + x23) * 0.5
	y123 := (y12 + y23) * 0.5
	x234 := (x23 + x34) * 0.5
	y234 := (y23 + y34) * 0.5
	x1234 := (x123 + x234) * 0.5
	y1234 := (y123 + y234) * 0.5

	r.flattenCubic(x1, y1, x12, y12, x123, y123, x1234, y1234, level+1, 0)
	r.flattenCubic(x1234, y1234, x234, y234, x34, y34, x4, y4, level+1, flags)
}

// FillPath flattens one cubic path into fill edges. The pts layout is
// [x0,y0, c1x,c1y, c2x,c2y, x1,y1, ...] in user space; tx/ty/scale map
// it to device space.
func (r *Rasterizer) FillPath(pts []float32, tx, ty, scale float32) {
	if len(pts) < 2 {
		return
	}
	r.points = r.points[:0]
	r.addPoint(pts[0]*scale+tx, pts[1]*scale+ty, 0)
	for i := 6; i < len(pts); i += 6 {
		r.flattenCubic(
			pts[i-6]*scale+tx, pts[i-5]*scale+ty,
			pts[i-4]*scale+tx, pts[i-3]*scale+ty,
			pts[i-2]*scale+tx, pts[i-1]*scale+ty,
			pts[i]*scale+tx, pts[i+1]*scale+ty,
			0, 0)
	}
	// Close the polygon and emit edges.
	r.addPoint(pts[0]*scale+tx, pts[1]*scale+ty, 0)
	for i, j := 0, len(r.points)-1; i < len(r.points); j, i = i, i+1 {
		p0 := r.points[j]
		p1 := r.points[i]
		r.addEdge(p0.x, p0.y, p1.x, p1.y)
	}
}

// Draw rasterizes the accumulated edges into the output buffer using
// the given paint and fill rule, then discards the edges.
func (r *Rasterizer) Draw(paint *CachedPaint, rule FillRule) {
	defer func() { r.edges = r.edges[:0] }()
	if len(r.edges) == 0 {
		return
	}

	// Move edges into sub-scanline space.
	for i := range r.edges {
		e := &r.edges[i]
		e.y0 *= subsamples
		e.y1 *= subsamples
	}
	sort.Slice(r.edges, func(i, j int) bool {
		return r.edges[i].y0 < r.edges[j].y0
	})

	r.rasterizeSortedEdges(paint, rule)
}

func (r *Rasterizer) newActive(e *edge, startY float32) int {
	dxdy := (e.x1 - e.x0) / (e.y1 - e.y0)
	a := activeEdge{
		ey:   e.y1,
		dir:  e.dir,
		next: -1,
	}
	// Round towards zero so the edge never overshoots its endpoint.
	if dxdy < 0 {
		a.dx = -fixed.Int52_12(math32.Floor(float32(fixOne) * -dxdy))
	} else {
		a.dx = fixed.Int52_12(math32.Floor(float32(fixOne) * dxdy))
	}
	a.x = fixed.Int52_12(math32.Floor(float32(fixOne) * (e.x0 + dxdy*(startY-e.y0))))
	r.active = append(r.active, a)
	return len(r.active) - 1
}

func (r *Rasterizer) rasterizeSortedEdges(paint *CachedPaint, rule FillRule) {
	r.active = r.active[:0]
	head := -1
	next := 0

	for y := 0; y < r.height; y++ {
		clear(r.scanline)
		xmin := r.width
		xmax := 0

		for s := 0; s < subsamples; s++ {
			// Center of the current sub-scanline.
			scanY := float32(y*subsamples+s) + 0.5

			// Advance active edges, dropping those that ended.
			prev := -1
			for i := head; i != -1; {
				a := &r.active[i]
				if a.ey <= scanY {
					if prev == -1 {
						head = a.next
					} else {
						r.active[prev].next = a.next
					}
					i = a.next
					continue
				}
				a.x += a.dx
				prev = i
				i = a.next
			}

			// Insert edges that start before this sub-scanline.
			for next < len(r.edges) && r.edges[next].y0 <= scanY {
				e := &r.edges[next]
				next++
				if e.y1 <= scanY {
					continue
				}
				idx := r.newActive(e, scanY)
				head = insertSorted(r.active, head, idx)
			}

			// Keep the list sorted by x; edges may cross between rows.
			head = resortActive(r.active, head)

			if head != -1 {
				r.fillActiveEdges(head, rule, &xmin, &xmax)
			}
		}

		if xmin < 0 {
			xmin = 0
		}
		if xmax > r.width-1 {
			xmax = r.width - 1
		}
		if xmin <= xmax {
			r.blendScanline(y, xmin, xmax, paint)
		}
	}
}

// insertSorted links a new active edge into the x-sorted list.
func insertSorted(pool []activeEdge, head, idx int) int {
	x := pool[idx].x
	if head == -1 || pool[head].x >= x {
		pool[idx].next = head
		return idx
	}
	i := head
	for pool[i].next != -1 && pool[pool[i].next].x < x {
		i = pool[i].next
	}
	pool[idx].next = pool[i].next
	pool[i].next = idx
	return head
}

// resortActive restores x order with single-pass bubble steps, which is
// cheap because adjacent scanlines are nearly sorted already.
func resortActive(pool []activeEdge, head int) int {
	for {
		swapped := false
		prev := -1
		i := head
		for i != -1 && pool[i].next != -1 {
			j := pool[i].next
			if pool[i].x > pool[j].x {
				// Unlink j and relink before i.
				pool[i].next = pool[j].next
				pool[j].next = i
				if prev == -1 {
					head = j
				} else {
					pool[prev].next = j
				}
				swapped = true
				prev = j
				continue
			}
			prev = i
			i = j
		}
		if !swapped {
			break
		}
	}
	return head
}

// fillActiveEdges walks the x-sorted active edges, accumulating
// coverage for the spans that are inside according to the fill rule.
func (r *Rasterizer) fillActiveEdges(head int, rule FillRule, xmin, xmax *int) {
	var x0 fixed.Int52_12
	w := 0

	for i := head; i != -1; i = r.active[i].next {
		a := &r.active[i]
		if rule == FillNonZero {
			if w == 0 {
				x0 = a.x
				w += int(a.dir)
			} else {
				x1 := a.x
				w += int(a.dir)
				if w == 0 {
					r.fillScanline(x0, x1, xmin, xmax)
				}
			}
		} else {
			if w == 0 {
				x0 = a.x
				w = 1
			} else {
				r.fillScanline(x0, a.x, xmin, xmax)
				w = 0
			}
		}
	}
}

// fillScanline adds the sub-scanline coverage of one span [x0,x1) to
// the coverage buffer, with fractional weights at the span ends.
func (r *Rasterizer) fillScanline(x0, x1 fixed.Int52_12, xmin, xmax *int) {
	i := int(x0 >> fixShift)
	j := int(x1 >> fixShift)
	if i < *xmin {
		*xmin = i
	}
	if j > *xmax {
		*xmax = j
	}
	if i >= r.width || j < 0 {
		return
	}
	if i == j {
		// Both ends within one pixel.
		r.addCoverage(i, uint8((x1-x0)*maxWeight>>fixShift))
		return
	}
	if i >= 0 {
		r.addCoverage(i, uint8((fixOne-x0&fixMask)*maxWeight>>fixShift))
	} else {
		i = -1
	}
	if j < r.width {
		r.addCoverage(j, uint8(x1&fixMask*maxWeight>>fixShift))
	} else {
		j = r.width
	}
	for i++; i < j; i++ {
		r.addCoverage(i, maxWeight)
	}
}

// addCoverage accumulates coverage with saturation. Overlapping spans
// from self-intersecting outlines may sum past 255 in a single pixel.
func (r *Rasterizer) addCoverage(i int, v uint8) {
	c := uint32(r.scanline[i]) + uint32(v)
	if c > 255 {
		c = 255
	}
	r.scanline[i] = uint8(c)
}

// Unpremultiply converts the accumulated premultiplied pixels to
// non-premultiplied form and extends color into fully transparent
// pixels bordering opaque ones, so that bilinear samplers do not pick
// up black fringes.
func (r *Rasterizer) Unpremultiply() {
	w, h, stride := r.width, r.height, r.stride
	img := r.bitmap

	for y := 0; y < h; y++ {
		row := img[y*stride:]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			a := uint32(px[3])
			if a != 0 {
				px[0] = uint8(uint32(px[0]) * 255 / a)
				px[1] = uint8(uint32(px[1]) * 255 / a)
				px[2] = uint8(uint32(px[2]) * 255 / a)
			}
		}
	}

	// Defringe.
	for y := 0; y < h; y++ {
		row := img[y*stride:]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			if px[3] != 0 {
				continue
			}
			var cr, cg, cb, n uint32
			sample := func(off int) {
				p := img[off : off+4]
				if p[3] != 0 {
					cr += uint32(p[0])
					cg += uint32(p[1])
					cb += uint32(p[2])
					n++
				}
			}
			if x > 0 {
				sample(y*stride + x*4 - 4)
			}
			if x+1 < w {
				sample(y*stride + x*4 + 4)
			}
			if y > 0 {
				sample((y-1)*stride + x*4)
			}
			if y+1 < h {
				sample((y+1)*stride + x*4)
			}
			if n > 0 {
				px[0] = uint8(cr / n)
				px[1] = uint8(cg / n)
				px[2] = uint8(cb / n)
			}
		}
	}
}
