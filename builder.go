package svg

// pathBuilder accumulates one subpath at a time as cubic Bezier
// control points in local element space. Finished subpaths are baked
// through the active transform into Path records, so stored paths are
// always in output user space.
type pathBuilder struct {
	pts   []float32
	paths []*Path
}

func (b *pathBuilder) reset() {
	b.pts = b.pts[:0]
	b.paths = b.paths[:0]
}

func (b *pathBuilder) addPoint(x, y float32) {
	b.pts = append(b.pts, x, y)
}

// moveTo starts a new subpath, flushing any accumulated one first.
func (b *pathBuilder) moveTo(x, y float32, xform Matrix) {
	if len(b.pts) > 0 {
		b.flush(false, xform)
	}
	b.addPoint(x, y)
}

// lineTo appends a straight segment in cubic form, with the control
// points placed at thirds along the chord.
func (b *pathBuilder) lineTo(x, y float32) {
	if len(b.pts) == 0 {
		return
	}
	px := b.pts[len(b.pts)-2]
	py := b.pts[len(b.pts)-1]
	dx := (x - px) / 3
	dy := (y - py) / 3
	b.addPoint(px+dx, py+dy)
	b.addPoint(x-dx, y-dy)
	b.addPoint(x, y)
}

func (b *pathBuilder) cubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	if len(b.pts) == 0 {
		return
	}
	b.addPoint(c1x, c1y)
	b.addPoint(c2x, c2y)
	b.addPoint(x, y)
}

// quadTo elevates a quadratic segment to cubic form before storage.
func (b *pathBuilder) quadTo(cx, cy, x, y float32) {
	if len(b.pts) == 0 {
		return
	}
	px := b.pts[len(b.pts)-2]
	py := b.pts[len(b.pts)-1]
	b.addPoint(px+2.0/3.0*(cx-px), py+2.0/3.0*(cy-py))
	b.addPoint(x+2.0/3.0*(cx-x), y+2.0/3.0*(cy-y))
	b.addPoint(x, y)
}

// first returns the start point of the subpath being accumulated.
func (b *pathBuilder) first() (x, y float32, ok bool) {
	if len(b.pts) < 2 {
		return 0, 0, false
	}
	return b.pts[0], b.pts[1], true
}

// flush completes the current subpath. Closed subpaths get a closing
// segment back to the first point unless already coincident. Subpaths
// with fewer than four points carry no geometry and are dropped.
func (b *pathBuilder) flush(closed bool, xform Matrix) {
	defer func() { b.pts = b.pts[:0] }()

	if closed && len(b.pts) >= 2 {
		fx, fy := b.pts[0], b.pts[1]
		lx, ly := b.pts[len(b.pts)-2], b.pts[len(b.pts)-1]
		if fx != lx || fy != ly {
			b.lineTo(fx, fy)
		}
	}
	if len(b.pts) < 8 {
		return
	}
	// A cubic chain has 3n+1 points; trailing stragglers are truncated.
	npts := len(b.pts) / 2
	npts -= (npts - 1) % 3

	pts := make([]float32, npts*2)
	for i := 0; i < npts; i++ {
		pts[i*2], pts[i*2+1] = xform.TransformPoint(b.pts[i*2], b.pts[i*2+1])
	}

	// Bounds over the stored points, an approximation rather than a
	// tight Bezier bound. Local bounds (before the transform bake) are
	// kept for objectBoundingBox gradient resolution.
	bounds := pointBounds(pts)
	local := pointBounds(b.pts[:npts*2])

	b.paths = append(b.paths, &Path{pts: pts, closed: closed, bounds: bounds, localBounds: local})
}

func pointBounds(pts []float32) Rect {
	b := Rect{MinX: pts[0], MinY: pts[1], MaxX: pts[0], MaxY: pts[1]}
	for i := 2; i < len(pts); i += 2 {
		x, y := pts[i], pts[i+1]
		if x < b.MinX {
			b.MinX = x
		}
		if y < b.MinY {
			b.MinY = y
		}
		if x > b.MaxX {
			b.MaxX = x
		}
		if y > b.MaxY {
			b.MaxY = y
		}
	}
	return b
}
