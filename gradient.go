package svg

import "sort"

// gradientUnits selects the coordinate space of gradient geometry.
type gradientUnits uint8

const (
	// objectBoundingBox maps the gradient's 0..1 space onto the shape's
	// local bounding box. This is the SVG default.
	objectBoundingBox gradientUnits = iota
	// userSpaceOnUse interprets gradient coordinates in user space.
	userSpaceOnUse
)

// gradientData is a gradient definition as parsed, before resolution
// against a concrete shape. Geometry is kept as raw coordinates because
// percentages resolve differently per unit space.
type gradientData struct {
	id     string
	typ    PaintType // PaintLinearGradient or PaintRadialGradient
	units  gradientUnits
	xform  Matrix // gradientTransform
	spread SpreadMethod
	stops  []GradientStop
	href   string

	// Linear geometry.
	x1, y1, x2, y2 coord
	// Radial geometry.
	cx, cy, r, fx, fy coord
	hasFX, hasFY      bool
}

func newGradientData(typ PaintType) *gradientData {
	g := &gradientData{
		typ:   typ,
		units: objectBoundingBox,
		xform: Identity(),
	}
	switch typ {
	case PaintLinearGradient:
		g.x1 = coord{0, unitPercent}
		g.y1 = coord{0, unitPercent}
		g.x2 = coord{100, unitPercent}
		g.y2 = coord{0, unitPercent}
	case PaintRadialGradient:
		g.cx = coord{50, unitPercent}
		g.cy = coord{50, unitPercent}
		g.r = coord{50, unitPercent}
	}
	return g
}

// normalizeStops sorts stops by offset, clamps offsets into [0,1] and
// forces them into monotonic non-decreasing order.
func normalizeStops(stops []GradientStop) []GradientStop {
	if len(stops) == 0 {
		return stops
	}
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Offset < stops[j].Offset
	})
	last := float32(0)
	for i := range stops {
		o := clampf(stops[i].Offset, 0, 1)
		if o < last {
			o = last
		}
		stops[i].Offset = o
		last = o
	}
	return stops
}

// stopsFor resolves the stop list for a gradient, following the href
// inheritance chain when the gradient declares no stops of its own.
// Visited ids guard against reference cycles.
func (p *parser) stopsFor(data *gradientData) []GradientStop {
	visited := map[string]bool{data.id: true}
	cur := data
	for len(cur.stops) == 0 && cur.href != "" {
		next, ok := p.gradients[cur.href]
		if !ok || visited[next.id] {
			logger().Debug("svg: broken gradient href chain", "id", data.id, "href", cur.href)
			return nil
		}
		visited[next.id] = true
		cur = next
	}
	return cur.stops
}

// resolveGradient builds a concrete Gradient for one shape. The
// returned gradient transform is the inverse of the full gradient-to-
// user-space mapping, ready for per-pixel sampling. A nil return means
// the reference could not be resolved and the caller should fall back
// to a solid color.
func (p *parser) resolveGradient(id string, shape *Shape) (*Gradient, PaintType) {
	data, ok := p.gradients[id]
	if !ok {
		logger().Debug("svg: unresolved gradient reference", "id", id)
		return nil, PaintUndefined
	}
	stops := p.stopsFor(data)
	if len(stops) == 0 {
		return nil, PaintUndefined
	}

	// Resolution context: either the shape's local bounding box (unit
	// square mapping) or the viewport.
	var ox, oy, sw, sh float32
	var spaceM Matrix
	if data.units == objectBoundingBox {
		b := shape.localBounds
		spaceM = Translate(b.MinX, b.MinY).Multiply(Scale(b.Width(), b.Height()))
		sw, sh = 1, 1
	} else {
		spaceM = Identity()
		ox, oy = 0, 0
		sw, sh = p.viewWidth(), p.viewHeight()
	}

	var coordM Matrix
	switch data.typ {
	case PaintLinearGradient:
		x1 := p.resolveCoord(data.x1, ox, sw, data.units)
		y1 := p.resolveCoord(data.y1, oy, sh, data.units)
		x2 := p.resolveCoord(data.x2, ox, sw, data.units)
		y2 := p.resolveCoord(data.y2, oy, sh, data.units)
		dx := x2 - x1
		dy := y2 - y1
		// Align gradient space so the stop parameter is the local y
		// coordinate: (0,0) maps to the line start, y=1 to its end.
		coordM = Matrix{A: dy, B: dx, C: x1, D: -dx, E: dy, F: y1}
	case PaintRadialGradient:
		cx := p.resolveCoord(data.cx, ox, sw, data.units)
		cy := p.resolveCoord(data.cy, oy, sh, data.units)
		r := p.resolveCoord(data.r, 0, (sw+sh)*0.5, data.units)
		coordM = Matrix{A: r, B: 0, C: cx, D: 0, E: r, F: cy}
	default:
		return nil, PaintUndefined
	}

	forward := shape.xform.Multiply(data.xform).Multiply(spaceM).Multiply(coordM)
	inv := forward.Invert()

	g := &Gradient{
		xform:  inv,
		spread: data.spread,
		stops:  normalizeStops(append([]GradientStop(nil), stops...)),
	}

	if data.typ == PaintRadialGradient {
		// Focal point defaults to the center; map it into unit
		// gradient space where the gradient circle is the unit circle.
		fc := data.cx
		if data.hasFX {
			fc = data.fx
		}
		fyc := data.cy
		if data.hasFY {
			fyc = data.fy
		}
		fxUser := p.resolveCoord(fc, ox, sw, data.units)
		fyUser := p.resolveCoord(fyc, oy, sh, data.units)
		// The focal point is defined in the same space as cx/cy, so
		// only the coordinate mapping applies, not the shape/gradient
		// transforms.
		fm := coordM.Invert()
		g.fx, g.fy = fm.TransformPoint(fxUser, fyUser)
	}

	return g, data.typ
}

// resolveCoord converts a gradient coordinate to the resolution space.
// In objectBoundingBox units plain numbers and percentages are both
// fractions of the box; in user space they pass through unit
// conversion.
func (p *parser) resolveCoord(c coord, orig, length float32, units gradientUnits) float32 {
	if units == objectBoundingBox {
		if c.units == unitPercent {
			return orig + c.value/100*length
		}
		return orig + c.value*length
	}
	return p.convertToPixels(c, orig, length)
}
