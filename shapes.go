package svg

// kappa90 scales a radius to the cubic control distance approximating
// a quarter circle.
const kappa90 = 0.5522847493

func (p *parser) coordOf(el *element, name string, length float32) float32 {
	return p.convertToPixels(parseCoordAttr(el, name), 0, length)
}

// rectPath emits a rectangle, rounded when rx/ry are present. An
// unspecified rx inherits ry and vice versa; radii clamp to half the
// side lengths. Zero-size rects produce no geometry.
func (p *parser) rectPath(el *element) {
	x := p.coordOf(el, "x", p.viewWidth())
	y := p.coordOf(el, "y", p.viewHeight())
	w := p.coordOf(el, "width", p.viewWidth())
	h := p.coordOf(el, "height", p.viewHeight())
	if w <= 0 || h <= 0 {
		return
	}

	rx := float32(-1)
	ry := float32(-1)
	if _, ok := el.attr("rx"); ok {
		rx = p.coordOf(el, "rx", p.viewWidth())
	}
	if _, ok := el.attr("ry"); ok {
		ry = p.coordOf(el, "ry", p.viewHeight())
	}
	if rx < 0 && ry >= 0 {
		rx = ry
	}
	if ry < 0 && rx >= 0 {
		ry = rx
	}
	rx = clampf(rx, 0, w/2)
	ry = clampf(ry, 0, h/2)

	xform := p.attr().xform
	b := &p.b
	if rx < 1e-5 || ry < 1e-5 {
		b.moveTo(x, y, xform)
		b.lineTo(x+w, y)
		b.lineTo(x+w, y+h)
		b.lineTo(x, y+h)
	} else {
		// Rounded rectangle with quarter-circle corners.
		kx := rx * (1 - kappa90)
		ky := ry * (1 - kappa90)
		b.moveTo(x+rx, y, xform)
		b.lineTo(x+w-rx, y)
		b.cubicTo(x+w-kx, y, x+w, y+ky, x+w, y+ry)
		b.lineTo(x+w, y+h-ry)
		b.cubicTo(x+w, y+h-ky, x+w-kx, y+h, x+w-rx, y+h)
		b.lineTo(x+rx, y+h)
		b.cubicTo(x+kx, y+h, x, y+h-ky, x, y+h-ry)
		b.lineTo(x, y+ry)
		b.cubicTo(x, y+ky, x+kx, y, x+rx, y)
	}
	b.flush(true, xform)
}

func (p *parser) circlePath(el *element) {
	r := p.coordOf(el, "r", p.viewLength())
	p.ellipseAt(el, r, r)
}

func (p *parser) ellipsePath(el *element) {
	rx := p.coordOf(el, "rx", p.viewWidth())
	ry := p.coordOf(el, "ry", p.viewHeight())
	p.ellipseAt(el, rx, ry)
}

func (p *parser) ellipseAt(el *element, rx, ry float32) {
	if rx <= 0 || ry <= 0 {
		return
	}
	cx := p.coordOf(el, "cx", p.viewWidth())
	cy := p.coordOf(el, "cy", p.viewHeight())

	xform := p.attr().xform
	b := &p.b
	b.moveTo(cx+rx, cy, xform)
	b.cubicTo(cx+rx, cy+ry*kappa90, cx+rx*kappa90, cy+ry, cx, cy+ry)
	b.cubicTo(cx-rx*kappa90, cy+ry, cx-rx, cy+ry*kappa90, cx-rx, cy)
	b.cubicTo(cx-rx, cy-ry*kappa90, cx-rx*kappa90, cy-ry, cx, cy-ry)
	b.cubicTo(cx+rx*kappa90, cy-ry, cx+rx, cy-ry*kappa90, cx+rx, cy)
	b.flush(true, xform)
}

func (p *parser) linePath(el *element) {
	x1 := p.coordOf(el, "x1", p.viewWidth())
	y1 := p.coordOf(el, "y1", p.viewHeight())
	x2 := p.coordOf(el, "x2", p.viewWidth())
	y2 := p.coordOf(el, "y2", p.viewHeight())
	if x1 == x2 && y1 == y2 {
		return
	}

	xform := p.attr().xform
	p.b.moveTo(x1, y1, xform)
	p.b.lineTo(x2, y2)
	p.b.flush(false, xform)
}

// polyPath handles polyline and polygon, which differ only in whether
// the outline closes.
func (p *parser) polyPath(el *element, closed bool) {
	pts, ok := el.attr("points")
	if !ok {
		return
	}
	vals := parseFloatList(pts)
	if len(vals) < 4 {
		return
	}

	xform := p.attr().xform
	b := &p.b
	b.moveTo(vals[0], vals[1], xform)
	for i := 3; i < len(vals); i += 2 {
		b.lineTo(vals[i-1], vals[i])
	}
	b.flush(closed, xform)
}
