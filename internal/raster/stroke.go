package raster

import "github.com/chewxy/math32"

// LineCap styles for stroke endpoints.
type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin styles for stroke corners.
type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// StrokeStyle bundles the stroke parameters for one shape. LineWidth
// is in device pixels; DashArray and DashOffset are in user units and
// scaled internally.
type StrokeStyle struct {
	LineWidth  float32
	MiterLimit float32
	Join       LineJoin
	Cap        LineCap
	DashArray  []float32
	DashOffset float32
}

func normalize(x, y *float32) float32 {
	d := math32.Sqrt(*x**x + *y**y)
	if d > 1e-6 {
		id := 1 / d
		*x *= id
		*y *= id
	}
	return d
}

// curveDivs returns the number of segments needed to approximate an
// arc of the given radius within tol.
func curveDivs(r, arc, tol float32) int {
	da := math32.Acos(r/(r+tol)) * 2
	divs := int(math32.Ceil(arc / da))
	if divs < 2 {
		divs = 2
	}
	return divs
}

// StrokePath flattens one cubic path and emits the stroke outline as
// fill edges. Dashing splits the polyline into open runs that are each
// stroked separately.
func (r *Rasterizer) StrokePath(pts []float32, closed bool, tx, ty, scale float32, style StrokeStyle) {
	if len(pts) < 2 {
		return
	}
	r.points = r.points[:0]
	r.addPoint(pts[0]*scale+tx, pts[1]*scale+ty, ptCorner)
	for i := 6; i < len(pts); i += 6 {
		r.flattenCubic(
			pts[i-6]*scale+tx, pts[i-5]*scale+ty,
			pts[i-4]*scale+tx, pts[i-3]*scale+ty,
			pts[i-2]*scale+tx, pts[i-1]*scale+ty,
			pts[i]*scale+tx, pts[i+1]*scale+ty,
			0, ptCorner)
	}
	if len(r.points) < 2 {
		return
	}

	// Coincident endpoints make the path closed regardless of the Z
	// command.
	last := r.points[len(r.points)-1]
	first := r.points[0]
	if math32.Abs(last.x-first.x) < distTol && math32.Abs(last.y-first.y) < distTol {
		r.points = r.points[:len(r.points)-1]
		closed = true
		if len(r.points) < 2 {
			return
		}
	}

	if len(style.DashArray) > 0 {
		r.strokeDashed(closed, scale, style)
		return
	}
	r.prepareStroke(style.MiterLimit, style.Join)
	r.expandStroke(r.points, closed, style)
}

func (r *Rasterizer) strokeDashed(closed bool, scale float32, style StrokeStyle) {
	if closed {
		r.points = append(r.points, r.points[0])
	}
	r.points2 = append(r.points2[:0], r.points...)

	var allDashLen float32
	for _, d := range style.DashArray {
		allDashLen += d
	}
	if len(style.DashArray)%2 == 1 {
		allDashLen *= 2
	}
	if allDashLen <= 0 {
		r.prepareStroke(style.MiterLimit, style.Join)
		r.expandStroke(r.points2, closed, style)
		return
	}

	idash := 0
	dashOffset := math32.Mod(style.DashOffset, allDashLen)
	if dashOffset < 0 {
		dashOffset += allDashLen
	}
	for dashOffset > style.DashArray[idash] {
		dashOffset -= style.DashArray[idash]
		idash = (idash + 1) % len(style.DashArray)
	}
	dashLen := (style.DashArray[idash] - dashOffset) * scale

	dashOn := true
	var totalDist float32
	cur := r.points2[0]
	r.points = append(r.points[:0], cur)

	dashStyle := style
	dashStyle.DashArray = nil

	for j := 1; j < len(r.points2); {
		dx := r.points2[j].x - cur.x
		dy := r.points2[j].y - cur.y
		dist := math32.Sqrt(dx*dx + dy*dy)

		if totalDist+dist > dashLen {
			d := (dashLen - totalDist) / dist
			x := cur.x + dx*d
			y := cur.y + dy*d
			r.points = append(r.points, point{x: x, y: y, flags: ptCorner})

			if len(r.points) > 1 && dashOn {
				r.prepareStroke(style.MiterLimit, style.Join)
				r.expandStroke(r.points, false, dashStyle)
			}
			dashOn = !dashOn
			idash = (idash + 1) % len(style.DashArray)
			dashLen = style.DashArray[idash] * scale
			cur = point{x: x, y: y, flags: ptCorner}
			totalDist = 0
			r.points = append(r.points[:0], cur)
		} else {
			totalDist += dist
			cur = r.points2[j]
			r.points = append(r.points, cur)
			j++
		}
	}
	if len(r.points) > 1 && dashOn {
		r.prepareStroke(style.MiterLimit, style.Join)
		r.expandStroke(r.points, false, dashStyle)
	}
}

// prepareStroke computes per-point segment directions and miter
// extrusion vectors, and classifies corners as left turns or bevels.
func (r *Rasterizer) prepareStroke(miterLimit float32, join LineJoin) {
	pts := r.points
	n := len(pts)

	p0 := &pts[n-1]
	for i := 0; i < n; i++ {
		p1 := &pts[i]
		p0.dx = p1.x - p0.x
		p0.dy = p1.y - p0.y
		p0.len = normalize(&p0.dx, &p0.dy)
		p0 = p1
	}

	p0 = &pts[n-1]
	for i := 0; i < n; i++ {
		p1 := &pts[i]
		dlx0, dly0 := p0.dy, -p0.dx
		dlx1, dly1 := p1.dy, -p1.dx

		p1.dmx = (dlx0 + dlx1) * 0.5
		p1.dmy = (dly0 + dly1) * 0.5
		dmr2 := p1.dmx*p1.dmx + p1.dmy*p1.dmy
		if dmr2 > 1e-6 {
			s2 := 1 / dmr2
			if s2 > 600 {
				s2 = 600
			}
			p1.dmx *= s2
			p1.dmy *= s2
		}

		p1.flags &= ptCorner

		cross := p1.dx*p0.dy - p0.dx*p1.dy
		if cross > 0 {
			p1.flags |= ptLeft
		}

		if p1.flags&ptCorner != 0 {
			if dmr2*miterLimit*miterLimit < 1 || join != JoinMiter {
				p1.flags |= ptBevel
			}
		}
		p0 = p1
	}
}

func (r *Rasterizer) expandStroke(pts []point, closed bool, style StrokeStyle) {
	w := style.LineWidth * 0.5
	ncap := curveDivs(w, math32.Pi, tessTol)

	var left, right, firstLeft, firstRight point
	var p0, p1 *point
	var s, e int

	n := len(pts)
	if closed {
		p0 = &pts[n-1]
		p1 = &pts[0]
		s = 0
		e = n
	} else {
		p0 = &pts[0]
		p1 = &pts[1]
		s = 1
		e = n - 1
	}

	if closed {
		initClosed(&left, &right, p0, p1, style.LineWidth)
		firstLeft = left
		firstRight = right
	} else {
		dx := p1.x - p0.x
		dy := p1.y - p0.y
		normalize(&dx, &dy)
		switch style.Cap {
		case CapButt:
			r.buttCap(&left, &right, p0, dx, dy, style.LineWidth, false)
		case CapSquare:
			r.squareCap(&left, &right, p0, dx, dy, style.LineWidth, false)
		case CapRound:
			r.roundCap(&left, &right, p0, dx, dy, style.LineWidth, ncap, false)
		}
	}

	for j := s; j < e; j++ {
		if p1.flags&ptCorner != 0 {
			switch {
			case style.Join == JoinRound:
				r.roundJoin(&left, &right, p0, p1, style.LineWidth, ncap)
			case style.Join == JoinBevel || p1.flags&ptBevel != 0:
				r.bevelJoin(&left, &right, p0, p1, style.LineWidth)
			default:
				r.miterJoin(&left, &right, p0, p1, style.LineWidth)
			}
		} else {
			r.straightJoin(&left, &right, p1, style.LineWidth)
		}
		p0 = p1
		if j+1 < n {
			p1 = &pts[j+1]
		}
	}

	if closed {
		r.addEdge(firstLeft.x, firstLeft.y, left.x, left.y)
		r.addEdge(right.x, right.y, firstRight.x, firstRight.y)
	} else {
		dx := p1.x - p0.x
		dy := p1.y - p0.y
		normalize(&dx, &dy)
		switch style.Cap {
		case CapButt:
			r.buttCap(&right, &left, p1, -dx, -dy, style.LineWidth, true)
		case CapSquare:
			r.squareCap(&right, &left, p1, -dx, -dy, style.LineWidth, true)
		case CapRound:
			r.roundCap(&right, &left, p1, -dx, -dy, style.LineWidth, ncap, true)
		}
	}
}

func initClosed(left, right, p0, p1 *point, lineWidth float32) {
	w := lineWidth * 0.5
	dx := p1.x - p0.x
	dy := p1.y - p0.y
	l := normalize(&dx, &dy)
	px := p0.x + dx*l*0.5
	py := p0.y + dy*l*0.5
	dlx, dly := dy, -dx
	left.x = px - dlx*w
	left.y = py - dly*w
	right.x = px + dlx*w
	right.y = py + dly*w
}

func (r *Rasterizer) buttCap(left, right, p *point, dx, dy, lineWidth float32, connect bool) {
	w := lineWidth * 0.5
	dlx, dly := dy, -dx
	lx := p.x - dlx*w
	ly := p.y - dly*w
	rx := p.x + dlx*w
	ry := p.y + dly*w

	r.addEdge(lx, ly, rx, ry)
	if connect {
		r.addEdge(left.x, left.y, lx, ly)
		r.addEdge(rx, ry, right.x, right.y)
	}
	left.x, left.y = lx, ly
	right.x, right.y = rx, ry
}

func (r *Rasterizer) squareCap(left, right, p *point, dx, dy, lineWidth float32, connect bool) {
	w := lineWidth * 0.5
	px := p.x - dx*w
	py := p.y - dy*w
	dlx, dly := dy, -dx
	lx := px - dlx*w
	ly := py - dly*w
	rx := px + dlx*w
	ry := py + dly*w

	r.addEdge(lx, ly, rx, ry)
	if connect {
		r.addEdge(left.x, left.y, lx, ly)
		r.addEdge(rx, ry, right.x, right.y)
	}
	left.x, left.y = lx, ly
	right.x, right.y = rx, ry
}

func (r *Rasterizer) roundCap(left, right, p *point, dx, dy, lineWidth float32, ncap int, connect bool) {
	w := lineWidth * 0.5
	dlx, dly := dy, -dx
	var lx, ly, rx, ry, prevx, prevy float32

	for i := 0; i < ncap; i++ {
		a := float32(i) / float32(ncap-1) * math32.Pi
		ax := math32.Cos(a) * w
		ay := math32.Sin(a) * w
		x := p.x - dlx*ax - dx*ay
		y := p.y - dly*ax - dy*ay

		if i > 0 {
			r.addEdge(prevx, prevy, x, y)
		}
		prevx, prevy = x, y

		if i == 0 {
			lx, ly = x, y
		} else if i == ncap-1 {
			rx, ry = x, y
		}
	}
	if connect {
		r.addEdge(left.x, left.y, lx, ly)
		r.addEdge(rx, ry, right.x, right.y)
	}
	left.x, left.y = lx, ly
	right.x, right.y = rx, ry
}

func (r *Rasterizer) miterJoin(left, right, p0, p1 *point, lineWidth float32) {
	w := lineWidth * 0.5
	dlx0, dly0 := p0.dy, -p0.dx
	dlx1, dly1 := p1.dy, -p1.dx
	var lx1, ly1, rx1, ry1 float32

	if p1.flags&ptLeft != 0 {
		lx1 = p1.x - p1.dmx*w
		ly1 = p1.y - p1.dmy*w
		r.addEdge(lx1, ly1, left.x, left.y)

		rx0 := p1.x + dlx0*w
		ry0 := p1.y + dly0*w
		rx1 = p1.x + dlx1*w
		ry1 = p1.y + dly1*w
		r.addEdge(right.x, right.y, rx0, ry0)
		r.addEdge(rx0, ry0, rx1, ry1)
	} else {
		lx0 := p1.x - dlx0*w
		ly0 := p1.y - dly0*w
		lx1 = p1.x - dlx1*w
		ly1 = p1.y - dly1*w
		r.addEdge(lx0, ly0, left.x, left.y)
		r.addEdge(lx1, ly1, lx0, ly0)

		rx1 = p1.x + p1.dmx*w
		ry1 = p1.y + p1.dmy*w
		r.addEdge(right.x, right.y, rx1, ry1)
	}

	left.x, left.y = lx1, ly1
	right.x, right.y = rx1, ry1
}

func (r *Rasterizer) bevelJoin(left, right, p0, p1 *point, lineWidth float32) {
	w := lineWidth * 0.5
	dlx0, dly0 := p0.dy, -p0.dx
	dlx1, dly1 := p1.dy, -p1.dx
	lx0 := p1.x - dlx0*w
	ly0 := p1.y - dly0*w
	rx0 := p1.x + dlx0*w
	ry0 := p1.y + dly0*w
	lx1 := p1.x - dlx1*w
	ly1 := p1.y - dly1*w
	rx1 := p1.x + dlx1*w
	ry1 := p1.y + dly1*w

	r.addEdge(lx0, ly0, left.x, left.y)
	r.addEdge(lx1, ly1, lx0, ly0)

	r.addEdge(right.x, right.y, rx0, ry0)
	r.addEdge(rx0, ry0, rx1, ry1)

	left.x, left.y = lx1, ly1
	right.x, right.y = rx1, ry1
}

func (r *Rasterizer) straightJoin(left, right, p1 *point, lineWidth float32) {
	w := lineWidth * 0.5
	lx := p1.x - p1.dmx*w
	ly := p1.y - p1.dmy*w
	rx := p1.x + p1.dmx*w
	ry := p1.y + p1.dmy*w

	r.addEdge(lx, ly, left.x, left.y)
	r.addEdge(right.x, right.y, rx, ry)

	left.x, left.y = lx, ly
	right.x, right.y = rx, ry
}

func (r *Rasterizer) roundJoin(left, right, p0, p1 *point, lineWidth float32, ncap int) {
	w := lineWidth * 0.5
	dlx0, dly0 := p0.dy, -p0.dx
	dlx1, dly1 := p1.dy, -p1.dx
	a0 := math32.Atan2(dly0, dlx0)
	a1 := math32.Atan2(dly1, dlx1)
	da := a1 - a0
	if da < -math32.Pi {
		da += math32.Pi * 2
	}
	if da > math32.Pi {
		da -= math32.Pi * 2
	}

	n := int(math32.Ceil(math32.Abs(da) / math32.Pi * float32(ncap)))
	if n < 2 {
		n = 2
	}
	if n > ncap {
		n = ncap
	}

	lx, ly := left.x, left.y
	rx, ry := right.x, right.y

	for i := 0; i < n; i++ {
		u := float32(i) / float32(n-1)
		a := a0 + u*da
		ax := math32.Cos(a) * w
		ay := math32.Sin(a) * w
		lx1 := p1.x - ax
		ly1 := p1.y - ay
		rx1 := p1.x + ax
		ry1 := p1.y + ay

		r.addEdge(lx1, ly1, lx, ly)
		r.addEdge(rx, ry, rx1, ry1)

		lx, ly = lx1, ly1
		rx, ry = rx1, ry1
	}

	left.x, left.y = lx, ly
	right.x, right.y = rx, ry
}
