package svg

import (
	"strconv"

	"github.com/chewxy/math32"
)

// pathParser evaluates the path `d` mini-language into a pathBuilder.
// Parsing is lenient: the first unparseable token truncates the rest of
// the attribute rather than failing the document.
type pathParser struct {
	b          *pathBuilder
	xform      Matrix
	cpx, cpy   float32 // current point
	cpx2, cpy2 float32 // reflection reference for S/T
	startx     float32 // subpath start, for Z
	starty     float32
}

func cmdArgCount(cmd byte) int {
	switch cmd {
	case 'v', 'V', 'h', 'H':
		return 1
	case 'm', 'M', 'l', 'L', 't', 'T':
		return 2
	case 'q', 'Q', 's', 'S':
		return 4
	case 'c', 'C':
		return 6
	case 'a', 'A':
		return 7
	}
	return 0
}

func isPathSep(c byte) bool {
	return c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r'
}

func isNumStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

// parsePathData parses a `d` attribute, leaving finished subpaths in
// the builder. The final (possibly open) subpath is flushed at the end.
func parsePathData(d string, b *pathBuilder, xform Matrix) {
	pp := &pathParser{b: b, xform: xform}
	var args [7]float32
	nargs := 0
	var cmd byte

	i := 0
	for i < len(d) {
		c := d[i]
		switch {
		case isPathSep(c):
			i++
		case isNumStart(c):
			if cmd == 0 {
				i = len(d) // number before any command, truncate
				break
			}
			v, next, ok := scanNumber(d, i)
			if !ok {
				i = len(d) // truncate on malformed token
				break
			}
			i = next
			args[nargs] = v
			nargs++
			if nargs == cmdArgCount(cmd) {
				pp.apply(cmd, args[:nargs])
				nargs = 0
				// Implicit repetition: extra coordinate sets reuse the
				// command, except moveto which continues as lineto.
				switch cmd {
				case 'M':
					cmd = 'L'
				case 'm':
					cmd = 'l'
				}
			}
		case c == 'z' || c == 'Z':
			pp.close()
			cmd = 0
			nargs = 0
			i++
		default:
			cmd = c
			nargs = 0
			if cmdArgCount(cmd) == 0 {
				cmd = 0 // unknown command, skip
			}
			i++
		}
	}
	b.flush(false, xform)
}

// scanNumber extracts one float token starting at i, handling signs,
// decimals and exponents. SVG packs numbers tightly ("1.5.5" is two
// tokens; "1-2" is two tokens), so scanning stops at the second dot or
// a sign that is not part of an exponent.
func scanNumber(s string, i int) (float32, int, bool) {
	j := i
	if j < len(s) && (s[j] == '-' || s[j] == '+') {
		j++
	}
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '-' || s[k] == '+') {
			k++
		}
		if k < len(s) && s[k] >= '0' && s[k] <= '9' {
			for k < len(s) && s[k] >= '0' && s[k] <= '9' {
				k++
			}
			j = k
		}
	}
	v, err := strconv.ParseFloat(s[i:j], 32)
	if err != nil {
		return 0, j, false
	}
	return float32(v), j, true
}

func (pp *pathParser) apply(cmd byte, args []float32) {
	rel := cmd >= 'a' && cmd <= 'z'
	switch cmd {
	case 'M', 'm':
		x, y := args[0], args[1]
		if rel {
			x += pp.cpx
			y += pp.cpy
		}
		pp.b.moveTo(x, y, pp.xform)
		pp.setCurrent(x, y)
		pp.startx, pp.starty = x, y
	case 'L', 'l':
		x, y := args[0], args[1]
		if rel {
			x += pp.cpx
			y += pp.cpy
		}
		pp.b.lineTo(x, y)
		pp.setCurrent(x, y)
	case 'H', 'h':
		x := args[0]
		if rel {
			x += pp.cpx
		}
		pp.b.lineTo(x, pp.cpy)
		pp.setCurrent(x, pp.cpy)
	case 'V', 'v':
		y := args[0]
		if rel {
			y += pp.cpy
		}
		pp.b.lineTo(pp.cpx, y)
		pp.setCurrent(pp.cpx, y)
	case 'C', 'c':
		c1x, c1y, c2x, c2y, x, y := args[0], args[1], args[2], args[3], args[4], args[5]
		if rel {
			c1x += pp.cpx
			c1y += pp.cpy
			c2x += pp.cpx
			c2y += pp.cpy
			x += pp.cpx
			y += pp.cpy
		}
		pp.b.cubicTo(c1x, c1y, c2x, c2y, x, y)
		pp.cpx2, pp.cpy2 = c2x, c2y
		pp.cpx, pp.cpy = x, y
	case 'S', 's':
		c2x, c2y, x, y := args[0], args[1], args[2], args[3]
		if rel {
			c2x += pp.cpx
			c2y += pp.cpy
			x += pp.cpx
			y += pp.cpy
		}
		// Reflect the previous control point across the current point.
		c1x := 2*pp.cpx - pp.cpx2
		c1y := 2*pp.cpy - pp.cpy2
		pp.b.cubicTo(c1x, c1y, c2x, c2y, x, y)
		pp.cpx2, pp.cpy2 = c2x, c2y
		pp.cpx, pp.cpy = x, y
	case 'Q', 'q':
		cx, cy, x, y := args[0], args[1], args[2], args[3]
		if rel {
			cx += pp.cpx
			cy += pp.cpy
			x += pp.cpx
			y += pp.cpy
		}
		pp.b.quadTo(cx, cy, x, y)
		pp.cpx2, pp.cpy2 = cx, cy
		pp.cpx, pp.cpy = x, y
	case 'T', 't':
		x, y := args[0], args[1]
		if rel {
			x += pp.cpx
			y += pp.cpy
		}
		cx := 2*pp.cpx - pp.cpx2
		cy := 2*pp.cpy - pp.cpy2
		pp.b.quadTo(cx, cy, x, y)
		pp.cpx2, pp.cpy2 = cx, cy
		pp.cpx, pp.cpy = x, y
	case 'A', 'a':
		x, y := args[5], args[6]
		if rel {
			x += pp.cpx
			y += pp.cpy
		}
		pp.arcTo(args[0], args[1], args[2], args[3] != 0, args[4] != 0, x, y)
		pp.setCurrent(x, y)
	}
}

// setCurrent updates the current point and collapses the reflection
// reference, which only survives across consecutive curve commands.
func (pp *pathParser) setCurrent(x, y float32) {
	pp.cpx, pp.cpy = x, y
	pp.cpx2, pp.cpy2 = x, y
}

func (pp *pathParser) close() {
	pp.b.flush(true, pp.xform)
	pp.setCurrent(pp.startx, pp.starty)
	// A command after Z without an intervening M continues from the
	// subpath start.
	pp.b.moveTo(pp.startx, pp.starty, pp.xform)
}

// arcTo converts an elliptical arc to cubic segments using the
// endpoint-to-center parameterization, splitting into arcs of at most
// 90 degrees each.
func (pp *pathParser) arcTo(rx, ry, rotDeg float32, largeArc, sweep bool, x2, y2 float32) {
	x1, y1 := pp.cpx, pp.cpy
	dx := x1 - x2
	dy := y1 - y2
	d := math32.Hypot(dx, dy)

	rx = math32.Abs(rx)
	ry = math32.Abs(ry)
	if d < 1e-6 || rx < 1e-6 || ry < 1e-6 {
		// Degenerate arc: a straight line.
		pp.b.lineTo(x2, y2)
		return
	}

	rot := rotDeg / 180 * math32.Pi
	sinr := math32.Sin(rot)
	cosr := math32.Cos(rot)

	// Convert to center point parameterization.
	x1p := cosr*dx/2 + sinr*dy/2
	y1p := -sinr*dx/2 + cosr*dy/2

	// Clamp radii that are too small for the chord.
	d = x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if d > 1 {
		d = math32.Sqrt(d)
		rx *= d
		ry *= d
	}

	var s float32
	sa := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	sb := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	if sa < 0 {
		sa = 0
	}
	if sb > 0 {
		s = math32.Sqrt(sa / sb)
	}
	if largeArc == sweep {
		s = -s
	}
	cxp := s * rx * y1p / ry
	cyp := s * -ry * x1p / rx
	cx := (x1+x2)/2 + cosr*cxp - sinr*cyp
	cy := (y1+y2)/2 + sinr*cxp + cosr*cyp

	// Start angle and sweep extent.
	ux := (x1p - cxp) / rx
	uy := (y1p - cyp) / ry
	vx := (-x1p - cxp) / rx
	vy := (-y1p - cyp) / ry
	a1 := vecAngle(1, 0, ux, uy)
	da := vecAngle(ux, uy, vx, vy)
	if !sweep && da > 0 {
		da -= 2 * math32.Pi
	}
	if sweep && da < 0 {
		da += 2 * math32.Pi
	}

	// Split into segments of at most 90 degrees. A quarter arc maps to
	// exactly one segment.
	ndivs := int(math32.Ceil(math32.Abs(da)/(math32.Pi/2) - 1e-5))
	if ndivs < 1 {
		ndivs = 1
	}
	delta := da / float32(ndivs)
	kappa := 4.0 / 3.0 * math32.Tan(delta/4)

	var px, py, ptx, pty float32
	for i := 0; i <= ndivs; i++ {
		a := a1 + delta*float32(i)
		cosa := math32.Cos(a)
		sina := math32.Sin(a)
		// Point on the rotated ellipse and the tangent there.
		ex := cosr*(cosa*rx) - sinr*(sina*ry) + cx
		ey := sinr*(cosa*rx) + cosr*(sina*ry) + cy
		tx := cosr*(-sina*rx) - sinr*(cosa*ry)
		ty := sinr*(-sina*rx) + cosr*(cosa*ry)
		if i > 0 {
			pp.b.cubicTo(px+kappa*ptx, py+kappa*pty, ex-kappa*tx, ey-kappa*ty, ex, ey)
		}
		px, py = ex, ey
		ptx, pty = tx, ty
	}
}

func vecAngle(ux, uy, vx, vy float32) float32 {
	r := (ux*vx + uy*vy) / (math32.Hypot(ux, uy) * math32.Hypot(vx, vy))
	r = clampf(r, -1, 1)
	a := math32.Acos(r)
	if ux*vy < uy*vx {
		return -a
	}
	return a
}
