package svg

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chewxy/math32"
)

// ParseFile reads and parses an SVG document from a file. The units
// string selects the output unit for image dimensions (one of px, pt,
// pc, mm, cm, in) and dpi sets the conversion factor for physical
// units.
func ParseFile(path string, units string, dpi float32) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()
	return ParseReader(f, units, dpi)
}

// Parse parses an SVG document from an in-memory buffer. The parser
// never mutates the caller's slice.
func Parse(data []byte, units string, dpi float32) (*Image, error) {
	return ParseReader(bytes.NewReader(data), units, dpi)
}

// ParseReader parses an SVG document from a reader. On failure the
// returned image is nil; it is never partially populated.
func ParseReader(r io.Reader, units string, dpi float32) (*Image, error) {
	root, err := parseElementTree(r)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 96
	}

	p := &parser{
		image:     &Image{},
		root:      root,
		dpi:       dpi,
		gradients: map[string]*gradientData{},
	}
	p.attrStack = append(p.attrStack, defaultAttrib())

	p.parseSVGElement(root)
	p.collectGradients(root)
	for _, c := range root.children {
		p.walkNode(c, 0)
	}
	p.resolvePaintRefs()
	p.scaleToViewbox(units)
	return p.image, nil
}

// maxUseDepth bounds use-element recursion; reference cycles terminate
// here instead of recursing forever.
const maxUseDepth = 10

// attrib is one level of the style/transform inheritance stack.
type attrib struct {
	id               string
	xform            Matrix
	color            uint32 // resolved value for currentColor
	fillColor        uint32
	strokeColor      uint32
	opacity          float32
	fillOpacity      float32
	strokeOpacity    float32
	fillGradient     string
	strokeGradient   string
	strokeWidth      float32
	strokeDashOffset float32
	strokeDashArray  [maxDashes]float32
	strokeDashCount  int
	strokeLineJoin   LineJoin
	strokeLineCap    LineCap
	miterLimit       float32
	fillRule         FillRule
	paintOrder       uint8
	fontSize         float32
	hasFill          paintState
	hasStroke        paintState
	visible          bool
}

// paintState tracks how a fill/stroke attribute was specified.
type paintState uint8

const (
	paintOff      paintState = iota // none
	paintSolid                      // explicit or inherited color
	paintGradient                   // url(#...) reference
)

func defaultAttrib() attrib {
	return attrib{
		xform:         Identity(),
		color:         rgb(0, 0, 0),
		fillColor:     rgb(0, 0, 0),
		strokeColor:   rgb(0, 0, 0),
		opacity:       1,
		fillOpacity:   1,
		strokeOpacity: 1,
		strokeWidth:   1,
		miterLimit:    4,
		fontSize:      12,
		paintOrder:    defaultPaintOrder,
		hasFill:       paintSolid,
		hasStroke:     paintOff,
		visible:       true,
	}
}

type parser struct {
	image     *Image
	root      *element
	attrStack []attrib
	b         pathBuilder
	gradients map[string]*gradientData
	dpi       float32

	viewMinX, viewMinY float32
	viewW, viewH       float32
	alignX, alignY     alignKind
	alignType          alignType
}

type alignKind uint8

const (
	alignMid alignKind = iota
	alignMin
	alignMax
)

type alignType uint8

const (
	alignMeet alignType = iota
	alignSlice
	alignNone
)

func (p *parser) attr() *attrib { return &p.attrStack[len(p.attrStack)-1] }

func (p *parser) pushAttr() {
	p.attrStack = append(p.attrStack, *p.attr())
}

func (p *parser) popAttr() {
	p.attrStack = p.attrStack[:len(p.attrStack)-1]
}

// viewWidth returns the horizontal reference length for percentage
// resolution.
func (p *parser) viewWidth() float32 {
	if p.viewW > 0 {
		return p.viewW
	}
	return p.image.width
}

func (p *parser) viewHeight() float32 {
	if p.viewH > 0 {
		return p.viewH
	}
	return p.image.height
}

// viewLength is the diagonal reference length used for lengths with no
// natural axis, per the SVG specification.
func (p *parser) viewLength() float32 {
	w := p.viewWidth()
	h := p.viewHeight()
	return math32.Sqrt(w*w+h*h) / math32.Sqrt2
}

// parseSVGElement reads the document dimensions off the root element.
func (p *parser) parseSVGElement(el *element) {
	for _, a := range el.attrs {
		switch a.Name.Local {
		case "width":
			p.image.width = p.convertToPixels(parseCoord(a.Value), 0, 0)
		case "height":
			p.image.height = p.convertToPixels(parseCoord(a.Value), 0, 0)
		case "viewBox":
			vals := parseFloatList(a.Value)
			if len(vals) == 4 {
				p.viewMinX, p.viewMinY = vals[0], vals[1]
				p.viewW, p.viewH = vals[2], vals[3]
			}
		case "preserveAspectRatio":
			p.parsePreserveAspectRatio(a.Value)
		}
	}
}

func (p *parser) parsePreserveAspectRatio(v string) {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "none") {
		p.alignType = alignNone
		return
	}
	if strings.Contains(v, "xMin") {
		p.alignX = alignMin
	}
	if strings.Contains(v, "xMax") {
		p.alignX = alignMax
	}
	if strings.Contains(v, "YMin") {
		p.alignY = alignMin
	}
	if strings.Contains(v, "YMax") {
		p.alignY = alignMax
	}
	if strings.Contains(v, "slice") {
		p.alignType = alignSlice
	}
}

// walkNode traverses the markup in document order, maintaining the
// scoped style/transform stack.
func (p *parser) walkNode(el *element, useDepth int) {
	switch el.name {
	case "g":
		p.pushAttr()
		p.applyAttribs(el)
		for _, c := range el.children {
			p.walkNode(c, useDepth)
		}
		p.popAttr()
	case "path":
		p.pushAttr()
		p.applyAttribs(el)
		if d, ok := el.attr("d"); ok {
			p.b.reset()
			parsePathData(d, &p.b, p.attr().xform)
			p.addShape()
		}
		p.popAttr()
	case "rect":
		p.shapeElement(el, p.rectPath)
	case "circle":
		p.shapeElement(el, p.circlePath)
	case "ellipse":
		p.shapeElement(el, p.ellipsePath)
	case "line":
		p.shapeElement(el, p.linePath)
	case "polyline":
		p.shapeElement(el, func(e *element) { p.polyPath(e, false) })
	case "polygon":
		p.shapeElement(el, func(e *element) { p.polyPath(e, true) })
	case "use":
		p.useElement(el, useDepth)
	case "symbol":
		// Symbols render only when instantiated through use.
		if useDepth > 0 {
			p.pushAttr()
			p.applyAttribs(el)
			for _, c := range el.children {
				p.walkNode(c, useDepth)
			}
			p.popAttr()
		}
	case "defs", "linearGradient", "radialGradient", "style", "title", "desc", "metadata":
		// Definitions and metadata produce no geometry of their own.
	default:
		logger().Debug("svg: skipping unsupported element", "name", el.name)
	}
}

// shapeElement runs one geometry primitive under a fresh attribute
// scope and emits the resulting shape.
func (p *parser) shapeElement(el *element, build func(*element)) {
	p.pushAttr()
	p.applyAttribs(el)
	p.b.reset()
	build(el)
	p.addShape()
	p.popAttr()
}

func (p *parser) useElement(el *element, useDepth int) {
	if useDepth >= maxUseDepth {
		logger().Debug("svg: use recursion limit reached", "id", p.attr().id)
		return
	}
	href, ok := el.attr("href")
	if !ok || !strings.HasPrefix(href, "#") {
		return
	}
	target := p.root.findByID(href[1:])
	if target == nil || target == el {
		logger().Debug("svg: unresolved use reference", "href", href)
		return
	}
	p.pushAttr()
	p.applyAttribs(el)
	a := p.attr()
	x := p.convertToPixels(parseCoordAttr(el, "x"), 0, p.viewWidth())
	y := p.convertToPixels(parseCoordAttr(el, "y"), 0, p.viewHeight())
	if x != 0 || y != 0 {
		a.xform = a.xform.Multiply(Translate(x, y))
	}
	p.walkNode(target, useDepth+1)
	p.popAttr()
}

func parseCoordAttr(el *element, name string) coord {
	if v, ok := el.attr(name); ok {
		return parseCoord(v)
	}
	return coord{}
}

// applyAttribs folds an element's presentation attributes and inline
// style into the current scope.
func (p *parser) applyAttribs(el *element) {
	for _, a := range el.attrs {
		p.applyAttrib(a.Name.Local, a.Value)
	}
}

func (p *parser) applyAttrib(name, value string) {
	a := p.attr()
	switch name {
	case "style":
		for decl := range strings.SplitSeq(value, ";") {
			k, v, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			p.applyAttrib(strings.TrimSpace(k), strings.TrimSpace(v))
		}
	case "id":
		a.id = value
	case "transform":
		a.xform = a.xform.Multiply(parseTransformList(value))
	case "display":
		if strings.TrimSpace(value) == "none" {
			a.visible = false
		}
	case "visibility":
		switch strings.TrimSpace(value) {
		case "hidden", "collapse":
			a.visible = false
		case "visible":
			a.visible = true
		}
	case "color":
		a.color = parseColorValue(value)
	case "fill":
		p.applyPaintAttrib(value, &a.hasFill, &a.fillColor, &a.fillGradient)
	case "stroke":
		p.applyPaintAttrib(value, &a.hasStroke, &a.strokeColor, &a.strokeGradient)
	case "opacity":
		// Group opacity multiplies down the tree.
		a.opacity *= parseOpacityValue(value)
	case "fill-opacity":
		a.fillOpacity = parseOpacityValue(value)
	case "stroke-opacity":
		a.strokeOpacity = parseOpacityValue(value)
	case "fill-rule":
		switch strings.TrimSpace(value) {
		case "evenodd":
			a.fillRule = FillRuleEvenOdd
		case "nonzero":
			a.fillRule = FillRuleNonZero
		}
	case "stroke-width":
		a.strokeWidth = p.convertToPixels(parseCoord(value), 0, p.viewLength())
	case "stroke-dasharray":
		p.applyDashArray(value)
	case "stroke-dashoffset":
		a.strokeDashOffset = p.convertToPixels(parseCoord(value), 0, p.viewLength())
	case "stroke-linecap":
		switch strings.TrimSpace(value) {
		case "butt":
			a.strokeLineCap = LineCapButt
		case "round":
			a.strokeLineCap = LineCapRound
		case "square":
			a.strokeLineCap = LineCapSquare
		}
	case "stroke-linejoin":
		switch strings.TrimSpace(value) {
		case "miter":
			a.strokeLineJoin = LineJoinMiter
		case "round":
			a.strokeLineJoin = LineJoinRound
		case "bevel":
			a.strokeLineJoin = LineJoinBevel
		}
	case "stroke-miterlimit":
		a.miterLimit = parseFloatValue(value)
	case "paint-order":
		a.paintOrder = parsePaintOrder(value)
	case "font-size":
		a.fontSize = p.convertToPixels(parseCoord(value), 0, p.viewLength())
	}
}

// applyPaintAttrib handles the shared fill/stroke value syntax.
func (p *parser) applyPaintAttrib(value string, state *paintState, color *uint32, gradientID *string) {
	v := strings.TrimSpace(value)
	switch {
	case v == "none":
		*state = paintOff
	case strings.HasPrefix(v, "url("):
		*state = paintGradient
		*gradientID = parseURLRef(v)
		// A color after the reference is the fallback when the
		// reference does not resolve.
		if end := strings.IndexByte(v, ')'); end >= 0 {
			if rest := strings.TrimSpace(v[end+1:]); rest != "" && rest != "none" {
				*color = parseColorValue(rest)
			}
		}
	case v == "currentColor":
		*state = paintSolid
		*color = p.attr().color
	default:
		*state = paintSolid
		*color = parseColorValue(v)
	}
}

// parseURLRef extracts the fragment id from url(#id).
func parseURLRef(v string) string {
	open := strings.IndexByte(v, '(')
	end := strings.IndexByte(v, ')')
	if open < 0 || end <= open {
		return ""
	}
	ref := strings.TrimSpace(v[open+1 : end])
	ref = strings.Trim(ref, "'\"")
	return strings.TrimPrefix(ref, "#")
}

func (p *parser) applyDashArray(value string) {
	a := p.attr()
	if strings.TrimSpace(value) == "none" {
		a.strokeDashCount = 0
		return
	}
	a.strokeDashCount = 0
	sum := float32(0)
	for item := range strings.FieldsFuncSeq(value, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	}) {
		if a.strokeDashCount >= maxDashes {
			break
		}
		d := math32.Abs(p.convertToPixels(parseCoord(item), 0, p.viewLength()))
		a.strokeDashArray[a.strokeDashCount] = d
		a.strokeDashCount++
		sum += d
	}
	if sum <= 1e-6 {
		a.strokeDashCount = 0
	}
}

// parsePaintOrder decodes the paint-order attribute into the packed
// 2-bit representation. Unnamed layers follow in default order.
func parsePaintOrder(value string) uint8 {
	if strings.TrimSpace(value) == "normal" {
		return defaultPaintOrder
	}
	var layers [3]PaintLayer
	seen := [3]bool{}
	n := 0
	for f := range strings.FieldsSeq(value) {
		var l PaintLayer
		switch f {
		case "fill":
			l = LayerFill
		case "stroke":
			l = LayerStroke
		case "markers":
			l = LayerMarkers
		default:
			continue
		}
		if n < 3 && !seen[l] {
			layers[n] = l
			seen[l] = true
			n++
		}
	}
	for _, l := range [3]PaintLayer{LayerFill, LayerStroke, LayerMarkers} {
		if n < 3 && !seen[l] {
			layers[n] = l
			n++
		}
	}
	return packPaintOrder(layers)
}

// parseTransformList parses a transform attribute, composing the
// operations left to right into a single affine matrix.
func parseTransformList(s string) Matrix {
	m := Identity()
	i := 0
	for i < len(s) {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			i++
			continue
		}
		j := i
		for j < len(s) && (s[j] >= 'a' && s[j] <= 'z' || s[j] >= 'A' && s[j] <= 'Z') {
			j++
		}
		name := s[i:j]
		open := strings.IndexByte(s[j:], '(')
		if open < 0 {
			break
		}
		cls := strings.IndexByte(s[j+open:], ')')
		if cls < 0 {
			break
		}
		args := parseFloatList(s[j+open+1 : j+open+cls])
		i = j + open + cls + 1

		op, ok := transformOp(name, args)
		if !ok {
			continue
		}
		m = m.Multiply(op)
	}
	return m
}

func transformOp(name string, a []float32) (Matrix, bool) {
	switch name {
	case "matrix":
		if len(a) != 6 {
			return Matrix{}, false
		}
		// SVG order is a b c d e f, column major.
		return Matrix{A: a[0], B: a[2], C: a[4], D: a[1], E: a[3], F: a[5]}, true
	case "translate":
		switch len(a) {
		case 1:
			return Translate(a[0], 0), true
		case 2:
			return Translate(a[0], a[1]), true
		}
	case "scale":
		switch len(a) {
		case 1:
			return Scale(a[0], a[0]), true
		case 2:
			return Scale(a[0], a[1]), true
		}
	case "rotate":
		switch len(a) {
		case 1:
			return Rotate(a[0] / 180 * math32.Pi), true
		case 3:
			return Translate(a[1], a[2]).
				Multiply(Rotate(a[0] / 180 * math32.Pi)).
				Multiply(Translate(-a[1], -a[2])), true
		}
	case "skewX":
		if len(a) == 1 {
			return SkewX(a[0] / 180 * math32.Pi), true
		}
	case "skewY":
		if len(a) == 1 {
			return SkewY(a[0] / 180 * math32.Pi), true
		}
	}
	return Matrix{}, false
}

// parseFloatList parses a whitespace/comma separated number list,
// truncating at the first malformed token.
func parseFloatList(s string) []float32 {
	var out []float32
	i := 0
	for i < len(s) {
		if isPathSep(s[i]) {
			i++
			continue
		}
		v, next, ok := scanNumber(s, i)
		if !ok {
			break
		}
		out = append(out, v)
		i = next
	}
	return out
}

// collectGradients records every gradient definition in the tree, so
// both forward and backward paint references resolve.
func (p *parser) collectGradients(el *element) {
	switch el.name {
	case "linearGradient":
		p.recordGradient(el, PaintLinearGradient)
	case "radialGradient":
		p.recordGradient(el, PaintRadialGradient)
	}
	for _, c := range el.children {
		p.collectGradients(c)
	}
}

func (p *parser) recordGradient(el *element, typ PaintType) {
	data := newGradientData(typ)
	for _, a := range el.attrs {
		switch a.Name.Local {
		case "id":
			data.id = a.Value
		case "href":
			data.href = strings.TrimPrefix(strings.TrimSpace(a.Value), "#")
		case "gradientUnits":
			if strings.TrimSpace(a.Value) == "userSpaceOnUse" {
				data.units = userSpaceOnUse
			}
		case "gradientTransform":
			data.xform = parseTransformList(a.Value)
		case "spreadMethod":
			switch strings.TrimSpace(a.Value) {
			case "reflect":
				data.spread = SpreadReflect
			case "repeat":
				data.spread = SpreadRepeat
			}
		case "x1":
			data.x1 = parseCoord(a.Value)
		case "y1":
			data.y1 = parseCoord(a.Value)
		case "x2":
			data.x2 = parseCoord(a.Value)
		case "y2":
			data.y2 = parseCoord(a.Value)
		case "cx":
			data.cx = parseCoord(a.Value)
		case "cy":
			data.cy = parseCoord(a.Value)
		case "r":
			data.r = parseCoord(a.Value)
		case "fx":
			data.fx = parseCoord(a.Value)
			data.hasFX = true
		case "fy":
			data.fy = parseCoord(a.Value)
			data.hasFY = true
		}
	}
	for _, c := range el.children {
		if c.name != "stop" {
			continue
		}
		data.stops = append(data.stops, parseStop(c))
	}
	if data.id != "" {
		p.gradients[data.id] = data
	}
}

func parseStop(el *element) GradientStop {
	stop := GradientStop{Color: rgb(0, 0, 0)}
	opacity := float32(1)
	var apply func(name, value string)
	apply = func(name, value string) {
		switch name {
		case "offset":
			c := parseCoord(value)
			if c.units == unitPercent {
				stop.Offset = c.value / 100
			} else {
				stop.Offset = c.value
			}
		case "stop-color":
			stop.Color = parseColorValue(value)
		case "stop-opacity":
			opacity = parseOpacityValue(value)
		case "style":
			for decl := range strings.SplitSeq(value, ";") {
				if k, v, ok := strings.Cut(decl, ":"); ok {
					apply(strings.TrimSpace(k), strings.TrimSpace(v))
				}
			}
		}
	}
	for _, a := range el.attrs {
		apply(a.Name.Local, a.Value)
	}
	stop.Offset = clampf(stop.Offset, 0, 1)
	stop.Color = applyOpacity(stop.Color, opacity)
	return stop
}

// addShape turns the builder's finished paths plus the current
// attribute scope into a Shape. Degenerate shapes with no geometry are
// dropped entirely.
func (p *parser) addShape() {
	if len(p.b.paths) == 0 {
		return
	}
	a := p.attr()
	scale := a.xform.AverageScale()

	s := &Shape{
		id:               a.id,
		opacity:          clampf(a.opacity, 0, 1),
		strokeWidth:      a.strokeWidth * scale,
		strokeDashOffset: a.strokeDashOffset * scale,
		strokeDashCount:  a.strokeDashCount,
		strokeLineJoin:   a.strokeLineJoin,
		strokeLineCap:    a.strokeLineCap,
		miterLimit:       a.miterLimit,
		fillRule:         a.fillRule,
		paintOrder:       a.paintOrder,
		xform:            a.xform,
		paths:            append([]*Path(nil), p.b.paths...),
	}
	for i := 0; i < a.strokeDashCount; i++ {
		s.strokeDashArray[i] = a.strokeDashArray[i] * scale
	}
	if a.visible && s.opacity > 0 {
		s.flags |= shapeFlagVisible
	}

	s.bounds = s.paths[0].bounds
	s.localBounds = s.paths[0].localBounds
	for _, path := range s.paths[1:] {
		s.bounds = s.bounds.union(path.bounds)
		s.localBounds = s.localBounds.union(path.localBounds)
	}

	switch a.hasFill {
	case paintOff:
		s.fill = Paint{typ: PaintNone}
	case paintSolid:
		s.fill = Paint{typ: PaintColor, color: applyOpacity(a.fillColor, a.fillOpacity)}
	case paintGradient:
		// Resolved in a post-pass; until then the paint carries the
		// fallback color used when the reference is broken.
		s.fill = Paint{typ: PaintColor, color: applyOpacity(a.fillColor, a.fillOpacity)}
		s.fillGradientID = a.fillGradient
	}
	switch {
	case a.hasStroke == paintOff || s.strokeWidth <= 0:
		s.stroke = Paint{typ: PaintNone}
	case a.hasStroke == paintSolid:
		s.stroke = Paint{typ: PaintColor, color: applyOpacity(a.strokeColor, a.strokeOpacity)}
	default:
		s.stroke = Paint{typ: PaintColor, color: applyOpacity(a.strokeColor, a.strokeOpacity)}
		s.strokeGradientID = a.strokeGradient
	}

	p.image.shapes = append(p.image.shapes, s)
}

// resolvePaintRefs binds gradient references now that every definition
// has been parsed. Unresolvable references keep their solid fallback.
func (p *parser) resolvePaintRefs() {
	for _, s := range p.image.shapes {
		if s.fillGradientID != "" {
			if g, typ := p.resolveGradient(s.fillGradientID, s); g != nil {
				opacity := float32(s.fill.color>>24&0xff) / 255
				s.fill = Paint{typ: typ, gradient: scaleGradientAlpha(g, opacity)}
			}
		}
		if s.strokeGradientID != "" {
			if g, typ := p.resolveGradient(s.strokeGradientID, s); g != nil {
				opacity := float32(s.stroke.color>>24&0xff) / 255
				s.stroke = Paint{typ: typ, gradient: scaleGradientAlpha(g, opacity)}
			}
		}
	}
}

// scaleGradientAlpha folds fill-opacity/stroke-opacity into the stop
// colors of a resolved gradient.
func scaleGradientAlpha(g *Gradient, opacity float32) *Gradient {
	if opacity >= 1 {
		return g
	}
	for i := range g.stops {
		g.stops[i].Color = applyOpacity(g.stops[i].Color, opacity)
	}
	return g
}

// scaleToViewbox maps document space to the output viewport and
// converts image dimensions into the requested unit.
func (p *parser) scaleToViewbox(units string) {
	img := p.image

	if p.viewW == 0 {
		if img.width > 0 {
			p.viewW = img.width
		} else if b, ok := img.Bounds(); ok {
			p.viewMinX = b.MinX
			p.viewW = b.Width()
		}
	}
	if p.viewH == 0 {
		if img.height > 0 {
			p.viewH = img.height
		} else if b, ok := img.Bounds(); ok {
			p.viewMinY = b.MinY
			p.viewH = b.Height()
		}
	}
	if img.width == 0 {
		img.width = p.viewW
	}
	if img.height == 0 {
		img.height = p.viewH
	}

	tx := -p.viewMinX
	ty := -p.viewMinY
	sx := float32(0)
	sy := float32(0)
	if p.viewW > 0 {
		sx = img.width / p.viewW
	}
	if p.viewH > 0 {
		sy = img.height / p.viewH
	}

	// Unit scaling for the output dimensions.
	us := float32(1)
	if u := p.convertToPixels(coord{1, parseUnitSuffix(units)}, 0, 1); u > 0 {
		us = 1 / u
	}

	switch p.alignType {
	case alignMeet:
		sx = math32.Min(sx, sy)
		sy = sx
	case alignSlice:
		sx = math32.Max(sx, sy)
		sy = sx
	}
	if p.alignType != alignNone && sx > 0 && sy > 0 {
		tx += viewAlign(p.viewW*sx, img.width, p.alignX) / sx
		ty += viewAlign(p.viewH*sy, img.height, p.alignY) / sy
	}

	sx *= us
	sy *= us
	avgs := (sx + sy) / 2
	img.width *= us
	img.height *= us

	if tx == 0 && ty == 0 && sx == 1 && sy == 1 {
		return
	}

	view := Scale(sx, sy).Multiply(Translate(tx, ty))
	viewInv := view.Invert()

	for _, s := range p.image.shapes {
		s.bounds.MinX = (s.bounds.MinX + tx) * sx
		s.bounds.MinY = (s.bounds.MinY + ty) * sy
		s.bounds.MaxX = (s.bounds.MaxX + tx) * sx
		s.bounds.MaxY = (s.bounds.MaxY + ty) * sy
		s.xform = view.Multiply(s.xform)
		s.strokeWidth *= avgs
		s.strokeDashOffset *= avgs
		for i := 0; i < s.strokeDashCount; i++ {
			s.strokeDashArray[i] *= avgs
		}
		for _, path := range s.paths {
			for i := 0; i < len(path.pts); i += 2 {
				path.pts[i] = (path.pts[i] + tx) * sx
				path.pts[i+1] = (path.pts[i+1] + ty) * sy
			}
			path.bounds.MinX = (path.bounds.MinX + tx) * sx
			path.bounds.MinY = (path.bounds.MinY + ty) * sy
			path.bounds.MaxX = (path.bounds.MaxX + tx) * sx
			path.bounds.MaxY = (path.bounds.MaxY + ty) * sy
		}
		if g := s.fill.gradient; g != nil {
			g.xform = g.xform.Multiply(viewInv)
		}
		if g := s.stroke.gradient; g != nil {
			g.xform = g.xform.Multiply(viewInv)
		}
	}
}

func viewAlign(content, container float32, align alignKind) float32 {
	switch align {
	case alignMin:
		return 0
	case alignMax:
		return container - content
	}
	return (container - content) * 0.5
}
