//go:build svgcolorsfull

package svg

import "golang.org/x/image/colornames"

// Full CSS color keyword table, backed by x/image/colornames.
func colorKeyword(name string) (uint32, bool) {
	c, ok := colornames.Map[name]
	if !ok {
		return 0, false
	}
	return rgba(c.R, c.G, c.B, c.A), true
}
