//go:build !svgcolorsfull

package svg

// Minimal color keyword table. Build with the svgcolorsfull tag to get
// the complete CSS keyword set instead.
var colorKeywords = map[string]uint32{
	"red":     rgb(255, 0, 0),
	"green":   rgb(0, 128, 0),
	"blue":    rgb(0, 0, 255),
	"yellow":  rgb(255, 255, 0),
	"cyan":    rgb(0, 255, 255),
	"magenta": rgb(255, 0, 255),
	"black":   rgb(0, 0, 0),
	"grey":    rgb(128, 128, 128),
	"gray":    rgb(128, 128, 128),
	"white":   rgb(255, 255, 255),
	"lime":    rgb(0, 255, 0),
	"maroon":  rgb(128, 0, 0),
	"navy":    rgb(0, 0, 128),
	"olive":   rgb(128, 128, 0),
	"orange":  rgb(255, 165, 0),
	"purple":  rgb(128, 0, 128),
	"silver":  rgb(192, 192, 192),
	"teal":    rgb(0, 128, 128),
}

func colorKeyword(name string) (uint32, bool) {
	c, ok := colorKeywords[name]
	return c, ok
}
