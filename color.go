package svg

import (
	"strconv"
	"strings"
)

// parseColorValue parses an SVG color attribute value: #rgb, #rrggbb,
// rgb(r,g,b) with integer or percentage components, or a color keyword.
// Malformed input falls back to opaque black, per the lenient parsing
// policy.
func parseColorValue(raw string) uint32 {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return rgb(0, 0, 0)
	case s[0] == '#':
		return parseColorHex(s[1:])
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseColorRGB(s[4 : len(s)-1])
	default:
		if c, ok := colorKeyword(strings.ToLower(s)); ok {
			return c
		}
		return rgb(0, 0, 0)
	}
}

// parseColorHex parses the digits of a #rgb or #rrggbb color.
func parseColorHex(s string) uint32 {
	switch len(s) {
	case 3:
		r := hexNibble(s[0])
		g := hexNibble(s[1])
		b := hexNibble(s[2])
		return rgb(r*17, g*17, b*17)
	case 6:
		r := hexNibble(s[0])<<4 | hexNibble(s[1])
		g := hexNibble(s[2])<<4 | hexNibble(s[3])
		b := hexNibble(s[4])<<4 | hexNibble(s[5])
		return rgb(r, g, b)
	default:
		return rgb(0, 0, 0)
	}
}

func hexNibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// parseColorRGB parses the argument list of rgb(r,g,b). Components may
// be integers in [0,255] or percentages.
func parseColorRGB(args string) uint32 {
	var comps [3]uint8
	fields := strings.Split(args, ",")
	if len(fields) != 3 {
		return rgb(0, 0, 0)
	}
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if v, ok := strings.CutSuffix(f, "%"); ok {
			p, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
			if err != nil {
				return rgb(0, 0, 0)
			}
			comps[i] = uint8(clampf(float32(p)*255/100, 0, 255))
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return rgb(0, 0, 0)
		}
		comps[i] = uint8(min(max(n, 0), 255))
	}
	return rgb(comps[0], comps[1], comps[2])
}
