package svg

import (
	"strconv"
	"strings"
)

// unitKind is a length unit suffix.
type unitKind uint8

const (
	unitUser unitKind = iota
	unitPx
	unitPt
	unitPc
	unitMm
	unitCm
	unitIn
	unitPercent
	unitEm
	unitEx
)

// coord is a number with a unit, resolved against a DPI and viewport
// context when converted to pixels.
type coord struct {
	value float32
	units unitKind
}

// parseUnitSuffix maps a unit suffix to its kind. Unknown suffixes are
// treated as user units.
func parseUnitSuffix(s string) unitKind {
	switch s {
	case "px":
		return unitPx
	case "pt":
		return unitPt
	case "pc":
		return unitPc
	case "mm":
		return unitMm
	case "cm":
		return unitCm
	case "in":
		return unitIn
	case "%":
		return unitPercent
	case "em":
		return unitEm
	case "ex":
		return unitEx
	case "":
		return unitUser
	}
	return unitUser
}

// parseCoord splits a length attribute into number and unit. Malformed
// numbers yield a zero user-unit coordinate, per the lenient policy.
func parseCoord(raw string) coord {
	s := strings.TrimSpace(raw)
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		end--
	}
	v, err := strconv.ParseFloat(s[:end], 32)
	if err != nil {
		return coord{}
	}
	return coord{value: float32(v), units: parseUnitSuffix(strings.TrimSpace(s[end:]))}
}

// parseFloatValue parses a plain number, returning 0 on malformed
// input.
func parseFloatValue(raw string) float32 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
	if err != nil {
		return 0
	}
	return float32(v)
}

// parseOpacityValue parses an opacity, clamped to [0,1].
func parseOpacityValue(raw string) float32 {
	return clampf(parseFloatValue(raw), 0, 1)
}

// convertToPixels resolves a coordinate to user units using the
// document DPI. Percentages resolve against orig/length, em and ex
// against the inherited font size.
func (p *parser) convertToPixels(c coord, orig, length float32) float32 {
	switch c.units {
	case unitUser, unitPx:
		return c.value
	case unitPt:
		return c.value / 72 * p.dpi
	case unitPc:
		return c.value / 6 * p.dpi
	case unitMm:
		return c.value / 25.4 * p.dpi
	case unitCm:
		return c.value / 2.54 * p.dpi
	case unitIn:
		return c.value * p.dpi
	case unitEm:
		return c.value * p.attr().fontSize
	case unitEx:
		return c.value * p.attr().fontSize * 0.52
	case unitPercent:
		return orig + c.value/100*length
	}
	return c.value
}
