package svg

import "testing"

func TestParseColorValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint32
	}{
		{"hex long", "#ff8000", rgb(255, 128, 0)},
		{"hex short", "#f80", rgb(255, 136, 0)},
		{"hex uppercase", "#FF8000", rgb(255, 128, 0)},
		{"rgb ints", "rgb(255, 128, 0)", rgb(255, 128, 0)},
		{"rgb no spaces", "rgb(1,2,3)", rgb(1, 2, 3)},
		{"rgb percent", "rgb(100%, 50%, 0%)", rgb(255, 127, 0)},
		{"keyword red", "red", rgb(255, 0, 0)},
		{"keyword case", "RED", rgb(255, 0, 0)},
		{"keyword white", "white", rgb(255, 255, 255)},
		{"unknown keyword", "notacolor", rgb(0, 0, 0)},
		{"malformed hex", "#zzz", rgb(0, 0, 0)},
		{"clamped rgb", "rgb(300, -5, 0)", rgb(255, 0, 0)},
		{"whitespace", "  #ff0000  ", rgb(255, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseColorValue(tt.in)
			if got != tt.want {
				t.Errorf("parseColorValue(%q) = %#08x, want %#08x", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorPacking(t *testing.T) {
	c := rgba(0x11, 0x22, 0x33, 0x44)
	if c != 0x44332211 {
		t.Errorf("rgba packs to %#08x, want 0x44332211 (R in low byte)", c)
	}
}

func TestApplyOpacity(t *testing.T) {
	tests := []struct {
		name    string
		color   uint32
		opacity float32
		wantA   uint32
	}{
		{"full", rgb(10, 20, 30), 1, 255},
		{"half", rgb(10, 20, 30), 0.5, 127},
		{"zero", rgb(10, 20, 30), 0, 0},
		{"clamped high", rgb(10, 20, 30), 2, 255},
		{"clamped low", rgb(10, 20, 30), -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyOpacity(tt.color, tt.opacity)
			if got>>24 != tt.wantA {
				t.Errorf("applyOpacity alpha = %d, want %d", got>>24, tt.wantA)
			}
			if got&0xffffff != tt.color&0xffffff {
				t.Errorf("applyOpacity changed RGB: %#08x", got)
			}
		})
	}
}
