package geom

import (
	"fmt"
	"image/color"
	"math"
	"unicode/utf16"
)

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619

	pinSaturation = 0.78
	pinLightness  = 0.45
)

// AnswerCSS is the fill used for the answer pin.
const AnswerCSS = "rgba(220,38,38,0.98)"

// AnswerRGBA is AnswerCSS as a straight-alpha colour.
var AnswerRGBA = color.NRGBA{R: 220, G: 38, B: 38, A: 250}

// hashName is FNV-1a over UTF-16 code units so names hash the same way a
// browser's charCodeAt loop does.
func hashName(s string) uint32 {
	h := uint32(fnvOffset32)
	for _, u := range utf16.Encode([]rune(s)) {
		h ^= uint32(u)
		h *= fnvPrime32
	}
	return h
}

// PlayerHue returns the stable hue (0-359) assigned to a player name.
func PlayerHue(name string) int {
	if name == "" {
		name = "Player"
	}
	return int(hashName(name) % 360)
}

// PlayerColor returns the CSS colour for a player's pin.
func PlayerColor(name string) string {
	return fmt.Sprintf("hsl(%d 78%% 45%%)", PlayerHue(name))
}

// PlayerRGBA returns the same colour as PlayerColor for raster renderers.
func PlayerRGBA(name string) color.NRGBA {
	return HSL(float64(PlayerHue(name)), pinSaturation, pinLightness)
}

// HSL converts hue in degrees and saturation/lightness in [0,1] to an opaque colour.
func HSL(h, s, l float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.NRGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
