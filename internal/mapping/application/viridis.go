package application

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// viridis holds the ten evenly spaced stops of the Viridis scale.
var viridis = []color.RGBA{
	{0x44, 0x01, 0x54, 0xff},
	{0x48, 0x28, 0x78, 0xff},
	{0x3e, 0x49, 0x89, 0xff},
	{0x31, 0x68, 0x8e, 0xff},
	{0x26, 0x82, 0x8e, 0xff},
	{0x1f, 0x9e, 0x89, 0xff},
	{0x35, 0xb7, 0x79, 0xff},
	{0x6e, 0xce, 0x58, 0xff},
	{0xb5, 0xde, 0x2b, 0xff},
	{0xfd, 0xe7, 0x25, 0xff},
}

// SampleViridis returns the color at position t in [0,1], linearly
// interpolated between stops. t is clamped.
func SampleViridis(t float64) color.RGBA {
	if math.IsNaN(t) || t <= 0 {
		return viridis[0]
	}
	if t >= 1 {
		return viridis[len(viridis)-1]
	}

	scaled := t * float64(len(viridis)-1)
	i := int(math.Floor(scaled))
	frac := scaled - float64(i)
	lo, hi := viridis[i], viridis[i+1]
	return color.RGBA{
		R: lerp(lo.R, hi.R, frac),
		G: lerp(lo.G, hi.G, frac),
		B: lerp(lo.B, hi.B, frac),
		A: 0xff,
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex reads a #rrggbb string. Invalid input yields opaque black.
func ParseHex(s string) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{A: 0xff}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
