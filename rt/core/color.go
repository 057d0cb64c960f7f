package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// HSL holds hue in degrees [0, 360) plus saturation and lightness in [0, 1].
type HSL struct {
	H, S, L float64
}

func ToHSL(c mgl32.Vec3) HSL {
	h, s, l := colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Hsl()
	return HSL{H: h, S: s, L: l}
}

func (c HSL) RGB() mgl32.Vec3 {
	rgb := colorful.Hsl(wrapHue(c.H), c.S, c.L).Clamped()
	return mgl32.Vec3{float32(rgb.R), float32(rgb.G), float32(rgb.B)}
}

// ShiftHue rotates the hue of c by the given number of degrees.
func ShiftHue(c mgl32.Vec3, degrees float64) mgl32.Vec3 {
	hsl := ToHSL(c)
	hsl.H += degrees
	return hsl.RGB()
}

// HueVector maps a hue angle onto the unit circle as (sin, cos).
func HueVector(hue float64) mgl32.Vec2 {
	rad := hue * math.Pi / 180
	return mgl32.Vec2{float32(math.Sin(rad)), float32(math.Cos(rad))}
}

// HueOf is the inverse of HueVector for any non-zero vector. A zero vector
// (hues cancelling out) yields 0.
func HueOf(v mgl32.Vec2) float64 {
	return wrapHue(math.Atan2(float64(v[0]), float64(v[1])) * 180 / math.Pi)
}

// BlendHues averages hues as vectors so that 350 and 10 blend to 0 rather
// than 180. Saturation and lightness come from pin.
func BlendHues(pin HSL, hues ...float64) mgl32.Vec3 {
	var sum mgl32.Vec2
	for _, h := range hues {
		sum = sum.Add(HueVector(h))
	}
	return HSL{H: HueOf(sum), S: pin.S, L: pin.L}.RGB()
}

// Lighten is the additive hover tint; it never touches a box's stored color.
func Lighten(c mgl32.Vec3, amount float32) mgl32.Vec3 {
	return c.Mul(1 - amount).Add(mgl32.Vec3{amount, amount, amount})
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
