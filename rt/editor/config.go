package editor

import (
	"math"

	"github.com/gekko3d/fractalbox/rt/compose"
)

// Config holds the edit step sizes and render limits. Each Fine factor
// multiplies its base step when the fine modifier is held.
type Config struct {
	TranslateStep float32
	TranslateFine float32

	RotateStep float32 // radians
	RotateFine float32

	ScaleStep float32
	ScaleFine float32

	HueStep float64 // degrees
	HueFine float64

	// SelectionScale enlarges the selection wireframe at depth 0.
	SelectionScale float32
	HoverTint      float32

	Compose compose.Options
}

func DefaultConfig() Config {
	return Config{
		TranslateStep:  0.1,
		TranslateFine:  0.1,
		RotateStep:     2 * math.Pi / 24,
		RotateFine:     1.0 / 12.0,
		ScaleStep:      0.06,
		ScaleFine:      0.25,
		HueStep:        2.0,
		HueFine:        0.25,
		SelectionScale: 1.1,
		HoverTint:      0.3,
		Compose:        compose.DefaultOptions(),
	}
}

func (c Config) Translation(fine bool) float32 {
	if fine {
		return c.TranslateStep * c.TranslateFine
	}
	return c.TranslateStep
}

func (c Config) Rotation(fine bool) float32 {
	if fine {
		return c.RotateStep * c.RotateFine
	}
	return c.RotateStep
}

func (c Config) Scaling(fine bool) float32 {
	if fine {
		return c.ScaleStep * c.ScaleFine
	}
	return c.ScaleStep
}

func (c Config) HueShift(fine bool) float64 {
	if fine {
		return c.HueStep * c.HueFine
	}
	return c.HueStep
}
