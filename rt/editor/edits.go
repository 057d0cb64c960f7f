package editor

import (
	"github.com/gekko3d/fractalbox/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Edit is a change applied to the selected box by World.EditSelected.
type Edit interface {
	// apply mutates b and reports whether anything was done.
	apply(b *core.Box, dragging bool) bool
}

// Translate moves the box origin. It is ignored while a drag owns the origin.
type Translate struct {
	Delta mgl32.Vec3
}

func (e Translate) apply(b *core.Box, dragging bool) bool {
	if dragging {
		return false
	}
	b.Origin = b.Origin.Add(e.Delta)
	return true
}

// Rotate composes an axis-angle rotation on the right of the current
// orientation, so Axis is in the box's own frame.
type Rotate struct {
	Axis  mgl32.Vec3
	Angle float32
}

func (e Rotate) apply(b *core.Box, _ bool) bool {
	if e.Axis.Len() == 0 {
		return false
	}
	delta := mgl32.QuatRotate(e.Angle, e.Axis.Normalize())
	b.Orientation = b.Orientation.Mul(delta).Normalize()
	return true
}

type ResetOrientation struct{}

func (ResetOrientation) apply(b *core.Box, _ bool) bool {
	b.Orientation = mgl32.QuatIdent()
	return true
}

// Rescale adds Delta to the scale; components never go below zero.
type Rescale struct {
	Delta mgl32.Vec3
}

func (e Rescale) apply(b *core.Box, _ bool) bool {
	b.Scale = b.Scale.Add(e.Delta)
	b.ClampScale()
	return true
}

// ShiftHue rotates the box color's hue by Degrees.
type ShiftHue struct {
	Degrees float64
}

func (e ShiftHue) apply(b *core.Box, _ bool) bool {
	b.Color = core.ShiftHue(b.Color, e.Degrees)
	return true
}
