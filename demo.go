package fractalbox

import (
	"github.com/gekko3d/fractalbox/rt/editor"
	"github.com/go-gl/mathgl/mgl32"
)

type demoBox struct {
	origin mgl32.Vec3
	color  mgl32.Vec3
	twist  float32 // radians about Y
}

// Three half-size boxes on a triangle: composes into a Sierpinski-like set.
var demoBoxes = []demoBox{
	{mgl32.Vec3{-0.5, -0.5, 0}, mgl32.Vec3{0.9, 0.3, 0.3}, 0},
	{mgl32.Vec3{0.5, -0.5, 0}, mgl32.Vec3{0.3, 0.9, 0.3}, 0},
	{mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0.3, 0.3, 0.9}, mgl32.DegToRad(30)},
}

// SeedDemo adds the demo boxes to w.
func SeedDemo(w *editor.World) {
	for _, d := range demoBoxes {
		h := w.CreateBox(d.origin, false)
		b, _ := w.Box(h)
		b.Color = d.color
		if d.twist != 0 {
			b.Orientation = mgl32.QuatRotate(d.twist, mgl32.Vec3{0, 1, 0})
		}
	}
	w.MarkDirty()
}
