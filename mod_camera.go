package fractalbox

import (
	"github.com/gekko3d/fractalbox/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraModule provides the arc-ball camera. Right drag orbits, middle drag
// pans. Wheel zoom is dispatched by the editor bindings since the wheel is
// shared with scale and hue edits.
type CameraModule struct {
	Eye mgl32.Vec3
	At  mgl32.Vec3
}

func (m CameraModule) Install(app *App, cmd *Commands) {
	eye := m.Eye
	if eye == (mgl32.Vec3{}) {
		eye = mgl32.Vec3{0, 0, -4}
	}
	cmd.AddResources(core.NewArcBallAt(eye, m.At))
	app.UseSystem(
		System(cameraControlSystem).
			InStage(Update),
	)
}

func cameraControlSystem(input *Input, cam *core.ArcBall) {
	if input.MouseDeltaX == 0 && input.MouseDeltaY == 0 {
		return
	}
	if input.Pressed[MouseButtonRight] {
		cam.Orbit(input.MouseDeltaX, input.MouseDeltaY)
	}
	if input.Pressed[MouseButtonMiddle] {
		cam.Pan(input.MouseDeltaX, input.MouseDeltaY)
	}
}
