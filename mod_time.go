package fractalbox

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

// FPS is the frame rate implied by the last frame time.
func (t *Time) FPS() float64 {
	if t.Dt <= 0 {
		return 0
	}
	return float64(time.Second) / float64(t.Dt)
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}
