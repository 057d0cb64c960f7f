package fractalbox

import (
	"fmt"
	"image"

	"github.com/gekko3d/fractalbox/rt/core"
	"github.com/gekko3d/fractalbox/rt/raster"
)

// RenderSnapshot rasterizes dl as seen by cam.
func RenderSnapshot(dl core.DrawList, cam *core.ArcBall, width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		width, height = 1400, 800
	}
	opts := raster.DefaultOptions(width, height)
	return raster.Render(dl, cam.ViewProj(float32(width)/float32(height)), opts)
}

func SaveSnapshot(path string, dl core.DrawList, cam *core.ArcBall, width, height int) error {
	return raster.SavePNG(path, RenderSnapshot(dl, cam, width, height))
}

// SnapshotRequest is the resource SnapshotModule works from. Err holds the
// outcome once Done is set.
type SnapshotRequest struct {
	Path          string
	Width, Height int

	Done bool
	Err  error
}

// SnapshotModule renders the first complete frame to a PNG and quits. It
// stands in for the window, input and GPU modules in headless runs.
type SnapshotModule struct {
	Path          string
	Width, Height int
}

func (m SnapshotModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, "snapshot")
	width, height := m.Width, m.Height
	if width <= 0 || height <= 0 {
		width, height = 1400, 800
	}
	if _, ok := Resource[Input](app); !ok {
		cmd.AddResources(&Input{
			MouseX:       -1,
			MouseY:       -1,
			WindowWidth:  width,
			WindowHeight: height,
		})
	}
	cmd.AddResources(&SnapshotRequest{Path: m.Path, Width: width, Height: height})
	app.UseSystem(
		System(snapshotSystem).
			InStage(PostRender),
	)
}

func snapshotSystem(cmd *Commands, req *SnapshotRequest, st *EditorState, cam *core.ArcBall) {
	if req.Done {
		return
	}
	req.Done = true
	if st.Set == nil {
		req.Err = fmt.Errorf("snapshot: nothing was composed at depth %d", st.World.Depth())
	} else {
		req.Err = SaveSnapshot(req.Path, st.DrawList, cam, req.Width, req.Height)
	}
	if req.Err != nil {
		cmd.Logger().Errorf("%v", req.Err)
	} else {
		cmd.Logger().Infof("wrote %s", req.Path)
	}
	cmd.Quit()
}
