package fractalbox

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gekko3d/fractalbox/rt/compose"
	"github.com/gekko3d/fractalbox/rt/core"
	"github.com/gekko3d/fractalbox/rt/editor"

	"github.com/go-gl/mathgl/mgl32"
)

// ComposeStage runs between Update and PostUpdate. The render set is
// regenerated there once the frame's edits are in.
var ComposeStage = Stage{Name: "Compose"}

// EditorModule wires the box editor into the frame loop: bindings in
// Update, regeneration in ComposeStage, the draw list in PreRender.
type EditorModule struct {
	Config editor.Config
	Depth  int
	Demo   bool
	// World replaces the fresh world the module would otherwise create.
	World *editor.World
}

// EditorState is the editor resource shared by the systems and the renderer.
type EditorState struct {
	World      *editor.World
	Config     editor.Config
	Set        *compose.RenderSet
	Wireframes bool
	DrawList   core.DrawList

	// SnapshotDir receives P key snapshots; empty means the working directory.
	SnapshotDir string
	snapshots   int

	log Logger
}

func NewEditorState(w *editor.World, cfg editor.Config, log Logger) *EditorState {
	if log == nil {
		log = NewNopLogger()
	}
	return &EditorState{
		World:      w,
		Config:     cfg,
		Wireframes: true,
		log:        log,
	}
}

func (m EditorModule) Install(app *App, cmd *Commands) {
	w := m.World
	if w == nil {
		w = editor.NewWorld()
	}
	if m.Demo {
		SeedDemo(w)
	}
	w.SetDepth(m.Depth)

	cfg := m.Config
	if cfg == (editor.Config{}) {
		cfg = editor.DefaultConfig()
	}

	log := app.Logger()
	if dl, ok := log.(*DefaultLogger); ok {
		log = dl.Named("session " + w.Session().String()[:8])
	}
	log.Infof("editor ready: %d boxes, depth %d", w.Len(), w.Depth())

	cmd.AddResources(NewEditorState(w, cfg, log))
	if !app.HasStage(ComposeStage) {
		app.UseStage(ComposeStage, AfterStage(Update))
	}
	app.UseSystem(
		System(editorInputSystem).
			InStage(Update),
	).UseSystem(
		System(editorRefreshSystem).
			InStage(ComposeStage),
	).UseSystem(
		System(editorDrawSystem).
			InStage(PreRender),
	)
}

type axisBinding struct {
	key  int
	axis mgl32.Vec3
}

var translateBindings = []axisBinding{
	{KeyW, mgl32.Vec3{0, 0, 1}},
	{KeyS, mgl32.Vec3{0, 0, -1}},
	{KeyA, mgl32.Vec3{1, 0, 0}},
	{KeyD, mgl32.Vec3{-1, 0, 0}},
	{KeyR, mgl32.Vec3{0, 1, 0}},
	{KeyF, mgl32.Vec3{0, -1, 0}},
}

var rotateBindings = []axisBinding{
	{KeyI, mgl32.Vec3{0, 0, 1}},
	{KeyK, mgl32.Vec3{0, 0, -1}},
	{KeyJ, mgl32.Vec3{1, 0, 0}},
	{KeyL, mgl32.Vec3{-1, 0, 0}},
	{KeyU, mgl32.Vec3{0, 1, 0}},
	{KeyO, mgl32.Vec3{0, -1, 0}},
}

// scroll + held key scales these axes of the selected box
var scaleBindings = []axisBinding{
	{KeyB, mgl32.Vec3{1, 1, 1}},
	{KeyX, mgl32.Vec3{1, 0, 0}},
	{KeyY, mgl32.Vec3{0, 1, 0}},
	{KeyZ, mgl32.Vec3{0, 0, 1}},
}

func editorInputSystem(input *Input, cam *core.ArcBall, st *EditorState) {
	st.HandleInput(input, cam)
}

func editorRefreshSystem(st *EditorState) {
	_ = st.Refresh()
}

func editorDrawSystem(st *EditorState) {
	st.DrawList = st.World.DrawList(st.Set, st.Config, st.Wireframes)
}

// HandleInput applies one frame of input to the world and camera.
func (st *EditorState) HandleInput(in *Input, cam *core.ArcBall) {
	w := st.World
	ray := cam.Unproject(in.MouseX, in.MouseY, in.WindowWidth, in.WindowHeight)
	shift := in.Shift()

	if in.JustPressed[MouseButtonLeft] {
		st.log.Debugf("press: %s", w.OnPress(ray))
	}
	if in.JustReleased[MouseButtonLeft] {
		w.OnRelease()
	}

	if in.JustPressed[KeyN] {
		if h, err := w.PlaceBox(ray, cam.PlaneNormal(), shift); err != nil {
			st.log.Warnf("place box: %v", err)
		} else if b, ok := w.Box(h); ok {
			st.log.Infof("placed box %d at %.2f, %d boxes", b.Id, b.Origin, w.Len())
		}
	}
	if in.JustPressed[KeyBackspace] {
		if shift {
			if w.DeleteSelected() {
				st.log.Infof("deleted selected box, %d left", w.Len())
			}
		} else {
			w.EditSelected(editor.ResetOrientation{})
		}
	}
	if in.JustPressed[KeyEscape] {
		w.Deselect()
	}
	if in.JustPressed[KeyRight] {
		w.IncreaseDepth()
	}
	if in.JustPressed[KeyLeft] {
		w.DecreaseDepth()
	}
	if in.JustPressed[KeyTab] {
		st.Wireframes = !st.Wireframes
	}

	step := st.Config.Translation(shift)
	for _, b := range translateBindings {
		if in.JustPressed[b.key] {
			w.EditSelected(editor.Translate{Delta: b.axis.Mul(step)})
		}
	}
	angle := st.Config.Rotation(shift)
	for _, b := range rotateBindings {
		if in.JustPressed[b.key] {
			w.EditSelected(editor.Rotate{Axis: b.axis, Angle: angle})
		}
	}

	st.handleScroll(in, cam, shift)

	// drag and hover see this frame's edits and zoom
	ray = cam.Unproject(in.MouseX, in.MouseY, in.WindowWidth, in.WindowHeight)
	if w.IsDragging() {
		w.OnDragTick(ray)
	}
	w.UpdateHover(ray)

	if in.JustPressed[KeyP] {
		st.saveSnapshot(cam, in.WindowWidth, in.WindowHeight)
	}
}

func (st *EditorState) handleScroll(in *Input, cam *core.ArcBall, fine bool) {
	if in.ScrollY == 0 {
		return
	}
	w := st.World
	if _, ok := w.Selection(); ok {
		adjust := st.Config.Scaling(fine) * float32(in.ScrollY)
		for _, b := range scaleBindings {
			if in.Pressed[b.key] {
				w.EditSelected(editor.Rescale{Delta: b.axis.Mul(adjust)})
				return
			}
		}
		if in.Pressed[KeyC] {
			w.EditSelected(editor.ShiftHue{Degrees: st.Config.HueShift(fine) * in.ScrollY})
			return
		}
	}
	cam.Zoom(in.ScrollY)
}

// Refresh regenerates the render set when the world changed. At depth 0 a
// dragged box is recomposed every frame so it follows the cursor. On error the
// previous set is kept.
func (st *EditorState) Refresh() error {
	w := st.World
	dirty := w.TakeDirty()
	live := w.Depth() == 0 && w.IsDragging()
	if !dirty && !live && st.Set != nil {
		return nil
	}

	set, err := w.RenderSet(st.Config.Compose)
	if err != nil {
		if errors.Is(err, compose.ErrTooManyCombinations) {
			st.log.Warnf("depth %d with %d boxes is too large to render, keeping the previous result", w.Depth(), w.Len())
		} else {
			st.log.Errorf("compose: %v", err)
		}
		return err
	}

	if dirty {
		if st.Set == nil || st.Set.Kind != set.Kind {
			st.log.Infof("rendering %d cubes as %s", set.Count, set.Kind)
		}
		st.log.Debugf("regenerated depth %d: %d instances, %d points", set.Depth, len(set.Instances), len(set.Points))
	}
	st.Set = set
	return nil
}

func (st *EditorState) saveSnapshot(cam *core.ArcBall, width, height int) {
	st.snapshots++
	name := fmt.Sprintf("fractalbox-%s-%03d.png", st.World.Session().String()[:8], st.snapshots)
	path := filepath.Join(st.SnapshotDir, name)
	if err := SaveSnapshot(path, st.DrawList, cam, width, height); err != nil {
		st.log.Errorf("snapshot: %v", err)
		return
	}
	st.log.Infof("saved %s", path)
}
