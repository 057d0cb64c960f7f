package fractalbox

import (
	"math"
	"slices"
	"testing"

	"github.com/gekko3d/fractalbox/rt/compose"
	"github.com/gekko3d/fractalbox/rt/core"
	"github.com/gekko3d/fractalbox/rt/editor"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertVec3Near compares component-wise with an absolute tolerance.
func assertVec3Near(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, msgAndArgs...)
	}
}

// assertQuatNear compares component-wise with an absolute tolerance.
func assertQuatNear(t *testing.T, want, got mgl32.Quat, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.W, got.W, delta, msgAndArgs...)
	assertVec3Near(t, want.V, got.V, delta, msgAndArgs...)
}

type editorHarness struct {
	st  *EditorState
	cam *core.ArcBall
	in  *Input
}

// newEditorHarness points the cursor at the middle of a 1400x800 window,
// straight at the world origin.
func newEditorHarness() *editorHarness {
	in := &Input{WindowWidth: 1400, WindowHeight: 800}
	in.MoveMouse(700, 400)
	in.MouseDeltaX, in.MouseDeltaY = 0, 0
	return &editorHarness{
		st:  NewEditorState(editor.NewWorld(), editor.DefaultConfig(), nil),
		cam: core.NewArcBall(),
		in:  in,
	}
}

// frame runs the bindings once and clears the per-frame edges the way the
// input system would on the next poll.
func (h *editorHarness) frame() {
	h.st.HandleInput(h.in, h.cam)
	h.in.ScrollY = 0
	h.in.JustPressed = [256]bool{}
	h.in.JustReleased = [256]bool{}
}

func (h *editorHarness) tap(keys ...int) {
	for _, k := range keys {
		h.in.Press(k)
	}
	h.frame()
	for _, k := range keys {
		h.in.Release(k)
	}
	h.frame()
}

func (h *editorHarness) scroll(offset float64, held ...int) {
	for _, k := range held {
		h.in.Press(k)
	}
	h.in.ScrollY = offset
	h.frame()
	for _, k := range held {
		h.in.Release(k)
	}
}

// placeAndSelect creates a box at the origin and clicks it.
func (h *editorHarness) placeAndSelect(t *testing.T) *core.Box {
	h.tap(KeyN)
	h.tap(MouseButtonLeft)
	b, ok := h.st.World.SelectedBox()
	require.True(t, ok)
	return b
}

func TestEditorPlaceBoxUnderCursor(t *testing.T) {
	h := newEditorHarness()
	h.tap(KeyN)

	w := h.st.World
	require.Equal(t, 1, w.Len())
	b := w.Bases()[0]
	assert.InDelta(t, 0, b.Origin.Len(), 1e-5)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, b.Scale)
	assert.Equal(t, editor.Idle, w.State(), "a new box is not selected")

	h.in.Press(KeyLeftShift)
	h.tap(KeyN)
	require.Equal(t, 2, w.Len())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, w.Bases()[1].Scale)
}

func TestEditorClickSelectsAndReleaseKeepsSelection(t *testing.T) {
	h := newEditorHarness()
	h.tap(KeyN)

	h.in.Press(MouseButtonLeft)
	h.frame()
	assert.Equal(t, editor.Dragging, h.st.World.State())

	h.in.Release(MouseButtonLeft)
	h.frame()
	assert.Equal(t, editor.Selected, h.st.World.State())

	h.tap(KeyEscape)
	assert.Equal(t, editor.Idle, h.st.World.State())
}

func TestEditorDragFollowsCursor(t *testing.T) {
	h := newEditorHarness()
	h.tap(KeyN)

	h.in.Press(MouseButtonLeft)
	h.frame()
	h.in.MoveMouse(760, 400)
	h.frame()

	b, ok := h.st.World.SelectedBox()
	require.True(t, ok)
	assert.NotZero(t, b.Origin.X())

	h.in.Release(MouseButtonLeft)
	h.frame()
	assert.Equal(t, editor.Selected, h.st.World.State())
}

func TestEditorRotationWhileDraggingKeepsGrabPointOnCursor(t *testing.T) {
	h := newEditorHarness()
	h.tap(KeyN)
	h.in.Press(MouseButtonLeft)
	h.frame()
	require.True(t, h.st.World.IsDragging())

	b, _ := h.st.World.SelectedBox()
	before := b.Origin
	h.in.Press(KeyJ)
	h.frame()
	h.in.Release(KeyJ)

	drag, ok := h.st.World.Drag()
	require.True(t, ok)
	rotation := b.Orientation.Mul(drag.OriginOrientation.Inverse())
	require.NotEqual(t, mgl32.QuatIdent(), rotation)
	assert.NotEqual(t, before, b.Origin)

	ray := h.cam.Unproject(h.in.MouseX, h.in.MouseY, h.in.WindowWidth, h.in.WindowHeight)
	grab := b.Origin.Add(rotation.Rotate(drag.LocalHandleOffset))
	want := ray.Origin.Add(ray.Direction.Normalize().Mul(drag.CameraDist))
	assertVec3Near(t, want, grab, 1e-4, "grab %v", grab)
}

func TestEditorTranslationKeys(t *testing.T) {
	h := newEditorHarness()
	b := h.placeAndSelect(t)

	h.tap(KeyW)
	assert.InDelta(t, 0.1, b.Origin.Z(), 1e-6)
	h.tap(KeyA)
	assert.InDelta(t, 0.1, b.Origin.X(), 1e-6)
	h.tap(KeyF)
	assert.InDelta(t, -0.1, b.Origin.Y(), 1e-6)

	h.in.Press(KeyLeftShift)
	h.tap(KeyS)
	assert.InDelta(t, 0.09, b.Origin.Z(), 1e-6)
}

func TestEditorTranslationBlockedWhileDragging(t *testing.T) {
	h := newEditorHarness()
	h.tap(KeyN)
	h.in.Press(MouseButtonLeft)
	h.frame()
	require.True(t, h.st.World.IsDragging())

	b, _ := h.st.World.SelectedBox()
	before := b.Origin
	h.in.Press(KeyD)
	h.frame()
	assert.Equal(t, before, b.Origin)
}

func TestEditorRotationKeysAndReset(t *testing.T) {
	h := newEditorHarness()
	b := h.placeAndSelect(t)

	h.tap(KeyI)
	want := mgl32.QuatRotate(2*math.Pi/24, mgl32.Vec3{0, 0, 1})
	assertQuatNear(t, want, b.Orientation, 1e-5, "got %v", b.Orientation)

	h.tap(KeyBackspace)
	assert.Equal(t, mgl32.QuatIdent(), b.Orientation)

	h.in.Press(KeyLeftShift)
	h.tap(KeyL)
	want = mgl32.QuatRotate(2*math.Pi/24/12, mgl32.Vec3{-1, 0, 0})
	assertQuatNear(t, want, b.Orientation, 1e-5, "got %v", b.Orientation)
}

func TestEditorScrollScalesHuesOrZooms(t *testing.T) {
	h := newEditorHarness()
	b := h.placeAndSelect(t)

	h.scroll(1, KeyB)
	assertVec3Near(t, mgl32.Vec3{0.56, 0.56, 0.56}, b.Scale, 1e-5, "got %v", b.Scale)

	h.scroll(-1, KeyX)
	assertVec3Near(t, mgl32.Vec3{0.5, 0.56, 0.56}, b.Scale, 1e-5, "got %v", b.Scale)

	h.scroll(-100, KeyZ)
	assert.Equal(t, float32(0), b.Scale.Z())

	b.Color = mgl32.Vec3{1, 0, 0}
	h.scroll(3, KeyC)
	assert.InDelta(t, 6, core.ToHSL(b.Color).H, 0.5)

	dist := h.cam.Dist
	h.scroll(1)
	assert.Less(t, h.cam.Dist, dist, "scroll without a modifier zooms")
}

func TestEditorScrollWithoutSelectionZooms(t *testing.T) {
	h := newEditorHarness()
	dist := h.cam.Dist
	h.scroll(-1, KeyB)
	assert.Greater(t, h.cam.Dist, dist)
}

func TestEditorDeleteDepthAndWireframes(t *testing.T) {
	h := newEditorHarness()
	h.placeAndSelect(t)

	h.in.Press(KeyLeftShift)
	h.tap(KeyBackspace)
	h.in.Release(KeyLeftShift)
	assert.Equal(t, 0, h.st.World.Len())
	assert.Equal(t, editor.Idle, h.st.World.State())

	h.tap(KeyRight)
	h.tap(KeyRight)
	assert.Equal(t, 2, h.st.World.Depth())
	h.tap(KeyLeft)
	h.tap(KeyLeft)
	h.tap(KeyLeft)
	assert.Equal(t, 0, h.st.World.Depth())

	require.True(t, h.st.Wireframes)
	h.tap(KeyTab)
	assert.False(t, h.st.Wireframes)
}

func TestEditorRefresh(t *testing.T) {
	h := newEditorHarness()
	h.tap(KeyN)

	require.NoError(t, h.st.Refresh())
	require.NotNil(t, h.st.Set)
	assert.Equal(t, compose.Full, h.st.Set.Kind)
	assert.Len(t, h.st.Set.Instances, 1)
	assert.False(t, h.st.World.Dirty())

	prev := h.st.Set
	require.NoError(t, h.st.Refresh())
	assert.Same(t, prev, h.st.Set, "clean world keeps its set")

	h.st.Config.Compose = compose.Options{Ceiling: 1, PointLimit: 4}
	h.in.Press(KeyLeftShift)
	h.tap(KeyN)
	h.tap(KeyN)
	h.in.Release(KeyLeftShift)
	h.st.World.SetDepth(1)

	err := h.st.Refresh()
	assert.ErrorIs(t, err, compose.ErrTooManyCombinations)
	assert.Same(t, prev, h.st.Set, "failed regeneration keeps the previous set")
}

func TestEditorRefreshFollowsDragAtDepthZero(t *testing.T) {
	h := newEditorHarness()
	h.tap(KeyN)
	require.NoError(t, h.st.Refresh())

	h.in.Press(MouseButtonLeft)
	h.frame()
	h.in.MoveMouse(760, 400)
	h.frame()
	require.NoError(t, h.st.Refresh())

	b, _ := h.st.World.SelectedBox()
	got := h.st.Set.Instances[0].Position
	assertVec3Near(t, b.Origin, got, 1e-5, "got %v want %v", got, b.Origin)
}

func TestEditorModuleRegeneratesInComposeStage(t *testing.T) {
	app := NewAppBuilder().UseModule(EditorModule{}).Build()
	require.True(t, app.HasStage(ComposeStage))

	var names []string
	for _, s := range app.stages {
		names = append(names, s.Name)
	}
	update := slices.Index(names, Update.Name)
	assert.Equal(t, []string{"Update", "Compose", "PostUpdate"}, names[update:update+3])
	assert.Len(t, app.systems[ComposeStage.Name], 1)
	assert.Empty(t, app.systems[PostUpdate.Name])
}
