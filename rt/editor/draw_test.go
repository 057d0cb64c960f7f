package editor

import (
	"testing"

	"github.com/gekko3d/fractalbox/rt/compose"
	"github.com/gekko3d/fractalbox/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countColor(dl core.DrawList, c mgl32.Vec3) int {
	n := 0
	for _, s := range dl.Shapes {
		if s.Color == [4]float32(c.Vec4(1)) {
			n++
		}
	}
	return n
}

func TestOverlayLines(t *testing.T) {
	w := NewWorld()
	assert.Equal(t, []string{"iterations: 0", "cubes: 0"}, w.OverlayLines())

	w.CreateBox(mgl32.Vec3{0, 0, 5}, false)
	w.CreateBox(mgl32.Vec3{3, 0, 0}, false)
	w.SetDepth(2)
	w.OnPress(forward)

	lines := w.OverlayLines()
	require.Len(t, lines, 7)
	assert.Equal(t, "iterations: 2", lines[0])
	assert.Equal(t, "cubes: 8", lines[1])
	assert.Equal(t, "  0.50   0.00   0.00   0.00", lines[3])
	assert.Equal(t, "  0.00   0.00   0.50   5.00", lines[5])
	assert.Equal(t, "  0.00   0.00   0.00   1.00", lines[6])
}

func TestDrawListDepthZero(t *testing.T) {
	w := NewWorld()
	h := w.CreateBox(mgl32.Vec3{0, 0, 5}, false)
	w.UpdateHover(forward)
	w.OnPress(forward)

	cfg := DefaultConfig()
	set, err := w.RenderSet(cfg.Compose)
	require.NoError(t, err)

	dl := w.DrawList(set, cfg, true)
	// instance, reference cube, corner marker, selection outline
	require.Len(t, dl.Shapes, 4)

	b, _ := w.Box(h)
	assert.Equal(t, [4]float32(core.Lighten(b.Color, cfg.HoverTint).Vec4(1)), dl.Shapes[0].Color)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, b.Color, "hover never touches the stored color")

	last := dl.Shapes[len(dl.Shapes)-1]
	assert.Equal(t, [4]float32(SelectionColor.Vec4(1)), last.Color)
	assert.Equal(t, b.SelectionTransform(cfg.SelectionScale), last.ModelMatrix)

	assert.Len(t, w.DrawList(set, cfg, false).Shapes, 2)
}

func TestDrawListComposedShowsBaseOutlines(t *testing.T) {
	w := NewWorld()
	w.CreateBox(mgl32.Vec3{0, 0, 5}, false)
	w.CreateBox(mgl32.Vec3{3, 0, 0}, false)
	w.SetDepth(1)
	w.OnPress(forward)

	cfg := DefaultConfig()
	set, err := w.RenderSet(cfg.Compose)
	require.NoError(t, err)

	dl := w.DrawList(set, cfg, true)
	// 4 instances, reference cube, 2 markers, 1 unselected outline, selection
	assert.Len(t, dl.Shapes, 9)
	assert.Equal(t, 1, countColor(dl, BaseWireColor))
	assert.Equal(t, 2, countColor(dl, MarkerColor))

	sel, _ := w.SelectedBox()
	assert.Equal(t, sel.SelectionTransform(1), dl.Shapes[len(dl.Shapes)-1].ModelMatrix)
}

func TestDrawListPointCloud(t *testing.T) {
	w := NewWorld()
	w.CreateBox(mgl32.Vec3{1, 0, 0}, false)
	w.CreateBox(mgl32.Vec3{0, 1, 0}, false)
	w.SetDepth(2)

	set, err := w.RenderSet(compose.Options{Ceiling: 4})
	require.NoError(t, err)
	require.Equal(t, compose.PointCloud, set.Kind)

	dl := w.DrawList(set, DefaultConfig(), false)
	require.Len(t, dl.Shapes, 8)
	for _, s := range dl.Shapes {
		assert.Equal(t, core.ShapeCross, s.Type)
	}
}
