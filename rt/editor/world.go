// Package editor is the box editing state machine: it owns the boxes, the
// selection and the active drag, and decides when the fractal needs to be
// rebuilt.
package editor

import (
	"errors"
	"fmt"

	"github.com/gekko3d/fractalbox/rt/compose"
	"github.com/gekko3d/fractalbox/rt/core"
	"github.com/gekko3d/fractalbox/rt/pick"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var ErrPlacementParallel = errors.New("editor: placement ray does not meet the camera plane")

type State int

const (
	Idle State = iota
	Selected
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DragState is captured when a press lands on a box and lives until release.
type DragState struct {
	// Orientation of the box at press time.
	OriginOrientation mgl32.Quat
	// World-space vector from the box origin to the grabbed point at press.
	LocalHandleOffset mgl32.Vec3
	// Distance from the ray origin to the grabbed point at press.
	CameraDist float32
}

type World struct {
	store     Store
	selection Handle
	drag      *DragState
	depth     int
	dirty     bool
	session   uuid.UUID
}

func NewWorld() *World {
	return &World{
		session: uuid.New(),
		dirty:   true,
	}
}

// Session identifies this World in logs and output file names.
func (w *World) Session() uuid.UUID {
	return w.session
}

func (w *World) Len() int {
	return w.store.Len()
}

// Bases are the boxes in store order. The slice is only valid until the next
// create or delete.
func (w *World) Bases() []core.Box {
	return w.store.Boxes()
}

func (w *World) Box(h Handle) (*core.Box, bool) {
	return w.store.Get(h)
}

// Pick returns the box nearest along ray and the world-space impact point.
func (w *World) Pick(ray core.Ray) (Handle, mgl32.Vec3, bool) {
	hit, ok := pick.Nearest(w.store.Boxes(), ray)
	if !ok {
		return Handle{}, mgl32.Vec3{}, false
	}
	return w.store.HandleAt(hit.Index), hit.Impact, true
}

// UpdateHover flags exactly the box under ray as hovered.
func (w *World) UpdateHover(ray core.Ray) (Handle, bool) {
	boxes := w.store.Boxes()
	hit, ok := pick.Nearest(boxes, ray)
	for i := range boxes {
		boxes[i].Hovered = ok && i == hit.Index
	}
	if !ok {
		return Handle{}, false
	}
	return w.store.HandleAt(hit.Index), true
}

// OnPress selects the box under ray and starts dragging it. A press on empty
// space clears the selection.
func (w *World) OnPress(ray core.Ray) State {
	h, impact, ok := w.Pick(ray)
	if !ok {
		w.Deselect()
		return Idle
	}

	b, _ := w.store.Get(h)
	w.selection = h
	w.drag = &DragState{
		OriginOrientation: b.Orientation,
		LocalHandleOffset: impact.Sub(b.Origin),
		CameraDist:        ray.Origin.Sub(impact).Len(),
	}
	return Dragging
}

// OnRelease ends the drag, keeping the selection.
func (w *World) OnRelease() {
	if w.drag == nil {
		return
	}
	w.drag = nil
	w.dirty = true
}

// OnDragTick moves the dragged box so its grab point sits on ray at the
// distance measured at press. Rotation applied since the press carries the
// grab offset with it.
func (w *World) OnDragTick(ray core.Ray) bool {
	b, ok := w.selected()
	if !ok || w.drag == nil {
		return false
	}
	if ray.Direction.Len() == 0 {
		return false
	}

	rotation := b.Orientation.Mul(w.drag.OriginOrientation.Inverse())
	terminus := ray.Origin.Add(ray.Direction.Normalize().Mul(w.drag.CameraDist))
	b.Origin = terminus.Sub(rotation.Rotate(w.drag.LocalHandleOffset))
	return true
}

// CreateBox adds a default box at origin, twice the default size when
// doubled. The new box is not selected.
func (w *World) CreateBox(origin mgl32.Vec3, doubled bool) Handle {
	h := w.store.Create()
	b, _ := w.store.Get(h)
	b.Origin = origin
	if doubled {
		b.Scale = b.Scale.Mul(2)
	}
	w.dirty = true
	return h
}

// PlaceBox creates a box where ray meets the plane through the world origin
// with the given normal.
func (w *World) PlaceBox(ray core.Ray, planeNormal mgl32.Vec3, doubled bool) (Handle, error) {
	t, ok := pick.IntersectPlane(mgl32.Vec3{}, planeNormal, ray)
	if !ok {
		return Handle{}, ErrPlacementParallel
	}
	return w.CreateBox(ray.At(t), doubled), nil
}

func (w *World) DeleteSelected() bool {
	h, ok := w.Selection()
	if !ok {
		return false
	}
	w.store.Remove(h)
	w.selection = Handle{}
	w.drag = nil
	w.dirty = true
	return true
}

func (w *World) Deselect() {
	w.selection = Handle{}
	w.drag = nil
}

// EditSelected applies e to the selected box. It reports false when nothing
// is selected or the edit does not apply in the current state.
func (w *World) EditSelected(e Edit) bool {
	b, ok := w.selected()
	if !ok {
		return false
	}
	if !e.apply(b, w.drag != nil) {
		return false
	}
	w.dirty = true
	return true
}

// Selection resolves the selected handle. A handle whose box is gone clears
// the selection and any drag.
func (w *World) Selection() (Handle, bool) {
	if w.selection.IsZero() {
		return Handle{}, false
	}
	if !w.store.Contains(w.selection) {
		w.Deselect()
		return Handle{}, false
	}
	return w.selection, true
}

func (w *World) SelectedBox() (*core.Box, bool) {
	return w.selected()
}

func (w *World) selected() (*core.Box, bool) {
	h, ok := w.Selection()
	if !ok {
		return nil, false
	}
	return w.store.Get(h)
}

// Drag returns a copy of the active drag.
func (w *World) Drag() (DragState, bool) {
	if _, ok := w.Selection(); !ok || w.drag == nil {
		return DragState{}, false
	}
	return *w.drag, true
}

func (w *World) State() State {
	if _, ok := w.Selection(); !ok {
		return Idle
	}
	if w.drag != nil {
		return Dragging
	}
	return Selected
}

func (w *World) IsDragging() bool {
	return w.State() == Dragging
}

func (w *World) Depth() int {
	return w.depth
}

// SetDepth ignores negative values.
func (w *World) SetDepth(d int) bool {
	if d < 0 || d == w.depth {
		return false
	}
	w.depth = d
	w.dirty = true
	return true
}

func (w *World) IncreaseDepth() {
	w.SetDepth(w.depth + 1)
}

// DecreaseDepth stops at zero.
func (w *World) DecreaseDepth() bool {
	return w.SetDepth(w.depth - 1)
}

// Dirty reports whether boxes or depth changed since the last TakeDirty.
func (w *World) Dirty() bool {
	return w.dirty
}

func (w *World) TakeDirty() bool {
	d := w.dirty
	w.dirty = false
	return d
}

func (w *World) MarkDirty() {
	w.dirty = true
}

// RenderSet composes the current boxes at the current depth.
func (w *World) RenderSet(opts compose.Options) (*compose.RenderSet, error) {
	return compose.Generate(w.store.Boxes(), w.depth, opts)
}
