package editor

import (
	"fmt"
	"strings"

	"github.com/gekko3d/fractalbox/rt/compose"
	"github.com/gekko3d/fractalbox/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	SelectionColor = mgl32.Vec3{1, 0.5, 0.5}
	BaseWireColor  = mgl32.Vec3{0.5, 0.5, 0.9}
	MarkerColor    = mgl32.Vec3{0, 1, 1}
	ReferenceColor = mgl32.Vec3{1, 1, 1}
)

const (
	PointSize    float32 = 0.02
	markerScale  float32 = 0.01
	markerOffset float32 = 1.05
)

var markerCorner = mgl32.Vec3{-0.5, 0.5, -0.5}

// DrawList turns the current render set plus editor feedback into shapes.
// Hover tint and selection are applied here only; box colors are untouched.
// wireframes toggles the reference cube, corner markers and the base
// outlines drawn over a composed fractal.
func (w *World) DrawList(set *compose.RenderSet, cfg Config, wireframes bool) core.DrawList {
	var dl core.DrawList
	boxes := w.store.Boxes()
	selected, hasSelection := w.selected()

	if set != nil {
		switch set.Kind {
		case compose.PointCloud:
			for _, p := range set.Points {
				dl.AddCross(p.Position, PointSize, p.Color)
			}
		default:
			for i, inst := range set.Instances {
				c := inst.Color
				if set.Depth == 0 && i < len(boxes) && boxes[i].Hovered {
					c = core.Lighten(c, cfg.HoverTint)
				}
				dl.AddCube(inst.Transform, c)
			}
		}
	}

	if wireframes {
		dl.AddCube(mgl32.Ident4(), ReferenceColor)

		for i := range boxes {
			b := &boxes[i]

			local := markerCorner.Mul(markerOffset)
			local = mgl32.Vec3{local[0] * b.Scale[0], local[1] * b.Scale[1], local[2] * b.Scale[2]}
			corner := b.Orientation.Rotate(local).Add(b.Origin)
			size := markerScale * b.Scale.Len()
			marker := mgl32.Translate3D(corner.X(), corner.Y(), corner.Z()).Mul4(mgl32.Scale3D(size, size, size))
			dl.AddCube(marker, MarkerColor)

			if w.depth == 0 || (hasSelection && b.Equal(selected)) {
				continue
			}
			c := BaseWireColor
			if b.Hovered {
				c = core.Lighten(c, cfg.HoverTint)
			}
			dl.AddCube(b.Transform(), c)
		}
	}

	if hasSelection {
		factor := float32(1)
		if w.depth == 0 {
			factor = cfg.SelectionScale
		}
		dl.AddCube(selected.SelectionTransform(factor), SelectionColor)
	}

	dl.Overlay = w.OverlayLines()
	return dl
}

// OverlayLines is the status text: depth, box count, and the selected box's
// transform when there is one.
func (w *World) OverlayLines() []string {
	lines := []string{
		fmt.Sprintf("iterations: %d", w.depth),
		fmt.Sprintf("cubes: %d", compose.Count(w.store.Len(), w.depth)),
	}

	b, ok := w.selected()
	if !ok {
		return lines
	}

	lines = append(lines, "selected transform (matrix representation)")
	m := b.Transform()
	for row := 0; row < 4; row++ {
		var sb strings.Builder
		for col := 0; col < 4; col++ {
			fmt.Fprintf(&sb, "%6.2f ", m.At(row, col))
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return lines
}
