package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

const DefaultBoxScale float32 = 0.5

var DefaultBoxColor = mgl32.Vec3{1, 1, 1}

// UnitCubeEdges are the 12 edges of the cube spanning -0.5..0.5 on each axis.
var UnitCubeEdges = buildUnitCubeEdges()

func buildUnitCubeEdges() [12][2]mgl32.Vec3 {
	var edges [12][2]mgl32.Vec3
	n := 0
	// Two corners share an edge when they differ in exactly one coordinate.
	for a := 0; a < 8; a++ {
		for axis := 0; axis < 3; axis++ {
			b := a | (1 << axis)
			if b == a {
				continue
			}
			edges[n] = [2]mgl32.Vec3{cubeCorner(a), cubeCorner(b)}
			n++
		}
	}
	return edges
}

func cubeCorner(bits int) mgl32.Vec3 {
	var c mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		if bits&(1<<axis) != 0 {
			c[axis] = 0.5
		} else {
			c[axis] = -0.5
		}
	}
	return c
}

// Box is one placeable cuboid. Its geometry is the unit cube transformed by
// Transform().
type Box struct {
	Id          uint64
	Origin      mgl32.Vec3
	Orientation mgl32.Quat
	Scale       mgl32.Vec3
	Color       mgl32.Vec3
	Hovered     bool
}

func NewBox(id uint64) Box {
	return Box{
		Id:          id,
		Orientation: mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{DefaultBoxScale, DefaultBoxScale, DefaultBoxScale},
		Color:       DefaultBoxColor,
	}
}

// Equal reports whether both values refer to the same box. Field contents are
// ignored: boxes are edited in place and compared against older copies.
func (b *Box) Equal(other *Box) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Id == other.Id
}

// Isometry is the rigid placement T*R, scale excluded.
func (b *Box) Isometry() mgl32.Mat4 {
	translate := mgl32.Translate3D(b.Origin.X(), b.Origin.Y(), b.Origin.Z())
	return translate.Mul4(b.Orientation.Mat4())
}

// Transform is the full placement T*R*S.
func (b *Box) Transform() mgl32.Mat4 {
	return b.Isometry().Mul4(mgl32.Scale3D(b.Scale.X(), b.Scale.Y(), b.Scale.Z()))
}

// SelectionTransform is the full placement with an extra uniform factor
// applied before the box's own scale.
func (b *Box) SelectionTransform(factor float32) mgl32.Mat4 {
	return b.Isometry().
		Mul4(mgl32.Scale3D(factor, factor, factor)).
		Mul4(mgl32.Scale3D(b.Scale.X(), b.Scale.Y(), b.Scale.Z()))
}

// HalfExtents of the cuboid used for picking together with Isometry.
func (b *Box) HalfExtents() mgl32.Vec3 {
	return b.Scale.Mul(0.5)
}

// Edges returns the wireframe segments in world space.
func (b *Box) Edges() [12][2]mgl32.Vec3 {
	m := b.Transform()
	var out [12][2]mgl32.Vec3
	for i, e := range UnitCubeEdges {
		out[i][0] = m.Mul4x1(e[0].Vec4(1)).Vec3()
		out[i][1] = m.Mul4x1(e[1].Vec4(1)).Vec3()
	}
	return out
}

// ClampScale floors every scale component at zero.
func (b *Box) ClampScale() {
	for i := range b.Scale {
		if b.Scale[i] < 0 {
			b.Scale[i] = 0
		}
	}
}
