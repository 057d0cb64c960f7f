package core

import "github.com/go-gl/mathgl/mgl32"

type ShapeType int

const (
	ShapeCube  ShapeType = iota // unit cube wireframe, -0.5..0.5
	ShapeCross                  // three unit axis segments through the origin
)

// Shape is one wireframe instance handed to a renderer.
type Shape struct {
	Type        ShapeType
	Color       [4]float32
	ModelMatrix mgl32.Mat4
}

// DrawList is everything a renderer needs for one frame.
type DrawList struct {
	Shapes  []Shape
	Overlay []string
}

func (d *DrawList) AddCube(model mgl32.Mat4, color mgl32.Vec3) {
	d.Shapes = append(d.Shapes, Shape{Type: ShapeCube, Color: color.Vec4(1), ModelMatrix: model})
}

func (d *DrawList) AddCross(at mgl32.Vec3, size float32, color mgl32.Vec3) {
	model := mgl32.Translate3D(at.X(), at.Y(), at.Z()).Mul4(mgl32.Scale3D(size, size, size))
	d.Shapes = append(d.Shapes, Shape{Type: ShapeCross, Color: color.Vec4(1), ModelMatrix: model})
}

// Segments returns the model-space line segments of a shape type.
func (t ShapeType) Segments() [][2]mgl32.Vec3 {
	switch t {
	case ShapeCross:
		return [][2]mgl32.Vec3{
			{{-0.5, 0, 0}, {0.5, 0, 0}},
			{{0, -0.5, 0}, {0, 0.5, 0}},
			{{0, 0, -0.5}, {0, 0, 0.5}},
		}
	default:
		return UnitCubeEdges[:]
	}
}
