// Package compose builds the fractal instance set: every ordered selection of
// depth+1 base transforms multiplied together, with hues blended per
// selection.
package compose

import (
	"errors"
	"fmt"
	"math"

	"github.com/gekko3d/fractalbox/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultCeiling    = 25_000
	DefaultPointLimit = 1 << 21

	degenerateScale = 1e-6
)

var (
	ErrNegativeDepth       = errors.New("compose: negative iteration depth")
	ErrTooManyCombinations = errors.New("compose: too many combinations")
)

type Kind int

const (
	Full Kind = iota
	PointCloud
)

func (k Kind) String() string {
	switch k {
	case Full:
		return "full"
	case PointCloud:
		return "points"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Instance is one instantiated box of a Full render set.
type Instance struct {
	Transform mgl32.Mat4
	Position  mgl32.Vec3
	Rotation  mgl32.Quat
	Scale     mgl32.Vec3
	Color     mgl32.Vec3
}

// Point is one sample of a PointCloud render set. Point clouds are display
// only and are never picked.
type Point struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

type RenderSet struct {
	Kind      Kind
	Depth     int
	Count     int
	Instances []Instance
	Points    []Point
}

// Options bound the cost of Generate. Above Ceiling combinations the set is
// sampled as points; above PointLimit nothing is generated. A non-positive
// PointLimit means DefaultPointLimit.
type Options struct {
	Ceiling    int
	PointLimit int
}

func DefaultOptions() Options {
	return Options{Ceiling: DefaultCeiling, PointLimit: DefaultPointLimit}
}

// Count is n^(depth+1), saturating at math.MaxInt.
func Count(n, depth int) int {
	if n <= 0 || depth < 0 {
		return 0
	}
	c := 1
	for i := 0; i <= depth; i++ {
		if c > math.MaxInt/n {
			return math.MaxInt
		}
		c *= n
	}
	return c
}

// Generate produces the render set for boxes at the given depth. The result
// depends only on its arguments. Every Full instance is the box described by
// its decomposed Position, Rotation and Scale: shear picked up from the
// product is dropped. Above opts.PointLimit combinations nothing is built and
// the error wraps ErrTooManyCombinations, bounding memory.
func Generate(boxes []core.Box, depth int, opts Options) (*RenderSet, error) {
	if depth < 0 {
		return nil, ErrNegativeDepth
	}

	count := Count(len(boxes), depth)
	set := &RenderSet{Kind: Full, Depth: depth, Count: count}

	if depth == 0 {
		set.Instances = make([]Instance, 0, len(boxes))
		for i := range boxes {
			b := &boxes[i]
			set.Instances = append(set.Instances, Instance{
				Transform: b.Transform(),
				Position:  b.Origin,
				Rotation:  b.Orientation,
				Scale:     b.Scale,
				Color:     b.Color,
			})
		}
		return set, nil
	}

	limit := opts.PointLimit
	if limit <= 0 {
		limit = DefaultPointLimit
	}
	if count > limit {
		return nil, fmt.Errorf("%w: %d boxes at depth %d gives %d, limit %d",
			ErrTooManyCombinations, len(boxes), depth, count, limit)
	}
	if count == 0 {
		return set, nil
	}

	w := newWalker(boxes, depth)

	if count > opts.Ceiling {
		set.Kind = PointCloud
		set.Points = make([]Point, 0, count)
		w.visit = func(m mgl32.Mat4, hue mgl32.Vec2) {
			set.Points = append(set.Points, Point{
				Position: m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3(),
				Color:    w.color(hue),
			})
		}
	} else {
		set.Instances = make([]Instance, 0, count)
		w.visit = func(m mgl32.Mat4, hue mgl32.Vec2) {
			pos, rot, scale := Decompose(m)
			set.Instances = append(set.Instances, Instance{
				Transform: Recompose(pos, rot, scale),
				Position:  pos,
				Rotation:  rot,
				Scale:     scale,
				Color:     w.color(hue),
			})
		}
	}

	w.walk(0, mgl32.Ident4(), mgl32.Vec2{})
	return set, nil
}

// walker enumerates the Cartesian power depth-first so that a combination
// costs one matrix product and one vector add on top of its prefix.
type walker struct {
	transforms []mgl32.Mat4
	hues       []mgl32.Vec2
	pin        core.HSL
	last       int
	visit      func(m mgl32.Mat4, hue mgl32.Vec2)
}

func newWalker(boxes []core.Box, depth int) *walker {
	w := &walker{
		transforms: make([]mgl32.Mat4, len(boxes)),
		hues:       make([]mgl32.Vec2, len(boxes)),
		last:       depth,
	}
	for i := range boxes {
		w.transforms[i] = boxes[i].Transform()
		w.hues[i] = core.HueVector(core.ToHSL(boxes[i].Color).H)
	}
	// saturation and lightness are pinned to the first box
	w.pin = core.ToHSL(boxes[0].Color)
	return w
}

func (w *walker) walk(level int, prefix mgl32.Mat4, hue mgl32.Vec2) {
	for i := range w.transforms {
		m := prefix.Mul4(w.transforms[i])
		h := hue.Add(w.hues[i])
		if level == w.last {
			w.visit(m, h)
		} else {
			w.walk(level+1, m, h)
		}
	}
}

func (w *walker) color(hue mgl32.Vec2) mgl32.Vec3 {
	return core.HSL{H: core.HueOf(hue), S: w.pin.S, L: w.pin.L}.RGB()
}

// Recompose is T*R*S, the inverse of Decompose for shear-free matrices.
func Recompose(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// Decompose splits an affine matrix into translation, rotation and per-axis
// scale. Scale is the length of each column of the upper 3x3 block and the
// rotation is that block with its columns normalised. Shear is discarded.
func Decompose(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	pos := m.Col(3).Vec3()

	cols := [3]mgl32.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	var scale mgl32.Vec3
	degenerate, nDegenerate := -1, 0
	for i, c := range cols {
		scale[i] = c.Len()
		if scale[i] < degenerateScale {
			degenerate = i
			nDegenerate++
			continue
		}
		cols[i] = c.Mul(1 / scale[i])
	}

	switch nDegenerate {
	case 0:
	case 1:
		// rebuild the flattened axis from the two that survive
		a, b := cols[(degenerate+1)%3], cols[(degenerate+2)%3]
		c := a.Cross(b)
		if c.Len() < degenerateScale {
			return pos, mgl32.QuatIdent(), scale
		}
		cols[degenerate] = c.Normalize()
	default:
		return pos, mgl32.QuatIdent(), scale
	}

	basis := mgl32.Mat4FromCols(cols[0].Vec4(0), cols[1].Vec4(0), cols[2].Vec4(0), mgl32.Vec4{0, 0, 0, 1})
	return pos, mgl32.Mat4ToQuat(basis).Normalize(), scale
}
