package pick

import (
	"math"

	"github.com/gekko3d/fractalbox/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

const parallelEpsilon = 1e-8

// Hit describes the closest box under a ray.
type Hit struct {
	Index  int
	T      float32
	Impact mgl32.Vec3
}

// Nearest casts ray against every box and returns the one with the smallest
// non-negative hit time. Equal times keep the earlier box.
func Nearest(boxes []core.Box, ray core.Ray) (Hit, bool) {
	best := Hit{Index: -1, T: float32(math.Inf(1))}

	for i := range boxes {
		b := &boxes[i]
		t, ok := IntersectCuboid(b.Origin, b.Orientation, b.HalfExtents(), ray)
		if !ok || t >= best.T {
			continue
		}
		best.Index = i
		best.T = t
	}

	if best.Index < 0 {
		return Hit{Index: -1}, false
	}
	best.Impact = ray.At(best.T)
	return best, true
}

// IntersectCuboid intersects ray with a solid cuboid of the given
// half-extents placed by origin and orientation. A ray starting inside the
// cuboid hits at t = 0.
func IntersectCuboid(origin mgl32.Vec3, orientation mgl32.Quat, half mgl32.Vec3, ray core.Ray) (float32, bool) {
	// Move the ray into the cuboid's frame; rotation keeps t comparable.
	inv := orientation.Normalize().Conjugate()
	ro := inv.Rotate(ray.Origin.Sub(origin))
	rd := inv.Rotate(ray.Direction)

	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o := float64(ro[axis])
		d := float64(rd[axis])
		h := float64(half[axis])

		if math.Abs(d) < parallelEpsilon {
			if o < -h || o > h {
				return 0, false
			}
			continue
		}

		t1 := (-h - o) / d
		t2 := (h - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	return float32(math.Max(tMin, 0)), true
}

// IntersectPlane returns the hit time of ray against the plane through point
// with the given normal. ok is false when the ray is parallel to the plane or
// the plane lies behind the ray origin.
func IntersectPlane(point, normal mgl32.Vec3, ray core.Ray) (float32, bool) {
	denom := normal.Dot(ray.Direction)
	if math.Abs(float64(denom)) < parallelEpsilon {
		return 0, false
	}
	t := point.Sub(ray.Origin).Dot(normal) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
