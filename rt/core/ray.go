package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a world-space half line. Direction does not need to be unit length;
// hit times are expressed in multiples of it.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
