package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	minPitch = -math.Pi/2 + 0.01
	maxPitch = math.Pi/2 - 0.01
)

// ArcBall orbits a focus point at a distance. Y is up.
type ArcBall struct {
	At    mgl32.Vec3
	Yaw   float32
	Pitch float32
	Dist  float32

	FovY        float32 // radians
	Near, Far   float32
	MinDist     float32
	MaxDist     float32
	Sensitivity float32
	ZoomStep    float32
}

// NewArcBall looks from (0,0,-4) at the world origin.
func NewArcBall() *ArcBall {
	return NewArcBallAt(mgl32.Vec3{0, 0, -4}, mgl32.Vec3{})
}

func NewArcBallAt(eye, at mgl32.Vec3) *ArcBall {
	c := &ArcBall{
		At:          at,
		FovY:        mgl32.DegToRad(45),
		Near:        0.05,
		Far:         1000,
		MinDist:     0.05,
		MaxDist:     500,
		Sensitivity: 0.005,
		ZoomStep:    0.1,
	}
	c.LookFrom(eye)
	return c
}

// LookFrom moves the camera to eye keeping the focus point.
func (c *ArcBall) LookFrom(eye mgl32.Vec3) {
	d := eye.Sub(c.At)
	c.Dist = d.Len()
	if c.Dist == 0 {
		c.Yaw, c.Pitch = 0, 0
		return
	}
	c.Pitch = float32(math.Asin(float64(mgl32.Clamp(d.Y()/c.Dist, -1, 1))))
	c.Pitch = mgl32.Clamp(c.Pitch, minPitch, maxPitch)
	c.Yaw = float32(math.Atan2(float64(d.X()), float64(d.Z())))
}

func (c *ArcBall) Eye() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	offset := mgl32.Vec3{
		cp * float32(math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		cp * float32(math.Cos(float64(c.Yaw))),
	}
	return c.At.Add(offset.Mul(c.Dist))
}

// PlaneNormal is eye - at, the normal of the placement plane.
func (c *ArcBall) PlaneNormal() mgl32.Vec3 {
	return c.Eye().Sub(c.At)
}

func (c *ArcBall) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.At, mgl32.Vec3{0, 1, 0})
}

func (c *ArcBall) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

func (c *ArcBall) ViewProj(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}

// Unproject turns a cursor position in window pixels into a world ray from
// the eye.
func (c *ArcBall) Unproject(x, y float64, width, height int) Ray {
	width, height = max(width, 1), max(height, 1)
	nx := 2*float32(x)/float32(width) - 1
	ny := 1 - 2*float32(y)/float32(height)

	eye := c.Eye()
	forward, right, up := c.basis()

	aspect := float32(width) / float32(height)
	tanHalfFov := float32(math.Tan(float64(c.FovY / 2)))

	dir := forward.Add(right.Mul(nx * aspect * tanHalfFov)).Add(up.Mul(ny * tanHalfFov))
	return Ray{Origin: eye, Direction: dir.Normalize()}
}

func (c *ArcBall) basis() (forward, right, up mgl32.Vec3) {
	forward = c.At.Sub(c.Eye()).Normalize()
	right = forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

// Orbit rotates around the focus point by a cursor movement in pixels.
func (c *ArcBall) Orbit(dx, dy float64) {
	c.Yaw -= float32(dx) * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+float32(dy)*c.Sensitivity, minPitch, maxPitch)
}

// Pan slides the focus point in the view plane by a cursor movement in
// pixels, scaled with the distance.
func (c *ArcBall) Pan(dx, dy float64) {
	_, right, up := c.basis()
	k := c.Dist * c.Sensitivity * 0.2
	c.At = c.At.Add(right.Mul(-float32(dx) * k)).Add(up.Mul(float32(dy) * k))
}

// Zoom moves toward the focus point for positive wheel offsets.
func (c *ArcBall) Zoom(offset float64) {
	f := float32(math.Pow(float64(1+c.ZoomStep), -offset))
	c.Dist = mgl32.Clamp(c.Dist*f, c.MinDist, c.MaxDist)
}
