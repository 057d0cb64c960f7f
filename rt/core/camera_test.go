package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestArcBallDefaultEye(t *testing.T) {
	c := NewArcBall()
	assertVec3Near(t, mgl32.Vec3{0, 0, -4}, c.Eye(), 1e-5)
	assert.InDelta(t, 4, c.Dist, 1e-6)
	assertVec3Near(t, mgl32.Vec3{0, 0, -4}, c.PlaneNormal(), 1e-5)
}

func TestArcBallUnprojectCenterLooksAtFocus(t *testing.T) {
	c := NewArcBall()
	r := c.Unproject(700, 400, 1400, 800)

	assertVec3Near(t, mgl32.Vec3{0, 0, -4}, r.Origin, 1e-5)
	assertVec3Near(t, mgl32.Vec3{0, 0, 1}, r.Direction, 1e-4)
}

func TestArcBallUnprojectMatchesProjection(t *testing.T) {
	c := NewArcBallAt(mgl32.Vec3{3, 2, -5}, mgl32.Vec3{0.5, 0, 0})
	w, h := 800, 600
	p := mgl32.Vec3{0.2, -0.3, 0.4}

	clip := c.ViewProj(float32(w) / float32(h)).Mul4x1(p.Vec4(1))
	sx := (clip.X()/clip.W() + 1) * 0.5 * float32(w)
	sy := (1 - clip.Y()/clip.W()) * 0.5 * float32(h)

	r := c.Unproject(float64(sx), float64(sy), w, h)
	toP := p.Sub(r.Origin).Normalize()
	assert.InDelta(t, 1, r.Direction.Dot(toP), 1e-4)
}

func TestArcBallOrbitKeepsDistance(t *testing.T) {
	c := NewArcBall()
	c.Orbit(120, -80)
	assert.InDelta(t, 4, c.Eye().Sub(c.At).Len(), 1e-4)

	c.Orbit(0, 1e6)
	assert.LessOrEqual(t, c.Pitch, float32(maxPitch))
}

func TestArcBallZoomClamps(t *testing.T) {
	c := NewArcBall()
	c.Zoom(1)
	assert.Less(t, c.Dist, float32(4))

	c.Zoom(-2)
	assert.Greater(t, c.Dist, float32(4))

	c.Zoom(1e4)
	assert.Equal(t, c.MinDist, c.Dist)
}

func TestArcBallPanMovesFocusSideways(t *testing.T) {
	c := NewArcBall()
	c.Pan(10, 0)
	assert.InDelta(t, 0, c.At.Z(), 1e-6)
	assert.NotZero(t, c.At.X())
	assert.InDelta(t, 4, c.Dist, 1e-6)
}
