package gpu

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/gekko3d/fractalbox/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceLayoutMatchesShader(t *testing.T) {
	assert.Equal(t, uintptr(12), unsafe.Sizeof(WireVertex{}))
	assert.Equal(t, uintptr(80), unsafe.Sizeof(WireInstance{}))
}

func TestBuildVertices(t *testing.T) {
	p := &WireRenderPass{
		ShapeOffsets: make(map[core.ShapeType]uint32),
		ShapeCounts:  make(map[core.ShapeType]uint32),
	}
	v := p.buildVertices()

	assert.Len(t, v, 24+6)
	assert.Equal(t, uint32(0), p.ShapeOffsets[core.ShapeCube])
	assert.Equal(t, uint32(24), p.ShapeCounts[core.ShapeCube])
	assert.Equal(t, uint32(24), p.ShapeOffsets[core.ShapeCross])
	assert.Equal(t, uint32(6), p.ShapeCounts[core.ShapeCross])
}

func TestGroupInstancesKeepsTypesContiguous(t *testing.T) {
	var dl core.DrawList
	dl.AddCross(mgl32.Vec3{1, 0, 0}, 1, mgl32.Vec3{1, 0, 0})
	dl.AddCube(mgl32.Ident4(), mgl32.Vec3{0, 1, 0})
	dl.AddCross(mgl32.Vec3{2, 0, 0}, 1, mgl32.Vec3{1, 0, 0})
	dl.AddCube(mgl32.Ident4(), mgl32.Vec3{0, 0, 1})

	all, counts := GroupInstances(dl.Shapes)
	require.Len(t, all, 4)
	assert.Equal(t, uint32(2), counts[core.ShapeCube])
	assert.Equal(t, uint32(2), counts[core.ShapeCross])

	assert.Equal(t, [4]float32{0, 1, 0, 1}, all[0].Color)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, all[1].Color)
	assert.Equal(t, float32(1), all[2].ModelMat.Col(3).X())
	assert.Equal(t, float32(2), all[3].ModelMat.Col(3).X())
}

func TestPackCameraAppliesDepthRemap(t *testing.T) {
	buf := PackCamera(mgl32.Ident4())
	require.Len(t, buf, CameraUniformSize)

	at := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	assert.Equal(t, float32(1), at(0))
	assert.Equal(t, float32(0.5), at(10))
	assert.Equal(t, float32(0.5), at(14))
	assert.Equal(t, float32(1), at(15))
	assert.Equal(t, float32(0), at(16), "padding stays zero")
}
