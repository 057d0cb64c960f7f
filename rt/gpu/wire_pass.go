package gpu

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/fractalbox/rt/core"
	"github.com/gekko3d/fractalbox/rt/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraUniformSize is the padded size of CameraData in wire.wgsl.
const CameraUniformSize = 256

// WireVertex matches the WGSL VertexInput
type WireVertex struct {
	Pos [3]float32
}

// WireInstance matches the WGSL instance attributes
type WireInstance struct {
	ModelMat mgl32.Mat4
	Color    [4]float32
}

// shapeOrder fixes where each shape's vertices and instances live.
var shapeOrder = []core.ShapeType{core.ShapeCube, core.ShapeCross}

// ClipCorrection maps OpenGL-style clip depth (-1..1) onto WebGPU's 0..1.
var ClipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

type WireRenderPass struct {
	Pipeline        *wgpu.RenderPipeline
	CameraBuffer    *wgpu.Buffer
	CameraBindGroup *wgpu.BindGroup
	VertexBuffer    *wgpu.Buffer
	ShapeOffsets    map[core.ShapeType]uint32
	ShapeCounts     map[core.ShapeType]uint32
	InstanceBuffer  *wgpu.Buffer
	InstanceCap     uint32
	InstanceCounts  map[core.ShapeType]uint32
	Device          *wgpu.Device
}

func NewWireRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*WireRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "WireShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.WireWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "WireCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: CameraUniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	instanceAttrs := make([]wgpu.VertexAttribute, 0, 5)
	for i := 0; i < 5; i++ {
		instanceAttrs = append(instanceAttrs, wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(16 * i),
			ShaderLocation: uint32(2 + i),
		})
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "WirePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(WireVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         0,
							ShaderLocation: 0,
						},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(WireInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes:  instanceAttrs,
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	p := &WireRenderPass{
		Pipeline:       pipeline,
		Device:         device,
		ShapeOffsets:   make(map[core.ShapeType]uint32),
		ShapeCounts:    make(map[core.ShapeType]uint32),
		InstanceCounts: make(map[core.ShapeType]uint32),
	}

	vertices := p.buildVertices()
	vSize := uint64(len(vertices) * int(unsafe.Sizeof(WireVertex{})))
	p.VertexBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "WireUnitVertexBuffer",
		Size:  vSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	device.GetQueue().WriteBuffer(p.VertexBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), vSize))

	p.CameraBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "WireCameraUB",
		Size:  CameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	p.CameraBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "WireCameraBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  p.CameraBuffer,
				Size:    CameraUniformSize,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// buildVertices lays out every shape's line segments back to back and records
// their ranges.
func (p *WireRenderPass) buildVertices() []WireVertex {
	var vertices []WireVertex
	for _, t := range shapeOrder {
		p.ShapeOffsets[t] = uint32(len(vertices))
		for _, seg := range t.Segments() {
			vertices = append(vertices, WireVertex{Pos: seg[0]}, WireVertex{Pos: seg[1]})
		}
		p.ShapeCounts[t] = uint32(len(vertices)) - p.ShapeOffsets[t]
	}
	return vertices
}

// PackCamera encodes the view-projection matrix into the camera uniform
// layout.
func PackCamera(viewProj mgl32.Mat4) []byte {
	buf := make([]byte, CameraUniformSize)
	m := ClipCorrection.Mul4(viewProj)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// GroupInstances orders shapes by type so each type is one contiguous
// instanced draw.
func GroupInstances(shapes []core.Shape) ([]WireInstance, map[core.ShapeType]uint32) {
	counts := make(map[core.ShapeType]uint32)
	byShape := make(map[core.ShapeType][]WireInstance)
	for _, s := range shapes {
		byShape[s.Type] = append(byShape[s.Type], WireInstance{ModelMat: s.ModelMatrix, Color: s.Color})
		counts[s.Type]++
	}

	all := make([]WireInstance, 0, len(shapes))
	for _, t := range shapeOrder {
		all = append(all, byShape[t]...)
	}
	return all, counts
}

func (p *WireRenderPass) Update(queue *wgpu.Queue, viewProj mgl32.Mat4, shapes []core.Shape) error {
	queue.WriteBuffer(p.CameraBuffer, 0, PackCamera(viewProj))

	all, counts := GroupInstances(shapes)
	p.InstanceCounts = counts
	if len(all) == 0 {
		return nil
	}

	instanceCount := uint32(len(all))
	sizeBytes := uint64(len(all) * int(unsafe.Sizeof(WireInstance{})))

	if p.InstanceBuffer == nil || p.InstanceCap < instanceCount {
		if p.InstanceBuffer != nil {
			p.InstanceBuffer.Release()
		}
		p.InstanceCap = instanceCount + 128
		var err error
		p.InstanceBuffer, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "WireInstanceBuffer",
			Size:  uint64(p.InstanceCap) * uint64(unsafe.Sizeof(WireInstance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.InstanceBuffer = nil
			p.InstanceCap = 0
			return err
		}
	}

	queue.WriteBuffer(p.InstanceBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&all[0])), sizeBytes))
	return nil
}

func (p *WireRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.InstanceBuffer == nil {
		return
	}

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.CameraBindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetVertexBuffer(1, p.InstanceBuffer, 0, p.InstanceBuffer.GetSize())

	var instanceOffset uint32
	for _, t := range shapeOrder {
		count := p.InstanceCounts[t]
		if count > 0 {
			pass.Draw(p.ShapeCounts[t], count, p.ShapeOffsets[t], instanceOffset)
		}
		instanceOffset += count
	}
}

func (p *WireRenderPass) Release() {
	if p.InstanceBuffer != nil {
		p.InstanceBuffer.Release()
	}
	if p.VertexBuffer != nil {
		p.VertexBuffer.Release()
	}
	if p.CameraBindGroup != nil {
		p.CameraBindGroup.Release()
	}
	if p.CameraBuffer != nil {
		p.CameraBuffer.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
