package fractalbox

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/fractalbox/rt/core"
	"github.com/gekko3d/fractalbox/rt/gpu"
)

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

func createGpuState(s *WindowState) (*GpuState, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	// finds a suitable GPU (discrete GPU preferred)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	// defines how the swapchain behaves (size, format, vsync)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}

	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}, nil
}

// resize reconfigures the swapchain when the window size changed.
func (g *GpuState) resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if g.surfaceConfig.Width == uint32(width) && g.surfaceConfig.Height == uint32(height) {
		return false
	}
	g.surfaceConfig.Width = uint32(width)
	g.surfaceConfig.Height = uint32(height)
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)
	return true
}

func (g *GpuState) aspect() float32 {
	if g.surfaceConfig.Height == 0 {
		return 1
	}
	return float32(g.surfaceConfig.Width) / float32(g.surfaceConfig.Height)
}

func (g *GpuState) release() {
	g.queue.Release()
	g.device.Release()
	g.adapter.Release()
	g.surface.Release()
}

// RendererModule draws the editor's draw list as instanced lines into the
// window, with the overlay text in the window title.
type RendererModule struct {
	ClearColor wgpu.Color
}

type rendererState struct {
	wire   *gpu.WireRenderPass
	failed bool
}

func (m RendererModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, "wire")
	ws, ok := Resource[WindowState](app)
	if !ok {
		panic("RendererModule requires PlatformWindowModule")
	}
	gs, err := createGpuState(ws)
	if err != nil {
		app.Logger().Errorf("gpu: %v", err)
		panic(err)
	}
	wire, err := gpu.NewWireRenderPass(gs.device, gs.surfaceConfig.Format)
	if err != nil {
		app.Logger().Errorf("wire pipeline: %v", err)
		panic(err)
	}

	background := m.ClearColor
	if background == (wgpu.Color{}) {
		background = wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0}
	}

	cmd.AddResources(gs, &rendererState{wire: wire}, &clearColor{background})
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	).UseSystem(
		System(overlayTitleSystem).
			InStage(PostRender),
	)
}

type clearColor struct {
	wgpu.Color
}

func renderSystem(cmd *Commands, ws *WindowState, input *Input, gs *GpuState, rs *rendererState, cc *clearColor, st *EditorState, cam *core.ArcBall) {
	if gs.resize(input.WindowWidth, input.WindowHeight) {
		ws.WindowWidth, ws.WindowHeight = input.WindowWidth, input.WindowHeight
	}
	if err := renderFrame(gs, rs.wire, cc.Color, st.DrawList, cam); err != nil {
		if !rs.failed {
			cmd.Logger().Errorf("render: %v", err)
		}
		rs.failed = true
		return
	}
	rs.failed = false
}

func renderFrame(gs *GpuState, wire *gpu.WireRenderPass, background wgpu.Color, dl core.DrawList, cam *core.ArcBall) error {
	if err := wire.Update(gs.queue, cam.ViewProj(gs.aspect()), dl.Shapes); err != nil {
		return err
	}

	nextTexture, err := gs.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := gs.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: background,
			},
		},
	})
	defer renderPass.Release()

	wire.Draw(renderPass)

	if err := renderPass.End(); err != nil {
		return err
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	gs.queue.Submit(cmdBuffer)
	gs.surface.Present()
	return nil
}

func overlayTitleSystem(ws *WindowState, st *EditorState, t *Time) {
	ws.SetTitle(OverlayTitle(st.DrawList.Overlay, t.FPS()))
}

// OverlayTitle flattens the overlay into one window caption.
func OverlayTitle(lines []string, fps float64) string {
	parts := make([]string, 0, len(lines)+2)
	parts = append(parts, "fractalbox")
	for _, l := range lines {
		parts = append(parts, strings.Join(strings.Fields(l), " "))
	}
	if fps > 0 {
		parts = append(parts, fmt.Sprintf("%.0f fps", fps))
	}
	return strings.Join(parts, " | ")
}

// ReleaseRenderer frees GPU objects and the window once the App stopped.
func ReleaseRenderer(app *App) {
	if rs, ok := Resource[rendererState](app); ok && rs.wire != nil {
		rs.wire.Release()
		rs.wire = nil
	}
	if gs, ok := Resource[GpuState](app); ok {
		gs.release()
	}
	if ws, ok := Resource[WindowState](app); ok {
		ws.Destroy()
	}
}
