package fractalbox

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

// SetTitle changes the window caption; the renderer puts the overlay there.
func (s *WindowState) SetTitle(title string) {
	if s.windowGlfw == nil || title == s.windowTitle {
		return
	}
	s.windowTitle = title
	s.windowGlfw.SetTitle(title)
}

func (s *WindowState) Title() string {
	return s.windowTitle
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}, nil
}

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is created
// and made available as a resource for the renderer and input modules.
// Install is idempotent: if a WindowState resource already exists, it is reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow creates a module that provides a shared WindowState resource.
// If Width/Height are zero, the editor's default 1400x800 is used.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1400
	}
	if height <= 0 {
		height = 800
	}
	if title == "" {
		title = "fractalbox"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

// Install provides the WindowState resource if missing.
func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	t := reflect.TypeOf((*WindowState)(nil)).Elem()
	if _, ok := app.resources[t]; ok {
		return
	}

	ws, err := createWindowState(m.Width, m.Height, m.Title)
	if err != nil {
		app.Logger().Errorf("%v", err)
		panic(err)
	}
	app.addResources(ws)
	app.UseSystem(
		System(windowCloseSystem).
			InStage(Finale),
	)
}

func windowCloseSystem(cmd *Commands, s *WindowState) {
	if s.windowGlfw.ShouldClose() {
		cmd.Quit()
	}
}

// Destroy releases the GLFW window and terminates GLFW.
func (s *WindowState) Destroy() {
	if s.windowGlfw != nil {
		s.windowGlfw.Destroy()
		s.windowGlfw = nil
	}
	glfw.Terminate()
}
