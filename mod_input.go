package fractalbox

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyEscape
	KeyTab
	KeyBackspace
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyLeftShift
	KeyRightShift
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

type InputModule struct{}

type Input struct {
	Pressed [256]bool

	JustPressed  [256]bool
	JustReleased [256]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64

	// ScrollY is the vertical wheel offset accumulated during the last poll.
	ScrollY float64

	WindowWidth, WindowHeight int

	pendingScroll float64
	hooked        bool
}

// Shift reports whether either shift key is held.
func (in *Input) Shift() bool {
	return in.Pressed[KeyLeftShift] || in.Pressed[KeyRightShift]
}

// Press records key as held for this frame, setting JustPressed on the edge.
func (in *Input) Press(key int) {
	in.JustPressed[key] = !in.Pressed[key]
	in.JustReleased[key] = false
	in.Pressed[key] = true
}

// Release records key as up for this frame, setting JustReleased on the edge.
func (in *Input) Release(key int) {
	in.JustReleased[key] = in.Pressed[key]
	in.JustPressed[key] = false
	in.Pressed[key] = false
}

// MoveMouse sets the cursor position and the delta since the last position.
func (in *Input) MoveMouse(x, y float64) {
	in.MouseDeltaX = x - in.MouseX
	in.MouseDeltaY = y - in.MouseY
	in.MouseX = x
	in.MouseY = y
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

func inputSystem(s *WindowState, input *Input) {
	if !input.hooked {
		s.windowGlfw.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
			input.pendingScroll += yoff
		})
		input.hooked = true
	}

	glfw.PollEvents()

	input.ScrollY = input.pendingScroll
	input.pendingScroll = 0

	// Update Keyboard
	for key, glfwKey := range keyToGlfw {
		if glfw.Press == s.windowGlfw.GetKey(glfwKey) {
			input.Press(key)
		} else {
			input.Release(key)
		}
	}

	input.MoveMouse(s.windowGlfw.GetCursorPos())

	// Update window dimensions
	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()

	// Update mouse buttons
	for btn, glfwBtn := range buttonToGlfw {
		if glfw.Press == s.windowGlfw.GetMouseButton(glfwBtn) {
			input.Press(btn)
		} else {
			input.Release(btn)
		}
	}
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:   glfw.MouseButtonLeft,
	MouseButtonRight:  glfw.MouseButtonRight,
	MouseButtonMiddle: glfw.MouseButtonMiddle,
}

var keyToGlfw = map[int]glfw.Key{
	KeyA:          glfw.KeyA,
	KeyB:          glfw.KeyB,
	KeyC:          glfw.KeyC,
	KeyD:          glfw.KeyD,
	KeyE:          glfw.KeyE,
	KeyF:          glfw.KeyF,
	KeyG:          glfw.KeyG,
	KeyH:          glfw.KeyH,
	KeyI:          glfw.KeyI,
	KeyJ:          glfw.KeyJ,
	KeyK:          glfw.KeyK,
	KeyL:          glfw.KeyL,
	KeyM:          glfw.KeyM,
	KeyN:          glfw.KeyN,
	KeyO:          glfw.KeyO,
	KeyP:          glfw.KeyP,
	KeyQ:          glfw.KeyQ,
	KeyR:          glfw.KeyR,
	KeyS:          glfw.KeyS,
	KeyT:          glfw.KeyT,
	KeyU:          glfw.KeyU,
	KeyV:          glfw.KeyV,
	KeyW:          glfw.KeyW,
	KeyX:          glfw.KeyX,
	KeyY:          glfw.KeyY,
	KeyZ:          glfw.KeyZ,
	KeyEscape:     glfw.KeyEscape,
	KeyTab:        glfw.KeyTab,
	KeyBackspace:  glfw.KeyBackspace,
	KeyRight:      glfw.KeyRight,
	KeyLeft:       glfw.KeyLeft,
	KeyDown:       glfw.KeyDown,
	KeyUp:         glfw.KeyUp,
	KeyLeftShift:  glfw.KeyLeftShift,
	KeyRightShift: glfw.KeyRightShift,
}
