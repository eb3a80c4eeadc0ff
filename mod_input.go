package depthtop

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// The compositor binds only the keys it uses; pointer state is the main input.
const (
	KeyEscape int = iota
	KeyTab
	KeyH
	MouseButtonLeft
	MouseButtonRight
	inputSlotCount
)

type InputModule struct{}

type Input struct {
	Pressed      [inputSlotCount]bool
	JustPressed  [inputSlotCount]bool
	JustReleased [inputSlotCount]bool

	MouseX, MouseY float64

	WindowWidth, WindowHeight int
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(System(inputSystem).InStage(PreUpdate))
}

func inputSystem(s *WindowState, input *Input) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		action := s.windowGlfw.GetKey(glfwKey)
		updateSlot(input, key, glfw.Press == action)
	}

	for btn, glfwBtn := range buttonToGlfw {
		action := s.windowGlfw.GetMouseButton(glfwBtn)
		updateSlot(input, btn, glfw.Press == action)
	}

	input.MouseX, input.MouseY = s.windowGlfw.GetCursorPos()
	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()
}

func updateSlot(input *Input, slot int, down bool) {
	input.JustPressed[slot] = false
	input.JustReleased[slot] = false

	if down {
		if !input.Pressed[slot] {
			input.JustPressed[slot] = true
		}
		input.Pressed[slot] = true
	} else {
		if input.Pressed[slot] {
			input.JustReleased[slot] = true
		}
		input.Pressed[slot] = false
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyEscape: glfw.KeyEscape,
	KeyTab:    glfw.KeyTab,
	KeyH:      glfw.KeyH,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:  glfw.MouseButtonLeft,
	MouseButtonRight: glfw.MouseButtonRight,
}
