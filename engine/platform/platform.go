package platform

import (
	"errors"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/facet/engine/core"
)

var startTime float64 = 0

var ErrNoWindow = errors.New("platform window not created")

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

/**
 * @brief The native window the renderer presents into. It feeds key and
 * resize events into the core input state and event bus.
 */
type Platform struct {
	window *glfw.Window
}

func New() *Platform {
	return &Platform{}
}

func (p *Platform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	// the surface is created by wgpu, glfw must not create a GL context
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	p.window = window

	p.window.SetKeyCallback(keyCallback)
	p.window.SetFramebufferSizeCallback(framebufferSizeCallback)
	p.window.SetCloseCallback(closeCallback)
	p.window.SetPos(int(x), int(y))
	p.window.Show()

	startTime = glfw.GetTime()
	core.LogInfo("window %q created (%dx%d)", applicationName, width, height)
	return nil
}

func (p *Platform) Shutdown() error {
	if p.window != nil {
		p.window.Destroy()
		p.window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events. It returns false once the
// window has been asked to close.
func (p *Platform) PumpMessages() bool {
	if p.window == nil {
		return false
	}
	glfw.PollEvents()
	return !p.window.ShouldClose()
}

// FramebufferSize returns the drawable size in pixels, zero while minimized.
func (p *Platform) FramebufferSize() (uint32, uint32) {
	if p.window == nil {
		return 0, 0
	}
	w, h := p.window.GetFramebufferSize()
	if w < 0 || h < 0 {
		return 0, 0
	}
	return uint32(w), uint32(h)
}

func (p *Platform) SetTitle(title string) {
	if p.window != nil {
		p.window.SetTitle(title)
	}
}

// GetAbsoluteTime returns the seconds since the window was created.
func GetAbsoluteTime() float64 {
	return glfw.GetTime() - startTime
}

func (p *Platform) Sleep(ms float64) {
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code, ok := translateKey(key)
	if !ok {
		return
	}
	// repeats keep the key down and fire nothing new
	if err := core.InputProcessKey(code, action != glfw.Release); err != nil {
		core.LogWarn("key %d: %s", code, err.Error())
	}
}

func framebufferSizeCallback(w *glfw.Window, width, height int) {
	context := core.EventContext{}
	context.Data.U32[0] = uint32(max(width, 0))
	context.Data.U32[1] = uint32(max(height, 0))
	core.EventFire(core.EVENT_CODE_RESIZED, nil, context)
}

func closeCallback(w *glfw.Window) {
	core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
}
