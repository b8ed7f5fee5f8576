//go:build linux && !wayland

package platform

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// SurfaceHandles returns the X11 Display* and Window for surface creation.
func (p *Platform) SurfaceHandles() (uintptr, uintptr, error) {
	if p.window == nil {
		return 0, 0, ErrNoWindow
	}
	display := glfw.GetX11Display()
	return uintptr(unsafe.Pointer(display)), uintptr(p.window.GetX11Window()), nil
}
