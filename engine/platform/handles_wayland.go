//go:build linux && wayland

package platform

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// SurfaceHandles returns the wl_display* and wl_surface* for surface creation.
func (p *Platform) SurfaceHandles() (uintptr, uintptr, error) {
	if p.window == nil {
		return 0, 0, ErrNoWindow
	}
	display := glfw.GetWaylandDisplay()
	surface := p.window.GetWaylandWindow()
	return uintptr(unsafe.Pointer(display)), uintptr(unsafe.Pointer(surface)), nil
}
