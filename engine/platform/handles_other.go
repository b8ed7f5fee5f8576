//go:build !linux && !windows

package platform

import "github.com/spaghettifunk/facet/engine/core"

// SurfaceHandles is unsupported here. On macOS wgpu needs an NSView backed by
// a CAMetalLayer, which glfw does not create for NoAPI windows.
func (p *Platform) SurfaceHandles() (uintptr, uintptr, error) {
	return 0, 0, core.ErrUnsupportedPlatform
}
