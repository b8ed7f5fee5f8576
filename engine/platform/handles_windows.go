//go:build windows

package platform

import "unsafe"

// SurfaceHandles returns the HWND of the window. Win32 surfaces need no display handle.
func (p *Platform) SurfaceHandles() (uintptr, uintptr, error) {
	if p.window == nil {
		return 0, 0, ErrNoWindow
	}
	return 0, uintptr(unsafe.Pointer(p.window.GetWin32Window())), nil
}
