package renderer

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderer/config"
	"github.com/spaghettifunk/facet/engine/scene"
)

/**
 * @brief A window the renderer can present into. The platform layer
 * implements it so this package stays free of windowing code.
 */
type SurfaceSource interface {
	// SurfaceHandles returns the native display and window handles for surface creation.
	SurfaceHandles() (display, window uintptr, err error)
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (width, height uint32)
}

// chooseSurfaceFormat prefers an sRGB format and otherwise takes the first one offered.
func chooseSurfaceFormat(formats []gputypes.TextureFormat) (gputypes.TextureFormat, error) {
	if len(formats) == 0 {
		return gputypes.TextureFormatUndefined, core.ErrNoSurfaceFormat
	}
	for _, f := range formats {
		if f.IsSrgb() {
			return f, nil
		}
	}
	return formats[0], nil
}

func chooseAlphaMode(modes []gputypes.CompositeAlphaMode) gputypes.CompositeAlphaMode {
	for _, m := range modes {
		if m == gputypes.CompositeAlphaModeOpaque {
			return m
		}
	}
	return gputypes.CompositeAlphaModeAuto
}

/**
 * @brief Presents frames to a window surface with FIFO (vsync) presentation.
 */
type WindowedRenderer struct {
	*RenderCore

	gpu       *GPUContext
	surface   *wgpu.Surface
	alphaMode gputypes.CompositeAlphaMode
	released  bool
}

/**
 * @brief Creates the surface for source, then adapter and device compatible
 * with it, and configures the surface at the framebuffer size.
 * @returns A *core.GPUError with kind GPUErrorSurfaceCreation, GPUErrorAdapterRequest
 * or GPUErrorDeviceRequest wrapping the wgpu error when acquisition fails.
 */
func NewWindowed(source SurfaceSource, cfg config.RenderConfig, opts ...GPUOption) (*WindowedRenderer, error) {
	width, height := source.FramebufferSize()
	if width == 0 || height == 0 {
		err := fmt.Errorf("NewWindowed - %w: %dx%d", core.ErrInvalidDimensions, width, height)
		core.LogError("%s", err)
		return nil, err
	}

	gpu, err := newGPUContext(opts, func(instance *wgpu.Instance) (*wgpu.Surface, error) {
		display, window, err := source.SurfaceHandles()
		if err != nil {
			return nil, err
		}
		return instance.CreateSurface(display, window)
	})
	if err != nil {
		return nil, err
	}
	surface := gpu.takeSurface()

	var formats []gputypes.TextureFormat
	var alphaModes []gputypes.CompositeAlphaMode
	if caps := gpu.WGPUAdapter().GetSurfaceCapabilities(surface); caps != nil {
		formats = caps.Formats
		alphaModes = caps.AlphaModes
	}
	format, err := chooseSurfaceFormat(formats)
	if err != nil {
		surface.Release()
		gpu.Release()
		core.LogError("%s", err)
		return nil, err
	}
	gpu.surfaceFormat = format

	rc, err := newRenderCore(gpu.WGPUDevice(), gpu.WGPUQueue(), format, width, height, cfg)
	if err != nil {
		surface.Release()
		gpu.Release()
		core.LogError("%s", err)
		return nil, err
	}
	w := &WindowedRenderer{
		RenderCore: rc,
		gpu:        gpu,
		surface:    surface,
		alphaMode:  chooseAlphaMode(alphaModes),
	}
	if err := w.configure(); err != nil {
		w.Release()
		core.LogError("%s", err)
		return nil, err
	}
	return w, nil
}

// GPU exposes the context so other gogpu components can share the device.
func (w *WindowedRenderer) GPU() *GPUContext {
	return w.gpu
}

func (w *WindowedRenderer) configure() error {
	if err := w.surface.Configure(w.device, &wgpu.SurfaceConfiguration{
		Width:       w.width,
		Height:      w.height,
		Format:      w.format,
		Usage:       wgpu.TextureUsageRenderAttachment,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   w.alphaMode,
	}); err != nil {
		return fmt.Errorf("WindowedRenderer - configure surface: %w", err)
	}
	return nil
}

func (w *WindowedRenderer) RenderScene(s *scene.Scene) error {
	return w.Render(SceneDrawables(s))
}

/**
 * @brief Acquires the next surface texture, draws into it, submits and
 * presents. A suboptimal surface is reconfigured after presenting; a failed
 * acquisition reconfigures and skips the frame.
 */
func (w *WindowedRenderer) Render(drawables []Drawable) error {
	if w.released {
		return core.ErrRendererReleased
	}

	st, suboptimal, err := w.surface.GetCurrentTexture()
	if err != nil {
		if cerr := w.configure(); cerr != nil {
			return cerr
		}
		return fmt.Errorf("WindowedRenderer - acquire frame: %w", err)
	}
	view, err := st.CreateView(nil)
	if err != nil {
		w.surface.DiscardTexture()
		return fmt.Errorf("WindowedRenderer - frame view: %w", err)
	}
	defer view.Release()

	encoder, err := w.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: w.label + "-encoder"})
	if err != nil {
		w.surface.DiscardTexture()
		return fmt.Errorf("WindowedRenderer - encoder: %w", err)
	}
	if _, err := w.encode(encoder, view, drawables); err != nil {
		encoder.DiscardEncoding()
		w.surface.DiscardTexture()
		return err
	}
	cmd, err := encoder.Finish()
	if err != nil {
		w.surface.DiscardTexture()
		return fmt.Errorf("WindowedRenderer - finish: %w", err)
	}
	if _, err := w.queue.Submit(cmd); err != nil {
		w.surface.DiscardTexture()
		return fmt.Errorf("WindowedRenderer - submit: %w", err)
	}
	if err := w.surface.Present(st); err != nil {
		return fmt.Errorf("WindowedRenderer - present: %w", err)
	}
	w.afterSubmit()

	if suboptimal {
		core.LogDebug("renderer %s surface suboptimal, reconfiguring", w.label)
		return w.configure()
	}
	return nil
}

// Resize reconfigures the surface. A zero size (minimized window) is ignored.
func (w *WindowedRenderer) Resize(width, height uint32) error {
	if w.released {
		return core.ErrRendererReleased
	}
	if width == w.width && height == w.height {
		return nil
	}
	if !w.RenderCore.Resize(width, height) {
		return nil
	}
	return w.configure()
}

func (w *WindowedRenderer) Release() {
	if w.released {
		return
	}
	w.released = true
	if w.device != nil {
		if err := w.device.WaitIdle(); err != nil {
			core.LogWarn("renderer %s wait idle: %s", w.label, err.Error())
		}
	}
	w.RenderCore.Release()
	if w.surface != nil {
		w.surface.Unconfigure()
		w.surface.Release()
		w.surface = nil
	}
	if w.gpu != nil {
		w.gpu.Release()
		w.gpu = nil
	}
}
