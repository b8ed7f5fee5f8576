package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderer/config"
	"github.com/spaghettifunk/facet/engine/scene"
)

const (
	/** @brief Output format of the headless renderer. */
	headlessFormat = wgpu.TextureFormatRGBA8UnormSrgb
	bytesPerPixel  = 4
	/** @brief Row pitch alignment required by texture to buffer copies. */
	copyRowAlignment = 256
	/** @brief Applied to readbacks whose context carries no deadline. */
	defaultReadbackTimeout = 5 * time.Second
)

var ErrForeignProvider = errors.New("device provider does not expose wgpu device and queue")

// paddedBytesPerRow is the staging row pitch for a texture of the given width.
func paddedBytesPerRow(width uint32) uint32 {
	return uint32(alignUp(uint64(width)*bytesPerPixel, copyRowAlignment))
}

// unpadRows drops the row padding of a staging buffer and returns tightly packed RGBA.
func unpadRows(src []byte, width, height, bytesPerRow uint32) []byte {
	row := width * bytesPerPixel
	out := make([]byte, int(row)*int(height))
	for y := uint32(0); y < height; y++ {
		copy(out[y*row:(y+1)*row], src[y*bytesPerRow:y*bytesPerRow+row])
	}
	return out
}

/**
 * @brief Renders into an off-screen RGBA8 sRGB texture and reads the pixels
 * back. Suited to tests, thumbnails and machines without a display.
 */
type HeadlessRenderer struct {
	*RenderCore

	gpu      *GPUContext // nil when the device belongs to someone else
	released bool

	target      *wgpu.Texture
	targetView  *wgpu.TextureView
	staging     *wgpu.Buffer
	bytesPerRow uint32
}

/**
 * @brief Acquires its own GPU context and creates a renderer of the given size.
 * @returns core.ErrInvalidDimensions for a zero size, a *core.GPUError when
 * the adapter or device cannot be acquired.
 */
func NewHeadless(width, height uint32, cfg config.RenderConfig, opts ...GPUOption) (*HeadlessRenderer, error) {
	if width == 0 || height == 0 {
		err := fmt.Errorf("NewHeadless - %w: %dx%d", core.ErrInvalidDimensions, width, height)
		core.LogError("%s", err)
		return nil, err
	}
	gpu, err := NewGPUContext(opts...)
	if err != nil {
		return nil, err
	}
	h, err := newHeadless(gpu.WGPUDevice(), gpu.WGPUQueue(), width, height, cfg)
	if err != nil {
		gpu.Release()
		return nil, err
	}
	h.gpu = gpu
	return h, nil
}

// NewHeadlessFromProvider renders with a device owned by another gogpu component.
func NewHeadlessFromProvider(provider gpucontext.DeviceProvider, width, height uint32, cfg config.RenderConfig) (*HeadlessRenderer, error) {
	device, ok := provider.Device().(*wgpu.Device)
	if !ok || device == nil {
		return nil, ErrForeignProvider
	}
	queue, ok := provider.Queue().(*wgpu.Queue)
	if !ok || queue == nil {
		return nil, ErrForeignProvider
	}
	return newHeadless(device, queue, width, height, cfg)
}

func newHeadless(device *wgpu.Device, queue *wgpu.Queue, width, height uint32, cfg config.RenderConfig) (*HeadlessRenderer, error) {
	rc, err := newRenderCore(device, queue, headlessFormat, width, height, cfg)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	h := &HeadlessRenderer{RenderCore: rc}
	if err := h.createTarget(); err != nil {
		rc.Release()
		core.LogError("%s", err)
		return nil, err
	}
	return h, nil
}

func (h *HeadlessRenderer) createTarget() error {
	h.releaseTarget()
	target, err := h.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         h.label + "-output",
		Size:          wgpu.Extent3D{Width: h.width, Height: h.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        headlessFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("HeadlessRenderer - output texture: %w", err)
	}
	h.target = target
	if h.targetView, err = h.device.CreateTextureView(target, nil); err != nil {
		h.releaseTarget()
		return fmt.Errorf("HeadlessRenderer - output view: %w", err)
	}
	h.bytesPerRow = paddedBytesPerRow(h.width)
	if h.staging, err = h.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: h.label + "-readback",
		Size:  uint64(h.bytesPerRow) * uint64(h.height),
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	}); err != nil {
		h.releaseTarget()
		return fmt.Errorf("HeadlessRenderer - staging buffer: %w", err)
	}
	return nil
}

func (h *HeadlessRenderer) releaseTarget() {
	if h.staging != nil {
		h.staging.Release()
		h.staging = nil
	}
	if h.targetView != nil {
		h.targetView.Release()
		h.targetView = nil
	}
	if h.target != nil {
		h.target.Release()
		h.target = nil
	}
}

// RenderScene draws every object of s and returns width*height*4 RGBA bytes.
func (h *HeadlessRenderer) RenderScene(ctx context.Context, s *scene.Scene) ([]byte, error) {
	return h.Render(ctx, SceneDrawables(s))
}

/**
 * @brief Draws the drawables, copies the output into the staging buffer and
 * maps it. Blocks until the GPU is done or ctx expires.
 * @returns Tightly packed RGBA8 (sRGB) pixels, row by row from the top.
 */
func (h *HeadlessRenderer) Render(ctx context.Context, drawables []Drawable) ([]byte, error) {
	if h.released {
		return nil, core.ErrRendererReleased
	}

	encoder, err := h.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: h.label + "-encoder"})
	if err != nil {
		return nil, fmt.Errorf("HeadlessRenderer - encoder: %w", err)
	}
	if _, err := h.encode(encoder, h.targetView, drawables); err != nil {
		encoder.DiscardEncoding()
		return nil, err
	}
	size := wgpu.Extent3D{Width: h.width, Height: h.height, DepthOrArrayLayers: 1}
	encoder.CopyTextureToBuffer(h.target, h.staging, []wgpu.BufferTextureCopy{
		{
			BufferLayout: wgpu.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  h.bytesPerRow,
				RowsPerImage: h.height,
			},
			TextureBase: wgpu.ImageCopyTexture{Texture: h.target},
			Size:        size,
		},
	})
	cmd, err := encoder.Finish()
	if err != nil {
		return nil, fmt.Errorf("HeadlessRenderer - finish: %w", err)
	}
	if _, err := h.queue.Submit(cmd); err != nil {
		return nil, fmt.Errorf("HeadlessRenderer - submit: %w", err)
	}
	h.afterSubmit()

	return h.readback(ctx)
}

func (h *HeadlessRenderer) readback(ctx context.Context) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultReadbackTimeout)
		defer cancel()
	}
	size := uint64(h.bytesPerRow) * uint64(h.height)
	if err := h.staging.Map(ctx, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("HeadlessRenderer - map staging: %w", err)
	}
	rng, err := h.staging.MappedRange(0, size)
	if err != nil {
		_ = h.staging.Unmap()
		return nil, fmt.Errorf("HeadlessRenderer - mapped range: %w", err)
	}
	pixels := unpadRows(rng.Bytes(), h.width, h.height, h.bytesPerRow)
	if err := h.staging.Unmap(); err != nil {
		return nil, fmt.Errorf("HeadlessRenderer - unmap: %w", err)
	}
	return pixels, nil
}

// RenderImage renders s and wraps the pixels in an image ready for SaveImage.
func (h *HeadlessRenderer) RenderImage(ctx context.Context, s *scene.Scene) (*image.NRGBA, error) {
	pixels, err := h.RenderScene(ctx, s)
	if err != nil {
		return nil, err
	}
	return ToImage(pixels, h.width, h.height)
}

/**
 * @brief Recreates the output texture and staging buffer for the new size.
 * Zero sizes are ignored.
 */
func (h *HeadlessRenderer) Resize(width, height uint32) error {
	if h.released {
		return core.ErrRendererReleased
	}
	if width == h.width && height == h.height {
		return nil
	}
	if !h.RenderCore.Resize(width, height) {
		return nil
	}
	return h.createTarget()
}

// Release frees every GPU resource. A context created by NewHeadless is released too.
func (h *HeadlessRenderer) Release() {
	if h.released {
		return
	}
	h.released = true
	if h.device != nil {
		if err := h.device.WaitIdle(); err != nil {
			core.LogWarn("renderer %s wait idle: %s", h.label, err.Error())
		}
	}
	h.releaseTarget()
	h.RenderCore.Release()
	if h.gpu != nil {
		h.gpu.Release()
		h.gpu = nil
	}
}
