package renderer

import (
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/spaghettifunk/facet/engine/core"
)

type gpuOptions struct {
	backends        wgpu.Backends
	powerPreference wgpu.PowerPreference
	forceFallback   bool
}

func defaultGPUOptions() gpuOptions {
	return gpuOptions{
		backends:        wgpu.BackendsAll,
		powerPreference: wgpu.PowerPreferenceHighPerformance,
	}
}

// GPUOption customizes how the instance and adapter are acquired.
type GPUOption func(*gpuOptions)

func WithBackends(backends wgpu.Backends) GPUOption {
	return func(o *gpuOptions) { o.backends = backends }
}

func WithPowerPreference(pref wgpu.PowerPreference) GPUOption {
	return func(o *gpuOptions) { o.powerPreference = pref }
}

// WithFallbackAdapter forces a software adapter. Useful on CI machines without a GPU.
func WithFallbackAdapter(force bool) GPUOption {
	return func(o *gpuOptions) { o.forceFallback = force }
}

// ParseBackends maps a settings value (all, primary, vulkan, metal, dx12, gl) to a backend set.
func ParseBackends(name string) (wgpu.Backends, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return wgpu.BackendsAll, nil
	case "primary":
		return wgpu.BackendsPrimary, nil
	case "vulkan", "vk":
		return wgpu.BackendsVulkan, nil
	case "metal":
		return wgpu.BackendsMetal, nil
	case "dx12", "d3d12":
		return wgpu.BackendsDX12, nil
	case "gl", "gles":
		return wgpu.BackendsGL, nil
	}
	return 0, fmt.Errorf("unknown graphics backend %q", name)
}

/**
 * @brief Owns the instance, adapter, device and queue used by a renderer.
 * Implements gpucontext.DeviceProvider so other gogpu libraries can share
 * the device.
 */
type GPUContext struct {
	instance      *wgpu.Instance
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceFormat gputypes.TextureFormat

	pendingSurface *wgpu.Surface
}

var _ gpucontext.DeviceProvider = (*GPUContext)(nil)

/**
 * @brief Creates instance, adapter and device without a surface.
 * @returns A *core.GPUError with kind GPUErrorAdapterRequest or
 * GPUErrorDeviceRequest wrapping the wgpu error on failure.
 */
func NewGPUContext(opts ...GPUOption) (*GPUContext, error) {
	return newGPUContext(opts, nil)
}

// surfaceFactory creates the presentation surface once the instance exists.
type surfaceFactory func(instance *wgpu.Instance) (*wgpu.Surface, error)

func newGPUContext(opts []GPUOption, createSurface surfaceFactory) (*GPUContext, error) {
	o := defaultGPUOptions()
	for _, opt := range opts {
		opt(&o)
	}

	instance, err := wgpu.CreateInstance(&wgpu.InstanceDescriptor{Backends: o.backends})
	if err != nil {
		gerr := core.NewGPUError(core.GPUErrorAdapterRequest, err)
		core.LogError("%s", gerr)
		return nil, gerr
	}
	ctx := &GPUContext{instance: instance, surfaceFormat: gputypes.TextureFormatUndefined}

	var surface *wgpu.Surface
	if createSurface != nil {
		surface, err = createSurface(instance)
		if err != nil {
			ctx.Release()
			gerr := core.NewGPUError(core.GPUErrorSurfaceCreation, err)
			core.LogError("%s", gerr)
			return nil, gerr
		}
		ctx.pendingSurface = surface
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      o.powerPreference,
		ForceFallbackAdapter: o.forceFallback,
		CompatibleSurface:    surface,
	})
	if err != nil {
		ctx.Release()
		gerr := core.NewGPUError(core.GPUErrorAdapterRequest, err)
		core.LogError("%s", gerr)
		return nil, gerr
	}
	ctx.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "facet-device"})
	if err != nil {
		ctx.Release()
		gerr := core.NewGPUError(core.GPUErrorDeviceRequest, err)
		core.LogError("%s", gerr)
		return nil, gerr
	}
	ctx.device = device
	ctx.queue = device.Queue()

	info := adapter.Info()
	core.LogInfo("GPU adapter: %s (%s, %s backend)", info.Name, info.DeviceType, info.Backend)
	return ctx, nil
}

// takeSurface hands the surface created during acquisition over to the caller.
func (c *GPUContext) takeSurface() *wgpu.Surface {
	s := c.pendingSurface
	c.pendingSurface = nil
	return s
}

func (c *GPUContext) WGPUDevice() *wgpu.Device {
	return c.device
}

func (c *GPUContext) WGPUQueue() *wgpu.Queue {
	return c.queue
}

func (c *GPUContext) WGPUAdapter() *wgpu.Adapter {
	return c.adapter
}

func (c *GPUContext) Device() gpucontext.Device {
	return c.device
}

func (c *GPUContext) Queue() gpucontext.Queue {
	return c.queue
}

func (c *GPUContext) Adapter() gpucontext.Adapter {
	return c.adapter
}

// SurfaceFormat is TextureFormatUndefined until a windowed renderer configures its surface.
func (c *GPUContext) SurfaceFormat() gputypes.TextureFormat {
	return c.surfaceFormat
}

func (c *GPUContext) AdapterInfo() gpucontext.AdapterInfo {
	if c.adapter == nil {
		return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
	}
	info := c.adapter.Info()
	return gpucontext.AdapterInfo{Name: info.Name, Type: adapterType(info.DeviceType)}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// Release waits for the device to go idle and drops device, adapter and instance in that order.
func (c *GPUContext) Release() {
	if c.pendingSurface != nil {
		c.pendingSurface.Release()
		c.pendingSurface = nil
	}
	if c.device != nil {
		if err := c.device.WaitIdle(); err != nil {
			core.LogWarn("device wait idle: %s", err.Error())
		}
		c.device.Release()
		c.device = nil
		c.queue = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}
