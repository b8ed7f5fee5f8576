package renderer

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/google/uuid"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/math"
	"github.com/spaghettifunk/facet/engine/renderable"
	"github.com/spaghettifunk/facet/engine/renderer/config"
	"github.com/spaghettifunk/facet/engine/scene"
	"github.com/spaghettifunk/facet/engine/shaders"
)

/** @brief Background color every frame is cleared to. */
var clearColor = wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

const clearDepth float32 = 1.0

// Drawable is anything the renderer can draw with the built-in shader.
type Drawable interface {
	ModelMatrix() math.Mat4
	VertexData() []byte
	VertexCount() uint32
}

// CullingReporter is implemented by drawables that pick their own culling mode.
type CullingReporter interface {
	CullingMode() config.CullingMode
}

// VertexHasher is implemented by drawables that already know the hash of their vertex data.
type VertexHasher interface {
	VertexHash() uint64
}

/** @brief Order in which culling groups are drawn inside the render pass. */
var cullingOrder = [...]config.CullingMode{config.CullingNone, config.CullingBackface, config.CullingFrontface}

/**
 * @brief Splits drawables by culling mode. Drawables reporting their own
 * mode keep it; the rest use fallback. Drawables without vertices are skipped.
 */
func groupByCulling(drawables []Drawable, fallback config.CullingMode) [len(cullingOrder)][]Drawable {
	var groups [len(cullingOrder)][]Drawable
	for _, d := range drawables {
		if d == nil || d.VertexCount() == 0 {
			continue
		}
		mode := fallback
		if c, ok := d.(CullingReporter); ok {
			mode = c.CullingMode()
		}
		idx := 0
		for i, m := range cullingOrder {
			if m == mode {
				idx = i
				break
			}
		}
		groups[idx] = append(groups[idx], d)
	}
	return groups
}

func vertexHash(d Drawable) uint64 {
	if h, ok := d.(VertexHasher); ok {
		return h.VertexHash()
	}
	return renderable.HashVertexData(d.VertexData())
}

// SceneDrawables snapshots the scene contents, ordered by entity id.
func SceneDrawables(s *scene.Scene) []Drawable {
	if s == nil {
		return nil
	}
	objects := s.Snapshots()
	out := make([]Drawable, len(objects))
	for i, o := range objects {
		out[i] = o
	}
	return out
}

// renderTargets holds the attachments that follow the output size and sample count.
type renderTargets struct {
	width, height uint32
	samples       uint32

	depth     *wgpu.Texture
	depthView *wgpu.TextureView
	msaa      *wgpu.Texture
	msaaView  *wgpu.TextureView
}

func (t *renderTargets) matches(width, height, samples uint32) bool {
	return t.depthView != nil && t.width == width && t.height == height && t.samples == samples
}

func (t *renderTargets) release() {
	if t.msaaView != nil {
		t.msaaView.Release()
	}
	if t.msaa != nil {
		t.msaa.Release()
	}
	if t.depthView != nil {
		t.depthView.Release()
	}
	if t.depth != nil {
		t.depth.Release()
	}
	*t = renderTargets{}
}

/**
 * @brief The part of rendering shared by the windowed and headless renderers:
 * camera, render configuration, uniform slots, vertex cache, pipelines and the
 * depth and multisample attachments. Not safe for concurrent use.
 */
type RenderCore struct {
	id     uuid.UUID
	label  string
	device *wgpu.Device
	queue  *wgpu.Queue

	format        gputypes.TextureFormat
	width, height uint32
	config        config.RenderConfig
	camera        *Camera

	uniforms  *DynamicUniformBuffer
	vertices  *VertexBufferCache[*wgpu.Buffer]
	pipelines *PipelineCache
	targets   renderTargets
}

func newRenderCore(device *wgpu.Device, queue *wgpu.Queue, format gputypes.TextureFormat, width, height uint32, cfg config.RenderConfig) (*RenderCore, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", core.ErrInvalidDimensions, width, height)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	label := "facet-" + id.String()[:8]
	rc := &RenderCore{
		id:     id,
		label:  label,
		device: device,
		queue:  queue,
		format: format,
		width:  width,
		height: height,
		config: cfg,
		camera: NewCamera(float32(width) / float32(height)),
	}

	uniforms, err := NewDynamicUniformBuffer(device, queue, label)
	if err != nil {
		return nil, err
	}
	rc.uniforms = uniforms

	pipelines, err := NewPipelineCache(device, uniforms.BindGroupLayout(), shaders.Source(), label)
	if err != nil {
		rc.Release()
		return nil, err
	}
	rc.pipelines = pipelines
	rc.vertices = NewVertexBufferCache(wgpuVertexBuffers(device, queue, label))

	if err := rc.ensureTargets(); err != nil {
		rc.Release()
		return nil, err
	}
	core.LogInfo("renderer %s ready: %dx%d %s, %s", label, width, height, format, cfg)
	return rc, nil
}

func (rc *RenderCore) ID() uuid.UUID {
	return rc.id
}

func (rc *RenderCore) Size() (uint32, uint32) {
	return rc.width, rc.height
}

func (rc *RenderCore) Format() gputypes.TextureFormat {
	return rc.format
}

func (rc *RenderCore) Camera() *Camera {
	return rc.camera
}

func (rc *RenderCore) Config() config.RenderConfig {
	return rc.config
}

// UpdateConfig validates and applies cfg. Attachments follow on the next frame.
func (rc *RenderCore) UpdateConfig(cfg config.RenderConfig) error {
	if err := cfg.Validate(); err != nil {
		core.LogError("%s", err)
		return err
	}
	if cfg != rc.config {
		core.LogInfo("renderer %s config: %s", rc.label, cfg)
	}
	rc.config = cfg
	return nil
}

func (rc *RenderCore) SetAntialiasing(mode config.AntialiasingMode) error {
	cfg := rc.config
	cfg.Antialiasing = mode
	return rc.UpdateConfig(cfg)
}

/**
 * @brief Sets the mode used by drawables that do not report their own. An
 * unknown mode is logged by UpdateConfig and the previous mode stays.
 */
func (rc *RenderCore) SetCulling(mode config.CullingMode) {
	cfg := rc.config
	cfg.Culling = mode
	_ = rc.UpdateConfig(cfg)
}

// The stored config is always valid, so toggling blending cannot fail.
func (rc *RenderCore) SetAlphaBlending(enabled bool) {
	cfg := rc.config
	cfg.AlphaBlending = enabled
	_ = rc.UpdateConfig(cfg)
}

// Presets always validate; the same holds for Set3DMode and SetPerformanceMode.
func (rc *RenderCore) Set2DMode() {
	_ = rc.UpdateConfig(config.For2D())
}

func (rc *RenderCore) Set3DMode() {
	_ = rc.UpdateConfig(config.For3D())
}

func (rc *RenderCore) SetPerformanceMode() {
	_ = rc.UpdateConfig(config.Performance())
}

// Resize updates the output size and camera aspect. Zero sizes are ignored.
func (rc *RenderCore) Resize(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	rc.width, rc.height = width, height
	rc.camera.SetAspectRatio(float32(width) / float32(height))
	return true
}

func (rc *RenderCore) CacheStats() CacheStats {
	return rc.vertices.Stats()
}

func (rc *RenderCore) ClearCache() {
	rc.vertices.Clear()
	core.LogDebug("renderer %s vertex cache cleared", rc.label)
}

// ReloadShader swaps the WGSL source. Invalid sources are rejected and the current shader stays.
func (rc *RenderCore) ReloadShader(source string) error {
	if err := rc.pipelines.Reload(source); err != nil {
		core.LogError("renderer %s shader reload: %s", rc.label, err.Error())
		return err
	}
	core.LogInfo("renderer %s shader reloaded", rc.label)
	return nil
}

func (rc *RenderCore) ensureTargets() error {
	samples := rc.config.Antialiasing.SampleCount()
	if rc.targets.matches(rc.width, rc.height, samples) {
		return nil
	}
	rc.targets.release()

	size := wgpu.Extent3D{Width: rc.width, Height: rc.height, DepthOrArrayLayers: 1}
	depth, err := rc.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         rc.label + "-depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("RenderCore - depth texture: %w", err)
	}
	t := renderTargets{width: rc.width, height: rc.height, samples: samples, depth: depth}
	if t.depthView, err = rc.device.CreateTextureView(depth, nil); err != nil {
		t.release()
		return fmt.Errorf("RenderCore - depth view: %w", err)
	}

	if samples > 1 {
		if t.msaa, err = rc.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         rc.label + "-msaa",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   samples,
			Dimension:     wgpu.TextureDimension2D,
			Format:        rc.format,
			Usage:         wgpu.TextureUsageRenderAttachment,
		}); err != nil {
			t.release()
			return fmt.Errorf("RenderCore - msaa texture: %w", err)
		}
		if t.msaaView, err = rc.device.CreateTextureView(t.msaa, nil); err != nil {
			t.release()
			return fmt.Errorf("RenderCore - msaa view: %w", err)
		}
	}
	rc.targets = t
	return nil
}

type preparedDraw struct {
	buffer      *wgpu.Buffer
	offset      uint32
	vertexCount uint32
}

type preparedGroup struct {
	pipeline *wgpu.RenderPipeline
	draws    []preparedDraw
}

// prepare uploads matrices and vertices and resolves pipelines before the pass begins.
func (rc *RenderCore) prepare(drawables []Drawable) ([]preparedGroup, error) {
	groups := groupByCulling(drawables, rc.config.Culling)
	viewProjection := rc.camera.ViewProjection()

	var ordered []Drawable
	for _, g := range groups {
		ordered = append(ordered, g...)
	}
	if len(ordered) == 0 {
		return nil, nil
	}

	matrices := make([]math.Mat4, len(ordered))
	for i, d := range ordered {
		matrices[i] = d.ModelMatrix().Mul(viewProjection)
	}
	rc.uniforms.ResetFrame()
	offsets, err := rc.uniforms.Upload(matrices)
	if err != nil {
		return nil, err
	}

	prepared := make([]preparedGroup, 0, len(groups))
	next := 0
	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		pipeline, err := rc.pipelines.Get(pipelineKey{
			culling:  cullingOrder[i],
			blending: rc.config.AlphaBlending,
			samples:  rc.config.Antialiasing.SampleCount(),
			format:   rc.format,
		})
		if err != nil {
			return nil, err
		}
		pg := preparedGroup{pipeline: pipeline, draws: make([]preparedDraw, 0, len(g))}
		for _, d := range g {
			buffer, err := rc.vertices.Get(vertexHash(d), d.VertexData(), d.VertexCount())
			if err != nil {
				return nil, err
			}
			pg.draws = append(pg.draws, preparedDraw{buffer: buffer, offset: offsets[next], vertexCount: d.VertexCount()})
			next++
		}
		prepared = append(prepared, pg)
	}
	return prepared, nil
}

/**
 * @brief Records one render pass drawing every drawable into output. The pass
 * always clears color and depth, so an empty list yields a cleared frame.
 * With antialiasing the multisampled target is resolved into output.
 * @returns The number of objects drawn.
 */
func (rc *RenderCore) encode(encoder *wgpu.CommandEncoder, output *wgpu.TextureView, drawables []Drawable) (int, error) {
	if err := rc.ensureTargets(); err != nil {
		return 0, err
	}
	groups, err := rc.prepare(drawables)
	if err != nil {
		return 0, err
	}

	color := wgpu.RenderPassColorAttachment{
		View:       output,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: clearColor,
	}
	if rc.targets.msaaView != nil {
		color.View = rc.targets.msaaView
		color.ResolveTarget = output
	}
	pass, err := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            rc.label + "-pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            rc.targets.depthView,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: clearDepth,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("RenderCore - begin pass: %w", err)
	}

	drawn := 0
	bindGroup := rc.uniforms.BindGroup()
	for _, g := range groups {
		pass.SetPipeline(g.pipeline)
		for _, d := range g.draws {
			pass.SetBindGroup(0, bindGroup, []uint32{d.offset})
			pass.SetVertexBuffer(0, d.buffer, 0)
			pass.Draw(d.vertexCount, 1, 0, 0)
			drawn++
		}
	}
	if err := pass.End(); err != nil {
		return 0, fmt.Errorf("RenderCore - end pass: %w", err)
	}
	return drawn, nil
}

// afterSubmit ages out vertex buffers that were not used recently.
func (rc *RenderCore) afterSubmit() {
	if n := rc.vertices.Cleanup(); n > 0 {
		core.LogDebug("renderer %s released %d stale vertex buffers", rc.label, n)
	}
}

func (rc *RenderCore) Release() {
	rc.targets.release()
	if rc.vertices != nil {
		rc.vertices.Clear()
	}
	if rc.pipelines != nil {
		rc.pipelines.Release()
		rc.pipelines = nil
	}
	if rc.uniforms != nil {
		rc.uniforms.Release()
		rc.uniforms = nil
	}
}
