package renderer

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderable"
	"github.com/spaghettifunk/facet/engine/renderer/config"
	"github.com/spaghettifunk/facet/engine/shaders"
)

/** @brief Depth attachment format shared by every pipeline and render pass. */
const depthFormat = wgpu.TextureFormatDepth32Float

// pipelineKey identifies one pipeline variant.
type pipelineKey struct {
	culling  config.CullingMode
	blending bool
	samples  uint32
	format   gputypes.TextureFormat
}

func (k pipelineKey) String() string {
	blend := "replace"
	if k.blending {
		blend = "alpha"
	}
	return fmt.Sprintf("%s-%s-x%d-%s", k.culling, blend, k.samples, k.format)
}

func cullMode(mode config.CullingMode) gputypes.CullMode {
	switch mode {
	case config.CullingBackface:
		return gputypes.CullModeBack
	case config.CullingFrontface:
		return gputypes.CullModeFront
	default:
		return gputypes.CullModeNone
	}
}

// vertexLayout mirrors renderable.Vertex: position at location 0, color at location 1.
func vertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: renderable.VertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: renderable.PositionOffset, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x3, Offset: renderable.ColorOffset, ShaderLocation: 1},
		},
	}
}

func blendState(enabled bool) *gputypes.BlendState {
	var b gputypes.BlendState
	if enabled {
		b = gputypes.BlendStateAlpha()
	} else {
		b = gputypes.BlendStateReplace()
	}
	return &b
}

func pipelineDescriptor(key pipelineKey, module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, label string) *wgpu.RenderPipelineDescriptor {
	return &wgpu.RenderPipelineDescriptor{
		Label:  label + "-pipeline-" + key.String(),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: shaders.VertexEntryPoint,
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout()},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  cullMode(key.culling),
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
			StencilFront:      keepStencil(),
			StencilBack:       keepStencil(),
		},
		Multisample: wgpu.MultisampleState{
			Count: key.samples,
			Mask:  ^uint64(0),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: shaders.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    key.format,
					Blend:     blendState(key.blending),
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
	}
}

func keepStencil() wgpu.StencilFaceState {
	return wgpu.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
}

/**
 * @brief Creates render pipelines lazily, one per culling mode, blending,
 * sample count and color format combination, all sharing one shader module
 * and one pipeline layout.
 */
type PipelineCache struct {
	device *wgpu.Device
	label  string

	source    string
	module    *wgpu.ShaderModule
	layout    *wgpu.PipelineLayout
	pipelines map[pipelineKey]*wgpu.RenderPipeline
}

func NewPipelineCache(device *wgpu.Device, uniforms *wgpu.BindGroupLayout, source, label string) (*PipelineCache, error) {
	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + "-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{uniforms},
	})
	if err != nil {
		return nil, fmt.Errorf("NewPipelineCache - pipeline layout: %w", err)
	}
	p := &PipelineCache{
		device:    device,
		label:     label,
		layout:    layout,
		pipelines: make(map[pipelineKey]*wgpu.RenderPipeline),
	}
	if err := p.Reload(source); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// Get returns the pipeline for key, building it on first use.
func (p *PipelineCache) Get(key pipelineKey) (*wgpu.RenderPipeline, error) {
	if pipeline, ok := p.pipelines[key]; ok {
		return pipeline, nil
	}
	pipeline, err := p.device.CreateRenderPipeline(pipelineDescriptor(key, p.module, p.layout, p.label))
	if err != nil {
		return nil, fmt.Errorf("PipelineCache - create %s: %w", key, err)
	}
	core.LogDebug("pipeline %s created", key)
	p.pipelines[key] = pipeline
	return pipeline, nil
}

/**
 * @brief Validates the WGSL source, swaps the shader module and drops every
 * cached pipeline so the next frame rebuilds them with the new shader. On
 * error the previous module stays in use.
 */
func (p *PipelineCache) Reload(source string) error {
	if err := shaders.Validate(source); err != nil {
		return err
	}
	module, err := p.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.label + "-shader",
		WGSL:  source,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrShaderValidation, err)
	}
	p.dropPipelines()
	if p.module != nil {
		p.module.Release()
	}
	p.module = module
	p.source = source
	return nil
}

func (p *PipelineCache) Source() string {
	return p.source
}

func (p *PipelineCache) Len() int {
	return len(p.pipelines)
}

func (p *PipelineCache) dropPipelines() {
	for key, pipeline := range p.pipelines {
		pipeline.Release()
		delete(p.pipelines, key)
	}
}

func (p *PipelineCache) Release() {
	p.dropPipelines()
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
}
