package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/gekko3d/scenery/render/rt/frame"
	"github.com/gekko3d/scenery/render/rt/shaders"
)

// PipelineSet holds one render pipeline per draw kind, all sharing one
// explicit layout, plus the two blur compute pipelines.
type PipelineSet struct {
	FrameLayout  *wgpu.BindGroupLayout // group 0: frame + lights
	ObjectLayout *wgpu.BindGroupLayout // group 1: per-object slot, dynamic offset
	GlassLayout  *wgpu.BindGroupLayout // group 2: blurred image + sampler
	BlurLayout   *wgpu.BindGroupLayout

	Render [core.NumDrawKinds]*wgpu.RenderPipeline
	BlurH  *wgpu.ComputePipeline
	BlurV  *wgpu.ComputePipeline

	sceneModule *wgpu.ShaderModule
	blurModule  *wgpu.ShaderModule
	layout      *wgpu.PipelineLayout
	blurPLayout *wgpu.PipelineLayout
}

func NewPipelineSet(device *wgpu.Device, format wgpu.TextureFormat) (*PipelineSet, error) {
	p := &PipelineSet{}
	if err := p.createLayouts(device); err != nil {
		p.Release()
		return nil, err
	}
	if err := p.createRender(device, format); err != nil {
		p.Release()
		return nil, err
	}
	if err := p.createBlur(device); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (p *PipelineSet) createLayouts(device *wgpu.Device) error {
	var err error
	p.FrameLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "FrameBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: FrameUniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: LightsUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("frame layout: %w", err)
	}

	p.ObjectLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ObjectBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   frame.SlotBindingSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("object layout: %w", err)
	}

	p.GlassLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "GlassBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("glass layout: %w", err)
	}

	p.BlurLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "BlurBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageCompute,
				StorageTexture: wgpu.StorageTextureBindingLayout{
					Access:        wgpu.StorageTextureAccessWriteOnly,
					Format:        BlurFormat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("blur layout: %w", err)
	}

	p.layout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "ScenePipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.FrameLayout, p.ObjectLayout, p.GlassLayout},
	})
	if err != nil {
		return fmt.Errorf("scene pipeline layout: %w", err)
	}
	p.blurPLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "BlurPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.BlurLayout},
	})
	if err != nil {
		return fmt.Errorf("blur pipeline layout: %w", err)
	}
	return nil
}

func (p *PipelineSet) createRender(device *wgpu.Device, format wgpu.TextureFormat) error {
	code, err := shaders.Scene(shaders.SceneParams{MaxLights: core.MaxLights, MaxBones: frame.MaxBones})
	if err != nil {
		return err
	}
	p.sceneModule, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "SceneShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return fmt.Errorf("scene shader: %w", err)
	}

	for k := core.DrawKind(0); k < core.NumDrawKinds; k++ {
		stage := stageFor(k)
		buffers, _ := vertexLayouts(k)
		p.Render[k], err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  "Scene " + k.String(),
			Layout: p.layout,
			Vertex: wgpu.VertexState{
				Module:     p.sceneModule,
				EntryPoint: stage.vertex,
				Buffers:    buffers,
			},
			Fragment: &wgpu.FragmentState{
				Module:     p.sceneModule,
				EntryPoint: stage.fragment,
				Targets:    []wgpu.ColorTargetState{colorTarget(k, format)},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  stage.topology,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  stage.cull,
			},
			DepthStencil: depthStencilState(k),
			Multisample: wgpu.MultisampleState{
				Count: SampleCount,
				Mask:  0xFFFFFFFF,
			},
		})
		if err != nil {
			return fmt.Errorf("%s pipeline: %w", k, err)
		}
	}
	return nil
}

func (p *PipelineSet) createBlur(device *wgpu.Device) error {
	code, err := shaders.Blur(shaders.BlurParams{
		Radius:        frame.BlurRadius,
		WorkgroupSize: frame.BlurWorkgroupSize,
		Weights:       frame.BlurWeights[:],
	})
	if err != nil {
		return err
	}
	p.blurModule, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "BlurShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return fmt.Errorf("blur shader: %w", err)
	}

	compute := func(label, entry string) (*wgpu.ComputePipeline, error) {
		return device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
			Label:  label,
			Layout: p.blurPLayout,
			Compute: wgpu.ProgrammableStageDescriptor{
				Module:     p.blurModule,
				EntryPoint: entry,
			},
		})
	}
	if p.BlurH, err = compute("BlurH", "blur_h"); err != nil {
		return fmt.Errorf("blur_h pipeline: %w", err)
	}
	if p.BlurV, err = compute("BlurV", "blur_v"); err != nil {
		return fmt.Errorf("blur_v pipeline: %w", err)
	}
	return nil
}

// Pipeline returns the render pipeline of k or nil.
func (p *PipelineSet) Pipeline(k core.DrawKind) *wgpu.RenderPipeline {
	if p == nil || k >= core.NumDrawKinds {
		return nil
	}
	return p.Render[k]
}

func (p *PipelineSet) Ready() bool {
	if p == nil || p.BlurH == nil || p.BlurV == nil {
		return false
	}
	for _, rp := range p.Render {
		if rp == nil {
			return false
		}
	}
	return true
}

func (p *PipelineSet) Release() {
	for i, rp := range p.Render {
		if rp != nil {
			rp.Release()
			p.Render[i] = nil
		}
	}
	for _, cp := range []**wgpu.ComputePipeline{&p.BlurH, &p.BlurV} {
		if *cp != nil {
			(*cp).Release()
			*cp = nil
		}
	}
	for _, pl := range []**wgpu.PipelineLayout{&p.layout, &p.blurPLayout} {
		if *pl != nil {
			(*pl).Release()
			*pl = nil
		}
	}
	for _, l := range []**wgpu.BindGroupLayout{&p.FrameLayout, &p.ObjectLayout, &p.GlassLayout, &p.BlurLayout} {
		if *l != nil {
			(*l).Release()
			*l = nil
		}
	}
	for _, m := range []**wgpu.ShaderModule{&p.sceneModule, &p.blurModule} {
		if *m != nil {
			(*m).Release()
			*m = nil
		}
	}
}
