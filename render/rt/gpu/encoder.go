package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/gekko3d/scenery/render/rt/frame"
	"github.com/gekko3d/scenery/render/rt/resource"
	"github.com/go-gl/mathgl/mgl32"
)

var errNoPass = errors.New("no render pass is open")

// FrameEncoder records frames for frame.Run and replays draw lists for
// frame.Replay. It owns the per-frame uniform buffers and the bind groups
// that depend on the render targets.
type FrameEncoder struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	pipelines *PipelineSet
	targets   *Targets
	geometry  *resource.Cache[*GeometryBuffers]
	packer    *frame.Packer
	sampler   *wgpu.Sampler

	frameBuf  *wgpu.Buffer
	lightsBuf *wgpu.Buffer
	objectBuf *wgpu.Buffer

	frameBG  *wgpu.BindGroup
	objectBG *wgpu.BindGroup
	glassBG  *wgpu.BindGroup
	blurHBG  *wgpu.BindGroup
	blurVBG  *wgpu.BindGroup

	ClearColor wgpu.Color

	// per frame
	viewProj mgl32.Mat4
	camPos   mgl32.Vec3
	target   *wgpu.TextureView
	encoder  *wgpu.CommandEncoder
	pass     *wgpu.RenderPassEncoder
}

func NewFrameEncoder(device *wgpu.Device, pipelines *PipelineSet, targets *Targets) (*FrameEncoder, error) {
	e := &FrameEncoder{
		device:     device,
		queue:      device.GetQueue(),
		pipelines:  pipelines,
		packer:     frame.NewPacker(),
		ClearColor: wgpu.Color{R: 0.05, G: 0.05, B: 0.08, A: 1},
	}
	e.geometry = resource.NewCache[*GeometryBuffers](&BufferBuilder{Device: device})

	var err error
	e.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("blur sampler: %w", err)
	}

	bufs := []struct {
		label string
		buf   **wgpu.Buffer
		size  uint64
	}{
		{"Frame Uniform", &e.frameBuf, FrameUniformSize},
		{"Lights Uniform", &e.lightsBuf, LightsUniformSize},
		{"Object Uniform", &e.objectBuf, frame.BufferSize},
	}
	for _, b := range bufs {
		*b.buf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: b.label,
			Size:  b.size,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			e.Release()
			return nil, fmt.Errorf("%s buffer: %w", b.label, err)
		}
	}

	e.frameBG, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "FrameBG",
		Layout: pipelines.FrameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: e.frameBuf, Size: FrameUniformSize},
			{Binding: 1, Buffer: e.lightsBuf, Size: LightsUniformSize},
		},
	})
	if err != nil {
		e.Release()
		return nil, fmt.Errorf("frame bind group: %w", err)
	}
	e.objectBG, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ObjectBG",
		Layout: pipelines.ObjectLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: e.objectBuf, Size: frame.SlotBindingSize},
		},
	})
	if err != nil {
		e.Release()
		return nil, fmt.Errorf("object bind group: %w", err)
	}

	if err := e.SetTargets(targets); err != nil {
		e.Release()
		return nil, err
	}
	return e, nil
}

// SetTargets swaps the render targets and recreates the bind groups that
// reference them. The previous targets are not released.
func (e *FrameEncoder) SetTargets(t *Targets) error {
	e.releaseTargetGroups()
	e.targets = t
	if t == nil {
		return nil
	}

	var err error
	e.glassBG, err = e.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "GlassBG",
		Layout: e.pipelines.GlassLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: t.BlurOutView},
			{Binding: 1, Sampler: e.sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("glass bind group: %w", err)
	}
	blurGroup := func(label string, src, dst *wgpu.TextureView) (*wgpu.BindGroup, error) {
		return e.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  label,
			Layout: e.pipelines.BlurLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: src},
				{Binding: 1, TextureView: dst},
			},
		})
	}
	if e.blurHBG, err = blurGroup("BlurH BG", t.OpaqueView, t.BlurTempView); err != nil {
		return fmt.Errorf("blur_h bind group: %w", err)
	}
	if e.blurVBG, err = blurGroup("BlurV BG", t.BlurTempView, t.BlurOutView); err != nil {
		return fmt.Errorf("blur_v bind group: %w", err)
	}
	return nil
}

func (e *FrameEncoder) releaseTargetGroups() {
	for _, bg := range []**wgpu.BindGroup{&e.glassBG, &e.blurHBG, &e.blurVBG} {
		if *bg != nil {
			(*bg).Release()
			*bg = nil
		}
	}
}

// SetView sets the camera and the surface view the next frame presents to.
func (e *FrameEncoder) SetView(viewProj mgl32.Mat4, camPos mgl32.Vec3, target *wgpu.TextureView) {
	e.viewProj = viewProj
	e.camPos = camPos
	e.target = target
}

// Geometry exposes the buffer cache for eviction.
func (e *FrameEncoder) Geometry() *resource.Cache[*GeometryBuffers] {
	return e.geometry
}

func (e *FrameEncoder) Ready() bool {
	return e.pipelines.Ready() &&
		e.targets != nil && e.target != nil &&
		e.glassBG != nil && e.blurHBG != nil && e.blurVBG != nil &&
		e.frameBG != nil && e.objectBG != nil
}

// Begin builds missing geometry buffers, uploads the frame, lights and
// object uniforms (one write each) and opens the command encoder.
func (e *FrameEncoder) Begin(p *frame.Plan) error {
	for i := range p.Draws {
		d := &p.Draws[i]
		if _, err := e.geometry.Get(d.Geometry, d.Kind.Indexed()); err != nil {
			return err
		}
	}

	if n := e.packer.Pack(p.Draws); n > 0 {
		if err := e.queue.WriteBuffer(e.objectBuf, 0, e.packer.Bytes()); err != nil {
			return fmt.Errorf("object upload: %w", err)
		}
	}
	if err := e.queue.WriteBuffer(e.lightsBuf, 0, PackLights(p.Lights)); err != nil {
		return fmt.Errorf("lights upload: %w", err)
	}
	frameData := PackFrameUniform(e.viewProj, e.camPos, e.targets.Width, e.targets.Height)
	if err := e.queue.WriteBuffer(e.frameBuf, 0, frameData); err != nil {
		return fmt.Errorf("frame upload: %w", err)
	}

	var err error
	e.encoder, err = e.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("command encoder: %w", err)
	}
	return nil
}

// beginRenderPass clears color, depth and stencil and resolves the MSAA
// color into resolve.
func (e *FrameEncoder) beginRenderPass(resolve *wgpu.TextureView, clear wgpu.Color) {
	e.pass = e.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:          e.targets.MSAAView,
			ResolveTarget: resolve,
			LoadOp:        wgpu.LoadOpClear,
			StoreOp:       wgpu.StoreOpDiscard,
			ClearValue:    clear,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:              e.targets.DepthView,
			DepthLoadOp:       wgpu.LoadOpClear,
			DepthStoreOp:      wgpu.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     wgpu.LoadOpClear,
			StencilStoreOp:    wgpu.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})
	e.pass.SetBindGroup(0, e.frameBG, nil)
	e.pass.SetBindGroup(2, e.glassBG, nil)
}

func (e *FrameEncoder) endRenderPass() error {
	pass := e.pass
	e.pass = nil
	err := pass.End()
	pass.Release()
	return err
}

func (e *FrameEncoder) replay(p *frame.Plan, orders ...[]int) error {
	for _, order := range orders {
		if _, err := frame.Replay(e, p.Draws, order); err != nil {
			return err
		}
	}
	return nil
}

// OpaquePass renders regular items into the offscreen opaque image,
// cleared to transparent.
func (e *FrameEncoder) OpaquePass(p *frame.Plan) error {
	e.beginRenderPass(e.targets.OpaqueView, wgpu.Color{})
	if err := e.replay(p, p.Opaque); err != nil {
		return err
	}
	return e.endRenderPass()
}

// BlurPass dispatches one axis of the separable blur.
func (e *FrameEncoder) BlurPass(axis frame.Axis) error {
	pipeline, bg := e.pipelines.BlurH, e.blurHBG
	if axis == frame.AxisVertical {
		pipeline, bg = e.pipelines.BlurV, e.blurVBG
	}
	x, y, z := frame.DispatchSize(axis, e.targets.Width, e.targets.Height)

	pass := e.encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.DispatchWorkgroups(x, y, z)
	err := pass.End()
	pass.Release()
	return err
}

// CompositePass draws regular items again, then glass, then UI into the
// surface view.
func (e *FrameEncoder) CompositePass(p *frame.Plan) error {
	e.beginRenderPass(e.target, e.ClearColor)
	if err := e.replay(p, p.Opaque, p.Glass, p.UI); err != nil {
		return err
	}
	return e.endRenderPass()
}

func (e *FrameEncoder) Submit() error {
	enc := e.encoder
	e.encoder = nil
	defer enc.Release()

	cmd, err := enc.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()
	e.queue.Submit(cmd)
	return nil
}

func (e *FrameEncoder) Discard() {
	if e.pass != nil {
		_ = e.endRenderPass()
	}
	if e.encoder != nil {
		e.encoder.Release()
		e.encoder = nil
	}
}

// BindPipeline implements frame.Drawer.
func (e *FrameEncoder) BindPipeline(kind core.DrawKind) error {
	if e.pass == nil {
		return errNoPass
	}
	rp := e.pipelines.Pipeline(kind)
	if rp == nil {
		return fmt.Errorf("%s: %w", kind, frame.ErrPipelineMissing)
	}
	e.pass.SetPipeline(rp)
	if kind == core.KindTextStencil || kind == core.KindTextCover {
		e.pass.SetStencilReference(0)
	}
	return nil
}

// Draw implements frame.Drawer.
func (e *FrameEncoder) Draw(item *core.DrawItem, dynamicOffset uint32) error {
	if e.pass == nil {
		return errNoPass
	}
	bufs, err := e.geometry.Get(item.Geometry, item.Kind.Indexed())
	if err != nil {
		return err
	}

	e.pass.SetBindGroup(1, e.objectBG, []uint32{dynamicOffset})
	_, slots := vertexLayouts(item.Kind)
	for i, s := range slots {
		e.pass.SetVertexBuffer(uint32(i), bufs.slot(s), 0, wgpu.WholeSize)
	}

	instances := uint32(1)
	if item.Kind == core.KindInstanced || item.Kind == core.KindInstancedLine {
		instances = bufs.InstanceCount
	}
	if item.Kind.Indexed() {
		e.pass.SetIndexBuffer(bufs.Index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		e.pass.DrawIndexed(bufs.IndexCount, instances, 0, 0, 0)
	} else {
		e.pass.Draw(bufs.VertexCount, instances, 0, 0)
	}
	return nil
}

func (e *FrameEncoder) Release() {
	e.Discard()
	e.releaseTargetGroups()
	if e.geometry != nil {
		e.geometry.Release()
	}
	for _, bg := range []**wgpu.BindGroup{&e.frameBG, &e.objectBG} {
		if *bg != nil {
			(*bg).Release()
			*bg = nil
		}
	}
	for _, b := range []**wgpu.Buffer{&e.frameBuf, &e.lightsBuf, &e.objectBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
	if e.sampler != nil {
		e.sampler.Release()
		e.sampler = nil
	}
}
