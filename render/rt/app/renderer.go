package app

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/scenery"
	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/gekko3d/scenery/render/rt/frame"
	"github.com/gekko3d/scenery/render/rt/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	ErrNoAdapter = errors.New("no compatible GPU adapter")
	ErrNoDevice  = errors.New("failed to create GPU device")
	ErrNoSurface = errors.New("failed to create window surface")
)

// Renderer draws a scene graph into a glfw window, one frame per Render call.
type Renderer struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Pipelines *gpu.PipelineSet
	Targets   *gpu.Targets
	Encoder   *gpu.FrameEncoder
	Profiler  *Profiler

	// LastPasses lists the passes recorded by the last submitted frame.
	LastPasses []frame.Pass

	cfg    scenery.Config
	logger scenery.Logger
	skips  *scenery.SkipReporter
}

// New initialises WebGPU for window. Any failure is returned before a frame
// is attempted and leaves nothing to release.
func New(window *glfw.Window, cfg scenery.Config, logger scenery.Logger) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{
		Window:   window,
		Profiler: NewProfiler(),
		cfg:      cfg,
		logger:   scenery.OrNop(logger),
	}
	r.skips = scenery.NewSkipReporter(r.logger)
	if err := r.init(); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init() error {
	r.Instance = wgpu.CreateInstance(nil)

	r.Surface = r.Instance.CreateSurface(GetSurfaceDescriptor(r.Window))
	if r.Surface == nil {
		return ErrNoSurface
	}

	adapter, err := r.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	r.Adapter = adapter

	r.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoDevice, err)
	}

	caps := r.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return fmt.Errorf("%w: surface reports no formats", ErrNoSurface)
	}

	width, height := r.renderSize()
	r.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       width,
		Height:      height,
		PresentMode: presentMode(caps.PresentModes, r.cfg.VSync),
		AlphaMode:   caps.AlphaModes[0],
	}
	r.Surface.Configure(r.Adapter, r.Device, r.Config)
	r.logger.Infof("surface %dx%d format=%v present=%v", width, height, r.Config.Format, r.Config.PresentMode)

	r.Pipelines, err = gpu.NewPipelineSet(r.Device, r.Config.Format)
	if err != nil {
		return err
	}
	r.Targets, err = gpu.NewTargets(r.Device, r.Config.Format, width, height)
	if err != nil {
		return err
	}
	r.Encoder, err = gpu.NewFrameEncoder(r.Device, r.Pipelines, r.Targets)
	if err != nil {
		return err
	}
	return nil
}

func presentMode(modes []wgpu.PresentMode, vsync bool) wgpu.PresentMode {
	if !vsync {
		for _, m := range modes {
			if m == wgpu.PresentModeImmediate || m == wgpu.PresentModeMailbox {
				return m
			}
		}
	}
	return wgpu.PresentModeFifo
}

// renderSize is the framebuffer size scaled by the configured pixel ratio.
func (r *Renderer) renderSize() (uint32, uint32) {
	w, h := r.Window.GetFramebufferSize()
	if w > 0 && h > 0 {
		r.cfg.Width, r.cfg.Height = w, h
	}
	return r.cfg.RenderSize()
}

// Resize takes the new framebuffer size, reconfigures the surface and
// recreates the render targets. Zero sizes (minimised windows) are ignored.
func (r *Renderer) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	r.cfg.Width, r.cfg.Height = w, h
	width, height := r.cfg.RenderSize()
	if width == r.Config.Width && height == r.Config.Height {
		return nil
	}

	r.Config.Width, r.Config.Height = width, height
	r.Surface.Configure(r.Adapter, r.Device, r.Config)

	targets, err := gpu.NewTargets(r.Device, r.Config.Format, width, height)
	if err != nil {
		return err
	}
	if err := r.Encoder.SetTargets(targets); err != nil {
		targets.Release()
		return err
	}
	r.Targets.Release()
	r.Targets = targets
	r.logger.Debugf("resized to %dx%d", width, height)
	return nil
}

// SetPixelRatio changes the render resolution relative to the framebuffer size.
func (r *Renderer) SetPixelRatio(ratio float32) error {
	cfg := r.cfg
	cfg.PixelRatio = ratio
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.cfg = cfg
	r.Config.Width, r.Config.Height = 0, 0
	return r.Resize(cfg.Width, cfg.Height)
}

// Render draws one frame of scene as seen from cam. A frame that cannot be
// recorded yet is skipped and nil is returned; the next call retries.
// Geometry contract violations are returned as errors.
func (r *Renderer) Render(scene *core.Node, cam *core.Camera) error {
	if scene == nil || cam == nil {
		return nil
	}
	p := r.Profiler
	p.Reset()

	p.BeginScope("collect")
	scene.UpdateWorld()
	aspect := float32(r.Config.Width) / float32(r.Config.Height)
	viewProj := cam.ViewProjection(aspect)
	frustum := core.ExtractFrustum(viewProj)
	draws, lights := core.Collect(scene, &frustum)
	plan := frame.NewPlan(draws, lights)
	p.EndScope("collect")
	p.SetCount("draws", len(plan.Draws))
	p.SetCount("lights", len(plan.Lights))
	p.SetCount("glass", len(plan.Glass))

	texture, err := r.Surface.GetCurrentTexture()
	if err != nil {
		r.skips.Skipped(fmt.Errorf("GetCurrentTexture: %w", err))
		return nil
	}
	defer texture.Release()
	view, err := texture.CreateView(nil)
	if err != nil {
		r.skips.Skipped(fmt.Errorf("CreateView: %w", err))
		return nil
	}
	defer view.Release()

	r.Encoder.SetView(viewProj, cam.Position, view)
	defer r.Encoder.SetView(viewProj, cam.Position, nil)

	p.BeginScope("encode")
	passes, err := frame.Run(r.Encoder, plan)
	p.EndScope("encode")
	switch {
	case errors.Is(err, frame.ErrFrameSkipped), errors.Is(err, frame.ErrPipelineMissing):
		r.skips.Skipped(err)
		return nil
	case err != nil:
		return err
	}

	r.Surface.Present()
	r.skips.Rendered()
	r.LastPasses = passes
	if r.logger.DebugEnabled() {
		r.logger.Debugf("frame %v\n%s", passes, p.String())
	}
	return nil
}

func (r *Renderer) Release() {
	if r.Encoder != nil {
		r.Encoder.Release()
		r.Encoder = nil
	}
	if r.Targets != nil {
		r.Targets.Release()
		r.Targets = nil
	}
	if r.Pipelines != nil {
		r.Pipelines.Release()
		r.Pipelines = nil
	}
	if r.Device != nil {
		r.Device.Release()
		r.Device = nil
	}
	if r.Adapter != nil {
		r.Adapter.Release()
		r.Adapter = nil
	}
	if r.Surface != nil {
		r.Surface.Release()
		r.Surface = nil
	}
	if r.Instance != nil {
		r.Instance.Release()
		r.Instance = nil
	}
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}
