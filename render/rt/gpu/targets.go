package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Targets are the size-dependent textures of a frame: the MSAA color and
// depth/stencil attachments shared by both render passes, the resolved
// opaque image, and the two blur storage textures.
type Targets struct {
	Width, Height uint32
	Format        wgpu.TextureFormat

	msaa     *wgpu.Texture
	depth    *wgpu.Texture
	opaque   *wgpu.Texture
	blurTemp *wgpu.Texture
	blurOut  *wgpu.Texture

	MSAAView     *wgpu.TextureView
	DepthView    *wgpu.TextureView
	OpaqueView   *wgpu.TextureView
	BlurTempView *wgpu.TextureView
	BlurOutView  *wgpu.TextureView
}

func NewTargets(device *wgpu.Device, format wgpu.TextureFormat, width, height uint32) (*Targets, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("render targets need a non-zero size, got %dx%d", width, height)
	}
	t := &Targets{Width: width, Height: height, Format: format}

	specs := []struct {
		label   string
		tex     **wgpu.Texture
		view    **wgpu.TextureView
		format  wgpu.TextureFormat
		samples uint32
		usage   wgpu.TextureUsage
	}{
		{"MSAA Color", &t.msaa, &t.MSAAView, format, SampleCount, wgpu.TextureUsageRenderAttachment},
		{"Depth Stencil", &t.depth, &t.DepthView, DepthStencilFormat, SampleCount, wgpu.TextureUsageRenderAttachment},
		{"Opaque Resolve", &t.opaque, &t.OpaqueView, format, 1, wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding},
		{"Blur Temp", &t.blurTemp, &t.BlurTempView, BlurFormat, 1, wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding},
		{"Blur Out", &t.blurOut, &t.BlurOutView, BlurFormat, 1, wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding},
	}
	for _, s := range specs {
		tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         s.label,
			Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   s.samples,
			Dimension:     wgpu.TextureDimension2D,
			Format:        s.format,
			Usage:         s.usage,
		})
		if err != nil {
			t.Release()
			return nil, fmt.Errorf("%s texture: %w", s.label, err)
		}
		*s.tex = tex
		view, err := tex.CreateView(nil)
		if err != nil {
			t.Release()
			return nil, fmt.Errorf("%s view: %w", s.label, err)
		}
		*s.view = view
	}
	return t, nil
}

func (t *Targets) Release() {
	if t == nil {
		return
	}
	for _, v := range []**wgpu.TextureView{&t.MSAAView, &t.DepthView, &t.OpaqueView, &t.BlurTempView, &t.BlurOutView} {
		if *v != nil {
			(*v).Release()
			*v = nil
		}
	}
	for _, tex := range []**wgpu.Texture{&t.msaa, &t.depth, &t.opaque, &t.blurTemp, &t.blurOut} {
		if *tex != nil {
			(*tex).Release()
			*tex = nil
		}
	}
}
