package frame

import (
	"sort"

	"github.com/gekko3d/scenery/render/rt/core"
)

// Plan is one frame's draw list after truncation, split into layers.
// Opaque, Glass and UI hold indices into Draws in render order; an index is
// also the item's uniform slot.
type Plan struct {
	Draws  []core.DrawItem
	Lights []core.LightItem

	Opaque []int
	Glass  []int
	UI     []int
}

// NewPlan truncates draws to MaxRenderables and builds the layer orders.
func NewPlan(draws []core.DrawItem, lights []core.LightItem) *Plan {
	if len(lights) > core.MaxLights {
		lights = lights[:core.MaxLights]
	}
	p := &Plan{
		Draws:  Truncate(draws, MaxRenderables),
		Lights: lights,
	}
	for i := range p.Draws {
		switch p.Draws[i].Layer() {
		case core.LayerGlass:
			p.Glass = append(p.Glass, i)
		case core.LayerUI:
			p.UI = append(p.UI, i)
		default:
			p.Opaque = append(p.Opaque, i)
		}
	}
	p.sortByGroup(p.Opaque)
	p.sortByGroup(p.Glass)
	p.sortByGroup(p.UI)
	return p
}

// Truncate keeps at most n items. A text stencil whose cover would be cut off
// is dropped as well.
func Truncate(draws []core.DrawItem, n int) []core.DrawItem {
	if len(draws) <= n {
		return draws
	}
	draws = draws[:n]
	if n > 0 && draws[n-1].Kind == core.KindTextStencil {
		draws = draws[:n-1]
	}
	return draws
}

// NeedsBlur reports whether the blur passes run this frame.
func (p *Plan) NeedsBlur() bool {
	return len(p.Glass) > 0
}

// PipelineGroup is the render-order sort key. Text stencil and cover share a
// group so every cover directly follows its stencil.
func PipelineGroup(k core.DrawKind) int {
	if k == core.KindTextCover {
		return int(core.KindTextStencil)
	}
	return int(k)
}

func (p *Plan) sortByGroup(order []int) {
	sort.SliceStable(order, func(a, b int) bool {
		return PipelineGroup(p.Draws[order[a]].Kind) < PipelineGroup(p.Draws[order[b]].Kind)
	})
}
