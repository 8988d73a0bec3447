package core

import "github.com/go-gl/mathgl/mgl32"

// Layer selects the subset of the frame a draw item is rendered in.
type Layer uint32

const (
	LayerRegular Layer = iota
	LayerGlass
	LayerUI
)

func (l Layer) String() string {
	switch l {
	case LayerRegular:
		return "regular"
	case LayerGlass:
		return "glass"
	case LayerUI:
		return "ui"
	}
	return "unknown"
}

// Material is the per-object shading input. For glass, Color.W is the
// weight of the tint over the blurred background.
type Material struct {
	Color mgl32.Vec4
	Layer Layer
	Unlit bool
}

func NewMaterial(color mgl32.Vec4) *Material {
	return &Material{Color: color}
}

func NewGlassMaterial(tint mgl32.Vec4) *Material {
	return &Material{Color: tint, Layer: LayerGlass}
}
