package core

import "github.com/go-gl/mathgl/mgl32"

type DrawKind uint8

const (
	KindStatic DrawKind = iota
	KindSkinned
	KindInstanced
	KindLine
	KindInstancedLine
	KindTextStencil
	KindTextCover

	NumDrawKinds
)

func (k DrawKind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindSkinned:
		return "skinned"
	case KindInstanced:
		return "instanced"
	case KindLine:
		return "line"
	case KindInstancedLine:
		return "instanced-line"
	case KindTextStencil:
		return "text-stencil"
	case KindTextCover:
		return "text-cover"
	}
	return "unknown"
}

// Indexed reports whether the kind is drawn from an index buffer.
func (k DrawKind) Indexed() bool {
	return k != KindLine && k != KindInstancedLine
}

// DrawItem is one draw call's worth of scene data for a single frame.
type DrawItem struct {
	Kind     DrawKind
	Node     *Node
	Geometry *Geometry
	Material *Material
	Skeleton *Skeleton
	World    mgl32.Mat4
}

func (d *DrawItem) Layer() Layer {
	if d.Material == nil {
		return LayerRegular
	}
	return d.Material.Layer
}
