package core

import "github.com/go-gl/mathgl/mgl32"

// MaxLights is the per-frame light capacity; further lights are ignored.
const MaxLights = 16

type LightKind uint32

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
)

// Light shines along the node's -Z axis (directional) or from its origin (point).
type Light struct {
	Kind      LightKind
	Color     mgl32.Vec3
	Intensity float32
	Range     float32 // point lights only; 0 means unbounded
}

type LightItem struct {
	Light *Light
	World mgl32.Mat4
}

func (li LightItem) Position() mgl32.Vec3 {
	return li.World.Col(3).Vec3()
}

func (li LightItem) Direction() mgl32.Vec3 {
	d := li.World.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	if d.LenSqr() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}
