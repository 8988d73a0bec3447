package core

import "github.com/go-gl/mathgl/mgl32"

// Skeleton carries bone matrices computed by the animation system once per
// frame after world matrices are current.
type Skeleton struct {
	Bones []mgl32.Mat4
}

type Mesh struct {
	Geometry *Geometry
	Material *Material
	Skeleton *Skeleton
	// Lines draws the geometry as a line list instead of triangles.
	Lines bool
	// FrustumCulled opts the mesh into culling against its bounding sphere.
	FrustumCulled bool
}

func NewMesh(g *Geometry, m *Material) *Mesh {
	return &Mesh{Geometry: g, Material: m, FrustumCulled: true}
}

func (m *Mesh) Kind() DrawKind {
	switch {
	case m.Lines && m.Geometry.Instanced():
		return KindInstancedLine
	case m.Lines:
		return KindLine
	case m.Skeleton != nil:
		return KindSkinned
	case m.Geometry.Instanced():
		return KindInstanced
	}
	return KindStatic
}

// Text is a pre-tessellated string: Stencil holds one triangle fan per glyph
// contour, Cover one padded quad per glyph. Both share the node's transform.
type Text struct {
	Stencil       *Geometry
	Cover         *Geometry
	Material      *Material
	FrustumCulled bool
}
