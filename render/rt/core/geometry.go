package core

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Attribute names understood by the renderer.
const (
	AttrPosition   = "position"   // 3 floats per vertex
	AttrNormal     = "normal"     // 3 floats per vertex
	AttrColor      = "color"      // 4 floats per vertex
	AttrSkinIndex  = "skinIndex"  // 4 floats per vertex (joint indices)
	AttrSkinWeight = "skinWeight" // 4 floats per vertex
)

// InstanceStride is the number of floats per instance: a column-major
// model matrix followed by an RGBA tint.
const InstanceStride = 20

var (
	ErrMissingPosition = errors.New("geometry has no position attribute")
	ErrMissingIndex    = errors.New("geometry has no index buffer")
)

// Geometry holds named vertex attributes, an optional index list and
// optional per-instance data. The bounding sphere is computed on first use
// and cached until Invalidate is called; attribute edits are not tracked.
type Geometry struct {
	ID         uuid.UUID
	Label      string
	Attributes map[string][]float32
	Indices    []uint32

	instances      []float32
	instancesDirty bool

	version uint64
	bounds  *Sphere
}

func NewGeometry(label string) *Geometry {
	return &Geometry{
		ID:         uuid.New(),
		Label:      label,
		Attributes: make(map[string][]float32),
	}
}

func (g *Geometry) SetAttribute(name string, data []float32) *Geometry {
	g.Attributes[name] = data
	return g
}

func (g *Geometry) SetIndices(indices []uint32) *Geometry {
	g.Indices = indices
	return g
}

func (g *Geometry) Positions() []float32 {
	return g.Attributes[AttrPosition]
}

func (g *Geometry) VertexCount() int {
	return len(g.Attributes[AttrPosition]) / 3
}

func (g *Geometry) IndexCount() int {
	return len(g.Indices)
}

// Version changes every time Invalidate is called. GPU caches rebuild
// their buffers when it differs from the one they were built from.
func (g *Geometry) Version() uint64 {
	return g.version
}

// Invalidate marks the geometry contents as changed: cached bounds are
// dropped and GPU buffers will be rebuilt on next use.
func (g *Geometry) Invalidate() {
	g.version++
	g.bounds = nil
}

// Validate checks the contract the buffer builders rely on.
func (g *Geometry) Validate(needIndex bool) error {
	pos, ok := g.Attributes[AttrPosition]
	if !ok || len(pos) == 0 {
		return fmt.Errorf("%s: %w", g.Label, ErrMissingPosition)
	}
	if len(pos)%3 != 0 {
		return fmt.Errorf("%s: position length %d is not a multiple of 3: %w", g.Label, len(pos), ErrMissingPosition)
	}
	if needIndex && len(g.Indices) == 0 {
		return fmt.Errorf("%s: %w", g.Label, ErrMissingIndex)
	}
	return nil
}

// Instancing

func (g *Geometry) Instanced() bool {
	return len(g.instances) > 0
}

func (g *Geometry) InstanceCount() int {
	return len(g.instances) / InstanceStride
}

func (g *Geometry) InstanceData() []float32 {
	return g.instances
}

// SetInstanceCount resizes the instance array. New instances get an
// identity matrix and a white tint.
func (g *Geometry) SetInstanceCount(n int) {
	old := g.InstanceCount()
	if n < old {
		g.instances = g.instances[:n*InstanceStride]
	} else {
		for i := old; i < n; i++ {
			g.instances = append(g.instances, make([]float32, InstanceStride)...)
			g.writeInstance(i, mgl32.Ident4(), mgl32.Vec4{1, 1, 1, 1})
		}
	}
	g.instancesDirty = true
	g.bounds = nil
}

func (g *Geometry) SetInstance(i int, m mgl32.Mat4, tint mgl32.Vec4) {
	g.writeInstance(i, m, tint)
	g.instancesDirty = true
	g.bounds = nil
}

func (g *Geometry) Instance(i int) (mgl32.Mat4, mgl32.Vec4) {
	var m mgl32.Mat4
	var tint mgl32.Vec4
	base := i * InstanceStride
	copy(m[:], g.instances[base:base+16])
	copy(tint[:], g.instances[base+16:base+20])
	return m, tint
}

func (g *Geometry) writeInstance(i int, m mgl32.Mat4, tint mgl32.Vec4) {
	base := i * InstanceStride
	copy(g.instances[base:base+16], m[:])
	copy(g.instances[base+16:base+20], tint[:])
}

// InstancesDirty reports per-instance edits not yet uploaded.
func (g *Geometry) InstancesDirty() bool {
	return g.instancesDirty
}

func (g *Geometry) ClearInstancesDirty() {
	g.instancesDirty = false
}
