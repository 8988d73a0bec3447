package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestGeometryValidate(t *testing.T) {
	g := NewGeometry("g")
	assert.ErrorIs(t, g.Validate(false), ErrMissingPosition)

	g.SetAttribute(AttrPosition, []float32{0, 0})
	assert.ErrorIs(t, g.Validate(false), ErrMissingPosition)

	g.SetAttribute(AttrPosition, []float32{0, 0, 0})
	assert.NoError(t, g.Validate(false))
	assert.ErrorIs(t, g.Validate(true), ErrMissingIndex)

	g.SetIndices([]uint32{0, 0, 0})
	assert.NoError(t, g.Validate(true))
}

func TestGeometryInstances(t *testing.T) {
	g := NewPlaneGeometry(1, 1)
	assert.False(t, g.Instanced())

	g.SetInstanceCount(3)
	assert.True(t, g.Instanced())
	assert.True(t, g.InstancesDirty())
	assert.Equal(t, 3, g.InstanceCount())
	assert.Len(t, g.InstanceData(), 3*InstanceStride)

	m, tint := g.Instance(2)
	assert.Equal(t, mgl32.Ident4(), m)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, tint)

	g.ClearInstancesDirty()
	want := mgl32.Translate3D(1, 2, 3)
	g.SetInstance(1, want, mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, g.InstancesDirty())
	m, tint = g.Instance(1)
	assert.Equal(t, want, m)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, tint)

	g.SetInstanceCount(1)
	assert.Equal(t, 1, g.InstanceCount())
}

func TestMeshKind(t *testing.T) {
	g := NewBoxGeometry(1, 1, 1)
	m := NewMesh(g, NewMaterial(mgl32.Vec4{1, 1, 1, 1}))
	assert.Equal(t, KindStatic, m.Kind())

	m.Skeleton = &Skeleton{}
	assert.Equal(t, KindSkinned, m.Kind())
	m.Skeleton = nil

	m.Lines = true
	assert.Equal(t, KindLine, m.Kind())
	assert.False(t, m.Kind().Indexed())

	g.SetInstanceCount(2)
	assert.Equal(t, KindInstancedLine, m.Kind())
	m.Lines = false
	assert.Equal(t, KindInstanced, m.Kind())
}

func TestNodeUpdateWorld(t *testing.T) {
	root := NewNode("root")
	root.Transform.Position = mgl32.Vec3{1, 0, 0}
	child := NewNode("child")
	child.Transform.Position = mgl32.Vec3{0, 2, 0}
	root.Add(child)

	root.UpdateWorld()
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, child.World.Col(3).Vec3())

	other := NewNode("other")
	other.Add(child)
	assert.Empty(t, root.Children())
	assert.Equal(t, other, child.Parent())
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	m := mgl32.Translate3D(3, 0, 0).Mul4(mgl32.HomogRotate3DY(0.7)).Mul4(mgl32.Scale3D(2, 1, 0.5))
	n := NormalMatrix(m)
	// N^T * M = I for the linear part.
	prod := n.Transpose().Mul4(m)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := float32(0)
			if r == c {
				want = 1
			}
			assert.InDelta(t, want, prod.At(r, c), 1e-5)
		}
	}
}
