package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingSphere_CachedUntilInvalidate(t *testing.T) {
	g := NewBoxGeometry(2, 2, 2)

	s, ok := g.BoundingSphere()
	require.True(t, ok)
	assert.InDelta(t, 0, s.Center.Len(), 1e-6)
	assert.InDelta(t, 1.7320508, s.Radius, 1e-5)

	// Edits are not tracked until the caller invalidates.
	g.SetAttribute(AttrPosition, []float32{0, 0, 0, 10, 0, 0})
	s2, _ := g.BoundingSphere()
	assert.Equal(t, s, s2)

	v := g.Version()
	g.Invalidate()
	assert.NotEqual(t, v, g.Version())
	s3, ok := g.BoundingSphere()
	require.True(t, ok)
	assert.InDelta(t, 5, s3.Center.X(), 1e-6)
	assert.InDelta(t, 5, s3.Radius, 1e-6)
}

func TestBoundingSphere_NegativeExtent(t *testing.T) {
	g := NewGeometry("far").SetAttribute(AttrPosition, []float32{
		-1e30, -4, -6,
		-1e30, -2, -6,
	})
	s, ok := g.BoundingSphere()
	require.True(t, ok)
	assert.Equal(t, float32(-1e30), s.Center.X())
	assert.InDelta(t, -3, s.Center.Y(), 1e-6)
	assert.InDelta(t, 1, s.Radius, 1e-6)
}

func TestBoundingSphere_NoPositions(t *testing.T) {
	g := NewGeometry("empty")
	_, ok := g.BoundingSphere()
	assert.False(t, ok)
}

func TestSphereTransform_ScalesByMaxAxis(t *testing.T) {
	s := Sphere{Center: mgl32.Vec3{1, 0, 0}, Radius: 1}
	m := mgl32.Translate3D(0, 5, 0).Mul4(mgl32.Scale3D(2, 3, 0.5))

	out := s.Transform(m)
	assert.InDelta(t, 2, out.Center.X(), 1e-6)
	assert.InDelta(t, 5, out.Center.Y(), 1e-6)
	assert.InDelta(t, 3, out.Radius, 1e-6)
}

func TestSphereUnion(t *testing.T) {
	a := Sphere{Center: mgl32.Vec3{-2, 0, 0}, Radius: 1}
	b := Sphere{Center: mgl32.Vec3{2, 0, 0}, Radius: 1}

	u := a.Union(b)
	assert.InDelta(t, 0, u.Center.X(), 1e-6)
	assert.InDelta(t, 3, u.Radius, 1e-6)

	inner := Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 0.5}
	assert.Equal(t, u, u.Union(inner))
	assert.Equal(t, a, Sphere{Radius: -1}.Union(a))
}

func TestBoundingSphere_EnclosesInstances(t *testing.T) {
	g := NewBoxGeometry(1, 1, 1)
	g.SetInstanceCount(2)
	g.SetInstance(0, mgl32.Translate3D(-10, 0, 0), mgl32.Vec4{1, 1, 1, 1})
	g.SetInstance(1, mgl32.Translate3D(10, 0, 0), mgl32.Vec4{1, 1, 1, 1})

	s, ok := g.BoundingSphere()
	require.True(t, ok)
	assert.InDelta(t, 0, s.Center.X(), 1e-5)
	assert.GreaterOrEqual(t, s.Radius, float32(10.8))
}
