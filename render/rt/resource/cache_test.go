package resource

import (
	"testing"

	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBuffers struct {
	id        int
	instances int
	capacity  int
	released  bool
}

type fakeBuilder struct {
	next    int
	updates int
	live    map[int]*fakeBuffers
}

func newFakeBuilder() *fakeBuilder {
	return &fakeBuilder{live: make(map[int]*fakeBuffers)}
}

func (b *fakeBuilder) Build(g *core.Geometry, _ bool) (*fakeBuffers, error) {
	b.next++
	res := &fakeBuffers{id: b.next, instances: g.InstanceCount(), capacity: g.InstanceCount()}
	b.live[res.id] = res
	return res, nil
}

func (b *fakeBuilder) UpdateInstances(res *fakeBuffers, g *core.Geometry) bool {
	if g.InstanceCount() > res.capacity {
		return false
	}
	res.instances = g.InstanceCount()
	b.updates++
	return true
}

func (b *fakeBuilder) Release(res *fakeBuffers) {
	res.released = true
	delete(b.live, res.id)
}

func TestCache_BuildsOnce(t *testing.T) {
	b := newFakeBuilder()
	c := NewCache[*fakeBuffers](b)
	g := core.NewBoxGeometry(1, 1, 1)

	r1, err := c.Get(g, true)
	require.NoError(t, err)
	r2, err := c.Get(g, true)
	require.NoError(t, err)
	assert.Same(t, r1, r2)
	assert.Equal(t, 1, c.Builds())
}

func TestCache_RebuildsAfterInvalidate(t *testing.T) {
	b := newFakeBuilder()
	c := NewCache[*fakeBuffers](b)
	g := core.NewBoxGeometry(1, 1, 1)

	r1, _ := c.Get(g, true)
	g.Invalidate()
	r2, err := c.Get(g, true)
	require.NoError(t, err)
	assert.NotSame(t, r1, r2)
	assert.True(t, r1.released)
	assert.Len(t, b.live, 1)
}

func TestCache_InstancesUpdatedInPlace(t *testing.T) {
	b := newFakeBuilder()
	c := NewCache[*fakeBuffers](b)
	g := core.NewBoxGeometry(1, 1, 1)
	g.SetInstanceCount(4)

	r1, _ := c.Get(g, true)
	assert.False(t, g.InstancesDirty())

	g.SetInstance(2, mgl32.Translate3D(1, 0, 0), mgl32.Vec4{1, 1, 1, 1})
	r2, _ := c.Get(g, true)
	assert.Same(t, r1, r2)
	assert.Equal(t, 1, b.updates)
	assert.False(t, g.InstancesDirty())

	// Growing past capacity forces a rebuild.
	g.SetInstanceCount(8)
	r3, _ := c.Get(g, true)
	assert.NotSame(t, r1, r3)
	assert.Equal(t, 8, r3.instances)
	assert.Equal(t, 2, c.Builds())
}

func TestCache_ContractViolations(t *testing.T) {
	c := NewCache[*fakeBuffers](newFakeBuilder())

	_, err := c.Get(core.NewGeometry("empty"), false)
	assert.ErrorIs(t, err, core.ErrMissingPosition)

	lines := core.NewLinesGeometry([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}, mgl32.Vec4{1, 1, 1, 1})
	_, err = c.Get(lines, true)
	assert.ErrorIs(t, err, core.ErrMissingIndex)
	_, err = c.Get(lines, false)
	assert.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestCache_EvictAndRelease(t *testing.T) {
	b := newFakeBuilder()
	c := NewCache[*fakeBuffers](b)
	g1 := core.NewBoxGeometry(1, 1, 1)
	g2 := core.NewPlaneGeometry(1, 1)
	_, _ = c.Get(g1, true)
	_, _ = c.Get(g2, true)

	assert.True(t, c.Evict(g1.ID))
	assert.False(t, c.Evict(g1.ID))
	assert.Equal(t, 1, c.Len())

	c.Release()
	assert.Zero(t, c.Len())
	assert.Empty(t, b.live)
}
