// Package resource memoizes GPU buffers per geometry.
package resource

import (
	"fmt"

	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/google/uuid"
)

// Builder creates and releases the GPU-side form T of a geometry.
type Builder[T any] interface {
	// Build creates buffers for g. needIndex is set for triangle kinds.
	Build(g *core.Geometry, needIndex bool) (T, error)
	// UpdateInstances rewrites the instance buffer of res in place. It
	// returns false when the buffer is too small and a rebuild is needed.
	UpdateInstances(res T, g *core.Geometry) bool
	Release(res T)
}

type entry[T any] struct {
	res     T
	version uint64
	indexed bool
}

// Cache maps geometry identity to built resources. It is used from the
// frame loop only and is not safe for concurrent use.
type Cache[T any] struct {
	builder Builder[T]
	entries map[uuid.UUID]*entry[T]

	builds int
}

func NewCache[T any](b Builder[T]) *Cache[T] {
	return &Cache[T]{builder: b, entries: make(map[uuid.UUID]*entry[T])}
}

// Get returns the resources of g, building them on first use or after
// g.Invalidate. Dirty instance data is uploaded in place when it fits.
func (c *Cache[T]) Get(g *core.Geometry, needIndex bool) (T, error) {
	e, ok := c.entries[g.ID]
	if ok && e.version == g.Version() && (e.indexed || !needIndex) {
		if g.InstancesDirty() {
			if !c.builder.UpdateInstances(e.res, g) {
				return c.rebuild(g, needIndex)
			}
			g.ClearInstancesDirty()
		}
		return e.res, nil
	}
	return c.rebuild(g, needIndex)
}

func (c *Cache[T]) rebuild(g *core.Geometry, needIndex bool) (T, error) {
	var zero T
	if err := g.Validate(needIndex); err != nil {
		return zero, err
	}
	res, err := c.builder.Build(g, needIndex)
	if err != nil {
		return zero, fmt.Errorf("failed to build buffers for %s: %w", g.Label, err)
	}
	if old, ok := c.entries[g.ID]; ok {
		c.builder.Release(old.res)
	}
	c.entries[g.ID] = &entry[T]{res: res, version: g.Version(), indexed: needIndex}
	g.ClearInstancesDirty()
	c.builds++
	return res, nil
}

// Evict releases the resources of one geometry.
func (c *Cache[T]) Evict(id uuid.UUID) bool {
	e, ok := c.entries[id]
	if !ok {
		return false
	}
	c.builder.Release(e.res)
	delete(c.entries, id)
	return true
}

// Release frees every entry. The cache stays usable.
func (c *Cache[T]) Release() {
	for id, e := range c.entries {
		c.builder.Release(e.res)
		delete(c.entries, id)
	}
}

func (c *Cache[T]) Len() int {
	return len(c.entries)
}

// Builds counts buffer builds since creation.
func (c *Cache[T]) Builds() int {
	return c.builds
}
