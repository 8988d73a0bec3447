package font

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTessellator(t *testing.T) *Tessellator {
	t.Helper()
	tess, err := NewDefaultTessellator(NewGlyphCache())
	require.NoError(t, err)
	return tess
}

func extent(g *core.Geometry) (lo, hi mgl32.Vec2) {
	pos := g.Positions()
	lo = mgl32.Vec2{math32.MaxFloat32, math32.MaxFloat32}
	hi = mgl32.Vec2{-math32.MaxFloat32, -math32.MaxFloat32}
	for i := 0; i < len(pos); i += 3 {
		lo = mgl32.Vec2{math32.Min(lo[0], pos[i]), math32.Min(lo[1], pos[i+1])}
		hi = mgl32.Vec2{math32.Max(hi[0], pos[i]), math32.Max(hi[1], pos[i+1])}
	}
	return lo, hi
}

func TestTessellate_SingleGlyph(t *testing.T) {
	tess := newTestTessellator(t)
	stencil, cover, err := tess.Tessellate("H", 1)
	require.NoError(t, err)

	require.NoError(t, stencil.Validate(true))
	require.NoError(t, cover.Validate(true))

	assert.Equal(t, []float32{0, 0, 0}, stencil.Positions()[:3], "fans share the origin at vertex 0")
	assert.Zero(t, stencil.IndexCount()%3)
	// One triangle per contour edge, one vertex per contour point.
	assert.Equal(t, stencil.VertexCount()-1, stencil.IndexCount()/3)

	assert.Equal(t, 4, cover.VertexCount())
	assert.Equal(t, 6, cover.IndexCount())

	_, hi := extent(stencil)
	assert.Greater(t, hi[1], float32(0.5), "cap height is above the baseline, Y up")
	assert.Less(t, hi[1], float32(1.0))
}

func TestTessellate_CoverEnclosesStencil(t *testing.T) {
	tess := newTestTessellator(t)
	stencil, cover, err := tess.Tessellate("g", 10)
	require.NoError(t, err)

	sLo, sHi := extent(stencil)
	cLo, cHi := extent(cover)
	assert.Less(t, cHi[0], sHi[0]+1)
	assert.GreaterOrEqual(t, cHi[0], sHi[0])
	assert.GreaterOrEqual(t, cHi[1], sHi[1])
	assert.LessOrEqual(t, cLo[1], sLo[1])
	assert.Less(t, cLo[1], float32(0), "descender goes below the baseline")
}

func TestTessellate_AdvanceAndLines(t *testing.T) {
	tess := newTestTessellator(t)

	_, cover, err := tess.Tessellate("AB", 1)
	require.NoError(t, err)
	require.Equal(t, 8, cover.VertexCount())
	pos := cover.Positions()
	assert.Greater(t, pos[12], pos[0], "second glyph starts right of the first")

	_, cover, err = tess.Tessellate("A B", 1)
	require.NoError(t, err)
	assert.Equal(t, 8, cover.VertexCount(), "space advances without a quad")

	_, cover, err = tess.Tessellate("A\nA", 1)
	require.NoError(t, err)
	pos = cover.Positions()
	assert.InDelta(t, pos[0], pos[12], 1e-5, "new line returns to the left edge")
	assert.Less(t, pos[13], pos[1])
}

func TestTessellate_Empty(t *testing.T) {
	tess := newTestTessellator(t)
	_, _, err := tess.Tessellate("", 1)
	assert.ErrorIs(t, err, ErrEmptyText)
	_, _, err = tess.Tessellate("  \n ", 1)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestGlyphCache_SharedAcrossCalls(t *testing.T) {
	cache := NewGlyphCache()
	tess, err := NewDefaultTessellator(cache)
	require.NoError(t, err)

	_, _, err = tess.Tessellate("aaa", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
	hits, misses := cache.Stats()
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)

	other := NewTessellator(tess.Font, cache)
	_, _, err = other.Tessellate("a", 5)
	require.NoError(t, err)
	hits, _ = cache.Stats()
	assert.Equal(t, 3, hits, "outlines are size independent")
}

func TestGlyphCache_KeyedByTolerance(t *testing.T) {
	tess := newTestTessellator(t)
	idx, err := tess.Font.GlyphIndex(&tess.buf, 'O')
	require.NoError(t, err)

	coarse, err := tess.Cache.Outline(tess.Font, idx, 1000)
	require.NoError(t, err)
	fine, err := tess.Cache.Outline(tess.Font, idx, 0.1)
	require.NoError(t, err)

	assert.NotSame(t, coarse, fine)
	assert.Equal(t, 2, tess.Cache.Len())
	assert.Greater(t, len(fine.Contours[0]), len(coarse.Contours[0]))

	again, err := tess.Cache.Outline(tess.Font, idx, 0.1)
	require.NoError(t, err)
	assert.Same(t, fine, again)
}

func TestOutline_Bounds(t *testing.T) {
	tess := newTestTessellator(t)
	idx, err := tess.Font.GlyphIndex(&tess.buf, 'g')
	require.NoError(t, err)
	o, err := tess.Cache.Outline(tess.Font, idx, tess.Tolerance)
	require.NoError(t, err)

	assert.Less(t, o.Min[1], float32(0), "descender is below the baseline")
	assert.Greater(t, o.Max[1], float32(0))
	assert.Less(t, o.Min[0], o.Max[0])
	for _, ct := range o.Contours {
		for _, p := range ct {
			assert.True(t, p[0] >= o.Min[0] && p[0] <= o.Max[0])
			assert.True(t, p[1] >= o.Min[1] && p[1] <= o.Max[1])
		}
	}
}

func TestNewText(t *testing.T) {
	tess := newTestTessellator(t)
	m := core.NewMaterial(mgl32.Vec4{1, 1, 1, 1})
	text, err := tess.NewText("Hi", 0.5, m)
	require.NoError(t, err)
	assert.True(t, text.FrustumCulled)
	assert.Same(t, m, text.Material)
	assert.NotNil(t, text.Stencil)
	assert.NotNil(t, text.Cover)
}

func TestFlatten(t *testing.T) {
	p0, p1, p2 := mgl32.Vec2{0, 0}, mgl32.Vec2{50, 100}, mgl32.Vec2{100, 0}
	pts := flattenQuad(nil, p0, p1, p2, 1)
	require.NotEmpty(t, pts)
	assert.Equal(t, p2, pts[len(pts)-1])
	assert.Greater(t, len(pts), 4)

	// A straight control polygon still ends exactly at the end point.
	line := flattenCubic(nil, p0, mgl32.Vec2{1, 0}, mgl32.Vec2{2, 0}, mgl32.Vec2{3, 0}, 10)
	assert.Len(t, line, 1)
	assert.Equal(t, mgl32.Vec2{3, 0}, line[0])
}
