package font

import (
	"errors"
	"fmt"

	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

var ErrEmptyText = errors.New("text has no visible glyphs")

// Tessellator turns strings into the stencil and cover geometries of
// core.Text. Output is in text-local units: the first line's baseline
// starts at the origin, X grows right and Y up, and one em is Size units.
type Tessellator struct {
	Font  *sfnt.Font
	Cache *GlyphCache
	// Tolerance is the maximum chord deviation in font units.
	Tolerance float32
	// Padding grows every cover quad, in em.
	Padding float32

	buf sfnt.Buffer
}

func NewTessellator(f *sfnt.Font, cache *GlyphCache) *Tessellator {
	if cache == nil {
		cache = NewGlyphCache()
	}
	return &Tessellator{
		Font:      f,
		Cache:     cache,
		Tolerance: 2,
		Padding:   0.02,
	}
}

// NewDefaultTessellator uses the Go Regular font.
func NewDefaultTessellator(cache *GlyphCache) (*Tessellator, error) {
	f, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse default font: %w", err)
	}
	return NewTessellator(f, cache), nil
}

// Tessellate lays s out at the given size and returns the stencil fans and
// cover quads. The stencil geometry holds the shared origin at vertex 0 and
// one triangle (origin, p[i], p[i+1]) per contour edge.
func (t *Tessellator) Tessellate(s string, size float32) (stencil, cover *core.Geometry, err error) {
	upem := float32(t.Font.UnitsPerEm())
	scale := size / upem
	ppem := fixed.I(int(upem))

	metrics, err := t.Font.Metrics(&t.buf, ppem, xfont.HintingNone)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read font metrics: %w", err)
	}
	lineHeight := fromFixed(metrics.Height)

	sPos := []float32{0, 0, 0}
	var sIdx []uint32
	var cPos []float32
	var cIdx []uint32
	pad := t.Padding * upem

	var pen mgl32.Vec2
	var prev sfnt.GlyphIndex
	hasPrev := false

	for _, r := range s {
		if r == '\n' {
			pen = mgl32.Vec2{0, pen[1] - lineHeight}
			hasPrev = false
			continue
		}

		idx, err := t.Font.GlyphIndex(&t.buf, r)
		if err != nil {
			return nil, nil, fmt.Errorf("rune %q: %w", r, err)
		}
		if hasPrev {
			k, err := t.Font.Kern(&t.buf, prev, idx, ppem, xfont.HintingNone)
			switch {
			case err == nil:
				pen[0] += fromFixed(k)
			case !errors.Is(err, sfnt.ErrNotFound):
				return nil, nil, fmt.Errorf("kern %q: %w", r, err)
			}
		}
		prev, hasPrev = idx, true

		o, err := t.Cache.Outline(t.Font, idx, t.Tolerance)
		if err != nil {
			return nil, nil, fmt.Errorf("rune %q: %w", r, err)
		}

		for _, ct := range o.Contours {
			first := uint32(len(sPos) / 3)
			for _, p := range ct {
				q := p.Add(pen).Mul(scale)
				sPos = append(sPos, q[0], q[1], 0)
			}
			n := uint32(len(ct))
			for i := uint32(0); i < n; i++ {
				sIdx = append(sIdx, 0, first+i, first+(i+1)%n)
			}
		}

		if !o.Empty() {
			lo := o.Min.Add(pen).Sub(mgl32.Vec2{pad, pad}).Mul(scale)
			hi := o.Max.Add(pen).Add(mgl32.Vec2{pad, pad}).Mul(scale)
			base := uint32(len(cPos) / 3)
			cPos = append(cPos,
				lo[0], lo[1], 0,
				hi[0], lo[1], 0,
				hi[0], hi[1], 0,
				lo[0], hi[1], 0,
			)
			cIdx = append(cIdx, base, base+1, base+2, base, base+2, base+3)
		}

		pen[0] += o.Advance
	}

	if len(cIdx) == 0 {
		return nil, nil, fmt.Errorf("%q: %w", s, ErrEmptyText)
	}

	stencil = core.NewGeometry("text-stencil:" + s).
		SetAttribute(core.AttrPosition, sPos).
		SetIndices(sIdx)
	cover = core.NewGeometry("text-cover:" + s).
		SetAttribute(core.AttrPosition, cPos).
		SetIndices(cIdx)
	return stencil, cover, nil
}

// NewText tessellates s into a frustum-culled text payload.
func (t *Tessellator) NewText(s string, size float32, m *core.Material) (*core.Text, error) {
	stencil, cover, err := t.Tessellate(s, size)
	if err != nil {
		return nil, err
	}
	return &core.Text{
		Stencil:       stencil,
		Cover:         cover,
		Material:      m,
		FrustumCulled: true,
	}, nil
}
