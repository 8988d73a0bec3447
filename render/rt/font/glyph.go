package font

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Outline is a flattened glyph in font units with Y pointing up. Each
// contour is an implicitly closed polygon.
type Outline struct {
	Contours [][]mgl32.Vec2
	Min, Max mgl32.Vec2
	Advance  float32
}

func (o *Outline) Empty() bool {
	return len(o.Contours) == 0
}

type glyphKey struct {
	font      *sfnt.Font
	index     sfnt.GlyphIndex
	tolerance float32
}

// GlyphCache memoizes flattened outlines per font, glyph index and
// flattening tolerance. It is
// owned by whoever creates it and may be shared by several tessellators
// running on the same goroutine.
type GlyphCache struct {
	glyphs map[glyphKey]*Outline
	buf    sfnt.Buffer

	hits, misses int
}

func NewGlyphCache() *GlyphCache {
	return &GlyphCache{glyphs: make(map[glyphKey]*Outline)}
}

func (c *GlyphCache) Len() int {
	return len(c.glyphs)
}

// Stats returns the number of cache hits and misses so far.
func (c *GlyphCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// Outline returns the flattened outline of glyph x, loading it on first use.
// Curves are subdivided until each chord is within tolerance font units of
// the curve.
func (c *GlyphCache) Outline(f *sfnt.Font, x sfnt.GlyphIndex, tolerance float32) (*Outline, error) {
	key := glyphKey{font: f, index: x, tolerance: tolerance}
	if o, ok := c.glyphs[key]; ok {
		c.hits++
		return o, nil
	}
	c.misses++

	o, err := c.load(f, x, tolerance)
	if err != nil {
		return nil, err
	}
	c.glyphs[key] = o
	return o, nil
}

func (c *GlyphCache) load(f *sfnt.Font, x sfnt.GlyphIndex, tolerance float32) (*Outline, error) {
	// Loading at ppem == unitsPerEm yields coordinates in font units.
	ppem := fixed.I(int(f.UnitsPerEm()))

	adv, err := f.GlyphAdvance(&c.buf, x, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("glyph %d advance: %w", x, err)
	}
	o := &Outline{Advance: fromFixed(adv)}

	segments, err := f.LoadGlyph(&c.buf, x, ppem, nil)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			return o, nil
		}
		return nil, fmt.Errorf("glyph %d outline: %w", x, err)
	}

	var contour []mgl32.Vec2
	var pen mgl32.Vec2
	flush := func() {
		if len(contour) > 1 && contour[0].ApproxEqual(contour[len(contour)-1]) {
			contour = contour[:len(contour)-1]
		}
		if len(contour) >= 3 {
			o.Contours = append(o.Contours, contour)
		}
		contour = nil
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			pen = toVec(seg.Args[0])
			contour = append(contour, pen)
		case sfnt.SegmentOpLineTo:
			pen = toVec(seg.Args[0])
			contour = append(contour, pen)
		case sfnt.SegmentOpQuadTo:
			ctrl, end := toVec(seg.Args[0]), toVec(seg.Args[1])
			contour = flattenQuad(contour, pen, ctrl, end, tolerance)
			pen = end
		case sfnt.SegmentOpCubeTo:
			c1, c2, end := toVec(seg.Args[0]), toVec(seg.Args[1]), toVec(seg.Args[2])
			contour = flattenCubic(contour, pen, c1, c2, end, tolerance)
			pen = end
		}
	}
	flush()

	if !o.Empty() {
		inf := float32(math32.MaxFloat32)
		o.Min, o.Max = mgl32.Vec2{inf, inf}, mgl32.Vec2{-inf, -inf}
		for _, ct := range o.Contours {
			for _, p := range ct {
				o.Min = mgl32.Vec2{math32.Min(o.Min[0], p[0]), math32.Min(o.Min[1], p[1])}
				o.Max = mgl32.Vec2{math32.Max(o.Max[0], p[0]), math32.Max(o.Max[1], p[1])}
			}
		}
	}
	return o, nil
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

// toVec converts an sfnt point (Y down) to Y up.
func toVec(p fixed.Point26_6) mgl32.Vec2 {
	return mgl32.Vec2{fromFixed(p.X), -fromFixed(p.Y)}
}

// segmentsFor picks a subdivision count from the control polygon length.
// The deviation of a curve from its chord shrinks with the square of the
// step count.
func segmentsFor(polyLen, tolerance float32) int {
	if tolerance <= 0 {
		tolerance = 1
	}
	n := int(math32.Ceil(math32.Sqrt(polyLen / tolerance)))
	return max(1, min(n, 32))
}

// flattenQuad appends the points of the curve after p0.
func flattenQuad(dst []mgl32.Vec2, p0, p1, p2 mgl32.Vec2, tolerance float32) []mgl32.Vec2 {
	n := segmentsFor(p1.Sub(p0).Len()+p2.Sub(p1).Len(), tolerance)
	for i := 1; i <= n; i++ {
		t := float32(i) / float32(n)
		u := 1 - t
		p := p0.Mul(u * u).Add(p1.Mul(2 * u * t)).Add(p2.Mul(t * t))
		dst = append(dst, p)
	}
	return dst
}

func flattenCubic(dst []mgl32.Vec2, p0, p1, p2, p3 mgl32.Vec2, tolerance float32) []mgl32.Vec2 {
	n := segmentsFor(p1.Sub(p0).Len()+p2.Sub(p1).Len()+p3.Sub(p2).Len(), tolerance)
	for i := 1; i <= n; i++ {
		t := float32(i) / float32(n)
		u := 1 - t
		p := p0.Mul(u * u * u).
			Add(p1.Mul(3 * u * u * t)).
			Add(p2.Mul(3 * u * t * t)).
			Add(p3.Mul(t * t * t))
		dst = append(dst, p)
	}
	return dst
}
