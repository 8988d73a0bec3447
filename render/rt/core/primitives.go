package core

import "github.com/go-gl/mathgl/mgl32"

// NewBoxGeometry builds an axis-aligned box centered on the origin with
// per-face normals.
func NewBoxGeometry(w, h, d float32) *Geometry {
	hx, hy, hz := w/2, h/2, d/2
	faces := []struct {
		n      mgl32.Vec3
		u, v   mgl32.Vec3
		offset mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -hz}, mgl32.Vec3{0, hy, 0}, mgl32.Vec3{hx, 0, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, hz}, mgl32.Vec3{0, hy, 0}, mgl32.Vec3{-hx, 0, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{hx, 0, 0}, mgl32.Vec3{0, 0, -hz}, mgl32.Vec3{0, hy, 0}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{hx, 0, 0}, mgl32.Vec3{0, 0, hz}, mgl32.Vec3{0, -hy, 0}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{hx, 0, 0}, mgl32.Vec3{0, hy, 0}, mgl32.Vec3{0, 0, hz}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-hx, 0, 0}, mgl32.Vec3{0, hy, 0}, mgl32.Vec3{0, 0, -hz}},
	}

	pos := make([]float32, 0, 24*3)
	nrm := make([]float32, 0, 24*3)
	idx := make([]uint32, 0, 36)
	for fi, f := range faces {
		corners := [4]mgl32.Vec3{
			f.offset.Sub(f.u).Sub(f.v),
			f.offset.Add(f.u).Sub(f.v),
			f.offset.Add(f.u).Add(f.v),
			f.offset.Sub(f.u).Add(f.v),
		}
		for _, c := range corners {
			pos = append(pos, c[:]...)
			nrm = append(nrm, f.n[:]...)
		}
		base := uint32(fi * 4)
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}

	return NewGeometry("box").
		SetAttribute(AttrPosition, pos).
		SetAttribute(AttrNormal, nrm).
		SetIndices(idx)
}

// NewPlaneGeometry builds a w x h quad in the XY plane facing +Z.
func NewPlaneGeometry(w, h float32) *Geometry {
	hx, hy := w/2, h/2
	return NewGeometry("plane").
		SetAttribute(AttrPosition, []float32{
			-hx, -hy, 0,
			hx, -hy, 0,
			hx, hy, 0,
			-hx, hy, 0,
		}).
		SetAttribute(AttrNormal, []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		}).
		SetIndices([]uint32{0, 1, 2, 0, 2, 3})
}

// NewLinesGeometry builds a line list from point pairs with one color per vertex.
func NewLinesGeometry(points []mgl32.Vec3, color mgl32.Vec4) *Geometry {
	pos := make([]float32, 0, len(points)*3)
	col := make([]float32, 0, len(points)*4)
	for _, p := range points {
		pos = append(pos, p[:]...)
		col = append(col, color[:]...)
	}
	return NewGeometry("lines").
		SetAttribute(AttrPosition, pos).
		SetAttribute(AttrColor, col)
}

// NewAxesGeometry is a line list with red X, green Y and blue Z axes of the given length.
func NewAxesGeometry(length float32) *Geometry {
	g := NewLinesGeometry([]mgl32.Vec3{
		{0, 0, 0}, {length, 0, 0},
		{0, 0, 0}, {0, length, 0},
		{0, 0, 0}, {0, 0, length},
	}, mgl32.Vec4{1, 1, 1, 1})
	g.SetAttribute(AttrColor, []float32{
		1, 0, 0, 1, 1, 0, 0, 1,
		0, 1, 0, 1, 0, 1, 0, 1,
		0, 0, 1, 1, 0, 0, 1, 1,
	})
	g.Label = "axes"
	return g
}
