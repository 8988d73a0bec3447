package font

import (
	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// WindingAt replays the stencil pass for a single sample on the CPU: every
// counter-clockwise triangle covering p adds one and every clockwise one
// subtracts one, wrapping at 8 bits like the stencil buffer. The cover pass
// paints p when the result is non-zero.
func WindingAt(g *core.Geometry, p mgl32.Vec2) uint8 {
	pos := g.Positions()
	vert := func(i uint32) mgl32.Vec2 {
		return mgl32.Vec2{pos[i*3], pos[i*3+1]}
	}

	var count uint8
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a, b, c := vert(g.Indices[i]), vert(g.Indices[i+1]), vert(g.Indices[i+2])
		area := cross(b.Sub(a), c.Sub(a))
		if area == 0 || !inTriangle(p, a, b, c, area) {
			continue
		}
		if area > 0 {
			count++
		} else {
			count--
		}
	}
	return count
}

func cross(u, v mgl32.Vec2) float32 {
	return u[0]*v[1] - u[1]*v[0]
}

func inTriangle(p, a, b, c mgl32.Vec2, area float32) bool {
	w0 := cross(b.Sub(a), p.Sub(a))
	w1 := cross(c.Sub(b), p.Sub(b))
	w2 := cross(a.Sub(c), p.Sub(c))
	if area < 0 {
		w0, w1, w2 = -w0, -w1, -w2
	}
	return w0 >= 0 && w1 >= 0 && w2 >= 0
}
