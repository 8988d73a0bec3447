package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Frustum holds six planes in Ax+By+Cz+D=0 form with normals pointing inside.
// Order: Left, Right, Bottom, Top, Near, Far.
type Frustum [6]mgl32.Vec4

// ExtractFrustum extracts the planes from a view-projection matrix whose clip
// depth range is 0..1 (WebGPU convention).
func ExtractFrustum(vp mgl32.Mat4) Frustum {
	row := func(r int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(r, 0), vp.At(r, 1), vp.At(r, 2), vp.At(r, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	f := Frustum{
		r3.Add(r0), // Left
		r3.Sub(r0), // Right
		r3.Add(r1), // Bottom
		r3.Sub(r1), // Top
		r2,         // Near: z >= 0
		r3.Sub(r2), // Far
	}

	for i := range f {
		length := math32.Sqrt(f[i][0]*f[i][0] + f[i][1]*f[i][1] + f[i][2]*f[i][2])
		if length > 0 {
			f[i] = f[i].Mul(1.0 / length)
		}
	}
	return f
}

// IntersectsSphere reports false when the sphere lies entirely behind any plane.
func (f *Frustum) IntersectsSphere(s Sphere) bool {
	if s.Empty() {
		return false
	}
	c := s.Center.Vec4(1.0)
	for i := range f {
		if f[i].Dot(c) < -s.Radius {
			return false
		}
	}
	return true
}
