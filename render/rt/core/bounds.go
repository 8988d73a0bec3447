package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Empty spheres have a negative radius and never intersect anything.
func (s Sphere) Empty() bool {
	return s.Radius < 0
}

// Transform moves the center by m and scales the radius by the largest axis scale of m.
func (s Sphere) Transform(m mgl32.Mat4) Sphere {
	return Sphere{
		Center: m.Mul4x1(s.Center.Vec4(1.0)).Vec3(),
		Radius: s.Radius * MaxAxisScale(m),
	}
}

// Union returns the smallest sphere enclosing s and o.
func (s Sphere) Union(o Sphere) Sphere {
	if s.Empty() {
		return o
	}
	if o.Empty() {
		return s
	}
	d := o.Center.Sub(s.Center)
	dist := d.Len()
	if dist+o.Radius <= s.Radius {
		return s
	}
	if dist+s.Radius <= o.Radius {
		return o
	}
	r := (dist + s.Radius + o.Radius) * 0.5
	c := s.Center.Add(d.Mul((r - s.Radius) / dist))
	return Sphere{Center: c, Radius: r}
}

// BoundingSphere returns the cached sphere, computing it on first use.
// ok is false when the geometry has no positions.
func (g *Geometry) BoundingSphere() (Sphere, bool) {
	if g.bounds == nil {
		s := sphereFromPositions(g.Positions())
		if g.Instanced() && !s.Empty() {
			s = g.instancedBounds(s)
		}
		g.bounds = &s
	}
	return *g.bounds, !g.bounds.Empty()
}

func (g *Geometry) instancedBounds(base Sphere) Sphere {
	out := Sphere{Radius: -1}
	for i := 0; i < g.InstanceCount(); i++ {
		m, _ := g.Instance(i)
		out = out.Union(base.Transform(m))
	}
	return out
}

// sphereFromPositions centers the sphere on the AABB of the points and
// takes the farthest point as radius.
func sphereFromPositions(pos []float32) Sphere {
	n := len(pos) / 3
	if n == 0 {
		return Sphere{Radius: -1}
	}

	inf := float32(math32.MaxFloat32)
	minB := mgl32.Vec3{inf, inf, inf}
	maxB := mgl32.Vec3{-inf, -inf, -inf}
	for i := 0; i < n; i++ {
		for a := 0; a < 3; a++ {
			v := pos[i*3+a]
			minB[a] = math32.Min(minB[a], v)
			maxB[a] = math32.Max(maxB[a], v)
		}
	}
	center := minB.Add(maxB).Mul(0.5)

	var r2 float32
	for i := 0; i < n; i++ {
		p := mgl32.Vec3{pos[i*3], pos[i*3+1], pos[i*3+2]}
		r2 = math32.Max(r2, p.Sub(center).LenSqr())
	}
	return Sphere{Center: center, Radius: math32.Sqrt(r2)}
}
