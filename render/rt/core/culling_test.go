package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testFrustum() Frustum {
	// Camera at origin looking down -Z, 90 deg FOV, aspect 1, near 1, far 100.
	cam := &Camera{FovY: mgl32.DegToRad(90), Near: 1, Far: 100}
	return ExtractFrustum(cam.ViewProjection(1))
}

func TestFrustumCulling(t *testing.T) {
	planes := testFrustum()

	tests := []struct {
		name     string
		center   mgl32.Vec3
		radius   float32
		expected bool
	}{
		{name: "Inside (center)", center: mgl32.Vec3{0, 0, -10}, radius: 1, expected: true},
		{name: "Outside (Left)", center: mgl32.Vec3{-20, 0, -8}, radius: 2, expected: false},
		{name: "Outside (Right)", center: mgl32.Vec3{20, 0, -8}, radius: 2, expected: false},
		{name: "Outside (Behind/Near)", center: mgl32.Vec3{0, 0, 4}, radius: 1, expected: false},
		{name: "Outside (Far)", center: mgl32.Vec3{0, 0, -150}, radius: 10, expected: false},
		{name: "Intersecting (Left Plane)", center: mgl32.Vec3{-10, 0, -8}, radius: 3, expected: true},
		{name: "Intersecting (Near Plane)", center: mgl32.Vec3{0, 0, -0.5}, radius: 1, expected: true},
		{name: "Encompassing (Huge sphere)", center: mgl32.Vec3{0, 0, 0}, radius: 1000, expected: true},
	}

	for _, tc := range tests {
		s := Sphere{Center: tc.center, Radius: tc.radius}
		visible := planes.IntersectsSphere(s)
		if visible != tc.expected {
			t.Errorf("Test %s failed: expected %v, got %v", tc.name, tc.expected, visible)
			for i, p := range planes {
				t.Logf("  P%d: %v, Dist(Center)=%f", i, p, p.Dot(tc.center.Vec4(1.0)))
			}
		}
	}
}

// Planes of an orthographic box must land on its faces after depth remap.
func TestFrustumOrtho(t *testing.T) {
	proj := depthZeroToOne.Mul4(mgl32.Ortho(-10, 10, -10, 10, 0, 20))
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	planes := ExtractFrustum(proj.Mul4(view))

	if !planes.IntersectsSphere(Sphere{Center: mgl32.Vec3{0, 0, -5}, Radius: 1}) {
		t.Error("Ortho: sphere should be inside")
	}
	// Far is 20, so -25 is beyond it.
	if planes.IntersectsSphere(Sphere{Center: mgl32.Vec3{0, 0, -25}, Radius: 1}) {
		t.Error("Ortho: sphere at -25 should be outside (Far=20 => Z=-20)")
	}
}

func TestEmptySphereNeverIntersects(t *testing.T) {
	planes := testFrustum()
	if planes.IntersectsSphere(Sphere{Radius: -1}) {
		t.Error("empty sphere must not intersect")
	}
}
