package core

// Collect walks root in pre-order and returns the frame's draw and light
// lists. An invisible node prunes its whole subtree. A culled node only drops
// its own items; its children are tested against their own bounds. Text
// nodes always yield a stencil item immediately followed by its cover item.
// Lights beyond MaxLights are ignored.
func Collect(root *Node, frustum *Frustum) ([]DrawItem, []LightItem) {
	var draws []DrawItem
	var lights []LightItem
	if root == nil {
		return draws, lights
	}

	root.Traverse(func(n *Node) bool {
		if !n.Visible {
			return false
		}

		if n.Light != nil && len(lights) < MaxLights {
			lights = append(lights, LightItem{Light: n.Light, World: n.World})
		}

		if m := n.Mesh; m != nil && m.Geometry != nil {
			if !m.FrustumCulled || inFrustum(frustum, m.Geometry, n) {
				draws = append(draws, DrawItem{
					Kind:     m.Kind(),
					Node:     n,
					Geometry: m.Geometry,
					Material: m.Material,
					Skeleton: m.Skeleton,
					World:    n.World,
				})
			}
		}

		if t := n.Text; t != nil && t.Stencil != nil && t.Cover != nil {
			if !t.FrustumCulled || inFrustum(frustum, t.Cover, n) {
				draws = append(draws,
					DrawItem{Kind: KindTextStencil, Node: n, Geometry: t.Stencil, Material: t.Material, World: n.World},
					DrawItem{Kind: KindTextCover, Node: n, Geometry: t.Cover, Material: t.Material, World: n.World},
				)
			}
		}
		return true
	})
	return draws, lights
}

// inFrustum keeps geometry without bounds: only a sphere can prove it is outside.
func inFrustum(f *Frustum, g *Geometry, n *Node) bool {
	if f == nil {
		return true
	}
	s, ok := g.BoundingSphere()
	if !ok {
		return true
	}
	return f.IntersectsSphere(s.Transform(n.World))
}
