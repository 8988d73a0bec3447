package core

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Node is a scene-graph node. A node carries at most one drawable payload
// (Mesh or Text) and optionally a Light. World is derived by UpdateWorld.
type Node struct {
	ID        uuid.UUID
	Name      string
	Transform *Transform
	World     mgl32.Mat4
	Visible   bool

	Mesh  *Mesh
	Text  *Text
	Light *Light

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{
		ID:        uuid.New(),
		Name:      name,
		Transform: NewTransform(),
		World:     mgl32.Ident4(),
		Visible:   true,
	}
}

// Add attaches child, detaching it from any previous parent.
func (n *Node) Add(child *Node) *Node {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return n
}

func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

// UpdateWorld recomputes world matrices top-down from n.
func (n *Node) UpdateWorld() {
	parent := mgl32.Ident4()
	if n.parent != nil {
		parent = n.parent.World
	}
	n.updateWorld(parent)
}

func (n *Node) updateWorld(parent mgl32.Mat4) {
	n.World = parent.Mul4(n.Transform.Matrix())
	for _, c := range n.children {
		c.updateWorld(n.World)
	}
}

// Traverse visits n and its descendants in pre-order. Returning false from
// fn skips the node's subtree.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}
