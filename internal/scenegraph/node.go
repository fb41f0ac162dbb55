package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is one transformable element of a loaded model. A node with a non-nil
// Mesh is a renderable leaf; everything else is grouping structure. Exactly
// one root is live per viewer session and the whole tree is replaced on every
// model load.
type Node struct {
	Name     string
	Parent   *Node
	Children []*Node

	// Local is the node's transform relative to its parent.
	Local mgl32.Mat4

	Visible    bool
	CastShadow bool

	Mesh     *Mesh
	Material *Material
}

// NewNode returns a visible node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Local:   mgl32.Ident4(),
		Visible: true,
	}
}

// AddChild attaches child to n, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child from n. No-op if child is not a direct child.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// World returns the node's world transform (parent world × local).
func (n *Node) World() mgl32.Mat4 {
	if n.Parent == nil {
		return n.Local
	}
	return n.Parent.World().Mul4(n.Local)
}

// Walk visits n and all descendants depth-first in child order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// Leaves returns every renderable leaf under n in depth-first order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.Mesh != nil {
			out = append(out, c)
		}
	})
	return out
}

// FindLeaf returns the first renderable leaf named exactly name, or nil.
func (n *Node) FindLeaf(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) {
		if found == nil && c.Mesh != nil && c.Name == name {
			found = c
		}
	})
	return found
}

// CloneLeaf returns a detached copy of the node carrying its own material
// clone. Mesh data is shared; meshes are treated as immutable after load.
func (n *Node) CloneLeaf() *Node {
	c := NewNode(n.Name)
	c.Local = n.World()
	c.Visible = n.Visible
	c.CastShadow = n.CastShadow
	c.Mesh = n.Mesh
	if n.Material != nil {
		c.Material = n.Material.Clone()
	}
	return c
}

// Bounds returns the world-space bounding box of n's subtree, accumulated
// over every renderable leaf. Returns an empty box for meshless trees.
func (n *Node) Bounds() Box3 {
	box := EmptyBox3()
	n.walkWorld(mgl32.Ident4(), func(c *Node, world mgl32.Mat4) {
		if c.Mesh == nil {
			return
		}
		for _, p := range c.Mesh.Positions {
			box.ExtendPoint(mgl32.TransformCoordinate(p, world))
		}
	})
	return box
}

// LeafBounds returns the world bounding box of a single leaf node.
func (n *Node) LeafBounds() Box3 {
	box := EmptyBox3()
	if n.Mesh == nil {
		return box
	}
	world := n.World()
	for _, p := range n.Mesh.Positions {
		box.ExtendPoint(mgl32.TransformCoordinate(p, world))
	}
	return box
}

func (n *Node) walkWorld(parent mgl32.Mat4, visit func(*Node, mgl32.Mat4)) {
	world := parent.Mul4(n.Local)
	visit(n, world)
	for _, c := range n.Children {
		c.walkWorld(world, visit)
	}
}
