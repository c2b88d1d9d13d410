// Package scene holds the live scene graph a box model is instantiated
// into, builds it from a document and flattens an edited graph back into a
// document.
package scene

import (
	"github.com/Faultbox/boxedit/internal/engine/model"
	"github.com/Faultbox/boxedit/pkg/formats"
	"github.com/Faultbox/boxedit/pkg/math"
)

// Tag is the metadata that ties a scene node back to the document. A node
// carries a PivotTag, a CubeTag, or no tag at all (a decoration).
type Tag interface {
	isTag()
}

// PivotTag marks the node built for a ModelRenderer.
type PivotTag struct {
	Name string
}

// CubeTag marks the node built for a Cube.
type CubeTag struct {
	Texture formats.CubeTexture
}

func (PivotTag) isTag() {}
func (CubeTag) isTag()  {}

// Kind is the variant of a node, derived from its tag.
type Kind int

const (
	KindDecoration Kind = iota
	KindPivot
	KindCube
)

func (k Kind) String() string {
	switch k {
	case KindPivot:
		return "pivot"
	case KindCube:
		return "cube"
	default:
		return "decoration"
	}
}

// Geometry is the shape drawn for a node.
type Geometry interface {
	isGeometry()
}

// BoxGeometry is a cuboid centred on its node. Size holds the base
// dimensions; the node's Scale is applied on top.
type BoxGeometry struct {
	Size math.Vec3
	UVs  [2 * model.FaceCount][3]math.Vec2
}

// Mesh builds the triangles of the box.
func (g *BoxGeometry) Mesh() *model.Mesh {
	return model.BuildBoxMesh(g.Size, g.UVs)
}

// SphereGeometry is the marker drawn at a pivot.
type SphereGeometry struct {
	Radius float64
}

func (*BoxGeometry) isGeometry()    {}
func (*SphereGeometry) isGeometry() {}

// MaterialKind selects how a cube is shaded.
type MaterialKind int

const (
	MaterialStandard MaterialKind = iota // lit
	MaterialBasic                        // unlit
)

func (k MaterialKind) String() string {
	if k == MaterialBasic {
		return "basic"
	}
	return "standard"
}

// Material references the shared model texture.
type Material struct {
	Kind       MaterialKind
	TextureRef string
}

// Node is one element of the scene graph. Position, Rotation and Scale are
// relative to the parent.
type Node struct {
	Position math.Vec3
	Rotation math.Euler
	Scale    math.Vec3
	Visible  bool

	Tag      Tag
	Geometry Geometry
	Material *Material

	parent   *Node
	children []*Node
}

// NewNode creates a visible, untransformed node with the given tag.
func NewNode(tag Tag) *Node {
	return &Node{
		Rotation: math.Euler{Order: math.OrderXYZ},
		Scale:    math.One,
		Visible:  true,
		Tag:      tag,
	}
}

// Kind reports which variant the node is.
func (n *Node) Kind() Kind {
	switch n.Tag.(type) {
	case PivotTag:
		return KindPivot
	case CubeTag:
		return KindCube
	default:
		return KindDecoration
	}
}

// Add appends child, removing it from any previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child. It reports whether child was a direct child of n.
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

// Children returns the direct children in order. The slice must not be
// modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the parent node, or nil for a detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// LocalMatrix returns translate * rotate * scale.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation.Quat(), n.Scale)
}

// WorldMatrix multiplies the local matrices from the top of the tree down.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() math.Vec3 {
	return n.WorldMatrix().Translation()
}

// WorldVisible reports whether n and all its ancestors are visible.
func (n *Node) WorldVisible() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// Find returns the first pivot named name under n, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if found != nil {
			return false
		}
		if tag, ok := node.Tag.(PivotTag); ok && tag.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// Label returns a short description for logs.
func (n *Node) Label() string {
	switch tag := n.Tag.(type) {
	case PivotTag:
		return "pivot " + tag.Name
	case CubeTag:
		return "cube"
	default:
		return "decoration"
	}
}
