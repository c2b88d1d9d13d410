package scene

import (
	"sync"
)

// Scene is the live graph shared between the editor and the renderer. All
// structural changes and reads go through its lock so a renderer never sees
// a half attached subtree.
type Scene struct {
	mu   sync.RWMutex
	root *Node
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{root: NewNode(nil)}
}

// Root returns the scene root. Callers that walk or edit the tree while other
// goroutines use the scene must do so inside View or Update.
func (s *Scene) Root() *Node {
	return s.root
}

// Attach adds subtree under the scene root.
func (s *Scene) Attach(subtree *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root.Add(subtree)
}

// Detach removes subtree from the scene root. It reports whether the
// subtree was attached.
func (s *Scene) Detach(subtree *Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Remove(subtree)
}

// Replace detaches old (if attached) and attaches next in one step.
func (s *Scene) Replace(old, next *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old != nil {
		s.root.Remove(old)
	}
	if next != nil {
		s.root.Add(next)
	}
}

// View runs fn with the tree locked for reading.
func (s *Scene) View(fn func(root *Node)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.root)
}

// Update runs fn with the tree locked for writing.
func (s *Scene) Update(fn func(root *Node)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.root)
}

// Cubes returns every cube node in the scene in traversal order.
func (s *Scene) Cubes() []*Node {
	return s.collect(KindCube)
}

// Pivots returns every pivot node in the scene in traversal order.
func (s *Scene) Pivots() []*Node {
	return s.collect(KindPivot)
}

func (s *Scene) collect(kind Kind) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Node
	s.root.Walk(func(n *Node, _ int) bool {
		if n.Kind() == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// SetMaterialKind switches the shading of every cube.
func (s *Scene) SetMaterialKind(kind MaterialKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root.Walk(func(n *Node, _ int) bool {
		if n.Kind() == KindCube {
			if n.Material == nil {
				n.Material = &Material{}
			}
			n.Material.Kind = kind
		}
		return true
	})
}

// SetTextureRef points every cube material at ref.
func (s *Scene) SetTextureRef(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root.Walk(func(n *Node, _ int) bool {
		if n.Kind() == KindCube && n.Material != nil {
			n.Material.TextureRef = ref
		}
		return true
	})
}
