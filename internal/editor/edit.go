package editor

import (
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/boxedit/internal/engine/scene"
	"github.com/Faultbox/boxedit/pkg/math"
)

// Pivots returns the pivot nodes of the current subtree in traversal order.
func (s *Session) Pivots() []*scene.Node {
	root := s.Root()
	if root == nil {
		return nil
	}
	var out []*scene.Node
	s.scene.View(func(*scene.Node) {
		root.Walk(func(n *scene.Node, _ int) bool {
			if n.Kind() == scene.KindPivot {
				out = append(out, n)
			}
			return true
		})
	})
	return out
}

// NextPivot steps through the pivots from current, wrapping at both ends.
// A current node that is not a pivot of this session starts from the
// first pivot (or the last when step is negative).
func (s *Session) NextPivot(current *scene.Node, step int) *scene.Node {
	pivots := s.Pivots()
	if len(pivots) == 0 {
		return nil
	}
	idx := -1
	for i, p := range pivots {
		if p == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if step < 0 {
			return pivots[len(pivots)-1]
		}
		return pivots[0]
	}
	n := len(pivots)
	return pivots[((idx+step)%n+n)%n]
}

// RotatePivot adds delta (radians, scene axes) to the rotation of n.
func (s *Session) RotatePivot(n *scene.Node, delta math.Vec3) {
	if n == nil {
		return
	}
	s.scene.Update(func(*scene.Node) {
		n.Rotation.X += delta.X
		n.Rotation.Y += delta.Y
		n.Rotation.Z += delta.Z
	})
}

// ToggleVisible flips the visibility of n and returns the new state.
func (s *Session) ToggleVisible(n *scene.Node) bool {
	if n == nil {
		return false
	}
	var visible bool
	s.scene.Update(func(*scene.Node) {
		n.Visible = !n.Visible
		visible = n.Visible
	})
	return visible
}

// SetMaterialKind switches the shading of every cube and makes kind the
// material for subtrees built by later loads.
func (s *Session) SetMaterialKind(kind scene.MaterialKind) {
	s.mu.Lock()
	s.opts.Material = kind
	s.mu.Unlock()
	s.scene.SetMaterialKind(kind)
}

// MaterialKind returns the material used for new cubes.
func (s *Session) MaterialKind() scene.MaterialKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Material
}

// Bounds returns the world-space box around every visible cube. ok is
// false when nothing is visible.
func (s *Session) Bounds() (lo, hi math.Vec3, ok bool) {
	root := s.Root()
	if root == nil {
		return lo, hi, false
	}
	lo = math.Vec3{X: 1e300, Y: 1e300, Z: 1e300}
	hi = math.Vec3{X: -1e300, Y: -1e300, Z: -1e300}

	s.scene.View(func(*scene.Node) {
		root.Walk(func(n *scene.Node, _ int) bool {
			if !n.Visible {
				return false
			}
			box, isBox := n.Geometry.(*scene.BoxGeometry)
			if !isBox {
				return true
			}
			world := n.WorldMatrix()
			h := box.Size.Scale(0.5)
			for i := 0; i < 8; i++ {
				corner := math.Vec3{X: h.X, Y: h.Y, Z: h.Z}
				if i&1 != 0 {
					corner.X = -corner.X
				}
				if i&2 != 0 {
					corner.Y = -corner.Y
				}
				if i&4 != 0 {
					corner.Z = -corner.Z
				}
				p := world.TransformVec3(corner)
				lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
				hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
			}
			ok = true
			return true
		})
	})
	return lo, hi, ok
}

// ExportFile writes Export output to path. The file is left untouched when
// reconstruction fails.
func (s *Session) ExportFile(path string) error {
	data, err := s.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	s.log.Info("model exported", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
