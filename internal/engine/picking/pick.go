package picking

import (
	gomath "math"

	"github.com/Faultbox/boxedit/internal/engine/scene"
)

// Hit is the result of PickCube.
type Hit struct {
	Node     *scene.Node
	Distance float64 // world units from the ray origin
}

// PickCube returns the nearest visible cube under root hit by ray. Cubes
// are tested as oriented boxes in their own local space.
func PickCube(root *scene.Node, ray Ray) (Hit, bool) {
	best := Hit{Distance: gomath.Inf(1)}

	root.Walk(func(n *scene.Node, _ int) bool {
		if !n.Visible {
			return false
		}
		box, ok := n.Geometry.(*scene.BoxGeometry)
		if !ok || n.Kind() != scene.KindCube {
			return true
		}

		world := n.WorldMatrix()
		inv, ok := world.Inverse()
		if !ok {
			return true
		}
		local := ray.Transform(inv)
		half := box.Size.Scale(0.5)
		t, hit := local.IntersectAABB(half.Scale(-1), half)
		if !hit {
			return true
		}

		// back to world distance
		d := world.TransformVec3(local.At(t)).Distance(ray.Origin)
		if d < best.Distance {
			best = Hit{Node: n, Distance: d}
		}
		return true
	})

	return best, best.Node != nil
}
