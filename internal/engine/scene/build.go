package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/boxedit/internal/engine/model"
	"github.com/Faultbox/boxedit/internal/logger"
	"github.com/Faultbox/boxedit/pkg/formats"
	"github.com/Faultbox/boxedit/pkg/math"
)

// PivotMarkerRadius is the radius of the sphere drawn at each pivot.
const PivotMarkerRadius = 0.1

// BuildOptions controls how a model is instantiated.
type BuildOptions struct {
	// TextureRef is stored on every cube material.
	TextureRef string

	// Material is the initial shading of cubes.
	Material MaterialKind

	// AtlasWidth and AtlasHeight override the per-cube texture size used to
	// normalise UVs when both are positive.
	AtlasWidth  int
	AtlasHeight int
}

// Build instantiates m as a subtree. The returned root is an untagged
// container holding one pivot node per root renderer, in document order.
func Build(m *formats.Model, opts BuildOptions) *Node {
	root := NewNode(nil)
	if m == nil {
		return root
	}

	b := builder{it: m.InitialTranslation, opts: opts}
	for i := range m.Renderers {
		root.Add(b.pivot(&m.Renderers[i]))
	}

	logger.Debug("scene built",
		zap.String("model", m.Name),
		zap.Int("roots", len(root.children)))
	return root
}

type builder struct {
	it   math.Vec3
	opts BuildOptions
}

// pivot builds the node for r and recurses into its cubes and children.
// Child pivots are positioned with the same forward transform as root
// pivots, relative to their parent pivot.
func (b *builder) pivot(r *formats.ModelRenderer) *Node {
	n := NewNode(PivotTag{Name: r.Name})
	n.Position = model.PivotToScene(r.RotationPoint, b.it)
	n.Rotation = model.RotationToScene(r.Rotation).Reorder(math.OrderXYZ)
	n.Visible = r.Visible
	n.Geometry = &SphereGeometry{Radius: PivotMarkerRadius}

	for i := range r.Cubes {
		n.Add(b.cube(&r.Cubes[i]))
	}
	for i := range r.Children {
		n.Add(b.pivot(&r.Children[i]))
	}
	return n
}

func (b *builder) cube(c *formats.Cube) *Node {
	aw, ah := c.Texture.Width, c.Texture.Height
	if b.opts.AtlasWidth > 0 && b.opts.AtlasHeight > 0 {
		aw, ah = b.opts.AtlasWidth, b.opts.AtlasHeight
	}
	faces := model.ComputeFaceUVs(c.Texture.OffsetX, c.Texture.OffsetY,
		c.Dimensions.X, c.Dimensions.Y, c.Dimensions.Z, aw, ah)

	n := NewNode(CubeTag{Texture: c.Texture})
	n.Position = model.CubeToScene(c.Position, c.Dimensions)
	n.Geometry = &BoxGeometry{Size: c.Dimensions, UVs: model.BoxTriangleUVs(faces)}
	n.Material = &Material{Kind: b.opts.Material, TextureRef: b.opts.TextureRef}
	return n
}
