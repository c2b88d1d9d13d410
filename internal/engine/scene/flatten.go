package scene

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/boxedit/internal/engine/model"
	"github.com/Faultbox/boxedit/internal/logger"
	"github.com/Faultbox/boxedit/pkg/formats"
	"github.com/Faultbox/boxedit/pkg/math"
)

// Flatten errors.
var (
	ErrReconstruction = errors.New("scene cannot be reconstructed")
	ErrUnnamedPivot   = errors.New("pivot node has no name")
)

// ReconstructionError reports a tagged node that breaks the invariants Build
// established. It means the scene was modified outside the editor's control
// and the export must be abandoned.
type ReconstructionError struct {
	Path   string
	Reason string
}

func (e *ReconstructionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", ErrReconstruction, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrReconstruction, e.Path, e.Reason)
}

func (e *ReconstructionError) Unwrap() error {
	return ErrReconstruction
}

// Flattener rebuilds a document from a scene subtree.
//
// A pivot whose tag has an empty name cannot be matched to a renderer and is
// dropped together with its subtree. The drop is logged and its path recorded
// in Dropped; with Strict set it fails the flatten with ErrUnnamedPivot
// instead.
type Flattener struct {
	Strict bool
	Log    *zap.Logger

	// Dropped lists the paths of pivots skipped by the last Flatten call.
	Dropped []string
}

// Flatten rebuilds a document from root with the default Flattener.
func Flatten(root *Node, initialTranslation math.Vec3) (*formats.Model, error) {
	var f Flattener
	return f.Flatten(root, initialTranslation)
}

// Flatten walks the children of root in order and returns a model holding
// one renderer per named pivot. The returned model has no name or texture;
// callers fill those in. Cubes always come back with zero delta and no
// mirror.
func (f *Flattener) Flatten(root *Node, initialTranslation math.Vec3) (*formats.Model, error) {
	if f.Log == nil {
		f.Log = logger.Named("flatten")
	}
	f.Dropped = nil

	if root == nil {
		return nil, &ReconstructionError{Reason: "no scene root"}
	}

	m := &formats.Model{
		InitialTranslation: initialTranslation,
		Renderers:          []formats.ModelRenderer{},
	}

	for _, child := range root.children {
		switch child.Tag.(type) {
		case PivotTag:
			r, ok, err := f.pivot(child, initialTranslation, nil)
			if err != nil {
				return nil, err
			}
			if ok {
				m.Renderers = append(m.Renderers, r)
			}
		case CubeTag:
			f.Log.Warn("cube outside any pivot ignored")
		default:
			f.Log.Debug("decoration skipped", zap.String("node", child.Label()))
		}
	}
	return m, nil
}

// pivot flattens a pivot node. ok is false when the pivot was dropped.
func (f *Flattener) pivot(n *Node, it math.Vec3, parent []string) (r formats.ModelRenderer, ok bool, err error) {
	tag := n.Tag.(PivotTag)
	if tag.Name == "" {
		path := joinPath(append(parent, "<unnamed>"))
		if f.Strict {
			return r, false, fmt.Errorf("%w: %s", ErrUnnamedPivot, path)
		}
		f.Log.Warn("unnamed pivot dropped with its subtree", zap.String("path", path))
		f.Dropped = append(f.Dropped, path)
		return r, false, nil
	}

	path := append(parent[:len(parent):len(parent)], tag.Name)
	r = formats.ModelRenderer{
		Name:          tag.Name,
		RotationPoint: model.PivotToDocument(n.Position, it),
		Rotation:      model.RotationToDocument(n.Rotation),
		Visible:       n.Visible,
		Cubes:         []formats.Cube{},
		Children:      []formats.ModelRenderer{},
	}

	for _, child := range n.children {
		switch ctag := child.Tag.(type) {
		case PivotTag:
			cr, ok, err := f.pivot(child, it, path)
			if err != nil {
				return r, false, err
			}
			if ok {
				r.Children = append(r.Children, cr)
			}
		case CubeTag:
			c, err := cube(child, ctag, path, len(r.Cubes))
			if err != nil {
				return r, false, err
			}
			r.Cubes = append(r.Cubes, c)
		default:
			f.Log.Debug("decoration skipped",
				zap.String("path", joinPath(path)),
				zap.String("node", child.Label()))
		}
	}
	return r, true, nil
}

func cube(n *Node, tag CubeTag, path []string, index int) (formats.Cube, error) {
	box, ok := n.Geometry.(*BoxGeometry)
	if !ok || box == nil {
		return formats.Cube{}, &ReconstructionError{
			Path:   fmt.Sprintf("%s/cubes/%d", joinPath(path), index),
			Reason: fmt.Sprintf("cube node has %s geometry, want box", geometryName(n.Geometry)),
		}
	}

	dims := model.DimensionsToDocument(box.Size, n.Scale)
	if !positive(dims) {
		return formats.Cube{}, &ReconstructionError{
			Path:   fmt.Sprintf("%s/cubes/%d", joinPath(path), index),
			Reason: fmt.Sprintf("non-positive dimensions %v", dims),
		}
	}
	return formats.Cube{
		Position:   model.CubeToDocument(n.Position, dims),
		Dimensions: dims,
		Texture:    tag.Texture,
	}, nil
}

// positive reports whether every component is a finite number above zero.
// NaN fails every comparison, so it is rejected too.
func positive(v math.Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if !(c > 0) || gomath.IsInf(c, 1) {
			return false
		}
	}
	return true
}

func geometryName(g Geometry) string {
	switch g.(type) {
	case nil:
		return "no"
	case *BoxGeometry:
		return "nil box"
	case *SphereGeometry:
		return "sphere"
	default:
		return fmt.Sprintf("%T", g)
	}
}

func joinPath(path []string) string {
	return strings.Join(path, "/")
}
