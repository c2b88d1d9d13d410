package formats

import (
	"encoding/json"

	"github.com/Faultbox/boxedit/pkg/math"
)

// DefaultInitialTranslation is applied to models constructed in code.
// Parsed documents always carry their own value.
var DefaultInitialTranslation = math.Vec3{X: 0, Y: -1.5, Z: 0}

// CubeTexture is the atlas rectangle of a cube: the top-left corner of its
// unwrap and the width/height used to normalise UVs, in atlas pixels.
type CubeTexture struct {
	OffsetX int `json:"offsetX"`
	OffsetY int `json:"offsetY"`
	Width   int `json:"width"`
	Height  int `json:"height"`
}

// Cube is a single cuboid owned by a ModelRenderer. Position is the cube's
// near corner relative to the renderer's rotation point.
type Cube struct {
	Position   math.Vec3   `json:"position"`
	Dimensions math.Vec3   `json:"dimensions"`
	Delta      math.Vec3   `json:"delta"`  // accepted on input, always zero on export
	Mirror     bool        `json:"mirror"` // accepted on input, always false on export
	Texture    CubeTexture `json:"texture"`
}

// ModelRenderer is a named pivot: a rotation origin owning cubes and child
// renderers. Name is the identity used to match scene nodes back to
// renderers and must be non-empty.
type ModelRenderer struct {
	Name          string          `json:"name"`
	RotationPoint math.Vec3       `json:"rotationPoint"`
	Rotation      math.Vec3       `json:"rotation"`
	Visible       bool            `json:"visible"`
	Cubes         []Cube          `json:"cubes"`
	Children      []ModelRenderer `json:"children"`
}

// NewModelRenderer creates a visible renderer with no rotation.
func NewModelRenderer(name string) ModelRenderer {
	return ModelRenderer{
		Name:     name,
		Visible:  true,
		Cubes:    []Cube{},
		Children: []ModelRenderer{},
	}
}

// MarshalJSON always emits cubes and children as arrays, never null.
func (r ModelRenderer) MarshalJSON() ([]byte, error) {
	type plain ModelRenderer
	p := plain(r)
	if p.Cubes == nil {
		p.Cubes = []Cube{}
	}
	if p.Children == nil {
		p.Children = []ModelRenderer{}
	}
	return json.Marshal(p)
}

// Model is the root of a box model document.
type Model struct {
	Name               string          `json:"name"`
	InitialTranslation math.Vec3       `json:"initialTranslation"`
	Texture            *string         `json:"texture,omitempty"` // data URI or resource path
	Renderers          []ModelRenderer `json:"renderers"`
}

// NewModel creates an empty model with the default initial translation.
func NewModel(name string) *Model {
	return &Model{
		Name:               name,
		InitialTranslation: DefaultInitialTranslation,
		Renderers:          []ModelRenderer{},
	}
}

// MarshalJSON always emits renderers as an array, never null.
func (m Model) MarshalJSON() ([]byte, error) {
	type plain Model
	p := plain(m)
	if p.Renderers == nil {
		p.Renderers = []ModelRenderer{}
	}
	return json.Marshal(p)
}

// TextureRef returns the texture reference, or "" when none is set.
func (m *Model) TextureRef() string {
	if m.Texture == nil {
		return ""
	}
	return *m.Texture
}

// SetTexture sets the texture reference. An empty ref clears it.
func (m *Model) SetTexture(ref string) {
	if ref == "" {
		m.Texture = nil
		return
	}
	m.Texture = &ref
}

// Walk visits every renderer depth-first in document order. path holds the
// names from the root renderer down to r. Returning false stops the walk.
func (m *Model) Walk(fn func(r *ModelRenderer, path []string) bool) {
	var visit func(list []ModelRenderer, path []string) bool
	visit = func(list []ModelRenderer, path []string) bool {
		for i := range list {
			r := &list[i]
			p := append(path[:len(path):len(path)], r.Name)
			if !fn(r, p) {
				return false
			}
			if !visit(r.Children, p) {
				return false
			}
		}
		return true
	}
	visit(m.Renderers, nil)
}

// ModelStats summarises a model for display.
type ModelStats struct {
	Renderers int
	Cubes     int
	MaxDepth  int
	Hidden    int
}

// Stats counts renderers and cubes.
func (m *Model) Stats() ModelStats {
	var s ModelStats
	m.Walk(func(r *ModelRenderer, path []string) bool {
		s.Renderers++
		s.Cubes += len(r.Cubes)
		if len(path) > s.MaxDepth {
			s.MaxDepth = len(path)
		}
		if !r.Visible {
			s.Hidden++
		}
		return true
	})
	return s
}
