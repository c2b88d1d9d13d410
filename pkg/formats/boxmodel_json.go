package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/boxedit/pkg/math"
)

// ErrInvalidModel classifies every failure to turn input into a Model.
var ErrInvalidModel = errors.New("invalid box model document")

// ParseError reports why a document was rejected. Errors lists schema
// violations; Cause is set for JSON syntax problems.
type ParseError struct {
	Errors []FieldError
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v", ErrInvalidModel, e.Cause)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.String())
	}
	return fmt.Sprintf("%v: %s", ErrInvalidModel, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrInvalidModel and the syntax cause.
func (e *ParseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidModel, e.Cause}
	}
	return []error{ErrInvalidModel}
}

// ParseModel decodes, validates and maps a JSON document. The input must be
// exactly one JSON value; trailing data is rejected.
func ParseModel(data []byte) (*Model, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ParseError{Cause: errors.New("trailing data after JSON document")}
	}

	return ModelFromValue(raw)
}

// ModelFromValue validates an already decoded JSON value and builds a typed
// Model from it field by field.
func ModelFromValue(v any) (*Model, error) {
	result := ValidateModel(v)
	if !result.Valid {
		return nil, &ParseError{Errors: result.Errors}
	}

	obj := v.(map[string]any)
	m := &Model{
		Name:               obj["name"].(string),
		InitialTranslation: vec3From(obj["initialTranslation"]),
		Renderers:          renderersFrom(obj["renderers"]),
	}
	if tex, ok := obj["texture"].(string); ok {
		m.Texture = &tex
	}
	return m, nil
}

func vec3From(v any) math.Vec3 {
	obj := v.(map[string]any)
	x, _ := toFloat(obj["x"])
	y, _ := toFloat(obj["y"])
	z, _ := toFloat(obj["z"])
	return math.Vec3{X: x, Y: y, Z: z}
}

func renderersFrom(v any) []ModelRenderer {
	list := v.([]any)
	out := make([]ModelRenderer, 0, len(list))
	for _, item := range list {
		obj := item.(map[string]any)
		out = append(out, ModelRenderer{
			Name:          obj["name"].(string),
			RotationPoint: vec3From(obj["rotationPoint"]),
			Rotation:      vec3From(obj["rotation"]),
			Visible:       obj["visible"].(bool),
			Cubes:         cubesFrom(obj["cubes"]),
			Children:      renderersFrom(obj["children"]),
		})
	}
	return out
}

func cubesFrom(v any) []Cube {
	list := v.([]any)
	out := make([]Cube, 0, len(list))
	for _, item := range list {
		obj := item.(map[string]any)
		out = append(out, Cube{
			Position:   vec3From(obj["position"]),
			Dimensions: vec3From(obj["dimensions"]),
			Delta:      vec3From(obj["delta"]),
			Mirror:     obj["mirror"].(bool),
			Texture:    cubeTextureFrom(obj["texture"]),
		})
	}
	return out
}

func cubeTextureFrom(v any) CubeTexture {
	obj := v.(map[string]any)
	ox, _ := toInt(obj["offsetX"])
	oy, _ := toInt(obj["offsetY"])
	w, _ := toInt(obj["width"])
	h, _ := toInt(obj["height"])
	return CubeTexture{OffsetX: ox, OffsetY: oy, Width: w, Height: h}
}

// MarshalModel serialises a model. pretty selects two-space indentation.
func MarshalModel(m *Model, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(m, "", "  ")
	}
	return json.Marshal(m)
}
