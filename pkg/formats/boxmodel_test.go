package formats

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/boxedit/pkg/math"
)

func loadCreeper(t *testing.T) *Model {
	t.Helper()
	data, err := os.ReadFile("testdata/creeper.json")
	require.NoError(t, err)
	m, err := ParseModel(data)
	require.NoError(t, err)
	return m
}

func TestParseModel_Creeper(t *testing.T) {
	m := loadCreeper(t)

	assert.Equal(t, "creeper", m.Name)
	assert.Equal(t, math.Vec3{X: 0, Y: -1.5, Z: 0}, m.InitialTranslation)
	assert.Equal(t, "creeper.png", m.TextureRef())
	require.Len(t, m.Renderers, 2)

	body := m.Renderers[1]
	assert.Equal(t, "body", body.Name)
	require.Len(t, body.Children, 2)

	leg := body.Children[1]
	assert.Equal(t, "leg_back_right", leg.Name)
	assert.False(t, leg.Visible)
	assert.Equal(t, math.Vec3{X: -0.25, Y: 0.1, Z: -0.05}, leg.Rotation)
	require.Len(t, leg.Cubes, 1)
	assert.True(t, leg.Cubes[0].Mirror)
	assert.Equal(t, math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, leg.Cubes[0].Delta)
	assert.Equal(t, CubeTexture{OffsetX: 0, OffsetY: 16, Width: 64, Height: 32}, leg.Cubes[0].Texture)
}

func TestParseModel_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax error", `{"name":`},
		{"trailing data", minimalDoc + ` {}`},
		{"trailing garbage", minimalDoc + `]`},
		{"schema violation", `{"name":"x","renderers":[]}`},
		{"empty input", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseModel([]byte(tt.data))
			assert.Nil(t, m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidModel))

			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestParseModel_TrailingWhitespace(t *testing.T) {
	m, err := ParseModel([]byte(minimalDoc + "\n\t "))
	require.NoError(t, err)
	assert.Equal(t, "x", m.Name)
	assert.Nil(t, m.Texture)
	assert.Empty(t, m.Renderers)
}

func TestMarshalModel_ReparsesAndValidates(t *testing.T) {
	m := loadCreeper(t)

	for _, pretty := range []bool{false, true} {
		data, err := MarshalModel(m, pretty)
		require.NoError(t, err)

		again, err := ParseModel(data)
		require.NoError(t, err)
		assert.Equal(t, m, again)
	}
}

func TestMarshalModel_EmptySlicesAreArrays(t *testing.T) {
	m := NewModel("empty")
	m.Renderers = nil
	m.Renderers = append(m.Renderers, ModelRenderer{Name: "bare", Visible: true})

	data, err := MarshalModel(m, false)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	r := raw["renderers"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{}, r["cubes"])
	assert.Equal(t, []any{}, r["children"])
	assert.NotContains(t, raw, "texture")

	assert.True(t, ValidateModel(raw).Valid)
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel("fresh")
	assert.Equal(t, DefaultInitialTranslation, m.InitialTranslation)
	assert.Equal(t, "", m.TextureRef())

	m.SetTexture("skin.png")
	assert.Equal(t, "skin.png", m.TextureRef())
	m.SetTexture("")
	assert.Nil(t, m.Texture)
}

func TestModelWalkAndStats(t *testing.T) {
	m := loadCreeper(t)

	var paths []string
	m.Walk(func(r *ModelRenderer, path []string) bool {
		p := ""
		for i, name := range path {
			if i > 0 {
				p += "/"
			}
			p += name
		}
		paths = append(paths, p)
		return true
	})
	assert.Equal(t, []string{"head", "body", "body/leg_front_left", "body/leg_back_right"}, paths)

	stats := m.Stats()
	assert.Equal(t, ModelStats{Renderers: 4, Cubes: 4, MaxDepth: 2, Hidden: 1}, stats)
}

func TestModelWalkStops(t *testing.T) {
	m := loadCreeper(t)
	visited := 0
	m.Walk(func(r *ModelRenderer, path []string) bool {
		visited++
		return r.Name != "body"
	})
	assert.Equal(t, 2, visited)
}
