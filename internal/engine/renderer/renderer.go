// Package renderer draws a box-model scene with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/boxedit/internal/engine/lighting"
	"github.com/Faultbox/boxedit/internal/engine/model"
	"github.com/Faultbox/boxedit/internal/engine/renderer/shaders"
	"github.com/Faultbox/boxedit/internal/engine/scene"
	"github.com/Faultbox/boxedit/internal/engine/shader"
	"github.com/Faultbox/boxedit/internal/engine/texture"
	"github.com/Faultbox/boxedit/internal/logger"
	"github.com/Faultbox/boxedit/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background [3]float32

	// SunAzimuth and SunElevation place the light in degrees; both zero
	// selects DefaultLight.
	SunAzimuth   float64
	SunElevation float64
}

// Default sun position in degrees.
const (
	DefaultSunAzimuth   = 30
	DefaultSunElevation = 55
)

// Light is the single directional light used by standard materials.
type Light struct {
	Direction [3]float32
	Ambient   [3]float32
	Diffuse   [3]float32
}

// DefaultLight shines from above, front right.
var DefaultLight = Light{
	Direction: lighting.LightDirection(DefaultSunAzimuth, DefaultSunElevation),
	Ambient:   [3]float32{0.45, 0.45, 0.45},
	Diffuse:   [3]float32{0.65, 0.65, 0.65},
}

var (
	pivotColor    = [3]float32{1, 0.8, 0.1}
	selectionTint = [3]float32{0.25, 0.15, 0}
)

type gpuMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// Renderer draws cubes and pivot markers. GPU meshes are cached per
// geometry and released once their geometry leaves the scene.
type Renderer struct {
	config Config
	log    *zap.Logger

	program     uint32
	locViewProj int32
	locModel    int32
	locTexture  int32
	locUseTex   int32
	locLit      int32
	locColor    int32
	locTint     int32
	locLightDir int32
	locAmbient  int32
	locDiffuse  int32

	Light      Light
	ShowPivots bool

	meshes  map[*scene.BoxGeometry]*gpuMesh
	markers map[float64]*gpuMesh

	texture    uint32
	textureSrc *texture.Texture
}

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		log:        logger.Named("renderer"),
		Light:      DefaultLight,
		ShowPivots: true,
		meshes:     make(map[*scene.BoxGeometry]*gpuMesh),
		markers:    make(map[float64]*gpuMesh),
	}

	if cfg.SunAzimuth != 0 || cfg.SunElevation != 0 {
		r.Light.Direction = lighting.LightDirection(cfg.SunAzimuth, cfg.SunElevation)
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)

	program, err := shader.CompileProgram(shaders.BoxVertexShader, shaders.BoxFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("box shader: %w", err)
	}
	r.program = program
	r.locViewProj = shader.GetUniform(program, "uViewProj")
	r.locModel = shader.GetUniform(program, "uModel")
	r.locTexture = shader.GetUniform(program, "uTexture")
	r.locUseTex = shader.GetUniform(program, "uUseTexture")
	r.locLit = shader.GetUniform(program, "uLit")
	r.locColor = shader.GetUniform(program, "uColor")
	r.locTint = shader.GetUniform(program, "uTint")
	r.locLightDir = shader.GetUniform(program, "uLightDir")
	r.locAmbient = shader.GetUniform(program, "uAmbient")
	r.locDiffuse = shader.GetUniform(program, "uDiffuse")

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close releases all GPU resources.
func (r *Renderer) Close() {
	r.log.Debug("closing renderer")
	for g, m := range r.meshes {
		deleteMesh(m)
		delete(r.meshes, g)
	}
	for k, m := range r.markers {
		deleteMesh(m)
		delete(r.markers, k)
	}
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
		r.texture = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float64 {
	if r.config.Height == 0 {
		return 1
	}
	return float64(r.config.Width) / float64(r.config.Height)
}

// SetTexture uploads tex as the atlas used by textured materials. Passing
// the texture already bound is a no-op; nil unbinds it.
func (r *Renderer) SetTexture(tex *texture.Texture) {
	if tex == r.textureSrc {
		return
	}
	r.textureSrc = tex
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
		r.texture = 0
	}
	if tex == nil || tex.Image == nil || len(tex.Image.Pix) == 0 {
		return
	}

	img := tex.Image
	gl.GenTextures(1, &r.texture)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	// Box-model atlases are pixel art; keep texels sharp.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.log.Debug("texture uploaded",
		zap.String("ref", tex.Ref),
		zap.Int("width", tex.Width()),
		zap.Int("height", tex.Height()))
}

// Render draws every visible node of s. selected, when non-nil, is drawn
// with a highlight tint.
func (r *Renderer) Render(s *scene.Scene, view, proj math.Mat4, selected *scene.Node) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	viewProj := proj.Mul(view).Float32()
	gl.UniformMatrix4fv(r.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(r.locLightDir, r.Light.Direction[0], r.Light.Direction[1], r.Light.Direction[2])
	gl.Uniform3f(r.locAmbient, r.Light.Ambient[0], r.Light.Ambient[1], r.Light.Ambient[2])
	gl.Uniform3f(r.locDiffuse, r.Light.Diffuse[0], r.Light.Diffuse[1], r.Light.Diffuse[2])
	gl.Uniform1i(r.locTexture, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)

	seen := make(map[*scene.BoxGeometry]bool, len(r.meshes))
	s.View(func(root *scene.Node) {
		root.Walk(func(n *scene.Node, _ int) bool {
			if !n.Visible {
				return false
			}
			switch g := n.Geometry.(type) {
			case *scene.BoxGeometry:
				seen[g] = true
				r.drawCube(n, g, n == selected)
			case *scene.SphereGeometry:
				if r.ShowPivots {
					r.drawMarker(n, g, n == selected)
				}
			}
			return true
		})
	})

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	for g, m := range r.meshes {
		if !seen[g] {
			deleteMesh(m)
			delete(r.meshes, g)
		}
	}
}

// ReadPixels reads back the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

func (r *Renderer) drawCube(n *scene.Node, g *scene.BoxGeometry, selected bool) {
	m, ok := r.meshes[g]
	if !ok {
		m = uploadMesh(g.Mesh())
		r.meshes[g] = m
	}

	useTexture := r.texture != 0 && n.Material.TextureRef != ""
	gl.Uniform1i(r.locUseTex, boolInt(useTexture))
	gl.Uniform1i(r.locLit, boolInt(n.Material.Kind == scene.MaterialStandard))
	gl.Uniform3f(r.locColor, 0.8, 0.8, 0.8)
	r.setTint(selected)
	r.draw(n, m)
}

func (r *Renderer) drawMarker(n *scene.Node, g *scene.SphereGeometry, selected bool) {
	m, ok := r.markers[g.Radius]
	if !ok {
		m = uploadMesh(model.BuildSphereMesh(g.Radius, 12, 8))
		r.markers[g.Radius] = m
	}

	gl.Uniform1i(r.locUseTex, 0)
	gl.Uniform1i(r.locLit, 0)
	gl.Uniform3f(r.locColor, pivotColor[0], pivotColor[1], pivotColor[2])
	r.setTint(selected)
	// markers stay visible through the cubes they sit inside
	gl.Disable(gl.DEPTH_TEST)
	r.draw(n, m)
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) setTint(selected bool) {
	if selected {
		gl.Uniform3f(r.locTint, selectionTint[0], selectionTint[1], selectionTint[2])
	} else {
		gl.Uniform3f(r.locTint, 0, 0, 0)
	}
}

func (r *Renderer) draw(n *scene.Node, m *gpuMesh) {
	if m.indexCount == 0 {
		return
	}
	world := n.WorldMatrix().Float32()
	gl.UniformMatrix4fv(r.locModel, 1, false, &world[0])
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
}

func uploadMesh(mesh *model.Mesh) *gpuMesh {
	m := &gpuMesh{indexCount: int32(len(mesh.Indices))}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return m
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m
}

func deleteMesh(m *gpuMesh) {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
