// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// BoxVertexShader is the vertex shader for cubes and pivot markers.
//
//go:embed box.vert
var BoxVertexShader string

// BoxFragmentShader is the fragment shader for cubes and pivot markers.
//
//go:embed box.frag
var BoxFragmentShader string
