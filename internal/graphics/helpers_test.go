package graphics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"learngl/internal/graphics/glapi/gltest"
)

const testVertexSource = `#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;
out vec2 TexCoord;
uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
void main() {
	gl_Position = projection * view * model * vec4(aPos, 1.0);
	TexCoord = aTexCoord;
}
`

const testFragmentSource = `#version 330 core
in vec2 TexCoord;
out vec4 FragColor;
uniform vec3 color1;
uniform float mixValue;
uniform int mode;
uniform sampler2D texture1;
uniform sampler2D texture2;
void main() {
	FragColor = mix(texture(texture1, TexCoord), texture(texture2, TexCoord), mixValue) * vec4(color1, 1.0);
}
`

const textVertexSource = `#version 330 core
layout (location = 0) in vec4 vertex;
out vec2 TexCoords;
uniform mat4 projection;
void main() {
	gl_Position = projection * vec4(vertex.xy, 0.0, 1.0);
	TexCoords = vertex.zw;
}
`

const textFragmentSource = `#version 330 core
in vec2 TexCoords;
out vec4 color;
uniform sampler2D text;
uniform vec3 textColor;
void main() {
	color = vec4(textColor, 1.0) * vec4(1.0, 1.0, 1.0, texture(text, TexCoords).r);
}
`

func linkedProgram(t *testing.T, rec *gltest.Recorder) *Program {
	t.Helper()
	p, _, err := BuildProgramSource(rec, testVertexSource, testFragmentSource)
	require.NoError(t, err)
	return p
}

// fanVertices is five pos3 vertices indexed as two triangles.
var (
	fanVertices = []float32{
		0.0, 0.0, 0.0,
		-0.5, 0.0, 0.0,
		-0.25, 0.5, 0.0,
		0.25, 0.5, 0.0,
		0.5, 0.0, 0.0,
	}
	fanIndices = []uint32{0, 1, 2, 0, 3, 4}
)
