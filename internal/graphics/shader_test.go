package graphics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learngl/internal/graphics/glapi/gltest"
)

const brokenFragmentSource = `#version 330 core
out vec4 FragColor;
#error undeclared identifier 'colour'
void main() { FragColor = colour; }
`

func TestShaderCompile(t *testing.T) {
	rec := gltest.New()
	sh := NewShader(rec, VertexStage, testVertexSource)
	assert.Equal(t, ShaderCreated, sh.State())

	require.NoError(t, sh.Compile())
	assert.Equal(t, ShaderCompiled, sh.State())
	assert.Equal(t, testVertexSource, rec.Shader(sh.ID()).Source)
}

func TestShaderCompileFailureCarriesLog(t *testing.T) {
	rec := gltest.New()
	sh := NewShader(rec, FragmentStage, brokenFragmentSource)

	err := sh.Compile()
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, FragmentStage, cerr.Stage)
	assert.Contains(t, cerr.Log, "undeclared identifier 'colour'")
	assert.Contains(t, err.Error(), "fragment")
	assert.Equal(t, ShaderCompileFailed, sh.State())
}

func TestFailedShaderNeverReachesLinkedProgram(t *testing.T) {
	rec := gltest.New()
	vs := NewShader(rec, VertexStage, testVertexSource)
	require.NoError(t, vs.Compile())
	fs := NewShader(rec, FragmentStage, brokenFragmentSource)
	require.Error(t, fs.Compile())

	p := NewProgram(rec)
	require.NoError(t, p.Attach(vs))
	assert.ErrorIs(t, p.Attach(fs), ErrShaderNotCompiled)

	// Not compiled at all is refused as well.
	assert.ErrorIs(t, p.Attach(NewShader(rec, FragmentStage, testFragmentSource)), ErrShaderNotCompiled)

	var lerr *LinkError
	require.ErrorAs(t, p.Link(), &lerr)
	assert.NotEqual(t, ProgramLinked, p.State())
	assert.Equal(t, ProgramFailed, p.State())
}

func TestLinkDetachesShaders(t *testing.T) {
	rec := gltest.New()
	vs := NewShader(rec, VertexStage, testVertexSource)
	fs := NewShader(rec, FragmentStage, testFragmentSource)
	require.NoError(t, vs.Compile())
	require.NoError(t, fs.Compile())

	first := NewProgram(rec)
	require.NoError(t, first.Attach(vs))
	require.NoError(t, first.Attach(fs))
	require.NoError(t, first.Link())
	assert.Equal(t, ProgramLinked, first.State())
	assert.Empty(t, rec.Program(first.ID()).Attached)
	assert.False(t, rec.Shader(vs.ID()).Deleted)

	// The same shaders link into a second program.
	second := NewProgram(rec)
	require.NoError(t, second.Attach(vs))
	require.NoError(t, second.Attach(fs))
	require.NoError(t, second.Link())
	assert.Empty(t, rec.Errors)
}

func TestLinkFailure(t *testing.T) {
	rec := gltest.New()
	rec.FailLink = true
	rec.LinkLog = "error: vertex output 'TexCoord' not read by fragment shader\n"

	_, _, err := BuildProgramSource(rec, testVertexSource, testFragmentSource)
	var lerr *LinkError
	require.ErrorAs(t, err, &lerr)
	assert.Contains(t, lerr.Log, "TexCoord")
	assert.Equal(t, 0, rec.Live())
}

func TestProgramStateTransitions(t *testing.T) {
	rec := gltest.New()
	p := linkedProgram(t, rec)

	assert.ErrorIs(t, p.Link(), ErrProgramState)
	sh := NewShader(rec, VertexStage, testVertexSource)
	require.NoError(t, sh.Compile())
	assert.ErrorIs(t, p.Attach(sh), ErrProgramState)

	rec.FailLink = true
	failed := NewProgram(rec)
	require.Error(t, failed.Link())
	assert.Equal(t, ProgramFailed, failed.State())
	assert.ErrorIs(t, failed.Link(), ErrProgramState)

	id := failed.ID()
	failed.Delete()
	assert.True(t, rec.Program(id).Deleted)
}

func TestBuildProgramFromFiles(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "shader.vert")
	frag := filepath.Join(dir, "shader.frag")
	require.NoError(t, os.WriteFile(vert, []byte(testVertexSource), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte(testFragmentSource), 0o644))

	rec := gltest.New()
	p, shaders, err := BuildProgram(rec, vert, frag)
	require.NoError(t, err)
	assert.Equal(t, ProgramLinked, p.State())
	require.Len(t, shaders, 2)
	assert.Equal(t, VertexStage, shaders[0].Stage())
	assert.Equal(t, FragmentStage, shaders[1].Stage())
}

func TestBuildProgramErrors(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "shader.vert")
	broken := filepath.Join(dir, "broken.frag")
	require.NoError(t, os.WriteFile(vert, []byte(testVertexSource), 0o644))
	require.NoError(t, os.WriteFile(broken, []byte(brokenFragmentSource), 0o644))

	rec := gltest.New()
	_, _, err := BuildProgram(rec, vert, filepath.Join(dir, "missing.frag"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = BuildProgram(rec, vert, broken)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, broken, cerr.Path)
	assert.Contains(t, err.Error(), broken)

	assert.Equal(t, 0, rec.Live())
}
