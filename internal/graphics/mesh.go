package graphics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"learngl/internal/graphics/glapi"
)

// Mesh is one indexed draw: a vertex layout with its buffers, the uniforms and
// textures it feeds, and the program it is drawn with.
type Mesh struct {
	gl       glapi.GL
	layout   *VertexLayout
	program  *Program
	uniforms []*Uniform
	textures []*Texture
}

// NewMesh uploads vertices and indices and configures attrs. The mesh becomes the
// only owner of the buffers. On an attribute error everything created is released.
func NewMesh(gl glapi.GL, vertices []float32, indices []uint32, attrs []Attribute) (*Mesh, error) {
	vb := NewVertexBuffer(gl, vertices)
	ib := NewIndexBuffer(gl, indices)
	layout := NewVertexLayout(gl, vb)
	defer vb.Release()
	defer ib.Release()

	if err := layout.SetAttributes(attrs); err != nil {
		layout.Delete()
		return nil, fmt.Errorf("new mesh: %w", err)
	}
	layout.AttachIndexBuffer(ib)
	gl.BindVertexArray(0)
	return &Mesh{gl: gl, layout: layout}, nil
}

// SetProgram records the program the mesh is drawn with. The mesh does not own it.
func (m *Mesh) SetProgram(p *Program) { m.program = p }
func (m *Mesh) Program() *Program     { return m.program }

// BindVAO binds the vertex array; Render relies on it being bound.
func (m *Mesh) BindVAO() { m.layout.Bind() }

func (m *Mesh) AddUniform(u *Uniform) { m.uniforms = append(m.uniforms, u) }

// Uniform returns the uniform registered under name, or nil.
func (m *Mesh) Uniform(name string) *Uniform {
	for _, u := range m.uniforms {
		if u.Name() == name {
			return u
		}
	}
	return nil
}

func (m *Mesh) Uniforms() []*Uniform { return m.uniforms }

func (m *Mesh) AddTexture(t *Texture) { m.textures = append(m.textures, t) }
func (m *Mesh) Textures() []*Texture  { return m.textures }

// ActivateTextures binds texture i to unit i.
func (m *Mesh) ActivateTextures() {
	for i, t := range m.textures {
		t.SetActiveTexture(uint32(i))
	}
}

func (m *Mesh) IndexCount() int32     { return m.layout.IndexCount() }
func (m *Mesh) Layout() *VertexLayout { return m.layout }

// Render issues a single indexed draw of all indices. It binds nothing: the
// program, vertex array and uniforms must already be set by the caller.
func (m *Mesh) Render() {
	m.gl.DrawElements(glapi.Triangles, m.layout.IndexCount(), glapi.UnsignedInt, 0)
}

// Delete releases the vertex layout and the textures. The program is not touched.
func (m *Mesh) Delete() {
	m.layout.Delete()
	for _, t := range m.textures {
		t.Delete()
	}
	m.textures = nil
}

// Model is an ordered group of meshes drawn with one program and placed by a
// shared model transform.
type Model struct {
	program   *Program
	meshes    []*Mesh
	transform mgl32.Mat4
}

func NewModel(program *Program, meshes ...*Mesh) *Model {
	m := &Model{program: program, transform: mgl32.Ident4()}
	for _, mesh := range meshes {
		m.Add(mesh)
	}
	return m
}

// Add appends a mesh and assigns it the model's program.
func (m *Model) Add(mesh *Mesh) {
	mesh.SetProgram(m.program)
	m.meshes = append(m.meshes, mesh)
}

func (m *Model) Program() *Program         { return m.program }
func (m *Model) Meshes() []*Mesh           { return m.meshes }
func (m *Model) Transform() mgl32.Mat4     { return m.transform }
func (m *Model) SetTransform(t mgl32.Mat4) { m.transform = t }

// Delete deletes every mesh. The shared program is owned by the caller.
func (m *Model) Delete() {
	for _, mesh := range m.meshes {
		mesh.Delete()
	}
	m.meshes = nil
}
