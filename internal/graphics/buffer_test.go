package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learngl/internal/graphics/glapi"
	"learngl/internal/graphics/glapi/gltest"
)

func TestVertexBufferUpload(t *testing.T) {
	rec := gltest.New()
	vb := NewVertexBuffer(rec, fanVertices)

	buf := rec.Buffer(vb.ID())
	require.NotNil(t, buf)
	assert.Equal(t, fanVertices, buf.Floats())
	assert.Equal(t, uint32(glapi.StaticDraw), buf.Usage)
	assert.Equal(t, len(fanVertices), vb.Len())
	assert.Equal(t, 1, vb.Refs())
}

func TestVertexBufferRefCount(t *testing.T) {
	rec := gltest.New()
	vb := NewVertexBuffer(rec, fanVertices)
	id := vb.ID()

	vb.Retain()
	assert.Equal(t, 2, vb.Refs())

	vb.Release()
	assert.False(t, rec.Buffer(id).Deleted)

	vb.Release()
	assert.True(t, rec.Buffer(id).Deleted)
	assert.Equal(t, 0, vb.Refs())

	vb.Release()
	assert.Equal(t, 1, rec.Count("DeleteBuffers"))
}

func TestIndexBufferUpload(t *testing.T) {
	rec := gltest.New()
	ib := NewIndexBuffer(rec, fanIndices)

	assert.Equal(t, int32(6), ib.Count())
	assert.Equal(t, fanIndices, rec.Buffer(ib.ID()).Uints())

	id := ib.ID()
	ib.Release()
	assert.True(t, rec.Buffer(id).Deleted)
	assert.Equal(t, uint32(0), ib.ID())
}

func TestIndexBufferLeavesBoundVertexArrayAlone(t *testing.T) {
	rec := gltest.New()
	vb := NewVertexBuffer(rec, fanVertices)
	first := NewIndexBuffer(rec, fanIndices)
	layout := NewVertexLayout(rec, vb)
	require.NoError(t, layout.SetAttributes(Interleaved(3)))
	layout.AttachIndexBuffer(first)

	// The layout's vertex array is still bound here.
	second := NewIndexBuffer(rec, []uint32{0, 1, 2})

	assert.Equal(t, first.ID(), rec.VertexArray(layout.ID()).ElementBuffer)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Empty(t, rec.Errors)
}

func TestDynamicBufferSubUpdate(t *testing.T) {
	rec := gltest.New()
	b := NewDynamicBuffer(rec, 8)

	buf := rec.Buffer(b.ID())
	assert.Equal(t, uint32(glapi.DynamicDraw), buf.Usage)
	assert.Len(t, buf.Data, 8*4)

	require.NoError(t, b.SubUpdate(2, []float32{1, 2, 3}))
	assert.Equal(t, []float32{0, 0, 1, 2, 3, 0, 0, 0}, buf.Floats())

	err := b.SubUpdate(6, []float32{1, 2, 3})
	assert.ErrorIs(t, err, ErrBufferOverflow)
	assert.Equal(t, []float32{0, 0, 1, 2, 3, 0, 0, 0}, buf.Floats())

	b.Delete()
	b.Delete()
	assert.True(t, buf.Deleted)
	assert.Equal(t, 1, rec.Count("DeleteBuffers"))
}
