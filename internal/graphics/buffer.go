package graphics

import (
	"fmt"

	"learngl/internal/graphics/glapi"
)

const (
	floatSize = 4
	uintSize  = 4
)

// VertexBuffer owns an immutable ARRAY_BUFFER allocation. Ownership is shared by
// reference count: the creator holds one reference and every VertexLayout that
// adopts the buffer holds another. The GL buffer is deleted with the last one.
type VertexBuffer struct {
	gl     glapi.GL
	id     uint32
	floats int
	refs   int
}

// NewVertexBuffer allocates a buffer and uploads data with STATIC_DRAW usage.
func NewVertexBuffer(gl glapi.GL, data []float32) *VertexBuffer {
	b := &VertexBuffer{gl: gl, floats: len(data), refs: 1}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(glapi.ArrayBuffer, b.id)
	gl.BufferData(glapi.ArrayBuffer, len(data)*floatSize, glapi.Ptr(data), glapi.StaticDraw)
	return b
}

func (b *VertexBuffer) ID() uint32 { return b.id }

// Len returns the number of floats stored in the buffer.
func (b *VertexBuffer) Len() int { return b.floats }

// Bind makes the buffer current for ARRAY_BUFFER.
func (b *VertexBuffer) Bind() {
	b.gl.BindBuffer(glapi.ArrayBuffer, b.id)
}

func (b *VertexBuffer) Retain() { b.refs++ }

// Release drops one reference and deletes the buffer when none remain. Calls after
// the buffer has been deleted do nothing.
func (b *VertexBuffer) Release() {
	if b.refs == 0 {
		return
	}
	b.refs--
	if b.refs == 0 {
		b.gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

func (b *VertexBuffer) Refs() int { return b.refs }

// IndexBuffer owns an ELEMENT_ARRAY_BUFFER of uint32 indices and remembers how many
// it holds. It follows the same reference counting as VertexBuffer.
type IndexBuffer struct {
	gl    glapi.GL
	id    uint32
	count int32
	refs  int
}

// NewIndexBuffer allocates and uploads indices. The element binding is part of VAO
// state, so any bound vertex array is unbound first to keep it untouched.
func NewIndexBuffer(gl glapi.GL, indices []uint32) *IndexBuffer {
	b := &IndexBuffer{gl: gl, count: int32(len(indices)), refs: 1}
	gl.BindVertexArray(0)
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(glapi.ElementArrayBuffer, b.id)
	gl.BufferData(glapi.ElementArrayBuffer, len(indices)*uintSize, glapi.Ptr(indices), glapi.StaticDraw)
	return b
}

func (b *IndexBuffer) ID() uint32 { return b.id }

// Count returns the number of indices.
func (b *IndexBuffer) Count() int32 { return b.count }

// Bind makes the buffer current for ELEMENT_ARRAY_BUFFER. With a vertex array bound
// this also records the buffer in that array's state.
func (b *IndexBuffer) Bind() {
	b.gl.BindBuffer(glapi.ElementArrayBuffer, b.id)
}

func (b *IndexBuffer) Retain() { b.refs++ }

// Release drops one reference and deletes the buffer when none remain.
func (b *IndexBuffer) Release() {
	if b.refs == 0 {
		return
	}
	b.refs--
	if b.refs == 0 {
		b.gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

func (b *IndexBuffer) Refs() int { return b.refs }

// DynamicBuffer is a DYNAMIC_DRAW vertex buffer of fixed capacity that is rewritten
// in place, used for streamed geometry such as glyph quads.
type DynamicBuffer struct {
	gl       glapi.GL
	id       uint32
	capacity int
}

// NewDynamicBuffer allocates room for capacity floats without initial data.
func NewDynamicBuffer(gl glapi.GL, capacity int) *DynamicBuffer {
	b := &DynamicBuffer{gl: gl, capacity: capacity}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(glapi.ArrayBuffer, b.id)
	gl.BufferData(glapi.ArrayBuffer, capacity*floatSize, nil, glapi.DynamicDraw)
	return b
}

func (b *DynamicBuffer) ID() uint32    { return b.id }
func (b *DynamicBuffer) Capacity() int { return b.capacity }

func (b *DynamicBuffer) Bind() {
	b.gl.BindBuffer(glapi.ArrayBuffer, b.id)
}

// SubUpdate binds the buffer and overwrites data starting at offset, both counted
// in floats.
func (b *DynamicBuffer) SubUpdate(offset int, data []float32) error {
	if offset < 0 || offset+len(data) > b.capacity {
		return fmt.Errorf("%w: %d floats at offset %d, capacity %d", ErrBufferOverflow, len(data), offset, b.capacity)
	}
	if len(data) == 0 {
		return nil
	}
	b.gl.BindBuffer(glapi.ArrayBuffer, b.id)
	b.gl.BufferSubData(glapi.ArrayBuffer, offset*floatSize, len(data)*floatSize, glapi.Ptr(data))
	return nil
}

func (b *DynamicBuffer) Delete() {
	if b.id == 0 {
		return
	}
	b.gl.DeleteBuffers(1, &b.id)
	b.id = 0
}
