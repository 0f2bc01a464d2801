package graphics

import (
	"fmt"

	"learngl/internal/graphics/glapi"
)

// ScalarType is the element type of a vertex attribute component.
type ScalarType uint32

const (
	FloatScalar ScalarType = glapi.Float
	UintScalar  ScalarType = glapi.UnsignedInt
)

func (t ScalarType) String() string {
	switch t {
	case FloatScalar:
		return "float"
	case UintScalar:
		return "uint"
	case glapi.Byte:
		return "byte"
	case glapi.UnsignedByte:
		return "ubyte"
	case glapi.Short:
		return "short"
	case glapi.UnsignedShort:
		return "ushort"
	case glapi.Int:
		return "int"
	case glapi.Double:
		return "double"
	}
	return fmt.Sprintf("ScalarType(%#x)", uint32(t))
}

// Size returns the byte size of one scalar.
func (t ScalarType) Size() int { return glapi.SizeOf(uint32(t)) }

// Attribute describes one vertex attribute. Stride and Offset are counted in
// scalars, not bytes.
type Attribute struct {
	Components int32
	Type       ScalarType
	Stride     int
	Offset     int
}

// Slot is a configured attribute slot with byte stride and offset resolved.
type Slot struct {
	Index      uint32
	Components int32
	Type       ScalarType
	Stride     int32
	Offset     uintptr
}

// Interleaved returns attributes for tightly packed interleaved vertices, one per
// component count, all of type FloatScalar.
func Interleaved(components ...int32) []Attribute {
	stride := 0
	for _, c := range components {
		stride += int(c)
	}
	attrs := make([]Attribute, len(components))
	offset := 0
	for i, c := range components {
		attrs[i] = Attribute{Components: c, Type: FloatScalar, Stride: stride, Offset: offset}
		offset += int(c)
	}
	return attrs
}

func (a Attribute) validate() error {
	if a.Components < 1 || a.Components > 4 {
		return fmt.Errorf("%w: got %d", ErrInvalidComponentCount, a.Components)
	}
	if a.Type != FloatScalar && a.Type != UintScalar {
		return fmt.Errorf("%w: %s", ErrInvalidComponentType, a.Type)
	}
	return nil
}

// ArrayBuffer is a buffer that can be bound to ARRAY_BUFFER as the attribute
// source of a vertex array.
type ArrayBuffer interface {
	Bind()
}

// sharedBuffer is an ArrayBuffer whose lifetime is reference counted.
type sharedBuffer interface {
	ArrayBuffer
	Retain()
	Release()
}

// VertexLayout owns a vertex array object and the buffers it reads from.
type VertexLayout struct {
	gl       glapi.GL
	id       uint32
	vertices ArrayBuffer
	indices  *IndexBuffer
	slots    []Slot
}

// NewVertexLayout creates a vertex array reading from vb. A reference counted
// buffer such as *VertexBuffer is retained until Delete; any other buffer stays
// owned by the caller.
func NewVertexLayout(gl glapi.GL, vb ArrayBuffer) *VertexLayout {
	l := &VertexLayout{gl: gl, vertices: vb}
	if sb, ok := vb.(sharedBuffer); ok {
		sb.Retain()
	}
	gl.GenVertexArrays(1, &l.id)
	return l
}

func (l *VertexLayout) ID() uint32 { return l.id }

// SetAttributes configures slots 0..len(attrs)-1. Every attribute is validated
// before any GL call, so on error the previously configured slots stay as they were.
func (l *VertexLayout) SetAttributes(attrs []Attribute) error {
	for i, a := range attrs {
		if err := a.validate(); err != nil {
			return fmt.Errorf("attribute %d: %w", i, err)
		}
	}
	l.gl.BindVertexArray(l.id)
	l.vertices.Bind()
	slots := make([]Slot, len(attrs))
	for i, a := range attrs {
		size := a.Type.Size()
		s := Slot{
			Index:      uint32(i),
			Components: a.Components,
			Type:       a.Type,
			Stride:     int32(a.Stride * size),
			Offset:     uintptr(a.Offset * size),
		}
		l.gl.VertexAttribPointer(s.Index, s.Components, uint32(s.Type), false, s.Stride, s.Offset)
		l.gl.EnableVertexAttribArray(s.Index)
		slots[i] = s
	}
	l.slots = slots
	return nil
}

// AttachIndexBuffer records ib as the element buffer of this vertex array and
// retains it. The vertex array is bound before the index buffer: the element
// binding is captured by whichever array is bound at that moment.
func (l *VertexLayout) AttachIndexBuffer(ib *IndexBuffer) {
	l.gl.BindVertexArray(l.id)
	ib.Bind()
	ib.Retain()
	if l.indices != nil {
		l.indices.Release()
	}
	l.indices = ib
}

func (l *VertexLayout) Bind() {
	l.gl.BindVertexArray(l.id)
}

// Slots returns a copy of the configured attribute slots.
func (l *VertexLayout) Slots() []Slot {
	return append([]Slot(nil), l.slots...)
}

// IndexCount returns the index count of the attached index buffer, or 0.
func (l *VertexLayout) IndexCount() int32 {
	if l.indices == nil {
		return 0
	}
	return l.indices.Count()
}

// VertexBuffer returns the attribute source when it is a *VertexBuffer, else nil.
func (l *VertexLayout) VertexBuffer() *VertexBuffer {
	vb, _ := l.vertices.(*VertexBuffer)
	return vb
}

func (l *VertexLayout) IndexBuffer() *IndexBuffer { return l.indices }

// Delete removes the vertex array and releases the buffers it holds.
func (l *VertexLayout) Delete() {
	if l.id == 0 {
		return
	}
	l.gl.DeleteVertexArrays(1, &l.id)
	l.id = 0
	if sb, ok := l.vertices.(sharedBuffer); ok {
		sb.Release()
	}
	if l.indices != nil {
		l.indices.Release()
		l.indices = nil
	}
	l.slots = nil
}
