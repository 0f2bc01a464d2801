package graphics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidComponentCount = errors.New("attribute component count must be between 1 and 4")
	ErrInvalidComponentType  = errors.New("unsupported attribute component type")
	ErrShaderNotCompiled     = errors.New("shader is not compiled")
	ErrProgramState          = errors.New("program is not in the unlinked state")
	ErrBufferOverflow        = errors.New("write exceeds buffer capacity")
)

// CompileError carries the driver info log of a failed shader compile.
type CompileError struct {
	Stage Stage
	Path  string
	Log   string
}

func (e *CompileError) Error() string {
	src := e.Stage.String()
	if e.Path != "" {
		src += " " + e.Path
	}
	return fmt.Sprintf("failed to compile %s shader: %s", src, strings.TrimSpace(e.Log))
}

// LinkError carries the driver info log of a failed program link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", strings.TrimSpace(e.Log))
}
