// Package gldriver implements shader.Driver on top of the go-gl OpenGL 4.1
// core bindings.
package gldriver

import (
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/bowtie/shader"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

// Init loads the GL function pointers for the context current on the
// calling thread. Only the first call does any work.
func Init() error {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	return glInitErr
}

// Driver talks to the GL context current on the calling thread.
type Driver struct{}

var _ shader.Driver = Driver{}

func (Driver) CreateShader(stage shader.Stage) uint32 {
	return gl.CreateShader(uint32(stage))
}

func (Driver) ShaderSource(shader uint32, src []byte) {
	csources, free := gl.Strs(string(src) + "\x00")
	defer free()
	length := int32(len(src))
	gl.ShaderSource(shader, 1, csources, &length)
}

func (Driver) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (Driver) CompileStatus(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (Driver) ShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 0 {
		return ""
	}
	buf := make([]byte, logLength)
	gl.GetShaderInfoLog(shader, logLength, nil, &buf[0])
	return trimLog(buf)
}

func (Driver) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (Driver) CreateProgram() uint32 { return gl.CreateProgram() }

func (Driver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (Driver) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (Driver) LinkStatus(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (Driver) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 0 {
		return ""
	}
	buf := make([]byte, logLength)
	gl.GetProgramInfoLog(program, logLength, nil, &buf[0])
	return trimLog(buf)
}

func (Driver) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

// IsShader reports whether shader still names a shader object.
func (Driver) IsShader(shader uint32) bool { return gl.IsShader(shader) }

// IsProgram reports whether program still names a program object.
func (Driver) IsProgram(program uint32) bool { return gl.IsProgram(program) }

// DeleteStatus reports whether shader has been flagged for deletion.
func (Driver) DeleteStatus(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.DELETE_STATUS, &status)
	return status != gl.FALSE
}

// trimLog drops the NUL terminator the driver writes into the log buffer.
func trimLog(buf []byte) string {
	return strings.TrimRight(string(buf), "\x00")
}
