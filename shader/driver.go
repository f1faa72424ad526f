package shader

// Driver is the subset of the GL object API the builder needs. Every call
// assumes a current context on the calling thread.
//
// Deleting a shader that is attached to a program only flags it; the driver
// destroys it once no program references it any more.
type Driver interface {
	CreateShader(stage Stage) uint32
	// ShaderSource replaces the shader's source with src. len(src) is passed
	// to the driver as the explicit string length.
	ShaderSource(shader uint32, src []byte)
	CompileShader(shader uint32)
	CompileStatus(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	LinkStatus(program uint32) bool
	ProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
}

// Translator rewrites a shader source before it is compiled, e.g. from one
// GLSL dialect into the one the driver accepts.
type Translator interface {
	Translate(stage Stage, src []byte) ([]byte, error)
}
