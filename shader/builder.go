// Package shader loads GLSL sources from disk and builds linked GL programs
// out of them.
package shader

import (
	"errors"
	"log"
)

// ErrCreateFailed is returned when the driver hands out object name 0,
// which usually means no context is current.
var ErrCreateFailed = errors.New("driver failed to create object")

// Program is a linked program object. The zero value is the unusable
// program returned alongside every build error.
type Program struct {
	ID uint32
}

// Valid reports whether p names a linked program.
func (p Program) Valid() bool { return p.ID != 0 }

// Builder turns pairs of vertex/fragment source files into programs. It keeps
// no state between builds; every BuildProgram call creates a new program.
type Builder struct {
	driver        Driver
	logger        *log.Logger
	translator    Translator
	maxSourceSize int64
}

type Option func(*Builder)

// WithLogger sets where diagnostics are written. The default is the
// standard logger, which writes to stderr.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithTranslator runs every loaded source through t before compilation.
func WithTranslator(t Translator) Option {
	return func(b *Builder) { b.translator = t }
}

// WithMaxSourceSize caps the size of a single source file. Zero means no cap.
func WithMaxSourceSize(n int64) Option {
	return func(b *Builder) { b.maxSourceSize = n }
}

func NewBuilder(d Driver, opts ...Option) *Builder {
	b := &Builder{
		driver: d,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadSource reads the file at path into a NUL-terminated buffer.
func (b *Builder) LoadSource(path string) (*Source, error) {
	src, err := readSource(path, b.maxSourceSize)
	if err != nil {
		b.logger.Printf("LoadSource(): %v", err)
		return nil, err
	}
	return src, nil
}

// CompileStage loads path and compiles it as a shader of the given stage.
// On failure it returns 0 and no shader object is left behind.
func (b *Builder) CompileStage(stage Stage, path string) (uint32, error) {
	src, err := b.LoadSource(path)
	if err != nil {
		return 0, err
	}

	text := src.Bytes()
	if b.translator != nil {
		text, err = b.translator.Translate(stage, text)
		if err != nil {
			src.Release()
			err = &TranslateError{Stage: stage, Path: path, Err: err}
			b.logger.Printf("CompileStage(): %v", err)
			return 0, err
		}
	}

	shader := b.driver.CreateShader(stage)
	if shader == 0 {
		src.Release()
		b.logger.Printf("CompileStage(): %s shader %s: %v", stage, path, ErrCreateFailed)
		return 0, ErrCreateFailed
	}
	b.driver.ShaderSource(shader, text)
	b.driver.CompileShader(shader)
	src.Release()

	if !b.driver.CompileStatus(shader) {
		err := &CompileError{Stage: stage, Path: path, Log: b.driver.ShaderInfoLog(shader)}
		b.logger.Printf("CompileStage(): %v", err)
		b.driver.DeleteShader(shader)
		return 0, err
	}
	return shader, nil
}

// AttachStage compiles path and attaches the result to program. The shader
// is flagged for deletion straight away and lives on as long as the program
// references it. A compile failure has already been reported when it is
// returned here.
func (b *Builder) AttachStage(program uint32, stage Stage, path string) error {
	shader, err := b.CompileStage(stage, path)
	if err != nil {
		return err
	}
	b.driver.AttachShader(program, shader)
	b.driver.DeleteShader(shader)
	return nil
}

// BuildProgram compiles the vertex and fragment sources, in that order, and
// links them into a new program. Any object created by a failed attempt is
// deleted before the error is returned.
func (b *Builder) BuildProgram(vertexPath, fragmentPath string) (Program, error) {
	program := b.driver.CreateProgram()
	if program == 0 {
		b.logger.Printf("BuildProgram(): %v", ErrCreateFailed)
		return Program{}, ErrCreateFailed
	}

	if err := b.AttachStage(program, Vertex, vertexPath); err != nil {
		b.driver.DeleteProgram(program)
		return Program{}, err
	}
	if err := b.AttachStage(program, Fragment, fragmentPath); err != nil {
		b.driver.DeleteProgram(program)
		return Program{}, err
	}

	b.driver.LinkProgram(program)
	if !b.driver.LinkStatus(program) {
		err := &LinkError{Log: b.driver.ProgramInfoLog(program)}
		b.logger.Printf("BuildProgram(): %v", err)
		b.driver.DeleteProgram(program)
		return Program{}, err
	}
	return Program{ID: program}, nil
}

// Release deletes p. Releasing the zero Program is a no-op.
func (b *Builder) Release(p Program) {
	if p.Valid() {
		b.driver.DeleteProgram(p.ID)
	}
}
