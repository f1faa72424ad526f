package shader

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	vertexSrc = `#version 410 core
layout (location = 0) in vec3 in_position;
out vec3 vertex_color;
void main() {
    vertex_color = vec3(1.0);
    gl_Position = vec4(in_position, 1.0);
}
`
	fragmentSrc = `#version 410 core
in vec3 vertex_color;
out vec4 frag_color;
void main() {
    frag_color = vec4(vertex_color, 1.0);
}
`
	// reads an input the vertex stage never writes
	unmatchedFragmentSrc = `#version 410 core
in vec2 frag_uv;
out vec4 frag_color;
void main() {
    frag_color = vec4(frag_uv, 0.0, 1.0);
}
`
	brokenSrc = `#version 410 core
void mian() {}
`
)

type shaderFiles struct {
	vertex, fragment, unmatched, broken string
}

func writeShaders(t *testing.T) shaderFiles {
	dir := t.TempDir()
	return shaderFiles{
		vertex:    writeFile(t, dir, "vertex.glsl", []byte(vertexSrc)),
		fragment:  writeFile(t, dir, "fragment.glsl", []byte(fragmentSrc)),
		unmatched: writeFile(t, dir, "unmatched.glsl", []byte(unmatchedFragmentSrc)),
		broken:    writeFile(t, dir, "broken.glsl", []byte(brokenSrc)),
	}
}

func TestCompileStage(t *testing.T) {
	files := writeShaders(t)
	d := newFakeDriver()
	b, _ := quietBuilder(d)

	shader, err := b.CompileStage(Vertex, files.vertex)
	require.NoError(t, err)
	require.NotZero(t, shader)
	assert.True(t, d.IsShader(shader))
	assert.Equal(t, Vertex, d.shaders[shader].stage)
	assert.Equal(t, vertexSrc, string(d.shaders[shader].src))
}

func TestCompileStageFailureDeletesShader(t *testing.T) {
	files := writeShaders(t)
	d := newFakeDriver()
	b, diag := quietBuilder(d)

	shader, err := b.CompileStage(Fragment, files.broken)
	assert.Zero(t, shader)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, Fragment, compileErr.Stage)
	assert.Equal(t, files.broken, compileErr.Path)
	assert.NotEmpty(t, compileErr.Log)
	assert.Empty(t, d.shaders, "no shader object may survive a failed compile")
	assert.Contains(t, diag.String(), files.broken)
	assert.Contains(t, diag.String(), compileErr.Log)
}

func TestCompileStageMissingFileCreatesNothing(t *testing.T) {
	d := newFakeDriver()
	b, _ := quietBuilder(d)

	shader, err := b.CompileStage(Vertex, filepath.Join(t.TempDir(), "nope.glsl"))
	assert.Zero(t, shader)
	var openErr *FileOpenError
	assert.ErrorAs(t, err, &openErr)
	assert.Zero(t, d.next, "driver must not be touched")
}

type upperTranslator struct{ err error }

func (u upperTranslator) Translate(stage Stage, src []byte) ([]byte, error) {
	if u.err != nil {
		return nil, u.err
	}
	return []byte(strings.Replace(string(src), "#version 410 core", "#version 410 core // "+stage.String(), 1)), nil
}

func TestCompileStageTranslates(t *testing.T) {
	files := writeShaders(t)
	d := newFakeDriver()
	b, _ := quietBuilder(d, WithTranslator(upperTranslator{}))

	shader, err := b.CompileStage(Vertex, files.vertex)
	require.NoError(t, err)
	assert.Contains(t, string(d.shaders[shader].src), "// vertex")
}

func TestCompileStageTranslateError(t *testing.T) {
	files := writeShaders(t)
	d := newFakeDriver()
	boom := errors.New("boom")
	b, diag := quietBuilder(d, WithTranslator(upperTranslator{err: boom}))

	shader, err := b.CompileStage(Fragment, files.fragment)
	assert.Zero(t, shader)
	var translateErr *TranslateError
	require.ErrorAs(t, err, &translateErr)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, d.next)
	assert.Contains(t, diag.String(), "boom")
}

func TestAttachStageKeepsDeletedShaderAlive(t *testing.T) {
	files := writeShaders(t)
	d := newFakeDriver()
	b, _ := quietBuilder(d)

	program := d.CreateProgram()
	require.NoError(t, b.AttachStage(program, Vertex, files.vertex))
	require.Len(t, d.programs[program].shaders, 1)
	shader := d.programs[program].shaders[0]
	assert.True(t, d.IsShader(shader), "attached shader must outlive its delete flag")
	assert.True(t, d.shaders[shader].deleted)

	d.DeleteProgram(program)
	assert.False(t, d.IsShader(shader))
}

func TestAttachStageFailureAttachesNothing(t *testing.T) {
	files := writeShaders(t)
	d := newFakeDriver()
	b, _ := quietBuilder(d)

	program := d.CreateProgram()
	err := b.AttachStage(program, Fragment, files.broken)
	assert.Error(t, err)
	assert.Empty(t, d.programs[program].shaders)
}

func TestBuildProgram(t *testing.T) {
	files := writeShaders(t)
	d := newFakeDriver()
	b, diag := quietBuilder(d)

	p, err := b.BuildProgram(files.vertex, files.fragment)
	require.NoError(t, err)
	assert.True(t, p.Valid())
	assert.True(t, d.IsProgram(p.ID))
	assert.True(t, d.programs[p.ID].linked)
	assert.Empty(t, diag.String())

	// vertex first, then fragment
	attached := d.programs[p.ID].shaders
	require.Len(t, attached, 2)
	assert.Equal(t, Vertex, d.shaders[attached[0]].stage)
	assert.Equal(t, Fragment, d.shaders[attached[1]].stage)

	b.Release(p)
	assert.False(t, d.IsProgram(p.ID))
	assert.Empty(t, d.shaders)
}

func TestBuildProgramTwiceYieldsDistinctPrograms(t *testing.T) {
	files := writeShaders(t)
	d := newFakeDriver()
	b, _ := quietBuilder(d)

	p1, err := b.BuildProgram(files.vertex, files.fragment)
	require.NoError(t, err)
	p2, err := b.BuildProgram(files.vertex, files.fragment)
	require.NoError(t, err)
	assert.NotEqual(t, p1.ID, p2.ID)
	assert.True(t, d.IsProgram(p1.ID))
	assert.True(t, d.IsProgram(p2.ID))
}

func TestBuildProgramLinkFailure(t *testing.T) {
	files := writeShaders(t)
	d := newFakeDriver()
	b, diag := quietBuilder(d)

	p, err := b.BuildProgram(files.vertex, files.unmatched)
	assert.False(t, p.Valid())
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Contains(t, linkErr.Log, "frag_uv")
	assert.Contains(t, diag.String(), linkErr.Log)
	assert.Empty(t, d.programs, "failed program must be deleted")
	assert.Empty(t, d.shaders, "attached shaders go with the program")
}

func TestBuildProgramStageFailureCleansUp(t *testing.T) {
	files := writeShaders(t)
	missing := filepath.Join(t.TempDir(), "missing.glsl")

	tests := []struct {
		name             string
		vertex, fragment string
		target           any
	}{
		{"vertex compile", files.broken, files.fragment, new(*CompileError)},
		{"fragment compile", files.vertex, files.broken, new(*CompileError)},
		{"vertex missing", missing, files.fragment, new(*FileOpenError)},
		{"fragment missing", files.vertex, missing, new(*FileOpenError)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDriver()
			b, diag := quietBuilder(d)

			p, err := b.BuildProgram(tt.vertex, tt.fragment)
			assert.Zero(t, p.ID)
			assert.ErrorAs(t, err, tt.target)
			assert.NotEmpty(t, diag.String())
			assert.Empty(t, d.programs)
			assert.Empty(t, d.shaders)
		})
	}
}

func TestReleaseZeroProgram(t *testing.T) {
	d := newFakeDriver()
	b, _ := quietBuilder(d)
	b.Release(Program{})
	assert.Zero(t, d.next)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "vertex", Vertex.String())
	assert.Equal(t, "fragment", Fragment.String())
	assert.Equal(t, "stage(0x91B9)", Stage(0x91B9).String())
}

// noContextDriver hands out name 0 like GL does without a current context.
type noContextDriver struct{ *fakeDriver }

func (noContextDriver) CreateProgram() uint32           { return 0 }
func (noContextDriver) CreateShader(stage Stage) uint32 { return 0 }

func TestBuildWithoutContext(t *testing.T) {
	files := writeShaders(t)
	d := noContextDriver{newFakeDriver()}
	b, diag := quietBuilder(d)

	p, err := b.BuildProgram(files.vertex, files.fragment)
	assert.Zero(t, p.ID)
	assert.ErrorIs(t, err, ErrCreateFailed)

	shader, err := b.CompileStage(Vertex, files.vertex)
	assert.Zero(t, shader)
	assert.ErrorIs(t, err, ErrCreateFailed)
	assert.Contains(t, diag.String(), files.vertex)
}
