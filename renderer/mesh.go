package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Vertex attribute locations shared with the shader sources.
const (
	attribPosition = 0
	attribColor    = 1
	attribOffset   = 2
)

// bowtieVertices are two triangles meeting on the vertical centre edge.
var bowtieVertices = []float32{
	0.0, -0.5, 0.0,
	1.0, 0.0, 0.0,
	0.0, 0.5, 0.0,

	0.0, -0.5, 0.0,
	-1.0, 0.0, 0.0,
	0.0, 0.5, 0.0,
}

const floatsPerVertex = 3

func vertexCount() int32 {
	return int32(len(bowtieVertices) / floatsPerVertex)
}

// Mesh owns the vertex array and buffer holding the bowtie.
type Mesh struct {
	vao uint32
	vbo uint32
}

func NewMesh() *Mesh {
	m := &Mesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(bowtieVertices)*4, gl.Ptr(bowtieVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointer(attribPosition, floatsPerVertex, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return m
}

// Draw issues the draw call for all vertices. The caller binds the program.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, vertexCount())
	gl.BindVertexArray(0)
}

func (m *Mesh) Destroy() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}
