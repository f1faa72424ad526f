package shader

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

type fakeShader struct {
	stage    Stage
	src      []byte
	compiled bool
	log      string
	deleted  bool
	refs     int
}

type fakeProgram struct {
	shaders []uint32
	linked  bool
	log     string
}

// fakeDriver models GL object lifetimes: a deleted shader survives while a
// program still references it. Sources compile when they define main and
// link when every fragment input has a matching vertex output.
type fakeDriver struct {
	next     uint32
	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		shaders:  make(map[uint32]*fakeShader),
		programs: make(map[uint32]*fakeProgram),
	}
}

func (d *fakeDriver) CreateShader(stage Stage) uint32 {
	d.next++
	d.shaders[d.next] = &fakeShader{stage: stage}
	return d.next
}

func (d *fakeDriver) ShaderSource(shader uint32, src []byte) {
	d.shaders[shader].src = append([]byte(nil), src...)
}

func (d *fakeDriver) CompileShader(shader uint32) {
	s := d.shaders[shader]
	if bytes.Contains(s.src, []byte("void main")) {
		s.compiled = true
		return
	}
	s.log = "ERROR: 0:1: 'main' : function not defined\n"
}

func (d *fakeDriver) CompileStatus(shader uint32) bool   { return d.shaders[shader].compiled }
func (d *fakeDriver) ShaderInfoLog(shader uint32) string { return d.shaders[shader].log }

func (d *fakeDriver) DeleteShader(shader uint32) {
	s, ok := d.shaders[shader]
	if !ok {
		return
	}
	s.deleted = true
	if s.refs == 0 {
		delete(d.shaders, shader)
	}
}

func (d *fakeDriver) CreateProgram() uint32 {
	d.next++
	d.programs[d.next] = &fakeProgram{}
	return d.next
}

func (d *fakeDriver) AttachShader(program, shader uint32) {
	p := d.programs[program]
	p.shaders = append(p.shaders, shader)
	d.shaders[shader].refs++
}

func (d *fakeDriver) LinkProgram(program uint32) {
	p := d.programs[program]
	var vs, fs *fakeShader
	for _, id := range p.shaders {
		switch s := d.shaders[id]; s.stage {
		case Vertex:
			vs = s
		case Fragment:
			fs = s
		}
	}
	if vs == nil || fs == nil {
		p.log = "error: program lacks a vertex or fragment shader\n"
		return
	}
	outs := declared(vs.src, "out")
	for _, name := range declared(fs.src, "in") {
		if !contains(outs, name) {
			p.log = fmt.Sprintf("error: fragment input %s not written by vertex shader\n", name)
			return
		}
	}
	p.linked = true
}

func (d *fakeDriver) LinkStatus(program uint32) bool       { return d.programs[program].linked }
func (d *fakeDriver) ProgramInfoLog(program uint32) string { return d.programs[program].log }

func (d *fakeDriver) DeleteProgram(program uint32) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	delete(d.programs, program)
	for _, id := range p.shaders {
		s := d.shaders[id]
		s.refs--
		if s.deleted && s.refs == 0 {
			delete(d.shaders, id)
		}
	}
}

func (d *fakeDriver) IsShader(shader uint32) bool {
	_, ok := d.shaders[shader]
	return ok
}

func (d *fakeDriver) IsProgram(program uint32) bool {
	_, ok := d.programs[program]
	return ok
}

// declared returns the variable names of "<qualifier> <type> <name>;" lines.
func declared(src []byte, qualifier string) []string {
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(sc.Text()), ";"))
		if len(fields) == 3 && fields[0] == qualifier {
			names = append(names, fields[2])
		}
	}
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
