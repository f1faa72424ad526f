package renderer

import (
	"fmt"
	"log"
	"time"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/bowtie/gldriver"
	"github.com/richinsley/bowtie/graphics"
	"github.com/richinsley/bowtie/options"
	"github.com/richinsley/bowtie/shader"
)

type Renderer struct {
	context           graphics.Context
	builder           *shader.Builder
	program           shader.Program
	mesh              *Mesh
	animator          *Animator
	offscreenRenderer *OffscreenRenderer
	wireframe         bool
	vertexPath        string
	fragmentPath      string
	reloads           <-chan struct{}
	width             int
	height            int
	recordMode        bool
}

func NewRenderer(ctx graphics.Context, builder *shader.Builder, opts *options.ShaderOptions) (*Renderer, error) {
	r := &Renderer{
		context:      ctx,
		builder:      builder,
		vertexPath:   *opts.VertexPath,
		fragmentPath: *opts.FragmentPath,
		width:        *opts.Width,
		height:       *opts.Height,
		recordMode:   *opts.Mode == options.ModeRecord,
		animator:     NewAnimator(float32(*opts.Step), time.Duration(*opts.TickMillis)*time.Millisecond),
	}

	// Make the context current BEFORE initializing OpenGL.
	r.context.MakeCurrent()
	if err := gldriver.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	if r.recordMode {
		var err error
		r.offscreenRenderer, err = NewOffscreenRenderer(r.width, r.height)
		if err != nil {
			return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
		}
	}
	return r, nil
}

// InitScene builds the shader program and uploads the bowtie mesh.
func (r *Renderer) InitScene() error {
	program, err := r.builder.BuildProgram(r.vertexPath, r.fragmentPath)
	if err != nil {
		return fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = program
	r.mesh = NewMesh()

	gl.ClearColor(0, 0, 0, 1)
	width, height := r.width, r.height
	if !r.recordMode {
		width, height = r.context.GetFramebufferSize()
	}
	r.Resize(width, height)
	return nil
}

// Program returns the program currently used for drawing.
func (r *Renderer) Program() shader.Program {
	return r.program
}

func (r *Renderer) Animator() *Animator {
	return r.animator
}

// WatchReloads makes Run rebuild the program whenever ch delivers.
func (r *Renderer) WatchReloads(ch <-chan struct{}) {
	r.reloads = ch
}

// Reload rebuilds the program from the source files. The current program
// stays in use when the rebuild fails.
func (r *Renderer) Reload() bool {
	program, err := r.builder.BuildProgram(r.vertexPath, r.fragmentPath)
	if err != nil {
		log.Printf("Shader reload failed, keeping program %d: %v", r.program.ID, err)
		return false
	}
	r.builder.Release(r.program)
	r.program = program
	log.Printf("Shader program reloaded (program %d)", program.ID)
	return true
}

func (r *Renderer) ToggleAnimation() {
	r.animator.Toggle()
}

// SetWireframe switches between line and fill polygon mode.
func (r *Renderer) SetWireframe(on bool) {
	r.wireframe = on
}

func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// RenderFrame draws the bowtie with the current animation values into the
// bound framebuffer.
func (r *Renderer) RenderFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if !r.program.Valid() {
		return
	}

	gl.UseProgram(r.program.ID)
	color := r.animator.Color()
	gl.VertexAttrib3fv(attribColor, &color[0])
	gl.VertexAttrib1f(attribOffset, r.animator.Offset)

	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	r.mesh.Draw()
	gl.UseProgram(0)
}

// Run is the interactive loop. It returns once the window is asked to close.
func (r *Renderer) Run() {
	last := r.context.Time()
	for !r.context.ShouldClose() {
		r.pollReloads()

		now := r.context.Time()
		r.animator.Advance(time.Duration((now - last) * float64(time.Second)))
		last = now

		r.RenderFrame()
		r.context.EndFrame()
	}
}

func (r *Renderer) pollReloads() {
	if r.reloads == nil {
		return
	}
	select {
	case <-r.reloads:
		r.Reload()
	default:
	}
}

func (r *Renderer) Shutdown() {
	r.builder.Release(r.program)
	r.program = shader.Program{}
	if r.mesh != nil {
		r.mesh.Destroy()
	}
	if r.offscreenRenderer != nil {
		r.offscreenRenderer.Destroy()
	}
}
