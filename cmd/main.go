package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/bowtie/gldriver"
	"github.com/richinsley/bowtie/glfwcontext"
	"github.com/richinsley/bowtie/options"
	"github.com/richinsley/bowtie/reload"
	"github.com/richinsley/bowtie/renderer"
	"github.com/richinsley/bowtie/shader"
	"github.com/richinsley/bowtie/translator"
)

func init() {
	runtime.LockOSThread()
}

func newBuilder(opts *options.ShaderOptions) (*shader.Builder, error) {
	builderOpts := []shader.Option{shader.WithMaxSourceSize(1 << 20)}
	if *opts.Dialect == options.DialectWebGL2 {
		tr, err := translator.New(false)
		if err != nil {
			return nil, err
		}
		builderOpts = append(builderOpts, shader.WithTranslator(tr))
	}
	return shader.NewBuilder(gldriver.Driver{}, builderOpts...), nil
}

func run(opts *options.ShaderOptions) error {
	record := *opts.Mode == options.ModeRecord

	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(opts, !record)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()

	builder, err := newBuilder(opts)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(ctx, builder, opts)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	if err := r.InitScene(); err != nil {
		return err
	}
	log.Printf("Shader program %d ready (%s, %s)", r.Program().ID, *opts.VertexPath, *opts.FragmentPath)

	if record {
		return r.RunOffscreen(opts)
	}

	ctx.RegisterKeyCallback(glfw.KeyS, r.ToggleAnimation)
	ctx.RegisterKeyCallback(glfw.KeyM, func() { r.SetWireframe(true) })
	ctx.RegisterKeyCallback(glfw.KeyN, func() { r.SetWireframe(false) })
	ctx.RegisterKeyCallback(glfw.KeyR, func() { r.Reload() })
	ctx.SetResizeCallback(r.Resize)

	if *opts.Reload {
		w, err := reload.New(*opts.VertexPath, *opts.FragmentPath)
		if err != nil {
			return err
		}
		defer w.Close()
		r.WatchReloads(w.Events())
		log.Println("Watching shader sources for changes")
	}

	log.Println("Starting interactive render loop...")
	r.Run()
	return nil
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts, err := options.Parse(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	if *opts.Help {
		fmt.Println("Bowtie shader viewer/recorder")
		fmt.Println("Keys: S toggle animation, M wireframe, N fill, R reload shaders, Esc quit")
		fs.PrintDefaults()
		return
	}

	if err := run(opts); err != nil {
		log.Fatalf("%v", err)
	}
}
