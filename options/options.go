package options

import (
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	ModeWindow = "window"
	ModeRecord = "record"

	DialectGLSL   = "glsl"
	DialectWebGL2 = "webgl2"
)

type ShaderOptions struct {
	ConfigFile   *string
	Help         *bool
	VertexPath   *string
	FragmentPath *string
	Dialect      *string // source dialect: glsl or webgl2
	Width        *int
	Height       *int
	Title        *string
	TickMillis   *int     // animation timer period
	Step         *float64 // animation increment per tick
	Reload       *bool    // rebuild the program when a shader file changes
	Mode         *string  // window or record
	Duration     *float64
	FPS          *int
	OutputFile   *string
	FFMPEGPath   *string
	Codec        *string
}

// fileConfig mirrors ShaderOptions for the TOML config file. Nil fields were
// absent from the file.
type fileConfig struct {
	Vertex   *string `toml:"vertex"`
	Fragment *string `toml:"fragment"`
	Dialect  *string `toml:"dialect"`
	Reload   *bool   `toml:"reload"`
	Mode     *string `toml:"mode"`
	Window   struct {
		Width  *int    `toml:"width"`
		Height *int    `toml:"height"`
		Title  *string `toml:"title"`
	} `toml:"window"`
	Animation struct {
		TickMillis *int     `toml:"tick_ms"`
		Step       *float64 `toml:"step"`
	} `toml:"animation"`
	Record struct {
		Output   *string  `toml:"output"`
		Duration *float64 `toml:"duration"`
		FPS      *int     `toml:"fps"`
		FFMPEG   *string  `toml:"ffmpeg"`
		Codec    *string  `toml:"codec"`
	} `toml:"record"`
}

// Register defines the command-line flags on fs.
func Register(fs *flag.FlagSet) *ShaderOptions {
	return &ShaderOptions{
		ConfigFile:   fs.String("config", "", "Path to a TOML config file"),
		Help:         fs.Bool("help", false, "Show help message"),
		VertexPath:   fs.String("vertex", "assets/vertex_shader.glsl", "Vertex shader source file"),
		FragmentPath: fs.String("fragment", "assets/fragment_shader.glsl", "Fragment shader source file"),
		Dialect:      fs.String("dialect", DialectGLSL, "Shader source dialect: 'glsl' or 'webgl2'"),
		Width:        fs.Int("width", 640, "Width of the window or recording"),
		Height:       fs.Int("height", 480, "Height of the window or recording"),
		Title:        fs.String("title", "Przyklad 2", "Window title"),
		TickMillis:   fs.Int("tick", 100, "Animation timer period in milliseconds"),
		Step:         fs.Float64("step", 0.05, "Animation increment per timer tick"),
		Reload:       fs.Bool("reload", false, "Rebuild the shader program when a source file changes"),
		Mode:         fs.String("mode", ModeWindow, "Run mode: 'window' or 'record'"),
		Duration:     fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:          fs.Int("fps", 60, "Frames per second for recording"),
		OutputFile:   fs.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath:   fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:        fs.String("codec", "h264", "Video codec for recording: 'h264' or 'hevc'"),
	}
}

// Parse parses args, applies the config file named by -config and validates
// the result. Flags given on the command line win over the file.
func Parse(fs *flag.FlagSet, args []string) (*ShaderOptions, error) {
	o := Register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *o.ConfigFile != "" {
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if err := o.LoadFile(*o.ConfigFile, set); err != nil {
			return nil, err
		}
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// LoadFile reads a TOML config file into o, skipping every option whose flag
// name is in set.
func (o *ShaderOptions) LoadFile(path string, set map[string]bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg fileConfig
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	assign(set, "vertex", o.VertexPath, cfg.Vertex)
	assign(set, "fragment", o.FragmentPath, cfg.Fragment)
	assign(set, "dialect", o.Dialect, cfg.Dialect)
	assign(set, "reload", o.Reload, cfg.Reload)
	assign(set, "mode", o.Mode, cfg.Mode)
	assign(set, "width", o.Width, cfg.Window.Width)
	assign(set, "height", o.Height, cfg.Window.Height)
	assign(set, "title", o.Title, cfg.Window.Title)
	assign(set, "tick", o.TickMillis, cfg.Animation.TickMillis)
	assign(set, "step", o.Step, cfg.Animation.Step)
	assign(set, "output", o.OutputFile, cfg.Record.Output)
	assign(set, "duration", o.Duration, cfg.Record.Duration)
	assign(set, "fps", o.FPS, cfg.Record.FPS)
	assign(set, "ffmpeg", o.FFMPEGPath, cfg.Record.FFMPEG)
	assign(set, "codec", o.Codec, cfg.Record.Codec)
	return nil
}

func assign[T any](set map[string]bool, name string, dst, v *T) {
	if v != nil && !set[name] {
		*dst = *v
	}
}

func (o *ShaderOptions) Validate() error {
	switch *o.Mode {
	case ModeWindow, ModeRecord:
	default:
		return fmt.Errorf("unknown mode %q", *o.Mode)
	}
	switch *o.Dialect {
	case DialectGLSL, DialectWebGL2:
	default:
		return fmt.Errorf("unknown shader dialect %q", *o.Dialect)
	}
	switch *o.Codec {
	case "h264", "hevc":
	default:
		return fmt.Errorf("unknown codec %q", *o.Codec)
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if *o.TickMillis <= 0 {
		return fmt.Errorf("animation tick must be positive, got %d", *o.TickMillis)
	}
	if *o.Mode == ModeRecord && (*o.FPS <= 0 || *o.Duration <= 0) {
		return fmt.Errorf("recording needs positive fps and duration")
	}
	return nil
}
