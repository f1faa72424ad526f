package renderer

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	options "github.com/richinsley/bowtie/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame represents a single rendered frame's data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

const numBuffers = 3 // frames in flight between renderer and encoder

// OffscreenRenderer is an RGBA8 framebuffer the record mode draws into.
type OffscreenRenderer struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
}

func NewOffscreenRenderer(width, height int) (*OffscreenRenderer, error) {
	or := &OffscreenRenderer{
		width:  width,
		height: height,
	}

	gl.GenFramebuffers(1, &or.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, or.fbo)
	gl.GenTextures(1, &or.textureID)
	gl.BindTexture(gl.TEXTURE_2D, or.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, or.textureID, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		or.Destroy()
		return nil, fmt.Errorf("offscreen fbo is not complete (status 0x%X)", status)
	}
	return or, nil
}

func (or *OffscreenRenderer) Destroy() {
	gl.DeleteFramebuffers(1, &or.fbo)
	gl.DeleteTextures(1, &or.textureID)
}

// Bind directs subsequent draws into the offscreen framebuffer.
func (or *OffscreenRenderer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, or.fbo)
	gl.Viewport(0, 0, int32(or.width), int32(or.height))
}

func (or *OffscreenRenderer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadPixels returns the framebuffer contents as bottom-up RGBA rows.
func (or *OffscreenRenderer) ReadPixels() []byte {
	pixels := make([]byte, or.width*or.height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, or.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(or.width), int32(or.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return pixels
}

// encoderArgs builds the ffmpeg arguments for raw RGBA frames on stdin.
// GL rows come bottom-up, hence the vflip.
func encoderArgs(options *options.ShaderOptions) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", *options.Width, *options.Height),
		"r":       *options.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}
	if *options.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		if strings.HasSuffix(*options.OutputFile, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	} else {
		outputArgs["c:v"] = "libx264"
	}
	return
}

// runEncoder is the Consumer. It starts ffmpeg and pipes every frame from
// frameChan into it.
func (r *Renderer) runEncoder(options *options.ShaderOptions, frameChan <-chan *Frame, doneChan chan<- error) {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := encoderArgs(options)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(*options.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if *options.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(*options.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// unblock the writer if ffmpeg went away early
		pipeReader.Close()
		errc <- err
	}()

	for frame := range frameChan {
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing frame %d to FFmpeg: %v", frame.PTS, err)
			break
		}
	}
	pipeWriter.Close()
	doneChan <- <-errc
}

// RunOffscreen renders duration*fps frames into the offscreen framebuffer
// and encodes them to the output file. The animation runs in simulated time.
func (r *Renderer) RunOffscreen(options *options.ShaderOptions) error {
	if r.offscreenRenderer == nil {
		return errors.New("renderer was not created in record mode")
	}
	log.Println("Starting in record mode...")
	frameChan := make(chan *Frame, numBuffers)
	encoderDoneChan := make(chan error, 1)

	go r.runEncoder(options, frameChan, encoderDoneChan)

	totalFrames := int(*options.Duration * float64(*options.FPS))
	frameDuration := time.Second / time.Duration(*options.FPS)

	for i := 0; i < totalFrames; i++ {
		r.offscreenRenderer.Bind()
		r.RenderFrame()
		pixels := r.offscreenRenderer.ReadPixels()
		r.offscreenRenderer.Unbind()

		select {
		case frameChan <- &Frame{Pixels: pixels, PTS: int64(i)}:
		case err := <-encoderDoneChan:
			if err == nil {
				err = errors.New("encoder exited early")
			}
			return fmt.Errorf("recording stopped at frame %d: %w", i, err)
		}
		r.animator.Advance(frameDuration)
	}

	close(frameChan)
	err := <-encoderDoneChan
	if err == nil {
		log.Printf("Successfully rendered %d frames to %s", totalFrames, *options.OutputFile)
	}
	return err
}
