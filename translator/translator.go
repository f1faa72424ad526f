// Package translator converts WebGL2 (GLSL ES 3.00) shader sources into the
// desktop GLSL dialect before they reach the GL driver.
package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/bowtie/shader"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	translatorOnce sync.Once
	translator     *gst.ShaderTranslator
	translatorErr  error
)

// GetTranslator returns the process-wide ANGLE translator, creating it on
// first use. Startup compiles the embedded wasm module, so it is shared.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// Translator implements shader.Translator for WebGL2 sources.
type Translator struct {
	st   *gst.ShaderTranslator
	gles bool
}

var _ shader.Translator = (*Translator)(nil)

// New returns a Translator emitting GLSL 4.10, or ESSL when gles is set.
func New(gles bool) (*Translator, error) {
	st, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", err)
	}
	return &Translator{st: st, gles: gles}, nil
}

func (t *Translator) Translate(stage shader.Stage, src []byte) ([]byte, error) {
	var kind string
	switch stage {
	case shader.Vertex:
		kind = "vertex"
	case shader.Fragment:
		kind = "fragment"
	default:
		return nil, fmt.Errorf("unsupported stage %s", stage)
	}

	if t.gles {
		out, err := t.st.TranslateShader(string(src), kind, gst.ShaderSpecWebGL2, gst.OutputFormatESSL)
		if err != nil {
			return nil, err
		}
		return []byte(out.Code), nil
	}
	out, err := t.st.TranslateShader(string(src), kind, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, err
	}
	return []byte(out.Code), nil
}
