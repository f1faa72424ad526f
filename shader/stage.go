package shader

import "fmt"

// Stage identifies a programmable pipeline stage. The values match the
// GL_VERTEX_SHADER and GL_FRAGMENT_SHADER enums so a Stage can be handed to
// the driver unchanged.
type Stage uint32

const (
	Fragment Stage = 0x8B30
	Vertex   Stage = 0x8B31
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(0x%X)", uint32(s))
	}
}
