package trace

import (
	"fmt"

	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
)

// SourceKind says which tracer produced a curve.
type SourceKind int

const (
	SourceCore SourceKind = iota // core slice of one level
	SourceFace                   // cut-out of a side face
	SourceTop                    // cut-out of the top face
)

// Source identifies where a curve came from. Level is set for core
// curves, Face for face and top curves.
type Source struct {
	Kind  SourceKind
	Level grid.Level
	Face  grid.Face
}

// CoreSource returns the source of a core curve on level.
func CoreSource(level grid.Level) Source {
	return Source{Kind: SourceCore, Level: level}
}

// FaceSource returns the source of a cut-out of face.
func FaceSource(face grid.Face) Source {
	if face == grid.FaceTop {
		return Source{Kind: SourceTop, Face: face}
	}
	return Source{Kind: SourceFace, Face: face}
}

func (s Source) String() string {
	switch s.Kind {
	case SourceCore:
		return fmt.Sprintf("core level %d", s.Level)
	case SourceFace:
		return fmt.Sprintf("%s face", s.Face)
	case SourceTop:
		return "top face"
	default:
		return fmt.Sprintf("Source(%d)", int(s.Kind))
	}
}

// Curve is a closed cutting outline tagged with its colour and origin.
type Curve struct {
	Outline kernel.Curve
	Color   grid.Color
	Source  Source
}
