package component

import (
	"time"

	"github.com/yoyoengine/yoyogo/internal/physics"
)

type RendererKind int

const (
	RendererImage RendererKind = iota
	RendererText
	RendererTextOutlined
	RendererAnimation
	RendererTile
)

func (k RendererKind) String() string {
	switch k {
	case RendererImage:
		return "image"
	case RendererText:
		return "text"
	case RendererTextOutlined:
		return "text_outlined"
	case RendererAnimation:
		return "animation"
	case RendererTile:
		return "tile"
	}
	return "unknown"
}

// Renderer is painted in ascending Z order. Impl carries the kind-specific
// resource handles; backends switch on its concrete type.
type Renderer struct {
	Active   bool
	Relative bool
	Rect     physics.Rect
	Z        int
	Rotation float64 // degrees, clockwise
	FlipX    bool
	FlipY    bool
	Alpha    uint8
	Impl     RendererImpl
}

// RendererImpl is the closed set of renderer kinds.
type RendererImpl interface {
	Kind() RendererKind
	Clone() RendererImpl
}

type ImageRenderer struct {
	Src string
}

type TextRenderer struct {
	Text  string
	Font  string
	Color string
}

type TextOutlinedRenderer struct {
	Text         string
	Font         string
	Color        string
	OutlineColor string
	OutlineSize  int
}

// AnimationRenderer steps through FrameCount frames named
// "<Path>/<index>.<Format>". Loops counts remaining replays; -1 is forever.
type AnimationRenderer struct {
	Path         string
	Format       string
	FrameCount   int
	FrameDelay   time.Duration
	Loops        int
	CurrentFrame int
	Paused       bool
	LastAdvance  time.Duration // engine clock time of the last frame change

	started bool
}

// Started reports whether the frame clock has been stamped.
func (a *AnimationRenderer) Started() bool { return a.started }

// Start stamps now as the time the current frame went up.
func (a *AnimationRenderer) Start(now time.Duration) {
	a.LastAdvance = now
	a.started = true
}

// Rewind goes back to the first frame. Timing restarts on the next render.
func (a *AnimationRenderer) Rewind() {
	a.CurrentFrame = 0
	a.started = false
}

// TileRenderer draws the Source sub-rectangle of a tilesheet.
type TileRenderer struct {
	Src    string
	Source physics.Rect
}

func (*ImageRenderer) Kind() RendererKind        { return RendererImage }
func (*TextRenderer) Kind() RendererKind         { return RendererText }
func (*TextOutlinedRenderer) Kind() RendererKind { return RendererTextOutlined }
func (*AnimationRenderer) Kind() RendererKind    { return RendererAnimation }
func (*TileRenderer) Kind() RendererKind         { return RendererTile }

func (r *ImageRenderer) Clone() RendererImpl        { c := *r; return &c }
func (r *TextRenderer) Clone() RendererImpl         { c := *r; return &c }
func (r *TextOutlinedRenderer) Clone() RendererImpl { c := *r; return &c }
func (r *AnimationRenderer) Clone() RendererImpl    { c := *r; return &c }
func (r *TileRenderer) Clone() RendererImpl         { c := *r; return &c }
