package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	coresys "github.com/yoyoengine/yoyogo/internal/core/system"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/render"
	"github.com/yoyoengine/yoyogo/internal/resource"
	"github.com/yoyoengine/yoyogo/internal/timer"
	"github.com/yoyoengine/yoyogo/internal/world"
)

// Palette resolves renderer resource names, substituting defaults on a miss.
type Palette interface {
	Color(name string) resource.Color
	Font(name string) (string, resource.FontSpec)
	Texture(handle string) string
}

// RenderSystem builds a render.Frame from every visible renderer and hands
// it to the backend. It also steps animations, except in editor mode.
// Phase 5 (Render).
type RenderSystem struct {
	world   *world.State
	backend render.Backend
	palette Palette
	clock   timer.Clock
	editor  func() bool
	stats   *Stats
	log     *zap.Logger

	frame    uint64
	items    []render.Drawable
	noCamera bool // warned about a missing camera since it was last present
}

func NewRenderSystem(
	ws *world.State,
	backend render.Backend,
	palette Palette,
	clock timer.Clock,
	editor func() bool,
	stats *Stats,
	log *zap.Logger,
) *RenderSystem {
	return &RenderSystem{
		world:   ws,
		backend: backend,
		palette: palette,
		clock:   clock,
		editor:  editor,
		stats:   stats,
		log:     log,
	}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *RenderSystem) Update(_ time.Duration) {
	start := time.Now()
	defer func() { s.stats.Render = time.Since(start) }()
	w := s.world
	s.frame++

	camID := w.TargetCamera()
	cam, ok := w.Cameras().Get(camID)
	if camID.IsZero() || !ok || !cam.Active {
		if !s.noCamera {
			s.log.Warn("no active camera targeted, skipping render")
			s.noCamera = true
		}
		s.stats.Drawn = 0
		return
	}
	s.noCamera = false
	view, _ := w.Position(camID, world.KindCamera)

	now := s.clock.Now()
	animate := s.editor == nil || !s.editor()
	s.items = s.items[:0]

	w.Renderers().Each(func(id ecs.EntityID, r *component.Renderer) {
		if !r.Active {
			return
		}
		// the editor still stamps new animations so they start from now
		if a, ok := r.Impl.(*component.AnimationRenderer); ok && (animate || !a.Started()) {
			stepAnimation(a, now)
		}
		if !w.Active(id) || r.Z > cam.Z {
			return
		}
		rect, _ := w.Position(id, world.KindRenderer)
		if !visible(rect, view, r.Rotation != 0) {
			return
		}
		s.items = append(s.items, s.drawable(id, r, rect))
	})

	s.stats.Drawn = len(s.items)
	s.backend.Submit(render.Frame{Number: s.frame, Camera: view, Items: s.items})
}

// visible culls against the camera. Rotated renderers get a margin of one
// view field on each side so their corners do not pop at the edges.
func visible(r, view physics.Rect, rotated bool) bool {
	var mx, my float64
	if rotated {
		mx, my = view.W, view.H
	}
	return !(r.X+r.W < view.X-mx ||
		r.X > view.X+view.W+mx ||
		r.Y+r.H < view.Y-my ||
		r.Y > view.Y+view.H+my)
}

func (s *RenderSystem) drawable(id ecs.EntityID, r *component.Renderer, rect physics.Rect) render.Drawable {
	d := render.Drawable{
		Entity:   id,
		Kind:     r.Impl.Kind(),
		Rect:     rect,
		Z:        r.Z,
		Rotation: r.Rotation,
		FlipX:    r.FlipX,
		FlipY:    r.FlipY,
		Alpha:    r.Alpha,
	}
	switch impl := r.Impl.(type) {
	case *component.ImageRenderer:
		d.Src = s.palette.Texture(impl.Src)
	case *component.TileRenderer:
		d.Src = s.palette.Texture(impl.Src)
		d.Source = impl.Source
	case *component.AnimationRenderer:
		d.Src = s.palette.Texture(AnimationFrame(impl))
	case *component.TextRenderer:
		d.Text = impl.Text
		d.Font, d.FontSize = s.font(impl.Font)
		d.Color = s.palette.Color(impl.Color)
	case *component.TextOutlinedRenderer:
		d.Text = impl.Text
		d.Font, d.FontSize = s.font(impl.Font)
		d.Color = s.palette.Color(impl.Color)
		d.OutlineColor = s.palette.Color(impl.OutlineColor)
		d.OutlineSize = impl.OutlineSize
	}
	return d
}

func (s *RenderSystem) font(name string) (string, int) {
	resolved, spec := s.palette.Font(name)
	return resolved, spec.Size
}

// AnimationFrame is the texture handle of a's current frame.
func AnimationFrame(a *component.AnimationRenderer) string {
	return fmt.Sprintf("%s/%d.%s", a.Path, a.CurrentFrame, a.Format)
}

// stepAnimation advances by however many whole frame delays have passed
// since the last change. The first call only stamps the clock. Wrapping past
// the last frame spends a loop; when none remain the animation pauses on
// its last frame. Loops of -1 never run out.
func stepAnimation(a *component.AnimationRenderer, now time.Duration) {
	if !a.Started() {
		a.Start(now)
		return
	}
	if a.Paused || a.FrameCount <= 0 || a.FrameDelay <= 0 {
		return
	}
	elapsed := now - a.LastAdvance
	if elapsed < a.FrameDelay {
		return
	}
	a.CurrentFrame += int(elapsed / a.FrameDelay)
	if a.CurrentFrame >= a.FrameCount {
		a.CurrentFrame %= a.FrameCount
		if a.Loops != -1 {
			a.Loops--
			if a.Loops <= 0 {
				a.Paused = true
				a.CurrentFrame = a.FrameCount - 1
			}
		}
	}
	a.LastAdvance = now
}
