package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	coresys "github.com/yoyoengine/yoyogo/internal/core/system"
	"github.com/yoyoengine/yoyogo/internal/input"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/world"
)

// InputSystem drains the backend event source, folds events into the action
// state, updates button components, and forwards every event to the native
// input callback. Phase 2 (Input).
type InputSystem struct {
	world  *world.State
	source input.Source
	state  *input.State
	stats  *Stats
	log    *zap.Logger

	// OnEvent, when set, sees every event after the engine has applied it.
	OnEvent func(ev input.Event)
	// OnQuit runs for a Quit event.
	OnQuit func()
}

func NewInputSystem(ws *world.State, source input.Source, state *input.State, stats *Stats, log *zap.Logger) *InputSystem {
	return &InputSystem{world: ws, source: source, state: state, stats: stats, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	start := time.Now()
	s.state.BeginFrame()
	s.world.Buttons().Each(func(_ ecs.EntityID, b *component.Button) {
		b.Clicked = false
	})

	if s.source != nil {
		for _, ev := range s.source.Poll() {
			s.handle(ev)
		}
	}
	s.stats.Input = time.Since(start)
}

func (s *InputSystem) handle(ev input.Event) {
	switch ev.Kind {
	case input.Quit:
		s.log.Info("quit requested")
		if s.OnQuit != nil {
			s.OnQuit()
		}
	case input.PointerMove, input.PointerDown, input.PointerUp:
		s.state.Apply(ev)
		s.updateButtons(ev)
	default:
		if action, ok := s.state.Apply(ev); ok {
			s.log.Debug("input action", zap.String("action", action), zap.Stringer("kind", ev.Kind))
		}
	}
	if s.OnEvent != nil {
		s.OnEvent(ev)
	}
}

// updateButtons runs the hover/press/click state machine for every active
// button. A click needs both the press and the release inside the rect.
func (s *InputSystem) updateButtons(ev input.Event) {
	w := s.world
	p := physics.Vec2{X: ev.X, Y: ev.Y}
	w.Buttons().Each(func(id ecs.EntityID, b *component.Button) {
		if !b.Active || !w.Active(id) {
			return
		}
		rect, _ := w.Position(id, world.KindButton)
		inside := rect.Contains(p)
		b.Hovered = inside
		switch ev.Kind {
		case input.PointerDown:
			if inside {
				b.Pressed = true
				b.PressStarted = true
			}
		case input.PointerUp:
			if inside && b.PressStarted {
				b.Clicked = true
			}
			b.Pressed = false
			b.PressStarted = false
		case input.PointerMove:
			if !inside {
				b.Pressed = false
			} else if b.PressStarted {
				b.Pressed = true
			}
		}
	})
}
