package world

import (
	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/physics"
)

// Position resolves the world-space rectangle of one of id's components.
// Relative rectangles are offset by the entity's Transform when it has one.
// The transform itself resolves to a zero-size rect at its coordinates.
func (s *State) Position(id ecs.EntityID, kind Kind) (physics.Rect, bool) {
	var (
		rect     physics.Rect
		relative bool
	)
	switch kind {
	case KindTransform:
		t, ok := s.transforms.Get(id)
		if !ok {
			return physics.Rect{}, false
		}
		return physics.Rect{X: t.X, Y: t.Y}, true
	case KindCollider:
		c, ok := s.colliders.Get(id)
		if !ok {
			return physics.Rect{}, false
		}
		rect, relative = c.Rect, c.Relative
	case KindRenderer:
		r, ok := s.renderers.Get(id)
		if !ok {
			return physics.Rect{}, false
		}
		rect, relative = r.Rect, r.Relative
	case KindCamera:
		c, ok := s.cameras.Get(id)
		if !ok {
			return physics.Rect{}, false
		}
		rect, relative = c.ViewField, c.Relative
	case KindButton:
		b, ok := s.buttons.Get(id)
		if !ok {
			return physics.Rect{}, false
		}
		rect, relative = b.Rect, b.Relative
	case KindAudioSource:
		a, ok := s.audioSources.Get(id)
		if !ok {
			return physics.Rect{}, false
		}
		rect, relative = a.Range, a.Relative
	default:
		s.log.Warn("component kind has no position", zap.Stringer("kind", kind), eid(id))
		return physics.Rect{}, false
	}
	if relative {
		if t, ok := s.transforms.Get(id); ok {
			rect = rect.Translate(physics.Vec2{X: t.X, Y: t.Y})
		}
	}
	return rect, true
}
