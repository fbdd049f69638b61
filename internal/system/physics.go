package system

import (
	"time"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	coresys "github.com/yoyoengine/yoyogo/internal/core/system"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/world"
)

// PhysicsSystem integrates velocity into transforms and resolves solid
// colliders with substepped sweeps. Phase 3 (Physics), skipped in editor mode.
//
// Per entity with Physics and Transform:
//   - inactive entity or Physics: skipped
//   - no active collider, or a trigger collider: translated directly
//   - solid collider: ResolveStep against every other active collider;
//     a solid hit reverts the frame's movement and zeroes velocity
//
// Rotational velocity is applied to the Renderer either way.
type PhysicsSystem struct {
	world    *world.State
	dispatch *Dispatcher
	substeps int
	stats    *Stats

	// scratch, reused across entities
	others   []physics.Body
	otherIDs []ecs.EntityID
}

func NewPhysicsSystem(ws *world.State, dispatch *Dispatcher, substeps int, stats *Stats) *PhysicsSystem {
	if substeps < 1 {
		substeps = 1
	}
	return &PhysicsSystem{world: ws, dispatch: dispatch, substeps: substeps, stats: stats}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *PhysicsSystem) RunsInEditor() bool { return false }

func (s *PhysicsSystem) Update(dt time.Duration) {
	start := time.Now()
	sec := dt.Seconds()
	w := s.world

	ecs.Each2(w.PhysicsBodies(), w.Transforms(), func(id ecs.EntityID, p *component.Physics, t *component.Transform) {
		if !w.Active(id) || !p.Active {
			return
		}
		if !p.Velocity.IsZero() {
			s.move(id, p, t, sec)
		}
		if p.RotationalVelocity != 0 {
			// dispatch may have destroyed the entity or its renderer
			if r, ok := w.Renderers().Get(id); ok {
				r.Rotation = physics.WrapDegrees(r.Rotation + p.RotationalVelocity*sec)
			}
		}
	})

	s.stats.Physics = time.Since(start)
}

func (s *PhysicsSystem) move(id ecs.EntityID, p *component.Physics, t *component.Transform, sec float64) {
	w := s.world
	delta := p.Velocity.Scale(sec)
	c, hasCollider := w.Colliders().Get(id)

	if !hasCollider || !c.Active || c.IsTrigger {
		t.X += delta.X
		t.Y += delta.Y
		if hasCollider && !c.Relative {
			c.Rect = c.Rect.Translate(delta)
		}
		return
	}

	origin := physics.Vec2{X: t.X, Y: t.Y}
	rect, _ := w.Position(id, world.KindCollider)
	s.gatherOthers(id)
	out := physics.ResolveStep(origin, rect, delta, s.substeps, s.others)

	moved := physics.Vec2{X: out.Position.X - origin.X, Y: out.Position.Y - origin.Y}
	t.X, t.Y = out.Position.X, out.Position.Y
	if !c.Relative {
		c.Rect = c.Rect.Translate(moved)
	}
	if out.Blocked {
		p.Velocity = physics.Vec2{}
	}

	// Callbacks may mutate the world, so resolve every id before the first one runs.
	triggers := make([]ecs.EntityID, len(out.Triggers))
	for i, j := range out.Triggers {
		triggers[i] = s.otherIDs[j]
	}
	var blocker ecs.EntityID
	if out.Blocked {
		blocker = s.otherIDs[out.BlockedBy]
	}

	for _, other := range triggers {
		s.dispatch.TriggerEnter(id, other)
	}
	if out.Blocked {
		s.dispatch.Collision(id, blocker)
	}
}

// gatherOthers collects the world rect of every active collider except self.
// Colliders on inactive entities are transparent.
func (s *PhysicsSystem) gatherOthers(self ecs.EntityID) {
	w := s.world
	s.others = s.others[:0]
	s.otherIDs = s.otherIDs[:0]
	w.Colliders().Each(func(id ecs.EntityID, c *component.Collider) {
		if id == self || !c.Active || !w.Active(id) {
			return
		}
		rect, _ := w.Position(id, world.KindCollider)
		s.others = append(s.others, physics.Body{Rect: rect, Trigger: c.IsTrigger})
		s.otherIDs = append(s.otherIDs, id)
	})
}
