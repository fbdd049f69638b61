package system

import (
	"time"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	coresys "github.com/yoyoengine/yoyogo/internal/core/system"
	"github.com/yoyoengine/yoyogo/internal/world"
)

// ScriptUpdater runs a script's per-frame function.
type ScriptUpdater interface {
	Update(id ecs.EntityID, sc *component.Script)
}

// ScriptSystem calls onUpdate on every active script of an active entity.
// Phase 4 (Scripts), skipped in editor mode.
type ScriptSystem struct {
	world   *world.State
	scripts ScriptUpdater
	stats   *Stats
}

func NewScriptSystem(ws *world.State, scripts ScriptUpdater, stats *Stats) *ScriptSystem {
	return &ScriptSystem{world: ws, scripts: scripts, stats: stats}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseScripts }

func (s *ScriptSystem) RunsInEditor() bool { return false }

func (s *ScriptSystem) Update(_ time.Duration) {
	start := time.Now()
	w := s.world
	w.Scripts().Each(func(id ecs.EntityID, sc *component.Script) {
		// an earlier script may have destroyed this one this frame
		if !sc.Active || !w.Alive(id) || !w.Active(id) {
			return
		}
		s.scripts.Update(id, sc)
	})
	s.stats.Scripts = time.Since(start)
}
