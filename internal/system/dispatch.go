package system

import (
	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/core/event"
	"github.com/yoyoengine/yoyogo/internal/scripting"
	"github.com/yoyoengine/yoyogo/internal/world"
)

// ScriptSignaler runs a collision-style function inside one script.
type ScriptSignaler interface {
	Signal(sc *component.Script, fn string, a, b ecs.EntityID) bool
}

// Dispatcher fans a collision or trigger-enter out to the native slot and
// then to the scripts of both participants. Every receiver gets (a, b) in
// mover-then-other order.
type Dispatcher struct {
	world     *world.State
	callbacks *event.Callbacks
	scripts   ScriptSignaler
	stats     *Stats
}

func NewDispatcher(ws *world.State, cb *event.Callbacks, scripts ScriptSignaler, stats *Stats) *Dispatcher {
	return &Dispatcher{world: ws, callbacks: cb, scripts: scripts, stats: stats}
}

func (d *Dispatcher) Collision(a, b ecs.EntityID) {
	d.stats.Collisions++
	if fn := d.callbacks.Collision; fn != nil {
		fn(a, b)
	}
	d.signal(a, scripting.FuncOnCollision, a, b)
	d.signal(b, scripting.FuncOnCollision, a, b)
}

func (d *Dispatcher) TriggerEnter(a, b ecs.EntityID) {
	d.stats.Triggers++
	if fn := d.callbacks.TriggerEnter; fn != nil {
		fn(a, b)
	}
	d.signal(a, scripting.FuncOnTriggerEnter, a, b)
	d.signal(b, scripting.FuncOnTriggerEnter, a, b)
}

// signal runs fn in owner's script when it is active and defines fn. The
// lookup happens at call time: an earlier receiver may have removed it.
func (d *Dispatcher) signal(owner ecs.EntityID, fn string, a, b ecs.EntityID) {
	if d.scripts == nil {
		return
	}
	sc, ok := d.world.Scripts().Get(owner)
	if !ok || !sc.Active {
		return
	}
	switch fn {
	case scripting.FuncOnCollision:
		if !sc.HasOnCollision {
			return
		}
	case scripting.FuncOnTriggerEnter:
		if !sc.HasOnTriggerEnter {
			return
		}
	}
	d.scripts.Signal(sc, fn, a, b)
}
