package scripting

import (
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/timer"
)

func (h *Host) entityModule(L *lua.LState) *lua.LTable {
	w := h.world
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"create": func(L *lua.LState) int {
			var id ecs.EntityID
			if name := L.OptString(1, ""); name != "" {
				id = w.CreateNamed(name)
			} else {
				id = w.Create()
			}
			L.Push(newEntity(L, id))
			return 1
		},
		"find": func(L *lua.LState) int {
			id, ok := w.FindByName(L.CheckString(1))
			return optEntity(L, id, ok)
		},
		"find_by_tag": func(L *lua.LState) int {
			id, ok := w.FindByTag(L.CheckString(1))
			return optEntity(L, id, ok)
		},
		"for_tag": func(L *lua.LState) int {
			tag := L.CheckString(1)
			fn := L.CheckFunction(2)
			w.ForMatchingTag(tag, func(id ecs.EntityID) {
				L.CallByParam(lua.P{Fn: fn, NRet: 0}, newEntity(L, id))
			})
			return 0
		},
		"count": func(L *lua.LState) int {
			L.Push(lua.LNumber(w.Count()))
			return 1
		},
	})
}

func (h *Host) sceneModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"load": func(L *lua.LState) int {
			name := L.CheckString(1)
			if h.scenes == nil {
				L.RaiseError("scene loading is not available")
			}
			L.Push(lua.LString(h.scenes.RequestSceneLoad(name)))
			return 1
		},
	})
}

func (h *Host) audioModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"play": func(L *lua.LState) int {
			handle := L.CheckString(1)
			volume := float64(L.OptNumber(2, 1))
			loops := L.OptInt(3, 0)
			if h.audio == nil {
				L.Push(lua.LNumber(-1))
				return 1
			}
			L.Push(lua.LNumber(h.audio.Play(handle, loops, volume)))
			return 1
		},
	})
}

// timerModule exposes ye.timer.after(ms, fn[, loops]) and ye.timer.cancel(id).
// Timers belong to the calling state and are cancelled when it unmounts.
func (h *Host) timerModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"after": func(L *lua.LState) int {
			ms := L.CheckNumber(1)
			fn := L.CheckFunction(2)
			loops := L.OptInt(3, 1)
			if h.timers == nil {
				L.RaiseError("timers are not available")
			}
			h.nextID++
			id := h.nextID
			t := &timer.Timer{
				Length: time.Duration(float64(ms) * float64(time.Millisecond)),
				Loops:  loops,
			}
			t.Callback = func(t *timer.Timer) {
				if t.Loops == 0 || t.Loops == 1 {
					delete(h.owned[L], id)
				}
				if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
					h.log.Error("lua timer error", zap.Int("timer", id), zap.Error(err))
				}
			}
			if h.owned[L] == nil {
				h.owned[L] = make(map[int]*timer.Timer)
			}
			h.owned[L][id] = t
			h.timers.Register(t)
			L.Push(lua.LNumber(id))
			return 1
		},
		"cancel": func(L *lua.LState) int {
			id := L.CheckInt(1)
			t, ok := h.owned[L][id]
			if ok {
				delete(h.owned[L], id)
				h.timers.Unregister(t)
			}
			L.Push(lua.LBool(ok))
			return 1
		},
	})
}

func (h *Host) inputModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"held": func(L *lua.LState) int {
			action := L.CheckString(1)
			L.Push(lua.LBool(h.input != nil && h.input.Held(action)))
			return 1
		},
		"pressed": func(L *lua.LState) int {
			action := L.CheckString(1)
			L.Push(lua.LBool(h.input != nil && h.input.Pressed(action)))
			return 1
		},
		"pointer": func(L *lua.LState) int {
			if h.input == nil {
				L.Push(lua.LNumber(0))
				L.Push(lua.LNumber(0))
				return 2
			}
			L.Push(lua.LNumber(h.input.Pointer.X))
			L.Push(lua.LNumber(h.input.Pointer.Y))
			return 2
		},
	})
}

func (h *Host) cameraModule(L *lua.LState) *lua.LTable {
	w := h.world
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"set_target": func(L *lua.LState) int {
			return result(L, w.SetTargetCamera(h.checkEntity(L, 1)))
		},
		"target": func(L *lua.LState) int {
			id := w.TargetCamera()
			return optEntity(L, id, !id.IsZero())
		},
	})
}
