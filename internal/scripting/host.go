// Package scripting binds Lua scripts to entities. Every script component
// gets its own gopher-lua state with the engine runtime and the ye API
// loaded, and a global "this" naming the entity it is attached to.
package scripting

import (
	_ "embed"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/input"
	"github.com/yoyoengine/yoyogo/internal/resource"
	"github.com/yoyoengine/yoyogo/internal/timer"
	"github.com/yoyoengine/yoyogo/internal/world"
)

//go:embed lua/runtime.lua
var runtimeSource string

// Lifecycle function names a script may define.
const (
	FuncOnMount        = "onMount"
	FuncOnUpdate       = "onUpdate"
	FuncOnUnmount      = "onUnmount"
	FuncOnCollision    = "onCollision"
	FuncOnTriggerEnter = "onTriggerEnter"
)

// AudioPlayer starts one-off sounds for ye.audio.play.
type AudioPlayer interface {
	Play(handle string, loops int, volume float64) int
}

// SceneRequester defers a scene load to the next frame and returns the
// request id.
type SceneRequester interface {
	RequestSceneLoad(name string) string
}

// Options configures a Host.
type Options struct {
	// Editor builds script states without running them.
	Editor bool
	// Register runs on every new state after the ye API is installed, so the
	// game can add its own bindings.
	Register func(L *lua.LState)
}

// Host implements world.ScriptRuntime.
// Single-goroutine access only (frame loop).
type Host struct {
	log   *zap.Logger
	world *world.State
	res   resource.Provider
	opts  Options

	audio  AudioPlayer
	scenes SceneRequester
	timers *timer.Registry
	input  *input.State

	// timers registered from Lua, by owning state, so they die with it
	owned  map[*lua.LState]map[int]*timer.Timer
	nextID int
}

func NewHost(log *zap.Logger, w *world.State, res resource.Provider, opts Options) *Host {
	return &Host{
		log:   log,
		world: w,
		res:   res,
		opts:  opts,
		owned: make(map[*lua.LState]map[int]*timer.Timer),
	}
}

func (h *Host) SetAudio(a AudioPlayer)               { h.audio = a }
func (h *Host) SetScenes(s SceneRequester)           { h.scenes = s }
func (h *Host) SetTimers(t *timer.Registry)          { h.timers = t }
func (h *Host) SetInput(in *input.State)             { h.input = in }
func (h *Host) SetRegisterHook(fn func(*lua.LState)) { h.opts.Register = fn }

// Editor reports whether scripts are loaded without running.
func (h *Host) Editor() bool { return h.opts.Editor }

// Load builds the state for handle and runs the script body once, which
// defines its lifecycle functions. It does not call onMount.
func (h *Host) Load(id ecs.EntityID, handle string) (*component.Script, error) {
	L := lua.NewState()
	h.install(L, id)
	if h.opts.Register != nil {
		h.opts.Register(L)
	}
	sc := &component.Script{Active: true, Handle: handle, State: L}
	if h.opts.Editor {
		return sc, nil
	}

	if err := h.run(L, "runtime.lua", runtimeSource); err != nil {
		L.Close()
		return nil, fmt.Errorf("bootstrap runtime: %w", err)
	}
	src, err := h.res.Bytes(handle)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("read script: %w", err)
	}
	if err := h.run(L, handle, string(src)); err != nil {
		L.Close()
		return nil, err
	}

	sc.HasOnMount = defines(L, FuncOnMount)
	sc.HasOnUpdate = defines(L, FuncOnUpdate)
	sc.HasOnUnmount = defines(L, FuncOnUnmount)
	sc.HasOnCollision = defines(L, FuncOnCollision)
	sc.HasOnTriggerEnter = defines(L, FuncOnTriggerEnter)
	h.log.Debug("loaded lua script",
		zap.String("script", handle),
		zap.Uint32("entity", id.Serial()),
	)
	return sc, nil
}

func (h *Host) run(L *lua.LState, name, src string) error {
	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("compile %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

func defines(L *lua.LState, name string) bool {
	return L.GetGlobal(name).Type() == lua.LTFunction
}

// Mount runs onMount.
func (h *Host) Mount(id ecs.EntityID, sc *component.Script) {
	if h.opts.Editor || !sc.HasOnMount {
		return
	}
	h.call(sc, FuncOnMount)
}

// Unmount runs onUnmount, cancels the script's timers and closes its state.
func (h *Host) Unmount(id ecs.EntityID, sc *component.Script) {
	if sc.State == nil {
		h.log.Warn("script has no state to unmount", zap.Uint32("entity", id.Serial()))
		return
	}
	if !h.opts.Editor && sc.HasOnUnmount {
		h.call(sc, FuncOnUnmount)
	}
	h.dropTimers(sc.State)
	sc.State.Close()
	sc.State = nil
	sc.Active = false
}

// Update runs onUpdate for an active script.
func (h *Host) Update(id ecs.EntityID, sc *component.Script) {
	if h.opts.Editor || !sc.Active || !sc.HasOnUpdate || sc.State == nil {
		return
	}
	h.call(sc, FuncOnUpdate)
}

// Signal runs fn (FuncOnCollision or FuncOnTriggerEnter) in sc's state with
// handles to both participants.
func (h *Host) Signal(sc *component.Script, fn string, a, b ecs.EntityID) bool {
	if h.opts.Editor || !sc.Active || sc.State == nil {
		return false
	}
	L := sc.State
	return h.call(sc, fn, newEntity(L, a), newEntity(L, b))
}

// call invokes a global function with protection. Errors are logged and the
// script stays active.
func (h *Host) call(sc *component.Script, name string, args ...lua.LValue) bool {
	L := sc.State
	fn := L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		h.log.Error("lua function not found", zap.String("func", name), zap.String("script", sc.Handle))
		return false
	}
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		h.log.Error("lua call error",
			zap.String("func", name),
			zap.String("script", sc.Handle),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (h *Host) dropTimers(L *lua.LState) {
	ts, ok := h.owned[L]
	if !ok {
		return
	}
	if h.timers != nil {
		for _, t := range ts {
			h.timers.Unregister(t)
		}
	}
	delete(h.owned, L)
}

// install sets up the ye table, the Entity metatable and "this".
func (h *Host) install(L *lua.LState, id ecs.EntityID) {
	registerEntityType(L, h)

	ye := L.NewTable()
	L.SetFuncs(ye, map[string]lua.LGFunction{
		"log": h.luaLog,
	})
	L.SetField(ye, "entity", h.entityModule(L))
	L.SetField(ye, "scene", h.sceneModule(L))
	L.SetField(ye, "audio", h.audioModule(L))
	L.SetField(ye, "timer", h.timerModule(L))
	L.SetField(ye, "input", h.inputModule(L))
	L.SetField(ye, "camera", h.cameraModule(L))
	L.SetField(ye, "debug", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"entities": func(L *lua.LState) int {
			h.world.LogEntities()
			return 0
		},
	}))
	L.SetGlobal("ye", ye)
	L.SetGlobal("this", newEntity(L, id))
}

// luaLog implements ye.log(level, message).
func (h *Host) luaLog(L *lua.LState) int {
	level := L.CheckString(1)
	msg := L.CheckString(2)
	log := h.log.With(zap.String("source", "lua"))
	switch level {
	case "debug":
		log.Debug(msg)
	case "info":
		log.Info(msg)
	case "warn", "warning":
		log.Warn(msg)
	case "error":
		log.Error(msg)
	default:
		L.ArgError(1, "level must be debug, info, warn or error")
	}
	return 0
}
