// Package engine owns the frame loop. It wires the world, the systems and
// the scripting host together and services scene loads between frames.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/config"
	"github.com/yoyoengine/yoyogo/internal/core/event"
	coresys "github.com/yoyoengine/yoyogo/internal/core/system"
	"github.com/yoyoengine/yoyogo/internal/input"
	"github.com/yoyoengine/yoyogo/internal/render"
	"github.com/yoyoengine/yoyogo/internal/resource"
	"github.com/yoyoengine/yoyogo/internal/scripting"
	"github.com/yoyoengine/yoyogo/internal/system"
	"github.com/yoyoengine/yoyogo/internal/timer"
	"github.com/yoyoengine/yoyogo/internal/world"
)

var ErrUnknownScene = errors.New("unknown scene")

// Resources is a resource pack: raw bytes for scripts and sounds plus the
// fallback-aware lookups renderers need.
type Resources interface {
	resource.Provider
	system.Palette
}

// Mixer is the audio output the engine drives. It may be nil.
type Mixer interface {
	system.Mixer
	Stop(ch int)
	SetMasterVolume(v float64)
}

// Deps are the engine's outside collaborators.
type Deps struct {
	Resources Resources
	Backend   render.Backend
	Input     input.Source
	Mixer     Mixer
	Bus       *event.Bus // shared with the mixer; created when nil
	Clock     timer.Clock
}

// SceneBuilder populates a freshly purged world.
type SceneBuilder func(e *Engine) error

type sceneRequest struct {
	name string
	id   string
}

// Engine runs frames. All methods except Quit belong to the frame goroutine.
type Engine struct {
	cfg   *config.Config
	log   *zap.Logger
	clock timer.Clock

	world     *world.State
	runner    *coresys.Runner
	timers    *timer.Registry
	bus       *event.Bus
	callbacks *event.Callbacks
	host      *scripting.Host
	input     *input.State
	inputSys  *system.InputSystem
	mixer     Mixer
	stats     system.Stats

	scenes  map[string]SceneBuilder
	pending *sceneRequest
	scene   string

	frames uint64
	last   time.Duration
	quit   chan struct{}
}

func New(cfg *config.Config, log *zap.Logger, deps Deps) (*Engine, error) {
	if deps.Resources == nil {
		return nil, errors.New("engine: resources are required")
	}
	if deps.Backend == nil {
		deps.Backend = &render.Headless{}
	}
	if deps.Clock == nil {
		deps.Clock = timer.NewSystemClock()
	}
	if deps.Bus == nil {
		deps.Bus = event.NewBus()
	}

	e := &Engine{
		cfg:       cfg,
		log:       log,
		clock:     deps.Clock,
		world:     world.NewState(log),
		runner:    coresys.NewRunner(),
		bus:       deps.Bus,
		callbacks: &event.Callbacks{},
		input:     input.NewState(input.Mapping(cfg.Input)),
		mixer:     deps.Mixer,
		scenes:    make(map[string]SceneBuilder),
		quit:      make(chan struct{}),
	}
	e.timers = timer.NewRegistry(log, e.clock)
	e.runner.SetEditorMode(cfg.Engine.EditorMode)

	e.host = scripting.NewHost(log, e.world, deps.Resources, scripting.Options{Editor: cfg.Engine.EditorMode})
	e.host.SetScenes(e)
	e.host.SetTimers(e.timers)
	e.host.SetInput(e.input)
	e.world.SetScriptRuntime(e.host)
	if e.mixer != nil {
		e.host.SetAudio(e.mixer)
		e.world.SetChannelStopper(e.mixer)
		e.mixer.SetMasterVolume(cfg.Engine.Volume)
	}

	dispatch := system.NewDispatcher(e.world, e.callbacks, e.host, &e.stats)
	e.inputSys = system.NewInputSystem(e.world, deps.Input, e.input, &e.stats, log)
	e.inputSys.OnQuit = e.Quit

	e.runner.Register(system.NewTimerSystem(e.timers, &e.stats))
	e.runner.Register(system.NewPreFrameSystem(e.callbacks))
	e.runner.Register(e.inputSys)
	e.runner.Register(system.NewPhysicsSystem(e.world, dispatch, cfg.Engine.Substeps, &e.stats))
	e.runner.Register(system.NewScriptSystem(e.world, e.host, &e.stats))
	e.runner.Register(system.NewRenderSystem(e.world, deps.Backend, deps.Resources, e.clock, e.runner.EditorMode, &e.stats, log))
	if e.mixer != nil {
		e.runner.Register(system.NewAudioSystem(e.world, e.mixer, e.bus, log))
	}
	e.runner.Register(system.NewPostFrameSystem(e.callbacks))
	e.runner.Register(system.NewCleanupSystem(e.world))

	event.Subscribe(e.bus, func(event.Quit) { e.Quit() })

	e.last = e.clock.Now()
	log.Info("engine initialized",
		zap.String("name", cfg.Engine.Name),
		zap.Int("substeps", cfg.Engine.Substeps),
		zap.Bool("editor", cfg.Engine.EditorMode),
		zap.Bool("audio", e.mixer != nil),
	)
	return e, nil
}

func (e *Engine) World() *world.State             { return e.world }
func (e *Engine) Bus() *event.Bus                 { return e.bus }
func (e *Engine) Callbacks() *event.Callbacks     { return e.callbacks }
func (e *Engine) Timers() *timer.Registry         { return e.timers }
func (e *Engine) Input() *input.State             { return e.input }
func (e *Engine) Stats() system.Stats             { return e.stats }
func (e *Engine) Frames() uint64                  { return e.frames }
func (e *Engine) Scene() string                   { return e.scene }
func (e *Engine) Runner() *coresys.Runner         { return e.runner }
func (e *Engine) Config() *config.Config          { return e.cfg }
func (e *Engine) SetEditorMode(on bool)           { e.runner.SetEditorMode(on) }
func (e *Engine) OnInput(fn func(ev input.Event)) { e.inputSys.OnEvent = fn }

// OnLuaRegister adds game bindings to every script state created from now on.
func (e *Engine) OnLuaRegister(fn func(L *lua.LState)) { e.host.SetRegisterHook(fn) }

// RegisterScene makes a builder loadable by name. Registering a name again
// replaces its builder.
func (e *Engine) RegisterScene(name string, build SceneBuilder) {
	e.scenes[name] = build
}

// RequestSceneLoad defers loading name to the start of the next frame and
// returns the request id. A later request in the same frame wins.
func (e *Engine) RequestSceneLoad(name string) string {
	id := uuid.NewString()
	if e.pending != nil {
		e.log.Warn("scene load superseded",
			zap.String("scene", e.pending.name),
			zap.String("by", name),
		)
	}
	e.pending = &sceneRequest{name: name, id: id}
	return id
}

// Frame runs one engine frame:
//  1. a pending scene load (purge, build, SceneLoaded)
//  2. bus delivery of last frame's events
//  3. every system in phase order
//
// The delta is measured from the previous frame, and restarts after a
// scene load so the new scene's first frame does not absorb build time.
func (e *Engine) Frame() {
	now := e.clock.Now()
	if e.pending != nil {
		req := e.pending
		e.pending = nil
		if err := e.loadScene(req); err != nil {
			e.log.Error("scene load failed", zap.String("scene", req.name), zap.Error(err))
		}
		now = e.clock.Now()
		e.last = now
	}
	dt := now - e.last
	e.last = now

	e.bus.SwapBuffers()
	e.bus.DispatchAll()

	e.stats.Reset()
	e.runner.Tick(dt)
	e.frames++
}

func (e *Engine) loadScene(req *sceneRequest) error {
	build, ok := e.scenes[req.name]
	if !ok {
		return fmt.Errorf("load %q: %w", req.name, ErrUnknownScene)
	}
	start := time.Now()
	e.world.Purge()
	if err := build(e); err != nil {
		return fmt.Errorf("build %q: %w", req.name, err)
	}
	e.scene = req.name
	event.Emit(e.bus, event.SceneLoaded{Name: req.name, RequestID: req.id})
	e.log.Info("scene loaded",
		zap.String("scene", req.name),
		zap.String("request", req.id),
		zap.Int("entities", e.world.Count()),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Quit asks Run to return after the current frame. Safe from any goroutine.
func (e *Engine) Quit() {
	select {
	case <-e.quit:
	default:
		close(e.quit)
	}
}

// Done is closed once Quit has been called.
func (e *Engine) Done() <-chan struct{} { return e.quit }

// Run loads the entry scene and runs frames at the configured cap until ctx
// is cancelled or Quit is called.
func (e *Engine) Run(ctx context.Context) error {
	if name := e.cfg.Engine.EntryScene; name != "" {
		e.RequestSceneLoad(name)
	}

	interval := e.cfg.FrameInterval()
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("frame loop stopping", zap.Error(ctx.Err()))
			return nil
		case <-e.quit:
			e.log.Info("frame loop stopping", zap.String("reason", "quit"))
			return nil
		case <-ticker.C:
			e.Frame()
		}
	}
}

// Shutdown unmounts every script and drops every timer.
func (e *Engine) Shutdown() {
	e.world.Purge()
	e.timers.Shutdown()
	e.log.Info("engine shut down", zap.Uint64("frames", e.frames))
}

// LogStats writes the last frame's counters at debug level.
func (e *Engine) LogStats() {
	s := e.stats
	e.log.Debug("frame stats",
		zap.Uint64("frame", e.frames),
		zap.Int("entities", e.world.Count()),
		zap.Duration("input", s.Input),
		zap.Duration("physics", s.Physics),
		zap.Duration("scripts", s.Scripts),
		zap.Duration("render", s.Render),
		zap.Int("timers_checked", s.TimersChecked),
		zap.Int("collisions", s.Collisions),
		zap.Int("triggers", s.Triggers),
		zap.Int("drawn", s.Drawn),
	)
}
