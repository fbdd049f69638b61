package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yoyoengine/yoyogo/internal/config"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/core/event"
	"github.com/yoyoengine/yoyogo/internal/input"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/render"
	"github.com/yoyoengine/yoyogo/internal/resource"
	"github.com/yoyoengine/yoyogo/internal/timer"
	"github.com/yoyoengine/yoyogo/internal/world"
)

type testResources struct {
	resource.MapPack
}

func (testResources) Color(string) resource.Color { return resource.White }
func (testResources) Font(name string) (string, resource.FontSpec) {
	return name, resource.FontSpec{Size: 10}
}
func (testResources) Texture(h string) string { return h }

type fixture struct {
	engine  *Engine
	clock   *timer.ManualClock
	backend *render.Headless
	queue   *input.Queue
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T, files resource.MapPack, mutate func(*config.Config)) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Engine.EntryScene = ""
	if mutate != nil {
		mutate(cfg)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		clock:   &timer.ManualClock{},
		backend: &render.Headless{},
		queue:   input.NewQueue(),
		logs:    logs,
	}
	e, err := New(cfg, zap.New(core), Deps{
		Resources: testResources{files},
		Backend:   f.backend,
		Input:     f.queue,
		Clock:     f.clock,
	})
	require.NoError(t, err)
	f.engine = e
	return f
}

func (f *fixture) step(d time.Duration) {
	f.clock.Advance(d)
	f.engine.Frame()
}

func TestNewRequiresResources(t *testing.T) {
	_, err := New(config.Default(), zap.NewNop(), Deps{})
	assert.Error(t, err)
}

func TestFramePhaseOrder(t *testing.T) {
	f := newFixture(t, nil, nil)
	var order []string
	cb := f.engine.Callbacks()
	cb.PreFrame = func() { order = append(order, "pre") }
	cb.PostFrame = func() { order = append(order, "post") }
	f.engine.OnInput(func(input.Event) { order = append(order, "input") })
	f.queue.Push(input.Event{Kind: input.KeyDown, Key: "space"})

	f.step(16 * time.Millisecond)

	assert.Equal(t, []string{"pre", "input", "post"}, order)
	assert.Equal(t, uint64(1), f.engine.Frames())
}

// markBackend and markMixer record when the render and audio phases reach
// them.
type markBackend struct{ mark func(string) }

func (b markBackend) Submit(render.Frame) { b.mark("render") }

type markMixer struct{ mark func(string) }

func (m markMixer) Play(string, int, float64) int {
	m.mark("audio")
	return 1
}
func (markMixer) SetChannelVolume(int, float64)        {}
func (markMixer) SetChannelPosition(int, int16, uint8) {}
func (markMixer) Stop(int)                             {}
func (markMixer) SetMasterVolume(float64)              {}

func TestFrameRunsEveryPhaseInOrder(t *testing.T) {
	var order []string
	mark := func(phase string) { order = append(order, phase) }

	cfg := config.Default()
	cfg.Engine.EntryScene = ""
	clock := &timer.ManualClock{}
	queue := input.NewQueue()
	e, err := New(cfg, zap.NewNop(), Deps{
		Resources: testResources{resource.MapPack{"mark.lua": []byte(`
function onUpdate() mark("scripts") end
function onUnmount() mark("cleanup") end
`)}},
		Backend: markBackend{mark},
		Input:   queue,
		Mixer:   markMixer{mark},
		Clock:   clock,
	})
	require.NoError(t, err)
	e.OnLuaRegister(func(L *lua.LState) {
		L.SetGlobal("mark", L.NewFunction(func(L *lua.LState) int {
			mark(L.CheckString(1))
			return 0
		}))
	})

	w := e.World()
	cam := w.Create()
	require.NoError(t, w.AddTransform(cam, 0, 0))
	require.NoError(t, w.AddCamera(cam, 10, physics.Rect{W: 100, H: 100}))
	require.NoError(t, w.SetTargetCamera(cam))

	mover := w.Create()
	require.NoError(t, w.AddTransform(mover, 0, 0))
	require.NoError(t, w.AddPhysics(mover, 50, 0))
	require.NoError(t, w.AddStaticCollider(mover, physics.Rect{W: 5, H: 5}, true))
	wall := w.Create()
	require.NoError(t, w.AddTransform(wall, 6, 0))
	require.NoError(t, w.AddStaticCollider(wall, physics.Rect{W: 5, H: 5}, true))

	scripted := w.Create()
	require.NoError(t, w.AddScript(scripted, "mark.lua"))
	speaker := w.Create()
	require.NoError(t, w.AddAudioSource(speaker, world.AudioSourceOptions{Handle: "beep.wav", Volume: 1, PlayOnAwake: true}))

	e.Timers().Register(&timer.Timer{Callback: func(*timer.Timer) { mark("timers") }})
	cb := e.Callbacks()
	cb.PreFrame = func() { mark("pre") }
	cb.Collision = func(ecs.EntityID, ecs.EntityID) { mark("physics") }
	cb.PostFrame = func() {
		mark("post")
		w.MarkForDestruction(scripted)
	}
	e.OnInput(func(input.Event) { mark("input") })
	queue.Push(input.Event{Kind: input.KeyDown, Key: "space"})

	clock.Advance(100 * time.Millisecond)
	e.Frame()

	assert.Equal(t, []string{"timers", "pre", "input", "physics", "scripts", "render", "audio", "post", "cleanup"}, order)
}

func TestFrameBlocksMoverAgainstSolid(t *testing.T) {
	f := newFixture(t, nil, func(c *config.Config) { c.Engine.Substeps = 4 })
	w := f.engine.World()

	e1 := w.Create()
	require.NoError(t, w.AddTransform(e1, 0, 0))
	require.NoError(t, w.AddPhysics(e1, 50, 0))
	require.NoError(t, w.AddStaticCollider(e1, physics.Rect{W: 5, H: 5}, true))
	e2 := w.Create()
	require.NoError(t, w.AddTransform(e2, 20, 0))
	require.NoError(t, w.AddStaticCollider(e2, physics.Rect{W: 5, H: 5}, true))

	var hits [][2]ecs.EntityID
	f.engine.Callbacks().Collision = func(a, b ecs.EntityID) { hits = append(hits, [2]ecs.EntityID{a, b}) }

	f.step(time.Second)

	tr, _ := w.Transforms().Get(e1)
	assert.GreaterOrEqual(t, tr.X, 0.0)
	assert.Less(t, tr.X, 20.0)
	body, _ := w.PhysicsBodies().Get(e1)
	assert.Equal(t, physics.Vec2{}, body.Velocity)
	require.NotEmpty(t, hits)
	assert.Equal(t, [2]ecs.EntityID{e1, e2}, hits[0])
}

func TestSceneLoadIsDeferred(t *testing.T) {
	f := newFixture(t, nil, nil)
	e := f.engine
	var old ecs.EntityID
	e.RegisterScene("level", func(e *Engine) error {
		id := e.World().CreateNamed("hero")
		return e.World().AddTransform(id, 1, 2)
	})
	var loaded []event.SceneLoaded
	event.Subscribe(e.Bus(), func(ev event.SceneLoaded) { loaded = append(loaded, ev) })

	old = e.World().Create()
	reqID := e.RequestSceneLoad("level")
	assert.True(t, e.World().Alive(old), "nothing happens until the next frame")

	f.step(16 * time.Millisecond)

	assert.False(t, e.World().Alive(old))
	_, ok := e.World().FindByName("hero")
	assert.True(t, ok)
	assert.Equal(t, "level", e.Scene())
	require.Len(t, loaded, 1)
	assert.Equal(t, reqID, loaded[0].RequestID)
}

func TestUnknownSceneLogged(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.engine.RequestSceneLoad("nowhere")
	f.step(time.Millisecond)

	entries := f.logs.FilterMessage("scene load failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "unknown scene")
}

func TestSceneBuilderError(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.engine.RegisterScene("broken", func(*Engine) error { return errors.New("no tiles") })
	f.engine.RequestSceneLoad("broken")
	f.step(time.Millisecond)
	assert.Equal(t, 1, f.logs.FilterMessage("scene load failed").Len())
	assert.Empty(t, f.engine.Scene())
}

func TestFrameDeltaDrivesPhysics(t *testing.T) {
	f := newFixture(t, nil, nil)
	w := f.engine.World()
	id := w.Create()
	require.NoError(t, w.AddTransform(id, 0, 0))
	require.NoError(t, w.AddPhysics(id, 100, 0))

	f.step(250 * time.Millisecond)

	tr, _ := w.Transforms().Get(id)
	assert.InDelta(t, 25, tr.X, 1e-9)
}

func TestEditorModeFreezesSimulation(t *testing.T) {
	f := newFixture(t, resource.MapPack{"s.lua": []byte(`function onUpdate() ticks = (ticks or 0) + 1 end`)}, func(c *config.Config) {
		c.Engine.EditorMode = true
	})
	w := f.engine.World()
	id := w.Create()
	require.NoError(t, w.AddTransform(id, 0, 0))
	require.NoError(t, w.AddPhysics(id, 100, 0))
	require.NoError(t, w.AddScript(id, "s.lua"))
	cam := w.Create()
	require.NoError(t, w.AddCamera(cam, 0, physics.Rect{W: 10, H: 10}))
	require.NoError(t, w.SetTargetCamera(cam))

	f.step(time.Second)

	tr, _ := w.Transforms().Get(id)
	assert.Zero(t, tr.X)
	sc, _ := w.Scripts().Get(id)
	assert.Equal(t, "nil", sc.State.GetGlobal("ticks").String())
	assert.Equal(t, uint64(1), f.backend.Frames(), "rendering continues in the editor")
}

func TestLuaRequestsScene(t *testing.T) {
	f := newFixture(t, resource.MapPack{"menu.lua": []byte(`
function onUpdate()
    if not requested then
        requested = ye.scene.load("game")
    end
end
`)}, nil)
	e := f.engine
	e.RegisterScene("game", func(e *Engine) error {
		e.World().CreateNamed("board")
		return nil
	})
	menu := e.World().Create()
	require.NoError(t, e.World().AddScript(menu, "menu.lua"))

	f.step(time.Millisecond)
	assert.Empty(t, e.Scene())
	f.step(time.Millisecond)
	assert.Equal(t, "game", e.Scene())
	assert.False(t, e.World().Alive(menu))
}

func TestQuitFromInputAndBus(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.queue.Push(input.Event{Kind: input.Quit})
	f.step(time.Millisecond)
	select {
	case <-f.engine.Done():
	default:
		t.Fatal("quit event did not stop the engine")
	}

	g := newFixture(t, nil, nil)
	event.Emit(g.engine.Bus(), event.Quit{})
	g.step(time.Millisecond)
	g.step(time.Millisecond)
	select {
	case <-g.engine.Done():
	default:
		t.Fatal("bus quit did not stop the engine")
	}
	g.engine.Quit() // idempotent
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t, nil, func(c *config.Config) { c.Engine.FrameCap = 1000 })
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.engine.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestShutdownUnmountsScripts(t *testing.T) {
	f := newFixture(t, resource.MapPack{"s.lua": []byte(`function onUnmount() ye.log("info", "unmounted") end`)}, nil)
	w := f.engine.World()
	require.NoError(t, w.AddScript(w.Create(), "s.lua"))

	f.engine.Shutdown()

	assert.Equal(t, 1, f.logs.FilterMessage("unmounted").Len())
	assert.Equal(t, 0, w.Count())
	assert.Equal(t, 1, f.logs.FilterMessage("engine shut down").Len())
}
