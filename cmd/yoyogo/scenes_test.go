package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/config"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/engine"
	"github.com/yoyoengine/yoyogo/internal/input"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/resource"
	"github.com/yoyoengine/yoyogo/internal/timer"
)

func newDemo(t *testing.T) (*engine.Engine, *timer.ManualClock, *input.Queue) {
	t.Helper()
	log := zap.NewNop()
	pack, err := resource.Open(log, os.DirFS("../../resources"), "manifest.yaml")
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Engine.EntryScene = ""
	clock := &timer.ManualClock{}
	queue := input.NewQueue()
	e, err := engine.New(cfg, log, engine.Deps{Resources: pack, Input: queue, Clock: clock})
	require.NoError(t, err)
	registerScenes(e)
	t.Cleanup(e.Shutdown)
	return e, clock, queue
}

func TestMainSceneCollectsCoins(t *testing.T) {
	e, clock, _ := newDemo(t)
	w := e.World()

	e.RequestSceneLoad("main")
	e.Frame()
	require.Equal(t, "main", e.Scene())

	assert.Equal(t, 5, countTagged(e, "coin"))

	player, ok := w.FindByName("player")
	require.True(t, ok)
	body, _ := w.PhysicsBodies().Get(player)
	body.Velocity = physics.Vec2{X: 180}

	// one second to the right sweeps across the first two coins
	clock.Advance(time.Second)
	e.Frame()

	tr, _ := w.Transforms().Get(player)
	assert.InDelta(t, 244, tr.X, 1e-9)

	score, ok := w.FindByName("score")
	require.True(t, ok)
	r, _ := w.Renderers().Get(score)
	assert.Equal(t, "score 2", r.Impl.(*component.TextRenderer).Text)

	assert.Equal(t, 3, countTagged(e, "coin"))
}

func countTagged(e *engine.Engine, tag string) int {
	n := 0
	e.World().ForMatchingTag(tag, func(ecs.EntityID) { n++ })
	return n
}

func TestMenuButtonLoadsMain(t *testing.T) {
	e, clock, queue := newDemo(t)

	e.RequestSceneLoad("menu")
	e.Frame()
	require.Equal(t, "menu", e.Scene())

	queue.Push(input.Event{Kind: input.PointerDown, X: 300, Y: 180, Button: 1})
	queue.Push(input.Event{Kind: input.PointerUp, X: 300, Y: 180, Button: 1})
	clock.Advance(16 * time.Millisecond)
	e.Frame()
	assert.Equal(t, "menu", e.Scene(), "load is deferred to the next frame")

	clock.Advance(16 * time.Millisecond)
	e.Frame()
	assert.Equal(t, "main", e.Scene())
}
