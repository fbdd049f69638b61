package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/physics"
)

func (f *fixture) physicsSystem() *PhysicsSystem {
	return NewPhysicsSystem(f.world, f.dispatch, 10, f.stats)
}

func TestPhysicsMovesWithoutCollider(t *testing.T) {
	f := newFixture(t)
	id := f.world.Create()
	require.NoError(t, f.world.AddTransform(id, 5, 5))
	require.NoError(t, f.world.AddPhysics(id, 10, -20))

	f.physicsSystem().Update(500 * time.Millisecond)
	assert.Equal(t, physics.Vec2{X: 10, Y: -5}, f.position(t, id))
}

func TestPhysicsSolidBlocksWholeFrame(t *testing.T) {
	f := newFixture(t)
	mover := f.box(t, "mover", 0, 0, false)
	wall := f.box(t, "wall", 50, 0, false)
	require.NoError(t, f.world.AddScript(mover, "m.lua"))
	require.NoError(t, f.world.AddPhysics(mover, 100, 0))

	f.physicsSystem().Update(time.Second)

	assert.Equal(t, physics.Vec2{}, f.position(t, mover), "blocked movers revert to their starting position")
	p, _ := f.world.PhysicsBodies().Get(mover)
	assert.True(t, p.Velocity.IsZero())
	assert.Equal(t, []pair{{mover, wall}}, f.collisions)
	require.Len(t, f.scripts.signals, 1)
	assert.Equal(t, "onCollision", f.scripts.signals[0].fn)
	assert.Equal(t, mover, f.scripts.signals[0].a)
	assert.Equal(t, wall, f.scripts.signals[0].b)
}

func TestPhysicsNoTunnelling(t *testing.T) {
	f := newFixture(t)
	mover := f.box(t, "bullet", 0, 0, false)
	// thinner than one frame of movement
	wall := f.world.CreateNamed("wall")
	require.NoError(t, f.world.AddTransform(wall, 400, 0))
	require.NoError(t, f.world.AddStaticCollider(wall, physics.Rect{W: 1, H: 10}, true))
	require.NoError(t, f.world.AddPhysics(mover, 1000, 0))

	f.physicsSystem().Update(time.Second)

	assert.Equal(t, physics.Vec2{}, f.position(t, mover))
	assert.Len(t, f.collisions, 1)
}

func TestPhysicsTriggerPassesThroughOnce(t *testing.T) {
	f := newFixture(t)
	mover := f.box(t, "mover", 0, 0, false)
	zone := f.box(t, "zone", 50, 0, true)
	require.NoError(t, f.world.AddScript(zone, "zone.lua"))
	require.NoError(t, f.world.AddPhysics(mover, 100, 0))

	f.physicsSystem().Update(time.Second)

	assert.Equal(t, physics.Vec2{X: 100}, f.position(t, mover))
	assert.Equal(t, []pair{{mover, zone}}, f.triggers)
	assert.Empty(t, f.collisions)
	require.Len(t, f.scripts.signals, 1)
	assert.Equal(t, signal{owner: zone, fn: "onTriggerEnter", a: mover, b: zone}, f.scripts.signals[0])
	assert.Equal(t, 1, f.stats.Triggers)
}

func TestPhysicsTriggerMoverTranslatesDirectly(t *testing.T) {
	f := newFixture(t)
	mover := f.box(t, "ghost", 0, 0, true)
	f.box(t, "wall", 50, 0, false)
	require.NoError(t, f.world.AddPhysics(mover, 100, 0))

	f.physicsSystem().Update(time.Second)

	assert.Equal(t, physics.Vec2{X: 100}, f.position(t, mover))
	assert.Empty(t, f.collisions)
	assert.Empty(t, f.triggers)
}

func TestPhysicsInactiveOthersAreTransparent(t *testing.T) {
	f := newFixture(t)
	mover := f.box(t, "mover", 0, 0, false)
	wall := f.box(t, "wall", 50, 0, false)
	off := f.box(t, "off", 70, 0, false)
	require.NoError(t, f.world.SetActive(wall, false))
	c, _ := f.world.Colliders().Get(off)
	c.Active = false
	require.NoError(t, f.world.AddPhysics(mover, 100, 0))

	f.physicsSystem().Update(time.Second)

	assert.Equal(t, physics.Vec2{X: 100}, f.position(t, mover))
	assert.Empty(t, f.collisions)
}

func TestPhysicsAbsoluteColliderFollows(t *testing.T) {
	f := newFixture(t)
	id := f.world.Create()
	require.NoError(t, f.world.AddTransform(id, 0, 0))
	require.NoError(t, f.world.AddStaticCollider(id, physics.Rect{X: 0, Y: 0, W: 10, H: 10}, false))
	require.NoError(t, f.world.AddPhysics(id, 0, 30))

	f.physicsSystem().Update(time.Second)

	c, _ := f.world.Colliders().Get(id)
	assert.Equal(t, physics.Rect{X: 0, Y: 30, W: 10, H: 10}, c.Rect)
}

func TestPhysicsRotationWraps(t *testing.T) {
	f := newFixture(t)
	id := f.world.Create()
	require.NoError(t, f.world.AddTransform(id, 0, 0))
	require.NoError(t, f.world.AddPhysics(id, 0, 0))
	require.NoError(t, f.world.AddRenderer(id, 0, physics.Rect{W: 1, H: 1}, &component.ImageRenderer{Src: "a.png"}))
	p, _ := f.world.PhysicsBodies().Get(id)
	p.RotationalVelocity = 90
	r, _ := f.world.Renderers().Get(id)
	r.Rotation = 300

	f.physicsSystem().Update(time.Second)
	assert.InDelta(t, 30, r.Rotation, 1e-9)
}

func TestPhysicsSkipsInactive(t *testing.T) {
	f := newFixture(t)
	id := f.world.Create()
	require.NoError(t, f.world.AddTransform(id, 0, 0))
	require.NoError(t, f.world.AddPhysics(id, 10, 0))
	p, _ := f.world.PhysicsBodies().Get(id)
	p.Active = false

	f.physicsSystem().Update(time.Second)
	assert.Equal(t, physics.Vec2{}, f.position(t, id))
}

func TestPhysicsCallbackDestroysOther(t *testing.T) {
	f := newFixture(t)
	mover := f.box(t, "mover", 0, 0, false)
	coin := f.box(t, "coin", 30, 0, true)
	wall := f.box(t, "wall", 60, 0, false)
	require.NoError(t, f.world.AddPhysics(mover, 100, 0))
	f.callbacks.TriggerEnter = func(a, b ecs.EntityID) {
		f.triggers = append(f.triggers, pair{a, b})
		f.world.Destroy(b)
	}

	f.physicsSystem().Update(time.Second)

	assert.False(t, f.world.Alive(coin))
	assert.Equal(t, []pair{{mover, coin}}, f.triggers)
	assert.Equal(t, []pair{{mover, wall}}, f.collisions)
}

func TestPhysicsSkippedInEditor(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.physicsSystem().RunsInEditor())
}
