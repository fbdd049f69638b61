package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStepBlocksOnSolid(t *testing.T) {
	others := []Body{{Rect: Rect{15, 0, 10, 10}}}

	out := ResolveStep(Vec2{}, Rect{0, 0, 10, 10}, Vec2{100, 0}, 4, others)

	assert.True(t, out.Blocked)
	assert.Equal(t, 0, out.BlockedBy)
	assert.Less(t, out.Position.X, 100.0)
	assert.LessOrEqual(t, out.Position.X, 25.0)
	assert.Empty(t, out.Triggers)
}

func TestResolveStepPassesTrigger(t *testing.T) {
	others := []Body{{Rect: Rect{15, 0, 10, 10}, Trigger: true}}

	out := ResolveStep(Vec2{}, Rect{0, 0, 10, 10}, Vec2{100, 0}, 4, others)

	assert.False(t, out.Blocked)
	assert.Equal(t, -1, out.BlockedBy)
	assert.Equal(t, Vec2{100, 0}, out.Position)
	assert.Equal(t, []int{0}, out.Triggers)
}

func TestResolveStepReportsEachTriggerOnce(t *testing.T) {
	// Wide trigger spans every substep.
	others := []Body{{Rect: Rect{0, 0, 200, 10}, Trigger: true}}

	out := ResolveStep(Vec2{}, Rect{0, 0, 10, 10}, Vec2{100, 0}, 10, others)

	assert.Equal(t, []int{0}, out.Triggers)
}

func TestResolveStepTriggersBeforeBlock(t *testing.T) {
	others := []Body{
		{Rect: Rect{60, 0, 10, 10}},
		{Rect: Rect{20, 0, 5, 10}, Trigger: true},
	}

	out := ResolveStep(Vec2{}, Rect{0, 0, 10, 10}, Vec2{100, 0}, 10, others)

	assert.True(t, out.Blocked)
	assert.Equal(t, 0, out.BlockedBy)
	assert.Equal(t, []int{1}, out.Triggers)
	assert.Equal(t, Vec2{}, out.Position)
}

func TestResolveStepNoSubstepsMeansOne(t *testing.T) {
	out := ResolveStep(Vec2{5, 5}, Rect{5, 5, 1, 1}, Vec2{10, -10}, 0, nil)

	assert.Equal(t, Vec2{15, -5}, out.Position)
	assert.False(t, out.Blocked)
}

func TestResolveStepSolidWinsWithinSubstep(t *testing.T) {
	others := []Body{
		{Rect: Rect{20, 0, 10, 10}, Trigger: true},
		{Rect: Rect{20, 0, 10, 10}},
	}

	out := ResolveStep(Vec2{}, Rect{0, 0, 10, 10}, Vec2{100, 0}, 4, others)

	assert.True(t, out.Blocked)
	assert.Equal(t, 1, out.BlockedBy)
	assert.Empty(t, out.Triggers)
}
