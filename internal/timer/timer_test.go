package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newRegistry() (*Registry, *ManualClock) {
	clock := &ManualClock{}
	return NewRegistry(zap.NewNop(), clock), clock
}

func TestOneShotFiresOnceAndUnregisters(t *testing.T) {
	r, clock := newRegistry()
	calls := 0
	r.Register(&Timer{Length: 100 * time.Millisecond, Callback: func(*Timer) { calls++ }})

	clock.Advance(99 * time.Millisecond)
	r.Update()
	assert.Equal(t, 0, calls)

	clock.Advance(time.Millisecond)
	r.Update()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, r.Len())

	clock.Advance(time.Second)
	r.Update()
	assert.Equal(t, 1, calls)
}

func TestLoopingTimerCountsDown(t *testing.T) {
	r, clock := newRegistry()
	calls := 0
	r.Register(&Timer{Length: 10 * time.Millisecond, Loops: 3, Callback: func(*Timer) { calls++ }})

	for range 5 {
		clock.Advance(10 * time.Millisecond)
		r.Update()
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, r.Len())
}

func TestInfiniteTimerRestartsFromFireTime(t *testing.T) {
	r, clock := newRegistry()
	calls := 0
	r.Register(&Timer{Length: 10 * time.Millisecond, Loops: -1, Callback: func(*Timer) { calls++ }})

	clock.Advance(25 * time.Millisecond)
	r.Update()
	clock.Advance(5 * time.Millisecond)
	r.Update()
	assert.Equal(t, 1, calls)

	clock.Advance(5 * time.Millisecond)
	r.Update()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, r.Len())
}

func TestUnregisterDuringUpdateStillFiresRemainingDueTimers(t *testing.T) {
	r, clock := newRegistry()
	var order []string
	r.Register(&Timer{Length: time.Millisecond, Callback: func(*Timer) { order = append(order, "a") }})
	r.Register(&Timer{Length: time.Millisecond, Callback: func(*Timer) { order = append(order, "b") }})
	r.Register(&Timer{Length: time.Millisecond, Loops: -1, Callback: func(*Timer) { order = append(order, "c") }})

	clock.Advance(time.Millisecond)
	r.Update()

	assert.Equal(t, []string{"c", "b", "a"}, order)
	assert.Equal(t, 1, r.Len())
	assert.Greater(t, r.CheckedThisFrame(), 3)
}

func TestCallbackUnregistersOtherTimer(t *testing.T) {
	r, clock := newRegistry()
	victimCalls := 0
	victim := &Timer{Length: time.Millisecond, Loops: -1, Callback: func(*Timer) { victimCalls++ }}
	r.Register(victim)
	r.Register(&Timer{Length: time.Millisecond, Loops: -1, Callback: func(*Timer) { r.Unregister(victim) }})

	clock.Advance(time.Millisecond)
	r.Update()
	assert.Equal(t, 0, victimCalls)
	assert.Equal(t, 1, r.Len())
}

func TestZeroLengthLoopFiresOncePerUpdate(t *testing.T) {
	r, _ := newRegistry()
	calls := 0
	r.Register(&Timer{Loops: -1, Callback: func(*Timer) { calls++ }})
	r.Register(&Timer{Callback: func(*Timer) {}})

	r.Update()
	assert.Equal(t, 1, calls)
}

func TestUnregisterAll(t *testing.T) {
	r, _ := newRegistry()
	tm := &Timer{Length: time.Second}
	r.Register(tm)
	r.Register(&Timer{Length: time.Second})
	r.UnregisterAll()
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Unregister(tm))
}
