package timer

import (
	"time"

	"go.uber.org/zap"
)

// Timer fires Callback once Length has elapsed since it was (re)started.
// Loops counts firings: -1 repeats forever, 0 and 1 both fire once.
type Timer struct {
	Length   time.Duration
	Loops    int
	Callback func(*Timer)
	Data     any

	start time.Duration
}

// Registry is the flat list of live timers, newest first.
// Accessed only from the frame loop goroutine.
type Registry struct {
	log     *zap.Logger
	clock   Clock
	timers  []*Timer
	version uint64
	checked int
}

func NewRegistry(log *zap.Logger, clock Clock) *Registry {
	log.Info("initialized timers")
	return &Registry{
		log:    log,
		clock:  clock,
		timers: make([]*Timer, 0, 16),
	}
}

// Register starts t now and adds it to the head of the list.
func (r *Registry) Register(t *Timer) {
	t.start = r.clock.Now()
	r.timers = append([]*Timer{t}, r.timers...)
	r.version++
}

// Unregister removes t. It reports false when t was not registered.
func (r *Registry) Unregister(t *Timer) bool {
	for i, cur := range r.timers {
		if cur == t {
			r.timers = append(r.timers[:i:i], r.timers[i+1:]...)
			r.version++
			return true
		}
	}
	return false
}

func (r *Registry) UnregisterAll() {
	if len(r.timers) == 0 {
		return
	}
	r.timers = r.timers[:0:0]
	r.version++
}

// Shutdown drops every timer.
func (r *Registry) Shutdown() {
	r.UnregisterAll()
	r.log.Info("shut down timers")
}

func (r *Registry) Len() int { return len(r.timers) }

// CheckedThisFrame counts timer checks made by the last Update, restarts
// included.
func (r *Registry) CheckedThisFrame() int { return r.checked }

// Update fires every due timer. A callback may register or unregister
// timers; the walk then restarts from the head of the list. A timer fires at
// most once per Update.
func (r *Registry) Update() {
	r.checked = 0
	var fired map[*Timer]struct{}
	for {
		restart := false
		v := r.version
		for _, t := range r.timers {
			r.checked++
			if _, done := fired[t]; done {
				continue
			}
			if r.clock.Now()-t.start < t.Length {
				continue
			}
			if fired == nil {
				fired = make(map[*Timer]struct{})
			}
			fired[t] = struct{}{}
			r.fire(t)
			if r.version != v {
				restart = true
				break
			}
		}
		if !restart {
			return
		}
	}
}

func (r *Registry) fire(t *Timer) {
	if t.Callback != nil {
		t.Callback(t)
	}
	switch {
	case t.Loops == -1:
		t.start = r.clock.Now()
	case t.Loops > 1:
		t.Loops--
		t.start = r.clock.Now()
	default:
		r.Unregister(t)
	}
}
