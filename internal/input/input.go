// Package input carries backend-neutral input events from a window or
// terminal to the engine's input system.
package input

import "sync"

type Kind int

const (
	KeyDown Kind = iota
	KeyUp
	PointerMove
	PointerDown
	PointerUp
	Quit
)

func (k Kind) String() string {
	switch k {
	case KeyDown:
		return "key_down"
	case KeyUp:
		return "key_up"
	case PointerMove:
		return "pointer_move"
	case PointerDown:
		return "pointer_down"
	case PointerUp:
		return "pointer_up"
	case Quit:
		return "quit"
	}
	return "unknown"
}

// Event is one input occurrence. Key is a lowercase key name ("a", "space",
// "escape"); X and Y are in world pixels for pointer events.
type Event struct {
	Kind   Kind
	Key    string
	X, Y   float64
	Button int
}

// Source yields the events that arrived since the previous Poll.
type Source interface {
	Poll() []Event
}

// Queue is a Source fed by a backend goroutine.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

func NewQueue() *Queue {
	return &Queue{events: make([]Event, 0, 32)}
}

// Push is safe to call from any goroutine.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

func (q *Queue) Poll() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = make([]Event, 0, cap(out))
	return out
}

// Mapping binds key names to action names.
type Mapping map[string]string

// Action returns the action bound to key.
func (m Mapping) Action(key string) (string, bool) {
	a, ok := m[key]
	return a, ok
}

// State tracks which actions are held and where the pointer is.
type State struct {
	mapping Mapping
	held    map[string]bool
	pressed map[string]bool // went down this frame
	Pointer struct{ X, Y float64 }
}

func NewState(m Mapping) *State {
	if m == nil {
		m = Mapping{}
	}
	return &State{
		mapping: m,
		held:    make(map[string]bool),
		pressed: make(map[string]bool),
	}
}

// BeginFrame clears the per-frame pressed set.
func (s *State) BeginFrame() {
	clear(s.pressed)
}

// Apply folds ev into the state. It returns the action ev maps to, if any.
func (s *State) Apply(ev Event) (string, bool) {
	switch ev.Kind {
	case PointerMove, PointerDown, PointerUp:
		s.Pointer.X, s.Pointer.Y = ev.X, ev.Y
		return "", false
	case KeyDown, KeyUp:
	default:
		return "", false
	}
	action, ok := s.mapping.Action(ev.Key)
	if !ok {
		return "", false
	}
	if ev.Kind == KeyDown {
		if !s.held[action] {
			s.pressed[action] = true
		}
		s.held[action] = true
	} else {
		delete(s.held, action)
	}
	return action, true
}

// Held reports whether a key bound to action is down.
func (s *State) Held(action string) bool { return s.held[action] }

// Pressed reports whether action went down during the current frame.
func (s *State) Pressed(action string) bool { return s.pressed[action] }
