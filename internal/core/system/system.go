package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseTimers    Phase = iota // 0: fire due timers
	PhasePreFrame               // 1: pre-frame callbacks
	PhaseInput                  // 2: poll events, update buttons
	PhasePhysics                // 3: movement + collision
	PhaseScripts                // 4: Lua on_update
	PhaseRender                 // 5: build + submit the frame
	PhaseAudio                  // 6: spatialize audio sources
	PhasePostFrame              // 7: post-frame callbacks
	PhaseCleanup                // 8: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseTimers:
		return "timers"
	case PhasePreFrame:
		return "pre_frame"
	case PhaseInput:
		return "input"
	case PhasePhysics:
		return "physics"
	case PhaseScripts:
		return "scripts"
	case PhaseRender:
		return "render"
	case PhaseAudio:
		return "audio"
	case PhasePostFrame:
		return "post_frame"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// EditorAware is implemented by systems that must be skipped while the
// engine runs in editor mode. Systems without it always run.
type EditorAware interface {
	RunsInEditor() bool
}
