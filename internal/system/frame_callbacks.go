package system

import (
	"time"

	"github.com/yoyoengine/yoyogo/internal/core/event"
	coresys "github.com/yoyoengine/yoyogo/internal/core/system"
)

// FrameCallbackSystem invokes the native pre-frame or post-frame slot.
// The slot is read every frame, so games may swap it at any time.
type FrameCallbackSystem struct {
	callbacks *event.Callbacks
	post      bool
}

func NewPreFrameSystem(cb *event.Callbacks) *FrameCallbackSystem {
	return &FrameCallbackSystem{callbacks: cb}
}

func NewPostFrameSystem(cb *event.Callbacks) *FrameCallbackSystem {
	return &FrameCallbackSystem{callbacks: cb, post: true}
}

func (s *FrameCallbackSystem) Phase() coresys.Phase {
	if s.post {
		return coresys.PhasePostFrame
	}
	return coresys.PhasePreFrame
}

func (s *FrameCallbackSystem) Update(_ time.Duration) {
	fn := s.callbacks.PreFrame
	if s.post {
		fn = s.callbacks.PostFrame
	}
	if fn != nil {
		fn()
	}
}
