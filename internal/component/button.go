package component

import "github.com/yoyoengine/yoyogo/internal/physics"

// Button state is written by the input system each frame.
// Clicked holds for exactly one frame after a press and release inside Rect.
type Button struct {
	Active   bool
	Relative bool
	Rect     physics.Rect

	Hovered bool
	Pressed bool
	Clicked bool

	PressStarted bool // pointer went down inside and has not been released yet
}
