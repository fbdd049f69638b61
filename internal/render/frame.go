// Package render defines the frame handed from the render system to a
// backend. Backends never read the ECS; everything they paint is in Frame.
package render

import (
	"sync"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/resource"
)

// Drawable is one resolved renderer. Rect is in world space; Src is the
// texture handle to paint for image, tile and animation kinds.
type Drawable struct {
	Entity   ecs.EntityID
	Kind     component.RendererKind
	Rect     physics.Rect
	Z        int
	Rotation float64
	FlipX    bool
	FlipY    bool
	Alpha    uint8

	Src    string
	Source physics.Rect // tile sub-rectangle

	Text         string
	Font         string
	FontSize     int
	Color        resource.Color
	OutlineColor resource.Color
	OutlineSize  int
}

// Frame is everything visible through the target camera, in paint order.
type Frame struct {
	Number uint64
	Camera physics.Rect
	Items  []Drawable
}

// ToScreen maps a world rect into a w×h output through the frame's camera.
func (f Frame) ToScreen(r physics.Rect, w, h float64) physics.Rect {
	if f.Camera.W == 0 || f.Camera.H == 0 {
		return r
	}
	sx := w / f.Camera.W
	sy := h / f.Camera.H
	return physics.Rect{
		X: (r.X - f.Camera.X) * sx,
		Y: (r.Y - f.Camera.Y) * sy,
		W: r.W * sx,
		H: r.H * sy,
	}
}

// ToWorld maps an output point back into world space through the camera.
func (f Frame) ToWorld(x, y, w, h float64) (float64, float64) {
	if f.Camera.W == 0 || f.Camera.H == 0 || w == 0 || h == 0 {
		return x, y
	}
	return f.Camera.X + x*f.Camera.W/w, f.Camera.Y + y*f.Camera.H/h
}

// Backend receives one frame per engine frame. Submit must not retain Items
// past the next Submit.
type Backend interface {
	Submit(f Frame)
}

// Headless keeps the last submitted frame. It backs tests and the
// "headless" window backend.
type Headless struct {
	mu     sync.Mutex
	last   Frame
	frames uint64
}

func (h *Headless) Submit(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = Frame{Number: f.Number, Camera: f.Camera, Items: append([]Drawable(nil), f.Items...)}
	h.frames++
}

func (h *Headless) Last() Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

func (h *Headless) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}
