package component

import "github.com/yoyoengine/yoyogo/internal/physics"

// Collider is an axis-aligned box. A relative collider is offset by the
// entity's Transform; an absolute one is in world space and is carried along
// by the movement system when its entity moves.
// Triggers report overlaps but never block.
type Collider struct {
	Active    bool
	Relative  bool
	Rect      physics.Rect
	IsTrigger bool
}
