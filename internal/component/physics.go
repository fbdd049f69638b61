package component

import "github.com/yoyoengine/yoyogo/internal/physics"

// Physics holds linear velocity in pixels per second and rotational velocity
// in degrees per second. It has no effect without a Transform.
type Physics struct {
	Active             bool
	Velocity           physics.Vec2
	RotationalVelocity float64
}
