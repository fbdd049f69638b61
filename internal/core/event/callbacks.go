package event

import "github.com/yoyoengine/yoyogo/internal/core/ecs"

// Callbacks holds the native hooks a game registers with the engine. Each
// slot holds at most one function; registering again replaces it and nil
// clears it.
type Callbacks struct {
	// Collision fires when a moving solid body is blocked. mover is the
	// entity that was moving.
	Collision func(mover, other ecs.EntityID)
	// TriggerEnter fires when a moving body passes into a trigger.
	TriggerEnter func(mover, trigger ecs.EntityID)
	PreFrame     func()
	PostFrame    func()
}
