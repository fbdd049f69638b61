package component

import "github.com/yoyoengine/yoyogo/internal/physics"

// NoChannel marks an audio source that has not been handed a mixer channel.
const NoChannel = -1

// AudioSource plays a sound resource. Simulated sources are attenuated and
// panned relative to the target camera; others play flat at Volume.
type AudioSource struct {
	Active      bool
	Simulated   bool
	Relative    bool
	PlayOnAwake bool

	Handle string
	Volume float64 // 0..1, scaled by the engine master volume
	Range  physics.Rect
	Loops  int // -1 loops forever

	Channel int
	Playing bool
}
