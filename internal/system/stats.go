package system

import "time"

// Stats is filled in by the systems during a frame and read by the engine.
type Stats struct {
	Input         time.Duration
	Physics       time.Duration
	Scripts       time.Duration
	Render        time.Duration
	TimersChecked int
	Collisions    int
	Triggers      int
	Drawn         int
}

// Reset clears the per-frame counters.
func (s *Stats) Reset() { *s = Stats{} }
