package system

import (
	"time"

	coresys "github.com/yoyoengine/yoyogo/internal/core/system"
	"github.com/yoyoengine/yoyogo/internal/timer"
)

// TimerSystem fires due timers. Phase 0 (Timers).
type TimerSystem struct {
	timers *timer.Registry
	stats  *Stats
}

func NewTimerSystem(timers *timer.Registry, stats *Stats) *TimerSystem {
	return &TimerSystem{timers: timers, stats: stats}
}

func (s *TimerSystem) Phase() coresys.Phase { return coresys.PhaseTimers }

func (s *TimerSystem) Update(_ time.Duration) {
	s.timers.Update()
	s.stats.TimersChecked = s.timers.CheckedThisFrame()
}
