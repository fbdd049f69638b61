package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/core/event"
	coresys "github.com/yoyoengine/yoyogo/internal/core/system"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/world"
)

// Mixer is the part of the audio mixer the audio system drives.
type Mixer interface {
	Play(handle string, loops int, volume float64) int
	SetChannelVolume(ch int, volume float64)
	SetChannelPosition(ch int, angle int16, distance uint8)
}

// AudioSystem starts playing audio sources and spatializes simulated ones
// around the center of the target camera. Phase 6 (Audio), skipped in
// editor mode.
//
// Sources are played one repetition at a time; when a channel finishes the
// system spends a loop and starts the next repetition itself.
type AudioSystem struct {
	world *world.State
	mixer Mixer
	log   *zap.Logger
}

func NewAudioSystem(ws *world.State, mixer Mixer, bus *event.Bus, log *zap.Logger) *AudioSystem {
	s := &AudioSystem{world: ws, mixer: mixer, log: log}
	event.Subscribe(bus, s.onChannelFinished)
	return s
}

func (s *AudioSystem) Phase() coresys.Phase { return coresys.PhaseAudio }

func (s *AudioSystem) RunsInEditor() bool { return false }

func (s *AudioSystem) Update(_ time.Duration) {
	w := s.world
	listener, hasListener := s.listener()

	w.AudioSources().Each(func(id ecs.EntityID, src *component.AudioSource) {
		if !src.Active || !w.Active(id) {
			return
		}
		if !src.Simulated {
			s.start(id, src)
			if src.Channel != component.NoChannel {
				s.mixer.SetChannelVolume(src.Channel, src.Volume)
				s.mixer.SetChannelPosition(src.Channel, 0, 0)
			}
			return
		}
		if !hasListener || src.Range.W <= 0 || src.Range.H < 0 {
			return
		}
		pos, _ := w.Position(id, world.KindAudioSource)
		angle, distance, audible := Spatialize(listener, pos)
		if !audible {
			if src.Channel != component.NoChannel {
				s.mixer.SetChannelVolume(src.Channel, 0)
			}
			return
		}
		s.start(id, src)
		if src.Channel != component.NoChannel {
			s.mixer.SetChannelVolume(src.Channel, src.Volume)
			s.mixer.SetChannelPosition(src.Channel, angle, distance)
		}
	})
}

// listener is the center of the target camera's view.
func (s *AudioSystem) listener() (physics.Vec2, bool) {
	cam := s.world.TargetCamera()
	if cam.IsZero() {
		return physics.Vec2{}, false
	}
	view, ok := s.world.Position(cam, world.KindCamera)
	if !ok {
		return physics.Vec2{}, false
	}
	return view.Center(), true
}

func (s *AudioSystem) start(id ecs.EntityID, src *component.AudioSource) {
	if !src.Playing || src.Channel != component.NoChannel {
		return
	}
	src.Channel = s.mixer.Play(src.Handle, 0, src.Volume)
	if src.Channel == component.NoChannel {
		s.log.Warn("audio source failed to start", zap.String("handle", src.Handle), zap.Uint32("entity", id.Serial()))
		src.Playing = false
	}
}

// Spatialize returns the mixer angle (0 = straight ahead, clockwise) and
// distance (0..255) of a source rect heard from listener. audible is false
// once the source center lies farther than half the rect's width.
func Spatialize(listener physics.Vec2, src physics.Rect) (angle int16, distance uint8, audible bool) {
	c := src.Center()
	d := listener.Distance(c)
	scaled := int(d / (src.W / 2) * 255)
	if scaled > 255 {
		return 0, 0, false
	}
	a := physics.Angle(listener.X, listener.Y, c.X, c.Y) - 270
	if a < 0 {
		a += 360
	}
	return int16(a), uint8(scaled), true
}

func (s *AudioSystem) onChannelFinished(ev event.ChannelFinished) {
	s.world.AudioSources().Each(func(_ ecs.EntityID, src *component.AudioSource) {
		if src.Channel != ev.Channel {
			return
		}
		src.Channel = component.NoChannel
		switch {
		case src.Loops == -1:
			src.Playing = true
		case src.Loops > 0:
			src.Loops--
			src.Playing = true
		default:
			src.Playing = false
		}
	})
}
