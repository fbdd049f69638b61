// Package audio is the channel mixer behind audio sources. It is a
// beep.Streamer: cmd hands it to the speaker, tests drain it directly.
package audio

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/core/event"
	"github.com/yoyoengine/yoyogo/internal/resource"
)

// NoChannel is returned by Play when nothing could be started.
const NoChannel = -1

// channel is one playing sound: ctrl → volume → pan → seq(loop, finished).
type channel struct {
	ctrl   *beep.Ctrl
	volume *effects.Volume
	pan    *effects.Pan

	gain  float64 // requested volume, 0..1
	atten float64 // distance attenuation, 0..1
}

// Mixer plays decoded sounds on numbered channels. Channel numbers are the
// lowest free index below the configured channel count.
type Mixer struct {
	log *zap.Logger
	bus *event.Bus
	res resource.Provider

	rate     beep.SampleRate
	channels int

	mu     sync.Mutex // guards everything below; held while streaming
	mix    *beep.Mixer
	cache  map[string]*beep.Buffer
	active map[int]*channel
	master float64
}

func NewMixer(log *zap.Logger, bus *event.Bus, res resource.Provider, rate, channels int) *Mixer {
	if channels <= 0 {
		channels = 16
	}
	log.Info("initialized audio", zap.Int("sample_rate", rate), zap.Int("channels", channels))
	return &Mixer{
		log:      log,
		bus:      bus,
		res:      res,
		rate:     beep.SampleRate(rate),
		channels: channels,
		mix:      &beep.Mixer{},
		cache:    make(map[string]*beep.Buffer),
		active:   make(map[int]*channel),
		master:   1,
	}
}

// SampleRate is the output rate the speaker must be initialized with.
func (m *Mixer) SampleRate() beep.SampleRate { return m.rate }

func (m *Mixer) format() beep.Format {
	return beep.Format{SampleRate: m.rate, NumChannels: 2, Precision: 2}
}

// Stream implements beep.Streamer.
func (m *Mixer) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mix.Stream(samples)
}

func (m *Mixer) Err() error { return nil }

// Register caches s under handle, bypassing the resource pack.
func (m *Mixer) Register(handle string, s beep.Streamer) {
	buf := beep.NewBuffer(m.format())
	buf.Append(s)
	m.mu.Lock()
	m.cache[handle] = buf
	m.mu.Unlock()
}

// load decodes handle as WAV. Caller holds mu.
func (m *Mixer) load(handle string) (*beep.Buffer, error) {
	if buf, ok := m.cache[handle]; ok {
		return buf, nil
	}
	if m.res == nil {
		return nil, fmt.Errorf("%s: %w", handle, resource.ErrNotFound)
	}
	data, err := m.res.Bytes(handle)
	if err != nil {
		return nil, err
	}
	s, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", handle, err)
	}
	defer s.Close()

	buf := beep.NewBuffer(m.format())
	if format.SampleRate != m.rate {
		buf.Append(beep.Resample(4, format.SampleRate, m.rate, s))
	} else {
		buf.Append(s)
	}
	m.cache[handle] = buf
	return buf, nil
}

// Play starts handle at volume (0..1). loops counts extra repetitions; -1
// repeats until stopped. It returns the channel, or NoChannel on failure.
func (m *Mixer) Play(handle string, loops int, volume float64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, err := m.load(handle)
	if err != nil {
		m.log.Warn("failed to load sound", zap.String("handle", handle), zap.Error(err))
		return NoChannel
	}
	ch := m.freeChannel()
	if ch == NoChannel {
		m.log.Warn("no free audio channel", zap.String("handle", handle), zap.Int("channels", m.channels))
		return NoChannel
	}

	count := loops + 1
	if loops < 0 {
		count = -1
	}
	c := &channel{gain: volume, atten: 1}
	body := beep.Loop(count, buf.Streamer(0, buf.Len()))
	done := beep.Callback(func() { m.finished(ch, c) })
	c.ctrl = &beep.Ctrl{Streamer: beep.Seq(body, done)}
	c.volume = &effects.Volume{Streamer: c.ctrl, Base: 2}
	c.pan = &effects.Pan{Streamer: c.volume}
	m.apply(c)

	m.active[ch] = c
	m.mix.Add(c.pan)
	return ch
}

func (m *Mixer) freeChannel() int {
	for i := 0; i < m.channels; i++ {
		if _, busy := m.active[i]; !busy {
			return i
		}
	}
	return NoChannel
}

// finished runs on the streaming goroutine with mu held.
func (m *Mixer) finished(ch int, c *channel) {
	if m.active[ch] != c {
		return
	}
	delete(m.active, ch)
	event.Emit(m.bus, event.ChannelFinished{Channel: ch})
}

// apply recomputes the effective volume of c. Caller holds mu.
func (m *Mixer) apply(c *channel) {
	v := c.gain * c.atten * m.master
	if v <= 0 {
		c.volume.Silent = true
		c.volume.Volume = 0
		return
	}
	c.volume.Silent = false
	c.volume.Volume = math.Log2(v)
}

// SetChannelVolume changes the volume (0..1) of a playing channel.
func (m *Mixer) SetChannelVolume(ch int, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.active[ch]; ok {
		c.gain = volume
		m.apply(c)
	}
}

// SetChannelPosition places a channel around the listener. angle is in
// degrees clockwise from straight ahead; distance runs from 0 (at the
// listener) to 255 (inaudible).
func (m *Mixer) SetChannelPosition(ch int, angle int16, distance uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.active[ch]
	if !ok {
		return
	}
	c.pan.Pan = math.Sin(float64(angle) * math.Pi / 180)
	c.atten = 1 - float64(distance)/255
	m.apply(c)
}

// Stop halts ch without reporting it as finished.
func (m *Mixer) Stop(ch int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.active[ch]
	if !ok {
		return
	}
	c.ctrl.Streamer = nil
	delete(m.active, ch)
}

// SetMasterVolume scales every channel.
func (m *Mixer) SetMasterVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.master = v
	for _, c := range m.active {
		m.apply(c)
	}
}

// Playing reports whether ch is busy.
func (m *Mixer) Playing(ch int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[ch]
	return ok
}

// Close stops every channel.
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ch, c := range m.active {
		c.ctrl.Streamer = nil
		delete(m.active, ch)
	}
	m.mix.Clear()
	m.log.Info("shut down audio")
}
