package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/input"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/render"
	"github.com/yoyoengine/yoyogo/internal/resource"
)

func newSim(t *testing.T) (tcell.SimulationScreen, *Screen, *input.Queue) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	q := input.NewQueue()
	s, err := New(zap.NewNop(), sim, q)
	require.NoError(t, err)
	sim.SetSize(20, 10)
	t.Cleanup(s.Close)
	return sim, s, q
}

func runeAt(sim tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := sim.GetContent(x, y)
	return r
}

func TestSubmitPaintsItems(t *testing.T) {
	sim, s, _ := newSim(t)
	s.Submit(render.Frame{
		Camera: physics.Rect{W: 40, H: 20},
		Items: []render.Drawable{
			{Kind: component.RendererImage, Rect: physics.Rect{X: 4, Y: 4, W: 4, H: 2}, Alpha: 255, Src: "crate.png"},
			{Kind: component.RendererText, Rect: physics.Rect{X: 0, Y: 10}, Alpha: 255, Text: "日本a", Color: resource.White},
		},
	})

	assert.Equal(t, '█', runeAt(sim, 2, 2))
	assert.Equal(t, '█', runeAt(sim, 3, 2))
	assert.NotEqual(t, '█', runeAt(sim, 4, 2))

	assert.Equal(t, '日', runeAt(sim, 0, 5))
	assert.Equal(t, '本', runeAt(sim, 2, 5))
	assert.Equal(t, 'a', runeAt(sim, 4, 5))
}

func TestTranslucentGlyphs(t *testing.T) {
	sim, s, _ := newSim(t)
	s.Submit(render.Frame{
		Camera: physics.Rect{W: 20, H: 10},
		Items: []render.Drawable{
			{Kind: component.RendererImage, Rect: physics.Rect{X: 0, Y: 0, W: 1, H: 1}, Alpha: 50},
			{Kind: component.RendererImage, Rect: physics.Rect{X: 1, Y: 0, W: 1, H: 1}, Alpha: 150},
			{Kind: component.RendererImage, Rect: physics.Rect{X: 2, Y: 0, W: 1, H: 1}, Alpha: 0},
		},
	})
	assert.Equal(t, '░', runeAt(sim, 0, 0))
	assert.Equal(t, '▒', runeAt(sim, 1, 0))
	assert.NotEqual(t, '█', runeAt(sim, 2, 0))
}

func TestCellWidth(t *testing.T) {
	assert.Equal(t, 1, CellWidth('a'))
	assert.Equal(t, 2, CellWidth('日'))
	assert.Equal(t, 2, CellWidth('Ａ'))
}

func TestListenTranslatesEvents(t *testing.T) {
	sim, s, q := newSim(t)
	s.Submit(render.Frame{Camera: physics.Rect{W: 40, H: 20}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Listen(ctx) }()

	sim.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	sim.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	sim.InjectMouse(3, 1, tcell.Button1, tcell.ModNone)
	sim.InjectMouse(3, 1, tcell.ButtonNone, tcell.ModNone)
	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	var events []input.Event
	require.Eventually(t, func() bool {
		events = append(events, q.Poll()...)
		return len(events) >= 7
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, input.Event{Kind: input.KeyDown, Key: "space"}, events[0])
	assert.Equal(t, input.Event{Kind: input.KeyUp, Key: "space"}, events[1])
	assert.Equal(t, "left", events[2].Key)
	assert.Equal(t, input.PointerDown, events[4].Kind)
	assert.InDelta(t, 7, events[4].X, 1e-9)
	assert.InDelta(t, 3, events[4].Y, 1e-9)
	assert.Equal(t, input.PointerUp, events[5].Kind)
	assert.Equal(t, input.Quit, events[6].Kind)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return")
	}
}

func TestKeyName(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		ch   rune
		want string
	}{
		{tcell.KeyRune, 'A', "a"},
		{tcell.KeyRune, ' ', "space"},
		{tcell.KeyUp, 0, "up"},
		{tcell.KeyEscape, 0, "escape"},
		{tcell.KeyF3, 0, "f3"},
		{tcell.KeyF12, 0, "f12"},
		{tcell.KeyHome, 0, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, KeyName(tcell.NewEventKey(c.key, c.ch, tcell.ModNone)), "key %v", c.key)
	}
}
