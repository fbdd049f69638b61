// Package terminal paints render frames into a tcell screen, one cell per
// scaled world pixel block, and turns terminal keys and mouse events into
// engine input.
package terminal

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/text/width"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/input"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/render"
	"github.com/yoyoengine/yoyogo/internal/resource"
)

// Screen implements render.Backend on a terminal.
type Screen struct {
	screen tcell.Screen
	queue  *input.Queue
	log    *zap.Logger

	mu      sync.Mutex
	last    render.Frame
	buttons tcell.ButtonMask
	closed  bool
}

// New initializes screen, or the controlling terminal when screen is nil.
func New(log *zap.Logger, screen tcell.Screen, queue *input.Queue) (*Screen, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()
	cols, rows := screen.Size()
	log.Info("terminal backend ready", zap.Int("cols", cols), zap.Int("rows", rows))
	return &Screen{screen: screen, queue: queue, log: log}, nil
}

// Submit paints f and shows it.
func (s *Screen) Submit(f render.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.last = render.Frame{Number: f.Number, Camera: f.Camera}

	s.screen.Clear()
	cols, rows := s.screen.Size()
	for _, d := range f.Items {
		r := f.ToScreen(d.Rect, float64(cols), float64(rows))
		switch d.Kind {
		case component.RendererText, component.RendererTextOutlined:
			s.drawText(r, d)
		default:
			s.fill(r, d, cols, rows)
		}
	}
	s.screen.Show()
}

func (s *Screen) fill(r physics.Rect, d render.Drawable, cols, rows int) {
	glyph := '█'
	switch {
	case d.Alpha == 0:
		return
	case d.Alpha < 96:
		glyph = '░'
	case d.Alpha < 192:
		glyph = '▒'
	}
	style := tcell.StyleDefault.Foreground(textureColor(d.Src))
	x0, y0 := clamp(int(r.X), cols), clamp(int(r.Y), rows)
	x1, y1 := clamp(int(r.X+r.W+0.5), cols), clamp(int(r.Y+r.H+0.5), rows)
	if x1 == x0 && x0 < cols {
		x1 = x0 + 1
	}
	if y1 == y0 && y0 < rows {
		y1 = y0 + 1
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			s.screen.SetContent(x, y, glyph, nil, style)
		}
	}
}

// drawText writes d.Text from the top-left of r, one line per row. Wide
// runes take two cells.
func (s *Screen) drawText(r physics.Rect, d render.Drawable) {
	style := tcell.StyleDefault.Foreground(rgb(d.Color))
	if d.Kind == component.RendererTextOutlined {
		style = style.Background(rgb(d.OutlineColor))
	}
	cols, rows := s.screen.Size()
	for i, line := range strings.Split(d.Text, "\n") {
		y := int(r.Y) + i
		if y < 0 || y >= rows {
			continue
		}
		x := int(r.X)
		for _, ch := range line {
			w := CellWidth(ch)
			if x >= 0 && x+w <= cols {
				s.screen.SetContent(x, y, ch, nil, style)
			}
			x += w
		}
	}
}

// CellWidth is the number of terminal cells ch occupies.
func CellWidth(ch rune) int {
	switch width.LookupRune(ch).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

func rgb(c resource.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// textureColor gives each texture handle a stable color so sprites stay
// distinguishable without their pixels.
func textureColor(src string) tcell.Color {
	h := fnv.New32a()
	h.Write([]byte(src))
	v := h.Sum32()
	return tcell.NewRGBColor(int32(64+v&0x7f), int32(64+(v>>8)&0x7f), int32(64+(v>>16)&0x7f))
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// Listen forwards terminal events to the input queue until ctx is done or
// the screen is closed.
func (s *Screen) Listen(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.Close()
	}()
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		s.translate(ev)
	}
}

func (s *Screen) translate(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			s.queue.Push(input.Event{Kind: input.Quit})
			return
		}
		name := KeyName(ev)
		if name == "" {
			return
		}
		// terminals report presses only
		s.queue.Push(input.Event{Kind: input.KeyDown, Key: name})
		s.queue.Push(input.Event{Kind: input.KeyUp, Key: name})
	case *tcell.EventMouse:
		s.mouse(ev)
	case *tcell.EventResize:
		s.screen.Sync()
	}
}

func (s *Screen) mouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	s.mu.Lock()
	cols, rows := s.screen.Size()
	x, y := s.last.ToWorld(float64(cx)+0.5, float64(cy)+0.5, float64(cols), float64(rows))
	prev := s.buttons
	now := ev.Buttons() & tcell.Button1
	s.buttons = now
	s.mu.Unlock()

	kind := input.PointerMove
	switch {
	case now != 0 && prev == 0:
		kind = input.PointerDown
	case now == 0 && prev != 0:
		kind = input.PointerUp
	}
	s.queue.Push(input.Event{Kind: kind, X: x, Y: y, Button: 1})
}

// KeyName maps a key event to the engine's lowercase key names.
func KeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "space"
		}
		return strings.ToLower(string(ev.Rune()))
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	}
	if k := ev.Key(); k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return fmt.Sprintf("f%d", k-tcell.KeyF1+1)
	}
	return ""
}

// Close restores the terminal. Safe to call more than once.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.screen.Fini()
}
