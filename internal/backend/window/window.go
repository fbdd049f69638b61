// Package window hosts the engine in an ebiten window. Ebiten owns the main
// loop: every Update runs one engine frame and Draw paints the frame the
// render system submitted.
package window

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	_ "image/png"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/input"
	"github.com/yoyoengine/yoyogo/internal/render"
	"github.com/yoyoengine/yoyogo/internal/resource"
)

// Framer is the engine as seen by the window.
type Framer interface {
	Frame()
	Done() <-chan struct{}
}

// Window implements ebiten.Game and render.Backend.
type Window struct {
	render.Headless

	engine Framer
	queue  *input.Queue
	res    resource.Provider
	log    *zap.Logger

	width, height int
	textures      map[string]*ebiten.Image
	missing       map[string]bool

	keys     []ebiten.Key
	cursorX  int
	cursorY  int
	hasMoved bool
}

func New(log *zap.Logger, res resource.Provider, queue *input.Queue, width, height int) *Window {
	return &Window{
		queue:    queue,
		res:      res,
		log:      log,
		width:    width,
		height:   height,
		textures: make(map[string]*ebiten.Image),
		missing:  make(map[string]bool),
	}
}

// Attach sets the engine driven by Update. The window is built before the
// engine because the engine takes it as its backend.
func (w *Window) Attach(e Framer) { w.engine = e }

// Run opens the window and blocks until the engine quits or the window is
// closed.
func (w *Window) Run(title string, tps int) error {
	if w.engine == nil {
		return errors.New("window: no engine attached")
	}
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowClosingHandled(true)
	if tps > 0 {
		ebiten.SetTPS(tps)
	}
	err := ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (w *Window) Update() error {
	w.pollInput()
	w.engine.Frame()
	select {
	case <-w.engine.Done():
		return ebiten.Termination
	default:
		return nil
	}
}

func (w *Window) pollInput() {
	if ebiten.IsWindowBeingClosed() {
		w.queue.Push(input.Event{Kind: input.Quit})
	}

	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	for _, k := range w.keys {
		w.queue.Push(input.Event{Kind: input.KeyDown, Key: KeyName(k.String())})
	}
	w.keys = inpututil.AppendJustReleasedKeys(w.keys[:0])
	for _, k := range w.keys {
		w.queue.Push(input.Event{Kind: input.KeyUp, Key: KeyName(k.String())})
	}

	cx, cy := ebiten.CursorPosition()
	frame := w.Last()
	x, y := frame.ToWorld(float64(cx), float64(cy), float64(w.width), float64(w.height))
	if !w.hasMoved || cx != w.cursorX || cy != w.cursorY {
		w.cursorX, w.cursorY, w.hasMoved = cx, cy, true
		w.queue.Push(input.Event{Kind: input.PointerMove, X: x, Y: y})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		w.queue.Push(input.Event{Kind: input.PointerDown, X: x, Y: y, Button: 1})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		w.queue.Push(input.Event{Kind: input.PointerUp, X: x, Y: y, Button: 1})
	}
}

// KeyName maps an ebiten key name ("ArrowUp", "Space", "A") to the engine's
// lowercase names ("up", "space", "a").
func KeyName(k string) string {
	k = strings.ToLower(k)
	k = strings.TrimPrefix(k, "arrow")
	if strings.HasPrefix(k, "digit") {
		return strings.TrimPrefix(k, "digit")
	}
	return k
}

func (w *Window) Draw(screen *ebiten.Image) {
	frame := w.Last()
	sw, sh := float64(w.width), float64(w.height)
	for _, d := range frame.Items {
		r := frame.ToScreen(d.Rect, sw, sh)
		switch d.Kind {
		case component.RendererText, component.RendererTextOutlined:
			ebitenutil.DebugPrintAt(screen, d.Text, int(r.X), int(r.Y))
		default:
			tex := w.texture(d.Src)
			if tex == nil {
				vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H),
					color.RGBA{R: 255, B: 255, A: d.Alpha}, false)
				continue
			}
			if d.Kind == component.RendererTile {
				s := d.Source
				tex = tex.SubImage(image.Rect(int(s.X), int(s.Y), int(s.X+s.W), int(s.Y+s.H))).(*ebiten.Image)
			}
			w.drawImage(screen, tex, r.X, r.Y, r.W, r.H, d)
		}
	}
}

func (w *Window) drawImage(dst, tex *ebiten.Image, x, y, rw, rh float64, d render.Drawable) {
	b := tex.Bounds()
	tw, th := float64(b.Dx()), float64(b.Dy())
	if tw == 0 || th == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-tw/2, -th/2)
	sx, sy := rw/tw, rh/th
	if d.FlipX {
		sx = -sx
	}
	if d.FlipY {
		sy = -sy
	}
	op.GeoM.Scale(sx, sy)
	op.GeoM.Rotate(d.Rotation * math.Pi / 180)
	op.GeoM.Translate(x+rw/2, y+rh/2)
	op.ColorScale.ScaleAlpha(float32(d.Alpha) / 255)
	dst.DrawImage(tex, op)
}

// texture decodes and caches src. Failures are logged once and drawn as a
// placeholder.
func (w *Window) texture(src string) *ebiten.Image {
	if img, ok := w.textures[src]; ok {
		return img
	}
	if w.missing[src] {
		return nil
	}
	data, err := w.res.Bytes(src)
	if err == nil {
		var img image.Image
		img, _, err = image.Decode(bytes.NewReader(data))
		if err == nil {
			tex := ebiten.NewImageFromImage(img)
			w.textures[src] = tex
			return tex
		}
	}
	w.log.Warn("cannot load texture", zap.String("src", src), zap.Error(err))
	w.missing[src] = true
	return nil
}

func (w *Window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}
