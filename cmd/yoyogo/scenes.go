package main

import (
	"fmt"
	"time"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/engine"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/world"
)

func registerScenes(e *engine.Engine) {
	e.RegisterScene("main", buildMain)
	e.RegisterScene("menu", buildMenu)
}

// buildMain is a walled room with a scripted player, coins to collect and
// an ambient sound near the middle.
func buildMain(e *engine.Engine) error {
	w := e.World()

	cam := w.CreateNamed("camera")
	if err := w.AddTransform(cam, 0, 0); err != nil {
		return err
	}
	if err := w.AddCamera(cam, 100, physics.Rect{W: 640, H: 360}); err != nil {
		return err
	}
	if err := w.SetTargetCamera(cam); err != nil {
		return err
	}

	walls := []physics.Rect{
		{X: 0, Y: 0, W: 640, H: 16},
		{X: 0, Y: 344, W: 640, H: 16},
		{X: 0, Y: 0, W: 16, H: 360},
		{X: 624, Y: 0, W: 16, H: 360},
	}
	for i, r := range walls {
		id := w.CreateNamed(fmt.Sprintf("wall %d", i))
		if err := w.AddStaticCollider(id, r, false); err != nil {
			return err
		}
		if err := w.AddRenderer(id, 0, r, &component.ImageRenderer{Src: "images/wall.png"}); err != nil {
			return err
		}
		// walls have no transform, their rects are world space
		if rd, ok := w.Renderers().Get(id); ok {
			rd.Relative = false
		}
	}

	// coins first, the player script counts them on mount
	for i := 0; i < 5; i++ {
		if err := coin(w, float64(160+i*80), 172); err != nil {
			return fmt.Errorf("coin %d: %w", i, err)
		}
	}

	player := w.CreateNamed("player")
	if err := first(
		w.AddTransform(player, 64, 160),
		w.AddPhysics(player, 0, 0),
		w.AddStaticCollider(player, physics.Rect{W: 24, H: 24}, true),
		w.AddRenderer(player, 10, physics.Rect{W: 24, H: 24}, &component.AnimationRenderer{
			Path:       "images/player",
			Format:     "png",
			FrameCount: 4,
			FrameDelay: 120 * time.Millisecond,
			Loops:      -1,
		}),
		w.AddTag(player, "player"),
		w.AddScript(player, "scripts/player.lua"),
	); err != nil {
		return fmt.Errorf("player: %w", err)
	}

	hum := w.CreateNamed("hum")
	if err := first(
		w.AddTransform(hum, 320, 180),
		w.AddAudioSource(hum, world.AudioSourceOptions{
			Handle:      "sounds/hum.wav",
			Volume:      0.6,
			PlayOnAwake: true,
			Loops:       -1,
			Simulated:   true,
			Range:       physics.Rect{X: -200, Y: -200, W: 400, H: 400},
		}),
	); err != nil {
		return fmt.Errorf("hum: %w", err)
	}

	hud := w.CreateNamed("score")
	return first(
		w.AddTransform(hud, 24, 20),
		w.AddRenderer(hud, 50, physics.Rect{W: 200, H: 16}, &component.TextRenderer{Text: "score 0", Font: "default", Color: "white"}),
	)
}

func coin(w *world.State, x, y float64) error {
	id := w.CreateNamed("coin")
	return first(
		w.AddTransform(id, x, y),
		w.AddTriggerCollider(id, physics.Rect{W: 16, H: 16}, true),
		w.AddRenderer(id, 5, physics.Rect{W: 16, H: 16}, &component.ImageRenderer{Src: "images/coin.png"}),
		w.AddTag(id, "coin"),
		w.AddScript(id, "scripts/coin.lua"),
	)
}

// buildMenu is a single start button that loads the main scene.
func buildMenu(e *engine.Engine) error {
	w := e.World()
	cam := w.CreateNamed("camera")
	btn := w.CreateNamed("start")
	return first(
		w.AddTransform(cam, 0, 0),
		w.AddCamera(cam, 100, physics.Rect{W: 640, H: 360}),
		w.SetTargetCamera(cam),
		w.AddTransform(btn, 260, 160),
		w.AddButton(btn, physics.Rect{W: 120, H: 40}),
		w.AddRenderer(btn, 1, physics.Rect{W: 120, H: 40}, &component.TextOutlinedRenderer{
			Text: "start", Font: "default", Color: "white", OutlineColor: "black", OutlineSize: 1,
		}),
		w.AddScript(btn, "scripts/menu.lua"),
	)
}

// first returns the first non-nil error. Every call has already run.
func first(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
