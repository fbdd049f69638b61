package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/yoyoengine/yoyogo/internal/audio"
	"github.com/yoyoengine/yoyogo/internal/backend/terminal"
	"github.com/yoyoengine/yoyogo/internal/backend/window"
	"github.com/yoyoengine/yoyogo/internal/config"
	"github.com/yoyoengine/yoyogo/internal/core/event"
	"github.com/yoyoengine/yoyogo/internal/engine"
	"github.com/yoyoengine/yoyogo/internal/input"
	"github.com/yoyoengine/yoyogo/internal/render"
	"github.com/yoyoengine/yoyogo/internal/resource"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/engine.toml"
	if p := os.Getenv("YOYOGO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	session := uuid.NewString()
	log = log.With(zap.String("session", session))

	// the terminal backend owns stdout, so no banner there
	banner := cfg.Window.Backend != "terminal"
	if banner {
		printBanner(cfg.Engine.Name, session)
		printSection("Resources")
	}

	// 3. Resource pack
	pack, err := resource.Open(log, os.DirFS(cfg.Resources.Dir), cfg.Resources.Manifest)
	if err != nil {
		return fmt.Errorf("open resources: %w", err)
	}
	if banner {
		printOK(fmt.Sprintf("pack %s", cfg.Resources.Dir))
	}

	// 4. Audio
	bus := event.NewBus()
	var mixer *audio.Mixer
	if cfg.Audio.Enabled {
		mixer = audio.NewMixer(log, bus, pack, cfg.Audio.SampleRate, cfg.Audio.Channels)
		if err := speaker.Init(mixer.SampleRate(), mixer.SampleRate().N(cfg.Audio.Buffer)); err != nil {
			log.Warn("audio output unavailable, continuing muted", zap.Error(err))
			mixer = nil
		} else {
			speaker.Play(mixer)
			defer speaker.Close()
			defer mixer.Close()
		}
	}

	// 5. Backend
	queue := input.NewQueue()
	var (
		backend render.Backend
		win     *window.Window
		term    *terminal.Screen
	)
	switch cfg.Window.Backend {
	case "window":
		win = window.New(log, pack, queue, cfg.Window.Width, cfg.Window.Height)
		backend = win
	case "terminal":
		term, err = terminal.New(log, nil, queue)
		if err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer term.Close()
		backend = term
	default:
		backend = &render.Headless{}
	}

	// 6. Engine
	deps := engine.Deps{
		Resources: pack,
		Backend:   backend,
		Input:     queue,
		Bus:       bus,
	}
	if mixer != nil {
		deps.Mixer = mixer
	}
	e, err := engine.New(cfg, log, deps)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	defer e.Shutdown()
	registerScenes(e)
	e.OnInput(func(ev input.Event) {
		if ev.Kind == input.KeyDown && cfg.Input[ev.Key] == "debug" {
			e.World().LogEntities()
			e.LogStats()
		}
	})

	if banner {
		printSection("Engine")
		printStat("substeps", cfg.Engine.Substeps)
		printStat("frame cap", cfg.Engine.FrameCap)
		printReady(fmt.Sprintf("backend %s, entry scene %q", cfg.Window.Backend, cfg.Engine.EntryScene))
		fmt.Println()
	}

	// 7. Run until a signal, a quit event or a closed window
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if win != nil {
		// ebiten must own the main goroutine
		win.Attach(e)
		if name := cfg.Engine.EntryScene; name != "" {
			e.RequestSceneLoad(name)
		}
		go func() {
			<-ctx.Done()
			e.Quit()
		}()
		return win.Run(cfg.Engine.Name, cfg.Engine.FrameCap)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return e.Run(gctx)
	})
	if term != nil {
		g.Go(func() error { return term.Listen(gctx) })
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("engine stopped", zap.Uint64("frames", e.Frames()))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}
