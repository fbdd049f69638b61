package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine    EngineConfig      `toml:"engine"`
	Window    WindowConfig      `toml:"window"`
	Audio     AudioConfig       `toml:"audio"`
	Resources ResourcesConfig   `toml:"resources"`
	Scripting ScriptingConfig   `toml:"scripting"`
	Logging   LoggingConfig     `toml:"logging"`
	Input     map[string]string `toml:"input"` // key name -> action
}

type EngineConfig struct {
	Name       string  `toml:"name"`
	Substeps   int     `toml:"substeps"`  // physics substeps per frame
	FrameCap   int     `toml:"frame_cap"` // frames per second, 0 = uncapped
	EditorMode bool    `toml:"editor_mode"`
	Volume     float64 `toml:"volume"` // master volume 0..1
	EntryScene string  `toml:"entry_scene"`
}

type WindowConfig struct {
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Backend string `toml:"backend"` // "window", "terminal" or "headless"
}

type AudioConfig struct {
	Enabled    bool          `toml:"enabled"`
	SampleRate int           `toml:"sample_rate"`
	Buffer     time.Duration `toml:"buffer"`
	Channels   int           `toml:"channels"`
}

type ResourcesConfig struct {
	Dir      string `toml:"dir"`
	Manifest string `toml:"manifest"` // relative to Dir
}

type ScriptingConfig struct {
	Runtime string `toml:"runtime"` // "lua"
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // log destination instead of stderr
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config { return defaults() }

// FrameInterval is the target frame duration, or 0 when uncapped.
func (c *Config) FrameInterval() time.Duration {
	if c.Engine.FrameCap <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.Engine.FrameCap)
}

func (c *Config) validate() error {
	if c.Engine.Substeps < 1 {
		return fmt.Errorf("engine.substeps must be at least 1, got %d", c.Engine.Substeps)
	}
	if c.Engine.Volume < 0 || c.Engine.Volume > 1 {
		return fmt.Errorf("engine.volume must be within 0..1, got %g", c.Engine.Volume)
	}
	switch c.Window.Backend {
	case "window", "terminal", "headless":
	default:
		return fmt.Errorf("unknown window.backend %q", c.Window.Backend)
	}
	if c.Scripting.Runtime != "lua" {
		return fmt.Errorf("unknown scripting.runtime %q", c.Scripting.Runtime)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			Name:       "yoyogo",
			Substeps:   10,
			FrameCap:   60,
			Volume:     1.0,
			EntryScene: "main",
		},
		Window: WindowConfig{
			Width:   1280,
			Height:  720,
			Backend: "window",
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Buffer:     100 * time.Millisecond,
			Channels:   16,
		},
		Resources: ResourcesConfig{
			Dir:      "resources",
			Manifest: "manifest.yaml",
		},
		Scripting: ScriptingConfig{
			Runtime: "lua",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Input: map[string]string{
			"w":      "up",
			"a":      "left",
			"s":      "down",
			"d":      "right",
			"up":     "up",
			"left":   "left",
			"down":   "down",
			"right":  "right",
			"space":  "jump",
			"escape": "quit",
			"f3":     "debug",
		},
	}
}
