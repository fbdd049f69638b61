// Package resource resolves asset handles to bytes, colors and fonts from a
// resource pack described by a YAML manifest.
package resource

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound = errors.New("resource not found")
	ErrDigest   = errors.New("resource digest mismatch")
)

// Provider returns the raw bytes behind a handle.
type Provider interface {
	Bytes(handle string) ([]byte, error)
}

// MapPack is an in-memory Provider keyed by handle.
type MapPack map[string][]byte

func (m MapPack) Bytes(handle string) ([]byte, error) {
	b, ok := m[handle]
	if !ok {
		return nil, fmt.Errorf("%s: %w", handle, ErrNotFound)
	}
	return b, nil
}

// Pack reads assets from fsys. Handles listed in the manifest resolve to
// their mapped path; any other handle is read as a path relative to the
// pack root.
type Pack struct {
	log      *zap.Logger
	fsys     fs.FS
	manifest manifestFile
	colors   map[string]Color
	fallback Color

	mu     sync.Mutex
	warned map[string]struct{}
	exists map[string]bool // Has results; assets do not change while running
}

// Open parses manifest inside fsys. An empty manifest name opens a pack with
// no mappings.
func Open(log *zap.Logger, fsys fs.FS, manifest string) (*Pack, error) {
	p := &Pack{
		log:      log,
		fsys:     fsys,
		colors:   make(map[string]Color),
		fallback: White,
		warned:   make(map[string]struct{}),
		exists:   make(map[string]bool),
	}
	if manifest != "" {
		data, err := fs.ReadFile(fsys, manifest)
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		if err := yaml.Unmarshal(data, &p.manifest); err != nil {
			return nil, fmt.Errorf("parse manifest: %w", err)
		}
	}
	for name, hexStr := range p.manifest.Colors {
		c, err := ParseHex(hexStr)
		if err != nil {
			return nil, fmt.Errorf("color %s: %w", name, err)
		}
		p.colors[name] = c
	}
	if d := p.manifest.Defaults.Color; d != "" {
		c, ok := p.lookupColor(d)
		if !ok {
			return nil, fmt.Errorf("default color %q is neither a palette name nor hex", d)
		}
		p.fallback = c
	}
	log.Info("resource pack opened",
		zap.Int("assets", len(p.manifest.Assets)),
		zap.Int("colors", len(p.colors)),
		zap.Int("fonts", len(p.manifest.Fonts)),
	)
	return p, nil
}

// Bytes reads handle and checks its digest when the manifest pins one.
func (p *Pack) Bytes(handle string) ([]byte, error) {
	name := handle
	asset, mapped := p.manifest.Assets[handle]
	if mapped {
		name = asset.Path
	}
	name = path.Clean(name)
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%s: %w", handle, ErrNotFound)
	}
	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", handle, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", handle, err)
	}
	if mapped && asset.Blake2b != "" {
		sum := blake2b.Sum256(data)
		if hex.EncodeToString(sum[:]) != asset.Blake2b {
			return nil, fmt.Errorf("%s: %w", handle, ErrDigest)
		}
	}
	return data, nil
}

// Has reports whether handle resolves to a readable file.
func (p *Pack) Has(handle string) bool {
	p.mu.Lock()
	ok, seen := p.exists[handle]
	p.mu.Unlock()
	if seen {
		return ok
	}
	_, err := p.Bytes(handle)
	ok = err == nil
	p.mu.Lock()
	p.exists[handle] = ok
	p.mu.Unlock()
	return ok
}

// Texture returns handle when it exists, otherwise the pack's missing
// texture.
func (p *Pack) Texture(handle string) string {
	if p.Has(handle) {
		return handle
	}
	fb := p.manifest.Defaults.MissingTexture
	p.warnOnce("texture not found, using fallback", handle, fb)
	return fb
}

// Color resolves a palette name or hex string, falling back to the pack's
// default color.
func (p *Pack) Color(name string) Color {
	if c, ok := p.lookupColor(name); ok {
		return c
	}
	p.warnOnce("color not found, using fallback", name, p.fallback.Hex())
	return p.fallback
}

func (p *Pack) lookupColor(name string) (Color, bool) {
	if c, ok := p.colors[name]; ok {
		return c, true
	}
	if c, err := ParseHex(name); err == nil {
		return c, true
	}
	return Color{}, false
}

// Font returns the named font, falling back to the pack's default font.
func (p *Pack) Font(name string) (string, FontSpec) {
	if f, ok := p.manifest.Fonts[name]; ok {
		return name, f
	}
	fb := p.manifest.Defaults.Font
	p.warnOnce("font not found, using fallback", name, fb)
	return fb, p.manifest.Fonts[fb]
}

// warnOnce logs a lookup miss the first time a name misses. Renderers
// resolve their resources every frame.
func (p *Pack) warnOnce(msg, name, fallback string) {
	p.mu.Lock()
	key := msg + "\x00" + name
	_, seen := p.warned[key]
	p.warned[key] = struct{}{}
	p.mu.Unlock()
	if !seen {
		p.log.Warn(msg, zap.String("name", name), zap.String("fallback", fallback))
	}
}

// Digest returns the hex BLAKE2b-256 of data, in the form the manifest uses.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
