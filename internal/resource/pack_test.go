package resource

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testFS() fstest.MapFS {
	hello := []byte("print('hi')")
	return fstest.MapFS{
		"manifest.yaml": {Data: []byte(`
assets:
  hello: {path: scripts/hello.lua, blake2b: "` + Digest(hello) + `"}
  tampered: {path: scripts/other.lua, blake2b: "00"}
colors:
  red: "#ff0000"
  ghost: "#ffffff80"
fonts:
  mono: {path: fonts/mono.ttf, size: 16}
defaults:
  font: mono
  color: red
  missing_texture: images/missing.png
`)},
		"scripts/hello.lua":  {Data: hello},
		"scripts/other.lua":  {Data: []byte("x")},
		"images/missing.png": {Data: []byte{0x89}},
		"images/player.png":  {Data: []byte{0x89}},
	}
}

func openTest(t *testing.T) (*Pack, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	p, err := Open(zap.New(core), testFS(), "manifest.yaml")
	require.NoError(t, err)
	return p, logs
}

func TestBytes(t *testing.T) {
	p, _ := openTest(t)

	b, err := p.Bytes("hello")
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", string(b))

	_, err = p.Bytes("images/player.png")
	assert.NoError(t, err)

	_, err = p.Bytes("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.Bytes("../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.Bytes("tampered")
	assert.ErrorIs(t, err, ErrDigest)
}

func TestFallbacks(t *testing.T) {
	p, logs := openTest(t)

	assert.Equal(t, Color{R: 255, A: 255}, p.Color("red"))
	assert.Equal(t, Color{R: 255, G: 255, B: 255, A: 128}, p.Color("ghost"))
	assert.Equal(t, Color{G: 255, A: 255}, p.Color("#00ff00"))
	assert.Equal(t, Color{R: 255, A: 255}, p.Color("chartreuse"))

	name, spec := p.Font("serif")
	assert.Equal(t, "mono", name)
	assert.Equal(t, 16, spec.Size)

	assert.Equal(t, "images/player.png", p.Texture("images/player.png"))
	assert.Equal(t, "images/missing.png", p.Texture("images/enemy.png"))
	assert.Equal(t, "images/missing.png", p.Texture("images/enemy.png"))

	assert.Equal(t, 1, logs.FilterMessage("color not found, using fallback").Len())
	assert.Equal(t, 1, logs.FilterMessage("font not found, using fallback").Len())
	assert.Equal(t, 1, logs.FilterMessage("texture not found, using fallback").Len())
}

func TestOpenRejectsBadPalette(t *testing.T) {
	fsys := fstest.MapFS{"m.yaml": {Data: []byte("colors:\n  bad: \"#xyz\"\n")}}
	_, err := Open(zap.NewNop(), fsys, "m.yaml")
	assert.Error(t, err)
}

func TestMapPack(t *testing.T) {
	m := MapPack{"a": []byte("1")}
	b, err := m.Bytes("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), b)
	_, err = m.Bytes("b")
	assert.ErrorIs(t, err, ErrNotFound)
}
