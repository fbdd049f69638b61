package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityPoolSerialsAreMonotonic(t *testing.T) {
	p := NewEntityPool()

	a := p.Create()
	b := p.Create()
	assert.Equal(t, uint32(1), a.Serial())
	assert.Equal(t, uint32(2), b.Serial())
	assert.False(t, a.IsZero())

	assert.True(t, p.Destroy(a))
	c := p.Create()
	assert.NotEqual(t, a, c, "serials are not reused within an epoch")
	assert.Equal(t, uint32(3), c.Serial())
	assert.Equal(t, 2, p.Live())
}

func TestEntityPoolDoubleDestroy(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()

	assert.True(t, p.Destroy(a))
	assert.False(t, p.Destroy(a))
	assert.False(t, p.Alive(a))
	assert.Equal(t, 0, p.Live())
	assert.False(t, p.Alive(0))
}

func TestEntityPoolResetStartsNewEpoch(t *testing.T) {
	p := NewEntityPool()
	old := p.Create()
	p.Create()

	p.Reset()
	assert.Equal(t, 0, p.Live())
	assert.False(t, p.Alive(old))

	fresh := p.Create()
	assert.Equal(t, old.Serial(), fresh.Serial())
	assert.NotEqual(t, old, fresh)
	assert.Equal(t, uint32(1), fresh.Epoch())
}
