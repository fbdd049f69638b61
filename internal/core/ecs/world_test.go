package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorldDestroyClearsStores(t *testing.T) {
	w := NewWorld()
	s := NewPtrComponentStore[depth]()
	w.Registry().Register(s)

	id := w.CreateEntity()
	s.Add(id, &depth{})

	assert.True(t, w.DestroyEntity(id))
	assert.False(t, s.Has(id))
	assert.False(t, w.DestroyEntity(id))
}

func TestWorldDestroyQueueDedupes(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()

	w.MarkForDestruction(a)
	w.MarkForDestruction(b)
	w.MarkForDestruction(a)

	assert.Equal(t, []EntityID{a, b}, w.DrainDestroyQueue())
	assert.Nil(t, w.DrainDestroyQueue())
}

func TestWorldReset(t *testing.T) {
	w := NewWorld()
	s := NewPtrComponentStore[depth]()
	w.Registry().Register(s)
	id := w.CreateEntity()
	s.Add(id, &depth{})
	w.MarkForDestruction(id)

	w.Reset()

	assert.Equal(t, 0, s.Len())
	assert.False(t, w.Alive(id))
	assert.Nil(t, w.DrainDestroyQueue())
}
