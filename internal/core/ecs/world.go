package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue drained at the end of each frame.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
	queued       map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
		queued:       make(map[EntityID]struct{}, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// DestroyEntity releases id and clears it from every registered store.
// It reports false for stale or unknown ids.
func (w *World) DestroyEntity(id EntityID) bool {
	if !w.pool.Destroy(id) {
		return false
	}
	w.registry.RemoveAll(id)
	return true
}

// MarkForDestruction queues an entity for end-of-frame cleanup.
// Queuing the same entity twice is a no-op.
func (w *World) MarkForDestruction(id EntityID) {
	if _, ok := w.queued[id]; ok {
		return
	}
	w.queued[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
}

// DrainDestroyQueue returns the queued entities in queue order and empties
// the queue. The caller performs the actual teardown.
func (w *World) DrainDestroyQueue() []EntityID {
	if len(w.destroyQueue) == 0 {
		return nil
	}
	ids := append([]EntityID(nil), w.destroyQueue...)
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.queued)
	return ids
}

// Reset clears every store, drops the destroy queue and starts a new epoch.
func (w *World) Reset() {
	w.registry.ClearAll()
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.queued)
	w.pool.Reset()
}
