package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
	Clear()
}

// PtrComponentStore is a generic typed store for ECS components.
// It keeps a map for O(1) lookups plus a membership list that fixes the
// iteration order: newest first, or ascending by less when the store is sorted.
type PtrComponentStore[T any] struct {
	data    map[EntityID]*T
	order   []EntityID
	less    func(a, b *T) bool
	version uint64
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		data:  make(map[EntityID]*T, 256),
		order: make([]EntityID, 0, 256),
	}
}

// NewSortedComponentStore keeps members ordered by less. A member inserted
// with a key equal to existing members goes after them.
func NewSortedComponentStore[T any](less func(a, b *T) bool) *PtrComponentStore[T] {
	s := NewPtrComponentStore[T]()
	s.less = less
	return s
}

// Add registers c for id. It reports false and leaves the store untouched
// when id already has a component of this kind.
func (s *PtrComponentStore[T]) Add(id EntityID, c *T) bool {
	if _, ok := s.data[id]; ok {
		return false
	}
	s.data[id] = c
	s.order = insertAt(s.order, s.position(c), id)
	s.version++
	return true
}

func (s *PtrComponentStore[T]) position(c *T) int {
	if s.less == nil {
		return 0
	}
	for i, id := range s.order {
		if s.less(c, s.data[id]) {
			return i
		}
	}
	return len(s.order)
}

func insertAt(ids []EntityID, i int, id EntityID) []EntityID {
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	if _, ok := s.data[id]; !ok {
		return
	}
	delete(s.data, id)
	for i, m := range s.order {
		if m == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.version++
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

// Version changes on every membership change.
func (s *PtrComponentStore[T]) Version() uint64 {
	return s.version
}

// IDs returns a copy of the membership list in iteration order.
func (s *PtrComponentStore[T]) IDs() []EntityID {
	return append([]EntityID(nil), s.order...)
}

// Each visits a snapshot of the membership list. Members removed by fn before
// they are reached are skipped; members added by fn are not visited.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.IDs() {
		if c, ok := s.data[id]; ok {
			fn(id, c)
		}
	}
}

// Resort re-establishes the sorted order after keys were mutated in place.
func (s *PtrComponentStore[T]) Resort() {
	if s.less == nil {
		return
	}
	ids := s.order
	s.order = make([]EntityID, 0, cap(ids))
	for _, id := range ids {
		s.order = insertAt(s.order, s.position(s.data[id]), id)
	}
	s.version++
}

func (s *PtrComponentStore[T]) Clear() {
	if len(s.order) == 0 {
		return
	}
	clear(s.data)
	s.order = s.order[:0]
	s.version++
}
