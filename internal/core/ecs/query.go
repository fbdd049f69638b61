package ecs

// Each2 iterates over entities that have both component A and B, in the
// membership order of sa. Like Each it walks a snapshot, so fn may add or
// remove members of either store.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	for _, id := range sa.IDs() {
		a, ok := sa.data[id]
		if !ok {
			continue
		}
		if b, ok := sb.data[id]; ok {
			fn(id, a, b)
		}
	}
}
