package world

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
)

// AddTagComponent gives id an empty, active tag list.
func (s *State) AddTagComponent(id ecs.EntityID) error {
	return attach(s, s.tags, KindTag, id, &component.Tag{Active: true})
}

func (s *State) RemoveTagComponent(id ecs.EntityID) error {
	_, err := detach(s, s.tags, KindTag, id)
	return err
}

// AddTag appends tag to id, creating the tag component when needed. Adding a
// tag the entity already carries is a no-op.
func (s *State) AddTag(id ecs.EntityID, tag string) error {
	t, ok := s.tags.Get(id)
	if !ok {
		if err := s.AddTagComponent(id); err != nil {
			return err
		}
		t, _ = s.tags.Get(id)
	}
	if !t.Active {
		s.log.Warn("cannot tag entity with inactive tag component", eid(id), zap.String("tag", tag))
		return fmt.Errorf("add tag %q: %w", tag, ErrInactive)
	}
	if len(tag) == 0 || len(tag) > component.MaxTagLength {
		s.log.Warn("tag length out of range", eid(id), zap.String("tag", tag),
			zap.Int("max", component.MaxTagLength))
		return fmt.Errorf("add tag %q: length must be 1..%d", tag, component.MaxTagLength)
	}
	if slices.Contains(t.Tags, tag) {
		return nil
	}
	if len(t.Tags) >= component.MaxTags {
		s.log.Warn("entity has too many tags", eid(id), zap.String("tag", tag))
		return fmt.Errorf("add tag %q: limit of %d reached", tag, component.MaxTags)
	}
	t.Tags = append(t.Tags, tag)
	return nil
}

// RemoveTag drops tag from id. The tag component goes away with its last tag.
func (s *State) RemoveTag(id ecs.EntityID, tag string) error {
	t, ok := s.tags.Get(id)
	if !ok {
		s.log.Warn("entity has no tag component", eid(id), zap.String("tag", tag))
		return fmt.Errorf("remove tag %q: %w", tag, ErrNoComponent)
	}
	i := slices.Index(t.Tags, tag)
	if i < 0 {
		s.log.Warn("entity does not carry tag", eid(id), zap.String("tag", tag))
		return fmt.Errorf("remove tag %q: not present", tag)
	}
	t.Tags = slices.Delete(t.Tags, i, i+1)
	if len(t.Tags) == 0 {
		return s.RemoveTagComponent(id)
	}
	return nil
}

// HasTag reports whether id carries tag on an active tag component.
func (s *State) HasTag(id ecs.EntityID, tag string) bool {
	t, ok := s.tags.Get(id)
	return ok && t.Active && slices.Contains(t.Tags, tag)
}

// FindByTag returns the most recently tagged entity carrying tag.
func (s *State) FindByTag(tag string) (ecs.EntityID, bool) {
	for _, id := range s.tags.IDs() {
		if s.HasTag(id, tag) {
			return id, true
		}
	}
	s.log.Debug("no entity with tag", zap.String("tag", tag))
	return 0, false
}

// ForMatchingTag calls fn once for every entity carrying tag. fn may add or
// remove tags and destroy entities, including the one it was called with;
// iteration then restarts from the head of the tag list, skipping entities
// already visited.
func (s *State) ForMatchingTag(tag string, fn func(ecs.EntityID)) {
	visited := make(map[ecs.EntityID]struct{})
	for {
		restarted := false
		for _, id := range s.tags.IDs() {
			if _, done := visited[id]; done {
				continue
			}
			if !s.HasTag(id, tag) {
				continue
			}
			visited[id] = struct{}{}
			v := s.tags.Version()
			fn(id)
			if s.tags.Version() != v {
				restarted = true
				break
			}
		}
		if !restarted {
			return
		}
	}
}
