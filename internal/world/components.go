package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/physics"
)

// attach adds c to store after checking the entity is alive and does not
// already own a component of this kind. Failures are logged and returned.
func attach[T any](s *State, store *ecs.PtrComponentStore[T], kind Kind, id ecs.EntityID, c *T) error {
	if !s.ecs.Alive(id) {
		s.log.Error("cannot add component to unknown entity", zap.Stringer("kind", kind), eid(id))
		return fmt.Errorf("add %s: %w", kind, ErrNoEntity)
	}
	if !store.Add(id, c) {
		s.log.Error("entity already has component", zap.Stringer("kind", kind), eid(id))
		return fmt.Errorf("add %s: %w", kind, ErrDuplicateComponent)
	}
	return nil
}

func detach[T any](s *State, store *ecs.PtrComponentStore[T], kind Kind, id ecs.EntityID) (*T, error) {
	c, ok := store.Get(id)
	if !ok {
		s.log.Warn("entity has no component to remove", zap.Stringer("kind", kind), eid(id))
		return nil, fmt.Errorf("remove %s: %w", kind, ErrNoComponent)
	}
	store.Remove(id)
	return c, nil
}

// Has reports whether id owns a component of the given kind.
func (s *State) Has(id ecs.EntityID, kind Kind) bool {
	switch kind {
	case KindTransform:
		return s.transforms.Has(id)
	case KindPhysics:
		return s.physics.Has(id)
	case KindCollider:
		return s.colliders.Has(id)
	case KindCamera:
		return s.cameras.Has(id)
	case KindRenderer:
		return s.renderers.Has(id)
	case KindTag:
		return s.tags.Has(id)
	case KindAudioSource:
		return s.audioSources.Has(id)
	case KindScript:
		return s.scripts.Has(id)
	case KindButton:
		return s.buttons.Has(id)
	}
	return false
}

// Remove detaches the component of the given kind, releasing whatever
// runtime resources it holds.
func (s *State) Remove(id ecs.EntityID, kind Kind) error {
	switch kind {
	case KindTransform:
		return s.RemoveTransform(id)
	case KindPhysics:
		return s.RemovePhysics(id)
	case KindCollider:
		return s.RemoveCollider(id)
	case KindCamera:
		return s.RemoveCamera(id)
	case KindRenderer:
		return s.RemoveRenderer(id)
	case KindTag:
		return s.RemoveTagComponent(id)
	case KindAudioSource:
		return s.RemoveAudioSource(id)
	case KindScript:
		return s.RemoveScript(id)
	case KindButton:
		return s.RemoveButton(id)
	}
	return fmt.Errorf("remove %s: %w", kind, ErrNoComponent)
}

func (s *State) AddTransform(id ecs.EntityID, x, y float64) error {
	return attach(s, s.transforms, KindTransform, id, &component.Transform{X: x, Y: y})
}

func (s *State) RemoveTransform(id ecs.EntityID) error {
	_, err := detach(s, s.transforms, KindTransform, id)
	return err
}

// AddPhysics gives id a velocity in pixels per second.
func (s *State) AddPhysics(id ecs.EntityID, vx, vy float64) error {
	return attach(s, s.physics, KindPhysics, id, &component.Physics{
		Active:   true,
		Velocity: physics.Vec2{X: vx, Y: vy},
	})
}

func (s *State) RemovePhysics(id ecs.EntityID) error {
	_, err := detach(s, s.physics, KindPhysics, id)
	return err
}

// AddStaticCollider adds a solid box. A relative rect is offset by the
// entity's Transform.
func (s *State) AddStaticCollider(id ecs.EntityID, rect physics.Rect, relative bool) error {
	return attach(s, s.colliders, KindCollider, id, &component.Collider{
		Active:   true,
		Relative: relative,
		Rect:     rect,
	})
}

// AddTriggerCollider adds a box that reports overlaps without blocking.
func (s *State) AddTriggerCollider(id ecs.EntityID, rect physics.Rect, relative bool) error {
	return attach(s, s.colliders, KindCollider, id, &component.Collider{
		Active:    true,
		Relative:  relative,
		Rect:      rect,
		IsTrigger: true,
	})
}

func (s *State) RemoveCollider(id ecs.EntityID) error {
	_, err := detach(s, s.colliders, KindCollider, id)
	return err
}

// AddCamera adds a camera whose view field follows the entity's Transform.
func (s *State) AddCamera(id ecs.EntityID, z int, view physics.Rect) error {
	return attach(s, s.cameras, KindCamera, id, &component.Camera{
		Active:    true,
		Relative:  true,
		Z:         z,
		ViewField: view,
	})
}

func (s *State) RemoveCamera(id ecs.EntityID) error {
	if _, err := detach(s, s.cameras, KindCamera, id); err != nil {
		return err
	}
	if id == s.targetCamera {
		s.targetCamera = 0
	}
	return nil
}

// AddRenderer adds an opaque, transform-relative renderer of the kind impl
// describes.
func (s *State) AddRenderer(id ecs.EntityID, z int, rect physics.Rect, impl component.RendererImpl) error {
	if impl == nil {
		s.log.Error("renderer needs an implementation", eid(id))
		return fmt.Errorf("add %s: nil implementation", KindRenderer)
	}
	return attach(s, s.renderers, KindRenderer, id, &component.Renderer{
		Active:   true,
		Relative: true,
		Rect:     rect,
		Z:        z,
		Alpha:    255,
		Impl:     impl,
	})
}

func (s *State) RemoveRenderer(id ecs.EntityID) error {
	_, err := detach(s, s.renderers, KindRenderer, id)
	return err
}

// SetRendererZ changes the paint layer of id and re-sorts the renderer list.
func (s *State) SetRendererZ(id ecs.EntityID, z int) error {
	r, ok := s.renderers.Get(id)
	if !ok {
		s.log.Warn("entity has no renderer", eid(id))
		return fmt.Errorf("set z: %w", ErrNoComponent)
	}
	if r.Z == z {
		return nil
	}
	r.Z = z
	s.renderers.Resort()
	return nil
}

func (s *State) AddButton(id ecs.EntityID, rect physics.Rect) error {
	return attach(s, s.buttons, KindButton, id, &component.Button{
		Active:   true,
		Relative: true,
		Rect:     rect,
	})
}

func (s *State) RemoveButton(id ecs.EntityID) error {
	_, err := detach(s, s.buttons, KindButton, id)
	return err
}

// AudioSourceOptions configures AddAudioSource.
type AudioSourceOptions struct {
	Handle      string
	Volume      float64
	PlayOnAwake bool
	Loops       int
	Simulated   bool
	Range       physics.Rect
}

// AddAudioSource adds a sound emitter. The audio system starts it on its next
// update when PlayOnAwake is set.
func (s *State) AddAudioSource(id ecs.EntityID, opts AudioSourceOptions) error {
	return attach(s, s.audioSources, KindAudioSource, id, &component.AudioSource{
		Active:      true,
		Simulated:   opts.Simulated,
		Relative:    true,
		PlayOnAwake: opts.PlayOnAwake,
		Handle:      opts.Handle,
		Volume:      opts.Volume,
		Range:       opts.Range,
		Loops:       opts.Loops,
		Channel:     component.NoChannel,
		Playing:     opts.PlayOnAwake,
	})
}

func (s *State) RemoveAudioSource(id ecs.EntityID) error {
	src, err := detach(s, s.audioSources, KindAudioSource, id)
	if err != nil {
		return err
	}
	s.releaseChannel(src)
	return nil
}

// PlayAudio asks the audio system to start id's source on its next update.
func (s *State) PlayAudio(id ecs.EntityID) error {
	src, ok := s.audioSources.Get(id)
	if !ok {
		s.log.Warn("entity has no audio source", eid(id))
		return fmt.Errorf("play: %w", ErrNoComponent)
	}
	src.Playing = true
	return nil
}

// PauseAudio stops id's source and frees its channel.
func (s *State) PauseAudio(id ecs.EntityID) error {
	src, ok := s.audioSources.Get(id)
	if !ok {
		s.log.Warn("entity has no audio source", eid(id))
		return fmt.Errorf("pause: %w", ErrNoComponent)
	}
	src.Playing = false
	s.releaseChannel(src)
	return nil
}

func (s *State) releaseChannel(src *component.AudioSource) {
	if src.Channel == component.NoChannel {
		return
	}
	if s.audio != nil {
		s.audio.Stop(src.Channel)
	}
	src.Channel = component.NoChannel
}

// AddScript loads handle through the attached runtime and mounts it.
func (s *State) AddScript(id ecs.EntityID, handle string) error {
	if !s.ecs.Alive(id) {
		s.log.Error("cannot add component to unknown entity", zap.Stringer("kind", KindScript), eid(id))
		return fmt.Errorf("add %s: %w", KindScript, ErrNoEntity)
	}
	if s.scripts.Has(id) {
		s.log.Error("entity already has component", zap.Stringer("kind", KindScript), eid(id))
		return fmt.Errorf("add %s: %w", KindScript, ErrDuplicateComponent)
	}
	if s.runtime == nil {
		s.log.Error("cannot load script without a runtime", zap.String("handle", handle), eid(id))
		return fmt.Errorf("add %s: %w", KindScript, ErrNoRuntime)
	}
	sc, err := s.runtime.Load(id, handle)
	if err != nil {
		s.log.Error("failed to load script", zap.String("handle", handle), eid(id), zap.Error(err))
		return fmt.Errorf("add %s: %w", KindScript, err)
	}
	s.scripts.Add(id, sc)
	s.runtime.Mount(id, sc)
	return nil
}

// RemoveScript runs the script's unmount function and closes its state.
func (s *State) RemoveScript(id ecs.EntityID) error {
	sc, err := detach(s, s.scripts, KindScript, id)
	if err != nil {
		return err
	}
	if s.runtime != nil {
		s.runtime.Unmount(id, sc)
	}
	return nil
}
