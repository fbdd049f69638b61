package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
)

// Entity is the registry record of a live entity.
type Entity struct {
	ID     ecs.EntityID
	Name   string
	Active bool
}

// ScriptRuntime owns the Lua side of script components. Load builds the
// component for handle without running anything; Mount and Unmount run the
// script's lifecycle functions.
type ScriptRuntime interface {
	Load(id ecs.EntityID, handle string) (*component.Script, error)
	Mount(id ecs.EntityID, sc *component.Script)
	Unmount(id ecs.EntityID, sc *component.Script)
}

// ChannelStopper releases mixer channels held by audio sources.
type ChannelStopper interface {
	Stop(channel int)
}

// purgePasses bounds how often Purge re-walks the registry when unmount
// callbacks keep spawning entities.
const purgePasses = 8

// State owns the entity registry and every component store.
// Accessed only from the frame loop goroutine, so there are no locks.
type State struct {
	log *zap.Logger
	ecs *ecs.World

	entities     *ecs.PtrComponentStore[Entity]
	transforms   *ecs.PtrComponentStore[component.Transform]
	physics      *ecs.PtrComponentStore[component.Physics]
	colliders    *ecs.PtrComponentStore[component.Collider]
	cameras      *ecs.PtrComponentStore[component.Camera]
	renderers    *ecs.PtrComponentStore[component.Renderer]
	tags         *ecs.PtrComponentStore[component.Tag]
	audioSources *ecs.PtrComponentStore[component.AudioSource]
	scripts      *ecs.PtrComponentStore[component.Script]
	buttons      *ecs.PtrComponentStore[component.Button]

	runtime ScriptRuntime
	audio   ChannelStopper

	targetCamera ecs.EntityID
}

func NewState(log *zap.Logger) *State {
	s := &State{
		log:          log,
		ecs:          ecs.NewWorld(),
		entities:     ecs.NewPtrComponentStore[Entity](),
		transforms:   ecs.NewPtrComponentStore[component.Transform](),
		physics:      ecs.NewPtrComponentStore[component.Physics](),
		colliders:    ecs.NewPtrComponentStore[component.Collider](),
		cameras:      ecs.NewPtrComponentStore[component.Camera](),
		renderers:    ecs.NewSortedComponentStore(func(a, b *component.Renderer) bool { return a.Z < b.Z }),
		tags:         ecs.NewPtrComponentStore[component.Tag](),
		audioSources: ecs.NewPtrComponentStore[component.AudioSource](),
		scripts:      ecs.NewPtrComponentStore[component.Script](),
		buttons:      ecs.NewPtrComponentStore[component.Button](),
	}
	reg := s.ecs.Registry()
	reg.Register(s.entities)
	reg.Register(s.transforms)
	reg.Register(s.physics)
	reg.Register(s.colliders)
	reg.Register(s.cameras)
	reg.Register(s.renderers)
	reg.Register(s.tags)
	reg.Register(s.audioSources)
	reg.Register(s.scripts)
	reg.Register(s.buttons)
	log.Info("initialized ECS")
	return s
}

// SetScriptRuntime attaches the runtime used by AddScript and Destroy.
func (s *State) SetScriptRuntime(r ScriptRuntime) { s.runtime = r }

// SetChannelStopper attaches the mixer used to release audio channels.
func (s *State) SetChannelStopper(a ChannelStopper) { s.audio = a }

func (s *State) Entities() *ecs.PtrComponentStore[Entity]                    { return s.entities }
func (s *State) Transforms() *ecs.PtrComponentStore[component.Transform]     { return s.transforms }
func (s *State) PhysicsBodies() *ecs.PtrComponentStore[component.Physics]    { return s.physics }
func (s *State) Colliders() *ecs.PtrComponentStore[component.Collider]       { return s.colliders }
func (s *State) Cameras() *ecs.PtrComponentStore[component.Camera]           { return s.cameras }
func (s *State) Renderers() *ecs.PtrComponentStore[component.Renderer]       { return s.renderers }
func (s *State) Tags() *ecs.PtrComponentStore[component.Tag]                 { return s.tags }
func (s *State) AudioSources() *ecs.PtrComponentStore[component.AudioSource] { return s.audioSources }
func (s *State) Scripts() *ecs.PtrComponentStore[component.Script]           { return s.scripts }
func (s *State) Buttons() *ecs.PtrComponentStore[component.Button]           { return s.buttons }

// Count returns the number of live entities.
func (s *State) Count() int { return s.ecs.Pool().Live() }

// Alive reports whether id refers to a live entity of the current epoch.
func (s *State) Alive(id ecs.EntityID) bool { return s.ecs.Alive(id) }

func eid(id ecs.EntityID) zap.Field { return zap.Uint32("entity", id.Serial()) }

// Create adds an active entity named after its serial.
func (s *State) Create() ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.entities.Add(id, &Entity{ID: id, Name: fmt.Sprintf("entity %d", id.Serial()), Active: true})
	return id
}

// CreateNamed adds an active entity with the given name.
func (s *State) CreateNamed(name string) ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.entities.Add(id, &Entity{ID: id, Name: name, Active: true})
	return id
}

// Destroy removes id and all of its components. The entity is detached from
// every store before script and audio resources are released, so unmount
// callbacks that destroy it again are no-ops.
func (s *State) Destroy(id ecs.EntityID) {
	sc, hasScript := s.scripts.Get(id)
	src, hasAudio := s.audioSources.Get(id)
	if !s.ecs.DestroyEntity(id) {
		s.log.Warn("attempted to destroy unknown entity", eid(id))
		return
	}
	if id == s.targetCamera {
		s.targetCamera = 0
	}
	if hasAudio && src.Channel != component.NoChannel && s.audio != nil {
		s.audio.Stop(src.Channel)
	}
	if hasScript && s.runtime != nil {
		s.runtime.Unmount(id, sc)
	}
}

// MarkForDestruction defers Destroy to FlushDestroyQueue. Scripts use it so
// the entity survives until the current frame's systems finish.
func (s *State) MarkForDestruction(id ecs.EntityID) {
	if !s.ecs.Alive(id) {
		return
	}
	s.ecs.MarkForDestruction(id)
}

// FlushDestroyQueue destroys every entity marked since the last flush and
// returns how many were still alive.
func (s *State) FlushDestroyQueue() int {
	n := 0
	for _, id := range s.ecs.DrainDestroyQueue() {
		if s.ecs.Alive(id) {
			s.Destroy(id)
			n++
		}
	}
	return n
}

// Purge destroys every entity, then starts a new registry epoch so ids taken
// before the purge never resolve again.
func (s *State) Purge() {
	for pass := 0; s.entities.Len() > 0; pass++ {
		if pass == purgePasses {
			s.log.Warn("entities still spawning during purge, discarding",
				zap.Int("remaining", s.entities.Len()))
			break
		}
		for _, id := range s.entities.IDs() {
			if s.ecs.Alive(id) {
				s.Destroy(id)
			}
		}
	}
	s.ecs.Reset()
	s.targetCamera = 0
	s.log.Info("purged ECS", zap.Uint32("epoch", s.ecs.Pool().Epoch()))
}

// Duplicate copies id and every component it owns into a new entity named
// "<name> copy". Runtime state (mixer channel, button presses, animation
// progress) is not carried over, and a copied script is mounted afresh.
func (s *State) Duplicate(id ecs.EntityID) ecs.EntityID {
	src, ok := s.entities.Get(id)
	if !ok {
		s.log.Warn("attempted to duplicate unknown entity", eid(id))
		return 0
	}
	dup := s.CreateNamed(src.Name + " copy")
	rec, _ := s.entities.Get(dup)
	rec.Active = src.Active

	if c, ok := s.transforms.Get(id); ok {
		cp := *c
		s.transforms.Add(dup, &cp)
	}
	if c, ok := s.physics.Get(id); ok {
		cp := *c
		s.physics.Add(dup, &cp)
	}
	if c, ok := s.colliders.Get(id); ok {
		cp := *c
		s.colliders.Add(dup, &cp)
	}
	if c, ok := s.cameras.Get(id); ok {
		cp := *c
		s.cameras.Add(dup, &cp)
	}
	if c, ok := s.renderers.Get(id); ok {
		cp := *c
		if c.Impl != nil {
			cp.Impl = c.Impl.Clone()
		}
		if a, ok := cp.Impl.(*component.AnimationRenderer); ok {
			a.Rewind()
		}
		s.renderers.Add(dup, &cp)
	}
	if c, ok := s.tags.Get(id); ok {
		s.tags.Add(dup, &component.Tag{Active: c.Active, Tags: append([]string(nil), c.Tags...)})
	}
	if c, ok := s.buttons.Get(id); ok {
		s.buttons.Add(dup, &component.Button{Active: c.Active, Relative: c.Relative, Rect: c.Rect})
	}
	if c, ok := s.audioSources.Get(id); ok {
		cp := *c
		cp.Channel = component.NoChannel
		cp.Playing = cp.PlayOnAwake
		s.audioSources.Add(dup, &cp)
	}
	if c, ok := s.scripts.Get(id); ok {
		if err := s.AddScript(dup, c.Handle); err == nil {
			if sc, ok := s.scripts.Get(dup); ok {
				sc.Active = c.Active
			}
		}
	}
	return dup
}

// Entity returns the registry record for id.
func (s *State) Entity(id ecs.EntityID) (*Entity, bool) {
	return s.entities.Get(id)
}

// FindByID resolves id against the current epoch.
func (s *State) FindByID(id ecs.EntityID) (ecs.EntityID, bool) {
	if !s.ecs.Alive(id) {
		s.log.Debug("no entity with id", eid(id))
		return 0, false
	}
	return id, true
}

// FindBySerial resolves a bare serial within the current epoch.
func (s *State) FindBySerial(serial uint32) (ecs.EntityID, bool) {
	return s.FindByID(ecs.NewEntityID(serial, s.ecs.Pool().Epoch()))
}

// FindByName returns the most recently created entity with the given name.
func (s *State) FindByName(name string) (ecs.EntityID, bool) {
	for _, id := range s.entities.IDs() {
		if e, ok := s.entities.Get(id); ok && e.Name == name {
			return id, true
		}
	}
	s.log.Debug("no entity with name", zap.String("name", name))
	return 0, false
}

// Name returns the entity's name, or "" for dead ids.
func (s *State) Name(id ecs.EntityID) string {
	if e, ok := s.entities.Get(id); ok {
		return e.Name
	}
	return ""
}

func (s *State) Rename(id ecs.EntityID, name string) error {
	e, ok := s.entities.Get(id)
	if !ok {
		s.log.Warn("attempted to rename unknown entity", eid(id))
		return fmt.Errorf("rename: %w", ErrNoEntity)
	}
	e.Name = name
	return nil
}

// Active reports the entity-level active flag. Dead ids are inactive.
func (s *State) Active(id ecs.EntityID) bool {
	e, ok := s.entities.Get(id)
	return ok && e.Active
}

func (s *State) SetActive(id ecs.EntityID, active bool) error {
	e, ok := s.entities.Get(id)
	if !ok {
		s.log.Warn("attempted to toggle unknown entity", eid(id))
		return fmt.Errorf("set active: %w", ErrNoEntity)
	}
	e.Active = active
	return nil
}

// SetTargetCamera selects the camera rendering and spatial audio use.
func (s *State) SetTargetCamera(id ecs.EntityID) error {
	if !s.cameras.Has(id) {
		s.log.Error("target camera has no camera component", eid(id))
		return fmt.Errorf("set target camera: %w", ErrNoComponent)
	}
	s.targetCamera = id
	return nil
}

// TargetCamera returns the selected camera entity, or 0 when none is set.
func (s *State) TargetCamera() ecs.EntityID { return s.targetCamera }
