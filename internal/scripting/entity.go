package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/yoyoengine/yoyogo/internal/component"
	"github.com/yoyoengine/yoyogo/internal/core/ecs"
	"github.com/yoyoengine/yoyogo/internal/physics"
	"github.com/yoyoengine/yoyogo/internal/world"
)

const entityTypeName = "Entity"

// newEntity wraps id in an Entity userdata. The id is validated on every
// method call, so a handle outliving its entity raises a Lua error instead of
// touching another entity.
func newEntity(L *lua.LState, id ecs.EntityID) lua.LValue {
	ud := L.NewUserData()
	ud.Value = id
	L.SetMetatable(ud, L.GetTypeMetatable(entityTypeName))
	return ud
}

// toEntity reads an Entity argument without checking liveness.
func toEntity(L *lua.LState, n int) ecs.EntityID {
	ud := L.CheckUserData(n)
	id, ok := ud.Value.(ecs.EntityID)
	if !ok {
		L.ArgError(n, "Entity expected")
	}
	return id
}

// checkEntity reads a live Entity argument.
func (h *Host) checkEntity(L *lua.LState, n int) ecs.EntityID {
	id := toEntity(L, n)
	if !h.world.Alive(id) {
		L.RaiseError("entity %d no longer exists", id.Serial())
	}
	return id
}

// result pushes true, or false plus the error message.
func result(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func optEntity(L *lua.LState, id ecs.EntityID, ok bool) int {
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(newEntity(L, id))
	return 1
}

func checkRect(L *lua.LState, n int) physics.Rect {
	return physics.Rect{
		X: float64(L.CheckNumber(n)),
		Y: float64(L.CheckNumber(n + 1)),
		W: float64(L.CheckNumber(n + 2)),
		H: float64(L.CheckNumber(n + 3)),
	}
}

func pushRect(L *lua.LState, r physics.Rect) int {
	L.Push(lua.LNumber(r.X))
	L.Push(lua.LNumber(r.Y))
	L.Push(lua.LNumber(r.W))
	L.Push(lua.LNumber(r.H))
	return 4
}

func kindByName(name string) (world.Kind, bool) {
	for _, k := range world.Kinds {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

func registerEntityType(L *lua.LState, h *Host) {
	mt := L.NewTypeMetatable(entityTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), h.entityMethods()))
	L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(toEntity(L, 1) == toEntity(L, 2)))
		return 1
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		id := toEntity(L, 1)
		L.Push(lua.LString(fmt.Sprintf("Entity(%d %q)", id.Serial(), h.world.Name(id))))
		return 1
	}))
}

func (h *Host) entityMethods() map[string]lua.LGFunction {
	w := h.world
	return map[string]lua.LGFunction{
		// identity
		"id": func(L *lua.LState) int {
			L.Push(lua.LNumber(toEntity(L, 1).Serial()))
			return 1
		},
		"alive": func(L *lua.LState) int {
			L.Push(lua.LBool(w.Alive(toEntity(L, 1))))
			return 1
		},
		"name": func(L *lua.LState) int {
			L.Push(lua.LString(w.Name(h.checkEntity(L, 1))))
			return 1
		},
		"rename": func(L *lua.LState) int {
			return result(L, w.Rename(h.checkEntity(L, 1), L.CheckString(2)))
		},
		"active": func(L *lua.LState) int {
			L.Push(lua.LBool(w.Active(h.checkEntity(L, 1))))
			return 1
		},
		"set_active": func(L *lua.LState) int {
			return result(L, w.SetActive(h.checkEntity(L, 1), L.CheckBool(2)))
		},
		"destroy": func(L *lua.LState) int {
			w.MarkForDestruction(h.checkEntity(L, 1))
			return 0
		},
		"duplicate": func(L *lua.LState) int {
			dup := w.Duplicate(h.checkEntity(L, 1))
			return optEntity(L, dup, !dup.IsZero())
		},
		"has": func(L *lua.LState) int {
			id := h.checkEntity(L, 1)
			k, ok := kindByName(L.CheckString(2))
			L.Push(lua.LBool(ok && w.Has(id, k)))
			return 1
		},
		"remove": func(L *lua.LState) int {
			id := h.checkEntity(L, 1)
			k, ok := kindByName(L.CheckString(2))
			if !ok {
				L.ArgError(2, "unknown component kind")
			}
			if sc, ok := w.Scripts().Get(id); ok && k == world.KindScript && sc.State == L {
				L.RaiseError("a script cannot remove itself, destroy the entity instead")
			}
			return result(L, w.Remove(id, k))
		},

		// transform
		"add_transform": func(L *lua.LState) int {
			id := h.checkEntity(L, 1)
			return result(L, w.AddTransform(id, float64(L.OptNumber(2, 0)), float64(L.OptNumber(3, 0))))
		},
		"position": func(L *lua.LState) int {
			t, ok := w.Transforms().Get(h.checkEntity(L, 1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(t.X))
			L.Push(lua.LNumber(t.Y))
			return 2
		},
		"set_position": func(L *lua.LState) int {
			t, ok := w.Transforms().Get(h.checkEntity(L, 1))
			if !ok {
				L.RaiseError("entity has no transform")
			}
			t.X, t.Y = float64(L.CheckNumber(2)), float64(L.CheckNumber(3))
			return 0
		},
		"translate": func(L *lua.LState) int {
			t, ok := w.Transforms().Get(h.checkEntity(L, 1))
			if !ok {
				L.RaiseError("entity has no transform")
			}
			t.X += float64(L.CheckNumber(2))
			t.Y += float64(L.CheckNumber(3))
			return 0
		},

		// physics
		"add_physics": func(L *lua.LState) int {
			id := h.checkEntity(L, 1)
			return result(L, w.AddPhysics(id, float64(L.OptNumber(2, 0)), float64(L.OptNumber(3, 0))))
		},
		"velocity": func(L *lua.LState) int {
			p, ok := w.PhysicsBodies().Get(h.checkEntity(L, 1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(p.Velocity.X))
			L.Push(lua.LNumber(p.Velocity.Y))
			return 2
		},
		"set_velocity": func(L *lua.LState) int {
			p, ok := w.PhysicsBodies().Get(h.checkEntity(L, 1))
			if !ok {
				L.RaiseError("entity has no physics component")
			}
			p.Velocity = physics.Vec2{X: float64(L.CheckNumber(2)), Y: float64(L.CheckNumber(3))}
			return 0
		},
		"rotational_velocity": func(L *lua.LState) int {
			p, ok := w.PhysicsBodies().Get(h.checkEntity(L, 1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(p.RotationalVelocity))
			return 1
		},
		"set_rotational_velocity": func(L *lua.LState) int {
			p, ok := w.PhysicsBodies().Get(h.checkEntity(L, 1))
			if !ok {
				L.RaiseError("entity has no physics component")
			}
			p.RotationalVelocity = float64(L.CheckNumber(2))
			return 0
		},

		// collider
		"add_collider": func(L *lua.LState) int {
			id := h.checkEntity(L, 1)
			rect := checkRect(L, 2)
			trigger := L.OptBool(6, false)
			relative := L.OptBool(7, true)
			if trigger {
				return result(L, w.AddTriggerCollider(id, rect, relative))
			}
			return result(L, w.AddStaticCollider(id, rect, relative))
		},
		"collider": func(L *lua.LState) int {
			r, ok := w.Position(h.checkEntity(L, 1), world.KindCollider)
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			return pushRect(L, r)
		},
		"set_collider_active": func(L *lua.LState) int {
			c, ok := w.Colliders().Get(h.checkEntity(L, 1))
			if !ok {
				L.RaiseError("entity has no collider")
			}
			c.Active = L.CheckBool(2)
			return 0
		},

		// tags
		"add_tag": func(L *lua.LState) int {
			return result(L, w.AddTag(h.checkEntity(L, 1), L.CheckString(2)))
		},
		"remove_tag": func(L *lua.LState) int {
			return result(L, w.RemoveTag(h.checkEntity(L, 1), L.CheckString(2)))
		},
		"has_tag": func(L *lua.LState) int {
			L.Push(lua.LBool(w.HasTag(h.checkEntity(L, 1), L.CheckString(2))))
			return 1
		},

		// renderer
		"add_image": func(L *lua.LState) int {
			id := h.checkEntity(L, 1)
			src := L.CheckString(2)
			z := L.CheckInt(3)
			return result(L, w.AddRenderer(id, z, checkRect(L, 4), &component.ImageRenderer{Src: src}))
		},
		"add_text": func(L *lua.LState) int {
			id := h.checkEntity(L, 1)
			impl := &component.TextRenderer{
				Text:  L.CheckString(2),
				Font:  L.CheckString(3),
				Color: L.CheckString(4),
			}
			z := L.CheckInt(5)
			return result(L, w.AddRenderer(id, z, checkRect(L, 6), impl))
		},
		"set_text": func(L *lua.LState) int {
			r, ok := w.Renderers().Get(h.checkEntity(L, 1))
			if !ok {
				L.RaiseError("entity has no renderer")
			}
			switch impl := r.Impl.(type) {
			case *component.TextRenderer:
				impl.Text = L.CheckString(2)
			case *component.TextOutlinedRenderer:
				impl.Text = L.CheckString(2)
			default:
				L.RaiseError("renderer is not a text renderer")
			}
			return 0
		},
		"rotation": func(L *lua.LState) int {
			r, ok := w.Renderers().Get(h.checkEntity(L, 1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(r.Rotation))
			return 1
		},
		"set_rotation": func(L *lua.LState) int {
			r, ok := w.Renderers().Get(h.checkEntity(L, 1))
			if !ok {
				L.RaiseError("entity has no renderer")
			}
			r.Rotation = physics.WrapDegrees(float64(L.CheckNumber(2)))
			return 0
		},
		"set_alpha": func(L *lua.LState) int {
			r, ok := w.Renderers().Get(h.checkEntity(L, 1))
			if !ok {
				L.RaiseError("entity has no renderer")
			}
			a := L.CheckInt(2)
			if a < 0 || a > 255 {
				L.ArgError(2, "alpha must be 0..255")
			}
			r.Alpha = uint8(a)
			return 0
		},
		"set_flip": func(L *lua.LState) int {
			r, ok := w.Renderers().Get(h.checkEntity(L, 1))
			if !ok {
				L.RaiseError("entity has no renderer")
			}
			r.FlipX, r.FlipY = L.CheckBool(2), L.CheckBool(3)
			return 0
		},
		"set_z": func(L *lua.LState) int {
			return result(L, w.SetRendererZ(h.checkEntity(L, 1), L.CheckInt(2)))
		},

		// camera
		"add_camera": func(L *lua.LState) int {
			id := h.checkEntity(L, 1)
			z := L.CheckInt(2)
			return result(L, w.AddCamera(id, z, checkRect(L, 3)))
		},

		// button
		"add_button": func(L *lua.LState) int {
			return result(L, w.AddButton(h.checkEntity(L, 1), checkRect(L, 2)))
		},
		"clicked": func(L *lua.LState) int {
			b, ok := w.Buttons().Get(h.checkEntity(L, 1))
			L.Push(lua.LBool(ok && b.Clicked))
			return 1
		},
		"hovered": func(L *lua.LState) int {
			b, ok := w.Buttons().Get(h.checkEntity(L, 1))
			L.Push(lua.LBool(ok && b.Hovered))
			return 1
		},
		"pressed": func(L *lua.LState) int {
			b, ok := w.Buttons().Get(h.checkEntity(L, 1))
			L.Push(lua.LBool(ok && b.Pressed))
			return 1
		},

		// audio
		"add_audio": func(L *lua.LState) int {
			id := h.checkEntity(L, 1)
			t := L.CheckTable(2)
			opts := world.AudioSourceOptions{
				Handle:      lua.LVAsString(t.RawGetString("handle")),
				Volume:      1,
				PlayOnAwake: lua.LVAsBool(t.RawGetString("play_on_awake")),
				Simulated:   lua.LVAsBool(t.RawGetString("simulated")),
			}
			if v, ok := t.RawGetString("volume").(lua.LNumber); ok {
				opts.Volume = float64(v)
			}
			if v, ok := t.RawGetString("loops").(lua.LNumber); ok {
				opts.Loops = int(v)
			}
			if r, ok := t.RawGetString("range").(*lua.LTable); ok {
				opts.Range = physics.Rect{
					X: float64(lua.LVAsNumber(r.RawGetInt(1))),
					Y: float64(lua.LVAsNumber(r.RawGetInt(2))),
					W: float64(lua.LVAsNumber(r.RawGetInt(3))),
					H: float64(lua.LVAsNumber(r.RawGetInt(4))),
				}
			}
			if opts.Handle == "" {
				L.ArgError(2, "handle is required")
			}
			return result(L, w.AddAudioSource(id, opts))
		},
		"play": func(L *lua.LState) int {
			return result(L, w.PlayAudio(h.checkEntity(L, 1)))
		},
		"pause": func(L *lua.LState) int {
			return result(L, w.PauseAudio(h.checkEntity(L, 1)))
		},

		// script
		"add_script": func(L *lua.LState) int {
			return result(L, w.AddScript(h.checkEntity(L, 1), L.CheckString(2)))
		},
	}
}
