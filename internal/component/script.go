package component

import lua "github.com/yuin/gopher-lua"

// Script binds one Lua state to one entity. The Has* flags record which
// lifecycle functions the loaded script defines.
type Script struct {
	Active bool
	Handle string
	State  *lua.LState

	HasOnMount        bool
	HasOnUpdate       bool
	HasOnUnmount      bool
	HasOnCollision    bool
	HasOnTriggerEnter bool
}
