package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// LuaGlobal is the name the platform table is bound to.
const LuaGlobal = "platform"

// InjectPlatformTable binds a read-only description of info to the
// LuaGlobal global of L. Config code can branch on it:
//
//	variant = platform.is_windows and "extended" or "standard"
//	root = platform.when(platform.is_linux, "/opt/godot")
//
// distro is nil outside Linux or when detection failed.
func InjectPlatformTable(L *lua.LState, info *Info) error {
	fields := map[string]lua.LValue{
		"os":         lua.LString(info.OS),
		"arch":       lua.LString(info.Arch),
		"arch_raw":   lua.LString(info.ArchRaw),
		"target":     lua.LString(info.Target().String()),
		"is_linux":   lua.LBool(info.IsLinux()),
		"is_macos":   lua.LBool(info.IsMacOS()),
		"is_windows": lua.LBool(info.IsWindows()),
		"is_64bit":   lua.LBool(info.Is64Bit()),
		"distro":     lua.LNil,
		"when":       L.NewFunction(luaWhen),
	}
	if d := info.GetDistro(); d != nil {
		distro := L.NewTable()
		distro.RawSetString("id", lua.LString(d.ID))
		distro.RawSetString("family", lua.LString(d.Family))
		distro.RawSetString("version", lua.LString(d.Version))
		fields["distro"] = makeReadOnly(L, distro)
	}

	table := L.NewTable()
	for name, value := range fields {
		table.RawSetString(name, value)
	}
	L.SetGlobal(LuaGlobal, makeReadOnly(L, table))
	return nil
}

// luaWhen implements platform.when(cond, value): value if cond, else nil.
func luaWhen(L *lua.LState) int {
	if L.CheckBool(1) {
		L.Push(L.Get(2))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// makeReadOnly returns an empty proxy that reads through to table and
// rejects writes. The metatable is locked against setmetatable.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	mt.RawSetString("__index", table)
	mt.RawSetString("__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))
	mt.RawSetString("__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
