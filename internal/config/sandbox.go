package config

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are removed from every config VM. A config file may only
// compute values; it cannot reach the host, load other code, or tamper with
// the read-only platform table through raw access.
var blockedGlobals = []string{
	"os", "io", "debug",
	"require", "dofile", "loadfile", "load", "loadstring", "module",
	"rawset", "rawget", "rawequal", "setfenv", "getfenv",
	"collectgarbage",
}

// sandboxLuaVM strips blockedGlobals. string, table, math and the basic
// value helpers (type, tostring, pairs, ...) stay available.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
