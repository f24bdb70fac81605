package stage

import (
	"context"
	"strings"
	"time"

	"github.com/flarebyte/ssr/internal/ssr"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

const defaultLuaTimeoutMs = 2000

// Base functions that reach the filesystem or load code are removed.
var luaBlockedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "module", "require"}

func luaTimeoutFromMeta(meta *Meta) time.Duration {
	ms := defaultLuaTimeoutMs
	if meta != nil && meta.Lua != nil && meta.Lua.TimeoutMs > 0 {
		ms = meta.Lua.TimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}

func newSandboxLuaState(ctx context.Context) *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:     true,
		RegistrySize:     256,
		RegistryMaxSize:  4096,
		RegistryGrowStep: 32,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	openLib(lua.BaseLibName, lua.OpenBase)
	openLib(lua.StringLibName, lua.OpenString)
	openLib(lua.TabLibName, lua.OpenTable)
	openLib(lua.MathLibName, lua.OpenMath)
	for _, name := range luaBlockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetContext(ctx)
	return L
}

// buildLuaPredicate turns an expression into a chunk returning its value.
// Code that does not parse as an expression is used as a chunk as-is.
func buildLuaPredicate(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "return true"
	}
	wrapped := "return (" + code + ")"
	if parsesAsChunk(wrapped) {
		return wrapped
	}
	return code
}

func parsesAsChunk(src string) bool {
	_, err := parse.Parse(strings.NewReader(src), "<where>")
	return err == nil
}

func recordTable(L *lua.LState, rec ssr.Record) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("name", lua.LString(rec.Name))
	tbl.RawSetString("description", lua.LString(rec.Description))
	tbl.RawSetString("key", lua.LString(rec.Key))
	tbl.RawSetString("url", lua.LString(rec.URL))
	return tbl
}

// evalLuaPredicate runs fn with the record and environment exposed as
// globals and reports whether the result is truthy.
func evalLuaPredicate(L *lua.LState, fn *lua.LFunction, rec ssr.Record, env string) (bool, error) {
	L.SetGlobal("record", recordTable(L, rec))
	L.SetGlobal("env", lua.LString(env))
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return false, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return lua.LVAsBool(ret), nil
}
