package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Item uses arrive from many player
// goroutines, so every call into the VM holds mu.
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Core helpers first, then feature scripts
	for _, sub := range []string{"core", "item"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// GateContext is the input of calc_empower_gates.
type GateContext struct {
	Tier            int
	IsWeapon        bool
	ItemClass       int
	UpgradeChance   int // configured percent
	DowngradeChance int // configured percent
}

// GateChances holds the percent chance of the upgrade and downgrade gates.
type GateChances struct {
	Upgrade   int
	Downgrade int
	Note      string // optional script annotation, logged by the caller
}

// CalcEmpowerGates calls Lua calc_empower_gates(ctx). A missing function or a
// script error yields the configured chances unchanged.
func (e *Engine) CalcEmpowerGates(ctx GateContext) GateChances {
	fallback := GateChances{Upgrade: ctx.UpgradeChance, Downgrade: ctx.DowngradeChance}

	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal("calc_empower_gates")
	if fn == lua.LNil {
		e.log.Error("lua function calc_empower_gates not found")
		return fallback
	}

	t := e.vm.NewTable()
	t.RawSetString("tier", lua.LNumber(ctx.Tier))
	t.RawSetString("is_weapon", lua.LBool(ctx.IsWeapon))
	t.RawSetString("item_class", lua.LNumber(ctx.ItemClass))
	t.RawSetString("upgrade_chance", lua.LNumber(ctx.UpgradeChance))
	t.RawSetString("downgrade_chance", lua.LNumber(ctx.DowngradeChance))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_empower_gates error", zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_empower_gates returned non-table")
		return fallback
	}

	return GateChances{
		Upgrade:   clampPct(lInt(rt, "upgrade")),
		Downgrade: clampPct(lInt(rt, "downgrade")),
		Note:      lStr(rt, "note"),
	}
}

func clampPct(v int) int {
	return min(max(v, 0), 100)
}

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close releases the VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}
