package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeScript(t *testing.T, dir, sub, name, body string) {
	t.Helper()
	p := filepath.Join(dir, sub)
	require.NoError(t, os.MkdirAll(p, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p, name), []byte(body), 0o644))
}

func TestCalcEmpowerGates_ShippedScript(t *testing.T) {
	e, err := NewEngine("../../scripts", zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	got := e.CalcEmpowerGates(GateContext{Tier: 12, IsWeapon: true, UpgradeChance: 2, DowngradeChance: 25})
	assert.Equal(t, 2, got.Upgrade)
	assert.Equal(t, 25, got.Downgrade)

	got = e.CalcEmpowerGates(GateContext{Tier: 0, UpgradeChance: 2, DowngradeChance: 25})
	assert.Equal(t, 0, got.Downgrade, "untiered items skip the downgrade gate")
}

func TestCalcEmpowerGates_ScriptOverridesAndClamps(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "item", "gates.lua", `
function calc_empower_gates(ctx)
    if ctx.is_weapon then
        return { upgrade = 150, downgrade = -3, note = "weapon" }
    end
    return { upgrade = ctx.upgrade_chance * 2, downgrade = ctx.downgrade_chance }
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	got := e.CalcEmpowerGates(GateContext{Tier: 5, IsWeapon: true, UpgradeChance: 2, DowngradeChance: 25})
	assert.Equal(t, GateChances{Upgrade: 100, Downgrade: 0, Note: "weapon"}, got)

	got = e.CalcEmpowerGates(GateContext{Tier: 5, UpgradeChance: 2, DowngradeChance: 25})
	assert.Equal(t, GateChances{Upgrade: 4, Downgrade: 25}, got)
}

func TestCalcEmpowerGates_Fallbacks(t *testing.T) {
	t.Run("missing function", func(t *testing.T) {
		e, err := NewEngine(t.TempDir(), zap.NewNop())
		require.NoError(t, err)
		defer e.Close()
		got := e.CalcEmpowerGates(GateContext{UpgradeChance: 2, DowngradeChance: 25})
		assert.Equal(t, GateChances{Upgrade: 2, Downgrade: 25}, got)
	})

	t.Run("runtime error", func(t *testing.T) {
		dir := t.TempDir()
		writeScript(t, dir, "item", "gates.lua", `function calc_empower_gates(ctx) error("boom") end`)
		e, err := NewEngine(dir, zap.NewNop())
		require.NoError(t, err)
		defer e.Close()
		got := e.CalcEmpowerGates(GateContext{UpgradeChance: 3, DowngradeChance: 30})
		assert.Equal(t, GateChances{Upgrade: 3, Downgrade: 30}, got)
	})

	t.Run("non-table result", func(t *testing.T) {
		dir := t.TempDir()
		writeScript(t, dir, "item", "gates.lua", `function calc_empower_gates(ctx) return 7 end`)
		e, err := NewEngine(dir, zap.NewNop())
		require.NoError(t, err)
		defer e.Close()
		got := e.CalcEmpowerGates(GateContext{UpgradeChance: 3, DowngradeChance: 30})
		assert.Equal(t, GateChances{Upgrade: 3, Downgrade: 30}, got)
	})
}

func TestNewEngine_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "core", "bad.lua", `function (`)
	_, err := NewEngine(dir, zap.NewNop())
	assert.Error(t, err)
}
