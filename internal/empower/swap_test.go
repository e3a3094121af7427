package empower

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/empower/internal/data"
	"github.com/l1jgo/empower/internal/world"
)

func TestSelectDowngrade(t *testing.T) {
	cat := testCatalog()
	idx := NewIndex(cat, testMarker)

	pick, ok := SelectDowngrade(idx, cat.Item(200), &seqRand{})
	require.True(t, ok)
	assert.Equal(t, SwapPick{ItemID: 100, Total: 4, Eligible: 1}, pick)

	_, ok = SelectDowngrade(idx, cat.Item(100), &seqRand{})
	assert.False(t, ok, "lowest tier of its category")

	pick, ok = SelectDowngrade(idx, cat.Item(500), &seqRand{})
	assert.False(t, ok, "untiered")
	assert.Equal(t, SwapPick{}, pick)
}

func TestSelectUpgrade_StaysInWindow(t *testing.T) {
	cat := testCatalog()
	idx := NewIndex(cat, testMarker)
	src := cat.Item(200)

	rng := NewRand(3)
	seen := make(map[int32]bool)
	for i := 0; i < 200; i++ {
		pick, ok := SelectUpgrade(idx, src, 5, rng)
		require.True(t, ok)
		tier := cat.Item(pick.ItemID).Tier
		assert.GreaterOrEqual(t, tier, src.Tier)
		assert.LessOrEqual(t, tier, src.Tier+5)
		assert.NotEqual(t, src.ItemID, pick.ItemID)
		assert.Equal(t, 6, pick.Total)
		assert.Equal(t, 3, pick.Eligible)
		seen[pick.ItemID] = true
	}
	assert.Equal(t, map[int32]bool{210: true, 220: true, 230: true}, seen)

	_, ok := SelectUpgrade(idx, cat.Item(300), 5, rng)
	assert.False(t, ok)
}

func TestReplaceInPlace_Equipped(t *testing.T) {
	cat := testCatalog()
	p := newPlayer(cat)
	old := p.Inv.AddItem(cat.Item(100), 1, p.CharID)
	old.SetEnchant(world.PropEnchantSlot1, 1, p.CharID)
	require.Equal(t, world.InvOK, p.EquipFromBag(old))
	require.Equal(t, 1, p.Stats.Stat[data.StatStrength])

	it, err := ReplaceInPlace(p, old, 200)
	require.NoError(t, err)
	assert.Equal(t, int32(200), it.ItemID)
	assert.Same(t, it, p.Equip.Get(world.SlotMainHand))
	assert.Equal(t, 0, p.Stats.Stat[data.StatStrength], "old item's effects removed")
	assert.Equal(t, 4, p.Stats.MinDamage[world.BaseAttack])
	assert.Equal(t, int32(200), p.Visible[world.SlotMainHand].ItemID)
}

func TestReplaceInPlace_EquippedRejectedKeepsOriginal(t *testing.T) {
	cat := testCatalog()
	p := newPlayer(cat)
	old := p.Inv.AddItem(cat.Item(100), 1, p.CharID)
	require.Equal(t, world.InvOK, p.EquipFromBag(old))

	_, err := ReplaceInPlace(p, old, 230)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSwapRejected)
	var se *SwapError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, world.InvErrLevelTooLow, se.Result)
	assert.Same(t, old, p.Equip.Get(world.SlotMainHand))
}

func TestReplaceInPlace_BaggedKeepsSlot(t *testing.T) {
	cat := testCatalog()
	p := newPlayer(cat)
	p.Inv.AddItem(cat.Item(700), 1, p.CharID)
	old := p.Inv.AddItem(cat.Item(400), 1, p.CharID)
	pos := old.Pos

	it, err := ReplaceInPlace(p, old, 401)
	require.NoError(t, err)
	assert.Equal(t, pos, it.Pos)
	assert.Same(t, it, p.Inv.At(pos))
	assert.Equal(t, 2, p.Inv.Size())
}

func TestReplaceInPlace_BaggedFullInventory(t *testing.T) {
	cat := testCatalog()
	p := newPlayer(cat)
	var old *world.InvItem
	for i := 0; i < world.BackpackSize; i++ {
		old = p.Inv.AddItem(cat.Item(400), 1, p.CharID)
	}

	_, err := ReplaceInPlace(p, old, 401)
	var se *SwapError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "store", se.Op)
	assert.Equal(t, world.InvErrInventoryFull, se.Result)
	assert.Same(t, old, p.Inv.At(old.Pos))
}

// brokenCreate validates like the player's inventory but never creates items.
type brokenCreate struct {
	*world.PlayerInfo
}

func (brokenCreate) EquipNewItem(world.EquipSlot, int32, int32) *world.InvItem { return nil }

func TestReplaceInPlace_CreateFailureAfterDestroy(t *testing.T) {
	cat := testCatalog()
	p := newPlayer(cat)
	old := p.Inv.AddItem(cat.Item(100), 1, p.CharID)
	require.Equal(t, world.InvOK, p.EquipFromBag(old))

	_, err := ReplaceInPlace(brokenCreate{p}, old, 200)
	require.ErrorIs(t, err, ErrSwapRejected)
	assert.Nil(t, p.Equip.Get(world.SlotMainHand), "target already destroyed")
}
