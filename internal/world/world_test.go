package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/empower/internal/data"
)

func testCatalog() *data.Catalog {
	return &data.Catalog{
		Items: data.NewItemTable([]*data.ItemInfo{
			{ItemID: 10, Name: "Sword", Class: data.ClassWeapon, SubClass: 7, InvType: data.InvTypeWeapon, Tier: 10, DmgMin: 5, DmgMax: 9, MaxStack: 1},
			{ItemID: 11, Name: "Greatsword", Class: data.ClassWeapon, SubClass: 8, InvType: data.InvTypeTwoHandWeapon, Tier: 12, DmgMin: 10, DmgMax: 20, MaxStack: 1},
			{ItemID: 12, Name: "Bow", Class: data.ClassWeapon, SubClass: 2, InvType: data.InvTypeRanged, Tier: 10, DmgMin: 4, DmgMax: 8, MaxStack: 1},
			{ItemID: 20, Name: "Cap", Class: data.ClassArmor, SubClass: 1, InvType: data.InvTypeHead, Tier: 5, Armor: 7, MaxStack: 1},
			{ItemID: 21, Name: "Shield", Class: data.ClassArmor, SubClass: 6, InvType: data.InvTypeShield, Tier: 5, Armor: 50, MaxStack: 1},
			{ItemID: 22, Name: "Crown", Class: data.ClassArmor, SubClass: 1, InvType: data.InvTypeHead, Tier: 40, RequiredLevel: 60, MaxStack: 1},
			{ItemID: 30, Name: "Stone", Class: data.ClassConsumable, InvType: data.InvTypeNonEquip, MaxStack: 20},
			{ItemID: 31, Name: "Amulet", Class: data.ClassArmor, InvType: data.InvTypeNeck, RandomProperties: []int32{7}, MaxStack: 1},
		}),
		Enchants: data.NewEnchantTable([]*data.EnchantInfo{
			{ID: 1, Effects: [3]data.EnchantEffect{{Kind: data.EffectStat, Arg: int32(data.StatStrength), Amount: 2}}},
			{ID: 2, Effects: [3]data.EnchantEffect{{Kind: data.EffectDamage, Amount: 3}}},
			{ID: 3, Effects: [3]data.EnchantEffect{{Kind: data.EffectEquipSpell, Arg: 500}}},
			{ID: 4, Effects: [3]data.EnchantEffect{{Kind: data.EffectCombatSpell, Arg: 600}}},
			{ID: 5, Effects: [3]data.EnchantEffect{{Kind: data.EffectResistance, Arg: int32(data.SchoolFire), Amount: 5}}},
		}),
		Spells: data.NewSpellTable([]*data.SpellInfo{
			{ID: 500, Effects: []data.SpellEffect{{Aura: data.AuraModStat, Misc: int(data.StatStamina), BasePoints: 1, BaseDice: 1}}},
			{ID: 600, Effects: []data.SpellEffect{{Aura: data.AuraProcTrigger}}},
		}),
	}
}

func newTestPlayer(t *testing.T) *PlayerInfo {
	t.Helper()
	return NewPlayer(1, "Tester", 20, testCatalog())
}

func TestInventory_AddAndRemoveCount(t *testing.T) {
	p := newTestPlayer(t)
	stone := p.catalog.Item(30)

	a := p.Inv.AddItem(stone, 15, p.CharID)
	require.NotNil(t, a)
	b := p.Inv.AddItem(stone, 10, p.CharID)
	require.NotNil(t, b)
	assert.NotSame(t, a, b, "stack overflow opens a new slot")
	assert.Equal(t, int32(25), p.Inv.CountItem(30))
	assert.Equal(t, 2, p.Inv.Size())

	assert.False(t, p.Inv.RemoveCount(30, 26))
	assert.Equal(t, int32(25), p.Inv.CountItem(30))

	assert.True(t, p.Inv.RemoveCount(30, 16))
	assert.Equal(t, int32(9), p.Inv.CountItem(30))
	assert.Equal(t, 1, p.Inv.Size())
}

func TestInventory_RemoveItem(t *testing.T) {
	p := newTestPlayer(t)
	stone := p.Inv.AddItem(p.catalog.Item(30), 2, p.CharID)

	assert.False(t, p.Inv.RemoveItem(stone.ObjectID, 1))
	assert.Equal(t, int32(1), stone.Count)
	assert.True(t, p.Inv.RemoveItem(stone.ObjectID, 1))
	assert.Nil(t, p.Inv.FindByObjectID(stone.ObjectID))
	assert.False(t, p.Inv.RemoveItem(stone.ObjectID, 1))
}

func TestInventory_FullBackpack(t *testing.T) {
	p := newTestPlayer(t)
	cap := p.catalog.Item(20)
	for i := 0; i < BackpackSize; i++ {
		require.NotNil(t, p.Inv.AddItem(cap, 1, p.CharID))
	}
	assert.True(t, p.Inv.IsFull())
	assert.Nil(t, p.Inv.AddItem(cap, 1, p.CharID))

	_, res := p.CanStoreNewItem(AnyPosition, 20)
	assert.Equal(t, InvErrInventoryFull, res)
}

func TestEquipFromBag_AppliesAndDestroyReverses(t *testing.T) {
	p := newTestPlayer(t)
	sword := p.Inv.AddItem(p.catalog.Item(10), 1, p.CharID)
	sword.SetEnchant(PropEnchantSlot1, 1, p.CharID)
	sword.SetEnchant(PropEnchantSlot2, 2, p.CharID)

	require.Equal(t, InvOK, p.EquipFromBag(sword))
	assert.True(t, sword.IsEquipped())
	assert.Same(t, sword, p.Equip.Get(SlotMainHand))
	assert.Equal(t, 2, p.Stats.Stat[data.StatStrength])
	assert.Equal(t, 3, p.Stats.BonusDamage[BaseAttack])
	assert.Equal(t, 8, p.Stats.MinDamage[BaseAttack])
	assert.Equal(t, 12, p.Stats.MaxDamage[BaseAttack])
	assert.Equal(t, int32(10), p.Visible[SlotMainHand].ItemID)

	gone := p.DestroyItem(EquipPosition(SlotMainHand))
	assert.Same(t, sword, gone)
	assert.Equal(t, 0, p.Stats.Stat[data.StatStrength])
	assert.Equal(t, 0, p.Stats.BonusDamage[BaseAttack])
	assert.Equal(t, 1, p.Stats.MinDamage[BaseAttack], "unarmed")
	assert.Equal(t, 0, p.AppliedCount())
	assert.Equal(t, VisibleItem{}, p.Visible[SlotMainHand])
}

func TestApplyEnchantment_Idempotent(t *testing.T) {
	p := newTestPlayer(t)
	cap := p.Inv.AddItem(p.catalog.Item(20), 1, p.CharID)
	require.Equal(t, InvOK, p.EquipFromBag(cap))
	assert.Equal(t, 7, p.Stats.Resist[data.SchoolPhysical])

	cap.SetEnchant(PropEnchantSlot1, 3, p.CharID)
	p.ApplyEnchantment(cap, PropEnchantSlot1, true)
	p.ApplyEnchantment(cap, PropEnchantSlot1, true)
	assert.Equal(t, 2, p.Stats.Stat[data.StatStamina], "second apply is a no-op")

	// Rewriting the slot does not change what removal reverses.
	cap.SetEnchant(PropEnchantSlot1, 5, p.CharID)
	p.ApplyEnchantment(cap, PropEnchantSlot1, false)
	p.ApplyEnchantment(cap, PropEnchantSlot1, false)
	assert.Equal(t, 0, p.Stats.Stat[data.StatStamina])
	assert.Equal(t, 0, p.Stats.Resist[data.SchoolFire])
}

func TestApplyEnchantment_BaggedItemIgnored(t *testing.T) {
	p := newTestPlayer(t)
	cap := p.Inv.AddItem(p.catalog.Item(20), 1, p.CharID)
	cap.SetEnchant(PropEnchantSlot1, 1, p.CharID)
	p.ApplyEnchantment(cap, PropEnchantSlot1, true)
	assert.Equal(t, 0, p.Stats.Stat[data.StatStrength])
	assert.False(t, p.IsApplied(cap, PropEnchantSlot1))
}

func TestApplyEnchantment_CombatSpellProc(t *testing.T) {
	p := newTestPlayer(t)
	bow := p.Inv.AddItem(p.catalog.Item(12), 1, p.CharID)
	bow.SetEnchant(PropEnchantSlot1, 4, p.CharID)
	require.Equal(t, InvOK, p.EquipFromBag(bow))
	assert.Equal(t, 1, p.Stats.Procs[600])

	p.DestroyItem(bow.Pos)
	_, ok := p.Stats.Procs[600]
	assert.False(t, ok)
}

func TestCanEquipNewItem(t *testing.T) {
	p := newTestPlayer(t)
	shield := p.Inv.AddItem(p.catalog.Item(21), 1, p.CharID)
	require.Equal(t, InvOK, p.EquipFromBag(shield))

	tests := []struct {
		name   string
		slot   EquipSlot
		itemID int32
		swap   bool
		want   InvResult
	}{
		{"unknown item", SlotHead, 999, false, InvErrItemNotFound},
		{"consumable", SlotHead, 30, false, InvErrNotEquippable},
		{"level too low", SlotHead, 22, false, InvErrLevelTooLow},
		{"wrong slot", SlotHead, 10, false, InvErrWrongSlot},
		{"free head", SlotHead, 20, false, InvOK},
		{"occupied off hand", SlotOffHand, 21, false, InvErrSlotOccupied},
		{"occupied off hand with swap", SlotOffHand, 21, true, InvOK},
		{"two hander with shield", SlotMainHand, 11, false, InvErrTwoHandConflict},
		{"one hander", SlotMainHand, 10, false, InvOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanEquipNewItem(tt.slot, tt.itemID, tt.swap))
		})
	}
}

func TestStoreNewItem_ExactPosition(t *testing.T) {
	p := newTestPlayer(t)
	pos := Position{Bag: 0, Slot: 5}

	dest, res := p.CanStoreNewItem(pos, 20)
	require.Equal(t, InvOK, res)
	assert.Equal(t, pos, dest)

	it := p.StoreNewItem(dest, 20, 0)
	require.NotNil(t, it)
	assert.Equal(t, pos, it.Pos)
	assert.Same(t, it, p.ItemAt(pos))
	assert.True(t, p.Owns(it))

	_, res = p.CanStoreNewItem(pos, 20)
	assert.Equal(t, InvErrSlotOccupied, res)
	_, res = p.CanStoreNewItem(Position{Bag: 3, Slot: 0}, 20)
	assert.Equal(t, InvErrBadPosition, res)
	assert.Nil(t, p.StoreNewItem(pos, 20, 0))
}

func TestRandomPropertyFor(t *testing.T) {
	p := newTestPlayer(t)
	assert.Equal(t, int32(7), p.RandomPropertyFor(31))
	assert.Equal(t, int32(0), p.RandomPropertyFor(20))
	assert.Equal(t, int32(0), p.RandomPropertyFor(999))
}

func TestInvResult_String(t *testing.T) {
	assert.Equal(t, "ok", InvOK.String())
	assert.Equal(t, "wrong_slot", InvErrWrongSlot.String())
	assert.Equal(t, "inv_result(99)", InvResult(99).String())
}
