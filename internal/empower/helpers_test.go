package empower

import (
	"github.com/l1jgo/empower/internal/data"
	"github.com/l1jgo/empower/internal/world"
)

const testMarker int32 = 900000

// seqRand replays scripted IntN results, clamped to [0, n). It records every n asked for.
type seqRand struct {
	vals  []int
	i     int
	asked []int
}

func (r *seqRand) IntN(n int) int {
	r.asked = append(r.asked, n)
	v := 0
	if r.i < len(r.vals) {
		v = r.vals[r.i]
		r.i++
	}
	return min(max(v, 0), n-1)
}

func stat(axis data.StatAxis, amount int) [3]data.EnchantEffect {
	return [3]data.EnchantEffect{{Kind: data.EffectStat, Arg: int32(axis), Amount: amount}}
}

func testCatalog() *data.Catalog {
	items := []*data.ItemInfo{
		{ItemID: 100, Name: "Blade I", Class: data.ClassWeapon, SubClass: 7, InvType: data.InvTypeWeapon, Tier: 10, DmgMin: 2, DmgMax: 4, MaxStack: 1},
		{ItemID: 200, Name: "Blade II", Class: data.ClassWeapon, SubClass: 7, InvType: data.InvTypeWeapon, Tier: 20, DmgMin: 4, DmgMax: 8, MaxStack: 1},
		{ItemID: 300, Name: "Blade III", Class: data.ClassWeapon, SubClass: 7, InvType: data.InvTypeWeapon, Tier: 30, DmgMin: 8, DmgMax: 16, MaxStack: 1},
		{ItemID: 210, Name: "Axe", Class: data.ClassWeapon, SubClass: 0, InvType: data.InvTypeWeapon, Tier: 22, DmgMin: 5, DmgMax: 9, MaxStack: 1},
		{ItemID: 220, Name: "Maul", Class: data.ClassWeapon, SubClass: 5, InvType: data.InvTypeTwoHandWeapon, Tier: 25, DmgMin: 9, DmgMax: 19, MaxStack: 1},
		{ItemID: 230, Name: "Heavy Blade", Class: data.ClassWeapon, SubClass: 7, InvType: data.InvTypeWeapon, Tier: 24, RequiredLevel: 70, MaxStack: 1},
		{ItemID: 400, Name: "Hood", Class: data.ClassArmor, SubClass: 1, InvType: data.InvTypeHead, Tier: 5, Armor: 3, MaxStack: 1},
		{ItemID: 401, Name: "Helm", Class: data.ClassArmor, SubClass: 1, InvType: data.InvTypeHead, Tier: 9, Armor: 6, MaxStack: 1},
		{ItemID: 500, Name: "Charm", Class: data.ClassArmor, SubClass: 0, InvType: data.InvTypeTrinket, Tier: 0, MaxStack: 1},
		{ItemID: 501, Name: "Old Charm", Class: data.ClassArmor, SubClass: 0, InvType: data.InvTypeTrinket, Tier: 0, MaxStack: 1},
		{ItemID: 600, Name: "Pouch", Class: data.ClassContainer, InvType: data.InvTypeBag, Tier: 1, MaxStack: 1},
		{ItemID: 700, Name: "Stone", Class: data.ClassConsumable, InvType: data.InvTypeNonEquip, MaxStack: 20},
	}
	enchants := []*data.EnchantInfo{
		{ID: 1, Name: "+1 Str", Effects: stat(data.StatStrength, 1)},
		{ID: 2, Name: "+2 Str", Effects: stat(data.StatStrength, 2)},
		{ID: 3, Name: "+2 Str alt", Effects: stat(data.StatStrength, 2)},
		{ID: 4, Name: "+3 Agi", Effects: stat(data.StatAgility, 3)},
		{ID: 5, Name: "Fire ward", Effects: [3]data.EnchantEffect{{Kind: data.EffectResistance, Arg: int32(data.SchoolFire), Amount: 5}}},
		{ID: 6, Name: "Sharp", Effects: [3]data.EnchantEffect{{Kind: data.EffectDamage, Amount: 2}}},
		{ID: 7, Name: "Totem", Effects: [3]data.EnchantEffect{{Kind: data.EffectTotem, Amount: 1}}},
		{ID: 8, Name: "Vigor", Effects: [3]data.EnchantEffect{{Kind: data.EffectEquipSpell, Arg: 50}}},
		{ID: 9, Name: "Broken", Effects: [3]data.EnchantEffect{{Kind: data.EffectCombatSpell, Arg: 9999}}},
		{ID: 10, Name: "Crusader", Effects: [3]data.EnchantEffect{{Kind: data.EffectCombatSpell, Arg: 60}}},
		{ID: 11, Name: "Nothing"},
		{ID: testMarker, Name: "Slammed", Effects: stat(data.StatSpirit, 1)},
	}
	spells := []*data.SpellInfo{
		{ID: 50, Effects: []data.SpellEffect{{Aura: data.AuraModStat, Misc: int(data.StatStrength), BasePoints: 1, BaseDice: 1}}},
		{ID: 60, Effects: []data.SpellEffect{{Aura: data.AuraProcTrigger}}},
	}
	return &data.Catalog{
		Items:    data.NewItemTable(items),
		Enchants: data.NewEnchantTable(enchants),
		Spells:   data.NewSpellTable(spells),
	}
}

func row(id int32, group string, minTier, weight uint16) data.WhitelistRow {
	return data.WhitelistRow{EnchantID: id, GroupKey: group, MinTier: minTier, Weight: weight}
}

func newPlayer(cat *data.Catalog) *world.PlayerInfo {
	return world.NewPlayer(7, "Tester", 60, cat)
}
