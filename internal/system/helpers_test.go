package system

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/empower/internal/config"
	"github.com/l1jgo/empower/internal/core/event"
	"github.com/l1jgo/empower/internal/data"
	"github.com/l1jgo/empower/internal/world"
)

const (
	testStone  int32 = 700
	testMarker int32 = 900000
)

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

// staticSource serves a replaceable whitelist.
type staticSource struct {
	mu     sync.Mutex
	weapon []data.WhitelistRow
	armor  []data.WhitelistRow
}

func (s *staticSource) LoadWhitelist(_ context.Context, weapon bool) ([]data.WhitelistRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if weapon {
		return s.weapon, nil
	}
	return s.armor, nil
}

func (s *staticSource) set(weapon, armor []data.WhitelistRow) {
	s.mu.Lock()
	s.weapon, s.armor = weapon, armor
	s.mu.Unlock()
}

func row(id int32, group string, minTier, weight uint16) data.WhitelistRow {
	return data.WhitelistRow{EnchantID: id, GroupKey: group, MinTier: minTier, Weight: weight}
}

func stat(axis data.StatAxis, amount int) [3]data.EnchantEffect {
	return [3]data.EnchantEffect{{Kind: data.EffectStat, Arg: int32(axis), Amount: amount}}
}

func testCatalog() *data.Catalog {
	items := []*data.ItemInfo{
		{ItemID: 100, Name: "Blade I", Class: data.ClassWeapon, SubClass: 7, InvType: data.InvTypeWeapon, Tier: 10, DmgMin: 2, DmgMax: 4, MaxStack: 1},
		{ItemID: 200, Name: "Blade II", Class: data.ClassWeapon, SubClass: 7, InvType: data.InvTypeWeapon, Tier: 20, DmgMin: 4, DmgMax: 8, MaxStack: 1},
		{ItemID: 230, Name: "Heavy Blade", Class: data.ClassWeapon, SubClass: 7, InvType: data.InvTypeWeapon, Tier: 24, RequiredLevel: 70, MaxStack: 1},
		{ItemID: 400, Name: "Hood", Class: data.ClassArmor, SubClass: 1, InvType: data.InvTypeHead, Tier: 5, Armor: 3, MaxStack: 1},
		{ItemID: 401, Name: "Helm", Class: data.ClassArmor, SubClass: 1, InvType: data.InvTypeHead, Tier: 9, Armor: 6, MaxStack: 1},
		{ItemID: 600, Name: "Pouch", Class: data.ClassContainer, InvType: data.InvTypeBag, Tier: 1, MaxStack: 1},
		{ItemID: testStone, Name: "Slamrock", Class: data.ClassConsumable, InvType: data.InvTypeNonEquip, MaxStack: 20, Script: ScriptEmpowerStone},
		{ItemID: 800, Name: "Tome of Light", Class: data.ClassConsumable, InvType: data.InvTypeNonEquip, MaxStack: 5, Spells: [2]int32{50, 60}, Script: ScriptAbilityTome},
		{ItemID: 801, Name: "Tome of Vigor", Class: data.ClassConsumable, InvType: data.InvTypeNonEquip, MaxStack: 5, Spells: [2]int32{50, 0}, Script: ScriptAbilityTome},
		{ItemID: 802, Name: "Blank Tome", Class: data.ClassConsumable, InvType: data.InvTypeNonEquip, MaxStack: 5, Script: ScriptAbilityTome},
		{ItemID: 803, Name: "Lost Tome", Class: data.ClassConsumable, InvType: data.InvTypeNonEquip, MaxStack: 5, Spells: [2]int32{0, 9999}, Script: ScriptAbilityTome},
	}
	enchants := []*data.EnchantInfo{
		{ID: 1, Name: "+1 Str", Effects: stat(data.StatStrength, 1)},
		{ID: 2, Name: "+3 Agi", Effects: stat(data.StatAgility, 3)},
		{ID: 5, Name: "Fire ward", Effects: [3]data.EnchantEffect{{Kind: data.EffectResistance, Arg: int32(data.SchoolFire), Amount: 5}}},
		{ID: 6, Name: "Sharp", Effects: [3]data.EnchantEffect{{Kind: data.EffectDamage, Amount: 2}}},
		{ID: testMarker, Name: "Slammed", Effects: stat(data.StatSpirit, 1)},
	}
	spells := []*data.SpellInfo{
		{ID: 50, Name: "Vigor", Effects: []data.SpellEffect{{Aura: data.AuraModStat, Misc: int(data.StatStamina), BasePoints: 1, BaseDice: 1}}},
		{ID: 60, Name: "Holy Light", Effects: []data.SpellEffect{{Aura: data.AuraProcTrigger}}},
	}
	return &data.Catalog{
		Items:    data.NewItemTable(items),
		Enchants: data.NewEnchantTable(enchants),
		Spells:   data.NewSpellTable(spells),
	}
}

func testConfig() config.EmpowerConfig {
	return config.EmpowerConfig{
		StoneItemID:         testStone,
		MarkerEnchantID:     testMarker,
		MaxModifiers:        3,
		UpgradeMaxTierDelta: 10,
		RNGSeed:             1,
	}
}

type fixture struct {
	cat    *data.Catalog
	deps   *Deps
	sys    *ItemUseSystem
	rng    *seqRand
	src    *staticSource
	bus    *event.Bus
	player *world.PlayerInfo
	stone  *world.InvItem
	events []event.EmpowerOutcome
}

func newFixture(t *testing.T, cfg config.EmpowerConfig, vals ...int) *fixture {
	t.Helper()
	f := &fixture{
		cat: testCatalog(),
		rng: &seqRand{vals: vals},
		src: &staticSource{},
		bus: event.NewBus(),
	}
	f.deps = NewDeps(cfg, f.cat, f.src, nil, f.bus, zap.NewNop())
	f.deps.Rand = f.rng
	f.sys = NewItemUseSystem(f.deps)
	f.player = world.NewPlayer(7, "Tester", 60, f.cat)
	f.stone = f.give(testStone, 5)
	event.Subscribe(f.bus, func(ev event.EmpowerOutcome) { f.events = append(f.events, ev) })
	return f
}

func (f *fixture) give(itemID int32, count int32) *world.InvItem {
	return f.player.Inv.AddItem(f.cat.Item(itemID), count, f.player.CharID)
}

func (f *fixture) equip(t *testing.T, itemID int32) *world.InvItem {
	t.Helper()
	it := f.give(itemID, 1)
	require.Equal(t, world.InvOK, f.player.EquipFromBag(it))
	return it
}

func (f *fixture) dispatch() []event.EmpowerOutcome {
	f.bus.SwapBuffers()
	f.bus.DispatchAll()
	return f.events
}

func (f *fixture) stones() int32 {
	return f.player.Inv.CountItem(testStone)
}
