package empower

import (
	"sort"
	"sync"

	"github.com/l1jgo/empower/internal/data"
)

// CatalogSource is the read-only catalog the index is derived from.
// *data.Catalog satisfies it.
type CatalogSource interface {
	Item(id int32) *data.ItemInfo
	Spell(id int32) *data.SpellInfo
	EachItem(fn func(*data.ItemInfo))
	EachEnchant(fn func(*data.EnchantInfo))
}

// CategoryKey groups items for downgrade search.
type CategoryKey struct {
	Class    data.ItemClass
	SubClass uint8
	InvType  data.InventoryType
}

// CategoryOf returns the category key of an item template.
func CategoryOf(info *data.ItemInfo) CategoryKey {
	return CategoryKey{Class: info.Class, SubClass: info.SubClass, InvType: info.InvType}
}

// TierEntry is one indexed item. Entries under a key are ordered by tier, then id.
type TierEntry struct {
	Tier   int
	ItemID int32
}

type statEntry struct {
	Value     int
	EnchantID int32
}

// Index holds the lookup structures derived from the catalog. It is built
// once on first use and immutable afterwards; concurrent first callers block
// on the same build.
type Index struct {
	catalog  CatalogSource
	markerID int32

	once         sync.Once
	usableWeapon []int32
	usableArmor  []int32
	usableSet    [2]map[int32]bool // [0] armor, [1] weapon
	byCategory   map[CategoryKey][]TierEntry
	byClass      map[data.ItemClass][]TierEntry
	byStat       [data.StatMax][]statEntry
}

// NewIndex returns an unbuilt index over catalog. markerID is never listed as usable.
func NewIndex(catalog CatalogSource, markerID int32) *Index {
	return &Index{catalog: catalog, markerID: markerID}
}

func (x *Index) build() {
	x.once.Do(func() {
		x.buildUsable()
		x.buildTiers()
		x.buildStats()
	})
}

func (x *Index) buildUsable() {
	x.usableSet[0] = make(map[int32]bool)
	x.usableSet[1] = make(map[int32]bool)
	x.catalog.EachEnchant(func(e *data.EnchantInfo) {
		if e.ID == x.markerID {
			return
		}
		if x.enchantUsable(e, true) {
			x.usableWeapon = append(x.usableWeapon, e.ID)
			x.usableSet[1][e.ID] = true
		}
		if x.enchantUsable(e, false) {
			x.usableArmor = append(x.usableArmor, e.ID)
			x.usableSet[0][e.ID] = true
		}
	})
}

// enchantUsable reports whether any effect of e does something on the target type.
func (x *Index) enchantUsable(e *data.EnchantInfo, weapon bool) bool {
	for _, eff := range e.Effects {
		switch eff.Kind {
		case data.EffectStat, data.EffectResistance:
			return true
		case data.EffectDamage, data.EffectTotem:
			if weapon {
				return true
			}
		case data.EffectEquipSpell, data.EffectCombatSpell:
			if x.catalog.Spell(eff.Arg) != nil {
				return true
			}
		}
	}
	return false
}

func (x *Index) buildTiers() {
	x.byCategory = make(map[CategoryKey][]TierEntry)
	x.byClass = make(map[data.ItemClass][]TierEntry)
	x.catalog.EachItem(func(info *data.ItemInfo) {
		if !info.IsGear() {
			return
		}
		e := TierEntry{Tier: info.Tier, ItemID: info.ItemID}
		ck := CategoryOf(info)
		x.byCategory[ck] = append(x.byCategory[ck], e)
		x.byClass[info.Class] = append(x.byClass[info.Class], e)
	})
	for _, s := range x.byCategory {
		sortTierEntries(s)
	}
	for _, s := range x.byClass {
		sortTierEntries(s)
	}
}

func sortTierEntries(s []TierEntry) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Tier != s[j].Tier {
			return s[i].Tier < s[j].Tier
		}
		return s[i].ItemID < s[j].ItemID
	})
}

func (x *Index) buildStats() {
	x.catalog.EachEnchant(func(e *data.EnchantInfo) {
		if e.ID == x.markerID {
			return
		}
		for _, eff := range e.Effects {
			switch eff.Kind {
			case data.EffectStat:
				if eff.Arg >= 0 && eff.Arg < int32(data.StatMax) {
					x.byStat[eff.Arg] = append(x.byStat[eff.Arg], statEntry{Value: eff.Amount, EnchantID: e.ID})
				}
			case data.EffectEquipSpell:
				spell := x.catalog.Spell(eff.Arg)
				if spell == nil {
					continue
				}
				for _, se := range spell.Effects {
					if se.Aura == data.AuraModStat && se.Misc >= 0 && se.Misc < int(data.StatMax) {
						x.byStat[se.Misc] = append(x.byStat[se.Misc], statEntry{Value: se.Value(), EnchantID: e.ID})
					}
				}
			}
		}
	})
	for i := range x.byStat {
		s := x.byStat[i]
		sort.SliceStable(s, func(a, b int) bool {
			if s[a].Value != s[b].Value {
				return s[a].Value < s[b].Value
			}
			return s[a].EnchantID < s[b].EnchantID
		})
	}
}

// Usable returns the enchantments that produce an effect on the target type, ascending by id.
func (x *Index) Usable(weapon bool) []int32 {
	x.build()
	if weapon {
		return x.usableWeapon
	}
	return x.usableArmor
}

// IsUsable reports whether an enchantment produces an effect on the target type.
func (x *Index) IsUsable(enchantID int32, weapon bool) bool {
	x.build()
	if weapon {
		return x.usableSet[1][enchantID]
	}
	return x.usableSet[0][enchantID]
}

// CategoryEntries returns the tier-ordered items of a category. Callers must not modify it.
func (x *Index) CategoryEntries(key CategoryKey) []TierEntry {
	x.build()
	return x.byCategory[key]
}

// ClassEntries returns the tier-ordered items of a class. Callers must not modify it.
func (x *Index) ClassEntries(class data.ItemClass) []TierEntry {
	x.build()
	return x.byClass[class]
}

// FindStatEnchant returns the lowest-id enchantment granting exactly value to axis,
// directly or through an on-equip stat aura.
func (x *Index) FindStatEnchant(axis data.StatAxis, value int) (int32, bool) {
	if axis >= data.StatMax {
		return 0, false
	}
	x.build()
	s := x.byStat[axis]
	i := sort.Search(len(s), func(i int) bool { return s[i].Value >= value })
	if i < len(s) && s[i].Value == value {
		return s[i].EnchantID, true
	}
	return 0, false
}

// StatEnchantsInRange returns the enchantments granting between lo and hi
// (inclusive) to axis, ordered by value then id.
func (x *Index) StatEnchantsInRange(axis data.StatAxis, lo, hi int) []int32 {
	if axis >= data.StatMax || lo > hi {
		return nil
	}
	x.build()
	s := x.byStat[axis]
	var out []int32
	seen := make(map[int32]bool)
	for i := sort.Search(len(s), func(i int) bool { return s[i].Value >= lo }); i < len(s) && s[i].Value <= hi; i++ {
		if !seen[s[i].EnchantID] {
			seen[s[i].EnchantID] = true
			out = append(out, s[i].EnchantID)
		}
	}
	return out
}
