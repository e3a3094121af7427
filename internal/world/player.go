package world

import "github.com/l1jgo/empower/internal/data"

// ItemCatalog resolves the definitions live effects are computed from.
// *data.Catalog satisfies it.
type ItemCatalog interface {
	Item(id int32) *data.ItemInfo
	Enchant(id int32) *data.EnchantInfo
	Spell(id int32) *data.SpellInfo
}

// Stats holds a player's live, equipment-derived numbers.
type Stats struct {
	Stat        [data.StatMax]int
	Resist      [data.SchoolMax]int // Resist[SchoolPhysical] is armor
	BonusDamage [MaxAttack]int      // flat enchantment damage per attack type
	MinDamage   [MaxAttack]int      // derived; valid after RefreshWeaponDamage
	MaxDamage   [MaxAttack]int
	Auras       int           // applied spell auras with no modelled stat effect
	Procs       map[int32]int // combat spell id -> active sources
}

// VisibleItem is what other players see in an equipment slot.
type VisibleItem struct {
	ItemID      int32
	PermEnchant int32
}

// itemModsSlot keys the template's own modifiers in the applied set.
const itemModsSlot EnchantSlot = -1

type appliedKey struct {
	objectID int32
	slot     EnchantSlot
}

// appliedEffect records what was applied so removal reverses exactly that,
// even if the slot has been rewritten since.
type appliedEffect struct {
	id        int32 // enchantment id, or item template id for itemModsSlot
	attack    AttackType
	hasAttack bool
}

// PlayerInfo is the in-memory state of one player.
// Accessed only by the goroutine serving this player.
type PlayerInfo struct {
	CharID      int32
	Name        string
	Level       int
	Inv         *Inventory
	Equip       Equipment
	Stats       Stats
	Visible     [SlotMax]VisibleItem
	KnownSpells map[int32]bool

	catalog ItemCatalog
	applied map[appliedKey]appliedEffect
}

// NewPlayer creates a player with an empty backpack and nothing equipped.
func NewPlayer(charID int32, name string, level int, catalog ItemCatalog) *PlayerInfo {
	p := &PlayerInfo{
		CharID:      charID,
		Name:        name,
		Level:       level,
		Inv:         NewInventory(),
		KnownSpells: make(map[int32]bool),
		catalog:     catalog,
		applied:     make(map[appliedKey]appliedEffect),
	}
	p.Stats.Procs = make(map[int32]int)
	for a := AttackType(0); a < MaxAttack; a++ {
		p.RefreshWeaponDamage(a)
	}
	return p
}

// Owns reports whether the item instance belongs to this player.
func (p *PlayerInfo) Owns(it *InvItem) bool {
	return it != nil && it.OwnerID == p.CharID
}

// IsApplied reports whether the live effect of an item slot is currently applied.
func (p *PlayerInfo) IsApplied(it *InvItem, slot EnchantSlot) bool {
	_, ok := p.applied[appliedKey{it.ObjectID, slot}]
	return ok
}

// AppliedCount returns the number of live item effects currently applied.
func (p *PlayerInfo) AppliedCount() int {
	return len(p.applied)
}

// ApplyEnchantment applies (or removes) the live effect of one enchantment slot
// of an equipped item. Applying an already applied slot and removing a slot that
// was never applied are both no-ops.
func (p *PlayerInfo) ApplyEnchantment(it *InvItem, slot EnchantSlot, apply bool) {
	if it == nil || !it.IsEquipped() {
		return
	}
	key := appliedKey{it.ObjectID, slot}
	if apply {
		if _, ok := p.applied[key]; ok {
			return
		}
		id := it.EnchantID(slot)
		if id == 0 {
			return
		}
		ench := p.catalog.Enchant(id)
		if ench == nil {
			return
		}
		attack, hasAttack := AttackTypeForSlot(it.Pos.EquipSlot())
		rec := appliedEffect{id: id, attack: attack, hasAttack: hasAttack}
		p.applyEnchantEffects(ench, rec, 1)
		p.applied[key] = rec
		return
	}

	rec, ok := p.applied[key]
	if !ok {
		return
	}
	if ench := p.catalog.Enchant(rec.id); ench != nil {
		p.applyEnchantEffects(ench, rec, -1)
	}
	delete(p.applied, key)
}

func (p *PlayerInfo) applyEnchantEffects(ench *data.EnchantInfo, rec appliedEffect, sign int) {
	for _, eff := range ench.Effects {
		switch eff.Kind {
		case data.EffectStat:
			if eff.Arg >= 0 && eff.Arg < int32(data.StatMax) {
				p.Stats.Stat[eff.Arg] += sign * eff.Amount
			}
		case data.EffectResistance:
			if eff.Arg >= 0 && eff.Arg < int32(data.SchoolMax) {
				p.Stats.Resist[eff.Arg] += sign * eff.Amount
			}
		case data.EffectDamage, data.EffectTotem:
			if rec.hasAttack {
				p.Stats.BonusDamage[rec.attack] += sign * eff.Amount
			}
		case data.EffectEquipSpell:
			p.applySpellAuras(eff.Arg, rec, sign)
		case data.EffectCombatSpell:
			p.Stats.Procs[eff.Arg] += sign
			if p.Stats.Procs[eff.Arg] <= 0 {
				delete(p.Stats.Procs, eff.Arg)
			}
		}
	}
}

func (p *PlayerInfo) applySpellAuras(spellID int32, rec appliedEffect, sign int) {
	spell := p.catalog.Spell(spellID)
	if spell == nil {
		return
	}
	for _, e := range spell.Effects {
		switch e.Aura {
		case data.AuraModStat:
			if e.Misc >= 0 && e.Misc < int(data.StatMax) {
				p.Stats.Stat[e.Misc] += sign * e.Value()
			}
		case data.AuraModResistance:
			if e.Misc >= 0 && e.Misc < int(data.SchoolMax) {
				p.Stats.Resist[e.Misc] += sign * e.Value()
			}
		case data.AuraModDamageDone:
			if rec.hasAttack {
				p.Stats.BonusDamage[rec.attack] += sign * e.Value()
			}
		case data.AuraNone:
		default:
			p.Stats.Auras += sign
		}
	}
}

// applyItemMods applies (or removes) the template's own modifiers of an equipped item.
func (p *PlayerInfo) applyItemMods(it *InvItem, apply bool) {
	key := appliedKey{it.ObjectID, itemModsSlot}
	if apply {
		if _, ok := p.applied[key]; ok {
			return
		}
		info := p.catalog.Item(it.ItemID)
		if info == nil {
			return
		}
		p.Stats.Resist[data.SchoolPhysical] += info.Armor
		p.applied[key] = appliedEffect{id: it.ItemID}
		return
	}
	rec, ok := p.applied[key]
	if !ok {
		return
	}
	if info := p.catalog.Item(rec.id); info != nil {
		p.Stats.Resist[data.SchoolPhysical] -= info.Armor
	}
	delete(p.applied, key)
}

// RefreshWeaponDamage recomputes the derived damage range of one attack type
// from the weapon in its slot plus the flat enchantment bonus.
func (p *PlayerInfo) RefreshWeaponDamage(attack AttackType) {
	var slot EquipSlot
	switch attack {
	case BaseAttack:
		slot = SlotMainHand
	case OffAttack:
		slot = SlotOffHand
	case RangedAttack:
		slot = SlotRanged
	default:
		return
	}

	minDmg, maxDmg := 0, 0
	if w := p.Equip.Get(slot); w != nil {
		if info := p.catalog.Item(w.ItemID); info != nil && info.IsWeapon() {
			minDmg, maxDmg = info.DmgMin, info.DmgMax
		}
	} else if attack == BaseAttack {
		minDmg, maxDmg = 1, 2 // unarmed
	}
	bonus := p.Stats.BonusDamage[attack]
	p.Stats.MinDamage[attack] = max(0, minDmg+bonus)
	p.Stats.MaxDamage[attack] = max(0, maxDmg+bonus)
}

// RefreshVisibleSlot republishes what others see in an equipment slot.
func (p *PlayerInfo) RefreshVisibleSlot(slot EquipSlot) {
	if slot <= SlotNone || slot >= SlotMax {
		return
	}
	it := p.Equip.Get(slot)
	if it == nil {
		p.Visible[slot] = VisibleItem{}
		return
	}
	p.Visible[slot] = VisibleItem{ItemID: it.ItemID, PermEnchant: it.EnchantID(PermEnchantSlot)}
}

// equipInto wears an item instance in a slot and applies all its live effects.
func (p *PlayerInfo) equipInto(slot EquipSlot, it *InvItem) {
	p.Equip.Set(slot, it)
	it.Pos = EquipPosition(slot)
	p.applyItemMods(it, true)
	for s := EnchantSlot(0); s < EnchantSlotCount; s++ {
		p.ApplyEnchantment(it, s, true)
	}
	if attack, ok := AttackTypeForSlot(slot); ok {
		p.RefreshWeaponDamage(attack)
	}
	p.RefreshVisibleSlot(slot)
}

// unequipFrom removes an item from a slot, reversing all its live effects.
func (p *PlayerInfo) unequipFrom(slot EquipSlot) *InvItem {
	it := p.Equip.Get(slot)
	if it == nil {
		return nil
	}
	for s := EnchantSlot(0); s < EnchantSlotCount; s++ {
		p.ApplyEnchantment(it, s, false)
	}
	p.applyItemMods(it, false)
	p.Equip.Set(slot, nil)
	if attack, ok := AttackTypeForSlot(slot); ok {
		p.RefreshWeaponDamage(attack)
	}
	p.RefreshVisibleSlot(slot)
	return it
}

// EquipFromBag moves a bagged item into the first free slot its type allows.
func (p *PlayerInfo) EquipFromBag(it *InvItem) InvResult {
	if it == nil || it.IsEquipped() || p.Inv.At(it.Pos) != it {
		return InvErrBadPosition
	}
	info := p.catalog.Item(it.ItemID)
	if info == nil {
		return InvErrItemNotFound
	}
	for _, slot := range SlotsForInvType(info.InvType) {
		if res := p.CanEquipNewItem(slot, it.ItemID, false); res != InvOK {
			continue
		}
		p.Inv.take(it.Pos)
		p.equipInto(slot, it)
		return InvOK
	}
	if !info.IsGear() {
		return InvErrNotEquippable
	}
	return InvErrSlotOccupied
}
