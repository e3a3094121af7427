package world

import "github.com/l1jgo/empower/internal/data"

// The methods below are the inventory operations item scripts rely on: each
// validation returns an InvResult, each mutation assumes a prior validation.

// CanEquipNewItem checks that a fresh instance of itemID may be worn in slot.
// With swap set, an occupied slot is acceptable because the caller is about
// to free it.
func (p *PlayerInfo) CanEquipNewItem(slot EquipSlot, itemID int32, swap bool) InvResult {
	info := p.catalog.Item(itemID)
	if info == nil {
		return InvErrItemNotFound
	}
	if !info.IsGear() {
		return InvErrNotEquippable
	}
	if info.RequiredLevel > p.Level {
		return InvErrLevelTooLow
	}
	if !CanOccupy(info.InvType, slot) {
		return InvErrWrongSlot
	}
	if !swap && p.Equip.Get(slot) != nil {
		return InvErrSlotOccupied
	}
	switch slot {
	case SlotMainHand:
		if info.InvType == data.InvTypeTwoHandWeapon && p.Equip.Get(SlotOffHand) != nil {
			return InvErrTwoHandConflict
		}
	case SlotOffHand:
		if main := p.Equip.Get(SlotMainHand); main != nil {
			if mi := p.catalog.Item(main.ItemID); mi != nil && mi.InvType == data.InvTypeTwoHandWeapon {
				return InvErrTwoHandConflict
			}
		}
	}
	return InvOK
}

// EquipNewItem creates an instance of itemID directly in an empty slot.
func (p *PlayerInfo) EquipNewItem(slot EquipSlot, itemID int32, randomProperty int32) *InvItem {
	info := p.catalog.Item(itemID)
	if info == nil || p.Equip.Get(slot) != nil {
		return nil
	}
	it := newInvItem(info, 1, p.CharID, randomProperty)
	p.equipInto(slot, it)
	return it
}

// CanStoreNewItem checks that a fresh instance of itemID fits at pos, or
// anywhere when pos is AnyPosition. Returns the resolved destination.
func (p *PlayerInfo) CanStoreNewItem(pos Position, itemID int32) (Position, InvResult) {
	if p.catalog.Item(itemID) == nil {
		return Position{}, InvErrItemNotFound
	}
	if pos == AnyPosition {
		free, ok := p.Inv.FirstFree()
		if !ok {
			return Position{}, InvErrInventoryFull
		}
		return free, InvOK
	}
	if !p.Inv.valid(pos) {
		return Position{}, InvErrBadPosition
	}
	if p.Inv.At(pos) != nil {
		return Position{}, InvErrSlotOccupied
	}
	return pos, InvOK
}

// StoreNewItem creates an instance of itemID in an empty bag slot.
func (p *PlayerInfo) StoreNewItem(pos Position, itemID int32, randomProperty int32) *InvItem {
	info := p.catalog.Item(itemID)
	if info == nil || !p.Inv.valid(pos) || p.Inv.At(pos) != nil {
		return nil
	}
	it := newInvItem(info, 1, p.CharID, randomProperty)
	p.Inv.put(pos, it)
	return it
}

// DestroyItem removes the instance at pos, reversing its live effects if worn.
func (p *PlayerInfo) DestroyItem(pos Position) *InvItem {
	if pos.IsEquipment() {
		return p.unequipFrom(pos.EquipSlot())
	}
	return p.Inv.take(pos)
}

// ItemAt returns the instance at a bag or equipment position.
func (p *PlayerInfo) ItemAt(pos Position) *InvItem {
	if pos.IsEquipment() {
		return p.Equip.Get(pos.EquipSlot())
	}
	return p.Inv.At(pos)
}

// RandomPropertyFor draws the random property id a new instance of itemID gets.
func (p *PlayerInfo) RandomPropertyFor(itemID int32) int32 {
	return GenerateRandomPropertyID(p.catalog.Item(itemID))
}
