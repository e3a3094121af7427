package world

import "github.com/l1jgo/empower/internal/data"

// EquipSlot identifies an equipment slot on a character.
type EquipSlot int

const (
	SlotNone      EquipSlot = 0
	SlotHead      EquipSlot = 1
	SlotNeck      EquipSlot = 2
	SlotShoulders EquipSlot = 3
	SlotBody      EquipSlot = 4
	SlotChest     EquipSlot = 5
	SlotWaist     EquipSlot = 6
	SlotLegs      EquipSlot = 7
	SlotFeet      EquipSlot = 8
	SlotWrists    EquipSlot = 9
	SlotHands     EquipSlot = 10
	SlotFinger1   EquipSlot = 11
	SlotFinger2   EquipSlot = 12
	SlotTrinket1  EquipSlot = 13
	SlotTrinket2  EquipSlot = 14
	SlotBack      EquipSlot = 15
	SlotMainHand  EquipSlot = 16
	SlotOffHand   EquipSlot = 17
	SlotRanged    EquipSlot = 18
	SlotTabard    EquipSlot = 19
	SlotMax       EquipSlot = 20
)

// AttackType selects one of the independently refreshed weapon damage ranges.
type AttackType int

const (
	BaseAttack AttackType = iota
	OffAttack
	RangedAttack
	MaxAttack
)

// AttackTypeForSlot maps a weapon slot to its attack type; ok is false for
// slots whose enchantments need no damage refresh.
func AttackTypeForSlot(slot EquipSlot) (AttackType, bool) {
	switch slot {
	case SlotMainHand:
		return BaseAttack, true
	case SlotOffHand:
		return OffAttack, true
	case SlotRanged:
		return RangedAttack, true
	}
	return 0, false
}

// Equipment tracks what a player currently has equipped.
// Each slot holds a pointer to an InvItem (nil = empty).
type Equipment struct {
	Slots [SlotMax]*InvItem
}

// Get returns the item in a slot, or nil.
func (e *Equipment) Get(slot EquipSlot) *InvItem {
	if slot <= SlotNone || slot >= SlotMax {
		return nil
	}
	return e.Slots[slot]
}

// Set places an item in a slot (or nil to clear).
func (e *Equipment) Set(slot EquipSlot, item *InvItem) {
	if slot > SlotNone && slot < SlotMax {
		e.Slots[slot] = item
	}
}

// SlotsForInvType lists the equipment slots an inventory type may occupy.
func SlotsForInvType(t data.InventoryType) []EquipSlot {
	switch t {
	case data.InvTypeHead:
		return []EquipSlot{SlotHead}
	case data.InvTypeNeck:
		return []EquipSlot{SlotNeck}
	case data.InvTypeShoulders:
		return []EquipSlot{SlotShoulders}
	case data.InvTypeBody:
		return []EquipSlot{SlotBody}
	case data.InvTypeChest, data.InvTypeRobe:
		return []EquipSlot{SlotChest}
	case data.InvTypeWaist:
		return []EquipSlot{SlotWaist}
	case data.InvTypeLegs:
		return []EquipSlot{SlotLegs}
	case data.InvTypeFeet:
		return []EquipSlot{SlotFeet}
	case data.InvTypeWrists:
		return []EquipSlot{SlotWrists}
	case data.InvTypeHands:
		return []EquipSlot{SlotHands}
	case data.InvTypeFinger:
		return []EquipSlot{SlotFinger1, SlotFinger2}
	case data.InvTypeTrinket:
		return []EquipSlot{SlotTrinket1, SlotTrinket2}
	case data.InvTypeCloak:
		return []EquipSlot{SlotBack}
	case data.InvTypeWeapon:
		return []EquipSlot{SlotMainHand, SlotOffHand}
	case data.InvTypeTwoHandWeapon, data.InvTypeMainHand:
		return []EquipSlot{SlotMainHand}
	case data.InvTypeShield, data.InvTypeOffHand, data.InvTypeHoldable:
		return []EquipSlot{SlotOffHand}
	case data.InvTypeRanged, data.InvTypeThrown, data.InvTypeRangedRight, data.InvTypeRelic:
		return []EquipSlot{SlotRanged}
	case data.InvTypeTabard:
		return []EquipSlot{SlotTabard}
	}
	return nil
}

// CanOccupy reports whether an inventory type may be worn in a slot.
func CanOccupy(t data.InventoryType, slot EquipSlot) bool {
	for _, s := range SlotsForInvType(t) {
		if s == slot {
			return true
		}
	}
	return false
}
