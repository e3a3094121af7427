package empower

import "github.com/l1jgo/empower/internal/world"

// LiveEffects is the owning player's live state. *world.PlayerInfo satisfies it.
type LiveEffects interface {
	ApplyEnchantment(it *world.InvItem, slot world.EnchantSlot, apply bool)
	RefreshWeaponDamage(attack world.AttackType)
	RefreshVisibleSlot(slot world.EquipSlot)
}

// Reconciler writes marker and modifier enchantments into item slots and keeps
// the owner's live effects in step.
type Reconciler struct {
	markerID int32
}

// NewReconciler returns a reconciler for the given marker enchantment.
func NewReconciler(markerID int32) *Reconciler {
	return &Reconciler{markerID: markerID}
}

// MarkerID returns the reserved marker enchantment id.
func (r *Reconciler) MarkerID() int32 { return r.markerID }

// Clear removes the marker and every property enchantment. A permanent
// enchantment other than the marker is left in place.
func (r *Reconciler) Clear(live LiveEffects, it *world.InvItem) {
	equipped := it.IsEquipped()
	markerInPerm := it.EnchantID(world.PermEnchantSlot) == r.markerID
	if equipped {
		for _, s := range world.PropEnchantSlots {
			if it.EnchantID(s) != 0 {
				live.ApplyEnchantment(it, s, false)
			}
		}
		if markerInPerm {
			live.ApplyEnchantment(it, world.PermEnchantSlot, false)
		}
	}
	for _, s := range world.PropEnchantSlots {
		it.ClearEnchant(s)
	}
	if markerInPerm {
		it.ClearEnchant(world.PermEnchantSlot)
	}
	it.Dirty = true
	if equipped {
		r.refresh(live, it)
	}
}

// Apply writes the marker and up to MaxModifiers modifiers following
// PlanLayout, replacing whatever the managed slots held. Returns the slot the
// marker went to.
func (r *Reconciler) Apply(live LiveEffects, it *world.InvItem, modifiers []int32, appliedBy int32) world.EnchantSlot {
	if len(modifiers) > MaxModifiers {
		modifiers = modifiers[:MaxModifiers]
	}
	perm := it.EnchantID(world.PermEnchantSlot)
	layout := PlanLayout(perm != 0 && perm != r.markerID, len(modifiers))
	equipped := it.IsEquipped()

	var markerSlot world.EnchantSlot
	var written []world.EnchantSlot
	for s := world.EnchantSlot(0); s < world.EnchantSlotCount; s++ {
		role := layout[s]
		if role.Kind == RoleForeign {
			continue
		}
		if equipped {
			live.ApplyEnchantment(it, s, false)
		}
		switch role.Kind {
		case RoleMarker:
			it.SetEnchant(s, r.markerID, appliedBy)
			markerSlot = s
		case RoleModifier:
			it.SetEnchant(s, modifiers[role.Index], appliedBy)
			written = append(written, s)
		default:
			it.ClearEnchant(s)
		}
	}
	it.Dirty = true

	if equipped {
		live.ApplyEnchantment(it, markerSlot, true)
		for _, s := range written {
			live.ApplyEnchantment(it, s, true)
		}
		r.refresh(live, it)
	}
	return markerSlot
}

func (r *Reconciler) refresh(live LiveEffects, it *world.InvItem) {
	slot := it.Pos.EquipSlot()
	if attack, ok := world.AttackTypeForSlot(slot); ok {
		live.RefreshWeaponDamage(attack)
	}
	live.RefreshVisibleSlot(slot)
}
