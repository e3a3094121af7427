package empower

import (
	"fmt"

	"github.com/l1jgo/empower/internal/world"
)

// RoleKind tags what an enchantment slot holds.
type RoleKind uint8

const (
	RoleEmpty RoleKind = iota
	RoleMarker
	RoleModifier
	RoleForeign // a permanent enchantment owned by another system
)

// SlotRole is the role of one enchantment slot. Index is meaningful for RoleModifier only.
type SlotRole struct {
	Kind  RoleKind
	Index int
}

func Empty() SlotRole            { return SlotRole{Kind: RoleEmpty} }
func Marker() SlotRole           { return SlotRole{Kind: RoleMarker} }
func Modifier(i int) SlotRole    { return SlotRole{Kind: RoleModifier, Index: i} }
func foreignRole() SlotRole      { return SlotRole{Kind: RoleForeign} }
func (r SlotRole) IsEmpty() bool { return r.Kind == RoleEmpty }

func (r SlotRole) String() string {
	switch r.Kind {
	case RoleEmpty:
		return "empty"
	case RoleMarker:
		return "marker"
	case RoleModifier:
		return fmt.Sprintf("modifier(%d)", r.Index)
	case RoleForeign:
		return "foreign"
	}
	return "invalid"
}

// Layout is the role of every enchantment slot, indexed by world.EnchantSlot.
type Layout [world.EnchantSlotCount]SlotRole

// modifierSlot maps modifier i to its property slot.
func modifierSlot(i int) world.EnchantSlot {
	return world.PropEnchantSlots[i+1]
}

// PlanLayout returns where the marker and n modifiers go. The marker takes the
// permanent slot unless another system owns it.
func PlanLayout(permForeign bool, n int) Layout {
	var l Layout
	l[world.PermEnchantSlot] = Marker()
	if permForeign {
		l[world.PermEnchantSlot] = foreignRole()
		l[world.PropEnchantSlot0] = Marker()
	}
	for i := 0; i < min(n, MaxModifiers); i++ {
		l[modifierSlot(i)] = Modifier(i)
	}
	return l
}

// Roles classifies the current contents of an item's slots.
func Roles(it *world.InvItem, markerID int32) Layout {
	var l Layout
	switch id := it.EnchantID(world.PermEnchantSlot); {
	case id == markerID:
		l[world.PermEnchantSlot] = Marker()
	case id != 0:
		l[world.PermEnchantSlot] = foreignRole()
	}
	for i, s := range world.PropEnchantSlots {
		id := it.EnchantID(s)
		switch {
		case id == 0:
		case id == markerID:
			l[s] = Marker()
		case i == 0:
			l[s] = foreignRole()
		default:
			l[s] = Modifier(i - 1)
		}
	}
	return l
}

// CheckSlots verifies the slot invariants of an item: at most one marker,
// placed in the permanent slot unless that is foreign-owned, modifiers packed
// from the second property slot, and no modifier without a marker.
func CheckSlots(it *world.InvItem, markerID int32) error {
	l := Roles(it, markerID)
	markers := 0
	for _, r := range l {
		if r.Kind == RoleMarker {
			markers++
		}
	}
	if markers > 1 {
		return fmt.Errorf("item %d: %d marker slots", it.ObjectID, markers)
	}
	if l[world.PropEnchantSlot0].Kind == RoleMarker && l[world.PermEnchantSlot].Kind != RoleForeign {
		return fmt.Errorf("item %d: marker in prop0 while perm slot is %s", it.ObjectID, l[world.PermEnchantSlot])
	}
	if l[world.PropEnchantSlot0].Kind == RoleForeign {
		return fmt.Errorf("item %d: unexpected enchantment %d in prop0", it.ObjectID, it.EnchantID(world.PropEnchantSlot0))
	}
	gap := false
	mods := 0
	for i := 0; i < MaxModifiers; i++ {
		r := l[modifierSlot(i)]
		if r.Kind == RoleMarker {
			return fmt.Errorf("item %d: marker in %s", it.ObjectID, modifierSlot(i))
		}
		if r.IsEmpty() {
			gap = true
			continue
		}
		if gap {
			return fmt.Errorf("item %d: modifier after empty slot in %s", it.ObjectID, modifierSlot(i))
		}
		mods++
	}
	if mods > 0 && markers == 0 {
		return fmt.Errorf("item %d: %d modifiers without marker", it.ObjectID, mods)
	}
	return nil
}
