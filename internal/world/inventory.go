package world

import (
	"math/rand"
	"sync/atomic"

	"github.com/l1jgo/empower/internal/data"
)

// RandInt returns a random int in [0, n).
func RandInt(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.Intn(n)
}

const (
	BackpackSize = 16
	BagEquipped  = uint8(255) // Position.Bag of an equipped item; Slot holds the EquipSlot
	BagAny       = uint8(254) // "anywhere" in CanStoreNewItem
)

// itemObjIDCounter generates unique item object IDs.
var itemObjIDCounter atomic.Int32

func init() {
	itemObjIDCounter.Store(500_000_000)
}

// NextItemObjID returns a unique object ID for an item instance.
func NextItemObjID() int32 {
	return itemObjIDCounter.Add(1)
}

// Position locates an item instance: a bag slot or an equipment slot.
type Position struct {
	Bag  uint8
	Slot uint8
}

// AnyPosition asks the inventory to pick a free slot.
var AnyPosition = Position{Bag: BagAny, Slot: BagAny}

// EquipPosition returns the position of an equipment slot.
func EquipPosition(slot EquipSlot) Position {
	return Position{Bag: BagEquipped, Slot: uint8(slot)}
}

// IsEquipment reports whether the position is an equipment slot.
func (p Position) IsEquipment() bool {
	return p.Bag == BagEquipped
}

// EquipSlot returns the equipment slot for an equipment position, or SlotNone.
func (p Position) EquipSlot() EquipSlot {
	if !p.IsEquipment() {
		return SlotNone
	}
	return EquipSlot(p.Slot)
}

// EnchantSlot identifies an enchantment slot on an item instance.
type EnchantSlot int

const (
	PermEnchantSlot  EnchantSlot = 0
	PropEnchantSlot0 EnchantSlot = 1
	PropEnchantSlot1 EnchantSlot = 2
	PropEnchantSlot2 EnchantSlot = 3
	PropEnchantSlot3 EnchantSlot = 4
	EnchantSlotCount             = 5
)

// PropEnchantSlots lists the property slots in fixed order.
var PropEnchantSlots = [...]EnchantSlot{PropEnchantSlot0, PropEnchantSlot1, PropEnchantSlot2, PropEnchantSlot3}

func (s EnchantSlot) String() string {
	switch s {
	case PermEnchantSlot:
		return "perm"
	case PropEnchantSlot0:
		return "prop0"
	case PropEnchantSlot1:
		return "prop1"
	case PropEnchantSlot2:
		return "prop2"
	case PropEnchantSlot3:
		return "prop3"
	}
	return "invalid"
}

// EnchantValue is one applied enchantment and the character that applied it.
type EnchantValue struct {
	ID        int32
	AppliedBy int32
}

// InvItem represents a single item instance owned by a player.
type InvItem struct {
	ObjectID         int32 // unique per instance
	ItemID           int32 // template ID
	Name             string
	Count            int32
	MaxStack         int32
	OwnerID          int32
	Pos              Position
	RandomPropertyID int32 // nonzero = randomized affixes occupy the property slots
	Enchants         [EnchantSlotCount]EnchantValue
	Dirty            bool // changed since last save
}

// EnchantID returns the enchantment id in a slot, 0 when empty.
func (it *InvItem) EnchantID(slot EnchantSlot) int32 {
	return it.Enchants[slot].ID
}

// SetEnchant stores an enchantment in a slot.
func (it *InvItem) SetEnchant(slot EnchantSlot, id, appliedBy int32) {
	it.Enchants[slot] = EnchantValue{ID: id, AppliedBy: appliedBy}
}

// ClearEnchant empties a slot.
func (it *InvItem) ClearEnchant(slot EnchantSlot) {
	it.Enchants[slot] = EnchantValue{}
}

// IsEquipped reports whether the item currently sits in an equipment slot.
func (it *InvItem) IsEquipped() bool {
	return it.Pos.IsEquipment()
}

// Inventory holds a player's bags. Bags[0] is the backpack.
// Accessed only by the goroutine serving the owning player.
type Inventory struct {
	Bags [][]*InvItem
}

// NewInventory creates a backpack plus one bag per extra size given.
func NewInventory(extraBags ...int) *Inventory {
	inv := &Inventory{Bags: make([][]*InvItem, 0, 1+len(extraBags))}
	inv.Bags = append(inv.Bags, make([]*InvItem, BackpackSize))
	for _, n := range extraBags {
		inv.Bags = append(inv.Bags, make([]*InvItem, n))
	}
	return inv
}

// valid reports whether pos addresses an existing bag slot.
func (inv *Inventory) valid(pos Position) bool {
	return int(pos.Bag) < len(inv.Bags) && int(pos.Slot) < len(inv.Bags[pos.Bag])
}

// At returns the item at a bag position, or nil.
func (inv *Inventory) At(pos Position) *InvItem {
	if !inv.valid(pos) {
		return nil
	}
	return inv.Bags[pos.Bag][pos.Slot]
}

// FindByObjectID returns the item with the given object ID.
func (inv *Inventory) FindByObjectID(objectID int32) *InvItem {
	var found *InvItem
	inv.Each(func(it *InvItem) {
		if it.ObjectID == objectID {
			found = it
		}
	})
	return found
}

// FindByItemID returns the first item matching the template ID.
func (inv *Inventory) FindByItemID(itemID int32) *InvItem {
	for _, bag := range inv.Bags {
		for _, it := range bag {
			if it != nil && it.ItemID == itemID {
				return it
			}
		}
	}
	return nil
}

// Each calls fn for every stored item in bag/slot order.
func (inv *Inventory) Each(fn func(*InvItem)) {
	for _, bag := range inv.Bags {
		for _, it := range bag {
			if it != nil {
				fn(it)
			}
		}
	}
}

// FirstFree returns the first empty bag slot.
func (inv *Inventory) FirstFree() (Position, bool) {
	for b, bag := range inv.Bags {
		for s, it := range bag {
			if it == nil {
				return Position{Bag: uint8(b), Slot: uint8(s)}, true
			}
		}
	}
	return Position{}, false
}

// Size returns the number of occupied slots.
func (inv *Inventory) Size() int {
	n := 0
	inv.Each(func(*InvItem) { n++ })
	return n
}

// IsFull reports whether no bag slot is free.
func (inv *Inventory) IsFull() bool {
	_, ok := inv.FirstFree()
	return !ok
}

func (inv *Inventory) put(pos Position, it *InvItem) {
	it.Pos = pos
	inv.Bags[pos.Bag][pos.Slot] = it
}

func (inv *Inventory) take(pos Position) *InvItem {
	it := inv.At(pos)
	if it != nil {
		inv.Bags[pos.Bag][pos.Slot] = nil
	}
	return it
}

// CountItem returns the total stack count of a template across all bags.
func (inv *Inventory) CountItem(itemID int32) int32 {
	var n int32
	inv.Each(func(it *InvItem) {
		if it.ItemID == itemID {
			n += it.Count
		}
	})
	return n
}

// AddItem stacks onto an existing stack with room, or places a new instance in the
// first free slot. Returns nil when the inventory has no room.
func (inv *Inventory) AddItem(info *data.ItemInfo, count int32, ownerID int32) *InvItem {
	if info.MaxStack > 1 {
		var stack *InvItem
		inv.Each(func(it *InvItem) {
			if stack == nil && it.ItemID == info.ItemID && it.Count+count <= it.MaxStack {
				stack = it
			}
		})
		if stack != nil {
			stack.Count += count
			stack.Dirty = true
			return stack
		}
	}
	pos, ok := inv.FirstFree()
	if !ok {
		return nil
	}
	it := newInvItem(info, count, ownerID, 0)
	inv.put(pos, it)
	return it
}

// RemoveCount removes count units of a template, emptying slots as stacks run out.
// Returns false (and removes nothing) if fewer than count units are held.
func (inv *Inventory) RemoveCount(itemID int32, count int32) bool {
	if inv.CountItem(itemID) < count {
		return false
	}
	for b, bag := range inv.Bags {
		for s, it := range bag {
			if count == 0 {
				return true
			}
			if it == nil || it.ItemID != itemID {
				continue
			}
			if it.Count > count {
				it.Count -= count
				it.Dirty = true
				return true
			}
			count -= it.Count
			inv.take(Position{Bag: uint8(b), Slot: uint8(s)})
		}
	}
	return true
}

// RemoveItem removes count units from one instance. Returns true when the
// instance is gone, false when only its count dropped (or it was not found).
func (inv *Inventory) RemoveItem(objectID int32, count int32) bool {
	it := inv.FindByObjectID(objectID)
	if it == nil || it.IsEquipped() {
		return false
	}
	if it.Count > count {
		it.Count -= count
		it.Dirty = true
		return false
	}
	inv.take(it.Pos)
	return true
}

func newInvItem(info *data.ItemInfo, count int32, ownerID int32, randomProperty int32) *InvItem {
	return &InvItem{
		ObjectID:         NextItemObjID(),
		ItemID:           info.ItemID,
		Name:             info.Name,
		Count:            count,
		MaxStack:         info.MaxStack,
		OwnerID:          ownerID,
		RandomPropertyID: randomProperty,
		Dirty:            true,
	}
}

// GenerateRandomPropertyID draws the random property id for a fresh instance.
func GenerateRandomPropertyID(info *data.ItemInfo) int32 {
	if info == nil || len(info.RandomProperties) == 0 {
		return 0
	}
	return info.RandomProperties[RandInt(len(info.RandomProperties))]
}
