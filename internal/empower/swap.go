package empower

import (
	"sort"

	"github.com/l1jgo/empower/internal/data"
	"github.com/l1jgo/empower/internal/world"
)

// SwapPick is the result of a swap search. Total and Eligible are filled even
// when nothing was picked.
type SwapPick struct {
	ItemID   int32
	Total    int // items under the searched key
	Eligible int // items inside the tier window
}

// SelectUpgrade picks uniformly among items of the same class whose tier lies
// in [tier, tier+maxDelta], excluding the item itself.
func SelectUpgrade(idx *Index, info *data.ItemInfo, maxDelta int, rng Rand) (SwapPick, bool) {
	entries := idx.ClassEntries(info.Class)
	pick := SwapPick{Total: len(entries)}
	hi := info.Tier + maxDelta
	var cands []int32
	for i := sort.Search(len(entries), func(i int) bool { return entries[i].Tier >= info.Tier }); i < len(entries); i++ {
		if entries[i].Tier > hi {
			break
		}
		if entries[i].ItemID != info.ItemID {
			cands = append(cands, entries[i].ItemID)
		}
	}
	return pickCandidate(pick, cands, rng)
}

// SelectDowngrade picks uniformly among items of the same category with a
// strictly lower tier. Untiered items never downgrade.
func SelectDowngrade(idx *Index, info *data.ItemInfo, rng Rand) (SwapPick, bool) {
	if info.Tier == 0 {
		return SwapPick{}, false
	}
	entries := idx.CategoryEntries(CategoryOf(info))
	pick := SwapPick{Total: len(entries)}
	var cands []int32
	for _, e := range entries {
		if e.Tier >= info.Tier {
			break
		}
		if e.ItemID != info.ItemID {
			cands = append(cands, e.ItemID)
		}
	}
	return pickCandidate(pick, cands, rng)
}

func pickCandidate(pick SwapPick, cands []int32, rng Rand) (SwapPick, bool) {
	pick.Eligible = len(cands)
	if len(cands) == 0 {
		return pick, false
	}
	pick.ItemID = cands[urand(rng, 1, len(cands))-1]
	return pick, true
}

// InventoryService is the host inventory the swap is carried out against.
// *world.PlayerInfo satisfies it.
type InventoryService interface {
	CanEquipNewItem(slot world.EquipSlot, itemID int32, swap bool) world.InvResult
	EquipNewItem(slot world.EquipSlot, itemID int32, randomProperty int32) *world.InvItem
	CanStoreNewItem(pos world.Position, itemID int32) (world.Position, world.InvResult)
	StoreNewItem(pos world.Position, itemID int32, randomProperty int32) *world.InvItem
	DestroyItem(pos world.Position) *world.InvItem
	RandomPropertyFor(itemID int32) int32
}

// ReplaceInPlace swaps target for a fresh instance of newItemID. The target is
// destroyed only after the replacement is known to fit, so a validation error
// leaves it untouched. If the inventory then fails to create the replacement,
// the target is already gone and a SwapError is still returned.
func ReplaceInPlace(inv InventoryService, target *world.InvItem, newItemID int32) (*world.InvItem, error) {
	pos := target.Pos
	if pos.IsEquipment() {
		slot := pos.EquipSlot()
		if res := inv.CanEquipNewItem(slot, newItemID, true); res != world.InvOK {
			return nil, &SwapError{Op: "equip", Result: res}
		}
		rp := inv.RandomPropertyFor(newItemID)
		inv.DestroyItem(pos)
		it := inv.EquipNewItem(slot, newItemID, rp)
		if it == nil {
			return nil, &SwapError{Op: "equip", Result: world.InvErrSlotOccupied}
		}
		return it, nil
	}

	fallback, res := inv.CanStoreNewItem(world.AnyPosition, newItemID)
	if res != world.InvOK {
		return nil, &SwapError{Op: "store", Result: res}
	}
	rp := inv.RandomPropertyFor(newItemID)
	inv.DestroyItem(pos)
	if it := inv.StoreNewItem(pos, newItemID, rp); it != nil {
		return it, nil
	}
	it := inv.StoreNewItem(fallback, newItemID, rp)
	if it == nil {
		return nil, &SwapError{Op: "store", Result: world.InvErrInventoryFull}
	}
	return it, nil
}
