package world

import "fmt"

// InvResult is the outcome of an inventory validation: InvOK or a named failure.
type InvResult int

const (
	InvOK InvResult = iota
	InvErrItemNotFound
	InvErrNotEquippable
	InvErrWrongSlot
	InvErrSlotOccupied
	InvErrLevelTooLow
	InvErrTwoHandConflict
	InvErrInventoryFull
	InvErrBadPosition
)

var invResultNames = [...]string{
	InvOK:                 "ok",
	InvErrItemNotFound:    "item_not_found",
	InvErrNotEquippable:   "not_equippable",
	InvErrWrongSlot:       "wrong_slot",
	InvErrSlotOccupied:    "slot_occupied",
	InvErrLevelTooLow:     "level_too_low",
	InvErrTwoHandConflict: "two_hand_conflict",
	InvErrInventoryFull:   "inventory_full",
	InvErrBadPosition:     "bad_position",
}

func (r InvResult) String() string {
	if r >= 0 && int(r) < len(invResultNames) {
		return invResultNames[r]
	}
	return fmt.Sprintf("inv_result(%d)", int(r))
}
