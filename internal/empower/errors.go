package empower

import (
	"errors"
	"fmt"

	"github.com/l1jgo/empower/internal/world"
)

// Target rejected: terminal, nothing mutated.
var (
	ErrTargetMissing    = errors.New("empower: target item missing")
	ErrTargetNotGear    = errors.New("empower: target is not a weapon or armor")
	ErrTargetNotOwned   = errors.New("empower: target not owned by actor")
	ErrTargetRandomized = errors.New("empower: target carries random properties")
)

var (
	// ErrWhitelistEmpty means the pool for the target type has no rows.
	ErrWhitelistEmpty = errors.New("empower: whitelist empty for target type")
	// ErrNoEligibleEnchant means the roll produced zero modifiers.
	ErrNoEligibleEnchant = errors.New("empower: no eligible enchantments")
	ErrNoSwapCandidate   = errors.New("empower: no swap candidate")
	ErrSwapRejected      = errors.New("empower: swap rejected by inventory")
)

// SwapError reports which inventory validation refused a swap.
type SwapError struct {
	Op     string // "equip" or "store"
	Result world.InvResult
}

func (e *SwapError) Error() string {
	return fmt.Sprintf("empower: swap %s rejected: %s", e.Op, e.Result)
}

func (e *SwapError) Unwrap() error { return ErrSwapRejected }

// IsRejection reports whether err rejects the target itself.
func IsRejection(err error) bool {
	return errors.Is(err, ErrTargetMissing) || errors.Is(err, ErrTargetNotGear) ||
		errors.Is(err, ErrTargetNotOwned) || errors.Is(err, ErrTargetRandomized)
}
