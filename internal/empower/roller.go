package empower

import "github.com/l1jgo/empower/internal/data"

// MaxModifiers is the number of property slots reserved for rolled modifiers.
const MaxModifiers = 3

// Roll draws up to maxCount enchantments, each from a different group. The
// count is drawn uniformly in [1, maxCount]; the result is shorter when the
// pool runs out of groups, and empty when nothing is eligible at tier.
func Roll(pool []data.WhitelistRow, tier, maxCount int, rng Rand) []int32 {
	if maxCount <= 0 || !HasEligibleGroup(pool, tier) {
		return nil
	}
	maxCount = min(maxCount, MaxModifiers)
	n := urand(rng, 1, maxCount)

	out := make([]int32, 0, n)
	chosen := make(map[string]bool, n)
	for len(out) < n {
		g, ok := PickGroup(pool, tier, chosen, rng)
		if !ok {
			break
		}
		id, ok := PickRank(pool, tier, g, rng)
		if !ok {
			break
		}
		chosen[g] = true
		out = append(out, id)
	}
	return out
}
