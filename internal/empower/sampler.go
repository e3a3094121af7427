package empower

import (
	"sort"

	"github.com/l1jgo/empower/internal/data"
)

// groupWeights returns, per eligible group not in exclude, the maximum weight
// among its eligible rows, plus the group keys in ascending order.
func groupWeights(pool []data.WhitelistRow, tier int, exclude map[string]bool) (map[string]int, []string) {
	weights := make(map[string]int)
	for _, r := range pool {
		if !r.EligibleAt(tier) {
			continue
		}
		g := r.EffectiveGroup()
		if exclude[g] {
			continue
		}
		if w := int(r.Weight); w > weights[g] {
			weights[g] = w
		}
	}
	keys := make([]string, 0, len(weights))
	for g := range weights {
		keys = append(keys, g)
	}
	sort.Strings(keys)
	return weights, keys
}

// PickGroup chooses one eligible group with probability proportional to its
// maximum row weight. Groups in exclude are skipped.
func PickGroup(pool []data.WhitelistRow, tier int, exclude map[string]bool, rng Rand) (string, bool) {
	weights, keys := groupWeights(pool, tier, exclude)
	total := 0
	for _, g := range keys {
		total += weights[g]
	}
	if total == 0 {
		return "", false
	}
	draw := urand(rng, 1, total)
	acc := 0
	for _, g := range keys {
		acc += weights[g]
		if acc >= draw {
			return g, true
		}
	}
	return "", false
}

// PickRank chooses uniformly among the eligible rows of a group, in pool order.
func PickRank(pool []data.WhitelistRow, tier int, group string, rng Rand) (int32, bool) {
	eligible := 0
	for _, r := range pool {
		if r.EligibleAt(tier) && r.EffectiveGroup() == group {
			eligible++
		}
	}
	if eligible == 0 {
		return 0, false
	}
	nth := urand(rng, 1, eligible)
	for _, r := range pool {
		if r.EligibleAt(tier) && r.EffectiveGroup() == group {
			nth--
			if nth == 0 {
				return r.EnchantID, true
			}
		}
	}
	return 0, false
}

// HasEligibleGroup reports whether any row can be rolled at tier.
func HasEligibleGroup(pool []data.WhitelistRow, tier int) bool {
	for _, r := range pool {
		if r.EligibleAt(tier) {
			return true
		}
	}
	return false
}
