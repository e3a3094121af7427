package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/l1jgo/empower/internal/data"
	"github.com/l1jgo/empower/internal/empower"
	"github.com/l1jgo/empower/internal/persist"
)

var swapCmd = &cobra.Command{
	Use:   "swap <item-id>",
	Short: "Preview the upgrade and downgrade candidates of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := parseID(args[0])
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		info := cat.Item(itemID)
		if info == nil {
			return fmt.Errorf("item %d not found", itemID)
		}
		if !info.IsGear() {
			return fmt.Errorf("item %d (%s) is not gear", itemID, info.Name)
		}
		idx := empower.NewIndex(cat, cfg.Empower.MarkerEnchantID)
		rng := empower.NewRand(cfg.Empower.RNGSeed)

		fmt.Printf("  %s (id %d, tier %d)\n\n", info.Name, info.ItemID, info.Tier)

		delta := cfg.Empower.UpgradeMaxTierDelta
		printSection(fmt.Sprintf("升級 tier %d..%d", info.Tier, info.Tier+delta))
		for _, e := range idx.ClassEntries(info.Class) {
			if e.Tier >= info.Tier && e.Tier <= info.Tier+delta && e.ItemID != info.ItemID {
				printItem(cat, e)
			}
		}
		up, ok := empower.SelectUpgrade(idx, info, delta, rng)
		printPick(up, ok)

		printSection(fmt.Sprintf("降級 tier < %d", info.Tier))
		if info.Tier > 0 {
			for _, e := range idx.CategoryEntries(empower.CategoryOf(info)) {
				if e.Tier < info.Tier {
					printItem(cat, e)
				}
			}
		}
		down, ok := empower.SelectDowngrade(idx, info, rng)
		printPick(down, ok)
		return nil
	},
}

func printItem(cat *data.Catalog, e empower.TierEntry) {
	name := ""
	if it := cat.Item(e.ItemID); it != nil {
		name = it.Name
	}
	fmt.Printf("    %-8d tier %-4d %s\n", e.ItemID, e.Tier, name)
}

func printPick(p empower.SwapPick, ok bool) {
	if !ok {
		fmt.Printf("  \033[90m無候選 (共 %d)\033[0m\n\n", p.Total)
		return
	}
	fmt.Printf("  抽中 %d (候選 %d / 共 %d)\n\n", p.ItemID, p.Eligible, p.Total)
}

var findStatCmd = &cobra.Command{
	Use:   "find-stat <stat> <value> [max]",
	Short: "Find enchantments granting a stat bonus, directly or through an equip spell",
	Long: `find-stat looks up enchantments by the stat they raise.

  With one value it prints the lowest-id enchantment granting exactly that bonus.
  With two values it lists every enchantment whose bonus falls in [value, max].

  Example: find-stat strength 3
           find-stat stamina 1 10`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		axis, ok := data.StatFromString(args[0])
		if !ok {
			return fmt.Errorf("unknown stat %q", args[0])
		}
		lo, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("value: %w", err)
		}
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		idx := empower.NewIndex(cat, cfg.Empower.MarkerEnchantID)

		if len(args) == 2 {
			id, ok := idx.FindStatEnchant(axis, lo)
			if !ok {
				return fmt.Errorf("no enchantment grants %s %+d", args[0], lo)
			}
			printEnchant(cat, id)
			return nil
		}
		hi, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("max: %w", err)
		}
		ids := idx.StatEnchantsInRange(axis, lo, hi)
		for _, id := range ids {
			printEnchant(cat, id)
		}
		printStat("符合", len(ids))
		return nil
	},
}

func printEnchant(cat *data.Catalog, id int32) {
	name := ""
	if e := cat.Enchant(id); e != nil {
		name = e.Name
	}
	fmt.Printf("  %-8d %s\n", id, name)
}

var outcomesCmd = &cobra.Command{
	Use:   "outcomes <char-id>",
	Short: "Count logged empowerment outcomes of a character by kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		charID, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		counts, err := persist.NewOutcomeLogRepo(db).CountByKind(ctx, charID)
		if err != nil {
			return err
		}
		printSection(fmt.Sprintf("角色 %d", charID))
		printCounts(counts)
		return nil
	},
}

func parseID(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("id %q: %w", s, err)
	}
	return int32(v), nil
}
