package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/l1jgo/empower/internal/data"
	"github.com/l1jgo/empower/internal/empower"
	"github.com/l1jgo/empower/internal/persist"
)

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Inspect and edit the enchantment whitelist",
}

var whitelistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the rows served for weapons and armor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		src, closeSrc, err := whitelistSource(ctx)
		if err != nil {
			return err
		}
		defer closeSrc()

		for _, weapon := range []bool{true, false} {
			rows, err := src.LoadWhitelist(ctx, weapon)
			if err != nil {
				return err
			}
			printSection(sideLabel(weapon))
			fmt.Printf("  %-9s %-16s %5s %8s %6s\n", "enchant", "group", "rank", "min_tier", "weight")
			for _, r := range rows {
				fmt.Printf("  %-9d %-16s %5d %8d %6d\n", r.EnchantID, r.EffectiveGroup(), r.Rank, r.MinTier, r.Weight)
			}
			fmt.Println()
		}
		return nil
	},
}

// whitelistCheckCmd runs the same load the engine performs and reports what
// survives the usability filter. It is a dry run: a running engine picks up
// changes only through its own reload.
var whitelistCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry run: load the whitelist like the engine does and report usable pool sizes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cat, err := loadCatalog(ctx)
		if err != nil {
			return err
		}
		src, closeSrc, err := whitelistSource(ctx)
		if err != nil {
			return err
		}
		defer closeSrc()

		cache := empower.NewWhitelistCache(src, log)
		if err := cache.Reload(ctx); err != nil {
			return fmt.Errorf("reload whitelist: %w", err)
		}
		idx := empower.NewIndex(cat, cfg.Empower.MarkerEnchantID)
		printSection("白名單")
		for _, weapon := range []bool{true, false} {
			rows := cache.Pool(weapon)
			usable := 0
			for _, r := range rows {
				if idx.IsUsable(r.EnchantID, weapon) {
					usable++
				}
			}
			printStat(sideLabel(weapon)+" 列數", len(rows))
			printStat(sideLabel(weapon)+" 可用", usable)
		}
		return nil
	},
}

var whitelistImportCmd = &cobra.Command{
	Use:   "import [yaml-file]",
	Short: "Upsert every row of a YAML whitelist file into the database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := cfg.Whitelist.YAMLPath
		if len(args) == 1 {
			path = args[0]
		}
		recs, err := data.NewWhitelistFile(path).LoadRecords()
		if err != nil {
			return err
		}
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := persist.NewWhitelistRepo(db).Upsert(ctx, recs); err != nil {
			return err
		}
		printOK(fmt.Sprintf("已匯入 %d 筆白名單 (%s)", len(recs), path))
		return nil
	},
}

func setEnabledCmd(use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <enchant-id>",
		Short: use + " one whitelist row in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("enchant id: %w", err)
			}
			ctx := cmd.Context()
			db, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			found, err := persist.NewWhitelistRepo(db).SetEnabled(ctx, int32(id), enabled)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("enchant %d is not in the whitelist", id)
			}
			printOK(fmt.Sprintf("enchant %d enabled=%t", id, enabled))
			return nil
		},
	}
}

func sideLabel(weapon bool) string {
	if weapon {
		return "武器"
	}
	return "防具"
}

func init() {
	whitelistCmd.AddCommand(whitelistListCmd)
	whitelistCmd.AddCommand(whitelistCheckCmd)
	whitelistCmd.AddCommand(whitelistImportCmd)
	whitelistCmd.AddCommand(setEnabledCmd("enable", true))
	whitelistCmd.AddCommand(setEnabledCmd("disable", false))
}
