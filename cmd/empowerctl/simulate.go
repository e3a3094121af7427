package main

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/l1jgo/empower/internal/core/event"
	coresys "github.com/l1jgo/empower/internal/core/system"
	"github.com/l1jgo/empower/internal/empower"
	"github.com/l1jgo/empower/internal/persist"
	"github.com/l1jgo/empower/internal/scripting"
	"github.com/l1jgo/empower/internal/system"
	"github.com/l1jgo/empower/internal/world"
)

const simTick = 200 * time.Millisecond

var simOpts struct {
	uses        int
	seed        uint64
	level       int
	equip       bool
	logDB       bool
	reloadEvery int
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <item-id>",
	Short: "Use empowering stones on a fresh item offline and tally the outcomes",
	Long: `simulate gives a throwaway character one copy of the item and feeds it
empowering stones through the same tick pipeline the server runs: input,
event dispatch, whitelist reload and outcome logging.

  Example: simulate 20100 --uses 500 --seed 42 --equip`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.IntVarP(&simOpts.uses, "uses", "n", 100, "stones to use")
	f.Uint64Var(&simOpts.seed, "seed", 0, "rng seed (0 = config rng_seed)")
	f.IntVar(&simOpts.level, "level", 60, "character level")
	f.BoolVar(&simOpts.equip, "equip", false, "wear the item while empowering")
	f.BoolVar(&simOpts.logDB, "log-db", false, "write outcomes to the empower_log table")
	f.IntVar(&simOpts.reloadEvery, "reload-every", 0, "reload the whitelist every N uses (0 = never)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	itemID, err := parseID(args[0])
	if err != nil {
		return err
	}

	cat, err := loadCatalog(ctx)
	if err != nil {
		return err
	}
	if cat.Item(itemID) == nil {
		return fmt.Errorf("item %d not found", itemID)
	}
	stoneInfo := cat.Item(cfg.Empower.StoneItemID)
	if stoneInfo == nil {
		return fmt.Errorf("stone item %d not found", cfg.Empower.StoneItemID)
	}

	src, closeSrc, err := whitelistSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	scripts, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()

	empCfg := cfg.Empower
	if simOpts.seed != 0 {
		empCfg.RNGSeed = simOpts.seed
	}
	bus := event.NewBus()
	deps := system.NewDeps(empCfg, cat, src, scripts, bus, log)
	items := system.NewItemUseSystem(deps)

	input := system.NewInputSystem(items, 1, 1, log)
	reload := system.NewWhitelistReloadSystem(deps.Whitelist, log)
	runner := coresys.NewRunner()
	runner.Register(input)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(reload)

	var outcomeLog *system.OutcomeLogSystem
	if simOpts.logDB {
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		outcomeLog = system.NewOutcomeLogSystem(bus, persist.NewOutcomeLogRepo(db), log, 10)
		runner.Register(outcomeLog)
	}

	counts := make(map[string]int)
	modCounts := make(map[int32]int)
	event.Subscribe(bus, func(ev event.EmpowerOutcome) {
		counts[string(ev.Kind)]++
		for _, id := range ev.Modifiers {
			modCounts[id]++
		}
	})

	player := world.NewPlayer(1, "simulator", simOpts.level, cat)
	target := player.Inv.AddItem(cat.Item(itemID), 1, player.CharID)
	if target == nil {
		return errors.New("no room for the target item")
	}
	if simOpts.equip {
		if res := player.EquipFromBag(target); res != world.InvOK {
			return fmt.Errorf("equip item %d: %s", itemID, res)
		}
	}
	// replacements keep the slot, so the target is tracked by position
	pos := target.Pos

	var failures int
	for i := 0; i < simOpts.uses; i++ {
		if ctx.Err() != nil {
			break
		}
		if simOpts.reloadEvery > 0 && i > 0 && i%simOpts.reloadEvery == 0 {
			reload.Request()
		}
		stone := player.Inv.FindByItemID(stoneInfo.ItemID)
		if stone == nil {
			stone = player.Inv.AddItem(stoneInfo, 1, player.CharID)
		}
		if stone == nil {
			return errors.New("no room for a stone")
		}
		input.Enqueue(system.UseRequest{
			Player: player,
			Item:   stone,
			Target: player.ItemAt(pos),
			Done: func(err error) {
				if err != nil && !errors.Is(err, empower.ErrNoEligibleEnchant) {
					failures++
				}
			},
		})
		runner.Tick(simTick)
	}
	// deliver the last tick's events
	runner.TickPhase(coresys.PhaseDispatch, simTick)
	if outcomeLog != nil {
		outcomeLog.Flush()
	}

	final := player.ItemAt(pos)
	printSection("模擬結果")
	printCounts(counts)
	printStat("失敗", failures)
	fmt.Println()
	if final != nil {
		printSection("最終物品")
		name := ""
		if info := cat.Item(final.ItemID); info != nil {
			name = info.Name
		}
		fmt.Printf("  %s (id %d)\n", name, final.ItemID)
		for s := world.EnchantSlot(0); s < world.EnchantSlotCount; s++ {
			if id := final.EnchantID(s); id != 0 {
				fmt.Printf("    %-6s %d\n", s, id)
			}
		}
		fmt.Println()
	}
	if len(modCounts) > 0 {
		printSection("附魔分布")
		ids := make([]int32, 0, len(modCounts))
		for id := range modCounts {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			printStat(fmt.Sprintf("enchant %d", id), modCounts[id])
		}
	}
	log.Debug("模擬完成", zap.Int("uses", simOpts.uses), zap.Int32("item", itemID))
	return nil
}

var outcomeOrder = []event.OutcomeKind{
	event.OutcomeEmpowered,
	event.OutcomeUpgraded,
	event.OutcomeDowngraded,
	event.OutcomeNoEnchant,
	event.OutcomeRejected,
}

func printCounts(counts map[string]int) {
	for _, k := range outcomeOrder {
		printStat(string(k), counts[string(k)])
	}
}
