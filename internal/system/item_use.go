package system

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/empower/internal/core/event"
	"github.com/l1jgo/empower/internal/data"
	"github.com/l1jgo/empower/internal/empower"
	"github.com/l1jgo/empower/internal/scripting"
	"github.com/l1jgo/empower/internal/world"
)

// Item script names bound through the item template's script field.
const (
	ScriptEmpowerStone = "empower_stone"
	ScriptAbilityTome  = "ability_tome"
)

var (
	ErrNotUsable     = errors.New("item has no use script")
	ErrNotStone      = errors.New("item is not an empowering stone")
	ErrTomeNoSpell   = errors.New("tome has no spell to teach")
	ErrUnknownSpell  = errors.New("tome references an unknown spell")
	ErrSpellKnown    = errors.New("spell already known")
	ErrItemNotInBags = errors.New("used item is not in the player's bags")
)

// Outcome describes how one empowering stone use ended.
type Outcome struct {
	Kind      event.OutcomeKind
	NewItem   *world.InvItem // upgraded/downgraded replacement, or the empowered target
	Modifiers []int32
}

// ItemUseSystem handles on-use item scripts: the empowering stone and ability tomes.
// Calls for one player must be serialized by the caller.
type ItemUseSystem struct {
	deps *Deps
}

// NewItemUseSystem creates an ItemUseSystem.
func NewItemUseSystem(deps *Deps) *ItemUseSystem {
	return &ItemUseSystem{deps: deps}
}

// Use dispatches an item use to the script bound to the item's template.
// target is ignored by scripts that take none.
func (s *ItemUseSystem) Use(ctx context.Context, player *world.PlayerInfo, item, target *world.InvItem) error {
	if item == nil {
		return ErrItemNotInBags
	}
	info := s.deps.Catalog.Item(item.ItemID)
	if info == nil {
		return ErrNotUsable
	}
	switch info.Script {
	case ScriptEmpowerStone:
		_, err := s.UseEmpowerStone(ctx, player, item, target)
		return err
	case ScriptAbilityTome:
		_, err := s.UseAbilityTome(player, item)
		return err
	}
	return ErrNotUsable
}

// ---------- 強化石 ----------

// UseEmpowerStone runs the layered empowerment flow on target: the upgrade
// gate, then the downgrade gate, then the modifier roll. Each gate draws
// independently; a gate whose swap cannot be carried out falls through to the
// next stage. The stone is consumed only when an outcome is committed.
func (s *ItemUseSystem) UseEmpowerStone(ctx context.Context, player *world.PlayerInfo, stone, target *world.InvItem) (Outcome, error) {
	d := s.deps
	log := d.Log.With(zap.Int32("player", player.CharID))

	if err := s.checkStone(player, stone); err != nil {
		return Outcome{}, err
	}

	info, err := s.validateTarget(player, target)
	if err != nil {
		var itemID int32
		if target != nil {
			itemID = target.ItemID
		}
		log.Info("強化石: 目標不合法", zap.Int32("target_item", itemID), zap.String("fail_reason", err.Error()))
		s.emit(event.EmpowerOutcome{Kind: event.OutcomeRejected, CharID: player.CharID, TargetItemID: itemID, Reason: err.Error()})
		return Outcome{Kind: event.OutcomeRejected}, err
	}

	isWeapon := info.IsWeapon()
	log = log.With(zap.Int32("target_item", info.ItemID), zap.Int("tier", info.Tier), zap.Bool("is_weapon", isWeapon))
	gates := s.gates(info)

	if empower.Chance(d.Rand, gates.Upgrade) {
		pick, ok := empower.SelectUpgrade(d.Index, info, d.Config.UpgradeMaxTierDelta, d.Rand)
		log.Info("強化石: 升級判定",
			zap.Int("same_class_total", pick.Total),
			zap.Int("eligible", pick.Eligible),
			zap.Int32("picked", pick.ItemID),
		)
		if ok {
			if out, done := s.trySwap(player, stone, target, pick.ItemID, event.OutcomeUpgraded, log); done {
				return out, nil
			}
		}
	}

	if empower.Chance(d.Rand, gates.Downgrade) {
		pick, ok := empower.SelectDowngrade(d.Index, info, d.Rand)
		log.Info("強化石: 降級判定",
			zap.Int("same_type_total", pick.Total),
			zap.Int("eligible", pick.Eligible),
			zap.Int32("picked", pick.ItemID),
		)
		if ok {
			if out, done := s.trySwap(player, stone, target, pick.ItemID, event.OutcomeDowngraded, log); done {
				return out, nil
			}
		}
	}

	d.Whitelist.EnsureLoaded(ctx)
	raw := d.Whitelist.Pool(isWeapon)
	pool := s.usableRows(raw, isWeapon)
	if dropped := len(raw) - len(pool); dropped > 0 {
		log.Warn("強化石: 白名單含無效附魔", zap.Int("dropped", dropped))
	}
	// no usable row at all is a configuration problem, not bad luck
	if len(pool) == 0 {
		log.Error("強化石: 白名單為空", zap.Int("raw_rows", len(raw)))
		s.emit(event.EmpowerOutcome{Kind: event.OutcomeNoEnchant, CharID: player.CharID, TargetItemID: info.ItemID, Reason: empower.ErrWhitelistEmpty.Error()})
		return Outcome{Kind: event.OutcomeNoEnchant}, empower.ErrWhitelistEmpty
	}

	mods := empower.Roll(pool, info.Tier, d.Config.MaxModifiers, d.Rand)
	if len(mods) == 0 {
		log.Error("強化石: 沒有可用的附魔", zap.Int("pool", len(pool)))
		s.emit(event.EmpowerOutcome{Kind: event.OutcomeNoEnchant, CharID: player.CharID, TargetItemID: info.ItemID, Reason: empower.ErrNoEligibleEnchant.Error()})
		return Outcome{Kind: event.OutcomeNoEnchant}, empower.ErrNoEligibleEnchant
	}

	d.Reconciler.Clear(player, target)
	markerSlot := d.Reconciler.Apply(player, target, mods, player.CharID)
	s.consume(player, stone)

	log.Info("強化石: 強化完成",
		zap.Int32s("modifiers", mods),
		zap.Stringer("marker_slot", markerSlot),
		zap.Bool("equipped", target.IsEquipped()),
	)
	s.emit(event.EmpowerOutcome{Kind: event.OutcomeEmpowered, CharID: player.CharID, TargetItemID: info.ItemID, Modifiers: mods})
	return Outcome{Kind: event.OutcomeEmpowered, NewItem: target, Modifiers: mods}, nil
}

func (s *ItemUseSystem) checkStone(player *world.PlayerInfo, stone *world.InvItem) error {
	if stone == nil || stone.ItemID != s.deps.Config.StoneItemID {
		return ErrNotStone
	}
	if !player.Owns(stone) || player.Inv.FindByObjectID(stone.ObjectID) != stone {
		return ErrItemNotInBags
	}
	return nil
}

// validateTarget applies the rejection rules in order: missing, not gear,
// not owned, randomized.
func (s *ItemUseSystem) validateTarget(player *world.PlayerInfo, target *world.InvItem) (*data.ItemInfo, error) {
	if target == nil {
		return nil, empower.ErrTargetMissing
	}
	info := s.deps.Catalog.Item(target.ItemID)
	if info == nil || !info.IsGear() {
		return nil, empower.ErrTargetNotGear
	}
	if !player.Owns(target) || player.ItemAt(target.Pos) != target {
		return nil, empower.ErrTargetNotOwned
	}
	if target.RandomPropertyID != 0 {
		return nil, empower.ErrTargetRandomized
	}
	return info, nil
}

func (s *ItemUseSystem) gates(info *data.ItemInfo) scripting.GateChances {
	cfg := s.deps.Config
	if s.deps.Scripting == nil {
		return scripting.GateChances{Upgrade: cfg.UpgradeChancePct, Downgrade: cfg.DowngradeChancePct}
	}
	g := s.deps.Scripting.CalcEmpowerGates(scripting.GateContext{
		Tier:            info.Tier,
		IsWeapon:        info.IsWeapon(),
		ItemClass:       int(info.Class),
		UpgradeChance:   cfg.UpgradeChancePct,
		DowngradeChance: cfg.DowngradeChancePct,
	})
	if g.Note != "" {
		s.deps.Log.Debug("強化石: 機率腳本備註", zap.String("note", g.Note))
	}
	return g
}

// trySwap replaces target with itemID. done is false when the inventory
// refused, in which case nothing changed.
func (s *ItemUseSystem) trySwap(player *world.PlayerInfo, stone, target *world.InvItem, itemID int32, kind event.OutcomeKind, log *zap.Logger) (Outcome, bool) {
	oldID := target.ItemID
	wasEquipped := target.IsEquipped()
	newIt, err := empower.ReplaceInPlace(player, target, itemID)
	if err != nil {
		log.Info("強化石: 替換失敗",
			zap.String("kind", string(kind)),
			zap.Int32("picked", itemID),
			zap.Bool("equipped", wasEquipped),
			zap.String("fail_reason", err.Error()),
		)
		return Outcome{}, false
	}
	s.consume(player, stone)
	log.Info(fmt.Sprintf("強化石: 物品%s", kindLabel(kind)),
		zap.Int32("new_item", newIt.ItemID),
		zap.Bool("equipped", wasEquipped),
	)
	s.emit(event.EmpowerOutcome{Kind: kind, CharID: player.CharID, TargetItemID: oldID, NewItemID: newIt.ItemID})
	return Outcome{Kind: kind, NewItem: newIt}, true
}

func kindLabel(kind event.OutcomeKind) string {
	if kind == event.OutcomeUpgraded {
		return "升級"
	}
	return "降級"
}

// usableRows drops rows whose enchantment has no effect on the target type.
func (s *ItemUseSystem) usableRows(rows []data.WhitelistRow, isWeapon bool) []data.WhitelistRow {
	out := make([]data.WhitelistRow, 0, len(rows))
	for _, r := range rows {
		if s.deps.Index.IsUsable(r.EnchantID, isWeapon) {
			out = append(out, r)
		}
	}
	return out
}

func (s *ItemUseSystem) consume(player *world.PlayerInfo, item *world.InvItem) {
	player.Inv.RemoveItem(item.ObjectID, 1)
}

func (s *ItemUseSystem) emit(ev event.EmpowerOutcome) {
	if s.deps.Bus != nil {
		event.Emit(s.deps.Bus, ev)
	}
}

// ---------- 技能書 ----------

// UseAbilityTome teaches the spell a tome references (second spell, falling
// back to the first) regardless of class, then consumes one tome.
func (s *ItemUseSystem) UseAbilityTome(player *world.PlayerInfo, tome *world.InvItem) (int32, error) {
	if tome == nil || player.Inv.FindByObjectID(tome.ObjectID) != tome {
		return 0, ErrItemNotInBags
	}
	info := s.deps.Catalog.Item(tome.ItemID)
	if info == nil {
		return 0, ErrNotUsable
	}
	spellID := info.Spells[1]
	if spellID == 0 {
		spellID = info.Spells[0]
	}
	if spellID == 0 {
		return 0, ErrTomeNoSpell
	}
	spell := s.deps.Catalog.Spell(spellID)
	if spell == nil {
		return 0, fmt.Errorf("%w: %d", ErrUnknownSpell, spellID)
	}
	if player.KnownSpells[spellID] {
		return 0, fmt.Errorf("%w: %s", ErrSpellKnown, spell.Name)
	}

	player.KnownSpells[spellID] = true
	s.consume(player, tome)
	if s.deps.Bus != nil {
		event.Emit(s.deps.Bus, event.SpellLearned{CharID: player.CharID, SpellID: spellID, TomeID: tome.ItemID})
	}
	s.deps.Log.Info("玩家從技能書學習技能",
		zap.Int32("player", player.CharID),
		zap.Int32("spell", spellID),
		zap.String("spell_name", spell.Name),
		zap.Int32("tome", tome.ItemID),
	)
	return spellID, nil
}
