package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// EnchantEffectSlots is the number of effect slots on one enchantment definition.
const EnchantEffectSlots = 3

// EffectKind is the type of one enchantment effect slot.
type EffectKind uint8

const (
	EffectNone        EffectKind = 0
	EffectCombatSpell EffectKind = 1
	EffectDamage      EffectKind = 2
	EffectEquipSpell  EffectKind = 3
	EffectResistance  EffectKind = 4
	EffectStat        EffectKind = 5
	EffectTotem       EffectKind = 6
)

var effectKindMap = map[string]EffectKind{
	"none":         EffectNone,
	"combat_spell": EffectCombatSpell,
	"damage":       EffectDamage,
	"equip_spell":  EffectEquipSpell,
	"resistance":   EffectResistance,
	"stat":         EffectStat,
	"totem":        EffectTotem,
}

func (k EffectKind) String() string {
	for s, v := range effectKindMap {
		if v == k {
			return s
		}
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsSpell reports whether the effect argument references a spell.
func (k EffectKind) IsSpell() bool {
	return k == EffectCombatSpell || k == EffectEquipSpell
}

// StatAxis identifies a primary stat.
type StatAxis uint8

const (
	StatStrength StatAxis = iota
	StatAgility
	StatStamina
	StatIntellect
	StatSpirit
	StatMax
)

var statMap = map[string]StatAxis{
	"strength":  StatStrength,
	"agility":   StatAgility,
	"stamina":   StatStamina,
	"intellect": StatIntellect,
	"spirit":    StatSpirit,
}

// StatFromString converts a YAML stat name; ok is false for unknown names.
func StatFromString(s string) (StatAxis, bool) {
	v, ok := statMap[s]
	return v, ok
}

// School identifies a resistance school. SchoolPhysical resistance is armor.
type School uint8

const (
	SchoolPhysical School = iota
	SchoolHoly
	SchoolFire
	SchoolNature
	SchoolFrost
	SchoolShadow
	SchoolArcane
	SchoolMax
)

var schoolMap = map[string]School{
	"physical": SchoolPhysical,
	"holy":     SchoolHoly,
	"fire":     SchoolFire,
	"nature":   SchoolNature,
	"frost":    SchoolFrost,
	"shadow":   SchoolShadow,
	"arcane":   SchoolArcane,
}

// EnchantEffect is one effect slot of an enchantment.
// Arg holds the stat axis (stat), the school (resistance) or the spell id (spell kinds).
type EnchantEffect struct {
	Kind   EffectKind
	Amount int
	Arg    int32
}

// EnchantInfo is a read-only enchantment definition.
type EnchantInfo struct {
	ID      int32
	Name    string
	Effects [EnchantEffectSlots]EnchantEffect
}

// EnchantTable holds all enchantment definitions indexed by ID.
type EnchantTable struct {
	enchants map[int32]*EnchantInfo
	ids      []int32
}

// Get returns an enchantment by ID, or nil if not found.
func (t *EnchantTable) Get(id int32) *EnchantInfo {
	return t.enchants[id]
}

// Count returns the number of loaded enchantments.
func (t *EnchantTable) Count() int {
	return len(t.enchants)
}

// Each calls fn for every enchantment in ascending ID order.
func (t *EnchantTable) Each(fn func(*EnchantInfo)) {
	for _, id := range t.ids {
		fn(t.enchants[id])
	}
}

// NewEnchantTable builds a table from decoded definitions.
func NewEnchantTable(enchants []*EnchantInfo) *EnchantTable {
	t := &EnchantTable{enchants: make(map[int32]*EnchantInfo, len(enchants))}
	for _, e := range enchants {
		t.enchants[e.ID] = e
	}
	t.ids = make([]int32, 0, len(t.enchants))
	for id := range t.enchants {
		t.ids = append(t.ids, id)
	}
	sort.Slice(t.ids, func(i, j int) bool { return t.ids[i] < t.ids[j] })
	return t
}

// --- YAML loading ---

type enchantEffectEntry struct {
	Kind   string `yaml:"kind"`
	Amount int    `yaml:"amount"`
	Stat   string `yaml:"stat"`
	School string `yaml:"school"`
	Spell  int32  `yaml:"spell"`
}

type enchantEntry struct {
	ID      int32                `yaml:"id"`
	Name    string               `yaml:"name"`
	Effects []enchantEffectEntry `yaml:"effects"`
}

type enchantListFile struct {
	Enchants []enchantEntry `yaml:"enchants"`
}

// LoadEnchantTable loads enchantment definitions from a YAML file.
func LoadEnchantTable(path string) (*EnchantTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enchants: %w", err)
	}
	return parseEnchantTable(raw)
}

func parseEnchantTable(raw []byte) (*EnchantTable, error) {
	var f enchantListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse enchants: %w", err)
	}
	out := make([]*EnchantInfo, 0, len(f.Enchants))
	for i := range f.Enchants {
		e := &f.Enchants[i]
		if len(e.Effects) > EnchantEffectSlots {
			return nil, fmt.Errorf("enchant %d: %d effects, at most %d allowed", e.ID, len(e.Effects), EnchantEffectSlots)
		}
		info := &EnchantInfo{ID: e.ID, Name: e.Name}
		for s, eff := range e.Effects {
			kind, ok := effectKindMap[eff.Kind]
			if !ok {
				return nil, fmt.Errorf("enchant %d: unknown effect kind %q", e.ID, eff.Kind)
			}
			ee := EnchantEffect{Kind: kind, Amount: eff.Amount}
			switch kind {
			case EffectStat:
				axis, ok := StatFromString(eff.Stat)
				if !ok {
					return nil, fmt.Errorf("enchant %d: unknown stat %q", e.ID, eff.Stat)
				}
				ee.Arg = int32(axis)
			case EffectResistance:
				school, ok := schoolMap[eff.School]
				if !ok {
					return nil, fmt.Errorf("enchant %d: unknown school %q", e.ID, eff.School)
				}
				ee.Arg = int32(school)
			case EffectCombatSpell, EffectEquipSpell:
				ee.Arg = eff.Spell
			}
			info.Effects[s] = ee
		}
		out = append(out, info)
	}
	return NewEnchantTable(out), nil
}
