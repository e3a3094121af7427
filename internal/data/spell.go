package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// AuraKind is the aura a spell effect applies.
type AuraKind uint8

const (
	AuraNone          AuraKind = 0
	AuraModStat       AuraKind = 1 // Misc = StatAxis
	AuraModResistance AuraKind = 2 // Misc = School
	AuraModDamageDone AuraKind = 3
	AuraProcTrigger   AuraKind = 4
)

var auraMap = map[string]AuraKind{
	"none":            AuraNone,
	"mod_stat":        AuraModStat,
	"mod_resistance":  AuraModResistance,
	"mod_damage_done": AuraModDamageDone,
	"proc_trigger":    AuraProcTrigger,
}

// SpellEffect is one effect descriptor of a spell.
type SpellEffect struct {
	Aura       AuraKind
	Misc       int
	BasePoints int
	BaseDice   int
}

// Value returns the effect magnitude (base points plus the fixed dice part).
func (e SpellEffect) Value() int {
	return e.BasePoints + e.BaseDice
}

// SpellInfo is a read-only spell definition, reduced to what item effects need.
type SpellInfo struct {
	ID      int32
	Name    string
	Effects []SpellEffect
}

// SpellTable holds spell definitions indexed by ID.
type SpellTable struct {
	spells map[int32]*SpellInfo
	ids    []int32
}

// Get returns a spell by ID, or nil if not found.
func (t *SpellTable) Get(id int32) *SpellInfo {
	return t.spells[id]
}

// Count returns the number of loaded spells.
func (t *SpellTable) Count() int {
	return len(t.spells)
}

// NewSpellTable builds a table from decoded definitions.
func NewSpellTable(spells []*SpellInfo) *SpellTable {
	t := &SpellTable{spells: make(map[int32]*SpellInfo, len(spells))}
	for _, s := range spells {
		t.spells[s.ID] = s
	}
	t.ids = make([]int32, 0, len(t.spells))
	for id := range t.spells {
		t.ids = append(t.ids, id)
	}
	sort.Slice(t.ids, func(i, j int) bool { return t.ids[i] < t.ids[j] })
	return t
}

// --- YAML loading ---

type spellEffectEntry struct {
	Aura       string `yaml:"aura"`
	Stat       string `yaml:"stat"`
	School     string `yaml:"school"`
	BasePoints int    `yaml:"base_points"`
	BaseDice   int    `yaml:"base_dice"`
}

type spellEntry struct {
	ID      int32              `yaml:"id"`
	Name    string             `yaml:"name"`
	Effects []spellEffectEntry `yaml:"effects"`
}

type spellListFile struct {
	Spells []spellEntry `yaml:"spells"`
}

// LoadSpellTable loads spell definitions from a YAML file.
func LoadSpellTable(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spells: %w", err)
	}
	return parseSpellTable(raw)
}

func parseSpellTable(raw []byte) (*SpellTable, error) {
	var f spellListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spells: %w", err)
	}
	out := make([]*SpellInfo, 0, len(f.Spells))
	for i := range f.Spells {
		s := &f.Spells[i]
		info := &SpellInfo{ID: s.ID, Name: s.Name, Effects: make([]SpellEffect, 0, len(s.Effects))}
		for _, e := range s.Effects {
			aura, ok := auraMap[e.Aura]
			if !ok {
				return nil, fmt.Errorf("spell %d: unknown aura %q", s.ID, e.Aura)
			}
			eff := SpellEffect{Aura: aura, BasePoints: e.BasePoints, BaseDice: e.BaseDice}
			switch aura {
			case AuraModStat:
				axis, ok := StatFromString(e.Stat)
				if !ok {
					return nil, fmt.Errorf("spell %d: unknown stat %q", s.ID, e.Stat)
				}
				eff.Misc = int(axis)
			case AuraModResistance:
				school, ok := schoolMap[e.School]
				if !ok {
					return nil, fmt.Errorf("spell %d: unknown school %q", s.ID, e.School)
				}
				eff.Misc = int(school)
			}
			info.Effects = append(info.Effects, eff)
		}
		out = append(out, info)
	}
	return NewSpellTable(out), nil
}
