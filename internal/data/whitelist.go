package data

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WhitelistRow is one roll-table row. A row with Weight 0 is disabled.
type WhitelistRow struct {
	EnchantID int32
	GroupKey  string // empty = the enchantment is its own group
	Rank      uint16 // display/tie-break order only
	MinTier   uint16
	Weight    uint16
}

// EffectiveGroup returns the group key, defaulting to the enchantment id.
func (r WhitelistRow) EffectiveGroup() string {
	if r.GroupKey != "" {
		return r.GroupKey
	}
	return strconv.FormatInt(int64(r.EnchantID), 10)
}

// EligibleAt reports whether the row may be rolled for an item of the given tier.
func (r WhitelistRow) EligibleAt(tier int) bool {
	return r.Weight > 0 && int(r.MinTier) <= tier
}

type whitelistEntry struct {
	EnchantID        int32  `yaml:"enchant_id"`
	GroupKey         string `yaml:"group_key"`
	Rank             uint16 `yaml:"rank"`
	MinTier          uint16 `yaml:"min_tier"`
	Weight           uint16 `yaml:"weight"`
	Enabled          bool   `yaml:"enabled"`
	CanApplyToWeapon bool   `yaml:"can_apply_to_weapon"`
	CanApplyToArmor  bool   `yaml:"can_apply_to_armor"`
}

type whitelistListFile struct {
	Rows []whitelistEntry `yaml:"enchant_whitelist"`
}

// WhitelistFile serves the roll table from a YAML file with the same columns as
// the enchant_whitelist database table. The file is re-read on every load so an
// admin reload picks up edits.
type WhitelistFile struct {
	path string
}

// NewWhitelistFile returns a whitelist source backed by a YAML file.
func NewWhitelistFile(path string) *WhitelistFile {
	return &WhitelistFile{path: path}
}

// LoadWhitelist returns the enabled rows applicable to the target type, in file order.
func (f *WhitelistFile) LoadWhitelist(_ context.Context, weapon bool) ([]WhitelistRow, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read whitelist: %w", err)
	}
	return parseWhitelist(raw, weapon)
}

// LoadRecords returns every row of the file with its flags, enabled or not.
func (f *WhitelistFile) LoadRecords() ([]WhitelistRecord, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read whitelist: %w", err)
	}
	return parseWhitelistRecords(raw)
}

// WhitelistRecord is a full row of the whitelist table, flags included.
type WhitelistRecord struct {
	WhitelistRow
	Enabled          bool
	CanApplyToWeapon bool
	CanApplyToArmor  bool
}

// AppliesTo reports whether the record is served for the target type.
func (r WhitelistRecord) AppliesTo(weapon bool) bool {
	if !r.Enabled {
		return false
	}
	if weapon {
		return r.CanApplyToWeapon
	}
	return r.CanApplyToArmor
}

func parseWhitelistRecords(raw []byte) ([]WhitelistRecord, error) {
	var lf whitelistListFile
	if err := yaml.Unmarshal(raw, &lf); err != nil {
		return nil, fmt.Errorf("parse whitelist: %w", err)
	}
	out := make([]WhitelistRecord, 0, len(lf.Rows))
	for _, e := range lf.Rows {
		out = append(out, WhitelistRecord{
			WhitelistRow: WhitelistRow{
				EnchantID: e.EnchantID,
				GroupKey:  e.GroupKey,
				Rank:      e.Rank,
				MinTier:   e.MinTier,
				Weight:    e.Weight,
			},
			Enabled:          e.Enabled,
			CanApplyToWeapon: e.CanApplyToWeapon,
			CanApplyToArmor:  e.CanApplyToArmor,
		})
	}
	return out, nil
}

func parseWhitelist(raw []byte, weapon bool) ([]WhitelistRow, error) {
	recs, err := parseWhitelistRecords(raw)
	if err != nil {
		return nil, err
	}
	rows := make([]WhitelistRow, 0, len(recs))
	for _, r := range recs {
		if r.AppliesTo(weapon) {
			rows = append(rows, r.WhitelistRow)
		}
	}
	return rows, nil
}
