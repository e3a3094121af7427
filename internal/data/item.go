package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ItemClass is the broad item class used as the upgrade search key.
type ItemClass uint8

const (
	ClassConsumable ItemClass = 0
	ClassContainer  ItemClass = 1
	ClassWeapon     ItemClass = 2
	ClassGem        ItemClass = 3
	ClassArmor      ItemClass = 4
	ClassReagent    ItemClass = 5
	ClassProjectile ItemClass = 6
	ClassTradeGoods ItemClass = 7
	ClassRecipe     ItemClass = 9
	ClassQuiver     ItemClass = 11
	ClassQuest      ItemClass = 12
	ClassKey        ItemClass = 13
	ClassMisc       ItemClass = 15
)

var classMap = map[string]ItemClass{
	"consumable":  ClassConsumable,
	"container":   ClassContainer,
	"weapon":      ClassWeapon,
	"gem":         ClassGem,
	"armor":       ClassArmor,
	"reagent":     ClassReagent,
	"projectile":  ClassProjectile,
	"trade_goods": ClassTradeGoods,
	"recipe":      ClassRecipe,
	"quiver":      ClassQuiver,
	"quest":       ClassQuest,
	"key":         ClassKey,
	"misc":        ClassMisc,
}

// ClassFromString converts a YAML class string. Unknown strings map to ClassMisc.
func ClassFromString(s string) ItemClass {
	if v, ok := classMap[s]; ok {
		return v
	}
	return ClassMisc
}

// InventoryType is the equip-slot type of an item template.
type InventoryType uint8

const (
	InvTypeNonEquip      InventoryType = 0
	InvTypeHead          InventoryType = 1
	InvTypeNeck          InventoryType = 2
	InvTypeShoulders     InventoryType = 3
	InvTypeBody          InventoryType = 4
	InvTypeChest         InventoryType = 5
	InvTypeWaist         InventoryType = 6
	InvTypeLegs          InventoryType = 7
	InvTypeFeet          InventoryType = 8
	InvTypeWrists        InventoryType = 9
	InvTypeHands         InventoryType = 10
	InvTypeFinger        InventoryType = 11
	InvTypeTrinket       InventoryType = 12
	InvTypeWeapon        InventoryType = 13
	InvTypeShield        InventoryType = 14
	InvTypeRanged        InventoryType = 15
	InvTypeCloak         InventoryType = 16
	InvTypeTwoHandWeapon InventoryType = 17
	InvTypeBag           InventoryType = 18
	InvTypeTabard        InventoryType = 19
	InvTypeRobe          InventoryType = 20
	InvTypeMainHand      InventoryType = 21
	InvTypeOffHand       InventoryType = 22
	InvTypeHoldable      InventoryType = 23
	InvTypeAmmo          InventoryType = 24
	InvTypeThrown        InventoryType = 25
	InvTypeRangedRight   InventoryType = 26
	InvTypeQuiver        InventoryType = 27
	InvTypeRelic         InventoryType = 28
)

// invTypeMap maps YAML inventory_type strings to InventoryType values.
var invTypeMap = map[string]InventoryType{
	"none":         InvTypeNonEquip,
	"head":         InvTypeHead,
	"neck":         InvTypeNeck,
	"shoulders":    InvTypeShoulders,
	"body":         InvTypeBody,
	"chest":        InvTypeChest,
	"waist":        InvTypeWaist,
	"legs":         InvTypeLegs,
	"feet":         InvTypeFeet,
	"wrists":       InvTypeWrists,
	"hands":        InvTypeHands,
	"finger":       InvTypeFinger,
	"trinket":      InvTypeTrinket,
	"weapon":       InvTypeWeapon,
	"shield":       InvTypeShield,
	"ranged":       InvTypeRanged,
	"cloak":        InvTypeCloak,
	"2hweapon":     InvTypeTwoHandWeapon,
	"bag":          InvTypeBag,
	"tabard":       InvTypeTabard,
	"robe":         InvTypeRobe,
	"main_hand":    InvTypeMainHand,
	"off_hand":     InvTypeOffHand,
	"holdable":     InvTypeHoldable,
	"ammo":         InvTypeAmmo,
	"thrown":       InvTypeThrown,
	"ranged_right": InvTypeRangedRight,
	"quiver":       InvTypeQuiver,
	"relic":        InvTypeRelic,
}

// InventoryTypeFromString converts a YAML inventory_type string.
// Unknown strings map to InvTypeNonEquip so the item is never treated as gear.
func InventoryTypeFromString(s string) InventoryType {
	if v, ok := invTypeMap[s]; ok {
		return v
	}
	return InvTypeNonEquip
}

// ItemInfo holds item template data needed for game logic.
type ItemInfo struct {
	ItemID        int32
	Name          string
	Class         ItemClass
	SubClass      uint8
	InvType       InventoryType
	Tier          int // item level
	RequiredLevel int
	MaxStack      int32

	// Weapons
	DmgMin int
	DmgMax int

	// Armor
	Armor int

	// RandomProperties is the pool a fresh instance draws its random property id from.
	// Empty means new instances never carry random affixes.
	RandomProperties []int32

	// Spells referenced by on-use items (tomes read the second, then the first).
	Spells [2]int32

	// Script names the item-use handler bound to the template, empty for none.
	Script string
}

// IsGear reports whether the template can be equipped and is not a container.
func (it *ItemInfo) IsGear() bool {
	return it.InvType != InvTypeNonEquip && it.InvType != InvTypeBag
}

// IsWeapon reports whether enchantments should be drawn from the weapon pool.
func (it *ItemInfo) IsWeapon() bool {
	return it.Class == ClassWeapon
}

// ItemTable holds all item templates indexed by ItemID.
type ItemTable struct {
	items map[int32]*ItemInfo
	ids   []int32 // ascending, for deterministic iteration
}

// Get returns an item by ID, or nil if not found.
func (t *ItemTable) Get(itemID int32) *ItemInfo {
	return t.items[itemID]
}

// Count returns total loaded items.
func (t *ItemTable) Count() int {
	return len(t.items)
}

// Each calls fn for every template in ascending ID order.
func (t *ItemTable) Each(fn func(*ItemInfo)) {
	for _, id := range t.ids {
		fn(t.items[id])
	}
}

// NewItemTable builds a table from already decoded templates. Later duplicates win.
func NewItemTable(items []*ItemInfo) *ItemTable {
	t := &ItemTable{items: make(map[int32]*ItemInfo, len(items))}
	for _, it := range items {
		t.items[it.ItemID] = it
	}
	t.ids = make([]int32, 0, len(t.items))
	for id := range t.items {
		t.ids = append(t.ids, id)
	}
	sort.Slice(t.ids, func(i, j int) bool { return t.ids[i] < t.ids[j] })
	return t
}

// --- YAML loading ---

type itemEntry struct {
	ItemID           int32   `yaml:"item_id"`
	Name             string  `yaml:"name"`
	Class            string  `yaml:"class"`
	SubClass         uint8   `yaml:"subclass"`
	InventoryType    string  `yaml:"inventory_type"`
	ItemLevel        int     `yaml:"item_level"`
	RequiredLevel    int     `yaml:"required_level"`
	MaxStack         int32   `yaml:"max_stack"`
	DmgMin           int     `yaml:"dmg_min"`
	DmgMax           int     `yaml:"dmg_max"`
	Armor            int     `yaml:"armor"`
	RandomProperties []int32 `yaml:"random_properties"`
	Spell1           int32   `yaml:"spell_1"`
	Spell2           int32   `yaml:"spell_2"`
	Script           string  `yaml:"script"`
}

type itemListFile struct {
	Items []itemEntry `yaml:"items"`
}

// LoadItemTable loads item templates from a YAML file.
func LoadItemTable(path string) (*ItemTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return parseItemTable(raw)
}

func parseItemTable(raw []byte) (*ItemTable, error) {
	var f itemListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	items := make([]*ItemInfo, 0, len(f.Items))
	for i := range f.Items {
		e := &f.Items[i]
		maxStack := e.MaxStack
		if maxStack <= 0 {
			maxStack = 1
		}
		items = append(items, &ItemInfo{
			ItemID:           e.ItemID,
			Name:             e.Name,
			Class:            ClassFromString(e.Class),
			SubClass:         e.SubClass,
			InvType:          InventoryTypeFromString(e.InventoryType),
			Tier:             e.ItemLevel,
			RequiredLevel:    e.RequiredLevel,
			MaxStack:         maxStack,
			DmgMin:           e.DmgMin,
			DmgMax:           e.DmgMax,
			Armor:            e.Armor,
			RandomProperties: e.RandomProperties,
			Spells:           [2]int32{e.Spell1, e.Spell2},
			Script:           e.Script,
		})
	}
	return NewItemTable(items), nil
}
