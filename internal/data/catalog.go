package data

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Catalog is the read-only Catalog Service: item, enchantment and spell definitions.
// Immutable after load, so it is safe for concurrent readers.
type Catalog struct {
	Items    *ItemTable
	Enchants *EnchantTable
	Spells   *SpellTable
}

// CatalogPaths locates the three YAML catalog files.
type CatalogPaths struct {
	Items    string
	Enchants string
	Spells   string
}

// LoadCatalog loads the three catalog files concurrently.
func LoadCatalog(ctx context.Context, paths CatalogPaths) (*Catalog, error) {
	c := &Catalog{}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.Items, err = LoadItemTable(paths.Items)
		return err
	})
	g.Go(func() (err error) {
		c.Enchants, err = LoadEnchantTable(paths.Enchants)
		return err
	})
	g.Go(func() (err error) {
		c.Spells, err = LoadSpellTable(paths.Spells)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

// Item returns an item template by ID, or nil.
func (c *Catalog) Item(id int32) *ItemInfo { return c.Items.Get(id) }

// Enchant returns an enchantment definition by ID, or nil.
func (c *Catalog) Enchant(id int32) *EnchantInfo { return c.Enchants.Get(id) }

// Spell returns a spell definition by ID, or nil.
func (c *Catalog) Spell(id int32) *SpellInfo { return c.Spells.Get(id) }

// EachItem iterates all item templates in ID order.
func (c *Catalog) EachItem(fn func(*ItemInfo)) { c.Items.Each(fn) }

// EachEnchant iterates all enchantments in ID order.
func (c *Catalog) EachEnchant(fn func(*EnchantInfo)) { c.Enchants.Each(fn) }
