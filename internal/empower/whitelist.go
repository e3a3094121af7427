package empower

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/l1jgo/empower/internal/data"
)

// WhitelistSource returns the enabled whitelist rows for one target type.
// Implemented by the PostgreSQL repository and the YAML file source.
type WhitelistSource interface {
	LoadWhitelist(ctx context.Context, weapon bool) ([]data.WhitelistRow, error)
}

// Pools is one published candidate pool pair. Never mutated after publication.
type Pools struct {
	Weapon []data.WhitelistRow
	Armor  []data.WhitelistRow

	gen uint64 // load generation that produced the pair
}

// For returns the pool for a target type.
func (p *Pools) For(weapon bool) []data.WhitelistRow {
	if p == nil {
		return nil
	}
	if weapon {
		return p.Weapon
	}
	return p.Armor
}

// WhitelistCache holds the reloadable roll tables. Readers see either the old
// or the new pair, never a mix. A load that started before another one never
// replaces the later load's pair.
type WhitelistCache struct {
	src WhitelistSource
	log *zap.Logger

	pools     atomic.Pointer[Pools]
	attempted atomic.Bool
	sf        singleflight.Group
	gen       atomic.Uint64
	publishMu sync.Mutex
}

// NewWhitelistCache returns an empty cache; nothing is loaded until first use.
func NewWhitelistCache(src WhitelistSource, log *zap.Logger) *WhitelistCache {
	return &WhitelistCache{src: src, log: log}
}

// EnsureLoaded performs the lazy first load. Later calls return immediately,
// whether or not the first load succeeded.
func (c *WhitelistCache) EnsureLoaded(ctx context.Context) {
	if c.attempted.Load() {
		return
	}
	c.sf.Do("lazy", func() (any, error) {
		if c.attempted.Load() {
			return nil, nil
		}
		err := c.load(ctx)
		c.attempted.Store(true)
		return nil, err
	})
}

// Reload replaces both pools from the source. On error the affected pool is
// published empty and the error returned for the operator.
func (c *WhitelistCache) Reload(ctx context.Context) error {
	_, err, _ := c.sf.Do("reload", func() (any, error) {
		err := c.load(ctx)
		c.attempted.Store(true)
		return nil, err
	})
	return err
}

func (c *WhitelistCache) load(ctx context.Context) error {
	gen := c.gen.Add(1)
	weapon, werr := c.src.LoadWhitelist(ctx, true)
	if werr != nil {
		c.log.Warn("載入武器強化白名單失敗", zap.Error(werr))
		weapon = nil
	}
	armor, aerr := c.src.LoadWhitelist(ctx, false)
	if aerr != nil {
		c.log.Warn("載入防具強化白名單失敗", zap.Error(aerr))
		armor = nil
	}
	if !c.publish(&Pools{Weapon: weapon, Armor: armor, gen: gen}) {
		c.log.Info("強化白名單載入結果已過期，捨棄", zap.Uint64("gen", gen))
		return errors.Join(werr, aerr)
	}
	c.log.Info("強化白名單已載入",
		zap.Int("weapon_rows", len(weapon)),
		zap.Int("armor_rows", len(armor)),
	)
	return errors.Join(werr, aerr)
}

// publish stores p unless a later load already published.
func (c *WhitelistCache) publish(p *Pools) bool {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	if cur := c.pools.Load(); cur != nil && cur.gen > p.gen {
		return false
	}
	c.pools.Store(p)
	return true
}

// Pool returns the rows for a target type; nil before the first load.
func (c *WhitelistCache) Pool(weapon bool) []data.WhitelistRow {
	return c.pools.Load().For(weapon)
}

// Snapshot returns the currently published pair, or nil.
func (c *WhitelistCache) Snapshot() *Pools {
	return c.pools.Load()
}
