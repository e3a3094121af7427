package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/empower/internal/config"
	"github.com/l1jgo/empower/internal/core/event"
	"github.com/l1jgo/empower/internal/data"
	"github.com/l1jgo/empower/internal/empower"
	"github.com/l1jgo/empower/internal/scripting"
)

// GateScripter computes the upgrade/downgrade gate odds. *scripting.Engine satisfies it.
type GateScripter interface {
	CalcEmpowerGates(ctx scripting.GateContext) scripting.GateChances
}

// Deps holds shared dependencies injected into the item-use systems.
type Deps struct {
	Config     config.EmpowerConfig
	Log        *zap.Logger
	Catalog    *data.Catalog
	Index      *empower.Index
	Whitelist  *empower.WhitelistCache
	Reconciler *empower.Reconciler
	Scripting  GateScripter // nil = configured odds
	Bus        *event.Bus
	Rand       empower.Rand
}

// NewDeps wires the engine services over a loaded catalog and a whitelist source.
func NewDeps(cfg config.EmpowerConfig, cat *data.Catalog, src empower.WhitelistSource, scripts GateScripter, bus *event.Bus, log *zap.Logger) *Deps {
	return &Deps{
		Config:     cfg,
		Log:        log,
		Catalog:    cat,
		Index:      empower.NewIndex(cat, cfg.MarkerEnchantID),
		Whitelist:  empower.NewWhitelistCache(src, log),
		Reconciler: empower.NewReconciler(cfg.MarkerEnchantID),
		Scripting:  scripts,
		Bus:        bus,
		Rand:       empower.NewRand(cfg.RNGSeed),
	}
}
