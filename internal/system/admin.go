package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/empower/internal/core/system"
	"github.com/l1jgo/empower/internal/empower"
)

// WhitelistReloadSystem performs operator-requested whitelist reloads between
// item uses. Phase 2 (Update).
type WhitelistReloadSystem struct {
	cache    *empower.WhitelistCache
	requests chan struct{}
	log      *zap.Logger
}

func NewWhitelistReloadSystem(cache *empower.WhitelistCache, log *zap.Logger) *WhitelistReloadSystem {
	return &WhitelistReloadSystem{cache: cache, requests: make(chan struct{}, 1), log: log}
}

// Request asks for a reload on the next tick. Repeated requests coalesce.
func (s *WhitelistReloadSystem) Request() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

func (s *WhitelistReloadSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *WhitelistReloadSystem) Update(_ time.Duration) {
	select {
	case <-s.requests:
	default:
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.cache.Reload(ctx); err != nil {
		s.log.Error("白名單重新載入失敗", zap.Error(err))
	}
}
