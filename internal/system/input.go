package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/empower/internal/core/system"
	"github.com/l1jgo/empower/internal/world"
)

// UseRequest is one queued item use. Done, if set, receives the result.
type UseRequest struct {
	Player *world.PlayerInfo
	Item   *world.InvItem
	Target *world.InvItem
	Done   func(error)
}

// InputSystem drains queued item uses and runs them in arrival order, so
// uses of the same player never overlap. Phase 0 (Input).
type InputSystem struct {
	queue      chan UseRequest
	items      *ItemUseSystem
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(items *ItemUseSystem, queueSize, maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{
		queue:      make(chan UseRequest, queueSize),
		items:      items,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

// Enqueue queues a use without blocking. Returns false when the queue is full.
func (s *InputSystem) Enqueue(req UseRequest) bool {
	select {
	case s.queue <- req:
		return true
	default:
		return false
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	for n := 0; s.maxPerTick <= 0 || n < s.maxPerTick; n++ {
		select {
		case req := <-s.queue:
			err := s.items.Use(context.Background(), req.Player, req.Item, req.Target)
			if err != nil {
				s.log.Debug("物品使用失敗", zap.Int32("player", req.Player.CharID), zap.Error(err))
			}
			if req.Done != nil {
				req.Done(err)
			}
		default:
			return
		}
	}
}
