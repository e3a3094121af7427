package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/empower/internal/core/event"
	coresys "github.com/l1jgo/empower/internal/core/system"
	"github.com/l1jgo/empower/internal/persist"
)

// OutcomeWriter stores a batch of outcomes atomically. *persist.OutcomeLogRepo satisfies it.
type OutcomeWriter interface {
	WriteOutcomes(ctx context.Context, entries []persist.OutcomeEntry) error
}

// OutcomeLogSystem collects empowerment outcomes from the bus and flushes
// them to the audit log every interval ticks. Phase 3 (Persist).
type OutcomeLogSystem struct {
	writer    OutcomeWriter
	log       *zap.Logger
	pending   []persist.OutcomeEntry
	tickCount int
	interval  int
}

func NewOutcomeLogSystem(bus *event.Bus, writer OutcomeWriter, log *zap.Logger, intervalTicks int) *OutcomeLogSystem {
	s := &OutcomeLogSystem{
		writer:   writer,
		log:      log,
		interval: max(intervalTicks, 1),
	}
	event.Subscribe(bus, s.record)
	return s
}

func (s *OutcomeLogSystem) record(ev event.EmpowerOutcome) {
	s.pending = append(s.pending, persist.OutcomeEntry{
		Kind:         string(ev.Kind),
		CharID:       ev.CharID,
		TargetItemID: ev.TargetItemID,
		NewItemID:    ev.NewItemID,
		Modifiers:    ev.Modifiers,
		Reason:       ev.Reason,
	})
}

func (s *OutcomeLogSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *OutcomeLogSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Flush writes everything pending now. Called on shutdown as well.
// A failed batch stays pending for the next flush.
func (s *OutcomeLogSystem) Flush() {
	if len(s.pending) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writer.WriteOutcomes(ctx, s.pending); err != nil {
		s.log.Error("強化紀錄寫入失敗", zap.Int("pending", len(s.pending)), zap.Error(err))
		return
	}
	s.log.Debug("強化紀錄已寫入", zap.Int("count", len(s.pending)))
	s.pending = s.pending[:0]
}

// Pending returns the number of unflushed entries.
func (s *OutcomeLogSystem) Pending() int {
	return len(s.pending)
}
