package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput    Phase = iota // 0: drain queued item uses
	PhaseDispatch              // 1: deliver last tick's events
	PhaseUpdate                // 2: housekeeping (whitelist reload requests)
	PhasePersist               // 3: flush the outcome log
)

// System is one unit of per-tick work.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
