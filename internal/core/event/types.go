package event

// OutcomeKind names which branch an item use ended in.
type OutcomeKind string

const (
	OutcomeRejected   OutcomeKind = "rejected"
	OutcomeNoEnchant  OutcomeKind = "no_enchant"
	OutcomeUpgraded   OutcomeKind = "upgraded"
	OutcomeDowngraded OutcomeKind = "downgraded"
	OutcomeEmpowered  OutcomeKind = "empowered"
)

// EmpowerOutcome is emitted once per empowering stone use.
type EmpowerOutcome struct {
	Kind         OutcomeKind
	CharID       int32
	TargetItemID int32
	NewItemID    int32   // upgraded/downgraded
	Modifiers    []int32 // empowered
	Reason       string  // rejected/no_enchant
}

// SpellLearned is emitted when an ability tome teaches a spell.
type SpellLearned struct {
	CharID  int32
	SpellID int32
	TomeID  int32
}
