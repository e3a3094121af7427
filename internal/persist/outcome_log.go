package persist

import (
	"context"
	"fmt"
)

// OutcomeEntry is one empowerment outcome written to the audit log.
type OutcomeEntry struct {
	Kind         string // "upgraded", "downgraded", "empowered", "rejected", "no_enchant", ...
	CharID       int32
	TargetItemID int32
	NewItemID    int32
	Modifiers    []int32
	Reason       string
}

type OutcomeLogRepo struct {
	db *DB
}

func NewOutcomeLogRepo(db *DB) *OutcomeLogRepo {
	return &OutcomeLogRepo{db: db}
}

// WriteOutcomes atomically writes a batch of entries in a single transaction.
func (r *OutcomeLogRepo) WriteOutcomes(ctx context.Context, entries []OutcomeEntry) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("outcome log begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		mods := e.Modifiers
		if mods == nil {
			mods = []int32{}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO empower_log (kind, char_id, target_item_id, new_item_id, modifiers, reason)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.Kind, e.CharID, e.TargetItemID, e.NewItemID, mods, e.Reason,
		); err != nil {
			return fmt.Errorf("outcome log insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// CountByKind returns how many outcomes of each kind a character produced.
func (r *OutcomeLogRepo) CountByKind(ctx context.Context, charID int32) (map[string]int, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT kind, COUNT(*) FROM empower_log WHERE char_id = $1 GROUP BY kind`, charID,
	)
	if err != nil {
		return nil, fmt.Errorf("outcome log query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			kind string
			n    int64
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[kind] = int(n)
	}
	return out, rows.Err()
}
