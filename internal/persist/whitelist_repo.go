package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/l1jgo/empower/internal/data"
)

// WhitelistRepo reads and maintains the enchant_whitelist table.
type WhitelistRepo struct {
	db *DB
}

func NewWhitelistRepo(db *DB) *WhitelistRepo {
	return &WhitelistRepo{db: db}
}

// LoadWhitelist returns the enabled rows applicable to the target type, ordered by enchantment id.
func (r *WhitelistRepo) LoadWhitelist(ctx context.Context, weapon bool) ([]data.WhitelistRow, error) {
	flag := "can_apply_to_armor"
	if weapon {
		flag = "can_apply_to_weapon"
	}
	rows, err := r.db.Pool.Query(ctx,
		`SELECT enchant_id, group_key, rank, min_tier, weight
		 FROM enchant_whitelist WHERE enabled AND `+flag+`
		 ORDER BY enchant_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query whitelist: %w", err)
	}
	defer rows.Close()

	var result []data.WhitelistRow
	for rows.Next() {
		var (
			row                   data.WhitelistRow
			rank, minTier, weight int32
		)
		if err := rows.Scan(&row.EnchantID, &row.GroupKey, &rank, &minTier, &weight); err != nil {
			return nil, fmt.Errorf("scan whitelist: %w", err)
		}
		row.Rank, row.MinTier, row.Weight = uint16(rank), uint16(minTier), uint16(weight)
		result = append(result, row)
	}
	return result, rows.Err()
}

// List returns every row, disabled ones included.
func (r *WhitelistRepo) List(ctx context.Context) ([]data.WhitelistRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT enchant_id, group_key, rank, min_tier, weight, enabled, can_apply_to_weapon, can_apply_to_armor
		 FROM enchant_whitelist ORDER BY enchant_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query whitelist: %w", err)
	}
	defer rows.Close()

	var result []data.WhitelistRecord
	for rows.Next() {
		var (
			rec                   data.WhitelistRecord
			rank, minTier, weight int32
		)
		if err := rows.Scan(&rec.EnchantID, &rec.GroupKey, &rank, &minTier, &weight,
			&rec.Enabled, &rec.CanApplyToWeapon, &rec.CanApplyToArmor); err != nil {
			return nil, fmt.Errorf("scan whitelist: %w", err)
		}
		rec.Rank, rec.MinTier, rec.Weight = uint16(rank), uint16(minTier), uint16(weight)
		result = append(result, rec)
	}
	return result, rows.Err()
}

// Upsert inserts or replaces rows in one transaction.
func (r *WhitelistRepo) Upsert(ctx context.Context, recs []data.WhitelistRecord) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("whitelist begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(
			`INSERT INTO enchant_whitelist
			   (enchant_id, group_key, rank, min_tier, weight, enabled, can_apply_to_weapon, can_apply_to_armor)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (enchant_id) DO UPDATE SET
			   group_key = EXCLUDED.group_key, rank = EXCLUDED.rank, min_tier = EXCLUDED.min_tier,
			   weight = EXCLUDED.weight, enabled = EXCLUDED.enabled,
			   can_apply_to_weapon = EXCLUDED.can_apply_to_weapon, can_apply_to_armor = EXCLUDED.can_apply_to_armor`,
			rec.EnchantID, rec.GroupKey, int32(rec.Rank), int32(rec.MinTier), int32(rec.Weight),
			rec.Enabled, rec.CanApplyToWeapon, rec.CanApplyToArmor,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("whitelist upsert: %w", err)
	}
	return tx.Commit(ctx)
}

// SetEnabled toggles one row. Returns false when the row does not exist.
func (r *WhitelistRepo) SetEnabled(ctx context.Context, enchantID int32, enabled bool) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE enchant_whitelist SET enabled = $2 WHERE enchant_id = $1`, enchantID, enabled,
	)
	if err != nil {
		return false, fmt.Errorf("whitelist toggle: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
