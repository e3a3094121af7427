package persist

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/l1jgo/empower/internal/data"
)

// setupDB starts a PostgreSQL container and applies the migrations.
// Skips when -short is set or Docker is unavailable.
func setupDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	return &DB{Pool: pool, log: zap.NewNop()}
}

func rec(id int32, group string, weight uint16, enabled, weapon, armor bool) data.WhitelistRecord {
	return data.WhitelistRecord{
		WhitelistRow:     data.WhitelistRow{EnchantID: id, GroupKey: group, Weight: weight},
		Enabled:          enabled,
		CanApplyToWeapon: weapon,
		CanApplyToArmor:  armor,
	}
}

func TestWhitelistRepo(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewWhitelistRepo(db)

	v, err := MigrationVersion(ctx, db.Pool)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	require.NoError(t, repo.Upsert(ctx, []data.WhitelistRecord{
		rec(30, "c", 5, true, false, true),
		rec(10, "a", 5, true, true, true),
		rec(20, "b", 5, true, true, false),
		rec(40, "d", 5, false, true, true),
	}))

	weapon, err := repo.LoadWhitelist(ctx, true)
	require.NoError(t, err)
	require.Len(t, weapon, 2)
	assert.Equal(t, int32(10), weapon[0].EnchantID, "ordered by enchant id")
	assert.Equal(t, int32(20), weapon[1].EnchantID)

	armor, err := repo.LoadWhitelist(ctx, false)
	require.NoError(t, err)
	require.Len(t, armor, 2)
	assert.Equal(t, int32(30), armor[1].EnchantID)

	ok, err := repo.SetEnabled(ctx, 40, true)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.SetEnabled(ctx, 99, true)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Upsert(ctx, []data.WhitelistRecord{rec(10, "a2", 9, true, true, false)}))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "a2", all[0].GroupKey)
	assert.Equal(t, uint16(9), all[0].Weight)
	assert.True(t, all[3].Enabled)
}

func TestWhitelistRepo_FullUint16Range(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewWhitelistRepo(db)

	r := rec(50, "heavy", 65535, true, true, false)
	r.Rank, r.MinTier = 40000, 33000
	require.NoError(t, repo.Upsert(ctx, []data.WhitelistRecord{r}))

	rows, err := repo.LoadWhitelist(ctx, true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, data.WhitelistRow{EnchantID: 50, GroupKey: "heavy", Rank: 40000, MinTier: 33000, Weight: 65535}, rows[0])
}

func TestOutcomeLogRepo(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewOutcomeLogRepo(db)

	require.NoError(t, repo.WriteOutcomes(ctx, []OutcomeEntry{
		{Kind: "empowered", CharID: 1, TargetItemID: 2001, Modifiers: []int32{41, 71}},
		{Kind: "empowered", CharID: 1, TargetItemID: 2001},
		{Kind: "upgraded", CharID: 1, TargetItemID: 2001, NewItemID: 2002},
		{Kind: "rejected", CharID: 2, Reason: "not owned"},
	}))

	counts, err := repo.CountByKind(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"empowered": 2, "upgraded": 1}, counts)
}
