package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l1jgo/empower/internal/persist"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		printOK("PostgreSQL 連線成功")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		v, err := persist.MigrationVersion(ctx, db.Pool)
		if err != nil {
			return err
		}
		printOK(fmt.Sprintf("資料庫遷移完成 (版本 %d)", v))
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		v, err := persist.MigrationVersion(ctx, db.Pool)
		if err != nil {
			return err
		}
		printStat("資料庫版本", int(v))
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
}
