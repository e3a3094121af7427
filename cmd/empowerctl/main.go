package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/empower/internal/config"
	"github.com/l1jgo/empower/internal/data"
	"github.com/l1jgo/empower/internal/empower"
	"github.com/l1jgo/empower/internal/persist"
)

var (
	cfgPath string
	cfg     *config.Config
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "empowerctl",
	Short: "Slamrock item empowerment operator tool",
	Long: `empowerctl manages the enchantment whitelist, runs database migrations,
previews tier swaps and simulates empowering stone uses against the item catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err = newLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	defPath := "config/empower.toml"
	if p := os.Getenv("EMPOWER_CONFIG"); p != "" {
		defPath = p
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defPath, "TOML config file (env EMPOWER_CONFIG)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(whitelistCmd)
	rootCmd.AddCommand(swapCmd)
	rootCmd.AddCommand(findStatCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(outcomesCmd)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ── Shared setup ──────────────────────────────────────────────────

func loadCatalog(ctx context.Context) (*data.Catalog, error) {
	cat, err := data.LoadCatalog(ctx, data.CatalogPaths{
		Items:    cfg.Data.ItemsPath,
		Enchants: cfg.Data.EnchantsPath,
		Spells:   cfg.Data.SpellsPath,
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

func openDB(ctx context.Context) (*persist.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return db, nil
}

// whitelistSource opens the configured whitelist source. The returned close
// func is never nil.
func whitelistSource(ctx context.Context) (empower.WhitelistSource, func(), error) {
	if cfg.Whitelist.Source == config.WhitelistSourceYAML {
		return data.NewWhitelistFile(cfg.Whitelist.YAMLPath), func() {}, nil
	}
	db, err := openDB(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	return persist.NewWhitelistRepo(db), db.Close, nil
}

// ── Output helpers ────────────────────────────────────────────────

func printSection(title string) {
	// CJK runes take two columns
	displayWidth := 0
	for _, r := range title {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	lineLen := max(46-displayWidth-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	displayWidth := 0
	for _, r := range label {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	dotsLen := max(42-displayWidth-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}
