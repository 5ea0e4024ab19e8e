// Package cli wires configuration, storage, and the ledger engine into
// the kasa command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"kasa/internal/config"
	"kasa/internal/ledger"
	"kasa/internal/log"
	"kasa/internal/store"
	"kasa/internal/store/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "kasa",
	Short: "Personal ledger with installments, notes, and alarms",
	Long: `kasa keeps a single-document personal ledger: transactions with a
running balance, installment plans amortized over monthly periods, note
taking with alarm reminders, and monthly summaries per category.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		// .env is optional; only local development uses it.
		_ = godotenv.Load()
	})
}

// setupLogger initializes structured logging and installs it as default.
func setupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openEngine builds the ledger engine over the configured backend and
// returns a cleanup function for the underlying store.
func openEngine(cfg *config.Config) (*ledger.Engine, store.CleanupFunc, error) {
	var (
		st      store.DocumentStore
		cleanup store.CleanupFunc
		err     error
	)

	switch cfg.DataBackend {
	case "sqlite":
		db, dbErr := sqlite.Open(cfg.SQLiteDBPath)
		if dbErr != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", dbErr)
		}
		st, cleanup = db, db.Close
	default:
		st, cleanup, err = store.Open(cfg.DataBackend, cfg.DataPath)
		if err != nil {
			return nil, nil, err
		}
	}

	engine, err := ledger.New(st, ledger.SystemClock{}, ledger.Config{
		StrictReversal: cfg.StrictReversal,
	})
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("initialize ledger: %w", err)
	}
	return engine, cleanup, nil
}
