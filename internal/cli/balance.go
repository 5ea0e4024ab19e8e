package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kasa/internal/core"
)

var balanceSet string

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVar(&balanceSet, "set", "", "Set the balance to this amount instead of printing it")
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print or set the current balance",
	RunE:  runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	if balanceSet != "" {
		// The balance override may be negative, unlike entry amounts.
		raw := balanceSet
		negative := false
		if len(raw) > 0 && raw[0] == '-' {
			negative = true
			raw = raw[1:]
		}
		amount, err := core.ParseAmount(raw)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", balanceSet, err)
		}
		if negative {
			amount = -amount
		}
		if err := engine.SetBalance(amount); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), core.FormatAmount(engine.Balance()))
	return nil
}
