package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/poku-e/a1scrap/internal/calculator"
	"github.com/poku-e/a1scrap/internal/tui"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Interactive scrap price calculator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := calculator.New(cfg.Calculator.TaxRate)
		if err != nil {
			return err
		}
		final, err := tea.NewProgram(tui.New(c), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
		if err != nil {
			return fmt.Errorf("calculator: %w", err)
		}
		if m, ok := final.(tui.Model); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Estimated total: %s\n", calculator.FormatINR(m.Quote().GrandTotal))
		}
		return nil
	},
}
