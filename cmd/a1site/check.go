package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/poku-e/a1scrap/internal/forms"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configuration and the sheet store",
	Long: `check loads the config, opens the sheet store and reports, per form,
whether its sheet exists or will be created on the first submission.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		fmt.Fprintf(out, "config:   %s\n", cfgPath)
		fmt.Fprintf(out, "store:    %s\n", storeName())
		fmt.Fprintf(out, "fallback: %s\n", cfg.Mode())

		store, err := openStore(ctx)
		if err != nil {
			fmt.Fprintf(out, "FAIL open store: %v\n", err)
			return err
		}
		defer store.Close()

		for _, schema := range forms.Schemas() {
			n, exists, err := store.RowCount(ctx, schema.Sheet)
			switch {
			case err != nil:
				fmt.Fprintf(out, "FAIL %-24s %v\n", schema.Sheet, err)
				return err
			case exists:
				fmt.Fprintf(out, "ok   %-24s %d submissions\n", schema.Sheet, n)
			default:
				fmt.Fprintf(out, "ok   %-24s will be created on first submission\n", schema.Sheet)
			}
		}

		if root := cfg.Site.Root; root != "" {
			if st, err := os.Stat(root); err != nil || !st.IsDir() {
				return fmt.Errorf("site.root %q is not a directory", root)
			}
			fmt.Fprintf(out, "ok   site root %s\n", root)
		}
		return nil
	},
}
