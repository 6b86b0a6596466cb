package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/poku-e/a1scrap/internal/forms"
	"github.com/poku-e/a1scrap/internal/sheets"
)

var (
	exportSheet string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one sheet to a CSV or XLSX file",
	Example: `  a1site export --sheet pickupForm --out pickups.csv
  a1site export --sheet "Franchise Applications" --out franchise.xlsx
  a1site export --sheet contactForm --out -`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := resolveSheet(exportSheet)

		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		rows, err := store.Read(ctx, name)
		if err != nil {
			return err
		}

		switch ext := strings.ToLower(filepath.Ext(exportOut)); {
		case exportOut == "-":
			return sheets.WriteCSV(cmd.OutOrStdout(), rows)
		case ext == ".csv":
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create csv: %w", err)
			}
			if err := sheets.WriteCSV(f, rows); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		case ext == ".xlsx":
			if err := sheets.WriteXLSX(exportOut, name, rows); err != nil {
				return err
			}
		default:
			return errors.New("out must end with .csv or .xlsx, or be - for stdout")
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "OK: %d rows -> %s\n", max(len(rows)-1, 0), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSheet, "sheet", "", "Sheet name or form type (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (.csv or .xlsx), or - for CSV on stdout (required)")
	_ = exportCmd.MarkFlagRequired("sheet")
	_ = exportCmd.MarkFlagRequired("out")
}

// resolveSheet accepts a form type ("pickupForm") as well as a sheet name.
func resolveSheet(s string) string {
	if schema, ok := forms.Lookup(s); ok {
		return schema.Sheet
	}
	return s
}
