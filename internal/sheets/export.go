package sheets

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/xuri/excelize/v2"
)

// ---------- Output writers ----------

// WriteCSV writes rows (header first) as CSV.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	for _, r := range rows {
		if err := cw.Write(r); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes rows into a single-sheet workbook at path.
func WriteXLSX(path, sheet string, rows [][]string) error {
	if sheet == "" {
		return errors.New("sheet name empty")
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	// StreamWriter for efficiency on large tables
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	for i, r := range rows {
		row := make([]interface{}, len(r))
		for j, c := range r {
			row[j] = c
		}
		cellAddr, _ := excelize.CoordinatesToCellName(1, i+1) // A1, A2, ...
		if err := sw.SetRow(cellAddr, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}
