package export

import (
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

const defaultSheet = "Sheet1"

// WriteExcel writes a workbook with one row per position and one column per slot date.
// Columns are sized to their longest value.
func WriteExcel(w io.Writer, t *models.Timetable, s Settings) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := s.SheetName
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
		f.DeleteSheet(defaultSheet)
	}

	slots := t.Slots()
	widths := make([]int, len(slots)+1)
	set := func(col, row int, value string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if n := utf8.RuneCountInString(value); n > widths[col-1] {
			widths[col-1] = n
		}
		return f.SetCellValue(sheet, cell, value)
	}

	for i, slot := range slots {
		if err := set(i+2, 1, slot.Date.Format(models.DateLayout)); err != nil {
			return err
		}
	}
	for r, position := range t.Positions {
		row := r + 2
		if err := set(1, row, position); err != nil {
			return err
		}
		for i, slot := range slots {
			a, ok := slot.Assignments[position]
			if !ok {
				continue
			}
			if err := set(i+2, row, a.Text(s.HelperSeparator)); err != nil {
				return err
			}
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(width+2)); err != nil {
			return err
		}
	}

	return f.Write(w)
}
