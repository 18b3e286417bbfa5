package output

import (
	"fmt"

	"github.com/rsilvagit/cyjobs/internal/model"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the results.
const SheetName = "Jobs"

var header = []string{"Link", "Keyword", "Date"}

// XLSXWriter writes jobs to a spreadsheet, overwriting the file each time.
type XLSXWriter struct {
	path string
}

func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Path returns the file the writer saves to.
func (xw *XLSXWriter) Path() string {
	return xw.path
}

// WriteJobs writes a header row and one row per job. The first column shows
// the title hyperlinked to the detail page.
func (xw *XLSXWriter) WriteJobs(jobs []model.Job) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("xlsx: closing workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx: renaming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: creating header style: %w", err)
	}
	linkStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "1265BE", Underline: "single"}})
	if err != nil {
		return fmt.Errorf("xlsx: creating link style: %w", err)
	}

	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("xlsx: header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("xlsx: writing header: %w", err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("xlsx: styling header: %w", err)
		}
	}

	for i, j := range jobs {
		if err := writeRow(f, i+2, j, linkStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 50); err != nil {
		return fmt.Errorf("xlsx: setting column width: %w", err)
	}
	if err := f.SaveAs(xw.path); err != nil {
		return fmt.Errorf("xlsx: saving %s: %w", xw.path, err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, j model.Job, linkStyle int) error {
	values := []string{j.DisplayTitle(), j.KeywordList(), j.PostedDate}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("xlsx: row %d cell: %w", row, err)
		}
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("xlsx: writing %s: %w", cell, err)
		}
	}

	if j.Link == "" {
		return nil
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetCellHyperLink(SheetName, cell, j.Link, "External"); err != nil {
		return fmt.Errorf("xlsx: linking %s: %w", cell, err)
	}
	if err := f.SetCellStyle(SheetName, cell, cell, linkStyle); err != nil {
		return fmt.Errorf("xlsx: styling %s: %w", cell, err)
	}
	return nil
}
