package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter implements SheetWriter by saving an Excel workbook to a file path.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates a writer that saves workbooks to path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write builds a workbook with one worksheet per sheet and saves it, replacing any existing file.
func (w *XLSXWriter) Write(_ context.Context, data []Sheet) error {
	f, err := BuildWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", w.path, err)
	}
	return nil
}

// BuildWorkbook renders sheets into an in-memory workbook with a bold, frozen header row.
func BuildWorkbook(data []Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for i, s := range data {
		if err := addSheet(f, i, s, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", s.Name, err)
		}
	}
	return f, nil
}

func addSheet(f *excelize.File, index int, s Sheet, headerStyle int) error {
	// A new workbook starts with one default sheet; reuse it for the first one.
	if index == 0 {
		if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(s.Name); err != nil {
		return err
	}

	for r, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
			return err
		}
	}

	if len(s.Rows) == 0 {
		return nil
	}
	if err := f.SetRowStyle(s.Name, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetPanes(s.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
