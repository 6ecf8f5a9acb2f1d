// Package workbook loads and saves table workbooks as .xlsx or .csv files.
package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/codeplug/internal/table"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat indicates a file extension other than .xlsx or .csv.
var ErrUnsupportedFormat = errors.New("unsupported file type")

const defaultSheet = "Sheet1"

// Load reads every sheet of path into memory. A csv file becomes a single
// sheet named csvSheet.
func Load(path, csvSheet string) (*table.Workbook, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return loadCSV(path, csvSheet)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// Save writes wb to path. An .xlsx output gets every sheet in workbook
// order; a csv output can hold only one sheet, so only sheet is written.
func Save(wb *table.Workbook, path, sheet string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		s, err := wb.Sheet(sheet)
		if err != nil {
			return err
		}
		return saveCSV(s, path)
	case ".xlsx":
		return saveXLSX(wb, path)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func loadCSV(path, sheet string) (*table.Workbook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	wb := table.NewWorkbook()
	if err := wb.AddSheet(table.FromRows(sheet, parseRows(records))); err != nil {
		return nil, err
	}
	return wb, nil
}

func loadXLSX(path string) (*table.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := table.NewWorkbook()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		cells, err := typedRows(f, name, rows)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		if err := wb.AddSheet(table.FromRows(name, cells)); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

// typedRows converts raw xlsx values using each cell's stored type, so text
// such as "007" stays text. Untyped and numeric cells go through table.Parse.
func typedRows(f *excelize.File, sheet string, records [][]string) ([][]table.Cell, error) {
	rows := make([][]table.Cell, len(records))
	for i, record := range records {
		row := make([]table.Cell, len(record))
		for j, raw := range record {
			if raw == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, ref)
			if err != nil {
				return nil, err
			}
			switch typ {
			case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
				row[j] = table.Text(raw)
			default:
				row[j] = table.Parse(raw)
			}
		}
		rows[i] = row
	}
	return rows, nil
}

// parseRows types csv records, which carry no cell types, by content.
func parseRows(records [][]string) [][]table.Cell {
	rows := make([][]table.Cell, len(records))
	for i, record := range records {
		row := make([]table.Cell, len(record))
		for j, raw := range record {
			row[j] = table.Parse(raw)
		}
		rows[i] = row
	}
	return rows
}

func saveCSV(s *table.Sheet, path string) error {
	outFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer outFile.Close()

	records := make([][]string, 0, s.Height())
	for _, row := range s.Rows() {
		record := make([]string, len(row))
		for i, c := range row {
			record[i] = c.String()
		}
		records = append(records, record)
	}

	writer := csv.NewWriter(outFile)
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return outFile.Close()
}

func saveXLSX(wb *table.Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range wb.Sheets() {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name()); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Name()); err != nil {
			return err
		}

		for r, row := range s.Rows() {
			values := make([]any, len(row))
			for j, c := range row {
				values[j] = c.Value()
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.Name(), cell, &values); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
