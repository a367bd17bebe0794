package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"free-rent/internal/models"
	"free-rent/internal/schema"
)

// WriteXLSX writes records as a single sheet named after the entity kind:
// a bold header row of column labels followed by one row per record.
func WriteXLSX[T models.Entity](w io.Writer, table *schema.Table, records []T) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := SheetName(table)
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, c := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, c.Spec.Label); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, columnWidth(c)); err != nil {
			return err
		}
	}

	for i, r := range records {
		for col, text := range table.Row(r) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(table.Columns[col], text)); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SheetName is the sheet title used for table.
func SheetName(table *schema.Table) string {
	return string(table.Kind)
}

// cellValue keeps numbers numeric so spreadsheets can sum them.
func cellValue(c *schema.Column, text string) any {
	if c.Type() == schema.TypeNumber && text != "" {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
	}
	return text
}

func columnWidth(c *schema.Column) float64 {
	switch {
	case c.Spec.Multiline:
		return 40
	case c.Type() == schema.TypeNumber, c.Type() == schema.TypeBoolean:
		return 12
	}
	return 20
}
